package domain

import "fmt"

// Error types for consistent error handling across the BFA. The taxonomy
// is deliberately small: the availability core is pure and config-driven,
// so most failures are either call-ordering mistakes or persistence I/O.

// ErrNoProfile indicates a mutator was called before any profile exists.
// Mutators treat this as a safe no-op at the state level; the error only
// informs the caller that nothing happened.
type ErrNoProfile struct {
	Operation string
}

func (e *ErrNoProfile) Error() string {
	return fmt.Sprintf("no profile initialized: %s", e.Operation)
}

// ErrNotFound indicates a resource was not found.
type ErrNotFound struct {
	Resource string
	ID       string
}

func (e *ErrNotFound) Error() string {
	return fmt.Sprintf("%s not found: %s", e.Resource, e.ID)
}

// ErrValidation indicates a validation error (bad input).
type ErrValidation struct {
	Field   string
	Message string
}

func (e *ErrValidation) Error() string {
	return fmt.Sprintf("validation error on '%s': %s", e.Field, e.Message)
}

// ErrPersistence indicates a failure writing or reading the state store.
// The in-memory state is never rolled back because of one.
type ErrPersistence struct {
	Op  string
	Err error
}

func (e *ErrPersistence) Error() string {
	return fmt.Sprintf("persistence error [%s]: %v", e.Op, e.Err)
}

func (e *ErrPersistence) Unwrap() error {
	return e.Err
}

// ErrUnauthorized indicates invalid credentials or token.
type ErrUnauthorized struct {
	Message string
}

func (e *ErrUnauthorized) Error() string {
	if e.Message != "" {
		return e.Message
	}
	return "unauthorized"
}
