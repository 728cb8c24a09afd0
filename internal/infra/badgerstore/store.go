// Package badgerstore persists the profile state envelope in an embedded
// BadgerDB key-value store. The whole state is one JSON value under a
// versioned key, so incompatible schema revisions never get misread: a
// new revision simply finds no state and starts clean.
package badgerstore

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	badger "github.com/dgraph-io/badger/v4"
	"go.uber.org/zap"

	"github.com/opsuite/bfa-go/internal/domain"
)

// stateKey carries the envelope schema revision. Bump the suffix together
// with domain.StateVersion when the persisted shape changes.
const stateKey = "opsuite/profile-state-v4"

// Config holds store configuration.
type Config struct {
	// Path is the directory for the Badger files. Ignored when InMemory.
	Path string
	// InMemory disables disk persistence. Used by tests.
	InMemory bool
	// SyncWrites makes every write durable before returning.
	SyncWrites bool
}

// Store is a ProfileStore backed by BadgerDB.
type Store struct {
	db     *badger.DB
	logger *zap.Logger
}

// Open creates the store, opening (or creating) the database directory.
// Callers must Close it on shutdown.
func Open(cfg Config, logger *zap.Logger) (*Store, error) {
	path := cfg.Path
	if cfg.InMemory {
		path = "" // badger requires an empty dir in in-memory mode
	}
	opts := badger.DefaultOptions(path).
		WithInMemory(cfg.InMemory).
		WithSyncWrites(cfg.SyncWrites).
		WithNumVersionsToKeep(1).
		WithLogger(&badgerLogger{logger: logger.Named("badger")})

	db, err := badger.Open(opts)
	if err != nil {
		return nil, fmt.Errorf("badgerstore: open %s: %w", cfg.Path, err)
	}
	return &Store{db: db, logger: logger}, nil
}

// Close releases the database.
func (s *Store) Close() error {
	return s.db.Close()
}

// Save writes the envelope under the versioned state key.
func (s *Store) Save(ctx context.Context, env *domain.StateEnvelope) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	data, err := json.Marshal(env)
	if err != nil {
		return &domain.ErrPersistence{Op: "save", Err: err}
	}

	err = s.db.Update(func(txn *badger.Txn) error {
		return txn.Set([]byte(stateKey), data)
	})
	if err != nil {
		return &domain.ErrPersistence{Op: "save", Err: err}
	}
	return nil
}

// Load reads the envelope, or returns (nil, nil) when no state is stored
// under the current schema key.
func (s *Store) Load(ctx context.Context) (*domain.StateEnvelope, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	var env *domain.StateEnvelope
	err := s.db.View(func(txn *badger.Txn) error {
		item, err := txn.Get([]byte(stateKey))
		if errors.Is(err, badger.ErrKeyNotFound) {
			return nil
		}
		if err != nil {
			return err
		}
		return item.Value(func(val []byte) error {
			var e domain.StateEnvelope
			if err := json.Unmarshal(val, &e); err != nil {
				return err
			}
			env = &e
			return nil
		})
	})
	if err != nil {
		return nil, &domain.ErrPersistence{Op: "load", Err: err}
	}
	return env, nil
}

// Clear removes the stored state. Clearing absent state is not an error.
func (s *Store) Clear(ctx context.Context) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	err := s.db.Update(func(txn *badger.Txn) error {
		return txn.Delete([]byte(stateKey))
	})
	if err != nil {
		return &domain.ErrPersistence{Op: "clear", Err: err}
	}
	return nil
}

// badgerLogger adapts zap to Badger's Logger interface.
type badgerLogger struct {
	logger *zap.Logger
}

func (l *badgerLogger) Errorf(format string, args ...interface{}) {
	l.logger.Error(fmt.Sprintf(format, args...))
}

func (l *badgerLogger) Warningf(format string, args ...interface{}) {
	l.logger.Warn(fmt.Sprintf(format, args...))
}

func (l *badgerLogger) Infof(format string, args ...interface{}) {
	l.logger.Debug(fmt.Sprintf(format, args...))
}

func (l *badgerLogger) Debugf(format string, args ...interface{}) {
	l.logger.Debug(fmt.Sprintf(format, args...))
}
