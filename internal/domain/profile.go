package domain

import "time"

// ============================================================
// Business Profile
// ============================================================

// Profile is the persisted record of a business's identity and its
// selected capabilities and infrastructure traits. Exactly one profile
// exists per running instance; it is owned by the ProfileService.
type Profile struct {
	ID           string `json:"id"`
	BusinessName string `json:"business_name"`
	BusinessType string `json:"business_type,omitempty"`
	Email        string `json:"email,omitempty"`
	Phone        string `json:"phone,omitempty"`
	Country      string `json:"country,omitempty"`
	Currency     string `json:"currency,omitempty"`

	// Selection sets are unique and keep insertion order so that
	// re-resolution stays deterministic.
	SelectedCapabilities   []CapabilityID     `json:"selected_capabilities"`
	SelectedInfrastructure []InfrastructureID `json:"selected_infrastructure"`

	SetupCompleted         bool `json:"setup_completed"`
	IsFirstTimeInDashboard bool `json:"is_first_time_in_dashboard"`
	OnboardingStep         int  `json:"onboarding_step"`

	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// ProfileInput is the payload to initialize (or re-initialize) a profile.
// Identity fields are free-form; this core does not validate them.
type ProfileInput struct {
	BusinessName           string             `json:"business_name"`
	BusinessType           string             `json:"business_type,omitempty"`
	Email                  string             `json:"email,omitempty"`
	Phone                  string             `json:"phone,omitempty"`
	Country                string             `json:"country,omitempty"`
	Currency               string             `json:"currency,omitempty"`
	SelectedCapabilities   []CapabilityID     `json:"selected_capabilities"`
	SelectedInfrastructure []InfrastructureID `json:"selected_infrastructure"`
}

// ============================================================
// Persisted state envelope
// ============================================================

// StateEnvelope is the unit written to the key-value store after every
// mutation. The storage key carries a schema version suffix, so Version
// here is informational; ActiveFeatures is a cached derivation and is
// never treated as authoritative on load.
type StateEnvelope struct {
	Version int            `json:"version"`
	SavedAt time.Time      `json:"saved_at"`
	State   PersistedState `json:"state"`
}

// PersistedState holds the profile plus its cached derived feature set.
type PersistedState struct {
	Profile        *Profile    `json:"profile"`
	ActiveFeatures []FeatureID `json:"active_features"`
}

// StateVersion is the current envelope schema revision.
const StateVersion = 4
