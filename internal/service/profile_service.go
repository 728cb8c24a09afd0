// Package service provides the business logic layer (use cases).
// ProfileService is the profile state container: it owns the single
// business profile, applies lifecycle mutations, and keeps the derived
// feature set consistent with the selected capabilities after each one.
package service

import (
	"context"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/sony/gobreaker"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.uber.org/zap"

	"github.com/opsuite/bfa-go/internal/catalog"
	"github.com/opsuite/bfa-go/internal/domain"
	"github.com/opsuite/bfa-go/internal/infra/observability"
	"github.com/opsuite/bfa-go/internal/infra/resilience"
	"github.com/opsuite/bfa-go/internal/port"
	"github.com/opsuite/bfa-go/internal/resolve"
)

var profileTracer = otel.Tracer("service/profile")

// ProfileService owns the profile state. Every mutation is one atomic
// transition under the lock: mutate the selection sets, fully recompute
// the derived feature list from them (never an incremental patch), then
// persist the whole envelope best-effort. Derived state is cached for
// reads but always re-derivable from the profile alone, so repeated
// toggling can never accumulate stale entries.
type ProfileService struct {
	mu sync.Mutex

	cat    *catalog.Catalog
	store  port.ProfileStore
	cb     *gobreaker.CircuitBreaker
	rcfg   resilience.Config
	metric *observability.Metrics
	logger *zap.Logger

	profile  *domain.Profile
	features []domain.FeatureID
}

// NewProfileService creates the profile state container.
func NewProfileService(cat *catalog.Catalog, store port.ProfileStore, cb *gobreaker.CircuitBreaker, rcfg resilience.Config, metrics *observability.Metrics, logger *zap.Logger) *ProfileService {
	return &ProfileService{
		cat:      cat,
		store:    store,
		cb:       cb,
		rcfg:     rcfg,
		metric:   metrics,
		logger:   logger,
		features: []domain.FeatureID{},
	}
}

// ============================================================
// Lifecycle
// ============================================================

// InitializeProfile constructs a new profile from the given fields and
// derives its feature set. Any prior profile is overwritten
// unconditionally; there are no merge semantics. Empty selection lists
// are valid and yield an empty feature set.
func (s *ProfileService) InitializeProfile(ctx context.Context, in domain.ProfileInput) (*domain.Profile, error) {
	ctx, span := profileTracer.Start(ctx, "ProfileService.InitializeProfile")
	defer span.End()

	now := time.Now().UTC()
	p := &domain.Profile{
		ID:                     uuid.NewString(),
		BusinessName:           in.BusinessName,
		BusinessType:           in.BusinessType,
		Email:                  in.Email,
		Phone:                  in.Phone,
		Country:                in.Country,
		Currency:               in.Currency,
		SelectedCapabilities:   dedupeCapabilities(in.SelectedCapabilities),
		SelectedInfrastructure: dedupeInfrastructure(in.SelectedInfrastructure),
		SetupCompleted:         false,
		OnboardingStep:         0,
		CreatedAt:              now,
		UpdatedAt:              now,
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	s.profile = p
	s.recomputeLocked("initialize")
	s.persistLocked(ctx)

	span.SetAttributes(
		attribute.String("profile.id", p.ID),
		attribute.Int("profile.capabilities", len(p.SelectedCapabilities)),
		attribute.Int("profile.features", len(s.features)),
	)
	s.logger.Info("profile initialized",
		zap.String("profile_id", p.ID),
		zap.String("business_name", p.BusinessName),
		zap.Int("capabilities", len(p.SelectedCapabilities)),
		zap.Int("infrastructure", len(p.SelectedInfrastructure)),
		zap.Int("active_features", len(s.features)),
	)
	return copyProfile(p), nil
}

// CompleteSetup marks onboarding as finished. Capabilities and derived
// features are untouched.
func (s *ProfileService) CompleteSetup(ctx context.Context) error {
	ctx, span := profileTracer.Start(ctx, "ProfileService.CompleteSetup")
	defer span.End()

	s.mu.Lock()
	defer s.mu.Unlock()

	if s.profile == nil {
		return &domain.ErrNoProfile{Operation: "complete_setup"}
	}

	s.profile.SetupCompleted = true
	s.profile.IsFirstTimeInDashboard = true
	s.profile.OnboardingStep = 1
	s.profile.UpdatedAt = time.Now().UTC()
	s.metric.IncrMutation("complete_setup")
	s.persistLocked(ctx)

	s.logger.Info("profile setup completed", zap.String("profile_id", s.profile.ID))
	return nil
}

// ResetProfile drops the profile and clears derived state. Idempotent:
// callable any number of times, including before any profile exists.
func (s *ProfileService) ResetProfile(ctx context.Context) error {
	ctx, span := profileTracer.Start(ctx, "ProfileService.ResetProfile")
	defer span.End()

	s.mu.Lock()
	defer s.mu.Unlock()

	s.profile = nil
	s.features = []domain.FeatureID{}
	s.metric.IncrMutation("reset")
	s.metric.SetDerivedSizes(0, len(s.cat.AlwaysActive()))
	s.persistLocked(ctx)

	s.logger.Info("profile reset")
	return nil
}

// Restore loads persisted state at startup. The stored feature list is
// ignored as a source of truth: features are recomputed from the restored
// selections so a catalog change between runs cannot leave stale entries.
func (s *ProfileService) Restore(ctx context.Context) error {
	ctx, span := profileTracer.Start(ctx, "ProfileService.Restore")
	defer span.End()

	env, err := s.store.Load(ctx)
	if err != nil {
		return err
	}
	if env == nil || env.State.Profile == nil {
		s.logger.Info("no persisted profile state found")
		return nil
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	s.profile = env.State.Profile
	s.recomputeLocked("restore")

	s.logger.Info("profile state restored",
		zap.String("profile_id", s.profile.ID),
		zap.Time("saved_at", env.SavedAt),
		zap.Int("active_features", len(s.features)),
	)
	return nil
}

// ============================================================
// Capability / infrastructure mutation
// ============================================================

// ToggleCapability adds the capability when absent and removes it when
// present, then fully recomputes the feature set. A feature shared with
// another still-selected trait survives removal; removing the last
// provider removes the feature. Safe no-op before initialization.
func (s *ProfileService) ToggleCapability(ctx context.Context, id domain.CapabilityID) ([]domain.FeatureID, error) {
	ctx, span := profileTracer.Start(ctx, "ProfileService.ToggleCapability")
	defer span.End()
	span.SetAttributes(attribute.String("capability.id", string(id)))

	s.mu.Lock()
	defer s.mu.Unlock()

	if s.profile == nil {
		return nil, &domain.ErrNoProfile{Operation: "toggle_capability"}
	}

	s.profile.SelectedCapabilities = toggleID(s.profile.SelectedCapabilities, id)
	s.profile.UpdatedAt = time.Now().UTC()
	if s.cat.FeaturesFor(string(id)) == nil {
		s.logger.Debug("toggled capability unknown to catalog", zap.String("capability", string(id)))
	}
	s.recomputeLocked("toggle_capability")
	s.persistLocked(ctx)

	return s.featuresCopyLocked(), nil
}

// ToggleInfrastructure is ToggleCapability for operating-topology traits.
func (s *ProfileService) ToggleInfrastructure(ctx context.Context, id domain.InfrastructureID) ([]domain.FeatureID, error) {
	ctx, span := profileTracer.Start(ctx, "ProfileService.ToggleInfrastructure")
	defer span.End()
	span.SetAttributes(attribute.String("infrastructure.id", string(id)))

	s.mu.Lock()
	defer s.mu.Unlock()

	if s.profile == nil {
		return nil, &domain.ErrNoProfile{Operation: "toggle_infrastructure"}
	}

	s.profile.SelectedInfrastructure = toggleID(s.profile.SelectedInfrastructure, id)
	s.profile.UpdatedAt = time.Now().UTC()
	if s.cat.FeaturesFor(string(id)) == nil {
		s.logger.Debug("toggled infrastructure unknown to catalog", zap.String("infrastructure", string(id)))
	}
	s.recomputeLocked("toggle_infrastructure")
	s.persistLocked(ctx)

	return s.featuresCopyLocked(), nil
}

// SetCapabilities replaces the capability selection wholesale. No union
// with the prior selection.
func (s *ProfileService) SetCapabilities(ctx context.Context, ids []domain.CapabilityID) ([]domain.FeatureID, error) {
	ctx, span := profileTracer.Start(ctx, "ProfileService.SetCapabilities")
	defer span.End()

	s.mu.Lock()
	defer s.mu.Unlock()

	if s.profile == nil {
		return nil, &domain.ErrNoProfile{Operation: "set_capabilities"}
	}

	s.profile.SelectedCapabilities = dedupeCapabilities(ids)
	s.profile.UpdatedAt = time.Now().UTC()
	s.recomputeLocked("set_capabilities")
	s.persistLocked(ctx)

	return s.featuresCopyLocked(), nil
}

// SetInfrastructure replaces the infrastructure selection wholesale.
func (s *ProfileService) SetInfrastructure(ctx context.Context, ids []domain.InfrastructureID) ([]domain.FeatureID, error) {
	ctx, span := profileTracer.Start(ctx, "ProfileService.SetInfrastructure")
	defer span.End()

	s.mu.Lock()
	defer s.mu.Unlock()

	if s.profile == nil {
		return nil, &domain.ErrNoProfile{Operation: "set_infrastructure"}
	}

	s.profile.SelectedInfrastructure = dedupeInfrastructure(ids)
	s.profile.UpdatedAt = time.Now().UTC()
	s.recomputeLocked("set_infrastructure")
	s.persistLocked(ctx)

	return s.featuresCopyLocked(), nil
}

// ============================================================
// Read accessors
// ============================================================

// Profile returns a copy of the current profile, or nil before
// initialization.
func (s *ProfileService) Profile() *domain.Profile {
	s.mu.Lock()
	defer s.mu.Unlock()
	return copyProfile(s.profile)
}

// ActiveFeatures returns the derived feature list as of the last
// completed mutation.
func (s *ProfileService) ActiveFeatures() []domain.FeatureID {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.featuresCopyLocked()
}

// ActiveModules derives the visible module set from the active features.
// The always-active modules are present even with a nil or empty profile.
func (s *ProfileService) ActiveModules() []domain.ModuleID {
	s.mu.Lock()
	features := s.features
	s.mu.Unlock()
	return resolve.Modules(s.cat, features)
}

// ============================================================
// Internal
// ============================================================

// recomputeLocked rederives the feature set from the current selections.
// Callers hold s.mu.
func (s *ProfileService) recomputeLocked(operation string) {
	start := time.Now()
	if s.profile == nil {
		s.features = []domain.FeatureID{}
	} else {
		s.features = resolve.Features(s.cat, s.profile.SelectedCapabilities, s.profile.SelectedInfrastructure)
	}
	s.metric.RecordResolutionDuration(operation, time.Since(start))
	if operation != "restore" {
		s.metric.IncrMutation(operation)
	}
	s.metric.SetDerivedSizes(len(s.features), len(resolve.Modules(s.cat, s.features)))
}

// persistLocked writes the full state envelope through the circuit
// breaker with retries. Failures are counted and logged but never roll
// back the in-memory transition. Callers hold s.mu.
func (s *ProfileService) persistLocked(ctx context.Context) {
	env := &domain.StateEnvelope{
		Version: domain.StateVersion,
		SavedAt: time.Now().UTC(),
		State: domain.PersistedState{
			Profile:        copyProfile(s.profile),
			ActiveFeatures: s.featuresCopyLocked(),
		},
	}

	_, err := s.cb.Execute(func() (any, error) {
		return nil, resilience.RetryWithBackoff(ctx, s.rcfg, func() error {
			if env.State.Profile == nil {
				return s.store.Clear(ctx)
			}
			return s.store.Save(ctx, env)
		})
	})
	if err != nil {
		s.metric.IncrPersistError()
		s.logger.Warn("profile state persist failed", zap.Error(err))
	}
}

func (s *ProfileService) featuresCopyLocked() []domain.FeatureID {
	out := make([]domain.FeatureID, len(s.features))
	copy(out, s.features)
	return out
}

// toggleID removes id when present, otherwise appends it. Order of the
// remaining ids is preserved.
func toggleID[T comparable](ids []T, id T) []T {
	for i, existing := range ids {
		if existing == id {
			return append(ids[:i:i], ids[i+1:]...)
		}
	}
	return append(ids, id)
}

func dedupeCapabilities(ids []domain.CapabilityID) []domain.CapabilityID {
	out := make([]domain.CapabilityID, 0, len(ids))
	seen := make(map[domain.CapabilityID]bool, len(ids))
	for _, id := range ids {
		if !seen[id] {
			seen[id] = true
			out = append(out, id)
		}
	}
	return out
}

func dedupeInfrastructure(ids []domain.InfrastructureID) []domain.InfrastructureID {
	out := make([]domain.InfrastructureID, 0, len(ids))
	seen := make(map[domain.InfrastructureID]bool, len(ids))
	for _, id := range ids {
		if !seen[id] {
			seen[id] = true
			out = append(out, id)
		}
	}
	return out
}

func copyProfile(p *domain.Profile) *domain.Profile {
	if p == nil {
		return nil
	}
	cp := *p
	cp.SelectedCapabilities = append([]domain.CapabilityID(nil), p.SelectedCapabilities...)
	cp.SelectedInfrastructure = append([]domain.InfrastructureID(nil), p.SelectedInfrastructure...)
	return &cp
}
