package handler

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"go.uber.org/zap"

	"github.com/opsuite/bfa-go/internal/domain"
	"github.com/opsuite/bfa-go/internal/service"
)

// ============================================================
// Profile lifecycle handlers
// ============================================================

func initializeProfileHandler(svc *service.ProfileService, logger *zap.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		ctx, span := tracer.Start(r.Context(), "POST /profile")
		defer span.End()

		var in domain.ProfileInput
		if err := decodeJSON(r, &in); err != nil {
			handleServiceError(w, err, logger)
			return
		}

		profile, err := svc.InitializeProfile(ctx, in)
		if err != nil {
			handleServiceError(w, err, logger)
			return
		}
		writeJSON(w, http.StatusCreated, map[string]any{
			"profile":         profile,
			"active_features": svc.ActiveFeatures(),
		})
	}
}

func getProfileHandler(svc *service.ProfileService, logger *zap.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		_, span := tracer.Start(r.Context(), "GET /profile")
		defer span.End()

		profile := svc.Profile()
		if profile == nil {
			handleServiceError(w, &domain.ErrNotFound{Resource: "profile", ID: "current"}, logger)
			return
		}
		writeJSON(w, http.StatusOK, map[string]any{
			"profile":         profile,
			"active_features": svc.ActiveFeatures(),
		})
	}
}

func completeSetupHandler(svc *service.ProfileService, logger *zap.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		ctx, span := tracer.Start(r.Context(), "POST /profile/setup/complete")
		defer span.End()

		if err := svc.CompleteSetup(ctx); err != nil {
			handleServiceError(w, err, logger)
			return
		}
		writeJSON(w, http.StatusOK, map[string]any{"profile": svc.Profile()})
	}
}

func resetProfileHandler(svc *service.ProfileService, logger *zap.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		ctx, span := tracer.Start(r.Context(), "DELETE /profile")
		defer span.End()

		if err := svc.ResetProfile(ctx); err != nil {
			handleServiceError(w, err, logger)
			return
		}
		w.WriteHeader(http.StatusNoContent)
	}
}

// ============================================================
// Capability / infrastructure handlers
// ============================================================

func toggleCapabilityHandler(svc *service.ProfileService, logger *zap.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		ctx, span := tracer.Start(r.Context(), "POST /profile/capabilities/{capabilityId}/toggle")
		defer span.End()

		id := domain.CapabilityID(chi.URLParam(r, "capabilityId"))
		features, err := svc.ToggleCapability(ctx, id)
		if err != nil {
			handleServiceError(w, err, logger)
			return
		}
		writeJSON(w, http.StatusOK, map[string]any{
			"active_features": features,
			"active_modules":  svc.ActiveModules(),
		})
	}
}

func toggleInfrastructureHandler(svc *service.ProfileService, logger *zap.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		ctx, span := tracer.Start(r.Context(), "POST /profile/infrastructure/{infrastructureId}/toggle")
		defer span.End()

		id := domain.InfrastructureID(chi.URLParam(r, "infrastructureId"))
		features, err := svc.ToggleInfrastructure(ctx, id)
		if err != nil {
			handleServiceError(w, err, logger)
			return
		}
		writeJSON(w, http.StatusOK, map[string]any{
			"active_features": features,
			"active_modules":  svc.ActiveModules(),
		})
	}
}

func setCapabilitiesHandler(svc *service.ProfileService, logger *zap.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		ctx, span := tracer.Start(r.Context(), "PUT /profile/capabilities")
		defer span.End()

		var body struct {
			Capabilities []domain.CapabilityID `json:"capabilities"`
		}
		if err := decodeJSON(r, &body); err != nil {
			handleServiceError(w, err, logger)
			return
		}

		features, err := svc.SetCapabilities(ctx, body.Capabilities)
		if err != nil {
			handleServiceError(w, err, logger)
			return
		}
		writeJSON(w, http.StatusOK, map[string]any{
			"active_features": features,
			"active_modules":  svc.ActiveModules(),
		})
	}
}

func setInfrastructureHandler(svc *service.ProfileService, logger *zap.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		ctx, span := tracer.Start(r.Context(), "PUT /profile/infrastructure")
		defer span.End()

		var body struct {
			Infrastructure []domain.InfrastructureID `json:"infrastructure"`
		}
		if err := decodeJSON(r, &body); err != nil {
			handleServiceError(w, err, logger)
			return
		}

		features, err := svc.SetInfrastructure(ctx, body.Infrastructure)
		if err != nil {
			handleServiceError(w, err, logger)
			return
		}
		writeJSON(w, http.StatusOK, map[string]any{
			"active_features": features,
			"active_modules":  svc.ActiveModules(),
		})
	}
}

// ============================================================
// Derived-state read handlers
// ============================================================

func getActiveFeaturesHandler(svc *service.ProfileService, logger *zap.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		_, span := tracer.Start(r.Context(), "GET /profile/features")
		defer span.End()

		writeJSON(w, http.StatusOK, map[string]any{
			"active_features": svc.ActiveFeatures(),
		})
	}
}

func getActiveModulesHandler(svc *service.ProfileService, logger *zap.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		_, span := tracer.Start(r.Context(), "GET /profile/modules")
		defer span.End()

		writeJSON(w, http.StatusOK, map[string]any{
			"active_modules": svc.ActiveModules(),
		})
	}
}
