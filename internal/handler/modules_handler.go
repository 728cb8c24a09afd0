package handler

import (
	"net/http"
	"strings"

	"go.uber.org/zap"

	"github.com/opsuite/bfa-go/internal/catalog"
	"github.com/opsuite/bfa-go/internal/domain"
	"github.com/opsuite/bfa-go/internal/infra/observability"
	"github.com/opsuite/bfa-go/internal/port"
	"github.com/opsuite/bfa-go/internal/resolve"
	"github.com/opsuite/bfa-go/internal/service"
)

// ============================================================
// Module preview + metrics snapshot
// ============================================================

// previewModulesHandler resolves the module set for an arbitrary feature
// list without touching the profile. The UI uses it to preview navigation
// while the owner is still picking capabilities. Results are memoized in
// the TTL cache keyed by the feature list.
func previewModulesHandler(cat *catalog.Catalog, previewCache port.Cache[[]domain.ModuleID], metrics *observability.Metrics, logger *zap.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		_, span := tracer.Start(r.Context(), "POST /modules/preview")
		defer span.End()

		var body struct {
			Features []domain.FeatureID `json:"features"`
		}
		if err := decodeJSON(r, &body); err != nil {
			handleServiceError(w, err, logger)
			return
		}

		key := previewCacheKey(body.Features)
		if modules, ok := previewCache.Get(key); ok {
			metrics.IncrCacheHit("module_preview")
			writeJSON(w, http.StatusOK, map[string]any{"modules": modules})
			return
		}
		metrics.IncrCacheMiss("module_preview")

		modules := resolve.Modules(cat, body.Features)
		previewCache.Set(key, modules)
		writeJSON(w, http.StatusOK, map[string]any{"modules": modules})
	}
}

func previewCacheKey(features []domain.FeatureID) string {
	parts := make([]string, len(features))
	for i, f := range features {
		parts[i] = string(f)
	}
	return strings.Join(parts, ",")
}

// resolutionMetricsHandler returns a snapshot of resolution counters for
// the ops dashboard.
func resolutionMetricsHandler(svc *service.ProfileService, metrics *observability.Metrics, logger *zap.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		_, span := tracer.Start(r.Context(), "GET /metrics/resolution")
		defer span.End()

		profile := svc.Profile()
		snapshot := domain.ResolutionMetrics{
			TotalMutations:   metrics.MutationCount(),
			PersistErrors:    metrics.PersistErrorCount(),
			CacheHitRate:     metrics.CacheHitRate(),
			ActiveFeatures:   len(svc.ActiveFeatures()),
			ActiveModules:    len(svc.ActiveModules()),
			ProfileInitiated: profile != nil,
		}
		if profile != nil {
			snapshot.SetupCompleted = profile.SetupCompleted
		}
		writeJSON(w, http.StatusOK, snapshot)
	}
}
