package handler

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"go.opentelemetry.io/otel"
	"go.uber.org/zap"

	"github.com/opsuite/bfa-go/internal/catalog"
	"github.com/opsuite/bfa-go/internal/domain"
	"github.com/opsuite/bfa-go/internal/infra/observability"
	"github.com/opsuite/bfa-go/internal/infra/resilience"
	"github.com/opsuite/bfa-go/internal/port"
	"github.com/opsuite/bfa-go/internal/service"
)

var tracer = otel.Tracer("handler")

// Options carries the optional router knobs. Zero value means no auth
// and no in-flight cap.
type Options struct {
	// JWTSecret enables bearer-token validation on /v1 when non-empty.
	JWTSecret string
	// Bulkhead caps concurrent requests when non-nil.
	Bulkhead *resilience.Bulkhead
}

// NewRouter creates the HTTP router with all routes and middleware.
// Routes follow the API contract for the OpSuite onboarding frontend.
func NewRouter(svc *service.ProfileService, cat *catalog.Catalog, previewCache port.Cache[[]domain.ModuleID], metrics *observability.Metrics, logger *zap.Logger, opts Options) http.Handler {
	r := chi.NewRouter()

	// --- Middleware ---
	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(observability.ZapLoggerMiddleware(logger))
	r.Use(observability.TracingMiddleware)
	r.Use(middleware.Recoverer)
	r.Use(middleware.Heartbeat("/ping"))
	if opts.Bulkhead != nil {
		r.Use(BulkheadMiddleware(opts.Bulkhead))
	}

	// --- Operational endpoints ---
	r.Get("/healthz", healthzHandler(svc))
	r.Get("/readyz", readyzHandler())
	r.Handle("/metrics", promhttp.HandlerFor(metrics.Registry, promhttp.HandlerOpts{}))

	// --- API v1 ---
	r.Route("/v1", func(r chi.Router) {
		if opts.JWTSecret != "" {
			r.Use(BearerAuthMiddleware(opts.JWTSecret, logger))
		}

		// Profile lifecycle
		r.Post("/profile", initializeProfileHandler(svc, logger))
		r.Get("/profile", getProfileHandler(svc, logger))
		r.Post("/profile/setup/complete", completeSetupHandler(svc, logger))
		r.Delete("/profile", resetProfileHandler(svc, logger))

		// Capability / infrastructure selection
		r.Post("/profile/capabilities/{capabilityId}/toggle", toggleCapabilityHandler(svc, logger))
		r.Put("/profile/capabilities", setCapabilitiesHandler(svc, logger))
		r.Post("/profile/infrastructure/{infrastructureId}/toggle", toggleInfrastructureHandler(svc, logger))
		r.Put("/profile/infrastructure", setInfrastructureHandler(svc, logger))

		// Derived state
		r.Get("/profile/features", getActiveFeaturesHandler(svc, logger))
		r.Get("/profile/modules", getActiveModulesHandler(svc, logger))

		// Pure previews / catalog
		r.Post("/modules/preview", previewModulesHandler(cat, previewCache, metrics, logger))
		r.Get("/catalog", getCatalogHandler(cat, logger))

		// Ops snapshot
		r.Get("/metrics/resolution", resolutionMetricsHandler(svc, metrics, logger))
	})

	return r
}

func healthzHandler(svc *service.ProfileService) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		writeJSON(w, http.StatusOK, map[string]any{
			"status":          "ok",
			"profile_loaded":  svc.Profile() != nil,
			"visible_modules": len(svc.ActiveModules()),
		})
	}
}

func readyzHandler() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		writeJSON(w, http.StatusOK, map[string]string{"status": "ready"})
	}
}
