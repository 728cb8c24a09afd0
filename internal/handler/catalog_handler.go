package handler

import (
	"net/http"

	"go.uber.org/zap"

	"github.com/opsuite/bfa-go/internal/catalog"
)

// getCatalogHandler lists the known capability and infrastructure ids so
// the onboarding UI can render the trait picker without hardcoding them.
func getCatalogHandler(cat *catalog.Catalog, logger *zap.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		_, span := tracer.Start(r.Context(), "GET /catalog")
		defer span.End()

		writeJSON(w, http.StatusOK, map[string]any{
			"capabilities":   cat.Capabilities(),
			"infrastructure": cat.Infrastructure(),
			"always_active":  cat.AlwaysActive(),
		})
	}
}
