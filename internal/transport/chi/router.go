package chi

import (
	"net/http"

	gochi "github.com/go-chi/chi/v5"
	chiMiddleware "github.com/go-chi/chi/v5/middleware"

	"github.com/kailas-cloud/fieldex/internal/metrics"
)

// NewRouter mounts the API routes of s behind recovery, request id,
// request logging, auth and metrics middleware. Empty apiKeys disables auth.
func NewRouter(s *Server, apiKeys []string) http.Handler {
	r := gochi.NewRouter()
	r.Use(jsonRecoverer(s.logger))
	r.Use(chiMiddleware.RequestID)
	r.Use(wideEventMiddleware(s.logger))
	r.Use(BearerAuthMiddleware(apiKeys))
	r.Use(metrics.Middleware())

	r.NotFound(func(w http.ResponseWriter, _ *http.Request) {
		writeError(w, http.StatusNotFound, CodeInvalidRequest, "route not found")
	})
	r.MethodNotAllowed(func(w http.ResponseWriter, _ *http.Request) {
		writeError(w, http.StatusMethodNotAllowed, CodeInvalidRequest, "method not allowed")
	})

	r.Route("/fields", func(r gochi.Router) {
		r.Post("/", s.CreateField)
		r.Get("/", s.ListFields)
		r.Post("/{field}/values", s.IndexValue)
		r.Get("/{field}/query", s.QueryField)
	})
	r.Post("/documents", s.IndexDocument)
	r.Get("/types", s.ListTypes)
	r.Get("/health", s.HealthCheck)
	r.Get("/metrics", s.Metrics)

	return r
}
