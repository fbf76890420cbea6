package chi

import (
	"net/http"

	chiRouter "github.com/go-chi/chi/v5"
	chiMiddleware "github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/kailas-cloud/mediacat/internal/metrics"
	uploaduc "github.com/kailas-cloud/mediacat/internal/usecase/upload"
)

// RouterConfig holds router-level settings.
type RouterConfig struct {
	CORSOrigins []string
}

// NewRouter mounts the API routes and the middleware stack.
func NewRouter(s *Server, cfg RouterConfig) http.Handler {
	r := chiRouter.NewRouter()
	r.Use(jsonRecoverer(s.logger))
	r.Use(chiMiddleware.RequestID)
	r.Use(wideEventMiddleware(s.logger))
	r.Use(cors.Handler(cors.Options{
		AllowedOrigins: cfg.CORSOrigins,
		AllowedMethods: []string{
			http.MethodGet, http.MethodPost, http.MethodPut,
			http.MethodPatch, http.MethodDelete, http.MethodOptions,
		},
		AllowedHeaders: []string{"Accept", "Content-Type", "X-Request-ID"},
		ExposedHeaders: []string{"X-Request-ID"},
		MaxAge:         300,
	}))
	r.Use(metrics.Middleware())

	r.NotFound(func(w http.ResponseWriter, _ *http.Request) {
		writeError(w, http.StatusNotFound, CodeNotFound, "route not found")
	})
	r.MethodNotAllowed(func(w http.ResponseWriter, _ *http.Request) {
		writeError(w, http.StatusMethodNotAllowed, CodeBadRequest, "method not allowed")
	})

	r.Get("/query", s.Query)
	r.Route("/records", func(r chiRouter.Router) {
		r.Get("/", s.Query)
		r.Post("/", s.CreateRecord)
		r.Get("/{id}", s.GetRecord)
		r.Put("/{id}", s.UpdateRecord)
		r.Patch("/{id}", s.UpdateRecord)
		r.Delete("/{id}", s.DeleteRecord)
	})
	r.Get("/home", s.Home)
	r.Post("/upload", s.Upload)
	if s.uploads != nil {
		files := http.StripPrefix(uploaduc.RoutePrefix, http.FileServer(http.Dir(s.uploads.Dir())))
		r.Handle(uploaduc.RoutePrefix+"*", noDirListing(files))
	}
	r.Get("/health", s.Health)
	r.Handle("/metrics", promhttp.Handler())

	return r
}
