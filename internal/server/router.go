package server

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"

	"github.com/johnlatif16/Story-stories/internal/auth"
	"github.com/johnlatif16/Story-stories/internal/config"
	storymiddleware "github.com/johnlatif16/Story-stories/internal/middleware"
	"github.com/johnlatif16/Story-stories/internal/services/stories"
	"github.com/johnlatif16/Story-stories/internal/services/upload"
)

// RouterOptions controls the construction of the HTTP router.
type RouterOptions struct {
	Service       *stories.Service
	Pipeline      *upload.Pipeline
	Authority     *auth.Authority
	Cfg           *config.Config
	AssetDir      string // when set, served read-only under /uploads/
	CORSOptions   *cors.Options
	Middleware    []func(http.Handler) http.Handler
	HealthHandler http.HandlerFunc
}

// DefaultCORSOptions returns the open CORS policy the public API ships with:
// any origin, the four verbs the API uses, and the auth headers.
func DefaultCORSOptions() cors.Options {
	return cors.Options{
		AllowedOrigins: []string{"*"},
		AllowedMethods: []string{http.MethodGet, http.MethodPost, http.MethodDelete, http.MethodOptions},
		AllowedHeaders: []string{"Content-Type", "Authorization"},
		MaxAge:         300,
	}
}

func defaultHealthHandler(w http.ResponseWriter, _ *http.Request) {
	writeJSON(w, http.StatusOK, map[string]bool{"ok": true})
}

// NewRouter assembles a chi.Router with shared middleware, CORS policy, and
// all story/auth/upload handlers mounted. Routes are registered both at the
// root and under /api so either prefix works.
func NewRouter(opts RouterOptions) chi.Router {
	r := chi.NewRouter()

	// Baseline middleware shared across entrypoints.
	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(middleware.Logger)
	r.Use(middleware.Recoverer)

	corsCfg := DefaultCORSOptions()
	if opts.CORSOptions != nil {
		corsCfg = *opts.CORSOptions
	}
	r.Use(cors.Handler(corsCfg))

	for _, mw := range opts.Middleware {
		if mw != nil {
			r.Use(mw)
		}
	}

	r.NotFound(func(w http.ResponseWriter, _ *http.Request) {
		writeError(w, http.StatusNotFound, "not found")
	})

	healthHandler := opts.HealthHandler
	if healthHandler == nil {
		healthHandler = defaultHealthHandler
	}

	requireAuth := storymiddleware.RequireAuth(opts.Authority)
	storyHandlers := NewStoryHandlers(opts.Service, opts.Pipeline, opts.Cfg.MaxUploadBytes)

	mount := func(r chi.Router) {
		r.Get("/health", healthHandler)
		r.Post("/login", HandleLogin(opts.Cfg, opts.Authority))
		r.Get("/stories", storyHandlers.List)

		// Protected routes.
		r.Group(func(r chi.Router) {
			r.Use(requireAuth)
			r.Get("/me", HandleMe())
			r.Post("/stories", storyHandlers.Create)
			r.Delete("/stories/{id}", storyHandlers.Delete)
			r.Post("/upload", HandleUpload(opts.Pipeline, opts.Cfg.MaxUploadBytes))
		})
	}

	mount(r)
	r.Route("/api", mount)

	if opts.AssetDir != "" {
		fs := http.StripPrefix("/uploads/", http.FileServer(http.Dir(opts.AssetDir)))
		r.Get("/uploads/*", fs.ServeHTTP)
	}

	return r
}
