package http

import (
	"log/slog"
	nethttp "net/http"
	"time"

	"github.com/go-chi/chi/v5"
	chimiddleware "github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"

	"github.com/Kaylacoelho/chalkboard-app/internal/http/handlers"
	"github.com/Kaylacoelho/chalkboard-app/internal/http/middleware"
	"github.com/Kaylacoelho/chalkboard-app/internal/http/requestutil"
	"github.com/Kaylacoelho/chalkboard-app/internal/metrics"
)

const requestTimeout = 15 * time.Second

// RouterOptions configures cross-cutting router behavior.
type RouterOptions struct {
	Logger         *slog.Logger
	Metrics        *metrics.Recorder
	AllowedOrigins []string
}

// NewRouter registers the dashboard API routes. admin may be nil.
func NewRouter(h *handlers.Handler, admin *handlers.AdminHandler, opts RouterOptions) nethttp.Handler {
	origins := opts.AllowedOrigins
	if len(origins) == 0 {
		origins = []string{"*"}
	}

	r := chi.NewRouter()
	r.Use(middleware.Logging(opts.Logger, opts.Metrics))
	r.Use(chimiddleware.Recoverer)
	r.Use(chimiddleware.Timeout(requestTimeout))
	r.Use(cors.Handler(cors.Options{
		AllowedOrigins: origins,
		AllowedMethods: []string{nethttp.MethodGet, nethttp.MethodPost, nethttp.MethodOptions},
		AllowedHeaders: []string{"Accept", "Authorization", "Content-Type", requestutil.HeaderRequestID},
		ExposedHeaders: []string{requestutil.HeaderRequestID},
		MaxAge:         300,
	}))

	r.Get("/health", h.Health)
	r.Get("/ready", h.Ready)
	r.Get("/dashboard", h.Dashboard)
	r.Get("/leagues", h.Leagues)
	r.Route("/games", func(r chi.Router) {
		r.Get("/", h.Games)
		r.Get("/{id}", h.GameByID)
		r.Get("/{id}/history", h.GameHistory)
	})
	r.Route("/best", func(r chi.Router) {
		r.Get("/bet", h.BestBet)
		r.Get("/live", h.BestLive)
	})
	if admin != nil {
		r.Post("/admin/refresh", admin.Refresh)
	}
	return r
}
