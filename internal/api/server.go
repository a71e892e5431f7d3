package api

import (
	"log/slog"
	"net/http"

	"github.com/dgallion1/tokmesh/internal/cache"
	"github.com/dgallion1/tokmesh/internal/config"
	"github.com/dgallion1/tokmesh/internal/stats"
	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
)

// Server is the HTTP API server for tokmesh.
type Server struct {
	router chi.Router
	cache  *cache.ResultCache
	stats  *stats.Tracker
	log    *slog.Logger
	cfg    config.Config
}

// NewServer creates and configures the HTTP server.
func NewServer(c *cache.ResultCache, tracker *stats.Tracker, log *slog.Logger, cfg config.Config) *Server {
	s := &Server{
		cache: c,
		stats: tracker,
		log:   log,
		cfg:   cfg,
	}
	s.setupRoutes()
	return s
}

func (s *Server) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	s.router.ServeHTTP(w, r)
}

func (s *Server) setupRoutes() {
	r := chi.NewRouter()
	r.Use(middleware.Recoverer)
	r.Use(middleware.RequestID)
	r.Use(RequestLogger(s.log))

	// Public endpoints.
	r.Get("/health", s.handleHealth)

	// Authenticated endpoints.
	r.Group(func(r chi.Router) {
		r.Use(AuthMiddleware(s.cfg.APIKey))

		r.Post("/api/pairs", s.handlePairs)
		r.Post("/api/pairs/batch", s.handleBatchPairs)
		r.Get("/api/stats", s.handleStats)
	})

	s.router = r
}

func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "application/json")
	w.Write([]byte(`{"status":"ok"}`))
}
