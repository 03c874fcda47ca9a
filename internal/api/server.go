package api

import (
	"log/slog"
	"net/http"

	"github.com/dgallion1/readinglist/internal/config"
	"github.com/dgallion1/readinglist/internal/pipeline"
	"github.com/dgallion1/readinglist/internal/stats"
	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
)

// Server is the HTTP API server for readinglist.
type Server struct {
	router    chi.Router
	converter *pipeline.Converter
	results   *pipeline.ResultStore
	stats     *stats.Conversions
	log       *slog.Logger
	cfg       config.Config
}

// NewServer creates and configures the HTTP server.
func NewServer(conv *pipeline.Converter, results *pipeline.ResultStore, st *stats.Conversions, log *slog.Logger, cfg config.Config) *Server {
	s := &Server{
		converter: conv,
		results:   results,
		stats:     st,
		log:       log,
		cfg:       cfg,
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

	// Authenticated endpoints when an API key is configured.
	r.Group(func(r chi.Router) {
		r.Use(AuthMiddleware(s.cfg.APIKey, s.log))

		r.Post("/api/parse", s.handleParse)
		r.Get("/api/results/{docID}", s.handleGetResult)
		r.Get("/api/stats", s.handleStats)
	})

	s.router = r
}

func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "application/json")
	w.Write([]byte(`{"status":"ok"}`))
}
