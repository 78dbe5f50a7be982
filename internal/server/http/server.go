// Package httpserver provides the HTTP admin API for the records service.
package httpserver

import (
	"context"
	"encoding/json"
	"fmt"
	"net"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/rs/zerolog"
	"golang.org/x/time/rate"

	"github.com/mathops/records-service/internal/database"
	"github.com/mathops/records-service/internal/observability"
	"github.com/mathops/records-service/internal/repository"
	"github.com/mathops/records-service/internal/schema"
)

// HealthChecker reports database health. *database.DB implements it.
type HealthChecker interface {
	Health(ctx context.Context) database.HealthStatus
}

// Server is the HTTP admin API server.
type Server struct {
	router     chi.Router
	httpServer *http.Server
	pool       database.Pool
	health     HealthChecker
	store      *repository.Store
	repos      *repository.Repositories
	profiles   schema.Profiles
	limiter    *rate.Limiter
	metrics    *observability.Metrics
	logger     zerolog.Logger
}

// Config holds HTTP server configuration.
type Config struct {
	Address         string
	ReadTimeout     time.Duration
	WriteTimeout    time.Duration
	IdleTimeout     time.Duration
	ShutdownTimeout time.Duration
	// RateLimitRPS is the sustained request rate. Zero disables limiting.
	RateLimitRPS   float64
	RateLimitBurst int
}

// Deps are the collaborators the server runs against.
type Deps struct {
	Pool     database.Pool
	Health   HealthChecker
	Resolver schema.Resolver
	Profiles schema.Profiles
	Metrics  *observability.Metrics
	Logger   zerolog.Logger
}

// NewServer creates a new HTTP server with all dependencies.
func NewServer(cfg Config, deps Deps) *Server {
	store := repository.NewStore(deps.Pool, deps.Resolver, deps.Metrics)
	s := &Server{
		pool:     deps.Pool,
		health:   deps.Health,
		store:    store,
		repos:    store.Repositories(),
		profiles: deps.Profiles,
		metrics:  deps.Metrics,
		logger:   deps.Logger.With().Str("component", "http-server").Logger(),
	}
	if cfg.RateLimitRPS > 0 {
		burst := cfg.RateLimitBurst
		if burst < 1 {
			burst = 1
		}
		s.limiter = rate.NewLimiter(rate.Limit(cfg.RateLimitRPS), burst)
	}

	s.router = s.buildRouter()

	s.httpServer = &http.Server{
		Addr:         cfg.Address,
		Handler:      s.router,
		ReadTimeout:  cfg.ReadTimeout,
		WriteTimeout: cfg.WriteTimeout,
		IdleTimeout:  cfg.IdleTimeout,
	}

	return s
}

// Handler returns the router. Tests drive it through httptest.
func (s *Server) Handler() http.Handler {
	return s.router
}

// buildRouter creates the chi router with all middleware and routes.
func (s *Server) buildRouter() chi.Router {
	r := chi.NewRouter()

	// Global middleware
	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(middleware.Recoverer)
	r.Use(correlationIDMiddleware)
	r.Use(jsonContentTypeMiddleware)
	r.Use(s.metricsMiddleware)

	// Health endpoints (no rate limit)
	r.Get("/healthz", s.healthHandler)
	r.Get("/readyz", s.readinessHandler)

	r.Route("/api/v1", func(r chi.Router) {
		r.Use(s.rateLimitMiddleware)
		r.Use(s.profileMiddleware)

		r.Get("/students/{stuID}/exams", s.listStudentExams)
		r.Get("/students/{stuID}/placement/attempts", s.countPlacementAttempts)
		r.Get("/exams/history", s.examHistory)
		r.Get("/parameters/{pgmName}", s.getParameters)
		r.Put("/parameters/{pgmName}/parm/{n}", s.updateParameter)
		r.Get("/calendar", s.listCalendar)
		r.Delete("/homework/{serial}/answers", s.deleteHomeworkAnswers)
	})

	return r
}

// Start starts the HTTP server.
func (s *Server) Start() error {
	s.logger.Info().Str("address", s.httpServer.Addr).Msg("HTTP server starting")
	ln, err := net.Listen("tcp", s.httpServer.Addr)
	if err != nil {
		return fmt.Errorf("listen on HTTP address: %w", err)
	}
	return s.httpServer.Serve(ln)
}

// Shutdown gracefully shuts down the HTTP server.
func (s *Server) Shutdown(ctx context.Context) error {
	return s.httpServer.Shutdown(ctx)
}

// healthHandler returns basic liveness status.
func (s *Server) healthHandler(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

// readinessHandler reports whether the database is reachable.
func (s *Server) readinessHandler(w http.ResponseWriter, r *http.Request) {
	health := s.health.Health(r.Context())
	if health.Status != "healthy" {
		writeJSON(w, http.StatusServiceUnavailable, map[string]string{
			"status":   "not_ready",
			"database": health.Status,
			"error":    health.Error,
		})
		return
	}
	writeJSON(w, http.StatusOK, map[string]string{
		"status":   "ready",
		"database": "healthy",
	})
}

// writeJSON writes a JSON response with the given status code.
func writeJSON(w http.ResponseWriter, statusCode int, v interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(statusCode)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		// Best-effort; headers already sent.
		_ = err
	}
}

// writeError writes a JSON error response.
func writeError(w http.ResponseWriter, statusCode int, message string) {
	writeJSON(w, statusCode, map[string]string{
		"error": message,
	})
}
