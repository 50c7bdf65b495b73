// Package api exposes the escalation engine over HTTP.
package api

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"go.uber.org/zap"

	"github.com/example/taskboard/internal/ports/primary"
)

// Server represents the API server
type Server struct {
	rules      primary.RuleService
	escalation primary.EscalationService
	stats      primary.StatsService
	logger     *zap.SugaredLogger
	router     chi.Router
}

// NewServer creates a new API server
func NewServer(rules primary.RuleService, escalation primary.EscalationService, stats primary.StatsService, logger *zap.SugaredLogger) *Server {
	if logger == nil {
		logger = zap.NewNop().Sugar()
	}
	s := &Server{
		rules:      rules,
		escalation: escalation,
		stats:      stats,
		logger:     logger,
		router:     chi.NewRouter(),
	}
	s.setupRoutes()
	return s
}

func (s *Server) setupRoutes() {
	r := s.router

	// Global middleware
	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(middleware.Recoverer)

	r.Get("/api/v1/health", s.HealthCheck)

	// Rules
	r.Get("/api/v1/rules", s.ListRules)
	r.Post("/api/v1/rules", s.CreateRule)
	r.Get("/api/v1/rules/{id}", s.GetRule)
	r.Put("/api/v1/rules/{id}", s.UpdateRule)
	r.Delete("/api/v1/rules/{id}", s.DeleteRule)

	// Escalation logs
	r.Get("/api/v1/logs", s.ListLogs)
	r.Get("/api/v1/logs/{id}", s.GetLog)

	// Sweeps and dashboards
	r.Post("/api/v1/escalations/trigger", s.TriggerSweep)
	r.Get("/api/v1/escalations/statistics", s.GetStatistics)
}

// Router returns the chi router for use with http.Server
func (s *Server) Router() http.Handler {
	return s.router
}
