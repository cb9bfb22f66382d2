package server

import (
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"

	"sales-dashboard/internal/config"
	"sales-dashboard/internal/errors"
	"sales-dashboard/internal/handlers"
	"sales-dashboard/internal/observability"
)

type Server struct {
	router      chi.Router
	logger      *slog.Logger
	apiHandlers *handlers.APIHandlers
	sseHandlers *handlers.SSEHandlers
}

// TemplateHandlers render the full pages.
type TemplateHandlers struct {
	Dashboard http.HandlerFunc
	RawData   http.HandlerFunc
}

func NewServer(dashboard handlers.DashboardService, cfg *config.Config, logger *slog.Logger, templateHandlers *TemplateHandlers) *Server {
	s := &Server{
		router:      chi.NewRouter(),
		logger:      logger,
		apiHandlers: handlers.NewAPIHandlers(dashboard, cfg.Export, logger),
		sseHandlers: handlers.NewSSEHandlers(dashboard, cfg.Export, logger),
	}
	s.setupRoutes(templateHandlers)
	return s
}

func (s *Server) setupRoutes(templateHandlers *TemplateHandlers) {
	r := s.router

	r.NotFound(func(w http.ResponseWriter, r *http.Request) {
		errors.WriteError(w, s.logger,
			errors.New(errors.CodeNotFound, "No route for "+r.URL.Path),
			observability.GetRequestID(r.Context()))
	})

	// Pages
	r.Get("/", templateHandlers.Dashboard)
	r.Get("/dados-brutos", templateHandlers.RawData)
	r.Get("/health", s.apiHandlers.HandleHealth)
	r.Get("/admin/stats", s.apiHandlers.HandleStats)

	r.Route("/api", func(r chi.Router) {
		r.Get("/dashboard", s.apiHandlers.HandleDashboard)
		r.Get("/raw", s.apiHandlers.HandleRaw)
		r.Get("/export", s.apiHandlers.HandleExport)
	})

	// Datastar SSE endpoints
	r.Route("/sse", func(r chi.Router) {
		r.Get("/dashboard", s.sseHandlers.HandleDashboard)
		r.Get("/raw", s.sseHandlers.HandleRaw)
		r.Get("/export-notice", s.sseHandlers.HandleExportNotice)
	})
}

func (s *Server) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	s.router.ServeHTTP(w, r)
}
