package handlers

import (
	"context"
	"log/slog"
	"mime"
	"net/http"
	"strconv"
	"time"

	"sales-dashboard/internal/config"
	"sales-dashboard/internal/errors"
	"sales-dashboard/internal/models"
	"sales-dashboard/internal/observability"
	"sales-dashboard/internal/services"
)

const version = "1.0.0"

// DashboardService builds the views served by the handlers.
type DashboardService interface {
	Build(ctx context.Context, req services.DashboardRequest) (*models.DashboardView, error)
	Raw(ctx context.Context, req services.RawRequest) (*models.RawView, error)
	Export(ctx context.Context, req services.RawRequest) ([]byte, error)
	Stats() map[string]any
}

type APIHandlers struct {
	dashboard DashboardService
	export    config.ExportConfig
	logger    *slog.Logger
}

func NewAPIHandlers(dashboard DashboardService, export config.ExportConfig, logger *slog.Logger) *APIHandlers {
	return &APIHandlers{
		dashboard: dashboard,
		export:    export,
		logger:    logger,
	}
}

func (h *APIHandlers) HandleDashboard(w http.ResponseWriter, r *http.Request) {
	requestID := observability.GetRequestID(r.Context())

	req, err := parseDashboardRequest(r.URL.Query())
	if err != nil {
		errors.WriteError(w, h.logger, err, requestID)
		return
	}

	view, err := h.dashboard.Build(r.Context(), req)
	if err != nil {
		errors.WriteError(w, h.logger, err, requestID)
		return
	}

	errors.WriteSuccessWithHeaders(w, view, map[string]string{"Cache-Control": "no-store"})
}

func (h *APIHandlers) HandleRaw(w http.ResponseWriter, r *http.Request) {
	requestID := observability.GetRequestID(r.Context())

	req, err := parseRawRequest(r.URL.Query())
	if err != nil {
		errors.WriteError(w, h.logger, err, requestID)
		return
	}

	view, err := h.dashboard.Raw(r.Context(), req)
	if err != nil {
		errors.WriteError(w, h.logger, err, requestID)
		return
	}

	errors.WriteSuccessWithHeaders(w, view, map[string]string{"Cache-Control": "no-store"})
}

// HandleExport streams the filtered raw table as a CSV attachment.
func (h *APIHandlers) HandleExport(w http.ResponseWriter, r *http.Request) {
	requestID := observability.GetRequestID(r.Context())
	params := r.URL.Query()

	req, err := parseRawRequest(params)
	if err != nil {
		errors.WriteError(w, h.logger, err, requestID)
		return
	}

	data, err := h.dashboard.Export(r.Context(), req)
	if err != nil {
		errors.WriteError(w, h.logger, err, requestID)
		return
	}

	filename := services.ExportFilename(params.Get(paramFilename), h.export.DefaultFilename)
	w.Header().Set("Content-Type", "text/csv; charset=utf-8")
	w.Header().Set("Content-Disposition", mime.FormatMediaType("attachment", map[string]string{"filename": filename}))
	w.Header().Set("Content-Length", strconv.Itoa(len(data)))
	w.WriteHeader(http.StatusOK)

	if _, err := w.Write(data); err != nil {
		h.logger.Warn("write export", "error", err, "request_id", requestID)
		return
	}

	h.logger.Info("table exported",
		"filename", filename,
		"bytes", len(data),
		"request_id", requestID,
	)
}

func (h *APIHandlers) HandleHealth(w http.ResponseWriter, r *http.Request) {
	errors.WriteSuccess(w, map[string]string{
		"status":    "healthy",
		"timestamp": time.Now().Format(time.RFC3339),
		"version":   version,
	})
}

func (h *APIHandlers) HandleStats(w http.ResponseWriter, r *http.Request) {
	errors.WriteSuccess(w, h.dashboard.Stats())
}
