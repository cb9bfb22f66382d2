package handlers

import (
	"context"
	"log/slog"
	"net/http"
	"time"

	"github.com/a-h/templ"
	"github.com/starfederation/datastar-go/datastar"

	"sales-dashboard/internal/config"
	"sales-dashboard/internal/errors"
	"sales-dashboard/internal/observability"
	"sales-dashboard/internal/services"
	"sales-dashboard/internal/ui/templates"
)

type SSEHandlers struct {
	dashboard DashboardService
	export    config.ExportConfig
	logger    *slog.Logger
}

func NewSSEHandlers(dashboard DashboardService, export config.ExportConfig, logger *slog.Logger) *SSEHandlers {
	return &SSEHandlers{
		dashboard: dashboard,
		export:    export,
		logger:    logger,
	}
}

func (h *SSEHandlers) patch(ctx context.Context, sse *datastar.ServerSentEventGenerator, c templ.Component) error {
	html, err := templates.RenderString(ctx, c)
	if err != nil {
		return errors.InternalWrap(err, "render fragment")
	}
	return sse.PatchElements(html)
}

// fail patches an error message in place of the element with the given id.
func (h *SSEHandlers) fail(ctx context.Context, sse *datastar.ServerSentEventGenerator, id string, err error) {
	h.logger.Error("sse request failed",
		"target", id,
		"error", err,
		"request_id", observability.GetRequestID(ctx),
	)

	message := "An unexpected error occurred"
	var appErr *errors.AppError
	if errors.As(err, &appErr) {
		message = appErr.Message
	}
	if perr := h.patch(ctx, sse, templates.ErrorNotice(id, message)); perr != nil {
		h.logger.Warn("patch error notice", "error", perr)
	}
}

func (h *SSEHandlers) HandleDashboard(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	sse := datastar.NewSSE(w, r)

	req, err := parseDashboardRequest(r.URL.Query())
	if err != nil {
		h.fail(ctx, sse, "metrics", err)
		return
	}

	view, err := h.dashboard.Build(ctx, req)
	if err != nil {
		h.fail(ctx, sse, "metrics", err)
		return
	}

	for _, c := range []templ.Component{
		templates.Metrics(view.Metrics),
		templates.SellerOptions(view.Sellers, req.Sellers),
		templates.DashboardTables(view),
	} {
		if err := h.patch(ctx, sse, c); err != nil {
			h.fail(ctx, sse, "dashboard-tables", err)
			return
		}
	}
}

func (h *SSEHandlers) HandleRaw(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	sse := datastar.NewSSE(w, r)

	req, err := parseRawRequest(r.URL.Query())
	if err != nil {
		h.fail(ctx, sse, "raw-table", err)
		return
	}

	view, err := h.dashboard.Raw(ctx, req)
	if err != nil {
		h.fail(ctx, sse, "raw-table", err)
		return
	}

	// Filter options are only sent on the first, unfiltered load so the
	// user's selection survives later patches.
	components := []templ.Component{templates.RawTable(view)}
	if !hasFilterParams(r.URL.Query()) {
		components = append(components, templates.RawFilters(view.Options))
	}
	for _, c := range components {
		if err := h.patch(ctx, sse, c); err != nil {
			h.fail(ctx, sse, "raw-table", err)
			return
		}
	}
}

// HandleExportNotice shows the download confirmation and clears it once
// the configured delay has passed or the client goes away.
func (h *SSEHandlers) HandleExportNotice(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	sse := datastar.NewSSE(w, r)

	filename := services.ExportFilename(r.URL.Query().Get(paramFilename), h.export.DefaultFilename)
	if err := h.patch(ctx, sse, templates.ExportNotice(filename)); err != nil {
		h.fail(ctx, sse, "export-notice", err)
		return
	}

	timer := time.NewTimer(h.export.NoticeDelay)
	defer timer.Stop()

	select {
	case <-ctx.Done():
		return
	case <-timer.C:
	}

	if err := h.patch(ctx, sse, templates.ExportNoticeCleared()); err != nil {
		h.logger.Warn("clear export notice", "error", err)
	}
}
