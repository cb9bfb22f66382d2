package handlers

import (
	"context"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"sales-dashboard/internal/config"
	"sales-dashboard/internal/errors"
)

func newTestSSE(src *fakeSource, export config.ExportConfig) *SSEHandlers {
	return NewSSEHandlers(newTestService(src), export, testLogger())
}

func assertEventStream(t *testing.T, w *httptest.ResponseRecorder) {
	t.Helper()
	if w.Code != http.StatusOK {
		t.Errorf("status = %d, want %d", w.Code, http.StatusOK)
	}
	if ct := w.Header().Get("Content-Type"); !strings.Contains(ct, "text/event-stream") {
		t.Errorf("content-type = %q, should contain 'text/event-stream'", ct)
	}
}

func assertContainsAll(t *testing.T, body string, expected ...string) {
	t.Helper()
	for _, content := range expected {
		if !strings.Contains(body, content) {
			t.Errorf("expected event stream to contain %q", content)
		}
	}
}

func TestSSEHandlers_HandleDashboard(t *testing.T) {
	h := newTestSSE(&fakeSource{records: testRecords()}, testExportConfig())

	w := httptest.NewRecorder()
	h.HandleDashboard(w, httptest.NewRequest(http.MethodGet, "/sse/dashboard?seller=Ana", nil))

	assertEventStream(t, w)
	assertContainsAll(t, w.Body.String(),
		"datastar-patch-elements",
		`id="metrics"`,
		"R$ 2.55 mil",
		`<option value="Ana" selected>Ana</option>`,
		`<option value="Bruno">Bruno</option>`,
		`id="dashboard-tables"`,
	)
	if strings.Contains(w.Body.String(), "datastar-patch-signals") {
		t.Error("dashboard stream should only patch elements")
	}
}

func TestSSEHandlers_HandleDashboard_Error(t *testing.T) {
	h := newTestSSE(&fakeSource{err: errors.Fetch("data source returned status 503")}, testExportConfig())

	w := httptest.NewRecorder()
	h.HandleDashboard(w, httptest.NewRequest(http.MethodGet, "/sse/dashboard", nil))

	assertEventStream(t, w)
	assertContainsAll(t, w.Body.String(), `id="metrics" class="error"`, "data source returned status 503")
}

func TestSSEHandlers_HandleRaw(t *testing.T) {
	h := newTestSSE(&fakeSource{records: testRecords()}, testExportConfig())

	w := httptest.NewRecorder()
	h.HandleRaw(w, httptest.NewRequest(http.MethodGet, "/sse/raw", nil))

	assertEventStream(t, w)
	assertContainsAll(t, w.Body.String(),
		`id="raw-table"`,
		"<strong>3</strong> linhas",
		`id="raw-filters"`,
		`<option value="Geladeira">Geladeira</option>`,
	)
}

func TestSSEHandlers_HandleRaw_KeepsFiltersOnRefine(t *testing.T) {
	h := newTestSSE(&fakeSource{records: testRecords()}, testExportConfig())

	w := httptest.NewRecorder()
	h.HandleRaw(w, httptest.NewRequest(http.MethodGet, "/sse/raw?category=livros", nil))

	body := w.Body.String()
	assertContainsAll(t, body, "<strong>1</strong> linhas", "Livro")
	if strings.Contains(body, `id="raw-filters"`) {
		t.Error("filter options should not be patched when filters are applied")
	}
}

func TestSSEHandlers_HandleRaw_BadFilter(t *testing.T) {
	h := newTestSSE(&fakeSource{records: testRecords()}, testExportConfig())

	w := httptest.NewRecorder()
	h.HandleRaw(w, httptest.NewRequest(http.MethodGet, "/sse/raw?installments=12,1", nil))

	assertContainsAll(t, w.Body.String(), `id="raw-table" class="error"`)
}

func TestSSEHandlers_HandleExportNotice(t *testing.T) {
	h := newTestSSE(&fakeSource{}, testExportConfig())

	w := httptest.NewRecorder()
	h.HandleExportNotice(w, httptest.NewRequest(http.MethodGet, "/sse/export-notice?filename=vendas", nil))

	assertEventStream(t, w)
	body := w.Body.String()
	notice := strings.Index(body, "vendas.csv baixado com sucesso")
	cleared := strings.Index(body, `<div id="export-notice"></div>`)
	if notice < 0 || cleared < 0 || cleared < notice {
		t.Errorf("expected the notice followed by an empty container, got %q", body)
	}
}

func TestSSEHandlers_HandleExportNotice_ClientGone(t *testing.T) {
	h := newTestSSE(&fakeSource{}, config.ExportConfig{NoticeDelay: time.Hour, DefaultFilename: "dados"})

	ctx, cancel := context.WithCancel(context.Background())
	r := httptest.NewRequest(http.MethodGet, "/sse/export-notice", nil).WithContext(ctx)
	w := httptest.NewRecorder()

	done := make(chan struct{})
	go func() {
		h.HandleExportNotice(w, r)
		close(done)
	}()
	cancel()

	select {
	case <-done:
	case <-time.After(5 * time.Second):
		t.Fatal("handler did not return after the client went away")
	}
}
