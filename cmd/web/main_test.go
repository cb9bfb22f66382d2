package main

import (
	"encoding/json"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"sales-dashboard/internal/config"
	"sales-dashboard/internal/datasource"
	"sales-dashboard/internal/middleware"
	"sales-dashboard/internal/services"
)

const upstreamBody = `[
	{"Produto": "Geladeira", "Categoria do Produto": "eletrodomesticos", "Preço": 2500.00, "Frete": 120.5,
	 "Data da Compra": "01/03/2022", "Vendedor": "Ana", "Local da compra": "SP", "lat": -22.19, "lon": -48.79,
	 "Avaliação da compra": 5, "Tipo de pagamento": "boleto", "Quantidade de parcelas": 1},
	{"Produto": "Livro", "Categoria do Produto": "livros", "Preço": 45.90, "Frete": 5,
	 "Data da Compra": "20/04/2022", "Vendedor": "Bruno", "Local da compra": "BA", "lat": -13.29, "lon": -41.71,
	 "Avaliação da compra": 4, "Tipo de pagamento": "cartao_credito", "Quantidade de parcelas": 3}
]`

// newTestHandler serves the full middleware stack against a fake upstream.
func newTestHandler(t *testing.T) http.Handler {
	t.Helper()

	upstream := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		io.WriteString(w, upstreamBody)
	}))
	t.Cleanup(upstream.Close)

	cfg := config.Default()
	cfg.DataSource.URL = upstream.URL
	cfg.Security.EnableRateLimit = false
	cfg.Export.NoticeDelay = 0

	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	dashboard := services.NewDashboard(datasource.NewClient(cfg.DataSource, logger), logger)
	return newHandler(cfg, logger, dashboard, middleware.NewRateLimiter(cfg.Security))
}

func TestServer_Routes(t *testing.T) {
	handler := newTestHandler(t)

	tests := []struct {
		path        string
		status      int
		contentType string
	}{
		{"/", http.StatusOK, "text/html"},
		{"/dados-brutos", http.StatusOK, "text/html"},
		{"/api/dashboard?region=Brasil", http.StatusOK, "application/json"},
		{"/api/raw", http.StatusOK, "application/json"},
		{"/api/export", http.StatusOK, "text/csv"},
		{"/health", http.StatusOK, "application/json"},
		{"/admin/stats", http.StatusOK, "application/json"},
		{"/api/dashboard?year=1999", http.StatusBadRequest, "application/json"},
	}

	for _, tt := range tests {
		t.Run(tt.path, func(t *testing.T) {
			w := httptest.NewRecorder()
			handler.ServeHTTP(w, httptest.NewRequest(http.MethodGet, tt.path, nil))

			if w.Code != tt.status {
				t.Errorf("status = %d, want %d", w.Code, tt.status)
			}
			if ct := w.Header().Get("Content-Type"); !strings.Contains(ct, tt.contentType) {
				t.Errorf("content-type = %q, want %q", ct, tt.contentType)
			}
			if w.Header().Get(middleware.RequestIDHeader) == "" {
				t.Error("response should carry a request id")
			}
		})
	}
}

func TestServer_DashboardJSON(t *testing.T) {
	w := httptest.NewRecorder()
	newTestHandler(t).ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/api/dashboard?top=2", nil))

	var response struct {
		Success bool `json:"success"`
		Data    struct {
			Sellers []string `json:"sellers"`
			Metrics struct {
				RevenueLabel string `json:"revenue_label"`
				Sales        int    `json:"sales"`
			} `json:"metrics"`
			RevenueByState struct {
				Rows []struct {
					State string  `json:"state"`
					Value float64 `json:"value"`
				} `json:"rows"`
			} `json:"revenue_by_state"`
		} `json:"data"`
	}
	if err := json.NewDecoder(w.Body).Decode(&response); err != nil {
		t.Fatalf("failed to decode JSON: %v", err)
	}

	if !response.Success {
		t.Fatal("expected success=true in response")
	}
	if got := response.Data.Metrics.RevenueLabel; got != "R$ 2.55 mil" {
		t.Errorf("revenue label = %q, want %q", got, "R$ 2.55 mil")
	}
	if got := response.Data.Metrics.Sales; got != 2 {
		t.Errorf("sales = %d, want 2", got)
	}
	if rows := response.Data.RevenueByState.Rows; len(rows) != 2 || rows[0].State != "SP" {
		t.Errorf("revenue by state = %+v, want SP first", rows)
	}
}

func TestServer_SSERoutes(t *testing.T) {
	handler := newTestHandler(t)

	for _, route := range []string{"/sse/dashboard", "/sse/raw", "/sse/export-notice"} {
		t.Run(route, func(t *testing.T) {
			w := httptest.NewRecorder()
			handler.ServeHTTP(w, httptest.NewRequest(http.MethodGet, route, nil))

			if w.Code != http.StatusOK {
				t.Errorf("status = %d, want %d", w.Code, http.StatusOK)
			}
			if ct := w.Header().Get("Content-Type"); !strings.Contains(ct, "text/event-stream") {
				t.Errorf("content-type = %q, should contain 'text/event-stream'", ct)
			}
		})
	}
}

func TestServer_Export(t *testing.T) {
	w := httptest.NewRecorder()
	newTestHandler(t).ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/api/export?state=BA&column=Produto&column=Data+da+Compra&filename=bahia", nil))

	if cd := w.Header().Get("Content-Disposition"); cd != "attachment; filename=bahia.csv" {
		t.Errorf("content-disposition = %q", cd)
	}
	if body, want := w.Body.String(), "Produto,Data da Compra\nLivro,2022-04-20\n"; body != want {
		t.Errorf("body = %q, want %q", body, want)
	}
}

func TestServer_ErrorHandling(t *testing.T) {
	handler := newTestHandler(t)

	tests := []struct {
		method string
		path   string
		status int
	}{
		{http.MethodPost, "/api/dashboard", http.StatusMethodNotAllowed},
		{http.MethodPut, "/", http.StatusMethodNotAllowed},
		{http.MethodDelete, "/health", http.StatusMethodNotAllowed},
		{http.MethodGet, "/api/unknown", http.StatusNotFound},
	}

	for _, tt := range tests {
		t.Run(tt.method+" "+tt.path, func(t *testing.T) {
			w := httptest.NewRecorder()
			handler.ServeHTTP(w, httptest.NewRequest(tt.method, tt.path, nil))

			if w.Code != tt.status {
				t.Errorf("status = %d, want %d", w.Code, tt.status)
			}
		})
	}
}

func TestDashboardTemplate(t *testing.T) {
	w := httptest.NewRecorder()
	handleDashboard(w, httptest.NewRequest(http.MethodGet, "/", nil))

	if w.Code != http.StatusOK {
		t.Errorf("status = %d, want %d", w.Code, http.StatusOK)
	}

	body := w.Body.String()
	for _, component := range []string{
		"Dashboard de vendas",
		`<option value="Brasil" selected>Brasil</option>`,
		`<option value="2023">2023</option>`,
		`name="all_years" value="1" checked`,
		`id="metrics"`,
	} {
		if !strings.Contains(body, component) {
			t.Errorf("dashboard should contain %q", component)
		}
	}
}

func TestRootCmd_Flags(t *testing.T) {
	cmd := newRootCmd()

	flag := cmd.Flags().Lookup("config")
	if flag == nil || flag.Shorthand != "c" {
		t.Fatal("expected a --config/-c flag")
	}
	if cmd.Version != version {
		t.Errorf("version = %q, want %q", cmd.Version, version)
	}
}

func TestRun_InvalidConfig(t *testing.T) {
	t.Setenv("SERVER_PORT", "70000")

	if err := run(t.Context(), ""); err == nil {
		t.Error("expected run to fail with an invalid port")
	}
}
