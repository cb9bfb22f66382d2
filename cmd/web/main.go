package main

import (
	"context"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"strconv"
	"time"

	"github.com/a-h/templ"
	"github.com/spf13/cobra"

	"sales-dashboard/internal/config"
	"sales-dashboard/internal/datasource"
	"sales-dashboard/internal/handlers"
	"sales-dashboard/internal/middleware"
	"sales-dashboard/internal/models"
	"sales-dashboard/internal/observability"
	"sales-dashboard/internal/server"
	"sales-dashboard/internal/services"
	"sales-dashboard/internal/ui/templates"
)

const (
	version           = "1.0.0"
	renderTimeout     = 10 * time.Second
	cacheMaxAge       = "public, max-age=300"
	limiterSweepEvery = time.Minute
)

func years() []string {
	out := make([]string, 0, models.LastYear-models.FirstYear+1)
	for y := models.FirstYear; y <= models.LastYear; y++ {
		out = append(out, strconv.Itoa(y))
	}
	return out
}

func renderPage(w http.ResponseWriter, r *http.Request, page templ.Component) {
	ctx, cancel := context.WithTimeout(r.Context(), renderTimeout)
	defer cancel()

	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	w.Header().Set("Cache-Control", cacheMaxAge)
	if err := page.Render(ctx, w); err != nil {
		http.Error(w, "render error", http.StatusInternalServerError)
	}
}

func handleDashboard(w http.ResponseWriter, r *http.Request) {
	renderPage(w, r, templates.Dashboard(templates.DashboardPage{
		Regions:    models.Regions,
		Years:      years(),
		Query:      models.Query{Region: models.RegionAll},
		TopSellers: services.DefaultTopSellers,
		MinTop:     services.MinTopSellers,
		MaxTop:     services.MaxTopSellers,
	}))
}

func rawDataHandler(cfg config.ExportConfig) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		renderPage(w, r, templates.RawData(templates.RawPage{
			Columns:         models.Columns,
			DefaultFilename: cfg.DefaultFilename,
		}))
	}
}

// newHandler wires the router and the middleware chain around dashboard.
func newHandler(cfg *config.Config, logger *slog.Logger, dashboard handlers.DashboardService, limiter *middleware.RateLimiter) http.Handler {
	srv := server.NewServer(dashboard, cfg, logger, &server.TemplateHandlers{
		Dashboard: handleDashboard,
		RawData:   rawDataHandler(cfg.Export),
	})

	chain := middleware.Chain(
		middleware.Recovery(logger),
		middleware.RequestID(),
		middleware.Logger(logger),
		middleware.Tracing(logger),
		middleware.SecurityHeaders(),
		middleware.CORS(cfg.Security),
		middleware.TrustedProxy(cfg.Security),
		middleware.RateLimit(limiter, logger),
	)
	return chain(srv)
}

func run(ctx context.Context, configPath string) error {
	cfg, err := config.Load(configPath)
	if err != nil {
		return err
	}

	logger := observability.NewLogger(cfg.Logger, os.Stdout)
	slog.SetDefault(logger)

	logger.Info("starting application",
		"version", version,
		"addr", cfg.Address(),
		"data_source", cfg.DataSource.URL,
	)

	client := datasource.NewClient(cfg.DataSource, logger)
	dashboard := services.NewDashboard(client, logger)

	limiter := middleware.NewRateLimiter(cfg.Security)
	sweepCtx, stopSweep := context.WithCancel(ctx)
	defer stopSweep()
	go limiter.Run(sweepCtx, limiterSweepEvery)

	httpServer := &http.Server{
		Addr:         cfg.Address(),
		Handler:      newHandler(cfg, logger, dashboard, limiter),
		ReadTimeout:  cfg.Server.ReadTimeout,
		WriteTimeout: cfg.Server.WriteTimeout,
		IdleTimeout:  cfg.Server.IdleTimeout,
	}

	gracefulServer := server.NewGracefulServer(httpServer, logger, cfg)
	gracefulServer.RegisterShutdownHook(func(ctx context.Context) error {
		stopSweep()
		return nil
	})
	gracefulServer.RegisterShutdownHook(func(ctx context.Context) error {
		logger.Info("final statistics", "stats", dashboard.Stats())
		return nil
	})

	if err := gracefulServer.ListenAndServe(ctx); err != nil {
		return err
	}

	logger.Info("application stopped gracefully")
	return nil
}

func newRootCmd() *cobra.Command {
	var configPath string

	cmd := &cobra.Command{
		Use:           "sales-dashboard",
		Short:         "Serve the sales analytics dashboard",
		Version:       version,
		SilenceUsage:  true,
		SilenceErrors: true,
		Args:          cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return run(cmd.Context(), configPath)
		},
	}
	cmd.Flags().StringVarP(&configPath, "config", "c", os.Getenv("CONFIG_FILE"), "path to a YAML configuration file")

	return cmd
}

func main() {
	if err := newRootCmd().ExecuteContext(context.Background()); err != nil {
		fmt.Fprintln(os.Stderr, "error:", err)
		os.Exit(1)
	}
}
