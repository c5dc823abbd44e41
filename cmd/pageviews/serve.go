package main

import (
	"context"
	"log/slog"
	"os/signal"
	"syscall"
	"time"

	"github.com/aevon-lab/pageviews/internal/actor"
	"github.com/aevon-lab/pageviews/internal/core/storage/backend"
	"github.com/aevon-lab/pageviews/internal/metric"
	"github.com/aevon-lab/pageviews/internal/server"
	"github.com/aevon-lab/pageviews/internal/views"
	"github.com/spf13/cobra"
	"go.opentelemetry.io/otel"
	"golang.org/x/sync/errgroup"
)

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Start the HTTP counter service",
	RunE: func(cmd *cobra.Command, _ []string) error {
		return runServe(cmd.Context())
	},
}

func runServe(parent context.Context) error {
	// 1. Load Configuration
	cfg, err := loadConfig()
	if err != nil {
		return err
	}

	// Signal handler triggers the shutdown sequence below.
	ctx, stop := signal.NotifyContext(parent, syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	// 2. Initialize Storage
	store, err := backend.Open(ctx, cfg)
	if err != nil {
		slog.Error("Failed to initialize storage", "type", cfg.Storage.Type, "error", err)
		return err
	}
	defer func() {
		if err := store.Close(); err != nil {
			slog.Error("Failed to close storage", "error", err)
		}
	}()

	// 3. Initialize Metrics (Prometheus exporter behind the global provider)
	provider, metricsHandler, err := metric.NewPrometheusProvider()
	if err != nil {
		return wrapErr("create meter provider", err)
	}
	otel.SetMeterProvider(provider)
	defer func() {
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		if err := provider.Shutdown(shutdownCtx); err != nil {
			slog.Error("Failed to shut down meter provider", "error", err)
		}
	}()

	metrics, err := metric.FromGlobal()
	if err != nil {
		return wrapErr("create metrics", err)
	}

	// 4. Initialize Actor Registry
	registry := actor.NewRegistry(store,
		actor.WithMetrics(metrics),
		actor.WithIdleTimeout(cfg.Actors.IdleTimeout),
	)

	// 5. Initialize Router
	viewsSvc := views.NewService(registry,
		views.WithMetrics(metrics),
		views.WithTenantHeader(cfg.Server.TenantHeader),
		views.WithReservedPaths(cfg.Server.HealthPath, cfg.Server.MetricsPath),
		views.WithMaxBodySizeMB(cfg.Server.MaxBodySizeMB),
	)

	// 6. Initialize Server
	srv := server.New(cfg.Server.Addr(), store, cfg.Server.Mode, cfg.Server.HealthPath,
		views.RequestID(), views.CORS(),
	)
	srv.MountMetrics(cfg.Server.MetricsPath, metricsHandler)
	viewsSvc.RegisterRoutes(srv.Engine)

	// 7. Start Services
	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		return registry.Run(gctx, cfg.Actors.SweepInterval)
	})
	// HTTP server blocks until ctx is cancelled.
	g.Go(func() error {
		return srv.Run(gctx)
	})

	if err := g.Wait(); err != nil {
		slog.Error("Server stopped with error", "error", err)
		return err
	}

	slog.Info("Shutdown complete")
	return nil
}
