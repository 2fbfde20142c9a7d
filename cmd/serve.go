package main

import (
	"context"
	"errors"
	"fmt"
	"net"
	"net/http"
	"os/signal"
	"syscall"
	"time"

	"github.com/okian/courtvision/internal/adapters/http/api"
	service "github.com/okian/courtvision/internal/app"
	"github.com/okian/courtvision/internal/config"
	"github.com/okian/courtvision/pkg/logger"
	"github.com/okian/courtvision/pkg/metrics"
	"github.com/spf13/cobra"
)

// HTTP server timeout constants.
const (
	readTimeout       = 10 * time.Second
	writeTimeout      = 10 * time.Second
	idleTimeout       = 60 * time.Second
	readHeaderTimeout = 5 * time.Second
	shutdownTimeout   = 30 * time.Second
)

func newServeCmd() *cobra.Command {
	var addr string

	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Run the HTTP API",
		RunE: func(cmd *cobra.Command, _ []string) error {
			// Root context with cancel on SIGINT/SIGTERM.
			ctx, stop := signal.NotifyContext(cmd.Context(), syscall.SIGINT, syscall.SIGTERM)
			defer stop()

			cfg, err := loadConfig(ctx, cmd)
			if err != nil {
				return err
			}
			if cmd.Flags().Changed("addr") {
				cfg.Addr = addr
			}

			ln, err := net.Listen("tcp", cfg.Addr)
			if err != nil {
				return fmt.Errorf("listen %s: %w", cfg.Addr, err)
			}
			return serve(ctx, ln, cfg)
		},
	}
	cmd.Flags().StringVar(&addr, "addr", "", "listen address, overrides the configured addr")
	return cmd
}

// loadConfig loads configuration (defaults -> optional file -> env) and
// applies the configured log level unless the flag already set one.
func loadConfig(ctx context.Context, cmd *cobra.Command) (*config.Config, error) {
	cfg, err := config.Load(ctx)
	if err != nil {
		return nil, fmt.Errorf("load config: %w", err)
	}
	if cmd.Flags().Changed("log-level") {
		return cfg, nil
	}
	if err := logger.SetLevelString(cfg.LogLevel); err != nil {
		logger.Get().Warn(ctx, "invalid log_level; falling back to info",
			logger.String("log_level", cfg.LogLevel), logger.Error(err))
		_ = logger.SetLevelString("info")
	}
	return cfg, nil
}

// serve runs the service and HTTP API on ln until ctx is cancelled.
func serve(ctx context.Context, ln net.Listener, cfg *config.Config) error {
	log := logger.Get()

	svc := service.New(service.FromConfig(cfg)...)
	if err := svc.Start(ctx); err != nil {
		_ = ln.Close()
		return fmt.Errorf("start service: %w", err)
	}
	defer svc.Stop()

	metrics.SetRefreshInterval(cfg.MetricsRefreshInterval())
	go startServiceMetricsUpdater(ctx, svc, metrics.RefreshInterval())

	mux := http.NewServeMux()
	api.NewServer(svc, svc).Register(ctx, mux)

	srv := &http.Server{
		Handler:           mux,
		ReadTimeout:       readTimeout,
		WriteTimeout:      writeTimeout,
		IdleTimeout:       idleTimeout,
		ReadHeaderTimeout: readHeaderTimeout,
	}

	errCh := make(chan error, 1)
	go func() {
		log.Info(ctx, "starting HTTP server",
			logger.String("addr", ln.Addr().String()),
			logger.String("environment", cfg.EnvironmentName))
		if err := srv.Serve(ln); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
		close(errCh)
	}()

	select {
	case <-ctx.Done():
	case err := <-errCh:
		if err != nil {
			return fmt.Errorf("http server: %w", err)
		}
	}
	log.Info(ctx, "shutting down server...")

	shutdownCtx, cancel := context.WithTimeout(context.WithoutCancel(ctx), shutdownTimeout)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		log.Error(ctx, "server shutdown failed", logger.Error(err))
		return err
	}

	log.Info(ctx, "server stopped")
	return nil
}

// startServiceMetricsUpdater refreshes gauges that are cheaper to poll than
// to update on every change.
func startServiceMetricsUpdater(ctx context.Context, svc *service.Service, every time.Duration) {
	ticker := time.NewTicker(every)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			updateServiceMetrics(svc)
		}
	}
}

func updateServiceMetrics(svc *service.Service) {
	stats := svc.GetStats()
	if queueLen, ok := stats["queueLength"].(int); ok {
		metrics.UpdateQueueSize(queueLen)
	}
	if historySize, ok := stats["historySize"].(int); ok {
		metrics.UpdateHistorySize(historySize)
	}
}
