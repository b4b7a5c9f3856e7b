package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"runtime"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/spf13/cobra"

	"github.com/okian/wordscore/internal/adapters/http/api"
	"github.com/okian/wordscore/internal/adapters/http/swagger"
	app "github.com/okian/wordscore/internal/app"
	"github.com/okian/wordscore/internal/config"
	"github.com/okian/wordscore/pkg/logger"
	"github.com/okian/wordscore/pkg/metrics"
)

// HTTP server timeout constants.
const (
	readTimeout               = 10 * time.Second
	writeTimeout              = 10 * time.Second
	idleTimeout               = 60 * time.Second
	readHeaderTimeout         = 5 * time.Second
	shutdownTimeout           = 30 * time.Second
	systemMetricsInterval     = 10 * time.Second
	serviceMetricsInterval    = 30 * time.Second
	nanosecondsPerMillisecond = 1e6

	maxLetterPoints   = 10 // Q and Z
	pointsBucketCount = 10
)

func serveCommand(c *cli) *cobra.Command {
	return &cobra.Command{
		Use:   "serve",
		Short: "Run the HTTP API (default)",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return runServe(cmd.Context(), c.cfg, c.log)
		},
	}
}

// runServe blocks until ctx is cancelled or the listener fails.
func runServe(ctx context.Context, cfg *config.Config, log logger.Logger) error {
	configureMetrics(cfg)

	store, err := openStore(ctx, cfg)
	if err != nil {
		return fmt.Errorf("open store: %w", err)
	}

	svc := app.New(
		app.WithLogger(log.Named("service")),
		app.WithStore(store),
		app.WithIdempotencyCacheSize(cfg.IdempotencyCacheSize),
		app.WithDefaultPageSize(cfg.DefaultPageSize),
	)
	if err := svc.Start(ctx); err != nil {
		_ = store.Close()
		return fmt.Errorf("start service: %w", err)
	}
	defer svc.Stop()

	go startSystemMetricsUpdater(ctx)
	go startServiceMetricsUpdater(ctx, svc)

	srv := &http.Server{
		Addr:              cfg.Addr,
		Handler:           newHandler(ctx, cfg, svc, log),
		ReadTimeout:       readTimeout,
		WriteTimeout:      writeTimeout,
		IdleTimeout:       idleTimeout,
		ReadHeaderTimeout: readHeaderTimeout,
	}

	errCh := make(chan error, 1)
	go func() {
		log.Info(ctx, "starting HTTP server",
			logger.String("addr", cfg.Addr),
			logger.String("storage", cfg.StorageDriver),
		)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
	}()

	select {
	case <-ctx.Done():
	case err := <-errCh:
		return fmt.Errorf("http server: %w", err)
	}
	log.Info(ctx, "shutting down server...")

	// Graceful shutdown with timeout
	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		log.Error(ctx, "server shutdown failed", logger.Error(err))
	}

	log.Info(ctx, "server stopped")
	return nil
}

// newHandler registers every route and wraps the mux with request logging.
func newHandler(ctx context.Context, cfg *config.Config, svc *app.Service, log logger.Logger) http.Handler {
	mux := http.NewServeMux()

	swagger.Register(ctx, mux)

	apiServer := api.NewServer(svc, svc,
		api.WithMaxLetters(cfg.MaxLetters),
		api.WithRateLimit(cfg.RateLimitRPS, cfg.RateLimitBurst),
		api.WithTrustedProxyHeaders(cfg.TrustProxyHeaders),
		api.WithLogger(log.Named("api")),
	)
	apiServer.Register(ctx, mux)

	return api.RequestLogger(log.Named("http"), mux)
}

// configureMetrics rebuilds the global metrics manager from cfg. The points
// histogram is sized to the highest score a word of max_letters can reach.
func configureMetrics(cfg *config.Config) {
	maxPoints := float64(cfg.MaxLetters * maxLetterPoints)
	metrics.Configure(
		metrics.WithMetricsEnabled(cfg.MetricsEnabled),
		metrics.WithMetricPrefix(cfg.MetricsPrefix),
		metrics.WithCustomLabels(map[string]string{"storage": cfg.StorageDriver}),
		metrics.WithPointsBuckets(prometheus.LinearBuckets(maxPoints/pointsBucketCount, maxPoints/pointsBucketCount, pointsBucketCount)),
	)
}

// startSystemMetricsUpdater starts a background goroutine that updates system metrics.
func startSystemMetricsUpdater(ctx context.Context) {
	ticker := time.NewTicker(systemMetricsInterval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			updateSystemMetrics()
		}
	}
}

// startServiceMetricsUpdater periodically re-reads the record count, which
// other processes sharing a SQL database may change.
func startServiceMetricsUpdater(ctx context.Context, svc *app.Service) {
	ticker := time.NewTicker(serviceMetricsInterval)
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

// updateSystemMetrics updates system-level metrics.
func updateSystemMetrics() {
	var m runtime.MemStats
	runtime.ReadMemStats(&m)

	var avgPauseMs float64
	if m.NumGC > 0 {
		avgPauseMs = float64(m.PauseTotalNs) / float64(m.NumGC) / nanosecondsPerMillisecond
	}
	metrics.UpdateSystem(m.Alloc, runtime.NumGoroutine(), avgPauseMs)
}

// updateServiceMetrics refreshes the record gauge. GetStats publishes it.
func updateServiceMetrics(svc *app.Service) {
	_ = svc.GetStats()
}
