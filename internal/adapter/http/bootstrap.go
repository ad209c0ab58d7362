package http

import (
	"context"
	"net/http"
	"time"

	"github.com/uptrace/opentelemetry-go-extra/otelzap"
	"go.uber.org/zap"

	"todosvc/internal/adapter/cache/redis"
	"todosvc/internal/adapter/http/routes"
	"todosvc/pkg/config"
	"todosvc/pkg/metrics"
)

// StartServer brings the service up. Any init failure (record store,
// migrations, shared store) is returned so the process can abort instead of
// serving half-initialized.
func StartServer(ctx context.Context, cfg *config.AppConfig, logger *otelzap.Logger, appMetrics *metrics.AppMetrics) error {
	store, err := redis.New(ctx, cfg.RedisAddr, cfg.RedisPassword, cfg.RedisDB)

	if err != nil {
		return err
	}

	defer store.Close()

	container, err := NewContainer(ctx, cfg, logger)

	if err != nil {
		return err
	}

	defer container.Close()

	router := routes.SetupRouter(routes.RouterDeps{
		TodoHandler: container.TodoHandler,
		Verifier:    container.Verifier,
		Store:       store,
		Logger:      logger,
		Metrics:     appMetrics,
		Config:      cfg,
	})

	srv := &http.Server{
		Addr:         ":" + cfg.Port,
		Handler:      router,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 15 * time.Second,
	}

	go func() {
		<-ctx.Done()

		shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()

		srv.Shutdown(shutdownCtx)
	}()

	logger.Info("Server starting",
		zap.String("port", cfg.Port),
		zap.String("environment", cfg.Environment),
		zap.Int("rate_limit_requests", cfg.RateLimitRequests),
		zap.Duration("rate_limit_window", cfg.RateLimitWindow),
		zap.Duration("cache_ttl", cfg.CacheTTL))

	if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
		return err
	}

	return nil
}
