package main

import (
	"context"
	"log"
	"os/signal"
	"syscall"
	"time"

	api "todosvc/internal/adapter/http"
	"todosvc/pkg/config"
	"todosvc/pkg/logging"
	"todosvc/pkg/metrics"
	"todosvc/pkg/tracing"
)

func main() {
	cfg, err := config.Load()

	if err != nil {
		log.Fatal("Failed to load configuration: ", err)
	}

	logger, err := logging.NewLogger("todosvc", cfg.Environment)

	if err != nil {
		log.Fatal("Failed to initialize logger: ", err)
	}

	defer logger.Sync()

	telemetry, err := tracing.InitTelemetry(tracing.TelemetryConfig{
		ServiceName:    "todosvc",
		ServiceVersion: "1.0.0",
		MetricsPort:    cfg.MetricsPort,
		OTLPEndpoint:   cfg.OTLPEndpoint,
		Environment:    cfg.Environment,
	})

	if err != nil {
		log.Fatal("Failed to initialize telemetry: ", err)
	}

	appMetrics := metrics.NewAppMetrics(telemetry.PrometheusRegistry)

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	if err := api.StartServer(ctx, cfg, logger, appMetrics); err != nil {
		log.Fatal("Server failed to start: ", err)
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	telemetry.Shutdown(shutdownCtx)
	logger.Info("Shutting down gracefully...")
}
