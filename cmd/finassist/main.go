package main

import (
	"context"
	"errors"
	"os"
	"time"

	"finassist/internal/cli"
	apphttp "finassist/internal/http"
	"finassist/internal/log"
)

func main() {
	cli.LoadEnvFile()
	logger := cli.SetupLogger(log.ComponentApp)
	cfg := cli.LoadAndValidateConfig(logger)

	result := cli.InitBackend(context.Background(), logger, cfg)

	srv := apphttp.NewServer(":"+cfg.Port, result.Ledger, result.Taxonomy, logger)

	// Configure server timeouts and limits
	srv.ReadTimeout = 10 * time.Second
	srv.WriteTimeout = 10 * time.Second
	srv.IdleTimeout = 60 * time.Second
	srv.MaxHeaderBytes = 1 << 16 // 64KB

	ctx, done := cli.GracefulShutdown(logger, cfg.ShutdownTimeout, func(ctx context.Context) error {
		return errors.Join(srv.Shutdown(ctx), result.Cleanup())
	})

	logger.Info("Starting finassist server",
		"port", cfg.Port,
		"backend", cfg.DataBackend,
		"events_enabled", result.EventsEnabled)
	if err := srv.ListenAndServe(); err != nil {
		logger.Error("Server error", log.FieldError, err.Error(), "port", cfg.Port)
		_ = result.Cleanup()
		os.Exit(1)
	}

	cli.WaitForShutdown(ctx, done)
	logger.Info("Server stopped gracefully")
}
