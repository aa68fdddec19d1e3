package main

import (
	"context"
	"errors"
	"os"
	"time"

	"golang.org/x/sync/errgroup"

	"finassist/internal/amqp"
	"finassist/internal/cli"
	"finassist/internal/log"
	"finassist/internal/worker"
)

func main() {
	cli.LoadEnvFile()
	logger := cli.SetupLogger(log.ComponentWorker)
	logger.Info("Starting budget-worker")

	cfg := cli.LoadAndValidateConfig(logger)
	if cfg.AMQPURL == "" {
		logger.Error("AMQP_URL is required for the budget worker")
		os.Exit(1)
	}

	ctx, stop := cli.SignalContext()
	defer stop()

	result := cli.InitBackend(ctx, logger, cfg)
	defer func() {
		if err := result.Cleanup(); err != nil {
			logger.Error("Backend cleanup failed", log.FieldError, err.Error())
		}
	}()

	consumer, err := amqp.NewClient(cfg.AMQPURL, cfg.AMQPExchange, cfg.AMQPQueue)
	if err != nil {
		logger.Error("Failed to initialize AMQP client", log.FieldError, err.Error())
		os.Exit(1)
	}
	defer consumer.Close()

	watcher := worker.NewBudgetWatcher(result.Ledger, cfg.BudgetWarnRatio, logger)
	digest := worker.NewDigest(result.Ledger, logger)

	// Catch up on the current month before waiting for events
	if err := watcher.StartupCheck(ctx, time.Now()); err != nil {
		logger.Error("Startup budget check failed", log.FieldError, err.Error())
	}

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		return consumer.Consume(gctx, watcher.HandleTransactionRecorded)
	})
	g.Go(func() error {
		return digest.Schedule(gctx, cfg.DigestSchedule)
	})

	if err := g.Wait(); err != nil && !errors.Is(err, context.Canceled) {
		logger.Error("Worker stopped with error", log.FieldError, err.Error())
		os.Exit(1)
	}
	logger.Info("Worker shutdown complete")
}
