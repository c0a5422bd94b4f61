package main

import (
	"context"
	"errors"
	"os"
	"time"

	"ledger/internal/amqp"
	"ledger/internal/cli"
	"ledger/internal/config"
	"ledger/internal/log"
	"ledger/internal/worker"
)

func main() {
	cli.LoadEnvFile()
	logger := cli.SetupLogger(os.Getenv("LOG_LEVEL"))
	logger.Info("Starting report-worker")

	cfg := cli.LoadAndValidateConfig(logger, (*config.Config).ValidateWorker)

	// Only the persister is needed here; the worker consumes events rather
	// than publishing them.
	amqpURL := cfg.AMQPURL
	cfg.AMQPURL = ""
	result := cli.InitBackend(context.Background(), logger, cfg)
	defer result.Close()

	client, err := amqp.NewClient(amqpURL, cfg.AMQPExchange, cfg.AMQPQueue)
	if err != nil {
		logger.Error("Failed to initialize AMQP client", log.FieldError, err)
		os.Exit(1)
	}
	defer client.Close()

	reports := worker.NewReportWorker(result.Persister, cfg.ReportDir, logger)

	ctx, done := cli.GracefulShutdown(logger, 10*time.Second, nil)

	if cfg.ReportRebuildAll {
		years, err := reports.RebuildAll(ctx)
		if err != nil {
			logger.Error("Startup report rebuild failed", log.FieldError, err)
		} else {
			logger.Info("Startup report rebuild complete", "years", years)
		}
	}

	if err := client.ConsumeTransactionChanges(ctx, reports.HandleChange); err != nil && !errors.Is(err, context.Canceled) {
		logger.Error("Message consumption failed", log.FieldError, err)
		os.Exit(1)
	}
	cli.WaitForShutdown(ctx, done)
	logger.Info("Report worker stopped")
}
