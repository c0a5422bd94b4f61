package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"time"

	"ledger/internal/app"
	"ledger/internal/cache"
	"ledger/internal/cli"
	apphttp "ledger/internal/http"
	"ledger/internal/ledger"
	"ledger/internal/log"
)

func main() {
	cli.LoadEnvFile()
	logger := cli.SetupLogger(os.Getenv("LOG_LEVEL"))
	cfg := cli.LoadAndValidateConfig(logger, nil)

	result := cli.InitBackend(context.Background(), logger, cfg)
	defer func() {
		if err := result.Close(); err != nil {
			logger.Error("Backend cleanup failed", log.FieldError, err)
		}
	}()

	store, err := ledger.Open(context.Background(), result.Persister,
		append(result.Options(), ledger.WithLogger(logger))...)
	if err != nil {
		logger.Error("Failed to load ledger", log.FieldError, err, log.FieldBackend, cfg.DataBackend)
		os.Exit(1)
	}

	a := app.New(store, app.Config{CacheSize: cfg.CacheSize, CacheTTL: cfg.CacheTTL}, logger)
	caches := cache.NewManager(logger)
	a.RegisterCaches(caches)
	caches.StartCleanup(time.Minute)

	srv := apphttp.NewServer(":"+cfg.Port, a, apphttp.Options{
		Logger:      logger,
		CORSOrigins: cfg.CORSOrigins,
		Ready:       result.Ready,
	})
	srv.Start()

	ctx, done := cli.GracefulShutdown(logger, 30*time.Second, func(ctx context.Context) {
		if err := srv.Shutdown(ctx); err != nil {
			logger.Error("Server shutdown error", log.FieldError, err)
		}
		caches.Stop()
	})

	logger.Info("Starting ledger server", "port", cfg.Port, log.FieldBackend, cfg.DataBackend, log.FieldOperation, log.OpStartup)
	if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
		logger.Error("Server error", log.FieldError, err, "port", cfg.Port)
		os.Exit(1)
	}
	cli.WaitForShutdown(ctx, done)
	logger.Info("Server stopped gracefully")
}
