package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"golang.org/x/sync/errgroup"

	"scorpiongym/internal/amqp"
	"scorpiongym/internal/cli"
	apphttp "scorpiongym/internal/http"
	"scorpiongym/internal/services"
)

func main() {
	logger := cli.SetupLogger()
	cli.LoadEnvFile()
	cfg := cli.LoadAndValidateConfig(logger)

	repo := cli.InitSQLite(logger, cfg.SQLiteDBPath)

	// The broker is optional: without it, writes stay in sync_status=pending
	// until the worker's periodic sweep exports them.
	var publisher services.SyncPublisher
	if cfg.AMQPURL != "" {
		client, err := amqp.NewClient(cfg.AMQPURL)
		if err != nil {
			logger.Warn("AMQP unavailable, sync messages disabled", "error", err)
		} else {
			publisher = client
		}
	}

	ledger := services.NewLedgerService(repo, publisher)
	fixed := services.NewFixedExpenseService(repo, publisher)
	registry := services.NewRegistryService(repo)

	server := apphttp.NewServer(":"+cfg.Port, ledger, fixed, registry)

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	g, gctx := errgroup.WithContext(ctx)

	g.Go(func() error {
		logger.Info("Server starting", "addr", server.Addr)
		if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			return err
		}
		return nil
	})

	g.Go(func() error {
		<-gctx.Done()
		logger.Info("Shutdown signal received")

		shutdownCtx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
		defer cancel()
		return server.Shutdown(shutdownCtx)
	})

	if err := g.Wait(); err != nil {
		logger.Error("Server error", "error", err)
		os.Exit(1)
	}

	if err := ledger.Close(); err != nil {
		logger.Warn("Cleanup error", "error", err)
	}
	logger.Info("Shutdown complete")
}
