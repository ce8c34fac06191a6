package main

import (
	"context"
	"errors"
	"os"
	"os/signal"
	"syscall"
	"time"

	"golang.org/x/sync/errgroup"

	"scorpiongym/internal/amqp"
	"scorpiongym/internal/cli"
	"scorpiongym/internal/sheets"
	"scorpiongym/internal/sheets/google"
	"scorpiongym/internal/sheets/memory"
	"scorpiongym/internal/worker"
)

func main() {
	logger := cli.SetupLogger()
	cli.LoadEnvFile()
	cfg := cli.LoadAndValidateConfig(logger)

	repo := cli.InitSQLite(logger, cfg.SQLiteDBPath)
	defer repo.Close()

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	var exporter sheets.LedgerExporter
	if cfg.GoogleSpreadsheetID != "" {
		client, err := google.NewFromEnv(ctx)
		if err != nil {
			logger.Error("Failed to initialize Google Sheets exporter", "error", err)
			os.Exit(1)
		}
		exporter = client
		logger.Info("Exporting to Google Sheets", "spreadsheet_id", cfg.GoogleSpreadsheetID)
	} else {
		exporter = memory.New()
		logger.Warn("No spreadsheet configured, using in-memory exporter")
	}

	w := worker.NewSyncWorker(repo, exporter)

	// Drain any backlog from downtime before consuming live messages.
	w.StartupSyncCheck(ctx, cfg.SyncBatchSize)

	g, gctx := errgroup.WithContext(ctx)

	if cfg.AMQPURL != "" {
		client, err := amqp.NewClient(cfg.AMQPURL)
		if err != nil {
			logger.Error("Failed to connect to AMQP", "error", err)
			os.Exit(1)
		}
		defer client.Close()

		g.Go(func() error {
			err := client.ConsumeTransactionSync(gctx, w.HandleSyncMessage)
			if errors.Is(err, context.Canceled) {
				return nil
			}
			return err
		})
	} else {
		logger.Warn("No AMQP URL configured, relying on periodic sweep only")
	}

	g.Go(func() error {
		ticker := time.NewTicker(cfg.SyncInterval)
		defer ticker.Stop()

		for {
			select {
			case <-gctx.Done():
				return nil
			case <-ticker.C:
				if err := w.ProcessPendingTransactions(gctx, cfg.SyncBatchSize); err != nil {
					logger.Error("Pending sweep failed", "error", err)
				}
			}
		}
	})

	logger.Info("Sync worker started",
		"sync_interval", cfg.SyncInterval,
		"batch_size", cfg.SyncBatchSize)

	if err := g.Wait(); err != nil {
		logger.Error("Worker error", "error", err)
		os.Exit(1)
	}
	logger.Info("Shutdown complete")
}
