package worker

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"scorpiongym/internal/amqp"
	"scorpiongym/internal/core"
	"scorpiongym/internal/sheets"
	"scorpiongym/internal/storage"
)

// SyncWorker drains transaction sync messages and mirrors the referenced
// ledger rows into the spreadsheet replica. The replica is append-only; the
// SQLite ledger stays the single source of truth.
type SyncWorker struct {
	repo     *storage.SQLiteRepository
	exporter sheets.LedgerExporter
	now      func() time.Time
}

func NewSyncWorker(repo *storage.SQLiteRepository, exporter sheets.LedgerExporter) *SyncWorker {
	return &SyncWorker{repo: repo, exporter: exporter, now: time.Now}
}

// HandleSyncMessage exports one ledger row. A missing row is not an error:
// the transaction was deleted after the message was queued.
func (w *SyncWorker) HandleSyncMessage(ctx context.Context, msg amqp.TransactionSyncMessage) error {
	t, err := w.repo.GetTransaction(ctx, msg.TransactionID)
	if errors.Is(err, core.ErrNotFound) {
		slog.WarnContext(ctx, "Sync target not found, skipping",
			"transaction_id", msg.TransactionID)
		return nil
	}
	if err != nil {
		return fmt.Errorf("load transaction %d: %w", msg.TransactionID, err)
	}

	ref, err := w.exporter.Append(ctx, t)
	if err != nil {
		if markErr := w.repo.MarkSyncError(ctx, t.ID); markErr != nil {
			slog.ErrorContext(ctx, "Failed to record sync error", "transaction_id", t.ID, "error", markErr)
		}
		return fmt.Errorf("export transaction %d: %w", t.ID, err)
	}

	if err := w.repo.MarkSynced(ctx, t.ID, w.now()); err != nil {
		return fmt.Errorf("mark transaction %d synced: %w", t.ID, err)
	}

	slog.InfoContext(ctx, "Transaction exported",
		"transaction_id", t.ID,
		"gym_id", t.GymID,
		"ref", ref)
	return nil
}

// ProcessPendingTransactions sweeps rows stuck in sync_status=pending, the
// fallback for messages lost while the broker was unreachable.
func (w *SyncWorker) ProcessPendingTransactions(ctx context.Context, batchSize int) error {
	pending, err := w.repo.GetPendingSyncTransactions(ctx, batchSize)
	if err != nil {
		return fmt.Errorf("load pending transactions: %w", err)
	}
	if len(pending) == 0 {
		return nil
	}

	slog.InfoContext(ctx, "Processing pending sync transactions", "count", len(pending))

	for _, p := range pending {
		msg := amqp.TransactionSyncMessage{TransactionID: p.ID, Version: p.Version}
		if err := w.HandleSyncMessage(ctx, msg); err != nil {
			slog.ErrorContext(ctx, "Pending sync failed",
				"transaction_id", p.ID,
				"error", err)
		}
	}
	return nil
}

// StartupSyncCheck runs one pending sweep when the worker boots so a backlog
// accumulated during downtime is drained before consuming live messages.
func (w *SyncWorker) StartupSyncCheck(ctx context.Context, batchSize int) {
	if err := w.ProcessPendingTransactions(ctx, batchSize); err != nil {
		slog.ErrorContext(ctx, "Startup sync check failed", "error", err)
	}
}
