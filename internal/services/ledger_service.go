package services

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"scorpiongym/internal/core"
	"scorpiongym/internal/storage"
)

// SyncPublisher pushes ledger change notifications to the export pipeline.
// Implemented by the AMQP client; nil disables publishing.
type SyncPublisher interface {
	PublishTransactionSync(ctx context.Context, transactionID, version int64) error
	Close() error
}

// LedgerService owns transaction CRUD and the monthly summary. Writes go to
// SQLite first; the Sheets replica is notified afterwards on a best-effort
// basis, with the sync_status column as the durable fallback queue.
type LedgerService struct {
	repo      *storage.SQLiteRepository
	publisher SyncPublisher
	now       func() time.Time
}

func NewLedgerService(repo *storage.SQLiteRepository, publisher SyncPublisher) *LedgerService {
	return &LedgerService{repo: repo, publisher: publisher, now: time.Now}
}

func (s *LedgerService) List(ctx context.Context, gymID string) ([]core.Transaction, error) {
	if gymID == "" {
		return nil, core.NewValidationError("gym_id", "required")
	}
	return s.repo.ListTransactions(ctx, gymID)
}

func (s *LedgerService) Create(ctx context.Context, t core.Transaction) (core.Transaction, error) {
	if err := t.Validate(); err != nil {
		return core.Transaction{}, err
	}

	created, err := s.repo.CreateTransaction(ctx, t, s.now())
	if err != nil {
		return core.Transaction{}, fmt.Errorf("create transaction: %w", err)
	}

	s.notifySync(ctx, created.ID, 1)
	return created, nil
}

func (s *LedgerService) Update(ctx context.Context, id int64, gymID string, patch storage.TransactionPatch) (core.Transaction, error) {
	if gymID == "" {
		return core.Transaction{}, core.NewValidationError("gym_id", "required")
	}

	updated, err := s.repo.UpdateTransaction(ctx, id, gymID, patch)
	if err != nil {
		return core.Transaction{}, err
	}

	s.notifySync(ctx, updated.ID, 0)
	return updated, nil
}

func (s *LedgerService) Delete(ctx context.Context, id int64, gymID string) error {
	if gymID == "" {
		return core.NewValidationError("gym_id", "required")
	}
	return s.repo.DeleteTransaction(ctx, id, gymID)
}

func (s *LedgerService) MonthSummary(ctx context.Context, gymID string, year, month int) (core.MonthSummary, error) {
	if gymID == "" {
		return core.MonthSummary{}, core.NewValidationError("gym_id", "required")
	}
	if year < 2000 || year > 2200 {
		return core.MonthSummary{}, core.NewValidationError("year", "out of range")
	}
	if month < 1 || month > 12 {
		return core.MonthSummary{}, core.NewValidationError("month", "must be between 1 and 12")
	}
	return s.repo.ReadMonthSummary(ctx, gymID, year, month)
}

// notifySync publishes a sync message if a publisher is configured. Failures
// are logged and swallowed: the row stays in sync_status=pending and the
// worker's periodic scan picks it up.
func (s *LedgerService) notifySync(ctx context.Context, id, version int64) {
	if s.publisher == nil {
		return
	}
	if err := s.publisher.PublishTransactionSync(ctx, id, version); err != nil {
		slog.WarnContext(ctx, "Failed to publish sync message, row stays pending",
			"transaction_id", id,
			"error", err)
	}
}

func (s *LedgerService) Close() error {
	var errs []error
	if s.publisher != nil {
		if err := s.publisher.Close(); err != nil {
			errs = append(errs, fmt.Errorf("close publisher: %w", err))
		}
	}
	if err := s.repo.Close(); err != nil {
		errs = append(errs, fmt.Errorf("close repository: %w", err))
	}
	if len(errs) > 0 {
		return fmt.Errorf("ledger service close: %v", errs)
	}
	return nil
}
