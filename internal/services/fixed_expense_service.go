package services

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"scorpiongym/internal/core"
	"scorpiongym/internal/storage"
)

// FixedExpenseService owns recurring-obligation templates and the settlement
// engine that converts them into ledger transactions.
type FixedExpenseService struct {
	repo      *storage.SQLiteRepository
	publisher SyncPublisher
	now       func() time.Time
}

func NewFixedExpenseService(repo *storage.SQLiteRepository, publisher SyncPublisher) *FixedExpenseService {
	return &FixedExpenseService{repo: repo, publisher: publisher, now: time.Now}
}

// List returns a gym's fixed expenses. With dueOnly set, only expenses that
// have not been settled in the current calendar month are returned.
func (s *FixedExpenseService) List(ctx context.Context, gymID string, dueOnly bool) ([]core.FixedExpense, error) {
	if gymID == "" {
		return nil, core.NewValidationError("gym_id", "required")
	}
	all, err := s.repo.ListFixedExpenses(ctx, gymID)
	if err != nil {
		return nil, err
	}
	if !dueOnly {
		return all, nil
	}
	return FilterDue(all, s.now()), nil
}

func (s *FixedExpenseService) Create(ctx context.Context, f core.FixedExpense) (core.FixedExpense, error) {
	if err := f.Validate(); err != nil {
		return core.FixedExpense{}, err
	}
	created, err := s.repo.CreateFixedExpense(ctx, f, s.now())
	if err != nil {
		return core.FixedExpense{}, fmt.Errorf("create fixed expense: %w", err)
	}
	return created, nil
}

func (s *FixedExpenseService) Delete(ctx context.Context, id int64, gymID string) error {
	if gymID == "" {
		return core.NewValidationError("gym_id", "required")
	}
	return s.repo.DeleteFixedExpense(ctx, id, gymID)
}

// SettleResult pairs the generated ledger transaction with the advanced
// template state.
type SettleResult struct {
	Transaction  core.Transaction  `json:"transaction"`
	FixedExpense core.FixedExpense `json:"fixed_expense"`
}

// Settle converts a fixed expense into an expense transaction. The expected
// argument is the optional optimistic-concurrency token: the last_paid_date
// the caller last observed.
func (s *FixedExpenseService) Settle(ctx context.Context, id int64, gymID string, expected *time.Time) (SettleResult, error) {
	if gymID == "" {
		return SettleResult{}, core.NewValidationError("gym_id", "required")
	}

	now := s.now()
	generated, err := s.repo.SettleFixedExpense(ctx, id, gymID, expected, now)
	if err != nil {
		return SettleResult{}, err
	}

	fixed, err := s.repo.GetFixedExpense(ctx, id, gymID)
	if err != nil {
		return SettleResult{}, fmt.Errorf("reload settled fixed expense: %w", err)
	}

	slog.InfoContext(ctx, "Settlement completed",
		"fixed_expense_id", id,
		"gym_id", gymID,
		"transaction_id", generated.ID)

	if s.publisher != nil {
		if err := s.publisher.PublishTransactionSync(ctx, generated.ID, 1); err != nil {
			slog.WarnContext(ctx, "Failed to publish sync message, row stays pending",
				"transaction_id", generated.ID,
				"error", err)
		}
	}

	return SettleResult{Transaction: generated, FixedExpense: fixed}, nil
}
