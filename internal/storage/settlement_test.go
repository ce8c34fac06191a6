package storage

import (
	"context"
	"errors"
	"strings"
	"testing"
	"time"

	"scorpiongym/internal/core"
)

func createTestFixedExpense(t *testing.T, repo *SQLiteRepository, gymID string, typ core.FixedExpenseType) core.FixedExpense {
	t.Helper()
	f, err := repo.CreateFixedExpense(context.Background(), core.FixedExpense{
		GymID:       gymID,
		Description: "Rent",
		Amount:      core.Money{Cents: 150000},
		Type:        typ,
	}, time.Now())
	if err != nil {
		t.Fatalf("create fixed expense: %v", err)
	}
	return f
}

func TestSettleFixedExpense(t *testing.T) {
	repo := newTestRepository(t)
	ctx := context.Background()
	fixed := createTestFixedExpense(t, repo, "gym-a", core.FixedGym)

	now := time.Date(2026, 4, 1, 9, 0, 0, 0, time.UTC)
	generated, err := repo.SettleFixedExpense(ctx, fixed.ID, "gym-a", nil, now)
	if err != nil {
		t.Fatalf("settle: %v", err)
	}

	if generated.Type != core.Expense {
		t.Errorf("type = %q, want expense", generated.Type)
	}
	if generated.Description != "Fixed expense: Rent" {
		t.Errorf("description = %q", generated.Description)
	}
	if generated.Amount.Cents != 150000 {
		t.Errorf("amount = %d, want 150000", generated.Amount.Cents)
	}
	if generated.Category != core.CategoryGymFixed {
		t.Errorf("category = %q, want %q", generated.Category, core.CategoryGymFixed)
	}
	if generated.PaymentMethod != core.PaymentMethodAutomatic {
		t.Errorf("payment method = %q", generated.PaymentMethod)
	}

	// The ledger row is persisted and the template advanced.
	list, err := repo.ListTransactions(ctx, "gym-a")
	if err != nil {
		t.Fatalf("list: %v", err)
	}
	if len(list) != 1 || list[0].ID != generated.ID {
		t.Fatalf("ledger = %+v, want the generated transaction", list)
	}

	after, err := repo.GetFixedExpense(ctx, fixed.ID, "gym-a")
	if err != nil {
		t.Fatalf("get fixed expense: %v", err)
	}
	if after.LastPaidDate == nil || !after.LastPaidDate.Equal(now) {
		t.Errorf("last_paid_date = %v, want %v", after.LastPaidDate, now)
	}
}

func TestSettlePersonalExpenseCategory(t *testing.T) {
	repo := newTestRepository(t)
	fixed := createTestFixedExpense(t, repo, "gym-a", core.FixedPersonal)

	generated, err := repo.SettleFixedExpense(context.Background(), fixed.ID, "gym-a", nil, time.Now())
	if err != nil {
		t.Fatalf("settle: %v", err)
	}
	if generated.Category != core.CategoryPersonalFixed {
		t.Errorf("category = %q, want %q", generated.Category, core.CategoryPersonalFixed)
	}
}

func TestSettleNotFoundLeavesLedgerUntouched(t *testing.T) {
	repo := newTestRepository(t)
	ctx := context.Background()
	fixed := createTestFixedExpense(t, repo, "gym-a", core.FixedGym)

	if _, err := repo.SettleFixedExpense(ctx, fixed.ID+100, "gym-a", nil, time.Now()); !errors.Is(err, core.ErrNotFound) {
		t.Fatalf("missing id error = %v, want ErrNotFound", err)
	}
	if _, err := repo.SettleFixedExpense(ctx, fixed.ID, "gym-b", nil, time.Now()); !errors.Is(err, core.ErrNotFound) {
		t.Fatalf("cross-tenant error = %v, want ErrNotFound", err)
	}

	list, err := repo.ListTransactions(ctx, "gym-a")
	if err != nil {
		t.Fatalf("list: %v", err)
	}
	if len(list) != 0 {
		t.Errorf("failed settlements left %d ledger rows", len(list))
	}
}

func TestSettleStaleExpectation(t *testing.T) {
	repo := newTestRepository(t)
	ctx := context.Background()
	fixed := createTestFixedExpense(t, repo, "gym-a", core.FixedGym)

	first := time.Date(2026, 3, 1, 8, 0, 0, 0, time.UTC)
	if _, err := repo.SettleFixedExpense(ctx, fixed.ID, "gym-a", nil, first); err != nil {
		t.Fatalf("first settle: %v", err)
	}

	// A second caller still holding the pre-settlement view (nil
	// last_paid_date) must be rejected without writing anything.
	stale := time.Date(2026, 2, 1, 8, 0, 0, 0, time.UTC)
	if _, err := repo.SettleFixedExpense(ctx, fixed.ID, "gym-a", &stale, time.Now()); !errors.Is(err, core.ErrConflict) {
		t.Fatalf("stale settle error = %v, want ErrConflict", err)
	}

	list, err := repo.ListTransactions(ctx, "gym-a")
	if err != nil {
		t.Fatalf("list: %v", err)
	}
	if len(list) != 1 {
		t.Errorf("ledger rows = %d, want only the first settlement", len(list))
	}

	after, err := repo.GetFixedExpense(ctx, fixed.ID, "gym-a")
	if err != nil {
		t.Fatalf("get: %v", err)
	}
	if after.LastPaidDate == nil || !after.LastPaidDate.Equal(first) {
		t.Errorf("last_paid_date = %v, want %v", after.LastPaidDate, first)
	}
}

func TestSettleWithMatchingExpectation(t *testing.T) {
	repo := newTestRepository(t)
	ctx := context.Background()
	fixed := createTestFixedExpense(t, repo, "gym-a", core.FixedGym)

	first := time.Date(2026, 3, 1, 8, 0, 0, 0, time.UTC)
	if _, err := repo.SettleFixedExpense(ctx, fixed.ID, "gym-a", nil, first); err != nil {
		t.Fatalf("first settle: %v", err)
	}

	second := time.Date(2026, 4, 1, 8, 0, 0, 0, time.UTC)
	if _, err := repo.SettleFixedExpense(ctx, fixed.ID, "gym-a", &first, second); err != nil {
		t.Fatalf("settle with current expectation: %v", err)
	}

	after, err := repo.GetFixedExpense(ctx, fixed.ID, "gym-a")
	if err != nil {
		t.Fatalf("get: %v", err)
	}
	if after.LastPaidDate == nil || !after.LastPaidDate.Equal(second) {
		t.Errorf("last_paid_date = %v, want %v", after.LastPaidDate, second)
	}
}

func TestSettleRollsBackOnWriteFailure(t *testing.T) {
	repo := newTestRepository(t)
	ctx := context.Background()
	fixed := createTestFixedExpense(t, repo, "gym-a", core.FixedGym)

	// Force the second write of the settlement to fail so the transaction
	// insert must be rolled back.
	_, err := repo.db.Exec(`
		CREATE TRIGGER fail_advance BEFORE UPDATE ON fixed_expenses
		BEGIN SELECT RAISE(ABORT, 'injected failure'); END`)
	if err != nil {
		t.Fatalf("install trigger: %v", err)
	}

	_, err = repo.SettleFixedExpense(ctx, fixed.ID, "gym-a", nil, time.Now())
	var serr *core.StorageError
	if !errors.As(err, &serr) {
		t.Fatalf("error = %v, want StorageError", err)
	}
	if !strings.Contains(serr.Error(), "injected failure") {
		t.Errorf("unexpected cause: %v", serr)
	}

	list, listErr := repo.ListTransactions(ctx, "gym-a")
	if listErr != nil {
		t.Fatalf("list: %v", listErr)
	}
	if len(list) != 0 {
		t.Errorf("rolled-back settlement left %d orphan ledger rows", len(list))
	}

	after, getErr := repo.GetFixedExpense(ctx, fixed.ID, "gym-a")
	if getErr != nil {
		t.Fatalf("get: %v", getErr)
	}
	if after.LastPaidDate != nil {
		t.Errorf("last_paid_date advanced despite rollback: %v", after.LastPaidDate)
	}
}
