package services

import (
	"context"
	"errors"
	"path/filepath"
	"testing"
	"time"

	"scorpiongym/internal/core"
	"scorpiongym/internal/storage"
)

func newTestFixedExpenseService(t *testing.T, pub SyncPublisher) *FixedExpenseService {
	t.Helper()
	repo, err := storage.NewSQLiteRepository(filepath.Join(t.TempDir(), "test.db"))
	if err != nil {
		t.Fatalf("create repository: %v", err)
	}
	t.Cleanup(func() { repo.Close() })
	return NewFixedExpenseService(repo, pub)
}

func TestFixedExpenseCreateRejectsUnknownType(t *testing.T) {
	svc := newTestFixedExpenseService(t, nil)

	_, err := svc.Create(context.Background(), core.FixedExpense{
		GymID:       "gym-a",
		Description: "Misc",
		Amount:      core.Money{Cents: 1000},
		Type:        "misc",
	})
	var verr *core.ValidationError
	if !errors.As(err, &verr) {
		t.Fatalf("error = %v, want ValidationError", err)
	}
	if verr.Field != "type" {
		t.Errorf("field = %q, want type", verr.Field)
	}
}

func TestSettleAndDuenessRoundtrip(t *testing.T) {
	pub := &fakePublisher{}
	svc := newTestFixedExpenseService(t, pub)
	ctx := context.Background()

	created, err := svc.Create(ctx, core.FixedExpense{
		GymID:       "gym-a",
		Description: "Rent",
		Amount:      core.Money{Cents: 150000},
		Type:        core.FixedGym,
	})
	if err != nil {
		t.Fatalf("create: %v", err)
	}

	due, err := svc.List(ctx, "gym-a", true)
	if err != nil {
		t.Fatalf("list due: %v", err)
	}
	if len(due) != 1 {
		t.Fatalf("due before settle = %d, want 1", len(due))
	}

	result, err := svc.Settle(ctx, created.ID, "gym-a", nil)
	if err != nil {
		t.Fatalf("settle: %v", err)
	}
	if result.Transaction.Category != core.CategoryGymFixed {
		t.Errorf("category = %q", result.Transaction.Category)
	}
	if result.FixedExpense.LastPaidDate == nil {
		t.Error("settle result did not carry advanced last_paid_date")
	}
	if len(pub.published) != 1 || pub.published[0] != result.Transaction.ID {
		t.Errorf("published = %v, want the generated transaction", pub.published)
	}

	due, err = svc.List(ctx, "gym-a", true)
	if err != nil {
		t.Fatalf("list due after settle: %v", err)
	}
	if len(due) != 0 {
		t.Errorf("due after settle = %d, want 0", len(due))
	}
}

func TestSettleStaleTokenConflicts(t *testing.T) {
	svc := newTestFixedExpenseService(t, nil)
	ctx := context.Background()

	created, err := svc.Create(ctx, core.FixedExpense{
		GymID:       "gym-a",
		Description: "Insurance",
		Amount:      core.Money{Cents: 20000},
		Type:        core.FixedGym,
	})
	if err != nil {
		t.Fatalf("create: %v", err)
	}
	if _, err := svc.Settle(ctx, created.ID, "gym-a", nil); err != nil {
		t.Fatalf("first settle: %v", err)
	}

	stale := time.Date(2020, 1, 1, 0, 0, 0, 0, time.UTC)
	if _, err := svc.Settle(ctx, created.ID, "gym-a", &stale); !errors.Is(err, core.ErrConflict) {
		t.Fatalf("stale settle error = %v, want ErrConflict", err)
	}
}

func TestSettleMissingExpense(t *testing.T) {
	svc := newTestFixedExpenseService(t, nil)

	if _, err := svc.Settle(context.Background(), 42, "gym-a", nil); !errors.Is(err, core.ErrNotFound) {
		t.Fatalf("error = %v, want ErrNotFound", err)
	}
}
