package memory

import (
	"context"
	"errors"
	"testing"

	"scorpiongym/internal/core"
)

func TestAppendAndRows(t *testing.T) {
	store := New()
	ctx := context.Background()

	ref, err := store.Append(ctx, core.Transaction{ID: 1, GymID: "gym-a", Description: "Rent"})
	if err != nil {
		t.Fatalf("append: %v", err)
	}
	if ref != "mem:1" {
		t.Errorf("ref = %q, want mem:1", ref)
	}

	rows := store.Rows()
	if len(rows) != 1 || rows[0].Description != "Rent" {
		t.Errorf("rows = %+v", rows)
	}
}

func TestFailWith(t *testing.T) {
	store := New()
	boom := errors.New("quota exceeded")
	store.FailWith(boom)

	if _, err := store.Append(context.Background(), core.Transaction{}); !errors.Is(err, boom) {
		t.Errorf("err = %v, want injected failure", err)
	}
	if len(store.Rows()) != 0 {
		t.Error("failed append stored a row")
	}
}
