package core

import (
	"errors"
	"strings"
	"testing"
	"time"
)

func validTransaction() Transaction {
	return Transaction{
		GymID:       "gym-1",
		Type:        Expense,
		Date:        time.Date(2025, 3, 10, 0, 0, 0, 0, time.UTC),
		Description: "Internet",
		Amount:      Money{Cents: 50000},
		Category:    "Utilities",
	}
}

func TestTransactionValidate(t *testing.T) {
	tests := []struct {
		name      string
		mutate    func(*Transaction)
		wantField string
	}{
		{
			name:   "valid",
			mutate: func(*Transaction) {},
		},
		{
			name:      "missing gym id",
			mutate:    func(tr *Transaction) { tr.GymID = " " },
			wantField: "gym_id",
		},
		{
			name:      "unknown type",
			mutate:    func(tr *Transaction) { tr.Type = "transfer" },
			wantField: "type",
		},
		{
			name:      "zero date",
			mutate:    func(tr *Transaction) { tr.Date = time.Time{} },
			wantField: "date",
		},
		{
			name:      "empty description",
			mutate:    func(tr *Transaction) { tr.Description = "" },
			wantField: "description",
		},
		{
			name:      "description too long",
			mutate:    func(tr *Transaction) { tr.Description = strings.Repeat("x", 201) },
			wantField: "description",
		},
		{
			name:      "non-positive amount",
			mutate:    func(tr *Transaction) { tr.Amount = Money{Cents: 0} },
			wantField: "amount",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			tr := validTransaction()
			tt.mutate(&tr)
			err := tr.Validate()
			if tt.wantField == "" {
				if err != nil {
					t.Fatalf("Validate() = %v, want nil", err)
				}
				return
			}
			var verr *ValidationError
			if !errors.As(err, &verr) {
				t.Fatalf("Validate() = %v, want *ValidationError", err)
			}
			if verr.Field != tt.wantField {
				t.Errorf("Validate() field = %q, want %q", verr.Field, tt.wantField)
			}
		})
	}
}

func TestFixedExpenseValidate(t *testing.T) {
	tests := []struct {
		name      string
		expense   FixedExpense
		wantField string
	}{
		{
			name:    "valid gym expense",
			expense: FixedExpense{GymID: "gym-1", Description: "Rent", Amount: Money{Cents: 120000}, Type: FixedGym},
		},
		{
			name:    "valid personal expense",
			expense: FixedExpense{GymID: "gym-1", Description: "Insurance", Amount: Money{Cents: 4500}, Type: FixedPersonal},
		},
		{
			name:      "missing description",
			expense:   FixedExpense{GymID: "gym-1", Amount: Money{Cents: 100}, Type: FixedGym},
			wantField: "description",
		},
		{
			name:      "missing amount",
			expense:   FixedExpense{GymID: "gym-1", Description: "Rent", Type: FixedGym},
			wantField: "amount",
		},
		{
			name:      "unknown type rejected at creation",
			expense:   FixedExpense{GymID: "gym-1", Description: "Rent", Amount: Money{Cents: 100}, Type: "misc"},
			wantField: "type",
		},
		{
			name:      "missing gym id",
			expense:   FixedExpense{Description: "Rent", Amount: Money{Cents: 100}, Type: FixedGym},
			wantField: "gym_id",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := tt.expense.Validate()
			if tt.wantField == "" {
				if err != nil {
					t.Fatalf("Validate() = %v, want nil", err)
				}
				return
			}
			var verr *ValidationError
			if !errors.As(err, &verr) {
				t.Fatalf("Validate() = %v, want *ValidationError", err)
			}
			if verr.Field != tt.wantField {
				t.Errorf("Validate() field = %q, want %q", verr.Field, tt.wantField)
			}
		})
	}
}

func TestFixedExpenseTypeCategory(t *testing.T) {
	tests := []struct {
		name string
		typ  FixedExpenseType
		want string
	}{
		{name: "gym maps to gym label", typ: FixedGym, want: CategoryGymFixed},
		{name: "personal maps to personal label", typ: FixedPersonal, want: CategoryPersonalFixed},
		{name: "unknown falls back to personal label", typ: "misc", want: CategoryPersonalFixed},
		{name: "empty falls back to personal label", typ: "", want: CategoryPersonalFixed},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := tt.typ.Category(); got != tt.want {
				t.Errorf("Category() = %q, want %q", got, tt.want)
			}
		})
	}
}

func TestSettlementDescription(t *testing.T) {
	got := SettlementDescription("Internet")
	if got != "Fixed expense: Internet" {
		t.Errorf("SettlementDescription() = %q", got)
	}
	if !strings.Contains(got, "Internet") {
		t.Errorf("SettlementDescription() must contain the original description")
	}
}
