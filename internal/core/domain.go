package core

import (
	"strings"
	"time"
)

const (
	Income  TransactionType = "income"
	Expense TransactionType = "expense"

	FixedGym      FixedExpenseType = "gym"
	FixedPersonal FixedExpenseType = "personal"
)

const (
	// Category labels assigned to transactions generated by settlement.
	CategoryGymFixed      = "Gym Fixed Expenses"
	CategoryPersonalFixed = "Personal Fixed Expenses"

	// PaymentMethodAutomatic marks transactions created by the settlement
	// engine rather than entered by a user.
	PaymentMethodAutomatic = "automatic"

	// SettlementAccountID is the placeholder account reference for generated
	// transactions. Account references are denormalized labels and are not
	// resolved against the account registry.
	SettlementAccountID int64 = 0

	settlementDescriptionLabel = "Fixed expense"
)

type (
	TransactionType  string
	FixedExpenseType string

	// Transaction is a single financial movement in a gym's ledger.
	// ID and GymID are immutable after creation.
	Transaction struct {
		ID            int64           `json:"id"`
		GymID         string          `json:"gym_id"`
		Type          TransactionType `json:"type"`
		Date          time.Time       `json:"date"` // economic date, caller-supplied
		Description   string          `json:"description"`
		Amount        Money           `json:"amount"`
		Category      string          `json:"category"`
		PaymentMethod string          `json:"payment_method"`
		AccountID     int64           `json:"account_id"`
		CreatedAt     time.Time       `json:"created_at"`
	}

	// FixedExpense is a recurring obligation template. LastPaidDate is nil
	// until the first settlement and is advanced exclusively by the
	// settlement engine.
	FixedExpense struct {
		ID           int64            `json:"id"`
		GymID        string           `json:"gym_id"`
		Description  string           `json:"description"`
		Amount       Money            `json:"amount"`
		Type         FixedExpenseType `json:"type"`
		CreatedAt    time.Time        `json:"created_at"`
		LastPaidDate *time.Time       `json:"last_paid_date"`
	}

	// Account is flat, gym-scoped reference data.
	Account struct {
		ID    int64  `json:"id"`
		GymID string `json:"gym_id"`
		Name  string `json:"name"`
		Kind  string `json:"kind"`
	}

	// CategoryGroup is a gym-scoped expense category label.
	CategoryGroup struct {
		ID    int64  `json:"id"`
		GymID string `json:"gym_id"`
		Name  string `json:"name"`
	}

	// CategoryAmount is one row of a monthly summary.
	CategoryAmount struct {
		Name   string `json:"name"`
		Amount Money  `json:"amount"`
	}

	// MonthSummary aggregates a gym's ledger for one calendar month.
	MonthSummary struct {
		GymID      string           `json:"gym_id"`
		Year       int              `json:"year"`
		Month      int              `json:"month"`
		Income     Money            `json:"income"`
		Expenses   Money            `json:"expenses"`
		ByCategory []CategoryAmount `json:"by_category"`
	}
)

func (t TransactionType) Valid() bool {
	return t == Income || t == Expense
}

func (f FixedExpenseType) Valid() bool {
	return f == FixedGym || f == FixedPersonal
}

// Category maps a fixed-expense type to the transaction category used on
// settlement. Anything other than "gym" falls back to the personal label.
func (f FixedExpenseType) Category() string {
	if f == FixedGym {
		return CategoryGymFixed
	}
	return CategoryPersonalFixed
}

// SettlementDescription synthesizes the ledger description for a settled
// fixed expense. The label + colon + original description pattern is part of
// the settlement contract.
func SettlementDescription(description string) string {
	return settlementDescriptionLabel + ": " + description
}

func (t Transaction) Validate() error {
	if strings.TrimSpace(t.GymID) == "" {
		return NewValidationError("gym_id", "required")
	}
	if !t.Type.Valid() {
		return NewValidationError("type", "must be 'income' or 'expense'")
	}
	if t.Date.IsZero() {
		return NewValidationError("date", "required")
	}
	if strings.TrimSpace(t.Description) == "" {
		return NewValidationError("description", "required")
	}
	if len(t.Description) > 200 {
		return NewValidationError("description", "too long (max 200 characters)")
	}
	if err := t.Amount.Validate(); err != nil {
		return err
	}
	return nil
}

func (f FixedExpense) Validate() error {
	if strings.TrimSpace(f.GymID) == "" {
		return NewValidationError("gym_id", "required")
	}
	if strings.TrimSpace(f.Description) == "" {
		return NewValidationError("description", "required")
	}
	if len(f.Description) > 200 {
		return NewValidationError("description", "too long (max 200 characters)")
	}
	if err := f.Amount.Validate(); err != nil {
		return err
	}
	if !f.Type.Valid() {
		return NewValidationError("type", "must be 'gym' or 'personal'")
	}
	return nil
}

func (a Account) Validate() error {
	if strings.TrimSpace(a.GymID) == "" {
		return NewValidationError("gym_id", "required")
	}
	if strings.TrimSpace(a.Name) == "" {
		return NewValidationError("name", "required")
	}
	return nil
}

func (g CategoryGroup) Validate() error {
	if strings.TrimSpace(g.GymID) == "" {
		return NewValidationError("gym_id", "required")
	}
	if strings.TrimSpace(g.Name) == "" {
		return NewValidationError("name", "required")
	}
	return nil
}
