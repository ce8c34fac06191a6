package storage

import (
	"context"
	"database/sql"
	"errors"
	"log/slog"
	"time"

	"scorpiongym/internal/core"
)

// SettleFixedExpense converts a fixed expense into a ledger transaction and
// advances last_paid_date, all inside one database transaction. Either both
// writes land or neither does.
//
// Concurrency control is optimistic: the UPDATE on last_paid_date is guarded
// by the value read at the start of the transaction, so a concurrent
// settlement of the same expense makes the guard miss and the whole
// settlement rolls back with ErrConflict. When the caller supplies expected
// (the last_paid_date it observed), a mismatch is detected before any write.
func (r *SQLiteRepository) SettleFixedExpense(ctx context.Context, id int64, gymID string, expected *time.Time, now time.Time) (core.Transaction, error) {
	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return core.Transaction{}, storageErr("begin settlement", err)
	}
	defer tx.Rollback()

	row := tx.QueryRowContext(ctx,
		`SELECT `+fixedExpenseColumns+` FROM fixed_expenses WHERE id = ? AND gym_id = ?`, id, gymID)
	fixed, err := scanFixedExpense(row)
	if err != nil {
		return core.Transaction{}, storageErr("load fixed expense", err)
	}

	// Caller-supplied precondition: the last_paid_date it observed must still
	// be current.
	if expected != nil && !sameInstant(expected, fixed.LastPaidDate) {
		return core.Transaction{}, core.ErrConflict
	}

	generated := core.Transaction{
		GymID:         gymID,
		Type:          core.Expense,
		Date:          now.UTC(),
		Description:   core.SettlementDescription(fixed.Description),
		Amount:        fixed.Amount,
		Category:      fixed.Type.Category(),
		PaymentMethod: core.PaymentMethodAutomatic,
		AccountID:     core.SettlementAccountID,
		CreatedAt:     now.UTC(),
	}

	res, err := tx.ExecContext(ctx, `
		INSERT INTO transactions (gym_id, type, date, description, amount_cents, category, payment_method, account_id, created_at, sync_status)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		generated.GymID, generated.Type, formatTime(generated.Date), generated.Description,
		generated.Amount.Cents, generated.Category, generated.PaymentMethod,
		generated.AccountID, formatTime(generated.CreatedAt), SyncPending)
	if err != nil {
		return core.Transaction{}, storageErr("insert settlement transaction", err)
	}
	if generated.ID, err = res.LastInsertId(); err != nil {
		return core.Transaction{}, storageErr("settlement transaction id", err)
	}

	// Guarded by the value read above. Zero rows means someone else settled
	// this expense between our read and write.
	var guard sql.Result
	if fixed.LastPaidDate == nil {
		guard, err = tx.ExecContext(ctx,
			`UPDATE fixed_expenses SET last_paid_date = ? WHERE id = ? AND last_paid_date IS NULL`,
			formatTime(now), id)
	} else {
		guard, err = tx.ExecContext(ctx,
			`UPDATE fixed_expenses SET last_paid_date = ? WHERE id = ? AND last_paid_date = ?`,
			formatTime(now), id, formatTime(*fixed.LastPaidDate))
	}
	if err != nil {
		return core.Transaction{}, storageErr("advance last paid date", err)
	}
	n, err := guard.RowsAffected()
	if err != nil {
		return core.Transaction{}, storageErr("advance last paid date", err)
	}
	if n == 0 {
		return core.Transaction{}, core.ErrConflict
	}

	if err := tx.Commit(); err != nil {
		if errors.Is(err, sql.ErrTxDone) {
			return core.Transaction{}, core.ErrConflict
		}
		return core.Transaction{}, storageErr("commit settlement", err)
	}

	slog.InfoContext(ctx, "Fixed expense settled",
		"fixed_expense_id", id,
		"gym_id", gymID,
		"transaction_id", generated.ID,
		"amount_cents", generated.Amount.Cents,
		"category", generated.Category)

	return generated, nil
}

func sameInstant(a, b *time.Time) bool {
	if a == nil || b == nil {
		return a == nil && b == nil
	}
	return a.Equal(*b)
}
