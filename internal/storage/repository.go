package storage

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"time"

	"scorpiongym/internal/core"

	_ "modernc.org/sqlite"
)

// Sync states for the Sheets export pipeline.
const (
	SyncPending = "pending"
	SyncDone    = "synced"
	SyncError   = "error"
)

type SQLiteRepository struct {
	db *sql.DB
}

func NewSQLiteRepository(dbPath string) (*SQLiteRepository, error) {
	if err := os.MkdirAll(filepath.Dir(dbPath), 0755); err != nil {
		return nil, fmt.Errorf("create db directory: %w", err)
	}

	db, err := sql.Open("sqlite", dbPath)
	if err != nil {
		return nil, fmt.Errorf("open sqlite database: %w", err)
	}

	if err := db.Ping(); err != nil {
		db.Close()
		return nil, fmt.Errorf("ping database: %w", err)
	}

	if err := RunMigrations(dbPath); err != nil {
		db.Close()
		return nil, fmt.Errorf("run migrations: %w", err)
	}

	return &SQLiteRepository{db: db}, nil
}

func (r *SQLiteRepository) Close() error {
	if r.db != nil {
		return r.db.Close()
	}
	return nil
}

// storageErr classifies a database error: no rows becomes ErrNotFound,
// anything else is wrapped as an opaque StorageError.
func storageErr(op string, err error) error {
	if errors.Is(err, sql.ErrNoRows) {
		return core.ErrNotFound
	}
	return &core.StorageError{Op: op, Err: err}
}

func formatTime(t time.Time) string {
	return t.UTC().Format(time.RFC3339Nano)
}

func parseTime(s string) (time.Time, error) {
	t, err := time.Parse(time.RFC3339Nano, s)
	if err != nil {
		return time.Time{}, fmt.Errorf("parse stored timestamp %q: %w", s, err)
	}
	return t, nil
}

// --- Transactions ---

const transactionColumns = `id, gym_id, type, date, description, amount_cents, category, payment_method, account_id, created_at`

func scanTransaction(row interface{ Scan(...any) error }) (core.Transaction, error) {
	var (
		t                core.Transaction
		dateStr, created string
	)
	err := row.Scan(&t.ID, &t.GymID, &t.Type, &dateStr, &t.Description,
		&t.Amount.Cents, &t.Category, &t.PaymentMethod, &t.AccountID, &created)
	if err != nil {
		return core.Transaction{}, err
	}
	if t.Date, err = parseTime(dateStr); err != nil {
		return core.Transaction{}, err
	}
	if t.CreatedAt, err = parseTime(created); err != nil {
		return core.Transaction{}, err
	}
	return t, nil
}

// ListTransactions returns the gym's ledger ordered by id so repeated calls
// with no intervening writes return the same sequence.
func (r *SQLiteRepository) ListTransactions(ctx context.Context, gymID string) ([]core.Transaction, error) {
	rows, err := r.db.QueryContext(ctx,
		`SELECT `+transactionColumns+` FROM transactions WHERE gym_id = ? ORDER BY id`, gymID)
	if err != nil {
		return nil, storageErr("list transactions", err)
	}
	defer rows.Close()

	var out []core.Transaction
	for rows.Next() {
		t, err := scanTransaction(rows)
		if err != nil {
			return nil, storageErr("scan transaction", err)
		}
		out = append(out, t)
	}
	if err := rows.Err(); err != nil {
		return nil, storageErr("list transactions", err)
	}
	return out, nil
}

// CreateTransaction inserts a new ledger row. The id is always assigned here;
// any caller-supplied id has been dropped upstream. The economic date comes
// from the caller, created_at is the server clock.
func (r *SQLiteRepository) CreateTransaction(ctx context.Context, t core.Transaction, now time.Time) (core.Transaction, error) {
	t.ID = 0
	t.CreatedAt = now.UTC()

	res, err := r.db.ExecContext(ctx, `
		INSERT INTO transactions (gym_id, type, date, description, amount_cents, category, payment_method, account_id, created_at, sync_status)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		t.GymID, t.Type, formatTime(t.Date), t.Description, t.Amount.Cents,
		t.Category, t.PaymentMethod, t.AccountID, formatTime(t.CreatedAt), SyncPending)
	if err != nil {
		return core.Transaction{}, storageErr("insert transaction", err)
	}

	id, err := res.LastInsertId()
	if err != nil {
		return core.Transaction{}, storageErr("insert transaction id", err)
	}
	t.ID = id

	slog.InfoContext(ctx, "Transaction saved",
		"id", t.ID,
		"gym_id", t.GymID,
		"type", t.Type,
		"amount_cents", t.Amount.Cents)

	return t, nil
}

// TransactionPatch carries the updatable fields of a transaction. Nil fields
// are left untouched; id and gym_id are not representable here and therefore
// immutable.
type TransactionPatch struct {
	Type          *core.TransactionType
	Date          *time.Time
	Description   *string
	Amount        *core.Money
	Category      *string
	PaymentMethod *string
	AccountID     *int64
}

// UpdateTransaction applies a partial merge onto the stored row. The row must
// belong to gymID; a mismatch is indistinguishable from a missing record.
func (r *SQLiteRepository) UpdateTransaction(ctx context.Context, id int64, gymID string, patch TransactionPatch) (core.Transaction, error) {
	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return core.Transaction{}, storageErr("begin update", err)
	}
	defer tx.Rollback()

	row := tx.QueryRowContext(ctx,
		`SELECT `+transactionColumns+` FROM transactions WHERE id = ? AND gym_id = ?`, id, gymID)
	t, err := scanTransaction(row)
	if err != nil {
		return core.Transaction{}, storageErr("load transaction", err)
	}

	if patch.Type != nil {
		t.Type = *patch.Type
	}
	if patch.Date != nil {
		t.Date = *patch.Date
	}
	if patch.Description != nil {
		t.Description = *patch.Description
	}
	if patch.Amount != nil {
		t.Amount = *patch.Amount
	}
	if patch.Category != nil {
		t.Category = *patch.Category
	}
	if patch.PaymentMethod != nil {
		t.PaymentMethod = *patch.PaymentMethod
	}
	if patch.AccountID != nil {
		t.AccountID = *patch.AccountID
	}

	if err := t.Validate(); err != nil {
		return core.Transaction{}, err
	}

	_, err = tx.ExecContext(ctx, `
		UPDATE transactions
		SET type = ?, date = ?, description = ?, amount_cents = ?, category = ?,
		    payment_method = ?, account_id = ?, version = version + 1, sync_status = ?
		WHERE id = ?`,
		t.Type, formatTime(t.Date), t.Description, t.Amount.Cents, t.Category,
		t.PaymentMethod, t.AccountID, SyncPending, id)
	if err != nil {
		return core.Transaction{}, storageErr("update transaction", err)
	}

	if err := tx.Commit(); err != nil {
		return core.Transaction{}, storageErr("commit update", err)
	}

	slog.InfoContext(ctx, "Transaction updated", "id", id, "gym_id", gymID)
	return t, nil
}

func (r *SQLiteRepository) DeleteTransaction(ctx context.Context, id int64, gymID string) error {
	res, err := r.db.ExecContext(ctx,
		`DELETE FROM transactions WHERE id = ? AND gym_id = ?`, id, gymID)
	if err != nil {
		return storageErr("delete transaction", err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return storageErr("delete transaction", err)
	}
	if n == 0 {
		return core.ErrNotFound
	}
	slog.InfoContext(ctx, "Transaction deleted", "id", id, "gym_id", gymID)
	return nil
}

// GetTransaction loads a single ledger row without tenant filtering. It is
// used by the sync worker, which operates across all gyms.
func (r *SQLiteRepository) GetTransaction(ctx context.Context, id int64) (core.Transaction, error) {
	row := r.db.QueryRowContext(ctx,
		`SELECT `+transactionColumns+` FROM transactions WHERE id = ?`, id)
	t, err := scanTransaction(row)
	if err != nil {
		return core.Transaction{}, storageErr("get transaction", err)
	}
	return t, nil
}

// ReadMonthSummary aggregates income/expense totals and per-category expense
// totals for one calendar month of a gym's ledger.
func (r *SQLiteRepository) ReadMonthSummary(ctx context.Context, gymID string, year, month int) (core.MonthSummary, error) {
	summary := core.MonthSummary{GymID: gymID, Year: year, Month: month}

	monthPrefix := fmt.Sprintf("%04d-%02d", year, month)

	row := r.db.QueryRowContext(ctx, `
		SELECT
			COALESCE(SUM(CASE WHEN type = 'income' THEN amount_cents ELSE 0 END), 0),
			COALESCE(SUM(CASE WHEN type = 'expense' THEN amount_cents ELSE 0 END), 0)
		FROM transactions
		WHERE gym_id = ? AND date LIKE ? || '%'`, gymID, monthPrefix)
	if err := row.Scan(&summary.Income.Cents, &summary.Expenses.Cents); err != nil {
		return summary, storageErr("month totals", err)
	}

	rows, err := r.db.QueryContext(ctx, `
		SELECT category, SUM(amount_cents)
		FROM transactions
		WHERE gym_id = ? AND type = 'expense' AND date LIKE ? || '%'
		GROUP BY category
		ORDER BY SUM(amount_cents) DESC`, gymID, monthPrefix)
	if err != nil {
		return summary, storageErr("category sums", err)
	}
	defer rows.Close()

	for rows.Next() {
		var ca core.CategoryAmount
		if err := rows.Scan(&ca.Name, &ca.Amount.Cents); err != nil {
			return summary, storageErr("scan category sum", err)
		}
		summary.ByCategory = append(summary.ByCategory, ca)
	}
	if err := rows.Err(); err != nil {
		return summary, storageErr("category sums", err)
	}

	return summary, nil
}

// --- Fixed expenses ---

const fixedExpenseColumns = `id, gym_id, description, amount_cents, type, created_at, last_paid_date`

func scanFixedExpense(row interface{ Scan(...any) error }) (core.FixedExpense, error) {
	var (
		f        core.FixedExpense
		created  string
		lastPaid sql.NullString
	)
	err := row.Scan(&f.ID, &f.GymID, &f.Description, &f.Amount.Cents, &f.Type, &created, &lastPaid)
	if err != nil {
		return core.FixedExpense{}, err
	}
	if f.CreatedAt, err = parseTime(created); err != nil {
		return core.FixedExpense{}, err
	}
	if lastPaid.Valid {
		t, err := parseTime(lastPaid.String)
		if err != nil {
			return core.FixedExpense{}, err
		}
		f.LastPaidDate = &t
	}
	return f, nil
}

func (r *SQLiteRepository) ListFixedExpenses(ctx context.Context, gymID string) ([]core.FixedExpense, error) {
	rows, err := r.db.QueryContext(ctx,
		`SELECT `+fixedExpenseColumns+` FROM fixed_expenses WHERE gym_id = ? ORDER BY id`, gymID)
	if err != nil {
		return nil, storageErr("list fixed expenses", err)
	}
	defer rows.Close()

	var out []core.FixedExpense
	for rows.Next() {
		f, err := scanFixedExpense(rows)
		if err != nil {
			return nil, storageErr("scan fixed expense", err)
		}
		out = append(out, f)
	}
	if err := rows.Err(); err != nil {
		return nil, storageErr("list fixed expenses", err)
	}
	return out, nil
}

// CreateFixedExpense inserts a recurring-obligation template with a null
// last_paid_date. Only settlement ever sets last_paid_date.
func (r *SQLiteRepository) CreateFixedExpense(ctx context.Context, f core.FixedExpense, now time.Time) (core.FixedExpense, error) {
	f.ID = 0
	f.CreatedAt = now.UTC()
	f.LastPaidDate = nil

	res, err := r.db.ExecContext(ctx, `
		INSERT INTO fixed_expenses (gym_id, description, amount_cents, type, created_at)
		VALUES (?, ?, ?, ?, ?)`,
		f.GymID, f.Description, f.Amount.Cents, f.Type, formatTime(f.CreatedAt))
	if err != nil {
		return core.FixedExpense{}, storageErr("insert fixed expense", err)
	}

	id, err := res.LastInsertId()
	if err != nil {
		return core.FixedExpense{}, storageErr("insert fixed expense id", err)
	}
	f.ID = id

	slog.InfoContext(ctx, "Fixed expense saved",
		"id", f.ID,
		"gym_id", f.GymID,
		"type", f.Type,
		"amount_cents", f.Amount.Cents)

	return f, nil
}

func (r *SQLiteRepository) GetFixedExpense(ctx context.Context, id int64, gymID string) (core.FixedExpense, error) {
	row := r.db.QueryRowContext(ctx,
		`SELECT `+fixedExpenseColumns+` FROM fixed_expenses WHERE id = ? AND gym_id = ?`, id, gymID)
	f, err := scanFixedExpense(row)
	if err != nil {
		return core.FixedExpense{}, storageErr("get fixed expense", err)
	}
	return f, nil
}

func (r *SQLiteRepository) DeleteFixedExpense(ctx context.Context, id int64, gymID string) error {
	res, err := r.db.ExecContext(ctx,
		`DELETE FROM fixed_expenses WHERE id = ? AND gym_id = ?`, id, gymID)
	if err != nil {
		return storageErr("delete fixed expense", err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return storageErr("delete fixed expense", err)
	}
	if n == 0 {
		return core.ErrNotFound
	}
	slog.InfoContext(ctx, "Fixed expense deleted", "id", id, "gym_id", gymID)
	return nil
}

// --- Accounts ---

func (r *SQLiteRepository) ListAccounts(ctx context.Context, gymID string) ([]core.Account, error) {
	rows, err := r.db.QueryContext(ctx,
		`SELECT id, gym_id, name, kind FROM accounts WHERE gym_id = ? ORDER BY id`, gymID)
	if err != nil {
		return nil, storageErr("list accounts", err)
	}
	defer rows.Close()

	var out []core.Account
	for rows.Next() {
		var a core.Account
		if err := rows.Scan(&a.ID, &a.GymID, &a.Name, &a.Kind); err != nil {
			return nil, storageErr("scan account", err)
		}
		out = append(out, a)
	}
	if err := rows.Err(); err != nil {
		return nil, storageErr("list accounts", err)
	}
	return out, nil
}

func (r *SQLiteRepository) CreateAccount(ctx context.Context, a core.Account) (core.Account, error) {
	a.ID = 0
	res, err := r.db.ExecContext(ctx,
		`INSERT INTO accounts (gym_id, name, kind) VALUES (?, ?, ?)`, a.GymID, a.Name, a.Kind)
	if err != nil {
		return core.Account{}, storageErr("insert account", err)
	}
	id, err := res.LastInsertId()
	if err != nil {
		return core.Account{}, storageErr("insert account id", err)
	}
	a.ID = id
	return a, nil
}

func (r *SQLiteRepository) UpdateAccount(ctx context.Context, id int64, gymID, name, kind string) (core.Account, error) {
	res, err := r.db.ExecContext(ctx,
		`UPDATE accounts SET name = ?, kind = ? WHERE id = ? AND gym_id = ?`, name, kind, id, gymID)
	if err != nil {
		return core.Account{}, storageErr("update account", err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return core.Account{}, storageErr("update account", err)
	}
	if n == 0 {
		return core.Account{}, core.ErrNotFound
	}
	return core.Account{ID: id, GymID: gymID, Name: name, Kind: kind}, nil
}

func (r *SQLiteRepository) DeleteAccount(ctx context.Context, id int64, gymID string) error {
	res, err := r.db.ExecContext(ctx,
		`DELETE FROM accounts WHERE id = ? AND gym_id = ?`, id, gymID)
	if err != nil {
		return storageErr("delete account", err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return storageErr("delete account", err)
	}
	if n == 0 {
		return core.ErrNotFound
	}
	return nil
}

// --- Category groups ---

func (r *SQLiteRepository) ListCategoryGroups(ctx context.Context, gymID string) ([]core.CategoryGroup, error) {
	rows, err := r.db.QueryContext(ctx,
		`SELECT id, gym_id, name FROM category_groups WHERE gym_id = ? ORDER BY id`, gymID)
	if err != nil {
		return nil, storageErr("list category groups", err)
	}
	defer rows.Close()

	var out []core.CategoryGroup
	for rows.Next() {
		var g core.CategoryGroup
		if err := rows.Scan(&g.ID, &g.GymID, &g.Name); err != nil {
			return nil, storageErr("scan category group", err)
		}
		out = append(out, g)
	}
	if err := rows.Err(); err != nil {
		return nil, storageErr("list category groups", err)
	}
	return out, nil
}

func (r *SQLiteRepository) CreateCategoryGroup(ctx context.Context, g core.CategoryGroup) (core.CategoryGroup, error) {
	g.ID = 0
	res, err := r.db.ExecContext(ctx,
		`INSERT INTO category_groups (gym_id, name) VALUES (?, ?)`, g.GymID, g.Name)
	if err != nil {
		return core.CategoryGroup{}, storageErr("insert category group", err)
	}
	id, err := res.LastInsertId()
	if err != nil {
		return core.CategoryGroup{}, storageErr("insert category group id", err)
	}
	g.ID = id
	return g, nil
}

func (r *SQLiteRepository) UpdateCategoryGroup(ctx context.Context, id int64, gymID, name string) (core.CategoryGroup, error) {
	res, err := r.db.ExecContext(ctx,
		`UPDATE category_groups SET name = ? WHERE id = ? AND gym_id = ?`, name, id, gymID)
	if err != nil {
		return core.CategoryGroup{}, storageErr("update category group", err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return core.CategoryGroup{}, storageErr("update category group", err)
	}
	if n == 0 {
		return core.CategoryGroup{}, core.ErrNotFound
	}
	return core.CategoryGroup{ID: id, GymID: gymID, Name: name}, nil
}

func (r *SQLiteRepository) DeleteCategoryGroup(ctx context.Context, id int64, gymID string) error {
	res, err := r.db.ExecContext(ctx,
		`DELETE FROM category_groups WHERE id = ? AND gym_id = ?`, id, gymID)
	if err != nil {
		return storageErr("delete category group", err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return storageErr("delete category group", err)
	}
	if n == 0 {
		return core.ErrNotFound
	}
	return nil
}

// --- Sync queue ---

// PendingSyncTransaction is the minimal row data the sync worker needs to
// build export messages.
type PendingSyncTransaction struct {
	ID      int64
	Version int64
}

func (r *SQLiteRepository) GetPendingSyncTransactions(ctx context.Context, limit int) ([]PendingSyncTransaction, error) {
	rows, err := r.db.QueryContext(ctx,
		`SELECT id, version FROM transactions WHERE sync_status = ? ORDER BY id LIMIT ?`,
		SyncPending, int64(limit))
	if err != nil {
		return nil, storageErr("get pending sync transactions", err)
	}
	defer rows.Close()

	var out []PendingSyncTransaction
	for rows.Next() {
		var p PendingSyncTransaction
		if err := rows.Scan(&p.ID, &p.Version); err != nil {
			return nil, storageErr("scan pending sync transaction", err)
		}
		out = append(out, p)
	}
	if err := rows.Err(); err != nil {
		return nil, storageErr("get pending sync transactions", err)
	}
	return out, nil
}

func (r *SQLiteRepository) MarkSynced(ctx context.Context, id int64, now time.Time) error {
	_, err := r.db.ExecContext(ctx,
		`UPDATE transactions SET sync_status = ?, synced_at = ? WHERE id = ?`,
		SyncDone, formatTime(now), id)
	if err != nil {
		return storageErr("mark transaction synced", err)
	}
	slog.InfoContext(ctx, "Transaction marked as synced", "id", id)
	return nil
}

func (r *SQLiteRepository) MarkSyncError(ctx context.Context, id int64) error {
	_, err := r.db.ExecContext(ctx,
		`UPDATE transactions SET sync_status = ? WHERE id = ?`, SyncError, id)
	if err != nil {
		return storageErr("mark transaction sync error", err)
	}
	slog.WarnContext(ctx, "Transaction marked with sync error", "id", id)
	return nil
}
