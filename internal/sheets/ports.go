// Package sheets defines the ports for the spreadsheet export replica. The
// SQLite ledger is the source of truth; exporters only append.
package sheets

import (
	"context"

	"scorpiongym/internal/core"
)

// LedgerExporter appends one ledger transaction to the export replica and
// returns a backend-specific reference to the written row.
type LedgerExporter interface {
	Append(ctx context.Context, t core.Transaction) (string, error)
}
