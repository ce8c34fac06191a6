// Package memory is an in-memory LedgerExporter used in tests and local
// development when no spreadsheet is configured.
package memory

import (
	"context"
	"fmt"
	"sync"

	"scorpiongym/internal/core"
	ports "scorpiongym/internal/sheets"
)

type Store struct {
	mu   sync.Mutex
	rows []core.Transaction
	fail error
}

var _ ports.LedgerExporter = (*Store)(nil)

func New() *Store {
	return &Store{}
}

func (s *Store) Append(_ context.Context, t core.Transaction) (string, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.fail != nil {
		return "", s.fail
	}
	s.rows = append(s.rows, t)
	return fmt.Sprintf("mem:%d", len(s.rows)), nil
}

// Rows returns a copy of everything appended so far.
func (s *Store) Rows() []core.Transaction {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make([]core.Transaction, len(s.rows))
	copy(out, s.rows)
	return out
}

// FailWith makes every subsequent Append return err.
func (s *Store) FailWith(err error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.fail = err
}
