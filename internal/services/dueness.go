package services

import (
	"time"

	"scorpiongym/internal/core"
)

// IsDue reports whether a fixed expense should be settled this month: it has
// never been paid, or its last payment falls in a different calendar month.
func IsDue(f core.FixedExpense, now time.Time) bool {
	if f.LastPaidDate == nil {
		return true
	}
	last := f.LastPaidDate.UTC()
	nowUTC := now.UTC()
	return last.Year() != nowUTC.Year() || last.Month() != nowUTC.Month()
}

// FilterDue keeps only the expenses due for settlement relative to now.
func FilterDue(all []core.FixedExpense, now time.Time) []core.FixedExpense {
	due := make([]core.FixedExpense, 0, len(all))
	for _, f := range all {
		if IsDue(f, now) {
			due = append(due, f)
		}
	}
	return due
}
