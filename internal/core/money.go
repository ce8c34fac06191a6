// Package core provides the ledger domain model.
//
// This file contains money parsing and formatting. Amounts are handled as
// integer cents everywhere; decimal strings appear only at the API boundary.
package core

import (
	"strconv"
	"strings"
	"unicode"
)

// Money is a positive amount in integer cents.
type Money struct {
	Cents int64
}

func (m Money) Validate() error {
	if m.Cents <= 0 {
		return NewValidationError("amount", "must be positive")
	}
	return nil
}

// Decimal renders the amount as a dot-separated decimal string, e.g. "500.00".
func (m Money) Decimal() string {
	cents := m.Cents
	neg := cents < 0
	if neg {
		cents = -cents
	}
	s := strconv.FormatInt(cents/100, 10) + "." + pad2(cents%100)
	if neg {
		return "-" + s
	}
	return s
}

func pad2(n int64) string {
	if n < 10 {
		return "0" + strconv.FormatInt(n, 10)
	}
	return strconv.FormatInt(n, 10)
}

// MarshalJSON emits the amount as a decimal string.
func (m Money) MarshalJSON() ([]byte, error) {
	return []byte(`"` + m.Decimal() + `"`), nil
}

// UnmarshalJSON accepts either a JSON string ("500.00", comma or dot
// separator) or a bare JSON number.
func (m *Money) UnmarshalJSON(data []byte) error {
	s := strings.TrimSpace(string(data))
	if s == "null" {
		return nil
	}
	s = strings.Trim(s, `"`)
	cents, err := ParseDecimalToCents(s)
	if err != nil {
		return err
	}
	m.Cents = cents
	return nil
}

// ParseDecimalToCents converts a decimal string to cents with half-up
// rounding on the third decimal place. Both dot (12.34) and comma (12,34)
// separators are accepted. The result must be positive.
func ParseDecimalToCents(s string) (int64, error) {
	s = strings.TrimSpace(s)
	if s == "" {
		return 0, NewValidationError("amount", "required")
	}
	s = strings.ReplaceAll(s, ",", ".")
	if strings.HasPrefix(s, "+") || strings.HasPrefix(s, "-") {
		return 0, NewValidationError("amount", "must be positive")
	}
	parts := strings.Split(s, ".")
	if len(parts) > 2 {
		return 0, NewValidationError("amount", "malformed decimal")
	}
	intPart := parts[0]
	fracPart := ""
	if len(parts) == 2 {
		fracPart = parts[1]
	}
	if intPart == "" {
		intPart = "0"
	}
	for _, r := range intPart + fracPart {
		if !unicode.IsDigit(r) {
			return 0, NewValidationError("amount", "malformed decimal")
		}
	}
	iv, err := strconv.ParseInt(intPart, 10, 64)
	if err != nil {
		return 0, NewValidationError("amount", "malformed decimal")
	}
	const maxSafeInt64 = (1<<63 - 1) / 100
	if iv > maxSafeInt64 {
		return 0, NewValidationError("amount", "out of range")
	}
	var fracCents int64
	if len(fracPart) > 0 {
		fracCents = int64(fracPart[0]-'0') * 10
		if len(fracPart) > 1 {
			fracCents += int64(fracPart[1] - '0')
			if len(fracPart) > 2 && fracPart[2] >= '5' {
				fracCents++
			}
		}
	}
	cents := iv*100 + fracCents
	if cents <= 0 {
		return 0, NewValidationError("amount", "must be positive")
	}
	return cents, nil
}
