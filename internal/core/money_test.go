package core

import (
	"encoding/json"
	"testing"
)

func TestParseDecimalToCents(t *testing.T) {
	tests := []struct {
		name    string
		in      string
		want    int64
		wantErr bool
	}{
		{name: "dot separator", in: "12.34", want: 1234},
		{name: "comma separator", in: "12,34", want: 1234},
		{name: "integer", in: "500", want: 50000},
		{name: "single decimal digit", in: "5.1", want: 510},
		{name: "third digit rounds down", in: "12.344", want: 1234},
		{name: "third digit rounds up", in: "12.346", want: 1235},
		{name: "leading dot", in: ".50", want: 50},
		{name: "whitespace trimmed", in: "  7.00 ", want: 700},
		{name: "empty", in: "", wantErr: true},
		{name: "zero", in: "0", wantErr: true},
		{name: "negative", in: "-3.50", wantErr: true},
		{name: "explicit plus", in: "+3.50", wantErr: true},
		{name: "letters", in: "abc", wantErr: true},
		{name: "two separators", in: "1.2.3", wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := ParseDecimalToCents(tt.in)
			if tt.wantErr {
				if err == nil {
					t.Fatalf("ParseDecimalToCents(%q) = %d, want error", tt.in, got)
				}
				return
			}
			if err != nil {
				t.Fatalf("ParseDecimalToCents(%q) error: %v", tt.in, err)
			}
			if got != tt.want {
				t.Errorf("ParseDecimalToCents(%q) = %d, want %d", tt.in, got, tt.want)
			}
		})
	}
}

func TestMoneyDecimal(t *testing.T) {
	tests := []struct {
		cents int64
		want  string
	}{
		{cents: 1234, want: "12.34"},
		{cents: 50000, want: "500.00"},
		{cents: 5, want: "0.05"},
		{cents: -150, want: "-1.50"},
	}
	for _, tt := range tests {
		if got := (Money{Cents: tt.cents}).Decimal(); got != tt.want {
			t.Errorf("Money{%d}.Decimal() = %q, want %q", tt.cents, got, tt.want)
		}
	}
}

func TestMoneyJSON(t *testing.T) {
	t.Run("marshal emits decimal string", func(t *testing.T) {
		out, err := json.Marshal(Money{Cents: 50000})
		if err != nil {
			t.Fatalf("marshal: %v", err)
		}
		if string(out) != `"500.00"` {
			t.Errorf("marshal = %s", out)
		}
	})

	t.Run("unmarshal accepts string", func(t *testing.T) {
		var m Money
		if err := json.Unmarshal([]byte(`"12,34"`), &m); err != nil {
			t.Fatalf("unmarshal: %v", err)
		}
		if m.Cents != 1234 {
			t.Errorf("cents = %d, want 1234", m.Cents)
		}
	})

	t.Run("unmarshal accepts number", func(t *testing.T) {
		var m Money
		if err := json.Unmarshal([]byte(`12.34`), &m); err != nil {
			t.Fatalf("unmarshal: %v", err)
		}
		if m.Cents != 1234 {
			t.Errorf("cents = %d, want 1234", m.Cents)
		}
	})

	t.Run("unmarshal rejects garbage", func(t *testing.T) {
		var m Money
		if err := json.Unmarshal([]byte(`"free"`), &m); err == nil {
			t.Error("expected error for non-decimal input")
		}
	})
}
