package core

import (
	"testing"

	"github.com/shopspring/decimal"
)

func TestParseDecimalToCents(t *testing.T) {
	cases := []struct {
		in  string
		out int64
		ok  bool
	}{
		{"1", 100, true},
		{"1.0", 100, true},
		{"1.23", 123, true},
		{"1,23", 123, true},
		{"0.01", 1, true},
		{"1.005", 101, true}, // half-up rounding
		{" 2.50 ", 250, true},
		{"0", 0, true},
		{".5", 50, true},
		{"-1", 0, false},
		{"abc", 0, false},
		{"1.2.3", 0, false},
		{"", 0, false},
	}
	for _, tc := range cases {
		got, err := ParseDecimalToCents(tc.in)
		if tc.ok {
			if err != nil || got != tc.out {
				t.Fatalf("%q expected %d, got %d (err=%v)", tc.in, tc.out, got, err)
			}
		} else {
			if err == nil {
				t.Fatalf("%q expected error", tc.in)
			}
		}
	}
}

func TestMoneyDecimalRoundTrip(t *testing.T) {
	m := Money{Cents: 12345}
	if got := m.String(); got != "123.45" {
		t.Fatalf("String() = %q", got)
	}
	if got := MoneyFromDecimal(m.Decimal()); got != m {
		t.Fatalf("round trip = %+v", got)
	}
	if got := MoneyFromDecimal(decimal.RequireFromString("0.125")); got.Cents != 13 {
		t.Fatalf("expected half-up to 13 cents, got %d", got.Cents)
	}
}

func TestMoneyArithmetic(t *testing.T) {
	a := Money{Cents: 500}
	b := Money{Cents: 800}
	if got := a.Add(b); got.Cents != 1300 {
		t.Fatalf("Add = %d", got.Cents)
	}
	if got := a.Sub(b); got.Cents != -300 {
		t.Fatalf("Sub = %d", got.Cents)
	}
	if got := b.Float(); got != 8 {
		t.Fatalf("Float = %v", got)
	}
}
