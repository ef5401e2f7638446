package core

import "testing"

func TestParseAmount(t *testing.T) {
	cases := []struct {
		in  string
		out int64
		ok  bool
	}{
		{"1", 100, true},
		{"1.0", 100, true},
		{"1250", 125000, true},
		{"12.34", 1234, true},
		{"12,34", 1234, true},
		{"0.01", 1, true},
		{"0", 0, true},
		{"1.005", 101, true}, // half-up rounding
		{" 2.50 ", 250, true},
		{"-1", 0, false},
		{"+1", 0, false},
		{"abc", 0, false},
		{"1.2.3", 0, false},
		{"", 0, false},
	}
	for _, tc := range cases {
		got, err := ParseAmount(tc.in)
		if tc.ok {
			if err != nil || got.Paisa != tc.out {
				t.Fatalf("%q expected %d, got %d (err=%v)", tc.in, tc.out, got.Paisa, err)
			}
		} else {
			if err == nil {
				t.Fatalf("%q expected error", tc.in)
			}
		}
	}
}

func TestMoneyDecimalRoundTrip(t *testing.T) {
	for _, paisa := range []int64{0, 1, 99, 100, 6075_00, -300_50} {
		m := Money{Paisa: paisa}
		if got := MoneyFromDecimal(m.Decimal()); got.Paisa != paisa {
			t.Fatalf("round trip of %d gave %d", paisa, got.Paisa)
		}
	}
}

func TestMoneyFormat(t *testing.T) {
	cases := []struct {
		paisa int64
		cur   Currency
		want  string
	}{
		{1500_00, NPR, "NPR 1500.00"},
		{99, USD, "USD 0.99"},
		{-300_50, NPR, "-NPR 300.50"},
	}
	for _, tc := range cases {
		if got := (Money{Paisa: tc.paisa}).Format(tc.cur); got != tc.want {
			t.Fatalf("expected %q, got %q", tc.want, got)
		}
	}
}
