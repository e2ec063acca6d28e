package cli

import "testing"

func TestFormatMoney(t *testing.T) {
	tests := []struct {
		amount   float64
		currency string
		digits   int
		want     string
	}{
		{1462500, "IDR", 0, "IDR 1,462,500"},
		{14624.9999999, "IDR", 0, "IDR 14,625"},
		{1234.5, "USD", 2, "USD 1,234.5"},
		{999, "", 0, "999"},
		{0, "IDR", 0, "IDR 0"},
	}
	for _, tt := range tests {
		if got := FormatMoney(tt.amount, tt.currency, tt.digits); got != tt.want {
			t.Fatalf("FormatMoney(%v, %q, %d) = %q, want %q", tt.amount, tt.currency, tt.digits, got, tt.want)
		}
	}
}

func TestFormatPercent(t *testing.T) {
	tests := map[float64]string{
		0.25: "+25%",
		0:    "0%",
		0.05: "+5%",
	}
	for in, want := range tests {
		if got := FormatPercent(in); got != want {
			t.Fatalf("FormatPercent(%v) = %q, want %q", in, got, want)
		}
	}
}

func TestFormatMultiplier(t *testing.T) {
	if got := FormatMultiplier(0.9); got != "×0.9" {
		t.Fatalf("FormatMultiplier(0.9) = %q", got)
	}
	if got := FormatMultiplier(1); got != "×1" {
		t.Fatalf("FormatMultiplier(1) = %q", got)
	}
}
