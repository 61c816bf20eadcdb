package receipt

import (
	"testing"

	"github.com/shopspring/decimal"
)

func TestNumberToWords(t *testing.T) {
	cases := []struct {
		in   int64
		want string
	}{
		{0, "Zero"},
		{5, "Five"},
		{13, "Thirteen"},
		{20, "Twenty"},
		{21, "Twenty One"},
		{100, "One Hundred"},
		{105, "One Hundred Five"},
		{999, "Nine Hundred Ninety Nine"},
		{1000, "One Thousand"},
		{1234, "One Thousand Two Hundred Thirty Four"},
		{1000000, "One Million"},
		{2000001, "Two Million One"},
		{1_000_000_000, "One Billion"},
		{12_345_678, "Twelve Million Three Hundred Forty Five Thousand Six Hundred Seventy Eight"},
	}

	for _, c := range cases {
		got, err := NumberToWords(c.in)
		if err != nil {
			t.Errorf("NumberToWords(%d): unexpected error %v", c.in, err)
			continue
		}
		if got != c.want {
			t.Errorf("NumberToWords(%d) = %q, want %q", c.in, got, c.want)
		}
	}
}

func TestNumberToWords_Invalid(t *testing.T) {
	if _, err := NumberToWords(-1); err == nil {
		t.Fatalf("expected negative input to fail")
	}
	if _, err := NumberToWords(maxWordsValue + 1); err == nil {
		t.Fatalf("expected out-of-range input to fail")
	}
}

func TestAmountInWords(t *testing.T) {
	got, err := AmountInWords(decimal.RequireFromString("1234.50"), "Naira")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	want := "One Thousand Two Hundred Thirty Four Naira and 50/100"
	if got != want {
		t.Fatalf("got %q, want %q", got, want)
	}
}

func TestAmountInWords_WholeAmount(t *testing.T) {
	got, err := AmountInWords(decimal.RequireFromString("100"), "Naira")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if want := "One Hundred Naira and 00/100"; got != want {
		t.Fatalf("got %q, want %q", got, want)
	}
}

func TestAmountInWords_NegativeFails(t *testing.T) {
	if _, err := AmountInWords(decimal.RequireFromString("-1"), "Naira"); err == nil {
		t.Fatalf("expected negative amount to fail")
	}
}
