package receipt

import (
	"fmt"
	"strings"

	"github.com/shopspring/decimal"
)

var onesWords = []string{
	"", "One", "Two", "Three", "Four", "Five", "Six", "Seven", "Eight", "Nine",
	"Ten", "Eleven", "Twelve", "Thirteen", "Fourteen", "Fifteen", "Sixteen",
	"Seventeen", "Eighteen", "Nineteen",
}

var tensWords = []string{
	"", "", "Twenty", "Thirty", "Forty", "Fifty", "Sixty", "Seventy", "Eighty", "Ninety",
}

var scaleWords = []string{"", "Thousand", "Million", "Billion"}

const maxWordsValue = 999_999_999_999 // largest value scaleWords can name

// NumberToWords spells a non-negative integer in English.
//
//	NumberToWords(0)    == "Zero"
//	NumberToWords(100)  == "One Hundred"
//	NumberToWords(1234) == "One Thousand Two Hundred Thirty Four"
func NumberToWords(n int64) (string, error) {
	if n < 0 {
		return "", fmt.Errorf("number must be non-negative: %d", n)
	}
	if n > maxWordsValue {
		return "", fmt.Errorf("number too large to spell: %d", n)
	}
	if n == 0 {
		return "Zero", nil
	}

	// Split into 3-digit groups, least significant first, then emit each
	// non-zero group followed by its scale word.
	var groups []int64
	for n > 0 {
		groups = append(groups, n%1000)
		n /= 1000
	}

	var parts []string
	for i := len(groups) - 1; i >= 0; i-- {
		g := groups[i]
		if g == 0 {
			continue
		}
		parts = append(parts, threeDigitWords(int(g)))
		if scaleWords[i] != "" {
			parts = append(parts, scaleWords[i])
		}
	}
	return strings.Join(parts, " "), nil
}

// threeDigitWords spells 1..999 recursively: hundreds reduce to the 1..99
// case, and 21..99 reduce to tens + ones.
func threeDigitWords(n int) string {
	switch {
	case n < 20:
		return onesWords[n]
	case n < 100:
		w := tensWords[n/10]
		if n%10 != 0 {
			w += " " + threeDigitWords(n%10)
		}
		return w
	default:
		w := onesWords[n/100] + " Hundred"
		if n%100 != 0 {
			w += " " + threeDigitWords(n%100)
		}
		return w
	}
}

// AmountInWords spells a monetary amount for the receipt's amount-in-words
// line, with the fractional part in the NN/100 convention:
//
//	AmountInWords(decimal(1234.50), "Naira") == "One Thousand Two Hundred Thirty Four Naira and 50/100"
func AmountInWords(amount decimal.Decimal, unit string) (string, error) {
	if amount.IsNegative() {
		return "", fmt.Errorf("amount must be non-negative: %s", amount)
	}

	rounded := amount.Round(2)
	whole := rounded.IntPart()
	cents := rounded.Sub(decimal.NewFromInt(whole)).Mul(decimal.NewFromInt(100)).IntPart()

	words, err := NumberToWords(whole)
	if err != nil {
		return "", err
	}
	if unit != "" {
		words += " " + unit
	}
	return fmt.Sprintf("%s and %02d/100", words, cents), nil
}
