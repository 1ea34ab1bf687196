package mapper

import (
	"strings"

	"github.com/shopspring/decimal"
)

// LineTotal returns quantity*unitPrice rounded half away from zero to 2 places
func LineTotal(quantity, unitPrice float64) float64 {
	return lineTotal(quantity, unitPrice).InexactFloat64()
}

func lineTotal(quantity, unitPrice float64) decimal.Decimal {
	return decimal.NewFromFloat(quantity).Mul(decimal.NewFromFloat(unitPrice)).Round(2)
}

// SumRounded adds the values first and rounds the sum to 2 places
func SumRounded(values ...float64) float64 {
	sum := decimal.Zero
	for _, v := range values {
		sum = sum.Add(decimal.NewFromFloat(v))
	}
	return sum.Round(2).InexactFloat64()
}

// numberText renders numeric source text the way the ERP expects it
// ("5.000" -> "5"); non-numeric text is passed through
func numberText(text string) string {
	text = strings.TrimSpace(text)
	if text == "" {
		return ""
	}
	d, err := decimal.NewFromString(text)
	if err != nil {
		return text
	}
	return d.String()
}

// absNumberText is numberText for an absolute value; absent or non-numeric text counts as 0
func absNumberText(text string) string {
	d, err := decimal.NewFromString(strings.TrimSpace(text))
	if err != nil {
		return "0"
	}
	return d.Abs().String()
}

// fixed2 renders amount text with exactly two decimals; absent or non-numeric text counts as 0
func fixed2(text string) string {
	d, err := decimal.NewFromString(strings.TrimSpace(text))
	if err != nil {
		d = decimal.Zero
	}
	return d.StringFixed(2)
}
