package models

import (
	"regexp"
	"strings"

	"github.com/shopspring/decimal"
)

var plainAmount = regexp.MustCompile(`^-?\d+(\.\d+)?$`)

// ParseAmount converts a cell value to a decimal, tolerating thousands
// separators, currency symbols and parenthesized negatives. Anything that
// does not clean up to a plain number yields zero; row-level malformation
// degrades to a defaulted value, never an error.
func ParseAmount(value string) decimal.Decimal {
	cleaned := strings.TrimSpace(value)
	if cleaned == "" {
		return decimal.Zero
	}
	cleaned = strings.ReplaceAll(cleaned, ",", "")
	cleaned = strings.ReplaceAll(cleaned, "$", "")
	cleaned = strings.ReplaceAll(cleaned, " ", "")
	cleaned = strings.ReplaceAll(cleaned, "(", "-")
	cleaned = strings.ReplaceAll(cleaned, ")", "")
	if !plainAmount.MatchString(cleaned) {
		return decimal.Zero
	}
	d, err := decimal.NewFromString(cleaned)
	if err != nil {
		return decimal.Zero
	}
	return d
}

// ParseAmountPositive parses like ParseAmount and returns the absolute value.
// Contribution credits are recorded as positive amounts regardless of how the
// export signs them.
func ParseAmountPositive(value string) decimal.Decimal {
	return ParseAmount(value).Abs()
}
