package models

import (
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
)

func TestNormalizeRef(t *testing.T) {
	tests := []struct {
		name string
		in   string
		want string
	}{
		{"numeric drops leading zeros", "007123", "7123"},
		{"numeric unchanged", "7123", "7123"},
		{"all zeros collapse to zero", "000", "0"},
		{"alphanumeric upper-cased", "ab1234", "AB1234"},
		{"whitespace trimmed", "  ab1234  ", "AB1234"},
		{"empty", "", ""},
		{"decimal is not numeric", "12.5", "12.5"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, NormalizeRef(tt.in))
		})
	}
}

func TestNormalizeRef_Idempotent(t *testing.T) {
	for _, ref := range []string{"007123", "ab-99", "AB1234", "", "  x  ", "000", "12345678901234567890123"} {
		once := NormalizeRef(ref)
		assert.Equal(t, once, NormalizeRef(once), "normalize(normalize(%q))", ref)
	}
}

func TestParseAmount(t *testing.T) {
	tests := []struct {
		in   string
		want string
	}{
		{"100.00", "100"},
		{"1,234.56", "1234.56"},
		{"(50.25)", "-50.25"},
		{"$1,000", "1000"},
		{"", "0"},
		{"garbage", "0"},
		{"12.34.56", "0"},
		{"-7", "-7"},
	}
	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			want, _ := decimal.NewFromString(tt.want)
			assert.True(t, ParseAmount(tt.in).Equal(want), "got %s", ParseAmount(tt.in))
		})
	}
}

func TestParseAmountPositive(t *testing.T) {
	assert.True(t, ParseAmountPositive("(100.00)").Equal(decimal.NewFromInt(100)))
	assert.True(t, ParseAmountPositive("-3.50").Equal(decimal.RequireFromString("3.5")))
}

func TestAggregatedTransaction_NetAmount(t *testing.T) {
	tx := AggregatedTransaction{
		ContributionTotal: decimal.NewFromInt(100),
		FeeTotal:          decimal.RequireFromString("5"),
	}
	assert.True(t, tx.NetAmount().Equal(decimal.NewFromInt(95)))
	assert.Equal(t, "Contribution", tx.TypeLabel())

	feeOnly := AggregatedTransaction{FeeTotal: decimal.NewFromInt(5)}
	assert.Equal(t, "Fee/Expense", feeOnly.TypeLabel())
}

func TestDateWindow_Contains(t *testing.T) {
	min := time.Date(2025, 1, 1, 0, 0, 0, 0, time.UTC)
	max := time.Date(2025, 6, 30, 0, 0, 0, 0, time.UTC)
	w := DateWindow{Min: min, Max: max, Valid: true}

	assert.True(t, w.Contains(min))
	assert.True(t, w.Contains(max))
	assert.False(t, w.Contains(max.AddDate(0, 0, 1)))
	assert.False(t, w.Contains(min.AddDate(0, 0, -1)))

	open := DateWindow{}
	assert.True(t, open.Contains(time.Date(1990, 1, 1, 0, 0, 0, 0, time.UTC)))
}
