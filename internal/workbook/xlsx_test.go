package workbook

import (
	"bytes"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestXLSX_RoundTrip(t *testing.T) {
	wb := New()
	summary := wb.Add("Summary")
	summary.Append(StringRow("Sports Clubs", "Rollover"))
	summary.Append(Row{
		{Value: "Archery"},
		{Value: decimal.RequireFromString("250.50"), Format: FormatCurrency},
	})

	club := wb.Ensure("Archery", []string{"Date", "Journal Ref"})
	club.Append(Row{
		{Value: time.Date(2025, 7, 1, 0, 0, 0, 0, time.UTC), Format: FormatDate},
		{Value: "AB1234"},
	})

	var buf bytes.Buffer
	require.NoError(t, XLSX{}.Save(wb, &buf))

	loaded, err := XLSX{}.Load(bytes.NewReader(buf.Bytes()))
	require.NoError(t, err)
	assert.Equal(t, []string{"Summary", "Archery"}, loaded.Names())

	ls, ok := loaded.Sheet("Summary")
	require.True(t, ok)
	assert.Equal(t, "Archery", ls.CellString(1, 0))

	lc, ok := loaded.Sheet("Archery")
	require.True(t, ok)
	assert.Equal(t, "AB1234", lc.CellString(1, 1))

	date, ok := lc.CellDate(1, 0)
	require.True(t, ok)
	assert.Equal(t, time.Date(2025, 7, 1, 0, 0, 0, 0, time.UTC), date)
}

func TestXLSX_LoadRejectsGarbage(t *testing.T) {
	_, err := XLSX{}.Load(bytes.NewReader([]byte("not an xlsx file")))
	assert.Error(t, err)
}
