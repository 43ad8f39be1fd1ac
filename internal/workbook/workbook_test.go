package workbook

import (
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestWorkbook_AddEnsureAndOrder(t *testing.T) {
	wb := New()
	wb.Add("Summary")
	sheet := wb.Ensure("Archery", []string{"Date", "Journal Ref"})
	assert.True(t, sheet.FrozenHeader)
	require.Len(t, sheet.Rows, 1)
	assert.Equal(t, "Journal Ref", sheet.CellString(0, 1))

	// Ensure is idempotent.
	again := wb.Ensure("Archery", []string{"Date", "Journal Ref"})
	assert.Same(t, sheet, again)
	assert.Len(t, again.Rows, 1)

	wb.Add("Needs Review")
	wb.Reorder([]string{"Summary", "Needs Review"})
	assert.Equal(t, []string{"Summary", "Needs Review", "Archery"}, wb.Names())
}

func TestSheet_FindHeaderRow(t *testing.T) {
	s := &Sheet{Name: "Summary"}
	s.Append(StringRow("Foundation Report"))
	s.Append(StringRow())
	s.Append(StringRow("Sports Clubs", "Rollover", "Sum of Contribution"))

	row, cols := s.FindHeaderRow([]string{"Sports Clubs", "Rollover"}, 20)
	require.Equal(t, 2, row)
	assert.Equal(t, 0, cols["Sports Clubs"])
	assert.Equal(t, 1, cols["Rollover"])

	row, _ = s.FindHeaderRow([]string{"Missing"}, 20)
	assert.Equal(t, -1, row)
}

func TestSheet_CellDate(t *testing.T) {
	s := &Sheet{Name: "x"}
	s.Append(Row{
		{Value: time.Date(2025, 7, 1, 9, 30, 0, 0, time.UTC)},
		{Value: "2025-06-30"},
		{Value: "nope"},
	})

	d, ok := s.CellDate(0, 0)
	require.True(t, ok)
	assert.Equal(t, time.Date(2025, 7, 1, 0, 0, 0, 0, time.UTC), d)

	d, ok = s.CellDate(0, 1)
	require.True(t, ok)
	assert.Equal(t, time.Date(2025, 6, 30, 0, 0, 0, 0, time.UTC), d)

	_, ok = s.CellDate(0, 2)
	assert.False(t, ok)
	_, ok = s.CellDate(5, 0)
	assert.False(t, ok)
}

func TestSheet_SetCellGrows(t *testing.T) {
	s := &Sheet{Name: "x"}
	s.SetCell(2, 3, Cell{Value: decimal.NewFromInt(5), Format: FormatCurrency})
	require.Len(t, s.Rows, 3)
	assert.Equal(t, "5", s.CellString(2, 3))
	assert.Equal(t, "", s.CellString(0, 0))
}

func TestSheet_DeleteRowAndTruncate(t *testing.T) {
	s := &Sheet{Name: "x"}
	s.Append(StringRow("header"))
	s.Append(StringRow("a"))
	s.Append(StringRow("b"))
	s.DeleteRow(1)
	assert.Equal(t, "b", s.CellString(1, 0))

	s.Append(StringRow("c"))
	s.TruncateBelow(0)
	assert.Len(t, s.Rows, 1)
}

func TestSafeSheetName(t *testing.T) {
	assert.Equal(t, "Men_s Rugby_Lacrosse", SafeSheetName(`Men\s Rugby/Lacrosse`))
	long := SafeSheetName("A very long club name that exceeds the sheet limit")
	assert.Len(t, long, 31)
	assert.Equal(t, "Archery", SafeSheetName("Archery"))
}
