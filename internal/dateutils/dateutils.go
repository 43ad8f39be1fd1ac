// Package dateutils provides the date parsing and fiscal calendar helpers
// used throughout the application.
package dateutils

import (
	"fmt"
	"strconv"
	"strings"
	"time"
)

// Common layouts found in foundation spreadsheet exports, tried in order.
var CommonFormats = []string{
	"2006-01-02",
	"2006-01-02 15:04:05",
	"1/2/2006",
	"01/02/2006",
	"1/2/06",
	"2006/01/02",
	"02-Jan-06",
	"Jan 2, 2006",
	"January 2, 2006",
	"02.01.2006",
}

// serialEpoch is the Excel date origin (the 1900 date system, with its
// historical off-by-two relative to 1900-01-01).
var serialEpoch = time.Date(1899, 12, 30, 0, 0, 0, 0, time.UTC)

// ParseDate parses a spreadsheet cell value into a date. It accepts the
// common textual layouts plus raw Excel serial numbers.
func ParseDate(value string) (time.Time, error) {
	s := strings.TrimSpace(value)
	if s == "" {
		return time.Time{}, fmt.Errorf("empty date")
	}
	for _, layout := range CommonFormats {
		if t, err := time.Parse(layout, s); err == nil {
			return t, nil
		}
	}
	if serial, err := strconv.ParseFloat(s, 64); err == nil && serial > 0 {
		return SerialToTime(serial), nil
	}
	return time.Time{}, fmt.Errorf("unable to parse date: %s", s)
}

// SerialToTime converts an Excel serial day number to a UTC date.
func SerialToTime(serial float64) time.Time {
	days := int(serial)
	frac := serial - float64(days)
	return serialEpoch.AddDate(0, 0, days).Add(time.Duration(frac * 24 * float64(time.Hour))).Truncate(24 * time.Hour)
}

// FiscalYearStart returns the start of the fiscal year containing asOf.
// The fiscal year begins on the first day of the seventh month.
func FiscalYearStart(asOf time.Time) time.Time {
	year := asOf.Year()
	if asOf.Month() < time.July {
		year--
	}
	return time.Date(year, time.July, 1, 0, 0, 0, 0, time.UTC)
}

// FiscalYearLabel returns the two-digit label of the fiscal year containing
// asOf, used in output artifact names: FY26 runs July 2025 through June 2026.
func FiscalYearLabel(asOf time.Time) string {
	year := asOf.Year()
	if asOf.Month() >= time.July {
		year++
	}
	return fmt.Sprintf("%02d", year%100)
}

// DateOnly truncates t to midnight UTC so window and fiscal comparisons
// ignore time-of-day noise from datetime cells.
func DateOnly(t time.Time) time.Time {
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, time.UTC)
}
