// Package calendar builds the month grid of the history view and maps days to
// diary entries by their "M/D/YYYY" date key.
package calendar

import (
	"fmt"
	"time"

	"github.com/benvon/deerdiary/internal/models"
)

const (
	// DateLayout formats the date key shared by the composer and the history lookup
	DateLayout = "1/2/2006"
	// TimeLayout formats the timestamp stored with each entry
	TimeLayout = "3:04:05 PM"
)

// Weekdays are the grid column headers; weeks start on Sunday
var Weekdays = []string{"Sun", "Mon", "Tue", "Wed", "Thu", "Fri", "Sat"}

// DateKey returns the date key for t, e.g. "9/8/2025"
func DateKey(t time.Time) string {
	return t.Format(DateLayout)
}

// TimeKey returns the entry timestamp for t, e.g. "2:30:15 PM"
func TimeKey(t time.Time) string {
	return t.Format(TimeLayout)
}

// DayKey builds the date key for a day of a displayed month
func DayKey(year int, month time.Month, day int) string {
	return fmt.Sprintf("%d/%d/%d", int(month), day, year)
}

// DaysIn returns the number of days in month
func DaysIn(year int, month time.Month) int {
	// Day 0 of the next month is the last day of this one.
	return time.Date(year, month+1, 0, 0, 0, 0, 0, time.UTC).Day()
}

// Days enumerates the grid slots of a month: one zero per blank cell before the
// first weekday, then 1..DaysIn.
func Days(year int, month time.Month) []int {
	first := time.Date(year, month, 1, 0, 0, 0, 0, time.UTC)
	offset := int(first.Weekday())
	n := DaysIn(year, month)

	days := make([]int, 0, offset+n)
	for i := 0; i < offset; i++ {
		days = append(days, 0)
	}
	for day := 1; day <= n; day++ {
		days = append(days, day)
	}
	return days
}

// FindEntry returns the first entry whose date equals dateKey. Later entries with
// the same date are never returned.
func FindEntry(entries []models.Entry, dateKey string) (*models.Entry, bool) {
	for i := range entries {
		if entries[i].Date == dateKey {
			return &entries[i], true
		}
	}
	return nil, false
}

// DayEntry looks up the entry for a day of a displayed month
func DayEntry(entries []models.Entry, year int, month time.Month, day int) (*models.Entry, bool) {
	return FindEntry(entries, DayKey(year, month, day))
}

// MonthKey returns the "YYYY-MM" month of a date key such as "9/8/2025"
func MonthKey(dateKey string) (string, error) {
	t, err := time.Parse(DateLayout, dateKey)
	if err != nil {
		return "", fmt.Errorf("invalid date %q: %w", dateKey, err)
	}
	return t.Format("2006-01"), nil
}
