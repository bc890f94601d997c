package calendar

import (
	"fmt"
	"time"

	"github.com/benvon/deerdiary/internal/models"
)

// MonthRef identifies a displayed month
type MonthRef struct {
	Year  int        `json:"year"`
	Month time.Month `json:"month"`
}

// Prev returns the month before m, rolling the year over
func (m MonthRef) Prev() MonthRef {
	t := time.Date(m.Year, m.Month-1, 1, 0, 0, 0, 0, time.UTC)
	return MonthRef{Year: t.Year(), Month: t.Month()}
}

// Next returns the month after m, rolling the year over
func (m MonthRef) Next() MonthRef {
	t := time.Date(m.Year, m.Month+1, 1, 0, 0, 0, 0, time.UTC)
	return MonthRef{Year: t.Year(), Month: t.Month()}
}

// Title returns the heading, e.g. "September 2025"
func (m MonthRef) Title() string {
	return fmt.Sprintf("%s %d", m.Month.String(), m.Year)
}

// Validate checks the month is in range
func (m MonthRef) Validate() error {
	if m.Month < time.January || m.Month > time.December {
		return fmt.Errorf("month must be between 1 and 12, got %d", int(m.Month))
	}
	if m.Year < 1 || m.Year > 9999 {
		return fmt.Errorf("year must be between 1 and 9999, got %d", m.Year)
	}
	return nil
}

// MonthOf returns the month containing t
func MonthOf(t time.Time) MonthRef {
	return MonthRef{Year: t.Year(), Month: t.Month()}
}

// Cell is one slot of the month grid. Blank cells have Day 0 and no date.
type Cell struct {
	Day      int    `json:"day,omitempty"`
	Date     string `json:"date,omitempty"`
	HasEntry bool   `json:"has_entry"`
	IsToday  bool   `json:"is_today"`
	Blank    bool   `json:"blank,omitempty"`
}

// MonthView is the rendered history month
type MonthView struct {
	Year     int      `json:"year"`
	Month    int      `json:"month"`
	Title    string   `json:"title"`
	Weekdays []string `json:"weekdays"`
	Cells    []Cell   `json:"cells"`
	Prev     MonthRef `json:"prev"`
	Next     MonthRef `json:"next"`
	Entries  int      `json:"entries"`
}

// BuildMonth lays out the grid for ref, marking days with a matching entry and
// the day equal to today.
func BuildMonth(ref MonthRef, entries []models.Entry, today time.Time) MonthView {
	days := Days(ref.Year, ref.Month)
	view := MonthView{
		Year:     ref.Year,
		Month:    int(ref.Month),
		Title:    ref.Title(),
		Weekdays: Weekdays,
		Cells:    make([]Cell, 0, len(days)),
		Prev:     ref.Prev(),
		Next:     ref.Next(),
	}

	ty, tm, td := today.Date()
	for _, day := range days {
		if day == 0 {
			view.Cells = append(view.Cells, Cell{Blank: true})
			continue
		}
		key := DayKey(ref.Year, ref.Month, day)
		_, found := FindEntry(entries, key)
		if found {
			view.Entries++
		}
		view.Cells = append(view.Cells, Cell{
			Day:      day,
			Date:     key,
			HasEntry: found,
			IsToday:  ty == ref.Year && tm == ref.Month && td == day,
		})
	}
	return view
}

// DayDetail is the modal content for a clicked day. Empty is set when no entry matches.
type DayDetail struct {
	Date  string        `json:"date"`
	Entry *models.Entry `json:"entry"`
	Empty bool          `json:"empty"`
}

// LookupDay resolves the detail for one day of ref
func LookupDay(ref MonthRef, day int, entries []models.Entry) (DayDetail, error) {
	if err := ref.Validate(); err != nil {
		return DayDetail{}, err
	}
	if day < 1 || day > DaysIn(ref.Year, ref.Month) {
		return DayDetail{}, fmt.Errorf("day %d is out of range for %s", day, ref.Title())
	}
	key := DayKey(ref.Year, ref.Month, day)
	entry, found := FindEntry(entries, key)
	if !found {
		return DayDetail{Date: key, Empty: true}, nil
	}
	return DayDetail{Date: key, Entry: entry}, nil
}
