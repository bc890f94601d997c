package calendar

import (
	"testing"
	"time"

	"github.com/benvon/deerdiary/internal/models"
)

func sampleEntries() []models.Entry {
	return []models.Entry{
		{Date: "9/8/2025", Weather: models.WeatherSunny, Mood: models.MoodHappy, Company: models.CompanyFriends, Text: "Park day", Timestamp: "2:30 PM"},
		{Date: "9/7/2025", Weather: models.WeatherCloudy, Mood: models.MoodOkay, Company: models.CompanyAlone, Text: "Reading", Timestamp: "7:45 PM"},
		{Date: "9/8/2025", Text: "Second entry on the same day"},
	}
}

func TestDateKey(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name string
		in   time.Time
		want string
	}{
		{"single digit month and day", time.Date(2025, time.September, 8, 14, 30, 0, 0, time.UTC), "9/8/2025"},
		{"two digit month and day", time.Date(2024, time.December, 25, 0, 0, 0, 0, time.UTC), "12/25/2024"},
		{"new year", time.Date(2026, time.January, 1, 23, 59, 59, 0, time.UTC), "1/1/2026"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			if got := DateKey(tt.in); got != tt.want {
				t.Errorf("DateKey(%v) = %q, want %q", tt.in, got, tt.want)
			}
			if got := DayKey(tt.in.Year(), tt.in.Month(), tt.in.Day()); got != tt.want {
				t.Errorf("DayKey for %v = %q, want %q", tt.in, got, tt.want)
			}
		})
	}
}

func TestTimeKey(t *testing.T) {
	t.Parallel()

	got := TimeKey(time.Date(2025, time.September, 8, 14, 30, 5, 0, time.UTC))
	if got != "2:30:05 PM" {
		t.Errorf("TimeKey = %q, want %q", got, "2:30:05 PM")
	}
	got = TimeKey(time.Date(2025, time.September, 8, 0, 5, 0, 0, time.UTC))
	if got != "12:05:00 AM" {
		t.Errorf("TimeKey = %q, want %q", got, "12:05:00 AM")
	}
}

func TestDaysIn(t *testing.T) {
	t.Parallel()

	tests := []struct {
		year  int
		month time.Month
		want  int
	}{
		{2025, time.September, 30},
		{2025, time.February, 28},
		{2024, time.February, 29},
		{2025, time.December, 31},
	}
	for _, tt := range tests {
		if got := DaysIn(tt.year, tt.month); got != tt.want {
			t.Errorf("DaysIn(%d, %s) = %d, want %d", tt.year, tt.month, got, tt.want)
		}
	}
}

func TestDays(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name       string
		year       int
		month      time.Month
		wantBlanks int
		wantLen    int
	}{
		{"september 2025 starts monday", 2025, time.September, 1, 31},
		{"february 2026 starts sunday", 2026, time.February, 0, 28},
		{"november 2025 starts saturday", 2025, time.November, 6, 36},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			days := Days(tt.year, tt.month)
			if len(days) != tt.wantLen {
				t.Fatalf("Expected %d slots, got %d", tt.wantLen, len(days))
			}
			for i := 0; i < tt.wantBlanks; i++ {
				if days[i] != 0 {
					t.Errorf("Expected blank at slot %d, got %d", i, days[i])
				}
			}
			if days[tt.wantBlanks] != 1 {
				t.Errorf("Expected day 1 at slot %d, got %d", tt.wantBlanks, days[tt.wantBlanks])
			}
			if days[len(days)-1] != DaysIn(tt.year, tt.month) {
				t.Errorf("Expected last slot to be the last day, got %d", days[len(days)-1])
			}
		})
	}
}

func TestFindEntry_FirstMatchWins(t *testing.T) {
	t.Parallel()

	entries := sampleEntries()

	entry, found := FindEntry(entries, "9/8/2025")
	if !found {
		t.Fatal("Expected entry for 9/8/2025")
	}
	if entry.Text != "Park day" {
		t.Errorf("Expected the first stored entry, got %q", entry.Text)
	}

	if _, found := FindEntry(entries, "9/9/2025"); found {
		t.Error("Expected no entry for 9/9/2025")
	}

	// Zero-padded keys never match the stored format.
	if _, found := FindEntry(entries, "09/08/2025"); found {
		t.Error("Expected padded key not to match")
	}
}

func TestDayEntry(t *testing.T) {
	t.Parallel()

	entries := sampleEntries()
	entry, found := DayEntry(entries, 2025, time.September, 7)
	if !found || entry.Mood != models.MoodOkay {
		t.Errorf("DayEntry(2025-09-07) = %+v, %v", entry, found)
	}
	if _, found := DayEntry(entries, 2025, time.August, 7); found {
		t.Error("Expected no entry in August")
	}
}

func TestMonthKey(t *testing.T) {
	t.Parallel()

	tests := []struct {
		in      string
		want    string
		wantErr bool
	}{
		{"9/8/2025", "2025-09", false},
		{"12/31/2024", "2024-12", false},
		{"2025-09-08", "", true},
		{"", "", true},
	}
	for _, tt := range tests {
		got, err := MonthKey(tt.in)
		if (err != nil) != tt.wantErr {
			t.Errorf("MonthKey(%q) error = %v, wantErr %v", tt.in, err, tt.wantErr)
			continue
		}
		if got != tt.want {
			t.Errorf("MonthKey(%q) = %q, want %q", tt.in, got, tt.want)
		}
	}
}
