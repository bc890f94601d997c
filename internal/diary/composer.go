// Package diary holds the session journal written by the entry composer and read
// by the history browser.
package diary

import (
	"fmt"
	"strings"
	"sync"
	"time"

	"github.com/benvon/deerdiary/internal/calendar"
	"github.com/benvon/deerdiary/internal/models"
)

// Draft is the composer state that has not been saved yet
type Draft struct {
	Weather models.Weather `json:"weather,omitempty"`
	Mood    models.Mood    `json:"mood,omitempty"`
	Company models.Company `json:"company,omitempty"`
	Text    string         `json:"text"`
}

// Composer collects tag selections and text and keeps the saved entries of the
// session, newest first. Entries are held in memory only.
type Composer struct {
	mu       sync.RWMutex
	draft    Draft
	entries  []models.Entry
	location *time.Location
}

// NewComposer creates a composer that formats dates in loc (time.Local if nil)
func NewComposer(loc *time.Location) *Composer {
	if loc == nil {
		loc = time.Local
	}
	return &Composer{location: loc}
}

// Draft returns a copy of the current draft
func (c *Composer) Draft() Draft {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.draft
}

// DraftPatch is a partial draft update. Nil fields are left alone; an empty
// tag value clears the tag.
type DraftPatch struct {
	Weather *string
	Mood    *string
	Company *string
	Text    *string
}

// SelectWeather sets the weather tag. An empty value clears it.
func (c *Composer) SelectWeather(value string) error {
	return c.Apply(DraftPatch{Weather: &value})
}

// SelectMood sets the mood tag. An empty value clears it.
func (c *Composer) SelectMood(value string) error {
	return c.Apply(DraftPatch{Mood: &value})
}

// SelectCompany sets the company tag. An empty value clears it.
func (c *Composer) SelectCompany(value string) error {
	return c.Apply(DraftPatch{Company: &value})
}

// Apply validates every field of p and then writes them under one lock.
// If any tag is unknown the draft is left untouched.
func (c *Composer) Apply(p DraftPatch) error {
	if err := checkTag("weather", models.WeatherOptions, p.Weather); err != nil {
		return err
	}
	if err := checkTag("mood", models.MoodOptions, p.Mood); err != nil {
		return err
	}
	if err := checkTag("company", models.CompanyOptions, p.Company); err != nil {
		return err
	}

	c.mu.Lock()
	defer c.mu.Unlock()
	if p.Weather != nil {
		c.draft.Weather = models.Weather(*p.Weather)
	}
	if p.Mood != nil {
		c.draft.Mood = models.Mood(*p.Mood)
	}
	if p.Company != nil {
		c.draft.Company = models.Company(*p.Company)
	}
	if p.Text != nil {
		c.draft.Text = *p.Text
	}
	return nil
}

func checkTag(kind string, options []models.TagOption, value *string) error {
	if value == nil || *value == "" {
		return nil
	}
	if _, ok := models.ResolveOption(options, *value); !ok {
		return fmt.Errorf("unknown %s %q", kind, *value)
	}
	return nil
}

// SetText replaces the draft text
func (c *Composer) SetText(text string) {
	_ = c.Apply(DraftPatch{Text: &text})
}

// Save turns the draft into an entry stamped with now, prepends it to the journal
// and clears the draft. Blank text is a no-op and returns false.
func (c *Composer) Save(now time.Time) (models.Entry, bool) {
	c.mu.Lock()
	defer c.mu.Unlock()

	if strings.TrimSpace(c.draft.Text) == "" {
		return models.Entry{}, false
	}

	local := now.In(c.location)
	entry := models.Entry{
		ID:        now.UnixMilli(),
		Date:      calendar.DateKey(local),
		Weather:   c.draft.Weather,
		Mood:      c.draft.Mood,
		Company:   c.draft.Company,
		Text:      c.draft.Text,
		Timestamp: calendar.TimeKey(local),
	}

	c.entries = append([]models.Entry{entry}, c.entries...)
	c.draft = Draft{}
	return entry, true
}

// Seed appends entries to the end of the journal without touching the draft
func (c *Composer) Seed(entries ...models.Entry) {
	c.mu.Lock()
	c.entries = append(c.entries, entries...)
	c.mu.Unlock()
}

// Entries returns a copy of the journal, newest first
func (c *Composer) Entries() []models.Entry {
	c.mu.RLock()
	defer c.mu.RUnlock()
	out := make([]models.Entry, len(c.entries))
	copy(out, c.entries)
	return out
}

// Len returns the number of saved entries
func (c *Composer) Len() int {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return len(c.entries)
}

// Location returns the zone used for date keys
func (c *Composer) Location() *time.Location {
	return c.location
}
