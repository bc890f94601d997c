package models

import (
	"time"

	"github.com/google/uuid"
)

// Note is an entry persisted as a document in the notes collection
type Note struct {
	ID        uuid.UUID `json:"id"`
	Date      string    `json:"date"`
	Weather   Weather   `json:"weather,omitempty"`
	Mood      Mood      `json:"mood,omitempty"`
	Company   Company   `json:"company,omitempty"`
	Text      string    `json:"text"`
	Timestamp string    `json:"timestamp,omitempty"`
	CreatedAt time.Time `json:"created_at"`
}

// Entry returns the note as a diary entry. The display ID is the creation time in
// milliseconds, zero when the note has not been stored.
func (n *Note) Entry() Entry {
	var id int64
	if !n.CreatedAt.IsZero() {
		id = n.CreatedAt.UnixMilli()
	}
	return Entry{
		ID:        id,
		Date:      n.Date,
		Weather:   n.Weather,
		Mood:      n.Mood,
		Company:   n.Company,
		Text:      n.Text,
		Timestamp: n.Timestamp,
	}
}
