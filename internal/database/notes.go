package database

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/benvon/deerdiary/internal/calendar"
	"github.com/benvon/deerdiary/internal/models"
	"github.com/google/uuid"
)

// noteDocument is the JSONB body stored for each note
type noteDocument struct {
	Date      string         `json:"date"`
	Weather   models.Weather `json:"weather,omitempty"`
	Mood      models.Mood    `json:"mood,omitempty"`
	Company   models.Company `json:"company,omitempty"`
	Text      string         `json:"text"`
	Timestamp string         `json:"timestamp,omitempty"`
}

// NoteRepository reads and writes the notes collection
type NoteRepository struct {
	db *DB
}

// NewNoteRepository creates a new note repository
func NewNoteRepository(db *DB) *NoteRepository {
	return &NoteRepository{db: db}
}

// Create inserts a note. ID and CreatedAt are assigned when unset.
func (r *NoteRepository) Create(ctx context.Context, note *models.Note) error {
	month, err := calendar.MonthKey(note.Date)
	if err != nil {
		return err
	}
	if note.ID == uuid.Nil {
		note.ID = uuid.New()
	}
	if note.CreatedAt.IsZero() {
		note.CreatedAt = time.Now().UTC()
	}

	doc, err := json.Marshal(noteDocument{
		Date:      note.Date,
		Weather:   note.Weather,
		Mood:      note.Mood,
		Company:   note.Company,
		Text:      note.Text,
		Timestamp: note.Timestamp,
	})
	if err != nil {
		return fmt.Errorf("failed to marshal note: %w", err)
	}

	query := `
		INSERT INTO notes (id, month, doc, created_at)
		VALUES ($1, $2, $3, $4)
		RETURNING created_at
	`
	if err := r.db.QueryRowContext(ctx, query, note.ID, month, doc, note.CreatedAt).Scan(&note.CreatedAt); err != nil {
		return fmt.Errorf("failed to create note: %w", err)
	}
	return nil
}

// List returns every note in insertion order
func (r *NoteRepository) List(ctx context.Context) ([]*models.Note, error) {
	return r.query(ctx, `SELECT id, doc, created_at FROM notes ORDER BY created_at ASC, id ASC`)
}

// ListByMonth returns the notes dated within month (YYYY-MM)
func (r *NoteRepository) ListByMonth(ctx context.Context, month string) ([]*models.Note, error) {
	return r.query(ctx, `SELECT id, doc, created_at FROM notes WHERE month = $1 ORDER BY created_at ASC, id ASC`, month)
}

func (r *NoteRepository) query(ctx context.Context, query string, args ...any) (notes []*models.Note, err error) {
	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to query notes: %w", err)
	}
	defer func() {
		if closeErr := rows.Close(); closeErr != nil && err == nil {
			err = fmt.Errorf("failed to close rows: %w", closeErr)
		}
	}()

	notes = []*models.Note{}
	for rows.Next() {
		var raw []byte
		note := &models.Note{}
		if err := rows.Scan(&note.ID, &raw, &note.CreatedAt); err != nil {
			return nil, fmt.Errorf("failed to scan note: %w", err)
		}
		var doc noteDocument
		if err := json.Unmarshal(raw, &doc); err != nil {
			return nil, fmt.Errorf("failed to unmarshal note %s: %w", note.ID, err)
		}
		note.Date = doc.Date
		note.Weather = doc.Weather
		note.Mood = doc.Mood
		note.Company = doc.Company
		note.Text = doc.Text
		note.Timestamp = doc.Timestamp
		notes = append(notes, note)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating notes: %w", err)
	}
	return notes, nil
}
