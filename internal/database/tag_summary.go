package database

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/benvon/deerdiary/internal/models"
)

// ErrSummaryNotFound is returned when no summary row exists for a month
var ErrSummaryNotFound = errors.New("tag summary not found")

type summaryCounts struct {
	Weather models.TagCounts `json:"weather"`
	Mood    models.TagCounts `json:"mood"`
	Company models.TagCounts `json:"company"`
}

// TagSummaryRepository handles the per-month tag summaries
type TagSummaryRepository struct {
	db *DB
}

// NewTagSummaryRepository creates a new tag summary repository
func NewTagSummaryRepository(db *DB) *TagSummaryRepository {
	return &TagSummaryRepository{db: db}
}

// GetByMonth retrieves the summary for month (YYYY-MM)
func (r *TagSummaryRepository) GetByMonth(ctx context.Context, month string) (*models.TagSummary, error) {
	summary := models.NewTagSummary(month)
	var countsJSON []byte
	var lastAnalyzedAt sql.NullTime

	query := `
		SELECT month, counts, notes, tainted, last_analyzed_at, version, created_at, updated_at
		FROM tag_summaries
		WHERE month = $1
	`

	err := r.db.QueryRowContext(ctx, query, month).Scan(
		&summary.Month,
		&countsJSON,
		&summary.Notes,
		&summary.Tainted,
		&lastAnalyzedAt,
		&summary.Version,
		&summary.CreatedAt,
		&summary.UpdatedAt,
	)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, fmt.Errorf("%w for month %s", ErrSummaryNotFound, month)
		}
		return nil, fmt.Errorf("failed to get tag summary: %w", err)
	}

	if len(countsJSON) > 0 {
		var counts summaryCounts
		if err := json.Unmarshal(countsJSON, &counts); err != nil {
			return nil, fmt.Errorf("failed to unmarshal counts: %w", err)
		}
		if counts.Weather != nil {
			summary.Weather = counts.Weather
		}
		if counts.Mood != nil {
			summary.Mood = counts.Mood
		}
		if counts.Company != nil {
			summary.Company = counts.Company
		}
	}

	if lastAnalyzedAt.Valid {
		summary.LastAnalyzedAt = &lastAnalyzedAt.Time
	}

	return summary, nil
}

// GetByMonthOrCreate retrieves the summary or creates an empty tainted one
func (r *TagSummaryRepository) GetByMonthOrCreate(ctx context.Context, month string) (*models.TagSummary, error) {
	summary, err := r.GetByMonth(ctx, month)
	if err == nil {
		return summary, nil
	}
	if !errors.Is(err, ErrSummaryNotFound) {
		return nil, err
	}

	// Upsert covers a row created between the read and this write
	if err := r.Upsert(ctx, models.NewTagSummary(month)); err != nil {
		return nil, fmt.Errorf("failed to create tag summary: %w", err)
	}
	return r.GetByMonth(ctx, month)
}

// UpdateSummary writes new counts if the stored version still matches.
// Returns false on a version conflict.
func (r *TagSummaryRepository) UpdateSummary(ctx context.Context, summary *models.TagSummary) (bool, error) {
	query := `
		UPDATE tag_summaries
		SET counts = $1, notes = $2, tainted = false, last_analyzed_at = $3, version = version + 1, updated_at = $4
		WHERE month = $5 AND version = $6
		RETURNING version, created_at, updated_at
	`

	countsJSON, err := marshalCounts(summary)
	if err != nil {
		return false, err
	}

	now := time.Now()
	analyzedAt := now
	if summary.LastAnalyzedAt != nil {
		analyzedAt = *summary.LastAnalyzedAt
	}

	var newVersion int
	err = r.db.QueryRowContext(ctx, query,
		countsJSON,
		summary.Notes,
		analyzedAt,
		now,
		summary.Month,
		summary.Version,
	).Scan(&newVersion, &summary.CreatedAt, &summary.UpdatedAt)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return false, nil
		}
		return false, fmt.Errorf("failed to update tag summary: %w", err)
	}

	summary.Version = newVersion
	summary.Tainted = false
	summary.LastAnalyzedAt = &analyzedAt
	return true, nil
}

// MarkTainted flags the month for recount, creating the row when missing.
// Returns true if the flag transitioned from false to true.
func (r *TagSummaryRepository) MarkTainted(ctx context.Context, month string) (bool, error) {
	query := `
		INSERT INTO tag_summaries (month, counts, tainted, version, created_at, updated_at)
		VALUES ($1, '{}', true, 0, $2, $2)
		ON CONFLICT (month) DO UPDATE
		SET tainted = true, updated_at = $2
		WHERE tag_summaries.tainted = false
		RETURNING month
	`

	var resultMonth string
	err := r.db.QueryRowContext(ctx, query, month, time.Now()).Scan(&resultMonth)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return false, nil
		}
		return false, fmt.Errorf("failed to mark tainted: %w", err)
	}
	return true, nil
}

// Upsert creates or replaces a summary row
func (r *TagSummaryRepository) Upsert(ctx context.Context, summary *models.TagSummary) error {
	query := `
		INSERT INTO tag_summaries (month, counts, notes, tainted, last_analyzed_at, version, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $7)
		ON CONFLICT (month) DO UPDATE
		SET counts = EXCLUDED.counts,
		    notes = EXCLUDED.notes,
		    tainted = EXCLUDED.tainted,
		    last_analyzed_at = EXCLUDED.last_analyzed_at,
		    version = EXCLUDED.version,
		    updated_at = EXCLUDED.updated_at
		RETURNING created_at, updated_at
	`

	countsJSON, err := marshalCounts(summary)
	if err != nil {
		return err
	}

	var lastAnalyzedAt sql.NullTime
	if summary.LastAnalyzedAt != nil {
		lastAnalyzedAt = sql.NullTime{Time: *summary.LastAnalyzedAt, Valid: true}
	}

	err = r.db.QueryRowContext(ctx, query,
		summary.Month,
		countsJSON,
		summary.Notes,
		summary.Tainted,
		lastAnalyzedAt,
		summary.Version,
		time.Now(),
	).Scan(&summary.CreatedAt, &summary.UpdatedAt)
	if err != nil {
		return fmt.Errorf("failed to upsert tag summary: %w", err)
	}
	return nil
}

func marshalCounts(summary *models.TagSummary) ([]byte, error) {
	b, err := json.Marshal(summaryCounts{
		Weather: summary.Weather,
		Mood:    summary.Mood,
		Company: summary.Company,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to marshal counts: %w", err)
	}
	return b, nil
}
