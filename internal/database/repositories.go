package database

import (
	"context"

	"github.com/benvon/deerdiary/internal/models"
)

// NoteRepositoryInterface defines the note collection operations
type NoteRepositoryInterface interface {
	Create(ctx context.Context, note *models.Note) error
	List(ctx context.Context) ([]*models.Note, error)
	ListByMonth(ctx context.Context, month string) ([]*models.Note, error)
}

// TagSummaryRepositoryInterface defines the tag summary operations
type TagSummaryRepositoryInterface interface {
	GetByMonth(ctx context.Context, month string) (*models.TagSummary, error)
	GetByMonthOrCreate(ctx context.Context, month string) (*models.TagSummary, error)
	UpdateSummary(ctx context.Context, summary *models.TagSummary) (bool, error)
	MarkTainted(ctx context.Context, month string) (bool, error)
}

// NoteStoreOpener yields the note repository for a request, connecting on first use
type NoteStoreOpener interface {
	Notes(ctx context.Context) (NoteRepositoryInterface, error)
}

// SummaryStoreOpener yields the tag summary repository for a request
type SummaryStoreOpener interface {
	Summaries(ctx context.Context) (TagSummaryRepositoryInterface, error)
}

// Ensure concrete types implement the interfaces
var (
	_ NoteRepositoryInterface       = (*NoteRepository)(nil)
	_ TagSummaryRepositoryInterface = (*TagSummaryRepository)(nil)
	_ NoteStoreOpener               = (*Connector)(nil)
	_ SummaryStoreOpener            = (*Connector)(nil)
)
