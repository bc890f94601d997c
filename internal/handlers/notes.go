package handlers

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"time"
	"unicode/utf8"

	"github.com/gorilla/mux"
	"go.uber.org/zap"

	"github.com/benvon/deerdiary/internal/calendar"
	"github.com/benvon/deerdiary/internal/database"
	logpkg "github.com/benvon/deerdiary/internal/logger"
	"github.com/benvon/deerdiary/internal/models"
	"github.com/benvon/deerdiary/internal/queue"
	"github.com/benvon/deerdiary/internal/validation"
)

// MaxNoteTextLength is the maximum length for note text, counted in runes
const MaxNoteTextLength = 10000

// NotesHandler serves the notes collection
type NotesHandler struct {
	notes     database.NoteStoreOpener
	summaries database.SummaryStoreOpener
	jobQueue  queue.Publisher
	logger    *zap.Logger
	location  *time.Location
	now       func() time.Time
}

// NotesHandlerOption configures a NotesHandler
type NotesHandlerOption func(*NotesHandler)

// WithNotesSummaries enables tainting and the summary endpoint
func WithNotesSummaries(summaries database.SummaryStoreOpener) NotesHandlerOption {
	return func(h *NotesHandler) { h.summaries = summaries }
}

// WithNotesJobQueue enables summary jobs after each insert
func WithNotesJobQueue(q queue.Publisher) NotesHandlerOption {
	return func(h *NotesHandler) { h.jobQueue = q }
}

// WithNotesLocation sets the zone used to stamp notes that arrive without a date
func WithNotesLocation(loc *time.Location) NotesHandlerOption {
	return func(h *NotesHandler) {
		if loc != nil {
			h.location = loc
		}
	}
}

// NewNotesHandler creates a new notes handler
func NewNotesHandler(notes database.NoteStoreOpener, logger *zap.Logger, opts ...NotesHandlerOption) *NotesHandler {
	if logger == nil {
		logger = zap.NewNop()
	}
	h := &NotesHandler{
		notes:    notes,
		logger:   logger,
		location: time.Local,
		now:      time.Now,
	}
	for _, opt := range opts {
		opt(h)
	}
	return h
}

// RegisterRoutes registers note routes on a router already prefixed with /api/notes
func (h *NotesHandler) RegisterRoutes(r *mux.Router) {
	r.HandleFunc("", h.ListNotes).Methods("GET")
	r.HandleFunc("", h.CreateNote).Methods("POST")
	r.HandleFunc("/summary", h.GetSummary).Methods("GET")
}

// CreateNoteRequest is the body of POST /api/notes
type CreateNoteRequest struct {
	Date      string `json:"date" validate:"omitempty,date_key"`
	Weather   string `json:"weather" validate:"omitempty,weather"`
	Mood      string `json:"mood" validate:"omitempty,mood"`
	Company   string `json:"company" validate:"omitempty,company"`
	Text      string `json:"text" validate:"required,max=10000"`
	Timestamp string `json:"timestamp" validate:"omitempty,max=32"`
}

// ListNotes returns every stored note
func (h *NotesHandler) ListNotes(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	store, err := h.notes.Notes(ctx)
	if err != nil {
		h.logStoreError("list", err)
		respondStoreError(w, err)
		return
	}

	notes, err := store.List(ctx)
	if err != nil {
		h.logStoreError("list", err)
		respondStoreError(w, err)
		return
	}

	respondJSON(w, http.StatusOK, notes)
}

// CreateNote inserts one note. Notes without a date are stamped with the current local date and time.
func (h *NotesHandler) CreateNote(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	store, err := h.notes.Notes(ctx)
	if err != nil {
		h.logStoreError("create", err)
		respondStoreError(w, err)
		return
	}

	var req CreateNoteRequest
	if err := decodeJSON(r, &req); err != nil {
		respondStoreError(w, err)
		return
	}

	text := validation.SanitizeText(req.Text)
	if text == "" {
		respondStoreError(w, errors.New("text is required and cannot be empty"))
		return
	}
	if utf8.RuneCountInString(text) > MaxNoteTextLength {
		respondStoreError(w, fmt.Errorf("text exceeds maximum length of %d characters", MaxNoteTextLength))
		return
	}

	note := &models.Note{
		Date:      req.Date,
		Weather:   models.Weather(req.Weather),
		Mood:      models.Mood(req.Mood),
		Company:   models.Company(req.Company),
		Text:      text,
		Timestamp: req.Timestamp,
	}
	if note.Date == "" {
		local := h.now().In(h.location)
		note.Date = calendar.DateKey(local)
		if note.Timestamp == "" {
			note.Timestamp = calendar.TimeKey(local)
		}
	}

	if err := store.Create(ctx, note); err != nil {
		h.logStoreError("create", err)
		respondStoreError(w, err)
		return
	}

	h.logger.Info("note_created",
		zap.String("note_id", note.ID.String()),
		zap.String("date", note.Date),
		zap.String("preview", logpkg.PreviewText(note.Text)),
	)

	h.scheduleSummary(context.WithoutCancel(ctx), note)

	respondJSON(w, http.StatusCreated, note)
}

// scheduleSummary taints the note's month and enqueues a debounced recount.
// Failures are logged only; the note is already stored.
func (h *NotesHandler) scheduleSummary(ctx context.Context, note *models.Note) {
	month, err := calendar.MonthKey(note.Date)
	if err != nil {
		h.logger.Warn("note_month_unresolved", zap.String("date", note.Date), zap.Error(err))
		return
	}

	if h.summaries != nil {
		summaries, err := h.summaries.Summaries(ctx)
		if err == nil {
			_, err = summaries.MarkTainted(ctx, month)
		}
		if err != nil {
			// The queued job still recounts the month
			h.logger.Warn("failed_to_mark_tag_summary_tainted",
				zap.String("month", month),
				zap.String("error", logpkg.SanitizeError(err)),
			)
		}
	}

	if h.jobQueue == nil {
		h.logger.Debug("job_queue_not_available", zap.String("month", month))
		return
	}
	job := queue.NewTagSummaryJob(month, h.now())
	if err := h.jobQueue.Enqueue(ctx, job); err != nil {
		h.logger.Error("failed_to_enqueue_tag_summary_job",
			zap.String("month", month),
			zap.String("error", logpkg.SanitizeError(err)),
		)
		return
	}
	h.logger.Info("enqueued_tag_summary_job",
		zap.String("month", month),
		zap.Duration("debounce_delay", queue.SummaryDebounce),
	)
}

// GetSummary returns the tag summary for ?month=YYYY-MM, defaulting to the current month.
// A month with no stored summary returns an empty tainted one.
func (h *NotesHandler) GetSummary(w http.ResponseWriter, r *http.Request) {
	if h.summaries == nil {
		respondJSONError(w, http.StatusServiceUnavailable, "Service Unavailable", "Tag summaries are not enabled")
		return
	}

	month := r.URL.Query().Get("month")
	if month == "" {
		month = h.now().In(h.location).Format("2006-01")
	}
	if err := validation.ValidateMonthKey(month); err != nil {
		respondStoreError(w, err)
		return
	}

	ctx := r.Context()
	summaries, err := h.summaries.Summaries(ctx)
	if err != nil {
		h.logStoreError("summary", err)
		respondStoreError(w, err)
		return
	}

	summary, err := summaries.GetByMonth(ctx, month)
	if errors.Is(err, database.ErrSummaryNotFound) {
		respondJSON(w, http.StatusOK, models.NewTagSummary(month))
		return
	}
	if err != nil {
		h.logStoreError("summary", err)
		respondStoreError(w, err)
		return
	}

	respondJSON(w, http.StatusOK, summary)
}

func (h *NotesHandler) logStoreError(operation string, err error) {
	h.logger.Warn("notes_store_error",
		zap.String("operation", operation),
		zap.String("error", logpkg.SanitizeError(err)),
	)
}
