package handlers

import (
	"net/http"
	"time"

	"github.com/gorilla/mux"

	"github.com/benvon/deerdiary/internal/calendar"
	"github.com/benvon/deerdiary/internal/models"
)

// EntrySource yields the journal the history browser reads
type EntrySource interface {
	Entries() []models.Entry
}

// HistoryHandler serves the calendar view over the journal
type HistoryHandler struct {
	entries  EntrySource
	location *time.Location
	now      func() time.Time
}

// NewHistoryHandler creates a history handler. loc decides what "today" is (time.Local if nil).
func NewHistoryHandler(entries EntrySource, loc *time.Location) *HistoryHandler {
	if loc == nil {
		loc = time.Local
	}
	return &HistoryHandler{entries: entries, location: loc, now: time.Now}
}

// RegisterRoutes registers history routes on a router already prefixed with /api/history
func (h *HistoryHandler) RegisterRoutes(r *mux.Router) {
	r.HandleFunc("", h.GetMonth).Methods("GET")
	r.HandleFunc("/day", h.GetDay).Methods("GET")
}

// monthParam reads ?year= and ?month=, each defaulting to the current month
func (h *HistoryHandler) monthParam(r *http.Request, today time.Time) (calendar.MonthRef, error) {
	year, err := queryInt(r, "year", today.Year())
	if err != nil {
		return calendar.MonthRef{}, err
	}
	month, err := queryInt(r, "month", int(today.Month()))
	if err != nil {
		return calendar.MonthRef{}, err
	}
	ref := calendar.MonthRef{Year: year, Month: time.Month(month)}
	if err := ref.Validate(); err != nil {
		return calendar.MonthRef{}, err
	}
	return ref, nil
}

// GetMonth returns the month grid with entry and today markers
func (h *HistoryHandler) GetMonth(w http.ResponseWriter, r *http.Request) {
	today := h.now().In(h.location)
	ref, err := h.monthParam(r, today)
	if err != nil {
		respondJSONError(w, http.StatusBadRequest, "Bad Request", err.Error())
		return
	}

	respondJSON(w, http.StatusOK, calendar.BuildMonth(ref, h.entries.Entries(), today))
}

// GetDay returns the entry for one day, or the empty state
func (h *HistoryHandler) GetDay(w http.ResponseWriter, r *http.Request) {
	today := h.now().In(h.location)
	ref, err := h.monthParam(r, today)
	if err != nil {
		respondJSONError(w, http.StatusBadRequest, "Bad Request", err.Error())
		return
	}
	if r.URL.Query().Get("day") == "" {
		respondJSONError(w, http.StatusBadRequest, "Bad Request", "day is required")
		return
	}
	day, err := queryInt(r, "day", 0)
	if err != nil {
		respondJSONError(w, http.StatusBadRequest, "Bad Request", err.Error())
		return
	}

	detail, err := calendar.LookupDay(ref, day, h.entries.Entries())
	if err != nil {
		respondJSONError(w, http.StatusBadRequest, "Bad Request", err.Error())
		return
	}

	respondJSON(w, http.StatusOK, detail)
}
