package handlers

import (
	"net/http"
	"time"

	"github.com/gorilla/mux"
	"go.uber.org/zap"

	"github.com/benvon/deerdiary/internal/diary"
	logpkg "github.com/benvon/deerdiary/internal/logger"
	"github.com/benvon/deerdiary/internal/models"
)

// ComposerHandler exposes the entry composer
type ComposerHandler struct {
	composer *diary.Composer
	logger   *zap.Logger
	now      func() time.Time
}

// NewComposerHandler creates a new composer handler
func NewComposerHandler(composer *diary.Composer, logger *zap.Logger) *ComposerHandler {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &ComposerHandler{composer: composer, logger: logger, now: time.Now}
}

// RegisterRoutes registers composer routes on a router already prefixed with /api/composer
func (h *ComposerHandler) RegisterRoutes(r *mux.Router) {
	r.HandleFunc("", h.GetComposer).Methods("GET")
	r.HandleFunc("/draft", h.UpdateDraft).Methods("PATCH")
	r.HandleFunc("/save", h.Save).Methods("POST")
}

// ComposerState is the draft together with the saved entries, newest first
type ComposerState struct {
	Draft   diary.Draft    `json:"draft"`
	Entries []models.Entry `json:"entries"`
}

// UpdateDraftRequest is a partial draft update. Omitted fields are left alone;
// an empty string clears a tag.
type UpdateDraftRequest struct {
	Weather *string `json:"weather,omitempty"`
	Mood    *string `json:"mood,omitempty"`
	Company *string `json:"company,omitempty"`
	Text    *string `json:"text,omitempty" validate:"omitempty,max=10000"`
}

// SaveResult reports the outcome of a save
type SaveResult struct {
	Saved bool          `json:"saved"`
	Entry *models.Entry `json:"entry,omitempty"`
	Draft *diary.Draft  `json:"draft,omitempty"`
}

// GetComposer returns the current draft and journal
func (h *ComposerHandler) GetComposer(w http.ResponseWriter, r *http.Request) {
	respondJSON(w, http.StatusOK, ComposerState{
		Draft:   h.composer.Draft(),
		Entries: h.composer.Entries(),
	})
}

// UpdateDraft applies tag selections and text to the draft
func (h *ComposerHandler) UpdateDraft(w http.ResponseWriter, r *http.Request) {
	var req UpdateDraftRequest
	if err := decodeJSON(r, &req); err != nil {
		respondJSONError(w, http.StatusBadRequest, "Bad Request", err.Error())
		return
	}

	patch := diary.DraftPatch{
		Weather: req.Weather,
		Mood:    req.Mood,
		Company: req.Company,
		Text:    req.Text,
	}
	if err := h.composer.Apply(patch); err != nil {
		respondJSONError(w, http.StatusBadRequest, "Bad Request", err.Error())
		return
	}

	respondJSON(w, http.StatusOK, h.composer.Draft())
}

// Save turns the draft into an entry. Blank text leaves everything unchanged and reports saved=false.
func (h *ComposerHandler) Save(w http.ResponseWriter, r *http.Request) {
	entry, saved := h.composer.Save(h.now())
	if !saved {
		draft := h.composer.Draft()
		respondJSON(w, http.StatusOK, SaveResult{Saved: false, Draft: &draft})
		return
	}

	h.logger.Info("entry_saved",
		zap.Int64("entry_id", entry.ID),
		zap.String("date", entry.Date),
		zap.String("preview", logpkg.PreviewText(entry.Text)),
		zap.Int("entries", h.composer.Len()),
	)
	respondJSON(w, http.StatusCreated, SaveResult{Saved: true, Entry: &entry})
}
