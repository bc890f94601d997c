package handlers

import (
	"context"
	"net/http"

	"github.com/gorilla/mux"
	"go.uber.org/zap"

	logpkg "github.com/benvon/deerdiary/internal/logger"
	"github.com/benvon/deerdiary/internal/models"
)

// ThemeStore reads and writes the dark mode flag
type ThemeStore interface {
	Theme(ctx context.Context) (models.ThemePreference, error)
	SetDarkMode(ctx context.Context, dark bool) error
}

// PreferencesHandler serves the theme preference
type PreferencesHandler struct {
	store  ThemeStore
	logger *zap.Logger
}

// NewPreferencesHandler creates a new preferences handler. A nil store answers 503.
func NewPreferencesHandler(store ThemeStore, logger *zap.Logger) *PreferencesHandler {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &PreferencesHandler{store: store, logger: logger}
}

// RegisterRoutes registers preference routes on a router already prefixed with /api/preferences
func (h *PreferencesHandler) RegisterRoutes(r *mux.Router) {
	r.HandleFunc("/theme", h.GetTheme).Methods("GET")
	r.HandleFunc("/theme", h.PutTheme).Methods("PUT")
}

// UpdateThemeRequest is the body of PUT /api/preferences/theme
type UpdateThemeRequest struct {
	DarkMode *bool `json:"dark_mode" validate:"required"`
}

// GetTheme returns the dark mode flag and its stroke style
func (h *PreferencesHandler) GetTheme(w http.ResponseWriter, r *http.Request) {
	if h.store == nil {
		respondPreferencesDisabled(w)
		return
	}
	theme, err := h.store.Theme(r.Context())
	if err != nil {
		h.logger.Error("failed_to_read_theme_preference", zap.String("error", logpkg.SanitizeError(err)))
		respondJSONError(w, http.StatusInternalServerError, "Internal Server Error", "Failed to read theme preference")
		return
	}
	respondJSON(w, http.StatusOK, theme)
}

// PutTheme stores the dark mode flag
func (h *PreferencesHandler) PutTheme(w http.ResponseWriter, r *http.Request) {
	if h.store == nil {
		respondPreferencesDisabled(w)
		return
	}
	var req UpdateThemeRequest
	if err := decodeJSON(r, &req); err != nil {
		respondJSONError(w, http.StatusBadRequest, "Bad Request", err.Error())
		return
	}

	if err := h.store.SetDarkMode(r.Context(), *req.DarkMode); err != nil {
		h.logger.Error("failed_to_store_theme_preference", zap.String("error", logpkg.SanitizeError(err)))
		respondJSONError(w, http.StatusInternalServerError, "Internal Server Error", "Failed to store theme preference")
		return
	}

	h.logger.Info("theme_preference_updated", zap.Bool("dark_mode", *req.DarkMode))
	respondJSON(w, http.StatusOK, models.NewThemePreference(*req.DarkMode))
}

func respondPreferencesDisabled(w http.ResponseWriter) {
	respondJSONError(w, http.StatusServiceUnavailable, "Service Unavailable", "Preferences store is not available")
}
