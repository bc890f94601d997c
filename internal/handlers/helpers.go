package handlers

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"strconv"
	"time"

	"github.com/go-playground/validator/v10"

	logpkg "github.com/benvon/deerdiary/internal/logger"
	"github.com/benvon/deerdiary/internal/validation"
)

const maxErrorMessageLength = 200

// respondJSON sends a JSON response
func respondJSON(w http.ResponseWriter, status int, data any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)

	response := map[string]any{
		"success":   true,
		"data":      data,
		"timestamp": time.Now().UTC().Format(time.RFC3339),
	}

	if err := json.NewEncoder(w).Encode(response); err != nil {
		http.Error(w, "Failed to encode response", http.StatusInternalServerError)
	}
}

// sanitizeErrorMessage bounds the length of messages returned to clients, in runes
func sanitizeErrorMessage(message string) string {
	return logpkg.Truncate(message, maxErrorMessageLength)
}

// respondJSONError sends an error JSON response with sanitized error messages
func respondJSONError(w http.ResponseWriter, status int, errorType, message string) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)

	response := map[string]any{
		"success":   false,
		"error":     errorType,
		"message":   sanitizeErrorMessage(message),
		"timestamp": time.Now().UTC().Format(time.RFC3339),
	}

	if err := json.NewEncoder(w).Encode(response); err != nil {
		http.Error(w, "Failed to encode response", http.StatusInternalServerError)
	}
}

// respondStoreError reports a notes failure: always 400, with the underlying message as the error
func respondStoreError(w http.ResponseWriter, err error) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusBadRequest)

	response := map[string]any{
		"success":   false,
		"error":     sanitizeErrorMessage(err.Error()),
		"timestamp": time.Now().UTC().Format(time.RFC3339),
	}

	if encErr := json.NewEncoder(w).Encode(response); encErr != nil {
		http.Error(w, "Failed to encode response", http.StatusInternalServerError)
	}
}

// decodeJSON decodes the request body into dst and runs struct validation
func decodeJSON(r *http.Request, dst any) error {
	decoder := json.NewDecoder(r.Body)
	if err := decoder.Decode(dst); err != nil {
		var maxBytesErr *http.MaxBytesError
		if errors.As(err, &maxBytesErr) {
			return fmt.Errorf("request body exceeds maximum size of %d bytes", maxBytesErr.Limit)
		}
		return fmt.Errorf("invalid request body: %w", err)
	}
	if err := validation.Validate.Struct(dst); err != nil {
		var validationErrors validator.ValidationErrors
		if errors.As(err, &validationErrors) && len(validationErrors) > 0 {
			return fmt.Errorf("validation failed: %s", validationErrors[0].Error())
		}
		return fmt.Errorf("validation failed: %w", err)
	}
	return nil
}

// queryInt parses an optional integer query parameter, returning def when absent
func queryInt(r *http.Request, name string, def int) (int, error) {
	raw := r.URL.Query().Get(name)
	if raw == "" {
		return def, nil
	}
	v, err := strconv.Atoi(raw)
	if err != nil {
		return 0, fmt.Errorf("%s must be an integer", name)
	}
	return v, nil
}
