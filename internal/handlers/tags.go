package handlers

import (
	"net/http"

	"github.com/benvon/deerdiary/internal/models"
)

// ListTags returns the weather, mood and company options
func ListTags(w http.ResponseWriter, r *http.Request) {
	respondJSON(w, http.StatusOK, models.Catalog())
}
