package handlers

import (
	"encoding/json"
	"net/http"
	"os"
	"path/filepath"
	"strings"

	"github.com/gorilla/mux"
	"gopkg.in/yaml.v3"
)

// OpenAPIHandler serves the API description as YAML or JSON
type OpenAPIHandler struct {
	openAPIPath string
	baseDir     string
}

// NewOpenAPIHandler creates a new OpenAPI handler for the file at openAPIPath
func NewOpenAPIHandler(openAPIPath string) *OpenAPIHandler {
	absPath, _ := filepath.Abs(openAPIPath)
	baseDir, _ := filepath.Abs(filepath.Dir(openAPIPath))

	return &OpenAPIHandler{
		openAPIPath: absPath,
		baseDir:     baseDir,
	}
}

// RegisterRoutes registers OpenAPI routes
func (h *OpenAPIHandler) RegisterRoutes(r *mux.Router) {
	r.HandleFunc("/api/openapi.yaml", h.ServeYAML).Methods("GET")
	r.HandleFunc("/api/openapi.json", h.ServeJSON).Methods("GET")
}

// load reads the document after checking it still resolves inside baseDir
func (h *OpenAPIHandler) load() ([]byte, error) {
	rel, err := filepath.Rel(h.baseDir, filepath.Clean(h.openAPIPath))
	if err != nil {
		return nil, err
	}
	if rel == ".." || strings.HasPrefix(rel, ".."+string(filepath.Separator)) {
		return nil, os.ErrPermission
	}
	return os.ReadFile(h.openAPIPath)
}

// ServeYAML serves the OpenAPI document as stored
func (h *OpenAPIHandler) ServeYAML(w http.ResponseWriter, r *http.Request) {
	data, err := h.load()
	if err != nil {
		http.Error(w, "OpenAPI specification not found", http.StatusNotFound)
		return
	}

	w.Header().Set("Content-Type", "application/x-yaml")
	_, _ = w.Write(data)
}

// ServeJSON serves the OpenAPI document converted to JSON
func (h *OpenAPIHandler) ServeJSON(w http.ResponseWriter, r *http.Request) {
	data, err := h.load()
	if err != nil {
		http.Error(w, "OpenAPI specification not found", http.StatusNotFound)
		return
	}

	var doc map[string]any
	if err := yaml.Unmarshal(data, &doc); err != nil {
		http.Error(w, "Failed to parse OpenAPI specification", http.StatusInternalServerError)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	if err := json.NewEncoder(w).Encode(doc); err != nil {
		http.Error(w, "Failed to encode JSON response", http.StatusInternalServerError)
	}
}
