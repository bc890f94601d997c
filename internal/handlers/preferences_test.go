package handlers

import (
	"context"
	"errors"
	"net/http"
	"testing"

	"github.com/gorilla/mux"

	"github.com/benvon/deerdiary/internal/models"
)

type fakeThemeStore struct {
	dark bool
	err  error
}

func (f *fakeThemeStore) Theme(ctx context.Context) (models.ThemePreference, error) {
	if f.err != nil {
		return models.ThemePreference{}, f.err
	}
	return models.NewThemePreference(f.dark), nil
}

func (f *fakeThemeStore) SetDarkMode(ctx context.Context, dark bool) error {
	if f.err != nil {
		return f.err
	}
	f.dark = dark
	return nil
}

func newPreferencesRouter(store ThemeStore) *mux.Router {
	r := mux.NewRouter()
	NewPreferencesHandler(store, nil).RegisterRoutes(r.PathPrefix("/api/preferences").Subrouter())
	return r
}

func TestPreferencesHandler_Theme(t *testing.T) {
	t.Parallel()

	store := &fakeThemeStore{}
	router := newPreferencesRouter(store)

	w := serve(router, http.MethodGet, "/api/preferences/theme", "")
	if w.Code != http.StatusOK {
		t.Fatalf("status = %d", w.Code)
	}
	theme := decodeBody(t, w)["data"].(map[string]any)
	if theme["dark_mode"] != false {
		t.Errorf("dark_mode = %v, want false", theme["dark_mode"])
	}
	if stroke := theme["stroke"].(map[string]any); stroke["color"] != "#2d3748" {
		t.Errorf("stroke = %v", stroke)
	}

	w = serve(router, http.MethodPut, "/api/preferences/theme", `{"dark_mode":true}`)
	if w.Code != http.StatusOK {
		t.Fatalf("put status = %d: %s", w.Code, w.Body.String())
	}
	if !store.dark {
		t.Error("dark mode not stored")
	}
	theme = decodeBody(t, w)["data"].(map[string]any)
	if stroke := theme["stroke"].(map[string]any); stroke["color"] != "#f0f0f0" || stroke["width"] != float64(4) {
		t.Errorf("dark stroke = %v", stroke)
	}
}

func TestPreferencesHandler_Errors(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name       string
		store      *fakeThemeStore
		method     string
		body       string
		wantStatus int
	}{
		{name: "missing flag", store: &fakeThemeStore{}, method: http.MethodPut, body: `{}`, wantStatus: http.StatusBadRequest},
		{name: "wrong type", store: &fakeThemeStore{}, method: http.MethodPut, body: `{"dark_mode":"yes"}`, wantStatus: http.StatusBadRequest},
		{name: "store read failure", store: &fakeThemeStore{err: errors.New("redis down")}, method: http.MethodGet, wantStatus: http.StatusInternalServerError},
		{name: "store write failure", store: &fakeThemeStore{err: errors.New("redis down")}, method: http.MethodPut, body: `{"dark_mode":false}`, wantStatus: http.StatusInternalServerError},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			w := serve(newPreferencesRouter(tt.store), tt.method, "/api/preferences/theme", tt.body)
			if w.Code != tt.wantStatus {
				t.Errorf("status = %d, want %d", w.Code, tt.wantStatus)
			}
		})
	}
}

func TestPreferencesHandler_NoStore(t *testing.T) {
	t.Parallel()

	router := newPreferencesRouter(nil)
	for _, method := range []string{http.MethodGet, http.MethodPut} {
		if w := serve(router, method, "/api/preferences/theme", `{"dark_mode":true}`); w.Code != http.StatusServiceUnavailable {
			t.Errorf("%s status = %d, want 503", method, w.Code)
		}
	}
}
