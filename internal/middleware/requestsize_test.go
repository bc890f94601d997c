package middleware

import (
	"errors"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
)

func TestMaxRequestSize(t *testing.T) {
	t.Parallel()

	var readErr error
	handler := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_, readErr = io.ReadAll(r.Body)
		w.WriteHeader(http.StatusOK)
	})
	mw := MaxRequestSize(8)(handler)

	t.Run("declared length over limit", func(t *testing.T) {
		w := httptest.NewRecorder()
		mw.ServeHTTP(w, httptest.NewRequest("POST", "/api/notes", strings.NewReader(strings.Repeat("x", 32))))
		if w.Code != http.StatusRequestEntityTooLarge {
			t.Errorf("status = %d, want 413", w.Code)
		}
	})

	t.Run("unknown length cut off while reading", func(t *testing.T) {
		req := httptest.NewRequest("POST", "/api/notes", strings.NewReader(strings.Repeat("x", 32)))
		req.ContentLength = -1
		mw.ServeHTTP(httptest.NewRecorder(), req)
		var maxErr *http.MaxBytesError
		if !errors.As(readErr, &maxErr) {
			t.Errorf("read error = %v, want MaxBytesError", readErr)
		}
	})

	t.Run("small body passes", func(t *testing.T) {
		w := httptest.NewRecorder()
		mw.ServeHTTP(w, httptest.NewRequest("POST", "/api/notes", strings.NewReader("{}")))
		if w.Code != http.StatusOK || readErr != nil {
			t.Errorf("status = %d, err = %v", w.Code, readErr)
		}
	})
}

func TestMaxRequestSize_DefaultLimit(t *testing.T) {
	t.Parallel()

	req := httptest.NewRequest("POST", "/api/notes", nil)
	req.ContentLength = DefaultMaxRequestSize + 1
	w := httptest.NewRecorder()
	MaxRequestSize(0)(http.NotFoundHandler()).ServeHTTP(w, req)
	if w.Code != http.StatusRequestEntityTooLarge {
		t.Errorf("status = %d, want 413", w.Code)
	}
}
