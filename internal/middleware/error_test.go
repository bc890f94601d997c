package middleware

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"go.uber.org/zap/zaptest/observer"
)

func TestErrorHandler_NoPanic(t *testing.T) {
	t.Parallel()

	handler := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write([]byte("OK"))
	})

	w := httptest.NewRecorder()
	ErrorHandler(zap.NewNop())(handler).ServeHTTP(w, httptest.NewRequest("GET", "/api/tags", nil))

	if w.Code != http.StatusOK {
		t.Errorf("Expected status 200, got %d", w.Code)
	}
}

func TestErrorHandler_PanicRecovery(t *testing.T) {
	t.Parallel()

	core, logs := observer.New(zapcore.InfoLevel)
	tests := []struct {
		name    string
		handler http.HandlerFunc
	}{
		{
			name:    "string panic",
			handler: func(w http.ResponseWriter, r *http.Request) { panic("journal corrupted") },
		},
		{
			name: "runtime panic",
			handler: func(w http.ResponseWriter, r *http.Request) {
				var counts map[string]int
				counts["sunny"]++
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			w := httptest.NewRecorder()
			ErrorHandler(zap.New(core))(tt.handler).ServeHTTP(w, httptest.NewRequest("GET", "/api/history", nil))

			if w.Code != http.StatusInternalServerError {
				t.Errorf("Expected status 500, got %d", w.Code)
			}
			if ct := w.Header().Get("Content-Type"); ct != "application/json" {
				t.Errorf("Expected Content-Type 'application/json', got '%s'", ct)
			}

			var body ErrorResponse
			if err := json.NewDecoder(w.Body).Decode(&body); err != nil {
				t.Fatalf("Failed to decode response: %v", err)
			}
			if body.Success || body.Error != "Internal Server Error" || body.Message != "An unexpected error occurred" {
				t.Errorf("unexpected body %+v", body)
			}
			if body.Path != "/api/history" || body.Timestamp == "" {
				t.Errorf("path/timestamp = %q/%q", body.Path, body.Timestamp)
			}
		})
	}

	if n := logs.FilterMessage("panic_recovered").Len(); n != len(tests) {
		t.Errorf("logged %d panic_recovered events, want %d", n, len(tests))
	}
}

func TestErrorHandler_AbortHandlerPropagates(t *testing.T) {
	t.Parallel()

	handler := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		panic(http.ErrAbortHandler)
	})

	defer func() {
		if recover() != http.ErrAbortHandler {
			t.Error("expected http.ErrAbortHandler to be re-raised")
		}
	}()
	ErrorHandler(zap.NewNop())(handler).ServeHTTP(httptest.NewRecorder(), httptest.NewRequest("GET", "/", nil))
}
