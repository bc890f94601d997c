package logger

import (
	"errors"
	"strings"
	"testing"

	"go.uber.org/zap/zapcore"
)

func TestSanitizePath(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name string
		in   string
		want string
	}{
		{"empty", "", ""},
		{"plain", "/api/notes", "/api/notes"},
		{"control characters", "/api/\x1bnotes\x00", "/api/notes"},
		{"invalid utf8", "/api/\xffnotes", "/api/notes"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			if got := SanitizePath(tt.in); got != tt.want {
				t.Errorf("SanitizePath(%q) = %q, want %q", tt.in, got, tt.want)
			}
		})
	}
}

func TestSanitizePath_Truncates(t *testing.T) {
	t.Parallel()

	got := SanitizePath("/" + strings.Repeat("a", MaxPathLength+10))
	if len(got) != MaxPathLength+3 || !strings.HasSuffix(got, "...") {
		t.Errorf("Expected truncated path of length %d, got %d", MaxPathLength+3, len(got))
	}
}

func TestSanitizeError(t *testing.T) {
	t.Parallel()

	if SanitizeError(nil) != "" {
		t.Error("Expected empty string for nil error")
	}
	if got := SanitizeError(errors.New("pq: connection refused\x07")); got != "pq: connection refused" {
		t.Errorf("Unexpected sanitized error %q", got)
	}
}

func TestPreviewText(t *testing.T) {
	t.Parallel()

	long := strings.Repeat("diary ", 40)
	got := PreviewText(long)
	if len(got) != MaxEntryPreviewLength+3 {
		t.Errorf("Expected preview length %d, got %d", MaxEntryPreviewLength+3, len(got))
	}
	if PreviewText("short") != "short" {
		t.Error("Expected short text to be unchanged")
	}
}

func TestNew(t *testing.T) {
	t.Parallel()

	for _, format := range []string{"json", FormatConsole} {
		log, err := New(true, format)
		if err != nil {
			t.Fatalf("New(%q): %v", format, err)
		}
		if !log.Core().Enabled(zapcore.DebugLevel) {
			t.Errorf("Expected debug level enabled for format %q", format)
		}
	}

	log, err := New(false, "json")
	if err != nil {
		t.Fatalf("New: %v", err)
	}
	if log.Core().Enabled(zapcore.DebugLevel) {
		t.Error("Expected debug level disabled without debug mode")
	}
}

func TestTruncate(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name string
		in   string
		max  int
		want string
	}{
		{"short", "hello", 10, "hello"},
		{"exact", "hello", 5, "hello"},
		{"ascii cut", "hello world", 5, "hello..."},
		{"multi-byte cut", "日本語のテキスト", 3, "日本語..."},
		{"accented cut", "café au lait", 4, "café..."},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			if got := Truncate(tt.in, tt.max); got != tt.want {
				t.Errorf("Truncate(%q, %d) = %q, want %q", tt.in, tt.max, got, tt.want)
			}
		})
	}
}
