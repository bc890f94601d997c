package logger

import (
	"strings"
	"unicode"
	"unicode/utf8"
)

const (
	// MaxPathLength is the maximum length for URL paths in logs
	MaxPathLength = 500
	// MaxIDLength is the maximum length for identifiers (job IDs, month keys) in logs
	MaxIDLength = 128
	// MaxErrorMessageLength is the maximum length for error messages in logs
	MaxErrorMessageLength = 1000
	// MaxGeneralStringLength is the maximum length for general strings in logs
	MaxGeneralStringLength = 2000
	// MaxEntryPreviewLength is the maximum length of diary text echoed into debug logs
	MaxEntryPreviewLength = 80
)

// SanitizePath sanitizes a URL path for safe logging
// Removes control characters, truncates to MaxPathLength, and validates UTF-8
func SanitizePath(path string) string {
	if path == "" {
		return ""
	}
	path = sanitizeFilterRunes(path)
	if len(path) > MaxPathLength {
		path = path[:MaxPathLength] + "..."
	}
	return path
}

// SanitizeString sanitizes a general string for safe logging
// Removes control characters, truncates to maxLength, and validates UTF-8
func SanitizeString(s string, maxLength int) string {
	if s == "" {
		return ""
	}
	if maxLength <= 0 {
		maxLength = MaxGeneralStringLength
	}
	return Truncate(sanitizeFilterRunes(s), maxLength)
}

// Truncate cuts s to at most maxRunes runes and marks the cut with "...".
// It never splits a multi-byte character.
func Truncate(s string, maxRunes int) string {
	if utf8.RuneCountInString(s) <= maxRunes {
		return s
	}
	n := 0
	for i := range s {
		if n == maxRunes {
			return s[:i] + "..."
		}
		n++
	}
	return s
}

// sanitizeFilterRunes validates UTF-8 and removes control characters (keeps printable, space, tab, newline, CR).
func sanitizeFilterRunes(s string) string {
	if !utf8.ValidString(s) {
		s = strings.ToValidUTF8(s, "")
	}
	var builder strings.Builder
	builder.Grow(len(s))
	for _, r := range s {
		if unicode.IsPrint(r) || r == ' ' || r == '\t' || r == '\n' || r == '\r' {
			builder.WriteRune(r)
		}
	}
	return builder.String()
}

// SanitizeError sanitizes an error message for safe logging
func SanitizeError(err error) string {
	if err == nil {
		return ""
	}

	errStr := err.Error()
	return SanitizeString(errStr, MaxErrorMessageLength)
}

// SanitizeErrorString sanitizes an error string for safe logging
func SanitizeErrorString(errStr string) string {
	return SanitizeString(errStr, MaxErrorMessageLength)
}

// SanitizeID sanitizes an identifier (job ID, note ID, month key) for safe logging
func SanitizeID(id string) string {
	return SanitizeString(id, MaxIDLength)
}

// PreviewText shortens diary text for debug logs; entries are private so only a
// prefix is ever logged.
func PreviewText(text string) string {
	return SanitizeString(text, MaxEntryPreviewLength)
}
