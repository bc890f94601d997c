package models

import (
	"testing"
)

func TestResolveOption(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name      string
		options   []TagOption
		value     string
		wantFound bool
		wantLabel string
	}{
		{"weather sunny", WeatherOptions, "sunny", true, "Sunny"},
		{"weather snowy", WeatherOptions, "snowy", true, "Snowy"},
		{"mood sad", MoodOptions, "sad", true, "Sad"},
		{"company partner", CompanyOptions, "partner", true, "Partner"},
		{"unknown value", WeatherOptions, "foggy", false, ""},
		{"empty value", MoodOptions, "", false, ""},
		{"value from other list", CompanyOptions, "happy", false, ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			option, found := ResolveOption(tt.options, tt.value)
			if found != tt.wantFound {
				t.Fatalf("ResolveOption(%q) found = %v, want %v", tt.value, found, tt.wantFound)
			}
			if option.Label != tt.wantLabel {
				t.Errorf("ResolveOption(%q) label = %q, want %q", tt.value, option.Label, tt.wantLabel)
			}
		})
	}
}

func TestCatalog(t *testing.T) {
	t.Parallel()

	catalog := Catalog()
	if len(catalog.Weather) != 4 || len(catalog.Mood) != 4 || len(catalog.Company) != 4 {
		t.Fatalf("Expected 4 options per list, got %d/%d/%d",
			len(catalog.Weather), len(catalog.Mood), len(catalog.Company))
	}

	for _, option := range catalog.Mood {
		if option.Color == "" {
			t.Errorf("Expected mood option %q to carry a color", option.Value)
		}
	}
	for _, option := range catalog.Weather {
		if option.Icon == "" {
			t.Errorf("Expected weather option %q to carry an icon", option.Value)
		}
	}
}

func TestStrokeFor(t *testing.T) {
	t.Parallel()

	dark := StrokeFor(true)
	if dark.Color != "#f0f0f0" || dark.Width != 4 || dark.ShadowBlur != 2 {
		t.Errorf("Unexpected blackboard stroke: %+v", dark)
	}

	light := StrokeFor(false)
	if light.Color != "#2d3748" || light.Width != 2 || light.ShadowBlur != 0 || light.ShadowColor != "" {
		t.Errorf("Unexpected notebook stroke: %+v", light)
	}

	if dark.LineCap != "round" || light.LineCap != "round" {
		t.Error("Expected round line caps in both themes")
	}

	pref := NewThemePreference(true)
	if !pref.DarkMode || pref.Stroke != dark {
		t.Errorf("NewThemePreference(true) = %+v", pref)
	}
}
