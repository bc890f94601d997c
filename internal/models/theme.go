package models

// StrokeStyle describes how freehand annotations are drawn on the canvas overlay
type StrokeStyle struct {
	Color       string  `json:"color"`
	Width       int     `json:"width"`
	LineCap     string  `json:"line_cap"`
	Alpha       float64 `json:"alpha"`
	ShadowBlur  int     `json:"shadow_blur"`
	ShadowColor string  `json:"shadow_color,omitempty"`
}

// ThemePreference is the stored dark-mode flag with the stroke style it implies
type ThemePreference struct {
	DarkMode bool        `json:"dark_mode"`
	Stroke   StrokeStyle `json:"stroke"`
}

// StrokeFor returns the stroke style for the blackboard (dark) or notebook theme
func StrokeFor(darkMode bool) StrokeStyle {
	if darkMode {
		return StrokeStyle{
			Color:       "#f0f0f0",
			Width:       4,
			LineCap:     "round",
			Alpha:       0.8,
			ShadowBlur:  2,
			ShadowColor: "#ffffff",
		}
	}
	return StrokeStyle{
		Color:   "#2d3748",
		Width:   2,
		LineCap: "round",
		Alpha:   0.7,
	}
}

// NewThemePreference builds the preference for the given flag
func NewThemePreference(darkMode bool) ThemePreference {
	return ThemePreference{DarkMode: darkMode, Stroke: StrokeFor(darkMode)}
}
