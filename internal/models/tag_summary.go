package models

import "time"

// TagCounts maps a tag value to the number of notes carrying it
type TagCounts map[string]int

// TagSummary holds per-month tag counts across persisted notes
type TagSummary struct {
	Month          string     `json:"month"` // YYYY-MM
	Weather        TagCounts  `json:"weather"`
	Mood           TagCounts  `json:"mood"`
	Company        TagCounts  `json:"company"`
	Notes          int        `json:"notes"`
	Tainted        bool       `json:"tainted"`
	LastAnalyzedAt *time.Time `json:"last_analyzed_at,omitempty"`
	Version        int        `json:"version"`
	CreatedAt      time.Time  `json:"created_at"`
	UpdatedAt      time.Time  `json:"updated_at"`
}

// NewTagSummary returns an empty, tainted summary for month
func NewTagSummary(month string) *TagSummary {
	return &TagSummary{
		Month:   month,
		Weather: TagCounts{},
		Mood:    TagCounts{},
		Company: TagCounts{},
		Tainted: true,
	}
}
