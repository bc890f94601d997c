package queue

import (
	"time"

	"github.com/google/uuid"
)

// JobType represents the type of job
type JobType string

const (
	// JobTypeTagSummary rebuilds the tag counts for one month of notes
	JobTypeTagSummary JobType = "tag_summary"
)

// SummaryDebounce delays a summary job so a burst of inserts collapses into one recount
const SummaryDebounce = 5 * time.Second

// Job represents a job in the queue
type Job struct {
	ID         uuid.UUID      `json:"id"`
	Type       JobType        `json:"type"`
	Month      string         `json:"month,omitempty"`      // YYYY-MM
	NotBefore  *time.Time     `json:"not_before,omitempty"` // Earliest time to process job (nil = immediate)
	NotAfter   *time.Time     `json:"not_after,omitempty"`  // Latest time to process job (nil = no expiration)
	Metadata   map[string]any `json:"metadata,omitempty"`
	CreatedAt  time.Time      `json:"created_at"`
	RetryCount int            `json:"retry_count"`
	MaxRetries int            `json:"max_retries"`
}

// NewJob creates a new job
func NewJob(jobType JobType, month string) *Job {
	return &Job{
		ID:         uuid.New(),
		Type:       jobType,
		Month:      month,
		Metadata:   make(map[string]any),
		CreatedAt:  time.Now(),
		MaxRetries: 3,
	}
}

// NewTagSummaryJob creates a summary job for month that becomes due after the debounce
func NewTagSummaryJob(month string, now time.Time) *Job {
	job := NewJob(JobTypeTagSummary, month)
	notBefore := now.Add(SummaryDebounce)
	job.NotBefore = &notBefore
	return job
}

// ShouldProcess checks if the job should be processed now
func (j *Job) ShouldProcess() bool {
	now := time.Now()

	if j.NotBefore != nil && now.Before(*j.NotBefore) {
		return false
	}
	if j.NotAfter != nil && now.After(*j.NotAfter) {
		return false
	}
	return true
}

// IsExpired checks if the job has expired
func (j *Job) IsExpired() bool {
	if j.NotAfter == nil {
		return false
	}
	return time.Now().After(*j.NotAfter)
}

// CanRetry checks if the job can be retried
func (j *Job) CanRetry() bool {
	return j.RetryCount < j.MaxRetries
}

// IncrementRetry increments the retry count
func (j *Job) IncrementRetry() {
	j.RetryCount++
}
