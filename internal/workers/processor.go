package workers

import (
	"context"

	"github.com/benvon/deerdiary/internal/queue"
)

// JobProcessor handles one decoded job
type JobProcessor func(ctx context.Context, job *queue.Job) error

type processorEntry struct {
	proc JobProcessor
	// retry re-enqueues failed jobs with backoff until MaxRetries, instead of dead-lettering at once
	retry bool
}
