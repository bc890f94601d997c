package queue

import (
	"context"
	"time"
)

// MessageInterface is one delivered job awaiting acknowledgement
type MessageInterface interface {
	Ack() error
	Nack(requeue bool) error
	GetJob() *Job
}

// Publisher is the producer side of the job queue
type Publisher interface {
	// Enqueue adds a job to the queue
	Enqueue(ctx context.Context, job *Job) error
}

// JobQueue is the interface for job queues
type JobQueue interface {
	Publisher

	// Consume delivers due jobs until ctx is cancelled. Every message must be
	// acked or nacked; prefetchCount bounds the unacknowledged ones.
	Consume(ctx context.Context, prefetchCount int) (<-chan *Message, <-chan error, error)

	// Close closes the queue connection
	Close() error

	// HealthCheck verifies the queue connection is healthy
	HealthCheck(ctx context.Context) error
}

// DLQPurger removes dead letters older than a retention window
type DLQPurger interface {
	PurgeOlderThan(ctx context.Context, retention time.Duration) (int, error)
}
