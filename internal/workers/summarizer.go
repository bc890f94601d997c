package workers

import (
	"context"
	"fmt"
	"time"

	"github.com/benvon/deerdiary/internal/database"
	logpkg "github.com/benvon/deerdiary/internal/logger"
	"github.com/benvon/deerdiary/internal/models"
	"github.com/benvon/deerdiary/internal/queue"
	"github.com/benvon/deerdiary/internal/validation"
	"go.uber.org/zap"
)

// Summarizer processes tag summary jobs, recounting one month of notes per job
type Summarizer struct {
	noteRepo    database.NoteRepositoryInterface
	summaryRepo database.TagSummaryRepositoryInterface
	publisher   queue.Publisher
	logger      *zap.Logger
	registry    map[queue.JobType]processorEntry
	now         func() time.Time
}

// NewSummarizer creates a summarizer and registers the tag_summary processor.
// publisher may be nil, in which case failed jobs go straight to the DLQ.
func NewSummarizer(
	noteRepo database.NoteRepositoryInterface,
	summaryRepo database.TagSummaryRepositoryInterface,
	publisher queue.Publisher,
	logger *zap.Logger,
) *Summarizer {
	if logger == nil {
		logger = zap.NewNop()
	}
	s := &Summarizer{
		noteRepo:    noteRepo,
		summaryRepo: summaryRepo,
		publisher:   publisher,
		logger:      logger,
		registry:    make(map[queue.JobType]processorEntry),
		now:         time.Now,
	}
	s.RegisterProcessor(queue.JobTypeTagSummary, s.ProcessTagSummaryJob, true)
	return s
}

// RegisterProcessor registers a processor for a job type.
func (s *Summarizer) RegisterProcessor(typ queue.JobType, proc JobProcessor, retry bool) {
	s.registry[typ] = processorEntry{proc: proc, retry: retry}
}

// ProcessTagSummaryJob recounts the weather, mood and company tags of the job's month
func (s *Summarizer) ProcessTagSummaryJob(ctx context.Context, job *queue.Job) error {
	if err := validation.ValidateMonthKey(job.Month); err != nil {
		return fmt.Errorf("invalid month for tag summary job: %w", err)
	}
	s.logger.Info("processing_tag_summary_job",
		zap.String("job_id", logpkg.SanitizeID(job.ID.String())),
		zap.String("month", job.Month),
	)

	summary, err := s.summaryRepo.GetByMonthOrCreate(ctx, job.Month)
	if err != nil {
		return fmt.Errorf("failed to get or create tag summary: %w", err)
	}

	notes, err := s.noteRepo.ListByMonth(ctx, job.Month)
	if err != nil {
		return fmt.Errorf("failed to list notes: %w", err)
	}

	CountTags(summary, notes)
	analyzedAt := s.now()
	summary.LastAnalyzedAt = &analyzedAt

	updated, err := s.summaryRepo.UpdateSummary(ctx, summary)
	if err != nil {
		return fmt.Errorf("failed to update tag summary: %w", err)
	}
	if !updated {
		// Another worker wrote a newer version; its counts include ours
		s.logger.Debug("tag_summary_version_conflict", zap.String("month", job.Month))
		return nil
	}

	s.logger.Info("tag_summary_updated",
		zap.String("month", job.Month),
		zap.Int("notes", summary.Notes),
		zap.Int("version", summary.Version),
	)
	return nil
}

// CountTags replaces the counts in summary with the tag values found in notes.
// Unset tags are not counted.
func CountTags(summary *models.TagSummary, notes []*models.Note) {
	summary.Weather = models.TagCounts{}
	summary.Mood = models.TagCounts{}
	summary.Company = models.TagCounts{}
	summary.Notes = len(notes)
	for _, n := range notes {
		if n.Weather != "" {
			summary.Weather[string(n.Weather)]++
		}
		if n.Mood != "" {
			summary.Mood[string(n.Mood)]++
		}
		if n.Company != "" {
			summary.Company[string(n.Company)]++
		}
	}
}

// ProcessJob processes a job based on its type using the processor registry.
func (s *Summarizer) ProcessJob(ctx context.Context, msg queue.MessageInterface) error {
	job := msg.GetJob()
	jobID := logpkg.SanitizeID(job.ID.String())

	if !job.ShouldProcess() {
		fields := []zap.Field{zap.String("job_id", jobID)}
		if job.NotAfter != nil {
			fields = append(fields, zap.Time("not_after", *job.NotAfter))
		}
		if job.NotBefore != nil {
			fields = append(fields, zap.Time("not_before", *job.NotBefore))
		}
		s.logger.Debug("job_outside_window_dropped", fields...)
		if ackErr := msg.Ack(); ackErr != nil {
			s.logger.Warn("failed_to_ack_dropped_job",
				zap.String("job_id", jobID),
				zap.String("error", logpkg.SanitizeError(ackErr)),
			)
		}
		return nil
	}

	ent, ok := s.registry[job.Type]
	if !ok {
		if nackErr := msg.Nack(false); nackErr != nil {
			s.logger.Error("failed_to_nack_unknown_job_type",
				zap.String("job_id", jobID),
				zap.String("job_type", string(job.Type)),
				zap.String("error", logpkg.SanitizeError(nackErr)),
			)
		}
		return fmt.Errorf("unknown job type: %s", job.Type)
	}

	if err := ent.proc(ctx, job); err != nil {
		s.logger.Error("job_failed",
			zap.String("operation", "process_job"),
			zap.String("job_id", jobID),
			zap.String("job_type", string(job.Type)),
			zap.String("month", job.Month),
			zap.String("error", logpkg.SanitizeError(err)),
		)
		if ent.retry && s.retry(ctx, msg, job) {
			return fmt.Errorf("%s job failed, retry scheduled: %w", job.Type, err)
		}
		if nackErr := msg.Nack(false); nackErr != nil {
			s.logger.Warn("failed_to_nack_job",
				zap.String("job_id", jobID),
				zap.String("error", logpkg.SanitizeError(nackErr)),
			)
		}
		return fmt.Errorf("%s job failed: %w", job.Type, err)
	}

	if ackErr := msg.Ack(); ackErr != nil {
		return fmt.Errorf("failed to ack %s job: %w", job.Type, ackErr)
	}
	return nil
}

// retry acks msg and publishes a copy with backoff. Returns false when the job
// is out of retries or cannot be republished, leaving msg for the caller to nack.
func (s *Summarizer) retry(ctx context.Context, msg queue.MessageInterface, job *queue.Job) bool {
	if s.publisher == nil || !job.CanRetry() {
		return false
	}

	next := *job
	next.IncrementRetry()
	notBefore := s.now().Add(RetryDelay(next.RetryCount))
	next.NotBefore = &notBefore

	if err := s.publisher.Enqueue(ctx, &next); err != nil {
		s.logger.Warn("failed_to_reenqueue_job",
			zap.String("job_id", logpkg.SanitizeID(job.ID.String())),
			zap.String("error", logpkg.SanitizeError(err)),
		)
		return false
	}
	if ackErr := msg.Ack(); ackErr != nil {
		s.logger.Warn("failed_to_ack_job_before_retry",
			zap.String("job_id", logpkg.SanitizeID(job.ID.String())),
			zap.String("error", logpkg.SanitizeError(ackErr)),
		)
	}
	s.logger.Info("job_retry_scheduled",
		zap.String("job_id", logpkg.SanitizeID(job.ID.String())),
		zap.Int("retry_count", next.RetryCount),
		zap.Time("not_before", notBefore),
	)
	return true
}

// RetryDelay is the backoff before attempt n (1-based): 10s, 20s, 40s, capped at 5 minutes
func RetryDelay(attempt int) time.Duration {
	if attempt < 1 {
		attempt = 1
	}
	d := 10 * time.Second
	for i := 1; i < attempt; i++ {
		d *= 2
		if d >= 5*time.Minute {
			return 5 * time.Minute
		}
	}
	return d
}
