package workers

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/benvon/deerdiary/internal/models"
	"github.com/benvon/deerdiary/internal/queue"
	"github.com/google/uuid"
)

func sampleNotes() []*models.Note {
	return []*models.Note{
		{ID: uuid.New(), Date: "9/8/2025", Weather: models.WeatherSunny, Mood: models.MoodHappy, Company: models.CompanyFriends, Text: "park"},
		{ID: uuid.New(), Date: "9/7/2025", Weather: models.WeatherCloudy, Mood: models.MoodOkay, Company: models.CompanyAlone, Text: "reading"},
		{ID: uuid.New(), Date: "9/6/2025", Weather: models.WeatherSunny, Text: "untagged mood"},
	}
}

func TestCountTags(t *testing.T) {
	t.Parallel()

	summary := models.NewTagSummary("2025-09")
	summary.Weather["snowy"] = 9 // stale counts are replaced

	CountTags(summary, sampleNotes())

	if summary.Notes != 3 {
		t.Errorf("Notes = %d, want 3", summary.Notes)
	}
	if got := summary.Weather["sunny"]; got != 2 {
		t.Errorf("sunny = %d, want 2", got)
	}
	if _, ok := summary.Weather["snowy"]; ok {
		t.Error("stale snowy count survived recount")
	}
	if got := summary.Mood["happy"]; got != 1 {
		t.Errorf("happy = %d, want 1", got)
	}
	if len(summary.Mood) != 2 {
		t.Errorf("mood values = %v, want 2 entries", summary.Mood)
	}
	if got := summary.Company["alone"]; got != 1 {
		t.Errorf("alone = %d, want 1", got)
	}
}

func TestSummarizer_ProcessTagSummaryJob_Success(t *testing.T) {
	t.Parallel()

	noteRepo := &mockNoteRepo{
		t: t,
		listByMonthFunc: func(ctx context.Context, month string) ([]*models.Note, error) {
			if month != "2025-09" {
				t.Errorf("ListByMonth called with %q", month)
			}
			return sampleNotes(), nil
		},
	}
	summaryRepo := &mockSummaryRepo{
		t: t,
		getByMonthOrCreateFunc: func(ctx context.Context, month string) (*models.TagSummary, error) {
			return models.NewTagSummary(month), nil
		},
		updateSummaryFunc: func(ctx context.Context, s *models.TagSummary) (bool, error) {
			if s.Notes != 3 {
				t.Errorf("Notes = %d, want 3", s.Notes)
			}
			if s.LastAnalyzedAt == nil {
				t.Error("LastAnalyzedAt not set")
			}
			return true, nil
		},
	}

	s := NewSummarizer(noteRepo, summaryRepo, nil, nil)
	msg := &mockMessage{job: queue.NewJob(queue.JobTypeTagSummary, "2025-09")}

	if err := s.ProcessJob(context.Background(), msg); err != nil {
		t.Fatalf("ProcessJob failed: %v", err)
	}
	if msg.acks != 1 || msg.nacks != 0 {
		t.Errorf("acks=%d nacks=%d, want 1/0", msg.acks, msg.nacks)
	}
	if len(summaryRepo.updateSummaryCalls) != 1 {
		t.Errorf("UpdateSummary called %d times, want 1", len(summaryRepo.updateSummaryCalls))
	}
}

func TestSummarizer_ProcessTagSummaryJob_VersionConflict(t *testing.T) {
	t.Parallel()

	noteRepo := &mockNoteRepo{
		t:               t,
		listByMonthFunc: func(context.Context, string) ([]*models.Note, error) { return nil, nil },
	}
	summaryRepo := &mockSummaryRepo{
		t: t,
		getByMonthOrCreateFunc: func(ctx context.Context, month string) (*models.TagSummary, error) {
			return models.NewTagSummary(month), nil
		},
		updateSummaryFunc: func(context.Context, *models.TagSummary) (bool, error) { return false, nil },
	}

	s := NewSummarizer(noteRepo, summaryRepo, nil, nil)
	msg := &mockMessage{job: queue.NewJob(queue.JobTypeTagSummary, "2025-09")}

	if err := s.ProcessJob(context.Background(), msg); err != nil {
		t.Fatalf("version conflict should not fail the job: %v", err)
	}
	if msg.acks != 1 {
		t.Errorf("acks = %d, want 1", msg.acks)
	}
}

func TestSummarizer_ProcessJob_InvalidMonth(t *testing.T) {
	t.Parallel()

	s := NewSummarizer(&mockNoteRepo{t: t}, &mockSummaryRepo{t: t}, nil, nil)
	msg := &mockMessage{job: queue.NewJob(queue.JobTypeTagSummary, "September")}

	if err := s.ProcessJob(context.Background(), msg); err == nil {
		t.Fatal("expected error for invalid month")
	}
	if msg.nacks != 1 || msg.requeued {
		t.Errorf("nacks=%d requeued=%v, want a single dead-letter nack", msg.nacks, msg.requeued)
	}
}

func TestSummarizer_ProcessJob_UnknownType(t *testing.T) {
	t.Parallel()

	s := NewSummarizer(&mockNoteRepo{t: t}, &mockSummaryRepo{t: t}, nil, nil)
	msg := &mockMessage{job: queue.NewJob(queue.JobType("export"), "2025-09")}

	if err := s.ProcessJob(context.Background(), msg); err == nil {
		t.Error("Expected error for unknown job type")
	}
	if msg.nacks != 1 {
		t.Error("Expected job to be nacked for unknown type")
	}
}

func TestSummarizer_ProcessJob_DropsExpiredJob(t *testing.T) {
	t.Parallel()

	job := queue.NewJob(queue.JobTypeTagSummary, "2025-09")
	expired := time.Now().Add(-time.Minute)
	job.NotAfter = &expired

	s := NewSummarizer(&mockNoteRepo{t: t}, &mockSummaryRepo{t: t}, nil, nil)
	msg := &mockMessage{job: job}

	if err := s.ProcessJob(context.Background(), msg); err != nil {
		t.Fatalf("ProcessJob should succeed for expired job: %v", err)
	}
	if msg.acks != 1 {
		t.Error("Expected expired job to be acked")
	}
}

func TestSummarizer_ProcessJob_RetriesWithBackoff(t *testing.T) {
	t.Parallel()

	noteRepo := &mockNoteRepo{
		t: t,
		listByMonthFunc: func(context.Context, string) ([]*models.Note, error) {
			return nil, errors.New("connection reset")
		},
	}
	summaryRepo := &mockSummaryRepo{
		t: t,
		getByMonthOrCreateFunc: func(ctx context.Context, month string) (*models.TagSummary, error) {
			return models.NewTagSummary(month), nil
		},
	}
	publisher := &mockPublisher{}

	s := NewSummarizer(noteRepo, summaryRepo, publisher, nil)
	fixed := time.Date(2025, 9, 8, 12, 0, 0, 0, time.UTC)
	s.now = func() time.Time { return fixed }

	job := queue.NewJob(queue.JobTypeTagSummary, "2025-09")
	msg := &mockMessage{job: job}

	if err := s.ProcessJob(context.Background(), msg); err == nil {
		t.Fatal("expected error to be reported")
	}
	if msg.acks != 1 || msg.nacks != 0 {
		t.Errorf("acks=%d nacks=%d, want original acked after republish", msg.acks, msg.nacks)
	}
	if len(publisher.jobs) != 1 {
		t.Fatalf("republished %d jobs, want 1", len(publisher.jobs))
	}
	next := publisher.jobs[0]
	if next.RetryCount != 1 {
		t.Errorf("RetryCount = %d, want 1", next.RetryCount)
	}
	if next.NotBefore == nil || !next.NotBefore.Equal(fixed.Add(10*time.Second)) {
		t.Errorf("NotBefore = %v, want %v", next.NotBefore, fixed.Add(10*time.Second))
	}
	if job.RetryCount != 0 {
		t.Error("original job was mutated")
	}
}

func TestSummarizer_ProcessJob_DeadLettersWhenRetriesExhausted(t *testing.T) {
	t.Parallel()

	summaryRepo := &mockSummaryRepo{
		t: t,
		getByMonthOrCreateFunc: func(context.Context, string) (*models.TagSummary, error) {
			return nil, errors.New("database unavailable")
		},
	}
	publisher := &mockPublisher{}
	s := NewSummarizer(&mockNoteRepo{t: t}, summaryRepo, publisher, nil)

	job := queue.NewJob(queue.JobTypeTagSummary, "2025-09")
	job.RetryCount = job.MaxRetries
	msg := &mockMessage{job: job}

	if err := s.ProcessJob(context.Background(), msg); err == nil {
		t.Fatal("expected error")
	}
	if len(publisher.jobs) != 0 {
		t.Error("job republished after exhausting retries")
	}
	if msg.nacks != 1 || msg.requeued {
		t.Errorf("nacks=%d requeued=%v, want a dead-letter nack", msg.nacks, msg.requeued)
	}
}

func TestSummarizer_ProcessJob_DeadLettersWhenRepublishFails(t *testing.T) {
	t.Parallel()

	summaryRepo := &mockSummaryRepo{
		t: t,
		getByMonthOrCreateFunc: func(context.Context, string) (*models.TagSummary, error) {
			return nil, errors.New("database unavailable")
		},
	}
	publisher := &mockPublisher{
		enqueueFunc: func(context.Context, *queue.Job) error { return errors.New("channel closed") },
	}
	s := NewSummarizer(&mockNoteRepo{t: t}, summaryRepo, publisher, nil)
	msg := &mockMessage{job: queue.NewJob(queue.JobTypeTagSummary, "2025-09")}

	if err := s.ProcessJob(context.Background(), msg); err == nil {
		t.Fatal("expected error")
	}
	if msg.acks != 0 || msg.nacks != 1 {
		t.Errorf("acks=%d nacks=%d, want 0/1", msg.acks, msg.nacks)
	}
}

func TestSummarizer_ConcurrentWorkers(t *testing.T) {
	t.Parallel()

	var mu sync.Mutex
	version := 0
	noteRepo := &mockNoteRepo{
		t:               t,
		listByMonthFunc: func(context.Context, string) ([]*models.Note, error) { return sampleNotes(), nil },
	}
	summaryRepo := &mockSummaryRepo{
		t: t,
		getByMonthOrCreateFunc: func(ctx context.Context, month string) (*models.TagSummary, error) {
			mu.Lock()
			defer mu.Unlock()
			s := models.NewTagSummary(month)
			s.Version = version
			return s, nil
		},
		updateSummaryFunc: func(ctx context.Context, s *models.TagSummary) (bool, error) {
			mu.Lock()
			defer mu.Unlock()
			if s.Version != version {
				return false, nil
			}
			version++
			return true, nil
		},
	}

	s := NewSummarizer(noteRepo, summaryRepo, nil, nil)

	var wg sync.WaitGroup
	errs := make(chan error, 10)
	for i := 0; i < 10; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			msg := &mockMessage{job: queue.NewJob(queue.JobTypeTagSummary, "2025-09")}
			errs <- s.ProcessJob(context.Background(), msg)
		}()
	}
	wg.Wait()
	close(errs)

	for err := range errs {
		if err != nil {
			t.Errorf("ProcessJob failed: %v", err)
		}
	}
	if version < 1 {
		t.Error("expected at least one successful update")
	}
}

func TestRetryDelay(t *testing.T) {
	t.Parallel()

	tests := []struct {
		attempt int
		want    time.Duration
	}{
		{attempt: 0, want: 10 * time.Second},
		{attempt: 1, want: 10 * time.Second},
		{attempt: 2, want: 20 * time.Second},
		{attempt: 3, want: 40 * time.Second},
		{attempt: 10, want: 5 * time.Minute},
	}
	for _, tt := range tests {
		if got := RetryDelay(tt.attempt); got != tt.want {
			t.Errorf("RetryDelay(%d) = %v, want %v", tt.attempt, got, tt.want)
		}
	}
}
