package workers

import (
	"context"
	"sync"
	"testing"

	"github.com/benvon/deerdiary/internal/database"
	"github.com/benvon/deerdiary/internal/models"
	"github.com/benvon/deerdiary/internal/queue"
)

type mockNoteRepo struct {
	t               *testing.T
	listByMonthFunc func(ctx context.Context, month string) ([]*models.Note, error)

	mu               sync.Mutex
	listByMonthCalls []string
}

func (m *mockNoteRepo) Create(ctx context.Context, note *models.Note) error {
	m.t.Fatal("Create called but not expected by the worker")
	return nil
}

func (m *mockNoteRepo) List(ctx context.Context) ([]*models.Note, error) {
	m.t.Fatal("List called but not expected by the worker")
	return nil, nil
}

func (m *mockNoteRepo) ListByMonth(ctx context.Context, month string) ([]*models.Note, error) {
	m.mu.Lock()
	m.listByMonthCalls = append(m.listByMonthCalls, month)
	m.mu.Unlock()
	if m.listByMonthFunc == nil {
		m.t.Fatal("ListByMonth called but not configured in test - mock requires explicit setup")
	}
	return m.listByMonthFunc(ctx, month)
}

type mockSummaryRepo struct {
	t                      *testing.T
	getByMonthOrCreateFunc func(ctx context.Context, month string) (*models.TagSummary, error)
	updateSummaryFunc      func(ctx context.Context, summary *models.TagSummary) (bool, error)

	mu                 sync.Mutex
	updateSummaryCalls []*models.TagSummary
}

func (m *mockSummaryRepo) GetByMonth(ctx context.Context, month string) (*models.TagSummary, error) {
	m.t.Fatal("GetByMonth called but not expected by the worker")
	return nil, nil
}

func (m *mockSummaryRepo) GetByMonthOrCreate(ctx context.Context, month string) (*models.TagSummary, error) {
	if m.getByMonthOrCreateFunc == nil {
		m.t.Fatal("GetByMonthOrCreate called but not configured in test - mock requires explicit setup")
	}
	return m.getByMonthOrCreateFunc(ctx, month)
}

func (m *mockSummaryRepo) UpdateSummary(ctx context.Context, summary *models.TagSummary) (bool, error) {
	m.mu.Lock()
	m.updateSummaryCalls = append(m.updateSummaryCalls, summary)
	m.mu.Unlock()
	if m.updateSummaryFunc == nil {
		m.t.Fatal("UpdateSummary called but not configured in test - mock requires explicit setup")
	}
	return m.updateSummaryFunc(ctx, summary)
}

func (m *mockSummaryRepo) MarkTainted(ctx context.Context, month string) (bool, error) {
	m.t.Fatal("MarkTainted called but not expected by the worker")
	return false, nil
}

type mockMessage struct {
	job      *queue.Job
	ackFunc  func() error
	nackFunc func(requeue bool) error

	mu     sync.Mutex
	acks   int
	nacks  int
	requeued bool
}

func (m *mockMessage) Ack() error {
	m.mu.Lock()
	m.acks++
	m.mu.Unlock()
	if m.ackFunc != nil {
		return m.ackFunc()
	}
	return nil
}

func (m *mockMessage) Nack(requeue bool) error {
	m.mu.Lock()
	m.nacks++
	m.requeued = requeue
	m.mu.Unlock()
	if m.nackFunc != nil {
		return m.nackFunc(requeue)
	}
	return nil
}

func (m *mockMessage) GetJob() *queue.Job {
	return m.job
}

type mockPublisher struct {
	enqueueFunc func(ctx context.Context, job *queue.Job) error

	mu   sync.Mutex
	jobs []*queue.Job
}

func (m *mockPublisher) Enqueue(ctx context.Context, job *queue.Job) error {
	m.mu.Lock()
	m.jobs = append(m.jobs, job)
	m.mu.Unlock()
	if m.enqueueFunc != nil {
		return m.enqueueFunc(ctx, job)
	}
	return nil
}

var (
	_ database.NoteRepositoryInterface       = (*mockNoteRepo)(nil)
	_ database.TagSummaryRepositoryInterface = (*mockSummaryRepo)(nil)
	_ queue.MessageInterface                 = (*mockMessage)(nil)
	_ queue.Publisher                        = (*mockPublisher)(nil)
)
