package queue

import (
	"context"
	"errors"
	"sync/atomic"
	"testing"
	"time"

	"go.uber.org/zap"
)

type mockDLQPurger struct {
	purgeFunc func(ctx context.Context, retention time.Duration) (int, error)
}

func (m *mockDLQPurger) PurgeOlderThan(ctx context.Context, retention time.Duration) (int, error) {
	if m.purgeFunc != nil {
		return m.purgeFunc(ctx, retention)
	}
	return 0, nil
}

func TestGarbageCollector_Collect_NilPurger(t *testing.T) {
	t.Parallel()
	gc := NewGarbageCollector(nil, time.Minute, 24*time.Hour, nil)
	err := gc.collect(context.Background())
	if err != nil {
		t.Errorf("collect with nil purger: %v", err)
	}
}

func TestGarbageCollector_Collect_MockPurger(t *testing.T) {
	t.Parallel()
	var called atomic.Bool
	mock := &mockDLQPurger{
		purgeFunc: func(ctx context.Context, retention time.Duration) (int, error) {
			called.Store(true)
			if retention != 24*time.Hour {
				return 0, errors.New("unexpected retention")
			}
			return 3, nil
		},
	}
	gc := NewGarbageCollector(mock, time.Minute, 24*time.Hour, zap.NewNop())
	err := gc.collect(context.Background())
	if err != nil {
		t.Errorf("collect: %v", err)
	}
	if !called.Load() {
		t.Error("PurgeOlderThan was not called")
	}
}

func TestGarbageCollector_Collect_PurgerError(t *testing.T) {
	t.Parallel()
	mock := &mockDLQPurger{
		purgeFunc: func(context.Context, time.Duration) (int, error) {
			return 0, errors.New("purge failed")
		},
	}
	gc := NewGarbageCollector(mock, time.Minute, time.Hour, nil)
	err := gc.collect(context.Background())
	if err == nil {
		t.Error("expected error from collect")
	}
}

func TestGarbageCollector_Start_StopsOnContextCancel(t *testing.T) {
	t.Parallel()
	mock := &mockDLQPurger{purgeFunc: func(context.Context, time.Duration) (int, error) { return 0, nil }}
	gc := NewGarbageCollector(mock, 24*time.Hour, time.Hour, nil)
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	err := gc.Start(ctx)
	if err == nil {
		t.Error("expected context cancelled error")
	}
}

func TestGarbageCollector_Start_PurgesOnTick(t *testing.T) {
	t.Parallel()
	calls := make(chan time.Duration, 1)
	mock := &mockDLQPurger{
		purgeFunc: func(_ context.Context, retention time.Duration) (int, error) {
			select {
			case calls <- retention:
			default:
			}
			return 1, nil
		},
	}
	gc := NewGarbageCollector(mock, 10*time.Millisecond, 72*time.Hour, nil)
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	done := make(chan error, 1)
	go func() { done <- gc.Start(ctx) }()

	select {
	case got := <-calls:
		if got != 72*time.Hour {
			t.Errorf("retention = %v, want 72h", got)
		}
	case <-time.After(2 * time.Second):
		t.Fatal("purger was not called")
	}
	cancel()
	if err := <-done; err == nil {
		t.Error("expected context error after cancel")
	}
}
