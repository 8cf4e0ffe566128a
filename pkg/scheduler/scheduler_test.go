package scheduler_test

import (
	"context"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dmitrymomot/geoindex/pkg/scheduler"
)

func TestEvery(t *testing.T) {
	t.Parallel()

	s := scheduler.New()
	defer s.Stop()

	var runs atomic.Int32
	_, err := s.Every(5*time.Millisecond, func(context.Context) {
		runs.Add(1)
	})
	require.NoError(t, err)

	assert.Eventually(t, func() bool { return runs.Load() >= 3 }, time.Second, 5*time.Millisecond)
}

func TestEveryValidation(t *testing.T) {
	t.Parallel()

	s := scheduler.New()
	defer s.Stop()

	_, err := s.Every(0, func(context.Context) {})
	assert.ErrorIs(t, err, scheduler.ErrInvalidInterval)

	_, err = s.Every(time.Second, nil)
	assert.ErrorIs(t, err, scheduler.ErrNilTask)
}

func TestCancel(t *testing.T) {
	t.Parallel()

	s := scheduler.New()
	defer s.Stop()

	var runs atomic.Int32
	id, err := s.Every(5*time.Millisecond, func(context.Context) {
		runs.Add(1)
	})
	require.NoError(t, err)
	assert.Equal(t, 1, s.Len())

	assert.True(t, s.Cancel(id))
	assert.False(t, s.Cancel(id))
	assert.Equal(t, 0, s.Len())

	// Allow an in-flight tick to settle, then make sure nothing else runs.
	time.Sleep(20 * time.Millisecond)
	after := runs.Load()
	time.Sleep(30 * time.Millisecond)
	assert.Equal(t, after, runs.Load())
}

func TestStopCancelsTaskContext(t *testing.T) {
	t.Parallel()

	s := scheduler.New()

	started := make(chan struct{})
	var cancelled atomic.Bool
	_, err := s.Every(5*time.Millisecond, func(ctx context.Context) {
		select {
		case started <- struct{}{}:
		default:
		}
		<-ctx.Done()
		cancelled.Store(true)
	})
	require.NoError(t, err)

	select {
	case <-started:
	case <-time.After(time.Second):
		t.Fatal("task did not start")
	}

	s.Stop()
	assert.True(t, cancelled.Load())

	_, err = s.Every(time.Second, func(context.Context) {})
	assert.ErrorIs(t, err, scheduler.ErrStopped)

	// Stop is idempotent.
	s.Stop()
}

func TestPanicDoesNotStopSchedule(t *testing.T) {
	t.Parallel()

	s := scheduler.New()
	defer s.Stop()

	var runs atomic.Int32
	_, err := s.Every(5*time.Millisecond, func(context.Context) {
		if runs.Add(1) == 1 {
			panic("first run fails")
		}
	})
	require.NoError(t, err)

	assert.Eventually(t, func() bool { return runs.Load() >= 2 }, time.Second, 5*time.Millisecond)
}
