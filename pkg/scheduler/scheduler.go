package scheduler

import (
	"context"
	"fmt"
	"log/slog"
	"sync"
	"time"

	"github.com/dmitrymomot/geoindex/pkg/logger"
)

// Task is a unit of periodic work. The context is cancelled when the task
// is cancelled or the scheduler is stopped.
type Task func(ctx context.Context)

// TaskID identifies a registered task.
type TaskID uint64

// Scheduler runs tasks on fixed intervals. Each task gets its own goroutine
// driven by a ticker; ticks never overlap for the same task.
// Zero value is not usable; use New to create instances.
type Scheduler struct {
	mu      sync.Mutex
	tasks   map[TaskID]context.CancelFunc
	nextID  TaskID
	stopped bool
	wg      sync.WaitGroup
	logger  *slog.Logger
}

// New creates a scheduler with no tasks.
func New(opts ...Option) *Scheduler {
	options := &options{logger: slog.Default()}
	for _, opt := range opts {
		opt(options)
	}

	return &Scheduler{
		tasks:  make(map[TaskID]context.CancelFunc),
		logger: options.logger,
	}
}

// Every registers task to run once per interval, first run one interval from now.
func (s *Scheduler) Every(interval time.Duration, task Task) (TaskID, error) {
	if interval <= 0 {
		return 0, ErrInvalidInterval
	}
	if task == nil {
		return 0, ErrNilTask
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	if s.stopped {
		return 0, ErrStopped
	}

	s.nextID++
	id := s.nextID
	ctx, cancel := context.WithCancel(context.Background())
	s.tasks[id] = cancel

	s.wg.Add(1)
	go s.loop(ctx, id, interval, task)

	return id, nil
}

// Cancel stops the task with the given id. It reports whether the task was registered.
// A run already in progress is not interrupted beyond cancelling its context.
func (s *Scheduler) Cancel(id TaskID) bool {
	s.mu.Lock()
	cancel, ok := s.tasks[id]
	delete(s.tasks, id)
	s.mu.Unlock()

	if ok {
		cancel()
	}
	return ok
}

// Len returns the number of registered tasks.
func (s *Scheduler) Len() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.tasks)
}

// Stop cancels every task and waits for their goroutines to exit.
// It is safe to call Stop more than once.
func (s *Scheduler) Stop() {
	s.mu.Lock()
	s.stopped = true
	tasks := s.tasks
	s.tasks = make(map[TaskID]context.CancelFunc)
	s.mu.Unlock()

	for _, cancel := range tasks {
		cancel()
	}
	s.wg.Wait()
}

func (s *Scheduler) loop(ctx context.Context, id TaskID, interval time.Duration, task Task) {
	defer s.wg.Done()

	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			s.run(ctx, id, task)
		}
	}
}

// run executes a single tick, turning a panic into a log record so the task keeps its schedule.
func (s *Scheduler) run(ctx context.Context, id TaskID, task Task) {
	defer func() {
		if r := recover(); r != nil {
			s.logger.ErrorContext(ctx, "scheduled task panicked",
				logger.Component("scheduler"),
				slog.Uint64("task_id", uint64(id)),
				logger.Error(fmt.Errorf("panic: %v", r)))
		}
	}()

	task(ctx)
}
