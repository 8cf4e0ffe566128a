package scheduler

import "errors"

var (
	ErrInvalidInterval = errors.New("scheduler: interval must be positive")
	ErrNilTask         = errors.New("scheduler: task is nil")
	ErrStopped         = errors.New("scheduler: scheduler has been stopped")
)
