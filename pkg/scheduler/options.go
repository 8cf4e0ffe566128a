package scheduler

import "log/slog"

// Option is a functional option for configuring a scheduler
type Option func(*options)

type options struct {
	logger *slog.Logger
}

// WithLogger sets the logger used to report panicking tasks
func WithLogger(logger *slog.Logger) Option {
	return func(o *options) {
		if logger != nil {
			o.logger = logger
		}
	}
}
