// Package scheduler provides a minimal periodic-task primitive: run a function every N,
// cancel it, or stop everything at once.
//
// A Scheduler is meant to be owned by exactly one component (for example a search client
// that refreshes its cluster topology). That owner registers tasks with Every and tears them
// down with Cancel or Stop when it closes.
//
//	s := scheduler.New(scheduler.WithLogger(log))
//	id, err := s.Every(30*time.Second, func(ctx context.Context) {
//	    refresh(ctx)
//	})
//	...
//	s.Cancel(id) // or s.Stop()
//
// Ticks of one task never overlap: if a run takes longer than the interval, the missed
// ticks are coalesced by the underlying time.Ticker. Panics inside a task are recovered
// and logged so a single bad run does not end the schedule.
package scheduler
