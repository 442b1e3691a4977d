package schedule

import (
	"log/slog"
	"time"
)

// Option configures a Scheduler.
type Option interface {
	Apply(*Scheduler)
}

type optionFunc func(*Scheduler)

func (f optionFunc) Apply(s *Scheduler) { f(s) }

// WithLogger sets the logger for the scheduler.
func WithLogger(logger *slog.Logger) Option {
	return optionFunc(func(s *Scheduler) {
		s.logger = logger
	})
}

// WithInterval sets how often the scheduler checks for due events.
func WithInterval(d time.Duration) Option {
	return optionFunc(func(s *Scheduler) {
		if d > 0 {
			s.interval = d
		}
	})
}
