package schedule

import (
	"context"
	"log/slog"
	"sync"
	"time"

	"github.com/jdziat/simple-eca/pkg/rule"
	"github.com/jdziat/simple-eca/pkg/security"
)

// Firer fires events. *rule.Engine implements it.
type Firer interface {
	Fire(ctx context.Context, event string, owner any) (*rule.FireResult, error)
}

// DefaultInterval is how often the scheduler checks for due events.
const DefaultInterval = 100 * time.Millisecond

type entry struct {
	event    string
	schedule Schedule
	owner    any
	next     time.Time
}

// Scheduler fires events on a Firer according to their schedules.
type Scheduler struct {
	firer    Firer
	logger   *slog.Logger
	interval time.Duration

	mu      sync.Mutex
	entries map[string]*entry
}

// New creates a Scheduler for f.
func New(f Firer, opts ...Option) *Scheduler {
	s := &Scheduler{
		firer:    f,
		logger:   slog.Default(),
		interval: DefaultInterval,
		entries:  make(map[string]*entry),
	}
	for _, opt := range opts {
		opt.Apply(s)
	}
	return s
}

// Add schedules event to fire with owner. An existing schedule for the
// same event is replaced. It panics if the event name is invalid.
func (s *Scheduler) Add(event string, sched Schedule, owner any) {
	if err := security.ValidateKey(event); err != nil {
		panic("eca: schedule " + event + ": " + err.Error())
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	s.entries[event] = &entry{
		event:    event,
		schedule: sched,
		owner:    owner,
		next:     sched.Next(time.Now()),
	}
}

// Remove stops firing event.
func (s *Scheduler) Remove(event string) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.entries[event]; !ok {
		return false
	}
	delete(s.entries, event)
	return true
}

// Next returns when event fires next.
func (s *Scheduler) Next(event string) (time.Time, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	e, ok := s.entries[event]
	if !ok {
		return time.Time{}, false
	}
	return e.next, true
}

// Run fires due events until ctx is canceled. Fire errors are logged
// and do not stop the scheduler.
func (s *Scheduler) Run(ctx context.Context) error {
	ticker := time.NewTicker(s.interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case now := <-ticker.C:
			for _, e := range s.due(now) {
				s.fire(ctx, e)
			}
		}
	}
}

// due collects entries whose time has come and advances them.
func (s *Scheduler) due(now time.Time) []entry {
	s.mu.Lock()
	defer s.mu.Unlock()

	var out []entry
	for _, e := range s.entries {
		if now.Before(e.next) {
			continue
		}
		out = append(out, *e)
		e.next = e.schedule.Next(now)
	}
	return out
}

func (s *Scheduler) fire(ctx context.Context, e entry) {
	res, err := s.firer.Fire(ctx, e.event, e.owner)
	if err != nil {
		s.logger.Error("scheduled event failed", "event", e.event, "error", err)
		return
	}
	s.logger.Debug("scheduled event fired", "event", e.event, "rules", len(res.Fired))
}
