package rule

import (
	"cmp"
	"context"
	"fmt"
	"log/slog"
	"slices"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/jdziat/simple-eca/pkg/core"
	"github.com/jdziat/simple-eca/pkg/invoke"
	"github.com/jdziat/simple-eca/pkg/security"
)

// Engine evaluates rules when events fire.
type Engine struct {
	invoker *invoke.Invoker
	logger  *slog.Logger

	mu      sync.RWMutex
	rules   map[string]*Rule
	byEvent map[string][]*Rule

	// Event stream
	eventSubs []chan core.Event
}

// NewEngine creates an Engine that runs steps through inv.
func NewEngine(inv *invoke.Invoker, opts ...Option) *Engine {
	e := &Engine{
		invoker: inv,
		logger:  slog.Default(),
		rules:   make(map[string]*Rule),
		byEvent: make(map[string][]*Rule),
	}
	for _, opt := range opts {
		opt.Apply(e)
	}
	return e
}

// Add validates and adds a rule. A rule with the same name is replaced.
// Rules without an ID are given one.
func (e *Engine) Add(r Rule) error {
	if err := e.Validate(r); err != nil {
		return err
	}
	if r.ID == "" {
		r.ID = uuid.New().String()
	}

	e.mu.Lock()
	defer e.mu.Unlock()

	prev, replacing := e.rules[r.Name]
	count := len(e.byEvent[r.Event])
	if replacing && prev.Event == r.Event {
		count--
	}
	if count >= security.MaxRulesPerEvent {
		return &core.RuleError{Rule: r.Name, Err: fmt.Errorf("%w: event %q has too many rules", core.ErrInvalidRule, r.Event)}
	}

	e.rules[r.Name] = &r
	e.reindex()
	return nil
}

// Remove deletes the rule with the given name.
func (e *Engine) Remove(name string) bool {
	e.mu.Lock()
	defer e.mu.Unlock()
	if _, ok := e.rules[name]; !ok {
		return false
	}
	delete(e.rules, name)
	e.reindex()
	return true
}

// Replace swaps the whole rule set. Nothing changes unless every rule is valid.
func (e *Engine) Replace(rules []Rule) error {
	next := make(map[string]*Rule, len(rules))
	perEvent := make(map[string]int)
	for i := range rules {
		r := rules[i]
		if err := e.Validate(r); err != nil {
			return err
		}
		if _, dup := next[r.Name]; dup {
			return &core.RuleError{Rule: r.Name, Err: fmt.Errorf("%w: duplicate rule name", core.ErrInvalidRule)}
		}
		perEvent[r.Event]++
		if perEvent[r.Event] > security.MaxRulesPerEvent {
			return &core.RuleError{Rule: r.Name, Err: fmt.Errorf("%w: event %q has too many rules", core.ErrInvalidRule, r.Event)}
		}
		if r.ID == "" {
			r.ID = uuid.New().String()
		}
		next[r.Name] = &r
	}

	e.mu.Lock()
	e.rules = next
	e.reindex()
	e.mu.Unlock()

	e.logger.Info("rule set replaced", "rules", len(next))
	return nil
}

// Rules returns a copy of every rule, ordered by event, then evaluation order.
func (e *Engine) Rules() []Rule {
	e.mu.RLock()
	defer e.mu.RUnlock()

	out := make([]Rule, 0, len(e.rules))
	for _, r := range e.rules {
		out = append(out, *r)
	}
	slices.SortFunc(out, func(a, b Rule) int {
		if c := cmp.Compare(a.Event, b.Event); c != 0 {
			return c
		}
		return compareRules(&a, &b)
	})
	return out
}

// Get returns the rule with the given name.
func (e *Engine) Get(name string) (Rule, bool) {
	e.mu.RLock()
	defer e.mu.RUnlock()
	r, ok := e.rules[name]
	if !ok {
		return Rule{}, false
	}
	return *r, true
}

// Validate checks a rule's names and that every step resolves to a
// registered callable.
func (e *Engine) Validate(r Rule) error {
	invalid := func(key string, err error) error {
		return &core.RuleError{Rule: r.Name, Key: key, Err: err}
	}

	if err := security.ValidateKey(r.Name); err != nil {
		return invalid("", err)
	}
	if err := security.ValidateKey(r.Event); err != nil {
		return invalid("", fmt.Errorf("event: %w", err))
	}
	if len(r.Actions) == 0 {
		return invalid("", fmt.Errorf("%w: no actions", core.ErrInvalidRule))
	}

	reg := e.invoker.Registry()
	for _, steps := range [][]Step{r.Conditions, r.Actions} {
		for _, s := range steps {
			name := s.Name()
			if len(s.Args) > 0 && name != s.Key {
				return invalid(s.Key, fmt.Errorf("%w: inline and explicit arguments", core.ErrInvalidRule))
			}
			if err := security.ValidateKey(name); err != nil {
				return invalid(s.Key, err)
			}
			if !reg.Has(name) {
				return invalid(s.Key, core.ErrUnknownCallable)
			}
		}
	}
	return nil
}

// Fire evaluates every enabled rule bound to event, highest priority
// first. A rule's actions run only when all of its conditions return true.
// The first failing step stops evaluation and is returned as a
// *core.RuleError; the result still lists the rules handled before it.
func (e *Engine) Fire(ctx context.Context, event string, owner any) (*FireResult, error) {
	e.mu.RLock()
	rules := slices.Clone(e.byEvent[event])
	e.mu.RUnlock()

	result := &FireResult{Event: event}
	for _, r := range rules {
		if r.Disabled {
			continue
		}
		start := time.Now()

		held, err := e.conditionsHold(ctx, r, owner)
		if err != nil {
			return result, err
		}
		if !held {
			continue
		}

		result.Matched = append(result.Matched, r.Name)
		e.emit(&core.RuleMatched{Rule: r.Name, Event: event, Timestamp: time.Now()})

		for _, s := range r.Actions {
			if err := e.invoker.Do(ctx, owner, s.Key, s.Inputs()...); err != nil {
				return result, e.stepFailed(r, s, err)
			}
		}

		result.Fired = append(result.Fired, r.Name)
		e.emit(&core.RuleFired{Rule: r.Name, Event: event, Duration: time.Since(start), Timestamp: time.Now()})
	}

	e.logger.Debug("event fired", "event", event, "rules", len(rules), "fired", len(result.Fired))
	return result, nil
}

func (e *Engine) conditionsHold(ctx context.Context, r *Rule, owner any) (bool, error) {
	for _, s := range r.Conditions {
		ok, err := e.invoker.Check(ctx, owner, s.Key, s.Inputs()...)
		if err != nil {
			return false, e.stepFailed(r, s, err)
		}
		if !ok {
			e.emit(&core.RuleSkipped{Rule: r.Name, Event: r.Event, Condition: s.String(), Timestamp: time.Now()})
			return false, nil
		}
	}
	return true, nil
}

func (e *Engine) stepFailed(r *Rule, s Step, err error) error {
	e.logger.Warn("rule step failed", "rule", r.Name, "event", r.Event, "step", s.String(), "error", err)
	e.emit(&core.RuleFailed{Rule: r.Name, Event: r.Event, Error: err, Timestamp: time.Now()})
	return &core.RuleError{Rule: r.Name, Key: s.String(), Err: err}
}

// reindex rebuilds the per-event evaluation order. Callers hold e.mu.
func (e *Engine) reindex() {
	byEvent := make(map[string][]*Rule)
	for _, r := range e.rules {
		byEvent[r.Event] = append(byEvent[r.Event], r)
	}
	for _, list := range byEvent {
		slices.SortFunc(list, compareRules)
	}
	e.byEvent = byEvent
}

// compareRules orders by priority, highest first, then by name.
func compareRules(a, b *Rule) int {
	if c := cmp.Compare(b.Priority, a.Priority); c != 0 {
		return c
	}
	return cmp.Compare(a.Name, b.Name)
}

// Events returns a channel for receiving rule events.
// The caller must call Unsubscribe when done to prevent resource leaks.
func (e *Engine) Events() <-chan core.Event {
	ch := make(chan core.Event, 100)
	e.mu.Lock()
	e.eventSubs = append(e.eventSubs, ch)
	e.mu.Unlock()
	return ch
}

// Unsubscribe removes a subscriber channel created by Events().
// The channel is not closed; callers must stop reading before calling Unsubscribe.
func (e *Engine) Unsubscribe(ch <-chan core.Event) {
	e.mu.Lock()
	defer e.mu.Unlock()
	for i, sub := range e.eventSubs {
		if sub == ch {
			e.eventSubs = append(e.eventSubs[:i], e.eventSubs[i+1:]...)
			return
		}
	}
}

func (e *Engine) emit(ev core.Event) {
	e.mu.RLock()
	subs := make([]chan core.Event, len(e.eventSubs))
	copy(subs, e.eventSubs)
	e.mu.RUnlock()

	for _, ch := range subs {
		select {
		case ch <- ev:
		default:
			// Drop if full so slow consumers never block Fire
		}
	}
}
