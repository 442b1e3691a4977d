// Package eca dispatches calls to registered functions by string key.
//
// This is the main package users should import. It re-exports the public
// types from the pkg/ packages and keeps a process-wide default invoker.
//
// Basic usage:
//
//	reg := eca.NewRegistry()
//	reg.Register("Add", func(a, b int) int { return a + b })
//	reg.Register("Greet", greet, eca.Defaults(1), eca.Description("greets someone"))
//	eca.SetRegistry(reg)
//
//	sum, _ := eca.Invoke(ctx, nil, "Add(3,4)") // 7
//	_ = eca.DoAction(ctx, nil, "Greet", "Bob") // Greet("Bob", 1)
//	ok, _ := eca.DoChecker(ctx, player, "IsAlive")
//
// Rules tie events to checkers and actions:
//
//	engine := eca.NewEngine(eca.DefaultInvoker())
//	engine.Load("rules.json")
//	engine.Fire(ctx, "damaged", player)
package eca

import (
	"context"
	"sync"
	"time"

	"gorm.io/gorm"

	"github.com/jdziat/simple-eca/pkg/coerce"
	"github.com/jdziat/simple-eca/pkg/core"
	"github.com/jdziat/simple-eca/pkg/invoke"
	"github.com/jdziat/simple-eca/pkg/registry"
	"github.com/jdziat/simple-eca/pkg/rule"
	"github.com/jdziat/simple-eca/pkg/schedule"
	"github.com/jdziat/simple-eca/pkg/security"
	"github.com/jdziat/simple-eca/pkg/storage"
)

// Type aliases
type (
	// Registry holds callables by key.
	Registry = registry.Registry

	// Entry is a registered callable.
	Entry = registry.Entry

	// RegistryOption configures a registered callable.
	RegistryOption = registry.Option

	// Invoker resolves keys and calls the callables.
	Invoker = invoke.Invoker

	// InvokeOption configures an Invoker.
	InvokeOption = invoke.Option

	// Param describes one positional parameter of a callable.
	Param = core.Param

	// Invocation describes one call, as seen by hooks.
	Invocation = core.Invocation

	// InvocationError reports a failure detected before a callable ran.
	InvocationError = core.InvocationError

	// CoercionError reports an input that could not become the parameter type.
	CoercionError = core.CoercionError

	// RuleError reports which rule step failed.
	RuleError = core.RuleError

	// Engine evaluates rules when events fire.
	Engine = rule.Engine

	// EngineOption configures an Engine.
	EngineOption = rule.Option

	// Rule binds an event to conditions and actions.
	Rule = rule.Rule

	// Step is one condition or action of a rule.
	Step = rule.Step

	// FireResult reports what happened when an event fired.
	FireResult = rule.FireResult

	// Event is the interface for all rule engine events.
	Event = core.Event

	// RuleMatched is emitted when every condition of a rule held.
	RuleMatched = core.RuleMatched

	// RuleSkipped is emitted when a condition of a rule returned false.
	RuleSkipped = core.RuleSkipped

	// RuleFailed is emitted when a step of a rule failed.
	RuleFailed = core.RuleFailed

	// RuleFired is emitted after all actions of a rule completed.
	RuleFired = core.RuleFired

	// Schedule determines when an event next fires.
	Schedule = schedule.Schedule

	// Scheduler fires events according to their schedules.
	Scheduler = schedule.Scheduler

	// GormStore stores rules using GORM.
	GormStore = storage.GormStore
)

// Security limits
const (
	MaxKeyLength     = security.MaxKeyLength
	MaxArguments     = security.MaxArguments
	MaxRulesPerEvent = security.MaxRulesPerEvent
)

// Error variables
var (
	ErrUnknownCallable      = core.ErrUnknownCallable
	ErrArityMismatch        = core.ErrArityMismatch
	ErrMissingDefault       = core.ErrMissingDefault
	ErrUnsupportedCoercion  = core.ErrUnsupportedCoercion
	ErrUnexpectedReturnType = core.ErrUnexpectedReturnType
	ErrInvalidOwner         = core.ErrInvalidOwner
	ErrNilArgument          = core.ErrNilArgument
	ErrInvalidKey           = core.ErrInvalidKey
	ErrKeyTooLong           = core.ErrKeyTooLong
	ErrDuplicateKey         = core.ErrDuplicateKey
	ErrInvalidRule          = core.ErrInvalidRule
)

var (
	defaultMu      sync.RWMutex
	defaultInvoker = invoke.New(registry.New())
)

// SetRegistry replaces the default invoker with one over reg.
func SetRegistry(reg *Registry, opts ...InvokeOption) {
	inv := invoke.New(reg, opts...)
	defaultMu.Lock()
	defaultInvoker = inv
	defaultMu.Unlock()
}

// DefaultInvoker returns the invoker used by the package-level functions.
func DefaultInvoker() *Invoker {
	defaultMu.RLock()
	defer defaultMu.RUnlock()
	return defaultInvoker
}

// Invoke calls the callable registered under key on the default invoker.
// With no args the key may carry its inputs inline, as in "Add(3,4)".
func Invoke(ctx context.Context, owner any, key string, args ...any) (any, error) {
	return DefaultInvoker().Invoke(ctx, owner, key, args...)
}

// DoAction invokes an action and discards its result.
func DoAction(ctx context.Context, owner any, key string, args ...any) error {
	return DefaultInvoker().Do(ctx, owner, key, args...)
}

// DoChecker invokes a checker, which must return a bool.
func DoChecker(ctx context.Context, owner any, key string, args ...any) (bool, error) {
	return DefaultInvoker().Check(ctx, owner, key, args...)
}

// Describe returns the description registered for key.
func Describe(key string) (string, bool) {
	return DefaultInvoker().Describe(key)
}

// NewRegistry creates an empty Registry.
func NewRegistry() *Registry {
	return registry.New()
}

// RegistryFromMap builds a Registry from free-standing functions.
func RegistryFromMap(fns map[string]any) (*Registry, error) {
	return registry.FromMap(fns)
}

// NewInvoker creates an Invoker over reg.
func NewInvoker(reg *Registry, opts ...InvokeOption) *Invoker {
	return invoke.New(reg, opts...)
}

// NewEngine creates a rule Engine that runs steps through inv.
func NewEngine(inv *Invoker, opts ...EngineOption) *Engine {
	return rule.NewEngine(inv, opts...)
}

// NewScheduler creates a Scheduler that fires events on engine.
func NewScheduler(engine *Engine, opts ...schedule.Option) *Scheduler {
	return schedule.New(engine, opts...)
}

// NewGormStore creates a GORM-backed rule store.
func NewGormStore(db *gorm.DB) *GormStore {
	return storage.NewGormStore(db)
}

// RegisterParser registers a text parser for T with the shared coercer.
// It affects every invoker that was not given its own coercer.
func RegisterParser[T any](fn func(string) (T, error)) {
	coerce.RegisterParser(coerce.Default, fn)
}

// ValidateKey validates a callable, rule or event name.
func ValidateKey(key string) error {
	return security.ValidateKey(key)
}

// Registry option functions

// Description attaches human-readable text to a callable.
func Description(text string) RegistryOption {
	return registry.Description(text)
}

// Defaults sets default values for the trailing parameters.
func Defaults(values ...any) RegistryOption {
	return registry.Defaults(values...)
}

// Invoker option functions

// Strict makes a nil input for a non-nillable parameter an error.
func Strict() InvokeOption {
	return invoke.Strict()
}

// Rule functions

// LoadRules reads a JSON rule set from path.
func LoadRules(path string) ([]Rule, error) {
	return rule.LoadFile(path)
}

// Schedule functions

// Every creates a schedule that runs at fixed intervals.
func Every(d time.Duration) Schedule {
	return schedule.Every(d)
}

// Daily creates a schedule that runs at a specific UTC time each day.
func Daily(hour, minute int) Schedule {
	return schedule.Daily(hour, minute)
}

// Weekly creates a schedule that runs at a specific UTC day and time each week.
func Weekly(day time.Weekday, hour, minute int) Schedule {
	return schedule.Weekly(day, hour, minute)
}

// Cron creates a schedule from a cron expression. It panics if expr is invalid.
func Cron(expr string) Schedule {
	return schedule.Cron(expr)
}
