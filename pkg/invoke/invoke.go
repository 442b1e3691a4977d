package invoke

import (
	"context"
	"fmt"
	"log/slog"
	"reflect"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/jdziat/simple-eca/pkg/argpool"
	"github.com/jdziat/simple-eca/pkg/coerce"
	"github.com/jdziat/simple-eca/pkg/core"
	"github.com/jdziat/simple-eca/pkg/keys"
	"github.com/jdziat/simple-eca/pkg/registry"
	"github.com/jdziat/simple-eca/pkg/security"
	"github.com/jdziat/simple-eca/pkg/signature"
)

// Invoker resolves keys against a registry and calls the callables.
type Invoker struct {
	registry *registry.Registry
	sigs     *signature.Cache
	coercer  *coerce.Coercer
	pool     *argpool.Pool
	logger   *slog.Logger
	strict   bool

	// Hooks
	mu         sync.RWMutex
	onStart    []func(context.Context, *core.Invocation)
	onComplete []func(context.Context, *core.Invocation, any)
	onFail     []func(context.Context, *core.Invocation, error)
}

// New creates an Invoker over reg.
func New(reg *registry.Registry, opts ...Option) *Invoker {
	inv := &Invoker{
		registry: reg,
		coercer:  coerce.Default,
		logger:   slog.Default(),
	}
	for _, opt := range opts {
		opt.Apply(inv)
	}
	inv.sigs = signature.NewCache(reg, inv.coercer)
	if inv.pool == nil {
		inv.pool = argpool.New(security.DefaultPoolSize, security.MaxPooledPerSize)
	}
	return inv
}

// Registry returns the registry the invoker dispatches to.
func (inv *Invoker) Registry() *registry.Registry {
	return inv.registry
}

// Invoke calls the callable registered under key and returns its result.
//
// When args is empty the key may carry the inputs inline, as in
// "Add(3,4)". owner is passed to instance-bound callables and ignored
// otherwise; ctx is passed to callables that declare a leading
// context.Context.
//
// Failures detected before the call are returned as *core.InvocationError.
// Errors returned by the callable are returned unchanged.
func (inv *Invoker) Invoke(ctx context.Context, owner any, key string, args ...any) (any, error) {
	if len(args) == 0 {
		name, text, _ := keys.Parse(key)
		key, args = name, keys.Args(text)
	}

	if !inv.hasHooks() {
		return inv.call(ctx, owner, key, args)
	}

	call := &core.Invocation{
		ID:        uuid.New().String(),
		Key:       key,
		Args:      args,
		Owner:     owner,
		StartedAt: time.Now(),
	}
	inv.callStartHooks(ctx, call)

	result, err := inv.call(ctx, owner, key, args)
	if err != nil {
		inv.callFailHooks(ctx, call, err)
		return nil, err
	}
	inv.callCompleteHooks(ctx, call, result)
	return result, nil
}

// Check invokes a checker: a callable whose result must be a bool.
func (inv *Invoker) Check(ctx context.Context, owner any, key string, args ...any) (bool, error) {
	result, err := inv.Invoke(ctx, owner, key, args...)
	if err != nil {
		return false, err
	}

	v := reflect.ValueOf(result)
	if !v.IsValid() || v.Kind() != reflect.Bool {
		if len(args) == 0 {
			key, _, _ = keys.Parse(key)
		}
		return false, &core.InvocationError{
			Key: key,
			Err: fmt.Errorf("%w: got %T", core.ErrUnexpectedReturnType, result),
		}
	}
	return v.Bool(), nil
}

// Do invokes an action and discards its result.
func (inv *Invoker) Do(ctx context.Context, owner any, key string, args ...any) error {
	_, err := inv.Invoke(ctx, owner, key, args...)
	return err
}

// Describe returns the description registered for key.
func (inv *Invoker) Describe(key string) (string, bool) {
	return inv.registry.Describe(key)
}

func (inv *Invoker) call(ctx context.Context, owner any, key string, args []any) (any, error) {
	fail := func(err error) (any, error) {
		inv.logger.Debug("invocation rejected", "key", key, "error", err)
		return nil, &core.InvocationError{Key: key, Err: err}
	}

	sig, err := inv.sigs.For(key)
	if err != nil {
		return fail(err)
	}

	declared := len(sig.Params)
	inputs := len(args)
	overflow := inv.overflows(sig, args)
	last := declared - 1

	// Packed trailing inputs are not positional and do not count
	// toward the argument limit.
	positionals := inputs
	if overflow {
		if declared == 0 || !sig.Params[last].IsSlice() {
			return fail(fmt.Errorf("%w: %d inputs for %d parameters", core.ErrArityMismatch, inputs, declared))
		}
		positionals = last
	}
	if positionals > security.MaxArguments {
		return fail(fmt.Errorf("%w: %d inputs exceed limit of %d", core.ErrArityMismatch, positionals, security.MaxArguments))
	}

	scratch := inv.pool.Get(positionals)
	defer inv.pool.Put(scratch)

	for i := 0; i < positionals; i++ {
		v, err := inv.coerce(args[i], sig.Params[i].Type)
		if err != nil {
			return fail(fmt.Errorf("argument %d: %w", i, err))
		}
		scratch[i] = v
	}

	var packed reflect.Value
	if overflow {
		elem := sig.Params[last].Type.Elem()
		packed = reflect.MakeSlice(sig.Params[last].Type, inputs-last, inputs-last)
		for i := last; i < inputs; i++ {
			v, err := inv.coerce(args[i], elem)
			if err != nil {
				return fail(fmt.Errorf("argument %d: %w", i, err))
			}
			packed.Index(i - last).Set(v)
		}
	}

	lead := sig.Handler.Lead()
	vector := inv.pool.Get(lead + declared)
	defer inv.pool.Put(vector)
	positional := vector[lead:]

	switch {
	case overflow:
		copy(positional[:last], scratch)
		positional[last] = packed

	case inputs < declared:
		copy(positional, scratch)
		for i := inputs; i < declared; i++ {
			p := sig.Params[i]
			if !p.HasDefault {
				return fail(fmt.Errorf("%w: parameter %d of %d", core.ErrMissingDefault, i, declared))
			}
			positional[i] = defaultValue(p)
		}

	default:
		copy(positional, scratch)
	}

	if err := sig.Handler.Bind(ctx, owner, vector); err != nil {
		return fail(err)
	}

	inv.logger.Debug("invoking callable", "key", key, "inputs", inputs, "overflow", overflow)
	return sig.Handler.Invoke(vector)
}

// overflows reports whether trailing inputs must be packed into the last
// parameter: there are more inputs than parameters, or the counts match
// and a scalar input sits in a slice-typed last parameter.
func (inv *Invoker) overflows(sig *signature.Signature, args []any) bool {
	declared, inputs := len(sig.Params), len(args)
	if inputs > declared {
		return true
	}
	if inputs != declared || declared == 0 {
		return false
	}

	lastParam := sig.Params[declared-1]
	if !lastParam.IsSlice() {
		return false
	}

	lastInput := args[inputs-1]
	switch reflect.ValueOf(lastInput).Kind() {
	case reflect.Slice, reflect.Array:
		return false
	case reflect.String:
		// Text that parses into the whole slice type (e.g. []byte) is a
		// direct match, not a single packed element.
		return !inv.coercer.Accepts(lastParam.Type)
	}
	return true
}

func (inv *Invoker) coerce(in any, target reflect.Type) (reflect.Value, error) {
	if in == nil && inv.strict && !coerce.Nillable(target) {
		return reflect.Value{}, &core.CoercionError{Type: target, Input: in, Err: core.ErrNilArgument}
	}
	return inv.coercer.Coerce(in, target)
}

func defaultValue(p core.Param) reflect.Value {
	if p.Default == nil {
		return reflect.Zero(p.Type)
	}
	return reflect.ValueOf(p.Default)
}
