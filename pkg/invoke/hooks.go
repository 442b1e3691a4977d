package invoke

import (
	"context"

	"github.com/jdziat/simple-eca/pkg/core"
)

// OnInvokeStart registers a callback run before each invocation.
func (inv *Invoker) OnInvokeStart(fn func(context.Context, *core.Invocation)) {
	inv.mu.Lock()
	inv.onStart = append(inv.onStart, fn)
	inv.mu.Unlock()
}

// OnInvokeComplete registers a callback run after each successful invocation.
func (inv *Invoker) OnInvokeComplete(fn func(context.Context, *core.Invocation, any)) {
	inv.mu.Lock()
	inv.onComplete = append(inv.onComplete, fn)
	inv.mu.Unlock()
}

// OnInvokeFail registers a callback run after each failed invocation.
func (inv *Invoker) OnInvokeFail(fn func(context.Context, *core.Invocation, error)) {
	inv.mu.Lock()
	inv.onFail = append(inv.onFail, fn)
	inv.mu.Unlock()
}

func (inv *Invoker) hasHooks() bool {
	inv.mu.RLock()
	defer inv.mu.RUnlock()
	return len(inv.onStart)+len(inv.onComplete)+len(inv.onFail) > 0
}

func (inv *Invoker) callStartHooks(ctx context.Context, call *core.Invocation) {
	inv.mu.RLock()
	hooks := make([]func(context.Context, *core.Invocation), len(inv.onStart))
	copy(hooks, inv.onStart)
	inv.mu.RUnlock()

	for _, fn := range hooks {
		fn(ctx, call)
	}
}

func (inv *Invoker) callCompleteHooks(ctx context.Context, call *core.Invocation, result any) {
	inv.mu.RLock()
	hooks := make([]func(context.Context, *core.Invocation, any), len(inv.onComplete))
	copy(hooks, inv.onComplete)
	inv.mu.RUnlock()

	for _, fn := range hooks {
		fn(ctx, call, result)
	}
}

func (inv *Invoker) callFailHooks(ctx context.Context, call *core.Invocation, err error) {
	inv.mu.RLock()
	hooks := make([]func(context.Context, *core.Invocation, error), len(inv.onFail))
	copy(hooks, inv.onFail)
	inv.mu.RUnlock()

	for _, fn := range hooks {
		fn(ctx, call, err)
	}
}
