// Package handler provides reflection-based callable execution for the eca packages.
package handler

import (
	"context"
	"fmt"
	"reflect"

	"github.com/jdziat/simple-eca/pkg/core"
)

var (
	contextType = reflect.TypeFor[context.Context]()
	errorType   = reflect.TypeFor[error]()
)

// Results describes what a callable returns.
type Results int

const (
	// NoResult: func(...)
	NoResult Results = iota
	// ValueOnly: func(...) T
	ValueOnly
	// ErrorOnly: func(...) error
	ErrorOnly
	// ValueAndError: func(...) (T, error)
	ValueAndError
)

// Handler holds metadata about a registered callable.
type Handler struct {
	Fn reflect.Value
	// Owner is the receiver type of an instance-bound callable, nil otherwise.
	Owner      reflect.Type
	HasContext bool
	Variadic   bool
	Results    Results
}

// NewHandler creates a Handler from a function.
// When bound is true the first parameter receives the owner instance, as
// with a method expression such as (*Player).Heal.
func NewHandler(fn any, bound bool) (*Handler, error) {
	if fn == nil {
		return nil, fmt.Errorf("handler cannot be nil")
	}

	fnVal := reflect.ValueOf(fn)
	fnType := fnVal.Type()

	if fnType.Kind() != reflect.Func {
		return nil, fmt.Errorf("handler must be a function")
	}

	// Check for typed nil (e.g., var fn func() = nil)
	if fnVal.IsNil() {
		return nil, fmt.Errorf("handler function cannot be nil")
	}

	h := &Handler{Fn: fnVal, Variadic: fnType.IsVariadic()}

	next := 0
	if bound {
		if fnType.NumIn() < 1 {
			return nil, fmt.Errorf("bound handler must take the owner as its first argument")
		}
		h.Owner = fnType.In(0)
		next = 1
	}

	if next < fnType.NumIn() && fnType.In(next) == contextType {
		h.HasContext = true
	}

	// Validate return type - allow nothing, T, error or (T, error)
	switch fnType.NumOut() {
	case 0:
		h.Results = NoResult
	case 1:
		if fnType.Out(0) == errorType {
			h.Results = ErrorOnly
		} else {
			h.Results = ValueOnly
		}
	case 2:
		if fnType.Out(1) != errorType {
			return nil, fmt.Errorf("handler must return (T, error)")
		}
		h.Results = ValueAndError
	default:
		return nil, fmt.Errorf("handler must return at most (T, error)")
	}

	return h, nil
}

// Lead is the number of leading arguments filled by Bind rather than by
// the caller: the owner and the context.
func (h *Handler) Lead() int {
	n := 0
	if h.Owner != nil {
		n++
	}
	if h.HasContext {
		n++
	}
	return n
}

// In returns the types of the positional parameters.
func (h *Handler) In() []reflect.Type {
	fnType := h.Fn.Type()
	lead := h.Lead()
	in := make([]reflect.Type, 0, fnType.NumIn()-lead)
	for i := lead; i < fnType.NumIn(); i++ {
		in = append(in, fnType.In(i))
	}
	return in
}

// Bind fills the leading slots of args with the owner and the context.
// args must be Lead() slots longer than the positional arguments.
func (h *Handler) Bind(ctx context.Context, owner any, args []reflect.Value) error {
	i := 0
	if h.Owner != nil {
		if owner == nil {
			return core.ErrInvalidOwner
		}
		ov := reflect.ValueOf(owner)
		if !ov.Type().AssignableTo(h.Owner) {
			return fmt.Errorf("%w: have %v, want %v", core.ErrInvalidOwner, ov.Type(), h.Owner)
		}
		args[i] = ov
		i++
	}
	if h.HasContext {
		if ctx == nil {
			ctx = context.Background()
		}
		args[i] = reflect.ValueOf(ctx)
	}
	return nil
}

// Invoke runs the handler with fully bound arguments.
// Errors returned by the function are passed through unchanged.
func (h *Handler) Invoke(args []reflect.Value) (any, error) {
	if !h.Fn.IsValid() || h.Fn.IsNil() {
		return nil, fmt.Errorf("handler function is nil or invalid")
	}

	var results []reflect.Value
	if h.Variadic {
		results = h.Fn.CallSlice(args)
	} else {
		results = h.Fn.Call(args)
	}

	switch h.Results {
	case ValueOnly:
		return results[0].Interface(), nil
	case ErrorOnly:
		if !results[0].IsNil() {
			return nil, results[0].Interface().(error)
		}
	case ValueAndError:
		if !results[1].IsNil() {
			return nil, results[1].Interface().(error)
		}
		return results[0].Interface(), nil
	}
	return nil, nil
}
