// Package signature builds and caches the positional parameter descriptors
// of registered callables.
package signature

import (
	"fmt"
	"reflect"
	"sync"

	"github.com/jdziat/simple-eca/pkg/coerce"
	"github.com/jdziat/simple-eca/pkg/core"
	"github.com/jdziat/simple-eca/pkg/internal/handler"
)

// Definition is what the cache needs to know about a registered callable.
type Definition struct {
	Handler  *handler.Handler
	Defaults []any
}

// Source resolves keys to definitions. The registry implements it.
type Source interface {
	Definition(key string) (Definition, bool)
}

// Signature is the cached view of one callable.
type Signature struct {
	Key     string
	Handler *handler.Handler
	Params  []core.Param
}

// Last returns the trailing parameter, if the callable has any.
func (s *Signature) Last() (core.Param, bool) {
	if len(s.Params) == 0 {
		return core.Param{}, false
	}
	return s.Params[len(s.Params)-1], true
}

// CheckDefaults reports defaults that can never fit h: more defaults
// than parameters, or a non-text value of an incompatible type. Text
// defaults are parsed later by the coercer of the invoker that uses them.
func CheckDefaults(h *handler.Handler, defaults []any) error {
	in := h.In()
	if len(defaults) > len(in) {
		return fmt.Errorf("%d defaults for %d parameters", len(defaults), len(in))
	}

	first := len(in) - len(defaults)
	for i, d := range defaults {
		if d == nil {
			continue
		}
		t := in[first+i]
		dt := reflect.TypeOf(d)
		if dt.Kind() == reflect.String || dt.AssignableTo(t) || dt.ConvertibleTo(t) {
			continue
		}
		if (dt.Kind() == reflect.Slice || dt.Kind() == reflect.Array) && t.Kind() == reflect.Slice {
			continue
		}
		return fmt.Errorf("default for parameter %d: %v does not fit %v", first+i, dt, t)
	}
	return nil
}

// Introspect builds the signature of h. defaults apply to the last
// len(defaults) positional parameters and are converted to each
// parameter's type with c. A Go variadic parameter without an explicit
// default defaults to a nil slice.
func Introspect(key string, h *handler.Handler, defaults []any, c *coerce.Coercer) (*Signature, error) {
	if err := CheckDefaults(h, defaults); err != nil {
		return nil, err
	}
	if c == nil {
		c = coerce.Default
	}

	in := h.In()
	params := make([]core.Param, len(in))
	first := len(in) - len(defaults)
	for i, t := range in {
		p := core.Param{Index: i, Type: t, Trailing: i == len(in)-1}

		if i >= first {
			v, err := c.Coerce(defaults[i-first], t)
			if err != nil {
				return nil, fmt.Errorf("default for parameter %d: %w", i, err)
			}
			p.Default = v.Interface()
			p.HasDefault = true
		} else if p.Trailing && h.Variadic {
			p.HasDefault = true
		}

		params[i] = p
	}

	return &Signature{Key: key, Handler: h, Params: params}, nil
}

// Cache memoizes signatures by key. Entries are never invalidated: the
// source must not rebind a key once it has been resolved.
type Cache struct {
	src     Source
	coercer *coerce.Coercer
	mu      sync.RWMutex
	sigs    map[string]*Signature
}

// NewCache creates an empty cache over src. Text defaults are parsed
// with c, or coerce.Default when c is nil.
func NewCache(src Source, c *coerce.Coercer) *Cache {
	return &Cache{src: src, coercer: c, sigs: make(map[string]*Signature)}
}

// For returns the signature registered under key.
func (c *Cache) For(key string) (*Signature, error) {
	c.mu.RLock()
	sig, ok := c.sigs[key]
	c.mu.RUnlock()
	if ok {
		return sig, nil
	}

	def, ok := c.src.Definition(key)
	if !ok {
		return nil, core.ErrUnknownCallable
	}

	sig, err := Introspect(key, def.Handler, def.Defaults, c.coercer)
	if err != nil {
		return nil, err
	}

	c.mu.Lock()
	defer c.mu.Unlock()
	// Keep the first stored signature if another goroutine won the race.
	if existing, ok := c.sigs[key]; ok {
		return existing, nil
	}
	c.sigs[key] = sig
	return sig, nil
}

// Len reports how many signatures are cached.
func (c *Cache) Len() int {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return len(c.sigs)
}
