package registry

import (
	"fmt"
	"slices"
	"sync"

	"github.com/jdziat/simple-eca/pkg/core"
	"github.com/jdziat/simple-eca/pkg/internal/handler"
	"github.com/jdziat/simple-eca/pkg/security"
	"github.com/jdziat/simple-eca/pkg/signature"
)

// Entry is a registered callable.
type Entry struct {
	Key         string
	Handler     *handler.Handler
	Defaults    []any
	Description string
}

// Bound reports whether the callable takes an owner instance.
func (e *Entry) Bound() bool {
	return e.Handler.Owner != nil
}

// Arity is the number of positional parameters.
func (e *Entry) Arity() int {
	return len(e.Handler.In())
}

// Registry holds callables by key. It is safe for concurrent use.
type Registry struct {
	mu      sync.RWMutex
	entries map[string]*Entry
}

// New creates an empty Registry.
func New() *Registry {
	return &Registry{entries: make(map[string]*Entry)}
}

// FromMap builds a Registry from free-standing functions.
func FromMap(fns map[string]any) (*Registry, error) {
	r := New()
	for key, fn := range fns {
		if err := r.Add(key, fn); err != nil {
			return nil, err
		}
	}
	return r, nil
}

// Register registers a free-standing callable.
// It panics if the key is invalid, already taken, or fn is not a usable
// function, matching how registration mistakes surface at startup.
func (r *Registry) Register(key string, fn any, opts ...Option) {
	if err := r.add(key, fn, false, opts); err != nil {
		panic(fmt.Sprintf("eca: register %q: %v", key, err))
	}
}

// RegisterMethod registers an instance-bound callable whose first
// parameter receives the owner passed to Invoke, e.g. (*Player).Heal.
func (r *Registry) RegisterMethod(key string, fn any, opts ...Option) {
	if err := r.add(key, fn, true, opts); err != nil {
		panic(fmt.Sprintf("eca: register %q: %v", key, err))
	}
}

// Add registers a free-standing callable and reports problems as errors.
func (r *Registry) Add(key string, fn any, opts ...Option) error {
	return r.add(key, fn, false, opts)
}

// AddMethod registers an instance-bound callable and reports problems as errors.
func (r *Registry) AddMethod(key string, fn any, opts ...Option) error {
	return r.add(key, fn, true, opts)
}

func (r *Registry) add(key string, fn any, bound bool, opts []Option) error {
	if err := security.ValidateKey(key); err != nil {
		return err
	}

	h, err := handler.NewHandler(fn, bound)
	if err != nil {
		return err
	}

	o := &Options{}
	for _, opt := range opts {
		opt.Apply(o)
	}

	// Fail at registration rather than on first invocation.
	if err := signature.CheckDefaults(h, o.Defaults); err != nil {
		return err
	}

	r.mu.Lock()
	defer r.mu.Unlock()
	if _, exists := r.entries[key]; exists {
		return core.ErrDuplicateKey
	}
	r.entries[key] = &Entry{
		Key:         key,
		Handler:     h,
		Defaults:    o.Defaults,
		Description: o.Description,
	}
	return nil
}

// Lookup returns the entry registered under key.
func (r *Registry) Lookup(key string) (*Entry, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	e, ok := r.entries[key]
	return e, ok
}

// Has checks if a key is registered.
func (r *Registry) Has(key string) bool {
	_, ok := r.Lookup(key)
	return ok
}

// Definition implements signature.Source.
func (r *Registry) Definition(key string) (signature.Definition, bool) {
	e, ok := r.Lookup(key)
	if !ok {
		return signature.Definition{}, false
	}
	return signature.Definition{Handler: e.Handler, Defaults: e.Defaults}, true
}

// Describe returns the description attached to key. ok is false when the
// key is unknown or has no description.
func (r *Registry) Describe(key string) (string, bool) {
	e, ok := r.Lookup(key)
	if !ok || e.Description == "" {
		return "", false
	}
	return e.Description, true
}

// Keys returns the registered keys in sorted order.
func (r *Registry) Keys() []string {
	r.mu.RLock()
	keys := make([]string, 0, len(r.entries))
	for k := range r.entries {
		keys = append(keys, k)
	}
	r.mu.RUnlock()
	slices.Sort(keys)
	return keys
}

// Len returns the number of registered callables.
func (r *Registry) Len() int {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return len(r.entries)
}
