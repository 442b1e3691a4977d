package coerce

import "reflect"

// Option configures a Coercer.
type Option interface {
	Apply(*Coercer)
}

type optionFunc func(*Coercer)

func (f optionFunc) Apply(c *Coercer) { f(c) }

// WithDiscoverHook registers fn to be called each time a type is examined for
// a text conversion. The hook runs while the cache is locked and must not
// call back into the Coercer. Accepts never calls it.
func WithDiscoverHook(fn func(reflect.Type)) Option {
	return optionFunc(func(c *Coercer) {
		c.onDiscover = fn
	})
}

// WithParser registers an explicit parser at construction time.
func WithParser(t reflect.Type, fn ParseFunc) Option {
	return optionFunc(func(c *Coercer) {
		c.Register(t, fn)
	})
}
