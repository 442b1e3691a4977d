package invoke

import (
	"log/slog"

	"github.com/jdziat/simple-eca/pkg/argpool"
	"github.com/jdziat/simple-eca/pkg/coerce"
)

// Option configures an Invoker.
type Option interface {
	Apply(*Invoker)
}

type optionFunc func(*Invoker)

func (f optionFunc) Apply(inv *Invoker) { f(inv) }

// WithCoercer sets the Coercer used for inputs and text defaults.
// Defaults to coerce.Default.
func WithCoercer(c *coerce.Coercer) Option {
	return optionFunc(func(inv *Invoker) {
		inv.coercer = c
	})
}

// WithPool sets the argument buffer pool.
func WithPool(p *argpool.Pool) Option {
	return optionFunc(func(inv *Invoker) {
		inv.pool = p
	})
}

// WithLogger sets the logger for the invoker.
func WithLogger(logger *slog.Logger) Option {
	return optionFunc(func(inv *Invoker) {
		inv.logger = logger
	})
}

// Strict makes a nil input for a parameter that cannot hold nil fail with
// core.ErrNilArgument instead of becoming the zero value.
func Strict() Option {
	return optionFunc(func(inv *Invoker) {
		inv.strict = true
	})
}
