package registry

// Options holds configuration for a registered callable.
type Options struct {
	Description string
	Defaults    []any
}

// Option modifies Options.
type Option interface {
	Apply(*Options)
}

type optionFunc func(*Options)

func (f optionFunc) Apply(o *Options) { f(o) }

// Description attaches human-readable text to the callable.
func Description(text string) Option {
	return optionFunc(func(o *Options) {
		o.Description = text
	})
}

// Defaults sets default values for the trailing parameters: the last
// value belongs to the last parameter, the one before it to the
// parameter before that, and so on.
func Defaults(values ...any) Option {
	return optionFunc(func(o *Options) {
		o.Defaults = values
	})
}
