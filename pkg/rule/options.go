package rule

import "log/slog"

// Option configures an Engine.
type Option interface {
	Apply(*Engine)
}

type optionFunc func(*Engine)

func (f optionFunc) Apply(e *Engine) { f(e) }

// WithLogger sets the logger for the engine.
func WithLogger(logger *slog.Logger) Option {
	return optionFunc(func(e *Engine) {
		e.logger = logger
	})
}
