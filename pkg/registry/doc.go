// Package registry maps dispatch keys to registered callables.
//
// A callable is any Go function. Its positional parameters receive the
// invocation inputs; optional leading parameters receive the owner
// instance (RegisterMethod) and a context.Context.
//
//	reg := registry.New()
//	reg.Register("Add", func(a, b int) int { return a + b })
//	reg.Register("Greet", greet, registry.Defaults(1), registry.Description("says hello"))
//	reg.RegisterMethod("Heal", (*Player).Heal)
//
// Keys must be alphanumeric (starting with a letter or underscore) and may
// not be registered twice.
package registry
