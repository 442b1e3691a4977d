// Package invoke dispatches string keys to registered callables.
//
// Inputs are distributed over the callable's positional parameters:
//   - one input per parameter is passed through after coercion
//   - missing trailing inputs are filled from declared defaults
//   - surplus inputs, or a scalar where the last parameter is a slice,
//     are packed into the last (slice-typed) parameter
//
// When no explicit inputs are given the key itself may carry them:
//
//	inv.Invoke(ctx, nil, "Add(3,4)") // same as inv.Invoke(ctx, nil, "Add", "3", "4")
//
// Every invocation checks out its own argument buffers, so an Invoker may
// be used from many goroutines and callables may invoke other keys.
package invoke
