// Package coerce converts invocation inputs into values of a parameter's type.
//
// Text is converted through, in order:
//   - parsers registered explicitly with Register or RegisterParser
//   - a fixed fast-path table for strings, booleans, integers, floats,
//     complex numbers, []byte, time.Duration and time.Time
//   - a per-Coercer cache of discovered parsers: types whose pointer
//     implements encoding.TextUnmarshaler, and named types over a basic
//     kind (type Level int)
//
// Discovery runs at most once per type. A type found to have no parser is
// cached as unsupported and fails with core.ErrUnsupportedCoercion on
// every later attempt without probing again.
package coerce
