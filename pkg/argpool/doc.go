// Package argpool provides a size-indexed pool of reflect.Value buffers
// used to assemble call vectors without allocating on every invocation.
//
// A buffer obtained from Get is owned by the caller until it is handed
// back with Put. Two invocations never share a buffer, so nested and
// concurrent invocations are safe.
package argpool
