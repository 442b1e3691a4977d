package core

import (
	"reflect"
	"time"
)

// Param describes one positional parameter of a registered callable.
type Param struct {
	Index      int
	Type       reflect.Type
	Default    any
	HasDefault bool
	// Trailing marks the last positional parameter.
	Trailing bool
}

// IsSlice reports whether the parameter can absorb packed trailing inputs.
func (p Param) IsSlice() bool {
	return p.Type.Kind() == reflect.Slice
}

// Invocation describes a single dispatch, as seen by hooks.
type Invocation struct {
	ID        string
	Key       string
	Args      []any
	Owner     any
	StartedAt time.Time
}
