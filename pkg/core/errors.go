package core

import (
	"errors"
	"fmt"
	"reflect"
)

// Dispatch errors
var (
	ErrUnknownCallable      = errors.New("eca: unknown callable")
	ErrArityMismatch        = errors.New("eca: argument count does not match callable")
	ErrMissingDefault       = errors.New("eca: missing argument has no default value")
	ErrUnsupportedCoercion  = errors.New("eca: no text conversion for target type")
	ErrUnexpectedReturnType = errors.New("eca: checker did not return bool")
	ErrInvalidOwner         = errors.New("eca: owner does not match method receiver")
	ErrNilArgument          = errors.New("eca: nil argument for non-nillable parameter")
)

// Validation errors
var (
	ErrInvalidKey   = errors.New("eca: invalid key (must be alphanumeric, start with letter or underscore)")
	ErrKeyTooLong   = errors.New("eca: key too long")
	ErrDuplicateKey = errors.New("eca: key already registered")
	ErrInvalidRule  = errors.New("eca: invalid rule")
)

// InvocationError reports a dispatch failure for a key.
// Errors returned by the invoked callable itself are never wrapped.
type InvocationError struct {
	Key string
	Err error
}

func (e *InvocationError) Error() string {
	return fmt.Sprintf("invoke %q: %v", e.Key, e.Err)
}

func (e *InvocationError) Unwrap() error {
	return e.Err
}

// CoercionError reports a failed conversion of an input to a parameter type.
type CoercionError struct {
	Type  reflect.Type
	Input any
	Err   error
}

func (e *CoercionError) Error() string {
	return fmt.Sprintf("coerce %#v to %v: %v", e.Input, e.Type, e.Err)
}

func (e *CoercionError) Unwrap() error {
	return e.Err
}

// RuleError reports which rule step failed while firing an event.
type RuleError struct {
	Rule string
	Key  string
	Err  error
}

func (e *RuleError) Error() string {
	if e.Key == "" {
		return fmt.Sprintf("rule %q: %v", e.Rule, e.Err)
	}
	return fmt.Sprintf("rule %q step %q: %v", e.Rule, e.Key, e.Err)
}

func (e *RuleError) Unwrap() error {
	return e.Err
}
