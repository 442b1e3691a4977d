package coerce

import (
	"encoding"
	"fmt"
	"reflect"
	"strconv"
	"sync"

	"github.com/jdziat/simple-eca/pkg/core"
)

var textUnmarshalerType = reflect.TypeFor[encoding.TextUnmarshaler]()

// ParseFunc converts text into a value. The returned value must be
// assignable or convertible to the type it was registered for.
type ParseFunc func(text string) (any, error)

// Coercer converts raw inputs into parameter values.
// It is safe for concurrent use.
type Coercer struct {
	mu         sync.RWMutex
	custom     map[reflect.Type]textParser
	cache      map[reflect.Type]textParser // nil entry: unsupported
	onDiscover func(reflect.Type)
}

// Default is the process-wide Coercer used when none is configured.
var Default = New()

// New creates a Coercer with an empty discovery cache.
func New(opts ...Option) *Coercer {
	c := &Coercer{
		custom: make(map[reflect.Type]textParser),
		cache:  make(map[reflect.Type]textParser),
	}
	for _, opt := range opts {
		opt.Apply(c)
	}
	return c
}

// Register installs an explicit parser for t. Registered parsers take
// precedence over the fast-path table and discovery.
func (c *Coercer) Register(t reflect.Type, fn ParseFunc) {
	if t == nil || fn == nil {
		panic("coerce: Register requires a type and a parse function")
	}
	c.mu.Lock()
	defer c.mu.Unlock()
	c.custom[t] = func(text string, t reflect.Type) (reflect.Value, error) {
		out, err := fn(text)
		if err != nil {
			return reflect.Value{}, err
		}
		v := reflect.ValueOf(out)
		switch {
		case !v.IsValid():
			return reflect.Zero(t), nil
		case v.Type().AssignableTo(t):
			return v, nil
		case v.Type().ConvertibleTo(t):
			return v.Convert(t), nil
		}
		return reflect.Value{}, fmt.Errorf("parser returned %v", v.Type())
	}
}

// RegisterParser installs a typed parser for T on c.
func RegisterParser[T any](c *Coercer, fn func(string) (T, error)) {
	c.Register(reflect.TypeFor[T](), func(text string) (any, error) {
		return fn(text)
	})
}

// Coerce converts input into a value of target.
//
// nil becomes the zero value of target. Values already assignable to
// target are returned unchanged. Strings are parsed with Text, numbers are
// converted between numeric kinds when no precision is lost, and slices
// are converted element by element.
func (c *Coercer) Coerce(input any, target reflect.Type) (reflect.Value, error) {
	if input == nil {
		return reflect.Zero(target), nil
	}

	v := reflect.ValueOf(input)
	if v.Type().AssignableTo(target) {
		return v, nil
	}

	switch {
	case v.Kind() == reflect.String:
		return c.Text(v.String(), target)
	case isNumber(v.Kind()) && isNumber(target.Kind()):
		return convertNumber(v, target)
	case (v.Kind() == reflect.Slice || v.Kind() == reflect.Array) && target.Kind() == reflect.Slice:
		return c.coerceSlice(v, target)
	}

	return reflect.Value{}, &core.CoercionError{Type: target, Input: input, Err: core.ErrUnsupportedCoercion}
}

// Text parses text into a value of target.
func (c *Coercer) Text(text string, target reflect.Type) (reflect.Value, error) {
	parse, err := c.resolve(target)
	if err != nil {
		return reflect.Value{}, &core.CoercionError{Type: target, Input: text, Err: err}
	}

	v, err := parse(text, target)
	if err != nil {
		return reflect.Value{}, &core.CoercionError{Type: target, Input: text, Err: err}
	}
	return v, nil
}

// Supports reports whether text can be converted to t, resolving and
// caching t if it has not been seen before.
func (c *Coercer) Supports(t reflect.Type) bool {
	_, err := c.resolve(t)
	return err == nil
}

// Accepts reports whether text can be converted to t without resolving
// it: nothing is cached and the discover hook is not called.
func (c *Coercer) Accepts(t reflect.Type) bool {
	c.mu.RLock()
	_, custom := c.custom[t]
	cached, seen := c.cache[t]
	c.mu.RUnlock()

	switch {
	case custom:
		return true
	case fastPath[t] != nil:
		return true
	case seen:
		return cached != nil
	}
	return discover(t) != nil
}

func (c *Coercer) resolve(t reflect.Type) (textParser, error) {
	c.mu.RLock()
	parse, custom := c.custom[t]
	cached, seen := c.cache[t]
	c.mu.RUnlock()

	if custom {
		return parse, nil
	}
	if parse, ok := fastPath[t]; ok {
		return parse, nil
	}
	if seen {
		return resolved(cached)
	}

	c.mu.Lock()
	defer c.mu.Unlock()

	// Another goroutine may have resolved t while we waited.
	if cached, seen := c.cache[t]; seen {
		return resolved(cached)
	}

	if c.onDiscover != nil {
		c.onDiscover(t)
	}
	parse = discover(t)
	c.cache[t] = parse
	return resolved(parse)
}

func resolved(parse textParser) (textParser, error) {
	if parse == nil {
		return nil, core.ErrUnsupportedCoercion
	}
	return parse, nil
}

// discover looks for a text conversion on t. It returns nil when t has none.
func discover(t reflect.Type) textParser {
	if reflect.PointerTo(t).Implements(textUnmarshalerType) {
		return func(text string, t reflect.Type) (reflect.Value, error) {
			ptr := reflect.New(t)
			if err := ptr.Interface().(encoding.TextUnmarshaler).UnmarshalText([]byte(text)); err != nil {
				return reflect.Value{}, err
			}
			return ptr.Elem(), nil
		}
	}

	if t.Kind() == reflect.Pointer && t.Implements(textUnmarshalerType) {
		return func(text string, t reflect.Type) (reflect.Value, error) {
			ptr := reflect.New(t.Elem())
			if err := ptr.Interface().(encoding.TextUnmarshaler).UnmarshalText([]byte(text)); err != nil {
				return reflect.Value{}, err
			}
			return ptr, nil
		}
	}

	return kindParsers[t.Kind()]
}

func (c *Coercer) coerceSlice(v reflect.Value, target reflect.Type) (reflect.Value, error) {
	out := reflect.MakeSlice(target, v.Len(), v.Len())
	for i := 0; i < v.Len(); i++ {
		elem, err := c.Coerce(v.Index(i).Interface(), target.Elem())
		if err != nil {
			return reflect.Value{}, err
		}
		out.Index(i).Set(elem)
	}
	return out, nil
}

// Nillable reports whether nil is a valid value of t.
func Nillable(t reflect.Type) bool {
	switch t.Kind() {
	case reflect.Pointer, reflect.Interface, reflect.Slice, reflect.Map, reflect.Func, reflect.Chan, reflect.UnsafePointer:
		return true
	}
	return false
}

func isNumber(k reflect.Kind) bool {
	return isInt(k) || isUint(k) || isFloat(k)
}

func isInt(k reflect.Kind) bool {
	return k >= reflect.Int && k <= reflect.Int64
}

func isUint(k reflect.Kind) bool {
	return k >= reflect.Uint && k <= reflect.Uintptr
}

func isFloat(k reflect.Kind) bool {
	return k == reflect.Float32 || k == reflect.Float64
}

// convertNumber converts between numeric kinds, refusing conversions that
// would truncate a fraction or overflow the target.
func convertNumber(v reflect.Value, target reflect.Type) (reflect.Value, error) {
	fail := func(err error) (reflect.Value, error) {
		return reflect.Value{}, &core.CoercionError{Type: target, Input: v.Interface(), Err: err}
	}
	out := reflect.New(target).Elem()

	switch {
	case isFloat(target.Kind()):
		var f float64
		switch {
		case isInt(v.Kind()):
			f = float64(v.Int())
		case isUint(v.Kind()):
			f = float64(v.Uint())
		default:
			f = v.Float()
		}
		if out.OverflowFloat(f) {
			return fail(strconv.ErrRange)
		}
		out.SetFloat(f)

	case isFloat(v.Kind()):
		return fail(core.ErrUnsupportedCoercion)

	case isInt(target.Kind()):
		var n int64
		if isUint(v.Kind()) {
			u := v.Uint()
			if u > 1<<63-1 {
				return fail(strconv.ErrRange)
			}
			n = int64(u)
		} else {
			n = v.Int()
		}
		if out.OverflowInt(n) {
			return fail(strconv.ErrRange)
		}
		out.SetInt(n)

	default:
		var u uint64
		if isInt(v.Kind()) {
			n := v.Int()
			if n < 0 {
				return fail(strconv.ErrRange)
			}
			u = uint64(n)
		} else {
			u = v.Uint()
		}
		if out.OverflowUint(u) {
			return fail(strconv.ErrRange)
		}
		out.SetUint(u)
	}
	return out, nil
}
