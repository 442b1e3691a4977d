package coerce

import (
	"reflect"
	"strconv"
	"strings"
	"time"
)

// textParser converts text into a value of t.
type textParser func(text string, t reflect.Type) (reflect.Value, error)

// timeLayouts are tried in order when parsing time.Time.
var timeLayouts = []string{
	time.RFC3339Nano,
	time.RFC3339,
	time.DateTime,
	time.DateOnly,
}

var fastPath = map[reflect.Type]textParser{
	reflect.TypeFor[string]():        parseString,
	reflect.TypeFor[bool]():          parseBool,
	reflect.TypeFor[int]():           parseInt,
	reflect.TypeFor[int8]():          parseInt,
	reflect.TypeFor[int16]():         parseInt,
	reflect.TypeFor[int32]():         parseInt,
	reflect.TypeFor[int64]():         parseInt,
	reflect.TypeFor[uint]():          parseUint,
	reflect.TypeFor[uint8]():         parseUint,
	reflect.TypeFor[uint16]():        parseUint,
	reflect.TypeFor[uint32]():        parseUint,
	reflect.TypeFor[uint64]():        parseUint,
	reflect.TypeFor[uintptr]():       parseUint,
	reflect.TypeFor[float32]():       parseFloat,
	reflect.TypeFor[float64]():       parseFloat,
	reflect.TypeFor[complex64]():     parseComplex,
	reflect.TypeFor[complex128]():    parseComplex,
	reflect.TypeFor[[]byte]():        parseBytes,
	reflect.TypeFor[time.Duration](): parseDuration,
	reflect.TypeFor[time.Time]():     parseTime,
}

// kindParsers serve named types declared over a basic kind.
var kindParsers = map[reflect.Kind]textParser{
	reflect.String:     parseString,
	reflect.Bool:       parseBool,
	reflect.Int:        parseInt,
	reflect.Int8:       parseInt,
	reflect.Int16:      parseInt,
	reflect.Int32:      parseInt,
	reflect.Int64:      parseInt,
	reflect.Uint:       parseUint,
	reflect.Uint8:      parseUint,
	reflect.Uint16:     parseUint,
	reflect.Uint32:     parseUint,
	reflect.Uint64:     parseUint,
	reflect.Uintptr:    parseUint,
	reflect.Float32:    parseFloat,
	reflect.Float64:    parseFloat,
	reflect.Complex64:  parseComplex,
	reflect.Complex128: parseComplex,
}

func parseString(text string, t reflect.Type) (reflect.Value, error) {
	return reflect.ValueOf(text).Convert(t), nil
}

func parseBool(text string, t reflect.Type) (reflect.Value, error) {
	b, err := strconv.ParseBool(strings.TrimSpace(text))
	if err != nil {
		return reflect.Value{}, err
	}
	v := reflect.New(t).Elem()
	v.SetBool(b)
	return v, nil
}

func parseInt(text string, t reflect.Type) (reflect.Value, error) {
	n, err := strconv.ParseInt(strings.TrimSpace(text), 10, t.Bits())
	if err != nil {
		return reflect.Value{}, err
	}
	v := reflect.New(t).Elem()
	v.SetInt(n)
	return v, nil
}

func parseUint(text string, t reflect.Type) (reflect.Value, error) {
	n, err := strconv.ParseUint(strings.TrimSpace(text), 10, t.Bits())
	if err != nil {
		return reflect.Value{}, err
	}
	v := reflect.New(t).Elem()
	v.SetUint(n)
	return v, nil
}

func parseFloat(text string, t reflect.Type) (reflect.Value, error) {
	f, err := strconv.ParseFloat(strings.TrimSpace(text), t.Bits())
	if err != nil {
		return reflect.Value{}, err
	}
	v := reflect.New(t).Elem()
	v.SetFloat(f)
	return v, nil
}

func parseComplex(text string, t reflect.Type) (reflect.Value, error) {
	c, err := strconv.ParseComplex(strings.TrimSpace(text), t.Bits())
	if err != nil {
		return reflect.Value{}, err
	}
	v := reflect.New(t).Elem()
	v.SetComplex(c)
	return v, nil
}

func parseBytes(text string, t reflect.Type) (reflect.Value, error) {
	return reflect.ValueOf([]byte(text)), nil
}

func parseDuration(text string, t reflect.Type) (reflect.Value, error) {
	d, err := time.ParseDuration(strings.TrimSpace(text))
	if err != nil {
		return reflect.Value{}, err
	}
	return reflect.ValueOf(d), nil
}

func parseTime(text string, t reflect.Type) (reflect.Value, error) {
	text = strings.TrimSpace(text)
	var err error
	for _, layout := range timeLayouts {
		var ts time.Time
		if ts, err = time.Parse(layout, text); err == nil {
			return reflect.ValueOf(ts), nil
		}
	}
	return reflect.Value{}, err
}
