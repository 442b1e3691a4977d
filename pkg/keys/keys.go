package keys

import "strings"

// Parse splits input into a name and its inline arguments.
// ok is false when the input carries no argument list.
func Parse(input string) (name string, args []string, ok bool) {
	segments := strings.FieldsFunc(input, func(r rune) bool {
		return r == '(' || r == ')'
	})

	switch len(segments) {
	case 0:
		return "", nil, false
	case 1:
		return segments[0], nil, false
	default:
		return segments[0], strings.Split(segments[1], ","), true
	}
}

// Format builds the inline form of a key. It is the inverse of Parse
// for arguments that contain no commas or parentheses.
func Format(name string, args ...string) string {
	if len(args) == 0 {
		return name
	}
	return name + "(" + strings.Join(args, ",") + ")"
}

// Args converts parsed argument text into raw invocation inputs.
func Args(text []string) []any {
	if len(text) == 0 {
		return nil
	}
	out := make([]any, len(text))
	for i, s := range text {
		out[i] = s
	}
	return out
}
