// Package keys parses and formats dispatch keys.
//
// A key is either a bare name or a name followed by a parenthesised,
// comma-separated argument list:
//
//	Heal
//	Heal(10,true)
//
// There is no quoting or escaping: a comma or parenthesis inside an
// argument breaks the split. Argument text is returned exactly as written.
package keys
