// Package security provides validation and hard limits for the eca packages.
package security

import (
	"regexp"

	"github.com/jdziat/simple-eca/pkg/core"
)

// Security limits and configuration
const (
	// MaxKeyLength is the maximum length for callable keys, rule names and event names
	MaxKeyLength = 255

	// MaxArguments is the hard limit for positional inputs to a single invocation.
	// Inputs packed into a trailing slice are not counted.
	MaxArguments = 255

	// DefaultPoolSize is the number of buffer sizes the argument pool prepares up front
	DefaultPoolSize = 20

	// MaxPooledPerSize bounds the idle buffers kept for one size
	MaxPooledPerSize = 64

	// MaxRuleFileSize is the maximum size in bytes for a rule file (1MB)
	MaxRuleFileSize = 1 << 20

	// MaxRulesPerEvent is the hard limit for rules bound to one event
	MaxRulesPerEvent = 1000
)

// validKey matches alphanumeric, hyphens, underscores, and dots
var validKey = regexp.MustCompile(`^[a-zA-Z_][a-zA-Z0-9_\-\.]*$`)

// ValidateKey validates a callable key, rule name or event name
func ValidateKey(key string) error {
	if key == "" {
		return core.ErrInvalidKey
	}
	if len(key) > MaxKeyLength {
		return core.ErrKeyTooLong
	}
	if !validKey.MatchString(key) {
		return core.ErrInvalidKey
	}
	return nil
}

// ClampPoolSize ensures a pool size is within [1, MaxArguments+1]
func ClampPoolSize(n int) int {
	if n < 1 {
		return 1
	}
	if n > MaxArguments+1 {
		return MaxArguments + 1
	}
	return n
}

// ClampPerSize ensures an idle buffer limit is within [0, MaxPooledPerSize]
func ClampPerSize(n int) int {
	if n < 0 {
		return 0
	}
	if n > MaxPooledPerSize {
		return MaxPooledPerSize
	}
	return n
}
