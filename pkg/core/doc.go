// Package core provides the fundamental types shared by the eca packages.
//
// This package contains:
//   - Param descriptors describing a callable's positional parameters
//   - Invocation metadata passed to hooks
//   - Event types for rule engine monitoring
//   - Error sentinels and error types for dispatch failures
//
// Most users should import the root package github.com/jdziat/simple-eca
// instead of this package directly.
package core
