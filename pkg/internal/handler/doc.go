// Package handler provides internal reflection-based callable execution.
//
// This package is internal and should not be imported directly.
// It provides:
//   - Handler: validated metadata about a registered function
//   - Owner and context.Context injection for leading parameters
//   - Result unpacking for (), (T), (error) and (T, error) signatures
package handler
