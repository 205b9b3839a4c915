// Package errors provides structured error types for the tangle library.
//
// Errors are categorized by Phase (where the error occurred) and Kind (error category).
// The Error type carries the endpoint path or mirror key involved, the offending
// value, and an optional cause chain.
//
// Use the Builder for structured error construction:
//
//	err := errors.New(errors.PhaseBind, errors.KindRepeatedTangle).
//		Path("example.com", "hello").
//		Value(v).
//		Detail("value already tangled at this endpoint").
//		Build()
//
// Or use convenience constructors for the common cases:
//
//	err := errors.InvalidArgument(errors.PhasePath, "expects a non-empty path")
//	err := errors.ForbiddenAssignment("on")
//	err := errors.RepeatedTangle([]string{"example.com", "hello"}, v)
//
// All errors implement the standard error interface and support errors.Is/As.
package errors
