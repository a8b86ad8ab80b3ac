// Package errors provides structured error types for better observability
// and programmatic error handling across the application.
//
// The header provider distinguishes four failure kinds:
//   - ErrCodeConfiguration: zero or more than one instrument bound at startup
//   - ErrCodeUnreachable: the instrument proxy could not be resolved or pinged
//   - ErrCodeTelemetryUnavailable: a single instrument attribute could not be read
//   - ErrCodeDispatch: no derivation registered for the bound instrument kind
//
// Example usage:
//
//	err := errors.WrapWithContext(
//	    errors.ErrCodeTelemetryUnavailable,
//	    "failed to read telescope altitude",
//	    cause,
//	    map[string]any{
//	        "location": "/Telescope/0",
//	        "member":   "getAlt",
//	    },
//	)
package errors
