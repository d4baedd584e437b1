package guild

import (
	"errors"
	"fmt"
)

// ConfigError indicates the configured state admits no valid plan (for
// example more categories than letter boundaries, or an empty managed set).
// It is fatal for the current run; no mutation is attempted after one.
type ConfigError struct {
	// Reason describes the configuration problem.
	Reason string
}

// Error implements the error interface for ConfigError.
func (e *ConfigError) Error() string {
	return fmt.Sprintf("configuration error: %s", e.Reason)
}

// IsConfigError checks if an error is or wraps a ConfigError.
func IsConfigError(err error) bool {
	var configErr *ConfigError
	return errors.As(err, &configErr)
}

// APIError indicates a single remote call failed. Transient by default:
// the affected item is skipped or the mutation sequence halts with partial
// progress, and the next scheduled run converges from the new state.
type APIError struct {
	// Op is the remote operation that failed (e.g. "ModifyChannel").
	Op string

	// Status is the HTTP status code, 0 for transport-level failures.
	Status int

	// Err is the underlying cause.
	Err error
}

// Error implements the error interface for APIError.
func (e *APIError) Error() string {
	if e.Status != 0 {
		return fmt.Sprintf("%s: status %d: %v", e.Op, e.Status, e.Err)
	}
	return fmt.Sprintf("%s: %v", e.Op, e.Err)
}

// Unwrap returns the underlying cause for errors.Is/As chains.
func (e *APIError) Unwrap() error {
	return e.Err
}

// Permanent reports whether the failure is a client error that a retry or a
// later run cannot fix (4xx other than rate limiting).
func (e *APIError) Permanent() bool {
	return e.Status >= 400 && e.Status < 500 && e.Status != 429
}

// IsAPIError checks if an error is or wraps an APIError.
func IsAPIError(err error) bool {
	var apiErr *APIError
	return errors.As(err, &apiErr)
}

// DriftError indicates the observed snapshot contradicts an invariant the
// reconciliation algorithms depend on, such as duplicate guild positions.
type DriftError struct {
	// Detail describes the violated invariant.
	Detail string
}

// Error implements the error interface for DriftError.
func (e *DriftError) Error() string {
	return fmt.Sprintf("state drift: %s", e.Detail)
}

// IsDriftError checks if an error is or wraps a DriftError.
func IsDriftError(err error) bool {
	var driftErr *DriftError
	return errors.As(err, &driftErr)
}
