// Package validation provides common validation utilities for configuration
// parameters across the firengo library.
//
// Every helper returns a *errors.ValidationError, which wraps
// errors.ErrInvalidConfiguration, so callers can match failures with
// errors.Is regardless of which field was rejected.
package validation
