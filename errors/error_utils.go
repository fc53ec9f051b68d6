// Package errors provides coded errors and helpers for categorizing them.
package errors

import (
	"context"
	"errors"
)

// IsValueRangeError reports whether err stems from an amount falling outside the money range.
func IsValueRangeError(err error) bool {
	if err == nil {
		return false
	}

	var tErr *Error
	if As(err, &tErr) {
		return tErr.Code() == ERR_TX_VALUE_OUT_OF_RANGE
	}

	return false
}

// IsContextError determines if an error is related to context cancellation or deadline.
//
// Parameters:
//   - err: Error to check
//
// Returns:
//   - bool: true if error is context-related
func IsContextError(err error) bool {
	if err == nil {
		return false
	}

	if errors.Is(err, context.Canceled) || errors.Is(err, context.DeadlineExceeded) {
		return true
	}

	var tErr *Error
	if As(err, &tErr) {
		if tErr.Code() == ERR_CONTEXT_CANCELED {
			return true
		}
	}

	return false
}

// GetErrorCategory returns a string representing the category of the error.
// This is useful for logging and metrics labels.
//
// Parameters:
//   - err: Error to categorize
//
// Returns:
//   - string: Error category (e.g., "context", "block", "transaction", "stake", "unknown")
func GetErrorCategory(err error) string {
	if err == nil {
		return "none"
	}

	if IsContextError(err) {
		return "context"
	}

	var tErr *Error
	if As(err, &tErr) {
		code := tErr.Code()

		switch {
		case code >= 10 && code <= 19:
			return "block"
		case code >= 30 && code <= 49:
			return "transaction"
		case code >= 50 && code <= 59:
			return "stake"
		case code >= 60 && code <= 69:
			return "storage"
		case code >= 70 && code <= 79:
			return "key"
		}
	}

	return "unknown"
}
