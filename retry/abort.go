package retry

import (
	"context"
	"errors"
)

// ErrAborted is the sentinel for cooperative cancellation. Abort errors are
// terminal: they are never retryable and must not be reported as generic
// failures to user-facing layers.
var ErrAborted = errors.New("operation aborted")

// AbortError represents a cooperative cancellation with an optional reason.
type AbortError struct {
	// Reason describes why the operation was aborted.
	Reason string
}

// Error returns the abort message, including the reason if present.
func (e *AbortError) Error() string {
	if e.Reason == "" {
		return "operation aborted"
	}
	return "operation aborted: " + e.Reason
}

// Is reports whether this error matches ErrAborted for sentinel checks.
func (e *AbortError) Is(target error) bool {
	return target == ErrAborted
}

// Abort creates an abort error with the given reason.
func Abort(reason string) error {
	return &AbortError{Reason: reason}
}

// IsAbort reports whether err represents cancellation, either an explicit
// abort error or a canceled context.
func IsAbort(err error) bool {
	return errors.Is(err, ErrAborted) || errors.Is(err, context.Canceled)
}

// Check returns an abort error if the context is already done, nil otherwise.
func Check(ctx context.Context) error {
	if err := ctx.Err(); err != nil {
		return &AbortError{Reason: err.Error()}
	}
	return nil
}
