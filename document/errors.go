package document

import (
	"errors"
	"fmt"
)

// Sentinel errors for error classification.
var (
	// ErrInvalidOperation indicates a malformed or out-of-bounds mutation
	// operation. These are expected, model-recoverable errors: the message
	// is the feedback loop for a model attempting self-correction.
	ErrInvalidOperation = errors.New("invalid document operation")

	// ErrNotRead indicates a mutation was attempted against a document that
	// was never registered as read.
	ErrNotRead = errors.New("document has not been read")

	// ErrStale indicates the document changed since it was last read.
	ErrStale = errors.New("document content is stale")
)

// OperationError reports a validation failure for one mutation operation,
// carrying its 1-based position and the collection key so the caller can
// surface it verbatim.
type OperationError struct {
	// Position is the 1-based index of the offending operation.
	Position int

	// Collection is the embedded collection key, if any.
	Collection string

	// Message describes the failure.
	Message string

	// Err is the underlying error, if any.
	Err error
}

// Error returns the failure message with positional context.
func (e *OperationError) Error() string {
	if e.Collection != "" {
		return fmt.Sprintf("operation %d on %q: %s", e.Position, e.Collection, e.Message)
	}
	return fmt.Sprintf("operation %d: %s", e.Position, e.Message)
}

// Unwrap returns the underlying error for use with errors.Is and errors.As.
func (e *OperationError) Unwrap() error {
	return e.Err
}

// Is reports whether this error matches the target.
// OperationError matches ErrInvalidOperation for sentinel-style checks.
func (e *OperationError) Is(target error) bool {
	return target == ErrInvalidOperation
}

// opError builds an OperationError with a formatted message.
func opError(pos int, collection, format string, args ...any) *OperationError {
	return &OperationError{
		Position:   pos,
		Collection: collection,
		Message:    fmt.Sprintf(format, args...),
	}
}

// NotReadError reports a mutation attempt against an unread document.
type NotReadError struct {
	Type string
	ID   string
}

// Error returns the failure message.
func (e *NotReadError) Error() string {
	return fmt.Sprintf("%s %q must be read before modification", e.Type, e.ID)
}

// Is reports whether this error matches ErrNotRead.
func (e *NotReadError) Is(target error) bool {
	return target == ErrNotRead
}

// StaleError reports that a document's content hash no longer matches the
// hash recorded when it was read.
type StaleError struct {
	Type    string
	ID      string
	Stored  string
	Current string
}

// Error returns the failure message with both hashes.
func (e *StaleError) Error() string {
	return fmt.Sprintf("%s %q was modified since last read (stored hash %s, current hash %s)",
		e.Type, e.ID, e.Stored, e.Current)
}

// Is reports whether this error matches ErrStale.
func (e *StaleError) Is(target error) bool {
	return target == ErrStale
}
