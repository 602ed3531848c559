// Package retry provides the shared backoff, jitter, and cancellation
// plumbing used by the tool-call scheduler's callers and the surrounding
// conversation loop.
//
// # Backoff
//
// [Delay] computes the delay for a 0-indexed attempt as InitialDelay
// doubled per attempt, with an optional random jitter of up to 50ms.
// [Do] wraps an operation in bounded exponential backoff on top of
// cenkalti/backoff, stopping immediately on non-retryable errors and
// returning a user-safe [ExhaustedError] once retries are spent.
//
// # Classification
//
// [IsRetryable] treats an HTTP-style status of 429 or >= 500, or error text
// matching known transient patterns (rate limiting, connection resets), as
// transient. Everything else, including cancellation, is permanent.
//
// # Cancellation
//
// Cancellation is a distinguished error kind, not a generic failure.
// [Abort] creates one, [IsAbort] recognizes both explicit aborts and
// canceled contexts, and [Check] converts an already-done context into an
// abort error. [Wait] is the cancellable delay primitive: it resolves after
// the delay or rejects as soon as the context is canceled, never leaking
// its timer.
package retry
