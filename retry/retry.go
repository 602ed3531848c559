package retry

import (
	"errors"
	"fmt"
	"math/rand/v2"
	"strings"
	"time"
)

// Default retry configuration values.
const (
	DefaultMaxRetries   = 5
	DefaultInitialDelay = time.Second

	// maxJitter bounds the random delay added when jitter is enabled.
	maxJitter = 50 * time.Millisecond
)

// Policy configures bounded exponential backoff for one retried operation.
type Policy struct {
	// MaxRetries is the number of retries after the initial attempt.
	MaxRetries int

	// InitialDelay is the delay before the first retry. Subsequent delays
	// double per attempt.
	InitialDelay time.Duration

	// Jitter adds a small random delay to each backoff when true.
	Jitter bool
}

// DefaultPolicy returns the standard retry policy.
func DefaultPolicy() Policy {
	return Policy{
		MaxRetries:   DefaultMaxRetries,
		InitialDelay: DefaultInitialDelay,
		Jitter:       true,
	}
}

// applyDefaults sets default values for unset fields.
func (p *Policy) applyDefaults() {
	if p.MaxRetries == 0 {
		p.MaxRetries = DefaultMaxRetries
	}
	if p.InitialDelay == 0 {
		p.InitialDelay = DefaultInitialDelay
	}
}

// Delay computes the backoff delay for a 0-indexed attempt:
// InitialDelay doubled per attempt, plus jitter when enabled.
func Delay(p Policy, attempt int) time.Duration {
	p.applyDefaults()
	if attempt < 0 {
		attempt = 0
	}
	d := p.InitialDelay << uint(attempt)
	if p.Jitter {
		d += rand.N(maxJitter)
	}
	return d
}

// IsRetryableStatus reports whether an HTTP-style status code indicates a
// transient failure: 429 (rate limited) or any 5xx.
func IsRetryableStatus(code int) bool {
	return code == 429 || code >= 500
}

// statusCoder is implemented by errors carrying an HTTP-style status code.
type statusCoder interface {
	StatusCode() int
}

// transientPatterns match error text from transport layers that do not
// surface a status code.
var transientPatterns = []string{
	"429",
	"500",
	"503",
	"rate limit",
	"connection reset",
	"connection refused",
}

// IsRetryable classifies an error as transient. Abort errors are never
// retryable.
func IsRetryable(err error) bool {
	if err == nil {
		return false
	}
	if IsAbort(err) {
		return false
	}
	var sc statusCoder
	if errors.As(err, &sc) {
		return IsRetryableStatus(sc.StatusCode())
	}
	msg := strings.ToLower(err.Error())
	for _, pattern := range transientPatterns {
		if strings.Contains(msg, pattern) {
			return true
		}
	}
	return false
}

// ExhaustedError is returned by Do once all retries are spent. Its message
// is user-safe; the final underlying error remains available via Unwrap.
type ExhaustedError struct {
	// Attempts is the total number of attempts made.
	Attempts int

	// Err is the error from the final attempt.
	Err error
}

// Error returns a generic message that does not leak internal error text.
func (e *ExhaustedError) Error() string {
	return fmt.Sprintf("operation failed after %d attempts", e.Attempts)
}

// Unwrap returns the final attempt's error for inspection.
func (e *ExhaustedError) Unwrap() error {
	return e.Err
}
