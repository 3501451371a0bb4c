// ABOUTME: Provider error taxonomy for language-model calls
// ABOUTME: Transient errors are retried, fatal errors are not
package llm

import (
	"context"
	"errors"
	"fmt"
	"net"
	"net/http"

	openai "github.com/sashabaranov/go-openai"
)

// ProviderTransientError is a retryable failure: timeouts, rate limits, 5xx,
// network errors and empty completions.
type ProviderTransientError struct {
	StatusCode int
	Attempts   int
	Err        error
}

func (e *ProviderTransientError) Error() string {
	if e.StatusCode != 0 {
		return fmt.Sprintf("transient provider error (status %d, %d attempts): %v", e.StatusCode, e.Attempts, e.Err)
	}
	return fmt.Sprintf("transient provider error (%d attempts): %v", e.Attempts, e.Err)
}

func (e *ProviderTransientError) Unwrap() error { return e.Err }

// ProviderFatalError is a non-retryable failure: bad credentials, malformed
// requests, or a cancelled caller.
type ProviderFatalError struct {
	StatusCode int
	Attempts   int
	Err        error
}

func (e *ProviderFatalError) Error() string {
	if e.StatusCode != 0 {
		return fmt.Sprintf("fatal provider error (status %d): %v", e.StatusCode, e.Err)
	}
	return fmt.Sprintf("fatal provider error: %v", e.Err)
}

func (e *ProviderFatalError) Unwrap() error { return e.Err }

// IsTransient reports whether err is (or wraps) a ProviderTransientError.
func IsTransient(err error) bool {
	var t *ProviderTransientError
	return errors.As(err, &t)
}

// IsFatal reports whether err is (or wraps) a ProviderFatalError.
func IsFatal(err error) bool {
	var f *ProviderFatalError
	return errors.As(err, &f)
}

// Classify wraps err in the matching provider error type. Errors that are
// already classified are returned unchanged.
func Classify(err error) error {
	if err == nil {
		return nil
	}
	if IsTransient(err) || IsFatal(err) {
		return err
	}

	if errors.Is(err, context.Canceled) {
		return &ProviderFatalError{Err: err}
	}
	if errors.Is(err, context.DeadlineExceeded) {
		return &ProviderTransientError{Err: err}
	}

	var apiErr *openai.APIError
	if errors.As(err, &apiErr) {
		return byStatus(apiErr.HTTPStatusCode, err)
	}
	var reqErr *openai.RequestError
	if errors.As(err, &reqErr) {
		return byStatus(reqErr.HTTPStatusCode, err)
	}

	var netErr net.Error
	if errors.As(err, &netErr) {
		return &ProviderTransientError{Err: err}
	}

	// Unknown failures get the bounded retry budget.
	return &ProviderTransientError{Err: err}
}

func byStatus(status int, err error) error {
	switch {
	case status == 0,
		status == http.StatusRequestTimeout,
		status == http.StatusConflict,
		status == http.StatusTooManyRequests,
		status >= 500:
		return &ProviderTransientError{StatusCode: status, Err: err}
	default:
		return &ProviderFatalError{StatusCode: status, Err: err}
	}
}
