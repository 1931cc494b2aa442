package ai

import (
	"context"
	"errors"
	"fmt"
	"math"
	"net"
	"net/http"
	"time"

	resumeliftErrors "resumelift/internal/errors"
)

// maxBackoff caps the delay between retry attempts
const maxBackoff = 30 * time.Second

// executeWithRetry runs fn up to maxRetries+1 times with exponential backoff.
// Attempt 0 runs immediately; attempt n waits initialDelay * 2^(n-1), capped
// at maxBackoff. The wait is abandoned when the context is done.
func executeWithRetry[T any](
	ctx context.Context,
	logger *resumeliftErrors.Logger,
	provider, operation string,
	maxRetries int,
	initialDelay time.Duration,
	retryable func(error) bool,
	fn func() (T, error),
) (T, error) {
	var zero T
	var lastErr error

	for attempt := 0; attempt <= maxRetries; attempt++ {
		if attempt > 0 {
			logger.Warn("Retrying provider operation",
				"provider", provider,
				"operation", operation,
				"attempt", attempt,
				"max_retries", maxRetries,
				"error", lastErr.Error())

			backoff := min(
				time.Duration(float64(initialDelay)*math.Pow(2, float64(attempt-1))),
				maxBackoff,
			)

			select {
			case <-time.After(backoff):
			case <-ctx.Done():
				return zero, ctx.Err()
			}
		}

		result, err := fn()
		if err == nil {
			if attempt > 0 {
				logger.Info("Provider operation succeeded after retry",
					"provider", provider,
					"operation", operation,
					"successful_attempt", attempt+1)
			}
			return result, nil
		}

		lastErr = err

		if !retryable(err) {
			logger.Debug("Error is not retryable, stopping retry attempts",
				"provider", provider,
				"operation", operation,
				"error", err.Error())
			break
		}
	}

	logger.LogError(lastErr, "Provider operation failed after all retry attempts",
		"provider", provider,
		"operation", operation,
		"total_attempts", maxRetries+1)

	return zero, fmt.Errorf("%s %s failed after %d retries: %w", provider, operation, maxRetries, lastErr)
}

// isNetworkError reports whether err is a transient transport error
func isNetworkError(err error) bool {
	var netErr net.Error
	if errors.As(err, &netErr) {
		// Timeouts and connection failures are both worth retrying
		return true
	}
	return false
}

// isRetryableStatus reports whether an HTTP status from an upstream API
// should trigger a retry
func isRetryableStatus(code int) bool {
	switch code {
	case http.StatusTooManyRequests,
		http.StatusInternalServerError,
		http.StatusBadGateway,
		http.StatusServiceUnavailable,
		http.StatusGatewayTimeout:
		return true
	}
	return false
}
