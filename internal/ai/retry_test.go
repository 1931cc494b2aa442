package ai

import (
	"context"
	"errors"
	"net/http"
	"testing"
	"time"
)

func alwaysRetryable(error) bool { return true }

func TestExecuteWithRetrySucceedsFirstTry(t *testing.T) {
	calls := 0
	result, err := executeWithRetry(context.Background(), testLogger(t), "gemini", "optimize",
		3, time.Millisecond, alwaysRetryable,
		func() (string, error) {
			calls++
			return "ok", nil
		})
	if err != nil {
		t.Fatal(err)
	}
	if result != "ok" || calls != 1 {
		t.Errorf("Expected one successful call, got result=%q calls=%d", result, calls)
	}
}

func TestExecuteWithRetryEventualSuccess(t *testing.T) {
	calls := 0
	result, err := executeWithRetry(context.Background(), testLogger(t), "openai", "optimize",
		3, time.Millisecond, alwaysRetryable,
		func() (string, error) {
			calls++
			if calls < 3 {
				return "", errors.New("transient")
			}
			return "ok", nil
		})
	if err != nil {
		t.Fatal(err)
	}
	if result != "ok" {
		t.Errorf("Expected 'ok', got %q", result)
	}
	if calls != 3 {
		t.Errorf("Expected 3 calls, got %d", calls)
	}
}

func TestExecuteWithRetryStopsOnNonRetryable(t *testing.T) {
	calls := 0
	_, err := executeWithRetry(context.Background(), testLogger(t), "claude", "optimize",
		3, time.Millisecond, func(error) bool { return false },
		func() (string, error) {
			calls++
			return "", errors.New("bad credentials")
		})
	if err == nil {
		t.Fatal("Expected an error")
	}
	if calls != 1 {
		t.Errorf("Non-retryable error must stop after 1 call, got %d", calls)
	}
}

func TestExecuteWithRetryExhaustsAttempts(t *testing.T) {
	calls := 0
	permanent := errors.New("still broken")
	_, err := executeWithRetry(context.Background(), testLogger(t), "gemini", "optimize",
		2, time.Millisecond, alwaysRetryable,
		func() (string, error) {
			calls++
			return "", permanent
		})
	if err == nil {
		t.Fatal("Expected an error after exhausting retries")
	}
	if calls != 3 {
		t.Errorf("Expected maxRetries+1 = 3 calls, got %d", calls)
	}
	if !errors.Is(err, permanent) {
		t.Error("Expected the final error to wrap the last failure")
	}
}

func TestExecuteWithRetryHonorsContext(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())

	calls := 0
	_, err := executeWithRetry(ctx, testLogger(t), "gemini", "optimize",
		5, time.Minute, alwaysRetryable,
		func() (string, error) {
			calls++
			cancel()
			return "", errors.New("transient")
		})
	if !errors.Is(err, context.Canceled) {
		t.Fatalf("Expected context.Canceled, got %v", err)
	}
	if calls != 1 {
		t.Errorf("Expected the backoff wait to abort, got %d calls", calls)
	}
}

func TestIsRetryableStatus(t *testing.T) {
	retryable := []int{
		http.StatusTooManyRequests,
		http.StatusInternalServerError,
		http.StatusBadGateway,
		http.StatusServiceUnavailable,
		http.StatusGatewayTimeout,
	}
	for _, code := range retryable {
		if !isRetryableStatus(code) {
			t.Errorf("Expected status %d to be retryable", code)
		}
	}

	notRetryable := []int{
		http.StatusOK,
		http.StatusBadRequest,
		http.StatusUnauthorized,
		http.StatusForbidden,
		http.StatusNotFound,
	}
	for _, code := range notRetryable {
		if isRetryableStatus(code) {
			t.Errorf("Expected status %d not to be retryable", code)
		}
	}
}
