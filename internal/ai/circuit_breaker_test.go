package ai

import (
	"errors"
	"testing"
	"time"

	"resumelift/internal/config"
)

func breakerTestConfig() config.CircuitBreakerConfig {
	return config.CircuitBreakerConfig{
		Enabled:          true,
		MaxRequests:      3,
		Interval:         60 * time.Second,
		Timeout:          60 * time.Second,
		MinRequests:      3,
		FailureThreshold: 0.6,
	}
}

func TestProviderBreakerDisabled(t *testing.T) {
	cfg := breakerTestConfig()
	cfg.Enabled = false

	breaker := NewProviderBreaker[string]("gemini", cfg, nil)
	if breaker != nil {
		t.Fatal("Expected nil breaker when disabled")
	}

	// A nil breaker is a passthrough
	result, err := breaker.Execute(func() (string, error) {
		return "ok", nil
	})
	if err != nil {
		t.Fatalf("Expected no error from nil breaker, got %v", err)
	}
	if result != "ok" {
		t.Errorf("Expected 'ok', got '%s'", result)
	}

	if !breaker.IsHealthy() {
		t.Error("Expected nil breaker to report healthy")
	}
	stats := breaker.Stats()
	if enabled, _ := stats["enabled"].(bool); enabled {
		t.Error("Expected stats to report enabled=false")
	}
}

func TestProviderBreakerNaming(t *testing.T) {
	breaker := NewProviderBreaker[string]("openai", breakerTestConfig(), testLogger(t))
	if breaker == nil {
		t.Fatal("Expected a breaker when enabled")
	}

	stats := breaker.Stats()
	name, ok := stats["name"].(string)
	if !ok {
		t.Fatal("Circuit breaker name not found")
	}
	if name != "provider-openai" {
		t.Errorf("Expected circuit breaker name 'provider-openai', got '%s'", name)
	}
	state, ok := stats["state"].(string)
	if !ok {
		t.Fatal("Circuit breaker state not found")
	}
	if state != "closed" {
		t.Errorf("Expected initial state 'closed', got '%s'", state)
	}
}

func TestProviderBreakerTripsAfterFailures(t *testing.T) {
	cfg := breakerTestConfig()
	cfg.MinRequests = 3
	cfg.FailureThreshold = 0.6

	breaker := NewProviderBreaker[string]("claude", cfg, testLogger(t))
	failure := errors.New("upstream unavailable")

	for i := 0; i < 3; i++ {
		if _, err := breaker.Execute(func() (string, error) {
			return "", failure
		}); err == nil {
			t.Fatalf("Attempt %d: expected an error", i)
		}
	}

	if breaker.IsHealthy() {
		t.Error("Expected breaker to be open after repeated failures")
	}

	// An open breaker rejects without running the function
	called := false
	if _, err := breaker.Execute(func() (string, error) {
		called = true
		return "ok", nil
	}); err == nil {
		t.Error("Expected open breaker to reject execution")
	}
	if called {
		t.Error("Expected the function not to run while the breaker is open")
	}
}
