package ai

import (
	"context"

	"resumelift/internal/types"
)

// Provider is the capability every optimization backend implements, whether
// it talks to a hosted model or runs the deterministic generator.
type Provider interface {
	// Name returns the provider's registry name ("gemini", "openai", ...)
	Name() string

	// Available reports whether the provider is configured and usable.
	// Unavailable providers are skipped by the cascade without an attempt.
	Available() bool

	// AttemptOptimize runs one optimization attempt. The returned result has
	// already passed response validation.
	AttemptOptimize(ctx context.Context, input types.OptimizeInput) (types.OptimizationResult, *TokenUsage, error)

	// Close releases any resources held by the provider
	Close() error
}

// TokenUsage represents token usage information from AI responses
type TokenUsage struct {
	InputTokens  int64
	OutputTokens int64
	TotalTokens  int64
}

// BreakerStats is implemented by providers that guard their upstream calls
// with a circuit breaker; the server's stats endpoint aggregates these.
type BreakerStats interface {
	CircuitBreakerStats() map[string]any
}
