package ai

import (
	"context"
	"strings"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"

	"resumelift/internal/config"
	resumeliftErrors "resumelift/internal/errors"
	"resumelift/internal/fallback"
	"resumelift/internal/types"
)

// FallbackProvider adapts the deterministic generator to the Provider
// interface so it can sit at the end of the cascade. It needs no credentials
// and is always available.
type FallbackProvider struct {
	generator *fallback.Generator
	logger    *resumeliftErrors.Logger
}

var _ Provider = (*FallbackProvider)(nil)

// NewFallbackProvider creates the terminal cascade stage
func NewFallbackProvider(logger *resumeliftErrors.Logger) *FallbackProvider {
	return &FallbackProvider{
		generator: fallback.NewGenerator(),
		logger:    logger,
	}
}

func (f *FallbackProvider) Name() string {
	return config.ProviderFallback
}

func (f *FallbackProvider) Available() bool {
	return true
}

// AttemptOptimize implements Provider. The generator is pure and cannot fail
// on non-empty input; empty input is the only rejection.
func (f *FallbackProvider) AttemptOptimize(ctx context.Context, input types.OptimizeInput) (types.OptimizationResult, *TokenUsage, error) {
	_, span := otel.Tracer("resumelift.ai.fallback").Start(ctx, "fallback.optimize")
	defer span.End()

	if strings.TrimSpace(input.ResumeContent) == "" {
		err := resumeliftErrors.NewValidationError(resumeliftErrors.ErrCodeInvalidRequest,
			"Resume content is empty", nil)
		span.RecordError(err)
		span.SetAttributes(attribute.Bool("success", false))
		return types.OptimizationResult{}, nil, err
	}

	result := f.generator.Generate(input)
	result.Provider = config.ProviderFallback

	f.logger.Info("Deterministic fallback optimization produced",
		"language", input.Language,
		"ats_score", result.ATSScore,
		"suggestions", len(result.Suggestions),
		"keywords", len(result.Keywords))

	span.SetAttributes(
		attribute.Bool("success", true),
		attribute.Int("ats.score", result.ATSScore),
	)
	return result, nil, nil
}

// Close implements Provider
func (f *FallbackProvider) Close() error {
	return nil
}
