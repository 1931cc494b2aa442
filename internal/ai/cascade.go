package ai

import (
	"context"
	"fmt"
	"strings"
	"time"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"

	"resumelift/internal/config"
	resumeliftErrors "resumelift/internal/errors"
	"resumelift/internal/types"
)

// Registry holds the constructed providers. It is passed explicitly to the
// orchestrator; there is no package-level provider state, which keeps tests
// free to assemble registries of mocks.
type Registry struct {
	ordered []Provider
	byName  map[string]Provider
}

// NewRegistry creates a registry over the given providers, keeping their order
func NewRegistry(providers ...Provider) *Registry {
	r := &Registry{
		byName: make(map[string]Provider, len(providers)),
	}
	for _, p := range providers {
		r.Register(p)
	}
	return r
}

// Register adds a provider; a provider with a duplicate name is ignored
func (r *Registry) Register(p Provider) {
	if _, exists := r.byName[p.Name()]; exists {
		return
	}
	r.ordered = append(r.ordered, p)
	r.byName[p.Name()] = p
}

// Get returns a provider by name
func (r *Registry) Get(name string) (Provider, bool) {
	p, ok := r.byName[name]
	return p, ok
}

// Providers returns all providers in registration order
func (r *Registry) Providers() []Provider {
	return r.ordered
}

// Close closes every provider, returning the first error encountered
func (r *Registry) Close() error {
	var firstErr error
	for _, p := range r.ordered {
		if err := p.Close(); err != nil && firstErr == nil {
			firstErr = err
		}
	}
	return firstErr
}

// NewProviderRegistry builds the production registry from configuration:
// the configured hosted providers plus the deterministic fallback.
func NewProviderRegistry(cfg *config.Config, logger *resumeliftErrors.Logger) (*Registry, error) {
	validator := NewValidator(cfg.AI.MinOptimizedLength, logger)
	registry := NewRegistry()

	for _, name := range cfg.AI.CascadeOrder {
		if name == config.ProviderFallback {
			continue
		}

		pc, err := cfg.GetProviderConfig(name)
		if err != nil {
			return nil, err
		}

		switch name {
		case config.ProviderGemini:
			p, err := NewGeminiProvider(&pc, validator, logger)
			if err != nil {
				return nil, err
			}
			registry.Register(p)
		case config.ProviderOpenAI:
			registry.Register(NewOpenAIProvider(&pc, validator, logger))
		case config.ProviderClaude:
			registry.Register(NewClaudeProvider(&pc, validator, logger))
		default:
			return nil, resumeliftErrors.NewConfigError(resumeliftErrors.ErrCodeInvalidConfig,
				fmt.Sprintf("Unknown provider in cascade order: %s", name), nil)
		}
	}

	registry.Register(NewFallbackProvider(logger))

	return registry, nil
}

// CascadeMetrics receives orchestration measurements. A nil implementation
// disables recording.
type CascadeMetrics interface {
	RecordStageAttempt(ctx context.Context, provider string, success bool, durationSeconds float64)
	RecordFallbackUsed(ctx context.Context)
	RecordTokenUsage(ctx context.Context, provider string, input, output, total int64)
	RecordATSScore(ctx context.Context, provider string, score int)
}

// Orchestrator runs the provider cascade: strictly sequential stages, first
// validated result wins, provider failures contained at this boundary. The
// deterministic fallback is the terminal stage, so a request with non-empty
// resume content always produces a result.
type Orchestrator struct {
	registry *Registry
	order    []string
	logger   *resumeliftErrors.Logger
	metrics  CascadeMetrics
}

// NewOrchestrator creates an orchestrator over a registry. The fallback stage
// is appended to the order when not already listed. metrics may be nil.
func NewOrchestrator(registry *Registry, order []string, logger *resumeliftErrors.Logger, metrics CascadeMetrics) *Orchestrator {
	fullOrder := make([]string, 0, len(order)+1)
	hasFallback := false
	for _, name := range order {
		fullOrder = append(fullOrder, name)
		if name == config.ProviderFallback {
			hasFallback = true
		}
	}
	if !hasFallback {
		fullOrder = append(fullOrder, config.ProviderFallback)
	}

	return &Orchestrator{
		registry: registry,
		order:    fullOrder,
		logger:   logger,
		metrics:  metrics,
	}
}

// Optimize runs the full cascade for one request
func (o *Orchestrator) Optimize(ctx context.Context, input types.OptimizeInput) (types.OptimizationResult, *TokenUsage, error) {
	tracer := otel.Tracer("resumelift.ai.cascade")
	ctx, span := tracer.Start(ctx, "cascade.optimize")
	defer span.End()

	span.SetAttributes(
		attribute.Int("cascade.stages", len(o.order)),
		attribute.Int("input.resume_length", len(input.ResumeContent)),
	)

	result, usage, err := o.runCascade(ctx, input, o.order)
	if err != nil {
		span.RecordError(err)
		span.SetAttributes(attribute.Bool("success", false))
		return types.OptimizationResult{}, nil, err
	}

	span.SetAttributes(
		attribute.Bool("success", true),
		attribute.String("cascade.winner", result.Provider),
	)
	return result, usage, nil
}

// Reoptimize retries the provider that produced the original result before
// falling back to the regular cascade. The fallback stage still terminates
// the sequence.
func (o *Orchestrator) Reoptimize(ctx context.Context, input types.OptimizeInput, originalProvider string) (types.OptimizationResult, *TokenUsage, error) {
	tracer := otel.Tracer("resumelift.ai.cascade")
	ctx, span := tracer.Start(ctx, "cascade.reoptimize")
	defer span.End()

	span.SetAttributes(attribute.String("cascade.original_provider", originalProvider))

	order := o.order
	if originalProvider != "" && originalProvider != config.ProviderFallback {
		if _, ok := o.registry.Get(originalProvider); ok {
			order = make([]string, 0, len(o.order)+1)
			order = append(order, originalProvider)
			for _, name := range o.order {
				if name != originalProvider {
					order = append(order, name)
				}
			}
		} else {
			o.logger.Warn("Original provider not registered, using regular cascade",
				"provider", originalProvider)
		}
	}

	result, usage, err := o.runCascade(ctx, input, order)
	if err != nil {
		span.RecordError(err)
		span.SetAttributes(attribute.Bool("success", false))
		return types.OptimizationResult{}, nil, err
	}

	span.SetAttributes(
		attribute.Bool("success", true),
		attribute.String("cascade.winner", result.Provider),
	)
	return result, usage, nil
}

// runCascade attempts each stage in turn. Stage errors are logged and
// swallowed; only exhausting every stage is an error.
func (o *Orchestrator) runCascade(ctx context.Context, input types.OptimizeInput, order []string) (types.OptimizationResult, *TokenUsage, error) {
	var lastErr error

	for _, name := range order {
		provider, ok := o.registry.Get(name)
		if !ok {
			o.logger.Warn("Cascade stage references unregistered provider, skipping",
				"provider", name)
			continue
		}

		if !provider.Available() {
			o.logger.Debug("Provider unavailable, skipping cascade stage",
				"provider", name)
			continue
		}

		if err := ctx.Err(); err != nil {
			return types.OptimizationResult{}, nil, err
		}

		start := time.Now()
		result, usage, err := provider.AttemptOptimize(ctx, input)
		duration := time.Since(start).Seconds()

		if o.metrics != nil {
			o.metrics.RecordStageAttempt(ctx, name, err == nil, duration)
		}

		if err != nil {
			lastErr = err
			o.logger.LogError(err, "Cascade stage failed, moving to next provider",
				"provider", name,
				"duration_seconds", duration)
			continue
		}

		// Every adapter validates its own response, but re-check the floor
		// here so a stage that skips the validator cannot leak an undersized
		// result. The fallback is exempt: it guarantees a result for any
		// non-empty resume.
		if name != config.ProviderFallback && len(strings.TrimSpace(result.OptimizedText)) < defaultMinOptimizedLength {
			lastErr = resumeliftErrors.NewAIError(resumeliftErrors.ErrCodeInvalidResponse,
				"Stage result is shorter than the minimum optimized length", nil).
				WithContext("provider", name).
				WithContext("length", len(result.OptimizedText))
			o.logger.LogError(lastErr, "Discarding undersized stage result, moving to next provider",
				"provider", name)
			continue
		}

		o.logger.Info("Cascade stage produced a validated result",
			"provider", name,
			"ats_score", result.ATSScore,
			"degraded", result.Degraded,
			"duration_seconds", duration)

		if o.metrics != nil {
			if name == config.ProviderFallback {
				o.metrics.RecordFallbackUsed(ctx)
			}
			if usage != nil {
				o.metrics.RecordTokenUsage(ctx, name, usage.InputTokens, usage.OutputTokens, usage.TotalTokens)
			}
			o.metrics.RecordATSScore(ctx, name, result.ATSScore)
		}

		return result, usage, nil
	}

	return types.OptimizationResult{}, nil, resumeliftErrors.NewAIError(
		resumeliftErrors.ErrCodeProviderCallFailed,
		"Every cascade stage failed or was unavailable", lastErr)
}

// Health reports per-provider availability and breaker health
func (o *Orchestrator) Health() map[string]any {
	health := make(map[string]any, len(o.order))
	for _, name := range o.order {
		provider, ok := o.registry.Get(name)
		if !ok {
			continue
		}
		entry := map[string]any{
			"available": provider.Available(),
		}
		if bs, ok := provider.(BreakerStats); ok {
			entry["circuit_breaker"] = bs.CircuitBreakerStats()
		}
		health[name] = entry
	}
	return health
}
