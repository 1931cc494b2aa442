package ai

import (
	"context"
	"errors"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"google.golang.org/api/googleapi"
	"google.golang.org/genai"

	"resumelift/internal/config"
	resumeliftErrors "resumelift/internal/errors"
	"resumelift/internal/types"
)

// GeminiProvider implements Provider for Google Gemini
type GeminiProvider struct {
	client    *genai.Client
	config    *config.ProviderConfig
	validator *Validator
	breaker   *ProviderBreaker[*genai.GenerateContentResponse]
	logger    *resumeliftErrors.Logger
}

var _ Provider = (*GeminiProvider)(nil)

// NewGeminiProvider creates a Gemini-backed provider. A provider without an
// API key is constructed but reports itself unavailable.
func NewGeminiProvider(cfg *config.ProviderConfig, validator *Validator, logger *resumeliftErrors.Logger) (*GeminiProvider, error) {
	p := &GeminiProvider{
		config:    cfg,
		validator: validator,
		logger:    logger,
	}

	if !cfg.Enabled || cfg.APIKey == "" {
		return p, nil
	}

	client, err := genai.NewClient(context.Background(), &genai.ClientConfig{
		APIKey: cfg.APIKey,
	})
	if err != nil {
		return nil, resumeliftErrors.NewAIError(resumeliftErrors.ErrCodeProviderCallFailed,
			"Failed to create Gemini client", err)
	}
	p.client = client
	p.breaker = NewProviderBreaker[*genai.GenerateContentResponse](config.ProviderGemini, cfg.CircuitBreaker, logger)

	return p, nil
}

func (g *GeminiProvider) Name() string {
	return config.ProviderGemini
}

func (g *GeminiProvider) Available() bool {
	return g.client != nil
}

// AttemptOptimize implements Provider for resume optimization
func (g *GeminiProvider) AttemptOptimize(ctx context.Context, input types.OptimizeInput) (types.OptimizationResult, *TokenUsage, error) {
	if !g.Available() {
		return types.OptimizationResult{}, nil, resumeliftErrors.NewAIError(
			resumeliftErrors.ErrCodeProviderUnavailable, "Gemini provider is not configured", nil)
	}

	tracer := otel.Tracer("resumelift.ai.gemini")
	ctx, span := tracer.Start(ctx, "gemini.optimize")
	defer span.End()

	span.SetAttributes(
		attribute.String("ai.provider", config.ProviderGemini),
		attribute.String("ai.model", g.config.Model),
		attribute.Float64("ai.temperature", float64(*g.config.Temperature)),
		attribute.Int("input.resume_length", len(input.ResumeContent)),
		attribute.Int("input.job_length", len(input.JobDescription)),
	)

	systemPrompt, userPrompt := buildPrompts(config.ProviderGemini, g.config, promptInput{
		ResumeContent:      input.ResumeContent,
		JobDescription:     input.JobDescription,
		Language:           input.Language,
		CustomInstructions: input.CustomInstructions,
	})

	genaiConfig := g.buildOptimizeSchema()
	if *g.config.UseSystemPrompts && systemPrompt != "" {
		genaiConfig.SystemInstruction = genai.NewContentFromText(systemPrompt, genai.RoleUser)
	}

	result, err := g.breaker.Execute(func() (*genai.GenerateContentResponse, error) {
		return executeWithRetry(ctx, g.logger, config.ProviderGemini, "optimize",
			*g.config.MaxRetries, *g.config.RetryInitialDelay, isRetryableGeminiError,
			func() (*genai.GenerateContentResponse, error) {
				return g.client.Models.GenerateContent(ctx, g.config.Model, genai.Text(userPrompt), genaiConfig)
			})
	})
	if err != nil {
		span.RecordError(err)
		span.SetAttributes(attribute.Bool("success", false))
		return types.OptimizationResult{}, nil, resumeliftErrors.NewAIError(
			resumeliftErrors.ErrCodeProviderCallFailed, "Gemini content generation failed", err)
	}

	tokenUsage := extractGeminiTokenUsage(result)
	if tokenUsage != nil {
		span.SetAttributes(
			attribute.Int64("ai.tokens.input", tokenUsage.InputTokens),
			attribute.Int64("ai.tokens.output", tokenUsage.OutputTokens),
			attribute.Int64("ai.tokens.total", tokenUsage.TotalTokens),
		)
	}

	optimized, err := g.validator.Validate(result.Text(), config.ProviderGemini)
	if err != nil {
		span.RecordError(err)
		span.SetAttributes(attribute.Bool("success", false))
		return types.OptimizationResult{}, tokenUsage, err
	}

	span.SetAttributes(
		attribute.Bool("success", true),
		attribute.Int("ats.score", optimized.ATSScore),
	)
	return optimized, tokenUsage, nil
}

// CircuitBreakerStats returns circuit breaker statistics
func (g *GeminiProvider) CircuitBreakerStats() map[string]any {
	return g.breaker.Stats()
}

// Close implements Provider
func (g *GeminiProvider) Close() error {
	// Gemini client doesn't have a Close method in current single-shot usage
	return nil
}

// buildOptimizeSchema creates the structured-output schema for optimization
func (g *GeminiProvider) buildOptimizeSchema() *genai.GenerateContentConfig {
	cfg := &genai.GenerateContentConfig{
		ResponseMIMEType: "application/json",
		ResponseSchema: &genai.Schema{
			Type: genai.TypeObject,
			Properties: map[string]*genai.Schema{
				"optimizedText": {Type: genai.TypeString},
				"suggestions": {
					Type: genai.TypeArray,
					Items: &genai.Schema{
						Type: genai.TypeObject,
						Properties: map[string]*genai.Schema{
							"category":          {Type: genai.TypeString},
							"text":              {Type: genai.TypeString},
							"impactDescription": {Type: genai.TypeString},
						},
						Required: []string{"category", "text", "impactDescription"},
					},
				},
				"keywordSuggestions": {
					Type: genai.TypeArray,
					Items: &genai.Schema{
						Type: genai.TypeObject,
						Properties: map[string]*genai.Schema{
							"text":     {Type: genai.TypeString},
							"category": {Type: genai.TypeString},
						},
						Required: []string{"text", "category"},
					},
				},
				"atsScore": {Type: genai.TypeInteger},
			},
			Required: []string{"optimizedText", "suggestions", "keywordSuggestions", "atsScore"},
		},
	}

	if *g.config.Temperature > 0 {
		cfg.Temperature = g.config.Temperature
	}

	return cfg
}

// isRetryableGeminiError determines if an error should trigger a retry
func isRetryableGeminiError(err error) bool {
	if err == nil {
		return false
	}

	if isNetworkError(err) {
		return true
	}

	var apiErr *googleapi.Error
	if errors.As(err, &apiErr) {
		return isRetryableStatus(apiErr.Code)
	}

	return false
}

// extractGeminiTokenUsage extracts token usage from a Gemini API response
func extractGeminiTokenUsage(result *genai.GenerateContentResponse) *TokenUsage {
	if result == nil || result.UsageMetadata == nil {
		return nil
	}

	usage := result.UsageMetadata
	return &TokenUsage{
		InputTokens:  int64(usage.PromptTokenCount),
		OutputTokens: int64(usage.CandidatesTokenCount),
		TotalTokens:  int64(usage.TotalTokenCount),
	}
}
