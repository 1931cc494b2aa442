package ai

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/anthropics/anthropic-sdk-go"
	"github.com/anthropics/anthropic-sdk-go/option"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"

	"resumelift/internal/config"
	resumeliftErrors "resumelift/internal/errors"
	"resumelift/internal/types"
)

const claudeMaxTokens = 8192

// ClaudeProvider implements Provider using Anthropic's Claude
type ClaudeProvider struct {
	client    anthropic.Client
	available bool
	config    *config.ProviderConfig
	validator *Validator
	breaker   *ProviderBreaker[*anthropic.Message]
	logger    *resumeliftErrors.Logger
}

var _ Provider = (*ClaudeProvider)(nil)

// NewClaudeProvider creates a Claude-backed provider. A provider without an
// API key is constructed but reports itself unavailable.
func NewClaudeProvider(cfg *config.ProviderConfig, validator *Validator, logger *resumeliftErrors.Logger) *ClaudeProvider {
	p := &ClaudeProvider{
		config:    cfg,
		validator: validator,
		logger:    logger,
	}

	if !cfg.Enabled || cfg.APIKey == "" {
		return p
	}

	opts := []option.RequestOption{option.WithAPIKey(cfg.APIKey)}
	if cfg.BaseURL != "" {
		opts = append(opts, option.WithBaseURL(cfg.BaseURL))
	}
	p.client = anthropic.NewClient(opts...)
	p.available = true
	p.breaker = NewProviderBreaker[*anthropic.Message](config.ProviderClaude, cfg.CircuitBreaker, logger)

	return p
}

func (c *ClaudeProvider) Name() string {
	return config.ProviderClaude
}

func (c *ClaudeProvider) Available() bool {
	return c.available
}

// AttemptOptimize implements Provider for resume optimization
func (c *ClaudeProvider) AttemptOptimize(ctx context.Context, input types.OptimizeInput) (types.OptimizationResult, *TokenUsage, error) {
	if !c.Available() {
		return types.OptimizationResult{}, nil, resumeliftErrors.NewAIError(
			resumeliftErrors.ErrCodeProviderUnavailable, "Claude provider is not configured", nil)
	}

	tracer := otel.Tracer("resumelift.ai.claude")
	ctx, span := tracer.Start(ctx, "claude.optimize")
	defer span.End()

	span.SetAttributes(
		attribute.String("ai.provider", config.ProviderClaude),
		attribute.String("ai.model", c.config.Model),
		attribute.Int("input.resume_length", len(input.ResumeContent)),
		attribute.Int("input.job_length", len(input.JobDescription)),
	)

	systemPrompt, userPrompt := buildPrompts(config.ProviderClaude, c.config, promptInput{
		ResumeContent:      input.ResumeContent,
		JobDescription:     input.JobDescription,
		Language:           input.Language,
		CustomInstructions: input.CustomInstructions,
	})

	params := anthropic.MessageNewParams{
		Model:       anthropic.Model(c.config.Model),
		MaxTokens:   claudeMaxTokens,
		Temperature: anthropic.Float(float64(*c.config.Temperature)),
		Messages: []anthropic.MessageParam{{
			Content: []anthropic.ContentBlockParamUnion{{
				OfText: &anthropic.TextBlockParam{Text: userPrompt},
			}},
			Role: anthropic.MessageParamRoleUser,
		}},
	}
	if *c.config.UseSystemPrompts && systemPrompt != "" {
		params.System = []anthropic.TextBlockParam{{Text: systemPrompt}}
	}

	response, err := c.breaker.Execute(func() (*anthropic.Message, error) {
		return executeWithRetry(ctx, c.logger, config.ProviderClaude, "optimize",
			*c.config.MaxRetries, *c.config.RetryInitialDelay, isRetryableClaudeError,
			func() (*anthropic.Message, error) {
				return c.client.Messages.New(ctx, params)
			})
	})
	if err != nil {
		span.RecordError(err)
		span.SetAttributes(attribute.Bool("success", false))
		return types.OptimizationResult{}, nil, resumeliftErrors.NewAIError(
			resumeliftErrors.ErrCodeProviderCallFailed, "Claude message creation failed", err)
	}

	tokenUsage := extractClaudeTokenUsage(response)
	if tokenUsage != nil {
		span.SetAttributes(
			attribute.Int64("ai.tokens.input", tokenUsage.InputTokens),
			attribute.Int64("ai.tokens.output", tokenUsage.OutputTokens),
			attribute.Int64("ai.tokens.total", tokenUsage.TotalTokens),
		)
	}

	responseText, err := claudeResponseText(response)
	if err != nil {
		span.RecordError(err)
		span.SetAttributes(attribute.Bool("success", false))
		return types.OptimizationResult{}, tokenUsage, resumeliftErrors.NewAIError(
			resumeliftErrors.ErrCodeInvalidResponse, "Claude response has no text content", err)
	}

	optimized, err := c.validator.Validate(responseText, config.ProviderClaude)
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
func (c *ClaudeProvider) CircuitBreakerStats() map[string]any {
	return c.breaker.Stats()
}

// Close implements Provider
func (c *ClaudeProvider) Close() error {
	return nil
}

// claudeResponseText extracts the first text block from a Claude message
func claudeResponseText(response *anthropic.Message) (string, error) {
	if response == nil || len(response.Content) == 0 {
		return "", fmt.Errorf("empty response from Claude")
	}

	for _, content := range response.Content {
		textContent := content.AsText()
		if strings.TrimSpace(textContent.Text) != "" {
			return textContent.Text, nil
		}
	}

	return "", fmt.Errorf("no text content in Claude response")
}

// isRetryableClaudeError determines if an error should trigger a retry
func isRetryableClaudeError(err error) bool {
	if err == nil {
		return false
	}

	if isNetworkError(err) {
		return true
	}

	var apiErr *anthropic.Error
	if errors.As(err, &apiErr) {
		return isRetryableStatus(apiErr.StatusCode)
	}

	return false
}

// extractClaudeTokenUsage extracts token usage from a Claude message
func extractClaudeTokenUsage(response *anthropic.Message) *TokenUsage {
	if response == nil {
		return nil
	}
	return &TokenUsage{
		InputTokens:  response.Usage.InputTokens,
		OutputTokens: response.Usage.OutputTokens,
		TotalTokens:  response.Usage.InputTokens + response.Usage.OutputTokens,
	}
}
