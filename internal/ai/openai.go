package ai

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strings"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"

	"resumelift/internal/config"
	resumeliftErrors "resumelift/internal/errors"
	"resumelift/internal/types"
)

const defaultOpenAIBaseURL = "https://api.openai.com/v1"

// OpenAIProvider implements Provider over the OpenAI chat-completions API
type OpenAIProvider struct {
	baseURL    string
	config     *config.ProviderConfig
	httpClient *http.Client
	validator  *Validator
	breaker    *ProviderBreaker[*chatCompletionResponse]
	logger     *resumeliftErrors.Logger
}

var _ Provider = (*OpenAIProvider)(nil)

// NewOpenAIProvider creates an OpenAI-backed provider. A provider without an
// API key is constructed but reports itself unavailable.
func NewOpenAIProvider(cfg *config.ProviderConfig, validator *Validator, logger *resumeliftErrors.Logger) *OpenAIProvider {
	p := &OpenAIProvider{
		config:    cfg,
		validator: validator,
		logger:    logger,
	}

	if !cfg.Enabled || cfg.APIKey == "" {
		return p
	}

	p.baseURL = strings.TrimSuffix(cfg.BaseURL, "/")
	if p.baseURL == "" {
		p.baseURL = defaultOpenAIBaseURL
	}
	p.httpClient = &http.Client{Timeout: *cfg.Timeout}
	p.breaker = NewProviderBreaker[*chatCompletionResponse](config.ProviderOpenAI, cfg.CircuitBreaker, logger)

	return p
}

type chatMessage struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}

type chatCompletionRequest struct {
	Model          string          `json:"model"`
	Messages       []chatMessage   `json:"messages"`
	Temperature    *float32        `json:"temperature,omitempty"`
	ResponseFormat *responseFormat `json:"response_format,omitempty"`
}

type responseFormat struct {
	Type string `json:"type"`
}

type chatCompletionResponse struct {
	ID      string `json:"id"`
	Model   string `json:"model"`
	Choices []struct {
		Message chatMessage `json:"message"`
	} `json:"choices"`
	Usage *struct {
		PromptTokens     int64 `json:"prompt_tokens"`
		CompletionTokens int64 `json:"completion_tokens"`
		TotalTokens      int64 `json:"total_tokens"`
	} `json:"usage,omitempty"`
	Error *struct {
		Message string `json:"message"`
		Type    string `json:"type"`
	} `json:"error,omitempty"`
}

// httpStatusError carries a non-2xx upstream status for retry classification
type httpStatusError struct {
	status int
	body   string
}

func (e *httpStatusError) Error() string {
	return fmt.Sprintf("openai returned status %d: %s", e.status, e.body)
}

func (o *OpenAIProvider) Name() string {
	return config.ProviderOpenAI
}

func (o *OpenAIProvider) Available() bool {
	return o.httpClient != nil
}

// AttemptOptimize implements Provider for resume optimization
func (o *OpenAIProvider) AttemptOptimize(ctx context.Context, input types.OptimizeInput) (types.OptimizationResult, *TokenUsage, error) {
	if !o.Available() {
		return types.OptimizationResult{}, nil, resumeliftErrors.NewAIError(
			resumeliftErrors.ErrCodeProviderUnavailable, "OpenAI provider is not configured", nil)
	}

	tracer := otel.Tracer("resumelift.ai.openai")
	ctx, span := tracer.Start(ctx, "openai.optimize")
	defer span.End()

	span.SetAttributes(
		attribute.String("ai.provider", config.ProviderOpenAI),
		attribute.String("ai.model", o.config.Model),
		attribute.Int("input.resume_length", len(input.ResumeContent)),
		attribute.Int("input.job_length", len(input.JobDescription)),
	)

	systemPrompt, userPrompt := buildPrompts(config.ProviderOpenAI, o.config, promptInput{
		ResumeContent:      input.ResumeContent,
		JobDescription:     input.JobDescription,
		Language:           input.Language,
		CustomInstructions: input.CustomInstructions,
	})

	messages := make([]chatMessage, 0, 2)
	if *o.config.UseSystemPrompts && systemPrompt != "" {
		messages = append(messages, chatMessage{Role: "system", Content: systemPrompt})
	}
	messages = append(messages, chatMessage{Role: "user", Content: userPrompt})

	parsed, err := o.breaker.Execute(func() (*chatCompletionResponse, error) {
		return executeWithRetry(ctx, o.logger, config.ProviderOpenAI, "optimize",
			*o.config.MaxRetries, *o.config.RetryInitialDelay, isRetryableOpenAIError,
			func() (*chatCompletionResponse, error) {
				return o.completeChat(ctx, messages)
			})
	})
	if err != nil {
		span.RecordError(err)
		span.SetAttributes(attribute.Bool("success", false))
		return types.OptimizationResult{}, nil, resumeliftErrors.NewAIError(
			resumeliftErrors.ErrCodeProviderCallFailed, "OpenAI chat completion failed", err)
	}

	tokenUsage := extractOpenAITokenUsage(parsed)
	if tokenUsage != nil {
		span.SetAttributes(
			attribute.Int64("ai.tokens.input", tokenUsage.InputTokens),
			attribute.Int64("ai.tokens.output", tokenUsage.OutputTokens),
			attribute.Int64("ai.tokens.total", tokenUsage.TotalTokens),
		)
	}

	content := strings.TrimSpace(parsed.Choices[0].Message.Content)
	optimized, err := o.validator.Validate(content, config.ProviderOpenAI)
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

// completeChat performs one chat-completions request
func (o *OpenAIProvider) completeChat(ctx context.Context, messages []chatMessage) (*chatCompletionResponse, error) {
	reqBody := chatCompletionRequest{
		Model:          o.config.Model,
		Messages:       messages,
		ResponseFormat: &responseFormat{Type: "json_object"},
	}
	if *o.config.Temperature > 0 {
		reqBody.Temperature = o.config.Temperature
	}

	payload, err := json.Marshal(reqBody)
	if err != nil {
		return nil, err
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost,
		o.baseURL+"/chat/completions", bytes.NewReader(payload))
	if err != nil {
		return nil, err
	}
	req.Header.Set("Authorization", "Bearer "+o.config.APIKey)
	req.Header.Set("Content-Type", "application/json")

	resp, err := o.httpClient.Do(req)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, err
	}

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return nil, &httpStatusError{status: resp.StatusCode, body: truncateForLog(string(body))}
	}

	var parsed chatCompletionResponse
	if err := json.Unmarshal(body, &parsed); err != nil {
		return nil, fmt.Errorf("openai response parse: %w", err)
	}
	if parsed.Error != nil {
		return nil, fmt.Errorf("openai error: %s (%s)", parsed.Error.Message, parsed.Error.Type)
	}
	if len(parsed.Choices) == 0 {
		return nil, fmt.Errorf("openai response missing choices")
	}
	if strings.TrimSpace(parsed.Choices[0].Message.Content) == "" {
		return nil, fmt.Errorf("openai response empty content")
	}

	return &parsed, nil
}

// CircuitBreakerStats returns circuit breaker statistics
func (o *OpenAIProvider) CircuitBreakerStats() map[string]any {
	return o.breaker.Stats()
}

// Close implements Provider
func (o *OpenAIProvider) Close() error {
	if o.httpClient != nil {
		o.httpClient.CloseIdleConnections()
	}
	return nil
}

// isRetryableOpenAIError determines if an error should trigger a retry
func isRetryableOpenAIError(err error) bool {
	if err == nil {
		return false
	}

	if isNetworkError(err) {
		return true
	}

	var statusErr *httpStatusError
	if errors.As(err, &statusErr) {
		return isRetryableStatus(statusErr.status)
	}

	return false
}

// extractOpenAITokenUsage extracts token usage from a chat-completions response
func extractOpenAITokenUsage(resp *chatCompletionResponse) *TokenUsage {
	if resp == nil || resp.Usage == nil {
		return nil
	}
	return &TokenUsage{
		InputTokens:  resp.Usage.PromptTokens,
		OutputTokens: resp.Usage.CompletionTokens,
		TotalTokens:  resp.Usage.TotalTokens,
	}
}

func truncateForLog(s string) string {
	const limit = 512
	if len(s) > limit {
		return s[:limit] + "..."
	}
	return s
}
