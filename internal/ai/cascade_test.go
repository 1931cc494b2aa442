package ai

import (
	"context"
	"errors"
	"strings"
	"testing"

	"resumelift/internal/config"
	"resumelift/internal/types"
)

type mockProvider struct {
	name      string
	available bool
	result    types.OptimizationResult
	usage     *TokenUsage
	err       error
	calls     int
	closed    bool
}

func (m *mockProvider) Name() string    { return m.name }
func (m *mockProvider) Available() bool { return m.available }

func (m *mockProvider) AttemptOptimize(ctx context.Context, input types.OptimizeInput) (types.OptimizationResult, *TokenUsage, error) {
	m.calls++
	if m.err != nil {
		return types.OptimizationResult{}, nil, m.err
	}
	result := m.result
	result.Provider = m.name
	return result, m.usage, nil
}

func (m *mockProvider) Close() error {
	m.closed = true
	return nil
}

func okProvider(name string) *mockProvider {
	return &mockProvider{
		name:      name,
		available: true,
		result: types.OptimizationResult{
			OptimizedText: strings.Repeat("<p>Delivered measurable results across platform teams.</p>", 3),
			ATSScore:      80,
		},
	}
}

func failingProvider(name string) *mockProvider {
	return &mockProvider{
		name:      name,
		available: true,
		err:       errors.New(name + " exploded"),
	}
}

func optimizeInput() types.OptimizeInput {
	return types.OptimizeInput{
		ResumeContent:  "EXPERIENCE\nBuilt things that worked.",
		JobDescription: "Looking for a builder of things.",
	}
}

func TestCascadeFirstProviderWins(t *testing.T) {
	first := okProvider("gemini")
	second := okProvider("openai")
	fallback := okProvider("fallback")

	o := NewOrchestrator(NewRegistry(first, second, fallback),
		[]string{"gemini", "openai"}, testLogger(t), nil)

	result, _, err := o.Optimize(context.Background(), optimizeInput())
	if err != nil {
		t.Fatalf("Expected success, got %v", err)
	}
	if result.Provider != "gemini" {
		t.Errorf("Expected winner 'gemini', got '%s'", result.Provider)
	}
	if first.calls != 1 {
		t.Errorf("Expected 1 call to first provider, got %d", first.calls)
	}
	if second.calls != 0 || fallback.calls != 0 {
		t.Error("Later stages must not run once a stage succeeds")
	}
}

func TestCascadeContainsStageErrors(t *testing.T) {
	first := failingProvider("gemini")
	second := okProvider("openai")

	o := NewOrchestrator(NewRegistry(first, second, okProvider("fallback")),
		[]string{"gemini", "openai"}, testLogger(t), nil)

	result, _, err := o.Optimize(context.Background(), optimizeInput())
	if err != nil {
		t.Fatalf("A stage failure must not surface when a later stage succeeds, got %v", err)
	}
	if result.Provider != "openai" {
		t.Errorf("Expected winner 'openai', got '%s'", result.Provider)
	}
	if first.calls != 1 {
		t.Errorf("Expected failed provider to be attempted once, got %d", first.calls)
	}
}

func TestCascadeSkipsUnavailableProviders(t *testing.T) {
	unavailable := &mockProvider{name: "gemini", available: false}
	second := okProvider("openai")

	o := NewOrchestrator(NewRegistry(unavailable, second, okProvider("fallback")),
		[]string{"gemini", "openai"}, testLogger(t), nil)

	result, _, err := o.Optimize(context.Background(), optimizeInput())
	if err != nil {
		t.Fatal(err)
	}
	if unavailable.calls != 0 {
		t.Error("Unavailable provider must be skipped without an attempt")
	}
	if result.Provider != "openai" {
		t.Errorf("Expected winner 'openai', got '%s'", result.Provider)
	}
}

func TestCascadeFallbackIsTerminal(t *testing.T) {
	o := NewOrchestrator(
		NewRegistry(failingProvider("gemini"), failingProvider("openai"), NewFallbackProvider(testLogger(t))),
		[]string{"gemini", "openai"}, testLogger(t), nil)

	result, _, err := o.Optimize(context.Background(), optimizeInput())
	if err != nil {
		t.Fatalf("Fallback must rescue the cascade, got %v", err)
	}
	if result.Provider != "fallback" {
		t.Errorf("Expected winner 'fallback', got '%s'", result.Provider)
	}
	if result.OptimizedText == "" {
		t.Error("Fallback produced empty content")
	}
	if result.ATSScore < 60 || result.ATSScore > 100 {
		t.Errorf("Fallback score %d outside [60,100]", result.ATSScore)
	}
}

func TestCascadeExhaustionIsAnError(t *testing.T) {
	// Empty resume content makes even the fallback refuse
	o := NewOrchestrator(
		NewRegistry(failingProvider("gemini"), NewFallbackProvider(testLogger(t))),
		[]string{"gemini"}, testLogger(t), nil)

	_, _, err := o.Optimize(context.Background(), types.OptimizeInput{ResumeContent: "   "})
	if err == nil {
		t.Fatal("Expected an error when every stage fails")
	}
}

func TestCascadeHonorsContextCancellation(t *testing.T) {
	provider := okProvider("gemini")
	o := NewOrchestrator(NewRegistry(provider, okProvider("fallback")),
		[]string{"gemini"}, testLogger(t), nil)

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	if _, _, err := o.Optimize(ctx, optimizeInput()); err == nil {
		t.Fatal("Expected a cancelled context to abort the cascade")
	}
	if provider.calls != 0 {
		t.Error("No stage should run after cancellation")
	}
}

func TestReoptimizeTriesOriginalProviderFirst(t *testing.T) {
	first := okProvider("gemini")
	second := okProvider("openai")

	o := NewOrchestrator(NewRegistry(first, second, okProvider("fallback")),
		[]string{"gemini", "openai"}, testLogger(t), nil)

	result, _, err := o.Reoptimize(context.Background(), optimizeInput(), "openai")
	if err != nil {
		t.Fatal(err)
	}
	if result.Provider != "openai" {
		t.Errorf("Expected original provider to win, got '%s'", result.Provider)
	}
	if first.calls != 0 {
		t.Error("Cascade head must not run when the original provider succeeds")
	}
}

func TestReoptimizeFallsBackToCascade(t *testing.T) {
	t.Run("original provider fails", func(t *testing.T) {
		original := failingProvider("openai")
		head := okProvider("gemini")

		o := NewOrchestrator(NewRegistry(head, original, okProvider("fallback")),
			[]string{"gemini", "openai"}, testLogger(t), nil)

		result, _, err := o.Reoptimize(context.Background(), optimizeInput(), "openai")
		if err != nil {
			t.Fatal(err)
		}
		if result.Provider != "gemini" {
			t.Errorf("Expected cascade to take over, got '%s'", result.Provider)
		}
		if original.calls != 1 {
			t.Errorf("Expected original provider tried exactly once, got %d", original.calls)
		}
	})

	t.Run("unknown original provider", func(t *testing.T) {
		head := okProvider("gemini")
		o := NewOrchestrator(NewRegistry(head, okProvider("fallback")),
			[]string{"gemini"}, testLogger(t), nil)

		result, _, err := o.Reoptimize(context.Background(), optimizeInput(), "mystery")
		if err != nil {
			t.Fatal(err)
		}
		if result.Provider != "gemini" {
			t.Errorf("Expected regular cascade order, got '%s'", result.Provider)
		}
	})

	t.Run("fallback origin uses regular cascade", func(t *testing.T) {
		head := okProvider("gemini")
		fallback := okProvider("fallback")
		o := NewOrchestrator(NewRegistry(head, fallback),
			[]string{"gemini"}, testLogger(t), nil)

		result, _, err := o.Reoptimize(context.Background(), optimizeInput(), "fallback")
		if err != nil {
			t.Fatal(err)
		}
		if result.Provider != "gemini" {
			t.Errorf("A fallback-origin retry should try real providers first, got '%s'", result.Provider)
		}
	})
}

func TestCascadeDiscardsUndersizedStageResult(t *testing.T) {
	undersized := &mockProvider{
		name:      "gemini",
		available: true,
		result:    types.OptimizationResult{OptimizedText: "too short to be a resume", ATSScore: 80},
	}
	second := okProvider("openai")

	o := NewOrchestrator(NewRegistry(undersized, second, okProvider("fallback")),
		[]string{"gemini", "openai"}, testLogger(t), nil)

	result, _, err := o.Optimize(context.Background(), optimizeInput())
	if err != nil {
		t.Fatal(err)
	}
	if undersized.calls != 1 {
		t.Errorf("Expected undersized provider attempted once, got %d", undersized.calls)
	}
	if result.Provider != "openai" {
		t.Errorf("Expected undersized result discarded in favor of 'openai', got '%s'", result.Provider)
	}
}

func TestNewProviderRegistry(t *testing.T) {
	cfg := &config.Config{
		AI: config.AIConfig{
			CascadeOrder: []string{config.ProviderGemini, config.ProviderOpenAI, config.ProviderClaude},
		},
	}

	registry, err := NewProviderRegistry(cfg, testLogger(t))
	if err != nil {
		t.Fatal(err)
	}
	defer func() {
		if err := registry.Close(); err != nil {
			t.Errorf("Close failed: %v", err)
		}
	}()

	if len(registry.Providers()) != 4 {
		t.Fatalf("Expected 3 hosted providers plus fallback, got %d", len(registry.Providers()))
	}

	// Without API keys the hosted providers exist but report unavailable
	for _, name := range []string{config.ProviderGemini, config.ProviderOpenAI, config.ProviderClaude} {
		p, ok := registry.Get(name)
		if !ok {
			t.Fatalf("Expected provider '%s' registered", name)
		}
		if p.Available() {
			t.Errorf("Provider '%s' must be unavailable without credentials", name)
		}
	}

	fallback, ok := registry.Get(config.ProviderFallback)
	if !ok || !fallback.Available() {
		t.Error("Fallback provider must always be registered and available")
	}

	t.Run("unknown provider in cascade order", func(t *testing.T) {
		bad := &config.Config{AI: config.AIConfig{CascadeOrder: []string{"hal9000"}}}
		if _, err := NewProviderRegistry(bad, testLogger(t)); err == nil {
			t.Fatal("Expected an error for an unknown provider name")
		}
	})
}

func TestRegistry(t *testing.T) {
	first := okProvider("gemini")
	registry := NewRegistry(first, okProvider("openai"))

	t.Run("lookup", func(t *testing.T) {
		p, ok := registry.Get("gemini")
		if !ok || p.Name() != "gemini" {
			t.Error("Expected to find registered provider")
		}
		if _, ok := registry.Get("mystery"); ok {
			t.Error("Unknown provider must not resolve")
		}
	})

	t.Run("duplicate names ignored", func(t *testing.T) {
		registry.Register(okProvider("gemini"))
		if len(registry.Providers()) != 2 {
			t.Errorf("Expected 2 providers, got %d", len(registry.Providers()))
		}
		p, _ := registry.Get("gemini")
		if p != Provider(first) {
			t.Error("Duplicate registration must not replace the original")
		}
	})

	t.Run("close closes all", func(t *testing.T) {
		if err := registry.Close(); err != nil {
			t.Fatal(err)
		}
		if !first.closed {
			t.Error("Expected providers to be closed")
		}
	})
}

func TestOrchestratorAppendsFallbackStage(t *testing.T) {
	o := NewOrchestrator(NewRegistry(), []string{"gemini", "openai"}, testLogger(t), nil)
	if o.order[len(o.order)-1] != "fallback" {
		t.Errorf("Expected fallback appended, got order %v", o.order)
	}

	explicit := NewOrchestrator(NewRegistry(), []string{"gemini", "fallback"}, testLogger(t), nil)
	if len(explicit.order) != 2 {
		t.Errorf("Fallback must not be appended twice, got order %v", explicit.order)
	}
}
