package formatters

import (
	"encoding/json"
	"strings"
	"testing"

	"resumelift/internal/types"
)

func sampleResult() types.OptimizationResult {
	return types.OptimizationResult{
		OptimizedText: "<h3>EXPERIENCE</h3><p>Built Go services.</p>",
		Suggestions: []types.Suggestion{
			{ID: "s1", Category: types.CategoryContent, Text: "Quantify achievements", ImpactDescription: "Numbers make impact concrete"},
		},
		Keywords: []types.Keyword{
			{ID: "k1", Text: "kubernetes", Category: types.KeywordTechnical},
		},
		ATSScore: 78,
		Provider: "gemini",
	}
}

func TestJSONFormatter(t *testing.T) {
	registry := NewFormatterRegistry()

	output, err := registry.Format(sampleResult(), "json")
	if err != nil {
		t.Fatal(err)
	}

	var decoded types.OptimizationResult
	if err := json.Unmarshal([]byte(output), &decoded); err != nil {
		t.Fatalf("JSON output must round-trip: %v", err)
	}
	if decoded.ATSScore != 78 {
		t.Errorf("Expected score 78, got %d", decoded.ATSScore)
	}
}

func TestOptimizationTextFormatter(t *testing.T) {
	registry := NewFormatterRegistry()

	output, err := registry.Format(sampleResult(), "text")
	if err != nil {
		t.Fatal(err)
	}

	for _, want := range []string{
		"=== OPTIMIZED RESUME ===",
		"Score: 78/100",
		"Provider: gemini",
		"[content] Quantify achievements",
		"kubernetes (technical)",
	} {
		if !strings.Contains(output, want) {
			t.Errorf("Expected text output to contain %q", want)
		}
	}
}

func TestOptimizationTextFormatterDegradedNote(t *testing.T) {
	registry := NewFormatterRegistry()

	result := sampleResult()
	result.Degraded = true
	result.Suggestions = nil
	result.Keywords = nil

	output, err := registry.Format(result, "text")
	if err != nil {
		t.Fatal(err)
	}
	if !strings.Contains(output, "could not be fully parsed") {
		t.Error("Expected a degraded-result note")
	}
	if strings.Contains(output, "=== SUGGESTIONS ===") {
		t.Error("Empty suggestion list must not render a section")
	}
}

func TestOptimizationMarkdownFormatter(t *testing.T) {
	registry := NewFormatterRegistry()

	output, err := registry.Format(sampleResult(), "markdown")
	if err != nil {
		t.Fatal(err)
	}

	for _, want := range []string{
		"# Optimized Resume",
		"**Score:** 78/100",
		"## Suggestions",
		"- **kubernetes** (technical)",
	} {
		if !strings.Contains(output, want) {
			t.Errorf("Expected markdown output to contain %q", want)
		}
	}
}

func TestScoreBreakdownFormatters(t *testing.T) {
	registry := NewFormatterRegistry()

	breakdown := types.ScoreBreakdown{
		Base:             65,
		SuggestionPoints: 4.5,
		KeywordPoints:    1.8,
		Total:            71.3,
		Potential:        80.2,
		Sections: map[string]types.SectionScore{
			"experience": {Score: 85, Weight: 0.30, Found: true},
			"skills":     {Weight: 0.25},
		},
	}

	t.Run("text", func(t *testing.T) {
		output, err := registry.Format(breakdown, "text")
		if err != nil {
			t.Fatal(err)
		}
		for _, want := range []string{"Total:             71.3/100", "experience: 85.0 (weight 0.30, found)", "skills: 0.0 (weight 0.25, missing)"} {
			if !strings.Contains(output, want) {
				t.Errorf("Expected text output to contain %q", want)
			}
		}
	})

	t.Run("markdown", func(t *testing.T) {
		output, err := registry.Format(breakdown, "markdown")
		if err != nil {
			t.Fatal(err)
		}
		if !strings.Contains(output, "| **Total** | **71.3/100** |") {
			t.Error("Expected a markdown score table")
		}
	})
}

func TestUnknownFormat(t *testing.T) {
	registry := NewFormatterRegistry()

	if _, err := registry.Format(sampleResult(), "xml"); err == nil {
		t.Error("Expected an error for an unregistered format")
	}
}

func TestGenericFallbackFormatter(t *testing.T) {
	registry := NewFormatterRegistry()

	// Types without a dedicated formatter fall back to JSON for the json format
	output, err := registry.Format(map[string]int{"a": 1}, "json")
	if err != nil {
		t.Fatal(err)
	}
	if !strings.Contains(output, "\"a\": 1") {
		t.Errorf("Expected generic JSON output, got %q", output)
	}
}
