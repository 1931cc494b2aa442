package formatters

import (
	"encoding/json"
	"fmt"
	"strings"

	"resumelift/internal/types"
)

// Formatter interface for different output formats
type Formatter interface {
	Format(data any) (string, error)
	SupportedType() string
}

// FormatterRegistry manages all available formatters
type FormatterRegistry struct {
	formatters map[string]map[string]Formatter // format -> type -> formatter
}

// NewFormatterRegistry creates a new formatter registry with default formatters
func NewFormatterRegistry() *FormatterRegistry {
	registry := &FormatterRegistry{
		formatters: make(map[string]map[string]Formatter),
	}

	// Register default formatters
	registry.RegisterFormatter("json", "any", &JSONFormatter{})
	registry.RegisterFormatter("text", "OptimizationResult", &OptimizationTextFormatter{})
	registry.RegisterFormatter("markdown", "OptimizationResult", &OptimizationMarkdownFormatter{})
	registry.RegisterFormatter("text", "ScoreBreakdown", &ScoreTextFormatter{})
	registry.RegisterFormatter("markdown", "ScoreBreakdown", &ScoreMarkdownFormatter{})

	return registry
}

// RegisterFormatter registers a new formatter for a specific format and data type
func (fr *FormatterRegistry) RegisterFormatter(format, dataType string, formatter Formatter) {
	if fr.formatters[format] == nil {
		fr.formatters[format] = make(map[string]Formatter)
	}
	fr.formatters[format][dataType] = formatter
}

// Format formats data using the appropriate formatter
func (fr *FormatterRegistry) Format(data any, format string) (string, error) {
	dataType := getDataType(data)

	// Try specific formatter first
	if formatters, exists := fr.formatters[format]; exists {
		if formatter, exists := formatters[dataType]; exists {
			return formatter.Format(data)
		}
		// Fall back to generic formatter
		if formatter, exists := formatters["any"]; exists {
			return formatter.Format(data)
		}
	}

	return "", fmt.Errorf("no formatter found for format '%s' and type '%s'", format, dataType)
}

// GetSupportedFormats returns all supported formats
func (fr *FormatterRegistry) GetSupportedFormats() []string {
	formats := make([]string, 0, len(fr.formatters))
	for format := range fr.formatters {
		formats = append(formats, format)
	}
	return formats
}

func getDataType(data any) string {
	switch data.(type) {
	case types.OptimizationResult:
		return "OptimizationResult"
	case types.ScoreBreakdown:
		return "ScoreBreakdown"
	default:
		return "any"
	}
}

// JSONFormatter handles JSON formatting for any data type
type JSONFormatter struct{}

func (jf *JSONFormatter) Format(data any) (string, error) {
	jsonData, err := json.MarshalIndent(data, "", "  ")
	if err != nil {
		return "", err
	}
	return string(jsonData), nil
}

func (jf *JSONFormatter) SupportedType() string {
	return "any"
}

// OptimizationTextFormatter handles text formatting for optimization results
type OptimizationTextFormatter struct{}

func (otf *OptimizationTextFormatter) Format(data any) (string, error) {
	result, ok := data.(types.OptimizationResult)
	if !ok {
		return "", fmt.Errorf("expected OptimizationResult, got %T", data)
	}

	var output strings.Builder

	output.WriteString("=== OPTIMIZED RESUME ===\n\n")
	output.WriteString(result.OptimizedText)
	output.WriteString("\n\n")

	output.WriteString("=== ATS SCORE ===\n")
	output.WriteString(fmt.Sprintf("Score: %d/100\n", result.ATSScore))
	if result.Provider != "" {
		output.WriteString(fmt.Sprintf("Provider: %s\n", result.Provider))
	}
	if result.Degraded {
		output.WriteString("Note: the provider response could not be fully parsed; suggestions are unavailable.\n")
	}
	output.WriteString("\n")

	if len(result.Suggestions) > 0 {
		output.WriteString("=== SUGGESTIONS ===\n\n")
		for i, s := range result.Suggestions {
			output.WriteString(fmt.Sprintf("%d. [%s] %s\n", i+1, s.Category, s.Text))
			if s.ImpactDescription != "" {
				output.WriteString("   Impact: ")
				output.WriteString(s.ImpactDescription)
				output.WriteString("\n")
			}
			output.WriteString("\n")
		}
	}

	if len(result.Keywords) > 0 {
		output.WriteString("=== KEYWORD SUGGESTIONS ===\n")
		for _, k := range result.Keywords {
			if k.Category != "" {
				output.WriteString(fmt.Sprintf("- %s (%s)\n", k.Text, k.Category))
			} else {
				output.WriteString(fmt.Sprintf("- %s\n", k.Text))
			}
		}
	}

	return output.String(), nil
}

func (otf *OptimizationTextFormatter) SupportedType() string {
	return "OptimizationResult"
}

// OptimizationMarkdownFormatter handles markdown formatting for optimization results
type OptimizationMarkdownFormatter struct{}

func (omf *OptimizationMarkdownFormatter) Format(data any) (string, error) {
	result, ok := data.(types.OptimizationResult)
	if !ok {
		return "", fmt.Errorf("expected OptimizationResult, got %T", data)
	}

	var output strings.Builder

	output.WriteString("# Optimized Resume\n\n")
	output.WriteString(result.OptimizedText)
	output.WriteString("\n\n")

	output.WriteString("## ATS Score\n\n")
	output.WriteString(fmt.Sprintf("**Score:** %d/100\n\n", result.ATSScore))
	if result.Provider != "" {
		output.WriteString(fmt.Sprintf("**Provider:** %s\n\n", result.Provider))
	}
	if result.Degraded {
		output.WriteString("> The provider response could not be fully parsed; suggestions are unavailable.\n\n")
	}

	if len(result.Suggestions) > 0 {
		output.WriteString("## Suggestions\n\n")
		for i, s := range result.Suggestions {
			output.WriteString(fmt.Sprintf("### %d. %s\n\n", i+1, s.Text))
			output.WriteString(fmt.Sprintf("**Category:** %s\n\n", s.Category))
			if s.ImpactDescription != "" {
				output.WriteString("**Impact:** ")
				output.WriteString(s.ImpactDescription)
				output.WriteString("\n\n")
			}
		}
	}

	if len(result.Keywords) > 0 {
		output.WriteString("## Keyword Suggestions\n\n")
		for _, k := range result.Keywords {
			if k.Category != "" {
				output.WriteString(fmt.Sprintf("- **%s** (%s)\n", k.Text, k.Category))
			} else {
				output.WriteString(fmt.Sprintf("- **%s**\n", k.Text))
			}
		}
		output.WriteString("\n")
	}

	return output.String(), nil
}

func (omf *OptimizationMarkdownFormatter) SupportedType() string {
	return "OptimizationResult"
}

// ScoreTextFormatter handles text formatting for score breakdowns
type ScoreTextFormatter struct{}

func (stf *ScoreTextFormatter) Format(data any) (string, error) {
	result, ok := data.(types.ScoreBreakdown)
	if !ok {
		return "", fmt.Errorf("expected ScoreBreakdown, got %T", data)
	}

	var output strings.Builder

	output.WriteString("=== ATS SCORE BREAKDOWN ===\n\n")
	output.WriteString(fmt.Sprintf("Base score:        %.1f\n", result.Base))
	output.WriteString(fmt.Sprintf("Suggestion points: %.1f\n", result.SuggestionPoints))
	output.WriteString(fmt.Sprintf("Keyword points:    %.1f\n", result.KeywordPoints))
	output.WriteString(fmt.Sprintf("Total:             %.1f/100\n", result.Total))
	output.WriteString(fmt.Sprintf("Potential:         %.1f/100\n", result.Potential))

	if len(result.Sections) > 0 {
		output.WriteString("\n=== SECTIONS ===\n")
		for name, section := range result.Sections {
			status := "missing"
			if section.Found {
				status = "found"
			}
			output.WriteString(fmt.Sprintf("- %s: %.1f (weight %.2f, %s)\n",
				name, section.Score, section.Weight, status))
		}
	}

	return output.String(), nil
}

func (stf *ScoreTextFormatter) SupportedType() string {
	return "ScoreBreakdown"
}

// ScoreMarkdownFormatter handles markdown formatting for score breakdowns
type ScoreMarkdownFormatter struct{}

func (smf *ScoreMarkdownFormatter) Format(data any) (string, error) {
	result, ok := data.(types.ScoreBreakdown)
	if !ok {
		return "", fmt.Errorf("expected ScoreBreakdown, got %T", data)
	}

	var output strings.Builder

	output.WriteString("# ATS Score Breakdown\n\n")
	output.WriteString("| Component | Points |\n")
	output.WriteString("|-----------|--------|\n")
	output.WriteString(fmt.Sprintf("| Base score | %.1f |\n", result.Base))
	output.WriteString(fmt.Sprintf("| Suggestion points | %.1f |\n", result.SuggestionPoints))
	output.WriteString(fmt.Sprintf("| Keyword points | %.1f |\n", result.KeywordPoints))
	output.WriteString(fmt.Sprintf("| **Total** | **%.1f/100** |\n", result.Total))
	output.WriteString(fmt.Sprintf("| Potential | %.1f/100 |\n\n", result.Potential))

	if len(result.Sections) > 0 {
		output.WriteString("## Sections\n\n")
		for name, section := range result.Sections {
			status := "missing"
			if section.Found {
				status = "found"
			}
			output.WriteString(fmt.Sprintf("- **%s**: %.1f (weight %.2f, %s)\n",
				name, section.Score, section.Weight, status))
		}
		output.WriteString("\n")
	}

	return output.String(), nil
}

func (smf *ScoreMarkdownFormatter) SupportedType() string {
	return "ScoreBreakdown"
}

// Global formatter registry
var GlobalRegistry = NewFormatterRegistry()
