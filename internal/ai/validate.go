package ai

import (
	"encoding/json"
	"strings"

	resumeliftErrors "resumelift/internal/errors"
	"resumelift/internal/types"
)

const defaultMinOptimizedLength = 100

// Validator turns a provider's raw response text into the canonical
// optimization result. Every provider funnels its output through here, so
// the rest of the codebase never sees malformed or half-structured payloads.
type Validator struct {
	minOptimizedLength int
	logger             *resumeliftErrors.Logger
}

// NewValidator creates a validator. minOptimizedLength <= 0 selects the default.
func NewValidator(minOptimizedLength int, logger *resumeliftErrors.Logger) *Validator {
	if minOptimizedLength <= 0 {
		minOptimizedLength = defaultMinOptimizedLength
	}
	return &Validator{
		minOptimizedLength: minOptimizedLength,
		logger:             logger,
	}
}

// Validate parses and normalizes a raw provider response. The pipeline is:
// direct structured parse, balanced-object salvage from surrounding prose,
// then unstructured degradation when the text itself is usable. Responses
// that survive none of these fail with INVALID_RESPONSE.
func (v *Validator) Validate(raw, providerName string) (types.OptimizationResult, error) {
	cleaned := stripCodeFences(raw)

	if result, err := v.parseStructured(cleaned, providerName); err == nil {
		return result, nil
	} else {
		v.logger.Debug("Direct response parse failed, trying salvage",
			"provider", providerName,
			"error", err.Error())
	}

	if salvaged, ok := balancedJSONObject(cleaned); ok {
		if result, err := v.parseStructured(salvaged, providerName); err == nil {
			v.logger.Info("Recovered structured response from surrounding text",
				"provider", providerName)
			return result, nil
		}
	}

	// The model wrote prose instead of JSON. If the prose is substantial,
	// treat it as the optimized text with a neutral score.
	trimmed := strings.TrimSpace(raw)
	if len(trimmed) >= v.minOptimizedLength {
		v.logger.Warn("Provider response is unstructured, degrading to raw text",
			"provider", providerName,
			"length", len(trimmed))
		return types.OptimizationResult{
			OptimizedText: trimmed,
			Suggestions:   []types.Suggestion{},
			Keywords:      []types.Keyword{},
			ATSScore:      defaultATSScore,
			Provider:      providerName,
			Degraded:      true,
		}, nil
	}

	return types.OptimizationResult{}, resumeliftErrors.NewAIError(
		resumeliftErrors.ErrCodeInvalidResponse,
		"Provider response is neither valid JSON nor usable text", nil).
		WithContext("provider", providerName).
		WithContext("response_length", len(trimmed))
}

// parseStructured unmarshals one JSON object and normalizes it
func (v *Validator) parseStructured(payload, providerName string) (types.OptimizationResult, error) {
	var fields map[string]json.RawMessage
	if err := json.Unmarshal([]byte(payload), &fields); err != nil {
		return types.OptimizationResult{}, err
	}

	result := normalizeResult(fields)
	result.Provider = providerName

	if len(result.OptimizedText) < v.minOptimizedLength {
		return types.OptimizationResult{}, resumeliftErrors.NewAIError(
			resumeliftErrors.ErrCodeInvalidResponse,
			"Optimized text is shorter than the required minimum", nil).
			WithContext("provider", providerName).
			WithContext("length", len(result.OptimizedText)).
			WithContext("min_length", v.minOptimizedLength)
	}

	return result, nil
}

// stripCodeFences removes a surrounding markdown code fence, with or without
// a language tag. Models wrap JSON this way often enough to handle it first.
func stripCodeFences(s string) string {
	trimmed := strings.TrimSpace(s)
	if !strings.HasPrefix(trimmed, "```") {
		return trimmed
	}

	trimmed = strings.TrimPrefix(trimmed, "```json")
	trimmed = strings.TrimPrefix(trimmed, "```")
	trimmed = strings.TrimSuffix(strings.TrimSpace(trimmed), "```")
	return strings.TrimSpace(trimmed)
}

// balancedJSONObject extracts the first balanced top-level JSON object from
// text, tolerating braces inside string literals.
func balancedJSONObject(s string) (string, bool) {
	start := strings.IndexByte(s, '{')
	if start < 0 {
		return "", false
	}

	depth := 0
	inString := false
	escaped := false
	for i := start; i < len(s); i++ {
		c := s[i]
		if escaped {
			escaped = false
			continue
		}
		switch c {
		case '\\':
			if inString {
				escaped = true
			}
		case '"':
			inString = !inString
		case '{':
			if !inString {
				depth++
			}
		case '}':
			if !inString {
				depth--
				if depth == 0 {
					return s[start : i+1], true
				}
			}
		}
	}

	return "", false
}
