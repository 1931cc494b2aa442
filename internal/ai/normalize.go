package ai

import (
	"encoding/json"
	"strings"

	"github.com/google/uuid"

	"resumelift/internal/types"
)

// Defensive bounds on what a provider response may contribute. Anything
// beyond them is silently truncated rather than rejected.
const (
	maxSuggestions  = 5
	maxKeywords     = 10
	defaultATSScore = 65
)

// normalizeResult maps a parsed provider payload onto the canonical result
// shape. Providers disagree on field naming (camelCase vs snake_case) and on
// whether keywords are strings or objects; all of that is absorbed here.
func normalizeResult(fields map[string]json.RawMessage) types.OptimizationResult {
	result := types.OptimizationResult{
		OptimizedText: pickString(fields,
			"optimizedText", "optimized_text",
			"optimizedResume", "optimized_resume",
			"optimizedContent", "optimized_content"),
		Suggestions: []types.Suggestion{},
		Keywords:    []types.Keyword{},
		ATSScore:    clampATSScore(pickNumber(fields, "atsScore", "ats_score", "score")),
	}

	if raw, ok := pickRaw(fields, "suggestions"); ok {
		var items []json.RawMessage
		if err := json.Unmarshal(raw, &items); err == nil {
			for _, item := range items {
				if s, ok := normalizeSuggestion(item); ok {
					result.Suggestions = append(result.Suggestions, s)
					if len(result.Suggestions) == maxSuggestions {
						break
					}
				}
			}
		}
	}

	if raw, ok := pickRaw(fields, "keywordSuggestions", "keyword_suggestions", "keywords"); ok {
		var items []json.RawMessage
		if err := json.Unmarshal(raw, &items); err == nil {
			for _, item := range items {
				if k, ok := normalizeKeyword(item); ok {
					result.Keywords = append(result.Keywords, k)
					if len(result.Keywords) == maxKeywords {
						break
					}
				}
			}
		}
	}

	return result
}

// normalizeSuggestion accepts either a suggestion object or a bare string
func normalizeSuggestion(raw json.RawMessage) (types.Suggestion, bool) {
	var text string
	if err := json.Unmarshal(raw, &text); err == nil {
		text = strings.TrimSpace(text)
		if text == "" {
			return types.Suggestion{}, false
		}
		return types.Suggestion{
			ID:   uuid.NewString(),
			Text: text,
		}, true
	}

	var fields map[string]json.RawMessage
	if err := json.Unmarshal(raw, &fields); err != nil {
		return types.Suggestion{}, false
	}

	s := types.Suggestion{
		ID:       pickString(fields, "id"),
		Category: strings.ToLower(pickString(fields, "category")),
		Text:     strings.TrimSpace(pickString(fields, "text", "suggestion", "description")),
		ImpactDescription: pickString(fields,
			"impactDescription", "impact_description", "impact"),
	}
	if s.Text == "" {
		return types.Suggestion{}, false
	}
	if s.ID == "" {
		s.ID = uuid.NewString()
	}
	return s, true
}

// normalizeKeyword accepts either a keyword object or a bare string
func normalizeKeyword(raw json.RawMessage) (types.Keyword, bool) {
	var text string
	if err := json.Unmarshal(raw, &text); err == nil {
		text = strings.TrimSpace(text)
		if text == "" {
			return types.Keyword{}, false
		}
		return types.Keyword{
			ID:   uuid.NewString(),
			Text: text,
		}, true
	}

	var fields map[string]json.RawMessage
	if err := json.Unmarshal(raw, &fields); err != nil {
		return types.Keyword{}, false
	}

	k := types.Keyword{
		ID:       pickString(fields, "id"),
		Text:     strings.TrimSpace(pickString(fields, "text", "keyword", "value")),
		Category: strings.ToLower(pickString(fields, "category")),
	}
	if k.Text == "" {
		return types.Keyword{}, false
	}
	if k.ID == "" {
		k.ID = uuid.NewString()
	}
	return k, true
}

// clampATSScore forces a reported score into [0,100]; nil means the provider
// omitted it and the neutral default is used.
func clampATSScore(score *float64) int {
	if score == nil {
		return defaultATSScore
	}
	switch {
	case *score < 0:
		return 0
	case *score > 100:
		return 100
	default:
		return int(*score)
	}
}

func pickRaw(fields map[string]json.RawMessage, keys ...string) (json.RawMessage, bool) {
	for _, key := range keys {
		if raw, ok := fields[key]; ok {
			return raw, true
		}
	}
	return nil, false
}

func pickString(fields map[string]json.RawMessage, keys ...string) string {
	raw, ok := pickRaw(fields, keys...)
	if !ok {
		return ""
	}
	var s string
	if err := json.Unmarshal(raw, &s); err != nil {
		return ""
	}
	return s
}

func pickNumber(fields map[string]json.RawMessage, keys ...string) *float64 {
	raw, ok := pickRaw(fields, keys...)
	if !ok {
		return nil
	}
	var n float64
	if err := json.Unmarshal(raw, &n); err != nil {
		// Some models quote numbers
		var s string
		if err := json.Unmarshal(raw, &s); err != nil {
			return nil
		}
		if err := json.Unmarshal([]byte(strings.TrimSpace(s)), &n); err != nil {
			return nil
		}
	}
	return &n
}
