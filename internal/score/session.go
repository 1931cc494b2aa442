package score

import (
	"fmt"
	"math"

	"resumelift/internal/errors"
	"resumelift/internal/types"
)

// Session tracks suggestion and keyword application state for one scoring
// conversation. It is not safe for concurrent use; callers own one session
// per request or editing surface.
type Session struct {
	engine        *Engine
	logger        *errors.Logger
	baseScore     float64
	resumeContent string
	suggestions   []types.Suggestion
	keywords      []types.Keyword
	breakdown     types.ScoreBreakdown
}

// NewSession builds a session around an optimization result's suggestions and
// keywords and computes the initial breakdown.
func NewSession(engine *Engine, logger *errors.Logger, baseScore float64, resumeContent string, suggestions []types.Suggestion, keywords []types.Keyword) *Session {
	s := &Session{
		engine:        engine,
		logger:        logger,
		baseScore:     clampScore(baseScore),
		resumeContent: resumeContent,
		suggestions:   append([]types.Suggestion(nil), suggestions...),
		keywords:      append([]types.Keyword(nil), keywords...),
	}
	s.recompute()
	return s
}

// Breakdown returns the current score breakdown.
func (s *Session) Breakdown() types.ScoreBreakdown {
	return s.breakdown
}

// Suggestions returns the session's suggestion state.
func (s *Session) Suggestions() []types.Suggestion {
	return append([]types.Suggestion(nil), s.suggestions...)
}

// Keywords returns the session's keyword state.
func (s *Session) Keywords() []types.Keyword {
	return append([]types.Keyword(nil), s.keywords...)
}

// ApplySuggestion toggles the suggestion at index and returns the new total.
// An out-of-range index is a logged no-op.
func (s *Session) ApplySuggestion(index int) float64 {
	if index < 0 || index >= len(s.suggestions) {
		s.logInvalidInput("suggestion index out of range", "index", index, "count", len(s.suggestions))
		return s.breakdown.Total
	}
	s.suggestions[index].IsApplied = !s.suggestions[index].IsApplied
	s.recompute()
	return s.breakdown.Total
}

// ApplyKeyword toggles the keyword at index and returns the new total.
func (s *Session) ApplyKeyword(index int) float64 {
	if index < 0 || index >= len(s.keywords) {
		s.logInvalidInput("keyword index out of range", "index", index, "count", len(s.keywords))
		return s.breakdown.Total
	}
	s.keywords[index].IsApplied = !s.keywords[index].IsApplied
	s.recompute()
	return s.breakdown.Total
}

// SimulateSuggestion reports what the total would become if the suggestion at
// index were toggled, without changing session state.
func (s *Session) SimulateSuggestion(index int) types.SimulationResult {
	if index < 0 || index >= len(s.suggestions) {
		s.logInvalidInput("suggestion index out of range", "index", index, "count", len(s.suggestions))
		return types.SimulationResult{NewScore: s.breakdown.Total}
	}

	cloned := append([]types.Suggestion(nil), s.suggestions...)
	cloned[index].IsApplied = !cloned[index].IsApplied
	breakdown := s.engine.DetailedATSScore(s.baseScore, cloned, s.keywords, s.resumeContent)

	verb := "applying"
	if s.suggestions[index].IsApplied {
		verb = "reverting"
	}
	return types.SimulationResult{
		NewScore:    breakdown.Total,
		PointImpact: round1(breakdown.Total - s.breakdown.Total),
		Description: fmt.Sprintf("Effect of %s suggestion %q", verb, s.suggestions[index].Text),
	}
}

// SimulateKeyword reports what the total would become if the keyword at index
// were toggled, without changing session state.
func (s *Session) SimulateKeyword(index int) types.SimulationResult {
	if index < 0 || index >= len(s.keywords) {
		s.logInvalidInput("keyword index out of range", "index", index, "count", len(s.keywords))
		return types.SimulationResult{NewScore: s.breakdown.Total}
	}

	cloned := append([]types.Keyword(nil), s.keywords...)
	cloned[index].IsApplied = !cloned[index].IsApplied
	breakdown := s.engine.DetailedATSScore(s.baseScore, s.suggestions, cloned, s.resumeContent)

	verb := "applying"
	if s.keywords[index].IsApplied {
		verb = "reverting"
	}
	return types.SimulationResult{
		NewScore:    breakdown.Total,
		PointImpact: round1(breakdown.Total - s.breakdown.Total),
		Description: fmt.Sprintf("Effect of %s keyword %q", verb, s.keywords[index].Text),
	}
}

// ApplyAllSuggestions marks every suggestion applied and returns the new total.
func (s *Session) ApplyAllSuggestions() float64 {
	for i := range s.suggestions {
		s.suggestions[i].IsApplied = true
	}
	s.recompute()
	return s.breakdown.Total
}

// ApplyAllKeywords marks every keyword applied and returns the new total.
func (s *Session) ApplyAllKeywords() float64 {
	for i := range s.keywords {
		s.keywords[i].IsApplied = true
	}
	s.recompute()
	return s.breakdown.Total
}

// ResetAllChanges clears every applied flag and returns the total back at the
// base score.
func (s *Session) ResetAllChanges() float64 {
	for i := range s.suggestions {
		s.suggestions[i].IsApplied = false
	}
	for i := range s.keywords {
		s.keywords[i].IsApplied = false
	}
	s.recompute()
	return s.breakdown.Total
}

// UpdateContent replaces the resume content the session scores against.
// Keyword presence penalties depend on the content, so the breakdown is
// recomputed; identical content is a no-op.
func (s *Session) UpdateContent(content string) {
	if content == s.resumeContent {
		return
	}
	s.resumeContent = content
	s.recompute()
}

// UpdateBaseScore replaces the base score and recomputes on top of it. Values
// outside [0,100] or NaN are rejected without touching session state.
func (s *Session) UpdateBaseScore(base float64) float64 {
	if math.IsNaN(base) || base < 0 || base > maxScore {
		s.logInvalidInput("base score outside [0,100]", "base", base)
		return s.breakdown.Total
	}
	s.baseScore = base
	s.recompute()
	return s.breakdown.Total
}

func (s *Session) recompute() {
	s.breakdown = s.engine.DetailedATSScore(s.baseScore, s.suggestions, s.keywords, s.resumeContent)
}

func (s *Session) logInvalidInput(message string, args ...any) {
	if s.logger == nil {
		return
	}
	err := errors.NewValidationError(errors.ErrCodeInvalidScoreInput, message, nil)
	s.logger.LogError(err, "Ignoring invalid scoring input", args...)
}
