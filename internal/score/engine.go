package score

import (
	"math"

	"resumelift/internal/impact"
	"resumelift/internal/types"
)

const (
	maxScore = 100
	// Diminishing-returns divisor for high base scores: the closer a resume
	// already is to perfect, the less each improvement can add.
	baseFactorDivisor = 120
	minBaseFactor     = 0.1
	// Crowding divisor for pending items: the longer the pending list, the
	// heavier the discount on the promised sum.
	crowdingDivisor = 20
)

// Engine computes ATS score breakdowns from a base score plus suggestion and
// keyword point impacts. All methods are pure; Engine carries no state.
type Engine struct{}

func NewEngine() *Engine {
	return &Engine{}
}

// SuggestionPointImpact converts a suggestion's 1-10 impact score into ATS
// points. The category weight is applied here on top of its contribution to
// the impact score itself; the double weighting is part of the established
// scoring contract and both sides round the same way.
func (e *Engine) SuggestionPointImpact(s types.Suggestion) float64 {
	impactScore := float64(impact.AnalyzeSuggestionImpact(s))
	weight := impact.CategoryWeight(s.Category)
	return round1(impactScore / 10 * 3 * weight)
}

// KeywordPointImpact converts a keyword's 0-1 impact value into ATS points.
func (e *Engine) KeywordPointImpact(k types.Keyword, resumeContent string) float64 {
	_, impactValue := impact.AnalyzeKeywordImpact(k.Text, resumeContent)
	return round1(impactValue * 2)
}

// PotentialPoints sums the point impacts of everything not yet applied, then
// discounts the whole sum by how crowded the pending list is, so huge
// suggestion lists cannot promise absurd gains.
func (e *Engine) PotentialPoints(suggestions []types.Suggestion, keywords []types.Keyword, resumeContent string) float64 {
	var sum float64
	n := 0

	for _, s := range suggestions {
		if s.IsApplied {
			continue
		}
		sum += e.SuggestionPointImpact(s)
		n++
	}
	for _, k := range keywords {
		if k.IsApplied {
			continue
		}
		sum += e.KeywordPointImpact(k, resumeContent)
		n++
	}

	if n == 0 {
		return 0
	}
	return round1(sum * crowdingFactor(n))
}

// DetailedATSScore computes the full breakdown for a resume: applied
// suggestion and keyword points on top of the base score, the remaining
// potential, and per-section heuristic scores. The derived per-item fields
// (impact score, point impact, keyword category and impact) are written back
// into the given slices; recomputing from the analyzer is the source of
// truth, so repeated calls yield the same values.
func (e *Engine) DetailedATSScore(base float64, suggestions []types.Suggestion, keywords []types.Keyword, resumeContent string) types.ScoreBreakdown {
	base = clampScore(base)
	baseFactor := math.Max(minBaseFactor, 1-base/baseFactorDivisor)

	var suggestionSum, keywordSum float64
	for i := range suggestions {
		s := &suggestions[i]
		s.ImpactScore = impact.AnalyzeSuggestionImpact(*s)
		s.PointImpact = e.SuggestionPointImpact(*s)
		if s.IsApplied {
			suggestionSum += s.PointImpact
		}
	}
	for i := range keywords {
		k := &keywords[i]
		k.Category, k.Impact = impact.AnalyzeKeywordImpact(k.Text, resumeContent)
		k.PointImpact = round1(k.Impact * 2)
		if k.IsApplied {
			keywordSum += k.PointImpact
		}
	}

	suggestionPoints := round1(suggestionSum * baseFactor)
	keywordPoints := round1(keywordSum * baseFactor)

	total := math.Min(maxScore, base+suggestionPoints+keywordPoints)
	potential := math.Min(maxScore, total+e.PotentialPoints(suggestions, keywords, resumeContent))

	return types.ScoreBreakdown{
		Base:             base,
		SuggestionPoints: suggestionPoints,
		KeywordPoints:    keywordPoints,
		Total:            round1(total),
		Potential:        round1(potential),
		Sections:         e.EvaluateSections(resumeContent),
	}
}

// SectionBaseScore derives a base score from section analysis alone: the
// weight-averaged section scores. Missing sections count as zero, so a resume
// with no recognizable structure starts near the bottom.
func (e *Engine) SectionBaseScore(content string) float64 {
	sections := e.EvaluateSections(content)
	if len(sections) == 0 {
		return 0
	}

	var weighted, weights float64
	for _, section := range sections {
		weighted += section.Score * section.Weight
		weights += section.Weight
	}
	if weights == 0 {
		return 0
	}
	return round1(weighted / weights)
}

func crowdingFactor(pending int) float64 {
	return 1 / (1 + float64(pending)/crowdingDivisor)
}

func clampScore(v float64) float64 {
	if math.IsNaN(v) || v < 0 {
		return 0
	}
	if v > maxScore {
		return maxScore
	}
	return v
}

func round1(v float64) float64 {
	return math.Round(v*10) / 10
}
