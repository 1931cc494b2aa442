package impact

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"resumelift/internal/types"
)

func TestAnalyzeSuggestionImpact(t *testing.T) {
	tests := []struct {
		name       string
		suggestion types.Suggestion
		want       int
	}{
		{
			name: "skills category with no description stays at category base",
			suggestion: types.Suggestion{
				Category: types.CategorySkills,
			},
			want: 9,
		},
		{
			name: "language category floors low",
			suggestion: types.Suggestion{
				Category: types.CategoryLanguage,
			},
			want: 4,
		},
		{
			name: "unknown category uses default weight",
			suggestion: types.Suggestion{
				Category: "something-else",
			},
			want: 6,
		},
		{
			name: "critical wording pulls a weak category upward",
			suggestion: types.Suggestion{
				Category:          types.CategoryLanguage,
				ImpactDescription: "This is a critical fix for recruiters",
			},
			want: 7, // 4 + (10-4)/2
		},
		{
			name: "minimal wording pulls a strong category downward",
			suggestion: types.Suggestion{
				Category:          types.CategorySkills,
				ImpactDescription: "minimal improvement to readability",
			},
			want: 5, // 9 + (1-9)/2
		},
		{
			name: "quantified metric adds a point",
			suggestion: types.Suggestion{
				Category:          types.CategoryContent,
				ImpactDescription: "Could improve response rate by 25%",
			},
			want: 8,
		},
		{
			name: "ats mention adds a point",
			suggestion: types.Suggestion{
				Category:          types.CategoryContent,
				ImpactDescription: "Improves ATS parsing of the skills block",
			},
			want: 8,
		},
		{
			name: "bonuses stack but clamp at ten",
			suggestion: types.Suggestion{
				Category:          types.CategoryATS,
				ImpactDescription: "critical: boosts ATS scanning accuracy by 40%",
			},
			want: 10,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := AnalyzeSuggestionImpact(tt.suggestion)
			assert.Equal(t, tt.want, got)
			assert.GreaterOrEqual(t, got, 1)
			assert.LessOrEqual(t, got, 10)
		})
	}
}

func TestAnalyzeKeywordImpact(t *testing.T) {
	resume := "Seasoned engineer. Led a team building Kubernetes operators in Go."

	t.Run("technical keyword absent from resume", func(t *testing.T) {
		category, impact := AnalyzeKeywordImpact("Terraform", resume)
		assert.Equal(t, types.KeywordTechnical, category)
		assert.InDelta(t, 0.9, impact, 1e-9)
	})

	t.Run("technical keyword already present is penalized", func(t *testing.T) {
		category, impact := AnalyzeKeywordImpact("Kubernetes", resume)
		assert.Equal(t, types.KeywordTechnical, category)
		assert.InDelta(t, 0.6, impact, 1e-9)
	})

	t.Run("soft skill classification", func(t *testing.T) {
		category, impact := AnalyzeKeywordImpact("stakeholder communication", resume)
		assert.Equal(t, types.KeywordSoftSkill, category)
		assert.InDelta(t, 0.6, impact, 1e-9)
	})

	t.Run("action verb present in resume", func(t *testing.T) {
		category, impact := AnalyzeKeywordImpact("led", resume)
		assert.Equal(t, types.KeywordAction, category)
		assert.InDelta(t, 0.2, impact, 1e-9)
	})

	t.Run("industry keyword", func(t *testing.T) {
		category, impact := AnalyzeKeywordImpact("HIPAA compliance", resume)
		assert.Equal(t, types.KeywordIndustry, category)
		assert.InDelta(t, 0.8, impact, 1e-9)
	})

	t.Run("general keyword never drops below the floor", func(t *testing.T) {
		category, impact := AnalyzeKeywordImpact("engineer", resume)
		assert.Equal(t, types.KeywordGeneral, category)
		assert.InDelta(t, 0.1, impact, 1e-9)
	})
}

func TestImpactLevel(t *testing.T) {
	assert.Equal(t, types.ImpactCritical, ImpactLevel(0.9))
	assert.Equal(t, types.ImpactCritical, ImpactLevel(0.8))
	assert.Equal(t, types.ImpactHigh, ImpactLevel(0.7))
	assert.Equal(t, types.ImpactMedium, ImpactLevel(0.45))
	assert.Equal(t, types.ImpactLow, ImpactLevel(0.39))
	assert.Equal(t, types.ImpactLow, ImpactLevel(0))
}
