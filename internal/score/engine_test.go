package score

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"resumelift/internal/types"
)

func skillsSuggestion(applied bool) types.Suggestion {
	return types.Suggestion{
		ID:        "s-1",
		Category:  types.CategorySkills,
		Text:      "Add a dedicated technical skills section",
		IsApplied: applied,
	}
}

func terraformKeyword(applied bool) types.Keyword {
	return types.Keyword{ID: "k-1", Text: "Terraform", IsApplied: applied}
}

func TestSuggestionPointImpact(t *testing.T) {
	e := NewEngine()

	// impact score 9 on a 0.9-weight category: 9/10 * 3 * 0.9
	got := e.SuggestionPointImpact(skillsSuggestion(false))
	assert.InDelta(t, 2.4, got, 1e-9)

	got = e.SuggestionPointImpact(types.Suggestion{Category: types.CategoryLanguage})
	assert.InDelta(t, 0.5, got, 1e-9) // 4/10 * 3 * 0.4 = 0.48, rounded
}

func TestKeywordPointImpact(t *testing.T) {
	e := NewEngine()

	got := e.KeywordPointImpact(terraformKeyword(false), "Led engineering teams.")
	assert.InDelta(t, 1.8, got, 1e-9)

	// Already-present keywords are worth far less
	got = e.KeywordPointImpact(terraformKeyword(false), "Automated provisioning with Terraform.")
	assert.InDelta(t, 1.2, got, 1e-9)
}

func TestPotentialPoints(t *testing.T) {
	e := NewEngine()
	content := "Led engineering teams."

	t.Run("applied items contribute nothing", func(t *testing.T) {
		got := e.PotentialPoints(
			[]types.Suggestion{skillsSuggestion(true)},
			[]types.Keyword{terraformKeyword(true)},
			content,
		)
		assert.Zero(t, got)
	})

	t.Run("pending sum is discounted by item count", func(t *testing.T) {
		got := e.PotentialPoints(
			[]types.Suggestion{skillsSuggestion(false)},
			[]types.Keyword{terraformKeyword(false)},
			content,
		)
		// (2.4 + 1.8) / (1 + 2/20)
		assert.InDelta(t, 3.8, got, 1e-9)
	})

	t.Run("crowding grows with the pending list", func(t *testing.T) {
		one := e.PotentialPoints([]types.Suggestion{skillsSuggestion(false)}, nil, content)
		assert.InDelta(t, 2.3, one, 1e-9) // 2.4 / (1 + 1/20)

		many := make([]types.Suggestion, 10)
		for i := range many {
			many[i] = skillsSuggestion(false)
		}
		got := e.PotentialPoints(many, nil, content)
		// 24 / (1 + 10/20), well short of the undiscounted 24
		assert.InDelta(t, 16.0, got, 1e-9)
	})
}

func TestDetailedATSScorePopulatesItemImpacts(t *testing.T) {
	e := NewEngine()
	content := "Led engineering teams."
	suggestions := []types.Suggestion{skillsSuggestion(false)}
	keywords := []types.Keyword{terraformKeyword(false)}

	e.DetailedATSScore(70, suggestions, keywords, content)

	assert.Equal(t, 9, suggestions[0].ImpactScore)
	assert.InDelta(t, 2.4, suggestions[0].PointImpact, 1e-9)

	assert.Equal(t, types.KeywordTechnical, keywords[0].Category)
	assert.InDelta(t, 0.9, keywords[0].Impact, 1e-9)
	assert.InDelta(t, 1.8, keywords[0].PointImpact, 1e-9)
}

func TestDetailedATSScore(t *testing.T) {
	e := NewEngine()
	content := "Led engineering teams."
	suggestions := []types.Suggestion{skillsSuggestion(true)}
	keywords := []types.Keyword{terraformKeyword(true)}

	t.Run("applies diminishing factor to applied sums", func(t *testing.T) {
		b := e.DetailedATSScore(70, suggestions, keywords, content)
		// factor = 1 - 70/120
		assert.InDelta(t, 1.0, b.SuggestionPoints, 1e-9)
		assert.InDelta(t, 0.8, b.KeywordPoints, 1e-9)
		assert.InDelta(t, 71.8, b.Total, 1e-9)
		assert.InDelta(t, 71.8, b.Potential, 1e-9)
	})

	t.Run("near-perfect base leaves little headroom", func(t *testing.T) {
		low := e.DetailedATSScore(50, suggestions, keywords, content)
		high := e.DetailedATSScore(95, suggestions, keywords, content)
		assert.Greater(t, low.SuggestionPoints, high.SuggestionPoints)
		assert.Greater(t, high.Total, low.Total)
	})

	t.Run("potential never drops below total", func(t *testing.T) {
		for _, base := range []float64{0, 10, 42, 65, 88, 100} {
			b := e.DetailedATSScore(base, []types.Suggestion{skillsSuggestion(false)}, []types.Keyword{terraformKeyword(false)}, content)
			assert.GreaterOrEqual(t, b.Potential, b.Total, "base %v", base)
			assert.LessOrEqual(t, b.Total, 100.0)
			assert.LessOrEqual(t, b.Potential, 100.0)
		}
	})

	t.Run("out-of-range base is clamped", func(t *testing.T) {
		b := e.DetailedATSScore(-10, nil, nil, content)
		assert.Zero(t, b.Base)
		b = e.DetailedATSScore(250, nil, nil, content)
		assert.InDelta(t, 100.0, b.Base, 1e-9)
	})

	t.Run("idempotent for identical input", func(t *testing.T) {
		first := e.DetailedATSScore(70, suggestions, keywords, content)
		second := e.DetailedATSScore(70, suggestions, keywords, content)
		assert.Equal(t, first, second)
	})
}

func TestEvaluateSections(t *testing.T) {
	e := NewEngine()

	resume := `Jane Doe

SUMMARY
Senior platform engineer with a decade of experience running cloud infrastructure.

EXPERIENCE
- Led migration of 40 services to Kubernetes, cutting costs by 30%
- Built the on-call rotation and incident process for a 25-engineer org
- Scaled the ingest pipeline to 2M events per minute

SKILLS
Go, Kubernetes, Terraform, PostgreSQL, Kafka

EDUCATION
BSc Computer Science`

	sections := e.EvaluateSections(resume)
	require.NotNil(t, sections)

	t.Run("found sections score at least the 50 floor", func(t *testing.T) {
		for _, name := range []string{"summary", "experience", "skills", "education"} {
			sec := sections[name]
			assert.True(t, sec.Found, name)
			assert.GreaterOrEqual(t, sec.Score, 50.0, name)
		}
	})

	t.Run("experience earns list and metric bonuses", func(t *testing.T) {
		assert.Greater(t, sections["experience"].Score, sections["education"].Score)
	})

	t.Run("absent sections score zero", func(t *testing.T) {
		sec := sections["publications"]
		assert.False(t, sec.Found)
		assert.Zero(t, sec.Score)
	})

	t.Run("weights match the fixed distribution", func(t *testing.T) {
		assert.InDelta(t, 0.30, sections["experience"].Weight, 1e-9)
		assert.InDelta(t, 0.25, sections["skills"].Weight, 1e-9)
	})

	t.Run("empty content yields no sections", func(t *testing.T) {
		assert.Nil(t, e.EvaluateSections("   "))
	})
}

func TestSectionBaseScore(t *testing.T) {
	e := NewEngine()

	t.Run("empty content scores zero", func(t *testing.T) {
		assert.Zero(t, e.SectionBaseScore("  "))
	})

	t.Run("structured resume beats a plain blob", func(t *testing.T) {
		structured := e.SectionBaseScore(`SUMMARY
Engineer with a decade of experience.

EXPERIENCE
- Led migration of 40 services to Kubernetes, cutting costs by 30%

SKILLS
Go, Kubernetes, Terraform

EDUCATION
BSc Computer Science`)
		blob := e.SectionBaseScore("I did many things at many companies over many years.")

		assert.Greater(t, structured, blob)
		assert.LessOrEqual(t, structured, 100.0)
	})
}
