package score

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"resumelift/internal/types"
)

func newTestSession(t *testing.T) *Session {
	t.Helper()
	return NewSession(
		NewEngine(),
		nil,
		70,
		"Led engineering teams.",
		[]types.Suggestion{skillsSuggestion(false)},
		[]types.Keyword{terraformKeyword(false)},
	)
}

func TestSessionApplyAndReset(t *testing.T) {
	s := newTestSession(t)

	assert.InDelta(t, 70.0, s.Breakdown().Total, 1e-9)

	total := s.ApplySuggestion(0)
	assert.InDelta(t, 71.0, total, 1e-9)
	assert.True(t, s.Suggestions()[0].IsApplied)

	total = s.ApplyKeyword(0)
	assert.InDelta(t, 71.8, total, 1e-9)

	// Toggling back removes the points again
	total = s.ApplySuggestion(0)
	assert.InDelta(t, 70.8, total, 1e-9)

	total = s.ResetAllChanges()
	assert.InDelta(t, 70.0, total, 1e-9)
	assert.False(t, s.Suggestions()[0].IsApplied)
	assert.False(t, s.Keywords()[0].IsApplied)
}

func TestSessionApplyAll(t *testing.T) {
	s := newTestSession(t)

	total := s.ApplyAllSuggestions()
	assert.InDelta(t, 71.0, total, 1e-9)

	total = s.ApplyAllKeywords()
	assert.InDelta(t, 71.8, total, 1e-9)

	// Bulk apply on an already-applied session changes nothing
	assert.InDelta(t, total, s.ApplyAllSuggestions(), 1e-9)
}

func TestSessionSimulateDoesNotMutate(t *testing.T) {
	s := newTestSession(t)
	before := s.Breakdown()

	sim := s.SimulateSuggestion(0)
	assert.InDelta(t, 71.0, sim.NewScore, 1e-9)
	assert.InDelta(t, 1.0, sim.PointImpact, 1e-9)
	assert.NotEmpty(t, sim.Description)

	sim = s.SimulateKeyword(0)
	assert.InDelta(t, 70.8, sim.NewScore, 1e-9)
	assert.InDelta(t, 0.8, sim.PointImpact, 1e-9)

	assert.Equal(t, before, s.Breakdown())
	assert.False(t, s.Suggestions()[0].IsApplied)
	assert.False(t, s.Keywords()[0].IsApplied)
}

func TestSessionInvalidInputIsNoOp(t *testing.T) {
	s := newTestSession(t)
	before := s.Breakdown().Total

	assert.InDelta(t, before, s.ApplySuggestion(-1), 1e-9)
	assert.InDelta(t, before, s.ApplySuggestion(5), 1e-9)
	assert.InDelta(t, before, s.ApplyKeyword(99), 1e-9)
	assert.InDelta(t, before, s.SimulateSuggestion(17).NewScore, 1e-9)
	assert.InDelta(t, before, s.UpdateBaseScore(150), 1e-9)
	assert.InDelta(t, before, s.UpdateBaseScore(-3), 1e-9)
	assert.InDelta(t, before, s.Breakdown().Total, 1e-9)
}

func TestSessionUpdateBaseScore(t *testing.T) {
	s := newTestSession(t)
	s.ApplySuggestion(0)

	// Lower base gets a larger diminishing factor, so the same applied
	// suggestion is worth more points.
	total := s.UpdateBaseScore(50)
	assert.InDelta(t, 51.4, total, 1e-9)

	total = s.UpdateBaseScore(100)
	assert.InDelta(t, 100.0, total, 1e-9)
}

func TestSessionUpdateContent(t *testing.T) {
	s := newTestSession(t)
	s.ApplyKeyword(0)
	assert.InDelta(t, 70.8, s.Breakdown().Total, 1e-9)

	// Once the resume already mentions the keyword its impact collapses:
	// 0.6 * 2 = 1.2 points before the base factor.
	s.UpdateContent("Automated provisioning with Terraform across three clouds.")
	assert.InDelta(t, 70.5, s.Breakdown().Total, 1e-9)
}
