package tabular

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestResolve_ExactMatchWins(t *testing.T) {
	table := New([]string{"Date", "Variation %", "Variation annuelle"}, nil)

	name, idx := table.Resolve(nil, "variation")
	assert.Equal(t, "variation", name)
	assert.Equal(t, 1, idx)
}

func TestResolve_CandidateOrder(t *testing.T) {
	table := New([]string{"date", "cloture", "close"}, nil)

	// The first candidate with an exact match wins, even when a later
	// candidate also matches.
	name, idx := table.Resolve(nil, "close", "cloture")
	assert.Equal(t, "close", name)
	assert.Equal(t, 2, idx)
}

func TestResolve_SubstringFallback(t *testing.T) {
	table := New([]string{"Date", "RSI court terme", "RSI moyen terme"}, nil)

	name, idx := table.Resolve(nil, "rsi_court")
	assert.Equal(t, "rsi_court_terme", name)
	assert.Equal(t, 1, idx)
}

func TestResolve_SubstringTieGoesToFirstColumn(t *testing.T) {
	table := New([]string{"mm50 bis", "autre mm50"}, nil)

	name, idx := table.Resolve(nil, "mm50")
	assert.Equal(t, "mm50_bis", name)
	assert.Equal(t, 0, idx)
}

func TestResolve_ExactBeatsSubstring(t *testing.T) {
	// A later column with an exact match beats an earlier substring match.
	table := New([]string{"variation cumulee", "variation"}, nil)

	name, idx := table.Resolve(nil, "variation")
	assert.Equal(t, "variation", name)
	assert.Equal(t, 1, idx)
}

func TestResolve_AccentedCandidate(t *testing.T) {
	table := New([]string{"cloture"}, nil)

	name, idx := table.Resolve(nil, "Clôture")
	assert.Equal(t, "cloture", name)
	assert.Equal(t, 0, idx)
}

func TestResolve_NoMatch(t *testing.T) {
	table := New([]string{"date", "close"}, nil)

	name, idx := table.Resolve(nil, "volume", "quantite")
	assert.Equal(t, "", name)
	assert.Equal(t, -1, idx)
}
