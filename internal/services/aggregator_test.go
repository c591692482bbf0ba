package services

import (
	"dispatch-sim/internal/domain"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestFoldSingleReportIsIdentity(t *testing.T) {
	r := &domain.ScenarioReport{
		Scenario: "base",
		Stats: domain.StatSheet{
			"A1": {PackagesDelivered: 3, TotalDistance: 12.345678},
			"A2": {},
		},
		BestAgent: "A1",
	}

	g := Fold([]*domain.ScenarioReport{r})

	assert.Equal(t, []string{"base"}, g.Scenarios)
	assert.Equal(t, *r.Stats["A1"], *g.Stats["A1"])
	assert.Equal(t, *r.Stats["A2"], *g.Stats["A2"])
	assert.Equal(t, "A1", g.BestAgent)
}

func TestFoldSumsAcrossScenarios(t *testing.T) {
	small := &domain.ScenarioReport{
		Scenario: "small",
		Stats: domain.StatSheet{
			"A1": {PackagesDelivered: 1, TotalDistance: 1},
			"A2": {PackagesDelivered: 1, TotalDistance: 3},
		},
	}
	large := &domain.ScenarioReport{
		Scenario: "large",
		Stats: domain.StatSheet{
			"A1": {PackagesDelivered: 9, TotalDistance: 90},
			"A3": {PackagesDelivered: 2, TotalDistance: 8},
		},
	}

	g := Fold([]*domain.ScenarioReport{small, nil, large})

	require.Len(t, g.Stats, 3)
	assert.Equal(t, domain.AgentStat{PackagesDelivered: 10, TotalDistance: 91}, *g.Stats["A1"])
	assert.Equal(t, domain.AgentStat{PackagesDelivered: 1, TotalDistance: 3}, *g.Stats["A2"])
	assert.Equal(t, domain.AgentStat{PackagesDelivered: 2, TotalDistance: 8}, *g.Stats["A3"])

	// An average of per-scenario efficiencies would give A1 (1+10)/2 = 5.5;
	// summed totals give 9.1, so A2 (3.0) wins.
	assert.Equal(t, "A2", g.BestAgent)
	assert.Equal(t, []string{"small", "large"}, g.Scenarios)
}

func TestFoldDoesNotAliasScenarioStats(t *testing.T) {
	r := &domain.ScenarioReport{Scenario: "s", Stats: domain.StatSheet{"A1": {PackagesDelivered: 1, TotalDistance: 2}}}

	g := Fold([]*domain.ScenarioReport{r, r})

	assert.Equal(t, domain.AgentStat{PackagesDelivered: 2, TotalDistance: 4}, *g.Stats["A1"])
	assert.Equal(t, domain.AgentStat{PackagesDelivered: 1, TotalDistance: 2}, *r.Stats["A1"])
}

func TestFoldEmpty(t *testing.T) {
	g := Fold(nil)
	assert.Empty(t, g.Stats)
	assert.Equal(t, "", g.BestAgent)
}
