package domain

import (
	"maps"
	"math"
	"slices"
	"time"
)

// GlobalScenario is the scenario name used when a GlobalReport is stored or
// published alongside per-scenario summaries.
const GlobalScenario = "__global__"

// AgentStat accumulates one agent's deliveries within a scenario (or across
// scenarios in a GlobalReport). Values are kept at full precision.
type AgentStat struct {
	PackagesDelivered int
	TotalDistance     float64
}

// Efficiency is the average trip distance per delivered package.
// It is undefined (ok == false) until the agent has delivered something.
func (s AgentStat) Efficiency() (float64, bool) {
	if s.PackagesDelivered <= 0 {
		return 0, false
	}
	return s.TotalDistance / float64(s.PackagesDelivered), true
}

// StatSheet maps agent id to its statistics.
type StatSheet map[string]*AgentStat

// AgentIDs returns the sheet's agent ids in lexicographic order.
func (s StatSheet) AgentIDs() []string {
	return slices.Sorted(maps.Keys(s))
}

// Delivered sums packages_delivered across all agents.
func (s StatSheet) Delivered() int {
	n := 0
	for _, st := range s {
		n += st.PackagesDelivered
	}
	return n
}

// Best returns the agent with the minimum efficiency among agents with at
// least one delivery. Ties keep the first id in lexicographic order.
// It returns "" when nobody has delivered anything.
func (s StatSheet) Best() string {
	best := ""
	bestEff := math.Inf(1)
	for _, id := range s.AgentIDs() {
		eff, ok := s[id].Efficiency()
		if !ok {
			continue
		}
		if best == "" || eff < bestEff {
			best = id
			bestEff = eff
		}
	}
	return best
}

// SkippedPackage records a package that did not change any agent's stats.
type SkippedPackage struct {
	Index       int
	PackageID   string
	WarehouseID string
	Reason      error
}

// ScenarioReport is the outcome of one scenario run.
type ScenarioReport struct {
	Scenario  string
	Stats     StatSheet
	BestAgent string
	Skipped   []SkippedPackage
}

// GlobalReport folds several scenario reports. Stats are summed, never averaged.
type GlobalReport struct {
	Scenarios []string
	Stats     StatSheet
	BestAgent string
}

// Summary is the flat, one-row view of a report used by the cumulative CSV,
// the report repository and the publisher.
type Summary struct {
	RunID             string
	Scenario          string
	BestAgent         string
	PackagesDelivered int
	TotalDistance     float64
	Efficiency        *float64
	CreatedAt         time.Time
}

// Summarize describes the best agent of a stat sheet. Numbers stay at full
// precision; writers round at display time.
func Summarize(runID, scenario string, stats StatSheet, best string) Summary {
	sum := Summary{RunID: runID, Scenario: scenario, BestAgent: best}
	if st, ok := stats[best]; ok && best != "" {
		sum.PackagesDelivered = st.PackagesDelivered
		sum.TotalDistance = st.TotalDistance
		if eff, ok := st.Efficiency(); ok {
			sum.Efficiency = &eff
		}
	}
	return sum
}

// Round2 rounds a value to two fractional digits for presentation.
// Values too large to carry fractional digits are returned unchanged.
func Round2(v float64) float64 {
	if math.Abs(v) >= 1<<52 {
		return v
	}
	return math.Round(v*100) / 100
}
