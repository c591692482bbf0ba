package services

import (
	"cmp"
	"dispatch-sim/internal/domain"
	"iter"
	"slices"
)

// RankedAgent is one entry of a nearest-agent ranking.
type RankedAgent struct {
	AgentID  string
	Distance float64
}

// RankAgents orders every agent by straight-line distance from origin.
//
// Equidistant agents are ordered by id so the ranking is deterministic
// regardless of map iteration order. An empty result means no agent is
// available; callers skip the package rather than fail.
func RankAgents(origin domain.Point, agents iter.Seq2[string, domain.Point]) []RankedAgent {
	ranked := []RankedAgent{}
	for id, loc := range agents {
		ranked = append(ranked, RankedAgent{AgentID: id, Distance: domain.Distance(origin, loc)})
	}

	slices.SortFunc(ranked, func(a, b RankedAgent) int {
		if c := cmp.Compare(a.Distance, b.Distance); c != 0 {
			return c
		}
		return cmp.Compare(a.AgentID, b.AgentID)
	})

	return ranked
}
