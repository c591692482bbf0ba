package services

import (
	"dispatch-sim/internal/domain"
)

// Fold combines scenario reports into a GlobalReport.
//
// Deliveries and distances are summed per agent at full precision; agents
// missing from a scenario contribute nothing. Efficiency is derived from the
// summed totals, so large scenarios weigh more than small ones.
func Fold(reports []*domain.ScenarioReport) *domain.GlobalReport {
	global := &domain.GlobalReport{
		Scenarios: make([]string, 0, len(reports)),
		Stats:     domain.StatSheet{},
	}

	for _, r := range reports {
		if r == nil {
			continue
		}
		global.Scenarios = append(global.Scenarios, r.Scenario)

		for id, st := range r.Stats {
			acc, ok := global.Stats[id]
			if !ok {
				acc = &domain.AgentStat{}
				global.Stats[id] = acc
			}
			acc.PackagesDelivered += st.PackagesDelivered
			acc.TotalDistance += st.TotalDistance
		}
	}

	global.BestAgent = global.Stats.Best()
	return global
}
