package report

import "dispatch-sim/internal/domain"

type agentDoc struct {
	PackagesDelivered int      `json:"packages_delivered"`
	TotalDistance     float64  `json:"total_distance"`
	Efficiency        *float64 `json:"efficiency,omitempty"`
}

// document is the on-disk shape shared by scenario and global reports.
type document struct {
	RunID     string              `json:"run_id,omitempty"`
	Scenario  string              `json:"scenario,omitempty"`
	Scenarios []string            `json:"scenarios,omitempty"`
	Agents    map[string]agentDoc `json:"agents"`
	BestAgent *string             `json:"best_agent"`
	Skipped   int                 `json:"skipped_packages,omitempty"`
}

// newDocument rounds every figure to two digits; stats are not modified.
func newDocument(stats domain.StatSheet, best string) document {
	doc := document{Agents: make(map[string]agentDoc, len(stats))}
	for id, st := range stats {
		ad := agentDoc{
			PackagesDelivered: st.PackagesDelivered,
			TotalDistance:     domain.Round2(st.TotalDistance),
		}
		if eff, ok := st.Efficiency(); ok {
			r := domain.Round2(eff)
			ad.Efficiency = &r
		}
		doc.Agents[id] = ad
	}
	if best != "" {
		doc.BestAgent = &best
	}
	return doc
}
