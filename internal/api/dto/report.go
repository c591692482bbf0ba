package dto

import "time"

type SummaryResponse struct {
	RunID             string    `json:"run_id"`
	Scenario          string    `json:"scenario"`
	BestAgent         *string   `json:"best_agent"`
	PackagesDelivered int       `json:"packages_delivered"`
	TotalDistance     float64   `json:"total_distance"`
	Efficiency        *float64  `json:"efficiency,omitempty"`
	CreatedAt         time.Time `json:"created_at"`
}

type ListReportsResponse struct {
	Reports []SummaryResponse `json:"reports"`
}

type ReportDetailResponse struct {
	RunID     string                        `json:"run_id"`
	Scenario  string                        `json:"scenario"`
	Agents    map[string]AgentStatsResponse `json:"agents"`
	BestAgent *string                       `json:"best_agent"`
}
