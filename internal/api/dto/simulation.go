package dto

import "encoding/json"

type JoinRequest struct {
	AgentID  string     `json:"agent_id"`
	Location [2]float64 `json:"location"`
	// AtIndex < 0 joins at the middle of the package list.
	AtIndex int `json:"at_index"`
}

type SimulationRequest struct {
	Name     string          `json:"name"`
	Seed     int64           `json:"seed"`
	Join     *JoinRequest    `json:"join"`
	NoJoin   bool            `json:"no_join"`
	Scenario json.RawMessage `json:"scenario"`
}

type AgentStatsResponse struct {
	PackagesDelivered int      `json:"packages_delivered"`
	TotalDistance     float64  `json:"total_distance"`
	Efficiency        *float64 `json:"efficiency,omitempty"`
}

type SkippedPackageResponse struct {
	Index       int    `json:"index"`
	PackageID   string `json:"package_id"`
	WarehouseID string `json:"warehouse_id"`
	Reason      string `json:"reason"`
}

type SimulationResponse struct {
	RunID           string                        `json:"run_id"`
	Scenario        string                        `json:"scenario"`
	Agents          map[string]AgentStatsResponse `json:"agents"`
	BestAgent       *string                       `json:"best_agent"`
	SkippedPackages []SkippedPackageResponse      `json:"skipped_packages"`
}
