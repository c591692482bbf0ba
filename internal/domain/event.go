package domain

// AssignmentEvent describes what happened to one package during a run.
// Exactly one event is emitted per package; skipped packages carry Skip.
type AssignmentEvent struct {
	RunID            string  `json:"run_id,omitempty"`
	Scenario         string  `json:"scenario"`
	Index            int     `json:"index"`
	PackageID        string  `json:"package_id"`
	WarehouseID      string  `json:"warehouse_id"`
	AgentID          string  `json:"agent_id,omitempty"`
	RunnerUpID       string  `json:"runner_up_id,omitempty"`
	RunnerUpDistance float64 `json:"runner_up_distance,omitempty"`
	TripDistance     float64 `json:"trip_distance,omitempty"`
	DelayFactor      float64 `json:"delay_factor,omitempty"`
	Distance         float64 `json:"distance,omitempty"`
	Joined           string  `json:"joined,omitempty"`
	Skip             string  `json:"skip,omitempty"`
}
