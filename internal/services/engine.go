package services

import (
	"context"
	"dispatch-sim/internal/domain"
	"dispatch-sim/internal/platform/metrics"
	"dispatch-sim/internal/platform/obs"
	"dispatch-sim/internal/ports"
	"errors"
	"fmt"
	"log"
	"math"
)

// JoinPolicy adds one agent to the fleet part-way through a scenario.
type JoinPolicy struct {
	AgentID  string
	Location domain.Point
	// AtIndex is the package index before which the agent joins.
	// A negative value selects the midpoint, len(packages)/2.
	AtIndex int
}

func (j *JoinPolicy) trigger(n int) int {
	if j.AtIndex < 0 {
		return n / 2
	}
	return j.AtIndex
}

// Engine runs the assignment loop for one scenario at a time.
//
// For each package in input order the nearest agent to the package's
// warehouse is chosen, charged agent->warehouse->destination scaled by a
// delay factor, and moved to the destination. The fleet state therefore
// carries forward into every later selection.
type Engine struct {
	Delay    ports.DelaySource
	Join     *JoinPolicy
	Recorder ports.AssignmentRecorder
	RunID    string
	// Verbose logs one diagnostic line per assigned package.
	Verbose bool
}

// Run processes every package of sc and returns the scenario report.
// Unresolvable packages are skipped and listed in the report; only a
// cancelled context aborts the run.
func (e *Engine) Run(ctx context.Context, sc *domain.Scenario) (_ *domain.ScenarioReport, err error) {
	defer obs.Time(ctx, "engine.Run")(&err)

	if sc == nil {
		return nil, errors.New("run scenario: scenario must be non-nil")
	}
	if e.Delay == nil {
		return nil, fmt.Errorf("run scenario %q: delay source must be non-nil", sc.Name)
	}

	fleet := domain.NewFleet(sc)
	report := &domain.ScenarioReport{
		Scenario: sc.Name,
		Stats:    make(domain.StatSheet, fleet.Len()),
	}
	for _, id := range fleet.AgentIDs() {
		report.Stats[id] = &domain.AgentStat{}
	}

	joinAt := -1
	if e.Join != nil {
		joinAt = e.Join.trigger(len(sc.Packages))
	}

	for i, pkg := range sc.Packages {
		if err := ctx.Err(); err != nil {
			return nil, fmt.Errorf("run scenario %q: package %d: %w", sc.Name, i, err)
		}

		evt := domain.AssignmentEvent{
			RunID:       e.RunID,
			Scenario:    sc.Name,
			Index:       i,
			PackageID:   pkg.ID,
			WarehouseID: pkg.WarehouseID,
		}

		// Joins happen before the trigger package is processed, so the new
		// agent already competes for it.
		if i == joinAt && e.join(fleet, report) {
			evt.Joined = e.Join.AgentID
		}

		if err := e.assign(fleet, report.Stats, pkg, &evt); err != nil {
			report.Skipped = append(report.Skipped, domain.SkippedPackage{
				Index:       i,
				PackageID:   pkg.ID,
				WarehouseID: pkg.WarehouseID,
				Reason:      err,
			})
			evt.Skip = err.Error()
			metrics.PackagesSkipped.WithLabelValues(skipReason(err)).Inc()
			log.Printf("scenario=%s package=%s index=%d skipped: %v", sc.Name, pkg.ID, i, err)
		}

		if e.Recorder != nil {
			if err := e.Recorder.Record(evt); err != nil {
				log.Printf("scenario=%s package=%s record assignment failed: %v", sc.Name, pkg.ID, err)
			}
		}
	}

	report.BestAgent = report.Stats.Best()
	return report, nil
}

func (e *Engine) join(fleet *domain.Fleet, report *domain.ScenarioReport) bool {
	if !fleet.AddAgent(domain.Agent{ID: e.Join.AgentID, Location: e.Join.Location}) {
		log.Printf("scenario=%s join agent=%s already in fleet, ignored", report.Scenario, e.Join.AgentID)
		return false
	}

	report.Stats[e.Join.AgentID] = &domain.AgentStat{}
	metrics.AgentsJoined.Inc()
	log.Printf(
		"scenario=%s join agent=%s at=(%.2f,%.2f)",
		report.Scenario, e.Join.AgentID, e.Join.Location.X, e.Join.Location.Y,
	)
	return true
}

// assign serves one package. It mutates nothing when it returns an error.
func (e *Engine) assign(fleet *domain.Fleet, stats domain.StatSheet, pkg domain.Package, evt *domain.AssignmentEvent) error {
	warehouse, ok := fleet.Warehouse(pkg.WarehouseID)
	if !ok {
		return fmt.Errorf("package %q: warehouse %q: %w", pkg.ID, pkg.WarehouseID, domain.ErrUnknownWarehouse)
	}

	ranked := RankAgents(warehouse, fleet.Agents())
	if len(ranked) == 0 {
		return fmt.Errorf("package %q: %w", pkg.ID, domain.ErrEmptyFleet)
	}
	nearest := ranked[0]

	trip := nearest.Distance + domain.Distance(warehouse, pkg.Destination)
	factor := e.Delay.Factor()
	charged := trip * factor
	if !finite(charged) {
		return fmt.Errorf("package %q: trip %v: %w", pkg.ID, charged, domain.ErrDistanceOverflow)
	}

	st, ok := stats[nearest.AgentID]
	if !ok {
		st = &domain.AgentStat{}
	}
	total := st.TotalDistance + charged
	if !finite(total) {
		return fmt.Errorf("package %q: agent %q total %v: %w", pkg.ID, nearest.AgentID, total, domain.ErrDistanceOverflow)
	}

	if err := fleet.MoveAgent(nearest.AgentID, pkg.Destination); err != nil {
		return fmt.Errorf("package %q: %w", pkg.ID, err)
	}

	stats[nearest.AgentID] = st
	st.TotalDistance = total
	st.PackagesDelivered++

	metrics.PackagesAssigned.Inc()
	metrics.TripDistance.Observe(charged)

	evt.AgentID = nearest.AgentID
	evt.TripDistance = trip
	evt.DelayFactor = factor
	evt.Distance = charged
	if len(ranked) > 1 {
		evt.RunnerUpID = ranked[1].AgentID
		evt.RunnerUpDistance = ranked[1].Distance
	}

	if e.Verbose {
		log.Printf(
			"scenario=%s package=%s warehouse=%s agent=%s from=(%.2f,%.2f) to=(%.2f,%.2f) trip=%.2f delay=%.3f",
			evt.Scenario, pkg.ID, pkg.WarehouseID, nearest.AgentID,
			warehouse.X, warehouse.Y, pkg.Destination.X, pkg.Destination.Y, trip, factor,
		)
	}

	return nil
}

func skipReason(err error) string {
	switch {
	case errors.Is(err, domain.ErrUnknownWarehouse):
		return "unknown_warehouse"
	case errors.Is(err, domain.ErrEmptyFleet):
		return "empty_fleet"
	case errors.Is(err, domain.ErrDistanceOverflow):
		return "distance_overflow"
	default:
		return "other"
	}
}

func finite(v float64) bool {
	return !math.IsInf(v, 0) && !math.IsNaN(v)
}
