package domain

import (
	"fmt"
	"iter"
	"maps"
	"slices"
)

type Warehouse struct {
	ID       string
	Location Point
}

type Agent struct {
	ID       string
	Location Point
}

// Fleet is the mutable state of one scenario run: fixed warehouse locations
// and the current location of every agent. It is owned by a single run and
// is not safe for concurrent use.
type Fleet struct {
	warehouses map[string]Point
	agents     map[string]Point
}

// NewFleet seeds a fleet from a scenario. The scenario maps are copied so a
// run never mutates its input.
func NewFleet(sc *Scenario) *Fleet {
	f := &Fleet{
		warehouses: map[string]Point{},
		agents:     map[string]Point{},
	}
	if sc == nil {
		return f
	}
	maps.Copy(f.warehouses, sc.Warehouses)
	maps.Copy(f.agents, sc.Agents)
	return f
}

// Warehouse resolves a warehouse id to its location.
func (f *Fleet) Warehouse(id string) (Point, bool) {
	p, ok := f.warehouses[id]
	return p, ok
}

// Warehouses returns a snapshot of all warehouses sorted by id.
func (f *Fleet) Warehouses() []Warehouse {
	out := make([]Warehouse, 0, len(f.warehouses))
	for _, id := range slices.Sorted(maps.Keys(f.warehouses)) {
		out = append(out, Warehouse{ID: id, Location: f.warehouses[id]})
	}
	return out
}

func (f *Fleet) AgentLocation(id string) (Point, bool) {
	p, ok := f.agents[id]
	return p, ok
}

// Agents yields every agent id with its current location. Order is unspecified.
func (f *Fleet) Agents() iter.Seq2[string, Point] {
	return maps.All(f.agents)
}

// AgentIDs returns agent ids in lexicographic order.
func (f *Fleet) AgentIDs() []string {
	return slices.Sorted(maps.Keys(f.agents))
}

func (f *Fleet) Len() int { return len(f.agents) }

// AddAgent inserts a new agent. It reports false and leaves the fleet
// untouched when the id is already present.
func (f *Fleet) AddAgent(a Agent) bool {
	if _, ok := f.agents[a.ID]; ok {
		return false
	}
	f.agents[a.ID] = a.Location
	return true
}

// MoveAgent relocates an existing agent.
func (f *Fleet) MoveAgent(id string, to Point) error {
	if _, ok := f.agents[id]; !ok {
		return fmt.Errorf("move agent: agent %q is not in the fleet", id)
	}
	f.agents[id] = to
	return nil
}
