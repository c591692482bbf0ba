package services

import (
	"context"
	"dispatch-sim/internal/adapters/delay"
	"dispatch-sim/internal/adapters/report"
	"dispatch-sim/internal/domain"
	"dispatch-sim/internal/ports"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type mapLoader struct {
	scenarios map[string]*domain.Scenario
	failHard  string
}

func (l *mapLoader) Load(ctx context.Context, name, path string) (*domain.Scenario, error) {
	if name == l.failHard {
		return nil, errors.New("disk on fire")
	}
	sc, ok := l.scenarios[path]
	if !ok {
		return nil, fmt.Errorf("load %q: %w", path, domain.ErrDataUnavailable)
	}
	return sc, nil
}

type recordingSink struct {
	mu        sync.Mutex
	scenarios []string
	global    *domain.GlobalReport
}

func (s *recordingSink) WriteScenario(ctx context.Context, runID string, r *domain.ScenarioReport) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.scenarios = append(s.scenarios, r.Scenario)
	return nil
}

func (s *recordingSink) WriteGlobal(ctx context.Context, runID string, g *domain.GlobalReport) error {
	s.global = g
	return nil
}

func oneAgentScenario(name string, dest float64) *domain.Scenario {
	return &domain.Scenario{
		Name:       name,
		Warehouses: map[string]domain.Point{"W1": {X: 0, Y: 0}},
		Agents:     map[string]domain.Point{"A1": {X: 0, Y: 0}},
		Packages:   []domain.Package{{ID: "P1", WarehouseID: "W1", Destination: domain.Point{X: dest}}},
	}
}

func TestRunBatchSkipsUnavailableAndKeepsOrder(t *testing.T) {
	loader := &mapLoader{scenarios: map[string]*domain.Scenario{
		"a.json": oneAgentScenario("a", 1),
		"c.json": oneAgentScenario("c", 3),
		"d.json": oneAgentScenario("d", 4),
	}}
	sink := &recordingSink{}

	res, err := RunBatch(context.Background(), BatchRequest{
		RunID: "run-1",
		Scenarios: []ScenarioSource{
			{Name: "a", Path: "a.json"},
			{Name: "b", Path: "missing.json"},
			{Name: "c", Path: "c.json"},
			{Name: "d", Path: "d.json"},
		},
		Loader:      loader,
		NewDelay:    func(int, string) ports.DelaySource { return delay.Fixed(1) },
		Sink:        sink,
		Concurrency: 3,
	})
	require.NoError(t, err)

	require.Len(t, res.Skipped, 1)
	assert.Equal(t, "b", res.Skipped[0].Name)
	assert.ErrorIs(t, res.Skipped[0].Err, domain.ErrDataUnavailable)

	assert.Equal(t, []string{"a", "c", "d"}, sink.scenarios)
	require.NotNil(t, sink.global)
	assert.Equal(t, domain.AgentStat{PackagesDelivered: 3, TotalDistance: 8}, *res.Global.Stats["A1"])
	assert.Equal(t, "A1", res.Global.BestAgent)
}

func TestRunBatchGivesEachScenarioItsOwnDelay(t *testing.T) {
	loader := &mapLoader{scenarios: map[string]*domain.Scenario{
		"a.json": oneAgentScenario("a", 10),
		"b.json": oneAgentScenario("b", 10),
	}}
	var mu sync.Mutex
	seen := map[string]int{}

	res, err := RunBatch(context.Background(), BatchRequest{
		Scenarios: []ScenarioSource{{Name: "a", Path: "a.json"}, {Name: "b", Path: "b.json"}},
		Loader:    loader,
		NewDelay: func(i int, name string) ports.DelaySource {
			mu.Lock()
			seen[name] = i
			mu.Unlock()
			return delay.Fixed(1 + 0.1*float64(i))
		},
		Concurrency: 2,
	})
	require.NoError(t, err)

	assert.Equal(t, map[string]int{"a": 0, "b": 1}, seen)
	assert.InDelta(t, 10.0, res.Reports[0].Stats["A1"].TotalDistance, 1e-9)
	assert.InDelta(t, 11.0, res.Reports[1].Stats["A1"].TotalDistance, 1e-9)
}

func TestRunBatchAbortsOnUnexpectedLoadError(t *testing.T) {
	loader := &mapLoader{failHard: "boom"}

	_, err := RunBatch(context.Background(), BatchRequest{
		Scenarios: []ScenarioSource{{Name: "boom", Path: "x"}},
		Loader:    loader,
		NewDelay:  func(int, string) ports.DelaySource { return delay.Fixed(1) },
	})
	assert.Error(t, err)
	assert.NotErrorIs(t, err, domain.ErrDataUnavailable)
}

func TestRunBatchValidatesRequest(t *testing.T) {
	_, err := RunBatch(context.Background(), BatchRequest{})
	assert.Error(t, err)
}

func TestRunBatchKeepsHealthyScenariosWhenDistancesOverflow(t *testing.T) {
	huge := &domain.Scenario{
		Name:       "huge",
		Warehouses: map[string]domain.Point{"W1": {X: 1e308}},
		Agents:     map[string]domain.Point{"A1": {X: -1e308}},
		Packages:   []domain.Package{{ID: "P1", WarehouseID: "W1", Destination: domain.Point{X: 1e308}}},
	}
	loader := &mapLoader{scenarios: map[string]*domain.Scenario{
		"huge.json": huge,
		"ok.json":   oneAgentScenario("ok", 2),
	}}
	dir := t.TempDir()

	res, err := RunBatch(context.Background(), BatchRequest{
		RunID:       "run-1",
		Scenarios:   []ScenarioSource{{Name: "huge", Path: "huge.json"}, {Name: "ok", Path: "ok.json"}},
		Loader:      loader,
		NewDelay:    func(int, string) ports.DelaySource { return delay.Fixed(1) },
		Sink:        report.NewFileSink(dir),
		Concurrency: 2,
	})
	require.NoError(t, err)

	require.Len(t, res.Reports, 2)
	require.Len(t, res.Reports[0].Skipped, 1)
	assert.ErrorIs(t, res.Reports[0].Skipped[0].Reason, domain.ErrDistanceOverflow)
	assert.Equal(t, domain.AgentStat{PackagesDelivered: 1, TotalDistance: 2}, *res.Reports[1].Stats["A1"])

	for _, name := range []string{"huge", "ok"} {
		_, err := os.Stat(filepath.Join(dir, report.ScenarioReportFile(name)))
		assert.NoError(t, err, name)
	}
	_, err = os.Stat(filepath.Join(dir, report.GlobalReportFile))
	assert.NoError(t, err)
}
