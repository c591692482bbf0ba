package api

import (
	"context"
	"dispatch-sim/internal/api/dto"
	"dispatch-sim/internal/domain"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type memoryRepo struct {
	mu        sync.Mutex
	scenarios map[string]*domain.ScenarioReport
	summaries []domain.Summary
	listErr   error
}

func newMemoryRepo() *memoryRepo {
	return &memoryRepo{scenarios: map[string]*domain.ScenarioReport{}}
}

func (m *memoryRepo) WriteScenario(_ context.Context, runID string, r *domain.ScenarioReport) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.scenarios[runID+"/"+r.Scenario] = r
	m.summaries = append(m.summaries, domain.Summarize(runID, r.Scenario, r.Stats, r.BestAgent))
	return nil
}

func (m *memoryRepo) WriteGlobal(context.Context, string, *domain.GlobalReport) error {
	return nil
}

func (m *memoryRepo) ListSummaries(_ context.Context, limit int) ([]domain.Summary, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.listErr != nil {
		return nil, m.listErr
	}
	out := m.summaries
	if len(out) > limit {
		out = out[:limit]
	}
	return out, nil
}

func (m *memoryRepo) LoadStats(_ context.Context, runID, scenario string) (domain.StatSheet, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	r, ok := m.scenarios[runID+"/"+scenario]
	if !ok {
		return domain.StatSheet{}, nil
	}
	return r.Stats, nil
}

const exampleBody = `{
	"name": "example",
	"seed": 7,
	"no_join": true,
	"scenario": {
		"warehouses": [{"id": "W1", "location": [0, 0]}],
		"agents": [{"id": "A1", "location": [0, 0]}, {"id": "A2", "location": [10, 10]}],
		"packages": [
			{"id": "P1", "warehouse_id": "W1", "destination": [0, 5]},
			{"id": "P2", "warehouse_id": "W9", "destination": [1, 1]}
		]
	}
}`

func newTestRouter(repo *memoryRepo) http.Handler {
	deps := Deps{DelayMin: 1, DelayMax: 1}
	if repo != nil {
		deps.Repo = repo
	}
	return NewRouter(deps)
}

func TestHealth(t *testing.T) {
	rec := httptest.NewRecorder()
	newTestRouter(nil).ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/health", nil))

	assert.Equal(t, http.StatusOK, rec.Code)
	assert.JSONEq(t, `{"status":"ok","persisting":false}`, rec.Body.String())

	rec = httptest.NewRecorder()
	newTestRouter(nil).ServeHTTP(rec, httptest.NewRequest(http.MethodPost, "/health", nil))
	assert.Equal(t, http.StatusMethodNotAllowed, rec.Code)
}

func TestSimulationRunsAndStoresReport(t *testing.T) {
	repo := newMemoryRepo()
	router := newTestRouter(repo)

	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, httptest.NewRequest(http.MethodPost, "/simulations", strings.NewReader(exampleBody)))
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())

	var res dto.SimulationResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &res))

	assert.NotEmpty(t, res.RunID)
	assert.Equal(t, "example", res.Scenario)
	require.NotNil(t, res.BestAgent)
	assert.Equal(t, "A1", *res.BestAgent)
	assert.Equal(t, 1, res.Agents["A1"].PackagesDelivered)
	assert.Equal(t, 5.0, res.Agents["A1"].TotalDistance)
	assert.Equal(t, 0, res.Agents["A2"].PackagesDelivered)
	assert.Nil(t, res.Agents["A2"].Efficiency)
	require.Len(t, res.SkippedPackages, 1)
	assert.Equal(t, "P2", res.SkippedPackages[0].PackageID)
	assert.Equal(t, "unknown_warehouse", res.SkippedPackages[0].Reason)

	rec = httptest.NewRecorder()
	router.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/reports/"+res.RunID+"/example", nil))
	require.Equal(t, http.StatusOK, rec.Code)

	var detail dto.ReportDetailResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &detail))
	require.NotNil(t, detail.BestAgent)
	assert.Equal(t, "A1", *detail.BestAgent)
}

func TestSimulationRejectsBadInput(t *testing.T) {
	router := newTestRouter(nil)

	cases := map[string]string{
		"not json":        `{`,
		"unknown field":   `{"bogus": 1}`,
		"missing agents":  `{"scenario": {"warehouses": [], "packages": []}}`,
		"trailing object": `{"scenario": {}} {}`,
	}
	for name, body := range cases {
		t.Run(name, func(t *testing.T) {
			rec := httptest.NewRecorder()
			router.ServeHTTP(rec, httptest.NewRequest(http.MethodPost, "/simulations", strings.NewReader(body)))
			assert.Equal(t, http.StatusBadRequest, rec.Code)
		})
	}

	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/simulations", nil))
	assert.Equal(t, http.StatusMethodNotAllowed, rec.Code)
}

func TestListReports(t *testing.T) {
	repo := newMemoryRepo()
	eff := 10.0 / 3
	repo.summaries = []domain.Summary{
		{RunID: "r1", Scenario: "base_case", BestAgent: "A1", PackagesDelivered: 3, TotalDistance: 10, Efficiency: &eff, CreatedAt: time.Unix(0, 0).UTC()},
		{RunID: "r1", Scenario: "idle"},
	}
	router := newTestRouter(repo)

	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/reports?limit=1", nil))
	require.Equal(t, http.StatusOK, rec.Code)

	var res dto.ListReportsResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &res))
	require.Len(t, res.Reports, 1)
	require.NotNil(t, res.Reports[0].Efficiency)
	assert.Equal(t, 3.33, *res.Reports[0].Efficiency)

	rec = httptest.NewRecorder()
	router.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/reports?limit=zero", nil))
	assert.Equal(t, http.StatusBadRequest, rec.Code)

	repo.listErr = errors.New("db down")
	rec = httptest.NewRecorder()
	router.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/reports", nil))
	assert.Equal(t, http.StatusInternalServerError, rec.Code)
}

func TestReportsWithoutStorage(t *testing.T) {
	rec := httptest.NewRecorder()
	newTestRouter(nil).ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/reports", nil))
	assert.Equal(t, http.StatusServiceUnavailable, rec.Code)
}

func TestReportNotFound(t *testing.T) {
	rec := httptest.NewRecorder()
	newTestRouter(newMemoryRepo()).ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/reports/nope/none", nil))
	assert.Equal(t, http.StatusNotFound, rec.Code)
}

func TestMetricsEndpoint(t *testing.T) {
	router := newTestRouter(nil)

	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/health", nil))

	rec = httptest.NewRecorder()
	router.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/metrics", nil))
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), `http_requests_total{method="GET",path="/health",status="200"}`)
}
