package handlers

import (
	"dispatch-sim/internal/adapters/delay"
	"dispatch-sim/internal/adapters/loader"
	"dispatch-sim/internal/api/dto"
	"dispatch-sim/internal/domain"
	"dispatch-sim/internal/platform/obs"
	"dispatch-sim/internal/ports"
	"dispatch-sim/internal/services"
	"encoding/json"
	"errors"
	"io"
	"log"
	"net/http"
	"strings"

	"github.com/google/uuid"
)

const maxSimulationBody = 4 << 20

type SimulationHandler struct {
	// Sink receives the finished report when set.
	Sink        ports.ReportSink
	DelayMin    float64
	DelayMax    float64
	DefaultJoin *services.JoinPolicy
}

// Run simulates one scenario document posted in the request body and
// returns its report.
func (h *SimulationHandler) Run(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		w.Header().Set("Allow", http.MethodPost)
		writeError(w, r, http.StatusMethodNotAllowed, "method not allowed")
		return
	}

	var req dto.SimulationRequest

	dec := json.NewDecoder(http.MaxBytesReader(w, r.Body, maxSimulationBody))
	defer r.Body.Close()
	dec.DisallowUnknownFields()

	if err := dec.Decode(&req); err != nil {
		writeError(w, r, http.StatusBadRequest, "invalid json body")
		return
	}
	if err := dec.Decode(&struct{}{}); err != io.EOF {
		writeError(w, r, http.StatusBadRequest, "request body must contain a single JSON object")
		return
	}

	name := strings.TrimSpace(req.Name)
	if name == "" {
		name = "adhoc"
	}

	sc, err := loader.Parse(name, req.Scenario)
	if err != nil {
		writeError(w, r, http.StatusBadRequest, err.Error())
		return
	}

	runID := uuid.NewString()
	ctx := obs.WithRequestID(r.Context(), runID)

	lo, hi := h.DelayMin, h.DelayMax
	if lo <= 0 || hi <= 0 {
		lo, hi = delay.DefaultMin, delay.DefaultMax
	}

	engine := &services.Engine{
		Delay: delay.NewUniform(req.Seed, lo, hi),
		Join:  h.join(req),
		RunID: runID,
	}

	report, err := engine.Run(ctx, sc)
	if err != nil {
		log.Printf("req_id=%s simulation failed: %v", runID, err)
		writeError(w, r, http.StatusInternalServerError, "internal server error")
		return
	}

	if h.Sink != nil {
		if err := h.Sink.WriteScenario(ctx, runID, report); err != nil {
			log.Printf("req_id=%s store report failed: %v", runID, err)
			writeError(w, r, http.StatusInternalServerError, "internal server error")
			return
		}
	}

	res := dto.SimulationResponse{
		RunID:           runID,
		Scenario:        report.Scenario,
		Agents:          agentStats(report.Stats),
		BestAgent:       optional(report.BestAgent),
		SkippedPackages: make([]dto.SkippedPackageResponse, 0, len(report.Skipped)),
	}
	for _, s := range report.Skipped {
		res.SkippedPackages = append(res.SkippedPackages, dto.SkippedPackageResponse{
			Index:       s.Index,
			PackageID:   s.PackageID,
			WarehouseID: s.WarehouseID,
			Reason:      skipReason(s.Reason),
		})
	}

	writeJSON(w, r, http.StatusOK, res)
}

func (h *SimulationHandler) join(req dto.SimulationRequest) *services.JoinPolicy {
	if req.NoJoin {
		return nil
	}
	if req.Join == nil {
		return h.DefaultJoin
	}
	id := strings.TrimSpace(req.Join.AgentID)
	if id == "" {
		id = "AGENT_NEW"
	}
	return &services.JoinPolicy{
		AgentID:  id,
		Location: domain.Point{X: req.Join.Location[0], Y: req.Join.Location[1]},
		AtIndex:  req.Join.AtIndex,
	}
}

func skipReason(err error) string {
	switch {
	case errors.Is(err, domain.ErrUnknownWarehouse):
		return "unknown_warehouse"
	case errors.Is(err, domain.ErrEmptyFleet):
		return "empty_fleet"
	case errors.Is(err, domain.ErrDistanceOverflow):
		return "distance_overflow"
	case err == nil:
		return ""
	default:
		return err.Error()
	}
}
