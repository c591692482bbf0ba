package handlers

import (
	"dispatch-sim/internal/api/dto"
	"dispatch-sim/internal/domain"
	"dispatch-sim/internal/ports"
	"log"
	"net/http"
	"strconv"
)

const (
	defaultReportLimit = 50
	maxReportLimit     = 500
)

// ReportHandler exposes stored report summaries.
type ReportHandler struct {
	Repo ports.ReportRepository
}

func (h *ReportHandler) List(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		w.Header().Set("Allow", http.MethodGet)
		writeError(w, r, http.StatusMethodNotAllowed, "method not allowed")
		return
	}
	if h.Repo == nil {
		writeError(w, r, http.StatusServiceUnavailable, "report storage is not configured")
		return
	}

	limit := defaultReportLimit
	if v := r.URL.Query().Get("limit"); v != "" {
		n, err := strconv.Atoi(v)
		if err != nil || n <= 0 {
			writeError(w, r, http.StatusBadRequest, "limit must be a positive integer")
			return
		}
		limit = min(n, maxReportLimit)
	}

	sums, err := h.Repo.ListSummaries(r.Context(), limit)
	if err != nil {
		log.Printf("list reports failed: %v", err)
		writeError(w, r, http.StatusInternalServerError, "internal server error")
		return
	}

	res := dto.ListReportsResponse{
		Reports: make([]dto.SummaryResponse, 0, len(sums)),
	}
	for _, s := range sums {
		item := dto.SummaryResponse{
			RunID:             s.RunID,
			Scenario:          s.Scenario,
			BestAgent:         optional(s.BestAgent),
			PackagesDelivered: s.PackagesDelivered,
			TotalDistance:     domain.Round2(s.TotalDistance),
			CreatedAt:         s.CreatedAt,
		}
		if s.Efficiency != nil {
			eff := domain.Round2(*s.Efficiency)
			item.Efficiency = &eff
		}
		res.Reports = append(res.Reports, item)
	}

	writeJSON(w, r, http.StatusOK, res)
}

// Get returns the per-agent statistics of one stored report.
func (h *ReportHandler) Get(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		w.Header().Set("Allow", http.MethodGet)
		writeError(w, r, http.StatusMethodNotAllowed, "method not allowed")
		return
	}
	if h.Repo == nil {
		writeError(w, r, http.StatusServiceUnavailable, "report storage is not configured")
		return
	}

	runID := r.PathValue("run_id")
	scenario := r.PathValue("scenario")

	stats, err := h.Repo.LoadStats(r.Context(), runID, scenario)
	if err != nil {
		log.Printf("load report failed: run_id=%s scenario=%s err=%v", runID, scenario, err)
		writeError(w, r, http.StatusInternalServerError, "internal server error")
		return
	}
	if len(stats) == 0 {
		writeError(w, r, http.StatusNotFound, "report not found")
		return
	}

	writeJSON(w, r, http.StatusOK, dto.ReportDetailResponse{
		RunID:     runID,
		Scenario:  scenario,
		Agents:    agentStats(stats),
		BestAgent: optional(stats.Best()),
	})
}
