package handlers

import (
	"dispatch-sim/internal/api/dto"
	"dispatch-sim/internal/domain"
	"encoding/json"
	"log"
	"net/http"
)

// writeJSON encodes v before touching the response, so an encoding failure
// still yields a complete 500 instead of a truncated success.
func writeJSON(w http.ResponseWriter, r *http.Request, status int, v any) {
	b, err := json.Marshal(v)
	if err != nil {
		log.Printf("encode failed: method=%s path=%s err=%v", r.Method, r.URL.Path, err)
		status = http.StatusInternalServerError
		b = []byte(`{"error":"internal server error"}`)
	}

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if _, err := w.Write(append(b, '\n')); err != nil {
		log.Printf("write failed: method=%s path=%s err=%v", r.Method, r.URL.Path, err)
	}
}

func writeError(w http.ResponseWriter, r *http.Request, status int, msg string) {
	writeJSON(w, r, status, map[string]string{"error": msg})
}

// Figures are rounded to two digits for display only.
func agentStats(stats domain.StatSheet) map[string]dto.AgentStatsResponse {
	out := make(map[string]dto.AgentStatsResponse, len(stats))
	for id, st := range stats {
		res := dto.AgentStatsResponse{
			PackagesDelivered: st.PackagesDelivered,
			TotalDistance:     domain.Round2(st.TotalDistance),
		}
		if eff, ok := st.Efficiency(); ok {
			r := domain.Round2(eff)
			res.Efficiency = &r
		}
		out[id] = res
	}
	return out
}

func optional(s string) *string {
	if s == "" {
		return nil
	}
	return &s
}
