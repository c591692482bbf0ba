package api

import (
	"dispatch-sim/internal/api/handlers"
	"dispatch-sim/internal/platform/metrics"
	"dispatch-sim/internal/ports"
	"dispatch-sim/internal/services"
	"net/http"

	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Deps are the adapters the HTTP API is composed from. Repo may be nil, in
// which case simulations are not stored and /reports answers 503.
type Deps struct {
	Repo        ports.ReportRepository
	DelayMin    float64
	DelayMax    float64
	DefaultJoin *services.JoinPolicy
}

// NewRouter wires HTTP handlers with their dependencies and returns an http.Handler.
// This is the API composition root (handlers stay unaware of concrete adapters).
func NewRouter(deps Deps) http.Handler {
	metrics.RegisterDefault()

	mux := http.NewServeMux()

	simHandler := &handlers.SimulationHandler{
		Sink:        deps.Repo,
		DelayMin:    deps.DelayMin,
		DelayMax:    deps.DelayMax,
		DefaultJoin: deps.DefaultJoin,
	}
	reportHandler := &handlers.ReportHandler{Repo: deps.Repo}

	mux.HandleFunc("/health", handlers.Health(deps.Repo != nil))
	mux.Handle("/metrics", promhttp.HandlerFor(metrics.Registry, promhttp.HandlerOpts{}))
	mux.HandleFunc("/simulations", simHandler.Run)
	mux.HandleFunc("/reports", reportHandler.List)
	mux.HandleFunc("/reports/{run_id}/{scenario}", reportHandler.Get)

	return loggingMiddleware(mux)
}
