package metrics

import (
	"sync"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
)

var (
	// Registry is the dedicated Prometheus registry for the simulator.
	Registry = prometheus.NewRegistry()

	// PackagesAssigned counts packages delivered by some agent.
	PackagesAssigned = prometheus.NewCounter(
		prometheus.CounterOpts{Name: "dispatch_packages_assigned_total", Help: "Packages assigned to an agent."},
	)
	// PackagesSkipped counts packages that changed no stats, by reason.
	PackagesSkipped = prometheus.NewCounterVec(
		prometheus.CounterOpts{Name: "dispatch_packages_skipped_total", Help: "Packages skipped during assignment."},
		[]string{"reason"},
	)
	// TripDistance records delayed trip distances.
	TripDistance = prometheus.NewHistogram(
		prometheus.HistogramOpts{Name: "dispatch_trip_distance", Help: "Delayed trip distance per package.", Buckets: []float64{1, 5, 10, 25, 50, 100, 250, 500}},
	)
	// AgentsJoined counts mid-run join events that added an agent.
	AgentsJoined = prometheus.NewCounter(
		prometheus.CounterOpts{Name: "dispatch_agents_joined_total", Help: "Agents added by mid-run join events."},
	)
	// Scenarios counts scenario outcomes (ok, skipped).
	Scenarios = prometheus.NewCounterVec(
		prometheus.CounterOpts{Name: "dispatch_scenarios_total", Help: "Scenarios processed by outcome."},
		[]string{"status"},
	)

	// HTTPRequests counts requests by method, path, and status
	HTTPRequests = prometheus.NewCounterVec(
		prometheus.CounterOpts{Name: "http_requests_total", Help: "Total HTTP requests."},
		[]string{"method", "path", "status"},
	)
	// HTTPDuration records request durations in seconds
	HTTPDuration = prometheus.NewHistogramVec(
		prometheus.HistogramOpts{Name: "http_request_duration_seconds", Help: "HTTP request duration in seconds.", Buckets: prometheus.DefBuckets},
		[]string{"method", "path", "status"},
	)
)

var regOnce sync.Once

// RegisterDefault registers all collectors on Registry. Safe to call repeatedly.
func RegisterDefault() {
	regOnce.Do(func() {
		Registry.MustRegister(PackagesAssigned)
		Registry.MustRegister(PackagesSkipped)
		Registry.MustRegister(TripDistance)
		Registry.MustRegister(AgentsJoined)
		Registry.MustRegister(Scenarios)
		Registry.MustRegister(HTTPRequests)
		Registry.MustRegister(HTTPDuration)
		Registry.MustRegister(collectors.NewGoCollector())
		Registry.MustRegister(collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}))
	})
}
