package ports

import (
	"context"
	"dispatch-sim/internal/domain"
)

// Contract for consumers of finished reports (files, databases, brokers).
type ReportSink interface {
	WriteScenario(ctx context.Context, runID string, r *domain.ScenarioReport) error
	WriteGlobal(ctx context.Context, runID string, g *domain.GlobalReport) error
}

// Port: persisted report summaries, read back by the HTTP API.
type ReportRepository interface {
	ReportSink
	// Return the most recent summaries, newest first.
	ListSummaries(ctx context.Context, limit int) ([]domain.Summary, error)
	LoadStats(ctx context.Context, runID, scenario string) (domain.StatSheet, error)
}
