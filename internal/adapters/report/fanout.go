package report

import (
	"context"
	"dispatch-sim/internal/domain"
	"dispatch-sim/internal/ports"
)

// Fanout forwards every report to each sink in order and stops at the first
// error.
type Fanout []ports.ReportSink

func (f Fanout) WriteScenario(ctx context.Context, runID string, r *domain.ScenarioReport) error {
	for _, s := range f {
		if err := s.WriteScenario(ctx, runID, r); err != nil {
			return err
		}
	}
	return nil
}

func (f Fanout) WriteGlobal(ctx context.Context, runID string, g *domain.GlobalReport) error {
	for _, s := range f {
		if err := s.WriteGlobal(ctx, runID, g); err != nil {
			return err
		}
	}
	return nil
}
