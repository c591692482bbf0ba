package ports

import (
	"context"
	"dispatch-sim/internal/domain"
)

// Port: a boundary for reading one scenario from storage.
// Implementations wrap read and parse failures with domain.ErrDataUnavailable
// so batch callers can skip the scenario and continue.
type ScenarioLoader interface {
	Load(ctx context.Context, name string, path string) (*domain.Scenario, error)
}
