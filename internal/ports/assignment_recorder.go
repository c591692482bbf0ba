package ports

import "dispatch-sim/internal/domain"

// Receives one event per processed package. Implementations shared across
// concurrently running scenarios must be safe for concurrent use.
type AssignmentRecorder interface {
	Record(evt domain.AssignmentEvent) error
}
