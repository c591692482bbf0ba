package ports

// Contract for the per-package delay multiplier applied to trip distance.
// A source is used by one scenario run at a time.
type DelaySource interface {
	// Return the next multiplier (nominally in [1.0, 1.2]).
	Factor() float64
}
