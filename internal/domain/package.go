package domain

// Represents a single delivery job: pick up at a warehouse, drop at a destination.
// Packages are immutable and consumed exactly once, in input order.
type Package struct {
	ID          string
	WarehouseID string
	Destination Point
}
