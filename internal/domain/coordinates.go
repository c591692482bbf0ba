package domain

import "math"

// Immutable planar coordinates (x, y).
type Point struct {
	X float64
	Y float64
}

// Distance returns the straight-line distance between a and b.
func Distance(a, b Point) float64 {
	return math.Hypot(b.X-a.X, b.Y-a.Y)
}
