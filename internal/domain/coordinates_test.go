package domain

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestDistanceIsSymmetric(t *testing.T) {
	pts := []Point{{0, 0}, {3, 4}, {-2.5, 7}, {10, -10}, {1e6, 1e-6}}
	for _, a := range pts {
		for _, b := range pts {
			assert.Equal(t, Distance(a, b), Distance(b, a), "a=%v b=%v", a, b)
		}
		assert.Zero(t, Distance(a, a))
	}
}

func TestDistanceKnownValues(t *testing.T) {
	assert.Equal(t, 5.0, Distance(Point{0, 0}, Point{3, 4}))
	assert.InDelta(t, math.Sqrt2*10, Distance(Point{0, 0}, Point{10, 10}), 1e-9)
	assert.Greater(t, Distance(Point{0, 0}, Point{0, 1e-9}), 0.0)
}
