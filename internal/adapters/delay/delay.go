package delay

import (
	"math/rand"
	"time"
)

const (
	DefaultMin = 1.0
	DefaultMax = 1.2
)

// Uniform draws independent multipliers from [Min, Max).
// It is not safe for concurrent use; create one per scenario run.
type Uniform struct {
	rng *rand.Rand
	min float64
	max float64
}

// NewUniform returns a seeded source. A zero seed uses the current time.
// Bounds given in the wrong order are swapped.
func NewUniform(seed int64, min, max float64) *Uniform {
	if seed == 0 {
		seed = time.Now().UnixNano()
	}
	if max < min {
		min, max = max, min
	}
	return &Uniform{rng: rand.New(rand.NewSource(seed)), min: min, max: max}
}

func (u *Uniform) Factor() float64 {
	return u.min + u.rng.Float64()*(u.max-u.min)
}

// Fixed always returns the same multiplier.
type Fixed float64

func (f Fixed) Factor() float64 { return float64(f) }

// ResolveSeed returns seed, or a time-based seed when seed is zero. Resolve
// once per batch and derive scenario seeds with SeedFor.
func ResolveSeed(seed int64) int64 {
	if seed != 0 {
		return seed
	}
	if s := time.Now().UnixNano(); s != 0 {
		return s
	}
	return 1
}

// SeedFor derives a distinct, reproducible seed for the i-th scenario of a
// batch from a resolved base.
func SeedFor(base int64, i int) int64 {
	s := base + int64(i)*7919
	if s == 0 {
		// zero would fall back to time seeding in NewUniform
		s = 7919
	}
	return s
}
