package core

import (
	"math/rand"
	"time"
)

// Rand is the match's seeded random source. Every random decision in
// the simulation draws from it, so a seed replays a match exactly.
type Rand struct {
	rng  *rand.Rand
	Seed int64
}

// NewRand creates a source with the given seed; 0 picks one from the clock
func NewRand(seed int64) *Rand {
	if seed == 0 {
		seed = time.Now().UnixNano()
	}
	return &Rand{rng: rand.New(rand.NewSource(seed)), Seed: seed}
}

// Intn returns an int in [0, n)
func (r *Rand) Intn(n int) int {
	return r.rng.Intn(n)
}

// Float64 returns a float in [0.0, 1.0)
func (r *Rand) Float64() float64 {
	return r.rng.Float64()
}

// IntRange returns an int in [lo, hi], both ends inclusive
func (r *Rand) IntRange(lo, hi int) int {
	if hi <= lo {
		return lo
	}
	return lo + r.rng.Intn(hi-lo+1)
}

// Uniform returns a float in [lo, hi)
func (r *Rand) Uniform(lo, hi float64) float64 {
	return lo + r.rng.Float64()*(hi-lo)
}

// Pick returns a uniformly chosen element; ok is false for an empty slice
func Pick[T any](r *Rand, items []T) (T, bool) {
	var zero T
	if len(items) == 0 {
		return zero, false
	}
	return items[r.Intn(len(items))], true
}
