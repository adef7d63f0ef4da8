package riskmodel

import (
	"math/rand"

	"github.com/seehuhn/mt19937"
)

// UniformSource provides an independent U(0,1) draw per call. Monte Carlo
// sampling consumes draws in a documented order, so implementations must be
// deterministic for a given seed.
type UniformSource interface {
	Float64() float64
}

// NewMersenneTwisterSource returns a seeded MT19937-backed uniform stream.
func NewMersenneTwisterSource(seed int64) UniformSource {
	mt := mt19937.New()
	mt.Seed(seed)

	return rand.New(mt)
}
