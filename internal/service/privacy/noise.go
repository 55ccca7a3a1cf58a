// Package privacy perturbs published scores with Gaussian noise so repeated
// queries cannot recover the exact model output.
package privacy

import (
	"math/rand/v2"

	domsvc "YieldSense/internal/domain/service"
)

// Gaussian adds N(0, scale²) to each value.
type Gaussian struct {
	scale  float64
	normal func() float64
}

type Option func(*Gaussian)

// WithSource replaces the standard normal source, e.g. with a fixed sequence in tests.
func WithSource(normal func() float64) Option {
	return func(g *Gaussian) { g.normal = normal }
}

func New(scale float64, opts ...Option) *Gaussian {
	g := &Gaussian{scale: scale, normal: rand.NormFloat64}
	for _, opt := range opts {
		opt(g)
	}
	return g
}

func (g *Gaussian) Apply(value float64) float64 {
	return InjectNoise(value, g.scale, g.normal)
}

// InjectNoise returns value + scale·z with z drawn from normal. A zero scale
// returns value unchanged.
func InjectNoise(value, scale float64, normal func() float64) float64 {
	if scale == 0 {
		return value
	}
	return value + scale*normal()
}

var _ domsvc.NoiseFilter = (*Gaussian)(nil)
