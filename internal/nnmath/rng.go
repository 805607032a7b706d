package nnmath

import "math/rand"

// Default bounds for random synapse weight initialization, small but non-zero so that
// pruning doesn't eat fresh synapses and training has a gradient to start from
const (
	DefWeightMin = 1.0 / 100000
	DefWeightMax = 1.0 / 1000
)

// Uniform produces uniformly distributed weights in [Min, Max). A seeded source makes
// training runs reproducible, which the convergence tests rely on
type Uniform struct {
	Min float64
	Max float64
	rng *rand.Rand
}

// NewUniform returns a uniform weight source over the given range
func NewUniform(min, max float64, seed int64) *Uniform {
	return &Uniform{Min: min, Max: max, rng: rand.New(rand.NewSource(seed))}
}

// NewDefaultUniform returns a uniform weight source over the default range
func NewDefaultUniform(seed int64) *Uniform {
	return NewUniform(DefWeightMin, DefWeightMax, seed)
}

// Next returns the next weight
func (u *Uniform) Next() float64 {
	return u.Min + u.rng.Float64()*(u.Max-u.Min)
}
