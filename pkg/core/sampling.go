package core

import (
	"math"
	"math/rand"
)

// Sampler provides random draws for the estimator. It can be swapped out for
// deterministic testing or a different sampling pattern without touching the
// pure sampling functions that consume it.
type Sampler interface {
	Get1D() float64
	Get2D() Vec2
}

// RandomSampler wraps a standard Go random generator
type RandomSampler struct {
	random *rand.Rand
}

// NewRandomSampler creates a sampler from a Go random generator
func NewRandomSampler(random *rand.Rand) *RandomSampler {
	return &RandomSampler{random: random}
}

// Get1D returns a random float64 in [0, 1)
func (r *RandomSampler) Get1D() float64 {
	return r.random.Float64()
}

// Get2D returns two random float64 values in [0, 1)
func (r *RandomSampler) Get2D() Vec2 {
	return NewVec2(r.random.Float64(), r.random.Float64())
}

// SampleCosineHemisphere generates a cosine-weighted random direction in the
// upper hemisphere around normal, given two independent uniform [0,1) draws.
// The density is proportional to cos(theta) with respect to normal, which is
// exactly the distribution the view-factor estimator needs so that a plain
// hit ratio, with no per-sample reweighting, is already the Monte Carlo
// estimator of the diffuse view factor.
func SampleCosineHemisphere(normal Vec3, sample Vec2) Vec3 {
	phi := 2.0 * math.Pi * sample.X
	cosTheta := math.Sqrt(1.0 - sample.Y)
	sinTheta := math.Sqrt(sample.Y)

	x := sinTheta * math.Cos(phi)
	y := sinTheta * math.Sin(phi)
	z := cosTheta

	w := normal.Normalize()

	// Reference axis tie-broken away from the direction nearly parallel to w,
	// so the cross product below never degenerates.
	var r Vec3
	if math.Abs(w.X) > 0.9999 {
		r = NewVec3(0, 1, 0)
	} else {
		r = NewVec3(1, 0, 0)
	}
	u := r.Cross(w).Normalize()
	v := w.Cross(u)

	return u.Multiply(x).Add(v.Multiply(y)).Add(w.Multiply(z))
}
