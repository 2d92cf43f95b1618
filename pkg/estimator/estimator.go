// Package estimator implements the Monte Carlo view-factor calculation: for
// a single receiver point, estimate the fraction of cosine-weighted
// hemisphere samples that reach each emitter unobstructed.
package estimator

import (
	"math"

	"github.com/thermalsim/viewfactor/pkg/core"
	"github.com/thermalsim/viewfactor/pkg/scene"
)

// Estimate computes the view factor from a receiver point toward each
// emitter by tracing numRays cosine-weighted hemisphere samples around
// normal. Occluders and emitters have already had their planes and AABBs
// precomputed (scene.PrepareEmitters / scene.PrepareOccluders); Estimate
// never allocates inside the per-ray loop.
//
// The returned slice has one entry per emitter, each in [0, 1]; their sum
// is at most 1. A nil or zero normal, or zero emitters, yields an
// all-zero result rather than an error — the estimator never fails.
func Estimate(origin, normal core.Vec3, emitters, occluders []scene.PreparedPolygon, numRays int, sampler core.Sampler) []float64 {
	hits := make([]float64, len(emitters))
	if numRays <= 0 {
		return hits
	}

	hitCounts := make([]int, len(emitters))

	for i := 0; i < numRays; i++ {
		direction := core.SampleCosineHemisphere(normal, sampler.Get2D())

		occDist := closestValidHit(origin, direction, occluders)
		emitIndex, emitDist := closestValidHitIndexed(origin, direction, emitters)

		if occDist <= emitDist {
			continue // blocked, including the degenerate "both miss" +Inf tie
		}
		if emitIndex >= 0 {
			hitCounts[emitIndex]++
		}
	}

	for i, count := range hitCounts {
		hits[i] = float64(count) / float64(numRays)
	}
	return hits
}

// closestValidHit returns the nearest hit distance among polygons, or +Inf
// if none are hit. Used for occluders, where only the distance matters.
func closestValidHit(origin, direction core.Vec3, polygons []scene.PreparedPolygon) float64 {
	best := math.Inf(1)
	for _, p := range polygons {
		if t, ok := p.Hit(origin, direction); ok && t < best {
			best = t
		}
	}
	return best
}

// closestValidHitIndexed returns the index and distance of the nearest hit
// among polygons, or (-1, +Inf) if none are hit.
func closestValidHitIndexed(origin, direction core.Vec3, polygons []scene.PreparedPolygon) (int, float64) {
	best := math.Inf(1)
	bestIndex := -1
	for i, p := range polygons {
		if t, ok := p.Hit(origin, direction); ok && t < best {
			best = t
			bestIndex = i
		}
	}
	return bestIndex, best
}
