// Package driver walks a scene's receiver planes, dispatches each receiver
// point to the view-factor estimator, and aggregates the results into
// per-plane temperature grids.
//
// Work is distributed across a worker pool keyed on the global receiver-
// point cursor, generalizing the teacher's tile-based render worker pool:
// the work unit here is a single receiver point rather than a tile of
// pixels, and each worker writes its result into a disjoint, pre-sized
// output slot so no locking is needed.
package driver

import (
	"context"
	"math/rand"
	"runtime"
	"sort"
	"sync"

	"github.com/thermalsim/viewfactor/pkg/core"
	"github.com/thermalsim/viewfactor/pkg/estimator"
	"github.com/thermalsim/viewfactor/pkg/scene"
)

// seedMultiplier is the per-point PRNG derivation constant, matched
// exactly against the recovered original implementation's
// pointRng.seed(seed + globalPointIdx * 12345).
const seedMultiplier = 12345

// job is one unit of work: a single receiver point, tagged with enough
// context to write its result back into the right slot and derive its
// PRNG seed.
type job struct {
	planeIndex int
	localIndex int
	cursor     uint64
	point      scene.ReceiverPoint
}

// Run evaluates every receiver plane in sc, in lexicographic order by plane
// name, and returns one PlaneResult per plane in that same order. workers
// is the worker pool size; a value <= 0 defaults to runtime.NumCPU().
//
// ctx is checked between receiver points, not mid-point: a cancellation
// stops new points from starting but never aborts a point already in
// flight, mirroring the teacher's pass-boundary cancellation check.
//
// logger receives a line for each plane whose declared width*height
// disagrees with its actual point-list length (cursor desynchronization):
// the mismatch is not an error, the plane is still evaluated against
// however many points it actually has, but it is worth a line in the
// request log. A nil logger discards these lines.
func Run(ctx context.Context, sc *scene.Scene, workers int, logger core.Logger) []scene.PlaneResult {
	if workers <= 0 {
		workers = runtime.NumCPU()
	}
	if logger == nil {
		logger = discardLogger{}
	}

	order := sortedPlaneIndices(sc.Planes)
	results := make([]scene.PlaneResult, len(sc.Planes))

	emitters := scene.PrepareEmitters(sc.Emitters)
	occluders := scene.PrepareOccluders(sc.Occluders)

	jobs := make(chan job)
	var wg sync.WaitGroup

	for w := 0; w < workers; w++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for j := range jobs {
				sampler := core.NewRandomSampler(rand.New(rand.NewSource(deriveSeed(sc.Seed, j.cursor))))
				vf := estimator.Estimate(j.point.Origin, j.point.Normal, emitters, occluders, sc.NumRays, sampler)
				results[j.planeIndex].Temperature[j.localIndex] = aggregateTemperature(vf, emitters)
			}
		}()
	}

	var cursor uint64
	for rank, planeIndex := range order {
		plane := sc.Planes[planeIndex]

		if declared := plane.Width * plane.Height; declared != len(plane.Points) {
			logger.Printf("plane %q: declared width*height=%d disagrees with point count=%d, cursor desynchronized",
				plane.Name, declared, len(plane.Points))
		}

		results[rank] = scene.PlaneResult{
			Name:        plane.Name,
			Width:       plane.Width,
			Height:      plane.Height,
			Temperature: make([]float64, len(plane.Points)),
		}

		for localIndex, point := range plane.Points {
			if ctx.Err() != nil {
				break
			}
			jobs <- job{planeIndex: rank, localIndex: localIndex, cursor: cursor, point: point}
			cursor++
		}

		if ctx.Err() != nil {
			break
		}
	}
	close(jobs)
	wg.Wait()

	return results
}

// discardLogger is the zero-value core.Logger: it satisfies the interface
// without forcing every caller to pass a real one.
type discardLogger struct{}

func (discardLogger) Printf(format string, args ...interface{}) {}

// deriveSeed produces the per-point PRNG seed. With no configured seed, a
// fresh seed is drawn per call from the platform's nondeterministic source
// rather than the global math/rand generator.
func deriveSeed(seed *uint64, cursor uint64) int64 {
	if seed == nil {
		var buf [8]byte
		_, _ = cryptoRandRead(buf[:])
		v := uint64(0)
		for _, b := range buf {
			v = v<<8 | uint64(b)
		}
		return int64(v)
	}
	return int64(*seed + cursor*seedMultiplier)
}

func aggregateTemperature(vf []float64, emitters []scene.PreparedPolygon) float64 {
	total := 0.0
	for i, v := range vf {
		total += v * emitters[i].Temperature
	}
	return total
}

// sortedPlaneIndices returns the indices of planes sorted by name, matching
// the original implementation's ordered-map iteration.
func sortedPlaneIndices(planes []scene.ReceiverPlane) []int {
	indices := make([]int, len(planes))
	for i := range planes {
		indices[i] = i
	}
	sort.Slice(indices, func(a, b int) bool {
		return planes[indices[a]].Name < planes[indices[b]].Name
	})
	return indices
}
