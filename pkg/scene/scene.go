// Package scene holds the domain model that the estimator and driver
// operate on: emitters, occluders, receiver planes, and the scene that
// bundles them together.
package scene

import (
	"github.com/thermalsim/viewfactor/pkg/core"
	"github.com/thermalsim/viewfactor/pkg/geometry"
)

// Polygon is an ordered sequence of vertices, assumed planar and simple.
// Fewer than three vertices, or collinear first-three vertices, make it
// degenerate; degenerate polygons are skipped at trace time rather than
// rejected at construction.
type Polygon []core.Vec3

// Emitter is a polygon that radiates at a fixed temperature.
type Emitter struct {
	Polygon     Polygon
	Temperature float64
}

// Occluder is a polygon that can block rays but never contributes
// temperature.
type Occluder struct {
	Polygon Polygon
}

// ReceiverPoint is a sampling location and the surface normal whose upper
// hemisphere is integrated over. The normal need not be pre-normalized.
type ReceiverPoint struct {
	Origin core.Vec3
	Normal core.Vec3
}

// ReceiverPlane is a named grid of receiver points. Width and Height are
// reported as declared by the input and are not cross-checked against
// len(Points) (see the plane-metadata design note).
type ReceiverPlane struct {
	Name   string
	Width  int
	Height int
	Points []ReceiverPoint
}

// DefaultNumRays is used when a scene does not specify a ray count.
const DefaultNumRays = 100_000

// Scene bundles everything a calculation run needs: the emitters and
// occluders that participate in tracing, the receiver planes to evaluate,
// the per-ray sample count, and an optional seed for reproducibility.
type Scene struct {
	Emitters  []Emitter
	Occluders []Occluder
	Planes    []ReceiverPlane
	NumRays   int
	Seed      *uint64 // nil means nondeterministic
}

// PlaneResult is the computed output for one receiver plane: one
// temperature per receiver point, in the same order as the plane's points.
type PlaneResult struct {
	Name        string
	Width       int
	Height      int
	Temperature []float64
}

// PreparedPolygon bundles a polygon with its precomputed plane and AABB, so
// the estimator's per-ray loop never recomputes them.
type PreparedPolygon struct {
	geometry.PlanarPolygon
	Temperature float64 // zero for occluders
}

// PrepareEmitters precomputes the plane and AABB for every emitter polygon.
// Degenerate polygons come back with Valid=false rather than being dropped,
// so indices stay aligned with the input slice.
func PrepareEmitters(emitters []Emitter) []PreparedPolygon {
	prepared := make([]PreparedPolygon, len(emitters))
	for i, e := range emitters {
		prepared[i] = PreparedPolygon{
			PlanarPolygon: geometry.PreparePolygon([]core.Vec3(e.Polygon)),
			Temperature:   e.Temperature,
		}
	}
	return prepared
}

// PrepareOccluders precomputes the plane and AABB for every occluder
// polygon.
func PrepareOccluders(occluders []Occluder) []PreparedPolygon {
	prepared := make([]PreparedPolygon, len(occluders))
	for i, o := range occluders {
		prepared[i] = PreparedPolygon{
			PlanarPolygon: geometry.PreparePolygon([]core.Vec3(o.Polygon)),
		}
	}
	return prepared
}
