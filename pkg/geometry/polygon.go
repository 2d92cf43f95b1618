package geometry

import (
	"math"

	"github.com/thermalsim/viewfactor/pkg/core"
)

// Plane is the unit-normal/anchor-point representation of a polygon's
// supporting plane.
type Plane struct {
	Normal core.Vec3 // unit normal
	Anchor core.Vec3 // any point on the plane (the polygon's first vertex)
}

const (
	degenerateNormalEpsilon = 1e-9
	parallelRayEpsilon      = 1e-9
	minHitDistance          = 1e-7 // asymmetric with parallelRayEpsilon to avoid self-intersection at the spawn point
	horizontalEdgeBias      = 1e-30
)

// ExtractPlane computes the supporting plane of a polygon from its first
// three vertices. It reports false if there are fewer than three vertices or
// the first three are collinear (a degenerate polygon).
func ExtractPlane(vertices []core.Vec3) (Plane, bool) {
	if len(vertices) < 3 {
		return Plane{}, false
	}

	v1 := vertices[1].Subtract(vertices[0])
	v2 := vertices[2].Subtract(vertices[0])
	n := v1.Cross(v2)

	mag := n.Length()
	if mag < degenerateNormalEpsilon {
		return Plane{}, false
	}

	return Plane{Normal: n.Multiply(1.0 / mag), Anchor: vertices[0]}, true
}

// IntersectRayPlane intersects a ray with a plane. ok is false when the ray
// is parallel to the plane or the intersection lies behind (or at) the ray
// origin.
func IntersectRayPlane(origin, direction core.Vec3, plane Plane) (point core.Vec3, t float64, ok bool) {
	u := plane.Normal.Dot(direction)
	if math.Abs(u) < parallelRayEpsilon {
		return core.Vec3{}, math.Inf(1), false
	}

	t = -plane.Normal.Dot(origin.Subtract(plane.Anchor)) / u
	if t < minHitDistance {
		return core.Vec3{}, math.Inf(1), false
	}

	return origin.Add(direction.Multiply(t)), t, true
}

// dominantAxis returns the index (0=X, 1=Y, 2=Z) of the normal's largest
// magnitude component, ties broken toward the earlier axis (x over y over z).
func dominantAxis(normal core.Vec3) int {
	abs := [3]float64{math.Abs(normal.X), math.Abs(normal.Y), math.Abs(normal.Z)}
	dominant := 0
	if abs[1] > abs[dominant] {
		dominant = 1
	}
	if abs[2] > abs[dominant] {
		dominant = 2
	}
	return dominant
}

// projectionAxes returns the two coordinate axes kept when projecting out
// the dominant axis of normal.
func projectionAxes(normal core.Vec3) (a, b int) {
	switch dominantAxis(normal) {
	case 0:
		return 1, 2
	case 1:
		return 0, 2
	default:
		return 0, 1
	}
}

func component(v core.Vec3, axis int) float64 {
	switch axis {
	case 0:
		return v.X
	case 1:
		return v.Y
	default:
		return v.Z
	}
}

// PointInPolygon tests whether point, known to lie on the polygon's plane,
// falls inside the polygon. The test is performed in 2-D after dropping the
// axis along which normal has its largest magnitude component (§4.2), using
// the even-odd (ray-casting) rule with a half-open horizontal-ray convention.
func PointInPolygon(point core.Vec3, vertices []core.Vec3, normal core.Vec3) bool {
	axisA, axisB := projectionAxes(normal)

	x := component(point, axisA)
	y := component(point, axisB)

	inside := false
	n := len(vertices)
	for i, j := 0, n-1; i < n; j, i = i, i+1 {
		pi := vertices[i]
		pj := vertices[j]

		xi, yi := component(pi, axisA), component(pi, axisB)
		xj, yj := component(pj, axisA), component(pj, axisB)

		if (yi > y) != (yj > y) {
			threshold := xi + (xj-xi)*(y-yi)/(yj-yi+horizontalEdgeBias)
			if x < threshold {
				inside = !inside
			}
		}
	}
	return inside
}

// PlanarPolygon is a polygon with its plane and bounding box precomputed
// once, so the per-ray hot loop never recomputes them. Invalid polygons
// (too few vertices, or collinear first three vertices) are skipped by
// every caller rather than causing an error.
type PlanarPolygon struct {
	Vertices []core.Vec3
	Plane    Plane
	Bounds   core.AABB
	Valid    bool
}

// PreparePolygon precomputes the plane and bounding box for a polygon.
func PreparePolygon(vertices []core.Vec3) PlanarPolygon {
	plane, ok := ExtractPlane(vertices)
	if !ok {
		return PlanarPolygon{Vertices: vertices, Valid: false}
	}

	return PlanarPolygon{
		Vertices: vertices,
		Plane:    plane,
		Bounds:   core.NewAABBFromPoints(vertices...),
		Valid:    true,
	}
}

// Hit intersects a ray against the polygon: a cheap AABB reject first (the
// one acceleration structure the spec permits, and only ever a strict
// superset of the exact test), then the plane intersection, then the 2-D
// point-in-polygon test. ok is false for an invalid polygon, a miss, or a
// hit point outside the polygon's boundary.
func (p PlanarPolygon) Hit(origin, direction core.Vec3) (t float64, ok bool) {
	if !p.Valid {
		return math.Inf(1), false
	}

	ray := core.NewRay(origin, direction)
	if !p.Bounds.Hit(ray, minHitDistance, math.Inf(1)) {
		return math.Inf(1), false
	}

	point, t, ok := IntersectRayPlane(origin, direction, p.Plane)
	if !ok {
		return math.Inf(1), false
	}

	if !PointInPolygon(point, p.Vertices, p.Plane.Normal) {
		return math.Inf(1), false
	}

	return t, true
}
