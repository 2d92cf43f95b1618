package core

// Vec2 holds a pair of independent sample draws, e.g. the (u1, u2) pair fed
// into SampleCosineHemisphere.
type Vec2 struct {
	X, Y float64
}

// NewVec2 creates a new Vec2
func NewVec2(x, y float64) Vec2 {
	return Vec2{X: x, Y: y}
}
