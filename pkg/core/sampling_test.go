package core

import (
	"math"
	"math/rand"
	"testing"
)

func TestSampleCosineHemisphere_UnitLength(t *testing.T) {
	normal := NewVec3(0, 0, 1)
	sampler := NewRandomSampler(rand.New(rand.NewSource(1)))

	for i := 0; i < 1000; i++ {
		dir := SampleCosineHemisphere(normal, sampler.Get2D())
		if math.Abs(dir.Length()-1) > 1e-9 {
			t.Fatalf("sample %d: length = %v, expected 1", i, dir.Length())
		}
		if dir.Dot(normal) < -1e-9 {
			t.Fatalf("sample %d: direction %v is below the hemisphere of normal %v", i, dir, normal)
		}
	}
}

func TestSampleCosineHemisphere_Deterministic(t *testing.T) {
	normal := NewVec3(0.3, 0.6, 0.742)

	run := func() []Vec3 {
		sampler := NewRandomSampler(rand.New(rand.NewSource(42)))
		out := make([]Vec3, 100)
		for i := range out {
			out[i] = SampleCosineHemisphere(normal, sampler.Get2D())
		}
		return out
	}

	a := run()
	b := run()

	for i := range a {
		if a[i] != b[i] {
			t.Fatalf("sample %d differs between runs: %v vs %v", i, a[i], b[i])
		}
	}
}

func TestSampleCosineHemisphere_AxisAlignedEdgeCase(t *testing.T) {
	// normal.X > 0.9999 exercises the reference-axis tie-break.
	normal := NewVec3(1, 0, 0)
	dir := SampleCosineHemisphere(normal, NewVec2(0, 0))

	if math.Abs(dir.Length()-1) > 1e-9 {
		t.Fatalf("length = %v, expected 1", dir.Length())
	}
}

func TestSampleCosineHemisphere_ZenithAtOrigin(t *testing.T) {
	// u1=0, u2=0 => phi=0, cosTheta=1, sinTheta=0 => local direction is
	// exactly the normal itself.
	normal := NewVec3(0, 0, 1)
	dir := SampleCosineHemisphere(normal, NewVec2(0, 0))

	if dir.Subtract(normal).Length() > 1e-9 {
		t.Fatalf("SampleCosineHemisphere(n, (0,0)) = %v, expected %v", dir, normal)
	}
}
