package core

import "testing"

func TestAABB_Hit(t *testing.T) {
	box := AABB{Min: NewVec3(-1, -1, -1), Max: NewVec3(1, 1, 1)}

	tests := []struct {
		name      string
		origin    Vec3
		direction Vec3
		wantHit   bool
	}{
		{"through center", NewVec3(0, 0, -5), NewVec3(0, 0, 1), true},
		{"miss to the side", NewVec3(5, 5, -5), NewVec3(0, 0, 1), false},
		{"parallel and outside", NewVec3(5, 0, -5), NewVec3(0, 0, 1), false},
		{"origin inside", NewVec3(0, 0, 0), NewVec3(1, 0, 0), true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			ray := NewRay(tt.origin, tt.direction)
			if got := box.Hit(ray, 1e-7, 1e300); got != tt.wantHit {
				t.Fatalf("Hit() = %v, want %v", got, tt.wantHit)
			}
		})
	}
}

func TestAABB_FromPoints(t *testing.T) {
	box := NewAABBFromPoints(
		NewVec3(1, -2, 3),
		NewVec3(-4, 5, -6),
		NewVec3(0, 0, 0),
	)

	want := AABB{Min: NewVec3(-4, -2, -6), Max: NewVec3(1, 5, 3)}
	if box.Min != want.Min || box.Max != want.Max {
		t.Fatalf("NewAABBFromPoints() = %+v, want %+v", box, want)
	}
}

func TestAABB_FromPoints_Empty(t *testing.T) {
	box := NewAABBFromPoints()
	if box != (AABB{}) {
		t.Fatalf("NewAABBFromPoints() with no points = %+v, want zero value", box)
	}
}
