package physics

import (
	"math"
	"testing"

	"github.com/ethaniccc/float32-cube/cube"
	"github.com/go-gl/mathgl/mgl32"
)

func approxEqual(t *testing.T, got, want, tol float32, field string) {
	t.Helper()
	if math.Abs(float64(got-want)) > float64(tol) {
		t.Fatalf("%s = %.6f, want %.6f (tol=%.6f)", field, got, want, tol)
	}
}

func floorBox() cube.BBox {
	return cube.Box(-10, -10, -1, 10, 10, 0)
}

func TestVerticalCapsule_CenterAboveFeet(t *testing.T) {
	dims := ColliderDimensions{Height: 0.9, Radius: 0.4, GroundOffset: 0.2}
	c := VerticalCapsule(mgl32.Vec3{1, 2, 3}, dims)

	approxEqual(t, c.Center.Z(), 3+0.2+0.4+0.45, 1e-6, "center.z")
	approxEqual(t, c.Center.X(), 1, 1e-6, "center.x")
	approxEqual(t, c.HalfHeight, 0.45, 1e-6, "halfHeight")

	bb := c.BBox()
	approxEqual(t, bb.Min().Z(), 3.2, 1e-5, "bbox.min.z")
	approxEqual(t, bb.Max().Z(), 3+dims.TotalHeight(), 1e-5, "bbox.max.z")
}

func TestCapsuleIntersectsBox(t *testing.T) {
	dims := ColliderDimensions{Height: 0.9, Radius: 0.4, GroundOffset: 0.2}
	feet := mgl32.Vec3{0, 0, 0}
	capsule := VerticalCapsule(feet, dims)

	tests := []struct {
		name string
		box  cube.BBox
		want bool
	}{
		{"floor below ground offset", floorBox(), false},
		{"ceiling above head", cube.Box(-1, -1, 2.0, 1, 1, 3), false},
		{"low ceiling", cube.Box(-1, -1, 1.4, 1, 1, 2), true},
		{"wall beside", cube.Box(0.5, -1, 0, 1, 1, 3), false},
		{"wall cutting into radius", cube.Box(0.3, -1, 0, 1, 1, 3), true},
		{"box near rounded corner", cube.Box(0.35, 0.35, 1.9, 1, 1, 3), false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := capsule.IntersectsBox(tt.box); got != tt.want {
				t.Fatalf("IntersectsBox() = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestCapsuleIntersectsCapsule(t *testing.T) {
	dims := ColliderDimensions{Height: 0.9, Radius: 0.4}
	a := VerticalCapsule(mgl32.Vec3{0, 0, 0}, dims)

	if !a.IntersectsCapsule(VerticalCapsule(mgl32.Vec3{0.5, 0, 0}, dims)) {
		t.Fatalf("overlapping capsules reported as separate")
	}
	if a.IntersectsCapsule(VerticalCapsule(mgl32.Vec3{0.81, 0, 0}, dims)) {
		t.Fatalf("separate capsules reported as overlapping")
	}
	if !a.IntersectsCapsule(VerticalCapsule(mgl32.Vec3{0, 0, 1.5}, dims)) {
		t.Fatalf("stacked capsules should overlap through their caps")
	}
}

func TestResolveMovement_FloorStopsFall(t *testing.T) {
	dims := ColliderDimensions{Height: 0.9, Radius: 0.4, GroundOffset: 0.2}
	bb := HullBox(mgl32.Vec3{0, 0, 0.5}, dims)

	got := ResolveMovement(bb, mgl32.Vec3{0, 0, -2}, []cube.BBox{floorBox()})

	approxEqual(t, got.Z(), -0.5, 1e-5, "allowed.z")
}

func TestResolveMovement_WallStopsHorizontal(t *testing.T) {
	dims := ColliderDimensions{Height: 0.9, Radius: 0.4}
	bb := HullBox(mgl32.Vec3{0, 0, 0}, dims)
	wall := cube.Box(1, -5, 0, 2, 5, 5)

	got := ResolveMovement(bb, mgl32.Vec3{1, 0.25, 0}, []cube.BBox{floorBox(), wall})

	approxEqual(t, got.X(), 0.6, 1e-5, "allowed.x")
	approxEqual(t, got.Y(), 0.25, 1e-5, "allowed.y")
	approxEqual(t, got.Z(), 0, 1e-6, "allowed.z")
}

func TestCollidesWithAny(t *testing.T) {
	dims := ColliderDimensions{Height: 0.9, Radius: 0.4}
	feet := HullBox(mgl32.Vec3{0, 0, 0}, dims).Translate(mgl32.Vec3{0, 0, -GroundCheckDistance})

	if !CollidesWithAny(feet, []cube.BBox{floorBox()}) {
		t.Fatalf("ground check did not hit floor")
	}
	if CollidesWithAny(feet, nil) {
		t.Fatalf("empty geometry reported contact")
	}
}
