package physics

import (
	"github.com/ethaniccc/float32-cube/cube"
	"github.com/go-gl/mathgl/mgl32"
)

// BoxSource provides the static geometry near a region.
type BoxSource interface {
	BoxesNear(bb cube.BBox) []cube.BBox
}

// HullBox is the box a character hull occupies for movement resolution. It
// spans from the feet to the top of the capsule so the ground offset acts as
// legs.
func HullBox(feet mgl32.Vec3, dims ColliderDimensions) cube.BBox {
	r := dims.Radius
	return cube.Box(
		feet.X()-r, feet.Y()-r, feet.Z(),
		feet.X()+r, feet.Y()+r, feet.Z()+dims.TotalHeight(),
	)
}

// CollidesWithAny reports whether bb penetrates any of boxes.
func CollidesWithAny(bb cube.BBox, boxes []cube.BBox) bool {
	for _, box := range boxes {
		if bb.IntersectsWith(box) {
			return true
		}
	}
	return false
}

// ResolveMovement clips delta against boxes one axis at a time, vertical
// first, and returns the movement that is actually possible.
func ResolveMovement(bb cube.BBox, delta mgl32.Vec3, boxes []cube.BBox) mgl32.Vec3 {
	var allowed mgl32.Vec3
	for _, axis := range [3]int{2, 0, 1} {
		d := delta[axis]
		if nearlyZero(d) {
			continue
		}
		for _, box := range boxes {
			d = clipAxis(bb, box, axis, d)
		}
		allowed[axis] = d
		var step mgl32.Vec3
		step[axis] = d
		bb = bb.Translate(step)
	}
	return allowed
}

func clipAxis(bb, box cube.BBox, axis int, d float32) float32 {
	for i := 0; i < 3; i++ {
		if i == axis {
			continue
		}
		if bb.Max()[i] <= box.Min()[i]+CollisionTolerance || bb.Min()[i] >= box.Max()[i]-CollisionTolerance {
			return d
		}
	}

	if d > 0 && bb.Max()[axis] <= box.Min()[axis]+CollisionTolerance {
		if gap := box.Min()[axis] - bb.Max()[axis]; gap < d {
			d = max(gap, 0)
		}
	} else if d < 0 && bb.Min()[axis] >= box.Max()[axis]-CollisionTolerance {
		if gap := box.Max()[axis] - bb.Min()[axis]; gap > d {
			d = min(gap, 0)
		}
	}
	return d
}

func nearlyZero(v float32) bool {
	return v <= CollisionTolerance && v >= -CollisionTolerance
}
