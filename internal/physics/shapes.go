package physics

import (
	"github.com/chewxy/math32"
	"github.com/ethaniccc/float32-cube/cube"
	"github.com/go-gl/mathgl/mgl32"
)

// Up is the vertical axis of the simulation frame.
var Up = mgl32.Vec3{0, 0, 1}

// Parameters describes how a physical body was configured. Radius is the
// configured physics radius; capsule colliders derived from it use half of it.
type Parameters struct {
	Radius    float32
	Height    float32
	IsCapsule bool
}

// ColliderDimensions is the live collider shape of a character body. The
// capsule floats GroundOffset above the feet, its cylinder is Height tall.
type ColliderDimensions struct {
	Height       float32
	Radius       float32
	GroundOffset float32
}

// TotalHeight is the distance from the feet to the top of the capsule.
func (d ColliderDimensions) TotalHeight() float32 {
	return d.GroundOffset + d.Height + 2*d.Radius
}

// Capsule is the set of points within Radius of the segment
// Center-Axis*HalfHeight .. Center+Axis*HalfHeight. Axis must be unit length.
type Capsule struct {
	Center     mgl32.Vec3
	Axis       mgl32.Vec3
	HalfHeight float32
	Radius     float32
}

// VerticalCapsule builds the capsule a body with dims occupies when its feet
// are at feet.
func VerticalCapsule(feet mgl32.Vec3, dims ColliderDimensions) Capsule {
	return Capsule{
		Center:     feet.Add(Up.Mul(dims.GroundOffset + dims.Radius + dims.Height/2)),
		Axis:       Up,
		HalfHeight: dims.Height / 2,
		Radius:     dims.Radius,
	}
}

// Segment returns the two end points of the capsule's core segment.
func (c Capsule) Segment() (mgl32.Vec3, mgl32.Vec3) {
	half := c.Axis.Mul(c.HalfHeight)
	return c.Center.Sub(half), c.Center.Add(half)
}

// BBox returns the axis aligned box enclosing the capsule.
func (c Capsule) BBox() cube.BBox {
	a, b := c.Segment()
	return cube.Box(
		math32.Min(a.X(), b.X())-c.Radius,
		math32.Min(a.Y(), b.Y())-c.Radius,
		math32.Min(a.Z(), b.Z())-c.Radius,
		math32.Max(a.X(), b.X())+c.Radius,
		math32.Max(a.Y(), b.Y())+c.Radius,
		math32.Max(a.Z(), b.Z())+c.Radius,
	)
}

// IntersectsBox reports whether the capsule penetrates box. Touching surfaces
// are not counted as contact.
func (c Capsule) IntersectsBox(box cube.BBox) bool {
	if !c.BBox().IntersectsWith(box) {
		return false
	}
	a, b := c.Segment()
	return segmentBoxDistance(a, b, box) < c.Radius-CollisionTolerance
}

// IntersectsCapsule reports whether two capsules penetrate each other.
func (c Capsule) IntersectsCapsule(o Capsule) bool {
	a1, b1 := c.Segment()
	a2, b2 := o.Segment()
	reach := c.Radius + o.Radius - CollisionTolerance
	if reach <= 0 {
		return false
	}
	return segmentSegmentDistSqr(a1, b1, a2, b2) < reach*reach
}

// PointBoxDistance is the euclidean distance from p to the closest point of box.
func PointBoxDistance(box cube.BBox, p mgl32.Vec3) float32 {
	x := math32.Max(box.Min().X()-p.X(), math32.Max(0, p.X()-box.Max().X()))
	y := math32.Max(box.Min().Y()-p.Y(), math32.Max(0, p.Y()-box.Max().Y()))
	z := math32.Max(box.Min().Z()-p.Z(), math32.Max(0, p.Z()-box.Max().Z()))
	return math32.Sqrt(x*x + y*y + z*z)
}

// segmentBoxDistance minimises the point/box distance along the segment. The
// distance to a convex set is convex along a line, so a ternary search holds.
func segmentBoxDistance(a, b mgl32.Vec3, box cube.BBox) float32 {
	dir := b.Sub(a)
	at := func(t float32) float32 {
		return PointBoxDistance(box, a.Add(dir.Mul(t)))
	}

	lo, hi := float32(0), float32(1)
	for i := 0; i < overlapIterations; i++ {
		m1 := lo + (hi-lo)/3
		m2 := hi - (hi-lo)/3
		if at(m1) <= at(m2) {
			hi = m2
		} else {
			lo = m1
		}
	}
	best := at((lo + hi) / 2)
	return math32.Min(best, math32.Min(at(0), at(1)))
}

// segmentSegmentDistSqr returns the squared distance between the closest
// points of segments p1q1 and p2q2.
func segmentSegmentDistSqr(p1, q1, p2, q2 mgl32.Vec3) float32 {
	const eps = 1e-9

	d1 := q1.Sub(p1)
	d2 := q2.Sub(p2)
	r := p1.Sub(p2)
	a := d1.Dot(d1)
	e := d2.Dot(d2)
	f := d2.Dot(r)

	var s, t float32
	switch {
	case a <= eps && e <= eps:
		return r.Dot(r)
	case a <= eps:
		t = mgl32.Clamp(f/e, 0, 1)
	default:
		c := d1.Dot(r)
		if e <= eps {
			s = mgl32.Clamp(-c/a, 0, 1)
			break
		}
		b := d1.Dot(d2)
		if denom := a*e - b*b; denom != 0 {
			s = mgl32.Clamp((b*f-c*e)/denom, 0, 1)
		}
		t = (b*s + f) / e
		if t < 0 {
			t = 0
			s = mgl32.Clamp(-c/a, 0, 1)
		} else if t > 1 {
			t = 1
			s = mgl32.Clamp((b-c)/a, 0, 1)
		}
	}

	diff := p1.Add(d1.Mul(s)).Sub(p2.Add(d2.Mul(t)))
	return diff.Dot(diff)
}
