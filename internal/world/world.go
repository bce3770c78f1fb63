package world

import (
	"sync"

	"github.com/ethaniccc/float32-cube/cube"
	"github.com/go-gl/mathgl/mgl32"
	"github.com/google/uuid"

	"github.com/Versifine/locomote/internal/physics"
)

// Collider is a dynamic body living in the world.
type Collider interface {
	ID() uuid.UUID
	Capsule() physics.Capsule
	Step(dt float32)
}

type World struct {
	mu     sync.RWMutex
	level  *Level
	boxes  []cube.BBox
	bodies map[uuid.UUID]Collider
	order  []uuid.UUID
}

func New(level *Level) *World {
	w := &World{bodies: make(map[uuid.UUID]Collider)}
	w.SetLevel(level)
	return w
}

// SetLevel swaps the static geometry. Bodies stay where they are.
func (w *World) SetLevel(level *Level) {
	if level == nil {
		level = &Level{}
	}
	boxes := make([]cube.BBox, 0, len(level.Boxes))
	for _, b := range level.Boxes {
		boxes = append(boxes, b.BBox())
	}

	w.mu.Lock()
	w.level = level
	w.boxes = boxes
	w.mu.Unlock()
}

func (w *World) Level() *Level {
	w.mu.RLock()
	defer w.mu.RUnlock()
	return w.level
}

func (w *World) Add(c Collider) {
	w.mu.Lock()
	defer w.mu.Unlock()
	if _, ok := w.bodies[c.ID()]; !ok {
		w.order = append(w.order, c.ID())
	}
	w.bodies[c.ID()] = c
}

func (w *World) BoxesNear(bb cube.BBox) []cube.BBox {
	region := bb.Grow(physics.CollisionTolerance * 10)

	w.mu.RLock()
	defer w.mu.RUnlock()
	var out []cube.BBox
	for _, box := range w.boxes {
		if region.IntersectsWith(box) {
			out = append(out, box)
		}
	}
	return out
}

// Overlaps reports whether c penetrates static geometry or any body other
// than exclude.
func (w *World) Overlaps(c physics.Capsule, exclude uuid.UUID) bool {
	for _, box := range w.BoxesNear(c.BBox()) {
		if c.IntersectsBox(box) {
			return true
		}
	}
	for _, body := range w.others(exclude) {
		if c.IntersectsCapsule(body.Capsule()) {
			return true
		}
	}
	return false
}

// SolidAt reports whether p lies inside static geometry.
func (w *World) SolidAt(p mgl32.Vec3) bool {
	w.mu.RLock()
	defer w.mu.RUnlock()
	for _, box := range w.boxes {
		if physics.PointBoxDistance(box, p) == 0 {
			return true
		}
	}
	return false
}

// Step advances every body in insertion order.
func (w *World) Step(dt float32) {
	for _, body := range w.others(uuid.Nil) {
		body.Step(dt)
	}
}

func (w *World) others(exclude uuid.UUID) []Collider {
	w.mu.RLock()
	defer w.mu.RUnlock()
	out := make([]Collider, 0, len(w.order))
	for _, id := range w.order {
		if id == exclude {
			continue
		}
		out = append(out, w.bodies[id])
	}
	return out
}
