// Package scene holds the transform-bearing objects a controller steers: the
// entity it is attached to and the camera sight parented to that entity.
package scene

import (
	"sync"

	"github.com/chewxy/math32"
	"github.com/go-gl/mathgl/mgl32"
)

// Forward is the local forward axis; Lateral is the axis pitch rotates about.
var (
	Forward = mgl32.Vec3{0, 1, 0}
	Lateral = mgl32.Vec3{1, 0, 0}
)

type Transform struct {
	Translation mgl32.Vec3
	Rotation    mgl32.Quat
}

// YawOf extracts the heading of q around the vertical axis, in radians.
func YawOf(q mgl32.Quat) float32 {
	f := q.Rotate(Forward)
	return math32.Atan2(-f.X(), f.Y())
}

// Entity is a world-space position and orientation.
type Entity struct {
	mu       sync.RWMutex
	position mgl32.Vec3
	rotation mgl32.Quat
}

func NewEntity(position mgl32.Vec3, yaw float32) *Entity {
	return &Entity{
		position: position,
		rotation: mgl32.QuatRotate(yaw, mgl32.Vec3{0, 0, 1}),
	}
}

func (e *Entity) WorldPosition() mgl32.Vec3 {
	e.mu.RLock()
	defer e.mu.RUnlock()
	return e.position
}

func (e *Entity) WorldRotation() mgl32.Quat {
	e.mu.RLock()
	defer e.mu.RUnlock()
	return e.rotation
}

func (e *Entity) SetPosition(pos mgl32.Vec3) {
	e.mu.Lock()
	e.position = pos
	e.mu.Unlock()
}

func (e *Entity) SetRotation(q mgl32.Quat) {
	e.mu.Lock()
	e.rotation = q
	e.mu.Unlock()
}

// Camera is a sight whose transform is local to its parent entity.
type Camera struct {
	mu    sync.RWMutex
	local Transform
}

func NewCamera(local Transform) *Camera {
	return &Camera{local: local}
}

func (c *Camera) LocalTransform() Transform {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.local
}

func (c *Camera) SetLocalTransform(t Transform) {
	c.mu.Lock()
	c.local = t
	c.mu.Unlock()
}

// WorldTransform composes the local transform with the parent's.
func (c *Camera) WorldTransform(parent *Entity) Transform {
	local := c.LocalTransform()
	rot := parent.WorldRotation()
	return Transform{
		Translation: parent.WorldPosition().Add(rot.Rotate(local.Translation)),
		Rotation:    rot.Mul(local.Rotation),
	}
}
