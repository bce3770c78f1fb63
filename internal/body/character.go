package body

import (
	"sync"

	"github.com/ethaniccc/float32-cube/cube"
	"github.com/go-gl/mathgl/mgl32"
	"github.com/google/uuid"

	"github.com/Versifine/locomote/internal/physics"
)

// Space is the world a character moves through.
type Space interface {
	physics.BoxSource
	Overlaps(c physics.Capsule, exclude uuid.UUID) bool
}

// Anchor is the transform a character drives.
type Anchor interface {
	WorldPosition() mgl32.Vec3
	SetPosition(pos mgl32.Vec3)
}

// State is a copy of the simulated body state.
type State struct {
	Position mgl32.Vec3
	Velocity mgl32.Vec3
	OnGround bool
	Collider physics.ColliderDimensions
}

// Character is a kinematic capsule body. SetVelocity replaces the horizontal
// move request every call; AddVelocity adds to the physical velocity and is
// how impulses such as jumps enter the simulation. Horizontal velocity always
// follows the latest move request.
type Character struct {
	mu       sync.Mutex
	id       uuid.UUID
	anchor   Anchor
	space    Space
	params   physics.Parameters
	collider physics.ColliderDimensions
	move     mgl32.Vec3
	velocity mgl32.Vec3
	onGround bool

	onChanged func()
}

func New(anchor Anchor, space Space, params physics.Parameters) *Character {
	return &Character{
		id:     uuid.New(),
		anchor: anchor,
		space:  space,
		params: params,
		collider: physics.ColliderDimensions{
			Height: params.Height,
			Radius: params.Radius * 0.5,
		},
	}
}

func (c *Character) ID() uuid.UUID {
	return c.id
}

// OnParametersChanged registers fn to run after every collider write, the
// way an engine notifies components that the physical setup changed. fn runs
// without the body lock held, so it may write the collider again.
func (c *Character) OnParametersChanged(fn func()) {
	c.mu.Lock()
	c.onChanged = fn
	c.mu.Unlock()
}

func (c *Character) SetVelocity(v mgl32.Vec3) {
	c.mu.Lock()
	c.move = mgl32.Vec3{v.X(), v.Y(), 0}
	c.mu.Unlock()
}

func (c *Character) AddVelocity(v mgl32.Vec3) {
	c.mu.Lock()
	c.velocity = c.velocity.Add(v)
	if v.Z() > 0 {
		c.onGround = false
	}
	c.mu.Unlock()
}

func (c *Character) IsOnGround() bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.onGround
}

func (c *Character) Parameters() physics.Parameters {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.params
}

func (c *Character) SetColliderDimensions(dims physics.ColliderDimensions) {
	c.mu.Lock()
	c.collider = dims
	fn := c.onChanged
	c.mu.Unlock()

	if fn != nil {
		fn()
	}
}

// Intersects reports whether capsule overlaps world geometry or any other
// body. The character itself is never counted.
func (c *Character) Intersects(capsule physics.Capsule) bool {
	if c.space == nil {
		return false
	}
	return c.space.Overlaps(capsule, c.id)
}

// Capsule is the collider in world space.
func (c *Character) Capsule() physics.Capsule {
	c.mu.Lock()
	dims := c.collider
	c.mu.Unlock()
	return physics.VerticalCapsule(c.anchor.WorldPosition(), dims)
}

func (c *Character) State() State {
	c.mu.Lock()
	defer c.mu.Unlock()
	return State{
		Position: c.anchor.WorldPosition(),
		Velocity: c.velocity,
		OnGround: c.onGround,
		Collider: c.collider,
	}
}

// Teleport moves the body without sweeping and clears its velocity.
func (c *Character) Teleport(pos mgl32.Vec3) {
	c.mu.Lock()
	c.velocity = mgl32.Vec3{}
	c.onGround = false
	c.mu.Unlock()
	c.anchor.SetPosition(pos)
}

// Step integrates one tick of dt seconds.
func (c *Character) Step(dt float32) {
	if dt <= 0 {
		return
	}

	c.mu.Lock()
	vel := c.velocity
	vel[0], vel[1] = c.move.X(), c.move.Y()
	if c.onGround && vel.Z() <= 0 {
		vel[2] = 0
	} else {
		vel[2] = max(vel.Z()-physics.Gravity*dt, -physics.TerminalVelocity)
	}
	dims := c.collider
	c.mu.Unlock()

	pos := c.anchor.WorldPosition()
	delta := vel.Mul(dt)
	hull := physics.HullBox(pos, dims)

	var boxes []cube.BBox
	if c.space != nil {
		boxes = c.space.BoxesNear(hull.Extend(delta))
	}
	allowed := physics.ResolveMovement(hull, delta, boxes)
	if allowed.Z() != delta.Z() {
		vel[2] = 0
	}
	pos = pos.Add(allowed)
	c.anchor.SetPosition(pos)

	onGround := false
	if vel.Z() <= 0 && c.space != nil {
		feet := physics.HullBox(pos, dims).Translate(mgl32.Vec3{0, 0, -physics.GroundCheckDistance})
		onGround = physics.CollidesWithAny(feet, c.space.BoxesNear(feet))
	}

	c.mu.Lock()
	c.velocity = vel
	c.onGround = onGround
	c.mu.Unlock()
}
