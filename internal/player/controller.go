// Package player implements a first/third person character controller. A
// host drives it through OnActivate, OnUpdate, OnReset and
// OnPhysicsConfigChanged from a single goroutine; input callbacks must run on
// that same goroutine.
package player

import (
	"errors"
	"fmt"
	"log/slog"

	"github.com/go-gl/mathgl/mgl32"

	"github.com/Versifine/locomote/internal/input"
	"github.com/Versifine/locomote/internal/scene"
)

var ErrNilEntity = errors.New("player: nil entity")

type Option func(*Controller)

func WithBus(p Publisher) Option {
	return func(c *Controller) { c.bus = p }
}

func WithInput(svc input.Service) Option {
	return func(c *Controller) { c.input = svc }
}

type Controller struct {
	params Params
	entity Entity
	body   Body
	camera Camera
	bus    Publisher
	input  input.Service

	intent mgl32.Vec2
	look   mgl32.Vec2
	mode   MovementMode

	stance  Stance
	desired Stance
	blocked bool

	perspective  Perspective
	yaw          mgl32.Quat
	pitch        float32
	cameraTarget mgl32.Vec3

	velocity mgl32.Vec3
	jumps    uint32

	// recentering is set while the controller itself writes collider
	// dimensions, so the physics-changed notification that write triggers is
	// ignored.
	recentering  bool
	warnedNoBody bool
}

// New builds a controller for entity with neither body nor camera; hosts
// attach those with AttachBody and AttachCamera. Input is bound by
// OnActivate.
func New(entity Entity, params Params, opts ...Option) (*Controller, error) {
	if entity == nil {
		return nil, ErrNilEntity
	}
	if err := params.Validate(); err != nil {
		return nil, fmt.Errorf("invalid player params: %w", err)
	}

	c := &Controller{
		params:       params,
		entity:       entity,
		yaw:          yawQuat(entity.WorldRotation()),
		cameraTarget: params.StandingCameraOffset,
	}
	for _, opt := range opts {
		opt(c)
	}
	return c, nil
}

// AttachBody swaps the physical body. A nil body disables locomotion, jumps
// and stance changes until one is attached again.
func (c *Controller) AttachBody(b Body) {
	c.body = b
	c.warnedNoBody = false
	if b != nil {
		c.writeCollider(c.colliderFor(c.stance))
	}
}

// AttachCamera swaps the camera. With a nil camera yaw and pitch still
// integrate but nothing is written to a camera.
func (c *Controller) AttachCamera(cam Camera) {
	c.camera = cam
}

func (c *Controller) State() State {
	return State{
		Intent:       c.intent,
		Look:         c.look,
		Mode:         c.mode,
		Stance:       c.stance,
		Desired:      c.desired,
		Blocked:      c.blocked,
		Perspective:  c.perspective,
		Yaw:          scene.YawOf(c.yaw),
		Pitch:        c.pitch,
		CameraTarget: c.cameraTarget,
		Velocity:     c.velocity,
		Jumps:        c.jumps,
		Recentering:  c.recentering,
	}
}

// OnUpdate runs one tick: jump bookkeeping, stance, locomotion, then look and
// camera.
func (c *Controller) OnUpdate(dt float32) {
	if c.body != nil && c.body.IsOnGround() {
		c.jumps = 0
	}
	c.updateStance()
	c.updateLocomotion()
	c.updateLook(dt)
}

func (c *Controller) publish(name string, evt any) {
	if c.bus == nil {
		return
	}
	c.bus.Publish(name, evt)
}

func (c *Controller) missingBody(op string) bool {
	if c.body != nil {
		return false
	}
	if !c.warnedNoBody {
		slog.Debug("No physical body attached, skipping", "op", op)
		c.warnedNoBody = true
	}
	return true
}
