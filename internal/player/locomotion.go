package player

import (
	"github.com/go-gl/mathgl/mgl32"

	"github.com/Versifine/locomote/internal/event"
)

func (c *Controller) speed() float32 {
	switch c.mode {
	case Sprinting:
		return c.params.SprintSpeed
	case Canter:
		return c.params.CanterSpeed
	default:
		return c.params.WalkSpeed
	}
}

// commandedVelocity rotates the normalized intent into world space and scales
// it by the mode speed. Zero intent gives zero velocity.
func (c *Controller) commandedVelocity() mgl32.Vec3 {
	dir := mgl32.Vec3{c.intent.X(), c.intent.Y(), 0}
	l := dir.Len()
	if l == 0 {
		return mgl32.Vec3{}
	}
	dir = dir.Mul(c.speed() / l)
	return c.entity.WorldRotation().Rotate(dir)
}

func (c *Controller) updateLocomotion() {
	if c.missingBody("locomotion") {
		return
	}
	c.velocity = c.commandedVelocity()
	c.body.SetVelocity(c.velocity)
}

func (c *Controller) setMode(m MovementMode) {
	if c.mode == m {
		return
	}
	from := c.mode
	c.mode = m
	c.publish(event.EventModeChanged, event.ModeEvent{From: from.String(), To: m.String()})
}
