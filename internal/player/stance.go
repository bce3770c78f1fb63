package player

import (
	"log/slog"

	"github.com/go-gl/mathgl/mgl32"

	"github.com/Versifine/locomote/internal/event"
	"github.com/Versifine/locomote/internal/physics"
)

// updateStance moves the current stance toward the desired one. Growing into
// Standing requires the standing capsule to be clear of geometry; a blocked
// attempt leaves everything untouched and is retried next tick. Giving up on
// the transition ends the blocked episode.
func (c *Controller) updateStance() {
	if c.desired == c.stance {
		c.blocked = false
		return
	}
	if c.missingBody("stance") {
		return
	}

	dims := c.colliderFor(c.desired)
	if c.desired == Standing {
		capsule := physics.VerticalCapsule(c.entity.WorldPosition(), dims)
		if c.body.Intersects(capsule) {
			if !c.blocked {
				c.blocked = true
				slog.Debug("Stand up blocked", "position", c.entity.WorldPosition())
				c.publish(event.EventStanceBlocked, event.StanceEvent{From: c.stance.String(), To: c.desired.String()})
			}
			return
		}
	}

	from := c.stance
	c.writeCollider(dims)
	c.stance = c.desired
	c.blocked = false
	c.cameraTarget = c.targetOffset()

	slog.Debug("Stance changed", "from", from, "to", c.stance)
	c.publish(event.EventStanceChanged, event.StanceEvent{From: from.String(), To: c.stance.String()})
}

// colliderFor returns the collider for s. The radius is half the body's
// configured physics radius.
func (c *Controller) colliderFor(s Stance) physics.ColliderDimensions {
	height := c.params.StandingHeight
	if s != Standing {
		height = c.params.CrouchHeight
	}
	return physics.ColliderDimensions{
		Height:       height,
		Radius:       c.body.Parameters().Radius * 0.5,
		GroundOffset: c.params.GroundOffset,
	}
}

func (c *Controller) writeCollider(dims physics.ColliderDimensions) {
	c.recentering = true
	defer func() { c.recentering = false }()
	c.body.SetColliderDimensions(dims)
}

// targetOffset is where the camera settles for the current stance and
// perspective.
func (c *Controller) targetOffset() mgl32.Vec3 {
	offset := c.params.StandingCameraOffset
	if c.stance != Standing {
		offset = c.params.CrouchCameraOffset
	}
	if c.perspective == ThirdPerson {
		offset = offset.Add(c.params.ThirdPersonOffset)
	}
	return offset
}

// SetPerspective switches between first and third person. Only the camera
// target moves; the camera glides there over the following ticks.
func (c *Controller) SetPerspective(p Perspective) {
	if c.perspective == p {
		return
	}
	c.perspective = p
	c.cameraTarget = c.targetOffset()
	c.publish(event.EventPerspective, event.PerspectiveEvent{Perspective: p.String()})
}
