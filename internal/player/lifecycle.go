package player

import (
	"log/slog"

	"github.com/go-gl/mathgl/mgl32"

	"github.com/Versifine/locomote/internal/event"
	"github.com/Versifine/locomote/internal/scene"
)

// OnActivate prepares the controller when gameplay starts.
func (c *Controller) OnActivate() {
	c.reinitialize("activate")
}

// OnReset discards all accumulated state and re-reads the heading from the
// entity.
func (c *Controller) OnReset() {
	c.reinitialize("reset")
}

// OnPhysicsConfigChanged rewrites the collider for the current stance. The
// notification caused by the controller's own write is ignored.
func (c *Controller) OnPhysicsConfigChanged() {
	if c.recentering || c.body == nil {
		return
	}
	c.writeCollider(c.colliderFor(c.stance))
}

func (c *Controller) reinitialize(reason string) {
	c.intent = mgl32.Vec2{}
	c.look = mgl32.Vec2{}
	c.bindInput()

	c.mode = Walking
	c.stance = Standing
	c.desired = Standing
	c.blocked = false
	c.perspective = FirstPerson

	c.yaw = yawQuat(c.entity.WorldRotation())
	c.pitch = 0
	c.jumps = 0
	c.velocity = mgl32.Vec3{}
	c.cameraTarget = c.params.StandingCameraOffset

	if c.body != nil {
		c.writeCollider(c.colliderFor(Standing))
	}

	pos := c.entity.WorldPosition()
	yaw := scene.YawOf(c.yaw)
	slog.Info("Player controller initialized", "reason", reason, "position", pos, "yaw", yaw)
	c.publish(event.EventReset, event.ResetEvent{Position: pos, Yaw: yaw})
}
