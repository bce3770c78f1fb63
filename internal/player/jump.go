package player

import (
	"log/slog"

	"github.com/go-gl/mathgl/mgl32"

	"github.com/Versifine/locomote/internal/event"
)

// jump issues an upward impulse while jumps remain. The counter is cleared by
// OnUpdate whenever the body reports ground contact.
func (c *Controller) jump() {
	if c.missingBody("jump") {
		return
	}
	if c.jumps >= c.params.MaxJump {
		return
	}
	c.body.AddVelocity(mgl32.Vec3{0, 0, c.params.JumpHeight})
	c.jumps++

	slog.Debug("Jump", "count", c.jumps, "max", c.params.MaxJump)
	c.publish(event.EventJumped, event.JumpEvent{Count: c.jumps, Velocity: c.params.JumpHeight})
}
