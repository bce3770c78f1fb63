package player

import (
	"github.com/go-gl/mathgl/mgl32"

	"github.com/Versifine/locomote/internal/physics"
	"github.com/Versifine/locomote/internal/scene"
)

// updateLook applies the look delta. Yaw turns the whole entity, pitch only
// tilts the camera, so the two never compose into roll. The delta is consumed.
func (c *Controller) updateLook(dt float32) {
	if c.look.X() != 0 {
		step := mgl32.QuatRotate(c.look.X()*c.params.RotationSpeed, physics.Up)
		c.yaw = c.yaw.Mul(step).Normalize()
	}
	c.entity.SetRotation(c.yaw)

	c.pitch = mgl32.Clamp(c.pitch+c.look.Y()*c.params.RotationSpeed, c.params.MinPitch, c.params.MaxPitch)
	c.look = mgl32.Vec2{}

	if c.camera == nil {
		return
	}
	current := c.camera.LocalTransform().Translation
	alpha := mgl32.Clamp(c.params.CameraSmoothing*dt, 0, 1)
	c.camera.SetLocalTransform(scene.Transform{
		Translation: current.Add(c.cameraTarget.Sub(current).Mul(alpha)),
		Rotation:    mgl32.QuatRotate(c.pitch, scene.Lateral),
	})
}

// yawQuat keeps only the heading of q.
func yawQuat(q mgl32.Quat) mgl32.Quat {
	return mgl32.QuatRotate(scene.YawOf(q), physics.Up)
}
