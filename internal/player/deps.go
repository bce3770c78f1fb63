package player

import (
	"github.com/go-gl/mathgl/mgl32"

	"github.com/Versifine/locomote/internal/physics"
	"github.com/Versifine/locomote/internal/scene"
)

// Body is the character controller the player drives.
type Body interface {
	SetVelocity(v mgl32.Vec3)
	AddVelocity(v mgl32.Vec3)
	IsOnGround() bool
	Parameters() physics.Parameters
	SetColliderDimensions(dims physics.ColliderDimensions)
	// Intersects reports overlap with anything except the body itself.
	Intersects(capsule physics.Capsule) bool
}

type Entity interface {
	WorldPosition() mgl32.Vec3
	WorldRotation() mgl32.Quat
	SetRotation(q mgl32.Quat)
}

type Camera interface {
	LocalTransform() scene.Transform
	SetLocalTransform(t scene.Transform)
}

// Publisher receives controller events. *event.Bus satisfies it.
type Publisher interface {
	Publish(eventName string, evt any)
}
