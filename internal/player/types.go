package player

import "github.com/go-gl/mathgl/mgl32"

type MovementMode uint8

const (
	Walking MovementMode = iota
	Canter
	Sprinting
)

func (m MovementMode) String() string {
	switch m {
	case Walking:
		return "walking"
	case Canter:
		return "canter"
	case Sprinting:
		return "sprinting"
	default:
		return "unknown"
	}
}

// Stance is the posture governing collider size and camera height. Ground is
// reserved and never entered.
type Stance uint8

const (
	Standing Stance = iota
	Crouch
	Ground
)

func (s Stance) String() string {
	switch s {
	case Standing:
		return "standing"
	case Crouch:
		return "crouch"
	case Ground:
		return "ground"
	default:
		return "unknown"
	}
}

type Perspective uint8

const (
	FirstPerson Perspective = iota
	ThirdPerson
)

func (p Perspective) String() string {
	if p == ThirdPerson {
		return "third-person"
	}
	return "first-person"
}

// EventKind enumerates what a host delivers to a controller. Each kind has
// its own entry point: OnActivate, OnUpdate, OnReset, OnPhysicsConfigChanged.
type EventKind uint8

const (
	Activated EventKind = iota
	Tick
	Reset
	PhysicsConfigChanged
)

func (k EventKind) String() string {
	switch k {
	case Activated:
		return "activated"
	case Tick:
		return "tick"
	case Reset:
		return "reset"
	case PhysicsConfigChanged:
		return "physics-config-changed"
	default:
		return "unknown"
	}
}

// State is a snapshot of the controller, for HUDs and tests.
type State struct {
	Intent       mgl32.Vec2
	Look         mgl32.Vec2
	Mode         MovementMode
	Stance       Stance
	Desired      Stance
	Blocked      bool
	Perspective  Perspective
	Yaw          float32
	Pitch        float32
	CameraTarget mgl32.Vec3
	Velocity     mgl32.Vec3
	Jumps        uint32
	Recentering  bool
}
