package event

const (
	EventStanceChanged = "player.stance.changed"
	EventStanceBlocked = "player.stance.blocked"
	EventJumped        = "player.jumped"
	EventModeChanged   = "player.mode.changed"
	EventPerspective   = "player.perspective.changed"
	EventReset         = "player.reset"
	EventLevelReloaded = "world.level.reloaded"
)

type StanceEvent struct {
	From string
	To   string
}

type JumpEvent struct {
	Count    uint32
	Velocity float32
}

type ModeEvent struct {
	From string
	To   string
}

type PerspectiveEvent struct {
	Perspective string
}

type ResetEvent struct {
	Position [3]float32
	Yaw      float32
}

type LevelEvent struct {
	Name  string
	Boxes int
	Hash  uint64
}
