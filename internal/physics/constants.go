package physics

const (
	Gravity          = 9.81
	TerminalVelocity = 55.0

	GroundCheckDistance = 0.01
	CollisionTolerance  = 1e-5

	// overlapIterations bounds the line search used for segment/box distance.
	overlapIterations = 40
)
