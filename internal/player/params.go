package player

import (
	"errors"
	"fmt"

	"github.com/go-gl/mathgl/mgl32"
)

// Params are the controller tunables. They are fixed for the lifetime of a
// controller.
type Params struct {
	WalkSpeed     float32 `yaml:"walk_speed"`
	CanterSpeed   float32 `yaml:"canter_speed"`
	SprintSpeed   float32 `yaml:"sprint_speed"`
	RotationSpeed float32 `yaml:"rotation_speed"`
	MinPitch      float32 `yaml:"min_pitch"`
	MaxPitch      float32 `yaml:"max_pitch"`

	JumpHeight float32 `yaml:"jump_height"`
	MaxJump    uint32  `yaml:"max_jump"`

	StandingHeight float32 `yaml:"standing_height"`
	CrouchHeight   float32 `yaml:"crouch_height"`
	GroundOffset   float32 `yaml:"ground_offset"`

	StandingCameraOffset mgl32.Vec3 `yaml:"standing_camera_offset"`
	CrouchCameraOffset   mgl32.Vec3 `yaml:"crouch_camera_offset"`
	ThirdPersonOffset    mgl32.Vec3 `yaml:"third_person_offset"`
	CameraSmoothing      float32    `yaml:"camera_smoothing"`

	// CrouchToggle makes the crouch key latch instead of hold.
	CrouchToggle bool `yaml:"crouch_toggle"`
}

func DefaultParams() Params {
	return Params{
		WalkSpeed:            3,
		CanterSpeed:          6,
		SprintSpeed:          9,
		RotationSpeed:        0.002,
		MinPitch:             -0.85,
		MaxPitch:             1.5,
		JumpHeight:           1,
		MaxJump:              1,
		StandingHeight:       0.9,
		CrouchHeight:         0.3,
		GroundOffset:         0.2,
		StandingCameraOffset: mgl32.Vec3{0, 0, 1.7},
		CrouchCameraOffset:   mgl32.Vec3{0, 0, 1.0},
		ThirdPersonOffset:    mgl32.Vec3{0, -2.5, 0.6},
		CameraSmoothing:      10,
	}
}

func (p Params) Validate() error {
	var errs []error
	for _, s := range []struct {
		name  string
		value float32
	}{
		{"walk_speed", p.WalkSpeed},
		{"canter_speed", p.CanterSpeed},
		{"sprint_speed", p.SprintSpeed},
		{"jump_height", p.JumpHeight},
		{"ground_offset", p.GroundOffset},
	} {
		if s.value < 0 {
			errs = append(errs, fmt.Errorf("%s must not be negative, got %v", s.name, s.value))
		}
	}
	if p.MinPitch > p.MaxPitch {
		errs = append(errs, fmt.Errorf("min_pitch %v is above max_pitch %v", p.MinPitch, p.MaxPitch))
	}
	if p.StandingHeight <= 0 || p.CrouchHeight <= 0 {
		errs = append(errs, fmt.Errorf("capsule heights must be positive, got standing %v crouch %v", p.StandingHeight, p.CrouchHeight))
	}
	if p.CrouchHeight > p.StandingHeight {
		errs = append(errs, fmt.Errorf("crouch_height %v is above standing_height %v", p.CrouchHeight, p.StandingHeight))
	}
	if p.CameraSmoothing <= 0 {
		errs = append(errs, fmt.Errorf("camera_smoothing must be positive, got %v", p.CameraSmoothing))
	}
	return errors.Join(errs...)
}
