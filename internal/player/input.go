package player

import "github.com/Versifine/locomote/internal/input"

const InputGroup = "player"

const (
	ActionMoveForward  = "moveforward"
	ActionMoveBackward = "movebackward"
	ActionMoveRight    = "moveright"
	ActionMoveLeft     = "moveleft"
	ActionSprint       = "sprint"
	ActionCanter       = "canter"
	ActionJump         = "jump"
	ActionCrouch       = "crouch"
	ActionYaw          = "yaw"
	ActionPitch        = "pitch"
	ActionCamSwitch    = "camswitch"
	ActionMoveStickX   = "movestickx"
	ActionMoveStickY   = "movesticky"
)

type binding struct {
	action string
	device input.Device
	key    input.Key
	cb     input.Callback
}

func (c *Controller) bindings() []binding {
	const (
		km  = input.KeyboardMouse
		pad = input.Gamepad
	)
	// Mouse X and stick X grow rightwards, screen and stick Y downwards.
	// Look axes are flipped so that positive yaw and pitch mean turning left
	// and looking up; the left stick Y is flipped so pushing it is forward.
	yaw := c.axis(&c.look[0], -1)
	pitch := c.axis(&c.look[1], -1)
	return []binding{
		{ActionMoveForward, km, input.KeyW, c.axis(&c.intent[1], 1)},
		{ActionMoveBackward, km, input.KeyS, c.axis(&c.intent[1], -1)},
		{ActionMoveRight, km, input.KeyD, c.axis(&c.intent[0], 1)},
		{ActionMoveLeft, km, input.KeyA, c.axis(&c.intent[0], -1)},
		{ActionMoveStickX, pad, input.KeyPadLeftX, c.axis(&c.intent[0], 1)},
		{ActionMoveStickY, pad, input.KeyPadLeftY, c.axis(&c.intent[1], -1)},
		{ActionSprint, km, input.KeyLShift, c.modeSwitch(Sprinting)},
		{ActionCanter, km, input.KeyLAlt, c.modeSwitch(Canter)},
		{ActionJump, km, input.KeySpace, c.onJump},
		{ActionJump, pad, input.KeyPadSouth, c.onJump},
		{ActionCrouch, km, input.KeyC, c.onCrouch},
		{ActionCrouch, pad, input.KeyPadEast, c.onCrouch},
		{ActionYaw, km, input.KeyMouseX, yaw},
		{ActionYaw, pad, input.KeyPadRightX, yaw},
		{ActionPitch, km, input.KeyMouseY, pitch},
		{ActionPitch, pad, input.KeyPadRightY, pitch},
		{ActionCamSwitch, km, input.KeyF2, c.onCamSwitch},
	}
}

func (c *Controller) bindInput() {
	if c.input == nil {
		return
	}
	for _, b := range c.bindings() {
		c.input.RegisterAction(InputGroup, b.action, b.cb)
		c.input.BindAction(InputGroup, b.action, b.device, b.key)
	}
}

// axis overwrites *dst with sign*value. Release writes zero.
func (c *Controller) axis(dst *float32, sign float32) input.Callback {
	return func(mode input.ActivationMode, value float32) {
		if mode == input.Released {
			*dst = 0
			return
		}
		*dst = sign * value
	}
}

func (c *Controller) modeSwitch(m MovementMode) input.Callback {
	return func(mode input.ActivationMode, _ float32) {
		switch mode {
		case input.Pressed:
			c.setMode(m)
		case input.Released:
			if c.mode == m {
				c.setMode(Walking)
			}
		}
	}
}

func (c *Controller) onJump(mode input.ActivationMode, _ float32) {
	if mode == input.Pressed {
		c.jump()
	}
}

func (c *Controller) onCrouch(mode input.ActivationMode, _ float32) {
	switch {
	case mode == input.Pressed && c.params.CrouchToggle:
		if c.desired == Crouch {
			c.desired = Standing
		} else {
			c.desired = Crouch
		}
	case mode == input.Pressed:
		c.desired = Crouch
	case mode == input.Released && !c.params.CrouchToggle:
		c.desired = Standing
	}
}

func (c *Controller) onCamSwitch(mode input.ActivationMode, _ float32) {
	if mode != input.Pressed {
		return
	}
	if c.perspective == FirstPerson {
		c.SetPerspective(ThirdPerson)
	} else {
		c.SetPerspective(FirstPerson)
	}
}
