package sandbox

import (
	"context"
	"math"
	"strings"
	"testing"
	"time"

	"github.com/go-gl/mathgl/mgl32"

	"github.com/Versifine/locomote/internal/event"
	"github.com/Versifine/locomote/internal/input"
	"github.com/Versifine/locomote/internal/physics"
	"github.com/Versifine/locomote/internal/player"
	"github.com/Versifine/locomote/internal/world"
)

const dt = float32(1.0 / 60)

func newHost(t *testing.T, level *world.Level) *Host {
	t.Helper()
	h, err := New(Options{
		Level:  level,
		Params: player.DefaultParams(),
		Body:   physics.Parameters{Radius: 0.8, Height: 0.9, IsCapsule: true},
	})
	if err != nil {
		t.Fatalf("New() error = %v", err)
	}
	h.Activate()
	return h
}

func near(a, b mgl32.Vec3) bool {
	for i := range 3 {
		if math.Abs(float64(a[i]-b[i])) > 1e-4 {
			return false
		}
	}
	return true
}

func hasEvent(s Snapshot, topic string) bool {
	for _, e := range s.Events {
		if strings.Contains(e, topic) {
			return true
		}
	}
	return false
}

func TestNew_InvalidParams(t *testing.T) {
	params := player.DefaultParams()
	params.CameraSmoothing = 0
	if _, err := New(Options{Params: params}); err == nil {
		t.Fatalf("New() accepted invalid params")
	}
}

func TestHost_SettlesOnFloor(t *testing.T) {
	h := newHost(t, nil)
	h.RunTicks(30, dt)

	s := h.Snapshot()
	if !s.Body.OnGround {
		t.Fatalf("body not on ground: %+v", s.Body)
	}
	if math.Abs(float64(s.Body.Position.Z())) > 1e-4 {
		t.Fatalf("position.z = %v, want 0", s.Body.Position.Z())
	}
	want := physics.ColliderDimensions{Height: 0.9, Radius: 0.4, GroundOffset: 0.2}
	if s.Body.Collider != want {
		t.Fatalf("collider = %+v, want %+v", s.Body.Collider, want)
	}
	if s.Tick != 30 || s.Level != "default" {
		t.Fatalf("snapshot tick/level = %d/%q", s.Tick, s.Level)
	}
}

func TestHost_PulseMovesThenReleases(t *testing.T) {
	h := newHost(t, nil)
	h.RunTicks(5, dt)

	h.Pulse(input.KeyW, input.KeyS)
	h.RunTicks(1, dt)
	if got := h.Snapshot().Player.Velocity; !near(got, mgl32.Vec3{0, 3, 0}) {
		t.Fatalf("velocity = %v, want (0,3,0)", got)
	}

	h.RunTicks(40, dt)
	s := h.Snapshot()
	if s.Player.Intent != (mgl32.Vec2{}) {
		t.Fatalf("intent = %v after pulse expiry, want zero", s.Player.Intent)
	}
	y := s.Body.Position.Y()
	if y < 0.4 || y > 0.7 {
		t.Fatalf("position.y = %v, want about 180ms at 3 m/s", y)
	}
	if math.Abs(float64(s.Body.Position.X())) > 1e-4 {
		t.Fatalf("position.x = %v, want 0", s.Body.Position.X())
	}
}

func TestHost_StandUpBlockedUnderCrawlspace(t *testing.T) {
	h := newHost(t, nil)
	h.RunTicks(5, dt)

	h.Toggle(input.KeyC)
	h.RunTicks(1, dt)
	if got := h.Snapshot().Player.Stance; got != player.Crouch {
		t.Fatalf("stance = %v, want crouch", got)
	}

	h.Do(func() { h.Teleport(mgl32.Vec3{0, 6, 0}) })
	h.RunTicks(5, dt)
	h.Toggle(input.KeyC)
	h.RunTicks(3, dt)

	s := h.Snapshot()
	if s.Player.Stance != player.Crouch || !s.Player.Blocked {
		t.Fatalf("player = %+v, want blocked crouch", s.Player)
	}
	if s.Body.Collider.Height != 0.3 {
		t.Fatalf("collider height = %v, want crouch height", s.Body.Collider.Height)
	}
	if !hasEvent(s, event.EventStanceBlocked) {
		t.Fatalf("events = %v, want a blocked stance event", s.Events)
	}
	if !s.Urgent {
		t.Fatalf("snapshot should flag the blocked event as urgent")
	}

	h.Do(func() { h.Teleport(mgl32.Vec3{0, 0, 0}) })
	h.RunTicks(1, dt)
	if got := h.Snapshot().Player.Stance; got != player.Standing {
		t.Fatalf("stance = %v once clear, want standing", got)
	}
}

func TestHost_JumpLeavesGroundAndLands(t *testing.T) {
	h := newHost(t, nil)
	h.RunTicks(5, dt)

	h.Tap(input.KeySpace)
	h.RunTicks(1, dt)
	s := h.Snapshot()
	if s.Player.Jumps != 1 || s.Body.OnGround || s.Body.Position.Z() <= 0 {
		t.Fatalf("after jump: player=%+v body=%+v", s.Player, s.Body)
	}

	h.Tap(input.KeySpace)
	h.RunTicks(1, dt)
	if got := h.Snapshot().Player.Jumps; got != 1 {
		t.Fatalf("jumps = %d, second airborne jump should be refused", got)
	}

	h.RunTicks(60, dt)
	s = h.Snapshot()
	if !s.Body.OnGround || s.Player.Jumps != 0 {
		t.Fatalf("after landing: player=%+v body=%+v", s.Player, s.Body)
	}
}

func TestHost_PhysicsChangeRecentersCollider(t *testing.T) {
	h := newHost(t, nil)
	h.Do(func() {
		h.body.SetColliderDimensions(physics.ColliderDimensions{Height: 2, Radius: 1})
	})
	h.RunTicks(1, dt)

	want := physics.ColliderDimensions{Height: 0.9, Radius: 0.4, GroundOffset: 0.2}
	if got := h.Snapshot().Body.Collider; got != want {
		t.Fatalf("collider = %+v, want recentered %+v", got, want)
	}
}

func TestHost_ResetRespawns(t *testing.T) {
	level := world.DefaultLevel()
	level.Spawn = mgl32.Vec3{1, 1, 0}
	level.SpawnYaw = 0.5
	h := newHost(t, level)

	h.Toggle(input.KeyLShift)
	h.Nudge(input.KeyMouseX, 200)
	h.Do(func() { h.Teleport(mgl32.Vec3{5, 5, 3}) })
	h.RunTicks(2, dt)

	h.Do(h.Reset)
	h.RunTicks(1, dt)

	s := h.Snapshot()
	if s.Player.Mode != player.Walking {
		t.Fatalf("mode = %v after reset", s.Player.Mode)
	}
	if math.Abs(float64(s.Player.Yaw-0.5)) > 1e-4 {
		t.Fatalf("yaw = %v, want spawn yaw 0.5", s.Player.Yaw)
	}
	pos := s.Body.Position
	if math.Abs(float64(pos.X()-1)) > 1e-4 || math.Abs(float64(pos.Y()-1)) > 1e-4 {
		t.Fatalf("position = %v, want spawn", pos)
	}
	if !hasEvent(s, event.EventReset) {
		t.Fatalf("events = %v, want reset", s.Events)
	}
}

func TestHost_ReloadLevel(t *testing.T) {
	h := newHost(t, nil)
	h.RunTicks(1, dt)

	open := &world.Level{Name: "open", Boxes: []world.Box{
		{Name: "floor", Min: mgl32.Vec3{-5, -5, -1}, Max: mgl32.Vec3{5, 5, 0}},
	}}
	h.Do(func() { h.ReloadLevel(open) })
	h.RunTicks(1, dt)

	s := h.Snapshot()
	if s.Level != "open" {
		t.Fatalf("level = %q, want open", s.Level)
	}
	if !hasEvent(s, event.EventLevelReloaded) {
		t.Fatalf("events = %v, want level reload", s.Events)
	}
	if h.SolidAt(mgl32.Vec3{6.5, 0, 1}) {
		t.Fatalf("old wall still solid")
	}
}

func TestHost_TickRecoversPanic(t *testing.T) {
	h := newHost(t, nil)
	h.Do(func() { panic("boom") })
	h.RunTicks(1, dt)
	if got := h.Snapshot().Tick; got != 0 {
		t.Fatalf("tick = %d, panicked tick should not count", got)
	}

	h.RunTicks(1, dt)
	if got := h.Snapshot().Tick; got != 1 {
		t.Fatalf("tick = %d, want 1", got)
	}
}

func TestHost_Run(t *testing.T) {
	h := newHost(t, nil)
	ctx, cancel := context.WithTimeout(context.Background(), 150*time.Millisecond)
	defer cancel()

	ticks := 0
	if err := h.Run(ctx, 100, func(Snapshot) { ticks++ }); err != nil {
		t.Fatalf("Run() error = %v", err)
	}
	if ticks == 0 {
		t.Fatalf("Run() never ticked")
	}
	if err := h.Run(ctx, 0, nil); err == nil {
		t.Fatalf("Run() accepted zero rate")
	}
}

func TestHost_DetachedCameraStaysPut(t *testing.T) {
	h := newHost(t, nil)
	h.RunTicks(2, dt)

	h.Do(func() { h.SetCameraAttached(false) })
	h.Tap(input.KeyF2)
	h.RunTicks(30, dt)

	s := h.Snapshot()
	if s.CameraAttached {
		t.Fatalf("camera still attached")
	}
	if s.Player.Perspective != player.ThirdPerson {
		t.Fatalf("perspective = %v, want third person", s.Player.Perspective)
	}
	local := h.camera.LocalTransform().Translation
	if !near(local, player.DefaultParams().StandingCameraOffset) {
		t.Fatalf("detached camera moved to %v", local)
	}

	h.Do(func() { h.SetCameraAttached(true) })
	h.RunTicks(120, dt)
	want := player.DefaultParams().StandingCameraOffset.Add(player.DefaultParams().ThirdPersonOffset)
	if got := h.camera.LocalTransform().Translation; !near(got, want) {
		t.Fatalf("reattached camera = %v, want %v", got, want)
	}
	if !h.Snapshot().CameraAttached {
		t.Fatalf("snapshot does not report the camera as attached")
	}
}

func TestHost_HeldKeysAndClearEvents(t *testing.T) {
	h := newHost(t, nil)
	h.Toggle(input.KeyLShift)
	h.Pulse(input.KeyD, input.KeyA)
	h.RunTicks(1, dt)

	s := h.Snapshot()
	want := []input.Key{input.KeyD, input.KeyLShift}
	if len(s.Held) != len(want) || s.Held[0] != want[0] || s.Held[1] != want[1] {
		t.Fatalf("held = %v, want %v", s.Held, want)
	}
	if len(s.Events) == 0 || !s.Urgent {
		t.Fatalf("events = %v urgent = %v, want activation reset recorded", s.Events, s.Urgent)
	}

	h.Do(h.ClearEvents)
	h.ReleaseAll()
	h.RunTicks(1, dt)
	s = h.Snapshot()
	if s.Urgent || len(s.Held) != 0 {
		t.Fatalf("after clear: urgent=%v held=%v", s.Urgent, s.Held)
	}
	// Releasing sprint publishes a mode change after the journal was cleared.
	if len(s.Events) != 1 || !hasEvent(s, event.EventModeChanged) {
		t.Fatalf("events = %v, want only the mode change", s.Events)
	}
}

func TestHost_BindingsListed(t *testing.T) {
	h := newHost(t, nil)
	actions := h.Bindings()
	if len(actions) == 0 || actions[0].Name != player.ActionMoveForward {
		t.Fatalf("bindings = %+v, want moveforward first", actions)
	}
	var jump input.ActionInfo
	for _, a := range actions {
		if a.Name == player.ActionJump {
			jump = a
		}
	}
	if jump.Keys(input.KeyboardMouse) != "space" || jump.Keys(input.Gamepad) != "pad_south" {
		t.Fatalf("jump bindings = %+v", jump)
	}
}

func TestHost_JournalSize(t *testing.T) {
	h, err := New(Options{
		Params:  player.DefaultParams(),
		Body:    physics.Parameters{Radius: 0.8, Height: 0.9, IsCapsule: true},
		Journal: 2,
	})
	if err != nil {
		t.Fatalf("New() error = %v", err)
	}
	h.Activate()
	for range 3 {
		h.Tap(input.KeyF2)
		h.RunTicks(1, dt)
	}
	if got := h.Snapshot().Events; len(got) != 2 {
		t.Fatalf("events = %v, want 2 kept", got)
	}
}
