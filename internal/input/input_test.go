package input

import (
	"slices"
	"testing"
	"time"
)

type activation struct {
	mode  ActivationMode
	value float32
}

func recordInto(dst *[]activation) Callback {
	return func(mode ActivationMode, value float32) {
		*dst = append(*dst, activation{mode, value})
	}
}

func TestDispatcher_DispatchToBoundAction(t *testing.T) {
	d := NewDispatcher()
	var got []activation
	d.RegisterAction("player", "jump", recordInto(&got))
	d.BindAction("player", "jump", KeyboardMouse, KeySpace)

	if n := d.Dispatch(KeySpace, Pressed, 1); n != 1 {
		t.Fatalf("Dispatch() = %d, want 1", n)
	}
	if n := d.Dispatch(KeyW, Pressed, 1); n != 0 {
		t.Fatalf("unbound key fired %d callbacks", n)
	}
	want := []activation{{Pressed, 1}}
	if !slices.Equal(got, want) {
		t.Fatalf("got %v, want %v", got, want)
	}
}

func TestDispatcher_ReRegisterReplacesCallback(t *testing.T) {
	d := NewDispatcher()
	var first, second []activation
	d.RegisterAction("player", "crouch", recordInto(&first))
	d.BindAction("player", "crouch", KeyboardMouse, KeyC)
	d.RegisterAction("player", "crouch", recordInto(&second))
	d.BindAction("player", "crouch", KeyboardMouse, KeyC)

	if n := d.Dispatch(KeyC, Pressed, 1); n != 1 {
		t.Fatalf("Dispatch() = %d, want 1 after re-registration", n)
	}
	if len(first) != 0 || len(second) != 1 {
		t.Fatalf("first=%v second=%v", first, second)
	}
	if got := d.Actions(); len(got) != 1 || len(got[0].Bindings) != 1 {
		t.Fatalf("Actions() = %+v", got)
	}
}

func TestDispatcher_ActionsKeepRegistrationOrder(t *testing.T) {
	d := NewDispatcher()
	for _, name := range []string{"forward", "strafe", "jump", "crouch"} {
		d.RegisterAction("player", name, func(ActivationMode, float32) {})
	}
	d.BindAction("player", "jump", KeyboardMouse, KeySpace)
	d.BindAction("player", "jump", Gamepad, KeyPadSouth)
	d.BindAction("player", "forward", KeyboardMouse, KeyW)

	var got []string
	for _, a := range d.Actions() {
		got = append(got, a.Name)
	}
	want := []string{"forward", "strafe", "jump", "crouch"}
	if !slices.Equal(got, want) {
		t.Fatalf("Actions() order = %v, want %v", got, want)
	}
}

func TestActionInfo_KeysPerDevice(t *testing.T) {
	a := ActionInfo{Name: "jump", Bindings: []Binding{
		{Device: KeyboardMouse, Key: KeySpace},
		{Device: Gamepad, Key: KeyPadSouth},
		{Device: KeyboardMouse, Key: KeyLCtrl},
	}}
	if got := a.Keys(KeyboardMouse); got != "space/lctrl" {
		t.Errorf("Keys(KeyboardMouse) = %q", got)
	}
	if got := a.Keys(Gamepad); got != "pad_south" {
		t.Errorf("Keys(Gamepad) = %q", got)
	}
	if got := (ActionInfo{}).Keys(Gamepad); got != "" {
		t.Errorf("Keys() on unbound action = %q", got)
	}
}

func TestDispatcher_KeyFeedsSeveralActions(t *testing.T) {
	d := NewDispatcher()
	var a, b []activation
	d.RegisterAction("player", "sprint", recordInto(&a))
	d.RegisterAction("hud", "highlight", recordInto(&b))
	d.BindAction("player", "sprint", KeyboardMouse, KeyLShift)
	d.BindAction("hud", "highlight", KeyboardMouse, KeyLShift)

	if n := d.Dispatch(KeyLShift, Released, 0); n != 2 {
		t.Fatalf("Dispatch() = %d, want 2", n)
	}
}

func TestActivationMode_String(t *testing.T) {
	tests := map[ActivationMode]string{
		Pressed:           "pressed",
		Released:          "released",
		Held:              "held",
		Pressed | Released: "unknown",
	}
	for mode, want := range tests {
		if got := mode.String(); got != want {
			t.Errorf("%d.String() = %q, want %q", mode, got, want)
		}
	}
}

type sinkRecorder struct {
	events []string
}

func (s *sinkRecorder) Dispatch(key Key, mode ActivationMode, value float32) int {
	s.events = append(s.events, string(key)+":"+mode.String())
	return 1
}

func TestPulser_PulseExpires(t *testing.T) {
	sink := &sinkRecorder{}
	p := NewPulser(sink, 200*time.Millisecond)
	now := time.Unix(0, 0)

	p.Pulse(now, KeyW)
	p.Pulse(now.Add(100*time.Millisecond), KeyW)
	p.Expire(now.Add(250 * time.Millisecond))
	if !p.IsDown(KeyW) {
		t.Fatalf("repulsed key released early")
	}
	p.Expire(now.Add(300 * time.Millisecond))
	if p.IsDown(KeyW) {
		t.Fatalf("key still down after expiry")
	}

	want := []string{"w:pressed", "w:released"}
	if !slices.Equal(sink.events, want) {
		t.Fatalf("events = %v, want %v", sink.events, want)
	}
}

func TestPulser_PulseReleasesOpposite(t *testing.T) {
	sink := &sinkRecorder{}
	p := NewPulser(sink, time.Second)
	now := time.Unix(0, 0)

	p.Pulse(now, KeyW, KeyS)
	p.Pulse(now, KeyS, KeyW)

	want := []string{"w:pressed", "w:released", "s:pressed"}
	if !slices.Equal(sink.events, want) {
		t.Fatalf("events = %v, want %v", sink.events, want)
	}
}

func TestPulser_ToggleAndReleaseAll(t *testing.T) {
	sink := &sinkRecorder{}
	p := NewPulser(sink, time.Second)

	if !p.Toggle(KeyLShift) {
		t.Fatalf("first Toggle() = false")
	}
	if p.Toggle(KeyLShift) {
		t.Fatalf("second Toggle() = true")
	}
	p.Toggle(KeyC)
	p.Pulse(time.Unix(0, 0), KeyD)
	sink.events = nil

	p.ReleaseAll()
	slices.Sort(sink.events)
	want := []string{"c:released", "d:released"}
	if !slices.Equal(sink.events, want) {
		t.Fatalf("events = %v, want %v", sink.events, want)
	}
	if p.IsDown(KeyC) || p.IsDown(KeyD) {
		t.Fatalf("keys still down after ReleaseAll")
	}
}

func TestPulser_TapAndNudge(t *testing.T) {
	sink := &sinkRecorder{}
	p := NewPulser(sink, time.Second)
	p.Tap(KeySpace)
	p.Nudge(KeyMouseX, 0.5)

	want := []string{"space:pressed", "space:released", "mouse_x:held"}
	if !slices.Equal(sink.events, want) {
		t.Fatalf("events = %v, want %v", sink.events, want)
	}
}
