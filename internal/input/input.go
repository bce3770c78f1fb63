package input

import (
	"log/slog"
	"strings"

	"github.com/elliotchance/orderedmap/v2"
)

// ActivationMode discriminates what happened to a bound key.
type ActivationMode uint8

const (
	Pressed ActivationMode = 1 << iota
	Released
	Held
)

func (m ActivationMode) String() string {
	switch m {
	case Pressed:
		return "pressed"
	case Released:
		return "released"
	case Held:
		return "held"
	default:
		return "unknown"
	}
}

type Device uint8

const (
	KeyboardMouse Device = iota
	Gamepad
)

type Key string

const (
	KeyW      Key = "w"
	KeyA      Key = "a"
	KeyS      Key = "s"
	KeyD      Key = "d"
	KeyC      Key = "c"
	KeySpace  Key = "space"
	KeyLShift Key = "lshift"
	KeyLAlt   Key = "lalt"
	KeyLCtrl  Key = "lctrl"
	KeyF2     Key = "f2"
	KeyMouseX Key = "mouse_x"
	KeyMouseY Key = "mouse_y"

	// Gamepad sticks report -1..1 with +Y pointing down, like the mouse.
	KeyPadLeftX  Key = "pad_lx"
	KeyPadLeftY  Key = "pad_ly"
	KeyPadRightX Key = "pad_rx"
	KeyPadRightY Key = "pad_ry"
	KeyPadSouth  Key = "pad_south"
	KeyPadEast   Key = "pad_east"
)

type Callback func(mode ActivationMode, value float32)

// Service registers named actions and binds keys to them.
type Service interface {
	RegisterAction(group, name string, cb Callback)
	BindAction(group, name string, device Device, key Key)
}

type Binding struct {
	Device Device
	Key    Key
}

// ActionInfo describes a registered action for listings.
type ActionInfo struct {
	Group    string
	Name     string
	Bindings []Binding
}

// Keys lists the keys bound on device, joined with "/".
func (a ActionInfo) Keys(device Device) string {
	var keys []string
	for _, b := range a.Bindings {
		if b.Device == device {
			keys = append(keys, string(b.Key))
		}
	}
	return strings.Join(keys, "/")
}

type action struct {
	group    string
	name     string
	cb       Callback
	bindings []Binding
}

// Dispatcher is an in-memory Service. Actions keep their registration order.
// It is not safe for concurrent use; hosts dispatch from their tick goroutine.
type Dispatcher struct {
	actions *orderedmap.OrderedMap[string, *action]
	byKey   map[Key][]string
}

func NewDispatcher() *Dispatcher {
	return &Dispatcher{
		actions: orderedmap.NewOrderedMap[string, *action](),
		byKey:   make(map[Key][]string),
	}
}

func actionID(group, name string) string {
	return group + "/" + name
}

// RegisterAction installs cb for group/name, replacing any previous callback.
func (d *Dispatcher) RegisterAction(group, name string, cb Callback) {
	id := actionID(group, name)
	if a, ok := d.actions.Get(id); ok {
		a.cb = cb
		return
	}
	d.actions.Set(id, &action{group: group, name: name, cb: cb})
}

// BindAction maps key to group/name. Binding the same key twice is a no-op.
func (d *Dispatcher) BindAction(group, name string, device Device, key Key) {
	id := actionID(group, name)
	a, ok := d.actions.Get(id)
	if !ok {
		slog.Warn("Binding key to unregistered action", "action", id, "key", key)
		a = &action{group: group, name: name}
		d.actions.Set(id, a)
	}
	binding := Binding{Device: device, Key: key}
	for _, b := range a.bindings {
		if b == binding {
			return
		}
	}
	a.bindings = append(a.bindings, binding)
	d.byKey[key] = append(d.byKey[key], id)
}

// Dispatch delivers an activation to every action bound to key and returns
// how many callbacks ran.
func (d *Dispatcher) Dispatch(key Key, mode ActivationMode, value float32) int {
	fired := 0
	for _, id := range d.byKey[key] {
		a, ok := d.actions.Get(id)
		if !ok || a.cb == nil {
			continue
		}
		a.cb(mode, value)
		fired++
	}
	return fired
}

// Actions lists registered actions in registration order.
func (d *Dispatcher) Actions() []ActionInfo {
	out := make([]ActionInfo, 0, d.actions.Len())
	for el := d.actions.Front(); el != nil; el = el.Next() {
		out = append(out, ActionInfo{
			Group:    el.Value.group,
			Name:     el.Value.name,
			Bindings: append([]Binding(nil), el.Value.bindings...),
		})
	}
	return out
}
