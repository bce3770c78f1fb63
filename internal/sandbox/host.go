// Package sandbox hosts a player controller in a box world: it owns the
// world, the character body, the entity and camera, routes lifecycle events
// to the controller and steps physics once per tick.
package sandbox

import (
	"context"
	"fmt"
	"log/slog"
	"strconv"
	"sync"
	"time"

	"github.com/getsentry/sentry-go"
	"github.com/go-gl/mathgl/mgl32"

	"github.com/Versifine/locomote/internal/body"
	"github.com/Versifine/locomote/internal/event"
	"github.com/Versifine/locomote/internal/input"
	"github.com/Versifine/locomote/internal/physics"
	"github.com/Versifine/locomote/internal/player"
	"github.com/Versifine/locomote/internal/scene"
	"github.com/Versifine/locomote/internal/world"
)

const (
	DefaultPulse = 180 * time.Millisecond
	recentEvents = 8
)

type Options struct {
	Level  *world.Level
	Params player.Params
	Body   physics.Parameters
	// Pulse is how long a pulsed key stays down; zero uses DefaultPulse.
	Pulse time.Duration
	// Journal is how many recent events snapshots carry; zero keeps 8.
	Journal int
}

// Snapshot is a copy of the host state taken at the end of a tick.
type Snapshot struct {
	Tick   uint64
	Level  string
	Player player.State
	Body   body.State
	Camera scene.Transform
	Held   []input.Key
	Events []string
	// Urgent is set while Events holds a blocked stand-up or a reset.
	Urgent bool
	// CameraAttached is false while the controller runs without a camera.
	CameraAttached bool
}

// trackedKeys are the keys reported in Snapshot.Held, in display order.
var trackedKeys = []input.Key{
	input.KeyW, input.KeyA, input.KeyS, input.KeyD,
	input.KeyC, input.KeyLAlt, input.KeyLShift,
}

// Host runs everything on the goroutine calling Tick. Other goroutines feed
// it through the queueing methods (Pulse, Toggle, Tap, Nudge, Do) and read it
// through Snapshot.
type Host struct {
	world  *world.World
	entity *scene.Entity
	camera *scene.Camera
	body   *body.Character
	keys   *input.Dispatcher
	pulser *input.Pulser
	bus    *event.Bus
	ctrl   *player.Controller

	clock          time.Time
	ticks          uint64
	cameraAttached bool

	mu       sync.Mutex
	queue    []func(now time.Time)
	snapshot Snapshot
	bindings []input.ActionInfo
	journal  *event.Journal
}

func New(opts Options) (*Host, error) {
	if opts.Level == nil {
		opts.Level = world.DefaultLevel()
	}
	if opts.Pulse <= 0 {
		opts.Pulse = DefaultPulse
	}
	if opts.Journal <= 0 {
		opts.Journal = recentEvents
	}

	h := &Host{
		world:   world.New(opts.Level),
		entity:  scene.NewEntity(opts.Level.Spawn, opts.Level.SpawnYaw),
		camera:  scene.NewCamera(scene.Transform{Translation: opts.Params.StandingCameraOffset, Rotation: mgl32.QuatIdent()}),
		keys:    input.NewDispatcher(),
		bus:     event.NewBus(),
		journal: event.NewJournal(opts.Journal),
	}
	h.pulser = input.NewPulser(h.keys, opts.Pulse)
	h.body = body.New(h.entity, h.world, opts.Body)
	h.world.Add(h.body)

	ctrl, err := player.New(h.entity, opts.Params,
		player.WithInput(h.keys),
		player.WithBus(h.bus),
	)
	if err != nil {
		return nil, fmt.Errorf("create player controller: %w", err)
	}
	h.ctrl = ctrl
	h.ctrl.AttachBody(h.body)
	h.ctrl.AttachCamera(h.camera)
	h.cameraAttached = true
	h.body.OnParametersChanged(func() { h.Signal(player.PhysicsConfigChanged, 0) })

	for _, topic := range []string{
		event.EventStanceChanged,
		event.EventStanceBlocked,
		event.EventJumped,
		event.EventModeChanged,
		event.EventPerspective,
		event.EventReset,
		event.EventLevelReloaded,
	} {
		h.bus.Subscribe(topic, h.recorder(topic))
	}
	return h, nil
}

// Bindings lists the registered actions and their keys as of the last
// activation or reset. Safe from any goroutine.
func (h *Host) Bindings() []input.ActionInfo {
	h.mu.Lock()
	defer h.mu.Unlock()
	return append([]input.ActionInfo(nil), h.bindings...)
}

// Signal delivers one lifecycle event to the controller.
func (h *Host) Signal(kind player.EventKind, dt float32) {
	switch kind {
	case player.Activated:
		h.ctrl.OnActivate()
	case player.Tick:
		h.ctrl.OnUpdate(dt)
	case player.Reset:
		h.ctrl.OnReset()
	case player.PhysicsConfigChanged:
		h.ctrl.OnPhysicsConfigChanged()
	default:
		slog.Warn("Unknown controller event", "kind", kind)
	}
}

// Activate places the body at the level spawn and starts gameplay.
func (h *Host) Activate() {
	h.respawn()
	h.Signal(player.Activated, 0)
	h.refreshBindings()
	h.takeSnapshot()
}

// Reset releases all keys, respawns and resets the controller.
func (h *Host) Reset() {
	h.pulser.ReleaseAll()
	h.respawn()
	h.Signal(player.Reset, 0)
	h.refreshBindings()
}

// SetCameraAttached detaches the camera from the controller or attaches it
// again. A detached camera stays where it was. Call it on the tick goroutine
// or through Do.
func (h *Host) SetCameraAttached(attached bool) {
	if attached == h.cameraAttached {
		return
	}
	h.cameraAttached = attached
	if attached {
		h.ctrl.AttachCamera(h.camera)
	} else {
		h.ctrl.AttachCamera(nil)
	}
	slog.Info("Camera attachment changed", "attached", attached)
}

// ClearEvents empties the event journal. Call it on the tick goroutine or
// through Do.
func (h *Host) ClearEvents() {
	dropped := h.journal.Drain()
	slog.Debug("Event journal cleared", "entries", len(dropped))
}

func (h *Host) refreshBindings() {
	actions := h.keys.Actions()
	h.mu.Lock()
	h.bindings = actions
	h.mu.Unlock()
}

func (h *Host) respawn() {
	level := h.world.Level()
	h.entity.SetRotation(mgl32.QuatRotate(level.SpawnYaw, physics.Up))
	h.body.Teleport(level.Spawn)
}

// Tick drains queued input, releases expired key pulses, updates the
// controller and steps the world.
func (h *Host) Tick(dt float32) {
	h.clock = h.clock.Add(time.Duration(float64(dt) * float64(time.Second)))
	for _, fn := range h.drain() {
		fn(h.clock)
	}
	h.pulser.Expire(h.clock)
	h.Signal(player.Tick, dt)
	h.world.Step(dt)
	h.ticks++
	h.takeSnapshot()
}

// RunTicks advances n ticks of dt without waiting.
func (h *Host) RunTicks(n int, dt float32) {
	for range n {
		h.tickSafely(dt)
	}
}

// Run ticks at rate per second until ctx is done. onTick, if set, receives
// the snapshot after every tick.
func (h *Host) Run(ctx context.Context, rate int, onTick func(Snapshot)) error {
	if rate <= 0 {
		return fmt.Errorf("tick rate must be positive, got %d", rate)
	}
	dt := 1 / float32(rate)
	ticker := time.NewTicker(time.Second / time.Duration(rate))
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return nil
		case <-ticker.C:
			h.tickSafely(dt)
			if onTick != nil {
				onTick(h.Snapshot())
			}
		}
	}
}

func (h *Host) tickSafely(dt float32) {
	defer func() {
		if r := recover(); r != nil {
			slog.Error("Tick panicked", "tick", h.ticks, "panic", r)
			hub := sentry.CurrentHub().Clone()
			hub.ConfigureScope(func(scope *sentry.Scope) {
				scope.SetTag("tick", strconv.FormatUint(h.ticks, 10))
				scope.SetTag("level", h.world.Level().Name)
			})
			hub.Recover(r)
		}
	}()
	h.Tick(dt)
}

// Do runs fn on the tick goroutine before the next controller update.
func (h *Host) Do(fn func()) {
	h.enqueue(func(time.Time) { fn() })
}

func (h *Host) Pulse(key input.Key, opposite ...input.Key) {
	h.enqueue(func(now time.Time) { h.pulser.Pulse(now, key, opposite...) })
}

func (h *Host) Toggle(key input.Key) {
	h.enqueue(func(time.Time) { h.pulser.Toggle(key) })
}

func (h *Host) Tap(key input.Key) {
	h.enqueue(func(time.Time) { h.pulser.Tap(key) })
}

func (h *Host) Nudge(key input.Key, value float32) {
	h.enqueue(func(time.Time) { h.pulser.Nudge(key, value) })
}

func (h *Host) ReleaseAll() {
	h.enqueue(func(time.Time) { h.pulser.ReleaseAll() })
}

// Teleport moves the body; call it on the tick goroutine or through Do.
func (h *Host) Teleport(pos mgl32.Vec3) {
	h.body.Teleport(pos)
}

// ReloadLevel swaps the world geometry; call it on the tick goroutine or
// through Do.
func (h *Host) ReloadLevel(level *world.Level) {
	h.world.SetLevel(level)
	slog.Info("Level reloaded", "name", level.Name, "boxes", len(level.Boxes))
	h.bus.Publish(event.EventLevelReloaded, event.LevelEvent{Name: level.Name, Boxes: len(level.Boxes), Hash: level.Hash})
}

// SolidAt reports whether p is inside level geometry. Safe from any goroutine.
func (h *Host) SolidAt(p mgl32.Vec3) bool {
	return h.world.SolidAt(p)
}

func (h *Host) Snapshot() Snapshot {
	h.mu.Lock()
	defer h.mu.Unlock()
	s := h.snapshot
	s.Events = append([]string(nil), h.snapshot.Events...)
	s.Held = append([]input.Key(nil), h.snapshot.Held...)
	return s
}

func (h *Host) enqueue(fn func(now time.Time)) {
	h.mu.Lock()
	h.queue = append(h.queue, fn)
	h.mu.Unlock()
}

func (h *Host) drain() []func(now time.Time) {
	h.mu.Lock()
	defer h.mu.Unlock()
	q := h.queue
	h.queue = nil
	return q
}

func (h *Host) takeSnapshot() {
	s := Snapshot{
		Tick:           h.ticks,
		Level:          h.world.Level().Name,
		Player:         h.ctrl.State(),
		Body:           h.body.State(),
		Camera:         h.camera.WorldTransform(h.entity),
		CameraAttached: h.cameraAttached,
		Urgent:         h.journal.HasUrgent(),
	}
	for _, k := range trackedKeys {
		if h.pulser.IsDown(k) {
			s.Held = append(s.Held, k)
		}
	}
	for _, e := range h.journal.Entries() {
		s.Events = append(s.Events, fmt.Sprintf("#%d %s %+v", e.Tick, e.Topic, e.Payload))
	}
	h.mu.Lock()
	h.snapshot = s
	h.mu.Unlock()
}

func (h *Host) recorder(topic string) event.HandlerFunc {
	return func(raw any) {
		h.journal.Record(topic, raw, h.ticks)
	}
}
