// Package hud is a bubbletea front end for the sandbox: it maps keys to
// controller input and renders the latest host snapshot.
package hud

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/Versifine/locomote/internal/input"
	"github.com/Versifine/locomote/internal/sandbox"
)

const (
	pollInterval = 50 * time.Millisecond
	lookStep     = float32(40)
)

type Driver interface {
	Pulse(key input.Key, opposite ...input.Key)
	Toggle(key input.Key)
	Tap(key input.Key)
	Nudge(key input.Key, value float32)
	ReleaseAll()
	Do(fn func())
	Reset()
	Bindings() []input.ActionInfo
	Snapshot() sandbox.Snapshot
}

type pollMsg time.Time

type Model struct {
	driver   Driver
	snap     sandbox.Snapshot
	bindings []input.ActionInfo
	width    int
	height   int
}

func New(driver Driver) Model {
	return Model{driver: driver, snap: driver.Snapshot(), bindings: driver.Bindings()}
}

// Run shows the HUD until the user quits or ctx is done.
func Run(ctx context.Context, driver Driver) error {
	p := tea.NewProgram(New(driver), tea.WithAltScreen(), tea.WithContext(ctx))
	_, err := p.Run()
	if errors.Is(err, tea.ErrProgramKilled) && ctx.Err() != nil {
		return nil
	}
	return err
}

func (m Model) Init() tea.Cmd {
	return poll()
}

func poll() tea.Cmd {
	return tea.Tick(pollInterval, func(t time.Time) tea.Msg { return pollMsg(t) })
}

func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case pollMsg:
		m.snap = m.driver.Snapshot()
		m.bindings = m.driver.Bindings()
		return m, poll()
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		return m, nil
	case tea.KeyMsg:
		return m.handleKey(msg.String())
	}
	return m, nil
}

func (m Model) handleKey(key string) (tea.Model, tea.Cmd) {
	d := m.driver
	switch key {
	case "q", "ctrl+c", "esc":
		return m, tea.Quit
	case "w":
		d.Pulse(input.KeyW, input.KeyS)
	case "s":
		d.Pulse(input.KeyS, input.KeyW)
	case "a":
		d.Pulse(input.KeyA, input.KeyD)
	case "d":
		d.Pulse(input.KeyD, input.KeyA)
	case " ", "space":
		d.Tap(input.KeySpace)
	case "c":
		d.Toggle(input.KeyC)
	case "[":
		d.Toggle(input.KeyLAlt)
	case "]":
		d.Toggle(input.KeyLShift)
	case "v", "f2":
		d.Tap(input.KeyF2)
	case "left":
		d.Nudge(input.KeyMouseX, -lookStep)
	case "right":
		d.Nudge(input.KeyMouseX, lookStep)
	case "up":
		d.Nudge(input.KeyMouseY, -lookStep)
	case "down":
		d.Nudge(input.KeyMouseY, lookStep)
	case "r":
		d.Do(d.Reset)
	case "x":
		d.ReleaseAll()
	}
	return m, nil
}

func (m Model) View() string {
	s := m.snap
	p := s.Player

	stance := valueStyle.Render(p.Stance.String())
	if p.Blocked {
		stance += " " + blockedStyle.Render("blocked")
	}
	ground := airStyle.Render("airborne")
	if s.Body.OnGround {
		ground = groundStyle.Render("grounded")
	}

	movement := panel("Movement",
		row("mode", modeStyle.Render(p.Mode.String())),
		row("stance", stance),
		row("desired", valueStyle.Render(p.Desired.String())),
		row("jumps", valueStyle.Render(fmt.Sprintf("%d", p.Jumps))),
		row("state", ground),
		row("keys", heldKeys(s.Held)),
	)
	pose := panel("Pose",
		row("pos", vec(s.Body.Position)),
		row("vel", vec(s.Body.Velocity)),
		row("yaw", valueStyle.Render(fmt.Sprintf("%.3f", p.Yaw))),
		row("pitch", valueStyle.Render(fmt.Sprintf("%.3f", p.Pitch))),
	)
	camera := panel("Camera",
		row("view", valueStyle.Render(p.Perspective.String())),
		row("target", vec(p.CameraTarget)),
		row("world", vec(s.Camera.Translation)),
		row("collider", valueStyle.Render(fmt.Sprintf("h=%.2f r=%.2f", s.Body.Collider.Height, s.Body.Collider.Radius))),
	)

	var events []string
	for _, e := range s.Events {
		events = append(events, eventStyle.Render(e))
	}
	if len(events) == 0 {
		events = append(events, labelStyle.Render("no events yet"))
	}
	eventsTitle := "Events"
	if s.Urgent {
		eventsTitle += " " + blockedStyle.Render("!")
	}

	var bindings []string
	for _, a := range m.bindings {
		keys := a.Keys(input.KeyboardMouse)
		if pad := a.Keys(input.Gamepad); pad != "" {
			keys += " · " + pad
		}
		bindings = append(bindings, row(a.Name, valueStyle.Render(keys)))
	}

	return lipgloss.JoinVertical(lipgloss.Left,
		titleStyle.Render(fmt.Sprintf("locomote  level=%s  tick=%d", s.Level, s.Tick)),
		lipgloss.JoinHorizontal(lipgloss.Top, movement, pose, camera),
		lipgloss.JoinHorizontal(lipgloss.Top, panel(eventsTitle, events...), panel("Bindings", bindings...)),
		helpStyle.Render("wasd move · space jump · c crouch · [ canter · ] sprint · arrows look · v view · r reset · x release · q quit"),
	)
}

func panel(title string, rows ...string) string {
	return panelStyle.Render(headerStyle.Render(title) + "\n" + strings.Join(rows, "\n"))
}

func row(label, value string) string {
	return labelStyle.Render(fmt.Sprintf("%-8s", label)) + " " + value
}

func heldKeys(keys []input.Key) string {
	if len(keys) == 0 {
		return labelStyle.Render("none")
	}
	names := make([]string, len(keys))
	for i, k := range keys {
		names[i] = string(k)
	}
	return valueStyle.Render(strings.Join(names, "+"))
}

func vec(v [3]float32) string {
	return valueStyle.Render(fmt.Sprintf("(%.2f, %.2f, %.2f)", v[0], v[1], v[2]))
}
