package debug

import (
	"bufio"
	"context"
	"fmt"
	"io"
	"log/slog"
	"os"
	"strconv"
	"strings"
	"sync"
	"time"

	"github.com/agnivade/levenshtein"
	"github.com/go-gl/mathgl/mgl32"
	"golang.org/x/term"

	"github.com/Versifine/locomote/internal/input"
	"github.com/Versifine/locomote/internal/sandbox"
)

const (
	defaultRenderInterval = 100 * time.Millisecond
	lookStep              = float32(40)
)

// Driver is the part of the sandbox host the console steers.
type Driver interface {
	Pulse(key input.Key, opposite ...input.Key)
	Toggle(key input.Key)
	Tap(key input.Key)
	Nudge(key input.Key, value float32)
	ReleaseAll()
	Do(fn func())
	Teleport(pos mgl32.Vec3)
	Reset()
	SolidAt(p mgl32.Vec3) bool
	SetCameraAttached(attached bool)
	ClearEvents()
	Bindings() []input.ActionInfo
	Snapshot() sandbox.Snapshot
}

var commands = []string{"help", "state", "tp", "reset", "block", "events", "camera"}

type Console struct {
	driver         Driver
	out            io.Writer
	renderInterval time.Duration

	mu          sync.Mutex
	commandMode bool
	commandBuf  []rune
	statusWidth int
}

func NewConsole(driver Driver) *Console {
	return &Console{
		driver:         driver,
		out:            os.Stdout,
		renderInterval: defaultRenderInterval,
	}
}

func (c *Console) Start(ctx context.Context) error {
	if c == nil {
		return fmt.Errorf("console is nil")
	}
	if c.driver == nil {
		return fmt.Errorf("console driver is nil")
	}

	fd := int(os.Stdin.Fd())
	oldState, err := term.MakeRaw(fd)
	if err != nil {
		return fmt.Errorf("set terminal raw mode: %w", err)
	}
	defer func() {
		_ = term.Restore(fd, oldState)
		fmt.Fprint(c.out, "\r\n")
	}()

	fmt.Fprint(c.out, "[debug] console started (W/A/S/D pulse, Space jump, C crouch, [ canter, ] sprint, arrows look, V view, R reset, : commands, Q quit)\r\n")
	c.renderStatusLine()

	go c.renderLoop(ctx)

	reader := bufio.NewReader(os.Stdin)
	for {
		select {
		case <-ctx.Done():
			return nil
		default:
		}

		b, err := reader.ReadByte()
		if err != nil {
			if ctx.Err() != nil {
				return nil
			}
			return fmt.Errorf("read console input: %w", err)
		}
		if !c.isCommandMode() && (b == 'q' || b == 'Q' || b == 3) {
			return nil
		}
		c.handleKey(reader, b)
	}
}

func (c *Console) renderLoop(ctx context.Context) {
	ticker := time.NewTicker(c.renderInterval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			c.renderStatusLine()
		}
	}
}

func (c *Console) handleKey(reader *bufio.Reader, b byte) {
	if c.isCommandMode() {
		c.handleCommandByte(b)
		return
	}

	switch b {
	case ':':
		c.enterCommandMode()
		return
	case 'w', 'W':
		c.driver.Pulse(input.KeyW, input.KeyS)
	case 's', 'S':
		c.driver.Pulse(input.KeyS, input.KeyW)
	case 'a', 'A':
		c.driver.Pulse(input.KeyA, input.KeyD)
	case 'd', 'D':
		c.driver.Pulse(input.KeyD, input.KeyA)
	case ' ':
		c.driver.Tap(input.KeySpace)
	case 'c', 'C':
		c.driver.Toggle(input.KeyC)
	case '[':
		c.driver.Toggle(input.KeyLAlt)
	case ']':
		c.driver.Toggle(input.KeyLShift)
	case 'v', 'V':
		c.driver.Tap(input.KeyF2)
	case 'r', 'R':
		c.driver.Do(c.driver.Reset)
	case 'x', 'X':
		c.driver.ReleaseAll()
	case 27: // ESC + arrow or function key sequence
		next, err := reader.ReadByte()
		if err != nil {
			return
		}
		code, err := reader.ReadByte()
		if err != nil {
			return
		}
		c.handleEscape(next, code)
	}
	c.renderStatusLine()
}

func (c *Console) handleEscape(prefix, code byte) {
	switch {
	case prefix == '[' && code == 'D': // left
		c.driver.Nudge(input.KeyMouseX, -lookStep)
	case prefix == '[' && code == 'C': // right
		c.driver.Nudge(input.KeyMouseX, lookStep)
	case prefix == '[' && code == 'A': // up
		c.driver.Nudge(input.KeyMouseY, -lookStep)
	case prefix == '[' && code == 'B': // down
		c.driver.Nudge(input.KeyMouseY, lookStep)
	case prefix == 'O' && code == 'Q': // F2
		c.driver.Tap(input.KeyF2)
	}
}

func (c *Console) enterCommandMode() {
	c.mu.Lock()
	c.commandMode = true
	c.commandBuf = c.commandBuf[:0]
	c.mu.Unlock()
	fmt.Fprint(c.out, "\r\n:")
}

func (c *Console) handleCommandByte(b byte) {
	switch b {
	case 13, 10: // Enter
		c.mu.Lock()
		cmd := strings.TrimSpace(string(c.commandBuf))
		c.commandMode = false
		c.commandBuf = c.commandBuf[:0]
		c.mu.Unlock()

		fmt.Fprint(c.out, "\r\n")
		if cmd != "" {
			c.executeCommand(cmd)
		}
		c.renderStatusLine()
		return
	case 27: // ESC cancel command mode
		c.mu.Lock()
		c.commandMode = false
		c.commandBuf = c.commandBuf[:0]
		c.mu.Unlock()
		fmt.Fprint(c.out, "\r\n[debug] command cancelled\r\n")
		c.renderStatusLine()
		return
	case 8, 127: // Backspace
		c.mu.Lock()
		if len(c.commandBuf) > 0 {
			c.commandBuf = c.commandBuf[:len(c.commandBuf)-1]
		}
		buf := string(c.commandBuf)
		c.mu.Unlock()
		fmt.Fprintf(c.out, "\r:%s ", buf)
		fmt.Fprintf(c.out, "\r:%s", buf)
		return
	default:
		if b < 32 || b > 126 {
			return
		}
		c.mu.Lock()
		c.commandBuf = append(c.commandBuf, rune(b))
		buf := string(c.commandBuf)
		c.mu.Unlock()
		fmt.Fprintf(c.out, "\r:%s", buf)
	}
}

func (c *Console) executeCommand(cmd string) {
	parts := strings.Fields(cmd)
	if len(parts) == 0 {
		return
	}

	switch parts[0] {
	case "help":
		c.printHelp()
	case "state":
		s := c.driver.Snapshot()
		p := s.Player
		fmt.Fprintf(c.out, "[debug] tick=%d level=%s pos=(%.3f,%.3f,%.3f) vel=(%.3f,%.3f,%.3f) ground=%t\r\n",
			s.Tick, s.Level,
			s.Body.Position.X(), s.Body.Position.Y(), s.Body.Position.Z(),
			s.Body.Velocity.X(), s.Body.Velocity.Y(), s.Body.Velocity.Z(),
			s.Body.OnGround,
		)
		fmt.Fprintf(c.out, "[debug] mode=%s stance=%s desired=%s blocked=%t view=%s yaw=%.3f pitch=%.3f jumps=%d collider=%+v\r\n",
			p.Mode, p.Stance, p.Desired, p.Blocked, p.Perspective, p.Yaw, p.Pitch, p.Jumps, s.Body.Collider)
	case "events":
		if len(parts) == 2 && parts[1] == "clear" {
			c.driver.Do(c.driver.ClearEvents)
			fmt.Fprint(c.out, "[debug] events clear queued\r\n")
			return
		}
		for _, e := range c.driver.Snapshot().Events {
			fmt.Fprintf(c.out, "[debug] %s\r\n", e)
		}
	case "camera":
		attached := !c.driver.Snapshot().CameraAttached
		c.driver.Do(func() { c.driver.SetCameraAttached(attached) })
		fmt.Fprintf(c.out, "[debug] camera attached=%t queued\r\n", attached)
	case "reset":
		c.driver.Do(c.driver.Reset)
		fmt.Fprint(c.out, "[debug] reset queued\r\n")
	case "tp":
		pos, ok := parseVec3(parts)
		if !ok {
			fmt.Fprint(c.out, "[debug] usage: :tp <x> <y> <z>\r\n")
			return
		}
		c.driver.Do(func() { c.driver.Teleport(pos) })
		fmt.Fprintf(c.out, "[debug] tp queued to (%.3f, %.3f, %.3f)\r\n", pos.X(), pos.Y(), pos.Z())
	case "block":
		pos, ok := parseVec3(parts)
		if !ok {
			fmt.Fprint(c.out, "[debug] usage: :block <x> <y> <z>\r\n")
			return
		}
		fmt.Fprintf(c.out, "[debug] (%.3f,%.3f,%.3f): solid=%t\r\n", pos.X(), pos.Y(), pos.Z(), c.driver.SolidAt(pos))
	default:
		slog.Debug("debug console unknown command", "command", parts[0])
		if s := suggest(parts[0]); s != "" {
			fmt.Fprintf(c.out, "[debug] unknown command: %s (did you mean :%s?)\r\n", parts[0], s)
			return
		}
		fmt.Fprintf(c.out, "[debug] unknown command: %s\r\n", parts[0])
	}
}

// suggest returns the closest known command within two edits.
func suggest(cmd string) string {
	best, bestDist := "", 3
	for _, known := range commands {
		if d := levenshtein.ComputeDistance(cmd, known); d < bestDist {
			best, bestDist = known, d
		}
	}
	return best
}

func parseVec3(parts []string) (mgl32.Vec3, bool) {
	if len(parts) != 4 {
		return mgl32.Vec3{}, false
	}
	var v mgl32.Vec3
	for i := range 3 {
		f, err := strconv.ParseFloat(parts[i+1], 32)
		if err != nil {
			return mgl32.Vec3{}, false
		}
		v[i] = float32(f)
	}
	return v, true
}

func (c *Console) printHelp() {
	fmt.Fprint(c.out, "[debug] keys:\r\n")
	fmt.Fprint(c.out, "  W/S/A/D: pulse movement (~180ms)\r\n")
	fmt.Fprint(c.out, "  Space: jump\r\n")
	fmt.Fprint(c.out, "  C: toggle crouch key\r\n")
	fmt.Fprint(c.out, "  [: toggle canter\r\n")
	fmt.Fprint(c.out, "  ]: toggle sprint\r\n")
	fmt.Fprint(c.out, "  Arrow Left/Right: yaw\r\n")
	fmt.Fprint(c.out, "  Arrow Up/Down: pitch\r\n")
	fmt.Fprint(c.out, "  V/F2: switch first/third person\r\n")
	fmt.Fprint(c.out, "  R: reset\r\n")
	fmt.Fprint(c.out, "  X: release all keys\r\n")
	fmt.Fprint(c.out, "  : enter command mode\r\n")
	fmt.Fprint(c.out, "[debug] bindings:\r\n")
	for _, a := range c.driver.Bindings() {
		line := fmt.Sprintf("  %s/%s: %s", a.Group, a.Name, a.Keys(input.KeyboardMouse))
		if pad := a.Keys(input.Gamepad); pad != "" {
			line += " | pad " + pad
		}
		fmt.Fprint(c.out, line+"\r\n")
	}
	fmt.Fprint(c.out, "[debug] commands:\r\n")
	fmt.Fprint(c.out, "  :state\r\n")
	fmt.Fprint(c.out, "  :events [clear]\r\n")
	fmt.Fprint(c.out, "  :camera (detach/attach)\r\n")
	fmt.Fprint(c.out, "  :tp <x> <y> <z>\r\n")
	fmt.Fprint(c.out, "  :block <x> <y> <z>\r\n")
	fmt.Fprint(c.out, "  :reset\r\n")
	fmt.Fprint(c.out, "  :help\r\n")
}

func (c *Console) renderStatusLine() {
	c.mu.Lock()
	if c.commandMode {
		c.mu.Unlock()
		return
	}
	width := c.statusWidth
	c.mu.Unlock()

	line := StatusLine(c.driver.Snapshot())

	padding := ""
	if width > len(line) {
		padding = strings.Repeat(" ", width-len(line))
	}
	fmt.Fprintf(c.out, "\r%s%s", line, padding)

	c.mu.Lock()
	if len(line) > c.statusWidth {
		c.statusWidth = len(line)
	}
	c.mu.Unlock()
}

// StatusLine renders a one-line summary of s.
func StatusLine(s sandbox.Snapshot) string {
	p := s.Player
	stance := p.Stance.String()
	if p.Blocked {
		stance += "(blocked)"
	}
	keys := "-"
	if len(s.Held) > 0 {
		names := make([]string, len(s.Held))
		for i, k := range s.Held {
			names[i] = string(k)
		}
		keys = strings.Join(names, "+")
	}
	alert := ""
	if s.Urgent {
		alert = "! "
	}
	return fmt.Sprintf(
		"[%s%s %s %s JMP:%d KEYS:%s | YAW:%.2f PIT:%.2f | X:%.2f Y:%.2f Z:%.2f ground:%t]",
		alert,
		p.Mode,
		stance,
		p.Perspective,
		p.Jumps,
		keys,
		p.Yaw,
		p.Pitch,
		s.Body.Position.X(),
		s.Body.Position.Y(),
		s.Body.Position.Z(),
		s.Body.OnGround,
	)
}

func (c *Console) isCommandMode() bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.commandMode
}
