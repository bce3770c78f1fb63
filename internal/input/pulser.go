package input

import "time"

// Dispatch is the sink a Pulser feeds.
type Dispatch interface {
	Dispatch(key Key, mode ActivationMode, value float32) int
}

// Pulser turns press-only key streams, such as a raw terminal, into
// press/release pairs. Pulsed keys release after a fixed duration unless
// pulsed again; toggled keys alternate between pressed and released.
type Pulser struct {
	sink     Dispatch
	duration time.Duration
	until    map[Key]time.Time
	toggled  map[Key]bool
}

func NewPulser(sink Dispatch, duration time.Duration) *Pulser {
	return &Pulser{
		sink:     sink,
		duration: duration,
		until:    make(map[Key]time.Time),
		toggled:  make(map[Key]bool),
	}
}

// Pulse presses key until now+duration. Any of opposite still held is
// released first.
func (p *Pulser) Pulse(now time.Time, key Key, opposite ...Key) {
	for _, o := range opposite {
		if _, held := p.until[o]; held {
			delete(p.until, o)
			p.sink.Dispatch(o, Released, 0)
		}
	}
	if _, held := p.until[key]; !held {
		p.sink.Dispatch(key, Pressed, 1)
	}
	p.until[key] = now.Add(p.duration)
}

// Toggle flips key between pressed and released and reports the new state.
func (p *Pulser) Toggle(key Key) bool {
	if p.toggled[key] {
		delete(p.toggled, key)
		p.sink.Dispatch(key, Released, 0)
		return false
	}
	p.toggled[key] = true
	p.sink.Dispatch(key, Pressed, 1)
	return true
}

// Tap presses and immediately releases key.
func (p *Pulser) Tap(key Key) {
	p.sink.Dispatch(key, Pressed, 1)
	p.sink.Dispatch(key, Released, 0)
}

// Nudge sends an analog value on an axis key.
func (p *Pulser) Nudge(key Key, value float32) {
	p.sink.Dispatch(key, Held, value)
}

// Expire releases pulsed keys whose time is up.
func (p *Pulser) Expire(now time.Time) {
	for key, until := range p.until {
		if now.Before(until) {
			continue
		}
		delete(p.until, key)
		p.sink.Dispatch(key, Released, 0)
	}
}

func (p *Pulser) IsDown(key Key) bool {
	_, pulsed := p.until[key]
	return pulsed || p.toggled[key]
}

// ReleaseAll releases every pulsed and toggled key.
func (p *Pulser) ReleaseAll() {
	for key := range p.until {
		p.sink.Dispatch(key, Released, 0)
	}
	for key := range p.toggled {
		p.sink.Dispatch(key, Released, 0)
	}
	clear(p.until)
	clear(p.toggled)
}
