package event

import (
	"sync"
	"time"
)

type Priority int

const (
	PriorityLow Priority = iota
	PriorityNormal
	PriorityUrgent
)

func (p Priority) String() string {
	switch p {
	case PriorityLow:
		return "low"
	case PriorityNormal:
		return "normal"
	case PriorityUrgent:
		return "urgent"
	default:
		return "unknown"
	}
}

// PriorityOf ranks the built-in topics for journal retention.
func PriorityOf(topic string) Priority {
	switch topic {
	case EventStanceBlocked, EventReset:
		return PriorityUrgent
	case EventModeChanged, EventPerspective:
		return PriorityLow
	default:
		return PriorityNormal
	}
}

type Entry struct {
	Topic     string
	Payload   any
	Priority  Priority
	Tick      uint64
	Timestamp time.Time
}

// Journal keeps the most recent published events up to a fixed capacity.
// When full it evicts the oldest low priority entry first, then the oldest
// normal one. Urgent entries only ever displace older urgent entries. A
// journal with no capacity keeps nothing.
type Journal struct {
	mu       sync.Mutex
	entries  []Entry
	capacity int
}

func NewJournal(capacity int) *Journal {
	return &Journal{capacity: capacity}
}

// Record stores an event ranked by PriorityOf(topic).
func (j *Journal) Record(topic string, payload any, tick uint64) {
	j.record(topic, payload, PriorityOf(topic), tick)
}

func (j *Journal) record(topic string, payload any, priority Priority, tick uint64) {
	if j == nil {
		return
	}
	j.mu.Lock()
	defer j.mu.Unlock()

	e := Entry{
		Topic:     topic,
		Payload:   payload,
		Priority:  priority,
		Tick:      tick,
		Timestamp: time.Now(),
	}

	if len(j.entries) < j.capacity {
		j.entries = append(j.entries, e)
		return
	}

	if idx := j.evictIndexLocked(priority); idx >= 0 {
		j.entries = append(j.entries[:idx], j.entries[idx+1:]...)
		j.entries = append(j.entries, e)
	}
}

// Entries returns a copy of the journal, oldest first.
func (j *Journal) Entries() []Entry {
	if j == nil {
		return nil
	}
	j.mu.Lock()
	defer j.mu.Unlock()
	out := make([]Entry, len(j.entries))
	copy(out, j.entries)
	return out
}

// Drain returns the journal and empties it.
func (j *Journal) Drain() []Entry {
	if j == nil {
		return nil
	}
	j.mu.Lock()
	defer j.mu.Unlock()
	out := make([]Entry, len(j.entries))
	copy(out, j.entries)
	j.entries = j.entries[:0]
	return out
}

func (j *Journal) HasUrgent() bool {
	if j == nil {
		return false
	}
	j.mu.Lock()
	defer j.mu.Unlock()
	for _, e := range j.entries {
		if e.Priority == PriorityUrgent {
			return true
		}
	}
	return false
}

// evictIndexLocked picks the entry to drop for an incoming entry of the
// given priority, or -1 if the incoming entry should be discarded.
func (j *Journal) evictIndexLocked(incoming Priority) int {
	for _, p := range []Priority{PriorityLow, PriorityNormal} {
		for i, e := range j.entries {
			if e.Priority == p {
				return i
			}
		}
	}
	if incoming == PriorityUrgent && len(j.entries) > 0 {
		return 0
	}
	return -1
}
