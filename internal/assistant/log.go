package assistant

import (
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/angelmondragon/supplynet-dashboard/pkg/enums"
)

// Entry is one line of the live update log.
type Entry struct {
	ID        string               `json:"id"`
	Seq       uint64               `json:"seq"`
	Timestamp time.Time            `json:"timestamp"`
	Kind      enums.LiveUpdateKind `json:"kind"`
	Message   string               `json:"message"`
	Details   map[string]any       `json:"details,omitempty"`
}

// Event is delivered to log subscribers.
type Event struct {
	Reset bool   `json:"reset,omitempty"`
	Entry *Entry `json:"entry,omitempty"`
}

const subscriberBuffer = 64

// UpdateLog is an append-only, strictly ordered list of entries. Seq keeps
// increasing across Reset so subscribers can tell old entries from new ones.
type UpdateLog struct {
	mu      sync.Mutex
	entries []Entry
	seq     uint64
	subs    map[int]chan Event
	nextSub int
	closed  bool
	now     func() time.Time
}

// NewUpdateLog returns an empty log.
func NewUpdateLog() *UpdateLog {
	return &UpdateLog{subs: map[int]chan Event{}, now: time.Now}
}

// Append adds an entry and fans it out.
func (l *UpdateLog) Append(kind enums.LiveUpdateKind, message string, details map[string]any) Entry {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.seq++
	entry := Entry{
		ID:        newEntryID(),
		Seq:       l.seq,
		Timestamp: l.now(),
		Kind:      kind,
		Message:   message,
		Details:   details,
	}
	l.entries = append(l.entries, entry)
	l.publish(Event{Entry: &entry})
	return entry
}

// Reset drops every entry.
func (l *UpdateLog) Reset() {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.entries = nil
	l.publish(Event{Reset: true})
}

// Entries returns a copy of the log.
func (l *UpdateLog) Entries() []Entry {
	l.mu.Lock()
	defer l.mu.Unlock()
	out := make([]Entry, len(l.entries))
	copy(out, l.entries)
	return out
}

// Len returns the number of entries.
func (l *UpdateLog) Len() int {
	l.mu.Lock()
	defer l.mu.Unlock()
	return len(l.entries)
}

// Subscribe returns the backlog of entries with Seq greater than since and a
// channel of later events. Pass 0 for the whole log. A subscriber that falls
// behind loses events rather than blocking the log. The channel closes when
// cancel is called or the log is closed.
func (l *UpdateLog) Subscribe(since uint64) ([]Entry, <-chan Event, func()) {
	l.mu.Lock()
	defer l.mu.Unlock()
	backlog := []Entry{}
	for _, e := range l.entries {
		if e.Seq > since {
			backlog = append(backlog, e)
		}
	}

	ch := make(chan Event, subscriberBuffer)
	if l.closed {
		close(ch)
		return backlog, ch, func() {}
	}
	id := l.nextSub
	l.nextSub++
	l.subs[id] = ch

	var once sync.Once
	cancel := func() {
		once.Do(func() {
			l.mu.Lock()
			defer l.mu.Unlock()
			if sub, ok := l.subs[id]; ok {
				delete(l.subs, id)
				close(sub)
			}
		})
	}
	return backlog, ch, cancel
}

// Close ends every subscription. Appends after Close are still recorded.
func (l *UpdateLog) Close() {
	l.mu.Lock()
	defer l.mu.Unlock()
	if l.closed {
		return
	}
	l.closed = true
	for id, ch := range l.subs {
		delete(l.subs, id)
		close(ch)
	}
}

func (l *UpdateLog) publish(ev Event) {
	for _, ch := range l.subs {
		select {
		case ch <- ev:
		default:
		}
	}
}

func newEntryID() string {
	id, err := uuid.NewV7()
	if err != nil {
		return uuid.NewString()
	}
	return id.String()
}
