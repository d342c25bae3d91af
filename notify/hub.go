package notify

import (
	"sync"
	"time"
)

// AccessEvent is published when the access state for a (user, course) pair
// changes, so clients can subscribe instead of polling the resolver.
type AccessEvent struct {
	UserID     uint      `json:"user_id"`
	CourseID   uint      `json:"course_id"`
	Status     string    `json:"status"`
	RequestRef string    `json:"request_ref,omitempty"`
	At         time.Time `json:"at"`
}

type subKey struct {
	userID   uint
	courseID uint
}

// Hub is an in-process pub/sub fanout keyed by (user, course). Subscriptions
// are bounded by the caller: the returned cancel func must be invoked when
// the observing client goes away.
type Hub struct {
	mu   sync.Mutex
	subs map[subKey]map[chan AccessEvent]struct{}
}

// DefaultHub is the process-wide hub used by the API handlers.
var DefaultHub = NewHub()

func NewHub() *Hub {
	return &Hub{subs: make(map[subKey]map[chan AccessEvent]struct{})}
}

// Subscribe registers a listener for access events of (userID, courseID).
// The channel is buffered; the cancel func unregisters and closes it.
func (h *Hub) Subscribe(userID, courseID uint) (<-chan AccessEvent, func()) {
	key := subKey{userID: userID, courseID: courseID}
	ch := make(chan AccessEvent, 4)

	h.mu.Lock()
	if h.subs[key] == nil {
		h.subs[key] = make(map[chan AccessEvent]struct{})
	}
	h.subs[key][ch] = struct{}{}
	h.mu.Unlock()

	var once sync.Once
	cancel := func() {
		once.Do(func() {
			h.mu.Lock()
			if set, ok := h.subs[key]; ok {
				delete(set, ch)
				if len(set) == 0 {
					delete(h.subs, key)
				}
			}
			h.mu.Unlock()
			close(ch)
		})
	}
	return ch, cancel
}

// Publish delivers the event to all current subscribers of its (user,
// course) key. Sends never block: a subscriber whose buffer is full misses
// the event and is expected to re-read the resolver on reconnect.
func (h *Hub) Publish(ev AccessEvent) {
	if ev.At.IsZero() {
		ev.At = time.Now()
	}
	key := subKey{userID: ev.UserID, courseID: ev.CourseID}

	h.mu.Lock()
	defer h.mu.Unlock()
	for ch := range h.subs[key] {
		select {
		case ch <- ev:
		default:
		}
	}
}
