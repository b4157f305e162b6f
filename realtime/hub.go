// Package realtime pushes notification events to connected users.
//
// The hub is process-local: a user connected to another instance does not
// receive the event. Delivery is best effort and slow subscribers are skipped.
package realtime

import (
	"sync"

	"trungminh/metrics"
)

const subscriberBuffer = 16

type Event struct {
	Type string      `json:"type"`
	Data interface{} `json:"data,omitempty"`
}

// Hub keeps subscriber channels grouped by user ID.
type Hub struct {
	mu          sync.RWMutex
	subscribers map[string]map[chan Event]struct{}
}

func NewHub() *Hub {
	return &Hub{subscribers: make(map[string]map[chan Event]struct{})}
}

// Subscribe registers a channel for userID. The returned func must be called
// once the consumer goes away; it closes the channel.
func (h *Hub) Subscribe(userID string) (<-chan Event, func()) {
	ch := make(chan Event, subscriberBuffer)

	h.mu.Lock()
	set, ok := h.subscribers[userID]
	if !ok {
		set = make(map[chan Event]struct{})
		h.subscribers[userID] = set
	}
	set[ch] = struct{}{}
	h.mu.Unlock()
	metrics.RealtimeSubscribers.Inc()

	var once sync.Once
	unsubscribe := func() {
		once.Do(func() {
			h.mu.Lock()
			delete(set, ch)
			if len(set) == 0 {
				delete(h.subscribers, userID)
			}
			close(ch)
			h.mu.Unlock()
			metrics.RealtimeSubscribers.Dec()
		})
	}
	return ch, unsubscribe
}

// Publish sends ev to every subscriber of userID without blocking.
func (h *Hub) Publish(userID string, ev Event) {
	h.mu.RLock()
	defer h.mu.RUnlock()

	for ch := range h.subscribers[userID] {
		select {
		case ch <- ev:
		default:
			// subscriber is behind, drop
		}
	}
}

func (h *Hub) SubscriberCount(userID string) int {
	h.mu.RLock()
	defer h.mu.RUnlock()
	return len(h.subscribers[userID])
}

// Notify is Publish with the event built from its parts.
func (h *Hub) Notify(userID string, eventType string, data interface{}) {
	h.Publish(userID, Event{Type: eventType, Data: data})
}
