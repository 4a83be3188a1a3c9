// Package events fans meetup lifecycle notifications out to connected
// clients. Publishing never blocks; a subscriber that cannot keep up
// loses events rather than stalling the writer.
package events

import (
	"log/slog"
	"sync"

	"meetups.app/models"
)

// Event types published on meetup mutations
const (
	MeetupCreated = "meetup_created"
	MeetupUpdated = "meetup_updated"
	MeetupDeleted = "meetup_deleted"
)

// Event is a meetup lifecycle notification
type Event struct {
	Type     string               `json:"type"`
	MeetupID uint                 `json:"meetup_id"`
	Meetup   *models.MeetupRecord `json:"meetup,omitempty"`
}

const subscriberBuffer = 16

// Hub is an in-process publish/subscribe exchange
type Hub struct {
	mu          sync.RWMutex
	subscribers map[chan Event]struct{}
	closed      bool
}

// NewHub creates an empty hub
func NewHub() *Hub {
	return &Hub{subscribers: make(map[chan Event]struct{})}
}

// Subscribe registers a new listener. The returned cancel function must be
// called when the listener goes away.
func (h *Hub) Subscribe() (<-chan Event, func()) {
	ch := make(chan Event, subscriberBuffer)

	h.mu.Lock()
	if h.closed {
		h.mu.Unlock()
		close(ch)
		return ch, func() {}
	}
	h.subscribers[ch] = struct{}{}
	h.mu.Unlock()

	return ch, func() {
		h.mu.Lock()
		if _, ok := h.subscribers[ch]; ok {
			delete(h.subscribers, ch)
			close(ch)
		}
		h.mu.Unlock()
	}
}

// Publish delivers the event to every subscriber with room in its buffer
func (h *Hub) Publish(event Event) {
	h.mu.RLock()
	defer h.mu.RUnlock()

	for ch := range h.subscribers {
		select {
		case ch <- event:
		default:
			slog.Warn("Dropping event for slow subscriber", "type", event.Type, "meetupID", event.MeetupID)
		}
	}
}

// Close disconnects every subscriber
func (h *Hub) Close() {
	h.mu.Lock()
	defer h.mu.Unlock()

	if h.closed {
		return
	}
	h.closed = true
	for ch := range h.subscribers {
		close(ch)
		delete(h.subscribers, ch)
	}
}
