// Package events provides a small in-process pub/sub bus for system events.
package events

import (
	"sync"
	"time"

	"github.com/rs/zerolog"
)

// EventType identifies a category of system event
type EventType string

const (
	// CatalogRefreshed is published after the fund catalog has been (re)loaded
	CatalogRefreshed EventType = "catalog.refreshed"
	// CatalogLoadFailed is published when a catalog refresh attempt fails
	CatalogLoadFailed EventType = "catalog.load_failed"
)

// Event is a published event with its payload
type Event struct {
	Type      EventType   `json:"type"`
	Timestamp time.Time   `json:"timestamp"`
	Data      interface{} `json:"data,omitempty"`
}

// Subscription receives events for the types it was registered with
type Subscription struct {
	C  chan Event
	id int
}

// Bus is a thread-safe publish/subscribe event bus
type Bus struct {
	mu     sync.RWMutex
	nextID int
	subs   map[EventType]map[int]*Subscription
	log    zerolog.Logger
}

// NewBus creates a new event bus
func NewBus(log zerolog.Logger) *Bus {
	return &Bus{
		subs: make(map[EventType]map[int]*Subscription),
		log:  log.With().Str("component", "events").Logger(),
	}
}

// Subscribe registers interest in the given event types.
// The returned subscription's channel is buffered; slow consumers drop events
// rather than blocking publishers.
func (b *Bus) Subscribe(types ...EventType) *Subscription {
	b.mu.Lock()
	defer b.mu.Unlock()

	b.nextID++
	sub := &Subscription{
		C:  make(chan Event, 16),
		id: b.nextID,
	}

	for _, t := range types {
		if b.subs[t] == nil {
			b.subs[t] = make(map[int]*Subscription)
		}
		b.subs[t][sub.id] = sub
	}

	return sub
}

// Unsubscribe removes a subscription and closes its channel
func (b *Bus) Unsubscribe(sub *Subscription) {
	b.mu.Lock()
	defer b.mu.Unlock()

	found := false
	for _, subs := range b.subs {
		if _, ok := subs[sub.id]; ok {
			delete(subs, sub.id)
			found = true
		}
	}

	if found {
		close(sub.C)
	}
}

// Publish delivers an event to all subscribers of its type
func (b *Bus) Publish(eventType EventType, data interface{}) {
	event := Event{
		Type:      eventType,
		Timestamp: time.Now().UTC(),
		Data:      data,
	}

	b.mu.RLock()
	defer b.mu.RUnlock()

	for _, sub := range b.subs[eventType] {
		select {
		case sub.C <- event:
		default:
			b.log.Warn().
				Str("event", string(eventType)).
				Msg("Subscriber channel full, dropping event")
		}
	}
}
