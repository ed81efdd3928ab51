package events

import (
	"sync"

	"github.com/xelth-com/invoiceflow/internal/models"
)

// EventType discriminates the kinds of progress events
type EventType string

const (
	EventStatus    EventType = "status"
	EventExtracted EventType = "extracted"
	EventError     EventType = "error"
)

// StatusConnected is the synthetic status a live stream opens with
const StatusConnected models.DocumentStatus = "connected"

// Event is a transient progress notification for one document.
// Exactly one of Status/Data/Message is meaningful, selected by Type.
type Event struct {
	Type    EventType                `json:"type"`
	Status  models.DocumentStatus    `json:"status,omitempty"`
	Data    *models.ExtractedInvoice `json:"data,omitempty"`
	Message string                   `json:"message,omitempty"`
}

// channelBuffer gives slow subscribers some slack before events are dropped
const channelBuffer = 16

// Bus delivers events to whoever is currently watching a given document.
// Delivery is best-effort: a subscriber whose buffer is full misses the event.
type Bus struct {
	mu          sync.RWMutex
	subscribers map[uint][]chan Event
}

// NewBus creates an empty event bus
func NewBus() *Bus {
	return &Bus{
		subscribers: make(map[uint][]chan Event),
	}
}

// Subscribe registers a new delivery channel for the document and returns it
func (b *Bus) Subscribe(docID uint) chan Event {
	ch := make(chan Event, channelBuffer)

	b.mu.Lock()
	b.subscribers[docID] = append(b.subscribers[docID], ch)
	b.mu.Unlock()

	return ch
}

// Publish sends the event to every channel currently registered for the
// document. Channels that cannot accept the event immediately are skipped.
// Publishing with no subscribers discards the event.
func (b *Bus) Publish(docID uint, ev Event) {
	// Copy under the lock: Unsubscribe compacts the registered slice in
	// place, so iterating the shared backing array is not safe
	b.mu.RLock()
	channels := append([]chan Event(nil), b.subscribers[docID]...)
	b.mu.RUnlock()

	for _, ch := range channels {
		select {
		case ch <- ev:
		default:
			// Buffer full or receiver gone
		}
	}
}

// Unsubscribe removes the channel's registration. Idempotent; removing the
// last channel for a document reclaims its registry entry.
func (b *Bus) Unsubscribe(docID uint, ch chan Event) {
	b.mu.Lock()
	defer b.mu.Unlock()

	channels := b.subscribers[docID]
	for i, c := range channels {
		if c == ch {
			b.subscribers[docID] = append(channels[:i], channels[i+1:]...)
			break
		}
	}
	if len(b.subscribers[docID]) == 0 {
		delete(b.subscribers, docID)
	}
}
