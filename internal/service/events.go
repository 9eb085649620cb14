package service

import (
	"sync"

	"flowdesk/internal/domain"
)

// EventType defines the type of event
type EventType string

const (
	EventSessionOpened    EventType = "session_opened"
	EventSessionClosed    EventType = "session_closed"
	EventDocumentLoaded   EventType = "document_loaded"
	EventDocumentExported EventType = "document_exported"
	EventDocumentReloaded EventType = "document_reloaded"
	EventNodeAdded        EventType = "node_added"
	EventEditorCleared    EventType = "editor_cleared"
	EventLayoutApplied    EventType = "layout_applied"
	EventSnapshotSaved    EventType = "snapshot_saved"
)

// Event represents an event that occurred in the system
type Event struct {
	Type      EventType `json:"type"`
	SessionID string    `json:"session_id,omitempty"`
	Payload   any       `json:"payload,omitempty"`
}

// ExportPayload is carried by EventDocumentExported
type ExportPayload struct {
	Document *domain.Document
}

// NodePayload is carried by EventNodeAdded
type NodePayload struct {
	Template domain.TemplateID `json:"template"`
	Title    string            `json:"title"`
}

// EventBus allows publishing and subscribing to events
type EventBus struct {
	mu          sync.RWMutex
	subscribers []chan<- Event
}

// NewEventBus creates a new event bus
func NewEventBus() *EventBus {
	return &EventBus{
		subscribers: make([]chan<- Event, 0),
	}
}

// Subscribe adds a subscriber to receive events
func (eb *EventBus) Subscribe(ch chan<- Event) {
	eb.mu.Lock()
	defer eb.mu.Unlock()
	eb.subscribers = append(eb.subscribers, ch)
}

// Publish sends an event to all subscribers
func (eb *EventBus) Publish(event Event) {
	eb.mu.RLock()
	defer eb.mu.RUnlock()
	for _, ch := range eb.subscribers {
		select {
		case ch <- event:
		default:
			// Subscriber is slow, skip
		}
	}
}
