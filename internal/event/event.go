// Package event handles triggering of operations without direct dependency
package event

import (
	"context"
	"fmt"
	"sync"

	"notation/local-app/internal/log"
	"notation/local-app/internal/model"
)

// EventType represents the type of event
type EventType int

const (
	BlockAdded EventType = iota
	PageImported
	PageExported
)

func (t EventType) String() string {
	switch t {
	case BlockAdded:
		return "block added"
	case PageImported:
		return "page imported"
	case PageExported:
		return "page exported"
	default:
		return fmt.Sprintf("event(%d)", int(t))
	}
}

// Event represents an event with its type and associated data
type Event struct {
	Type EventType
	Data interface{}
}

// BlockData is the payload of BlockAdded and PageImported events.
type BlockData struct {
	ID       model.ID
	Kind     model.Kind
	ParentID *model.ID
	Count    int
}

// FileData is the payload of PageExported events.
type FileData struct {
	ID       model.ID
	Filename string
}

// EventHandler is a function type for event handlers
type EventHandler func(Event)

// EventManager manages event subscriptions and publications
type EventManager struct {
	subscribers map[EventType][]EventHandler
	mu          sync.RWMutex
	pending     sync.WaitGroup
	logger      *log.Logger
}

// NewEventManager creates a new EventManager instance
func NewEventManager(logger *log.Logger) *EventManager {
	return &EventManager{
		subscribers: make(map[EventType][]EventHandler),
		logger:      logger,
	}
}

// Subscribe adds a new event handler for a specific event type
func (em *EventManager) Subscribe(eventType EventType, handler EventHandler) {
	em.mu.Lock()
	defer em.mu.Unlock()
	em.subscribers[eventType] = append(em.subscribers[eventType], handler)
}

// Publish sends an event to all subscribed handlers. Handlers run on their
// own goroutines; a panicking handler is logged and does not affect others.
func (em *EventManager) Publish(event Event) {
	em.mu.RLock()
	defer em.mu.RUnlock()
	for _, handler := range em.subscribers[event.Type] {
		em.pending.Add(1)
		go func(h EventHandler) {
			defer em.pending.Done()
			defer func() {
				if r := recover(); r != nil {
					em.logger.Error(context.Background(), "Panic in event handler", log.Fields{
						"event": event.Type.String(),
						"panic": fmt.Sprint(r),
					})
				}
			}()
			h(event)
		}(handler)
	}
}

// Wait blocks until every handler started so far has returned.
func (em *EventManager) Wait() {
	em.pending.Wait()
}
