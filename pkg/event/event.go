// pkg/event/event.go
package event

import (
	"sync"
)

// Type represents the type of event
type Type string

// Common event types
const (
	ShapeAdded      Type = "shape_added"
	ShapeRemoved    Type = "shape_removed"
	ShapeMoved      Type = "shape_moved"
	ShapeResized    Type = "shape_resized"
	SceneCleared    Type = "scene_cleared"
	IndexRebuilt    Type = "index_rebuilt"
	OverlapDetected Type = "overlap_detected"
)

// Event is the base interface for all events
type Event interface {
	GetType() Type
	GetSource() interface{}
}

// BaseEvent provides common functionality for all events
type BaseEvent struct {
	EventType Type
	Source    interface{}
}

// GetType returns the event type
func (e *BaseEvent) GetType() Type {
	return e.EventType
}

// GetSource returns the event source
func (e *BaseEvent) GetSource() interface{} {
	return e.Source
}

// Handler is a function that handles events
type Handler func(Event)

// subscription pairs a handler with the ID used to remove it later.
// Function values are not comparable in Go, so removal goes through
// the ID rather than the handler itself.
type subscription struct {
	id      uint64
	handler Handler
}

// Subscription is the caller's handle on a registered handler.
type Subscription struct {
	ID     uint64
	Cancel func()
}

// Bus manages event subscriptions and dispatching
type Bus struct {
	handlers map[Type][]subscription
	nextID   uint64
	mu       sync.RWMutex
}

// NewEventBus creates a new event bus
func NewEventBus() *Bus {
	return &Bus{
		handlers: make(map[Type][]subscription),
		nextID:   1,
	}
}

// Subscribe registers a handler for a specific event type and returns
// a subscription that can cancel it.
func (b *Bus) Subscribe(eventType Type, handler Handler) *Subscription {
	b.mu.Lock()
	id := b.nextID
	b.nextID++
	b.handlers[eventType] = append(b.handlers[eventType], subscription{id: id, handler: handler})
	b.mu.Unlock()

	return &Subscription{
		ID: id,
		Cancel: func() {
			b.unsubscribe(eventType, id)
		},
	}
}

// unsubscribe removes the handler registered under id for eventType.
func (b *Bus) unsubscribe(eventType Type, id uint64) {
	b.mu.Lock()
	defer b.mu.Unlock()

	handlers, ok := b.handlers[eventType]
	if !ok {
		return
	}

	for i, s := range handlers {
		if s.id == id {
			b.handlers[eventType] = append(handlers[:i], handlers[i+1:]...)
			break
		}
	}
}

// Publish sends an event to all subscribed handlers. Handlers run
// synchronously on the caller's goroutine, outside the bus lock, so a
// handler may subscribe or cancel without deadlocking.
func (b *Bus) Publish(event Event) {
	b.mu.RLock()
	registered := b.handlers[event.GetType()]
	handlers := make([]Handler, len(registered))
	for i, s := range registered {
		handlers[i] = s.handler
	}
	b.mu.RUnlock()

	for _, handler := range handlers {
		handler(event)
	}
}

// Specific event implementations

// ShapeEvent contains information about shape lifecycle changes
type ShapeEvent struct {
	BaseEvent
	ShapeID uint64
	Label   string
}

// NewShapeEvent creates a new shape event
func NewShapeEvent(eventType Type, source interface{}, shapeID uint64, label string) *ShapeEvent {
	return &ShapeEvent{
		BaseEvent: BaseEvent{
			EventType: eventType,
			Source:    source,
		},
		ShapeID: shapeID,
		Label:   label,
	}
}

// OverlapEvent contains information about a detected shape overlap
type OverlapEvent struct {
	BaseEvent
	ShapeA uint64
	ShapeB uint64
	Depth  float64
}

// NewOverlapEvent creates a new overlap event
func NewOverlapEvent(source interface{}, shapeA, shapeB uint64, depth float64) *OverlapEvent {
	return &OverlapEvent{
		BaseEvent: BaseEvent{
			EventType: OverlapDetected,
			Source:    source,
		},
		ShapeA: shapeA,
		ShapeB: shapeB,
		Depth:  depth,
	}
}

// RebuildEvent contains information about a spatial index rebuild
type RebuildEvent struct {
	BaseEvent
	ShapeCount int
}

// NewRebuildEvent creates a new rebuild event
func NewRebuildEvent(source interface{}, shapeCount int) *RebuildEvent {
	return &RebuildEvent{
		BaseEvent: BaseEvent{
			EventType: IndexRebuilt,
			Source:    source,
		},
		ShapeCount: shapeCount,
	}
}
