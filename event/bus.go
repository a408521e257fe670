// Package event provides a small typed event bus. Each emitter owns its own
// Bus so listeners are never shared between instances.
package event

import "sync"

// Kind identifies an event. Emitting packages declare their own kinds.
type Kind string

// Event is delivered to handlers.
type Event struct {
	Kind   Kind
	Source any
	Data   any
}

type Handler func(Event)

// Subscription identifies a registered handler for Off.
type Subscription struct {
	kind Kind
	id   uint64
}

type entry struct {
	id uint64
	fn Handler
}

// Bus maps event kinds to subscriber lists.
type Bus struct {
	mu       sync.Mutex
	source   any
	nextID   uint64
	handlers map[Kind][]entry
}

// NewBus creates a bus whose events carry source as Event.Source.
func NewBus(source any) *Bus {
	return &Bus{source: source, handlers: make(map[Kind][]entry)}
}

// Source is the value events from this bus carry.
func (b *Bus) Source() any {
	if b == nil {
		return nil
	}
	return b.source
}

// On registers fn for kind.
func (b *Bus) On(kind Kind, fn Handler) Subscription {
	if b == nil || fn == nil {
		return Subscription{}
	}
	b.mu.Lock()
	defer b.mu.Unlock()
	if b.handlers == nil {
		b.handlers = make(map[Kind][]entry)
	}
	b.nextID++
	b.handlers[kind] = append(b.handlers[kind], entry{id: b.nextID, fn: fn})
	return Subscription{kind: kind, id: b.nextID}
}

// Off removes a handler previously returned by On.
func (b *Bus) Off(sub Subscription) {
	if b == nil || sub.id == 0 {
		return
	}
	b.mu.Lock()
	defer b.mu.Unlock()
	list := b.handlers[sub.kind]
	for i, e := range list {
		if e.id == sub.id {
			next := make([]entry, 0, len(list)-1)
			next = append(next, list[:i]...)
			next = append(next, list[i+1:]...)
			b.handlers[sub.kind] = next
			return
		}
	}
}

// Emit calls every handler for kind in subscription order.
func (b *Bus) Emit(kind Kind, data any) {
	if b == nil {
		return
	}
	b.mu.Lock()
	list := b.handlers[kind]
	b.mu.Unlock()

	ev := Event{Kind: kind, Source: b.source, Data: data}
	for _, e := range list {
		e.fn(ev)
	}
}

// Count reports how many handlers are registered for kind.
func (b *Bus) Count(kind Kind) int {
	if b == nil {
		return 0
	}
	b.mu.Lock()
	defer b.mu.Unlock()
	return len(b.handlers[kind])
}
