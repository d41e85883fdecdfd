package events

import (
	"context"
	"sync"
)

// Published is one event captured by the in-memory publisher.
type Published struct {
	EventType string
	Event     any
}

// MemoryPublisher implements service.EventPublisher by recording events. It
// backs tests and local runs without a broker.
type MemoryPublisher struct {
	mu     sync.Mutex
	events []Published
}

// NewMemoryPublisher creates an empty recorder.
func NewMemoryPublisher() *MemoryPublisher {
	return &MemoryPublisher{}
}

// Publish records the event.
func (p *MemoryPublisher) Publish(_ context.Context, eventType string, event any) error {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.events = append(p.events, Published{EventType: eventType, Event: event})
	return nil
}

// Events returns a copy of everything published so far.
func (p *MemoryPublisher) Events() []Published {
	p.mu.Lock()
	defer p.mu.Unlock()
	out := make([]Published, len(p.events))
	copy(out, p.events)
	return out
}

// ByType returns the recorded events of one type.
func (p *MemoryPublisher) ByType(eventType string) []Published {
	p.mu.Lock()
	defer p.mu.Unlock()
	var out []Published
	for _, e := range p.events {
		if e.EventType == eventType {
			out = append(out, e)
		}
	}
	return out
}
