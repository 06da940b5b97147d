package events

import (
	"context"
	"slices"
	"sync"
)

// MemorySink keeps appended events in memory, deduplicated by idempotency key.
// It is safe for concurrent use.
type MemorySink struct {
	mu        sync.Mutex
	envelopes []Envelope
	seen      map[string]struct{}
}

// NewMemorySink creates an empty in-memory sink.
func NewMemorySink() *MemorySink {
	return &MemorySink{seen: make(map[string]struct{})}
}

// Append implements EventSink. An envelope whose idempotency key was already
// appended is dropped; envelopes without a key are always kept.
func (m *MemorySink) Append(ctx context.Context, envelope Envelope) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	m.mu.Lock()
	defer m.mu.Unlock()

	if key := envelope.IdempotencyKey; key != "" {
		if _, dup := m.seen[key]; dup {
			return nil
		}
		m.seen[key] = struct{}{}
	}
	m.envelopes = append(m.envelopes, envelope)
	return nil
}

// Envelopes returns a copy of the stored events in append order.
func (m *MemorySink) Envelopes() []Envelope {
	m.mu.Lock()
	defer m.mu.Unlock()
	return slices.Clone(m.envelopes)
}

// Len returns the number of stored events.
func (m *MemorySink) Len() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return len(m.envelopes)
}
