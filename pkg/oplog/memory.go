package oplog

import (
	"context"
	"slices"
	"sync"
)

// MemorySink retains records in memory. It is safe for concurrent use.
type MemorySink struct {
	mu      sync.Mutex
	records []Record
}

// NewMemorySink creates an empty MemorySink.
func NewMemorySink() *MemorySink { return &MemorySink{} }

// Write implements Sink.
func (m *MemorySink) Write(_ context.Context, r Record) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.records = append(m.records, r)
}

// Records returns a copy of the records written so far.
func (m *MemorySink) Records() []Record {
	m.mu.Lock()
	defer m.mu.Unlock()
	return slices.Clone(m.records)
}

// Reset drops every stored record.
func (m *MemorySink) Reset() {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.records = nil
}

// MultiSink fans each record out to every sink in order.
type MultiSink []Sink

// Write implements Sink.
func (m MultiSink) Write(ctx context.Context, r Record) {
	for _, s := range m {
		if s != nil {
			s.Write(ctx, r)
		}
	}
}
