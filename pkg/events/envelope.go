// Package events provides the generic event infrastructure for execution
// records leaving the process. It defines the Envelope type that wraps every
// payload with consistent metadata and the EventSink interface for storage or
// transmission.
package events

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/google/uuid"
)

// Event types emitted for operation executions.
const (
	TypeOperationSucceeded = "operation.succeeded"
	TypeOperationFailed    = "operation.failed"
)

// SchemaVersion is the envelope payload schema version.
const SchemaVersion = "1.0.0"

// Envelope wraps an event payload with metadata for routing and deduplication.
type Envelope struct {
	// ID uniquely identifies this event instance.
	ID string `json:"id"`

	// Type routes the event, e.g. "operation.failed".
	Type string `json:"type"`

	// Source identifies the emitting component.
	Source string `json:"source"`

	// Subject names what the event is about, typically the declared operation type.
	Subject string `json:"subject"`

	// Version is the payload schema version.
	Version string `json:"version"`

	Timestamp time.Time `json:"timestamp"`

	// IdempotencyKey identifies the logical occurrence across delivery retries.
	// For execution records this is the execution id.
	IdempotencyKey string `json:"idempotency_key"`

	Payload json.RawMessage `json:"payload"`
}

// NewEnvelope marshals payload and stamps a fresh envelope around it.
func NewEnvelope(eventType, source, subject, idempotencyKey string, payload any) (Envelope, error) {
	raw, err := json.Marshal(payload)
	if err != nil {
		return Envelope{}, fmt.Errorf("marshal %s payload: %w", eventType, err)
	}

	return Envelope{
		ID:             uuid.NewString(),
		Type:           eventType,
		Source:         source,
		Subject:        subject,
		Version:        SchemaVersion,
		Timestamp:      time.Now().UTC(),
		IdempotencyKey: idempotencyKey,
		Payload:        raw,
	}, nil
}

// Decode unmarshals the envelope payload into v.
func (e Envelope) Decode(v any) error {
	if err := json.Unmarshal(e.Payload, v); err != nil {
		return fmt.Errorf("decode %s payload: %w", e.Type, err)
	}
	return nil
}

// EventSink emits events to downstream consumers.
//
// Append is best-effort: callers must not fail their primary work because of
// a sink error. Implementations treat a repeated idempotency key as a no-op.
type EventSink interface {
	Append(ctx context.Context, envelope Envelope) error
}

// NoOpEventSink discards every event.
type NoOpEventSink struct{}

// Append implements EventSink.
func (n *NoOpEventSink) Append(_ context.Context, _ Envelope) error {
	return nil
}

// NewNoOpEventSink creates a sink for when event emission is disabled.
func NewNoOpEventSink() EventSink {
	return &NoOpEventSink{}
}
