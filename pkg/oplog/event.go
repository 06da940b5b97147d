package oplog

import (
	"context"
	"log/slog"
	"time"

	"github.com/avast/retry-go/v4"

	"github.com/ahrav/go-opbuilder/pkg/events"
)

const (
	defaultEventAttempts = 2
	defaultEventDelay    = 200 * time.Millisecond
)

// EventSink publishes records as event envelopes.
//
// Each record becomes one envelope whose idempotency key is the execution id.
// Delivery is retried with a fixed delay; when every attempt fails the record
// is dropped and the failure logged, never surfaced.
type EventSink struct {
	sink     events.EventSink
	source   string
	attempts uint
	delay    time.Duration
	logger   *slog.Logger
}

// EventSinkOption configures an EventSink.
type EventSinkOption func(*EventSink)

// WithSource sets the envelope source.
func WithSource(source string) EventSinkOption {
	return func(s *EventSink) { s.source = source }
}

// WithDelivery sets the number of delivery attempts and the delay between them.
func WithDelivery(attempts uint, delay time.Duration) EventSinkOption {
	return func(s *EventSink) {
		if attempts > 0 {
			s.attempts = attempts
		}
		s.delay = delay
	}
}

// WithDropLogger sets where dropped deliveries are reported.
func WithDropLogger(logger *slog.Logger) EventSinkOption {
	return func(s *EventSink) {
		if logger != nil {
			s.logger = logger
		}
	}
}

// NewEventSink creates a sink publishing to sink.
func NewEventSink(sink events.EventSink, opts ...EventSinkOption) *EventSink {
	if sink == nil {
		sink = events.NewNoOpEventSink()
	}
	s := &EventSink{
		sink:     sink,
		source:   "oplog",
		attempts: defaultEventAttempts,
		delay:    defaultEventDelay,
		logger:   slog.Default(),
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Write implements Sink.
func (s *EventSink) Write(ctx context.Context, r Record) {
	eventType := events.TypeOperationSucceeded
	if r.Failed() {
		eventType = events.TypeOperationFailed
	}

	env, err := events.NewEnvelope(eventType, s.source, r.Name, r.ExecutionID, r)
	if err != nil {
		s.logger.ErrorContext(ctx, "Execution record not published", "name", r.Name, "error", err)
		return
	}

	err = retry.Do(
		func() error { return s.sink.Append(ctx, env) },
		retry.Context(ctx),
		retry.Attempts(s.attempts),
		retry.Delay(s.delay),
		retry.DelayType(retry.FixedDelay),
		retry.LastErrorOnly(true),
	)
	if err != nil {
		s.logger.WarnContext(ctx, "Execution record dropped",
			"event_type", eventType,
			"execution_id", r.ExecutionID,
			"attempts", s.attempts,
			"error", err)
	}
}
