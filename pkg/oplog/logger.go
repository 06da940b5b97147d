// Package oplog renders operation execution events into structured records
// and hands them to a sink.
//
// A Logger is bound to one operation kind and implements
// operation.ExecutionLogger, so it plugs straight into a Builder:
//
//	logger := oplog.New(operation.KindCommand, oplog.NewSlogSink(slog.Default()))
//	b, _ := operation.NewBuilder[CreateUser, UserID](operation.WithLogger[CreateUser, UserID](logger))
package oplog

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/ahrav/go-opbuilder/pkg/operation"
)

// Status discriminates success records from failure records.
type Status string

const (
	StatusSuccess Status = "success"
	StatusFailure Status = "failure"
)

// Record is one structured execution log entry.
// Failure records additionally carry ErrorCode and ErrorMessage.
type Record struct {
	Kind         operation.Kind `json:"kind"`
	Status       Status         `json:"status"`
	Name         string         `json:"name"`
	Version      string         `json:"version,omitempty"`
	ExecutionID  string         `json:"execution_id"`
	Duration     time.Duration  `json:"-"`
	DurationMs   int64          `json:"duration_ms"`
	ErrorCode    operation.Code `json:"error_code,omitempty"`
	ErrorMessage string         `json:"error_message,omitempty"`
	Message      string         `json:"message"`
}

// Failed reports whether the record describes a failed execution.
func (r Record) Failed() bool { return r.Status == StatusFailure }

// Sink consumes records. Writes are fire-and-forget: a sink handles its own
// delivery failures and never reports them to the logger.
type Sink interface {
	Write(ctx context.Context, record Record)
}

// SinkFunc adapts a function to the Sink interface.
type SinkFunc func(ctx context.Context, record Record)

// Write implements Sink.
func (f SinkFunc) Write(ctx context.Context, record Record) { f(ctx, record) }

// Logger turns execution events into records for a fixed operation kind.
type Logger struct {
	kind operation.Kind
	sink Sink
}

var _ operation.ExecutionLogger = (*Logger)(nil)

// New creates a Logger for kind writing to sink.
// A nil sink falls back to slog.Default().
func New(kind operation.Kind, sink Sink) *Logger {
	if sink == nil {
		sink = NewSlogSink(nil)
	}
	return &Logger{kind: kind, sink: sink}
}

// Kind returns the operation kind this logger reports.
func (l *Logger) Kind() operation.Kind { return l.kind }

// Succeeded implements operation.ExecutionLogger.
func (l *Logger) Succeeded(ctx context.Context, e operation.SuccessEvent) {
	ms := e.Duration.Milliseconds()
	l.sink.Write(ctx, Record{
		Kind:        l.kind,
		Status:      StatusSuccess,
		Name:        e.Name,
		Version:     e.Version,
		ExecutionID: e.ExecutionID,
		Duration:    e.Duration,
		DurationMs:  ms,
		Message:     SuccessMessage(l.kind, e.Name, ms),
	})
}

// Failed implements operation.ExecutionLogger.
func (l *Logger) Failed(ctx context.Context, e operation.FailureEvent) {
	ms := e.Duration.Milliseconds()
	l.sink.Write(ctx, Record{
		Kind:         l.kind,
		Status:       StatusFailure,
		Name:         e.Name,
		Version:      e.Version,
		ExecutionID:  e.ExecutionID,
		Duration:     e.Duration,
		DurationMs:   ms,
		ErrorCode:    e.Code,
		ErrorMessage: e.Message,
		Message:      FailureMessage(l.kind, e.Name, ms, e.Code, e.Message),
	})
}

// SuccessMessage renders the human summary of a successful execution.
func SuccessMessage(kind operation.Kind, name string, durationMs int64) string {
	return fmt.Sprintf("%s '%s' succeeded in %dms.", kind.Title(), name, durationMs)
}

// FailureMessage renders the human summary of a failed execution.
func FailureMessage(kind operation.Kind, name string, durationMs int64, code operation.Code, message string) string {
	return fmt.Sprintf("%s '%s' failed after %dms with code '%s' and a reason: '%s'.",
		kind.Title(), name, durationMs, code, message)
}

// attrs lists the record's structured fields as slog-style key/value pairs.
// Error fields are only present on failure records.
func (r Record) attrs() []any {
	fields := []any{
		"kind", string(r.Kind),
		"status", string(r.Status),
		"name", r.Name,
		"duration_ms", r.DurationMs,
		"execution_id", r.ExecutionID,
	}
	if r.Version != "" {
		fields = append(fields, "version", r.Version)
	}
	if r.Failed() {
		fields = append(fields,
			"error_code", string(r.ErrorCode),
			"error_message", r.ErrorMessage,
		)
	}
	return fields
}

// SlogSink writes records through log/slog.
// Success records are logged at Info and failure records at Error.
type SlogSink struct {
	logger *slog.Logger
}

// NewSlogSink creates a sink over logger, or slog.Default() when nil.
func NewSlogSink(logger *slog.Logger) *SlogSink {
	if logger == nil {
		logger = slog.Default()
	}
	return &SlogSink{logger: logger}
}

// Write implements Sink.
func (s *SlogSink) Write(ctx context.Context, r Record) {
	if r.Failed() {
		s.logger.ErrorContext(ctx, r.Message, r.attrs()...)
		return
	}
	s.logger.InfoContext(ctx, r.Message, r.attrs()...)
}
