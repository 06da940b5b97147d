package oplog

import (
	"context"

	"go.uber.org/zap"
)

// ZapSink writes records through a zap logger with the same field names as
// SlogSink.
type ZapSink struct {
	logger *zap.Logger
}

// NewZapSink creates a sink over logger, or a no-op logger when nil.
func NewZapSink(logger *zap.Logger) *ZapSink {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &ZapSink{logger: logger}
}

// Write implements Sink.
func (s *ZapSink) Write(_ context.Context, r Record) {
	fields := []zap.Field{
		zap.String("kind", string(r.Kind)),
		zap.String("status", string(r.Status)),
		zap.String("name", r.Name),
		zap.Int64("duration_ms", r.DurationMs),
		zap.String("execution_id", r.ExecutionID),
	}
	if r.Version != "" {
		fields = append(fields, zap.String("version", r.Version))
	}

	if r.Failed() {
		fields = append(fields,
			zap.String("error_code", string(r.ErrorCode)),
			zap.String("error_message", r.ErrorMessage),
		)
		s.logger.Error(r.Message, fields...)
		return
	}
	s.logger.Info(r.Message, fields...)
}
