package operation

import (
	"context"
	"time"
)

// Executor carries out a materialized operation, typically by dispatching it
// to a registered handler. Cancellation and timeouts belong to the executor.
type Executor[T, R any] interface {
	Execute(ctx context.Context, op T) (R, error)
}

// ExecutorFunc adapts a function to the Executor interface.
type ExecutorFunc[T, R any] func(ctx context.Context, op T) (R, error)

// Execute implements Executor.
func (f ExecutorFunc[T, R]) Execute(ctx context.Context, op T) (R, error) {
	return f(ctx, op)
}

// SuccessEvent describes a completed execution.
type SuccessEvent struct {
	ExecutionID string
	Name        string
	Version     string
	Duration    time.Duration
}

// FailureEvent describes a failed execution and its classification.
type FailureEvent struct {
	ExecutionID string
	Name        string
	Version     string
	Duration    time.Duration
	Code        Code
	Message     string
}

// ExecutionLogger receives exactly one event per execution attempt.
type ExecutionLogger interface {
	Succeeded(ctx context.Context, event SuccessEvent)
	Failed(ctx context.Context, event FailureEvent)
}

type nopLogger struct{}

func (nopLogger) Succeeded(context.Context, SuccessEvent) {}

func (nopLogger) Failed(context.Context, FailureEvent) {}
