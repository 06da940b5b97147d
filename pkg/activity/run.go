package activity

import (
	"context"
	"errors"

	"go.temporal.io/sdk/temporal"

	"github.com/ahrav/go-opbuilder/pkg/operation"
)

// ErrTypeSetup is the application error type of unclassified setup failures
// such as a missing executor or an undeclared operation.
const ErrTypeSetup = "Setup"

// ApplicationError converts err into a Temporal application error.
//
// Operation exceptions become non-retryable errors typed by their code, so
// INVALID_COMMAND, HANDLER_NOT_FOUND, and business codes are never retried.
// Errors that already are application errors pass through. Anything else is
// a setup failure and is non-retryable too. The message is a short summary;
// the wrapped cause carries the full text.
func ApplicationError(err error) error {
	if err == nil {
		return nil
	}

	if exc, ok := operation.AsException(err); ok {
		return temporal.NewNonRetryableApplicationError("operation failed", string(exc.Code()), exc)
	}

	var appErr *temporal.ApplicationError
	if errors.As(err, &appErr) {
		return err
	}

	return temporal.NewNonRetryableApplicationError("operation setup failed", ErrTypeSetup, err)
}

// Run executes b and converts any failure with ApplicationError.
func Run[T, R any](ctx context.Context, b *operation.Builder[T, R]) (R, error) {
	name := b.Descriptor().Type
	ec := GetExecutionContext(ctx)

	result, err := b.Execute(ctx)
	if err != nil {
		code := ""
		if exc, ok := operation.AsException(err); ok {
			code = string(exc.Code())
		}
		SafeLogError(ctx, "Operation activity failed",
			"name", name,
			"code", code,
			"workflow_id", ec.WorkflowID,
			"error", err)
		var zero R
		return zero, ApplicationError(err)
	}

	SafeLog(ctx, "Operation activity completed",
		"name", name,
		"workflow_id", ec.WorkflowID)
	return result, nil
}

// FromFields returns an activity function that takes its operation as a
// field bag, sets every field on a fresh builder, and runs it.
//
// newBuilder is called once per activity invocation, so builders are never
// shared between concurrent activities.
func FromFields[T, R any](newBuilder func() (*operation.Builder[T, R], error)) func(context.Context, map[string]any) (R, error) {
	return func(ctx context.Context, fields map[string]any) (R, error) {
		b, err := newBuilder()
		if err != nil {
			var zero R
			return zero, ApplicationError(err)
		}
		for k, v := range fields {
			b.Set(k, v)
		}
		return Run(ctx, b)
	}
}
