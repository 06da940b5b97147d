// Package bus dispatches operations to in-process handlers registered by
// operation type, through a composable middleware pipeline.
package bus

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/ahrav/go-opbuilder/pkg/operation"
)

// Handler processes one operation.
type Handler interface {
	Handle(ctx context.Context, op any) (any, error)
}

// HandlerFunc adapts a function to the Handler interface.
type HandlerFunc func(ctx context.Context, op any) (any, error)

// Handle implements the Handler interface.
func (f HandlerFunc) Handle(ctx context.Context, op any) (any, error) {
	return f(ctx, op)
}

// Middleware transforms a Handler into an enhanced Handler.
type Middleware func(Handler) Handler

// Chain builds a middleware pipeline around a core handler.
// Middleware executes in the order provided with the first outermost.
func Chain(h Handler, middlewares ...Middleware) Handler {
	for i := len(middlewares) - 1; i >= 0; i-- {
		h = middlewares[i](h)
	}
	return h
}

// ErrHandlerPanicked marks errors produced by the Recover middleware.
var ErrHandlerPanicked = errors.New("handler panicked")

// Recover converts a handler panic into an error wrapping ErrHandlerPanicked.
// A panic value that is an error stays reachable through errors.Is/As.
func Recover() Middleware {
	return func(next Handler) Handler {
		return HandlerFunc(func(ctx context.Context, op any) (result any, err error) {
			defer func() {
				r := recover()
				if r == nil {
					return
				}
				if e, ok := r.(error); ok {
					err = fmt.Errorf("%w: %w", ErrHandlerPanicked, e)
					return
				}
				err = fmt.Errorf("%w: %v", ErrHandlerPanicked, r)
			}()
			return next.Handle(ctx, op)
		})
	}
}

// Logging records every dispatch at debug level and failures at warn level,
// with the operation name and duration_ms.
func Logging(logger *slog.Logger) Middleware {
	if logger == nil {
		logger = slog.Default()
	}
	return func(next Handler) Handler {
		return HandlerFunc(func(ctx context.Context, op any) (any, error) {
			name := operation.TypeName(op)

			start := time.Now()
			result, err := next.Handle(ctx, op)
			duration := time.Since(start)

			if err != nil {
				logger.WarnContext(ctx, "Operation handler failed",
					"name", name,
					"duration_ms", duration.Milliseconds(),
					"error", err.Error())
				return result, err
			}
			logger.DebugContext(ctx, "Operation handled",
				"name", name,
				"duration_ms", duration.Milliseconds())
			return result, nil
		})
	}
}
