package bus

import (
	"context"
	"errors"
	"fmt"
	"reflect"
	"sync"

	"github.com/ahrav/go-opbuilder/pkg/operation"
)

// ErrAlreadyRegistered is returned when a second handler is registered for
// the same operation type.
var ErrAlreadyRegistered = errors.New("handler already registered")

// Bus routes each operation to the single handler registered for its Go type.
// Registration and dispatch are safe for concurrent use.
type Bus struct {
	mu         sync.RWMutex
	handlers   map[reflect.Type]Handler
	middleware []Middleware
}

// New creates a Bus whose dispatches run through middlewares, first outermost.
func New(middlewares ...Middleware) *Bus {
	return &Bus{
		handlers:   make(map[reflect.Type]Handler),
		middleware: middlewares,
	}
}

// Register installs handle as the handler for operations of type T.
func Register[T, R any](b *Bus, handle func(ctx context.Context, op T) (R, error)) error {
	typ := reflect.TypeFor[T]()

	b.mu.Lock()
	defer b.mu.Unlock()

	if _, exists := b.handlers[typ]; exists {
		return fmt.Errorf("%w: %s", ErrAlreadyRegistered, typ)
	}
	b.handlers[typ] = HandlerFunc(func(ctx context.Context, op any) (any, error) {
		return handle(ctx, op.(T))
	})
	return nil
}

// MustRegister is like Register but panics on error.
func MustRegister[T, R any](b *Bus, handle func(ctx context.Context, op T) (R, error)) {
	if err := Register(b, handle); err != nil {
		panic(err)
	}
}

// Registered reports whether a handler exists for values like op.
func (b *Bus) Registered(op any) bool {
	_, ok := b.handler(op)
	return ok
}

// Dispatch routes op to its handler through the bus middleware.
// When no handler is registered the error wraps operation.ErrHandlerNotFound.
func (b *Bus) Dispatch(ctx context.Context, op any) (any, error) {
	h, ok := b.handler(op)
	if !ok {
		return nil, fmt.Errorf("%w: %s", operation.ErrHandlerNotFound, operation.TypeName(op))
	}
	return Chain(h, b.middleware...).Handle(ctx, op)
}

func (b *Bus) handler(op any) (Handler, bool) {
	if op == nil {
		return nil, false
	}
	b.mu.RLock()
	defer b.mu.RUnlock()
	h, ok := b.handlers[reflect.TypeOf(op)]
	return h, ok
}

// ErrUnexpectedResult is returned when a handler's result does not have the
// type the executor was built for.
var ErrUnexpectedResult = errors.New("unexpected handler result")

type executor[T, R any] struct {
	bus *Bus
}

// Executor adapts b to operation.Executor for one operation and result type.
func Executor[T, R any](b *Bus) operation.Executor[T, R] {
	return executor[T, R]{bus: b}
}

func (e executor[T, R]) Execute(ctx context.Context, op T) (R, error) {
	var zero R
	out, err := e.bus.Dispatch(ctx, op)
	if err != nil {
		return zero, err
	}
	if out == nil {
		return zero, nil
	}
	result, ok := out.(R)
	if !ok {
		return zero, fmt.Errorf("%w: %s returned %T, want %s",
			ErrUnexpectedResult, operation.TypeName(op), out, reflect.TypeFor[R]())
	}
	return result, nil
}
