package operation

import (
	"context"
	"errors"
	"fmt"
	"maps"
	"reflect"
	"time"

	"github.com/google/uuid"

	"github.com/ahrav/go-opbuilder/internal/shape"
)

// Builder accumulates field values for one operation of type T, materializes
// and validates it, and dispatches it to an Executor producing R.
//
// A Builder is single-owner mutable state: obtain one per construction
// session and do not share it between goroutines.
type Builder[T, R any] struct {
	descriptor   Descriptor
	fields       map[string]struct{}
	currState    map[string]any
	executor     Executor[T, R]
	logger       ExecutionLogger
	validator    Validator
	materializer Materializer
}

// BuilderOption configures a Builder.
type BuilderOption[T, R any] func(*Builder[T, R])

// WithExecutor sets the executor used by Execute.
func WithExecutor[T, R any](e Executor[T, R]) BuilderOption[T, R] {
	return func(b *Builder[T, R]) { b.executor = e }
}

// WithExecutorFunc sets a function as the executor used by Execute.
func WithExecutorFunc[T, R any](f func(context.Context, T) (R, error)) BuilderOption[T, R] {
	return func(b *Builder[T, R]) { b.executor = ExecutorFunc[T, R](f) }
}

// WithLogger attaches an execution logger.
func WithLogger[T, R any](l ExecutionLogger) BuilderOption[T, R] {
	return func(b *Builder[T, R]) {
		if l != nil {
			b.logger = l
		}
	}
}

// WithValidator replaces the default struct-tag validator.
func WithValidator[T, R any](v Validator) BuilderOption[T, R] {
	return func(b *Builder[T, R]) {
		if v != nil {
			b.validator = v
		}
	}
}

// WithMaterializer replaces the default decoding materializer.
func WithMaterializer[T, R any](m Materializer) BuilderOption[T, R] {
	return func(b *Builder[T, R]) {
		if m != nil {
			b.materializer = m
		}
	}
}

// NewBuilder creates a Builder for the declared operation type T.
// Defaults are derived by materializing T from an empty input.
// Requesting a builder for an undeclared type returns ErrNotDeclared.
func NewBuilder[T, R any](opts ...BuilderOption[T, R]) (*Builder[T, R], error) {
	typ := reflect.TypeFor[T]()
	d, ok := defaultRegistry.Get(typ)
	if !ok {
		return nil, fmt.Errorf("%w: %s", ErrNotDeclared, typ)
	}

	b := &Builder[T, R]{
		descriptor:   d,
		fields:       shape.Names(typ),
		logger:       nopLogger{},
		validator:    defaultValidator,
		materializer: NewMaterializer(),
	}
	for _, opt := range opts {
		opt(b)
	}

	b.currState = b.defaults()
	return b, nil
}

// MustBuilder is like NewBuilder but panics on error.
func MustBuilder[T, R any](opts ...BuilderOption[T, R]) *Builder[T, R] {
	b, err := NewBuilder[T, R](opts...)
	if err != nil {
		panic(err)
	}
	return b
}

var defaultValidator = NewValidator()

// Descriptor returns the descriptor the builder was created from.
func (b *Builder[T, R]) Descriptor() Descriptor { return b.descriptor }

// Set overwrites one field. No validation happens until Build.
func (b *Builder[T, R]) Set(key string, value any) *Builder[T, R] {
	b.currState[key] = value
	return b
}

// Get returns the current value of a field, or nil when it is unset.
func (b *Builder[T, R]) Get(key string) any {
	return b.currState[key]
}

// Lookup returns the current value of a field and whether it is set.
func (b *Builder[T, R]) Lookup(key string) (any, bool) {
	v, ok := b.currState[key]
	return v, ok
}

// defaults materializes a fresh T from an empty input and snapshots its
// default-bearing fields. Values share no memory with those of earlier calls.
func (b *Builder[T, R]) defaults() map[string]any {
	blank := new(T)
	b.materializer.Materialize(map[string]any{}, blank)
	return shape.Defaults(reflect.ValueOf(blank))
}

// Clear resets every declared field: fields with a default return to it and
// fields without one become unset. Keys outside the declared shape are kept.
func (b *Builder[T, R]) Clear() *Builder[T, R] {
	initial := b.defaults()
	for name := range b.fields {
		if v, ok := initial[name]; ok {
			b.currState[name] = v
			continue
		}
		delete(b.currState, name)
	}
	return b
}

// Snapshot returns a copy of the current field values.
func (b *Builder[T, R]) Snapshot() map[string]any {
	return maps.Clone(b.currState)
}

// Fields wraps the builder in a chainable field proxy.
func (b *Builder[T, R]) Fields() *Fields[T, R] {
	return &Fields[T, R]{b: b}
}

// Build materializes and validates the current field values.
//
// Any coercion performed by materialization is visible only in the returned
// instance; the builder's own state is never rewritten. When one or more
// constraints fail, Build returns the descriptor's InvalidOperation exception
// carrying every violation.
func (b *Builder[T, R]) Build() (T, error) {
	if b.descriptor.Exceptions == nil {
		var zero T
		return zero, fmt.Errorf("%w: %s", ErrNoExceptionFactory, b.descriptor.Type)
	}
	return b.build()
}

func (b *Builder[T, R]) build() (T, error) {
	instance := new(T)
	violations := b.materializer.Materialize(maps.Clone(b.currState), instance)
	violations = mergeViolations(violations, b.validator.Validate(instance))
	if len(violations) > 0 {
		var zero T
		return zero, b.descriptor.Exceptions.InvalidOperation(*instance, violations)
	}
	return *instance, nil
}

// Execute builds the operation, dispatches it to the executor, and returns
// the executor's result.
//
// Every failure is returned as an *Exception: build failures as they are,
// executor errors that already are exceptions unchanged, ErrHandlerNotFound
// signals as HandlerNotFound, and anything else, panics included, as
// InternalHandlerError. Each attempt is logged exactly once. Nothing is retried.
func (b *Builder[T, R]) Execute(ctx context.Context) (R, error) {
	var zero R
	if b.executor == nil {
		return zero, fmt.Errorf("%w: %s", ErrNoExecutor, b.descriptor.Type)
	}
	if b.descriptor.Exceptions == nil {
		return zero, fmt.Errorf("%w: %s", ErrNoExceptionFactory, b.descriptor.Type)
	}

	executionID := uuid.NewString()

	op, err := b.build()
	if err != nil {
		b.logFailure(ctx, executionID, 0, err)
		return zero, err
	}

	start := time.Now()
	result, err := b.dispatch(ctx, op)
	duration := time.Since(start)

	if err != nil {
		exc := b.classify(op, err)
		b.logFailure(ctx, executionID, duration, exc)
		return zero, exc
	}

	b.logger.Succeeded(ctx, SuccessEvent{
		ExecutionID: executionID,
		Name:        b.descriptor.Type,
		Version:     b.descriptor.VersionString(),
		Duration:    duration,
	})
	return result, nil
}

// dispatch calls the executor, converting a panic into an error.
// Non-error panic values are coerced with fmt.Sprint.
func (b *Builder[T, R]) dispatch(ctx context.Context, op T) (result R, err error) {
	defer func() {
		if r := recover(); r != nil {
			if e, ok := r.(error); ok {
				err = e
				return
			}
			err = errors.New(fmt.Sprint(r))
		}
	}()
	return b.executor.Execute(ctx, op)
}

// classify maps an executor error onto the taxonomy. First match wins.
func (b *Builder[T, R]) classify(op T, err error) *Exception {
	if exc, ok := AsException(err); ok {
		return exc
	}
	if errors.Is(err, ErrHandlerNotFound) {
		return b.descriptor.Exceptions.HandlerNotFound(op, err)
	}
	return b.descriptor.Exceptions.InternalHandlerError(op, err)
}

func (b *Builder[T, R]) logFailure(ctx context.Context, executionID string, duration time.Duration, err error) {
	event := FailureEvent{
		ExecutionID: executionID,
		Name:        b.descriptor.Type,
		Version:     b.descriptor.VersionString(),
		Duration:    duration,
		Message:     err.Error(),
	}
	if exc, ok := AsException(err); ok {
		event.Code = exc.Code()
	}
	b.logger.Failed(ctx, event)
}
