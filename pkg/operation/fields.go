package operation

import (
	"context"
	"fmt"
)

// Fields presents every field of a builder as a chainable accessor.
//
// Go has no method interception, so arbitrary field names are addressed by
// string: Field("name").Set("John") writes and Field("name").Get() reads.
// Invoke offers fully dynamic dispatch by name over both builder methods and
// fields. Values pass through untouched, so nested maps, structs, and slices
// behave like any scalar.
type Fields[T, R any] struct {
	b *Builder[T, R]
}

// Builder returns the wrapped builder.
func (f *Fields[T, R]) Builder() *Builder[T, R] { return f.b }

// Field returns the accessor for name.
func (f *Fields[T, R]) Field(name string) Accessor[T, R] {
	return Accessor[T, R]{fields: f, name: name}
}

// Set writes a field and returns the proxy for chaining.
func (f *Fields[T, R]) Set(name string, value any) *Fields[T, R] {
	f.b.Set(name, value)
	return f
}

// Get reads a field.
func (f *Fields[T, R]) Get(name string) any {
	return f.b.Get(name)
}

// Clear resets the builder and returns the proxy for chaining.
func (f *Fields[T, R]) Clear() *Fields[T, R] {
	f.b.Clear()
	return f
}

// Build materializes and validates the operation.
func (f *Fields[T, R]) Build() (T, error) {
	return f.b.Build()
}

// Execute builds and dispatches the operation.
func (f *Fields[T, R]) Execute(ctx context.Context) (R, error) {
	return f.b.Execute(ctx)
}

// Invoke calls name dynamically.
//
// Builder methods (build, clear, execute, get, set, snapshot) take precedence;
// a method that returns the builder yields the proxy instead. Any other name is
// a field accessor: no arguments reads it, one argument writes it and yields
// the proxy. Fields shadowed by a method name stay reachable through Field.
func (f *Fields[T, R]) Invoke(ctx context.Context, name string, args ...any) (any, error) {
	switch name {
	case "build":
		return f.Build()
	case "execute":
		return f.Execute(ctx)
	case "clear":
		return f.Clear(), nil
	case "snapshot":
		return f.b.Snapshot(), nil
	case "get":
		key, ok := singleKey(args)
		if !ok {
			return nil, fmt.Errorf("%w: get expects a field name", ErrInvalidArguments)
		}
		return f.Get(key), nil
	case "set":
		if len(args) != 2 {
			return nil, fmt.Errorf("%w: set expects a field name and a value", ErrInvalidArguments)
		}
		key, ok := args[0].(string)
		if !ok {
			return nil, fmt.Errorf("%w: set expects a string field name", ErrInvalidArguments)
		}
		return f.Set(key, args[1]), nil
	default:
		return f.Field(name).Call(args...)
	}
}

func singleKey(args []any) (string, bool) {
	if len(args) != 1 {
		return "", false
	}
	key, ok := args[0].(string)
	return key, ok
}

// Accessor reads and writes one named field of a builder.
type Accessor[T, R any] struct {
	fields *Fields[T, R]
	name   string
}

// Name returns the field name.
func (a Accessor[T, R]) Name() string { return a.name }

// Get reads the field.
func (a Accessor[T, R]) Get() any { return a.fields.Get(a.name) }

// Set writes the field and returns the proxy for chaining.
func (a Accessor[T, R]) Set(value any) *Fields[T, R] { return a.fields.Set(a.name, value) }

// Call reads the field when called without arguments and writes it when
// called with one, returning the proxy.
func (a Accessor[T, R]) Call(args ...any) (any, error) {
	switch len(args) {
	case 0:
		return a.Get(), nil
	case 1:
		return a.Set(args[0]), nil
	default:
		return nil, fmt.Errorf("%w: %s called with %d", ErrTooManyArguments, a.name, len(args))
	}
}
