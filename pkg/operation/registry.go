package operation

import (
	"fmt"
	"reflect"
	"sync"

	"github.com/Masterminds/semver/v3"
	"github.com/go-playground/validator/v10"
)

// validate is the package-level validator instance used for descriptor checks.
var validate = validator.New(validator.WithRequiredStructEnabled())

// Descriptor is the declaration-time metadata of one operation type.
type Descriptor struct {
	// Type is the declared operation name used in messages and logs.
	Type string `json:"type" validate:"required"`

	// Kind selects command or query wording; empty means KindOperation.
	Kind Kind `json:"kind" validate:"omitempty,oneof=operation command query"`

	// Exceptions constructs this operation's failures.
	// A descriptor without one cannot be built or executed.
	Exceptions ExceptionFactory `json:"-"`

	Description string `json:"description,omitempty"`

	// Version optionally versions the operation contract.
	Version *semver.Version `json:"version,omitempty"`
}

// VersionString returns the version or an empty string when unversioned.
func (d Descriptor) VersionString() string {
	if d.Version == nil {
		return ""
	}
	return d.Version.String()
}

// Registry maps operation Go types to their descriptors.
// Types are keyed by identity, so two operation types sharing a declared
// name in different packages never collide. Reads are safe for concurrent use.
type Registry struct {
	mu          sync.RWMutex
	descriptors map[reflect.Type]Descriptor
}

func newRegistry() *Registry {
	return &Registry{descriptors: make(map[reflect.Type]Descriptor)}
}

var defaultRegistry = newRegistry()

// DefaultRegistry returns the process-wide descriptor store.
func DefaultRegistry() *Registry { return defaultRegistry }

// Has reports whether t has been declared.
func (r *Registry) Has(t reflect.Type) bool {
	r.mu.RLock()
	defer r.mu.RUnlock()
	_, ok := r.descriptors[t]
	return ok
}

// Get returns the descriptor declared for t.
func (r *Registry) Get(t reflect.Type) (Descriptor, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	d, ok := r.descriptors[t]
	return d, ok
}

func (r *Registry) declare(t reflect.Type, d Descriptor) error {
	if t == nil {
		return fmt.Errorf("%w: nil type", ErrInvalidDescriptor)
	}
	if d.Kind == "" {
		d.Kind = KindOperation
	}
	if err := validate.Struct(d); err != nil {
		return fmt.Errorf("%w: %s: %w", ErrInvalidDescriptor, t, err)
	}

	r.mu.Lock()
	defer r.mu.Unlock()
	if existing, ok := r.descriptors[t]; ok {
		return fmt.Errorf("%w: %s already declared as %q", ErrAlreadyDeclared, t, existing.Type)
	}
	r.descriptors[t] = d
	return nil
}

// lookup resolves the descriptor of an operation value, falling back from a
// pointer to its element type.
func (r *Registry) lookup(op any) (Descriptor, bool) {
	t := reflect.TypeOf(op)
	if t == nil {
		return Descriptor{}, false
	}
	if d, ok := r.Get(t); ok {
		return d, true
	}
	if t.Kind() == reflect.Pointer {
		return r.Get(t.Elem())
	}
	return Descriptor{}, false
}

// Declare attaches a descriptor to operation type T in the default registry.
// A type can be declared exactly once.
func Declare[T any](d Descriptor) error {
	return defaultRegistry.declare(reflect.TypeFor[T](), d)
}

// DeclareCommand declares T as a command using the command taxonomy.
func DeclareCommand[T any](name, description string) error {
	return Declare[T](Descriptor{
		Type:        name,
		Kind:        KindCommand,
		Exceptions:  CommandExceptions,
		Description: description,
	})
}

// DeclareQuery declares T as a query using the query taxonomy.
func DeclareQuery[T any](name, description string) error {
	return Declare[T](Descriptor{
		Type:        name,
		Kind:        KindQuery,
		Exceptions:  QueryExceptions,
		Description: description,
	})
}

// MustDeclare is like Declare but panics on error.
// It is intended for package initialization.
func MustDeclare[T any](d Descriptor) {
	if err := Declare[T](d); err != nil {
		panic(err)
	}
}

// MustDeclareCommand is like DeclareCommand but panics on error.
func MustDeclareCommand[T any](name, description string) {
	if err := DeclareCommand[T](name, description); err != nil {
		panic(err)
	}
}

// MustDeclareQuery is like DeclareQuery but panics on error.
func MustDeclareQuery[T any](name, description string) {
	if err := DeclareQuery[T](name, description); err != nil {
		panic(err)
	}
}

// DescriptorOf returns the descriptor of an operation value's type.
func DescriptorOf(op any) (Descriptor, bool) {
	return defaultRegistry.lookup(op)
}

// TypeName returns the declared name of op's type.
// Undeclared types fall back to their Go type name.
func TypeName(op any) string {
	if d, ok := defaultRegistry.lookup(op); ok {
		return d.Type
	}
	t := reflect.TypeOf(op)
	if t == nil {
		return "<nil>"
	}
	for t.Kind() == reflect.Pointer {
		t = t.Elem()
	}
	if t.Name() != "" {
		return t.Name()
	}
	return t.String()
}
