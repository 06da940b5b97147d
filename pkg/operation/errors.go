package operation

import "errors"

// Setup errors signal programmer mistakes. They are returned before any timing
// or dispatch starts and are never classified into an Exception.
var (
	// ErrNotDeclared indicates a builder was requested for an undeclared operation type.
	ErrNotDeclared = errors.New("operation type not declared")

	// ErrAlreadyDeclared indicates a second descriptor for the same operation type.
	ErrAlreadyDeclared = errors.New("operation type already declared")

	// ErrInvalidDescriptor indicates a descriptor that fails its own constraints.
	ErrInvalidDescriptor = errors.New("invalid operation descriptor")

	// ErrNoExecutor indicates Execute was called on a builder without an executor.
	ErrNoExecutor = errors.New("no executor configured")

	// ErrNoExceptionFactory indicates the descriptor carries no exception factory.
	ErrNoExceptionFactory = errors.New("no exception factory configured")

	// ErrTooManyArguments indicates a field accessor was invoked with more than one value.
	ErrTooManyArguments = errors.New("field accessor accepts at most one argument")

	// ErrInvalidArguments indicates a builder method was invoked with the wrong arguments.
	ErrInvalidArguments = errors.New("invalid arguments")
)

// ErrHandlerNotFound is the signal an executor returns, possibly wrapped, when
// no handler is registered for the dispatched operation type.
var ErrHandlerNotFound = errors.New("handler not found")
