/*
Package operation builds, validates, executes, and observes discrete
operations: commands that change state and queries that read it.

# Declaring operations

An operation is a plain struct. Field names follow json tags, constraints
follow go-playground/validator `validate` tags, defaults come from an optional
SetDefaults method, and per-field transformations from an optional Normalize
method. Each type is declared exactly once, keyed by its Go type:

	type CreateUser struct {
		Name string `json:"name" validate:"required"`
		Age  int    `json:"age"`
	}

	func init() {
		operation.MustDeclareCommand[CreateUser]("CreateUser", "registers a user")
	}

# Building and executing

A Builder accumulates values, materializes and validates them on Build, and
dispatches the result on Execute:

	b, err := operation.NewBuilder[CreateUser, UserID](
		operation.WithExecutor[CreateUser, UserID](executor),
		operation.WithLogger[CreateUser, UserID](logger),
	)
	id, err := b.Fields().
		Field("name").Set("John").
		Field("age").Set(30).
		Execute(ctx)

# Failures

Every operation failure is an *Exception carrying a Code from its kind's closed
table: INVALID_COMMAND / INVALID_QUERY / INVALID_OPERATION for constraint
violations, HANDLER_NOT_FOUND when the executor reports ErrHandlerNotFound,
and INTERNAL_HANDLER_ERROR for anything else the handler returns or panics
with. Exceptions returned by a handler pass through unchanged. Setup mistakes
such as a missing executor are plain sentinel errors and never classified.
*/
package operation
