package operation

import (
	"errors"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewException(t *testing.T) {
	cause := errors.New("duplicate key")
	op := createUser{Name: "John"}

	exc := NewException("USER_EXISTS", op, "User already exists", cause)

	assert.Equal(t, `Operation "CreateUser" failed! User already exists`, exc.Error())
	assert.Equal(t, Code("USER_EXISTS"), exc.Code())
	assert.Equal(t, op, exc.Operation())
	assert.Equal(t, "CreateUser", exc.OperationType())
	assert.Equal(t, "User already exists", exc.Reason())
	assert.Equal(t, cause, exc.Cause())
	assert.ErrorIs(t, exc, cause)
}

func TestTaxonomy(t *testing.T) {
	t.Run("handler not found", func(t *testing.T) {
		cause := errors.New("no handler")

		exc := CommandExceptions.HandlerNotFound(createUser{}, cause)

		assert.Equal(t, CodeHandlerNotFound, exc.Code())
		assert.Equal(t, `Handler for Command "CreateUser" not found!`, exc.Reason())
		assert.Equal(t, `Operation "CreateUser" failed! Handler for Command "CreateUser" not found!`, exc.Error())
		assert.Equal(t, cause, exc.Cause())
	})

	t.Run("internal handler error with single cause", func(t *testing.T) {
		cause := errors.New("database unreachable")

		exc := QueryExceptions.InternalHandlerError(listUsers{}, cause)

		assert.Equal(t, CodeInternalHandlerError, exc.Code())
		assert.Equal(t, "Internal handler error: database unreachable", exc.Reason())
	})

	t.Run("internal handler error with joined causes", func(t *testing.T) {
		cause := errors.Join(errors.New("first"), nil, errors.New("second"))

		exc := CommandExceptions.InternalHandlerError(createUser{}, cause)

		assert.Equal(t, "Internal handler error: first\nsecond", exc.Reason())
	})

	t.Run("internal handler error with wrapped bundle uses outer message", func(t *testing.T) {
		cause := fmt.Errorf("handler: %w", errors.Join(errors.New("a"), errors.New("b")))

		exc := CommandExceptions.InternalHandlerError(createUser{}, cause)

		assert.Equal(t, "Internal handler error: handler: a\nb", exc.Reason())
	})

	t.Run("invalid operation renders nested violations", func(t *testing.T) {
		violations := []*ValidationError{
			{
				Property: "filter",
				Children: []*ValidationError{{
					Property:    "email",
					Constraints: []Constraint{{Name: "email", Message: "email must be an email"}},
				}},
			},
			{
				Property: "limit",
				Constraints: []Constraint{
					{Name: "min", Message: "limit must not be less than 1"},
					{Name: "max", Message: "limit must not be greater than 100"},
				},
			},
		}

		exc := QueryExceptions.InvalidOperation(listUsers{}, violations)

		assert.Equal(t, CodeInvalidQuery, exc.Code())
		want := "Invalid Query: " +
			"Validation of \"filter\" failed!\n" +
			"Validation of \"filter.email\" failed!\n" +
			"  \"email\": email must be an email.\n" +
			"Validation of \"limit\" failed!\n" +
			"  \"min\": limit must not be less than 1.\n" +
			"  \"max\": limit must not be greater than 100."
		assert.Equal(t, want, exc.Reason())

		var bundle ValidationErrors
		require.ErrorAs(t, exc, &bundle)
		assert.Len(t, bundle, 2)
		assert.Len(t, bundle.Unwrap(), 2)
	})

	t.Run("generic operation kind", func(t *testing.T) {
		exc := OperationExceptions.InvalidOperation(noFactory{}, []*ValidationError{{Property: "x"}})

		assert.Equal(t, CodeInvalidOperation, exc.Code())
		assert.Equal(t, `Operation "NoFactory" failed! Invalid Operation: Validation of "x" failed!`, exc.Error())
	})
}

func TestTaxonomyFor(t *testing.T) {
	assert.Equal(t, CommandExceptions, TaxonomyFor(KindCommand))
	assert.Equal(t, QueryExceptions, TaxonomyFor(KindQuery))
	assert.Equal(t, OperationExceptions, TaxonomyFor(""))
}

func TestCodes(t *testing.T) {
	tests := []struct {
		name    string
		tax     Taxonomy
		invalid Code
	}{
		{"operation", OperationExceptions, CodeInvalidOperation},
		{"command", CommandExceptions, CodeInvalidCommand},
		{"query", QueryExceptions, CodeInvalidQuery},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.invalid, tt.tax.Codes.InvalidOperation)
			assert.Equal(t, CodeHandlerNotFound, tt.tax.Codes.HandlerNotFound)
			assert.Equal(t, CodeInternalHandlerError, tt.tax.Codes.InternalHandlerError)
			assert.True(t, tt.tax.Codes.Contains(tt.invalid))
			assert.False(t, tt.tax.Codes.Contains("USER_EXISTS"))
		})
	}
}

func TestKindTitle(t *testing.T) {
	assert.Equal(t, "Command", KindCommand.Title())
	assert.Equal(t, "Query", KindQuery.Title())
	assert.Equal(t, "Operation", KindOperation.Title())
	assert.Equal(t, "Operation", Kind("").Title())
}

func TestValidationErrorRender(t *testing.T) {
	t.Run("bare violation keeps its header", func(t *testing.T) {
		v := &ValidationError{Property: "name"}
		assert.Equal(t, `Validation of "name" failed!`, v.Error())
	})

	t.Run("path is qualified by parent", func(t *testing.T) {
		v := &ValidationError{
			Property:    "city",
			Constraints: []Constraint{{Name: "required", Message: "city should not be empty"}},
		}
		assert.Equal(t, "Validation of \"address.city\" failed!\n  \"required\": city should not be empty.", v.Render("address"))
	})

	t.Run("grandchildren carry the full path", func(t *testing.T) {
		v := &ValidationError{
			Property: "items",
			Children: []*ValidationError{{
				Property: "0",
				Children: []*ValidationError{{Property: "sku"}},
			}},
		}
		want := "Validation of \"items\" failed!\n" +
			"Validation of \"items.0\" failed!\n" +
			"Validation of \"items.0.sku\" failed!"
		assert.Equal(t, want, v.Error())
	})
}

func TestAsExceptionAndHasCode(t *testing.T) {
	exc := CommandExceptions.HandlerNotFound(createUser{}, nil)
	wrapped := fmt.Errorf("dispatch failed: %w", exc)

	got, ok := AsException(wrapped)
	require.True(t, ok)
	assert.Same(t, exc, got)
	assert.True(t, HasCode(wrapped, CodeHandlerNotFound))
	assert.False(t, HasCode(wrapped, CodeInvalidCommand))

	_, ok = AsException(errors.New("plain"))
	assert.False(t, ok)
	assert.False(t, HasCode(nil, CodeHandlerNotFound))
}

func TestTypeName(t *testing.T) {
	assert.Equal(t, "CreateUser", TypeName(createUser{}))
	assert.Equal(t, "CreateUser", TypeName(&createUser{}))
	assert.Equal(t, "undeclared", TypeName(undeclared{}))
	assert.Equal(t, "<nil>", TypeName(nil))
}
