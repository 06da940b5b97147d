package operation

import (
	"errors"
	"fmt"
	"strings"
)

// Exception is the typed failure of one operation execution attempt.
// It carries a Code from a closed per-kind table, the operation instance that
// failed (best effort when the failure happened before materialization), a
// human reason, and the underlying cause. An Exception is immutable once built.
type Exception struct {
	code          Code
	operation     any
	operationType string
	reason        string
	cause         error
}

// NewException builds an Exception directly.
// The message is always `Operation "<type>" failed! <reason>`, where the type
// is the declared name of the operation's Go type.
func NewException(code Code, op any, reason string, cause error) *Exception {
	return &Exception{
		code:          code,
		operation:     op,
		operationType: TypeName(op),
		reason:        reason,
		cause:         cause,
	}
}

// Error returns the synthesized failure message.
func (e *Exception) Error() string {
	return `Operation "` + e.operationType + `" failed! ` + e.reason
}

// Unwrap returns the underlying cause for errors.Is/As traversal.
func (e *Exception) Unwrap() error { return e.cause }

// Code returns the failure discriminant.
func (e *Exception) Code() Code { return e.code }

// Operation returns the operation instance that failed.
func (e *Exception) Operation() any { return e.operation }

// OperationType returns the declared type name of the failed operation.
func (e *Exception) OperationType() string { return e.operationType }

// Reason returns the human-readable reason without the operation prefix.
func (e *Exception) Reason() string { return e.reason }

// Cause returns the underlying error, which may be a multi-cause bundle.
func (e *Exception) Cause() error { return e.cause }

// AsException finds the first Exception in err's chain.
func AsException(err error) (*Exception, bool) {
	var exc *Exception
	if errors.As(err, &exc) {
		return exc, true
	}
	return nil, false
}

// HasCode reports whether err carries an Exception with the given code.
func HasCode(err error, code Code) bool {
	exc, ok := AsException(err)
	return ok && exc.code == code
}

// ExceptionFactory constructs the canonical failures of one operation type.
// Taxonomy is the standard implementation; a descriptor may carry any other
// implementation to customize codes or reasons for its operation.
type ExceptionFactory interface {
	HandlerNotFound(op any, cause error) *Exception
	InternalHandlerError(op any, cause error) *Exception
	InvalidOperation(op any, violations []*ValidationError) *Exception
}

// Taxonomy builds exceptions for one operation kind from its code table.
type Taxonomy struct {
	Kind  Kind
	Codes Codes
}

// Predefined taxonomies for the supported kinds.
var (
	OperationExceptions = Taxonomy{Kind: KindOperation, Codes: BaseCodes}
	CommandExceptions   = Taxonomy{Kind: KindCommand, Codes: BaseCodes.WithInvalidOperation(CodeInvalidCommand)}
	QueryExceptions     = Taxonomy{Kind: KindQuery, Codes: BaseCodes.WithInvalidOperation(CodeInvalidQuery)}
)

// TaxonomyFor returns the predefined taxonomy of a kind.
func TaxonomyFor(kind Kind) Taxonomy {
	switch kind {
	case KindCommand:
		return CommandExceptions
	case KindQuery:
		return QueryExceptions
	default:
		return OperationExceptions
	}
}

// HandlerNotFound reports that no handler is registered for op's type.
func (t Taxonomy) HandlerNotFound(op any, cause error) *Exception {
	reason := fmt.Sprintf(`Handler for %s "%s" not found!`, t.Kind.Title(), TypeName(op))
	return NewException(t.Codes.HandlerNotFound, op, reason, cause)
}

// InternalHandlerError reports that the handler failed while processing op.
func (t Taxonomy) InternalHandlerError(op any, cause error) *Exception {
	return NewException(t.Codes.InternalHandlerError, op, "Internal handler error: "+joinedMessages(cause), cause)
}

// InvalidOperation reports every constraint violation found on op.
// The cause is a ValidationErrors bundle holding all violations.
func (t Taxonomy) InvalidOperation(op any, violations []*ValidationError) *Exception {
	bundle := ValidationErrors(violations)
	reason := fmt.Sprintf("Invalid %s: %s", t.Kind.Title(), bundle.Error())
	return NewException(t.Codes.InvalidOperation, op, reason, bundle)
}

// joinedMessages flattens a cause into one message.
// Multi-cause errors contribute one line per inner error.
func joinedMessages(err error) string {
	if err == nil {
		return ""
	}

	multi, ok := err.(interface{ Unwrap() []error })
	if !ok {
		return err.Error()
	}

	inner := multi.Unwrap()
	msgs := make([]string, 0, len(inner))
	for _, e := range inner {
		if e == nil {
			continue
		}
		msgs = append(msgs, e.Error())
	}
	return strings.Join(msgs, "\n")
}
