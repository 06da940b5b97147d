package operation

// Code discriminates why an operation failed.
// Codes are string-based for debuggability and natural JSON serialization.
// Callers may declare their own codes for business failures raised by handlers.
type Code string

const (
	// CodeInternalHandlerError indicates the handler itself failed unexpectedly.
	CodeInternalHandlerError Code = "INTERNAL_HANDLER_ERROR"

	// CodeHandlerNotFound indicates no handler is registered for the operation type.
	CodeHandlerNotFound Code = "HANDLER_NOT_FOUND"

	// CodeInvalidOperation indicates the operation failed its declared constraints.
	CodeInvalidOperation Code = "INVALID_OPERATION"

	// CodeInvalidCommand is the command-specific rename of CodeInvalidOperation.
	CodeInvalidCommand Code = "INVALID_COMMAND"

	// CodeInvalidQuery is the query-specific rename of CodeInvalidOperation.
	CodeInvalidQuery Code = "INVALID_QUERY"
)

// Kind separates operations that change state from operations that read it.
type Kind string

const (
	// KindOperation is the generic kind used when no command/query split applies.
	KindOperation Kind = "operation"

	// KindCommand marks an intent to change state.
	KindCommand Kind = "command"

	// KindQuery marks an intent to read state.
	KindQuery Kind = "query"
)

// Title returns the capitalized kind as it appears in failure and log messages.
func (k Kind) Title() string {
	switch k {
	case KindCommand:
		return "Command"
	case KindQuery:
		return "Query"
	default:
		return "Operation"
	}
}

// Codes is the closed code table of one operation kind.
type Codes struct {
	InternalHandlerError Code `json:"internal_handler_error"`
	HandlerNotFound      Code `json:"handler_not_found"`
	InvalidOperation     Code `json:"invalid_operation"`
}

// BaseCodes is the code table shared by every kind before renames.
var BaseCodes = Codes{
	InternalHandlerError: CodeInternalHandlerError,
	HandlerNotFound:      CodeHandlerNotFound,
	InvalidOperation:     CodeInvalidOperation,
}

// WithInvalidOperation returns a copy of c with the invalid-operation code renamed.
func (c Codes) WithInvalidOperation(code Code) Codes {
	c.InvalidOperation = code
	return c
}

// Contains reports whether code belongs to the table.
func (c Codes) Contains(code Code) bool {
	return code == c.InternalHandlerError || code == c.HandlerNotFound || code == c.InvalidOperation
}
