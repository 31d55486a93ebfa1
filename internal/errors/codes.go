package errors

// Code represents an error code
type Code string

// Error codes
const (
	CodeOK                 Code = "OK"
	CodeCanceled           Code = "CANCELED"
	CodeInvalidArgument    Code = "INVALID_ARGUMENT"
	CodeDeadlineExceeded   Code = "DEADLINE_EXCEEDED"
	CodeNotFound           Code = "NOT_FOUND"
	CodeFailedPrecondition Code = "FAILED_PRECONDITION"
	CodeAborted            Code = "ABORTED"
	CodeInternal           Code = "INTERNAL"
	CodeUnavailable        Code = "UNAVAILABLE"
)

// Reasons shared between layers. Packages may define their own.
const (
	ReasonInvalidExpression = "INVALID_EXPRESSION"
	ReasonNoTableFound      = "NO_TABLE_FOUND"
	ReasonUnknownCategory   = "UNKNOWN_CATEGORY"
	ReasonUnexpectedInput   = "UNEXPECTED_INPUT"
)

// MetaAvailableTiers carries the comma separated tiers a category does have
const MetaAvailableTiers = "available_tiers"

// String returns the string representation of the code
func (c Code) String() string {
	return string(c)
}
