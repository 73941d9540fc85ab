package shared

// Error codes shared by every bounded context
const (
	CodeUnauthenticated       = "UNAUTHENTICATED"
	CodeForbidden             = "FORBIDDEN"
	CodeNotFound              = "NOT_FOUND"
	CodeAlreadyExists         = "ALREADY_EXISTS"
	CodeValidation            = "VALIDATION_ERROR"
	CodeInvalidOrExpiredToken = "INVALID_OR_EXPIRED_TOKEN"
	CodePaymentDeclined       = "PAYMENT_DECLINED"
	CodePaymentProcessorError = "PAYMENT_PROCESSOR_ERROR"
	CodeInconsistent          = "INCONSISTENT"
	CodeInternal              = "INTERNAL_ERROR"
)

// DomainError represents a domain-level error
type DomainError struct {
	Code    string `json:"code"`
	Message string `json:"message"`
	cause   error
}

// Error implements the error interface
func (e *DomainError) Error() string {
	return e.Message
}

// Is reports whether target is a DomainError with the same code, so a
// specialised message still matches its sentinel.
func (e *DomainError) Is(target error) bool {
	t, ok := target.(*DomainError)
	if !ok {
		return false
	}
	return e.Code == t.Code
}

// Unwrap returns the underlying cause, if any
func (e *DomainError) Unwrap() error {
	return e.cause
}

// NewDomainError creates a new domain error
func NewDomainError(code, message string) *DomainError {
	return &DomainError{
		Code:    code,
		Message: message,
	}
}

// NewDomainErrorWithCause creates a domain error that keeps the lower level error for logging
func NewDomainErrorWithCause(code, message string, cause error) *DomainError {
	return &DomainError{
		Code:    code,
		Message: message,
		cause:   cause,
	}
}

// Common domain errors
var (
	ErrUnauthenticated       = NewDomainError(CodeUnauthenticated, "You must be logged in")
	ErrForbidden             = NewDomainError(CodeForbidden, "You do not have permission to do that")
	ErrNotFound              = NewDomainError(CodeNotFound, "Resource not found")
	ErrAlreadyExists         = NewDomainError(CodeAlreadyExists, "Resource already exists")
	ErrValidation            = NewDomainError(CodeValidation, "Invalid input provided")
	ErrInvalidOrExpiredToken = NewDomainError(CodeInvalidOrExpiredToken, "This token is either invalid or expired")
	ErrPaymentDeclined       = NewDomainError(CodePaymentDeclined, "The payment was declined")
	ErrPaymentProcessor      = NewDomainError(CodePaymentProcessorError, "The payment processor failed")
	ErrInconsistent          = NewDomainError(CodeInconsistent, "The operation completed only partially")
	ErrInternal              = NewDomainError(CodeInternal, "Internal error")
)
