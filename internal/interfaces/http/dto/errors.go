package dto

import (
	"net/http"

	"github.com/sickfits/backend/internal/domain/shared"
)

// Error codes produced by the domain layer
const (
	ErrCodeUnauthenticated       = shared.CodeUnauthenticated
	ErrCodeForbidden             = shared.CodeForbidden
	ErrCodeNotFound              = shared.CodeNotFound
	ErrCodeAlreadyExists         = shared.CodeAlreadyExists
	ErrCodeValidation            = shared.CodeValidation
	ErrCodeInvalidOrExpiredToken = shared.CodeInvalidOrExpiredToken
	ErrCodePaymentDeclined       = shared.CodePaymentDeclined
	ErrCodePaymentProcessor      = shared.CodePaymentProcessorError
	ErrCodeInconsistent          = shared.CodeInconsistent
	ErrCodeInternal              = shared.CodeInternal
)

// Error codes produced by the transport layer only
const (
	// ErrCodeBadRequest is used for malformed requests (bad JSON, bad path params)
	ErrCodeBadRequest = "BAD_REQUEST"
	// ErrCodeRateLimited is used when a client exceeds the request budget
	ErrCodeRateLimited = "RATE_LIMITED"
	// ErrCodeRequestTooLarge is used when the body exceeds the configured limit
	ErrCodeRequestTooLarge = "REQUEST_TOO_LARGE"
)

// ErrorCodeHTTPStatus maps error codes to HTTP status codes
var ErrorCodeHTTPStatus = map[string]int{
	ErrCodeUnauthenticated:       http.StatusUnauthorized,
	ErrCodeForbidden:             http.StatusForbidden,
	ErrCodeNotFound:              http.StatusNotFound,
	ErrCodeAlreadyExists:         http.StatusConflict,
	ErrCodeValidation:            http.StatusUnprocessableEntity,
	ErrCodeInvalidOrExpiredToken: http.StatusBadRequest,
	ErrCodePaymentDeclined:       http.StatusPaymentRequired,
	ErrCodePaymentProcessor:      http.StatusBadGateway,
	ErrCodeInconsistent:          http.StatusInternalServerError,
	ErrCodeInternal:              http.StatusInternalServerError,

	ErrCodeBadRequest:      http.StatusBadRequest,
	ErrCodeRateLimited:     http.StatusTooManyRequests,
	ErrCodeRequestTooLarge: http.StatusRequestEntityTooLarge,
}

// GetHTTPStatus returns the HTTP status code for an error code
// Returns 500 Internal Server Error if the error code is not found
func GetHTTPStatus(code string) int {
	if status, ok := ErrorCodeHTTPStatus[code]; ok {
		return status
	}
	return http.StatusInternalServerError
}

// IsServerError reports whether code maps to a 5xx status
func IsServerError(code string) bool {
	return GetHTTPStatus(code) >= http.StatusInternalServerError
}
