package dto

import (
	"net/http"

	"github.com/insurance/backend/internal/domain/shared"
)

// Error codes surfaced by the HTTP layer itself
const (
	ErrCodeInternal   = "INTERNAL_ERROR"
	ErrCodeBadRequest = "BAD_REQUEST"
	ErrCodeValidation = "VALIDATION_ERROR"
	ErrCodeNotFound   = shared.CodeNotFound
)

// domainCodeHTTPStatus maps domain error codes to HTTP status codes.
// Codes not listed fall back to 422: a DomainError that is neither a
// lookup miss nor a write conflict is a business rule violation.
var domainCodeHTTPStatus = map[string]int{
	shared.CodeNotFound:            http.StatusNotFound,
	shared.CodeInvalidInput:        http.StatusBadRequest,
	shared.CodeConcurrencyConflict: http.StatusConflict,
	shared.CodeConstraintViolation: http.StatusConflict,
	shared.CodeInvalidAmount:       http.StatusUnprocessableEntity,
	shared.CodeInvalidTransition:   http.StatusUnprocessableEntity,

	"ACCOUNT_EXISTS":          http.StatusConflict,
	"DUPLICATE_MEMBER_NUMBER": http.StatusConflict,
	"DUPLICATE_PRODUCT_CODE":  http.StatusConflict,
	ErrCodeBadRequest:         http.StatusBadRequest,
	ErrCodeValidation:         http.StatusBadRequest,
	ErrCodeInternal:           http.StatusInternalServerError,
}

// DomainErrorStatus returns the HTTP status for a domain error code
func DomainErrorStatus(code string) int {
	if status, ok := domainCodeHTTPStatus[code]; ok {
		return status
	}
	return http.StatusUnprocessableEntity
}
