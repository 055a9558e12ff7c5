package shared

import "errors"

// DomainError represents a domain-level error
type DomainError struct {
	Code    string `json:"code"`
	Message string `json:"message"`
}

// Error implements the error interface
func (e *DomainError) Error() string {
	return e.Message
}

// NewDomainError creates a new domain error
func NewDomainError(code, message string) *DomainError {
	return &DomainError{
		Code:    code,
		Message: message,
	}
}

// Error codes forming the billing error taxonomy
const (
	CodeInvalidAmount       = "INVALID_AMOUNT"
	CodeInvalidTransition   = "INVALID_TRANSITION"
	CodeConstraintViolation = "CONSTRAINT_VIOLATION"
	CodeConcurrencyConflict = "CONCURRENCY_CONFLICT"
	CodeNotFound            = "NOT_FOUND"
	CodeInvalidInput        = "INVALID_INPUT"
)

// Common domain errors
var (
	ErrNotFound            = NewDomainError(CodeNotFound, "Resource not found")
	ErrInvalidInput        = NewDomainError(CodeInvalidInput, "Invalid input provided")
	ErrConcurrencyConflict = NewDomainError(CodeConcurrencyConflict, "Resource was modified by another process")
	ErrConstraintViolation = NewDomainError(CodeConstraintViolation, "A uniqueness or referential constraint was violated")
)

// NewInvalidAmount creates an error for a non-positive monetary input
func NewInvalidAmount(message string) *DomainError {
	return NewDomainError(CodeInvalidAmount, message)
}

// NewInvalidTransition creates an error for an operation attempted from a
// status that does not permit it
func NewInvalidTransition(message string) *DomainError {
	return NewDomainError(CodeInvalidTransition, message)
}

// IsDomainError reports whether err is a DomainError with the given code
func IsDomainError(err error, code string) bool {
	var de *DomainError
	if errors.As(err, &de) {
		return de.Code == code
	}
	return false
}
