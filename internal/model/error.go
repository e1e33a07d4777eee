package model

import "strings"

// Standard error codes for API responses
const (
	ErrCodeValidation          = "VALIDATION_FAILED"
	ErrCodeDuplicateResource   = "DUPLICATE_RESOURCE"
	ErrCodeMissingCredential   = "MISSING_CREDENTIAL"
	ErrCodeMalformedCredential = "MALFORMED_CREDENTIAL"
	ErrCodeInvalidCredential   = "INVALID_CREDENTIAL"
	ErrCodeUnauthenticated     = "UNAUTHENTICATED"
	ErrCodeForbidden           = "FORBIDDEN"
	ErrCodeNotFound            = "NOT_FOUND"
	ErrCodeInsufficientStock   = "INSUFFICIENT_STOCK"
	ErrCodeTooManyAttempts     = "TOO_MANY_ATTEMPTS"
	ErrCodeInternalError       = "INTERNAL_ERROR"
)

// Domain errors for business logic
type DomainError struct {
	Code    string
	Message string
}

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

// Common domain errors
var (
	ErrValidation          = NewDomainError(ErrCodeValidation, "Validation failed")
	ErrInvalidBody         = NewDomainError(ErrCodeValidation, "Invalid request body")
	ErrDuplicateEmail      = NewDomainError(ErrCodeDuplicateResource, "User with this email already exists")
	ErrMissingCredential   = NewDomainError(ErrCodeMissingCredential, "No token provided. Authorization header is required.")
	ErrMalformedCredential = NewDomainError(ErrCodeMalformedCredential, `Invalid token format. Use "Bearer <token>".`)
	ErrEmptyToken          = NewDomainError(ErrCodeMalformedCredential, "Token is required.")
	ErrInvalidToken        = NewDomainError(ErrCodeInvalidCredential, "Invalid or expired token.")
	ErrInvalidLogin        = NewDomainError(ErrCodeInvalidCredential, "Invalid credentials")
	ErrUnauthenticated     = NewDomainError(ErrCodeUnauthenticated, "Authentication required.")
	ErrForbidden           = NewDomainError(ErrCodeForbidden, "Access denied. Admin privileges required.")
	ErrSweetNotFound       = NewDomainError(ErrCodeNotFound, "Sweet not found")
	ErrRouteNotFound       = NewDomainError(ErrCodeNotFound, "Route not found")
	ErrInsufficientStock   = NewDomainError(ErrCodeInsufficientStock, "Insufficient stock available")
	ErrTooManyAttempts     = NewDomainError(ErrCodeTooManyAttempts, "Too many login attempts. Try again later.")
)

// FieldError describes a single invalid input field.
type FieldError struct {
	Field   string `json:"field"`
	Message string `json:"message"`
}

// ValidationError carries every field that failed validation for a request.
// errors.Is(err, ErrValidation) holds for any *ValidationError.
type ValidationError struct {
	Fields []FieldError
}

func (e *ValidationError) Error() string {
	msgs := make([]string, 0, len(e.Fields))
	for _, f := range e.Fields {
		msgs = append(msgs, f.Field+": "+f.Message)
	}
	return ErrValidation.Message + ": " + strings.Join(msgs, "; ")
}

// Is reports a match against the generic validation sentinel.
func (e *ValidationError) Is(target error) bool {
	return target == ErrValidation
}

// NewValidationError builds a ValidationError for a single field.
func NewValidationError(field, message string) *ValidationError {
	return &ValidationError{Fields: []FieldError{{Field: field, Message: message}}}
}
