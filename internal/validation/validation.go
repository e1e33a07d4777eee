// Package validation collects field-level input errors into the
// model.ValidationError returned to API clients. Rules are declared per
// request type by explicit calls, with go-playground/validator supplying the
// primitive checks (email format, numeric bounds, URL shape).
package validation

import (
	"errors"
	"fmt"
	"reflect"

	"sweet-shop/internal/model"

	"github.com/go-playground/validator/v10"
)

// Validator wraps a shared go-playground validator instance.
type Validator struct {
	v *validator.Validate
}

// New returns a Validator ready for use by request validation functions.
func New() *Validator {
	return &Validator{v: validator.New()}
}

// Checker accumulates field errors for one request.
type Checker struct {
	v      *validator.Validate
	fields []model.FieldError
	failed map[string]bool
}

// Check starts a new error collection.
func (v *Validator) Check() *Checker {
	return &Checker{v: v.v, failed: make(map[string]bool)}
}

// Var validates value against a validator tag list such as "required,email".
// Only the first failure per field is recorded.
func (c *Checker) Var(field string, value any, tag string) *Checker {
	if c.failed[field] {
		return c
	}

	err := c.v.Var(value, tag)
	if err == nil {
		return c
	}

	var ve validator.ValidationErrors
	if errors.As(err, &ve) && len(ve) > 0 {
		c.Add(field, fieldMessage(field, ve[0]))
		return c
	}

	c.Add(field, fmt.Sprintf("%s is invalid", field))
	return c
}

// Require records message for field unless ok holds.
func (c *Checker) Require(ok bool, field, message string) *Checker {
	if !ok && !c.failed[field] {
		c.Add(field, message)
	}
	return c
}

// Add records a field error unconditionally.
func (c *Checker) Add(field, message string) {
	c.failed[field] = true
	c.fields = append(c.fields, model.FieldError{Field: field, Message: message})
}

// Valid reports whether no error has been recorded so far.
func (c *Checker) Valid() bool {
	return len(c.fields) == 0
}

// Err returns a *model.ValidationError, or nil when every check passed.
func (c *Checker) Err() error {
	if c.Valid() {
		return nil
	}
	return &model.ValidationError{Fields: c.fields}
}

// fieldMessage converts a single validator failure into a human-readable message.
func fieldMessage(field string, fe validator.FieldError) string {
	numeric := isNumeric(fe.Kind())

	switch fe.Tag() {
	case "required":
		return field + " is required"
	case "email":
		return field + " must be a valid email"
	case "http_url", "url":
		return field + " must be a valid URL"
	case "min":
		if numeric {
			return fmt.Sprintf("%s must be greater than or equal to %s", field, fe.Param())
		}
		return fmt.Sprintf("%s must be at least %s characters", field, fe.Param())
	case "max":
		if numeric {
			return fmt.Sprintf("%s must be less than or equal to %s", field, fe.Param())
		}
		return fmt.Sprintf("%s must be at most %s characters", field, fe.Param())
	case "gte":
		return fmt.Sprintf("%s must be greater than or equal to %s", field, fe.Param())
	case "lte":
		return fmt.Sprintf("%s must be less than or equal to %s", field, fe.Param())
	default:
		return fmt.Sprintf("%s failed validation (%s)", field, fe.Tag())
	}
}

func isNumeric(k reflect.Kind) bool {
	switch k {
	case reflect.Int, reflect.Int8, reflect.Int16, reflect.Int32, reflect.Int64,
		reflect.Uint, reflect.Uint8, reflect.Uint16, reflect.Uint32, reflect.Uint64,
		reflect.Float32, reflect.Float64:
		return true
	}
	return false
}
