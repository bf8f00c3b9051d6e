package types

import (
	"errors"
	"fmt"
)

// Error kinds shared by the validation, service and api layers.
var (
	ErrInvalidDuration      = errors.New("invalid cooking time")
	ErrInvalidTagSet        = errors.New("invalid tag set")
	ErrInvalidIngredientSet = errors.New("invalid ingredient set")
	ErrInvalidField         = errors.New("invalid field")
	ErrAlreadyExists        = errors.New("already exists")
	ErrInvalidTarget        = errors.New("invalid target")
	ErrNotFound             = errors.New("not found")
	ErrResourceNotFound     = errors.New("resource not found")
	ErrForbidden            = errors.New("forbidden")
	ErrInvalidCredentials   = errors.New("invalid credentials")
	ErrUnauthorized         = errors.New("unauthorized")
)

// FieldError ties an error kind to the request field that caused it.
type FieldError struct {
	Kind    error
	Field   string
	Message string
}

func (e *FieldError) Error() string {
	if e.Field == "" {
		return e.Message
	}
	return fmt.Sprintf("%s: %s", e.Field, e.Message)
}

func (e *FieldError) Unwrap() error {
	return e.Kind
}

// NewFieldError builds a FieldError with a formatted message.
func NewFieldError(kind error, field, format string, args ...interface{}) *FieldError {
	return &FieldError{
		Kind:    kind,
		Field:   field,
		Message: fmt.Sprintf(format, args...),
	}
}

// ErrorCode returns the snake_case code reported to clients for err.
func ErrorCode(err error) string {
	switch {
	case errors.Is(err, ErrInvalidDuration):
		return "invalid_duration"
	case errors.Is(err, ErrInvalidTagSet):
		return "invalid_tag_set"
	case errors.Is(err, ErrInvalidIngredientSet):
		return "invalid_ingredient_set"
	case errors.Is(err, ErrInvalidField):
		return "invalid_field"
	case errors.Is(err, ErrAlreadyExists):
		return "already_exists"
	case errors.Is(err, ErrInvalidTarget):
		return "invalid_target"
	case errors.Is(err, ErrNotFound):
		return "not_found"
	case errors.Is(err, ErrResourceNotFound):
		return "resource_not_found"
	case errors.Is(err, ErrForbidden):
		return "forbidden"
	case errors.Is(err, ErrInvalidCredentials):
		return "invalid_credentials"
	case errors.Is(err, ErrUnauthorized):
		return "unauthorized"
	default:
		return "internal_error"
	}
}
