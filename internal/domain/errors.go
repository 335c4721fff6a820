package domain

import (
	"errors"
	"fmt"
)

// Sentinels for errors.Is matching. The concrete types below carry the detail.
var (
	ErrValidation    = errors.New("validation error")
	ErrNumericDomain = errors.New("numeric domain error")
)

// ValidationError reports malformed or out-of-range input detected before any computation runs.
type ValidationError struct {
	Field   string
	Message string
}

// NewValidationError builds a ValidationError with a formatted message.
func NewValidationError(field, format string, args ...any) *ValidationError {
	return &ValidationError{Field: field, Message: fmt.Sprintf(format, args...)}
}

func (e *ValidationError) Error() string {
	if e.Field == "" {
		return "validation error: " + e.Message
	}
	return fmt.Sprintf("validation error: %s: %s", e.Field, e.Message)
}

// Is lets errors.Is(err, ErrValidation) match any ValidationError.
func (e *ValidationError) Is(target error) bool { return target == ErrValidation }

// NumericDomainError guards operations that would otherwise be undefined, such as a division by a
// zero life-expectancy factor or a simulated balance that overflowed to Inf/NaN.
type NumericDomainError struct {
	Operation string
	Age       int
	Message   string
}

func (e *NumericDomainError) Error() string {
	if e.Age > 0 {
		return fmt.Sprintf("numeric domain error: %s at age %d: %s", e.Operation, e.Age, e.Message)
	}
	return fmt.Sprintf("numeric domain error: %s: %s", e.Operation, e.Message)
}

// Is lets errors.Is(err, ErrNumericDomain) match any NumericDomainError.
func (e *NumericDomainError) Is(target error) bool { return target == ErrNumericDomain }
