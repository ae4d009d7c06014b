package shared

import "fmt"

// DomainError is the base error type for all domain errors
type DomainError struct {
	Message string
}

func (e *DomainError) Error() string {
	return e.Message
}

func NewDomainError(message string) *DomainError {
	return &DomainError{Message: message}
}

// Validation error

type ValidationError struct {
	Field   string
	Message string
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("%s: %s", e.Field, e.Message)
}

func NewValidationError(field, message string) *ValidationError {
	return &ValidationError{Field: field, Message: message}
}

// RetryLimitError is returned when a bounded retry loop gives up
type RetryLimitError struct {
	*DomainError
	Operation string
	Attempts  int
	LastErr   error
}

func NewRetryLimitError(operation string, attempts int, lastErr error) *RetryLimitError {
	msg := fmt.Sprintf("%s: gave up after %d attempts", operation, attempts)
	if lastErr != nil {
		msg = fmt.Sprintf("%s: %v", msg, lastErr)
	}
	return &RetryLimitError{
		DomainError: &DomainError{Message: msg},
		Operation:   operation,
		Attempts:    attempts,
		LastErr:     lastErr,
	}
}

func (e *RetryLimitError) Unwrap() error {
	return e.LastErr
}
