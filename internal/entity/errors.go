package dto

import (
	"errors"
	"fmt"
)

var (
	ErrInvalidAmount      = errors.New("invalid amount")
	ErrAmountTooLow       = errors.New("amount below minimum")
	ErrGatewayUnavailable = errors.New("card gateway unavailable")
	ErrUploadFailed       = errors.New("evidence upload failed")
	ErrInvalidTransition  = errors.New("payment already processed")
	ErrNotFound           = errors.New("payment not found")
)

// ValidationError names the first offending field of a bank-transfer
// submission. The whole intake is rejected before any side effect runs.
type ValidationError struct {
	Field  string
	Reason string
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("invalid %s: %s", e.Field, e.Reason)
}

func NewValidationError(field, reason string) *ValidationError {
	return &ValidationError{Field: field, Reason: reason}
}
