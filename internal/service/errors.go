package service

import "fmt"

// Error types for consistent error handling across services.

// ErrValidation indicates a validation error (bad input).
type ErrValidation struct {
	Field   string
	Message string
}

func (e *ErrValidation) Error() string {
	return fmt.Sprintf("validation error on '%s': %s", e.Field, e.Message)
}

// ErrForbidden indicates the caller lacks permission for the operation.
type ErrForbidden struct {
	Message string
}

func (e *ErrForbidden) Error() string {
	return e.Message
}

func errNotGroupMember() *ErrForbidden {
	return &ErrForbidden{Message: "you must be a member of this group"}
}
