package service

import "fmt"

// ValidationError represents malformed or missing request input.
type ValidationError struct {
	Message string
}

func (e *ValidationError) Error() string {
	return e.Message
}

// ForbiddenError represents an ownership mismatch on a mutating operation.
type ForbiddenError struct {
	Message string
}

func (e *ForbiddenError) Error() string {
	return e.Message
}

// NotFoundError represents a missing entity.
type NotFoundError struct {
	Message string
}

func (e *NotFoundError) Error() string {
	return e.Message
}

// UploadError represents a failed media storage upload. Uploads are
// single-attempt; there is no retry behind this error.
//
//nolint:govet // fieldalignment: Accept minor memory overhead for better readability
type UploadError struct {
	Message string
	Cause   error
}

func (e *UploadError) Error() string {
	return fmt.Sprintf("%s: %v", e.Message, e.Cause)
}

// InternalError represents an unexpected downstream failure.
//
//nolint:govet // fieldalignment: Accept minor memory overhead for better readability
type InternalError struct {
	Message string
	Cause   error
}

func (e *InternalError) Error() string {
	return fmt.Sprintf("%s: %v", e.Message, e.Cause)
}
