package services

import (
	"errors"
	"fmt"
)

// ErrorKind classifies service failures for the HTTP boundary.
type ErrorKind string

const (
	KindValidation   ErrorKind = "validation"
	KindUnauthorized ErrorKind = "unauthorized"
	KindForbidden    ErrorKind = "forbidden"
	KindNotFound     ErrorKind = "not_found"
	KindConflict     ErrorKind = "conflict"
	KindUnexpected   ErrorKind = "unexpected"
)

// ServiceError carries a kind plus a message safe to return to clients.
// The wrapped cause is for logs only and never serialized.
type ServiceError struct {
	Kind    ErrorKind
	Message string
	Err     error
}

func (e *ServiceError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s: %s: %v", e.Kind, e.Message, e.Err)
	}
	return fmt.Sprintf("%s: %s", e.Kind, e.Message)
}

func (e *ServiceError) Unwrap() error {
	return e.Err
}

// Is lets sentinel comparisons match on kind and message.
func (e *ServiceError) Is(target error) bool {
	var other *ServiceError
	if !errors.As(target, &other) {
		return false
	}
	return e.Kind == other.Kind && e.Message == other.Message
}

func NewValidationError(message string) *ServiceError {
	return &ServiceError{Kind: KindValidation, Message: message}
}

func NewUnauthorizedError(message string) *ServiceError {
	return &ServiceError{Kind: KindUnauthorized, Message: message}
}

func NewForbiddenError(message string) *ServiceError {
	return &ServiceError{Kind: KindForbidden, Message: message}
}

func NewNotFoundError(message string) *ServiceError {
	return &ServiceError{Kind: KindNotFound, Message: message}
}

func NewConflictError(message string) *ServiceError {
	return &ServiceError{Kind: KindConflict, Message: message}
}

// NewUnexpectedError wraps an infrastructure failure. The cause stays in
// logs; clients only see the generic message.
func NewUnexpectedError(message string, err error) *ServiceError {
	return &ServiceError{Kind: KindUnexpected, Message: message, Err: err}
}

// KindOf extracts the kind from err, defaulting to KindUnexpected.
func KindOf(err error) ErrorKind {
	var svcErr *ServiceError
	if errors.As(err, &svcErr) {
		return svcErr.Kind
	}
	return KindUnexpected
}

// Common sentinels shared across services.
var (
	// ErrInvalidCredentials is returned for both unknown-email and
	// wrong-password logins so responses cannot be used to enumerate
	// accounts.
	ErrInvalidCredentials = NewUnauthorizedError("invalid email or password")

	ErrUserNotFound       = NewNotFoundError("user not found")
	ErrBranchNotFound     = NewNotFoundError("branch not found")
	ErrLeafNotFound       = NewNotFoundError("leaf not found")
	ErrAssignmentNotFound = NewNotFoundError("assignment not found")
	ErrProgressNotFound   = NewNotFoundError("progress not found")

	ErrEmailTaken         = NewConflictError("email is already registered")
	ErrAlreadyAssigned    = NewConflictError("branch is already assigned to this user")
	ErrProviderMismatch   = NewConflictError("email is registered with a different sign-in method")
	ErrManagerRoleMissing = NewForbiddenError("assigning user does not have admin role")
)
