package model

import (
	"errors"
	"fmt"
)

var (
	// ErrNotFound is returned by stores when the requested row does not exist
	// or does not belong to the caller.
	ErrNotFound = errors.New("not found")
	// ErrNotAuthenticated is returned when an operation requires a signed-in user.
	ErrNotAuthenticated = errors.New("no authenticated user found")
	// ErrInvalidCredentials is returned by sign-in on unknown email or wrong password.
	ErrInvalidCredentials = errors.New("invalid login credentials")

	// Refresh token rejections. A rejected token ends the session it belonged to.
	ErrTokenRevoked  = errors.New("refresh token revoked")
	ErrTokenExpired  = errors.New("refresh token expired")
	ErrTokenMismatch = errors.New("refresh token mismatch")
)

// AuthError reports a missing or invalid session.
type AuthError struct {
	Err error
}

func (e *AuthError) Error() string {
	if e.Err == nil {
		return ErrNotAuthenticated.Error()
	}
	return e.Err.Error()
}

func (e *AuthError) Unwrap() error { return e.Err }

// RemoteError reports a failed query or mutation against the relational store.
type RemoteError struct {
	Op  string
	Err error
}

func (e *RemoteError) Error() string {
	return fmt.Sprintf("%s: %v", e.Op, e.Err)
}

func (e *RemoteError) Unwrap() error { return e.Err }

// StorageError reports a failed blob storage operation.
type StorageError struct {
	Op  string
	Err error
}

func (e *StorageError) Error() string {
	return fmt.Sprintf("%s: %v", e.Op, e.Err)
}

func (e *StorageError) Unwrap() error { return e.Err }

// ValidationError reports invalid input rejected before any remote call.
type ValidationError struct {
	Field  string
	Reason string
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("invalid %s: %s", e.Field, e.Reason)
}

// NewValidationError creates a ValidationError for the given field.
func NewValidationError(field, reason string) error {
	return &ValidationError{Field: field, Reason: reason}
}
