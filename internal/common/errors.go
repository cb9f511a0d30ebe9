// Package common defines shared constants and sentinel errors used across
// client and server layers of stockkeeper. Callers should use errors.Is to
// match these values.
package common

import (
	"errors"
	"fmt"
)

var (
	// Repository-level errors.
	ErrorNotFound      = errors.New("not found")
	ErrorAlreadyExists = errors.New("already exists")

	// Service-level errors (generic/internal flow control).
	ErrorInternal     = errors.New("internal error")
	ErrorUnauthorized = errors.New("unauthorized")
	ErrStorage        = errors.New("storage error")

	// Credential errors. Login collapses every failure into
	// ErrInvalidCredentials; the wrapped cause stays available for logs.
	ErrInvalidCredentials = errors.New("invalid credentials")
	ErrPasswordMismatch   = errors.New("password mismatch")
	ErrDuplicateUsername  = errors.New("username already exists")

	// Validation errors.
	ErrValidation       = errors.New("validation error")
	ErrUsernameRequired = fmt.Errorf("%w: username is required", ErrValidation)
	ErrPasswordRequired = fmt.Errorf("%w: password is required", ErrValidation)
	ErrPasswordTooLong  = fmt.Errorf("%w: password is too long", ErrValidation)

	// Token errors.
	ErrMissingToken   = errors.New("missing token")
	ErrMalformedToken = errors.New("malformed token")
	ErrBadSignature   = errors.New("bad token signature")
	ErrTokenExpired   = errors.New("token expired")

	// Inventory errors.
	ErrInsufficientStock = errors.New("insufficient stock")
	ErrArchiveDisabled   = errors.New("archive storage is not configured")
)
