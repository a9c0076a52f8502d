// Package common defines shared constants and sentinel errors used across
// client and server layers of drconsole. Callers should use errors.Is to
// match these values.
package common

import "errors"

var (
	// Repository-level errors.
	ErrorNotFound = errors.New("not found")

	// Service-level errors (generic/internal flow control).
	ErrorInternal     = errors.New("internal error")
	ErrorUnauthorized = errors.New("unauthorized")
	ErrorUnavailable  = errors.New("service unavailable")

	// Validation errors.
	ErrorValidation        = errors.New("validation error")
	ErrorUnknownCollection = errors.New("unknown collection")
	ErrorAlreadyExists     = errors.New("already exists")

	// Auth errors (invalid or malformed token).
	ErrInvalidToken = errors.New("invalid token")

	// Token lifecycle errors.
	ErrTokenExpired        = errors.New("token expired")
	ErrRefreshTokenExpired = errors.New("refresh token expired")
)
