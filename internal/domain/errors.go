package domain

import "errors"

// Sentinel errors for domain-level error discrimination.
// Services wrap these so handlers can map to HTTP status codes without leaking infrastructure details.
var (
	ErrNotFound     = errors.New("not found")
	ErrConflict     = errors.New("conflict")
	ErrUnauthorized = errors.New("unauthorized")
	ErrForbidden    = errors.New("forbidden")
	ErrBadRequest   = errors.New("bad request")

	// OTP policy errors. All three surface as 4xx, but they mean different
	// things to the client: rate-limited means "wait before requesting another
	// code", too-many-attempts means "request a new code", expired means the
	// current code is no longer usable.
	ErrRateLimited     = errors.New("rate limited")
	ErrTooManyAttempts = errors.New("too many attempts")
	ErrExpired         = errors.New("expired")
)
