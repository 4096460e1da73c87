// Package common defines shared constants and sentinel errors used across
// the CareScan server and its admin tool. Callers should use errors.Is to
// match these values.
package common

import "errors"

var (
	// Repository-level errors.
	ErrNotFound      = errors.New("not found")
	ErrAlreadyExists = errors.New("already exists")

	// Service-level errors (generic/internal flow control).
	ErrInternal   = errors.New("internal error")
	ErrValidation = errors.New("validation error")

	// Authenticator errors. Callers outside the server must not be able to
	// tell ErrIdentityNotFound and ErrInvalidSecret apart.
	ErrMissingCredentials = errors.New("missing credentials")
	ErrIdentityNotFound   = errors.New("identity not found")
	ErrInvalidSecret      = errors.New("invalid secret")

	// Session errors.
	ErrInvalidSignature = errors.New("invalid session signature")
	ErrSessionExpired   = errors.New("session expired")
	ErrMalformedSession = errors.New("malformed session")

	// Consultation errors.
	ErrMissingMessage       = errors.New("message is required")
	ErrInferenceUnavailable = errors.New("inference service unavailable")

	// Configuration errors.
	ErrInsecureSecret = errors.New("insecure session secret")
)
