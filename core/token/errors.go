package token

import "errors"

var (
	// ErrMalformedToken is returned when an opaque session token cannot be
	// decoded into its expected parts.
	ErrMalformedToken = errors.New("token: malformed session token")

	// ErrTokenGeneration is returned when reading from the system's secure
	// random source fails.
	ErrTokenGeneration = errors.New("token: failed to generate random token")

	// ErrSecretMissing is returned in production when SESSION_SECRET_KEY is
	// not set.
	ErrSecretMissing = errors.New("token: SESSION_SECRET_KEY is required in production")

	// ErrSecretTooShort is returned in production when the secret is shorter
	// than 32 bytes.
	ErrSecretTooShort = errors.New("token: SESSION_SECRET_KEY must be at least 32 bytes")

	// ErrSecretRenamed is returned in production when the legacy
	// SECRET_SESSION_KEY variable is set instead of SESSION_SECRET_KEY.
	ErrSecretRenamed = errors.New("token: SECRET_SESSION_KEY has been renamed, set SESSION_SECRET_KEY instead")
)
