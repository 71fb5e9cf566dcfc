package token

import "os"

const (
	// EnvSecretKey is the environment variable holding the session secret.
	EnvSecretKey = "SESSION_SECRET_KEY"

	// EnvLegacySecretKey is the pre-rename variable. Setting it without
	// EnvSecretKey in production fails with a rename hint.
	EnvLegacySecretKey = "SECRET_SESSION_KEY"

	// minSecretLength is required for HS256 signing keys in production.
	minSecretLength = 32

	// devSecret is used outside production when no secret is configured.
	devSecret = "dev-only-session-secret-not-for-production"
)

// SecretFromEnv resolves the session signing secret. In production the secret
// is required and must be at least 32 bytes; outside production a fixed
// development secret is substituted when none is set.
func SecretFromEnv(production bool) ([]byte, error) {
	secret := os.Getenv(EnvSecretKey)

	if production {
		if secret == "" {
			if os.Getenv(EnvLegacySecretKey) != "" {
				return nil, ErrSecretRenamed
			}
			return nil, ErrSecretMissing
		}
		if len(secret) < minSecretLength {
			return nil, ErrSecretTooShort
		}
		return []byte(secret), nil
	}

	if secret == "" {
		secret = devSecret
	}
	return []byte(secret), nil
}
