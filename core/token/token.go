package token

import (
	"crypto/rand"
	"crypto/sha256"
	"encoding/base64"
	"encoding/hex"
	"errors"
	"strings"
)

const (
	// DefaultLength is the length of handles, nonces, and anti-CSRF tokens.
	DefaultLength = 32

	// Version0 is the only recognized opaque session token version. Tokens
	// carrying any other version are rejected.
	Version0 = "v0"

	// separator joins the parts of an opaque session token. It never appears
	// inside a part: handles and nonces are URL-safe base64, the public-data
	// fingerprint is hex, and the version is a fixed literal.
	separator = ";"
)

// NewRandomToken returns a cryptographically random, URL-safe string of
// length n. With n <= 0 the default length of 32 is used.
func NewRandomToken(n int) (string, error) {
	if n <= 0 {
		n = DefaultLength
	}

	// base64 expands 3 bytes into 4 characters; over-read so the encoded
	// form is always long enough to slice.
	b := make([]byte, (n*3+3)/4+3)
	if _, err := rand.Read(b); err != nil {
		return "", errors.Join(ErrTokenGeneration, err)
	}
	return base64.RawURLEncoding.EncodeToString(b)[:n], nil
}

// SHA256Hex returns the lowercase hex SHA-256 digest of s.
func SHA256Hex(s string) string {
	sum := sha256.Sum256([]byte(s))
	return hex.EncodeToString(sum[:])
}

// SessionTokenParts is the decoded form of an opaque session token.
type SessionTokenParts struct {
	Handle           string
	Nonce            string
	HashedPublicData string
	Version          string
}

// NewSessionToken mints an opaque session token for the given handle and the
// serialized public data it was issued against. The embedded fingerprint lets
// the resolver detect server-side public data changes without a second read.
func NewSessionToken(handle, publicDataJSON string) (string, error) {
	nonce, err := NewRandomToken(DefaultLength)
	if err != nil {
		return "", err
	}

	raw := strings.Join([]string{handle, nonce, SHA256Hex(publicDataJSON), Version0}, separator)
	return base64.StdEncoding.EncodeToString([]byte(raw)), nil
}

// ParseSessionToken decodes an opaque session token into its four parts.
// Any structural defect, including an empty part, yields ErrMalformedToken.
// Version validity is the caller's concern; unknown versions must invalidate
// the credential.
func ParseSessionToken(tok string) (SessionTokenParts, error) {
	raw, err := base64.StdEncoding.DecodeString(tok)
	if err != nil {
		return SessionTokenParts{}, ErrMalformedToken
	}

	parts := strings.Split(string(raw), separator)
	if len(parts) != 4 {
		return SessionTokenParts{}, ErrMalformedToken
	}
	for _, p := range parts {
		if p == "" {
			return SessionTokenParts{}, ErrMalformedToken
		}
	}

	return SessionTokenParts{
		Handle:           parts[0],
		Nonce:            parts[1],
		HashedPublicData: parts[2],
		Version:          parts[3],
	}, nil
}

// NewPublicDataToken encodes serialized public data for the client-readable
// public-data cookie.
func NewPublicDataToken(publicDataJSON string) string {
	return base64.StdEncoding.EncodeToString([]byte(publicDataJSON))
}
