package token_test

import (
	"encoding/base64"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/LeonMueller-OneAndOnly/blitz/core/token"
)

func TestNewRandomToken_Length(t *testing.T) {
	for _, n := range []int{1, 16, 32, 64} {
		tok, err := token.NewRandomToken(n)
		require.NoError(t, err)
		assert.Len(t, tok, n)
	}
}

func TestNewRandomToken_DefaultLength(t *testing.T) {
	tok, err := token.NewRandomToken(0)
	require.NoError(t, err)
	assert.Len(t, tok, token.DefaultLength)
}

func TestNewRandomToken_Unique(t *testing.T) {
	seen := make(map[string]bool)
	for range 100 {
		tok, err := token.NewRandomToken(32)
		require.NoError(t, err)
		assert.False(t, seen[tok], "duplicate token generated")
		seen[tok] = true
	}
}

func TestNewRandomToken_URLSafe(t *testing.T) {
	tok, err := token.NewRandomToken(64)
	require.NoError(t, err)
	_, err = base64.RawURLEncoding.DecodeString(tok)
	assert.NoError(t, err)
}

func TestSHA256Hex(t *testing.T) {
	// Known SHA-256 vector.
	assert.Equal(t,
		"e3b0c44298fc1c149afbf4c8996fb92427ae41e4649b934ca495991b7852b855",
		token.SHA256Hex(""))
	assert.Equal(t,
		"2cf24dba5fb0a30e26e83b2ac5b9e29e1b161e5c1fa7425e73043362938b9824",
		token.SHA256Hex("hello"))
}

func TestSessionToken_RoundTrip(t *testing.T) {
	publicData := `{"userId":42}`

	tok, err := token.NewSessionToken("handle-opaque-token-simple", publicData)
	require.NoError(t, err)

	parts, err := token.ParseSessionToken(tok)
	require.NoError(t, err)

	assert.Equal(t, "handle-opaque-token-simple", parts.Handle)
	assert.Len(t, parts.Nonce, token.DefaultLength)
	assert.Equal(t, token.SHA256Hex(publicData), parts.HashedPublicData)
	assert.Equal(t, token.Version0, parts.Version)
}

func TestParseSessionToken_Malformed(t *testing.T) {
	tests := []struct {
		name string
		tok  string
	}{
		{"not base64", "!!!not-base64!!!"},
		{"too few parts", base64.StdEncoding.EncodeToString([]byte("a;b;c"))},
		{"too many parts", base64.StdEncoding.EncodeToString([]byte("a;b;c;d;e"))},
		{"empty handle", base64.StdEncoding.EncodeToString([]byte(";nonce;hash;v0"))},
		{"empty version", base64.StdEncoding.EncodeToString([]byte("h;nonce;hash;"))},
		{"empty string", ""},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := token.ParseSessionToken(tt.tok)
			assert.ErrorIs(t, err, token.ErrMalformedToken)
		})
	}
}

func TestNewPublicDataToken(t *testing.T) {
	tok := token.NewPublicDataToken(`{"userId":null}`)

	decoded, err := base64.StdEncoding.DecodeString(tok)
	require.NoError(t, err)
	assert.JSONEq(t, `{"userId":null}`, string(decoded))
}

type jwtPayload struct {
	IsAnonymous   bool           `json:"isAnonymous"`
	Handle        string         `json:"handle"`
	PublicData    map[string]any `json:"publicData"`
	AntiCSRFToken string         `json:"antiCSRFToken"`
}

var jwtSecret = []byte("0123456789abcdef0123456789abcdef")

func TestAnonymousJWT_RoundTrip(t *testing.T) {
	in := jwtPayload{
		IsAnonymous:   true,
		Handle:        "h-anonymous-jwt",
		PublicData:    map[string]any{"userId": nil},
		AntiCSRFToken: "csrf-token",
	}

	tok, err := token.NewAnonymousJWT(jwtSecret, in)
	require.NoError(t, err)

	var out jwtPayload
	require.True(t, token.ParseAnonymousJWT(jwtSecret, tok, &out))
	assert.Equal(t, in, out)
}

func TestParseAnonymousJWT_WrongSecret(t *testing.T) {
	tok, err := token.NewAnonymousJWT(jwtSecret, jwtPayload{Handle: "h"})
	require.NoError(t, err)

	var out jwtPayload
	assert.False(t, token.ParseAnonymousJWT([]byte("another-secret-another-secret-xx"), tok, &out))
}

func TestParseAnonymousJWT_Tampered(t *testing.T) {
	tok, err := token.NewAnonymousJWT(jwtSecret, jwtPayload{Handle: "h"})
	require.NoError(t, err)

	tampered := tok[:len(tok)-2] + "xx"

	var out jwtPayload
	assert.False(t, token.ParseAnonymousJWT(jwtSecret, tampered, &out))
}

func TestParseAnonymousJWT_Garbage(t *testing.T) {
	var out jwtPayload
	assert.False(t, token.ParseAnonymousJWT(jwtSecret, "not.a.jwt", &out))
	assert.False(t, token.ParseAnonymousJWT(jwtSecret, "", &out))
}

func TestSecretFromEnv_Production(t *testing.T) {
	t.Run("missing secret fails", func(t *testing.T) {
		t.Setenv(token.EnvSecretKey, "")
		t.Setenv(token.EnvLegacySecretKey, "")

		_, err := token.SecretFromEnv(true)
		assert.ErrorIs(t, err, token.ErrSecretMissing)
	})

	t.Run("legacy name fails with rename hint", func(t *testing.T) {
		t.Setenv(token.EnvSecretKey, "")
		t.Setenv(token.EnvLegacySecretKey, "0123456789abcdef0123456789abcdef")

		_, err := token.SecretFromEnv(true)
		assert.ErrorIs(t, err, token.ErrSecretRenamed)
	})

	t.Run("short secret fails", func(t *testing.T) {
		t.Setenv(token.EnvSecretKey, "too-short")

		_, err := token.SecretFromEnv(true)
		assert.ErrorIs(t, err, token.ErrSecretTooShort)
	})

	t.Run("valid secret", func(t *testing.T) {
		t.Setenv(token.EnvSecretKey, "0123456789abcdef0123456789abcdef")

		secret, err := token.SecretFromEnv(true)
		require.NoError(t, err)
		assert.Equal(t, []byte("0123456789abcdef0123456789abcdef"), secret)
	})
}

func TestSecretFromEnv_Development(t *testing.T) {
	t.Setenv(token.EnvSecretKey, "")

	secret, err := token.SecretFromEnv(false)
	require.NoError(t, err)
	assert.NotEmpty(t, secret)
}
