package token

import (
	"encoding/json"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
)

const (
	// JWTIssuer is the issuer and audience of anonymous session tokens.
	JWTIssuer = "blitzjs"

	// JWTSubject is the subject claim of anonymous session tokens.
	JWTSubject = "anonymous"

	// jwtNamespace is the claim key the session payload lives under.
	jwtNamespace = "blitzjs"
)

// anonymousClaims carries the namespaced session payload next to the
// registered claims. The payload stays opaque to this package; the session
// core owns its shape.
type anonymousClaims struct {
	jwt.RegisteredClaims
	Payload json.RawMessage `json:"blitzjs"`
}

// NewAnonymousJWT mints an HS256-signed JWT carrying payload under the
// "blitzjs" namespace claim. Anonymous tokens carry no exp claim; their
// lifetime is governed by the cookie that transports them.
func NewAnonymousJWT(secret []byte, payload any) (string, error) {
	body, err := json.Marshal(payload)
	if err != nil {
		return "", err
	}

	claims := anonymousClaims{
		RegisteredClaims: jwt.RegisteredClaims{
			ID:       uuid.NewString(),
			Issuer:   JWTIssuer,
			Audience: jwt.ClaimStrings{JWTIssuer},
			Subject:  JWTSubject,
			IssuedAt: jwt.NewNumericDate(time.Now()),
		},
		Payload: body,
	}

	return jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(secret)
}

// ParseAnonymousJWT verifies tok and unmarshals the namespaced payload into
// out. It reports whether the token was valid; any signature, algorithm, or
// claim mismatch yields false, never an error.
func ParseAnonymousJWT(secret []byte, tok string, out any) bool {
	var claims anonymousClaims

	parsed, err := jwt.ParseWithClaims(tok, &claims, func(t *jwt.Token) (any, error) {
		return secret, nil
	},
		jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}),
		jwt.WithIssuer(JWTIssuer),
		jwt.WithAudience(JWTIssuer),
		jwt.WithSubject(JWTSubject),
	)
	if err != nil || !parsed.Valid {
		return false
	}

	if len(claims.Payload) == 0 {
		return false
	}
	return json.Unmarshal(claims.Payload, out) == nil
}
