// Package token implements the credential codecs used by the session core:
// random token generation, opaque session tokens, anonymous JWTs, and the
// client-readable public-data token.
//
// An opaque session token is the base64 encoding of
// "handle;nonce;sha256(publicData);v0". The embedded public-data fingerprint
// lets the resolver detect stale client state without an extra store read.
//
// Anonymous sessions are carried in an HS256 JWT whose payload lives under
// the "blitzjs" namespace claim, with issuer and audience "blitzjs" and
// subject "anonymous".
package token
