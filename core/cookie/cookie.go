package cookie

import (
	"net"
	"net/http"
	"strings"
	"time"
)

// Base names of the cookies the session core writes. Writer prepends its
// configured prefix to each.
const (
	SessionToken          = "sSessionToken"
	AnonymousSessionToken = "sAnonymousSessionToken"
	AntiCSRFToken         = "sAntiCsrfToken"
	PublicDataToken       = "sPublicDataToken"
	IDRefreshToken        = "sIdRefreshToken"
)

// Request and response signalling headers.
const (
	HeaderAntiCSRFToken  = "anti-csrf-token"
	HeaderCSRFError      = "anti-csrf-token-error"
	HeaderSessionCreated = "session-created"
	HeaderPublicData     = "public-data-token"
)

// Options is the uniform attribute set applied to every session cookie.
type Options struct {
	Prefix   string
	Domain   string
	Secure   bool
	SameSite http.SameSite
}

// Writer appends Set-Cookie directives and signalling headers to an outgoing
// header set. All cookies share the uniform attribute set; the secure flag is
// suppressed for localhost hosts so local development works over plain HTTP.
type Writer struct {
	header http.Header
	opts   Options
	secure bool
}

// NewWriter creates a Writer bound to the outgoing header set. host is the
// request's Host header, used for localhost detection.
func NewWriter(header http.Header, host string, opts Options) *Writer {
	return &Writer{
		header: header,
		opts:   opts,
		secure: opts.Secure && !isLocalhost(host),
	}
}

// Name resolves a base cookie name against the configured prefix.
func (w *Writer) Name(base string) string {
	return w.opts.Prefix + base
}

// SetSessionCookie writes the authenticated opaque-token cookie.
func (w *Writer) SetSessionCookie(value string, expires time.Time) {
	w.append(w.cookie(SessionToken, value, expires, true))
}

// SetAnonymousSessionCookie writes the anonymous JWT cookie, replacing any
// value set earlier in this response.
func (w *Writer) SetAnonymousSessionCookie(value string, expires time.Time) {
	w.replace(w.cookie(AnonymousSessionToken, value, expires, true))
}

// SetCSRFCookie writes the anti-CSRF double-submit cookie, replacing any value
// set earlier in this response. The cookie stays readable by client scripts so
// they can echo it back in the anti-csrf-token header.
func (w *Writer) SetCSRFCookie(value string, expires time.Time) {
	w.replace(w.cookie(AntiCSRFToken, value, expires, false))
}

// SetPublicDataCookie writes the client-readable public-data mirror, replacing
// any value set earlier in this response, and signals the update via the
// public-data-token header.
func (w *Writer) SetPublicDataCookie(value string, expires time.Time) {
	w.replace(w.cookie(PublicDataToken, value, expires, false))
	w.header.Set(HeaderPublicData, "updated")
}

// ClearSessionCookie expires the authenticated session cookie.
func (w *Writer) ClearSessionCookie() {
	w.replace(w.cookie(SessionToken, "", time.Unix(0, 0), true))
}

// ClearAnonymousSessionCookie expires the anonymous session cookie.
func (w *Writer) ClearAnonymousSessionCookie() {
	w.replace(w.cookie(AnonymousSessionToken, "", time.Unix(0, 0), true))
}

// SetSessionCreated signals that a new session was minted in this response.
func (w *Writer) SetSessionCreated() {
	w.header.Set(HeaderSessionCreated, "true")
}

// SetCSRFError signals an anti-CSRF token mismatch.
func (w *Writer) SetCSRFError() {
	w.header.Set(HeaderCSRFError, "true")
}

func (w *Writer) cookie(base, value string, expires time.Time, httpOnly bool) *http.Cookie {
	return &http.Cookie{
		Name:     w.Name(base),
		Value:    value,
		Path:     "/",
		Domain:   w.opts.Domain,
		Expires:  expires,
		Secure:   w.secure,
		HttpOnly: httpOnly,
		SameSite: w.opts.SameSite,
	}
}

// append adds the cookie without deduplication.
func (w *Writer) append(c *http.Cookie) {
	w.header.Add("Set-Cookie", c.String())
}

// replace removes any Set-Cookie directive for the same name before
// appending, guaranteeing exactly one value per cookie in the response.
func (w *Writer) replace(c *http.Cookie) {
	existing := w.header.Values("Set-Cookie")
	if len(existing) > 0 {
		kept := existing[:0]
		prefix := c.Name + "="
		for _, line := range existing {
			if !strings.HasPrefix(line, prefix) {
				kept = append(kept, line)
			}
		}
		w.header["Set-Cookie"] = kept
	}
	w.append(c)
}

// isLocalhost reports whether the request host resolves to a local loopback
// name, so the secure flag can be dropped during development.
func isLocalhost(host string) bool {
	if h, _, err := net.SplitHostPort(host); err == nil {
		host = h
	}
	host = strings.TrimSuffix(strings.ToLower(host), ".")
	return host == "localhost" || host == "127.0.0.1" || host == "::1" || host == "[::1]" ||
		strings.HasSuffix(host, ".localhost")
}
