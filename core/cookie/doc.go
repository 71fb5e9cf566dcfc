// Package cookie writes the session cookie set and its signalling headers.
//
// All cookies share a uniform attribute set (path, domain, SameSite, secure)
// configured once per request; the secure flag is suppressed on localhost
// hosts so development setups work over plain HTTP. Cookie names are
// namespaced through a configurable prefix.
//
// Replacing setters guarantee at most one Set-Cookie directive per name in a
// response, and clearing writes an empty value expiring at the epoch. State
// transitions are additionally signalled through the session-created,
// public-data-token, and anti-csrf-token-error response headers, which client
// runtimes watch to refresh their local session caches.
package cookie
