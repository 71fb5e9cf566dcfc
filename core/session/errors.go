package session

import "errors"

var (
	// ErrAuthentication is returned when an operation requires an
	// authenticated user but the session is anonymous.
	ErrAuthentication = errors.New("session: authentication required")

	// ErrAuthorization is returned when the user is authenticated but the
	// configured authorizer denies the requested capability.
	ErrAuthorization = errors.New("session: not authorized to perform this action")

	// ErrCSRFTokenMismatch is returned when a state-changing request presents
	// a missing or mismatched anti-csrf-token header.
	ErrCSRFTokenMismatch = errors.New("session: anti-csrf token mismatch")

	// ErrNotFound is returned by stores when no session record exists for a
	// handle. Delete paths swallow it.
	ErrNotFound = errors.New("session: session not found")

	// ErrStore wraps failures raised by the session store.
	ErrStore = errors.New("session: store operation failed")

	// ErrNotImplemented is returned when an authenticated session is created
	// under the advanced (rotating refresh token) session method.
	ErrNotImplemented = errors.New("session: the advanced session method is not implemented")

	// ErrInvalidConfig is returned for an unknown session method or an
	// unusable secret.
	ErrInvalidConfig = errors.New("session: invalid session configuration")

	// ErrInvalidPublicData is returned when public data violates its
	// invariants, e.g. a missing userId on create or both role and roles set.
	ErrInvalidPublicData = errors.New("session: invalid public data")
)
