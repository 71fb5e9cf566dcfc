package session

import (
	"context"
	"time"
)

// Record is the persisted form of a session.
type Record struct {
	// Handle is the primary key, of the form "<opaque32>-<typeTag>".
	Handle string

	// UserID is the canonical string form of the owning user's identifier,
	// empty for anonymous sessions.
	UserID string

	// ExpiresAt is the UTC instant after which the record is treated as
	// absent. Nil means no expiry.
	ExpiresAt *time.Time

	// HashedSessionToken is the SHA-256 hex of the opaque session token.
	// Only populated for authenticated sessions.
	HashedSessionToken string

	// AntiCSRFToken is the double-submit token mirrored in the CSRF cookie.
	AntiCSRFToken string

	// PublicData and PrivateData are JSON-encoded blobs. The stored public
	// data is authoritative; the client cookie may lag by one request.
	PublicData  string
	PrivateData string

	CreatedAt time.Time
	UpdatedAt time.Time
}

// Expired reports whether the record's expiry has passed.
func (r *Record) Expired(now time.Time) bool {
	return r.ExpiresAt != nil && r.ExpiresAt.Before(now)
}

// RecordPatch is a partial update of a session record. Nil fields are left
// untouched.
type RecordPatch struct {
	ExpiresAt   *time.Time
	PublicData  *string
	PrivateData *string
}

// Store defines the persistence contract for session records.
// Implementations must handle concurrent access safely; conflicting updates
// resolve last-writer-wins.
type Store interface {
	// Get returns the record for a handle, or ErrNotFound.
	Get(ctx context.Context, handle string) (*Record, error)

	// GetByUserID returns every record owned by the given user.
	GetByUserID(ctx context.Context, userID string) ([]*Record, error)

	// Create persists a new record. Implementations treat it as an upsert
	// keyed on Handle: the core calls it speculatively when attaching
	// private data to anonymous sessions.
	Create(ctx context.Context, rec *Record) error

	// Update applies a patch to an existing record, or returns ErrNotFound.
	Update(ctx context.Context, handle string, patch RecordPatch) error

	// Delete removes a record, or returns ErrNotFound. Callers on revoke
	// paths swallow the error.
	Delete(ctx context.Context, handle string) error
}
