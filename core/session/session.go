package session

import (
	"context"
	"errors"
	"time"

	"github.com/LeonMueller-OneAndOnly/blitz/core/cookie"
	"github.com/LeonMueller-OneAndOnly/blitz/core/logger"
)

// Session is the per-request façade application handlers work with. It wraps
// the resolved kernel and turns mutations into store writes and cookie
// rewrites on the outgoing response.
//
// A Session is bound to a single request and is not safe for concurrent use
// by multiple goroutines.
type Session struct {
	manager *Manager
	writer  *cookie.Writer
	kernel  *kernel
}

// Handle returns the opaque session handle.
func (s *Session) Handle() string {
	return s.kernel.handle
}

// UserID returns publicData.userId, nil for anonymous sessions.
func (s *Session) UserID() any {
	return s.kernel.publicData.UserID()
}

// IsAuthenticated reports whether the session belongs to a user.
func (s *Session) IsAuthenticated() bool {
	return s.UserID() != nil
}

// PublicData returns the current public data view, server-authoritative as of
// the last resolve or refresh. The returned map is a copy.
func (s *Session) PublicData() PublicData {
	return s.kernel.publicData.Clone()
}

// Get reads a single public data key.
func (s *Session) Get(key string) any {
	return s.kernel.publicData[key]
}

// IsAuthorized reports whether the configured authorizer grants the requested
// capability. Anonymous sessions are never authorized.
func (s *Session) IsAuthorized(ctx context.Context, args ...any) bool {
	if !s.IsAuthenticated() {
		return false
	}
	return s.manager.auth.IsAuthorized(ctx, s, args...)
}

// Authorize fails with ErrAuthentication for anonymous sessions and with
// ErrAuthorization when the configured authorizer denies the capability.
func (s *Session) Authorize(ctx context.Context, args ...any) error {
	if !s.IsAuthenticated() {
		return ErrAuthentication
	}
	if !s.manager.auth.IsAuthorized(ctx, s, args...) {
		return ErrAuthorization
	}
	return nil
}

// Create promotes the session to an authenticated one (or rotates the
// identity of an already authenticated session). Public data from an
// anonymous predecessor is merged under publicData; private data attached to
// its record is carried forward and the record deleted. privateData may be
// nil.
func (s *Session) Create(ctx context.Context, publicData PublicData, privateData PrivateData) error {
	k, err := s.manager.createAuthenticatedSession(ctx, s.writer, s.kernel, publicData, privateData)
	if err != nil {
		return err
	}
	s.kernel = k
	return nil
}

// Revoke deletes the session's record; a fresh anonymous session takes its
// place in the same response.
func (s *Session) Revoke(ctx context.Context) error {
	k, err := s.manager.revokeSession(ctx, s.writer, s.kernel.handle)
	if err != nil {
		return err
	}
	s.kernel = k
	return nil
}

// RevokeAll revokes the current session and then every other session owned by
// the same user.
func (s *Session) RevokeAll(ctx context.Context) error {
	userID := userIDKey(s.UserID())

	if err := s.Revoke(ctx); err != nil {
		return err
	}

	if userID == "" {
		return nil
	}
	_, err := s.manager.revokeAllSessionsForUser(ctx, userID)
	return err
}

// SetPublicData merges data into the session's public data. The userId key is
// silently dropped; identity changes go through Create. For authenticated
// sessions the configured sync keys are propagated to the user's other
// sessions, the record is persisted, and the public-data cookie refreshed.
func (s *Session) SetPublicData(ctx context.Context, data PublicData) error {
	data = data.Clone()
	delete(data, PublicDataUserIDKey)

	merged := s.kernel.publicData.Merge(data)
	if err := merged.Validate(); err != nil {
		return err
	}

	if s.IsAuthenticated() {
		if err := s.manager.syncPublicDataAcrossSessions(ctx, userIDKey(s.UserID()), data); err != nil {
			return err
		}
	}

	s.kernel.publicData = merged
	return s.manager.refreshSession(ctx, s.writer, s.kernel, true)
}

// PrivateData returns the session's server-side private data. Sessions
// without a record yield an empty map.
func (s *Session) PrivateData(ctx context.Context) (PrivateData, error) {
	rec, err := s.manager.store.Get(ctx, s.kernel.handle)
	if errors.Is(err, ErrNotFound) {
		return PrivateData{}, nil
	}
	if err != nil {
		return nil, errors.Join(ErrStore, err)
	}
	return ParsePrivateData(rec.PrivateData)
}

// SetPrivateData merges data into the session's private data. Anonymous
// sessions that have no record yet get one created lazily, so a cart can be
// attached before the user ever signs in.
func (s *Session) SetPrivateData(ctx context.Context, data PrivateData) error {
	existing, err := s.PrivateData(ctx)
	if err != nil {
		return err
	}

	mergedJSON, err := existing.Merge(data).JSON()
	if err != nil {
		return err
	}

	err = s.manager.store.Update(ctx, s.kernel.handle, RecordPatch{PrivateData: &mergedJSON})
	if errors.Is(err, ErrNotFound) {
		return s.createRecordForPrivateData(ctx, mergedJSON)
	}
	if err != nil {
		return errors.Join(ErrStore, err)
	}
	return nil
}

// createRecordForPrivateData lazily persists an anonymous session the first
// time private data is attached to it.
func (s *Session) createRecordForPrivateData(ctx context.Context, privateDataJSON string) error {
	publicDataJSON, err := s.kernel.publicData.JSON()
	if err != nil {
		return err
	}

	now := time.Now()
	expiresAt := now.Add(s.manager.cfg.anonSessionExpiry())

	rec := &Record{
		Handle:        s.kernel.handle,
		UserID:        userIDKey(s.UserID()),
		ExpiresAt:     &expiresAt,
		AntiCSRFToken: s.kernel.antiCSRFToken,
		PublicData:    publicDataJSON,
		PrivateData:   privateDataJSON,
		CreatedAt:     now,
		UpdatedAt:     now,
	}
	if err := s.manager.store.Create(ctx, rec); err != nil {
		return errors.Join(ErrStore, err)
	}

	s.manager.log.Debug("lazily created record for anonymous session",
		logger.Component("session"), logger.Handle(s.kernel.handle))
	return nil
}

// AntiCSRFToken exposes the session's double-submit token, e.g. for embedding
// into server-rendered forms.
func (s *Session) AntiCSRFToken() string {
	return s.kernel.antiCSRFToken
}

// SessionToken returns the opaque credential for authenticated sessions, or
// the anonymous JWT otherwise. Exposed for transports that deliver the
// credential outside the cookie channel.
func (s *Session) SessionToken() string {
	if s.kernel.IsAnonymous() {
		return s.kernel.anonymousSessionToken
	}
	return s.kernel.sessionToken
}
