package session

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/LeonMueller-OneAndOnly/blitz/core/cookie"
	"github.com/LeonMueller-OneAndOnly/blitz/core/logger"
	"github.com/LeonMueller-OneAndOnly/blitz/core/token"
)

// anonymousRefreshExpiry is the cookie lifetime applied when an anonymous
// session is refreshed in place.
const anonymousRefreshExpiry = 30 * 365 * 24 * time.Hour

func newHandle(typeTag string) (string, error) {
	t, err := token.NewRandomToken(token.DefaultLength)
	if err != nil {
		return "", err
	}
	return t + "-" + typeTag, nil
}

// createAnonymousSession mints a fresh anonymous kernel and writes its cookie
// set. Anonymous sessions have no store record until private data is attached.
func (m *Manager) createAnonymousSession(w *cookie.Writer) (*kernel, error) {
	handle, err := newHandle(handleTypeAnonymous)
	if err != nil {
		return nil, err
	}
	antiCSRF, err := token.NewRandomToken(token.DefaultLength)
	if err != nil {
		return nil, err
	}

	publicData := PublicData{PublicDataUserIDKey: nil}
	payload := AnonymousSessionPayload{
		IsAnonymous:   true,
		Handle:        handle,
		PublicData:    publicData,
		AntiCSRFToken: antiCSRF,
	}

	jwtToken, err := token.NewAnonymousJWT(m.secret, payload)
	if err != nil {
		return nil, err
	}

	publicDataJSON, err := publicData.JSON()
	if err != nil {
		return nil, err
	}

	expires := time.Now().Add(m.cfg.anonSessionExpiry())
	w.SetAnonymousSessionCookie(jwtToken, expires)
	w.SetCSRFCookie(antiCSRF, expires)
	w.SetPublicDataCookie(token.NewPublicDataToken(publicDataJSON), expires)
	w.ClearSessionCookie()
	w.SetSessionCreated()

	m.log.Debug("created anonymous session",
		logger.Component("session"), logger.Event("session_created"), logger.Handle(handle))

	return &kernel{
		handle:                handle,
		publicData:            publicData,
		jwtPayload:            &payload,
		antiCSRFToken:         antiCSRF,
		anonymousSessionToken: jwtToken,
	}, nil
}

// createAuthenticatedSession promotes prev (usually an anonymous kernel) into
// a fresh authenticated session. Public data from an anonymous predecessor is
// merged under the new data; private data attached to the predecessor's
// record is carried forward, merged under the provided private data, and the
// predecessor's record is deleted.
func (m *Manager) createAuthenticatedSession(ctx context.Context, w *cookie.Writer, prev *kernel, publicData PublicData, privateData PrivateData) (*kernel, error) {
	switch m.cfg.Method {
	case MethodEssential:
	case MethodAdvanced:
		return nil, ErrNotImplemented
	default:
		return nil, fmt.Errorf("%w: unknown method %q", ErrInvalidConfig, m.cfg.Method)
	}

	if publicData.UserID() == nil {
		return nil, fmt.Errorf("%w: userId is required to create an authenticated session", ErrInvalidPublicData)
	}
	if err := publicData.Validate(); err != nil {
		return nil, err
	}

	// New data wins over whatever the anonymous payload carried.
	merged := publicData
	if prev != nil && prev.IsAnonymous() {
		merged = prev.jwtPayload.PublicData.Merge(publicData)
	}

	newPrivate := PrivateData{}
	if prev != nil && prev.IsAnonymous() {
		rec, err := m.store.Get(ctx, prev.handle)
		switch {
		case err == nil:
			carried, perr := ParsePrivateData(rec.PrivateData)
			if perr != nil {
				m.log.Warn("dropping unparseable private data during promotion",
					logger.Component("session"), logger.Handle(prev.handle), logger.Error(perr))
			} else {
				newPrivate = carried
			}
			if derr := m.store.Delete(ctx, prev.handle); derr != nil && !errors.Is(derr, ErrNotFound) {
				m.log.Debug("failed to delete anonymous session record during promotion",
					logger.Component("session"), logger.Handle(prev.handle), logger.Error(derr))
			}
		case errors.Is(err, ErrNotFound):
			// Anonymous sessions without private data have no record.
		default:
			return nil, errors.Join(ErrStore, err)
		}
	}
	newPrivate = newPrivate.Merge(privateData)

	handle, err := newHandle(handleTypeEssential)
	if err != nil {
		return nil, err
	}
	antiCSRF, err := token.NewRandomToken(token.DefaultLength)
	if err != nil {
		return nil, err
	}

	publicDataJSON, err := merged.JSON()
	if err != nil {
		return nil, err
	}
	privateDataJSON, err := newPrivate.JSON()
	if err != nil {
		return nil, err
	}

	sessionToken, err := token.NewSessionToken(handle, publicDataJSON)
	if err != nil {
		return nil, err
	}

	now := time.Now()
	expiresAt := now.Add(m.cfg.sessionExpiry())

	rec := &Record{
		Handle:             handle,
		UserID:             userIDKey(merged.UserID()),
		ExpiresAt:          &expiresAt,
		HashedSessionToken: token.SHA256Hex(sessionToken),
		AntiCSRFToken:      antiCSRF,
		PublicData:         publicDataJSON,
		PrivateData:        privateDataJSON,
		CreatedAt:          now,
		UpdatedAt:          now,
	}
	if err := m.store.Create(ctx, rec); err != nil {
		return nil, errors.Join(ErrStore, err)
	}

	w.SetSessionCookie(sessionToken, expiresAt)
	w.SetCSRFCookie(antiCSRF, expiresAt)
	w.SetPublicDataCookie(token.NewPublicDataToken(publicDataJSON), expiresAt)
	w.ClearAnonymousSessionCookie()
	w.SetSessionCreated()

	m.log.Debug("created authenticated session",
		logger.Component("session"), logger.Event("session_created"),
		logger.Handle(handle), logger.UserID(merged.UserID()))

	return &kernel{
		handle:        handle,
		publicData:    merged,
		antiCSRFToken: antiCSRF,
		sessionToken:  sessionToken,
	}, nil
}

// refreshSession renews a session in place. Anonymous kernels get a freshly
// minted JWT and long-lived cookies; authenticated kernels get their stored
// expiry advanced, plus a public data rewrite when it changed. The opaque
// session token is deliberately not rotated here, so a refresh never emits a
// new session cookie.
func (m *Manager) refreshSession(ctx context.Context, w *cookie.Writer, k *kernel, publicDataChanged bool) error {
	publicDataJSON, err := k.publicData.JSON()
	if err != nil {
		return err
	}

	if k.IsAnonymous() {
		payload := *k.jwtPayload
		payload.PublicData = k.publicData

		jwtToken, err := token.NewAnonymousJWT(m.secret, payload)
		if err != nil {
			return err
		}
		k.jwtPayload = &payload
		k.anonymousSessionToken = jwtToken

		expires := time.Now().Add(anonymousRefreshExpiry)
		w.SetAnonymousSessionCookie(jwtToken, expires)
		w.SetPublicDataCookie(token.NewPublicDataToken(publicDataJSON), expires)
		return nil
	}

	expiresAt := time.Now().Add(m.cfg.sessionExpiry())
	patch := RecordPatch{ExpiresAt: &expiresAt}

	if publicDataChanged {
		patch.PublicData = &publicDataJSON
		w.SetPublicDataCookie(token.NewPublicDataToken(publicDataJSON), expiresAt)
	}

	if err := m.store.Update(ctx, k.handle, patch); err != nil {
		return errors.Join(ErrStore, err)
	}
	return nil
}

// revokeSession deletes the session record and synthesizes a replacement
// anonymous session in the same response. Minting the replacement here, and
// not lazily on the next request, keeps parallel client queries after a
// logout from each receiving a distinct anonymous cookie.
func (m *Manager) revokeSession(ctx context.Context, w *cookie.Writer, handle string) (*kernel, error) {
	if err := m.store.Delete(ctx, handle); err != nil && !errors.Is(err, ErrNotFound) {
		m.log.Debug("failed to delete session record during revoke",
			logger.Component("session"), logger.Handle(handle), logger.Error(err))
	}

	m.log.Debug("revoked session",
		logger.Component("session"), logger.Event("session_revoked"), logger.Handle(handle))

	return m.createAnonymousSession(w)
}

// revokeAllSessionsForUser deletes every session record owned by the user and
// returns the affected handles. Individual delete failures are swallowed.
func (m *Manager) revokeAllSessionsForUser(ctx context.Context, userID string) ([]string, error) {
	recs, err := m.store.GetByUserID(ctx, userID)
	if err != nil {
		return nil, errors.Join(ErrStore, err)
	}

	handles := make([]string, 0, len(recs))
	for _, rec := range recs {
		if err := m.store.Delete(ctx, rec.Handle); err != nil && !errors.Is(err, ErrNotFound) {
			m.log.Debug("failed to delete session record during revoke-all",
				logger.Component("session"), logger.Handle(rec.Handle), logger.Error(err))
		}
		handles = append(handles, rec.Handle)
	}
	return handles, nil
}
