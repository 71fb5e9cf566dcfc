package session

import (
	"errors"
	"log/slog"
	"net/http"
	"time"

	"github.com/LeonMueller-OneAndOnly/blitz/core/cookie"
	"github.com/LeonMueller-OneAndOnly/blitz/core/logger"
	"github.com/LeonMueller-OneAndOnly/blitz/core/token"
)

// csrfRequired reports whether the method is state-changing and therefore
// subject to the double-submit check.
func csrfRequired(method string) bool {
	switch method {
	case http.MethodGet, http.MethodHead, http.MethodOptions:
		return false
	}
	return true
}

// resolve derives the request's session kernel from its credentials, or nil
// when none of them yields a usable session. Malformed and stale credentials
// degrade to nil; CSRF mismatches and store failures are returned as errors.
// The CSRF check always precedes any store mutation or cookie emission that
// depends on the credential being valid.
func (m *Manager) resolve(w *cookie.Writer, r *http.Request) (*kernel, error) {
	enforceCSRF := csrfRequired(r.Method) && !m.cfg.csrfDisabled()
	antiCSRF := r.Header.Get(cookie.HeaderAntiCSRFToken)

	if c, err := r.Cookie(w.Name(cookie.SessionToken)); err == nil && c.Value != "" {
		return m.resolveEssential(r, w, c.Value, antiCSRF, enforceCSRF)
	}

	if c, err := r.Cookie(w.Name(cookie.IDRefreshToken)); err == nil && c.Value != "" {
		// Advanced method credential: recognized but unimplemented.
		m.log.Debug("ignoring refresh token cookie",
			logger.Component("session"), logger.Event("advanced_method_unimplemented"))
		return nil, nil
	}

	if c, err := r.Cookie(w.Name(cookie.AnonymousSessionToken)); err == nil && c.Value != "" {
		return m.resolveAnonymous(w, c.Value, antiCSRF, enforceCSRF)
	}

	return nil, nil
}

func (m *Manager) resolveEssential(r *http.Request, w *cookie.Writer, tok, antiCSRF string, enforceCSRF bool) (*kernel, error) {
	ctx := r.Context()

	parts, err := token.ParseSessionToken(tok)
	if err != nil {
		m.log.Debug("failed to parse session token",
			logger.Component("session"), logger.Error(err))
		return nil, nil
	}

	if parts.Version != token.Version0 {
		m.log.Debug("session token has unknown version",
			logger.Component("session"), slog.String("version", parts.Version))
		return nil, nil
	}

	rec, err := m.store.Get(ctx, parts.Handle)
	if errors.Is(err, ErrNotFound) {
		m.log.Debug("session record not found", logger.Component("session"), logger.Handle(parts.Handle))
		return nil, nil
	}
	if err != nil {
		return nil, errors.Join(ErrStore, err)
	}

	if token.SHA256Hex(tok) != rec.HashedSessionToken {
		m.log.Debug("session token hash mismatch", logger.Component("session"), logger.Handle(rec.Handle))
		return nil, nil
	}

	if rec.Expired(time.Now()) {
		m.log.Debug("session record expired", logger.Component("session"), logger.Handle(rec.Handle))
		return nil, nil
	}

	if enforceCSRF {
		if err := m.checkCSRF(w, antiCSRF, rec.AntiCSRFToken); err != nil {
			return nil, err
		}
	}

	publicData, err := ParsePublicData(rec.PublicData)
	if err != nil {
		m.log.Warn("session record carries unparseable public data",
			logger.Component("session"), logger.Handle(rec.Handle), logger.Error(err))
		return nil, nil
	}

	k := &kernel{
		handle:        rec.Handle,
		publicData:    publicData,
		antiCSRFToken: rec.AntiCSRFToken,
		sessionToken:  tok,
	}

	// Rolling refresh: non-GET requests renew the session when the stored
	// public data no longer matches the token's fingerprint, or once less
	// than three quarters of the lifetime remains.
	if r.Method != http.MethodGet {
		publicDataChanged := token.SHA256Hex(rec.PublicData) != parts.HashedPublicData
		renewalDue := rec.ExpiresAt != nil && time.Until(*rec.ExpiresAt) < 3*m.cfg.sessionExpiry()/4

		if publicDataChanged || renewalDue {
			m.log.Debug("refreshing session",
				logger.Component("session"), logger.Handle(rec.Handle),
				slog.Bool("public_data_changed", publicDataChanged))
			if err := m.refreshSession(ctx, w, k, publicDataChanged); err != nil {
				return nil, err
			}
		}
	}

	return k, nil
}

func (m *Manager) resolveAnonymous(w *cookie.Writer, tok, antiCSRF string, enforceCSRF bool) (*kernel, error) {
	var payload AnonymousSessionPayload
	if !token.ParseAnonymousJWT(m.secret, tok, &payload) {
		m.log.Debug("failed to verify anonymous session token", logger.Component("session"))
		return nil, nil
	}

	if enforceCSRF {
		if err := m.checkCSRF(w, antiCSRF, payload.AntiCSRFToken); err != nil {
			return nil, err
		}
	}

	publicData := payload.PublicData
	if publicData == nil {
		publicData = PublicData{PublicDataUserIDKey: nil}
	}

	return &kernel{
		handle:                payload.Handle,
		publicData:            publicData,
		jwtPayload:            &payload,
		antiCSRFToken:         payload.AntiCSRFToken,
		anonymousSessionToken: tok,
	}, nil
}

// checkCSRF fails the request when the presented header token does not match
// the expected one, signalling the mismatch via the anti-csrf-token-error
// header. A missing header is logged as a warning but still fails.
func (m *Manager) checkCSRF(w *cookie.Writer, presented, expected string) error {
	if presented == expected {
		return nil
	}
	if presented == "" {
		m.log.Warn("anti-csrf-token header missing on state-changing request",
			logger.Component("session"))
	} else {
		m.log.Debug("anti-csrf-token mismatch", logger.Component("session"))
	}
	w.SetCSRFError()
	return ErrCSRFTokenMismatch
}
