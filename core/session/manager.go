package session

import (
	"context"
	"fmt"
	"log/slog"
	"net/http"

	"github.com/LeonMueller-OneAndOnly/blitz/core/cookie"
	"github.com/LeonMueller-OneAndOnly/blitz/core/logger"
	"github.com/LeonMueller-OneAndOnly/blitz/core/token"
)

// Manager resolves, creates, refreshes, and revokes sessions. It is safe for
// concurrent use; all per-request state lives in the Session values it hands
// out.
type Manager struct {
	store  Store
	cfg    Config
	secret []byte
	auth   Authorizer
	log    *slog.Logger
}

// Option configures a Manager.
type Option func(*Manager)

// WithLogger sets the structured debug logger. Default discards.
func WithLogger(log *slog.Logger) Option {
	return func(m *Manager) {
		if log != nil {
			m.log = log
		}
	}
}

// WithAuthorizer sets the predicate behind Session.Authorize and
// Session.IsAuthorized. Default is RoleAuthorizer.
func WithAuthorizer(auth Authorizer) Option {
	return func(m *Manager) {
		if auth != nil {
			m.auth = auth
		}
	}
}

// WithSecret overrides the signing secret resolved from the environment.
func WithSecret(secret []byte) Option {
	return func(m *Manager) {
		m.secret = secret
	}
}

// New creates a session manager. The method must be essential or advanced;
// unless WithSecret is given, the signing secret is resolved from
// SESSION_SECRET_KEY under the configured environment's policy.
func New(store Store, cfg Config, opts ...Option) (*Manager, error) {
	switch cfg.Method {
	case MethodEssential, MethodAdvanced:
	default:
		return nil, fmt.Errorf("%w: unknown method %q", ErrInvalidConfig, cfg.Method)
	}

	m := &Manager{
		store: store,
		cfg:   cfg,
		auth:  RoleAuthorizer{},
		log:   logger.Discard(),
	}
	for _, opt := range opts {
		opt(m)
	}

	if m.secret == nil {
		secret, err := token.SecretFromEnv(cfg.production())
		if err != nil {
			return nil, fmt.Errorf("%w: %w", ErrInvalidConfig, err)
		}
		m.secret = secret
	}

	return m, nil
}

// GetSession resolves the request's session context, minting a fresh
// anonymous session when no valid credential is presented. Set-Cookie
// directives and signalling headers are written to w's header set, which the
// server flushes with the response.
//
// When the request passed through middleware.Session the previously resolved
// context is returned unchanged, making GetSession idempotent per request.
// CSRF mismatches and store failures propagate; malformed or stale
// credentials degrade to a fresh anonymous session.
func (m *Manager) GetSession(w http.ResponseWriter, r *http.Request) (*Session, error) {
	if s, ok := FromContext(r.Context()); ok {
		return s, nil
	}

	cw := m.cookieWriter(w.Header(), r.Host)

	k, err := m.resolve(cw, r)
	if err != nil {
		return nil, err
	}
	if k == nil {
		k, err = m.createAnonymousSession(cw)
		if err != nil {
			return nil, err
		}
	}

	return &Session{manager: m, writer: cw, kernel: k}, nil
}

func (m *Manager) cookieWriter(h http.Header, host string) *cookie.Writer {
	return cookie.NewWriter(h, host, cookie.Options{
		Prefix:   m.cfg.CookiePrefix,
		Domain:   m.cfg.CookieDomain,
		Secure:   m.cfg.SecureCookies,
		SameSite: m.cfg.SameSite,
	})
}

type sessionCtxKey struct{}

// NewContext returns a context carrying the resolved session.
func NewContext(ctx context.Context, s *Session) context.Context {
	return context.WithValue(ctx, sessionCtxKey{}, s)
}

// FromContext retrieves the session stored by middleware.Session.
func FromContext(ctx context.Context) (*Session, bool) {
	s, ok := ctx.Value(sessionCtxKey{}).(*Session)
	return s, ok
}
