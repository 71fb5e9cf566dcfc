package middleware

import (
	"errors"
	"log/slog"
	"net/http"

	"github.com/LeonMueller-OneAndOnly/blitz/core/logger"
	"github.com/LeonMueller-OneAndOnly/blitz/core/session"
)

// SessionConfig configures the session middleware.
type SessionConfig struct {
	// Skip defines a function to skip middleware execution for specific
	// requests, e.g. health checks.
	Skip func(r *http.Request) bool

	// Logger for structured logging (default: discard).
	Logger *slog.Logger

	// RequireAuth rejects anonymous sessions through the ErrorHandler.
	RequireAuth bool

	// ErrorHandler renders resolution and authentication failures.
	// Default: plain-text http.Error with a status derived from the error.
	ErrorHandler func(w http.ResponseWriter, r *http.Request, err error)
}

// Session creates middleware that resolves the request's session exactly once
// and stores it in the request context for handlers to pick up via
// session.FromContext.
func Session(m *session.Manager) func(http.Handler) http.Handler {
	return SessionWithConfig(m, SessionConfig{})
}

// SessionWithConfig creates a session middleware with custom configuration.
//
// The middleware resolves the session through manager.GetSession: malformed
// or stale credentials degrade to a fresh anonymous session, while CSRF
// mismatches and store failures go to the ErrorHandler. With RequireAuth set,
// anonymous sessions are rejected as well.
func SessionWithConfig(m *session.Manager, cfg SessionConfig) func(http.Handler) http.Handler {
	log := cfg.Logger
	if log == nil {
		log = logger.Discard()
	}

	errorHandler := cfg.ErrorHandler
	if errorHandler == nil {
		errorHandler = defaultSessionErrorHandler
	}

	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if cfg.Skip != nil && cfg.Skip(r) {
				next.ServeHTTP(w, r)
				return
			}

			sess, err := m.GetSession(w, r)
			if err != nil {
				log.Debug("session resolution failed",
					logger.Component("middleware"), logger.Method(r.Method), logger.Error(err))
				errorHandler(w, r, err)
				return
			}

			if cfg.RequireAuth && !sess.IsAuthenticated() {
				errorHandler(w, r, session.ErrAuthentication)
				return
			}

			next.ServeHTTP(w, r.WithContext(session.NewContext(r.Context(), sess)))
		})
	}
}

func defaultSessionErrorHandler(w http.ResponseWriter, _ *http.Request, err error) {
	switch {
	case errors.Is(err, session.ErrCSRFTokenMismatch):
		http.Error(w, err.Error(), http.StatusForbidden)
	case errors.Is(err, session.ErrAuthentication):
		http.Error(w, err.Error(), http.StatusUnauthorized)
	case errors.Is(err, session.ErrAuthorization):
		http.Error(w, err.Error(), http.StatusForbidden)
	default:
		http.Error(w, "internal server error", http.StatusInternalServerError)
	}
}
