package middleware_test

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/LeonMueller-OneAndOnly/blitz/core/cookie"
	"github.com/LeonMueller-OneAndOnly/blitz/core/session"
	"github.com/LeonMueller-OneAndOnly/blitz/middleware"
)

var testSecret = []byte("test-secret-0123456789abcdef0123")

func newManager(t *testing.T) *session.Manager {
	t.Helper()
	m, err := session.New(session.NewMemoryStore(), session.Config{
		Method:                   session.MethodEssential,
		SessionExpiryMinutes:     60,
		AnonSessionExpiryMinutes: 5,
		Environment:              "test",
	}, session.WithSecret(testSecret))
	require.NoError(t, err)
	return m
}

func TestSession_InjectsContext(t *testing.T) {
	m := newManager(t)

	var seen *session.Session
	handler := middleware.Session(m)(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		sess, ok := session.FromContext(r.Context())
		require.True(t, ok)
		seen = sess
		w.WriteHeader(http.StatusOK)
	}))

	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "http://example.com/", nil))

	assert.Equal(t, http.StatusOK, rec.Code)
	require.NotNil(t, seen)
	assert.Nil(t, seen.UserID())
	assert.Equal(t, "true", rec.Result().Header.Get(cookie.HeaderSessionCreated))
	assert.NotEmpty(t, rec.Result().Cookies())
}

func TestSession_ResolvesOncePerRequest(t *testing.T) {
	m := newManager(t)

	handler := middleware.Session(m)(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		first, _ := session.FromContext(r.Context())
		again, err := m.GetSession(w, r)
		require.NoError(t, err)
		assert.Same(t, first, again)
	}))

	handler.ServeHTTP(httptest.NewRecorder(), httptest.NewRequest(http.MethodGet, "http://example.com/", nil))
}

func TestSession_CSRFMismatchForbidden(t *testing.T) {
	m := newManager(t)

	// Obtain an anonymous cookie set first.
	seed := httptest.NewRecorder()
	_, err := m.GetSession(seed, httptest.NewRequest(http.MethodGet, "http://example.com/", nil))
	require.NoError(t, err)

	handler := middleware.Session(m)(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		t.Fatal("handler must not run on CSRF failure")
	}))

	r := httptest.NewRequest(http.MethodPost, "http://example.com/", nil)
	for _, c := range seed.Result().Cookies() {
		if c.Value != "" {
			r.AddCookie(&http.Cookie{Name: c.Name, Value: c.Value})
		}
	}
	r.Header.Set(cookie.HeaderAntiCSRFToken, "wrong")

	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, r)

	assert.Equal(t, http.StatusForbidden, rec.Code)
	assert.Equal(t, "true", rec.Result().Header.Get(cookie.HeaderCSRFError))
}

func TestSession_RequireAuth(t *testing.T) {
	m := newManager(t)

	handler := middleware.SessionWithConfig(m, middleware.SessionConfig{RequireAuth: true})(
		http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			t.Fatal("handler must not run for anonymous sessions")
		}))

	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "http://example.com/", nil))

	assert.Equal(t, http.StatusUnauthorized, rec.Code)
}

func TestSession_Skip(t *testing.T) {
	m := newManager(t)

	handler := middleware.SessionWithConfig(m, middleware.SessionConfig{
		Skip: func(r *http.Request) bool { return r.URL.Path == "/health" },
	})(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_, ok := session.FromContext(r.Context())
		assert.False(t, ok)
		w.WriteHeader(http.StatusOK)
	}))

	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "http://example.com/health", nil))

	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Empty(t, rec.Result().Cookies())
}

func TestSession_CustomErrorHandler(t *testing.T) {
	m := newManager(t)

	handler := middleware.SessionWithConfig(m, middleware.SessionConfig{
		RequireAuth: true,
		ErrorHandler: func(w http.ResponseWriter, r *http.Request, err error) {
			assert.ErrorIs(t, err, session.ErrAuthentication)
			http.Redirect(w, r, "/login", http.StatusFound)
		},
	})(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {}))

	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "http://example.com/", nil))

	assert.Equal(t, http.StatusFound, rec.Code)
	assert.Equal(t, "/login", rec.Result().Header.Get("Location"))
}
