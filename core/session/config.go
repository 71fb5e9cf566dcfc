package session

import (
	"net/http"
	"time"
)

// Session methods. Essential is the opaque-token scheme implemented here;
// advanced (rotating refresh tokens) is accepted in configuration, creating
// an authenticated session under it returns ErrNotImplemented, and an
// incoming refresh-token cookie resolves to no session.
const (
	MethodEssential = "essential"
	MethodAdvanced  = "advanced"
)

// Config holds the session core configuration. Construct it at startup,
// either from the environment via config.Load or literally, and pass it into
// New; it is read-only afterwards.
type Config struct {
	// Method selects the credential scheme for authenticated sessions.
	Method string `env:"SESSION_METHOD" envDefault:"essential"`

	// SessionExpiryMinutes is the rolling lifetime of authenticated
	// sessions. Default 30 days.
	SessionExpiryMinutes int `env:"SESSION_EXPIRY_MINUTES" envDefault:"43200"`

	// AnonSessionExpiryMinutes is the cookie lifetime of fresh anonymous
	// sessions. Default 5 years.
	AnonSessionExpiryMinutes int `env:"ANON_SESSION_EXPIRY_MINUTES" envDefault:"2628000"`

	// CookiePrefix namespaces every session cookie name.
	CookiePrefix string `env:"SESSION_COOKIE_PREFIX" envDefault:""`

	// SecureCookies marks cookies Secure except on localhost hosts.
	SecureCookies bool `env:"SESSION_SECURE_COOKIES" envDefault:"true"`

	// SameSite is the SameSite attribute for every session cookie.
	SameSite http.SameSite `env:"SESSION_SAME_SITE" envDefault:"2"` // SameSiteLaxMode

	// CookieDomain is the Domain attribute for every session cookie.
	CookieDomain string `env:"SESSION_COOKIE_DOMAIN" envDefault:""`

	// PublicDataKeysToSyncAcrossSessions lists public data keys that are
	// propagated to every session of a user on SetPublicData.
	PublicDataKeysToSyncAcrossSessions []string `env:"SESSION_PUBLIC_DATA_KEYS_TO_SYNC" envDefault:"role,roles"`

	// Environment toggles the strict production secret policy.
	Environment string `env:"APP_ENV" envDefault:"development"`

	// DisableCSRFProtection turns off the anti-CSRF double-submit check.
	// Any value other than empty, "false", or "0" disables the check.
	DisableCSRFProtection string `env:"DANGEROUSLY_DISABLE_CSRF_PROTECTION" envDefault:""`
}

func (c Config) production() bool {
	return c.Environment == "production"
}

func (c Config) sessionExpiry() time.Duration {
	return time.Duration(c.SessionExpiryMinutes) * time.Minute
}

func (c Config) anonSessionExpiry() time.Duration {
	return time.Duration(c.AnonSessionExpiryMinutes) * time.Minute
}

func (c Config) csrfDisabled() bool {
	switch c.DisableCSRFProtection {
	case "", "false", "0":
		return false
	}
	return true
}
