package auth

import (
	"net/http"
	"time"

	"github.com/jrsteele09/go-session-gateway/internal/config"
)

// CookieOptions defines how session cookies are issued.
type CookieOptions struct {
	Name     string
	Secure   bool
	SameSite http.SameSite
}

// CookieAdapter maps session tokens to and from the session cookie.
// It performs no validation.
type CookieAdapter struct {
	opts CookieOptions
}

func NewCookieAdapter(opts CookieOptions) *CookieAdapter {
	return &CookieAdapter{opts: opts}
}

// CookieOptionsFromConfig builds cookie options from session configuration.
func CookieOptionsFromConfig(cfg config.SessionConfig) CookieOptions {
	return CookieOptions{
		Name:     cfg.GetSessionCookieName(),
		Secure:   cfg.GetCookieSecure(),
		SameSite: cfg.GetCookieSameSite(),
	}
}

func (a *CookieAdapter) Name() string {
	return a.opts.Name
}

// Read returns the raw session token, or false when the cookie is absent
// or empty.
func (a *CookieAdapter) Read(r *http.Request) (string, bool) {
	cookie, err := r.Cookie(a.opts.Name)
	if err != nil || cookie.Value == "" {
		return "", false
	}
	return cookie.Value, true
}

// Attach sets the session cookie on the response. The cookie is HttpOnly,
// scoped to the root path and expires with the token.
func (a *CookieAdapter) Attach(w http.ResponseWriter, token string, expiresAt time.Time) {
	maxAge := int(time.Until(expiresAt).Seconds())
	if maxAge <= 0 {
		maxAge = -1
	}

	http.SetCookie(w, &http.Cookie{
		Name:     a.opts.Name,
		Value:    token,
		Path:     "/",
		Expires:  expiresAt.UTC(),
		MaxAge:   maxAge,
		HttpOnly: true,
		Secure:   a.opts.Secure,
		SameSite: a.opts.SameSite,
	})
}
