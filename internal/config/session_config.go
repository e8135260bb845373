package config

import (
	"errors"
	"net/http"
	"strings"
	"time"
)

// devSessionSecret is only accepted when ENV=DEV.
const devSessionSecret = "my_super_secret_key"

type SessionConfig interface {
	GetSessionSecret() []byte
	GetSessionCookieName() string
	GetSessionTTL() time.Duration
	GetCookieSecure() bool
	GetCookieSameSite() http.SameSite
}

type Session struct {
	Secret         string `env:"SESSION_SECRET" envDefault:"my_super_secret_key"`
	CookieName     string `env:"SESSION_COOKIE_NAME" envDefault:"authorization"`
	CookieSecure   bool   `env:"COOKIE_SECURE" envDefault:"false"`
	CookieSameSite string `env:"COOKIE_SAME_SITE" envDefault:"Lax"`
}

var _ SessionConfig = Session{}

func (s Session) GetSessionSecret() []byte {
	return []byte(s.Secret)
}

func (s Session) GetSessionCookieName() string {
	return s.CookieName
}

// GetSessionTTL is fixed; every session expires 60 minutes after login.
func (Session) GetSessionTTL() time.Duration {
	return 60 * time.Minute
}

func (s Session) GetCookieSecure() bool {
	return s.CookieSecure
}

func (s Session) GetCookieSameSite() http.SameSite {
	switch strings.ToLower(s.CookieSameSite) {
	case "strict":
		return http.SameSiteStrictMode
	case "none":
		return http.SameSiteNoneMode
	case "lax":
		return http.SameSiteLaxMode
	default:
		return http.SameSiteDefaultMode
	}
}

func (s Session) validate(environment string) error {
	if s.Secret == "" {
		return errors.New("SESSION_SECRET must not be empty")
	}
	if s.Secret == devSessionSecret && environment != DevEnv {
		return errors.New("SESSION_SECRET must be set outside DEV")
	}
	if strings.TrimSpace(s.CookieName) == "" {
		return errors.New("SESSION_COOKIE_NAME must not be empty")
	}
	return nil
}
