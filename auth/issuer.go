package auth

import (
	"net/http"
	"time"

	apperrors "github.com/jrsteele09/go-session-gateway/internal/errors"
	"github.com/jrsteele09/go-session-gateway/token"
)

// TokenIssuer signs session claims.
type TokenIssuer interface {
	Issue(claims token.Claims) (string, error)
}

// Issuer starts new sessions: it mints an identity, signs its claims and
// binds the token to the response cookie.
type Issuer struct {
	cookies *CookieAdapter
	tokens  TokenIssuer
	ttl     time.Duration
}

func NewIssuer(cookies *CookieAdapter, tokens TokenIssuer, ttl time.Duration) *Issuer {
	return &Issuer{
		cookies: cookies,
		tokens:  tokens,
		ttl:     ttl,
	}
}

// Login issues a session for a freshly minted identity. On error no cookie
// has been written.
func (i *Issuer) Login(w http.ResponseWriter) (Principal, error) {
	identity := NewIdentityFunc()
	claims := token.NewClaims(identity.String(), i.ttl)

	raw, err := i.tokens.Issue(claims)
	if err != nil {
		return Principal{}, apperrors.Wrapf(err, "[Issuer Login] identity %s", identity)
	}
	if raw == "" {
		return Principal{}, apperrors.Wrapf(apperrors.ErrTokenSigning, "[Issuer Login] empty token")
	}

	i.cookies.Attach(w, raw, claims.ExpiresAt)
	return Principal{Identity: identity, ExpiresAt: claims.ExpiresAt}, nil
}
