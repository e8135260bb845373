package auth

import (
	"net/http"

	apperrors "github.com/jrsteele09/go-session-gateway/internal/errors"
	"github.com/jrsteele09/go-session-gateway/token"
	"github.com/rs/zerolog/log"
)

// RejectionReason distinguishes why a request was not authenticated.
type RejectionReason int

const (
	NoSession RejectionReason = iota + 1
	InvalidToken
)

func (r RejectionReason) String() string {
	switch r {
	case NoSession:
		return "no_session"
	case InvalidToken:
		return "invalid_token"
	default:
		return "unknown"
	}
}

// Rejection is returned by Gate.Authenticate for unauthenticated requests.
type Rejection struct {
	Reason RejectionReason
	Err    error
}

func (r *Rejection) Error() string {
	return r.Message() + ": " + r.Err.Error()
}

func (r *Rejection) Unwrap() error {
	return r.Err
}

// Message is the short reason written to the client.
func (r *Rejection) Message() string {
	if r.Reason == NoSession {
		return "No session cookie found"
	}
	return "Invalid token"
}

// TokenVerifier verifies raw session tokens.
type TokenVerifier interface {
	Verify(raw string) (token.Claims, error)
}

// Gate makes the per-request authentication decision. It only reads the
// request's cookies and is safe for concurrent use.
type Gate struct {
	cookies  *CookieAdapter
	verifier TokenVerifier
}

func NewGate(cookies *CookieAdapter, verifier TokenVerifier) *Gate {
	return &Gate{
		cookies:  cookies,
		verifier: verifier,
	}
}

// Authenticate returns the principal carried by the request's session
// cookie, or a *Rejection.
func (g *Gate) Authenticate(r *http.Request) (Principal, error) {
	raw, ok := g.cookies.Read(r)
	if !ok {
		return Principal{}, &Rejection{Reason: NoSession, Err: apperrors.ErrNoSession}
	}

	claims, err := g.verifier.Verify(raw)
	if err != nil {
		return Principal{}, &Rejection{Reason: InvalidToken, Err: err}
	}

	log.Debug().Str("user_id", claims.Subject).Msg("Request from user")
	return Principal{
		Identity:  Identity(claims.Subject),
		ExpiresAt: claims.ExpiresAt,
	}, nil
}
