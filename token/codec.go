package token

import (
	"fmt"
	"strings"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
	apperrors "github.com/jrsteele09/go-session-gateway/internal/errors"
)

// NowTimeFunc returns the current time. It can be overridden in tests.
var NowTimeFunc = time.Now

// Claims is the session payload carried inside a token.
type Claims struct {
	Subject   string
	ExpiresAt time.Time
}

// NewClaims builds claims for subject that expire ttl from now. The expiry is
// truncated to whole seconds, the precision a token can carry.
func NewClaims(subject string, ttl time.Duration) Claims {
	return Claims{
		Subject:   subject,
		ExpiresAt: time.Unix(NowTimeFunc().Add(ttl).Unix(), 0),
	}
}

// ValidAt reports whether the claims have not yet expired at t.
func (c Claims) ValidAt(t time.Time) bool {
	return t.Before(c.ExpiresAt)
}

// Codec issues and verifies signed session tokens. It holds no mutable
// state and is safe for concurrent use.
type Codec struct {
	signer Signer
	parser *jwt.Parser
}

// NewCodec creates a codec that signs and verifies with signer only.
func NewCodec(signer Signer) *Codec {
	return &Codec{
		signer: signer,
		parser: jwt.NewParser(
			jwt.WithValidMethods([]string{signer.GetSigningMethod().Alg()}),
			jwt.WithExpirationRequired(),
			jwt.WithIssuedAt(),
			jwt.WithTimeFunc(func() time.Time { return NowTimeFunc() }),
		),
	}
}

// NewHMACCodec is a convenience for NewCodec(NewHMACSigner(secret)).
func NewHMACCodec(secret []byte) (*Codec, error) {
	signer, err := NewHMACSigner(secret)
	if err != nil {
		return nil, err
	}
	return NewCodec(signer), nil
}

// Issue signs claims into an opaque token string.
func (c *Codec) Issue(claims Claims) (string, error) {
	if strings.TrimSpace(claims.Subject) == "" {
		return "", fmt.Errorf("%w: empty subject", apperrors.ErrTokenSigning)
	}
	if claims.ExpiresAt.IsZero() {
		return "", fmt.Errorf("%w: missing expiry", apperrors.ErrTokenSigning)
	}

	registered := jwt.RegisteredClaims{
		Subject:   claims.Subject,
		ExpiresAt: jwt.NewNumericDate(claims.ExpiresAt),
		IssuedAt:  jwt.NewNumericDate(NowTimeFunc()),
		ID:        uuid.NewString(),
	}

	signed, err := c.signer.Sign(registered)
	if err != nil {
		return "", fmt.Errorf("%w: %w", apperrors.ErrTokenSigning, err)
	}
	return signed, nil
}

// Verify checks the token signature and expiry and returns its claims.
// Every failure wraps ErrInvalidToken; an expired token also wraps
// ErrTokenExpired.
func (c *Codec) Verify(raw string) (Claims, error) {
	if strings.TrimSpace(raw) == "" {
		return Claims{}, fmt.Errorf("%w: empty token", apperrors.ErrInvalidToken)
	}

	registered := &jwt.RegisteredClaims{}
	parsed, err := c.parser.ParseWithClaims(raw, registered, c.signer.GetVerificationKey)
	if err != nil {
		if apperrors.Is(err, jwt.ErrTokenExpired) {
			return Claims{}, fmt.Errorf("%w: %w", apperrors.ErrInvalidToken, apperrors.ErrTokenExpired)
		}
		return Claims{}, fmt.Errorf("%w: %w", apperrors.ErrInvalidToken, err)
	}
	if !parsed.Valid {
		return Claims{}, apperrors.ErrInvalidToken
	}
	if registered.Subject == "" {
		return Claims{}, fmt.Errorf("%w: missing subject", apperrors.ErrInvalidToken)
	}

	return Claims{
		Subject:   registered.Subject,
		ExpiresAt: time.Unix(registered.ExpiresAt.Unix(), 0),
	}, nil
}
