package server

import (
	"context"
	"errors"
	"net/http"

	"github.com/jrsteele09/go-session-gateway/auth"
	"github.com/rs/zerolog/log"
)

// ContextKey is a custom type for context keys to avoid collisions
type ContextKey string

// ContextKeyPrincipal stores the authenticated principal
const ContextKeyPrincipal ContextKey = "principal"

// PrincipalFromContext returns the principal stored by RequireSession.
func PrincipalFromContext(ctx context.Context) (auth.Principal, bool) {
	p, ok := ctx.Value(ContextKeyPrincipal).(auth.Principal)
	return p, ok
}

// RequireSession runs the auth gate before the protected handler. Every
// rejection becomes a 401 with a short reason.
func (s *Server) RequireSession() func(http.HandlerFunc) http.HandlerFunc {
	return func(next http.HandlerFunc) http.HandlerFunc {
		return func(w http.ResponseWriter, r *http.Request) {
			principal, err := s.gate.Authenticate(r)
			if err != nil {
				writeAuthError(w, r, err)
				return
			}

			ctx := context.WithValue(r.Context(), ContextKeyPrincipal, principal)
			next(w, r.WithContext(ctx))
		}
	}
}

func writeAuthError(w http.ResponseWriter, r *http.Request, err error) {
	message := "Unauthorized"
	var rejection *auth.Rejection
	if errors.As(err, &rejection) {
		message = rejection.Message()
		log.Debug().Err(err).Str("reason", rejection.Reason.String()).Str("path", r.URL.Path).Msg("Rejected request")
	}
	http.Error(w, message, http.StatusUnauthorized)
}
