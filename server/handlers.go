package server

import (
	"encoding/json"
	"fmt"
	"net/http"
	"time"

	"github.com/rs/zerolog/log"
)

const (
	contentTypeText = "text/plain; charset=utf-8"
	contentTypeJSON = "application/json"
)

// IndexHandler answers the unauthenticated root route
func (s *Server) IndexHandler() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", contentTypeText)
		fmt.Fprint(w, "jwt test")
	}
}

// PreflightHandler ends CORS preflight requests; CorsMiddleware writes the headers.
func (s *Server) PreflightHandler() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusNoContent)
	}
}

// LoginHandler mints an identity, sets the session cookie and returns the
// identity as plain text.
func (s *Server) LoginHandler() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		principal, err := s.issuer.Login(w)
		if err != nil {
			log.Err(err).Msg("Failed to issue session token")
			http.Error(w, "Failed to create session", http.StatusInternalServerError)
			return
		}

		log.Debug().Str("user_id", principal.Identity.String()).Msg("Issued session")
		w.Header().Set("Content-Type", contentTypeText)
		w.Header().Set("Cache-Control", "no-store")
		fmt.Fprint(w, principal.Identity)
	}
}

// FetchHandler is the cheap protected probe.
func (s *Server) FetchHandler() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		principal, ok := PrincipalFromContext(r.Context())
		if !ok {
			http.Error(w, "Unauthorized", http.StatusUnauthorized)
			return
		}

		w.Header().Set("Content-Type", contentTypeText)
		fmt.Fprintf(w, "Hello, world! User ID: %s", principal.Identity)
	}
}

type meResponse struct {
	UserID    string    `json:"user_id"`
	ExpiresAt time.Time `json:"expires_at"`
}

// MeHandler returns the identity and session expiry of the caller.
func (s *Server) MeHandler() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		principal, ok := PrincipalFromContext(r.Context())
		if !ok {
			http.Error(w, "Unauthorized", http.StatusUnauthorized)
			return
		}

		w.Header().Set("Content-Type", contentTypeJSON)
		w.Header().Set("Cache-Control", "no-store")
		err := json.NewEncoder(w).Encode(meResponse{
			UserID:    principal.Identity.String(),
			ExpiresAt: principal.ExpiresAt.UTC(),
		})
		if err != nil {
			log.Err(err).Msg("Failed to write /me response")
		}
	}
}
