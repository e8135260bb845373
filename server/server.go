package server

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"strings"

	"github.com/jrsteele09/go-session-gateway/auth"
	"github.com/jrsteele09/go-session-gateway/internal/config"
	"github.com/jrsteele09/go-session-gateway/token"
	"github.com/jrsteele09/go-session-gateway/uploads"
	"github.com/rs/zerolog/log"
)

// ArtifactStore persists uploaded files.
type ArtifactStore interface {
	Save(ctx context.Context, clientName string, src io.Reader) (uploads.Artifact, error)
}

type Server struct {
	env     string // Environment (e.g., "DEV", "PROD")
	mux     *http.ServeMux
	routes  []string
	config  config.Config
	gate    *auth.Gate
	issuer  *auth.Issuer
	uploads ArtifactStore
}

// New wires the session gateway. The signing secret is read once here and
// held by the token codec for the life of the server.
func New(config config.Config, store ArtifactStore) (*Server, error) {
	if store == nil {
		return nil, fmt.Errorf("[Server New] an upload store is required")
	}

	codec, err := token.NewHMACCodec(config.GetSessionSecret())
	if err != nil {
		return nil, fmt.Errorf("[Server New] failed to create token codec: %w", err)
	}
	cookies := auth.NewCookieAdapter(auth.CookieOptionsFromConfig(config))

	s := &Server{
		env:     config.GetEnv(),
		mux:     http.NewServeMux(),
		config:  config,
		gate:    auth.NewGate(cookies, codec),
		issuer:  auth.NewIssuer(cookies, codec, config.GetSessionTTL()),
		uploads: store,
	}

	s.initRoutes()
	s.logRoutes()

	return s, nil
}

func (s *Server) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	s.mux.ServeHTTP(w, r)
}

func (s *Server) RegisterRouteHandler(pattern string, handler http.Handler) {
	s.routes = append(s.routes, pattern)
	s.mux.Handle(pattern, handler)
}

func (s *Server) RegisterRouteFunc(pattern string, handler func(http.ResponseWriter, *http.Request)) {
	s.routes = append(s.routes, pattern)
	s.mux.HandleFunc(pattern, handler)
}

func (s *Server) logRoutes() {
	if s.env != config.DevEnv {
		return // Skip logging in non-development environments
	}
	for _, route := range s.routes {
		parts := strings.SplitN(route, " ", 2)

		if len(parts) > 1 {
			logRoute(parts[0], parts[1])
		} else {
			logRoute("", parts[0])
		}
	}
}

func logRoute(method, path string) {
	log.Info().Msgf("[%-19s] %s", colourMethod(method), path)
}
