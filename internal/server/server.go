/*
Package server implements the application's network transport layer.
It initializes the HTTP server, configures timeouts, and wires the form
actions, chart documents and live websocket to the assistant service.
*/
package server

import (
	"context"
	"fmt"
	"net/http"
	"time"

	"health-assistant/internal/assistant"
	"health-assistant/internal/charts"
	"health-assistant/internal/config"
	"health-assistant/internal/utility"

	"github.com/gorilla/securecookie"
	"github.com/gorilla/sessions"
	"github.com/gorilla/websocket"
	"github.com/rs/zerolog/log"
)

// Server defines the configuration and dependencies for the HTTP service.
type Server struct {
	// port specifies the TCP port the server will listen on.
	port int

	// provider names the text generation backend, reported by /health.
	provider string

	// assistant answers the form actions.
	assistant *assistant.Service

	// charts renders and caches chart documents.
	charts *charts.Renderer

	// store keeps the last form state in a signed cookie.
	store sessions.Store

	// hub tracks live websocket connections.
	hub *utility.Hub

	// upgrader accepts websocket handshakes for /ws.
	upgrader *websocket.Upgrader

	startTime time.Time
	http      *http.Server
}

// NewServer builds the server and its *http.Server with production-ready
// network timeouts.
func NewServer(cfg *config.Config, svc *assistant.Service, renderer *charts.Renderer) *Server {
	s := &Server{
		port:      cfg.App.Port,
		provider:  cfg.LLM.Provider,
		assistant: svc,
		charts:    renderer,
		store:     newSessionStore(cfg),
		hub:       utility.NewHub(),
		upgrader:  utility.NewUpgrader(cfg.IsProduction()),
		startTime: time.Now(),
	}

	// WriteTimeout covers the recommendation call, so it must outlast the LLM timeout.
	writeTimeout := cfg.LLM.Timeout + 10*time.Second

	s.http = &http.Server{
		Addr:         fmt.Sprintf(":%d", s.port),
		Handler:      s.RegisterRoutes(),
		IdleTimeout:  time.Minute,
		ReadTimeout:  10 * time.Second,
		WriteTimeout: writeTimeout,
	}
	return s
}

// ListenAndServe starts accepting connections.
func (s *Server) ListenAndServe() error {
	log.Info().Str("addr", s.http.Addr).Msg("HTTP server listening")
	return s.http.ListenAndServe()
}

// Shutdown closes live websockets and drains in-flight requests.
func (s *Server) Shutdown(ctx context.Context) error {
	s.hub.CloseAll()
	return s.http.Shutdown(ctx)
}

func newSessionStore(cfg *config.Config) sessions.Store {
	secret := []byte(cfg.App.SessionSecret)
	if len(secret) == 0 {
		// Development only; config refuses an empty secret in production.
		secret = securecookie.GenerateRandomKey(32)
		log.Warn().Msg("SESSION_SECRET not set, using a random key; form state resets on restart")
	}

	store := sessions.NewCookieStore(secret)
	store.MaxAge(86400)
	store.Options.Path = "/"
	store.Options.HttpOnly = true
	store.Options.Secure = cfg.IsProduction()
	store.Options.SameSite = http.SameSiteLaxMode
	return store
}
