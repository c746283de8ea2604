// Package server provides the HTTP server for the signetic typing service.
package server

import (
	"context"
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"
	"time"

	"github.com/ayusman/signetic/internal/gesture"
	"github.com/ayusman/signetic/internal/observe"
	"github.com/ayusman/signetic/internal/server/api"
	"github.com/ayusman/signetic/internal/store"
	"github.com/ayusman/signetic/internal/typing"
)

// Session is the typing session the server reads and edits.
type Session interface {
	api.Typist
	OnStatus(fn func(typing.Status))
}

// Config holds the server configuration. Every collaborator is optional;
// routes whose collaborator is missing are not registered.
type Config struct {
	StaticDir  string
	Store      *store.Store
	Session    Session
	Speaker    api.Speaker
	Classifier *gesture.Classifier

	// Metrics records request latency.
	Metrics *observe.Metrics
	// MetricsHandler is mounted at MetricsPath.
	MetricsHandler http.Handler
	MetricsPath    string
}

// Server represents the HTTP server for the signetic application.
type Server struct {
	config  Config
	mux     *http.ServeMux
	handler http.Handler
	hub     *StatusHub
	start   time.Time
}

// New creates a new Server with the given configuration.
func New(config Config) *Server {
	s := &Server{
		config: config,
		mux:    http.NewServeMux(),
		start:  time.Now(),
	}
	s.setupRoutes()
	s.handler = observe.Middleware(config.Metrics)(s.mux)
	return s
}

// setupRoutes configures all HTTP routes for the server.
func (s *Server) setupRoutes() {
	s.mux.HandleFunc("/api/health", s.handleHealth)

	if s.config.Session != nil {
		text := api.NewTextHandler(s.config.Session, s.config.Speaker)
		s.mux.Handle("/api/status", text)
		s.mux.Handle("/api/text/", text)
		s.mux.Handle("/api/speak", text)

		s.hub = NewStatusHub(s.config.Session.Status())
		s.config.Session.OnStatus(s.hub.Publish)
		s.mux.Handle("/api/ws", s.hub)
	}

	if s.config.Classifier != nil {
		s.mux.Handle("/api/classify", api.NewClassifyHandler(s.config.Classifier))
	}

	if s.config.Store != nil {
		if s.config.Classifier != nil {
			samples := api.NewSamplesHandler(s.config.Store, s.config.Classifier)
			s.mux.Handle("/api/samples", samples)
			s.mux.Handle("/api/samples/", samples)
		}

		var typist api.Typist
		if s.config.Session != nil {
			typist = s.config.Session
		}
		transcripts := api.NewTranscriptsHandler(s.config.Store, typist)
		s.mux.Handle("/api/transcripts", transcripts)
		s.mux.Handle("/api/transcripts/", transcripts)
	}

	if s.config.MetricsHandler != nil {
		path := s.config.MetricsPath
		if path == "" {
			path = "/metrics"
		}
		s.mux.Handle(path, s.config.MetricsHandler)
	}

	// Serve static files if StaticDir is configured
	if s.config.StaticDir != "" {
		fs := http.FileServer(http.Dir(s.config.StaticDir))
		s.mux.Handle("/", fs)
	}
}

// ServeHTTP implements the http.Handler interface.
func (s *Server) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	s.handler.ServeHTTP(w, r)
}

// Hub returns the websocket status hub, or nil without a session.
func (s *Server) Hub() *StatusHub {
	return s.hub
}

// handleHealth handles GET requests to /api/health.
func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		http.Error(w, "Method not allowed", http.StatusMethodNotAllowed)
		return
	}

	response := map[string]interface{}{
		"status": "ok",
		"uptime": time.Since(s.start).String(),
	}
	if s.hub != nil {
		response["clients"] = s.hub.Clients()
	}

	w.Header().Set("Content-Type", "application/json")
	if err := json.NewEncoder(w).Encode(response); err != nil {
		http.Error(w, "Failed to encode response", http.StatusInternalServerError)
		return
	}
}

// ListenAndServe serves on addr until ctx is cancelled, then shuts down
// gracefully. It returns nil after a clean shutdown.
func (s *Server) ListenAndServe(ctx context.Context, addr string) error {
	srv := &http.Server{
		Addr:              addr,
		Handler:           s,
		ReadHeaderTimeout: 5 * time.Second,
	}

	errc := make(chan error, 1)
	go func() { errc <- srv.ListenAndServe() }()
	slog.Info("http server listening", "addr", addr)

	select {
	case err := <-errc:
		return err
	case <-ctx.Done():
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if s.hub != nil {
		s.hub.Close()
	}
	if err := srv.Shutdown(shutdownCtx); err != nil {
		return err
	}
	if err := <-errc; err != nil && !errors.Is(err, http.ErrServerClosed) {
		return err
	}
	return nil
}
