// Package server provides the HTTP and websocket surface of the gesture
// engine.
package server

import (
	"encoding/json"
	"net/http"
	"time"

	"github.com/ayusman/gesturecue/internal/app"
	"github.com/ayusman/gesturecue/internal/server/api"
	"github.com/ayusman/gesturecue/internal/store"
)

// Config holds the server configuration.
type Config struct {
	StaticDir string
	Store     *store.Store
	App       *app.App
}

// Server represents the HTTP server.
type Server struct {
	config Config
	mux    *http.ServeMux
	hub    *EventHub
	start  time.Time
}

// New creates a new Server with the given configuration.
func New(config Config) *Server {
	s := &Server{
		config: config,
		mux:    http.NewServeMux(),
		hub:    NewEventHub(),
		start:  time.Now(),
	}
	s.setupRoutes()
	return s
}

// setupRoutes configures all HTTP routes for the server.
func (s *Server) setupRoutes() {
	s.mux.HandleFunc("/api/health", s.handleHealth)

	if a := s.config.App; a != nil {
		a.OnEvent(s.hub.Publish)

		gates := api.NewGateHandler(a)
		s.mux.Handle("/api/mode", api.NewModeHandler(a))
		s.mux.Handle("/api/gates/", gates)
		s.mux.Handle("/api/frames", api.NewFrameHandler(a))
		s.mux.Handle("/api/frames/ws", NewFrameSocket(a))
		s.mux.Handle("/api/events", s.hub)
	}

	if s.config.Store != nil {
		var plugins api.PluginLookup
		if s.config.App != nil {
			plugins = s.config.App.PluginManager()
		}
		actions := api.NewActionHandler(s.config.Store, plugins)
		sessions := api.NewSessionHandler(s.config.Store)

		s.mux.Handle("/api/actions", actions)
		s.mux.Handle("/api/actions/", actions)
		s.mux.Handle("/api/sessions", sessions)
		s.mux.Handle("/api/sessions/", sessions)
	}

	// Serve static files if StaticDir is configured
	if s.config.StaticDir != "" {
		fs := http.FileServer(http.Dir(s.config.StaticDir))
		s.mux.Handle("/", fs)
	}
}

// Hub returns the event broadcaster behind /api/events.
func (s *Server) Hub() *EventHub {
	return s.hub
}

// ServeHTTP implements the http.Handler interface.
func (s *Server) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	s.mux.ServeHTTP(w, r)
}

type healthResponse struct {
	Status      string      `json:"status"`
	Uptime      string      `json:"uptime"`
	Subscribers int         `json:"subscribers"`
	Engine      *app.Status `json:"engine,omitempty"`
}

// handleHealth handles GET requests to /api/health.
func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		http.Error(w, "Method not allowed", http.StatusMethodNotAllowed)
		return
	}

	response := healthResponse{
		Status:      "ok",
		Uptime:      time.Since(s.start).String(),
		Subscribers: s.hub.Clients(),
	}
	if s.config.App != nil {
		st := s.config.App.Status()
		response.Engine = &st
	}
	w.Header().Set("Content-Type", "application/json")
	if err := json.NewEncoder(w).Encode(response); err != nil {
		http.Error(w, "Failed to encode response", http.StatusInternalServerError)
		return
	}
}
