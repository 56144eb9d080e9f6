// Package server provides the local HTTP server for the Mudra gesture
// control system.
package server

import (
	"encoding/json"
	"net/http"
	"time"

	"github.com/ayusman/mudra/internal/app"
	"github.com/ayusman/mudra/internal/control"
	"github.com/ayusman/mudra/internal/server/api"
	"github.com/ayusman/mudra/internal/store"
)

// Config holds the server configuration.
type Config struct {
	StaticDir  string
	Store      *store.Store
	App        *app.App
	Dispatcher *control.Dispatcher
	Recorder   *store.Recorder
}

// Server represents the HTTP server for the Mudra application.
type Server struct {
	config Config
	mux    *http.ServeMux
	start  time.Time
}

// New creates a new Server with the given configuration.
func New(config Config) *Server {
	s := &Server{
		config: config,
		mux:    http.NewServeMux(),
		start:  time.Now(),
	}
	s.setupRoutes()
	return s
}

// setupRoutes configures all HTTP routes for the server.
func (s *Server) setupRoutes() {
	s.mux.HandleFunc("/api/health", s.handleHealth)
	s.mux.HandleFunc("/api/status", s.handleStatus)

	// Dispatch log endpoint if Store is configured
	if s.config.Store != nil {
		s.mux.Handle("/api/events", api.NewEventsHandler(s.config.Store))
	}

	// Control endpoints if the dispatcher is configured
	if s.config.Dispatcher != nil {
		s.mux.Handle("/api/control", api.NewControlHandler(s.config.Dispatcher, s.config.Store))
		s.mux.Handle("/api/probe", api.NewProbeHandler(s.config.Dispatcher))
		s.mux.Handle("/api/command", api.NewCommandHandler(s.config.Dispatcher))
	}

	// Preview endpoints if the app is configured
	if s.config.App != nil {
		s.mux.Handle("/api/stream", NewStreamHandler(s.config.App))
		s.mux.Handle("/api/snapshot", api.NewSnapshotHandler(s.config.App))
	}

	// Live event feed if the recorder is configured
	if s.config.Recorder != nil {
		s.mux.Handle("/api/events/ws", NewEventsFeedHandler(s.config.Recorder))
	}

	// Serve static files if StaticDir is configured
	if s.config.StaticDir != "" {
		fs := http.FileServer(http.Dir(s.config.StaticDir))
		s.mux.Handle("/", fs)
	}
}

// ServeHTTP implements the http.Handler interface.
func (s *Server) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	s.mux.ServeHTTP(w, r)
}

// handleHealth handles GET requests to /api/health.
func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		http.Error(w, "Method not allowed", http.StatusMethodNotAllowed)
		return
	}

	uptime := time.Since(s.start)

	response := map[string]interface{}{
		"status": "ok",
		"uptime": uptime.String(),
	}

	w.Header().Set("Content-Type", "application/json")
	if err := json.NewEncoder(w).Encode(response); err != nil {
		http.Error(w, "Failed to encode response", http.StatusInternalServerError)
		return
	}
}

// handleStatus handles GET requests to /api/status and reports the
// current state of the detection pipeline and dispatcher.
func (s *Server) handleStatus(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		http.Error(w, "Method not allowed", http.StatusMethodNotAllowed)
		return
	}

	response := map[string]interface{}{
		"uptime": time.Since(s.start).String(),
	}
	if s.config.App != nil {
		response["detection_enabled"] = s.config.App.IsEnabled()
	}
	if s.config.Dispatcher != nil {
		response["dispatch_enabled"] = s.config.Dispatcher.IsEnabled()
		response["endpoint"] = s.config.Dispatcher.URL()
	}

	w.Header().Set("Content-Type", "application/json")
	if err := json.NewEncoder(w).Encode(response); err != nil {
		http.Error(w, "Failed to encode response", http.StatusInternalServerError)
		return
	}
}

// ListenAndServe starts the HTTP server on the given address.
func (s *Server) ListenAndServe(addr string) error {
	return http.ListenAndServe(addr, s)
}
