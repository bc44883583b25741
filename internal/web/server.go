// Package web provides an HTTP status server for the conn-manager daemon.
package web

import (
	"context"
	"net"
	"net/http"

	"github.com/sweeney/conn-manager/internal/status"
)

// Server serves the status page over HTTP.
type Server struct {
	httpServer *http.Server
	tracker    *status.Tracker
	refresh    func()
}

// New creates a Server that reads state from the given tracker. refresh, if
// non-nil, is invoked before every snapshot so volatile fields (queue depth,
// buffered logs) are current.
func New(addr string, tracker *status.Tracker, refresh func()) *Server {
	s := &Server{tracker: tracker, refresh: refresh}

	mux := http.NewServeMux()
	mux.HandleFunc("/", s.handleIndex)
	mux.HandleFunc("/index.html", s.handleIndex)
	mux.HandleFunc("/index.json", s.handleJSON)

	s.httpServer = &http.Server{
		Addr:    addr,
		Handler: mux,
	}
	return s
}

// ListenAndServe starts listening. It blocks until the server is shut down.
func (s *Server) ListenAndServe() error {
	return s.httpServer.ListenAndServe()
}

// Serve accepts connections on the given listener. Useful for tests.
func (s *Server) Serve(ln net.Listener) error {
	return s.httpServer.Serve(ln)
}

// Shutdown gracefully shuts down the server.
func (s *Server) Shutdown(ctx context.Context) error {
	return s.httpServer.Shutdown(ctx)
}

func (s *Server) snapshot() status.Snapshot {
	if s.refresh != nil {
		s.refresh()
	}
	return s.tracker.Snapshot()
}

func (s *Server) handleIndex(w http.ResponseWriter, r *http.Request) {
	if r.URL.Path != "/" && r.URL.Path != "/index.html" {
		http.NotFound(w, r)
		return
	}
	snap := s.snapshot()
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	renderHTML(w, snap)
}

func (s *Server) handleJSON(w http.ResponseWriter, r *http.Request) {
	snap := s.snapshot()
	w.Header().Set("Content-Type", "application/json")
	w.Write(formatJSON(snap))
}
