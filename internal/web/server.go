// Package web serves the daemon's status page and its JSON twin.
package web

import (
	"context"
	"net/http"
	"time"

	"github.com/sweeney/house-guard/internal/logger"
	"github.com/sweeney/house-guard/internal/status"
)

type Server struct {
	tracker *status.Tracker
	routes  *http.ServeMux
	srv     *http.Server
}

// New wires the routes. Nothing listens until ListenAndServe.
func New(addr string, tracker *status.Tracker) *Server {
	s := &Server{tracker: tracker, routes: http.NewServeMux()}
	s.routes.HandleFunc("GET /{$}", s.page)
	s.routes.HandleFunc("GET /index.html", s.page)
	s.routes.HandleFunc("GET /index.json", s.json)
	s.srv = &http.Server{
		Addr:              addr,
		Handler:           s.routes,
		ReadHeaderTimeout: 5 * time.Second,
	}
	return s
}

func (s *Server) Handler() http.Handler { return s.routes }

func (s *Server) ListenAndServe() error { return s.srv.ListenAndServe() }

func (s *Server) Shutdown(ctx context.Context) error { return s.srv.Shutdown(ctx) }

func (s *Server) page(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	if err := renderHTML(w, s.tracker.Snapshot()); err != nil {
		logger.Warnf(r.Context(), "render status page: %v", err)
	}
}

func (s *Server) json(w http.ResponseWriter, _ *http.Request) {
	w.Header().Set("Content-Type", "application/json")
	_, _ = w.Write(status.FormatJSON(s.tracker.Snapshot()))
}
