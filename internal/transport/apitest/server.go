// Package apitest runs an in-process stand-in for the knowledge-base search
// API. It keeps documents in memory, records every call and lets tests replace
// any route's handler.
package apitest

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"slices"
	"sync"
	"testing"

	"github.com/go-chi/chi/v5"
)

// Route patterns served under /api.
const (
	RouteUpload         = "/upload"
	RouteUploadMultiple = "/upload-multiple"
	RouteSearch         = "/search"
	RouteDocuments      = "/documents"
	RouteDocument       = "/documents/{id}"
	RouteClearDocuments = "/documents/clear"
	RouteStats          = "/stats"
	RouteHealth         = "/health"
)

// Option configures a Server.
type Option func(*Server)

// WithAPIKeys requires one of keys as a Bearer token on every route but health.
func WithAPIKeys(keys ...string) Option {
	return func(s *Server) { s.apiKeys = keys }
}

// Server is a running stub backend.
type Server struct {
	*httptest.Server

	apiKeys []string

	mu        sync.Mutex
	overrides map[string]http.HandlerFunc
	requests  []Request
	store     *store
}

// New starts a stub backend that is closed when the test ends.
func New(t testing.TB, opts ...Option) *Server {
	t.Helper()
	s := &Server{
		overrides: make(map[string]http.HandlerFunc),
		store:     newStore(),
	}
	for _, o := range opts {
		o(s)
	}

	r := chi.NewRouter()
	r.Use(bearerAuth(s.apiKeys))
	r.Route("/api", func(r chi.Router) {
		r.Post(RouteUpload, s.route(http.MethodPost, RouteUpload, s.handleUpload))
		r.Post(RouteUploadMultiple, s.route(http.MethodPost, RouteUploadMultiple, s.handleUploadMultiple))
		r.Post(RouteSearch, s.route(http.MethodPost, RouteSearch, s.handleSearch))
		r.Get(RouteDocuments, s.route(http.MethodGet, RouteDocuments, s.handleListDocuments))
		r.Post(RouteClearDocuments, s.route(http.MethodPost, RouteClearDocuments, s.handleClearDocuments))
		r.Delete(RouteDocument, s.route(http.MethodDelete, RouteDocument, s.handleDeleteDocument))
		r.Get(RouteStats, s.route(http.MethodGet, RouteStats, s.handleStats))
		r.Get(RouteHealth, s.route(http.MethodGet, RouteHealth, s.handleHealth))
	})

	s.Server = httptest.NewServer(r)
	t.Cleanup(s.Close)
	return s
}

// Handle replaces the handler for method and route (one of the Route constants).
func (s *Server) Handle(method, route string, h http.HandlerFunc) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.overrides[method+" "+route] = h
}

// Requests returns every recorded call in arrival order.
func (s *Server) Requests() []Request {
	s.mu.Lock()
	defer s.mu.Unlock()
	return slices.Clone(s.requests)
}

// RequestsTo returns the recorded calls for one route.
func (s *Server) RequestsTo(method, route string) []Request {
	var out []Request
	for _, r := range s.Requests() {
		if r.Method == method && r.Route == route {
			out = append(out, r)
		}
	}
	return out
}

// AddDocument seeds the in-memory store.
func (s *Server) AddDocument(d Document) {
	s.store.add(d)
}

// Documents returns the stored documents.
func (s *Server) Documents() []Document {
	return s.store.list("", "")
}

func (s *Server) route(method, route string, def http.HandlerFunc) http.HandlerFunc {
	key := method + " " + route
	return func(w http.ResponseWriter, r *http.Request) {
		rec, err := capture(r, route)
		if err != nil {
			writeDetail(w, http.StatusBadRequest, "unreadable body")
			return
		}

		s.mu.Lock()
		s.requests = append(s.requests, rec)
		h, ok := s.overrides[key]
		s.mu.Unlock()

		if ok {
			h(w, r)
			return
		}
		def(w, r)
	}
}

// JSON returns a handler that replies with status and v encoded as JSON.
func JSON(status int, v any) http.HandlerFunc {
	return func(w http.ResponseWriter, _ *http.Request) {
		writeJSON(w, status, v)
	}
}

// Detail returns a handler that replies with a FastAPI-style {"detail": msg} error.
func Detail(status int, msg string) http.HandlerFunc {
	return func(w http.ResponseWriter, _ *http.Request) {
		writeDetail(w, status, msg)
	}
}

// Gate wraps h so it does not run until release is closed or the request ends.
func Gate(release <-chan struct{}, h http.HandlerFunc) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		select {
		case <-release:
		case <-r.Context().Done():
			return
		}
		h(w, r)
	}
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

func writeDetail(w http.ResponseWriter, status int, msg string) {
	writeJSON(w, status, map[string]string{"detail": msg})
}
