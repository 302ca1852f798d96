package api

import (
	"context"
	"crypto/subtle"
	"encoding/json"
	"errors"
	"expvar"
	"log/slog"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/ajitpratap0/docmeta/internal/meta"
	"github.com/ajitpratap0/docmeta/internal/query"
)

// Server is an HTTP API server that exposes read-only index queries.
type Server struct {
	query     *query.Service
	logger    *slog.Logger
	authToken string // empty = no auth required
}

// NewServer creates a new Server over the given query service.
func NewServer(q *query.Service, logger *slog.Logger, authToken string) *Server {
	return &Server{
		query:     q,
		logger:    logger,
		authToken: authToken,
	}
}

// Handler returns an http.Handler with all routes registered.
func (s *Server) Handler() http.Handler {
	mux := http.NewServeMux()

	// Health check: no auth required.
	mux.HandleFunc("GET /healthz", s.handleHealthz)

	mux.HandleFunc("GET /v1/chapters", s.auth(s.handleChapters))
	mux.HandleFunc("GET /v1/sections", s.auth(s.handleFind))
	mux.HandleFunc("GET /v1/sections/{id}", s.auth(s.handleGetSection))
	mux.HandleFunc("GET /v1/sections/{id}/source", s.auth(s.handleSource))
	mux.HandleFunc("GET /v1/sections/{id}/html", s.auth(s.handleHTML))
	mux.HandleFunc("GET /v1/stats", s.auth(s.handleStats))
	mux.Handle("GET /debug/vars", s.auth(expvar.Handler().ServeHTTP))

	return mux
}

// --- middleware ---

// auth wraps a handler with Bearer token authentication when authToken is set.
func (s *Server) auth(next http.HandlerFunc) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if s.authToken == "" {
			next(w, r)
			return
		}
		header := r.Header.Get("Authorization")
		token, ok := strings.CutPrefix(header, "Bearer ")
		if !ok || subtle.ConstantTimeCompare([]byte(token), []byte(s.authToken)) != 1 {
			s.writeError(w, http.StatusUnauthorized, "unauthorized")
			return
		}
		next(w, r)
	}
}

// --- handlers ---

func (s *Server) handleHealthz(w http.ResponseWriter, _ *http.Request) {
	s.writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

// chaptersResponse is returned by GET /v1/chapters.
type chaptersResponse struct {
	Chapters []query.ChapterView `json:"chapters"`
}

func (s *Server) handleChapters(w http.ResponseWriter, _ *http.Request) {
	s.writeJSON(w, http.StatusOK, chaptersResponse{Chapters: s.query.Chapters()})
}

// findResponse is returned by GET /v1/sections.
type findResponse struct {
	Sections []query.SectionView `json:"sections"`
}

func (s *Server) handleFind(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()
	opts := query.FindOptions{
		Title:   q.Get("title"),
		Key:     q.Get("key"),
		Chapter: q.Get("chapter"),
	}
	if raw := q.Get("limit"); raw != "" {
		limit, err := strconv.Atoi(raw)
		if err != nil || limit < 0 {
			s.writeError(w, http.StatusBadRequest, "limit must be a non-negative integer")
			return
		}
		opts.Limit = limit
	}
	s.writeJSON(w, http.StatusOK, findResponse{Sections: s.query.Find(opts)})
}

func (s *Server) handleGetSection(w http.ResponseWriter, r *http.Request) {
	id := r.PathValue("id")
	v, err := s.query.Section(id)
	if err != nil {
		s.writeLookupError(w, id, err)
		return
	}
	s.writeJSON(w, http.StatusOK, v)
}

// sourceResponse is returned by GET /v1/sections/{id}/source.
type sourceResponse struct {
	ID     string `json:"id"`
	Source string `json:"source"`
}

func (s *Server) handleSource(w http.ResponseWriter, r *http.Request) {
	id := r.PathValue("id")
	keepMeta, _ := strconv.ParseBool(r.URL.Query().Get("keep_meta"))
	src, err := s.query.Source(id, keepMeta)
	if err != nil {
		s.writeLookupError(w, id, err)
		return
	}
	s.writeJSON(w, http.StatusOK, sourceResponse{ID: id, Source: src})
}

func (s *Server) handleHTML(w http.ResponseWriter, r *http.Request) {
	id := r.PathValue("id")
	html, err := s.query.HTML(id)
	if err != nil {
		s.writeLookupError(w, id, err)
		return
	}
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	w.WriteHeader(http.StatusOK)
	if _, err := w.Write([]byte(html)); err != nil {
		s.logger.Error("failed to write html", "id", id, "error", err)
	}
}

func (s *Server) handleStats(w http.ResponseWriter, _ *http.Request) {
	s.writeJSON(w, http.StatusOK, s.query.Stats())
}

// --- helpers ---

// writeLookupError maps query errors to HTTP status codes.
func (s *Server) writeLookupError(w http.ResponseWriter, id string, err error) {
	switch {
	case errors.Is(err, meta.ErrSectionNotFound):
		s.writeError(w, http.StatusNotFound, "section not found")
	case errors.Is(err, query.ErrNoSource):
		s.writeError(w, http.StatusNotImplemented, "section source is not available")
	default:
		s.logger.Error("failed to read section", "id", id, "error", err)
		s.writeError(w, http.StatusInternalServerError, "failed to read section")
	}
}

// writeJSON encodes v as JSON and writes it to w with the given status code.
func (s *Server) writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if encErr := json.NewEncoder(w).Encode(v); encErr != nil {
		s.logger.Error("failed to encode response", "error", encErr)
	}
}

// writeError writes a JSON error response.
func (s *Server) writeError(w http.ResponseWriter, status int, msg string) {
	s.writeJSON(w, status, map[string]string{"error": msg})
}

// Shutdown gracefully shuts down an http.Server with the given timeout.
// This is a convenience helper used by the serve command.
func Shutdown(srv *http.Server, timeout time.Duration) error {
	ctx, cancel := context.WithTimeout(context.Background(), timeout)
	defer cancel()
	return srv.Shutdown(ctx)
}
