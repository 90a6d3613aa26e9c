// Package server exposes the library over a small JSON HTTP API. The
// analysis provider key stays on the server; clients never see it.
package server

import (
	"context"
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"
	"time"

	"github.com/abdulachik/gutenshelf/internal/analysis"
	"github.com/abdulachik/gutenshelf/internal/cache"
	"github.com/abdulachik/gutenshelf/internal/library"
)

const (
	componentCatalog  = "catalog"
	componentAnalysis = "analysis"

	shutdownTimeout = 10 * time.Second
)

// Library is the part of *library.Library the API uses.
type Library interface {
	Fetch(ctx context.Context, id string) (*cache.BookRecord, error)
	List(ctx context.Context) []cache.BookSummary
}

// Analyzer requests a book analysis. *analysis.Analyzer implements it.
type Analyzer interface {
	Analyze(ctx context.Context, record *cache.BookRecord) (*analysis.Result, error)
}

// Server serves the books API.
type Server struct {
	lib      Library
	analyzer Analyzer
	health   *Health
	mux      *http.ServeMux
}

// Config holds the collaborators of a Server.
type Config struct {
	Library Library
	// Analyzer may be nil when no provider key is configured.
	Analyzer Analyzer
}

// New creates a Server and registers its routes.
func New(cfg Config) *Server {
	s := &Server{
		lib:      cfg.Library,
		analyzer: cfg.Analyzer,
		health:   NewHealth(),
		mux:      http.NewServeMux(),
	}

	s.mux.HandleFunc("GET /api/books", s.handleList)
	s.mux.HandleFunc("GET /api/books/{id}", s.handleBook)
	s.mux.HandleFunc("POST /api/books/{id}/analysis", s.handleAnalysis)
	s.mux.HandleFunc("GET /healthz", s.handleHealth)

	return s
}

// Handler returns the root handler.
func (s *Server) Handler() http.Handler {
	return s.mux
}

// Health returns the dependency health tracker.
func (s *Server) Health() *Health {
	return s.health
}

// Run serves on addr until ctx is canceled, then shuts down gracefully.
func (s *Server) Run(ctx context.Context, addr string) error {
	httpServer := &http.Server{
		Addr:              addr,
		Handler:           s.mux,
		ReadHeaderTimeout: 10 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		slog.Info("http server listening", "addr", addr)
		errCh <- httpServer.ListenAndServe()
	}()

	select {
	case err := <-errCh:
		if errors.Is(err, http.ErrServerClosed) {
			return nil
		}
		return err
	case <-ctx.Done():
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()
	return httpServer.Shutdown(shutdownCtx)
}

func (s *Server) handleList(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, s.lib.List(r.Context()))
}

func (s *Server) handleBook(w http.ResponseWriter, r *http.Request) {
	record, ok := s.fetch(w, r)
	if !ok {
		return
	}
	writeJSON(w, http.StatusOK, record)
}

func (s *Server) handleAnalysis(w http.ResponseWriter, r *http.Request) {
	if s.analyzer == nil {
		writeError(w, http.StatusServiceUnavailable, "analysis_disabled", "no analysis provider is configured")
		return
	}

	record, ok := s.fetch(w, r)
	if !ok {
		return
	}

	result, err := s.analyzer.Analyze(r.Context(), record)
	if err != nil {
		slog.Error("analysis failed", "id", record.ID, "error", err)
		s.health.SetUnhealthy(componentAnalysis, err)
		writeError(w, http.StatusBadGateway, "analysis_failed", "the analysis provider returned an error")
		return
	}
	s.health.SetHealthy(componentAnalysis, "ok")

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusOK)
	w.Write(result.Raw)
}

func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	status := http.StatusOK
	if !s.health.IsOverallHealthy() {
		status = http.StatusServiceUnavailable
	}
	writeJSON(w, status, s.health.GetAllStatuses())
}

// fetch runs the pipeline for the {id} path value, writing the error
// response itself when it fails.
func (s *Server) fetch(w http.ResponseWriter, r *http.Request) (*cache.BookRecord, bool) {
	id := r.PathValue("id")

	record, err := s.lib.Fetch(r.Context(), id)
	if err != nil {
		slog.Error("fetch failed", "id", id, "error", err)
		if errors.Is(err, library.ErrFetch) {
			s.health.SetUnhealthy(componentCatalog, err)
			writeError(w, http.StatusBadGateway, "fetch_failed", "could not fetch book "+id)
			return nil, false
		}
		writeError(w, http.StatusInternalServerError, "internal", "could not store book "+id)
		return nil, false
	}

	s.health.SetHealthy(componentCatalog, "ok")
	return record, true
}

type errorBody struct {
	Error struct {
		Code    string `json:"code"`
		Message string `json:"message"`
	} `json:"error"`
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		slog.Warn("failed to write response", "error", err)
	}
}

func writeError(w http.ResponseWriter, status int, code, message string) {
	var body errorBody
	body.Error.Code = code
	body.Error.Message = message
	writeJSON(w, status, body)
}
