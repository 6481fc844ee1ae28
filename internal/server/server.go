// SPDX-License-Identifier: MIT
//
// Copyright 2026 Alberto Cavalcante. All rights reserved.
// Use of this source code is governed by a MIT-style license
// that can be found in the LICENSE file.

// Package server exposes generation over HTTP for long-lived processes
// that share one template cache across requests.
package server

import (
	"context"
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"
	"strconv"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"

	"github.com/albertocavalcante/glspgen/grammar"
	"github.com/albertocavalcante/glspgen/internal/config"
	"github.com/albertocavalcante/glspgen/internal/ctxlog"
	"github.com/albertocavalcante/glspgen/internal/langium"
	"github.com/albertocavalcante/glspgen/internal/output"
	"github.com/albertocavalcante/glspgen/orchestrator"
	"github.com/albertocavalcante/glspgen/plugin/history"
)

// maxBody bounds request bodies.
const maxBody = 4 << 20

// Server serves the generation API.
type Server struct {
	orch    *orchestrator.Orchestrator
	history *history.Store
	log     *slog.Logger
}

// Option configures a Server.
type Option func(*Server)

// WithHistory enables GET /v1/runs backed by store.
func WithHistory(store *history.Store) Option {
	return func(s *Server) { s.history = store }
}

// WithLogger sets the base request logger.
func WithLogger(log *slog.Logger) Option {
	return func(s *Server) { s.log = log }
}

// New creates a Server generating with o.
func New(o *orchestrator.Orchestrator, opts ...Option) *Server {
	s := &Server{orch: o, log: ctxlog.Discard()}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Routes returns the HTTP handler.
func (s *Server) Routes() http.Handler {
	r := chi.NewRouter()
	r.Use(middleware.RequestID)
	r.Use(s.logging)
	r.Use(middleware.Recoverer)

	r.Get("/healthz", func(w http.ResponseWriter, _ *http.Request) {
		writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
	})

	r.Route("/v1", func(r chi.Router) {
		r.Post("/generate", s.generate)
		r.Post("/validate", s.validate)
		r.Get("/templates", s.templates)
		r.Get("/cache", s.cacheStats)
		r.Post("/cache/clear", s.clearCache)
		r.Get("/runs", s.runs)
	})
	return r
}

// Run serves h on addr until ctx is done, then shuts down gracefully.
func Run(ctx context.Context, addr string, h http.Handler) error {
	srv := &http.Server{
		Addr:              addr,
		Handler:           h,
		ReadHeaderTimeout: 10 * time.Second,
	}
	errc := make(chan error, 1)
	go func() { errc <- srv.ListenAndServe() }()

	ctxlog.FromContext(ctx).Info("listening", "addr", addr)
	select {
	case err := <-errc:
		return err
	case <-ctx.Done():
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		if err := srv.Shutdown(shutdownCtx); err != nil {
			return err
		}
		if err := <-errc; !errors.Is(err, http.ErrServerClosed) {
			return err
		}
		return nil
	}
}

// logging attaches a request-scoped logger to the context and logs
// each completed request.
func (s *Server) logging(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		log := s.log.With("request", middleware.GetReqID(r.Context()))
		ww := middleware.NewWrapResponseWriter(w, r.ProtoMajor)
		next.ServeHTTP(ww, r.WithContext(ctxlog.WithLogger(r.Context(), log)))
		log.Info("request",
			"method", r.Method,
			"path", r.URL.Path,
			"status", ww.Status(),
			"duration", time.Since(start),
		)
	})
}

// GenerateRequest is the body of POST /v1/generate. Exactly one of
// Grammar and Model is used, Model first.
type GenerateRequest struct {
	// Grammar is Langium grammar source.
	Grammar string `json:"grammar,omitempty"`

	// Model is a pre-parsed grammar.
	Model *grammar.Grammar `json:"model,omitempty"`

	Config map[string]any `json:"config,omitempty"`

	// Format is "json" (default) or "txtar".
	Format string `json:"format,omitempty"`
}

// GeneratedFile is one file in a GenerateResponse.
type GeneratedFile struct {
	Path     string `json:"path"`
	Content  string `json:"content"`
	Encoding string `json:"encoding"`
}

// GenerateResponse reports a run.
type GenerateResponse struct {
	RunID    string          `json:"runId"`
	Phase    string          `json:"phase"`
	FailedIn string          `json:"failedIn,omitempty"`
	Files    []GeneratedFile `json:"files"`
	Errors   []string        `json:"errors"`
	Warnings []string        `json:"warnings"`
	Duration string          `json:"duration"`
}

func (s *Server) generate(w http.ResponseWriter, r *http.Request) {
	var req GenerateRequest
	if err := decodeJSON(w, r, &req); err != nil {
		writeError(w, http.StatusBadRequest, "INVALID_REQUEST", err.Error())
		return
	}
	if req.Grammar == "" && req.Model == nil {
		writeError(w, http.StatusBadRequest, "INVALID_REQUEST", "grammar or model is required")
		return
	}
	if req.Format != "" && req.Format != "json" && req.Format != "txtar" {
		writeError(w, http.StatusBadRequest, "INVALID_REQUEST", "format must be json or txtar")
		return
	}
	cfg, err := config.FromMap(req.Config)
	if err != nil {
		writeError(w, http.StatusBadRequest, "INVALID_CONFIG", err.Error())
		return
	}

	report := s.orch.Generate(r.Context(), orchestrator.Request{
		Grammar:       req.Model,
		GrammarSource: req.Grammar,
		Config:        cfg,
	})

	status := http.StatusOK
	if report.Failed() {
		status = http.StatusUnprocessableEntity
	}

	if req.Format == "txtar" {
		w.Header().Set("Content-Type", "text/plain; charset=utf-8")
		w.Header().Set("X-Run-Id", report.RunID)
		w.Header().Set("X-Run-Phase", string(report.Phase))
		w.WriteHeader(status)
		w.Write(output.Format("", report.Files))
		return
	}

	resp := GenerateResponse{
		RunID:    report.RunID,
		Phase:    string(report.Phase),
		FailedIn: string(report.FailedIn),
		Files:    make([]GeneratedFile, 0, len(report.Files)),
		Errors:   messages(report.Errors),
		Warnings: messages(report.Warnings),
		Duration: report.Duration.String(),
	}
	for _, f := range report.Files {
		resp.Files = append(resp.Files, GeneratedFile{Path: f.Path, Content: string(f.Content), Encoding: f.Encoding})
	}
	writeJSON(w, status, resp)
}

// ValidateRequest is the body of POST /v1/validate.
type ValidateRequest struct {
	Grammar string `json:"grammar"`
}

// ValidateResponse lists the structural errors and lint warnings of a
// grammar.
type ValidateResponse struct {
	Valid    bool     `json:"valid"`
	Errors   []string `json:"errors"`
	Warnings []string `json:"warnings"`
}

func (s *Server) validate(w http.ResponseWriter, r *http.Request) {
	var req ValidateRequest
	if err := decodeJSON(w, r, &req); err != nil {
		writeError(w, http.StatusBadRequest, "INVALID_REQUEST", err.Error())
		return
	}

	resp := ValidateResponse{Errors: []string{}, Warnings: []string{}}
	g, err := langium.ParseString(req.Grammar)
	if err != nil {
		resp.Errors = append(resp.Errors, err.Error())
		writeJSON(w, http.StatusOK, resp)
		return
	}
	resp.Errors = append(resp.Errors, messages(grammar.Validate(g))...)
	resp.Warnings = append(resp.Warnings, grammar.Lint(g)...)
	resp.Valid = len(resp.Errors) == 0
	writeJSON(w, http.StatusOK, resp)
}

func (s *Server) templates(w http.ResponseWriter, r *http.Request) {
	names, err := s.orch.Loader().List(r.URL.Query().Get("category"))
	if err != nil {
		ctxlog.FromContext(r.Context()).Error("list templates", "error", err)
		writeError(w, http.StatusInternalServerError, "INTERNAL_ERROR", "list templates failed")
		return
	}
	if names == nil {
		names = []string{}
	}
	writeJSON(w, http.StatusOK, map[string]any{"templates": names})
}

func (s *Server) cacheStats(w http.ResponseWriter, _ *http.Request) {
	writeJSON(w, http.StatusOK, s.orch.Cache().Stats())
}

func (s *Server) clearCache(w http.ResponseWriter, r *http.Request) {
	s.orch.Cache().Clear()
	ctxlog.FromContext(r.Context()).Info("template cache cleared")
	w.WriteHeader(http.StatusNoContent)
}

func (s *Server) runs(w http.ResponseWriter, r *http.Request) {
	if s.history == nil {
		writeError(w, http.StatusNotFound, "NOT_FOUND", "run history is not enabled")
		return
	}
	limit := 20
	if v := r.URL.Query().Get("limit"); v != "" {
		n, err := strconv.Atoi(v)
		if err != nil || n < 1 {
			writeError(w, http.StatusBadRequest, "INVALID_REQUEST", "limit must be a positive integer")
			return
		}
		limit = min(n, 100)
	}
	runs, err := s.history.List(r.Context(), limit)
	if err != nil {
		ctxlog.FromContext(r.Context()).Error("list runs", "error", err)
		writeError(w, http.StatusInternalServerError, "INTERNAL_ERROR", "list runs failed")
		return
	}
	if runs == nil {
		runs = []history.Run{}
	}
	writeJSON(w, http.StatusOK, map[string]any{"runs": runs})
}

func messages(errs []error) []string {
	out := make([]string, len(errs))
	for i, err := range errs {
		out[i] = err.Error()
	}
	return out
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(v)
}

func writeError(w http.ResponseWriter, status int, code, message string) {
	writeJSON(w, status, map[string]string{"error": message, "code": code})
}

func decodeJSON(w http.ResponseWriter, r *http.Request, v any) error {
	defer r.Body.Close()
	dec := json.NewDecoder(http.MaxBytesReader(w, r.Body, maxBody))
	dec.DisallowUnknownFields()
	return dec.Decode(v)
}
