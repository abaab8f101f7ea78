// Package server exposes document inspection and check runs over HTTP.
package server

import (
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"
	"strconv"
	"time"

	"github.com/chrisuehlinger/selectron/check"
	"github.com/chrisuehlinger/selectron/inspect"
	"github.com/chrisuehlinger/selectron/network"
	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
)

// Server is the HTTP API server. Documents are named by the same references
// the command line accepts, so local paths are read with the permissions of
// the process.
type Server struct {
	router       chi.Router
	loader       *network.DocumentLoader
	log          *slog.Logger
	checkTimeout time.Duration
}

// NewServer creates and configures the HTTP server. checkTimeout bounds each
// check run; zero keeps the runner's default.
func NewServer(loader *network.DocumentLoader, log *slog.Logger, checkTimeout time.Duration) *Server {
	if log == nil {
		log = slog.New(slog.DiscardHandler)
	}
	s := &Server{
		loader:       loader,
		log:          log,
		checkTimeout: checkTimeout,
	}
	s.setupRoutes()
	return s
}

func (s *Server) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	s.router.ServeHTTP(w, r)
}

func (s *Server) setupRoutes() {
	r := chi.NewRouter()
	r.Use(middleware.Recoverer)
	r.Use(middleware.RequestID)
	r.Use(RequestLogger(s.log))

	r.Get("/health", s.handleHealth)
	r.Get("/api/inspect/{op}", s.handleInspect)
	r.Post("/api/check", s.handleCheck)

	s.router = r
}

func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "application/json")
	w.Write([]byte(`{"status":"ok"}`))
}

// handleInspect runs one inspection. The query carries the document and the
// selection: file, scope, start, end, ref, offset, selector, partly and
// count_all.
func (s *Server) handleInspect(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()
	req := inspect.Request{
		File:     q.Get("file"),
		Op:       chi.URLParam(r, "op"),
		Scope:    q.Get("scope"),
		Start:    q.Get("start"),
		End:      q.Get("end"),
		Ref:      q.Get("ref"),
		Selector: q.Get("selector"),
		Partly:   true,
	}
	if req.File == "" {
		jsonError(w, "file query parameter is required", http.StatusBadRequest)
		return
	}

	var err error
	if v := q.Get("offset"); v != "" {
		if req.Offset, err = strconv.Atoi(v); err != nil {
			jsonError(w, "invalid offset: "+v, http.StatusBadRequest)
			return
		}
	}
	if v := q.Get("partly"); v != "" {
		if req.Partly, err = strconv.ParseBool(v); err != nil {
			jsonError(w, "invalid partly: "+v, http.StatusBadRequest)
			return
		}
	}
	if v := q.Get("count_all"); v != "" {
		if req.CountAll, err = strconv.ParseBool(v); err != nil {
			jsonError(w, "invalid count_all: "+v, http.StatusBadRequest)
			return
		}
	}

	out, err := inspect.Do(r.Context(), s.loader, req, s.log)
	if err != nil {
		code := http.StatusBadRequest
		if errors.Is(err, inspect.ErrUnknownOperation) {
			code = http.StatusNotFound
		}
		jsonError(w, err.Error(), code)
		return
	}
	writeJSON(w, out)
}

type checkRequest struct {
	File    string   `json:"file"`
	Scripts []string `json:"scripts"`
}

// handleCheck runs check scripts against a document and returns the suite.
// Failing checks are reported in the body, not as an HTTP error.
func (s *Server) handleCheck(w http.ResponseWriter, r *http.Request) {
	var req checkRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		jsonError(w, "invalid request body: "+err.Error(), http.StatusBadRequest)
		return
	}
	if req.File == "" {
		jsonError(w, "file is required", http.StatusBadRequest)
		return
	}

	runner := check.NewRunner(s.loader, s.log)
	if s.checkTimeout > 0 {
		runner.Timeout = s.checkTimeout
	}
	result := runner.RunFile(r.Context(), req.File, req.Scripts...)
	s.log.Info("check run",
		"request_id", middleware.GetReqID(r.Context()),
		"file", req.File,
		"status", result.HarnessStatus,
		"tests", len(result.Tests),
	)
	writeJSON(w, result.JSON())
}

func writeJSON(w http.ResponseWriter, v any) {
	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(v)
}

func jsonError(w http.ResponseWriter, msg string, code int) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(code)
	json.NewEncoder(w).Encode(map[string]string{"error": msg})
}
