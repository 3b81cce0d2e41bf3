// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package server exposes the research pipeline over HTTP: a synchronous
// research endpoint, the run archive, a health check, and optional static
// frontend serving.
package server

import (
	"encoding/json"
	"errors"
	"net/http"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/rs/zerolog"

	"github.com/pdiddy/deep-research/internal/history"
	"github.com/pdiddy/deep-research/internal/pipeline"
	"github.com/pdiddy/deep-research/pkg/types"
)

// Server routes HTTP requests to the pipeline and the run archive. The
// archive is optional; without it the history endpoint reports 404.
type Server struct {
	orchestrator *pipeline.Orchestrator
	archive      *history.Store
	cfg          types.ServerConfig
	log          zerolog.Logger
	version      string
}

// New builds the HTTP server around its collaborators. archive may be nil.
func New(orchestrator *pipeline.Orchestrator, archive *history.Store, cfg types.ServerConfig, log zerolog.Logger, version string) *Server {
	return &Server{
		orchestrator: orchestrator,
		archive:      archive,
		cfg:          cfg,
		log:          log,
		version:      version,
	}
}

// Handler assembles the route table and middleware chain.
func (s *Server) Handler() http.Handler {
	mux := http.NewServeMux()
	mux.HandleFunc("POST /api/research", s.handleResearch)
	mux.HandleFunc("GET /api/history", s.handleHistory)
	mux.HandleFunc("GET /health", s.handleHealth)
	mux.HandleFunc("/", s.handleStatic)

	var h http.Handler = mux
	if s.cfg.RequestLogging {
		h = requestLogging(s.log, h)
	}
	h = cors(s.cfg.CORSOrigins, h)
	h = recovery(s.log, h)
	return h
}

// researchRequest mirrors the research endpoint's JSON body.
type researchRequest struct {
	Content       string   `json:"content"`
	SearchSources []string `json:"search_sources"`
}

// researchResponse is the composite result returned on success, including
// degraded runs where some backends failed.
type researchResponse struct {
	Content       string                   `json:"content"`
	Answer        *types.SynthesizedAnswer `json:"answer"`
	ResearchPlan  *types.ResearchPlan      `json:"research_plan"`
	SearchResults []types.SearchResult     `json:"search_results"`
	Stages        []types.StageResult      `json:"stages"`
}

// errorResponse is the structured error body. Stage is set when a pipeline
// stage failed, so callers can tell "no answer" from "answer with fewer
// sources".
type errorResponse struct {
	Detail string      `json:"detail"`
	Stage  types.Stage `json:"stage,omitempty"`
}

func (s *Server) handleResearch(w http.ResponseWriter, r *http.Request) {
	var req researchRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeJSON(w, http.StatusBadRequest, errorResponse{Detail: "invalid request body: " + err.Error()})
		return
	}

	result, err := s.orchestrator.Execute(r.Context(), req.Content, req.SearchSources)
	if err != nil {
		var invalid *pipeline.InvalidQueryError
		if errors.As(err, &invalid) {
			writeJSON(w, http.StatusBadRequest, errorResponse{Detail: invalid.Error()})
			return
		}
		var stageErr *pipeline.Error
		if errors.As(err, &stageErr) {
			s.log.Error().Err(err).Str("stage", string(stageErr.Stage)).Msg("research failed")
			writeJSON(w, http.StatusInternalServerError, errorResponse{
				Detail: stageErr.Error(),
				Stage:  stageErr.Stage,
			})
			return
		}
		s.log.Error().Err(err).Msg("research failed")
		writeJSON(w, http.StatusInternalServerError, errorResponse{Detail: err.Error()})
		return
	}

	if s.archive != nil {
		if err := s.archive.Save(r.Context(), result); err != nil {
			s.log.Warn().Err(err).Str("query_id", result.Query.ID).Msg("archiving run failed")
		}
	}

	writeJSON(w, http.StatusOK, researchResponse{
		Content:       result.Query.Text,
		Answer:        result.Answer,
		ResearchPlan:  result.Plan,
		SearchResults: result.Results,
		Stages:        result.Stages,
	})
}

func (s *Server) handleHistory(w http.ResponseWriter, r *http.Request) {
	if s.archive == nil {
		writeJSON(w, http.StatusNotFound, errorResponse{Detail: "history is not enabled"})
		return
	}

	limit := 0
	if v := r.URL.Query().Get("limit"); v != "" {
		n, err := strconv.Atoi(v)
		if err != nil || n < 0 {
			writeJSON(w, http.StatusBadRequest, errorResponse{Detail: "invalid limit"})
			return
		}
		limit = n
	}

	entries, err := s.archive.List(r.Context(), limit)
	if err != nil {
		s.log.Error().Err(err).Msg("listing history failed")
		writeJSON(w, http.StatusInternalServerError, errorResponse{Detail: "listing history failed"})
		return
	}
	if entries == nil {
		entries = []history.Entry{}
	}
	writeJSON(w, http.StatusOK, entries)
}

func (s *Server) handleHealth(w http.ResponseWriter, _ *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{
		"status":  "healthy",
		"service": "deep-research",
		"version": s.version,
	})
}

// handleStatic serves the frontend SPA: real files as-is, everything else
// falls back to index.html for client-side routing. API paths never reach
// here except as 404s.
func (s *Server) handleStatic(w http.ResponseWriter, r *http.Request) {
	if strings.HasPrefix(r.URL.Path, "/api/") {
		writeJSON(w, http.StatusNotFound, errorResponse{Detail: "not found"})
		return
	}
	if s.cfg.StaticDir == "" {
		writeJSON(w, http.StatusNotFound, errorResponse{Detail: "frontend not found"})
		return
	}

	requested := filepath.Join(s.cfg.StaticDir, filepath.Clean("/"+r.URL.Path))
	if info, err := os.Stat(requested); err == nil && !info.IsDir() {
		http.ServeFile(w, r, requested)
		return
	}

	index := filepath.Join(s.cfg.StaticDir, "index.html")
	if _, err := os.Stat(index); err != nil {
		writeJSON(w, http.StatusNotFound, errorResponse{Detail: "frontend not found"})
		return
	}
	http.ServeFile(w, r, index)
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(v)
}
