package api

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/suryatmodulus/pg-replicate/pkg/sources"
)

// Server holds the API server state
type Server struct {
	store   *sources.Store
	config  ServerConfig
	metrics *Metrics
}

// NewServer creates a new API server
func NewServer(store *sources.Store, config ServerConfig, metrics *Metrics) *Server {
	return &Server{
		store:   store,
		config:  config,
		metrics: metrics,
	}
}

func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	s.metrics.RecordHealthCheck(true)
	sendSuccess(w, map[string]string{"status": "healthy"})
}

func (s *Server) handleCreateSource(w http.ResponseWriter, r *http.Request) {
	tenantID, err := extractTenantID(r)
	if err != nil {
		sendError(w, err.Error(), http.StatusBadRequest)
		return
	}

	var req CreateSourceRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		sendError(w, "Invalid request body", http.StatusBadRequest)
		return
	}
	if req.Name == "" {
		sendError(w, "Source name is required", http.StatusBadRequest)
		return
	}

	src, err := s.store.Create(tenantID, req.Name, req.Config)
	if err != nil {
		s.metrics.RecordSourceOperation("create", false)
		sendError(w, "internal server error", http.StatusInternalServerError)
		return
	}

	s.metrics.RecordSourceOperation("create", true)
	sendSuccess(w, map[string]string{"id": src.ID})
}

func (s *Server) handleGetSource(w http.ResponseWriter, r *http.Request) {
	tenantID, err := extractTenantID(r)
	if err != nil {
		sendError(w, err.Error(), http.StatusBadRequest)
		return
	}
	sourceID := chi.URLParam(r, "source_id")

	src, err := s.store.Get(tenantID, sourceID)
	if err != nil {
		s.metrics.RecordSourceOperation("get", false)
		sendSourceError(w, err)
		return
	}

	s.metrics.RecordSourceOperation("get", true)
	sendSuccess(w, toSourceResponse(src))
}

func (s *Server) handleListSources(w http.ResponseWriter, r *http.Request) {
	tenantID, err := extractTenantID(r)
	if err != nil {
		sendError(w, err.Error(), http.StatusBadRequest)
		return
	}

	srcs, err := s.store.List(tenantID)
	if err != nil {
		s.metrics.RecordSourceOperation("list", false)
		sendError(w, "internal server error", http.StatusInternalServerError)
		return
	}

	resp := ListSourcesResponse{Sources: []SourceResponse{}}
	for _, src := range srcs {
		resp.Sources = append(resp.Sources, toSourceResponse(src))
	}

	s.metrics.RecordSourceOperation("list", true)
	sendSuccess(w, resp)
}

func (s *Server) handleUpdateSource(w http.ResponseWriter, r *http.Request) {
	tenantID, err := extractTenantID(r)
	if err != nil {
		sendError(w, err.Error(), http.StatusBadRequest)
		return
	}
	sourceID := chi.URLParam(r, "source_id")

	var req UpdateSourceRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		sendError(w, "Invalid request body", http.StatusBadRequest)
		return
	}
	if req.Name == "" {
		sendError(w, "Source name is required", http.StatusBadRequest)
		return
	}

	src, err := s.store.Update(tenantID, sourceID, req.Name, req.Config)
	if err != nil {
		s.metrics.RecordSourceOperation("update", false)
		sendSourceError(w, err)
		return
	}

	s.metrics.RecordSourceOperation("update", true)
	sendSuccess(w, toSourceResponse(src))
}

func (s *Server) handleDeleteSource(w http.ResponseWriter, r *http.Request) {
	tenantID, err := extractTenantID(r)
	if err != nil {
		sendError(w, err.Error(), http.StatusBadRequest)
		return
	}
	sourceID := chi.URLParam(r, "source_id")

	if err := s.store.Delete(tenantID, sourceID); err != nil {
		s.metrics.RecordSourceOperation("delete", false)
		sendSourceError(w, err)
		return
	}

	s.metrics.RecordSourceOperation("delete", true)
	sendSuccess(w, map[string]string{"id": sourceID})
}

// sendSourceError maps store errors to HTTP statuses without leaking
// internal database details to callers.
func sendSourceError(w http.ResponseWriter, err error) {
	var notFound *sources.NotFoundError
	if errors.As(err, &notFound) {
		sendError(w, notFound.Error(), http.StatusNotFound)
		return
	}
	sendError(w, "internal server error", http.StatusInternalServerError)
}
