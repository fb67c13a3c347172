// Package web serves the catalog query and state services over HTTP.
package web

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"strconv"
	"strings"

	"catalog-cli/internal/catalog"
	"catalog-cli/internal/model"
	"catalog-cli/internal/query"
	"catalog-cli/internal/store"

	"github.com/golang/glog"
)

// maxStateBody bounds POST /state. A reorder pins every loaded row, so sortedIds can get long.
const maxStateBody = 8 << 20

type ServerConfig struct {
	Catalog *catalog.Store
	State   *store.State

	// PageSize is the limit used when a request omits it.
	PageSize int
}

type Server struct {
	query    *query.Service
	state    *store.State
	pageSize int
	landing  []byte
}

func NewServer(cfg ServerConfig) (*Server, error) {
	if cfg.Catalog == nil {
		return nil, errors.New("web: catalog is nil")
	}
	if cfg.State == nil {
		return nil, errors.New("web: state is nil")
	}
	if cfg.PageSize <= 0 {
		cfg.PageSize = model.DefaultPageSize
	}
	landing, err := renderLanding()
	if err != nil {
		return nil, err
	}
	return &Server{
		query:    query.NewService(cfg.Catalog, cfg.State),
		state:    cfg.State,
		pageSize: cfg.PageSize,
		landing:  landing,
	}, nil
}

func (s *Server) Handler() http.Handler {
	mux := http.NewServeMux()

	mux.HandleFunc("GET /{$}", s.handleIndex)
	mux.HandleFunc("GET /health", s.handleHealth)
	mux.HandleFunc("GET /items", s.handleListItems)
	mux.HandleFunc("GET /items/{id}", s.handleGetItem)
	mux.HandleFunc("GET /state", s.handleGetState)
	mux.HandleFunc("POST /state", s.handleSetState)

	return withCORS(withRequestID(withAccessLog(mux)))
}

func (s *Server) handleIndex(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	_, _ = w.Write(s.landing)
}

func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "text/plain; charset=utf-8")
	_, _ = w.Write([]byte("ok"))
}

func (s *Server) handleListItems(w http.ResponseWriter, r *http.Request) {
	qv := r.URL.Query()

	offset, err := intParam(qv.Get("offset"), 0)
	if err != nil {
		writeError(w, http.StatusBadRequest, "invalid offset")
		return
	}
	limit, err := intParam(qv.Get("limit"), s.pageSize)
	if err != nil || limit < 0 {
		writeError(w, http.StatusBadRequest, "invalid limit")
		return
	}

	items, err := s.query.List(r.Context(), qv.Get("q"), offset, limit)
	if err != nil {
		s.internalError(w, r, "list items", err)
		return
	}
	writeJSON(w, http.StatusOK, items)
}

func (s *Server) handleGetItem(w http.ResponseWriter, r *http.Request) {
	id, err := strconv.Atoi(r.PathValue("id"))
	if err != nil {
		writeError(w, http.StatusBadRequest, "invalid id")
		return
	}
	it, err := s.query.Lookup(id)
	if errors.Is(err, catalog.ErrNotFound) {
		writeError(w, http.StatusNotFound, "not found")
		return
	}
	if err != nil {
		s.internalError(w, r, "get item", err)
		return
	}
	writeJSON(w, http.StatusOK, it)
}

func (s *Server) handleGetState(w http.ResponseWriter, r *http.Request) {
	ov, err := s.state.Get(r.Context())
	if err != nil {
		s.internalError(w, r, "get state", err)
		return
	}
	writeJSON(w, http.StatusOK, ov)
}

func (s *Server) handleSetState(w http.ResponseWriter, r *http.Request) {
	var ov model.Overlay
	dec := json.NewDecoder(http.MaxBytesReader(w, r.Body, maxStateBody))
	if err := dec.Decode(&ov); err != nil {
		writeError(w, http.StatusBadRequest, "invalid json")
		return
	}
	if _, err := s.state.Set(r.Context(), ov); err != nil {
		s.internalError(w, r, "set state", err)
		return
	}
	w.Header().Set("Content-Type", "text/plain; charset=utf-8")
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write([]byte("OK"))
}

func (s *Server) internalError(w http.ResponseWriter, r *http.Request, op string, err error) {
	if errors.Is(err, context.Canceled) {
		return
	}
	glog.Errorf("[%s] %s: %v", RequestIDFromContext(r.Context()), op, err)
	writeError(w, http.StatusInternalServerError, "internal error")
}

func intParam(raw string, def int) (int, error) {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return def, nil
	}
	return strconv.Atoi(raw)
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		glog.V(1).Infof("write response: %v", err)
	}
}

func writeError(w http.ResponseWriter, status int, msg string) {
	writeJSON(w, status, map[string]string{"error": msg})
}
