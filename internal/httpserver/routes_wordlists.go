// internal/httpserver/routes_wordlists.go
//
// Word list catalog routes.
//   - GET  /wordlists           → list metadata, newest first
//   - GET  /wordlists/{id}      → one list with its words
//   - POST /wordlists           → store a list {name, words}
//   - POST /wordlists/generate  → ask the generator for a themed list and store it

package httpserver

import (
	"encoding/json"
	"errors"
	"net/http"
	"strings"

	"github.com/go-chi/chi/v5"
	"github.com/rs/zerolog/hlog"

	"github.com/robalobadob/wordsearch/internal/catalog"
)

const (
	maxThemeLen   = 60
	defaultGenLen = 8
	maxGenCount   = 30
)

func (s *Server) mountWordLists(r chi.Router) {
	r.Route("/wordlists", func(r chi.Router) {
		r.Get("/", s.handleListWordLists)
		r.Post("/", s.handleCreateWordList)
		r.Post("/generate", s.handleGenerateWordList)
		r.Get("/{id}", s.handleGetWordList)
	})
}

func (s *Server) handleListWordLists(w http.ResponseWriter, r *http.Request) {
	if s.catalog == nil {
		jsonError(w, "catalog_unavailable", http.StatusServiceUnavailable)
		return
	}
	metas, err := s.catalog.List(r.Context())
	if err != nil {
		hlog.FromRequest(r).Error().Err(err).Msg("list word lists")
		jsonError(w, "db_error", http.StatusInternalServerError)
		return
	}
	writeJSON(w, http.StatusOK, metas)
}

func (s *Server) handleGetWordList(w http.ResponseWriter, r *http.Request) {
	if s.catalog == nil {
		jsonError(w, "catalog_unavailable", http.StatusServiceUnavailable)
		return
	}
	l, err := s.catalog.Get(r.Context(), chi.URLParam(r, "id"))
	if errors.Is(err, catalog.ErrNotFound) {
		jsonError(w, "list_not_found", http.StatusNotFound)
		return
	}
	if err != nil {
		hlog.FromRequest(r).Error().Err(err).Msg("get word list")
		jsonError(w, "db_error", http.StatusInternalServerError)
		return
	}
	writeJSON(w, http.StatusOK, l)
}

type createListReq struct {
	Name  string   `json:"name"`
	Words []string `json:"words"`
}

func (s *Server) handleCreateWordList(w http.ResponseWriter, r *http.Request) {
	if s.catalog == nil {
		jsonError(w, "catalog_unavailable", http.StatusServiceUnavailable)
		return
	}
	var req createListReq
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		jsonError(w, "bad_json", http.StatusBadRequest)
		return
	}
	if len(req.Words) > maxWords {
		jsonError(w, "too_many_words", http.StatusBadRequest)
		return
	}
	s.storeList(w, r, req.Name, catalog.SourceManual, req.Words)
}

type generateReq struct {
	Theme string `json:"theme"`
	Count int    `json:"count"`
}

// handleGenerateWordList asks the generator for themed words no longer than
// the default grid and stores them under the theme as name.
func (s *Server) handleGenerateWordList(w http.ResponseWriter, r *http.Request) {
	if s.catalog == nil || s.gen == nil {
		jsonError(w, "generator_unavailable", http.StatusServiceUnavailable)
		return
	}
	if !s.genLimit.allow(r.RemoteAddr) {
		jsonError(w, "rate_limited", http.StatusTooManyRequests)
		return
	}
	var req generateReq
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		jsonError(w, "bad_json", http.StatusBadRequest)
		return
	}
	req.Theme = strings.TrimSpace(req.Theme)
	if req.Theme == "" || len(req.Theme) > maxThemeLen {
		jsonError(w, "invalid_theme", http.StatusBadRequest)
		return
	}
	if req.Count == 0 {
		req.Count = defaultGenLen
	}
	if req.Count < 0 || req.Count > maxGenCount {
		jsonError(w, "invalid_count", http.StatusBadRequest)
		return
	}

	displays, err := s.gen.GenerateWords(r.Context(), req.Theme, req.Count, s.cfg.GridSize)
	if err != nil {
		hlog.FromRequest(r).Error().Err(err).Str("theme", req.Theme).Msg("generate words")
		jsonError(w, "generation_failed", http.StatusBadGateway)
		return
	}
	hlog.FromRequest(r).Info().Str("theme", req.Theme).Int("words", len(displays)).Msg("words generated")
	s.storeList(w, r, req.Theme, catalog.SourceGenerated, displays)
}

// storeList creates a catalog entry and maps catalog errors onto responses.
func (s *Server) storeList(w http.ResponseWriter, r *http.Request, name, source string, displays []string) {
	l, err := s.catalog.Create(r.Context(), name, source, displays)
	switch {
	case err == nil:
		writeJSON(w, http.StatusCreated, l)
	case errors.Is(err, catalog.ErrDuplicate):
		jsonError(w, "duplicate_name", http.StatusConflict)
	case errors.Is(err, catalog.ErrInvalidName):
		jsonError(w, "invalid_name", http.StatusBadRequest)
	case errors.Is(err, catalog.ErrInvalidWord):
		jsonError(w, "invalid_word", http.StatusBadRequest)
	case errors.Is(err, catalog.ErrEmptyList):
		jsonError(w, "empty_list", http.StatusBadRequest)
	default:
		hlog.FromRequest(r).Error().Err(err).Msg("create word list")
		jsonError(w, "db_error", http.StatusInternalServerError)
	}
}
