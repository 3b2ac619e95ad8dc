// internal/httpserver/routes_puzzle.go
//
// HTTP routes for playing a puzzle.
//   - POST /puzzle/new     → build a puzzle, open a session, issue its token
//   - GET  /puzzle         → current view
//   - POST /puzzle/select  → confirm a straight-line selection
//   - POST /puzzle/reveal  → locate and mark every remaining word
//   - POST /puzzle/restart → rebuild grid and state with fresh randomness
//   - POST /puzzle/end     → drop the session and its cookie
//
// "daily" mode seeds the first build from the date so every player gets the
// same grid for the day; restarts are always random.

package httpserver

import (
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/rs/zerolog/hlog"

	"github.com/robalobadob/wordsearch/internal/catalog"
	"github.com/robalobadob/wordsearch/internal/config"
	"github.com/robalobadob/wordsearch/internal/daily"
	"github.com/robalobadob/wordsearch/internal/puzzle"
	"github.com/robalobadob/wordsearch/internal/store"
	"github.com/robalobadob/wordsearch/internal/words"
)

// maxWords caps ad-hoc word lists sent with /puzzle/new.
const maxWords = 50

// mountPuzzle registers all /puzzle routes except the websocket.
func (s *Server) mountPuzzle(r chi.Router) {
	r.Post("/puzzle/new", s.handleNew)
	r.Group(func(r chi.Router) {
		r.Use(s.withSession())
		r.Get("/puzzle", s.handleView)
		r.Post("/puzzle/select", s.handleSelect)
		r.Post("/puzzle/reveal", s.handleReveal)
		r.Post("/puzzle/restart", s.handleRestart)
		r.Post("/puzzle/end", s.handleEnd)
	})
}

// -----------------------------------------------------------------------------
// views

type wordView struct {
	Display string `json:"display"`
	Key     string `json:"key"`
	Length  int    `json:"length"`
	Found   bool   `json:"found"`
}

// puzzleView is what the UI renders: grid rows, word list and progress.
type puzzleView struct {
	Mode       string                 `json:"mode"`
	Date       string                 `json:"date,omitempty"`
	Size       int                    `json:"size"`
	Rows       []string               `json:"rows"`
	Words      []wordView             `json:"words"`
	Found      int                    `json:"found"`
	Total      int                    `json:"total"`
	Complete   bool                   `json:"complete"`
	Done       bool                   `json:"done"`
	Revealed   bool                   `json:"revealed"`
	FoundPaths map[string]puzzle.Path `json:"foundPaths"`
	Unplaced   []string               `json:"unplaced,omitempty"`
}

// viewOf snapshots sess. The caller holds the session lock.
func viewOf(sess *store.Session) puzzleView {
	p := sess.Puzzle
	found, total := p.Progress()
	v := puzzleView{
		Mode:       sess.Mode,
		Date:       sess.Date,
		Size:       p.Grid.Size(),
		Rows:       p.Grid.Rows(),
		Words:      make([]wordView, 0, len(p.Words)),
		Found:      found,
		Total:      total,
		Complete:   p.Complete(),
		Done:       p.Done(),
		Revealed:   p.Revealed,
		FoundPaths: make(map[string]puzzle.Path, len(p.FoundPaths)),
	}
	for _, w := range p.Words {
		v.Words = append(v.Words, wordView{Display: w.Display, Key: w.Key, Length: len(w.Key), Found: p.State[w.Key]})
	}
	for k, path := range p.FoundPaths {
		v.FoundPaths[k] = path
	}
	for _, w := range p.Failed {
		v.Unplaced = append(v.Unplaced, w.Key)
	}
	return v
}

// -----------------------------------------------------------------------------
// /puzzle/new

type newPuzzleReq struct {
	Mode   string   `json:"mode"`   // "normal" | "daily"
	Size   int      `json:"size"`   // 0 → configured default
	ListID string   `json:"listId"` // catalog list to draw words from
	Words  []string `json:"words"`  // ad-hoc display words, wins over listId
}

type newPuzzleRes struct {
	GameID    string     `json:"gameId"`
	Token     string     `json:"token"`
	ExpiresAt time.Time  `json:"expiresAt"`
	View      puzzleView `json:"view"`
}

// handleNew builds a puzzle from the requested words and opens a session.
func (s *Server) handleNew(w http.ResponseWriter, r *http.Request) {
	var req newPuzzleReq
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil && !errors.Is(err, io.EOF) {
		jsonError(w, "bad_json", http.StatusBadRequest)
		return
	}

	size := req.Size
	if size == 0 {
		size = s.cfg.GridSize
	}
	if size < config.MinGridSize || size > config.MaxGridSize {
		jsonError(w, "invalid_size", http.StatusBadRequest)
		return
	}

	ws, listID, status, code := s.resolveWords(r, req)
	if code != "" {
		jsonError(w, code, status)
		return
	}

	sess := &store.Session{ID: genID(), ListID: listID}
	rng := puzzle.RandomRand()
	switch req.Mode {
	case "", store.ModeNormal:
		sess.Mode = store.ModeNormal
	case store.ModeDaily:
		now := s.now()
		sess.Mode = store.ModeDaily
		sess.Date = daily.DateKey(now)
		rng = puzzle.NewRand(daily.Seed(now, s.cfg.DailySalt))
	default:
		jsonError(w, "invalid_mode", http.StatusBadRequest)
		return
	}
	sess.Puzzle = puzzle.New(rng, size, ws)

	if err := s.store.Save(r.Context(), sess); err != nil {
		hlog.FromRequest(r).Error().Err(err).Msg("save session")
		jsonError(w, "save_failed", http.StatusInternalServerError)
		return
	}
	tok, exp, err := s.signToken(sess.ID)
	if err != nil {
		hlog.FromRequest(r).Error().Err(err).Msg("sign token")
		jsonError(w, "sign_failed", http.StatusInternalServerError)
		return
	}
	s.setSessionCookie(w, tok, exp)

	hlog.FromRequest(r).Info().
		Str("gameId", sess.ID).
		Str("mode", sess.Mode).
		Int("size", size).
		Int("words", len(ws)).
		Int("unplaced", len(sess.Puzzle.Failed)).
		Msg("puzzle created")

	writeJSON(w, http.StatusOK, newPuzzleRes{GameID: sess.ID, Token: tok, ExpiresAt: exp, View: viewOf(sess)})
}

// resolveWords picks the word set for a new puzzle: ad-hoc words, a catalog
// list, or the default list. On failure code is a non-empty error code.
func (s *Server) resolveWords(r *http.Request, req newPuzzleReq) (ws []puzzle.Word, listID string, status int, code string) {
	switch {
	case len(req.Words) > 0:
		if len(req.Words) > maxWords {
			return nil, "", http.StatusBadRequest, "too_many_words"
		}
		adhoc, skipped := words.Normalize(req.Words)
		if len(skipped) > 0 {
			return nil, "", http.StatusBadRequest, "invalid_word"
		}
		return adhoc, "", 0, ""

	case req.ListID != "":
		if s.catalog == nil {
			return nil, "", http.StatusServiceUnavailable, "catalog_unavailable"
		}
		l, err := s.catalog.Get(r.Context(), req.ListID)
		if errors.Is(err, catalog.ErrNotFound) {
			return nil, "", http.StatusNotFound, "list_not_found"
		}
		if err != nil {
			hlog.FromRequest(r).Error().Err(err).Str("listId", req.ListID).Msg("load word list")
			return nil, "", http.StatusInternalServerError, "db_error"
		}
		return l.PuzzleWords(), l.ID, 0, ""
	}
	if len(s.words) == 0 {
		return nil, "", http.StatusServiceUnavailable, "no_words"
	}
	return s.words, "", 0, ""
}

// -----------------------------------------------------------------------------
// session-gated routes

func (s *Server) handleView(w http.ResponseWriter, r *http.Request) {
	sess := sessionFrom(r.Context())
	sess.Lock()
	v := viewOf(sess)
	sess.Unlock()
	writeJSON(w, http.StatusOK, v)
}

type selectReq struct {
	Path puzzle.Path `json:"path"`
}

type selectRes struct {
	Match *puzzle.Word `json:"match"` // null when the selection spells no word
	View  puzzleView   `json:"view"`
}

// handleSelect confirms a selection. The path must be a straight line inside
// the grid; anything else is rejected before matching.
func (s *Server) handleSelect(w http.ResponseWriter, r *http.Request) {
	var req selectReq
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		jsonError(w, "bad_json", http.StatusBadRequest)
		return
	}
	sess := sessionFrom(r.Context())
	sess.Lock()
	defer sess.Unlock()

	if !validPath(sess.Puzzle.Grid, req.Path) {
		jsonError(w, "invalid_path", http.StatusBadRequest)
		return
	}
	res := selectRes{}
	if word, ok := sess.Puzzle.Confirm(req.Path); ok {
		res.Match = &word
		hlog.FromRequest(r).Debug().Str("gameId", sess.ID).Str("word", word.Key).Msg("word found")
	}
	res.View = viewOf(sess)
	writeJSON(w, http.StatusOK, res)
}

// validPath reports whether p is a straight run fully inside g.
func validPath(g *puzzle.Grid, p puzzle.Path) bool {
	if !p.IsLine() {
		return false
	}
	for _, c := range p {
		if !g.InBounds(c.Row, c.Col) {
			return false
		}
	}
	return true
}

type revealRes struct {
	Revealed []puzzle.Revelation `json:"revealed"`
	View     puzzleView          `json:"view"`
}

func (s *Server) handleReveal(w http.ResponseWriter, r *http.Request) {
	sess := sessionFrom(r.Context())
	sess.Lock()
	defer sess.Unlock()

	revealed := sess.Puzzle.Reveal()
	if revealed == nil {
		revealed = []puzzle.Revelation{}
	}
	writeJSON(w, http.StatusOK, revealRes{Revealed: revealed, View: viewOf(sess)})
}

func (s *Server) handleRestart(w http.ResponseWriter, r *http.Request) {
	sess := sessionFrom(r.Context())
	sess.Lock()
	defer sess.Unlock()

	sess.Puzzle.Restart(puzzle.RandomRand())
	hlog.FromRequest(r).Info().Str("gameId", sess.ID).Msg("puzzle restarted")
	writeJSON(w, http.StatusOK, viewOf(sess))
}

func (s *Server) handleEnd(w http.ResponseWriter, r *http.Request) {
	sess := sessionFrom(r.Context())
	if err := s.store.Delete(r.Context(), sess.ID); err != nil {
		hlog.FromRequest(r).Warn().Err(err).Str("gameId", sess.ID).Msg("delete session")
	}
	s.clearSessionCookie(w)
	writeJSON(w, http.StatusOK, map[string]bool{"ok": true})
}
