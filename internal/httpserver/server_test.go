package httpserver

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/robalobadob/wordsearch/internal/catalog"
	"github.com/robalobadob/wordsearch/internal/config"
	"github.com/robalobadob/wordsearch/internal/puzzle"
	"github.com/robalobadob/wordsearch/internal/store"
	"github.com/robalobadob/wordsearch/internal/words"
)

func testConfig() config.Config {
	return config.Config{
		GridSize:     10,
		JWTSecret:    "test_secret",
		SessionTTL:   time.Hour,
		CookieName:   "ws_test",
		ClientOrigin: "http://localhost:5173",
		DailySalt:    "test_salt",
	}
}

func testWords(t *testing.T, displays ...string) []puzzle.Word {
	t.Helper()
	ws, skipped := words.Normalize(displays)
	require.Empty(t, skipped)
	return ws
}

func newTestServer(t *testing.T, d Deps) *Server {
	t.Helper()
	if d.Store == nil {
		d.Store = store.NewMemoryStore()
	}
	if d.Words == nil {
		d.Words = testWords(t, "cat", "dog", "bird")
	}
	return New(testConfig(), d)
}

func newTestCatalog(t *testing.T) *catalog.Store {
	t.Helper()
	db, err := catalog.Open("file:" + t.Name() + "?mode=memory&cache=shared")
	require.NoError(t, err)
	t.Cleanup(func() { _ = db.Close() })
	require.NoError(t, catalog.Migrate(db))
	return catalog.NewStore(db)
}

// do sends a request through the router; token, when set, goes in the
// Authorization header.
func do(t *testing.T, srv *Server, method, path, body, token string) *httptest.ResponseRecorder {
	t.Helper()
	req := httptest.NewRequest(method, path, strings.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	w := httptest.NewRecorder()
	srv.Router().ServeHTTP(w, req)
	return w
}

func decode[T any](t *testing.T, w *httptest.ResponseRecorder) T {
	t.Helper()
	var v T
	require.NoError(t, json.NewDecoder(w.Body).Decode(&v), w.Body.String())
	return v
}

func errorCode(t *testing.T, w *httptest.ResponseRecorder) string {
	t.Helper()
	return decode[map[string]string](t, w)["error"]
}

func newGame(t *testing.T, srv *Server, body string) newPuzzleRes {
	t.Helper()
	w := do(t, srv, http.MethodPost, "/puzzle/new", body, "")
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())
	return decode[newPuzzleRes](t, w)
}

func placement(t *testing.T, srv *Server, gameID, key string) puzzle.Path {
	t.Helper()
	sess, err := srv.store.Get(context.Background(), gameID)
	require.NoError(t, err)
	p, ok := sess.Puzzle.Placements[key]
	require.True(t, ok, "word %s not placed", key)
	return p
}

func pathJSON(t *testing.T, p puzzle.Path) string {
	t.Helper()
	b, err := json.Marshal(selectReq{Path: p})
	require.NoError(t, err)
	return string(b)
}

func TestDiagnostics(t *testing.T) {
	srv := newTestServer(t, Deps{})

	w := do(t, srv, http.MethodGet, "/health", "", "")
	assert.Equal(t, http.StatusOK, w.Code)
	assert.JSONEq(t, `{"ok":true}`, w.Body.String())

	w = do(t, srv, http.MethodGet, "/nope", "", "")
	assert.Equal(t, http.StatusNotFound, w.Code)
	assert.Equal(t, "not_found", errorCode(t, w))

	w = do(t, srv, http.MethodOptions, "/puzzle/new", "", "")
	assert.Equal(t, http.StatusNoContent, w.Code)
	assert.Equal(t, "http://localhost:5173", w.Header().Get("Access-Control-Allow-Origin"))
	assert.Equal(t, "true", w.Header().Get("Access-Control-Allow-Credentials"))
}

func TestNewPuzzle(t *testing.T) {
	srv := newTestServer(t, Deps{})

	w := do(t, srv, http.MethodPost, "/puzzle/new", "", "")
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())

	var cookie *http.Cookie
	for _, c := range w.Result().Cookies() {
		if c.Name == "ws_test" {
			cookie = c
		}
	}
	require.NotNil(t, cookie)
	assert.True(t, cookie.HttpOnly)

	res := decode[newPuzzleRes](t, w)
	assert.NotEmpty(t, res.GameID)
	assert.Equal(t, cookie.Value, res.Token)
	assert.True(t, res.ExpiresAt.After(time.Now()))

	v := res.View
	assert.Equal(t, store.ModeNormal, v.Mode)
	assert.Equal(t, 10, v.Size)
	require.Len(t, v.Rows, 10)
	for _, row := range v.Rows {
		assert.Len(t, row, 10)
		assert.NotContains(t, row, ".")
	}
	assert.Equal(t, 3, v.Total)
	assert.Equal(t, 0, v.Found)
	assert.False(t, v.Complete)
	assert.False(t, v.Done)
	assert.Empty(t, v.FoundPaths)
	// longest first is a build detail; the view keeps display order
	assert.Equal(t, "cat", v.Words[0].Display)
	assert.Equal(t, 4, v.Words[2].Length)
}

func TestNewPuzzleOptions(t *testing.T) {
	srv := newTestServer(t, Deps{})

	res := newGame(t, srv, `{"size":6,"words":["Kissy Missy","ox"]}`)
	assert.Equal(t, 6, res.View.Size)
	require.Len(t, res.View.Words, 2)
	assert.Equal(t, "KISSYMISSY", res.View.Words[0].Key)
	// a 10-letter word cannot fit a 6x6 grid
	assert.Equal(t, []string{"KISSYMISSY"}, res.View.Unplaced)

	cases := []struct {
		name, body, code string
		status           int
	}{
		{"bad json", `{"size":`, "bad_json", http.StatusBadRequest},
		{"too small", `{"size":3}`, "invalid_size", http.StatusBadRequest},
		{"too big", `{"size":31}`, "invalid_size", http.StatusBadRequest},
		{"bad word", `{"words":["r2d2"]}`, "invalid_word", http.StatusBadRequest},
		{"bad mode", `{"mode":"timed"}`, "invalid_mode", http.StatusBadRequest},
		{"no catalog", `{"listId":"abc"}`, "catalog_unavailable", http.StatusServiceUnavailable},
		{"too many", `{"words":[` + strings.Repeat(`"cat",`, maxWords) + `"dog"]}`, "too_many_words", http.StatusBadRequest},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			w := do(t, srv, http.MethodPost, "/puzzle/new", tc.body, "")
			assert.Equal(t, tc.status, w.Code)
			assert.Equal(t, tc.code, errorCode(t, w))
		})
	}
}

func TestDailyPuzzleIsSharedForTheDay(t *testing.T) {
	srv := newTestServer(t, Deps{})
	srv.now = func() time.Time { return time.Date(2026, 3, 14, 9, 0, 0, 0, time.UTC) }

	a := newGame(t, srv, `{"mode":"daily"}`)
	b := newGame(t, srv, `{"mode":"daily"}`)
	assert.NotEqual(t, a.GameID, b.GameID)
	assert.Equal(t, "daily", a.View.Mode)
	assert.Equal(t, "2026-03-14", a.View.Date)
	assert.Equal(t, a.View.Rows, b.View.Rows)

	srv.now = func() time.Time { return time.Date(2026, 3, 15, 9, 0, 0, 0, time.UTC) }
	c := newGame(t, srv, `{"mode":"daily"}`)
	assert.NotEqual(t, a.View.Rows, c.View.Rows)
}

func TestSessionRequired(t *testing.T) {
	srv := newTestServer(t, Deps{})

	w := do(t, srv, http.MethodGet, "/puzzle", "", "")
	assert.Equal(t, http.StatusUnauthorized, w.Code)
	assert.Equal(t, "no_session", errorCode(t, w))

	w = do(t, srv, http.MethodGet, "/puzzle", "", "not-a-jwt")
	assert.Equal(t, http.StatusUnauthorized, w.Code)
	assert.Equal(t, "invalid_token", errorCode(t, w))

	ghost, _, err := srv.signToken("ghost")
	require.NoError(t, err)
	w = do(t, srv, http.MethodGet, "/puzzle", "", ghost)
	assert.Equal(t, http.StatusNotFound, w.Code)
	assert.Equal(t, "session_not_found", errorCode(t, w))

	other := New(config.Config{JWTSecret: "other", SessionTTL: time.Hour, GridSize: 10}, Deps{Store: store.NewMemoryStore()})
	forged, _, err := other.signToken("ghost")
	require.NoError(t, err)
	w = do(t, srv, http.MethodGet, "/puzzle", "", forged)
	assert.Equal(t, "invalid_token", errorCode(t, w))
}

func TestViewWithCookie(t *testing.T) {
	srv := newTestServer(t, Deps{})
	res := newGame(t, srv, "")

	req := httptest.NewRequest(http.MethodGet, "/puzzle", nil)
	req.AddCookie(&http.Cookie{Name: "ws_test", Value: res.Token})
	w := httptest.NewRecorder()
	srv.Router().ServeHTTP(w, req)
	require.Equal(t, http.StatusOK, w.Code)
	v := decode[puzzleView](t, w)
	assert.Equal(t, res.View.Rows, v.Rows)
}

func TestSelectFlow(t *testing.T) {
	srv := newTestServer(t, Deps{})
	res := newGame(t, srv, "")
	cat := placement(t, srv, res.GameID, "CAT")

	// reversed selection counts too
	w := do(t, srv, http.MethodPost, "/puzzle/select", pathJSON(t, cat.Reversed()), res.Token)
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())
	sel := decode[selectRes](t, w)
	require.NotNil(t, sel.Match)
	assert.Equal(t, "CAT", sel.Match.Key)
	assert.Equal(t, 1, sel.View.Found)
	assert.Equal(t, cat.Reversed(), sel.View.FoundPaths["CAT"])
	assert.True(t, sel.View.Words[0].Found)

	// a single cell never spells a three letter word
	w = do(t, srv, http.MethodPost, "/puzzle/select", pathJSON(t, puzzle.Path{{Row: 0, Col: 0}}), res.Token)
	require.Equal(t, http.StatusOK, w.Code)
	sel = decode[selectRes](t, w)
	assert.Nil(t, sel.Match)
	assert.Equal(t, 1, sel.View.Found)

	for _, key := range []string{"DOG", "BIRD"} {
		w = do(t, srv, http.MethodPost, "/puzzle/select", pathJSON(t, placement(t, srv, res.GameID, key)), res.Token)
		require.Equal(t, http.StatusOK, w.Code)
		sel = decode[selectRes](t, w)
	}
	assert.True(t, sel.View.Complete)
	assert.True(t, sel.View.Done)
	assert.False(t, sel.View.Revealed)
}

func TestSelectRejectsBadPaths(t *testing.T) {
	srv := newTestServer(t, Deps{})
	res := newGame(t, srv, "")

	cases := map[string]string{
		"empty":    `{"path":[]}`,
		"bent":     `{"path":[{"row":0,"col":0},{"row":0,"col":1},{"row":1,"col":1}]}`,
		"gap":      `{"path":[{"row":0,"col":0},{"row":0,"col":2}]}`,
		"outside":  `{"path":[{"row":9,"col":9},{"row":10,"col":10}]}`,
		"negative": `{"path":[{"row":-1,"col":0}]}`,
	}
	for name, body := range cases {
		t.Run(name, func(t *testing.T) {
			w := do(t, srv, http.MethodPost, "/puzzle/select", body, res.Token)
			assert.Equal(t, http.StatusBadRequest, w.Code)
			assert.Equal(t, "invalid_path", errorCode(t, w))
		})
	}

	w := do(t, srv, http.MethodPost, "/puzzle/select", `nope`, res.Token)
	assert.Equal(t, "bad_json", errorCode(t, w))
}

func TestRevealAndRestart(t *testing.T) {
	srv := newTestServer(t, Deps{})
	res := newGame(t, srv, "")

	dog := placement(t, srv, res.GameID, "DOG")
	w := do(t, srv, http.MethodPost, "/puzzle/select", pathJSON(t, dog), res.Token)
	require.Equal(t, http.StatusOK, w.Code)

	w = do(t, srv, http.MethodPost, "/puzzle/reveal", "", res.Token)
	require.Equal(t, http.StatusOK, w.Code)
	rv := decode[revealRes](t, w)
	assert.Len(t, rv.Revealed, 2)
	for _, r := range rv.Revealed {
		assert.NotEqual(t, "DOG", r.Word.Key)
	}
	assert.True(t, rv.View.Revealed)
	assert.True(t, rv.View.Done)
	assert.Equal(t, 3, rv.View.Found)
	assert.Equal(t, dog, rv.View.FoundPaths["DOG"])

	// nothing left to reveal
	w = do(t, srv, http.MethodPost, "/puzzle/reveal", "", res.Token)
	rv = decode[revealRes](t, w)
	assert.NotNil(t, rv.Revealed)
	assert.Empty(t, rv.Revealed)

	w = do(t, srv, http.MethodPost, "/puzzle/restart", "", res.Token)
	require.Equal(t, http.StatusOK, w.Code)
	v := decode[puzzleView](t, w)
	assert.Equal(t, 0, v.Found)
	assert.Equal(t, 3, v.Total)
	assert.False(t, v.Revealed)
	assert.False(t, v.Done)
	assert.Empty(t, v.FoundPaths)
}

func TestEndDropsSession(t *testing.T) {
	srv := newTestServer(t, Deps{})
	res := newGame(t, srv, "")

	w := do(t, srv, http.MethodPost, "/puzzle/end", "", res.Token)
	require.Equal(t, http.StatusOK, w.Code)
	cleared := false
	for _, c := range w.Result().Cookies() {
		if c.Name == "ws_test" && c.MaxAge < 0 {
			cleared = true
		}
	}
	assert.True(t, cleared)

	w = do(t, srv, http.MethodGet, "/puzzle", "", res.Token)
	assert.Equal(t, http.StatusNotFound, w.Code)
}

func TestWordListRoutes(t *testing.T) {
	srv := newTestServer(t, Deps{Catalog: newTestCatalog(t)})

	w := do(t, srv, http.MethodGet, "/wordlists", "", "")
	require.Equal(t, http.StatusOK, w.Code)
	assert.JSONEq(t, `[]`, w.Body.String())

	w = do(t, srv, http.MethodPost, "/wordlists", `{"name":"Pets","words":["cat","dog","guinea pig"]}`, "")
	require.Equal(t, http.StatusCreated, w.Code, w.Body.String())
	created := decode[catalog.List](t, w)
	assert.Equal(t, catalog.SourceManual, created.Source)

	w = do(t, srv, http.MethodGet, "/wordlists/"+created.ID, "", "")
	require.Equal(t, http.StatusOK, w.Code)
	got := decode[catalog.List](t, w)
	assert.Equal(t, []string{"cat", "dog", "guinea pig"}, got.Words)

	w = do(t, srv, http.MethodGet, "/wordlists", "", "")
	metas := decode[[]catalog.Meta](t, w)
	require.Len(t, metas, 1)
	assert.Equal(t, 3, metas[0].Count)

	res := newGame(t, srv, `{"listId":"`+created.ID+`"}`)
	require.Len(t, res.View.Words, 3)
	assert.Equal(t, "GUINEAPIG", res.View.Words[2].Key)

	cases := []struct {
		name, method, path, body, code string
		status                         int
	}{
		{"duplicate", http.MethodPost, "/wordlists", `{"name":"pets","words":["ox"]}`, "duplicate_name", http.StatusConflict},
		{"no name", http.MethodPost, "/wordlists", `{"name":" ","words":["ox"]}`, "invalid_name", http.StatusBadRequest},
		{"bad word", http.MethodPost, "/wordlists", `{"name":"x","words":["ox","4x4"]}`, "invalid_word", http.StatusBadRequest},
		{"empty", http.MethodPost, "/wordlists", `{"name":"x","words":[]}`, "empty_list", http.StatusBadRequest},
		{"missing list", http.MethodGet, "/wordlists/nope", "", "list_not_found", http.StatusNotFound},
		{"missing list puzzle", http.MethodPost, "/puzzle/new", `{"listId":"nope"}`, "list_not_found", http.StatusNotFound},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			w := do(t, srv, tc.method, tc.path, tc.body, "")
			assert.Equal(t, tc.status, w.Code)
			assert.Equal(t, tc.code, errorCode(t, w))
		})
	}
}

func TestWordListsWithoutCatalog(t *testing.T) {
	srv := newTestServer(t, Deps{})

	w := do(t, srv, http.MethodGet, "/wordlists", "", "")
	assert.Equal(t, http.StatusServiceUnavailable, w.Code)
	w = do(t, srv, http.MethodPost, "/wordlists/generate", `{"theme":"space"}`, "")
	assert.Equal(t, http.StatusServiceUnavailable, w.Code)
	assert.Equal(t, "generator_unavailable", errorCode(t, w))
}

type fakeGenerator struct {
	words  []string
	err    error
	calls  int
	maxLen int
}

func (f *fakeGenerator) GenerateWords(ctx context.Context, theme string, count, maxLen int) ([]string, error) {
	f.calls++
	f.maxLen = maxLen
	if f.err != nil {
		return nil, f.err
	}
	return f.words, nil
}

func TestGenerateWordList(t *testing.T) {
	gen := &fakeGenerator{words: []string{"rocket", "comet", "orbit"}}
	srv := newTestServer(t, Deps{Catalog: newTestCatalog(t), Generator: gen})

	w := do(t, srv, http.MethodPost, "/wordlists/generate", `{"theme":"Space"}`, "")
	require.Equal(t, http.StatusCreated, w.Code, w.Body.String())
	l := decode[catalog.List](t, w)
	assert.Equal(t, "Space", l.Name)
	assert.Equal(t, catalog.SourceGenerated, l.Source)
	assert.Equal(t, []string{"rocket", "comet", "orbit"}, l.Words)
	assert.Equal(t, 10, gen.maxLen)

	w = do(t, srv, http.MethodPost, "/wordlists/generate", `{"theme":"space"}`, "")
	assert.Equal(t, http.StatusConflict, w.Code)

	w = do(t, srv, http.MethodPost, "/wordlists/generate", `{"theme":""}`, "")
	assert.Equal(t, "invalid_theme", errorCode(t, w))

	w = do(t, srv, http.MethodPost, "/wordlists/generate", `{"theme":"sea","count":99}`, "")
	assert.Equal(t, "invalid_count", errorCode(t, w))

	gen.err = errors.New("quota")
	w = do(t, srv, http.MethodPost, "/wordlists/generate", `{"theme":"sea"}`, "")
	assert.Equal(t, http.StatusBadGateway, w.Code)

	// five per minute per client, all of the above counted
	w = do(t, srv, http.MethodPost, "/wordlists/generate", `{"theme":"trees"}`, "")
	assert.Equal(t, http.StatusTooManyRequests, w.Code)
	assert.Equal(t, 3, gen.calls)
}
