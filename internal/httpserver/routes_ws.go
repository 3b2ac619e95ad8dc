// internal/httpserver/routes_ws.go
//
// GET /puzzle/ws: interactive play over a websocket.
//
// Client → server: {"type":"click","row":r,"col":c} | confirm | clear | reveal | restart
// Server → client: preview{path} | result{match?,view} | state{view} | error{error}
//
// The selection in progress lives on the connection; the puzzle lives in the
// session, so HTTP routes and the socket see the same game. One goroutine
// reads, one writes (replies and keep-alive pings).

package httpserver

import (
	"net/http"
	"time"

	"github.com/gorilla/websocket"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/hlog"

	"github.com/robalobadob/wordsearch/internal/puzzle"
	"github.com/robalobadob/wordsearch/internal/store"
)

const (
	wsWriteWait  = 5 * time.Second
	wsPongWait   = 60 * time.Second
	wsPingPeriod = wsPongWait * 9 / 10
	wsReadLimit  = 4096
)

type wsIn struct {
	Type string `json:"type"`
	Row  int    `json:"row"`
	Col  int    `json:"col"`
}

type wsOut struct {
	Type     string              `json:"type"`
	Path     puzzle.Path         `json:"path,omitempty"`
	Match    *puzzle.Word        `json:"match,omitempty"`
	Revealed []puzzle.Revelation `json:"revealed,omitempty"`
	View     *puzzleView         `json:"view,omitempty"`
	Error    string              `json:"error,omitempty"`
}

func (s *Server) handlePlay(w http.ResponseWriter, r *http.Request) {
	sess := sessionFrom(r.Context())
	logger := hlog.FromRequest(r).With().Str("gameId", sess.ID).Logger()

	conn, err := s.upgrader.Upgrade(w, r, nil)
	if err != nil {
		// Upgrade has already replied with an HTTP error.
		logger.Warn().Err(err).Msg("websocket upgrade")
		return
	}
	defer conn.Close()

	conn.SetReadLimit(wsReadLimit)
	_ = conn.SetReadDeadline(time.Now().Add(wsPongWait))
	conn.SetPongHandler(func(string) error {
		return conn.SetReadDeadline(time.Now().Add(wsPongWait))
	})

	out := make(chan wsOut, 8)
	done := make(chan struct{})
	go writeLoop(conn, out, done, logger)

	sess.Lock()
	v := viewOf(sess)
	sess.Unlock()
	out <- wsOut{Type: "state", View: &v}

	logger.Info().Msg("play connected")
	var sel puzzle.Selection
	for {
		var in wsIn
		if err := conn.ReadJSON(&in); err != nil {
			if websocket.IsUnexpectedCloseError(err, websocket.CloseNormalClosure, websocket.CloseGoingAway) {
				logger.Warn().Err(err).Msg("play read")
			}
			break
		}
		var msg wsOut
		sel, msg = playStep(sess, sel, in)
		select {
		case out <- msg:
		case <-done:
		}
	}
	close(out)
	<-done
	logger.Info().Msg("play disconnected")
}

// writeLoop is the connection's only writer. It exits when out is closed or
// a write fails, closing done either way.
func writeLoop(conn *websocket.Conn, out <-chan wsOut, done chan<- struct{}, logger zerolog.Logger) {
	defer close(done)
	ping := time.NewTicker(wsPingPeriod)
	defer ping.Stop()
	for {
		select {
		case msg, ok := <-out:
			if !ok {
				_ = conn.WriteControl(websocket.CloseMessage,
					websocket.FormatCloseMessage(websocket.CloseNormalClosure, ""),
					time.Now().Add(wsWriteWait))
				return
			}
			_ = conn.SetWriteDeadline(time.Now().Add(wsWriteWait))
			if err := conn.WriteJSON(msg); err != nil {
				logger.Warn().Err(err).Msg("play write")
				_ = conn.Close() // unblocks the reader
				return
			}
		case <-ping.C:
			if err := conn.WriteControl(websocket.PingMessage, nil, time.Now().Add(wsWriteWait)); err != nil {
				_ = conn.Close()
				return
			}
		}
	}
}

// playStep applies one client message to the connection's selection and the
// session's puzzle and returns the reply.
func playStep(sess *store.Session, sel puzzle.Selection, in wsIn) (puzzle.Selection, wsOut) {
	sess.Lock()
	defer sess.Unlock()
	p := sess.Puzzle

	switch in.Type {
	case "click":
		if !p.Grid.InBounds(in.Row, in.Col) {
			return sel, wsOut{Type: "error", Error: "out_of_bounds"}
		}
		sel = sel.Click(puzzle.Cell{Row: in.Row, Col: in.Col})
		return sel, wsOut{Type: "preview", Path: sel.Path}

	case "clear":
		return sel.Clear(), wsOut{Type: "preview", Path: puzzle.Path{}}

	case "confirm":
		if !sel.Active || len(sel.Path) == 0 {
			return sel, wsOut{Type: "error", Error: "no_selection"}
		}
		res := wsOut{Type: "result"}
		if word, ok := p.Confirm(sel.Path); ok {
			res.Match = &word
		}
		v := viewOf(sess)
		res.View = &v
		return sel.Clear(), res

	case "reveal":
		revealed := p.Reveal()
		v := viewOf(sess)
		return sel.Clear(), wsOut{Type: "result", Revealed: revealed, View: &v}

	case "restart":
		p.Restart(puzzle.RandomRand())
		v := viewOf(sess)
		return sel.Clear(), wsOut{Type: "state", View: &v}
	}
	return sel, wsOut{Type: "error", Error: "unknown_type"}
}
