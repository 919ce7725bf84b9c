package server

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"

	"github.com/gorilla/websocket"

	"github.com/ziadkadry99/docdeck/internal/annotate"
	"github.com/ziadkadry99/docdeck/internal/deck"
	"github.com/ziadkadry99/docdeck/internal/layout"
	"github.com/ziadkadry99/docdeck/internal/loop"
	"github.com/ziadkadry99/docdeck/internal/session"
	"github.com/ziadkadry99/docdeck/internal/site"
)

var upgrader = websocket.Upgrader{
	CheckOrigin: func(r *http.Request) bool { return true },
}

// deckRequest is the incoming WebSocket message format.
type deckRequest struct {
	Type     string          `json:"type"`
	Path     string          `json:"path,omitempty"`  // navigate
	Index    int             `json:"index,omitempty"` // goto
	Tool     string          `json:"tool,omitempty"`
	Key      *deck.KeyEvent  `json:"key,omitempty"`
	Pointer  *pointerEvent   `json:"pointer,omitempty"`
	Viewport *layout.Metrics `json:"viewport,omitempty"`
	TOC      *tocEvent       `json:"toc,omitempty"`
}

type pointerEvent struct {
	Kind string  `json:"kind"` // down, move, up or cancel
	ID   int     `json:"id"`
	X    float64 `json:"x"`
	Y    float64 `json:"y"`
}

type tocEvent struct {
	Action string `json:"action"` // toggle or active
	ID     string `json:"id"`
}

// deckResponse is the outgoing WebSocket message format.
type deckResponse struct {
	Type    string         `json:"type"` // state, deck, surface or error
	State   *session.State `json:"state,omitempty"`
	Markup  string         `json:"markup,omitempty"`
	Surface []byte         `json:"surface,omitempty"`
	Error   string         `json:"error,omitempty"`
}

// deckConn is one page connection. The read goroutine decodes requests and
// posts them to the loop; the loop goroutine is the only writer.
type deckConn struct {
	s    *Server
	conn *websocket.Conn
	loop *loop.Loop
	mgr  *session.Manager
}

func (s *Server) handleDeckSocket(w http.ResponseWriter, r *http.Request) {
	conn, err := upgrader.Upgrade(w, r, nil)
	if err != nil {
		s.logger.Warn("server: websocket upgrade", "error", err)
		return
	}
	defer conn.Close()

	ctx, cancel := context.WithCancel(r.Context())
	defer cancel()

	sessCfg := s.cfg.Session
	if sessCfg == (session.Config{}) {
		sessCfg = session.DefaultConfig()
	}
	l := loop.New(0)
	c := &deckConn{
		s:    s,
		conn: conn,
		loop: l,
		mgr:  session.NewManager(sessCfg, l, s.surfaces, s.logger),
	}
	c.mgr.OnUpdate = c.send

	done := make(chan struct{})
	go func() {
		defer close(done)
		if err := l.Run(ctx); err != nil && !errors.Is(err, loop.ErrStopped) && !errors.Is(err, context.Canceled) {
			s.logger.Warn("server: deck loop", "error", err)
		}
	}()

	c.readLoop()

	l.Post(c.mgr.Close)
	l.Post(l.Stop)
	<-done
}

func (c *deckConn) readLoop() {
	for {
		_, msg, err := c.conn.ReadMessage()
		if err != nil {
			if websocket.IsUnexpectedCloseError(err, websocket.CloseGoingAway, websocket.CloseNormalClosure) {
				c.s.logger.Warn("server: websocket read", "error", err)
			}
			return
		}

		var req deckRequest
		if err := json.Unmarshal(msg, &req); err != nil {
			c.loop.Post(func() { c.sendError("invalid message format") })
			continue
		}

		if req.Type == "navigate" {
			// Page loading does file I/O and stays off the loop.
			page, err := c.s.lib.Load(site.SourcePath(req.Path))
			c.loop.Post(func() { c.navigate(req.Path, page, err) })
			continue
		}
		c.loop.Post(func() { c.dispatch(req) })
	}
}

func (c *deckConn) navigate(path string, page *site.Page, err error) {
	switch {
	case err != nil:
		c.sendError("loading page failed: " + err.Error())
	case page.Article == nil:
		c.s.logger.Debug("server: page has no deck", "path", path)
		c.mgr.Close()
	default:
		c.mgr.Navigate(page.Path, page.Article)
	}
}

// dispatch applies one request to the live session. Runs on the loop.
func (c *deckConn) dispatch(req deckRequest) {
	if req.Type == "frame" {
		c.loop.Frame()
		return
	}
	s := c.mgr.Current()
	if s == nil {
		c.s.logger.Debug("server: no live session", "type", req.Type)
		return
	}
	switch req.Type {
	case "toggle":
		s.Toggle()
	case "prev":
		s.Deck.Prev()
	case "next":
		s.Deck.Next()
	case "goto":
		s.Deck.GoTo(req.Index)
	case "key":
		if req.Key != nil {
			c.mgr.HandleKey(*req.Key)
		}
	case "tool":
		s.SetTool(req.Tool)
	case "pointer":
		if p := req.Pointer; p != nil {
			s.Pointer(p.Kind, annotate.PointerEvent{ID: p.ID, X: p.X, Y: p.Y})
		}
	case "undo":
		s.Undo()
	case "redo":
		s.Redo()
	case "clear":
		s.Clear()
	case "viewport":
		if req.Viewport != nil {
			s.Viewport(*req.Viewport)
		}
	case "toc":
		if t := req.TOC; t != nil {
			if t.Action == "toggle" {
				s.ToggleOutline(t.ID)
			} else {
				s.SetActiveHeading(t.ID)
			}
		}
	default:
		c.sendError("unknown message type: " + req.Type)
	}
}

// send writes a session update. Runs on the loop.
func (c *deckConn) send(u session.Update) {
	if u.Markup != "" {
		c.write(deckResponse{Type: "deck", Markup: u.Markup})
	}
	state := u.State
	c.write(deckResponse{Type: "state", State: &state})
	if u.Surface != nil {
		c.write(deckResponse{Type: "surface", Surface: u.Surface})
	}
}

func (c *deckConn) sendError(message string) {
	c.write(deckResponse{Type: "error", Error: message})
}

func (c *deckConn) write(resp deckResponse) {
	if err := c.conn.WriteJSON(resp); err != nil {
		c.s.logger.Debug("server: websocket write", "error", err)
	}
}
