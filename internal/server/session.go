package server

import (
	"encoding/json"
	"sync"
	"time"

	"github.com/gorilla/websocket"
	"go.uber.org/zap"

	"github.com/muurk/contactform/internal/form"
	"github.com/muurk/contactform/internal/logging"
	"github.com/muurk/contactform/internal/validation"
)

const (
	// Time allowed to write a message to the peer
	writeWait = 10 * time.Second

	// Time allowed to read the next pong message from the peer
	pongWait = 60 * time.Second

	// Send pings to peer with this period (must be less than pongWait)
	pingPeriod = (pongWait * 9) / 10

	// Maximum message size allowed from peer. An edit frame carries the
	// whole field, so this must hold a capped message after JSON escaping
	// (up to six bytes per character).
	maxMessageSize = 8*validation.MaxMessageLength + 4096

	// Outgoing messages buffered per session before it is dropped as too slow
	sendBuffer = 256
)

// session is one browser connection with its own controller and event loop.
// Every controller call runs on the loop goroutine.
type session struct {
	id   string
	conn *websocket.Conn
	ctl  *form.Controller

	events chan func()
	out    chan ServerMessage
	done   chan struct{}
	once   sync.Once
}

func newSession(id string, conn *websocket.Conn, cfg form.Config) *session {
	s := &session{
		id:     id,
		conn:   conn,
		events: make(chan func()),
		out:    make(chan ServerMessage, sendBuffer),
		done:   make(chan struct{}),
	}
	if cfg.Scheduler == nil {
		cfg.Scheduler = form.NewLoopScheduler(func(fn func()) { s.post(fn) })
	}
	s.ctl = form.New(wsSurface{send: s.send}, cfg)
	return s
}

// run serves the session until the peer goes away or close is called.
func (s *session) run() {
	logging.LogSession(s.id, "opened")
	defer logging.LogSession(s.id, "closed")

	var wg sync.WaitGroup
	wg.Add(2)
	go func() {
		defer wg.Done()
		s.loop()
	}()
	go func() {
		defer wg.Done()
		s.writePump()
	}()

	s.post(s.ctl.Start)
	s.readPump()
	s.close()
	wg.Wait()
}

// close stops the session. Safe to call more than once from any goroutine.
func (s *session) close() {
	s.once.Do(func() { close(s.done) })
}

// post queues fn on the event loop. It returns false once the session is done.
func (s *session) post(fn func()) bool {
	select {
	case s.events <- fn:
		return true
	case <-s.done:
		return false
	}
}

func (s *session) loop() {
	for {
		select {
		case fn := <-s.events:
			fn()
		case <-s.done:
			s.ctl.Close()
			return
		}
	}
}

// send queues a message for the writer. Runs on the loop; never blocks.
func (s *session) send(m ServerMessage) {
	select {
	case s.out <- m:
	default:
		logging.Warn("Session send buffer full, dropping client",
			zap.String("session", s.id),
			zap.String("type", m.Type),
		)
		s.close()
	}
}

func (s *session) readPump() {
	s.conn.SetReadLimit(maxMessageSize)
	_ = s.conn.SetReadDeadline(time.Now().Add(pongWait))
	s.conn.SetPongHandler(func(string) error {
		return s.conn.SetReadDeadline(time.Now().Add(pongWait))
	})

	for {
		_, data, err := s.conn.ReadMessage()
		if err != nil {
			if websocket.IsUnexpectedCloseError(err, websocket.CloseGoingAway, websocket.CloseNormalClosure) {
				logging.Info("Session read failed",
					zap.String("session", s.id),
					zap.Error(err),
				)
			}
			return
		}

		var msg ClientMessage
		if err := json.Unmarshal(data, &msg); err != nil {
			logging.Debug("Malformed client message",
				zap.String("session", s.id),
				zap.Error(err),
			)
			if !s.post(func() { s.send(ServerMessage{Type: TypeError, Text: "malformed message"}) }) {
				return
			}
			continue
		}

		if !s.post(func() { s.dispatch(msg) }) {
			return
		}
	}
}

func (s *session) writePump() {
	ticker := time.NewTicker(pingPeriod)
	defer func() {
		ticker.Stop()
		_ = s.conn.Close()
	}()

	for {
		select {
		case m := <-s.out:
			_ = s.conn.SetWriteDeadline(time.Now().Add(writeWait))
			if err := s.conn.WriteJSON(m); err != nil {
				logging.Debug("Session write failed",
					zap.String("session", s.id),
					zap.Error(err),
				)
				s.close()
				return
			}

		case <-ticker.C:
			if err := s.conn.WriteControl(websocket.PingMessage, nil, time.Now().Add(writeWait)); err != nil {
				s.close()
				return
			}

		case <-s.done:
			msg := websocket.FormatCloseMessage(websocket.CloseGoingAway, "session closed")
			_ = s.conn.WriteControl(websocket.CloseMessage, msg, time.Now().Add(writeWait))
			return
		}
	}
}

// dispatch applies one client event to the controller.
func (s *session) dispatch(msg ClientMessage) {
	switch msg.Type {
	case TypeEdit, TypeBlur, TypeAdvance:
		role, err := validation.ParseRole(msg.Field)
		if err != nil {
			s.send(ServerMessage{Type: TypeError, Text: err.Error()})
			return
		}
		switch msg.Type {
		case TypeEdit:
			s.ctl.Edit(role, msg.Value)
		case TypeBlur:
			s.ctl.Blur(role)
		default:
			s.ctl.Advance(role)
		}

	case TypeSubmit:
		s.ctl.Submit()
	case TypeSave:
		_ = s.ctl.SaveDraft()
	case TypeClear:
		_ = s.ctl.ClearDraft()
	case TypeTheme:
		s.ctl.ToggleTheme()

	default:
		s.send(ServerMessage{Type: TypeError, Text: "unknown message type " + msg.Type})
	}
}
