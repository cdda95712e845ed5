package server

import (
	"context"
	"crypto/tls"
	"errors"
	"fmt"
	"net"
	"net/http"
	"regexp"
	"strconv"
	"sync"
	"sync/atomic"
	"time"

	"github.com/gorilla/websocket"
	"go.uber.org/zap"

	"github.com/muurk/contactform/internal/draft"
	"github.com/muurk/contactform/internal/form"
	"github.com/muurk/contactform/internal/guard"
	"github.com/muurk/contactform/internal/logging"
)

// Config holds the server configuration
type Config struct {
	Host     string
	Port     int
	CertPath string // serve HTTPS when CertPath and KeyPath are both set
	KeyPath  string

	// KV backs every session's draft store. Nil disables drafts.
	KV draft.KV

	SubmitLatency    time.Duration
	AutoSaveInterval time.Duration
	Cooldown         time.Duration
	CharBudget       int
	Theme            form.Theme
}

// Server serves the contact form over HTTP and WebSocket. Each connection
// gets its own controller, guard and event loop; sessions share only the
// draft KV.
type Server struct {
	config    *Config
	tlsConfig *tls.Config
	upgrader  websocket.Upgrader
	http      *http.Server
	listener  net.Listener

	wg       sync.WaitGroup
	mu       sync.Mutex
	sessions map[string]*session
	closing  bool // set by Shutdown; no session registers after it
	nextID   atomic.Uint64
}

// New creates a new Server instance
func New(config *Config) (*Server, error) {
	s := &Server{
		config:   config,
		sessions: make(map[string]*session),
		upgrader: websocket.Upgrader{
			ReadBufferSize:  1024,
			WriteBufferSize: 1024,
		},
	}

	if config.CertPath != "" || config.KeyPath != "" {
		tlsConfig, err := NewTLSConfig(config.CertPath, config.KeyPath)
		if err != nil {
			return nil, fmt.Errorf("failed to create TLS config: %w", err)
		}
		s.tlsConfig = tlsConfig
	}

	s.http = &http.Server{
		Handler:           s.Handler(),
		ReadHeaderTimeout: 10 * time.Second,
	}
	return s, nil
}

// Addr returns the listening address once Start has bound it.
func (s *Server) Addr() net.Addr {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.listener == nil {
		return nil
	}
	return s.listener.Addr()
}

// Start listens and serves until ctx is cancelled, then shuts down
// gracefully. ready, if non-nil, is called with the bound address.
func (s *Server) Start(ctx context.Context, ready func(net.Addr)) error {
	addr := net.JoinHostPort(s.config.Host, strconv.Itoa(s.config.Port))

	listener, err := net.Listen("tcp", addr)
	if err != nil {
		return fmt.Errorf("failed to listen on %s: %w", addr, err)
	}
	if s.tlsConfig != nil {
		listener = tls.NewListener(listener, s.tlsConfig)
		logging.Info("TLS configuration", zap.Any("tls_info", GetTLSInfo(s.tlsConfig)))
	}

	s.mu.Lock()
	s.listener = listener
	s.mu.Unlock()

	logging.Info("Contact form server listening",
		zap.String("addr", listener.Addr().String()),
		zap.Bool("tls", s.tlsConfig != nil),
		zap.Bool("drafts", s.config.KV != nil),
	)
	if ready != nil {
		ready(listener.Addr())
	}

	errChan := make(chan error, 1)
	go func() {
		errChan <- s.http.Serve(listener)
	}()

	select {
	case <-ctx.Done():
		logging.Info("Shutdown requested, stopping server...")
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		return s.Shutdown(shutdownCtx)
	case err := <-errChan:
		if errors.Is(err, http.ErrServerClosed) {
			return nil
		}
		return err
	}
}

// Shutdown stops accepting connections, closes every session and waits for
// their loops to finish.
func (s *Server) Shutdown(ctx context.Context) error {
	logging.Info("Shutting down server...")

	s.mu.Lock()
	s.closing = true
	s.mu.Unlock()

	if err := s.http.Shutdown(ctx); err != nil && !errors.Is(err, http.ErrServerClosed) {
		logging.Error("Error stopping HTTP server", zap.Error(err))
	}

	s.mu.Lock()
	for id, sess := range s.sessions {
		logging.Debug("Closing active session", zap.String("session", id))
		sess.close()
	}
	s.mu.Unlock()

	done := make(chan struct{})
	go func() {
		s.wg.Wait()
		close(done)
	}()

	select {
	case <-done:
		logging.Info("All sessions closed gracefully")
	case <-ctx.Done():
		logging.Warn("Shutdown timeout, forcing close")
	}

	logging.Sync()
	return nil
}

// ActiveSessions returns the number of open sessions.
func (s *Server) ActiveSessions() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.sessions)
}

func (s *Server) isClosing() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.closing
}

// register adds sess to the session table and the shutdown wait group. It
// refuses once Shutdown has begun, so Wait never races an Add.
func (s *Server) register(id string, sess *session) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.closing {
		return false
	}
	s.sessions[id] = sess
	s.wg.Add(1)
	return true
}

var clientIDPattern = regexp.MustCompile(`^[A-Za-z0-9_-]{1,64}$`)

// draftKey returns the draft key for a client. Browsers that send a client
// id get their own draft; others share the default key.
func draftKey(clientID string) string {
	if !clientIDPattern.MatchString(clientID) {
		return draft.DefaultKey
	}
	return draft.DefaultKey + "." + clientID
}

func (s *Server) handleWebSocket(w http.ResponseWriter, r *http.Request) {
	if s.isClosing() {
		http.Error(w, "server is shutting down", http.StatusServiceUnavailable)
		return
	}

	conn, err := s.upgrader.Upgrade(w, r, nil)
	if err != nil {
		logging.Warn("WebSocket upgrade failed",
			zap.String("remote_addr", r.RemoteAddr),
			zap.Error(err),
		)
		return
	}

	id := fmt.Sprintf("s%d", s.nextID.Add(1))
	key := draftKey(r.URL.Query().Get("client"))
	store := draft.NewStore(s.config.KV, draft.WithKey(key))
	logging.Debug("Session draft key", zap.String("session", id), zap.String("key", key))
	cooldown := s.config.Cooldown
	if cooldown <= 0 {
		cooldown = guard.DefaultCooldown
	}

	sess := newSession(id, conn, form.Config{
		Store:            store,
		Guard:            guard.New(cooldown),
		SubmitLatency:    s.config.SubmitLatency,
		AutoSaveInterval: s.config.AutoSaveInterval,
		CharBudget:       s.config.CharBudget,
		Theme:            s.config.Theme,
	})

	if !s.register(id, sess) {
		logging.Debug("Session refused during shutdown", zap.String("session", id))
		msg := websocket.FormatCloseMessage(websocket.CloseGoingAway, "server is shutting down")
		_ = conn.WriteControl(websocket.CloseMessage, msg, time.Now().Add(writeWait))
		_ = conn.Close()
		return
	}

	go func() {
		defer s.wg.Done()
		defer func() {
			s.mu.Lock()
			delete(s.sessions, id)
			s.mu.Unlock()
		}()
		sess.run()
	}()
}
