package server

import (
	_ "embed"
	"encoding/json"
	"net/http"
	"time"

	"go.uber.org/zap"

	"github.com/muurk/contactform/internal/logging"
	"github.com/muurk/contactform/internal/version"
)

// WebSocketPath is where sessions connect.
const WebSocketPath = "/ws"

//go:embed static/index.html
var indexHTML []byte

// Health is the /healthz response body.
type Health struct {
	Status   string       `json:"status"`
	Sessions int          `json:"sessions"`
	Drafts   bool         `json:"drafts"`
	Build    version.Info `json:"build"`
}

// Handler returns the HTTP routes: the page, the WebSocket endpoint and the
// health check.
func (s *Server) Handler() http.Handler {
	mux := http.NewServeMux()
	mux.HandleFunc("GET /{$}", s.handleIndex)
	mux.HandleFunc("GET "+WebSocketPath, s.handleWebSocket)
	mux.HandleFunc("GET /healthz", s.handleHealth)
	return logRequests(mux)
}

func (s *Server) handleIndex(w http.ResponseWriter, _ *http.Request) {
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	w.Header().Set("Cache-Control", "no-cache")
	_, _ = w.Write(indexHTML)
}

func (s *Server) handleHealth(w http.ResponseWriter, _ *http.Request) {
	w.Header().Set("Content-Type", "application/json")
	_ = json.NewEncoder(w).Encode(Health{
		Status:   "ok",
		Sessions: s.ActiveSessions(),
		Drafts:   s.config.KV != nil,
		Build:    version.Get(),
	})
}

// statusRecorder captures the response status for request logging. It keeps
// Hijack reachable through Unwrap so WebSocket upgrades still work.
type statusRecorder struct {
	http.ResponseWriter
	status int
}

func (r *statusRecorder) WriteHeader(code int) {
	r.status = code
	r.ResponseWriter.WriteHeader(code)
}

func (r *statusRecorder) Unwrap() http.ResponseWriter {
	return r.ResponseWriter
}

// logRequests logs every request at debug level.
func logRequests(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		rec := &statusRecorder{ResponseWriter: w, status: http.StatusOK}
		if r.URL.Path == WebSocketPath {
			// the upgrader needs the original writer for Hijack
			next.ServeHTTP(w, r)
			rec.status = http.StatusSwitchingProtocols
		} else {
			next.ServeHTTP(rec, r)
		}

		logging.Debug("HTTP request",
			zap.String("remote_addr", r.RemoteAddr),
			zap.String("method", r.Method),
			zap.String("path", r.URL.Path),
			zap.Int("status", rec.status),
			zap.Duration("elapsed", time.Since(start)),
			zap.String("user_agent", r.Header.Get("User-Agent")),
		)
	})
}
