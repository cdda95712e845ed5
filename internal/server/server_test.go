package server

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/gorilla/websocket"

	"github.com/muurk/contactform/internal/draft"
	"github.com/muurk/contactform/internal/form"
	"github.com/muurk/contactform/internal/validation"
)

func newTestServer(t *testing.T, kv draft.KV) (*Server, *httptest.Server) {
	t.Helper()
	s, err := New(&Config{
		KV:            kv,
		SubmitLatency: 20 * time.Millisecond,
		Cooldown:      time.Minute,
	})
	if err != nil {
		t.Fatalf("New() error = %v", err)
	}
	ts := httptest.NewServer(s.Handler())
	t.Cleanup(func() {
		ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
		defer cancel()
		_ = s.Shutdown(ctx)
		ts.Close()
	})
	return s, ts
}

func dial(t *testing.T, ts *httptest.Server, query string) *websocket.Conn {
	t.Helper()
	url := "ws" + strings.TrimPrefix(ts.URL, "http") + WebSocketPath + query
	conn, resp, err := websocket.DefaultDialer.Dial(url, nil)
	if err != nil {
		t.Fatalf("Dial() error = %v", err)
	}
	if resp.StatusCode != http.StatusSwitchingProtocols {
		t.Fatalf("status = %d, want 101", resp.StatusCode)
	}
	t.Cleanup(func() { _ = conn.Close() })
	return conn
}

// readUntil reads messages until one matches, failing after two seconds.
func readUntil(t *testing.T, conn *websocket.Conn, match func(ServerMessage) bool) ServerMessage {
	t.Helper()
	_ = conn.SetReadDeadline(time.Now().Add(2 * time.Second))
	for {
		var m ServerMessage
		if err := conn.ReadJSON(&m); err != nil {
			t.Fatalf("ReadJSON() error = %v", err)
		}
		if match(m) {
			return m
		}
	}
}

func ofType(typ string) func(ServerMessage) bool {
	return func(m ServerMessage) bool { return m.Type == typ }
}

func write(t *testing.T, conn *websocket.Conn, m ClientMessage) {
	t.Helper()
	if err := conn.WriteJSON(m); err != nil {
		t.Fatalf("WriteJSON() error = %v", err)
	}
}

func TestHealthz(t *testing.T) {
	_, ts := newTestServer(t, draft.NewMemoryKV())

	resp, err := http.Get(ts.URL + "/healthz")
	if err != nil {
		t.Fatalf("GET /healthz error = %v", err)
	}
	defer resp.Body.Close()

	var h Health
	if err := json.NewDecoder(resp.Body).Decode(&h); err != nil {
		t.Fatalf("decode error = %v", err)
	}
	if h.Status != "ok" || !h.Drafts || h.Build.Version == "" {
		t.Errorf("health = %+v", h)
	}
}

func TestIndexPage(t *testing.T) {
	_, ts := newTestServer(t, nil)

	resp, err := http.Get(ts.URL + "/")
	if err != nil {
		t.Fatalf("GET / error = %v", err)
	}
	defer resp.Body.Close()
	body, _ := io.ReadAll(resp.Body)

	if !strings.HasPrefix(resp.Header.Get("Content-Type"), "text/html") {
		t.Errorf("content type = %q", resp.Header.Get("Content-Type"))
	}
	if !strings.Contains(string(body), WebSocketPath) {
		t.Error("page does not connect to the session endpoint")
	}
	for _, limit := range []int{validation.MaxNameLength, validation.MaxEmailLength, validation.MaxMessageLength} {
		if attr := fmt.Sprintf(`maxlength="%d"`, limit); !strings.Contains(string(body), attr) {
			t.Errorf("page is missing %s", attr)
		}
	}

	resp, err = http.Get(ts.URL + "/nope")
	if err != nil {
		t.Fatalf("GET /nope error = %v", err)
	}
	resp.Body.Close()
	if resp.StatusCode != http.StatusNotFound {
		t.Errorf("unknown path status = %d, want 404", resp.StatusCode)
	}
}

func TestSessionStartPushesState(t *testing.T) {
	_, ts := newTestServer(t, draft.NewMemoryKV())
	conn := dial(t, ts, "")

	theme := readUntil(t, conn, ofType(TypeTheme))
	if theme.Theme != string(form.ThemeLight) {
		t.Errorf("theme = %q, want light", theme.Theme)
	}
	m := readUntil(t, conn, ofType(TypeMetrics))
	if m.Metrics == nil || m.Metrics.CharsRemaining != 250 {
		t.Errorf("initial metrics = %+v", m.Metrics)
	}
}

func TestSessionSubmitFlow(t *testing.T) {
	_, ts := newTestServer(t, draft.NewMemoryKV())
	conn := dial(t, ts, "")
	readUntil(t, conn, ofType(TypeMetrics))

	write(t, conn, ClientMessage{Type: TypeEdit, Field: "name", Value: "A"})
	f := readUntil(t, conn, func(m ServerMessage) bool { return m.Type == TypeField && m.Field == "name" })
	if f.State != "invalid" {
		t.Errorf("name state = %q, want invalid", f.State)
	}

	write(t, conn, ClientMessage{Type: TypeEdit, Field: "name", Value: "Ada"})
	write(t, conn, ClientMessage{Type: TypeEdit, Field: "email", Value: "ada@example.org"})
	write(t, conn, ClientMessage{Type: TypeEdit, Field: "message", Value: "Hello from the browser"})
	write(t, conn, ClientMessage{Type: TypeSubmit})

	busy := readUntil(t, conn, ofType(TypeBusy))
	if busy.Busy == nil || !*busy.Busy {
		t.Fatalf("busy = %v, want true", busy.Busy)
	}
	success := readUntil(t, conn, ofType(TypeSuccess))
	if success.Name != "Ada" || !strings.Contains(success.Text, "Hi Ada") {
		t.Errorf("success = %+v", success)
	}
	reset := readUntil(t, conn, ofType(TypeReset))
	if reset.Fields == nil || reset.Fields.Message != "" {
		t.Errorf("reset = %+v, want empty fields", reset.Fields)
	}

	// same message again inside the cooldown
	write(t, conn, ClientMessage{Type: TypeEdit, Field: "name", Value: "Ada"})
	write(t, conn, ClientMessage{Type: TypeEdit, Field: "email", Value: "ada@example.org"})
	write(t, conn, ClientMessage{Type: TypeEdit, Field: "message", Value: "Hello from the browser"})
	write(t, conn, ClientMessage{Type: TypeSubmit})
	warn := readUntil(t, conn, ofType(TypeWarning))
	if warn.Text != form.MsgDuplicateSubmission {
		t.Errorf("warning = %q", warn.Text)
	}
}

func TestSessionRejectsBadInput(t *testing.T) {
	_, ts := newTestServer(t, nil)
	conn := dial(t, ts, "")
	readUntil(t, conn, ofType(TypeMetrics))

	tests := []struct {
		name string
		raw  string
		want string
	}{
		{"Malformed JSON", `{"type":`, "malformed"},
		{"Unknown type", `{"type":"dance"}`, "unknown message type"},
		{"Unknown field", `{"type":"edit","field":"phone","value":"1"}`, "unknown field"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if err := conn.WriteMessage(websocket.TextMessage, []byte(tt.raw)); err != nil {
				t.Fatalf("WriteMessage() error = %v", err)
			}
			m := readUntil(t, conn, ofType(TypeError))
			if !strings.Contains(m.Text, tt.want) {
				t.Errorf("error text = %q, want %q", m.Text, tt.want)
			}
		})
	}
}

func TestSessionDraftPerClient(t *testing.T) {
	kv := draft.NewMemoryKV()
	_, ts := newTestServer(t, kv)
	conn := dial(t, ts, "?client=abc123")
	readUntil(t, conn, ofType(TypeMetrics))

	write(t, conn, ClientMessage{Type: TypeEdit, Field: "name", Value: "Grace"})
	write(t, conn, ClientMessage{Type: TypeSave})
	d := readUntil(t, conn, ofType(TypeDraft))
	if d.Event != form.DraftEventSaved.String() {
		t.Errorf("draft event = %q, want saved", d.Event)
	}

	raw, err := kv.Get(draft.DefaultKey + ".abc123")
	if err != nil || !strings.Contains(string(raw), "Grace") {
		t.Errorf("per-client draft = %s, %v", raw, err)
	}
	if _, err := kv.Get(draft.DefaultKey); err == nil {
		t.Error("default key written for a client session")
	}

	// a new connection from the same client restores the draft
	again := dial(t, ts, "?client=abc123")
	reset := readUntil(t, again, ofType(TypeReset))
	if reset.Fields == nil || reset.Fields.Name != "Grace" {
		t.Errorf("restored fields = %+v", reset.Fields)
	}
}

func TestSessionWithoutDrafts(t *testing.T) {
	_, ts := newTestServer(t, nil)
	conn := dial(t, ts, "")
	readUntil(t, conn, ofType(TypeMetrics))

	write(t, conn, ClientMessage{Type: TypeSave})
	warn := readUntil(t, conn, ofType(TypeWarning))
	if !strings.Contains(warn.Text, "Drafts unavailable") {
		t.Errorf("warning = %q", warn.Text)
	}
}

func TestSessionSurvivesLongMessage(t *testing.T) {
	_, ts := newTestServer(t, draft.NewMemoryKV())
	conn := dial(t, ts, "")
	readUntil(t, conn, ofType(TypeMetrics))

	write(t, conn, ClientMessage{Type: TypeEdit, Field: "message", Value: strings.Repeat("x", 20000)})
	reset := readUntil(t, conn, ofType(TypeReset))
	if reset.Fields == nil || len(reset.Fields.Message) != validation.MaxMessageLength {
		t.Fatalf("reset after long edit = %+v", reset.Fields)
	}
	m := readUntil(t, conn, ofType(TypeMetrics))
	if want := validation.CharBudget - validation.MaxMessageLength; m.Metrics.CharsRemaining != want {
		t.Errorf("CharsRemaining = %d, want %d", m.Metrics.CharsRemaining, want)
	}

	// the session still answers
	write(t, conn, ClientMessage{Type: TypeEdit, Field: "name", Value: "Ada"})
	f := readUntil(t, conn, func(m ServerMessage) bool { return m.Type == TypeField && m.Field == "name" })
	if f.State != form.FieldValid.String() {
		t.Errorf("name state = %q, want valid", f.State)
	}
}

func TestShutdownClosesSessions(t *testing.T) {
	s, ts := newTestServer(t, nil)
	conn := dial(t, ts, "")
	readUntil(t, conn, ofType(TypeMetrics))

	if n := s.ActiveSessions(); n != 1 {
		t.Fatalf("ActiveSessions() = %d, want 1", n)
	}

	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
	defer cancel()
	if err := s.Shutdown(ctx); err != nil {
		t.Fatalf("Shutdown() error = %v", err)
	}

	_ = conn.SetReadDeadline(time.Now().Add(2 * time.Second))
	for {
		if _, _, err := conn.ReadMessage(); err != nil {
			break
		}
	}
	if n := s.ActiveSessions(); n != 0 {
		t.Errorf("ActiveSessions() after shutdown = %d, want 0", n)
	}
}

func TestShutdownRefusesNewSessions(t *testing.T) {
	s, ts := newTestServer(t, nil)

	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
	defer cancel()
	if err := s.Shutdown(ctx); err != nil {
		t.Fatalf("Shutdown() error = %v", err)
	}

	url := "ws" + strings.TrimPrefix(ts.URL, "http") + WebSocketPath
	conn, resp, err := websocket.DefaultDialer.Dial(url, nil)
	if err == nil {
		conn.Close()
		t.Fatal("Dial() after shutdown succeeded")
	}
	if resp == nil || resp.StatusCode != http.StatusServiceUnavailable {
		t.Errorf("Dial() after shutdown response = %v, want 503", resp)
	}

	// an upgrade that was already past the first check is refused too
	if s.register("late", &session{}) {
		t.Error("register() after shutdown succeeded")
	}
	if n := s.ActiveSessions(); n != 0 {
		t.Errorf("ActiveSessions() = %d, want 0", n)
	}
}

func TestDraftKey(t *testing.T) {
	tests := []struct {
		client string
		want   string
	}{
		{"", draft.DefaultKey},
		{"abc-123_X", draft.DefaultKey + ".abc-123_X"},
		{"../etc", draft.DefaultKey},
		{strings.Repeat("a", 65), draft.DefaultKey},
	}
	for _, tt := range tests {
		if got := draftKey(tt.client); got != tt.want {
			t.Errorf("draftKey(%q) = %q, want %q", tt.client, got, tt.want)
		}
	}
}
