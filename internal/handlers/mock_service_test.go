package handlers

import (
	"context"
	"net/http/httptest"
	"strings"
	"sync"
	"testing"
	"time"

	"controlling_led/internal/models"
	"controlling_led/internal/registry"
	"controlling_led/internal/service"

	"github.com/gin-gonic/gin"
	"github.com/gorilla/websocket"
)

// ---- Service Mocks ----

// mockLed implements both service.Led and service.Monitoring over one cell.
type mockLed struct {
	mu       sync.Mutex
	state    models.OnOff
	setErr   error
	setCalls int
	lastSet  models.OnOff
	lastFrom service.Origin
}

func newMockLed(initial models.OnOff) *mockLed {
	return &mockLed{state: initial}
}

func (m *mockLed) SetState(ctx context.Context, desired models.OnOff, origin service.Origin) (models.OnOff, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.setCalls++
	m.lastSet = desired
	m.lastFrom = origin
	if m.setErr != nil {
		return m.state, m.setErr
	}
	m.state = desired
	return desired, nil
}

func (m *mockLed) GetState(ctx context.Context) models.OnOff {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.state
}

func (m *mockLed) calls() (int, models.OnOff, service.Origin) {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.setCalls, m.lastSet, m.lastFrom
}

type mockEventLog struct {
	mu       sync.Mutex
	resp     []models.LedEvent
	err      error
	lastFrom time.Time
	lastTo   time.Time
	lastType string
	recorded []models.LedEvent
}

func (m *mockEventLog) List(ctx context.Context, f service.LogFilter) ([]models.LedEvent, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.lastFrom = f.From
	m.lastTo = f.To
	m.lastType = f.Type
	return m.resp, m.err
}

func (m *mockEventLog) Record(ctx context.Context, e models.LedEvent) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.recorded = append(m.recorded, e)
}

func (m *mockEventLog) recordedTypes() []string {
	m.mu.Lock()
	defer m.mu.Unlock()
	out := make([]string, 0, len(m.recorded))
	for _, e := range m.recorded {
		out = append(out, e.Type)
	}
	return out
}

// ---- Shared Test Helpers ----

func newMockServices(led *mockLed, logs *mockEventLog) *service.Service {
	if logs == nil {
		logs = &mockEventLog{}
	}
	return &service.Service{Led: led, Monitoring: led, EventLog: logs}
}

func newTestHandler(s *service.Service) *Handler {
	gin.SetMode(gin.TestMode)
	return NewHandler(s, registry.New(nil), nil, Options{})
}

func newTestRouter(s *service.Service) *gin.Engine {
	return newTestHandler(s).InitRoutes()
}

// newTestServer starts the full router on a real listener for WebSocket tests.
func newTestServer(t *testing.T, s *service.Service) (*httptest.Server, *Handler) {
	t.Helper()
	h := newTestHandler(s)
	srv := httptest.NewServer(h.InitRoutes())
	t.Cleanup(srv.Close)
	return srv, h
}

func dialLed(t *testing.T, srv *httptest.Server) *websocket.Conn {
	t.Helper()
	u := "ws" + strings.TrimPrefix(srv.URL, "http") + "/wsled"
	dialer := websocket.Dialer{HandshakeTimeout: 2 * time.Second}
	conn, _, err := dialer.Dial(u, nil)
	if err != nil {
		t.Fatalf("dial error: %v", err)
	}
	t.Cleanup(func() { _ = conn.Close() })
	return conn
}

// readText reads one frame and fails the test unless it is text.
func readText(t *testing.T, conn *websocket.Conn) string {
	t.Helper()
	_ = conn.SetReadDeadline(time.Now().Add(2 * time.Second))
	mt, msg, err := conn.ReadMessage()
	if err != nil {
		t.Fatalf("read: %v", err)
	}
	if mt != websocket.TextMessage {
		t.Fatalf("expected text frame, got type %d", mt)
	}
	return string(msg)
}

// expectSilence fails if a frame arrives within d. The connection is unusable afterwards.
func expectSilence(t *testing.T, conn *websocket.Conn, d time.Duration) {
	t.Helper()
	_ = conn.SetReadDeadline(time.Now().Add(d))
	if _, msg, err := conn.ReadMessage(); err == nil {
		t.Fatalf("expected no frame, got %s", string(msg))
	}
}
