package handlers

import (
	"context"
	"net/http"
	"sync"
	"time"

	"controlling_led/internal/codec"
	"controlling_led/internal/models"
	"controlling_led/internal/service"

	"github.com/gin-gonic/gin"
	"github.com/gorilla/websocket"
)

// The control page is reached by mDNS name or raw IP, so any origin is accepted.
// Failed handshakes answer with the same JSON error payload as the HTTP routes.
var upgrader = websocket.Upgrader{
	CheckOrigin: func(r *http.Request) bool { return true },
	Error: func(w http.ResponseWriter, r *http.Request, status int, reason error) {
		w.Header().Set("Sec-Websocket-Version", "13")
		w.Header().Set("Content-Type", jsonContentType)
		w.WriteHeader(status)
		_, _ = w.Write(codec.ErrorFor(status, reason.Error()))
	},
}

// wsClient is the registry handle for one session. gorilla/websocket allows a
// single concurrent writer, so every write goes through mu.
type wsClient struct {
	conn      *websocket.Conn
	writeWait time.Duration
	mu        sync.Mutex
}

func newWSClient(conn *websocket.Conn, writeWait time.Duration) *wsClient {
	return &wsClient{conn: conn, writeWait: writeWait}
}

// Send writes one text frame bounded by the write deadline.
func (w *wsClient) Send(msg []byte) error {
	return w.write(websocket.TextMessage, msg)
}

func (w *wsClient) ping() error {
	return w.write(websocket.PingMessage, nil)
}

// pushInitial sends the state returned by current. The state is read while
// holding the write lock, so a broadcast racing with the handshake is queued
// behind it and the peer never sees an older state after a newer one.
func (w *wsClient) pushInitial(current func() models.OnOff) error {
	w.mu.Lock()
	defer w.mu.Unlock()
	return w.writeLocked(websocket.TextMessage, codec.EncodeSuccess(current()))
}

func (w *wsClient) write(messageType int, data []byte) error {
	w.mu.Lock()
	defer w.mu.Unlock()
	return w.writeLocked(messageType, data)
}

func (w *wsClient) writeLocked(messageType int, data []byte) error {
	_ = w.conn.SetWriteDeadline(time.Now().Add(w.writeWait))
	return w.conn.WriteMessage(messageType, data)
}

// @Summary      LED control over WebSocket
// @Description  Upgrades to a WebSocket session. The server pushes {"status":"on|off"} on connect and after every change; clients send {"state":"on|off"} text frames.
// @Tags         led
// @Success      101
// @Router       /wsled [get]
func (h *Handler) wsLed(c *gin.Context) {
	conn, err := upgrader.Upgrade(c.Writer, c.Request, nil)
	if err != nil {
		h.log.Infow("ws_upgrade_failed", "remote", c.ClientIP(), "err", err)
		return
	}

	ctx := c.Request.Context()
	id := h.nextClientID.Add(1)
	client := newWSClient(conn, h.opts.WriteWait)

	h.clients.Add(id, client)
	h.log.Infow("ws_client_connected", "client_id", id, "remote", c.ClientIP(), "clients", h.clients.Len())
	h.recordSession(ctx, models.EventClientConnected, id, c.ClientIP())

	defer func() {
		h.clients.Remove(id)
		_ = conn.Close()
		h.log.Infow("ws_client_disconnected", "client_id", id, "clients", h.clients.Len())
		h.recordSession(context.WithoutCancel(ctx), models.EventClientDisconnected, id, c.ClientIP())
	}()

	// Configure read limits and pong handler to extend read deadline.
	pongWait := h.opts.PongWait
	conn.SetReadLimit(h.opts.MaxMessageBytes)
	_ = conn.SetReadDeadline(time.Now().Add(pongWait))
	conn.SetPongHandler(func(string) error {
		return conn.SetReadDeadline(time.Now().Add(pongWait))
	})

	// Send current state immediately.
	if err := client.pushInitial(func() models.OnOff { return h.services.Monitoring.GetState(ctx) }); err != nil {
		h.log.Infow("ws_write_failed_initial", "client_id", id, "err", err)
		return
	}

	done := make(chan struct{})
	defer close(done)
	go h.keepAlive(client, id, (pongWait*9)/10, done)

	for {
		messageType, msg, err := conn.ReadMessage()
		if err != nil {
			if websocket.IsUnexpectedCloseError(err, websocket.CloseNormalClosure, websocket.CloseGoingAway, websocket.CloseNoStatusReceived) {
				h.log.Infow("ws_read_failed", "client_id", id, "err", err)
			} else {
				h.log.Debugw("ws_read_closed", "client_id", id, "err", err)
			}
			return
		}
		h.handleFrame(ctx, id, client, messageType, msg)
	}
}

// handleFrame validates one inbound frame and applies it. Errors are answered
// to the sender only; a successful change is replied to the sender first and
// then broadcast to everyone else.
func (h *Handler) handleFrame(ctx context.Context, id int64, client *wsClient, messageType int, msg []byte) {
	reject := func(code int, message string, err error) {
		h.log.Infow("ws_frame_rejected", "client_id", id, "status", code, "reason", message, "err", err)
		if werr := client.Send(codec.ErrorFor(code, message)); werr != nil {
			h.log.Infow("ws_write_failed", "client_id", id, "err", werr)
		}
	}

	if messageType != websocket.TextMessage {
		reject(http.StatusBadRequest, msgNotText, nil)
		return
	}
	if len(msg) == 0 {
		reject(http.StatusBadRequest, msgEmptyMessage, nil)
		return
	}

	desired, err := codec.DecodeControlRequest(msg)
	if err != nil {
		reject(http.StatusBadRequest, err.Error(), err)
		return
	}

	applied, err := h.services.Led.SetState(ctx, desired, service.Origin{
		Transport: service.TransportWebSocket,
		ClientID:  id,
	})
	if err != nil {
		h.log.Errorw("led_set_state_failed", "client_id", id, "desired", desired, "err", err)
		reject(http.StatusInternalServerError, msgSetStateFailed, err)
		return
	}

	payload := codec.EncodeSuccess(applied)
	if err := client.Send(payload); err != nil {
		h.log.Infow("ws_write_failed", "client_id", id, "err", err)
	}

	rep := h.dispatcher.BroadcastExcept(ctx, payload, id)
	h.log.Debugw("led_ws_broadcast", "client_id", id, "attempted", rep.Attempted, "failed", rep.Failed)
}

// keepAlive pings the peer until done is closed or a ping fails.
func (h *Handler) keepAlive(client *wsClient, id int64, period time.Duration, done <-chan struct{}) {
	ticker := time.NewTicker(period)
	defer ticker.Stop()

	for {
		select {
		case <-done:
			return
		case <-ticker.C:
			if err := client.ping(); err != nil {
				h.log.Infow("ws_ping_failed", "client_id", id, "err", err)
				return
			}
		}
	}
}

func (h *Handler) recordSession(ctx context.Context, eventType string, id int64, remote string) {
	if h.services.EventLog == nil {
		return
	}
	description := "client connected"
	if eventType == models.EventClientDisconnected {
		description = "client disconnected"
	}
	h.services.EventLog.Record(ctx, models.LedEvent{
		Type:        eventType,
		Description: description,
		Metadata: map[string]any{
			"client_id": id,
			"remote":    remote,
		},
	})
}
