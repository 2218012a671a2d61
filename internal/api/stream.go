package api

import (
	"log/slog"
	"net/http"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/gorilla/websocket"

	"linkcfg/pkg/metrics"
	"linkcfg/pkg/settings"
)

const (
	streamBuffer = 32
	writeWait    = 5 * time.Second
)

var upgrader = websocket.Upgrader{
	CheckOrigin: func(r *http.Request) bool {
		return true // admin clients connect from arbitrary origins on the local network
	},
}

// Event is pushed to stream clients after every setting change.
type Event struct {
	Type    string `json:"type"`
	Key     string `json:"key,omitempty"`
	Value   any    `json:"value,omitempty"`
	Display string `json:"display,omitempty"`
	ID      string `json:"id,omitempty"`
}

type client struct {
	id   string
	send chan Event
}

// StreamHub fans setting changes out to websocket clients.
type StreamHub struct {
	metrics *metrics.Metrics // optional

	mu      sync.Mutex
	clients map[string]*client
	quit    chan struct{}
	closed  bool
}

// NewStreamHub creates a hub. m may be nil.
func NewStreamHub(m *metrics.Metrics) *StreamHub {
	return &StreamHub{
		metrics: m,
		clients: make(map[string]*client),
		quit:    make(chan struct{}),
	}
}

// Attach subscribes the hub to the registry behind g. The returned function detaches.
func (h *StreamHub) Attach(g *Guard) (detach func()) {
	g.Do(func(r *settings.Registry) { r.AddListener(onStreamChange, h) })
	return func() {
		g.Do(func(r *settings.Registry) { r.RemoveListener(onStreamChange, h) })
	}
}

func onStreamChange(s *settings.Setting, data any) {
	h := data.(*StreamHub)
	h.broadcast(Event{
		Type:    "change",
		Key:     s.Key,
		Value:   valueOf(s),
		Display: settings.FormatValue(s),
	})
}

// broadcast never blocks the change pipeline; slow clients lose events.
func (h *StreamHub) broadcast(ev Event) {
	h.mu.Lock()
	defer h.mu.Unlock()
	for _, c := range h.clients {
		select {
		case c.send <- ev:
		default:
			slog.Warn("Dropping change event for slow stream client", "client", c.id, "key", ev.Key)
		}
	}
}

// Clients returns the number of connected clients.
func (h *StreamHub) Clients() int {
	h.mu.Lock()
	defer h.mu.Unlock()
	return len(h.clients)
}

func (h *StreamHub) add(c *client) bool {
	h.mu.Lock()
	defer h.mu.Unlock()
	if h.closed {
		return false
	}
	h.clients[c.id] = c
	if h.metrics != nil {
		h.metrics.WSConnections.Inc()
	}
	return true
}

func (h *StreamHub) remove(c *client) {
	h.mu.Lock()
	defer h.mu.Unlock()
	if _, ok := h.clients[c.id]; !ok {
		return
	}
	delete(h.clients, c.id)
	if h.metrics != nil {
		h.metrics.WSConnections.Dec()
	}
}

// Close disconnects every client. Hijacked connections are not closed by
// http.Server.Shutdown.
func (h *StreamHub) Close() {
	h.mu.Lock()
	defer h.mu.Unlock()
	if !h.closed {
		h.closed = true
		close(h.quit)
	}
}

// HandleStream upgrades to a websocket and streams change events:
// GET /api/settings/stream.
func (h *StreamHub) HandleStream(w http.ResponseWriter, r *http.Request) {
	conn, err := upgrader.Upgrade(w, r, nil)
	if err != nil {
		slog.Warn("WebSocket upgrade failed", "error", err)
		return
	}
	defer conn.Close()

	c := &client{id: uuid.NewString(), send: make(chan Event, streamBuffer)}
	if !h.add(c) {
		return
	}
	defer h.remove(c)
	slog.Debug("Stream client connected", "client", c.id, "remote", r.RemoteAddr)

	// The reader only detects disconnects; clients send nothing.
	done := make(chan struct{})
	go func() {
		defer close(done)
		for {
			if _, _, err := conn.ReadMessage(); err != nil {
				return
			}
		}
	}()

	if err := h.write(conn, Event{Type: "hello", ID: c.id}); err != nil {
		return
	}
	for {
		select {
		case ev := <-c.send:
			if err := h.write(conn, ev); err != nil {
				slog.Debug("Stream write failed", "client", c.id, "error", err)
				return
			}
		case <-done:
			slog.Debug("Stream client disconnected", "client", c.id)
			return
		case <-h.quit:
			_ = conn.WriteControl(websocket.CloseMessage,
				websocket.FormatCloseMessage(websocket.CloseGoingAway, "shutting down"),
				time.Now().Add(writeWait))
			return
		}
	}
}

func (h *StreamHub) write(conn *websocket.Conn, ev Event) error {
	if err := conn.SetWriteDeadline(time.Now().Add(writeWait)); err != nil {
		return err
	}
	return conn.WriteJSON(ev)
}
