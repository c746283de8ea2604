package server

import (
	"encoding/json"
	"log/slog"
	"net/http"
	"sync"
	"time"

	"github.com/gorilla/websocket"

	"github.com/ayusman/signetic/internal/typing"
)

const (
	writeWait  = 5 * time.Second
	pongWait   = 60 * time.Second
	pingPeriod = pongWait * 9 / 10
	clientBuf  = 32
)

var upgrader = websocket.Upgrader{
	CheckOrigin: func(r *http.Request) bool {
		return true // Allow local connections
	},
}

// StatusHub pushes every typing status to connected websocket clients.
// A new client first receives the latest status. Clients that fall
// clientBuf messages behind are disconnected.
type StatusHub struct {
	mu      sync.Mutex
	clients map[*wsClient]struct{}
	last    []byte
	closed  bool
}

type wsClient struct {
	conn *websocket.Conn
	send chan []byte
}

// NewStatusHub creates a hub seeded with initial.
func NewStatusHub(initial typing.Status) *StatusHub {
	h := &StatusHub{clients: make(map[*wsClient]struct{})}
	h.last, _ = json.Marshal(initial)
	return h
}

// Publish broadcasts st. It never blocks.
func (h *StatusHub) Publish(st typing.Status) {
	msg, err := json.Marshal(st)
	if err != nil {
		slog.Error("failed to encode status", "error", err)
		return
	}

	h.mu.Lock()
	defer h.mu.Unlock()
	h.last = msg
	for c := range h.clients {
		select {
		case c.send <- msg:
		default:
			slog.Warn("websocket client too slow, disconnecting", "remote", c.conn.RemoteAddr())
			h.drop(c)
		}
	}
}

// drop removes c; h.mu must be held.
func (h *StatusHub) drop(c *wsClient) {
	if _, ok := h.clients[c]; ok {
		delete(h.clients, c)
		close(c.send)
	}
}

// Clients returns the number of connected clients.
func (h *StatusHub) Clients() int {
	h.mu.Lock()
	defer h.mu.Unlock()
	return len(h.clients)
}

// Close disconnects every client and rejects new ones.
func (h *StatusHub) Close() {
	h.mu.Lock()
	defer h.mu.Unlock()
	h.closed = true
	for c := range h.clients {
		h.drop(c)
	}
}

// ServeHTTP upgrades the request and streams statuses until either side
// goes away.
func (h *StatusHub) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	conn, err := upgrader.Upgrade(w, r, nil)
	if err != nil {
		slog.Warn("websocket upgrade error", "error", err)
		return
	}

	c := &wsClient{conn: conn, send: make(chan []byte, clientBuf)}
	h.mu.Lock()
	if h.closed {
		h.mu.Unlock()
		conn.Close()
		return
	}
	c.send <- h.last
	h.clients[c] = struct{}{}
	h.mu.Unlock()

	go h.readPump(c)
	h.writePump(c)
}

// readPump discards client messages and handles pongs.
func (h *StatusHub) readPump(c *wsClient) {
	defer func() {
		h.mu.Lock()
		h.drop(c)
		h.mu.Unlock()
	}()

	c.conn.SetReadDeadline(time.Now().Add(pongWait))
	c.conn.SetPongHandler(func(string) error {
		return c.conn.SetReadDeadline(time.Now().Add(pongWait))
	})
	for {
		if _, _, err := c.conn.ReadMessage(); err != nil {
			return
		}
	}
}

func (h *StatusHub) writePump(c *wsClient) {
	ticker := time.NewTicker(pingPeriod)
	defer func() {
		ticker.Stop()
		c.conn.Close()
	}()

	for {
		select {
		case msg, ok := <-c.send:
			c.conn.SetWriteDeadline(time.Now().Add(writeWait))
			if !ok {
				c.conn.WriteMessage(websocket.CloseMessage, websocket.FormatCloseMessage(websocket.CloseNormalClosure, ""))
				return
			}
			if err := c.conn.WriteMessage(websocket.TextMessage, msg); err != nil {
				return
			}
		case <-ticker.C:
			c.conn.SetWriteDeadline(time.Now().Add(writeWait))
			if err := c.conn.WriteMessage(websocket.PingMessage, nil); err != nil {
				return
			}
		}
	}
}
