// Package push delivers notifications to connected WebSocket clients.
//
// Delivery is best-effort by design: the hub only reaches clients connected
// to this process instance, and a failed write drops the connection. The
// persisted notification records remain the source of truth.
package push

import (
	"net/http"
	"sync"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/gorilla/websocket"
	"github.com/rs/zerolog/log"
)

const (
	writeWait  = 10 * time.Second
	pingPeriod = 30 * time.Second
)

// client wraps a connection with a write lock since gorilla/websocket does
// not support concurrent writers.
type client struct {
	mu   sync.Mutex
	conn *websocket.Conn
}

func (c *client) writeJSON(v any) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	_ = c.conn.SetWriteDeadline(time.Now().Add(writeWait))
	return c.conn.WriteJSON(v)
}

func (c *client) ping() error {
	c.mu.Lock()
	defer c.mu.Unlock()
	_ = c.conn.SetWriteDeadline(time.Now().Add(writeWait))
	return c.conn.WriteMessage(websocket.PingMessage, nil)
}

// Hub tracks the WebSocket connections of this process instance, keyed by
// user ID. A user can hold multiple connections at once.
type Hub struct {
	mu       sync.Mutex
	clients  map[uuid.UUID][]*client
	upgrader websocket.Upgrader
}

func NewHub() *Hub {
	return &Hub{
		clients: make(map[uuid.UUID][]*client),
		upgrader: websocket.Upgrader{
			ReadBufferSize:  1024,
			WriteBufferSize: 1024,
			CheckOrigin:     func(_ *http.Request) bool { return true },
		},
	}
}

type envelope struct {
	Message string `json:"message"`
}

// Push sends a message to every connection of the user. Connections that
// fail to accept the write are closed and removed.
func (h *Hub) Push(userID uuid.UUID, message string) {
	h.mu.Lock()
	clients := append([]*client(nil), h.clients[userID]...)
	h.mu.Unlock()

	for _, cl := range clients {
		err := cl.writeJSON(envelope{Message: message})
		if err != nil {
			log.Debug().Err(err).Str("user", userID.String()).Msg("dropping dead connection")
			h.remove(userID, cl)
		}
	}
}

// Handle upgrades the request to a WebSocket connection and registers it for
// the authenticated user. It blocks reading the connection until the client
// disconnects, answering pings along the way.
func (h *Hub) Handle(c *gin.Context, userID uuid.UUID) {
	conn, err := h.upgrader.Upgrade(c.Writer, c.Request, nil)
	if err != nil {
		log.Debug().Err(err).Msg("websocket upgrade failed")
		return
	}

	cl := &client{conn: conn}
	h.add(userID, cl)
	defer h.remove(userID, cl)

	done := make(chan struct{})
	defer close(done)
	go keepAlive(cl, done)

	// Drain incoming frames so that close and pong control messages are
	// processed. Clients are not expected to send data.
	for {
		_, _, err := conn.ReadMessage()
		if err != nil {
			return
		}
	}
}

func (h *Hub) add(userID uuid.UUID, cl *client) {
	h.mu.Lock()
	defer h.mu.Unlock()
	h.clients[userID] = append(h.clients[userID], cl)
}

func (h *Hub) remove(userID uuid.UUID, cl *client) {
	h.mu.Lock()
	defer h.mu.Unlock()

	clients := h.clients[userID]
	for i, candidate := range clients {
		if candidate == cl {
			clients = append(clients[:i], clients[i+1:]...)
			break
		}
	}

	if len(clients) == 0 {
		delete(h.clients, userID)
	} else {
		h.clients[userID] = clients
	}

	_ = cl.conn.Close()
}

func keepAlive(cl *client, done <-chan struct{}) {
	ticker := time.NewTicker(pingPeriod)
	defer ticker.Stop()

	for {
		select {
		case <-done:
			return
		case <-ticker.C:
			err := cl.ping()
			if err != nil {
				return
			}
		}
	}
}
