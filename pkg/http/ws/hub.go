package ws

import (
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/gorilla/websocket"
	"github.com/rs/zerolog"
)

// Hub fans session state out to every connected board screen. There is one
// hosted game session, so every client receives every message.
type Hub struct {
	mu      sync.RWMutex
	clients map[uuid.UUID]*Connection
	logger  zerolog.Logger
}

// NewHub creates a board feed hub.
func NewHub(logger zerolog.Logger) *Hub {
	return &Hub{
		clients: make(map[uuid.UUID]*Connection),
		logger:  logger.With().Str("component", "board_hub").Logger(),
	}
}

// Register adds a board client and returns its id.
func (h *Hub) Register(conn *Connection) uuid.UUID {
	id := uuid.New()

	h.mu.Lock()
	h.clients[id] = conn
	h.mu.Unlock()

	h.logger.Info().Str("client_id", id.String()).Msg("board client connected")
	return id
}

// Unregister drops a board client and closes its connection.
func (h *Hub) Unregister(id uuid.UUID) {
	h.mu.Lock()
	conn, exists := h.clients[id]
	if exists {
		delete(h.clients, id)
	}
	h.mu.Unlock()

	if exists {
		conn.Close()
		h.logger.Info().Str("client_id", id.String()).Msg("board client disconnected")
	}
}

// Broadcast pushes a message to every connected board screen. Slow clients
// with a full send queue are skipped rather than blocking the game.
func (h *Hub) Broadcast(msg Message) {
	h.mu.RLock()
	defer h.mu.RUnlock()

	for id, conn := range h.clients {
		if err := conn.Send(msg); err != nil {
			h.logger.Warn().Err(err).Str("client_id", id.String()).Msg("board send failed")
		}
	}
}

// ClientCount reports the number of connected board screens.
func (h *Hub) ClientCount() int {
	h.mu.RLock()
	defer h.mu.RUnlock()
	return len(h.clients)
}

// Connection wraps a WebSocket with a buffered send queue.
type Connection struct {
	conn   *websocket.Conn
	sendCh chan Message
	mu     sync.Mutex
	closed bool
	logger zerolog.Logger
}

// NewConnection wraps an upgraded WebSocket connection.
func NewConnection(conn *websocket.Conn, logger zerolog.Logger) *Connection {
	return &Connection{
		conn:   conn,
		sendCh: make(chan Message, 64),
		logger: logger,
	}
}

// Send queues a message for delivery.
func (c *Connection) Send(msg Message) error {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.closed {
		return ErrConnectionClosed
	}

	select {
	case c.sendCh <- msg:
		return nil
	default:
		return ErrSendQueueFull
	}
}

// Close shuts down the connection.
func (c *Connection) Close() {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.closed {
		return
	}
	c.closed = true
	close(c.sendCh)
	c.conn.Close()
}

// WritePump drains the send queue onto the wire.
func (c *Connection) WritePump() {
	defer c.conn.Close()

	for msg := range c.sendCh {
		if err := c.conn.WriteJSON(msg); err != nil {
			c.logger.Warn().Err(err).Msg("board write error")
			return
		}
	}
	c.conn.WriteMessage(websocket.CloseMessage, []byte{})
}

// ReadPump consumes incoming frames until the peer goes away. Board clients
// send nothing meaningful; reading keeps pings flowing and detects closes.
func (c *Connection) ReadPump(onClose func()) {
	defer func() {
		c.conn.Close()
		if onClose != nil {
			onClose()
		}
	}()

	c.conn.SetReadDeadline(time.Now().Add(60 * time.Second))
	c.conn.SetPongHandler(func(string) error {
		c.conn.SetReadDeadline(time.Now().Add(60 * time.Second))
		return nil
	})

	for {
		if _, _, err := c.conn.ReadMessage(); err != nil {
			if websocket.IsUnexpectedCloseError(err, websocket.CloseGoingAway, websocket.CloseAbnormalClosure) {
				c.logger.Warn().Err(err).Msg("board read error")
			}
			return
		}
	}
}

var (
	ErrConnectionClosed = &Error{Code: "connection_closed", Message: "Connection is closed"}
	ErrSendQueueFull    = &Error{Code: "send_queue_full", Message: "Send queue is full"}
)

type Error struct {
	Code    string
	Message string
}

func (e *Error) Error() string {
	return e.Message
}
