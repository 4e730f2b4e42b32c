package server

import (
	"context"
	"encoding/json"
	"errors"
	"sync"
	"time"

	"github.com/duelhall/duel-server-go/internal/game"
	"github.com/gorilla/websocket"
	"go.uber.org/zap"
)

// Message is the websocket envelope in both directions.
type Message struct {
	Type     string         `json:"type"`
	GameID   string         `json:"game_id,omitempty"`
	Username string         `json:"username,omitempty"`
	Error    string         `json:"error,omitempty"`
	Data     any            `json:"data,omitempty"`
	Payload  map[string]any `json:"payload,omitempty"`
}

// Message types.
const (
	MessageMove         = "move"
	MessageLegalMoves   = "legal_moves"
	MessageState        = "state"
	MessageNotification = "notification"
	MessageError        = "error"
)

// Client is one websocket connection watching a game.
type Client struct {
	conn     *websocket.Conn
	send     chan []byte
	gameID   string
	username string

	mu     sync.Mutex
	closed bool
}

// trySend queues data without blocking. It reports false when the buffer
// is full or the client is gone.
func (c *Client) trySend(data []byte) bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.closed {
		return false
	}
	select {
	case c.send <- data:
		return true
	default:
		return false
	}
}

func (c *Client) close() {
	c.mu.Lock()
	defer c.mu.Unlock()
	if !c.closed {
		c.closed = true
		close(c.send)
	}
}

// Hub fans manager notifications out to the clients of each game.
type Hub struct {
	logger     *zap.Logger
	clients    map[*Client]bool
	register   chan *Client
	unregister chan *Client
	broadcast  chan game.Notification
	done       chan struct{}
}

// NewHub creates a hub. Run must be called before clients connect.
func NewHub(logger *zap.Logger) *Hub {
	return &Hub{
		logger:     logger,
		clients:    make(map[*Client]bool),
		register:   make(chan *Client),
		unregister: make(chan *Client),
		broadcast:  make(chan game.Notification, 64),
		done:       make(chan struct{}),
	}
}

// Run serves registrations and broadcasts until ctx is done.
func (h *Hub) Run(ctx context.Context) {
	defer func() {
		close(h.done)
		for client := range h.clients {
			client.close()
			delete(h.clients, client)
		}
	}()
	for {
		select {
		case <-ctx.Done():
			return

		case client := <-h.register:
			h.clients[client] = true
			h.logger.Debug("client registered",
				zap.String("game_id", client.gameID),
				zap.String("username", client.username),
			)

		case client := <-h.unregister:
			if _, ok := h.clients[client]; ok {
				delete(h.clients, client)
				client.close()
				h.logger.Debug("client unregistered",
					zap.String("game_id", client.gameID),
					zap.String("username", client.username),
				)
			}

		case n := <-h.broadcast:
			payload, err := json.Marshal(Message{Type: MessageNotification, GameID: n.GameID, Data: n})
			if err != nil {
				h.logger.Error("failed to encode notification", zap.String("game_id", n.GameID), zap.Error(err))
				continue
			}
			for client := range h.clients {
				if client.gameID != n.GameID {
					continue
				}
				if !client.trySend(payload) {
					h.logger.Warn("dropping slow client",
						zap.String("game_id", client.gameID),
						zap.String("username", client.username),
					)
					client.close()
					delete(h.clients, client)
				}
			}
		}
	}
}

// Publish queues a notification. It is a game.NotificationHandler.
func (h *Hub) Publish(n game.Notification) {
	select {
	case h.broadcast <- n:
	case <-h.done:
	}
}

func (h *Hub) add(c *Client) error {
	select {
	case h.register <- c:
		return nil
	case <-h.done:
		return errors.New("hub stopped")
	}
}

func (h *Hub) remove(c *Client) {
	select {
	case h.unregister <- c:
	case <-h.done:
	}
}

func (c *Client) reply(m Message) {
	data, err := json.Marshal(m)
	if err != nil {
		return
	}
	c.trySend(data)
}

func (c *Client) readPump(s *Server) {
	defer func() {
		s.hub.remove(c)
		c.conn.Close()
	}()

	for {
		var msg Message
		if err := c.conn.ReadJSON(&msg); err != nil {
			if websocket.IsUnexpectedCloseError(err, websocket.CloseGoingAway, websocket.CloseNormalClosure) {
				s.logger.Debug("websocket read failed", zap.String("game_id", c.gameID), zap.Error(err))
			}
			return
		}
		s.handleMessage(c, msg)
	}
}

func (c *Client) writePump(writeTimeout time.Duration) {
	defer c.conn.Close()

	for message := range c.send {
		if writeTimeout > 0 {
			_ = c.conn.SetWriteDeadline(time.Now().Add(writeTimeout))
		}
		if err := c.conn.WriteMessage(websocket.TextMessage, message); err != nil {
			return
		}
	}
	_ = c.conn.WriteMessage(websocket.CloseMessage, websocket.FormatCloseMessage(websocket.CloseNormalClosure, ""))
}
