package notifier

import (
	"context"
	"encoding/json"
	"time"

	"github.com/gofiber/websocket/v2"
	"github.com/google/uuid"
	"go.uber.org/zap"
)

const (
	// Time allowed to write a message to the peer.
	writeWait = 10 * time.Second

	// Time allowed to read the next pong message from the peer.
	pongWait = 60 * time.Second

	// Send pings to peer with this period. Must be less than pongWait.
	pingPeriod = (pongWait * 9) / 10
)

// notificationMessage is the wire format pushed to connected clients.
type notificationMessage struct {
	Type    string `json:"type"`
	Payload struct {
		Message string    `json:"message"`
		SentAt  time.Time `json:"sent_at"`
	} `json:"payload"`
}

// Hub keeps a registry of websocket clients grouped by user ID and pushes
// notifications to whichever connections that user has open. Outbound only:
// inbound frames are read just to keep the connection alive.
type Hub struct {
	clients    map[uuid.UUID]map[*Client]bool
	register   chan *Client
	unregister chan *Client
	send       chan *userMessage
}

// Client represents one websocket connection of one user.
type Client struct {
	Hub    *Hub
	Conn   *websocket.Conn
	Send   chan []byte
	UserID uuid.UUID
}

type userMessage struct {
	UserID uuid.UUID
	Data   []byte
}

func NewHub() *Hub {
	return &Hub{
		clients:    make(map[uuid.UUID]map[*Client]bool),
		register:   make(chan *Client),
		unregister: make(chan *Client),
		send:       make(chan *userMessage, 64),
	}
}

// Notify implements Notifier. Delivery is best effort: messages for users
// without an open connection are dropped.
func (h *Hub) Notify(userID uuid.UUID, message string) {
	msg := notificationMessage{Type: "notification"}
	msg.Payload.Message = message
	msg.Payload.SentAt = time.Now()

	data, err := json.Marshal(msg)
	if err != nil {
		log.Error("failed to marshal notification", zap.Error(err))
		return
	}

	select {
	case h.send <- &userMessage{UserID: userID, Data: data}:
	default:
		log.Warn("notification hub send channel full, dropping message",
			zap.String("userID", userID.String()))
	}
}

// Run starts the hub listening on its channels until ctx is cancelled.
func (h *Hub) Run(ctx context.Context) {
	log.Info("Notification hub started")
	for {
		select {
		case <-ctx.Done():
			log.Info("Notification hub shutting down")
			return

		case client := <-h.register:
			if _, ok := h.clients[client.UserID]; !ok {
				h.clients[client.UserID] = make(map[*Client]bool)
			}
			h.clients[client.UserID][client] = true
			log.Info("Notification client registered",
				zap.String("userID", client.UserID.String()))

		case client := <-h.unregister:
			if clients, ok := h.clients[client.UserID]; ok {
				if _, ok := clients[client]; ok {
					delete(clients, client)
					close(client.Send)
					if len(clients) == 0 {
						delete(h.clients, client.UserID)
					}
				}
			}

		case msg := <-h.send:
			for client := range h.clients[msg.UserID] {
				select {
				case client.Send <- msg.Data:
				default:
					close(client.Send)
					delete(h.clients[msg.UserID], client)
					log.Warn("Failed to send notification to client, unregistering",
						zap.String("userID", msg.UserID.String()))
				}
			}
		}
	}
}

// RegisterClient registers a new client connection in the hub.
func (h *Hub) RegisterClient(client *Client) {
	h.register <- client
}

// UnregisterClient removes a client connection from the hub.
func (h *Hub) UnregisterClient(client *Client) {
	h.unregister <- client
}

// ReadPump discards inbound frames and detects closed connections.
// Runs in its own goroutine per client.
func (c *Client) ReadPump() {
	defer func() {
		c.Hub.UnregisterClient(c)
		c.Conn.Close()
	}()
	c.Conn.SetReadDeadline(time.Now().Add(pongWait))
	c.Conn.SetPongHandler(func(string) error {
		c.Conn.SetReadDeadline(time.Now().Add(pongWait))
		return nil
	})
	for {
		if _, _, err := c.Conn.ReadMessage(); err != nil {
			if websocket.IsUnexpectedCloseError(err, websocket.CloseGoingAway, websocket.CloseNormalClosure) {
				log.Warn("WebSocket read error",
					zap.String("userID", c.UserID.String()),
					zap.Error(err),
				)
			}
			return
		}
	}
}

// WritePump pumps queued notifications to the websocket connection and keeps
// it alive with pings. Runs in its own goroutine per client.
func (c *Client) WritePump() {
	ticker := time.NewTicker(pingPeriod)
	defer func() {
		ticker.Stop()
		c.Conn.Close()
	}()
	for {
		select {
		case data, ok := <-c.Send:
			c.Conn.SetWriteDeadline(time.Now().Add(writeWait))
			if !ok {
				_ = c.Conn.WriteMessage(websocket.CloseMessage, []byte{})
				return
			}
			if err := c.Conn.WriteMessage(websocket.TextMessage, data); err != nil {
				log.Warn("Failed to write notification",
					zap.String("userID", c.UserID.String()),
					zap.Error(err),
				)
				return
			}
		case <-ticker.C:
			c.Conn.SetWriteDeadline(time.Now().Add(writeWait))
			if err := c.Conn.WriteControl(websocket.PingMessage, nil, time.Now().Add(writeWait)); err != nil {
				return
			}
		}
	}
}
