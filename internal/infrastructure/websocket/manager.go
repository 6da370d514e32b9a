package websocket

import (
	"context"
	"encoding/json"
	"sync"

	"github.com/gorilla/websocket"

	"gamemarket/pkg/logger"
)

// Event is the envelope pushed to connected clients for chat messages and
// order status changes.
type Event struct {
	Type    string      `json:"type"` // chat_message, order_update, wallet_update
	Payload interface{} `json:"payload"`
}

type Client struct {
	UserID string
	Conn   *websocket.Conn
	Send   chan []byte
}

type Manager struct {
	clients    map[string]*Client
	Register   chan *Client
	Unregister chan *Client
	mutex      sync.RWMutex
}

func NewManager() *Manager {
	return &Manager{
		clients:    make(map[string]*Client),
		Register:   make(chan *Client),
		Unregister: make(chan *Client),
	}
}

// Start runs the registration loop until the context is cancelled.
func (m *Manager) Start(ctx context.Context) {
	go func() {
		for {
			select {
			case client := <-m.Register:
				m.mutex.Lock()
				// A reconnect replaces the old connection for the same user.
				if old, ok := m.clients[client.UserID]; ok {
					close(old.Send)
				}
				m.clients[client.UserID] = client
				m.mutex.Unlock()
				logger.Debug("WebSocket client registered: %s", client.UserID)

			case client := <-m.Unregister:
				m.mutex.Lock()
				if current, ok := m.clients[client.UserID]; ok && current == client {
					delete(m.clients, client.UserID)
					close(client.Send)
				}
				m.mutex.Unlock()
				logger.Debug("WebSocket client unregistered: %s", client.UserID)

			case <-ctx.Done():
				return
			}
		}
	}()
}

// SendToUser delivers an event to a user if they are connected. Offline users
// are silently skipped; the data they missed is still in Firestore.
func (m *Manager) SendToUser(userID string, event Event) {
	payload, err := json.Marshal(event)
	if err != nil {
		logger.Error("Failed to marshal websocket event: %v", err)
		return
	}

	m.mutex.RLock()
	client, ok := m.clients[userID]
	m.mutex.RUnlock()

	if !ok {
		return
	}

	select {
	case client.Send <- payload:
	default:
		// Slow consumer, drop the event rather than block the caller.
	}
}

// NotifyUser wraps SendToUser for callers that only know event type and payload.
func (m *Manager) NotifyUser(userID, eventType string, payload interface{}) {
	m.SendToUser(userID, Event{Type: eventType, Payload: payload})
}

// IsOnline reports whether a user has an active connection.
func (m *Manager) IsOnline(userID string) bool {
	m.mutex.RLock()
	defer m.mutex.RUnlock()
	_, ok := m.clients[userID]
	return ok
}

// ReadPump drains inbound frames until the connection drops. Clients only
// receive pushes; all writes go through the REST API.
func (c *Client) ReadPump(m *Manager) {
	defer func() {
		m.Unregister <- c
		c.Conn.Close()
	}()

	for {
		if _, _, err := c.Conn.ReadMessage(); err != nil {
			if websocket.IsUnexpectedCloseError(err, websocket.CloseGoingAway, websocket.CloseAbnormalClosure) {
				logger.Debug("WebSocket read error for %s: %v", c.UserID, err)
			}
			return
		}
	}
}

// WritePump forwards queued events to the connection.
func (c *Client) WritePump() {
	defer c.Conn.Close()

	for {
		message, ok := <-c.Send
		if !ok {
			c.Conn.WriteMessage(websocket.CloseMessage, []byte{})
			return
		}

		if err := c.Conn.WriteMessage(websocket.TextMessage, message); err != nil {
			logger.Debug("WebSocket write error for %s: %v", c.UserID, err)
			return
		}
	}
}
