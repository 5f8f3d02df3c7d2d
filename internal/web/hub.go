package web

import (
	"encoding/json"
	"net/http"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/gorilla/websocket"
	"github.com/rs/zerolog"

	"kicklive/internal/events"
)

// Client represents a WebSocket client attached to the local event relay
type Client struct {
	ID     string
	Conn   *websocket.Conn
	Send   chan []byte
	Hub    *EventHub
	mu     sync.Mutex
	closed bool
}

// EventHub relays decoded platform events to locally attached WebSocket
// clients (dashboards, overlays). It is fed by a dispatcher subscription.
type EventHub struct {
	clients    map[string]*Client
	register   chan *Client
	unregister chan *Client
	broadcast  chan events.Event
	upgrader   websocket.Upgrader
	logger     zerolog.Logger
	mu         sync.RWMutex
}

// NewEventHub creates a new event relay hub
func NewEventHub(logger zerolog.Logger) *EventHub {
	return &EventHub{
		clients:    make(map[string]*Client),
		register:   make(chan *Client, 100),
		unregister: make(chan *Client, 100),
		broadcast:  make(chan events.Event, 1000),
		upgrader: websocket.Upgrader{
			ReadBufferSize:  1024,
			WriteBufferSize: 1024,
			CheckOrigin:     func(*http.Request) bool { return true },
		},
		logger: logger.With().Str("component", "hub").Logger(),
	}
}

// Run starts the hub's event loop
func (h *EventHub) Run() {
	for {
		select {
		case client := <-h.register:
			h.registerClient(client)

		case client := <-h.unregister:
			h.unregisterClient(client)

		case ev := <-h.broadcast:
			h.broadcastEvent(ev)
		}
	}
}

// ServeWS upgrades an HTTP request and attaches the client to the hub.
func (h *EventHub) ServeWS(w http.ResponseWriter, r *http.Request) {
	conn, err := h.upgrader.Upgrade(w, r, nil)
	if err != nil {
		h.logger.Warn().Err(err).Msg("websocket upgrade failed")
		return
	}

	client := &Client{
		ID:   uuid.NewString(),
		Conn: conn,
		Send: make(chan []byte, 256),
		Hub:  h,
	}
	h.register <- client
	go client.readPump()
}

// registerClient adds a new client to the hub
func (h *EventHub) registerClient(client *Client) {
	h.mu.Lock()
	defer h.mu.Unlock()

	h.clients[client.ID] = client
	h.logger.Info().Str("client", client.ID).Int("total", len(h.clients)).Msg("client connected")

	go client.writePump()
}

// unregisterClient removes a client from the hub
func (h *EventHub) unregisterClient(client *Client) {
	h.mu.Lock()
	defer h.mu.Unlock()

	if _, ok := h.clients[client.ID]; ok {
		delete(h.clients, client.ID)
		close(client.Send)
		h.logger.Info().Str("client", client.ID).Int("total", len(h.clients)).Msg("client disconnected")
	}
}

// broadcastEvent sends a decoded event to all connected clients
func (h *EventHub) broadcastEvent(ev events.Event) {
	h.mu.RLock()
	defer h.mu.RUnlock()

	data, err := json.Marshal(map[string]any{
		"category": ev.Category,
		"event":    ev.Name,
		"channel":  ev.Channel,
		"data":     ev.Payload,
		"time":     time.Now().Unix(),
	})
	if err != nil {
		h.logger.Warn().Err(err).Msg("failed to marshal event")
		return
	}

	for _, client := range h.clients {
		select {
		case client.Send <- data:
		default:
			// Client send buffer full, skip
			h.logger.Debug().Str("client", client.ID).Msg("client send buffer full")
		}
	}
}

// Broadcast enqueues an event for relay to all connected clients.
func (h *EventHub) Broadcast(ev events.Event) {
	select {
	case h.broadcast <- ev:
	default:
		h.logger.Warn().Msg("broadcast channel full, dropping event")
	}
}

// ClientCount returns the number of connected clients
func (h *EventHub) ClientCount() int {
	h.mu.RLock()
	defer h.mu.RUnlock()
	return len(h.clients)
}

// writePump pumps messages from the hub to the WebSocket connection
func (c *Client) writePump() {
	ticker := time.NewTicker(30 * time.Second)
	defer func() {
		ticker.Stop()
		c.Conn.Close()
	}()

	for {
		select {
		case message, ok := <-c.Send:
			c.mu.Lock()
			if !ok {
				// Hub closed the channel
				c.closed = true
				c.Conn.WriteMessage(websocket.CloseMessage, []byte{})
				c.mu.Unlock()
				return
			}

			if err := c.Conn.WriteMessage(websocket.TextMessage, message); err != nil {
				c.closed = true
				c.mu.Unlock()
				return
			}
			c.mu.Unlock()

		case <-ticker.C:
			c.mu.Lock()
			if c.closed {
				c.mu.Unlock()
				return
			}

			if err := c.Conn.WriteMessage(websocket.PingMessage, nil); err != nil {
				c.closed = true
				c.mu.Unlock()
				return
			}
			c.mu.Unlock()
		}
	}
}

// Close closes the client connection
func (c *Client) Close() {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.closed {
		return
	}

	c.closed = true
	c.Conn.Close()
}

// readPump drains the WebSocket connection until the client goes away
func (c *Client) readPump() {
	defer func() {
		c.Hub.unregister <- c
		c.Close()
	}()

	c.Conn.SetReadLimit(512)
	c.Conn.SetReadDeadline(time.Now().Add(60 * time.Second))
	c.Conn.SetPongHandler(func(string) error {
		c.Conn.SetReadDeadline(time.Now().Add(60 * time.Second))
		return nil
	})

	for {
		_, _, err := c.Conn.ReadMessage()
		if err != nil {
			break
		}
	}
}
