package ws

import (
	"context"
	"encoding/json"
	"log/slog"
	"sync"

	"InstaCatalog/entity"
	"InstaCatalog/internal/lib/sl"
)

// Event is a message pushed to dashboard clients.
type Event struct {
	Type string      `json:"type"`
	Data interface{} `json:"data"`
}

type outbound struct {
	username string
	data     []byte
}

// Hub keeps the connected dashboard clients and fans status events out to them.
type Hub struct {
	clients    map[*Client]bool
	broadcast  chan outbound
	register   chan *Client
	unregister chan *Client
	done       chan struct{}
	mu         sync.RWMutex
	log        *slog.Logger
}

func NewHub(log *slog.Logger) *Hub {
	return &Hub{
		clients:    make(map[*Client]bool),
		broadcast:  make(chan outbound, 256),
		register:   make(chan *Client),
		unregister: make(chan *Client),
		done:       make(chan struct{}),
		log:        log.With(sl.Module("ws")),
	}
}

// Run is the hub event loop; it returns when ctx is done.
func (h *Hub) Run(ctx context.Context) {
	defer close(h.done)
	for {
		select {
		case <-ctx.Done():
			h.mu.Lock()
			for client := range h.clients {
				close(client.send)
				delete(h.clients, client)
			}
			h.mu.Unlock()
			return

		case client := <-h.register:
			h.mu.Lock()
			h.clients[client] = true
			h.mu.Unlock()

		case client := <-h.unregister:
			h.mu.Lock()
			if _, ok := h.clients[client]; ok {
				delete(h.clients, client)
				close(client.send)
			}
			h.mu.Unlock()

		case msg := <-h.broadcast:
			h.mu.Lock()
			for client := range h.clients {
				if !client.wants(msg.username) {
					continue
				}
				select {
				case client.send <- msg.data:
				default:
					// slow consumer
					close(client.send)
					delete(h.clients, client)
				}
			}
			h.mu.Unlock()
		}
	}
}

// Clients returns the number of connected clients.
func (h *Hub) Clients() int {
	h.mu.RLock()
	defer h.mu.RUnlock()
	return len(h.clients)
}

// BroadcastStatus never blocks the caller; events are dropped when the hub is saturated.
func (h *Hub) BroadcastStatus(status entity.StatusRecord) {
	data, err := json.Marshal(&Event{Type: "status", Data: status})
	if err != nil {
		h.log.Error("marshal status event", sl.Err(err))
		return
	}
	select {
	case h.broadcast <- outbound{username: status.Username, data: data}:
	default:
		h.log.Warn("broadcast queue full, dropping event", slog.String("username", status.Username))
	}
}

type clientEvent struct {
	Type string          `json:"type"`
	Data json.RawMessage `json:"data"`
}

// HandleClientMessage applies a client request. Clients may narrow the feed
// with {"type":"subscribe","data":{"username":"..."}}; an empty username resets it.
func (h *Hub) HandleClientMessage(c *Client, raw []byte) {
	var event clientEvent
	if err := json.Unmarshal(raw, &event); err != nil {
		h.log.Warn("failed to parse client ws message", sl.Err(err))
		return
	}

	switch event.Type {
	case "subscribe":
		var data struct {
			Username string `json:"username"`
		}
		if err := json.Unmarshal(event.Data, &data); err != nil {
			h.log.Warn("failed to parse subscribe data", sl.Err(err))
			return
		}
		c.setFilter(data.Username)
	default:
		h.log.Debug("unknown client event", slog.String("type", event.Type))
	}
}

func (h *Hub) add(c *Client) bool {
	select {
	case h.register <- c:
		return true
	case <-h.done:
		return false
	}
}

func (h *Hub) remove(c *Client) {
	select {
	case h.unregister <- c:
	case <-h.done:
	}
}
