package ws

import (
	"encoding/json"
	"sync"

	"github.com/google/uuid"
	"github.com/rs/zerolog"
)

// Hub maintains the set of connected notification clients keyed by user and
// pushes inbox entries to them. Delivery is best-effort: a slow or absent
// client never blocks the caller.
type Hub struct {
	mu      sync.RWMutex
	clients map[uuid.UUID]map[*Client]bool

	register   chan *Client
	unregister chan *Client

	logger zerolog.Logger
}

// NewHub creates a new notification hub
func NewHub(logger zerolog.Logger) *Hub {
	return &Hub{
		clients:    make(map[uuid.UUID]map[*Client]bool),
		register:   make(chan *Client),
		unregister: make(chan *Client),
		logger:     logger,
	}
}

// Run processes register/unregister events. Call in its own goroutine.
func (h *Hub) Run() {
	for {
		select {
		case client := <-h.register:
			h.mu.Lock()
			if h.clients[client.userID] == nil {
				h.clients[client.userID] = make(map[*Client]bool)
			}
			h.clients[client.userID][client] = true
			h.mu.Unlock()
			h.logger.Debug().Str("userID", client.userID.String()).Msg("Notification client registered")

		case client := <-h.unregister:
			h.mu.Lock()
			if conns, ok := h.clients[client.userID]; ok {
				if _, ok := conns[client]; ok {
					delete(conns, client)
					close(client.send)
					if len(conns) == 0 {
						delete(h.clients, client.userID)
					}
				}
			}
			h.mu.Unlock()
			h.logger.Debug().Str("userID", client.userID.String()).Msg("Notification client unregistered")
		}
	}
}

// Push sends a payload to every open connection of the given user.
// Connections with a full send buffer are dropped.
func (h *Hub) Push(userID uuid.UUID, payload interface{}) {
	data, err := json.Marshal(payload)
	if err != nil {
		h.logger.Error().Err(err).Msg("Failed to marshal notification payload")
		return
	}

	h.mu.RLock()
	conns := h.clients[userID]
	var stale []*Client
	for client := range conns {
		select {
		case client.send <- data:
		default:
			stale = append(stale, client)
		}
	}
	h.mu.RUnlock()

	for _, client := range stale {
		h.unregister <- client
	}
}
