package websocket

import (
	"errors"
	"sync"

	"github.com/rs/zerolog/log"
)

// ErrClientClosed is returned when attempting to send to a closed client
var ErrClientClosed = errors.New("client is closed")

// ClientInterface defines the interface that clients must implement
type ClientInterface interface {
	ID() string
	Send(data []byte) error
	Close() error
}

// Hub manages WebSocket connections organized into per-workspace channels.
// A client may be subscribed to any number of channels at once.
// It is safe for concurrent use.
type Hub struct {
	// channels maps workspace ID to a map of client ID to client
	channels map[int32]map[string]ClientInterface
	// subscriptions maps client ID to the set of workspace IDs it joined,
	// so a disconnect can drop the client from every channel
	subscriptions map[string]map[int32]struct{}
	mu            sync.RWMutex
}

// NewHub creates a new Hub instance
func NewHub() *Hub {
	return &Hub{
		channels:      make(map[int32]map[string]ClientInterface),
		subscriptions: make(map[string]map[int32]struct{}),
	}
}

// Subscribe adds a client to a workspace channel. Idempotent: subscribing an
// already-subscribed client is a no-op. Authorization has already happened by
// the time this is called.
func (h *Hub) Subscribe(client ClientInterface, workspaceID int32) {
	h.mu.Lock()
	defer h.mu.Unlock()

	clientID := client.ID()

	if h.channels[workspaceID] == nil {
		h.channels[workspaceID] = make(map[string]ClientInterface)
	}
	h.channels[workspaceID][clientID] = client

	if h.subscriptions[clientID] == nil {
		h.subscriptions[clientID] = make(map[int32]struct{})
	}
	h.subscriptions[clientID][workspaceID] = struct{}{}

	log.Debug().
		Int32("workspace_id", workspaceID).
		Str("client_id", clientID).
		Msg("WebSocket client subscribed")
}

// Unsubscribe removes a client from a single workspace channel
func (h *Hub) Unsubscribe(client ClientInterface, workspaceID int32) {
	h.mu.Lock()
	defer h.mu.Unlock()
	h.unsubscribeLocked(client.ID(), workspaceID)
}

// Remove drops the client from every channel it joined. Called on disconnect.
func (h *Hub) Remove(client ClientInterface) {
	h.mu.Lock()
	defer h.mu.Unlock()

	clientID := client.ID()
	for workspaceID := range h.subscriptions[clientID] {
		h.unsubscribeLocked(clientID, workspaceID)
	}

	log.Debug().
		Str("client_id", clientID).
		Msg("WebSocket client removed")
}

// unsubscribeLocked removes one subscription. Caller holds h.mu.
func (h *Hub) unsubscribeLocked(clientID string, workspaceID int32) {
	if clients, ok := h.channels[workspaceID]; ok {
		delete(clients, clientID)
		if len(clients) == 0 {
			delete(h.channels, workspaceID)
		}
	}
	if subs, ok := h.subscriptions[clientID]; ok {
		delete(subs, workspaceID)
		if len(subs) == 0 {
			delete(h.subscriptions, clientID)
		}
	}
}

// Broadcast sends an event to every client subscribed to the workspace
// channel. The event is enqueued into each client's send buffer under the
// hub lock, so concurrent broadcasts serialize and every connection sees the
// channel's events in the same order. A client whose buffer is full cannot
// receive a gap: it is dropped from all channels and closed, and the
// transport disconnect tells it to reconnect and re-fetch.
func (h *Hub) Broadcast(workspaceID int32, event Event) {
	data, err := event.ToJSON()
	if err != nil {
		log.Error().
			Err(err).
			Int32("workspace_id", workspaceID).
			Str("event_type", event.Type).
			Msg("Failed to serialize event")
		return
	}

	h.mu.Lock()
	defer h.mu.Unlock()

	clients, ok := h.channels[workspaceID]
	if !ok || len(clients) == 0 {
		return
	}

	var dropped []ClientInterface
	for _, client := range clients {
		if err := client.Send(data); err != nil {
			dropped = append(dropped, client)
		}
	}

	for _, client := range dropped {
		clientID := client.ID()
		for id := range h.subscriptions[clientID] {
			h.unsubscribeLocked(clientID, id)
		}
		client.Close()

		log.Warn().
			Int32("workspace_id", workspaceID).
			Str("client_id", clientID).
			Msg("Dropped slow client")
	}

	log.Debug().
		Int32("workspace_id", workspaceID).
		Str("event_type", event.Type).
		Int("client_count", len(clients)).
		Msg("Broadcast event")
}

// ClientCount returns the number of clients subscribed to a workspace channel
func (h *Hub) ClientCount(workspaceID int32) int {
	h.mu.RLock()
	defer h.mu.RUnlock()

	if clients, ok := h.channels[workspaceID]; ok {
		return len(clients)
	}
	return 0
}

// IsSubscribed reports whether the client is subscribed to the workspace channel
func (h *Hub) IsSubscribed(clientID string, workspaceID int32) bool {
	h.mu.RLock()
	defer h.mu.RUnlock()

	_, ok := h.subscriptions[clientID][workspaceID]
	return ok
}

// TotalClientCount returns the total number of active subscriptions across all channels
func (h *Hub) TotalClientCount() int {
	h.mu.RLock()
	defer h.mu.RUnlock()

	total := 0
	for _, clients := range h.channels {
		total += len(clients)
	}
	return total
}
