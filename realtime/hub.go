package realtime

import (
	"encoding/json"
	"sync"

	"github.com/rs/zerolog"
)

// Hub tracks which connections are subscribed to which room codes and fans
// room broadcasts out to them. It implements game.Broadcaster.
type Hub struct {
	mu    sync.RWMutex
	rooms map[string]map[*Client]struct{}
	log   zerolog.Logger
}

func NewHub(log zerolog.Logger) *Hub {
	return &Hub{
		rooms: make(map[string]map[*Client]struct{}),
		log:   log.With().Str("component", "ws-hub").Logger(),
	}
}

func (h *Hub) join(roomCode string, c *Client) {
	h.mu.Lock()
	defer h.mu.Unlock()
	subs, ok := h.rooms[roomCode]
	if !ok {
		subs = make(map[*Client]struct{})
		h.rooms[roomCode] = subs
	}
	subs[c] = struct{}{}
}

func (h *Hub) leave(roomCode string, c *Client) {
	h.mu.Lock()
	defer h.mu.Unlock()
	h.removeLocked(roomCode, c)
}

// drop unsubscribes a disconnecting client from every room.
func (h *Hub) drop(c *Client) {
	h.mu.Lock()
	defer h.mu.Unlock()
	for roomCode := range h.rooms {
		h.removeLocked(roomCode, c)
	}
}

func (h *Hub) removeLocked(roomCode string, c *Client) {
	subs, ok := h.rooms[roomCode]
	if !ok {
		return
	}
	delete(subs, c)
	if len(subs) == 0 {
		delete(h.rooms, roomCode)
	}
}

// Broadcast marshals one event envelope and queues it on every subscriber of
// the room. Slow consumers get disconnected rather than block the room.
func (h *Hub) Broadcast(roomCode, event string, payload any) {
	data, err := json.Marshal(outEnvelope{Event: event, Data: payload})
	if err != nil {
		h.log.Error().Err(err).Str("event", event).Msg("marshal broadcast")
		return
	}

	h.mu.RLock()
	defer h.mu.RUnlock()
	for c := range h.rooms[roomCode] {
		c.send(data)
	}
}
