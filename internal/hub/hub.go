package hub

import (
	"encoding/json"
	"sync"

	"github.com/roomloop/roomloop/pkg/log"
)

// Hub tracks live connections and their room membership, and fans events out
// to rooms or single connections. It is the transport-side group-delivery
// primitive; it knows nothing about usernames or persistence.
type Hub struct {
	mu      sync.RWMutex
	clients map[string]*Client            // connID -> client
	rooms   map[string]map[string]*Client // room -> connID -> client
}

func NewHub() *Hub {
	return &Hub{
		clients: make(map[string]*Client),
		rooms:   make(map[string]map[string]*Client),
	}
}

// Register adds a freshly upgraded connection.
func (h *Hub) Register(c *Client) {
	h.mu.Lock()
	h.clients[c.ID] = c
	h.mu.Unlock()

	l := log.L()
	l.Debug().Str(log.FieldConnID, c.ID).Msg("client registered")
}

// Unregister removes a connection from the hub and from any room it was in,
// and closes its send channel. Safe to call more than once.
func (h *Hub) Unregister(c *Client) {
	h.mu.Lock()
	if _, ok := h.clients[c.ID]; ok {
		delete(h.clients, c.ID)
		for room, members := range h.rooms {
			delete(members, c.ID)
			if len(members) == 0 {
				delete(h.rooms, room)
			}
		}
		c.close()
	}
	h.mu.Unlock()

	l := log.L()
	l.Debug().Str(log.FieldConnID, c.ID).Msg("client unregistered")
}

// JoinRoom adds the connection to a room's delivery group.
func (h *Hub) JoinRoom(c *Client, room string) {
	h.mu.Lock()
	defer h.mu.Unlock()

	members, ok := h.rooms[room]
	if !ok {
		members = make(map[string]*Client)
		h.rooms[room] = members
	}
	members[c.ID] = c
}

// LeaveRoom removes the connection from a room's delivery group.
func (h *Hub) LeaveRoom(c *Client, room string) {
	h.mu.Lock()
	defer h.mu.Unlock()

	if members, ok := h.rooms[room]; ok {
		delete(members, c.ID)
		if len(members) == 0 {
			delete(h.rooms, room)
		}
	}
}

// Broadcast delivers an event to every connection currently in the room.
// Delivery is fire-and-forget per connection: one slow or dead member never
// blocks the rest or fails the call.
func (h *Hub) Broadcast(room string, v interface{}) error {
	data, err := json.Marshal(v)
	if err != nil {
		return err
	}

	h.mu.RLock()
	defer h.mu.RUnlock()

	for _, c := range h.rooms[room] {
		c.sendRaw(data)
	}
	return nil
}

// SendToConn delivers an event to a single connection by its raw ID. A target
// that is not connected is a silent drop.
func (h *Hub) SendToConn(connID string, v interface{}) error {
	h.mu.RLock()
	c, ok := h.clients[connID]
	h.mu.RUnlock()

	if !ok {
		return nil
	}
	return c.SendEvent(v)
}

// RoomSize reports how many connections are in a room.
func (h *Hub) RoomSize(room string) int {
	h.mu.RLock()
	defer h.mu.RUnlock()

	return len(h.rooms[room])
}
