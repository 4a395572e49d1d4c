package services

import (
	"encoding/json"
	"sync"

	"github.com/bellapacxx/tombola-backend/utils/logger"
)

// Hub tracks which websocket clients subscribe to which session and
// fans session snapshots and game notifications out to them. Ordering
// is preserved per client by the buffered send channel.
type Hub struct {
	store *Store

	mu    sync.RWMutex
	rooms map[string]map[*Client]struct{}
}

// NewHub returns a hub over the given store.
func NewHub(store *Store) *Hub {
	return &Hub{
		store: store,
		rooms: make(map[string]map[*Client]struct{}),
	}
}

// register binds a client to a session with its role. Identity fields
// are only ever touched under the hub lock.
func (h *Hub) register(c *Client, role Role, code, playerID string) {
	h.mu.Lock()
	defer h.mu.Unlock()
	if c.code != "" {
		if room, ok := h.rooms[c.code]; ok {
			delete(room, c)
		}
	}
	c.role = role
	c.code = code
	c.playerID = playerID
	room, ok := h.rooms[code]
	if !ok {
		room = make(map[*Client]struct{})
		h.rooms[code] = room
	}
	room[c] = struct{}{}
}

// unregister detaches a client from its session.
func (h *Hub) unregister(c *Client) {
	h.mu.Lock()
	defer h.mu.Unlock()
	if room, ok := h.rooms[c.code]; ok {
		delete(room, c)
		if len(room) == 0 {
			delete(h.rooms, c.code)
		}
	}
	c.role = RoleNone
	c.code = ""
	c.playerID = ""
}

// deliver marshals once and pushes to a client, dropping on a full
// channel rather than blocking a broadcast.
func deliver(c *Client, data []byte) {
	select {
	case c.send <- data:
	default:
		logger.Warnf("[Hub] dropping message to socket %s", c.socketID)
	}
}

func marshal(payload any) []byte {
	data, err := json.Marshal(payload)
	if err != nil {
		logger.Errorf("[Hub] marshal failed: %v", err)
		return nil
	}
	return data
}

// EmitToSession pushes a payload to every subscriber of a session.
// Delivery runs under the hub lock: unregister removes a client before
// its send channel closes, so every client visible here is open.
func (h *Hub) EmitToSession(code string, payload any) {
	data := marshal(payload)
	if data == nil {
		return
	}
	h.mu.RLock()
	defer h.mu.RUnlock()
	for c := range h.rooms[code] {
		deliver(c, data)
	}
}

// EmitToPlayer pushes a payload to one player's connection, reporting
// whether the player was connected.
func (h *Hub) EmitToPlayer(code, playerID string, payload any) bool {
	data := marshal(payload)
	if data == nil {
		return false
	}
	h.mu.RLock()
	defer h.mu.RUnlock()
	for c := range h.rooms[code] {
		if c.role == RolePlayer && c.playerID == playerID {
			deliver(c, data)
			return true
		}
	}
	return false
}

// BroadcastSession sends the public snapshot to every subscriber and
// the full host snapshot to the host. The visibility split lives here:
// players never receive other players' card contents.
func (h *Hub) BroadcastSession(code string) {
	pub, err := h.store.PublicSnapshot(code)
	if err != nil {
		return
	}
	pubData := marshal(map[string]any{"type": "session:update", "session": pub})

	var hostData []byte
	if hostView, err := h.store.HostSnapshot(code); err == nil {
		hostData = marshal(map[string]any{"type": "host:update", "session": hostView})
	}

	h.mu.RLock()
	defer h.mu.RUnlock()
	for c := range h.rooms[code] {
		if pubData != nil {
			deliver(c, pubData)
		}
		if c.role == RoleHost && hostData != nil {
			deliver(c, hostData)
		}
	}
}

// SendHostView refreshes only the host snapshot.
func (h *Hub) SendHostView(code string) {
	hostView, err := h.store.HostSnapshot(code)
	if err != nil {
		return
	}
	data := marshal(map[string]any{"type": "host:update", "session": hostView})
	if data == nil {
		return
	}
	h.mu.RLock()
	defer h.mu.RUnlock()
	for c := range h.rooms[code] {
		if c.role == RoleHost {
			deliver(c, data)
		}
	}
}

// handleDisconnect nulls the connection handle on the session (players
// and their cards persist across disconnects) and detaches the client.
func (h *Hub) handleDisconnect(c *Client) {
	h.mu.RLock()
	role, code, playerID := c.role, c.code, c.playerID
	h.mu.RUnlock()

	switch role {
	case RolePlayer:
		h.store.SetPlayerSocket(code, playerID, "")
	case RoleHost:
		h.store.SetHostSocket(code, "")
	}
	h.unregister(c)
	if role == RolePlayer && code != "" {
		h.BroadcastSession(code)
	}
}
