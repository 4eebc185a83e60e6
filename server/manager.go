package server

import "sync"

// DefaultRoom is used when a request names no room.
const DefaultRoom = "room-1"

// RoomManager owns the rooms of one server.
type RoomManager struct {
	mu    sync.RWMutex
	rooms map[string]*Room
	cfg   Config
}

func NewRoomManager(cfg Config) *RoomManager {
	return &RoomManager{rooms: make(map[string]*Room), cfg: cfg}
}

// GetOrCreateRoom returns the room, creating and starting it on first use.
func (m *RoomManager) GetOrCreateRoom(id string) *Room {
	if id == "" {
		id = DefaultRoom
	}
	m.mu.RLock()
	r, ok := m.rooms[id]
	m.mu.RUnlock()
	if ok {
		return r
	}

	m.mu.Lock()
	defer m.mu.Unlock()
	if r, ok = m.rooms[id]; !ok {
		r = NewRoom(id, m.cfg)
		m.rooms[id] = r
		r.StartTicker()
		Log.Infof("room created: %s", id)
	}
	return r
}

// Close stops every room.
func (m *RoomManager) Close() {
	m.mu.Lock()
	defer m.mu.Unlock()
	for id, r := range m.rooms {
		r.Stop()
		delete(m.rooms, id)
	}
}
