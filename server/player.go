package server

import (
	"miniplatformer/physics"
	"miniplatformer/protocol"
)

// PlayerID is the server-assigned player identifier.
type PlayerID string

// Conn is the outbound side of a client connection. Enqueue never blocks.
type Conn interface {
	Enqueue(b []byte)
	Close()
}

// Player is one connected peer. Body is a Remote replica whose state is
// written only by the owner's state messages.
type Player struct {
	ID   PlayerID
	Body *physics.Body
	Gate *Gate
	Conn Conn

	lastSeq uint64
}

func (p *Player) snapshot() protocol.PlayerSnapshot {
	st := p.Body.State()
	id := p.Gate.Identity()
	return protocol.PlayerSnapshot{
		ID:       string(p.ID),
		Position: st.Position,
		Velocity: st.Velocity,
		Grounded: st.Grounded,
		Ready:    id.Ready,
		Name:     id.Name,
	}
}
