package server

import (
	"errors"
	"fmt"

	"miniplatformer/protocol"
)

//go:generate go tool mockgen -destination=./mocks/broadcaster_mock.go -package=mocks . Broadcaster

var (
	ErrNotOwner       = errors.New("command from a peer that does not own the player")
	ErrUnknownCommand = errors.New("unknown command kind")
)

// Identity is the replicated per-player data that is not physics.
type Identity struct {
	Ready bool   `json:"ready"`
	Name  string `json:"name"`
}

// Broadcaster fans an identity change out to every observer.
type Broadcaster interface {
	IdentityChanged(owner PlayerID, id Identity)
}

// Gate holds one player's Identity. It is mutated only through Dispatch, which
// checks that the request came from the owner and always broadcasts afterwards.
type Gate struct {
	owner    PlayerID
	identity Identity
	out      Broadcaster
}

func NewGate(owner PlayerID, out Broadcaster) *Gate {
	return &Gate{owner: owner, out: out}
}

func (g *Gate) Owner() PlayerID    { return g.owner }
func (g *Gate) Identity() Identity { return g.identity }

// Dispatch applies cmd on behalf of from. Repeating a command leaves the value
// unchanged but still broadcasts.
func (g *Gate) Dispatch(from PlayerID, cmd protocol.Command) error {
	if from != g.owner {
		return fmt.Errorf("%s on %s by %s: %w", cmd.Kind, g.owner, from, ErrNotOwner)
	}
	switch cmd.Kind {
	case protocol.SetReady:
		g.identity.Ready = cmd.Ready
	case protocol.SetName:
		g.identity.Name = cmd.Name
	default:
		return fmt.Errorf("%q: %w", cmd.Kind, ErrUnknownCommand)
	}
	if g.out != nil {
		g.out.IdentityChanged(g.owner, g.identity)
	}
	return nil
}

func (g *Gate) SetReady(from PlayerID, ready bool) error {
	return g.Dispatch(from, protocol.Command{Kind: protocol.SetReady, Ready: ready})
}

func (g *Gate) SetName(from PlayerID, name string) error {
	return g.Dispatch(from, protocol.Command{Kind: protocol.SetName, Name: name})
}
