package client

import (
	"github.com/go-gl/mathgl/mgl64"

	"miniplatformer/physics"
	"miniplatformer/protocol"
)

// Peer is one client's view of a room: the locally driven body, a Remote
// replica for every other player, and the level, all in one Space. Other
// players' replicas are solid, so the local body can stand on them.
//
// A Peer is not safe for concurrent use.
type Peer struct {
	ID string

	space *physics.Space
	ctrl  *physics.Controller
	size  mgl64.Vec2

	bodies  *physics.BodySet
	local   *physics.Body
	remotes map[string]*physics.Body

	identities map[string]protocol.IdentityChanged
	match      protocol.Match
	lastTick   uint64
	seq        uint64
}

// NewPeer builds the world described by a welcome.
func NewPeer(w protocol.Welcome) *Peer {
	space := physics.NewSpace(physics.DefaultSpaceConfig())
	for _, r := range w.Level {
		space.Add(r.AABB(), "solid")
	}

	bodies := physics.NewBodySet()
	local := physics.NewBody(physics.BodyConfig{
		Shape:     space.Add(physics.NewAABB(w.Spawn, w.BodySize), "player"),
		Size:      w.BodySize,
		Position:  w.Spawn,
		Authority: physics.Local,
	}, bodies)

	return &Peer{
		ID:         w.PlayerID,
		space:      space,
		ctrl:       physics.NewController(w.Tunables, space),
		size:       w.BodySize,
		bodies:     bodies,
		local:      local,
		remotes:    make(map[string]*physics.Body),
		identities: make(map[string]protocol.IdentityChanged),
	}
}

func (p *Peer) Local() *physics.Body           { return p.local }
func (p *Peer) Tunables() physics.Tunables     { return p.ctrl.Tunables }
func (p *Peer) Match() protocol.Match          { return p.match }
func (p *Peer) Bodies() physics.Registry       { return p.bodies }
func (p *Peer) SetTunables(t physics.Tunables) { p.ctrl.Tunables = t }

// Remote returns the replica of another player.
func (p *Peer) Remote(id string) (*physics.Body, bool) {
	b, ok := p.remotes[id]
	return b, ok
}

// Identity returns the last identity broadcast for a player.
func (p *Peer) Identity(id string) (protocol.IdentityChanged, bool) {
	v, ok := p.identities[id]
	return v, ok
}

// Step simulates the local body for dt seconds and moves its shape in the space.
func (p *Peer) Step(in physics.Intent, dt float64) physics.Report {
	r, _ := p.ctrl.Tick(p.local, in, dt)
	p.space.Move(p.local.Shape(), p.local.Position())
	return r
}

// NextState stamps the local body's state with the next sequence number.
func (p *Peer) NextState() protocol.BodyState {
	p.seq++
	st := p.local.State()
	return protocol.BodyState{Seq: p.seq, Position: st.Position, Velocity: st.Velocity, Grounded: st.Grounded}
}

// ApplySnapshot reconciles replicas with a server snapshot. Snapshots older
// than the last one applied are ignored, as is the local player's own entry.
func (p *Peer) ApplySnapshot(s protocol.Snapshot) {
	if s.Tick <= p.lastTick {
		return
	}
	p.lastTick = s.Tick

	seen := make(map[string]struct{}, len(s.Players))
	for _, ps := range s.Players {
		if ps.ID == p.ID {
			continue
		}
		seen[ps.ID] = struct{}{}
		p.identities[ps.ID] = protocol.IdentityChanged{PlayerID: ps.ID, Ready: ps.Ready, Name: ps.Name}

		b, ok := p.remotes[ps.ID]
		if !ok {
			b = physics.NewBody(physics.BodyConfig{
				Shape:    p.space.Add(physics.NewAABB(ps.Position, p.size), "player"),
				Size:     p.size,
				Position: ps.Position,
			}, p.bodies)
			p.remotes[ps.ID] = b
		}
		// replicas are always Remote
		_ = b.ApplyReplicatedState(ps.Replicated())
		p.space.Move(b.Shape(), b.Position())
	}

	for id := range p.remotes {
		if _, ok := seen[id]; !ok {
			p.RemovePlayer(id)
		}
	}
}

// RemovePlayer destroys a replica and its shape.
func (p *Peer) RemovePlayer(id string) {
	b, ok := p.remotes[id]
	if !ok {
		return
	}
	b.Destroy()
	p.space.Remove(b.Shape())
	delete(p.remotes, id)
	delete(p.identities, id)
}

func (p *Peer) ApplyIdentity(id protocol.IdentityChanged) {
	p.identities[id.PlayerID] = id
}

func (p *Peer) ApplyMatch(m protocol.Match) {
	p.match = m
}
