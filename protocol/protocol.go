package protocol

import (
	"github.com/go-gl/mathgl/mgl64"
	"github.com/vmihailenco/msgpack/v5"

	"miniplatformer/physics"
)

// Version is bumped whenever a message layout changes.
const Version = 1

const (
	MsgHello    = "hello"
	MsgWelcome  = "welcome"
	MsgState    = "state"
	MsgCommand  = "cmd"
	MsgIdentity = "identity"
	MsgSnapshot = "snapshot"
	MsgLeft     = "left"
	MsgTunables = "tunables"
	MsgMatch    = "match"
	MsgError    = "error"
)

// Envelope wraps every websocket frame. P holds the msgpack-encoded payload
// and is decoded once T is known.
type Envelope struct {
	T string             `msgpack:"t"`
	P msgpack.RawMessage `msgpack:"p"`
}

// Hello is the first frame a client sends.
type Hello struct {
	Version int `msgpack:"v"`
}

// Rect is a static level shape.
type Rect struct {
	Center mgl64.Vec2 `msgpack:"c"`
	Size   mgl64.Vec2 `msgpack:"s"`
}

func RectFrom(b physics.AABB) Rect { return Rect{Center: b.Center, Size: b.Size} }
func (r Rect) AABB() physics.AABB  { return physics.NewAABB(r.Center, r.Size) }

// Welcome answers Hello with everything a client needs to build its world.
type Welcome struct {
	PlayerID string           `msgpack:"id"`
	TickHz   int              `msgpack:"hz"`
	Tunables physics.Tunables `msgpack:"tun"`
	BodySize mgl64.Vec2       `msgpack:"body"`
	Spawn    mgl64.Vec2       `msgpack:"spawn"`
	Level    []Rect           `msgpack:"level"`
}

// BodyState is the locally driven body's state, sent by its owner every tick.
type BodyState struct {
	Seq      uint64     `msgpack:"seq"`
	Position mgl64.Vec2 `msgpack:"pos"`
	Velocity mgl64.Vec2 `msgpack:"vel"`
	Grounded bool       `msgpack:"g"`
}

func (s BodyState) Replicated() physics.ReplicatedState {
	return physics.ReplicatedState{Position: s.Position, Velocity: s.Velocity, Grounded: s.Grounded}
}

type CommandKind string

const (
	SetReady CommandKind = "setReady"
	SetName  CommandKind = "setName"
)

// Command is a request to mutate a player's identity. Target defaults to the
// sender; only the owner of Target may mutate it.
type Command struct {
	Kind   CommandKind `msgpack:"kind"`
	Target string      `msgpack:"target,omitempty"`
	Ready  bool        `msgpack:"ready,omitempty"`
	Name   string      `msgpack:"name,omitempty"`
}

// IdentityChanged is broadcast after every accepted Command.
type IdentityChanged struct {
	PlayerID string `msgpack:"id"`
	Ready    bool   `msgpack:"ready"`
	Name     string `msgpack:"name"`
}

type PlayerSnapshot struct {
	ID       string     `msgpack:"id"`
	Position mgl64.Vec2 `msgpack:"pos"`
	Velocity mgl64.Vec2 `msgpack:"vel"`
	Grounded bool       `msgpack:"g"`
	Ready    bool       `msgpack:"ready"`
	Name     string     `msgpack:"name"`
}

func (p PlayerSnapshot) Replicated() physics.ReplicatedState {
	return physics.ReplicatedState{Position: p.Position, Velocity: p.Velocity, Grounded: p.Grounded}
}

type Snapshot struct {
	Tick    uint64           `msgpack:"tick"`
	Players []PlayerSnapshot `msgpack:"players"`
}

type Left struct {
	PlayerID string `msgpack:"id"`
}

type TunablesChanged struct {
	Tunables physics.Tunables `msgpack:"tun"`
}

// Match reports the match-flow state derived from player readiness.
type Match struct {
	Started bool `msgpack:"started"`
	Players int  `msgpack:"players"`
	Ready   int  `msgpack:"ready"`
}

// Error tells a client one of its frames was rejected.
type Error struct {
	Ref    string `msgpack:"ref"`
	Reason string `msgpack:"reason"`
}
