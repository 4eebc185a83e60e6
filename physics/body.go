package physics

import (
	"errors"

	"github.com/go-gl/mathgl/mgl64"
)

// Authority says which side owns a body's motion on this peer.
type Authority uint8

const (
	// Remote bodies only change through ApplyReplicatedState.
	Remote Authority = iota
	// Local bodies are driven by the Controller.
	Local
)

func (a Authority) String() string {
	switch a {
	case Local:
		return "local"
	case Remote:
		return "remote"
	default:
		return "unknown"
	}
}

var ErrLocalAuthority = errors.New("physics: replicated state applied to a locally driven body")

// ReplicatedState is the part of a body that travels over the wire.
type ReplicatedState struct {
	Position mgl64.Vec2
	Velocity mgl64.Vec2
	Grounded bool
}

// BodyConfig is the spawn-time description of a body.
type BodyConfig struct {
	Shape     ShapeID
	Size      mgl64.Vec2
	Position  mgl64.Vec2
	Authority Authority
}

// Body is a single box-shaped character. Position, velocity and grounded are
// owned by exactly one writer per tick: the Controller for Local bodies, the
// replication feed for Remote ones.
type Body struct {
	shape     ShapeID
	size      mgl64.Vec2
	position  mgl64.Vec2
	velocity  mgl64.Vec2
	grounded  bool
	authority Authority

	registry Registry
}

// NewBody spawns a body and registers it with reg. A nil registry is allowed.
func NewBody(cfg BodyConfig, reg Registry) *Body {
	b := &Body{
		shape:     cfg.Shape,
		size:      cfg.Size,
		position:  cfg.Position,
		authority: cfg.Authority,
		registry:  reg,
	}
	if reg != nil {
		reg.Add(b)
	}
	return b
}

// Destroy removes the body from the registry it was spawned into.
// Calling it more than once is a no-op.
func (b *Body) Destroy() {
	if b.registry == nil {
		return
	}
	b.registry.Remove(b)
	b.registry = nil
}

func (b *Body) Shape() ShapeID         { return b.shape }
func (b *Body) Size() mgl64.Vec2       { return b.size }
func (b *Body) Position() mgl64.Vec2   { return b.position }
func (b *Body) Velocity() mgl64.Vec2   { return b.velocity }
func (b *Body) Grounded() bool         { return b.grounded }
func (b *Body) Authority() Authority   { return b.authority }
func (b *Body) Bounds() AABB           { return AABB{Center: b.position, Size: b.size} }
func (b *Body) IsLocal() bool          { return b.authority == Local }
func (b *Body) State() ReplicatedState { return ReplicatedState{b.position, b.velocity, b.grounded} }

// ApplyReplicatedState overwrites a remote body with state received from its owner.
func (b *Body) ApplyReplicatedState(s ReplicatedState) error {
	if b.authority == Local {
		return ErrLocalAuthority
	}
	b.position = s.Position
	b.velocity = s.Velocity
	b.grounded = s.Grounded
	return nil
}
