package physics

import (
	"math"

	"github.com/go-gl/mathgl/mgl64"
)

// groundAngle is the exclusive upper bound on the angle between a contact
// normal and up for the contact to count as ground.
const groundAngle = math.Pi / 2

// Tunables are the process-wide movement settings. They must not change during a tick.
type Tunables struct {
	Speed     float64    `json:"speed" msgpack:"speed"`
	JumpForce float64    `json:"jumpForce" msgpack:"jumpForce"`
	Gravity   mgl64.Vec2 `json:"gravity" msgpack:"gravity"`
}

func DefaultTunables() Tunables {
	return Tunables{
		Speed:     6,
		JumpForce: 2,
		Gravity:   mgl64.Vec2{0, -9.8},
	}
}

// JumpVelocity is the launch speed that peaks at JumpForce height under Gravity.
func (t Tunables) JumpVelocity() float64 {
	return math.Sqrt(2 * t.JumpForce * math.Abs(t.Gravity.Y()))
}

// Intent is one tick of player input.
type Intent struct {
	// Axis is the horizontal input in [-1, 1].
	Axis float64
	Jump bool
}

// Candidate is a broad-phase hit.
type Candidate struct {
	Shape  ShapeID
	Bounds AABB
}

// World provides the collision queries the correction loop runs against.
type World interface {
	// Overlapping returns shapes whose bounds may intersect bounds. False
	// positives are allowed; the returned order is the processing order.
	Overlapping(bounds AABB) []Candidate
	// Separate computes how to push b out of a.
	Separate(a, b AABB) Separation
}

// Report summarises the correction loop for one tick.
type Report struct {
	Candidates  int // broad-phase hits, self excluded
	Corrections int // overlaps pushed out
	Skipped     int // hits already resolved by an earlier correction or false positives
	Grounded    bool
}

// Controller moves locally driven bodies through a World.
type Controller struct {
	Tunables Tunables
	World    World
	Up       mgl64.Vec2
}

func NewController(t Tunables, w World) *Controller {
	return &Controller{Tunables: t, World: w, Up: Up}
}

// Tick advances b by dt seconds. Remote bodies are left untouched and Tick
// returns false for them.
func (c *Controller) Tick(b *Body, in Intent, dt float64) (Report, bool) {
	if b.authority != Local {
		return Report{}, false
	}
	c.Integrate(b, in, dt)
	return c.Resolve(b), true
}

// Integrate updates velocity from intent and gravity, then moves b by one
// explicit Euler step.
func (c *Controller) Integrate(b *Body, in Intent, dt float64) {
	v := b.velocity
	if b.grounded {
		v[1] = 0
		if in.Jump {
			v[1] = c.Tunables.JumpVelocity()
		}
	}
	v[0] = in.Axis * c.Tunables.Speed
	v[1] += c.Tunables.Gravity.Y() * dt

	b.velocity = v
	b.position = b.position.Add(v.Mul(dt))
}

// Resolve pushes b out of every shape the world reports as overlapping it and
// recomputes grounded.
//
// The query runs once. Each correction is applied immediately, so a later
// candidate that an earlier push already cleared is skipped. Because there is
// no re-query, a pile-up of three or more shapes can leave b slightly
// overlapping at the end of a tick; the next tick detects and corrects it.
func (c *Controller) Resolve(b *Body) Report {
	var r Report
	b.grounded = false

	// Sign is taken before any correction; corrections never touch velocity.
	falling := b.velocity.Y() < 0
	up := c.Up
	if up == (mgl64.Vec2{}) {
		up = Up
	}

	for _, hit := range c.World.Overlapping(b.Bounds()) {
		if hit.Shape == b.shape {
			continue
		}
		r.Candidates++

		sep := c.World.Separate(hit.Bounds, b.Bounds())
		if !sep.Overlapping {
			r.Skipped++
			continue
		}
		b.position = b.position.Add(sep.Vector())
		r.Corrections++

		if falling && Angle(sep.Normal, up) < groundAngle {
			b.grounded = true
		}
	}

	r.Grounded = b.grounded
	return r
}
