package physics

import (
	"math"
	"testing"

	"github.com/go-gl/mathgl/mgl64"
	"pgregory.net/rapid"
)

func TestPropertyHorizontalVelocityHasNoMemory(t *testing.T) {
	rapid.Check(t, func(t *rapid.T) {
		tun := Tunables{
			Speed:     rapid.Float64Range(0.1, 50).Draw(t, "speed"),
			JumpForce: rapid.Float64Range(0.1, 10).Draw(t, "jumpForce"),
			Gravity:   mgl64.Vec2{0, -rapid.Float64Range(0.1, 30).Draw(t, "g")},
		}
		a1 := rapid.Float64Range(-1, 1).Draw(t, "a1")
		a2 := rapid.Float64Range(-1, 1).Draw(t, "a2")
		b := localBody(mgl64.Vec2{0, 10})
		b.grounded = rapid.Bool().Draw(t, "grounded")

		c := NewController(tun, &StaticWorld{})
		c.Integrate(b, Intent{Axis: a1, Jump: rapid.Bool().Draw(t, "jump")}, 1.0/60)
		c.Integrate(b, Intent{Axis: a2}, 1.0/60)

		if got, want := b.Velocity().X(), a2*tun.Speed; got != want {
			t.Fatalf("vx=%v want %v", got, want)
		}
	})
}

func TestPropertyNoShapesNeverGrounds(t *testing.T) {
	rapid.Check(t, func(t *rapid.T) {
		b := localBody(mgl64.Vec2{
			rapid.Float64Range(-100, 100).Draw(t, "x"),
			rapid.Float64Range(-100, 100).Draw(t, "y"),
		})
		b.velocity = mgl64.Vec2{0, rapid.Float64Range(-50, 50).Draw(t, "vy")}
		b.grounded = rapid.Bool().Draw(t, "prior")

		c := NewController(DefaultTunables(), &StaticWorld{})
		in := Intent{Axis: rapid.Float64Range(-1, 1).Draw(t, "axis"), Jump: rapid.Bool().Draw(t, "jump")}
		r, _ := c.Tick(b, in, rapid.Float64Range(0.001, 0.2).Draw(t, "dt"))

		if b.Grounded() || r.Grounded || r.Corrections != 0 {
			t.Fatalf("grounded in empty world: %+v", r)
		}
	})
}

func TestPropertyJumpStartsFromRest(t *testing.T) {
	rapid.Check(t, func(t *rapid.T) {
		g := -rapid.Float64Range(0.1, 30).Draw(t, "g")
		tun := Tunables{Speed: 1, JumpForce: rapid.Float64Range(0.1, 20).Draw(t, "jumpForce"), Gravity: mgl64.Vec2{0, g}}
		dt := rapid.Float64Range(0.001, 0.2).Draw(t, "dt")

		b := localBody(mgl64.Vec2{})
		b.grounded = true
		b.velocity = mgl64.Vec2{0, rapid.Float64Range(-100, 100).Draw(t, "vy")}
		NewController(tun, &StaticWorld{}).Integrate(b, Intent{Jump: true}, dt)

		want := math.Sqrt(2*tun.JumpForce*math.Abs(g)) + g*dt
		if math.Abs(b.Velocity().Y()-want) > 1e-9 {
			t.Fatalf("vy=%v want %v", b.Velocity().Y(), want)
		}
	})
}
