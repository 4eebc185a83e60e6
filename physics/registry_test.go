package physics

import (
	"testing"

	"github.com/go-gl/mathgl/mgl64"
)

func collect(s *BodySet) []*Body {
	var out []*Body
	s.Range(func(b *Body) bool {
		out = append(out, b)
		return true
	})
	return out
}

func TestBodySetKeepsRegistrationOrder(t *testing.T) {
	set := NewBodySet()
	a := NewBody(BodyConfig{Shape: 1, Size: mgl64.Vec2{1, 1}}, set)
	b := NewBody(BodyConfig{Shape: 2, Size: mgl64.Vec2{1, 1}}, set)
	c := NewBody(BodyConfig{Shape: 3, Size: mgl64.Vec2{1, 1}}, set)
	set.Add(b)

	got := collect(set)
	if len(got) != 3 || got[0] != a || got[1] != b || got[2] != c {
		t.Fatalf("order=%v", got)
	}

	b.Destroy()
	got = collect(set)
	if len(got) != 2 || got[0] != a || got[1] != c {
		t.Fatalf("after destroy=%v", got)
	}
	set.Remove(b)
	if set.Len() != 2 {
		t.Fatalf("len=%d want 2", set.Len())
	}
}

func TestBodySetRangeStops(t *testing.T) {
	set := NewBodySet()
	for i := 0; i < 5; i++ {
		NewBody(BodyConfig{Shape: ShapeID(i), Size: mgl64.Vec2{1, 1}}, set)
	}
	n := 0
	set.Range(func(*Body) bool {
		n++
		return n < 2
	})
	if n != 2 {
		t.Fatalf("visited %d bodies, want 2", n)
	}
}
