package physics

import (
	"testing"

	"github.com/go-gl/mathgl/mgl64"
)

func shapes(cs []Candidate) map[ShapeID]AABB {
	out := make(map[ShapeID]AABB, len(cs))
	for _, c := range cs {
		out[c.Shape] = c.Bounds
	}
	return out
}

func TestSpaceOverlapping(t *testing.T) {
	space := NewSpace(DefaultSpaceConfig())
	ground := space.Add(NewAABB(mgl64.Vec2{0, -5}, mgl64.Vec2{100, 10}), "solid")
	wall := space.Add(NewAABB(mgl64.Vec2{30, 5}, mgl64.Vec2{2, 10}), "solid")

	near := shapes(space.Overlapping(NewAABB(mgl64.Vec2{0, 0.4}, mgl64.Vec2{1, 1})))
	if _, ok := near[ground]; !ok {
		t.Fatalf("ground missing from %v", near)
	}
	if _, ok := near[wall]; ok {
		t.Fatalf("distant wall reported: %v", near)
	}

	far := space.Overlapping(NewAABB(mgl64.Vec2{-40, 40}, mgl64.Vec2{1, 1}))
	if len(far) != 0 {
		t.Fatalf("empty region reported %v", far)
	}
}

func TestSpaceBoundsRoundTrip(t *testing.T) {
	space := NewSpace(DefaultSpaceConfig())
	want := NewAABB(mgl64.Vec2{1.25, -3.5}, mgl64.Vec2{2.5, 0.75})
	id := space.Add(want)

	got, ok := space.Bounds(id)
	if !ok {
		t.Fatalf("shape %d missing", id)
	}
	if !got.Center.ApproxEqualThreshold(want.Center, 1e-9) || !got.Size.ApproxEqualThreshold(want.Size, 1e-9) {
		t.Fatalf("bounds=%+v want %+v", got, want)
	}
}

func TestSpaceMoveAndRemove(t *testing.T) {
	space := NewSpace(DefaultSpaceConfig())
	id := space.Add(NewAABB(mgl64.Vec2{0, 0}, mgl64.Vec2{1, 1}))

	if !space.Move(id, mgl64.Vec2{20, 20}) {
		t.Fatalf("move failed")
	}
	if _, ok := shapes(space.Overlapping(NewAABB(mgl64.Vec2{20, 20}, mgl64.Vec2{1, 1})))[id]; !ok {
		t.Fatalf("moved shape not found at new position")
	}
	if _, ok := shapes(space.Overlapping(NewAABB(mgl64.Vec2{0, 0}, mgl64.Vec2{1, 1})))[id]; ok {
		t.Fatalf("moved shape still found at old position")
	}

	space.Remove(id)
	if space.Len() != 0 {
		t.Fatalf("len=%d after remove", space.Len())
	}
	if space.Move(id, mgl64.Vec2{}) {
		t.Fatalf("moved a removed shape")
	}
	if got := space.Overlapping(NewAABB(mgl64.Vec2{20, 20}, mgl64.Vec2{1, 1})); len(got) != 0 {
		t.Fatalf("removed shape reported: %v", got)
	}
}

func TestSpaceIgnoresShapesOutsideGrid(t *testing.T) {
	space := NewSpace(DefaultSpaceConfig())
	space.Add(NewAABB(mgl64.Vec2{500, 500}, mgl64.Vec2{1, 1}))
	if got := space.Overlapping(NewAABB(mgl64.Vec2{500, 500}, mgl64.Vec2{1, 1})); len(got) != 0 {
		t.Fatalf("off-grid shape reported: %v", got)
	}
}
