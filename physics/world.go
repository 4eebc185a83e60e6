package physics

import (
	"math"

	"github.com/go-gl/mathgl/mgl64"
	"github.com/solarlune/resolv"
)

// StaticWorld is a World over a fixed list of shapes. Every shape is returned
// as a candidate, leaving all filtering to the narrow phase.
type StaticWorld struct {
	Shapes []Candidate
}

var _ World = (*StaticWorld)(nil)

func (w *StaticWorld) Overlapping(AABB) []Candidate  { return w.Shapes }
func (w *StaticWorld) Separate(a, b AABB) Separation { return SeparateAABB(a, b) }

// SpaceConfig sizes the broad-phase grid in world units.
type SpaceConfig struct {
	// Origin is the world position of the grid's minimum corner.
	Origin   mgl64.Vec2
	Width    float64
	Height   float64
	CellSize float64
	// Scale is the number of grid units per world unit. Shapes must be at
	// least one grid unit wide and tall to be registered in a cell.
	Scale float64
}

func DefaultSpaceConfig() SpaceConfig {
	return SpaceConfig{
		Origin:   mgl64.Vec2{-64, -64},
		Width:    128,
		Height:   128,
		CellSize: 2,
		Scale:    16,
	}
}

// Space is a World backed by a resolv cell grid. Shapes sharing a cell with
// the query bounds are broad-phase candidates; SeparateAABB is the narrow phase.
// Shapes that fall outside the grid are never reported.
type Space struct {
	space  *resolv.Space
	origin mgl64.Vec2
	scale  float64
	cell   float64

	objects map[ShapeID]*resolv.Object
	shapes  map[*resolv.Object]ShapeID
	nextID  ShapeID
}

var _ World = (*Space)(nil)

func NewSpace(cfg SpaceConfig) *Space {
	def := DefaultSpaceConfig()
	if cfg.Scale <= 0 {
		cfg.Scale = def.Scale
	}
	if cfg.CellSize <= 0 {
		cfg.CellSize = def.CellSize
	}
	cell := int(math.Max(1, math.Round(cfg.CellSize*cfg.Scale)))
	return &Space{
		space:   resolv.NewSpace(int(cfg.Width*cfg.Scale), int(cfg.Height*cfg.Scale), cell, cell),
		origin:  cfg.Origin,
		scale:   cfg.Scale,
		cell:    float64(cell),
		objects: make(map[ShapeID]*resolv.Object),
		shapes:  make(map[*resolv.Object]ShapeID),
		nextID:  1,
	}
}

// Add inserts a shape and returns its id. Tags are passed through to resolv.
func (s *Space) Add(bounds AABB, tags ...string) ShapeID {
	corner := s.toGrid(bounds.Min())
	size := bounds.Size.Mul(s.scale)
	obj := resolv.NewObject(corner.X(), corner.Y(), size.X(), size.Y(), tags...)
	s.space.Add(obj)

	id := s.nextID
	s.nextID++
	s.objects[id] = obj
	s.shapes[obj] = id
	return id
}

// Move relocates a shape, keeping its size. It reports false for unknown ids.
func (s *Space) Move(id ShapeID, center mgl64.Vec2) bool {
	obj, ok := s.objects[id]
	if !ok {
		return false
	}
	corner := s.toGrid(center).Sub(mgl64.Vec2{obj.W / 2, obj.H / 2})
	obj.X = corner.X()
	obj.Y = corner.Y()
	obj.Update()
	return true
}

func (s *Space) Remove(id ShapeID) {
	obj, ok := s.objects[id]
	if !ok {
		return
	}
	s.space.Remove(obj)
	delete(s.objects, id)
	delete(s.shapes, obj)
}

// Bounds returns the current world bounds of a shape.
func (s *Space) Bounds(id ShapeID) (AABB, bool) {
	obj, ok := s.objects[id]
	if !ok {
		return AABB{}, false
	}
	return s.boundsOf(obj), true
}

// Len returns the number of shapes in the space.
func (s *Space) Len() int {
	return len(s.objects)
}

func (s *Space) Overlapping(bounds AABB) []Candidate {
	// resolv registers an object up to (X+W-1, Y+H-1), so the query reaches one
	// grid unit further back to meet objects whose far edge ends inside it.
	lo := s.toGrid(bounds.Min()).Sub(mgl64.Vec2{1, 1})
	hi := s.toGrid(bounds.Max())
	cx, cy := s.toCell(lo)
	ex, ey := s.toCell(hi)

	var out []Candidate
	seen := make(map[*resolv.Object]struct{})
	for y := cy; y <= ey; y++ {
		for x := cx; x <= ex; x++ {
			cell := s.space.Cell(x, y)
			if cell == nil {
				continue
			}
			for _, obj := range cell.Objects {
				if _, dup := seen[obj]; dup {
					continue
				}
				seen[obj] = struct{}{}
				id, ok := s.shapes[obj]
				if !ok {
					continue
				}
				out = append(out, Candidate{Shape: id, Bounds: s.boundsOf(obj)})
			}
		}
	}
	return out
}

func (s *Space) Separate(a, b AABB) Separation {
	return SeparateAABB(a, b)
}

func (s *Space) toGrid(p mgl64.Vec2) mgl64.Vec2 {
	return p.Sub(s.origin).Mul(s.scale)
}

func (s *Space) toCell(p mgl64.Vec2) (int, int) {
	return int(math.Floor(p.X() / s.cell)), int(math.Floor(p.Y() / s.cell))
}

func (s *Space) boundsOf(obj *resolv.Object) AABB {
	corner := mgl64.Vec2{obj.X, obj.Y}.Mul(1 / s.scale).Add(s.origin)
	size := mgl64.Vec2{obj.W, obj.H}.Mul(1 / s.scale)
	return AABB{Center: corner.Add(size.Mul(0.5)), Size: size}
}
