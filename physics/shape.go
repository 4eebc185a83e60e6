package physics

import (
	"math"

	"github.com/go-gl/mathgl/mgl64"
)

// ContactTolerance is the penetration depth at or below which two shapes count as touching.
const ContactTolerance = 1e-9

// ShapeID identifies a shape inside a World.
type ShapeID uint32

// Up is the reference direction for ground classification.
var Up = mgl64.Vec2{0, 1}

// Angle returns the unsigned angle between a and b in radians.
// A zero-length vector has no direction and is reported as perpendicular.
func Angle(a, b mgl64.Vec2) float64 {
	denom := math.Sqrt(a.Dot(a) * b.Dot(b))
	if denom < 1e-15 {
		return math.Pi / 2
	}
	return math.Acos(mgl64.Clamp(a.Dot(b)/denom, -1, 1))
}

// AABB is an axis-aligned box described by its centre and full size.
type AABB struct {
	Center mgl64.Vec2
	Size   mgl64.Vec2
}

// NewAABB builds a box from its centre and size.
func NewAABB(center, size mgl64.Vec2) AABB {
	return AABB{Center: center, Size: size}
}

// AABBFromMinMax builds a box from two corners.
func AABBFromMinMax(lo, hi mgl64.Vec2) AABB {
	size := hi.Sub(lo)
	return AABB{Center: lo.Add(size.Mul(0.5)), Size: size}
}

func (b AABB) Half() mgl64.Vec2 { return b.Size.Mul(0.5) }
func (b AABB) Min() mgl64.Vec2  { return b.Center.Sub(b.Half()) }
func (b AABB) Max() mgl64.Vec2  { return b.Center.Add(b.Half()) }

// Translate returns the box moved by d.
func (b AABB) Translate(d mgl64.Vec2) AABB {
	b.Center = b.Center.Add(d)
	return b
}

// Intersects reports whether the closed boxes share any point. Touching boxes intersect.
func (b AABB) Intersects(o AABB) bool {
	bmin, bmax := b.Min(), b.Max()
	omin, omax := o.Min(), o.Max()
	return bmin.X() <= omax.X() && bmax.X() >= omin.X() &&
		bmin.Y() <= omax.Y() && bmax.Y() >= omin.Y()
}

// Separation describes how to push shape B out of shape A.
type Separation struct {
	Overlapping bool
	// Normal is the unit direction B must travel to leave A.
	Normal mgl64.Vec2
	// PointA lies on A's surface, PointB on B's.
	PointA mgl64.Vec2
	PointB mgl64.Vec2
}

// Vector is the minimum translation that makes B just touch A.
func (s Separation) Vector() mgl64.Vec2 {
	return s.PointA.Sub(s.PointB)
}

// SeparateAABB computes the minimum-translation separation of b out of a along
// the axis of least penetration. Equal penetration on both axes resolves vertically.
func SeparateAABB(a, b AABB) Separation {
	d := b.Center.Sub(a.Center)
	ha, hb := a.Half(), b.Half()
	ox := ha.X() + hb.X() - math.Abs(d.X())
	oy := ha.Y() + hb.Y() - math.Abs(d.Y())
	if ox <= ContactTolerance || oy <= ContactTolerance {
		return Separation{}
	}

	amin, amax := a.Min(), a.Max()
	bmin, bmax := b.Min(), b.Max()

	if oy <= ox {
		x := midpoint(math.Max(amin.X(), bmin.X()), math.Min(amax.X(), bmax.X()))
		if d.Y() >= 0 {
			return Separation{
				Overlapping: true,
				Normal:      mgl64.Vec2{0, 1},
				PointA:      mgl64.Vec2{x, amax.Y()},
				PointB:      mgl64.Vec2{x, bmin.Y()},
			}
		}
		return Separation{
			Overlapping: true,
			Normal:      mgl64.Vec2{0, -1},
			PointA:      mgl64.Vec2{x, amin.Y()},
			PointB:      mgl64.Vec2{x, bmax.Y()},
		}
	}

	y := midpoint(math.Max(amin.Y(), bmin.Y()), math.Min(amax.Y(), bmax.Y()))
	if d.X() >= 0 {
		return Separation{
			Overlapping: true,
			Normal:      mgl64.Vec2{1, 0},
			PointA:      mgl64.Vec2{amax.X(), y},
			PointB:      mgl64.Vec2{bmin.X(), y},
		}
	}
	return Separation{
		Overlapping: true,
		Normal:      mgl64.Vec2{-1, 0},
		PointA:      mgl64.Vec2{amin.X(), y},
		PointB:      mgl64.Vec2{bmax.X(), y},
	}
}

func midpoint(lo, hi float64) float64 {
	return lo + (hi-lo)/2
}
