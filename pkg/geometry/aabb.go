// pkg/geometry/aabb.go
package geometry

// AABB is an axis-aligned bounding box anchored at its top-left corner.
// It is the bounds currency of the spatial index: every indexable object
// reports one, and every coarse query is phrased in terms of it.
type AABB struct {
	X      float64
	Y      float64
	Width  float64
	Height float64
}

// NewAABB creates a bounding box from a corner position and size
func NewAABB(x, y, width, height float64) AABB {
	return AABB{X: x, Y: y, Width: width, Height: height}
}

// AABBFromPoints returns the smallest box enclosing every given point.
// An empty point list yields the zero box.
func AABBFromPoints(points []Vector2) AABB {
	if len(points) == 0 {
		return AABB{}
	}
	minX, maxX := points[0].X, points[0].X
	minY, maxY := points[0].Y, points[0].Y
	for _, p := range points[1:] {
		if p.X < minX {
			minX = p.X
		}
		if p.X > maxX {
			maxX = p.X
		}
		if p.Y < minY {
			minY = p.Y
		}
		if p.Y > maxY {
			maxY = p.Y
		}
	}
	return AABB{X: minX, Y: minY, Width: maxX - minX, Height: maxY - minY}
}

// MinX returns the left edge of the box
func (b AABB) MinX() float64 { return b.X }

// MinY returns the top edge of the box
func (b AABB) MinY() float64 { return b.Y }

// MaxX returns the right edge of the box
func (b AABB) MaxX() float64 { return b.X + b.Width }

// MaxY returns the bottom edge of the box
func (b AABB) MaxY() float64 { return b.Y + b.Height }

// Center returns the midpoint of the box
func (b AABB) Center() Vector2 {
	return Vector2{
		X: b.X + b.Width/2,
		Y: b.Y + b.Height/2,
	}
}

// ContainsPoint reports whether the point lies inside the box.
// Points on the boundary count as contained.
func (b AABB) ContainsPoint(p Vector2) bool {
	return p.X >= b.MinX() && p.X <= b.MaxX() &&
		p.Y >= b.MinY() && p.Y <= b.MaxY()
}

// Intersects reports whether two boxes overlap.
// Touching edges count as intersecting; queries at cell and shape
// boundaries depend on the comparison staying inclusive.
func (b AABB) Intersects(other AABB) bool {
	return b.MinX() <= other.MaxX() && b.MaxX() >= other.MinX() &&
		b.MinY() <= other.MaxY() && b.MaxY() >= other.MinY()
}
