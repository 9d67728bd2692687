// pkg/geometry/shape.go
package geometry

import (
	"errors"
	"fmt"
	"math"
)

// ErrPolygonVertices is returned by NewPolygon when fewer than three
// vertices are supplied.
var ErrPolygonVertices = errors.New("geometry: polygon requires at least 3 vertices")

// Geometry is the closed set of shapes the collision engine understands:
// Circle, Rect, and Polygon. Each variant carries its bounds and center,
// computed once at construction. A shape that moves must be recreated;
// nothing here recomputes derived state behind the caller's back.
type Geometry interface {
	// Bounds returns the axis-aligned box enclosing the shape.
	Bounds() AABB
	// Center returns the shape's center point.
	Center() Vector2
	// ContainsPoint reports whether p lies inside or on the shape.
	ContainsPoint(p Vector2) bool

	sealedGeometry()
}

// Circle is a geometry variant defined by a center and radius.
type Circle struct {
	center Vector2
	radius float64
	bounds AABB
}

// NewCircle creates a circle geometry with eagerly computed bounds.
// A negative radius is clamped to zero; the resulting degenerate circle
// contains only its own center.
func NewCircle(center Vector2, radius float64) Circle {
	if radius < 0 {
		radius = 0
	}
	return Circle{
		center: center,
		radius: radius,
		bounds: AABB{
			X:      center.X - radius,
			Y:      center.Y - radius,
			Width:  radius * 2,
			Height: radius * 2,
		},
	}
}

// Center returns the circle's center
func (c Circle) Center() Vector2 { return c.center }

// Radius returns the circle's radius
func (c Circle) Radius() float64 { return c.radius }

// Bounds returns the box enclosing the circle
func (c Circle) Bounds() AABB { return c.bounds }

// ContainsPoint reports whether the point lies inside the circle.
// Points on the boundary count as contained.
func (c Circle) ContainsPoint(p Vector2) bool {
	return c.center.DistanceToSquared(p) <= c.radius*c.radius
}

func (Circle) sealedGeometry() {}

// Rect is a geometry variant equal to its own bounding box.
type Rect struct {
	bounds AABB
	center Vector2
}

// NewRect creates a rectangle geometry from a corner position and size.
// Negative dimensions are clamped to zero.
func NewRect(x, y, width, height float64) Rect {
	if width < 0 {
		width = 0
	}
	if height < 0 {
		height = 0
	}
	b := AABB{X: x, Y: y, Width: width, Height: height}
	return Rect{bounds: b, center: b.Center()}
}

// Center returns the rectangle's center
func (r Rect) Center() Vector2 { return r.center }

// Bounds returns the rectangle as a bounding box
func (r Rect) Bounds() AABB { return r.bounds }

// ContainsPoint reports whether the point lies inside the rectangle.
// Points on the boundary count as contained.
func (r Rect) ContainsPoint(p Vector2) bool {
	return r.bounds.ContainsPoint(p)
}

func (Rect) sealedGeometry() {}

// Polygon is a geometry variant defined by three or more vertices.
//
// Exact polygon collision resolution is not implemented: pairings that
// involve a polygon fall back to bounds-level tests in Collide. Point
// containment and ray intersection remain exact.
type Polygon struct {
	vertices []Vector2
	bounds   AABB
	center   Vector2
}

// NewPolygon creates a polygon geometry from the given vertices.
// It returns ErrPolygonVertices when fewer than three are supplied;
// a degenerate polygon is never constructed silently. The vertex slice
// is copied, so callers keep ownership of theirs.
func NewPolygon(vertices []Vector2) (Polygon, error) {
	if len(vertices) < 3 {
		return Polygon{}, fmt.Errorf("%w: got %d", ErrPolygonVertices, len(vertices))
	}
	vs := make([]Vector2, len(vertices))
	copy(vs, vertices)
	b := AABBFromPoints(vs)
	return Polygon{
		vertices: vs,
		bounds:   b,
		center:   b.Center(),
	}, nil
}

// Vertices returns the polygon's vertex list.
// The returned slice must not be modified.
func (p Polygon) Vertices() []Vector2 { return p.vertices }

// Center returns the center of the polygon's bounding box
func (p Polygon) Center() Vector2 { return p.center }

// Bounds returns the box enclosing every vertex
func (p Polygon) Bounds() AABB { return p.bounds }

// ContainsPoint reports whether the point lies inside the polygon.
// Points exactly on an edge count as contained.
func (p Polygon) ContainsPoint(pt Vector2) bool {
	return PointInPolygon(pt, p.vertices)
}

func (Polygon) sealedGeometry() {}

// PointSegmentDistance returns the distance from p to the segment ab.
// The projection onto the segment is clamped to its endpoints; a
// zero-length segment degrades to the distance from p to a.
func PointSegmentDistance(p, a, b Vector2) float64 {
	seg := b.Sub(a)
	lengthSq := seg.LengthSquared()
	if lengthSq == 0 {
		return p.DistanceTo(a)
	}
	t := p.Sub(a).Dot(seg) / lengthSq
	t = math.Max(0, math.Min(1, t))
	closest := a.Add(seg.Scale(t))
	return p.DistanceTo(closest)
}

// PointInPolygon classifies p against the polygon outlined by vertices
// using even-odd ray casting. A point exactly on an edge is inside; that
// convention is fixed and hit tests rely on it at shape boundaries.
// Fewer than three vertices contain nothing.
func PointInPolygon(p Vector2, vertices []Vector2) bool {
	if len(vertices) < 3 {
		return false
	}

	// Edge check first so boundary points never depend on crossing parity.
	for i := 0; i < len(vertices); i++ {
		j := (i + 1) % len(vertices)
		if PointSegmentDistance(p, vertices[i], vertices[j]) <= epsilon {
			return true
		}
	}

	inside := false
	for i, j := 0, len(vertices)-1; i < len(vertices); j, i = i, i+1 {
		vi := vertices[i]
		vj := vertices[j]
		if (vi.Y > p.Y) != (vj.Y > p.Y) {
			crossX := (vj.X-vi.X)*(p.Y-vi.Y)/(vj.Y-vi.Y) + vi.X
			if p.X < crossX {
				inside = !inside
			}
		}
	}
	return inside
}
