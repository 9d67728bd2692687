// pkg/geometry/collide.go
package geometry

import "math"

// CollisionResult contains information about a pairwise shape test.
// Distance is the center-to-center distance and is reported even when the
// shapes do not collide, so callers can use misses for diagnostics.
type CollisionResult struct {
	Collided     bool
	Normal       Vector2
	Penetration  float64
	ContactPoint Vector2
	Distance     float64
}

// CollideCircles determines if two circles are colliding.
// Circles touch when the center distance equals the radius sum; the normal
// points from a toward b and the contact point sits on a's boundary.
func CollideCircles(a, b Circle) CollisionResult {
	distance := a.Center().DistanceTo(b.Center())
	radiusSum := a.Radius() + b.Radius()

	result := CollisionResult{Distance: distance}
	if distance > radiusSum {
		return result
	}

	result.Collided = true
	result.Penetration = radiusSum - distance
	if distance > 0 {
		result.Normal = b.Center().Sub(a.Center()).Scale(1 / distance)
	} else {
		// Coincident centers give no direction; pick a stable one.
		result.Normal = Vector2{X: 1}
	}
	result.ContactPoint = a.Center().Add(result.Normal.Scale(a.Radius()))
	return result
}

// CollideRects determines if two rectangles are colliding.
// The separation axis is the one with the smaller overlap; see
// CollideBounds for the tie rule.
func CollideRects(a, b Rect) CollisionResult {
	return CollideBounds(a.Bounds(), b.Bounds())
}

// CollideCircleRect determines if a circle and a rectangle are colliding.
// The closest point on the rectangle to the circle's center decides the
// test; the normal points from that closest point toward the circle,
// whichever argument order Collide dispatched with.
func CollideCircleRect(c Circle, r Rect) CollisionResult {
	center := c.Center()
	rb := r.Bounds()
	closest := Vector2{
		X: math.Max(rb.MinX(), math.Min(center.X, rb.MaxX())),
		Y: math.Max(rb.MinY(), math.Min(center.Y, rb.MaxY())),
	}

	distance := center.DistanceTo(closest)
	result := CollisionResult{Distance: center.DistanceTo(r.Center())}
	if distance > c.Radius() {
		return result
	}

	result.Collided = true
	result.Penetration = c.Radius() - distance
	if distance > 0 {
		result.Normal = center.Sub(closest).Scale(1 / distance)
	} else {
		// Center inside the rectangle: fall back to the center-to-center
		// direction so the normal still points toward the circle.
		dir := center.Sub(r.Center())
		if dir.X == 0 && dir.Y == 0 {
			dir = Vector2{X: 1}
		}
		result.Normal = dir.Normalize()
	}
	result.ContactPoint = closest
	return result
}

// CollideBounds resolves two bounding boxes with the minimum-overlap rule.
// It backs rect-rect resolution and is the fallback for every pairing
// without an exact test, polygons included. Equal overlaps resolve along
// the X axis; the comparison is deliberately non-strict.
func CollideBounds(a, b AABB) CollisionResult {
	centerA := a.Center()
	centerB := b.Center()

	result := CollisionResult{Distance: centerA.DistanceTo(centerB)}
	if !a.Intersects(b) {
		return result
	}

	overlapX := math.Min(a.MaxX(), b.MaxX()) - math.Max(a.MinX(), b.MinX())
	overlapY := math.Min(a.MaxY(), b.MaxY()) - math.Max(a.MinY(), b.MinY())

	result.Collided = true
	if overlapX <= overlapY {
		result.Penetration = overlapX
		if centerB.X >= centerA.X {
			result.Normal = Vector2{X: 1}
		} else {
			result.Normal = Vector2{X: -1}
		}
	} else {
		result.Penetration = overlapY
		if centerB.Y >= centerA.Y {
			result.Normal = Vector2{Y: 1}
		} else {
			result.Normal = Vector2{Y: -1}
		}
	}
	result.ContactPoint = centerA.Add(result.Normal.Scale(result.Penetration / 2))
	return result
}

// Collide resolves any two geometries. Bounds that do not intersect reject
// immediately, with the center distance still reported. Circle and rect
// pairings dispatch to their exact tests in either argument order; every
// other pairing resolves at bounds level only.
func Collide(a, b Geometry) CollisionResult {
	if !a.Bounds().Intersects(b.Bounds()) {
		return CollisionResult{Distance: a.Center().DistanceTo(b.Center())}
	}

	switch sa := a.(type) {
	case Circle:
		switch sb := b.(type) {
		case Circle:
			return CollideCircles(sa, sb)
		case Rect:
			return CollideCircleRect(sa, sb)
		}
	case Rect:
		switch sb := b.(type) {
		case Rect:
			return CollideRects(sa, sb)
		case Circle:
			return CollideCircleRect(sb, sa)
		}
	}
	return CollideBounds(a.Bounds(), b.Bounds())
}
