// pkg/geometry/raycast.go
package geometry

import "math"

// RayHit contains information about a ray intersection. Distances are in
// units of the direction's length, so callers pass unit directions; the
// collision detector normalizes before calling any of these.
type RayHit struct {
	Hit      bool
	Point    Vector2
	Normal   Vector2
	Distance float64
}

// RaycastAABB intersects a ray with a bounding box using the slab method.
// A zero direction is a guaranteed no-hit; so is a box behind the ray, a
// miss, or an entry point past maxDistance. When the origin is inside the
// box the reported distance is the exit distance.
func RaycastAABB(origin, direction Vector2, maxDistance float64, bounds AABB) RayHit {
	if direction.X == 0 && direction.Y == 0 {
		return RayHit{}
	}

	tMin := math.Inf(-1)
	tMax := math.Inf(1)

	// Per-axis slabs; an axis-parallel ray constrains nothing on its axis
	// but must start inside that slab. Branching keeps 0*Inf out of the
	// arithmetic entirely.
	if direction.X != 0 {
		t1 := (bounds.MinX() - origin.X) / direction.X
		t2 := (bounds.MaxX() - origin.X) / direction.X
		tMin = math.Max(tMin, math.Min(t1, t2))
		tMax = math.Min(tMax, math.Max(t1, t2))
	} else if origin.X < bounds.MinX() || origin.X > bounds.MaxX() {
		return RayHit{}
	}

	if direction.Y != 0 {
		t3 := (bounds.MinY() - origin.Y) / direction.Y
		t4 := (bounds.MaxY() - origin.Y) / direction.Y
		tMin = math.Max(tMin, math.Min(t3, t4))
		tMax = math.Min(tMax, math.Max(t3, t4))
	} else if origin.Y < bounds.MinY() || origin.Y > bounds.MaxY() {
		return RayHit{}
	}

	if tMax < 0 || tMin > tMax || tMin > maxDistance {
		return RayHit{}
	}

	distance := tMin
	if distance <= 0 {
		distance = tMax
	}
	point := origin.Add(direction.Scale(distance))
	return RayHit{
		Hit:      true,
		Point:    point,
		Normal:   aabbNormal(point, bounds),
		Distance: distance,
	}
}

// aabbNormal picks the face normal for a hit point by the dominant axis of
// its offset from the box center.
func aabbNormal(point Vector2, bounds AABB) Vector2 {
	center := bounds.Center()
	dx := point.X - center.X
	dy := point.Y - center.Y
	if math.Abs(dx) > math.Abs(dy) {
		if dx < 0 {
			return Vector2{X: -1}
		}
		return Vector2{X: 1}
	}
	if dy < 0 {
		return Vector2{Y: -1}
	}
	return Vector2{Y: 1}
}

// RaycastCircle intersects a ray with a circle via closest-point algebra:
// project the center onto the ray, then solve the half-chord from the
// radius and the perpendicular distance. Origin-inside reports the exit.
func RaycastCircle(origin, direction Vector2, maxDistance float64, c Circle) RayHit {
	if direction.X == 0 && direction.Y == 0 {
		return RayHit{}
	}

	toCenter := c.Center().Sub(origin)
	proj := toCenter.Dot(direction)
	perpSq := toCenter.LengthSquared() - proj*proj
	radiusSq := c.Radius() * c.Radius()
	if perpSq > radiusSq {
		return RayHit{}
	}

	halfChord := math.Sqrt(radiusSq - perpSq)
	tNear := proj - halfChord
	tFar := proj + halfChord
	if tFar < 0 || tNear > maxDistance {
		return RayHit{}
	}

	distance := tNear
	if distance <= 0 {
		distance = tFar
	}
	point := origin.Add(direction.Scale(distance))
	normal := point.Sub(c.Center()).Normalize()
	if normal.X == 0 && normal.Y == 0 {
		// Zero-radius circle struck dead center.
		normal = direction.Scale(-1)
	}
	return RayHit{Hit: true, Point: point, Normal: normal, Distance: distance}
}

// RaycastRect intersects a ray with a rectangle, which is exactly its
// bounding box.
func RaycastRect(origin, direction Vector2, maxDistance float64, r Rect) RayHit {
	return RaycastAABB(origin, direction, maxDistance, r.Bounds())
}

// RaycastGeometry dispatches to the exact ray test for g's variant.
func RaycastGeometry(origin, direction Vector2, maxDistance float64, g Geometry) RayHit {
	switch s := g.(type) {
	case Circle:
		return RaycastCircle(origin, direction, maxDistance, s)
	case Rect:
		return RaycastRect(origin, direction, maxDistance, s)
	case Polygon:
		return RaycastPolygon(origin, direction, maxDistance, s)
	}
	return RayHit{}
}

// RaycastPolygon intersects a ray with a polygon by testing every edge as
// a line segment and keeping the nearest hit.
func RaycastPolygon(origin, direction Vector2, maxDistance float64, p Polygon) RayHit {
	if direction.X == 0 && direction.Y == 0 {
		return RayHit{}
	}

	var best RayHit
	verts := p.Vertices()
	for i := range verts {
		a := verts[i]
		b := verts[(i+1)%len(verts)]
		hit := raycastSegment(origin, direction, maxDistance, a, b)
		if hit.Hit && (!best.Hit || hit.Distance < best.Distance) {
			best = hit
		}
	}
	return best
}

// raycastSegment intersects a ray with the segment ab. The edge normal is
// flipped to face back along the ray.
func raycastSegment(origin, direction Vector2, maxDistance float64, a, b Vector2) RayHit {
	seg := b.Sub(a)
	denom := direction.Cross(seg)
	if denom == 0 {
		// Parallel or collinear; edge-on rays resolve via adjacent edges.
		return RayHit{}
	}

	toA := a.Sub(origin)
	t := toA.Cross(seg) / denom
	u := toA.Cross(direction) / denom
	if t < 0 || t > maxDistance || u < 0 || u > 1 {
		return RayHit{}
	}

	point := origin.Add(direction.Scale(t))
	normal := Vector2{X: -seg.Y, Y: seg.X}.Normalize()
	if normal.Dot(direction) > 0 {
		normal = normal.Scale(-1)
	}
	return RayHit{Hit: true, Point: point, Normal: normal, Distance: t}
}
