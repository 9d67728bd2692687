// pkg/scene/shape.go

// Package scene provides the reference owner of collision objects: a
// Shape type satisfying the collision contract and a Scene registry
// that serializes core access, publishes lifecycle events, and drives
// index rebuilds. The core packages never lock; the locking lives here.
package scene

import (
	"fmt"
	"sync/atomic"

	"github.com/opd-ai/go-hitbox/pkg/geometry"
	"github.com/opd-ai/go-hitbox/pkg/spatial"
)

// Shape is a scene element satisfying the collision object contract.
// Fields are mutated through the owning Scene so index membership and
// events stay in step; a Shape changed directly leaves the index stale
// until the next update or rebuild.
type Shape struct {
	ID       spatial.ID
	Label    string
	Geometry geometry.Geometry
	Visible  bool
	Enabled  bool
	ZIndex   int
}

// NewShape creates a visible, enabled shape at z-index 0.
func NewShape(id spatial.ID, label string, g geometry.Geometry) *Shape {
	return &Shape{
		ID:       id,
		Label:    label,
		Geometry: g,
		Visible:  true,
		Enabled:  true,
	}
}

// GetID returns the shape's unique identifier.
func (s *Shape) GetID() spatial.ID {
	return s.ID
}

// GetBounds returns the shape's axis-aligned bounding box.
func (s *Shape) GetBounds() geometry.AABB {
	return s.Geometry.Bounds()
}

// GetGeometry returns the shape's exact geometry.
func (s *Shape) GetGeometry() geometry.Geometry {
	return s.Geometry
}

// IsVisible reports whether the shape participates in queries.
func (s *Shape) IsVisible() bool {
	return s.Visible
}

// IsEnabled reports whether the shape currently accepts hits.
func (s *Shape) IsEnabled() bool {
	return s.Enabled
}

// GetZIndex returns the shape's stacking order.
func (s *Shape) GetZIndex() int {
	return s.ZIndex
}

// MoveTo rebuilds the shape's geometry with its center at position.
// Geometry values are immutable, so moving means recreating; the caller
// must re-register the shape with its index afterward.
func (s *Shape) MoveTo(position geometry.Vector2) error {
	moved, err := translated(s.Geometry, position)
	if err != nil {
		return err
	}
	s.Geometry = moved
	return nil
}

// translated returns g rebuilt with its center at position.
func translated(g geometry.Geometry, position geometry.Vector2) (geometry.Geometry, error) {
	switch v := g.(type) {
	case geometry.Circle:
		return geometry.NewCircle(position, v.Radius()), nil
	case geometry.Rect:
		b := v.Bounds()
		return geometry.NewRect(position.X-b.Width/2, position.Y-b.Height/2, b.Width, b.Height), nil
	case geometry.Polygon:
		delta := position.Sub(v.Center())
		src := v.Vertices()
		vs := make([]geometry.Vector2, len(src))
		for i, p := range src {
			vs[i] = p.Add(delta)
		}
		return geometry.NewPolygon(vs)
	default:
		return nil, fmt.Errorf("unknown geometry variant %T", g)
	}
}

var idCounter uint64

// GenerateID returns a process-unique shape ID. IDs start at 1 and are
// never reused within a process.
func GenerateID() spatial.ID {
	return spatial.ID(atomic.AddUint64(&idCounter, 1))
}
