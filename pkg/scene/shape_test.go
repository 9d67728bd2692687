// pkg/scene/shape_test.go
package scene

import (
	"math"
	"testing"

	"github.com/opd-ai/go-hitbox/pkg/collision"
	"github.com/opd-ai/go-hitbox/pkg/geometry"
)

var _ collision.Object = (*Shape)(nil)

func TestNewShape_Defaults(t *testing.T) {
	g := geometry.NewCircle(geometry.Vector2{X: 10, Y: 20}, 5)
	shape := NewShape(42, "player", g)

	if shape.GetID() != 42 {
		t.Errorf("GetID() = %d, expected 42", shape.GetID())
	}
	if shape.Label != "player" {
		t.Errorf("Label = %q, expected %q", shape.Label, "player")
	}
	if !shape.IsVisible() {
		t.Error("new shape should be visible")
	}
	if !shape.IsEnabled() {
		t.Error("new shape should be enabled")
	}
	if shape.GetZIndex() != 0 {
		t.Errorf("GetZIndex() = %d, expected 0", shape.GetZIndex())
	}

	bounds := shape.GetBounds()
	if bounds.X != 5 || bounds.Y != 15 || bounds.Width != 10 || bounds.Height != 10 {
		t.Errorf("GetBounds() = %+v, expected circle bounds at (5,15) 10x10", bounds)
	}
}

func TestShape_MoveTo_RecreatesGeometry(t *testing.T) {
	triangle, err := geometry.NewPolygon([]geometry.Vector2{
		{X: 0, Y: 0}, {X: 4, Y: 0}, {X: 0, Y: 4},
	})
	if err != nil {
		t.Fatalf("NewPolygon failed: %v", err)
	}

	tests := []struct {
		name   string
		g      geometry.Geometry
		target geometry.Vector2
	}{
		{
			name:   "circle",
			g:      geometry.NewCircle(geometry.Vector2{X: 0, Y: 0}, 10),
			target: geometry.Vector2{X: 50, Y: -30},
		},
		{
			name:   "rect",
			g:      geometry.NewRect(0, 0, 20, 10),
			target: geometry.Vector2{X: 100, Y: 100},
		},
		{
			name:   "polygon",
			g:      triangle,
			target: geometry.Vector2{X: -8, Y: 12},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			shape := NewShape(1, "mover", tt.g)
			if err := shape.MoveTo(tt.target); err != nil {
				t.Fatalf("MoveTo failed: %v", err)
			}

			center := shape.Geometry.Center()
			if math.Abs(center.X-tt.target.X) > 1e-9 || math.Abs(center.Y-tt.target.Y) > 1e-9 {
				t.Errorf("center after MoveTo = %+v, expected %+v", center, tt.target)
			}

			// Bounds must follow the geometry
			if !shape.GetBounds().ContainsPoint(tt.target) {
				t.Errorf("bounds %+v do not contain new center %+v", shape.GetBounds(), tt.target)
			}
		})
	}
}

func TestShape_MoveTo_PreservesShapeSize(t *testing.T) {
	shape := NewShape(1, "box", geometry.NewRect(0, 0, 20, 10))
	if err := shape.MoveTo(geometry.Vector2{X: 200, Y: 300}); err != nil {
		t.Fatalf("MoveTo failed: %v", err)
	}

	bounds := shape.GetBounds()
	if bounds.Width != 20 || bounds.Height != 10 {
		t.Errorf("size after move = %gx%g, expected 20x10", bounds.Width, bounds.Height)
	}
	if bounds.X != 190 || bounds.Y != 295 {
		t.Errorf("origin after move = (%g,%g), expected (190,295)", bounds.X, bounds.Y)
	}
}

func TestShape_MoveTo_PolygonKeepsVertexOffsets(t *testing.T) {
	square, err := geometry.NewPolygon([]geometry.Vector2{
		{X: 0, Y: 0}, {X: 2, Y: 0}, {X: 2, Y: 2}, {X: 0, Y: 2},
	})
	if err != nil {
		t.Fatalf("NewPolygon failed: %v", err)
	}

	shape := NewShape(1, "square", square)
	if err := shape.MoveTo(geometry.Vector2{X: 11, Y: 21}); err != nil {
		t.Fatalf("MoveTo failed: %v", err)
	}

	poly, ok := shape.Geometry.(geometry.Polygon)
	if !ok {
		t.Fatalf("geometry is %T after move, expected Polygon", shape.Geometry)
	}

	vs := poly.Vertices()
	if len(vs) != 4 {
		t.Fatalf("vertex count = %d, expected 4", len(vs))
	}
	if vs[0].X != 10 || vs[0].Y != 20 {
		t.Errorf("first vertex = %+v, expected (10,20)", vs[0])
	}
	if vs[2].X != 12 || vs[2].Y != 22 {
		t.Errorf("third vertex = %+v, expected (12,22)", vs[2])
	}
}

func TestGenerateID_UniqueAndIncreasing(t *testing.T) {
	a := GenerateID()
	b := GenerateID()
	c := GenerateID()

	if a == 0 {
		t.Error("GenerateID returned 0, IDs start at 1")
	}
	if b <= a || c <= b {
		t.Errorf("IDs not increasing: %d, %d, %d", a, b, c)
	}
}
