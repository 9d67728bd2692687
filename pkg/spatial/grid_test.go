// pkg/spatial/grid_test.go
package spatial

import (
	"testing"

	"github.com/opd-ai/go-hitbox/pkg/geometry"
)

type testObject struct {
	id     ID
	bounds geometry.AABB
}

func (o *testObject) GetID() ID                { return o.id }
func (o *testObject) GetBounds() geometry.AABB { return o.bounds }

func newTestObject(id ID, x, y, w, h float64) *testObject {
	return &testObject{id: id, bounds: geometry.AABB{X: x, Y: y, Width: w, Height: h}}
}

func TestNewGrid(t *testing.T) {
	t.Run("configured_cell_size", func(t *testing.T) {
		g := NewGrid(50)
		if g.CellSize() != 50 {
			t.Errorf("CellSize() = %v, expected 50", g.CellSize())
		}
	})

	t.Run("non_positive_falls_back_to_default", func(t *testing.T) {
		if g := NewGrid(0); g.CellSize() != DefaultCellSize {
			t.Errorf("CellSize() = %v, expected %v", g.CellSize(), DefaultCellSize)
		}
		if g := NewGrid(-10); g.CellSize() != DefaultCellSize {
			t.Errorf("CellSize() = %v, expected %v", g.CellSize(), DefaultCellSize)
		}
	})
}

func TestGrid_Insert(t *testing.T) {
	t.Run("small_object_occupies_one_cell", func(t *testing.T) {
		g := NewGrid(50)
		g.Insert(newTestObject(1, 10, 10, 5, 5))

		stats := g.Stats()
		if stats.CellCount != 1 {
			t.Errorf("Stats() cell count = %d, expected 1", stats.CellCount)
		}
		if g.Len() != 1 {
			t.Errorf("Len() = %d, expected 1", g.Len())
		}
	})

	t.Run("spanning_object_occupies_every_overlapped_cell", func(t *testing.T) {
		g := NewGrid(50)
		g.Insert(newTestObject(1, 40, 40, 20, 20))

		stats := g.Stats()
		if stats.CellCount != 4 {
			t.Errorf("Stats() cell count = %d, expected 4", stats.CellCount)
		}
	})

	t.Run("degenerate_bounds_occupy_one_cell", func(t *testing.T) {
		g := NewGrid(50)
		g.Insert(newTestObject(1, 50, 50, 0, 0))

		stats := g.Stats()
		if stats.CellCount != 1 {
			t.Errorf("Stats() cell count = %d, expected 1", stats.CellCount)
		}
	})

	t.Run("negative_coordinates", func(t *testing.T) {
		g := NewGrid(50)
		g.Insert(newTestObject(1, -10, -10, 5, 5))

		found := g.QueryPoint(geometry.Vector2{X: -8, Y: -8})
		if len(found) != 1 {
			t.Fatalf("QueryPoint() returned %d objects, expected 1", len(found))
		}
		if found[0].GetID() != 1 {
			t.Errorf("QueryPoint() returned ID %d, expected 1", found[0].GetID())
		}
	})

	t.Run("reinsert_same_id_reregisters", func(t *testing.T) {
		g := NewGrid(50)
		obj := newTestObject(1, 10, 10, 5, 5)
		g.Insert(obj)

		obj.bounds = geometry.AABB{X: 200, Y: 200, Width: 5, Height: 5}
		g.Insert(obj)

		if len(g.QueryPoint(geometry.Vector2{X: 12, Y: 12})) != 0 {
			t.Error("QueryPoint() at old position should be empty after reinsert")
		}
		if len(g.QueryPoint(geometry.Vector2{X: 202, Y: 202})) != 1 {
			t.Error("QueryPoint() at new position should find the object")
		}
		if g.Len() != 1 {
			t.Errorf("Len() = %d, expected 1", g.Len())
		}
	})
}

func TestGrid_Remove(t *testing.T) {
	t.Run("removes_from_every_cell", func(t *testing.T) {
		g := NewGrid(50)
		g.Insert(newTestObject(1, 40, 40, 20, 20))
		g.Remove(1)

		if g.Len() != 0 {
			t.Errorf("Len() = %d, expected 0", g.Len())
		}
		if stats := g.Stats(); stats.CellCount != 0 {
			t.Errorf("Stats() cell count = %d, expected 0 after removal", stats.CellCount)
		}
		if len(g.QueryPoint(geometry.Vector2{X: 50, Y: 50})) != 0 {
			t.Error("QueryPoint() should be empty after removal")
		}
	})

	t.Run("unknown_id_is_noop", func(t *testing.T) {
		g := NewGrid(50)
		g.Insert(newTestObject(1, 10, 10, 5, 5))
		g.Remove(42)

		if g.Len() != 1 {
			t.Errorf("Len() = %d, expected 1", g.Len())
		}
	})

	t.Run("shared_cell_keeps_other_objects", func(t *testing.T) {
		g := NewGrid(50)
		g.Insert(newTestObject(1, 10, 10, 5, 5))
		g.Insert(newTestObject(2, 20, 20, 5, 5))
		g.Remove(1)

		found := g.QueryPoint(geometry.Vector2{X: 22, Y: 22})
		if len(found) != 1 || found[0].GetID() != 2 {
			t.Errorf("QueryPoint() = %v, expected object 2 to survive", found)
		}
	})
}

func TestGrid_Update(t *testing.T) {
	g := NewGrid(50)
	obj := newTestObject(1, 10, 10, 5, 5)
	g.Insert(obj)

	obj.bounds = geometry.AABB{X: 120, Y: 10, Width: 5, Height: 5}
	g.Update(obj)

	if len(g.QueryPoint(geometry.Vector2{X: 12, Y: 12})) != 0 {
		t.Error("QueryPoint() at old position should be empty after update")
	}
	found := g.QueryPoint(geometry.Vector2{X: 122, Y: 12})
	if len(found) != 1 || found[0].GetID() != 1 {
		t.Errorf("QueryPoint() = %v, expected updated object at new position", found)
	}
}

func TestGrid_Query(t *testing.T) {
	g := NewGrid(50)
	g.Insert(newTestObject(1, 10, 10, 5, 5))
	g.Insert(newTestObject(2, 30, 10, 5, 5))
	g.Insert(newTestObject(3, 300, 300, 5, 5))

	t.Run("filters_by_bounds", func(t *testing.T) {
		found := g.Query(geometry.AABB{X: 0, Y: 0, Width: 20, Height: 20})
		if len(found) != 1 || found[0].GetID() != 1 {
			t.Errorf("Query() = %v, expected only object 1", found)
		}
	})

	t.Run("spanning_object_returned_once", func(t *testing.T) {
		g := NewGrid(50)
		g.Insert(newTestObject(1, 40, 40, 20, 20))

		found := g.Query(geometry.AABB{X: 0, Y: 0, Width: 100, Height: 100})
		if len(found) != 1 {
			t.Errorf("Query() returned %d entries, expected 1 after deduplication", len(found))
		}
	})

	t.Run("empty_region", func(t *testing.T) {
		found := g.Query(geometry.AABB{X: 1000, Y: 1000, Width: 10, Height: 10})
		if len(found) != 0 {
			t.Errorf("Query() = %v, expected empty", found)
		}
	})
}

func TestGrid_QueryRadius(t *testing.T) {
	g := NewGrid(50)
	g.Insert(newTestObject(1, 5, -2, 4, 4))
	g.Insert(newTestObject(2, 9, 9, 1, 1))
	g.Insert(newTestObject(3, 40, 40, 5, 5))

	found := g.QueryRadius(geometry.Vector2{X: 0, Y: 0}, 10)

	ids := make(map[ID]bool)
	for _, obj := range found {
		ids[obj.GetID()] = true
	}
	if !ids[1] {
		t.Error("QueryRadius() should return object 1 inside the radius")
	}
	// The bounding square over-approximates: the corner object is farther
	// than the radius but still inside the square, and that is expected.
	if !ids[2] {
		t.Error("QueryRadius() should return the corner object from the bounding square")
	}
	if ids[3] {
		t.Error("QueryRadius() should not return objects outside the bounding square")
	}
}

func TestGrid_Clear(t *testing.T) {
	g := NewGrid(50)
	g.Insert(newTestObject(1, 10, 10, 5, 5))
	g.Insert(newTestObject(2, 40, 40, 20, 20))
	g.Clear()

	if g.Len() != 0 {
		t.Errorf("Len() = %d, expected 0 after clear", g.Len())
	}
	if stats := g.Stats(); stats.CellCount != 0 {
		t.Errorf("Stats() cell count = %d, expected 0 after clear", stats.CellCount)
	}
	if g.CellSize() != 50 {
		t.Errorf("CellSize() = %v, expected 50 to survive clear", g.CellSize())
	}
}

func TestGrid_Stats(t *testing.T) {
	g := NewGrid(50)
	g.Insert(newTestObject(1, 10, 10, 5, 5))
	g.Insert(newTestObject(2, 20, 20, 5, 5))
	g.Insert(newTestObject(3, 120, 10, 5, 5))

	stats := g.Stats()
	if stats.ObjectCount != 3 {
		t.Errorf("Stats() object count = %d, expected 3", stats.ObjectCount)
	}
	if stats.CellCount != 2 {
		t.Errorf("Stats() cell count = %d, expected 2", stats.CellCount)
	}
	if stats.MaxPerCell != 2 {
		t.Errorf("Stats() max per cell = %d, expected 2", stats.MaxPerCell)
	}
	if stats.AvgPerCell != 1.5 {
		t.Errorf("Stats() avg per cell = %v, expected 1.5", stats.AvgPerCell)
	}
}

func TestGrid_CheckConsistency(t *testing.T) {
	g := NewGrid(50)
	g.Insert(newTestObject(1, 10, 10, 5, 5))
	g.Insert(newTestObject(2, 40, 40, 20, 20))
	g.Update(newTestObject(2, 140, 40, 20, 20))
	g.Remove(1)

	if err := g.CheckConsistency(); err != nil {
		t.Errorf("CheckConsistency() unexpected error: %v", err)
	}

	t.Run("detects_missing_reverse_entry", func(t *testing.T) {
		g := NewGrid(50)
		g.Insert(newTestObject(1, 10, 10, 5, 5))

		// Corrupt the forward map behind the reverse map's back.
		for key := range g.cells {
			g.cells[key][99] = newTestObject(99, 10, 10, 5, 5)
		}
		if err := g.CheckConsistency(); err == nil {
			t.Error("CheckConsistency() should report the planted inconsistency")
		}
	})
}

func BenchmarkGrid_QueryPoint(b *testing.B) {
	g := NewGrid(50)
	for i := 0; i < 100; i++ {
		x := float64((i % 10) * 40)
		y := float64((i / 10) * 40)
		g.Insert(newTestObject(ID(i+1), x, y, 30, 30))
	}
	p := geometry.Vector2{X: 95, Y: 95}

	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		_ = g.QueryPoint(p)
	}
}

func BenchmarkGrid_Update(b *testing.B) {
	g := NewGrid(50)
	obj := newTestObject(1, 10, 10, 20, 20)
	g.Insert(obj)

	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		obj.bounds.X = float64(i % 500)
		g.Update(obj)
	}
}
