// pkg/spatial/quadtree_test.go
package spatial

import (
	"testing"

	"github.com/opd-ai/go-hitbox/pkg/geometry"
)

func testWorld() geometry.AABB {
	return geometry.AABB{X: 0, Y: 0, Width: 100, Height: 100}
}

func TestNewQuadTree(t *testing.T) {
	t.Run("configured_knobs", func(t *testing.T) {
		qt := NewQuadTree(testWorld(), 4, 3)
		if qt.maxObjects != 4 {
			t.Errorf("maxObjects = %d, expected 4", qt.maxObjects)
		}
		if qt.maxDepth != 3 {
			t.Errorf("maxDepth = %d, expected 3", qt.maxDepth)
		}
		if qt.Bounds() != testWorld() {
			t.Errorf("Bounds() = %v, expected %v", qt.Bounds(), testWorld())
		}
	})

	t.Run("non_positive_knobs_fall_back_to_defaults", func(t *testing.T) {
		qt := NewQuadTree(testWorld(), 0, -1)
		if qt.maxObjects != DefaultMaxObjects {
			t.Errorf("maxObjects = %d, expected %d", qt.maxObjects, DefaultMaxObjects)
		}
		if qt.maxDepth != DefaultMaxDepth {
			t.Errorf("maxDepth = %d, expected %d", qt.maxDepth, DefaultMaxDepth)
		}
	})
}

func TestQuadTree_Insert(t *testing.T) {
	t.Run("inside_world", func(t *testing.T) {
		qt := NewQuadTree(testWorld(), 4, 3)
		if !qt.Insert(newTestObject(1, 10, 10, 5, 5)) {
			t.Error("Insert() = false, expected true for object inside the world")
		}
		if qt.Len() != 1 {
			t.Errorf("Len() = %d, expected 1", qt.Len())
		}
	})

	t.Run("outside_world_rejected", func(t *testing.T) {
		qt := NewQuadTree(testWorld(), 4, 3)
		if qt.Insert(newTestObject(1, 200, 200, 10, 10)) {
			t.Error("Insert() = true, expected false for object outside the world")
		}
		if qt.Len() != 0 {
			t.Errorf("Len() = %d, expected 0", qt.Len())
		}
	})

	t.Run("straddling_world_edge_accepted", func(t *testing.T) {
		qt := NewQuadTree(testWorld(), 4, 3)
		if !qt.Insert(newTestObject(1, 95, 95, 20, 20)) {
			t.Error("Insert() = false, expected true for partially overlapping object")
		}
	})
}

func TestQuadTree_Subdivide(t *testing.T) {
	t.Run("overflow_splits_node", func(t *testing.T) {
		qt := NewQuadTree(testWorld(), 2, 3)
		qt.Insert(newTestObject(1, 5, 5, 4, 4))
		qt.Insert(newTestObject(2, 80, 5, 4, 4))
		qt.Insert(newTestObject(3, 80, 80, 4, 4))

		if !qt.divided {
			t.Fatal("tree should split after overflowing maxObjects")
		}
		stats := qt.Stats()
		if stats.NodeCount != 5 {
			t.Errorf("Stats() node count = %d, expected 5", stats.NodeCount)
		}

		found := qt.Query(testWorld())
		if len(found) != 3 {
			t.Errorf("Query() returned %d objects after split, expected 3", len(found))
		}
	})

	t.Run("straddler_registered_in_every_overlapped_child", func(t *testing.T) {
		qt := NewQuadTree(testWorld(), 1, 3)
		qt.Insert(newTestObject(1, 40, 40, 20, 20))
		qt.Insert(newTestObject(2, 5, 5, 4, 4))

		stats := qt.Stats()
		if stats.ObjectCount != 2 {
			t.Errorf("Stats() object count = %d, expected 2", stats.ObjectCount)
		}
		// The straddler covers all four quadrants, so it is stored four
		// times and the corner object once.
		if stats.StoredCount != 5 {
			t.Errorf("Stats() stored count = %d, expected 5", stats.StoredCount)
		}

		found := qt.Query(testWorld())
		if len(found) != 5 {
			t.Errorf("Query() returned %d entries, expected 5 with structural duplicates", len(found))
		}
		if qt.Len() != 2 {
			t.Errorf("Len() = %d, expected 2 distinct objects", qt.Len())
		}
	})

	t.Run("max_depth_stops_splitting", func(t *testing.T) {
		qt := NewQuadTree(testWorld(), 1, 1)
		for i := 1; i <= 5; i++ {
			qt.Insert(newTestObject(ID(i), 5, 5, 2, 2))
		}

		stats := qt.Stats()
		if stats.MaxDepth != 1 {
			t.Errorf("Stats() max depth = %d, expected 1", stats.MaxDepth)
		}
		if stats.ObjectCount != 5 {
			t.Errorf("Stats() object count = %d, expected 5", stats.ObjectCount)
		}
	})
}

func TestQuadTree_Query(t *testing.T) {
	qt := NewQuadTree(testWorld(), 2, 3)
	qt.Insert(newTestObject(1, 5, 5, 4, 4))
	qt.Insert(newTestObject(2, 80, 5, 4, 4))
	qt.Insert(newTestObject(3, 80, 80, 4, 4))

	t.Run("region_returns_overlapping_objects", func(t *testing.T) {
		found := qt.Query(geometry.AABB{X: 0, Y: 0, Width: 20, Height: 20})
		if len(found) != 1 || found[0].GetID() != 1 {
			t.Errorf("Query() = %v, expected only object 1", found)
		}
	})

	t.Run("empty_region", func(t *testing.T) {
		found := qt.Query(geometry.AABB{X: 40, Y: 40, Width: 5, Height: 5})
		if len(found) != 0 {
			t.Errorf("Query() = %v, expected empty", found)
		}
	})

	t.Run("outside_world", func(t *testing.T) {
		found := qt.Query(geometry.AABB{X: 500, Y: 500, Width: 10, Height: 10})
		if len(found) != 0 {
			t.Errorf("Query() = %v, expected empty outside the world", found)
		}
	})
}

func TestQuadTree_QueryPoint(t *testing.T) {
	qt := NewQuadTree(testWorld(), 4, 3)
	qt.Insert(newTestObject(1, 10, 10, 10, 10))
	qt.Insert(newTestObject(2, 50, 50, 10, 10))

	found := qt.QueryPoint(geometry.Vector2{X: 15, Y: 15})
	if len(found) != 1 || found[0].GetID() != 1 {
		t.Errorf("QueryPoint() = %v, expected only object 1", found)
	}
}

func TestQuadTree_QueryRadius(t *testing.T) {
	qt := NewQuadTree(testWorld(), 4, 3)
	qt.Insert(newTestObject(1, 5, 5, 4, 4))
	qt.Insert(newTestObject(2, 80, 80, 4, 4))

	found := qt.QueryRadius(geometry.Vector2{X: 0, Y: 0}, 15)
	if len(found) != 1 || found[0].GetID() != 1 {
		t.Errorf("QueryRadius() = %v, expected only the nearby object", found)
	}
}

func TestQuadTree_Clear(t *testing.T) {
	qt := NewQuadTree(testWorld(), 1, 3)
	qt.Insert(newTestObject(1, 5, 5, 4, 4))
	qt.Insert(newTestObject(2, 80, 80, 4, 4))
	qt.Clear()

	if qt.Len() != 0 {
		t.Errorf("Len() = %d, expected 0 after clear", qt.Len())
	}
	if qt.divided {
		t.Error("tree should collapse to a single node after clear")
	}
	if stats := qt.Stats(); stats.NodeCount != 1 {
		t.Errorf("Stats() node count = %d, expected 1 after clear", stats.NodeCount)
	}
}

func TestQuadTree_Rebuild(t *testing.T) {
	qt := NewQuadTree(testWorld(), 4, 3)
	qt.Insert(newTestObject(1, 10, 10, 5, 5))
	qt.Insert(newTestObject(2, 50, 50, 5, 5))

	// Object 1 moved; rebuilding from the fresh list replaces the old
	// placement entirely.
	rebuilt := []Object{
		newTestObject(1, 80, 80, 5, 5),
		newTestObject(2, 50, 50, 5, 5),
	}
	qt.Rebuild(rebuilt)

	if len(qt.QueryPoint(geometry.Vector2{X: 12, Y: 12})) != 0 {
		t.Error("QueryPoint() at old position should be empty after rebuild")
	}
	found := qt.QueryPoint(geometry.Vector2{X: 82, Y: 82})
	if len(found) != 1 || found[0].GetID() != 1 {
		t.Errorf("QueryPoint() = %v, expected moved object at new position", found)
	}
	if qt.Len() != 2 {
		t.Errorf("Len() = %d, expected 2", qt.Len())
	}
}

func BenchmarkQuadTree_Query(b *testing.B) {
	qt := NewQuadTree(geometry.AABB{X: 0, Y: 0, Width: 1000, Height: 1000}, 8, 5)
	for i := 0; i < 200; i++ {
		x := float64((i % 20) * 50)
		y := float64((i / 20) * 50)
		qt.Insert(newTestObject(ID(i+1), x, y, 40, 40))
	}
	area := geometry.AABB{X: 450, Y: 450, Width: 100, Height: 100}

	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		_ = qt.Query(area)
	}
}

func BenchmarkQuadTree_Rebuild(b *testing.B) {
	objects := make([]Object, 0, 200)
	for i := 0; i < 200; i++ {
		x := float64((i % 20) * 50)
		y := float64((i / 20) * 50)
		objects = append(objects, newTestObject(ID(i+1), x, y, 40, 40))
	}
	qt := NewQuadTree(geometry.AABB{X: 0, Y: 0, Width: 1000, Height: 1000}, 8, 5)

	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		qt.Rebuild(objects)
	}
}
