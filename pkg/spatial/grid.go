// pkg/spatial/grid.go
package spatial

import (
	"fmt"
	"math"

	"github.com/opd-ai/go-hitbox/pkg/geometry"
)

// DefaultCellSize is used when NewGrid receives a non-positive size.
const DefaultCellSize = 100.0

// Grid is a uniform spatial hash. Objects register in every cell their
// bounds overlap; a reverse map per object makes removal proportional to
// the cells it occupies rather than the whole table.
type Grid struct {
	cellSize float64
	cells    map[CellKey]map[ID]Object
	members  map[ID]map[CellKey]struct{}
}

// NewGrid creates a grid with the given cell size. Non-positive sizes
// fall back to DefaultCellSize.
func NewGrid(cellSize float64) *Grid {
	if cellSize <= 0 {
		cellSize = DefaultCellSize
	}
	return &Grid{
		cellSize: cellSize,
		cells:    make(map[CellKey]map[ID]Object),
		members:  make(map[ID]map[CellKey]struct{}),
	}
}

// CellSize returns the configured cell size.
func (g *Grid) CellSize() float64 { return g.cellSize }

// cellRange returns the inclusive cell coordinates covered by bounds.
// Degenerate bounds cover exactly one cell.
func (g *Grid) cellRange(bounds geometry.AABB) (minX, minY, maxX, maxY int) {
	minX = int(math.Floor(bounds.MinX() / g.cellSize))
	minY = int(math.Floor(bounds.MinY() / g.cellSize))
	maxX = int(math.Floor(bounds.MaxX() / g.cellSize))
	maxY = int(math.Floor(bounds.MaxY() / g.cellSize))
	return
}

// Insert registers obj in every cell its bounds overlap. Inserting an ID
// that is already present re-registers it at its current bounds.
func (g *Grid) Insert(obj Object) {
	id := obj.GetID()
	if _, ok := g.members[id]; ok {
		g.Remove(id)
	}

	minX, minY, maxX, maxY := g.cellRange(obj.GetBounds())
	occupied := make(map[CellKey]struct{})
	for x := minX; x <= maxX; x++ {
		for y := minY; y <= maxY; y++ {
			key := CellKey{X: x, Y: y}
			cell, ok := g.cells[key]
			if !ok {
				cell = make(map[ID]Object)
				g.cells[key] = cell
			}
			cell[id] = obj
			occupied[key] = struct{}{}
		}
	}
	g.members[id] = occupied
}

// Remove deregisters the object with the given ID. Unknown IDs are a
// no-op. Cells left empty are dropped from the table.
func (g *Grid) Remove(id ID) {
	occupied, ok := g.members[id]
	if !ok {
		return
	}
	for key := range occupied {
		cell := g.cells[key]
		delete(cell, id)
		if len(cell) == 0 {
			delete(g.cells, key)
		}
	}
	delete(g.members, id)
}

// Update re-registers obj at its current bounds.
func (g *Grid) Update(obj Object) {
	g.Remove(obj.GetID())
	g.Insert(obj)
}

// Query returns every registered object whose bounds intersect bounds.
// Results are deduplicated by ID; order is unspecified.
func (g *Grid) Query(bounds geometry.AABB) []Object {
	minX, minY, maxX, maxY := g.cellRange(bounds)
	seen := make(map[ID]struct{})
	found := make([]Object, 0)
	for x := minX; x <= maxX; x++ {
		for y := minY; y <= maxY; y++ {
			for id, obj := range g.cells[CellKey{X: x, Y: y}] {
				if _, dup := seen[id]; dup {
					continue
				}
				seen[id] = struct{}{}
				if obj.GetBounds().Intersects(bounds) {
					found = append(found, obj)
				}
			}
		}
	}
	return found
}

// QueryPoint returns the objects whose bounds contain p. Only the single
// cell containing p is consulted, so no deduplication is needed.
func (g *Grid) QueryPoint(p geometry.Vector2) []Object {
	key := CellKey{
		X: int(math.Floor(p.X / g.cellSize)),
		Y: int(math.Floor(p.Y / g.cellSize)),
	}
	found := make([]Object, 0)
	for _, obj := range g.cells[key] {
		if obj.GetBounds().ContainsPoint(p) {
			found = append(found, obj)
		}
	}
	return found
}

// QueryRadius returns objects near the circle via its bounding square.
// The square over-approximates; exact refinement is the caller's job.
func (g *Grid) QueryRadius(center geometry.Vector2, radius float64) []Object {
	return g.Query(geometry.AABB{
		X:      center.X - radius,
		Y:      center.Y - radius,
		Width:  radius * 2,
		Height: radius * 2,
	})
}

// Clear drops every object while keeping the configured cell size.
func (g *Grid) Clear() {
	g.cells = make(map[CellKey]map[ID]Object)
	g.members = make(map[ID]map[CellKey]struct{})
}

// Len returns the number of registered objects.
func (g *Grid) Len() int { return len(g.members) }

// GridStats is a point-in-time snapshot of grid occupancy.
type GridStats struct {
	CellSize    float64 `json:"cell_size"`
	ObjectCount int     `json:"object_count"`
	CellCount   int     `json:"cell_count"`
	MaxPerCell  int     `json:"max_per_cell"`
	AvgPerCell  float64 `json:"avg_per_cell"`
}

// Stats reports current occupancy.
func (g *Grid) Stats() GridStats {
	stats := GridStats{
		CellSize:    g.cellSize,
		ObjectCount: len(g.members),
		CellCount:   len(g.cells),
	}
	total := 0
	for _, cell := range g.cells {
		if len(cell) > stats.MaxPerCell {
			stats.MaxPerCell = len(cell)
		}
		total += len(cell)
	}
	if len(g.cells) > 0 {
		stats.AvgPerCell = float64(total) / float64(len(g.cells))
	}
	return stats
}

// CheckConsistency verifies the forward and reverse maps agree. It backs
// the integrity checks and is not needed in normal operation.
func (g *Grid) CheckConsistency() error {
	for id, occupied := range g.members {
		for key := range occupied {
			cell, ok := g.cells[key]
			if !ok {
				return fmt.Errorf("spatial: object %d registered in missing cell (%d, %d)", id, key.X, key.Y)
			}
			if _, ok := cell[id]; !ok {
				return fmt.Errorf("spatial: object %d missing from cell (%d, %d)", id, key.X, key.Y)
			}
		}
	}
	for key, cell := range g.cells {
		if len(cell) == 0 {
			return fmt.Errorf("spatial: empty cell (%d, %d) retained", key.X, key.Y)
		}
		for id := range cell {
			occupied, ok := g.members[id]
			if !ok {
				return fmt.Errorf("spatial: cell (%d, %d) holds unregistered object %d", key.X, key.Y, id)
			}
			if _, ok := occupied[key]; !ok {
				return fmt.Errorf("spatial: cell (%d, %d) absent from reverse map of object %d", key.X, key.Y, id)
			}
		}
	}
	return nil
}
