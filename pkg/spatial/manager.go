// pkg/spatial/manager.go
package spatial

import (
	"context"

	"github.com/opd-ai/go-hitbox/pkg/geometry"
	"github.com/opd-ai/go-hitbox/pkg/logging"
)

// PartitionManager pairs the mutable Grid with an optional read-optimized
// QuadTree and routes queries to whichever is active. The grid is always
// authoritative: every write goes through it. The tree is only written on
// Insert and RebuildQuadTree, so removals and moves leave it stale until
// the next rebuild; writes in quadtree mode log a warning, never an
// error.
type PartitionManager struct {
	grid    *Grid
	tree    *QuadTree
	useTree bool
	logger  *logging.Logger

	// staleWrites counts grid writes the tree has not replayed since the
	// last rebuild. Only meaningful when a tree is configured.
	staleWrites int64
}

// NewPartitionManager creates a manager with a grid of the given cell
// size. A non-nil world enables the quadtree, with maxObjects and
// maxDepth as its knobs. A nil logger falls back to a no-op logger.
func NewPartitionManager(cellSize float64, world *geometry.AABB, maxObjects, maxDepth int, logger *logging.Logger) *PartitionManager {
	if logger == nil {
		logger = logging.NewNopLogger()
	}
	m := &PartitionManager{
		grid:   NewGrid(cellSize),
		logger: logger,
	}
	if world != nil {
		m.tree = NewQuadTree(*world, maxObjects, maxDepth)
	}
	return m
}

// Grid returns the underlying grid.
func (m *PartitionManager) Grid() *Grid { return m.grid }

// QuadTree returns the underlying tree, nil when no world bounds were
// configured.
func (m *PartitionManager) QuadTree() *QuadTree { return m.tree }

// UsingQuadTree reports whether queries are currently served by the tree.
func (m *PartitionManager) UsingQuadTree() bool { return m.useTree }

// SetUseQuadTree routes queries to the tree when enabled is true.
// Enabling without a configured tree warns and stays on the grid.
func (m *PartitionManager) SetUseQuadTree(enabled bool) {
	if enabled && m.tree == nil {
		m.logger.Warn(context.Background(), "quadtree requested but not configured, queries stay on the grid")
		return
	}
	m.useTree = enabled
}

// Insert registers obj in the grid and, when configured, the tree.
func (m *PartitionManager) Insert(obj Object) {
	m.grid.Insert(obj)
	if m.tree != nil {
		m.tree.Insert(obj)
	}
}

// Remove deregisters the object from the grid. The tree has no removal
// path; in quadtree mode this leaves it stale until RebuildQuadTree, and
// the staleness is logged.
func (m *PartitionManager) Remove(id ID) {
	m.grid.Remove(id)
	m.warnStale("remove", id)
}

// Update re-registers obj in the grid at its current bounds, with the
// same staleness caveat as Remove.
func (m *PartitionManager) Update(obj Object) {
	m.grid.Update(obj)
	m.warnStale("update", obj.GetID())
}

func (m *PartitionManager) warnStale(op string, id ID) {
	if m.tree == nil {
		return
	}
	m.staleWrites++
	if m.useTree {
		m.logger.Warn(context.Background(), "quadtree is stale after grid write, rebuild to restore accuracy",
			"operation", op,
			"object_id", uint64(id),
		)
	}
}

// StaleWrites returns how many grid writes the tree has missed since the
// last rebuild. Zero means the tree reflects the grid.
func (m *PartitionManager) StaleWrites() int64 { return m.staleWrites }

// RebuildQuadTree rebuilds the tree from objects. Without a configured
// tree it warns and does nothing.
func (m *PartitionManager) RebuildQuadTree(objects []Object) {
	if m.tree == nil {
		m.logger.Warn(context.Background(), "quadtree rebuild requested but not configured")
		return
	}
	m.tree.Rebuild(objects)
	m.staleWrites = 0
}

// Query returns the objects whose bounds intersect bounds, served by the
// active structure. Tree results are deduplicated by ID.
func (m *PartitionManager) Query(bounds geometry.AABB) []Object {
	if m.useTree && m.tree != nil {
		return dedupeByID(m.tree.Query(bounds))
	}
	return m.grid.Query(bounds)
}

// QueryPoint returns the objects whose bounds contain p.
func (m *PartitionManager) QueryPoint(p geometry.Vector2) []Object {
	if m.useTree && m.tree != nil {
		return dedupeByID(m.tree.QueryPoint(p))
	}
	return m.grid.QueryPoint(p)
}

// QueryRadius returns objects near the circle via its bounding square.
func (m *PartitionManager) QueryRadius(center geometry.Vector2, radius float64) []Object {
	if m.useTree && m.tree != nil {
		return dedupeByID(m.tree.QueryRadius(center, radius))
	}
	return m.grid.QueryRadius(center, radius)
}

func dedupeByID(objects []Object) []Object {
	seen := make(map[ID]struct{}, len(objects))
	deduped := make([]Object, 0, len(objects))
	for _, obj := range objects {
		id := obj.GetID()
		if _, dup := seen[id]; dup {
			continue
		}
		seen[id] = struct{}{}
		deduped = append(deduped, obj)
	}
	return deduped
}

// Clear drops every object from both structures.
func (m *PartitionManager) Clear() {
	m.grid.Clear()
	if m.tree != nil {
		m.tree.Clear()
	}
	m.staleWrites = 0
}

// Len returns the number of objects in the authoritative grid.
func (m *PartitionManager) Len() int { return m.grid.Len() }

// CheckConsistency verifies the grid's internal maps agree.
func (m *PartitionManager) CheckConsistency() error {
	return m.grid.CheckConsistency()
}

// ManagerStats bundles the snapshots of both structures.
type ManagerStats struct {
	Grid          GridStats  `json:"grid"`
	Tree          *TreeStats `json:"tree,omitempty"`
	UsingQuadTree bool       `json:"using_quadtree"`
	StaleWrites   int64      `json:"stale_writes"`
}

// Stats reports both structures.
func (m *PartitionManager) Stats() ManagerStats {
	stats := ManagerStats{
		Grid:          m.grid.Stats(),
		UsingQuadTree: m.useTree,
		StaleWrites:   m.staleWrites,
	}
	if m.tree != nil {
		treeStats := m.tree.Stats()
		stats.Tree = &treeStats
	}
	return stats
}
