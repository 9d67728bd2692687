// pkg/spatial/quadtree.go
package spatial

import "github.com/opd-ai/go-hitbox/pkg/geometry"

// Defaults for NewQuadTree when a knob is non-positive.
const (
	DefaultMaxObjects = 10
	DefaultMaxDepth   = 5
)

// QuadTree is a fixed-bounds spatial tree for static snapshots of a
// scene. A node splits into four equal quadrants when it overflows
// maxObjects, down to maxDepth; an object straddling a quadrant boundary
// registers in every child it overlaps, so query results may contain
// duplicates.
//
// There is deliberately no Remove or Update: objects keep their
// insert-time placement while queries filter against live bounds, so an
// object moved across quadrants drops out of regional query results
// until Rebuild. PartitionManager pairs the tree with a Grid that
// handles the mutable path.
type QuadTree struct {
	bounds     geometry.AABB
	depth      int
	maxObjects int
	maxDepth   int

	objects []Object
	divided bool

	northWest *QuadTree
	northEast *QuadTree
	southWest *QuadTree
	southEast *QuadTree
}

// NewQuadTree creates a quadtree covering world. Non-positive knobs fall
// back to DefaultMaxObjects and DefaultMaxDepth.
func NewQuadTree(world geometry.AABB, maxObjects, maxDepth int) *QuadTree {
	if maxObjects <= 0 {
		maxObjects = DefaultMaxObjects
	}
	if maxDepth <= 0 {
		maxDepth = DefaultMaxDepth
	}
	return newQuadTreeNode(world, 0, maxObjects, maxDepth)
}

func newQuadTreeNode(bounds geometry.AABB, depth, maxObjects, maxDepth int) *QuadTree {
	return &QuadTree{
		bounds:     bounds,
		depth:      depth,
		maxObjects: maxObjects,
		maxDepth:   maxDepth,
		objects:    make([]Object, 0, maxObjects),
	}
}

// Bounds returns the world bounds this tree covers.
func (qt *QuadTree) Bounds() geometry.AABB { return qt.bounds }

// Insert adds obj to every leaf it overlaps. It returns false when the
// object's bounds miss the tree bounds entirely; such objects are not
// indexed and callers fall back to the grid for them.
func (qt *QuadTree) Insert(obj Object) bool {
	bounds := obj.GetBounds()
	if !qt.bounds.Intersects(bounds) {
		return false
	}
	qt.insert(obj, bounds)
	return true
}

func (qt *QuadTree) insert(obj Object, bounds geometry.AABB) {
	if qt.divided {
		qt.insertIntoChildren(obj, bounds)
		return
	}

	qt.objects = append(qt.objects, obj)
	if len(qt.objects) > qt.maxObjects && qt.depth < qt.maxDepth {
		qt.subdivide()
	}
}

func (qt *QuadTree) insertIntoChildren(obj Object, bounds geometry.AABB) {
	for _, child := range qt.children() {
		if child.bounds.Intersects(bounds) {
			child.insert(obj, bounds)
		}
	}
}

// subdivide splits the node into four quadrants and pushes its objects
// down into every child they overlap. Y grows downward in canvas
// coordinates, so the north pair sits at the smaller Y.
func (qt *QuadTree) subdivide() {
	x := qt.bounds.X
	y := qt.bounds.Y
	w := qt.bounds.Width / 2
	h := qt.bounds.Height / 2
	next := qt.depth + 1

	qt.northWest = newQuadTreeNode(geometry.AABB{X: x, Y: y, Width: w, Height: h}, next, qt.maxObjects, qt.maxDepth)
	qt.northEast = newQuadTreeNode(geometry.AABB{X: x + w, Y: y, Width: w, Height: h}, next, qt.maxObjects, qt.maxDepth)
	qt.southWest = newQuadTreeNode(geometry.AABB{X: x, Y: y + h, Width: w, Height: h}, next, qt.maxObjects, qt.maxDepth)
	qt.southEast = newQuadTreeNode(geometry.AABB{X: x + w, Y: y + h, Width: w, Height: h}, next, qt.maxObjects, qt.maxDepth)
	qt.divided = true

	objects := qt.objects
	qt.objects = nil
	for _, obj := range objects {
		qt.insertIntoChildren(obj, obj.GetBounds())
	}
}

func (qt *QuadTree) children() [4]*QuadTree {
	return [4]*QuadTree{qt.northWest, qt.northEast, qt.southWest, qt.southEast}
}

// Query returns every stored object whose bounds intersect area. Objects
// spanning multiple quadrants appear once per overlapped leaf; callers
// needing set semantics deduplicate by ID.
func (qt *QuadTree) Query(area geometry.AABB) []Object {
	found := make([]Object, 0)
	return qt.query(area, found)
}

func (qt *QuadTree) query(area geometry.AABB, found []Object) []Object {
	if !qt.bounds.Intersects(area) {
		return found
	}

	for _, obj := range qt.objects {
		if obj.GetBounds().Intersects(area) {
			found = append(found, obj)
		}
	}
	if !qt.divided {
		return found
	}

	found = qt.northWest.query(area, found)
	found = qt.northEast.query(area, found)
	found = qt.southWest.query(area, found)
	found = qt.southEast.query(area, found)
	return found
}

// QueryPoint returns the objects whose bounds contain p.
func (qt *QuadTree) QueryPoint(p geometry.Vector2) []Object {
	return qt.Query(geometry.AABB{X: p.X, Y: p.Y})
}

// QueryRadius returns objects near the circle via its bounding square.
func (qt *QuadTree) QueryRadius(center geometry.Vector2, radius float64) []Object {
	return qt.Query(geometry.AABB{
		X:      center.X - radius,
		Y:      center.Y - radius,
		Width:  radius * 2,
		Height: radius * 2,
	})
}

// Clear drops every object and collapses the tree to a single node.
func (qt *QuadTree) Clear() {
	qt.objects = qt.objects[:0]
	qt.divided = false
	qt.northWest = nil
	qt.northEast = nil
	qt.southWest = nil
	qt.southEast = nil
}

// Rebuild clears the tree and reinserts objects in one pass.
func (qt *QuadTree) Rebuild(objects []Object) {
	qt.Clear()
	for _, obj := range objects {
		qt.Insert(obj)
	}
}

// Len returns the number of distinct objects stored.
func (qt *QuadTree) Len() int {
	seen := make(map[ID]struct{})
	qt.countInto(seen)
	return len(seen)
}

func (qt *QuadTree) countInto(seen map[ID]struct{}) {
	for _, obj := range qt.objects {
		seen[obj.GetID()] = struct{}{}
	}
	if !qt.divided {
		return
	}
	qt.northWest.countInto(seen)
	qt.northEast.countInto(seen)
	qt.southWest.countInto(seen)
	qt.southEast.countInto(seen)
}

// TreeStats is a point-in-time snapshot of tree shape. StoredCount
// exceeds ObjectCount when objects straddle quadrant boundaries.
type TreeStats struct {
	ObjectCount int `json:"object_count"`
	StoredCount int `json:"stored_count"`
	NodeCount   int `json:"node_count"`
	LeafCount   int `json:"leaf_count"`
	MaxDepth    int `json:"max_depth"`
}

// Stats reports the current tree shape.
func (qt *QuadTree) Stats() TreeStats {
	seen := make(map[ID]struct{})
	var stats TreeStats
	qt.collectStats(seen, &stats)
	stats.ObjectCount = len(seen)
	return stats
}

func (qt *QuadTree) collectStats(seen map[ID]struct{}, stats *TreeStats) {
	stats.NodeCount++
	if qt.depth > stats.MaxDepth {
		stats.MaxDepth = qt.depth
	}
	stats.StoredCount += len(qt.objects)
	for _, obj := range qt.objects {
		seen[obj.GetID()] = struct{}{}
	}
	if !qt.divided {
		stats.LeafCount++
		return
	}
	qt.northWest.collectStats(seen, stats)
	qt.northEast.collectStats(seen, stats)
	qt.southWest.collectStats(seen, stats)
	qt.southEast.collectStats(seen, stats)
}
