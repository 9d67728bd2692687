// pkg/collision/detector.go
package collision

import (
	"context"
	"sort"

	"github.com/opd-ai/go-hitbox/pkg/geometry"
	"github.com/opd-ai/go-hitbox/pkg/logging"
	"github.com/opd-ai/go-hitbox/pkg/spatial"
)

// Options configure a Detector. The zero value is usable: default grid
// cell size, no quadtree, no-op logger.
type Options struct {
	// CellSize is the grid cell size; non-positive falls back to
	// spatial.DefaultCellSize.
	CellSize float64
	// WorldBounds enables the optional quadtree when non-nil.
	WorldBounds *geometry.AABB
	// MaxObjects and MaxDepth tune the quadtree; non-positive values fall
	// back to the spatial package defaults.
	MaxObjects int
	MaxDepth   int
	// UseQuadTree routes queries through the quadtree from the start.
	// Without WorldBounds it is ignored with a warning.
	UseQuadTree bool
	Logger      *logging.Logger
}

// RayHit pairs a geometric ray hit with the object that produced it.
type RayHit struct {
	Object   Object
	Point    geometry.Vector2
	Normal   geometry.Vector2
	Distance float64
}

// Detector answers hit testing queries against registered objects. It
// owns a partition manager for broad-phase pruning and refines every
// candidate through the exact geometry tests.
type Detector struct {
	manager *spatial.PartitionManager
	enabled bool
	logger  *logging.Logger
}

// NewDetector creates a detector from opts.
func NewDetector(opts Options) *Detector {
	logger := opts.Logger
	if logger == nil {
		logger = logging.NewNopLogger()
	}

	d := &Detector{
		manager: spatial.NewPartitionManager(opts.CellSize, opts.WorldBounds, opts.MaxObjects, opts.MaxDepth, logger),
		enabled: true,
		logger:  logger,
	}
	if opts.UseQuadTree {
		d.manager.SetUseQuadTree(true)
	}

	d.logger.Debug(context.Background(), "collision detector initialized",
		"cell_size", opts.CellSize,
		"quadtree", d.manager.QuadTree() != nil,
	)
	return d
}

// Enabled reports whether queries are live.
func (d *Detector) Enabled() bool { return d.enabled }

// SetEnabled toggles the whole detector. While disabled every query
// returns its empty result without touching the index; registration
// still works so the index stays current for re-enabling.
func (d *Detector) SetEnabled(enabled bool) {
	if d.enabled != enabled {
		d.logger.Info(context.Background(), "collision detector toggled", "enabled", enabled)
	}
	d.enabled = enabled
}

// Manager exposes the underlying partition manager for stats and
// integrity checks.
func (d *Detector) Manager() *spatial.PartitionManager { return d.manager }

// AddObject registers obj with the spatial index.
func (d *Detector) AddObject(obj Object) { d.manager.Insert(obj) }

// RemoveObject deregisters obj. Unknown objects are a no-op.
func (d *Detector) RemoveObject(obj Object) { d.manager.Remove(obj.GetID()) }

// UpdateObject re-registers obj after its geometry changed.
func (d *Detector) UpdateObject(obj Object) { d.manager.Update(obj) }

// Clear drops every registered object.
func (d *Detector) Clear() { d.manager.Clear() }

// Len returns the number of registered objects.
func (d *Detector) Len() int { return d.manager.Len() }

// SetUseQuadTree toggles quadtree-backed queries on the underlying
// manager.
func (d *Detector) SetUseQuadTree(enabled bool) { d.manager.SetUseQuadTree(enabled) }

// Rebuild replaces the entire index contents in one pass. Insert
// dual-writes grid and quadtree, so after Rebuild both structures are
// accurate.
func (d *Detector) Rebuild(objects []Object) {
	d.manager.Clear()
	for _, obj := range objects {
		d.manager.Insert(obj)
	}
}

// Stats reports the underlying index snapshots.
func (d *Detector) Stats() spatial.ManagerStats { return d.manager.Stats() }

// PointTest returns the topmost visible, enabled object whose exact
// geometry contains p, or nil when nothing does. Candidates come from
// the index unless an explicit list is supplied.
func (d *Detector) PointTest(p geometry.Vector2, candidates ...[]Object) Object {
	if !d.enabled {
		return nil
	}
	for _, obj := range d.pointCandidates(p, candidates) {
		if obj.GetGeometry().ContainsPoint(p) {
			return obj
		}
	}
	return nil
}

// PointTestAll returns every visible, enabled object whose exact
// geometry contains p, topmost first.
func (d *Detector) PointTestAll(p geometry.Vector2, candidates ...[]Object) []Object {
	if !d.enabled {
		return nil
	}
	matches := make([]Object, 0)
	for _, obj := range d.pointCandidates(p, candidates) {
		if obj.GetGeometry().ContainsPoint(p) {
			matches = append(matches, obj)
		}
	}
	return matches
}

// pointCandidates returns the visible, enabled candidates for p sorted
// topmost first. The sort is stable, so explicit candidate lists keep
// their relative order on zIndex ties.
func (d *Detector) pointCandidates(p geometry.Vector2, candidates [][]Object) []Object {
	list := d.candidatesFor(candidates, func() []spatial.Object {
		return d.manager.QueryPoint(p)
	})
	active := make([]Object, 0, len(list))
	for _, obj := range list {
		if obj.IsVisible() && obj.IsEnabled() {
			active = append(active, obj)
		}
	}
	sort.SliceStable(active, func(i, j int) bool {
		return active[i].GetZIndex() > active[j].GetZIndex()
	})
	return active
}

// BoundsTest returns the visible, enabled objects whose bounding boxes
// intersect bounds. The test stops at AABB level: it answers "what is
// near this region" and never consults exact shapes.
func (d *Detector) BoundsTest(bounds geometry.AABB, candidates ...[]Object) []Object {
	if !d.enabled {
		return nil
	}
	list := d.candidatesFor(candidates, func() []spatial.Object {
		return d.manager.Query(bounds)
	})
	matches := make([]Object, 0, len(list))
	for _, obj := range list {
		if !obj.IsVisible() || !obj.IsEnabled() {
			continue
		}
		if obj.GetBounds().Intersects(bounds) {
			matches = append(matches, obj)
		}
	}
	return matches
}

// CircleTest returns the visible, enabled objects whose exact geometry
// collides with the probe circle. The index over-fetches by bounding
// square; every candidate is refined through the exact shape tests.
func (d *Detector) CircleTest(center geometry.Vector2, radius float64, candidates ...[]Object) []Object {
	if !d.enabled {
		return nil
	}
	probe := geometry.NewCircle(center, radius)
	list := d.candidatesFor(candidates, func() []spatial.Object {
		return d.manager.QueryRadius(center, radius)
	})
	matches := make([]Object, 0, len(list))
	for _, obj := range list {
		if !obj.IsVisible() || !obj.IsEnabled() {
			continue
		}
		if geometry.Collide(probe, obj.GetGeometry()).Collided {
			matches = append(matches, obj)
		}
	}
	return matches
}

// Raycast returns the nearest hit along the ray, or nil when nothing is
// struck. dir is normalized before use, so maxDistance is in world units
// whatever the input's length; a zero direction hits nothing.
func (d *Detector) Raycast(origin, dir geometry.Vector2, maxDistance float64, candidates ...[]Object) *RayHit {
	hits := d.raycastHits(origin, dir, maxDistance, candidates)
	if len(hits) == 0 {
		return nil
	}
	return &hits[0]
}

// RaycastAll returns every hit along the ray, nearest first.
func (d *Detector) RaycastAll(origin, dir geometry.Vector2, maxDistance float64, candidates ...[]Object) []RayHit {
	return d.raycastHits(origin, dir, maxDistance, candidates)
}

func (d *Detector) raycastHits(origin, dir geometry.Vector2, maxDistance float64, candidates [][]Object) []RayHit {
	if !d.enabled {
		return nil
	}
	direction := dir.Normalize()
	if direction.X == 0 && direction.Y == 0 {
		return nil
	}

	list := d.candidatesFor(candidates, func() []spatial.Object {
		return d.manager.Query(rayBounds(origin, direction, maxDistance))
	})

	hits := make([]RayHit, 0)
	for _, obj := range list {
		if !obj.IsVisible() || !obj.IsEnabled() {
			continue
		}
		// Cheap box test first; the exact shape test only runs for
		// candidates whose bounds the ray can reach.
		if !geometry.RaycastAABB(origin, direction, maxDistance, obj.GetBounds()).Hit {
			continue
		}
		hit := geometry.RaycastGeometry(origin, direction, maxDistance, obj.GetGeometry())
		if !hit.Hit {
			continue
		}
		hits = append(hits, RayHit{
			Object:   obj,
			Point:    hit.Point,
			Normal:   hit.Normal,
			Distance: hit.Distance,
		})
	}
	sort.Slice(hits, func(i, j int) bool { return hits[i].Distance < hits[j].Distance })
	return hits
}

// rayBounds is the conservative box around the swept segment, used to
// prune candidates via the index.
func rayBounds(origin, direction geometry.Vector2, maxDistance float64) geometry.AABB {
	end := origin.Add(direction.Scale(maxDistance))
	return geometry.AABBFromPoints([]geometry.Vector2{origin, end})
}

// GeometryCollision resolves two raw geometries through the exact
// pairwise tests. While the detector is disabled it returns the zero
// result, consistent with every other query.
func (d *Detector) GeometryCollision(a, b geometry.Geometry) geometry.CollisionResult {
	if !d.enabled {
		return geometry.CollisionResult{}
	}
	return geometry.Collide(a, b)
}

// candidatesFor resolves the optional explicit candidate override. At
// most one list is honored; absent or nil means "consult the index".
func (d *Detector) candidatesFor(explicit [][]Object, query func() []spatial.Object) []Object {
	if len(explicit) > 0 && explicit[0] != nil {
		return explicit[0]
	}
	return asObjects(query())
}

// asObjects narrows index results to the full collision contract.
// Objects registered through the detector always satisfy it; anything
// else is skipped.
func asObjects(found []spatial.Object) []Object {
	objects := make([]Object, 0, len(found))
	for _, f := range found {
		if obj, ok := f.(Object); ok {
			objects = append(objects, obj)
		}
	}
	return objects
}
