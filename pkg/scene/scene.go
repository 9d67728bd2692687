// pkg/scene/scene.go
package scene

import (
	"context"
	"fmt"
	"sort"
	"strconv"
	"sync"
	"time"

	"github.com/opd-ai/go-hitbox/pkg/collision"
	"github.com/opd-ai/go-hitbox/pkg/config"
	"github.com/opd-ai/go-hitbox/pkg/event"
	"github.com/opd-ai/go-hitbox/pkg/geometry"
	"github.com/opd-ai/go-hitbox/pkg/logging"
	"github.com/opd-ai/go-hitbox/pkg/spatial"
	"github.com/opd-ai/go-hitbox/pkg/validation"
)

// Scene owns shapes and serializes every core access behind its RWMutex:
// queries run under RLock, mutations under Lock. Events are published
// after the lock is released so handlers may call back into the scene.
type Scene struct {
	shapes   map[spatial.ID]*Shape
	detector *collision.Detector
	events   *event.Bus
	limiter  *validation.RateLimiter
	cfg      config.SceneConfig
	logger   *logging.Logger
	mu       sync.RWMutex
}

// Overlap reports one colliding pair with its exact collision result.
type Overlap struct {
	A      *Shape
	B      *Shape
	Result geometry.CollisionResult
}

// NewScene creates a scene and its detector from the configuration.
// A nil config or logger falls back to defaults.
func NewScene(cfg *config.HitboxConfig, logger *logging.Logger) *Scene {
	if cfg == nil {
		cfg = config.DefaultConfig()
	}
	if logger == nil {
		logger = logging.NewLogger()
	}

	s := &Scene{
		shapes: make(map[spatial.ID]*Shape),
		detector: collision.NewDetector(collision.Options{
			CellSize:    cfg.Grid.CellSize,
			WorldBounds: cfg.WorldBounds(),
			MaxObjects:  cfg.QuadTree.MaxObjects,
			MaxDepth:    cfg.QuadTree.MaxDepth,
			UseQuadTree: cfg.QuadTree.Enabled,
			Logger:      logger,
		}),
		events: event.NewEventBus(),
		cfg:    cfg.Scene,
		logger: logger,
	}

	if cfg.Scene.PublishMoveEvents && cfg.Scene.MoveEventIntervalMS > 0 {
		window := time.Duration(cfg.Scene.MoveEventIntervalMS) * time.Millisecond
		s.limiter = validation.NewRateLimiter(1, window)
	}

	return s
}

// Events returns the scene's event bus for subscriptions.
func (s *Scene) Events() *event.Bus {
	return s.events
}

// Detector exposes the underlying detector for integrity checks and
// advanced callers. Mutations through it bypass scene events.
func (s *Scene) Detector() *collision.Detector {
	return s.detector
}

// Close releases scene resources. The scene must not be used after.
func (s *Scene) Close() {
	if s.limiter != nil {
		s.limiter.Close()
	}
}

// AddShape validates the label, registers a new shape with the index,
// and publishes ShapeAdded. It fails when the scene is at capacity or
// the label does not survive validation.
func (s *Scene) AddShape(label string, g geometry.Geometry) (*Shape, error) {
	if g == nil {
		return nil, fmt.Errorf("shape geometry cannot be nil")
	}
	clean, err := validation.ValidateLabel(label)
	if err != nil {
		return nil, fmt.Errorf("invalid shape label: %w", err)
	}

	s.mu.Lock()
	if s.cfg.MaxShapes > 0 && len(s.shapes) >= s.cfg.MaxShapes {
		count := len(s.shapes)
		s.mu.Unlock()
		s.logger.Warn(context.Background(), "scene is at capacity, rejecting shape",
			"count", count,
			"max_shapes", s.cfg.MaxShapes,
		)
		return nil, fmt.Errorf("scene is full: %d shapes", count)
	}

	shape := NewShape(GenerateID(), clean, g)
	s.shapes[shape.ID] = shape
	s.detector.AddObject(shape)
	s.mu.Unlock()

	s.events.Publish(event.NewShapeEvent(event.ShapeAdded, s, uint64(shape.ID), shape.Label))
	return shape, nil
}

// RemoveShape deregisters the shape and publishes ShapeRemoved.
// Removing an unknown ID returns false.
func (s *Scene) RemoveShape(id spatial.ID) bool {
	s.mu.Lock()
	shape, ok := s.shapes[id]
	if !ok {
		s.mu.Unlock()
		return false
	}
	s.detector.RemoveObject(shape)
	delete(s.shapes, id)
	s.mu.Unlock()

	s.events.Publish(event.NewShapeEvent(event.ShapeRemoved, s, uint64(id), shape.Label))
	return true
}

// GetShape returns the shape with the given ID.
func (s *Scene) GetShape(id spatial.ID) (*Shape, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	shape, ok := s.shapes[id]
	return shape, ok
}

// ShapeCount returns the number of registered shapes.
func (s *Scene) ShapeCount() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.shapes)
}

// Shapes returns a snapshot of all shapes ordered by ID.
func (s *Scene) Shapes() []*Shape {
	s.mu.RLock()
	out := make([]*Shape, 0, len(s.shapes))
	for _, shape := range s.shapes {
		out = append(out, shape)
	}
	s.mu.RUnlock()

	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out
}

// MoveShape recreates the shape's geometry centered at position and
// re-registers it with the index. ShapeMoved publication is throttled
// per shape by the configured interval.
func (s *Scene) MoveShape(id spatial.ID, position geometry.Vector2) error {
	if err := validation.ValidateVector(position); err != nil {
		return fmt.Errorf("invalid position: %w", err)
	}

	s.mu.Lock()
	shape, ok := s.shapes[id]
	if !ok {
		s.mu.Unlock()
		return fmt.Errorf("no shape with ID %d", id)
	}
	if err := shape.MoveTo(position); err != nil {
		s.mu.Unlock()
		return err
	}
	s.detector.UpdateObject(shape)
	s.mu.Unlock()

	if s.allowMoveEvent(id) {
		s.events.Publish(event.NewShapeEvent(event.ShapeMoved, s, uint64(id), shape.Label))
	}
	return nil
}

// allowMoveEvent applies per-shape throttling to move event publication.
func (s *Scene) allowMoveEvent(id spatial.ID) bool {
	if !s.cfg.PublishMoveEvents {
		return false
	}
	if s.limiter == nil {
		return true
	}
	return s.limiter.Allow(strconv.FormatUint(uint64(id), 10))
}

// ResizeShape swaps in replacement geometry and re-registers the shape
// with the index. Geometry values are immutable, so any size change
// arrives as a new geometry.
func (s *Scene) ResizeShape(id spatial.ID, g geometry.Geometry) error {
	if g == nil {
		return fmt.Errorf("shape geometry cannot be nil")
	}

	s.mu.Lock()
	shape, ok := s.shapes[id]
	if !ok {
		s.mu.Unlock()
		return fmt.Errorf("no shape with ID %d", id)
	}
	shape.Geometry = g
	s.detector.UpdateObject(shape)
	s.mu.Unlock()

	s.events.Publish(event.NewShapeEvent(event.ShapeResized, s, uint64(id), shape.Label))
	return nil
}

// SetShapeVisible toggles query participation for the shape. Index
// membership is kept; the detector filters at query time.
func (s *Scene) SetShapeVisible(id spatial.ID, visible bool) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	shape, ok := s.shapes[id]
	if !ok {
		return fmt.Errorf("no shape with ID %d", id)
	}
	shape.Visible = visible
	return nil
}

// SetShapeEnabled toggles hit acceptance for the shape.
func (s *Scene) SetShapeEnabled(id spatial.ID, enabled bool) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	shape, ok := s.shapes[id]
	if !ok {
		return fmt.Errorf("no shape with ID %d", id)
	}
	shape.Enabled = enabled
	return nil
}

// SetShapeZIndex changes the shape's stacking order.
func (s *Scene) SetShapeZIndex(id spatial.ID, zIndex int) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	shape, ok := s.shapes[id]
	if !ok {
		return fmt.Errorf("no shape with ID %d", id)
	}
	shape.ZIndex = zIndex
	return nil
}

// Clear removes every shape, resets the index, and publishes
// SceneCleared.
func (s *Scene) Clear() {
	s.mu.Lock()
	s.detector.Clear()
	s.shapes = make(map[spatial.ID]*Shape)
	s.mu.Unlock()

	s.events.Publish(&event.BaseEvent{EventType: event.SceneCleared, Source: s})
}

// Rebuild reinserts every shape into the index, restoring quadtree
// accuracy after incremental writes left it stale.
func (s *Scene) Rebuild() {
	s.mu.Lock()
	objects := make([]collision.Object, 0, len(s.shapes))
	for _, shape := range s.shapes {
		objects = append(objects, shape)
	}
	s.detector.Rebuild(objects)
	count := len(objects)
	s.mu.Unlock()

	s.events.Publish(event.NewRebuildEvent(s, count))
}

// SetUseQuadTree switches which index answers queries.
func (s *Scene) SetUseQuadTree(enabled bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.detector.SetUseQuadTree(enabled)
}

// UsingQuadTree reports whether the quadtree answers queries.
func (s *Scene) UsingQuadTree() bool {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.detector.Manager().UsingQuadTree()
}

// StaleWrites returns the number of grid writes the quadtree has not
// replayed since the last rebuild.
func (s *Scene) StaleWrites() int64 {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.detector.Manager().StaleWrites()
}

// Stats returns index statistics for diagnostics.
func (s *Scene) Stats() spatial.ManagerStats {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.detector.Stats()
}

// CheckConsistency verifies the spatial index bookkeeping under the
// read lock. A healthy scene returns nil.
func (s *Scene) CheckConsistency() error {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.detector.Manager().CheckConsistency()
}

// ShapeAt returns the top-most shape containing the point, or nil.
func (s *Scene) ShapeAt(p geometry.Vector2) *Shape {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return asShape(s.detector.PointTest(p))
}

// ShapesAt returns every shape containing the point, top-most first.
func (s *Scene) ShapesAt(p geometry.Vector2) []*Shape {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return asShapes(s.detector.PointTestAll(p))
}

// ShapesIn returns shapes whose bounds intersect the region.
func (s *Scene) ShapesIn(bounds geometry.AABB) []*Shape {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return asShapes(s.detector.BoundsTest(bounds))
}

// ShapesNear returns shapes whose geometry intersects the circle.
func (s *Scene) ShapesNear(center geometry.Vector2, radius float64) []*Shape {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return asShapes(s.detector.CircleTest(center, radius))
}

// CastRay returns the nearest ray hit, or nil when nothing is hit.
func (s *Scene) CastRay(origin, dir geometry.Vector2, maxDistance float64) *collision.RayHit {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.detector.Raycast(origin, dir, maxDistance)
}

// CastRayAll returns every ray hit ordered by ascending distance.
func (s *Scene) CastRayAll(origin, dir geometry.Vector2, maxDistance float64) []collision.RayHit {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.detector.RaycastAll(origin, dir, maxDistance)
}

// Overlaps reports every colliding pair among visible, enabled shapes,
// each pair once ordered by IDs. One OverlapDetected event is published
// per pair.
func (s *Scene) Overlaps() []Overlap {
	s.mu.RLock()
	var overlaps []Overlap
	for _, shape := range s.shapes {
		if !shape.Visible || !shape.Enabled {
			continue
		}
		for _, other := range asShapes(s.detector.BoundsTest(shape.GetBounds())) {
			if other.ID <= shape.ID {
				continue
			}
			result := geometry.Collide(shape.Geometry, other.Geometry)
			if result.Collided {
				overlaps = append(overlaps, Overlap{A: shape, B: other, Result: result})
			}
		}
	}
	s.mu.RUnlock()

	sort.Slice(overlaps, func(i, j int) bool {
		if overlaps[i].A.ID != overlaps[j].A.ID {
			return overlaps[i].A.ID < overlaps[j].A.ID
		}
		return overlaps[i].B.ID < overlaps[j].B.ID
	})

	for _, o := range overlaps {
		s.events.Publish(event.NewOverlapEvent(s, uint64(o.A.ID), uint64(o.B.ID), o.Result.Penetration))
	}
	return overlaps
}

func asShape(obj collision.Object) *Shape {
	if obj == nil {
		return nil
	}
	shape, _ := obj.(*Shape)
	return shape
}

func asShapes(objects []collision.Object) []*Shape {
	shapes := make([]*Shape, 0, len(objects))
	for _, obj := range objects {
		if shape, ok := obj.(*Shape); ok {
			shapes = append(shapes, shape)
		}
	}
	return shapes
}
