// pkg/render/engo/input.go
package engo

import (
	"time"

	"github.com/EngoEngine/ecs"
	"github.com/EngoEngine/engo"
	"github.com/EngoEngine/engo/common"

	"github.com/opd-ai/go-hitbox/pkg/geometry"
	"github.com/opd-ai/go-hitbox/pkg/scene"
)

// rayMaxDistance bounds sandbox ray casts so a miss terminates.
const rayMaxDistance = 100000.0

// InputSystem turns mouse and keyboard input into collision queries
// against the scene. Hovering runs point tests, dragging runs bounds
// tests, and the space bar casts a ray from the view center to the
// cursor.
type InputSystem struct {
	scene  *scene.Scene
	camera *CameraSystem

	// Cursor state
	cursorWorld geometry.Vector2
	hoverHits   []*scene.Shape

	// Drag state
	dragging   bool
	dragStart  geometry.Vector2
	dragBounds geometry.AABB
	dragHits   []*scene.Shape
	dragDone   bool

	// Ray state
	rayOrigin geometry.Vector2
	rayTarget geometry.Vector2
	rayHit    *scene.Shape
	rayCast   bool

	// Camera panning focus
	focus geometry.Vector2

	// Query timing
	lastQuery  time.Time
	queryDelay time.Duration
}

// NewInputSystem creates a new input system
func NewInputSystem(sc *scene.Scene, camera *CameraSystem) *InputSystem {
	return &InputSystem{
		scene:      sc,
		camera:     camera,
		queryDelay: time.Millisecond * 50, // Re-run the hover query every 50ms
	}
}

// Add satisfies the ecs.System interface
func (is *InputSystem) Add(basic *ecs.BasicEntity, render *common.RenderComponent, space *common.SpaceComponent) {
	// Not used for input system
}

// Remove satisfies the ecs.System interface
func (is *InputSystem) Remove(basic ecs.BasicEntity) {
	// Not used for input system
}

// Update processes input and runs the resulting queries
func (is *InputSystem) Update(dt float32) {
	is.updateCursor()
	is.handlePanInput(dt)
	is.handleIndexInput()
	is.handleMouseInput()
	is.handleRayInput()

	// Re-run the hover query if enough time has passed
	if time.Since(is.lastQuery) >= is.queryDelay {
		is.runHoverQuery()
		is.lastQuery = time.Now()
	}
}

// updateCursor converts the mouse position to world coordinates
func (is *InputSystem) updateCursor() {
	is.cursorWorld = is.camera.ScreenToWorld(geometry.Vector2{
		X: float64(engo.Input.Mouse.X),
		Y: float64(engo.Input.Mouse.Y),
	})
}

// handlePanInput moves the camera focus with the arrow keys
func (is *InputSystem) handlePanInput(dt float32) {
	panStep := 300.0 * float64(dt) / float64(is.camera.GetZoom())

	moved := false
	if engo.Input.Button("panLeft").Down() {
		is.focus.X -= panStep
		moved = true
	}
	if engo.Input.Button("panRight").Down() {
		is.focus.X += panStep
		moved = true
	}
	if engo.Input.Button("panUp").Down() {
		is.focus.Y -= panStep
		moved = true
	}
	if engo.Input.Button("panDown").Down() {
		is.focus.Y += panStep
		moved = true
	}

	if moved {
		is.camera.SetTarget(is.focus)
	}
}

// handleIndexInput toggles the backing structure and triggers rebuilds
func (is *InputSystem) handleIndexInput() {
	if engo.Input.Button("toggleIndex").JustPressed() {
		is.scene.SetUseQuadTree(!is.scene.UsingQuadTree())
	}

	if engo.Input.Button("rebuild").JustPressed() {
		is.scene.Rebuild()
	}

	if engo.Input.Button("clearSelection").JustPressed() {
		is.clearResults()
	}
}

// handleMouseInput runs bounds tests from drag rectangles
func (is *InputSystem) handleMouseInput() {
	if engo.Input.Mouse.Button != engo.MouseButtonLeft {
		return
	}

	switch engo.Input.Mouse.Action {
	case engo.Press:
		is.dragging = true
		is.dragStart = is.cursorWorld
	case engo.Release:
		if !is.dragging {
			return
		}
		is.dragging = false
		is.dragBounds = geometry.AABBFromPoints([]geometry.Vector2{is.dragStart, is.cursorWorld})
		is.dragHits = is.scene.ShapesIn(is.dragBounds)
		is.dragDone = true
	}
}

// handleRayInput casts a ray from the view center toward the cursor
func (is *InputSystem) handleRayInput() {
	if !engo.Input.Button("castRay").JustPressed() {
		return
	}

	origin := is.camera.GetCurrentPosition()
	dir := is.cursorWorld.Sub(origin)
	if dir.X == 0 && dir.Y == 0 {
		return
	}

	is.rayOrigin = origin
	is.rayCast = true
	is.rayHit = nil
	is.rayTarget = is.cursorWorld

	if hit := is.scene.CastRay(origin, dir, rayMaxDistance); hit != nil {
		is.rayTarget = hit.Point
		if shape, ok := hit.Object.(*scene.Shape); ok {
			is.rayHit = shape
		}
	}
}

// runHoverQuery point-tests the scene at the cursor
func (is *InputSystem) runHoverQuery() {
	is.hoverHits = is.scene.ShapesAt(is.cursorWorld)
}

// clearResults drops the recorded query results
func (is *InputSystem) clearResults() {
	is.hoverHits = nil
	is.dragHits = nil
	is.dragDone = false
	is.rayCast = false
	is.rayHit = nil
}

// CursorWorld returns the cursor position in world coordinates
func (is *InputSystem) CursorWorld() geometry.Vector2 {
	return is.cursorWorld
}

// HoverHits returns the shapes under the cursor, topmost first
func (is *InputSystem) HoverHits() []*scene.Shape {
	return is.hoverHits
}

// IsDragging returns whether a drag rectangle is being drawn
func (is *InputSystem) IsDragging() bool {
	return is.dragging
}

// DragBounds returns the last completed drag rectangle and whether one exists
func (is *InputSystem) DragBounds() (geometry.AABB, bool) {
	return is.dragBounds, is.dragDone
}

// DragHits returns the shapes inside the last drag rectangle
func (is *InputSystem) DragHits() []*scene.Shape {
	return is.dragHits
}

// Ray returns the last cast segment and whether one exists
func (is *InputSystem) Ray() (origin, target geometry.Vector2, ok bool) {
	return is.rayOrigin, is.rayTarget, is.rayCast
}

// RayHit returns the shape the last ray struck, or nil on a miss
func (is *InputSystem) RayHit() *scene.Shape {
	return is.rayHit
}

// SetupInputBindings sets up the key bindings for the sandbox
func SetupInputBindings() {
	// Camera panning
	engo.Input.RegisterButton("panLeft", engo.KeyA, engo.KeyArrowLeft)
	engo.Input.RegisterButton("panRight", engo.KeyD, engo.KeyArrowRight)
	engo.Input.RegisterButton("panUp", engo.KeyW, engo.KeyArrowUp)
	engo.Input.RegisterButton("panDown", engo.KeyS, engo.KeyArrowDown)

	// Query and index controls
	engo.Input.RegisterButton("castRay", engo.KeySpace)
	engo.Input.RegisterButton("toggleIndex", engo.KeyT)
	engo.Input.RegisterButton("rebuild", engo.KeyB)
	engo.Input.RegisterButton("clearSelection", engo.KeyEscape)
}
