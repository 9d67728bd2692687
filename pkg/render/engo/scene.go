// pkg/render/engo/scene.go
package engo

import (
	"fmt"

	"github.com/EngoEngine/ecs"
	"github.com/EngoEngine/engo"
	"github.com/EngoEngine/engo/common"

	"github.com/opd-ai/go-hitbox/pkg/event"
	"github.com/opd-ai/go-hitbox/pkg/scene"
)

// SandboxScene is the interactive Engo scene for exploring a collision
// scene: hovering runs point tests, dragging runs bounds tests, and the
// HUD shows index stats and scene events.
type SandboxScene struct {
	world *ecs.World

	// The collision scene driving everything
	hitbox *scene.Scene
	bus    *event.Bus

	// Rendering components
	renderer *EngoRenderer
	camera   *CameraSystem
	input    *InputSystem
	hud      *HUDSystem

	// Event subscriptions, cancelled on Exit
	subs []*event.Subscription
}

// NewSandboxScene creates a new sandbox scene around a collision scene
func NewSandboxScene(hitbox *scene.Scene) *SandboxScene {
	return &SandboxScene{
		hitbox: hitbox,
		bus:    hitbox.Events(),
		world:  &ecs.World{},
	}
}

// Type returns the scene type (required by Engo)
func (s *SandboxScene) Type() string {
	return "SandboxScene"
}

// Preload is called before the scene starts (required by Engo)
func (s *SandboxScene) Preload() {
	// Sprites are generated in Setup, nothing to preload from disk
}

// Setup is called when the scene starts (required by Engo)
func (s *SandboxScene) Setup(u engo.Updater) {
	s.world = &ecs.World{}

	s.world.AddSystem(&common.MouseSystem{})

	// Key bindings
	SetupCameraControls()
	SetupInputBindings()

	// Initialize camera before the renderer, which positions through it
	s.camera = NewCameraSystem()
	s.world.AddSystem(s.camera)

	// Initialize renderer
	s.renderer = NewEngoRenderer(s.world, s.camera)
	if err := s.renderer.Initialize(); err != nil {
		panic("Failed to initialize renderer: " + err.Error())
	}

	// Initialize input system
	s.input = NewInputSystem(s.hitbox, s.camera)
	s.world.AddSystem(s.input)

	// Initialize HUD system
	s.hud = NewHUDSystem(s.hitbox, s.input)
	s.world.AddSystem(s.hud)

	// The frame system runs last, after input has updated the queries
	s.world.AddSystem(&frameSystem{sandbox: s})

	// Mirror scene events into the HUD log
	s.subscribeToEvents()
}

// subscribeToEvents mirrors scene lifecycle events into the HUD log
func (s *SandboxScene) subscribeToEvents() {
	s.subs = append(s.subs,
		s.bus.Subscribe(event.ShapeAdded, func(e event.Event) {
			if se, ok := e.(*event.ShapeEvent); ok {
				s.hud.AddLogLine("scene", fmt.Sprintf("added %s (#%d)", se.Label, se.ShapeID))
			}
		}),
		s.bus.Subscribe(event.ShapeRemoved, func(e event.Event) {
			if se, ok := e.(*event.ShapeEvent); ok {
				s.hud.AddLogLine("scene", fmt.Sprintf("removed %s (#%d)", se.Label, se.ShapeID))
			}
		}),
		s.bus.Subscribe(event.IndexRebuilt, func(e event.Event) {
			if re, ok := e.(*event.RebuildEvent); ok {
				s.hud.AddLogLine("index", fmt.Sprintf("rebuilt with %d shapes", re.ShapeCount))
			}
		}),
		s.bus.Subscribe(event.OverlapDetected, func(e event.Event) {
			if oe, ok := e.(*event.OverlapEvent); ok {
				s.hud.AddLogLine("overlap", fmt.Sprintf("#%d and #%d (depth %.2f)", oe.ShapeA, oe.ShapeB, oe.Depth))
			}
		}),
	)
}

// renderFrame syncs the renderer with the scene and the latest queries
func (s *SandboxScene) renderFrame() {
	s.renderer.Clear()

	// Retained shapes
	for _, shape := range s.hitbox.Shapes() {
		s.renderer.RenderShape(shape)
	}

	// Hover probe marker
	s.renderer.RenderMarker(s.input.CursorWorld(), len(s.input.HoverHits()) > 0)

	// Last cast ray
	if origin, target, ok := s.input.Ray(); ok {
		s.renderer.RenderRay(origin, target)
		s.renderer.RenderMarker(target, s.input.RayHit() != nil)
	}

	s.renderer.Present()
}

// frameSystem drives renderFrame once per tick
type frameSystem struct {
	sandbox *SandboxScene
}

// Add satisfies the ecs.System interface
func (fs *frameSystem) Add(basic *ecs.BasicEntity, render *common.RenderComponent, space *common.SpaceComponent) {
	// Not used for frame system
}

// Remove satisfies the ecs.System interface
func (fs *frameSystem) Remove(basic ecs.BasicEntity) {
	// Not used for frame system
}

// Update renders the current frame
func (fs *frameSystem) Update(dt float32) {
	fs.sandbox.renderFrame()
}

// Exit is called when the scene is exiting (required by Engo)
func (s *SandboxScene) Exit() {
	for _, sub := range s.subs {
		sub.Cancel()
	}
	s.subs = nil
}
