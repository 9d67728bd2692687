// pkg/render/engo/renderer.go
package engo

import (
	"image/color"
	"math"

	"github.com/EngoEngine/ecs"
	"github.com/EngoEngine/engo"
	"github.com/EngoEngine/engo/common"

	"github.com/opd-ai/go-hitbox/pkg/geometry"
	"github.com/opd-ai/go-hitbox/pkg/scene"
	"github.com/opd-ai/go-hitbox/pkg/spatial"
)

// shapeEntity ties an ecs entity to the components registered with the
// render system, so per-frame updates write through the same pointers
// the system draws from.
type shapeEntity struct {
	basic  ecs.BasicEntity
	render *common.RenderComponent
	space  *common.SpaceComponent
}

// EngoRenderer implements scene.Renderer on top of the Engo engine.
// Shapes are retained as ecs entities keyed by shape ID; query markers
// and ray segments are transient and recreated every frame.
type EngoRenderer struct {
	world        *ecs.World
	renderSystem *common.RenderSystem
	camera       *CameraSystem

	// Retained shape entities
	shapeEntities map[spatial.ID]*shapeEntity

	// Shapes seen since the last Clear; Present removes the rest
	seen map[spatial.ID]bool

	// Transient overlay entities, rebuilt each frame
	overlays []*shapeEntity

	// Asset management
	assets *AssetManager
}

// NewEngoRenderer creates a new Engo-based renderer
func NewEngoRenderer(world *ecs.World, camera *CameraSystem) *EngoRenderer {
	return &EngoRenderer{
		world:         world,
		camera:        camera,
		shapeEntities: make(map[spatial.ID]*shapeEntity),
		seen:          make(map[spatial.ID]bool),
		assets:        NewAssetManager(),
	}
}

// Initialize sets up the render system and generates the sprites
func (r *EngoRenderer) Initialize() error {
	r.renderSystem = &common.RenderSystem{}
	r.world.AddSystem(r.renderSystem)

	return r.assets.LoadAssets()
}

// Clear implements scene.Renderer. It starts a new frame: transient
// overlays are removed and the seen set resets.
func (r *EngoRenderer) Clear() {
	for _, overlay := range r.overlays {
		r.renderSystem.Remove(overlay.basic)
	}
	r.overlays = r.overlays[:0]

	r.seen = make(map[spatial.ID]bool)
}

// Present implements scene.Renderer. Engo draws retained entities on its
// own; Present only drops entities whose shapes left the scene.
func (r *EngoRenderer) Present() {
	r.cleanupInactiveEntities()
}

// RenderShape implements scene.Renderer
func (r *EngoRenderer) RenderShape(shape *scene.Shape) {
	if shape == nil {
		return
	}

	r.seen[shape.ID] = true

	entity := r.getOrCreateShapeEntity(shape.ID)
	r.updateShapeComponents(entity, shape)
}

// RenderMarker implements scene.Renderer
func (r *EngoRenderer) RenderMarker(p geometry.Vector2, hit bool) {
	pos := r.camera.WorldToScreen(p)

	markerColor := color.RGBA{255, 64, 64, 255}
	if hit {
		markerColor = color.RGBA{64, 255, 64, 255}
	}

	const markerSize = 9
	r.addOverlay(
		&common.RenderComponent{
			Drawable: r.assets.GetMarkerSprite(hit),
			Color:    markerColor,
		},
		&common.SpaceComponent{
			Position: engo.Point{
				X: float32(pos.X) - markerSize/2,
				Y: float32(pos.Y) - markerSize/2,
			},
			Width:  markerSize,
			Height: markerSize,
		},
	)
}

// RenderRay implements scene.Renderer. The segment draws as a thin
// rotated rectangle from origin to target.
func (r *EngoRenderer) RenderRay(origin, target geometry.Vector2) {
	from := r.camera.WorldToScreen(origin)
	to := r.camera.WorldToScreen(target)

	dx := to.X - from.X
	dy := to.Y - from.Y
	length := math.Hypot(dx, dy)
	if length == 0 {
		return
	}

	angle := math.Atan2(dy, dx) * 180 / math.Pi

	r.addOverlay(
		&common.RenderComponent{
			Drawable: common.Rectangle{},
			Color:    color.RGBA{64, 192, 255, 255},
		},
		&common.SpaceComponent{
			Position: engo.Point{X: float32(from.X), Y: float32(from.Y)},
			Width:    float32(length),
			Height:   2,
			Rotation: float32(angle),
		},
	)
}

// addOverlay registers a transient entity that lives until the next Clear
func (r *EngoRenderer) addOverlay(render *common.RenderComponent, space *common.SpaceComponent) {
	basic := ecs.NewBasic()
	overlay := &shapeEntity{basic: basic, render: render, space: space}

	r.renderSystem.Add(&overlay.basic, overlay.render, overlay.space)
	r.overlays = append(r.overlays, overlay)
}

// getOrCreateShapeEntity gets an existing shape entity or creates a new one
func (r *EngoRenderer) getOrCreateShapeEntity(id spatial.ID) *shapeEntity {
	if entity, exists := r.shapeEntities[id]; exists {
		return entity
	}

	// Create new entity with placeholder components; the first update
	// fills them in from the shape
	entity := &shapeEntity{
		basic: ecs.NewBasic(),
		render: &common.RenderComponent{
			Color: color.RGBA{255, 255, 255, 255},
		},
		space: &common.SpaceComponent{},
	}
	r.shapeEntities[id] = entity

	r.renderSystem.Add(&entity.basic, entity.render, entity.space)

	return entity
}

// updateShapeComponents syncs the entity components from the shape
func (r *EngoRenderer) updateShapeComponents(entity *shapeEntity, shape *scene.Shape) {
	zoom := r.camera.GetZoom()
	bounds := shape.GetBounds()

	pos := r.camera.WorldToScreen(geometry.Vector2{X: bounds.MinX(), Y: bounds.MinY()})
	entity.space.Position = engo.Point{X: float32(pos.X), Y: float32(pos.Y)}
	entity.space.Width = float32(bounds.Width) * zoom
	entity.space.Height = float32(bounds.Height) * zoom

	entity.render.Drawable = r.assets.GetShapeSprite(shape.Geometry)
	entity.render.Hidden = !shape.Visible
	entity.render.Color = r.shapeColor(shape)
}

// shapeColor picks the tint for a shape: full color when enabled,
// dimmed when the shape is excluded from queries.
func (r *EngoRenderer) shapeColor(shape *scene.Shape) color.Color {
	if !shape.Enabled {
		return color.RGBA{128, 128, 128, 160}
	}

	variantColors := map[string]color.Color{
		spriteCircle:  color.RGBA{80, 160, 255, 255},
		spriteRect:    color.RGBA{255, 160, 80, 255},
		spritePolygon: color.RGBA{160, 255, 120, 255},
	}

	switch shape.Geometry.(type) {
	case geometry.Rect:
		return variantColors[spriteRect]
	case geometry.Polygon:
		return variantColors[spritePolygon]
	default:
		return variantColors[spriteCircle]
	}
}

// cleanupInactiveEntities removes entities whose shapes were not
// rendered this frame
func (r *EngoRenderer) cleanupInactiveEntities() {
	for id, entity := range r.shapeEntities {
		if !r.seen[id] {
			r.renderSystem.Remove(entity.basic)
			delete(r.shapeEntities, id)
		}
	}
}

// RemoveShape removes a shape entity from rendering
func (r *EngoRenderer) RemoveShape(id spatial.ID) {
	if entity, exists := r.shapeEntities[id]; exists {
		r.renderSystem.Remove(entity.basic)
		delete(r.shapeEntities, id)
	}
}
