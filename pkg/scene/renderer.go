package scene

import "github.com/opd-ai/go-hitbox/pkg/geometry"

// Renderer handles drawing scene shapes and query overlays
type Renderer interface {
	RenderShape(shape *Shape)
	RenderMarker(p geometry.Vector2, hit bool)
	RenderRay(origin, target geometry.Vector2)
	Clear()
	Present()
}
