// pkg/render/renderer.go
package render

import (
	"context"

	"github.com/opd-ai/go-hitbox/pkg/geometry"
	"github.com/opd-ai/go-hitbox/pkg/logging"
	"github.com/opd-ai/go-hitbox/pkg/scene"
)

// NullRenderer is a simple implementation of scene.Renderer.
type NullRenderer struct {
	logger *logging.Logger
}

// NewNullRenderer creates a new NullRenderer with structured logging.
func NewNullRenderer() *NullRenderer {
	return &NullRenderer{
		logger: logging.NewLogger(),
	}
}

// Clear implements scene.Renderer.
func (d *NullRenderer) Clear() {
	ctx := context.Background()
	d.logger.Debug(ctx, "Clear called")
}

// Present implements scene.Renderer.
func (d *NullRenderer) Present() {
	ctx := context.Background()
	d.logger.Debug(ctx, "Present called")
}

// RenderShape implements scene.Renderer.
func (d *NullRenderer) RenderShape(shape *scene.Shape) {
	ctx := context.Background()
	if shape == nil {
		d.logger.Debug(ctx, "RenderShape called with nil shape")
		return
	}
	d.logger.Debug(ctx, "RenderShape called",
		"shape_id", uint64(shape.ID),
		"label", shape.Label,
		"z_index", shape.ZIndex,
	)
}

// RenderMarker implements scene.Renderer.
func (d *NullRenderer) RenderMarker(p geometry.Vector2, hit bool) {
	ctx := context.Background()
	d.logger.Debug(ctx, "RenderMarker called",
		"x", p.X,
		"y", p.Y,
		"hit", hit,
	)
}

// RenderRay implements scene.Renderer.
func (d *NullRenderer) RenderRay(origin, target geometry.Vector2) {
	ctx := context.Background()
	d.logger.Debug(ctx, "RenderRay called",
		"origin_x", origin.X,
		"origin_y", origin.Y,
		"target_x", target.X,
		"target_y", target.Y,
	)
}

// NullRendererInstance is a global instance of NullRenderer for convenience.
var NullRendererInstance scene.Renderer = NewNullRenderer()
