package render

import (
	"fmt"
	"strings"

	"github.com/opd-ai/go-hitbox/pkg/geometry"
	"github.com/opd-ai/go-hitbox/pkg/scene"
)

// TerminalRenderer provides a simple ASCII-based rendering for terminals.
// Shapes are sampled at cell centers through their exact geometry, so the
// picture reflects the same containment math the collision queries use.
type TerminalRenderer struct {
	width     int
	height    int
	buffer    [][]rune
	scale     float64
	centerPos geometry.Vector2
}

// NewTerminalRenderer creates a new terminal renderer with the specified
// dimensions. scale is world units per character cell; values <= 0 fall
// back to 1.
func NewTerminalRenderer(width, height int, scale float64) *TerminalRenderer {
	if scale <= 0 {
		scale = 1
	}
	buffer := make([][]rune, height)
	for i := range buffer {
		buffer[i] = make([]rune, width)
	}

	r := &TerminalRenderer{
		width:  width,
		height: height,
		buffer: buffer,
		scale:  scale,
		centerPos: geometry.Vector2{
			X: 0,
			Y: 0,
		},
	}
	r.Clear()
	return r
}

// SetCenter sets the world position shown at the middle of the view
func (r *TerminalRenderer) SetCenter(pos geometry.Vector2) {
	r.centerPos = pos
}

// worldToScreen converts world coordinates to screen coordinates
func (r *TerminalRenderer) worldToScreen(pos geometry.Vector2) (int, int) {
	screenX := int((pos.X-r.centerPos.X)/r.scale + float64(r.width)/2)
	screenY := int((pos.Y-r.centerPos.Y)/r.scale + float64(r.height)/2)
	return screenX, screenY
}

// screenToWorld converts screen coordinates back to the world position the
// cell represents. It is the inverse of worldToScreen before truncation.
func (r *TerminalRenderer) screenToWorld(x, y int) geometry.Vector2 {
	return geometry.Vector2{
		X: (float64(x)-float64(r.width)/2)*r.scale + r.centerPos.X,
		Y: (float64(y)-float64(r.height)/2)*r.scale + r.centerPos.Y,
	}
}

// Clear implements scene.Renderer
func (r *TerminalRenderer) Clear() {
	for y := range r.buffer {
		for x := range r.buffer[y] {
			r.buffer[y][x] = ' '
		}
	}
}

// Present implements scene.Renderer
func (r *TerminalRenderer) Present() {
	// Clear terminal
	fmt.Print("\033[H\033[2J")
	fmt.Print(r.Frame())
}

// Frame returns the bordered frame as a string. Present writes this to
// the terminal; tests inspect it directly.
func (r *TerminalRenderer) Frame() string {
	var sb strings.Builder
	border := "+" + strings.Repeat("-", r.width) + "+"

	sb.WriteString(border)
	sb.WriteByte('\n')
	for y := range r.buffer {
		sb.WriteByte('|')
		for x := range r.buffer[y] {
			sb.WriteRune(r.buffer[y][x])
		}
		sb.WriteString("|\n")
	}
	sb.WriteString(border)
	sb.WriteByte('\n')
	return sb.String()
}

// RenderShape implements scene.Renderer. Every cell covered by the shape's
// bounds is tested against the exact geometry, so circles come out round
// and polygons keep their outline. Invisible shapes are skipped and
// disabled shapes draw dimmed.
func (r *TerminalRenderer) RenderShape(shape *scene.Shape) {
	if shape == nil || !shape.Visible || shape.Geometry == nil {
		return
	}

	glyph := shapeGlyph(shape.Geometry)
	if !shape.Enabled {
		glyph = '-'
	}

	bounds := shape.GetBounds()
	minX, minY := r.worldToScreen(geometry.Vector2{X: bounds.MinX(), Y: bounds.MinY()})
	maxX, maxY := r.worldToScreen(geometry.Vector2{X: bounds.MaxX(), Y: bounds.MaxY()})

	for y := minY; y <= maxY; y++ {
		if y < 0 || y >= r.height {
			continue
		}
		for x := minX; x <= maxX; x++ {
			if x < 0 || x >= r.width {
				continue
			}
			if shape.Geometry.ContainsPoint(r.screenToWorld(x, y)) {
				r.buffer[y][x] = glyph
			}
		}
	}
}

// RenderMarker implements scene.Renderer. Hits draw as 'X', misses as '+'.
func (r *TerminalRenderer) RenderMarker(p geometry.Vector2, hit bool) {
	x, y := r.worldToScreen(p)
	if hit {
		r.plot(x, y, 'X')
	} else {
		r.plot(x, y, '+')
	}
}

// RenderRay implements scene.Renderer. The segment from origin to target
// draws as a dotted line.
func (r *TerminalRenderer) RenderRay(origin, target geometry.Vector2) {
	x0, y0 := r.worldToScreen(origin)
	x1, y1 := r.worldToScreen(target)

	steps := abs(x1 - x0)
	if dy := abs(y1 - y0); dy > steps {
		steps = dy
	}
	if steps == 0 {
		r.plot(x0, y0, '.')
		return
	}
	for i := 0; i <= steps; i++ {
		x := x0 + (x1-x0)*i/steps
		y := y0 + (y1-y0)*i/steps
		r.plot(x, y, '.')
	}
}

// plot sets a cell when it lies inside the buffer
func (r *TerminalRenderer) plot(x, y int, c rune) {
	if x >= 0 && x < r.width && y >= 0 && y < r.height {
		r.buffer[y][x] = c
	}
}

// shapeGlyph picks the draw character for a geometry variant
func shapeGlyph(g geometry.Geometry) rune {
	switch g.(type) {
	case geometry.Circle:
		return 'o'
	case geometry.Rect:
		return '#'
	case geometry.Polygon:
		return '*'
	default:
		return '?'
	}
}

func abs(v int) int {
	if v < 0 {
		return -v
	}
	return v
}
