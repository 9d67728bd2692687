// pkg/render/engo/assets_test.go
package engo

import (
	"image"
	"image/color"
	"testing"

	"github.com/EngoEngine/engo/common"

	"github.com/opd-ai/go-hitbox/pkg/geometry"
)

func TestNewAssetManager_InitializesEmptyMaps(t *testing.T) {
	am := NewAssetManager()

	if am == nil {
		t.Fatal("NewAssetManager() returned nil")
	}
	if am.shapeSprites == nil {
		t.Error("shapeSprites map not initialized")
	}
	if am.markerSprites == nil {
		t.Error("markerSprites map not initialized")
	}
	if len(am.shapeSprites) != 0 {
		t.Errorf("shapeSprites should be empty initially, got %d entries", len(am.shapeSprites))
	}
	if len(am.markerSprites) != 0 {
		t.Errorf("markerSprites should be empty initially, got %d entries", len(am.markerSprites))
	}
	if am.backgroundTexture != nil {
		t.Error("backgroundTexture should be nil before loading")
	}
}

func TestLoadAssets_ExpectFailure(t *testing.T) {
	// This test documents that LoadAssets requires an OpenGL context:
	// createSprite ends in common.NewTextureSingle, which uploads to the
	// GPU and cannot run in unit tests.

	t.Log("LoadAssets requires OpenGL context and cannot be tested in unit tests")
	t.Log("In a real environment with OpenGL, LoadAssets should populate:")
	t.Log("- shapeSprites map with circle, rect, polygon")
	t.Log("- markerSprites map with hit, miss")
	t.Log("- backgroundTexture")
	t.Log("The pattern generators feeding it are tested directly below")
}

func TestCirclePattern_ProducesFilledDisc(t *testing.T) {
	pattern := circlePattern(16)

	if len(pattern) != 16 {
		t.Fatalf("Expected 16 rows, got %d", len(pattern))
	}
	for y, row := range pattern {
		if len(row) != 16 {
			t.Fatalf("Row %d: expected 16 columns, got %d", y, len(row))
		}
	}

	// Center cells are inside the disc
	for _, cell := range [][2]int{{7, 7}, {7, 8}, {8, 7}, {8, 8}} {
		if pattern[cell[1]][cell[0]] != 1 {
			t.Errorf("Expected center cell (%d,%d) to be filled", cell[0], cell[1])
		}
	}

	// Corners are outside the disc
	for _, cell := range [][2]int{{0, 0}, {15, 0}, {0, 15}, {15, 15}} {
		if pattern[cell[1]][cell[0]] != 0 {
			t.Errorf("Expected corner cell (%d,%d) to be empty", cell[0], cell[1])
		}
	}

	// Edge midpoints touch the disc
	if pattern[8][0] != 1 {
		t.Error("Expected left edge midpoint to be filled")
	}
	if pattern[0][8] != 1 {
		t.Error("Expected top edge midpoint to be filled")
	}
}

func TestCirclePattern_IsSymmetric(t *testing.T) {
	pattern := circlePattern(16)

	for y := 0; y < 16; y++ {
		for x := 0; x < 16; x++ {
			if pattern[y][x] != pattern[y][15-x] {
				t.Errorf("Horizontal asymmetry at (%d,%d)", x, y)
			}
			if pattern[y][x] != pattern[15-y][x] {
				t.Errorf("Vertical asymmetry at (%d,%d)", x, y)
			}
		}
	}
}

func TestCirclePattern_OddDiameter(t *testing.T) {
	pattern := circlePattern(5)

	if len(pattern) != 5 || len(pattern[0]) != 5 {
		t.Fatalf("Expected 5x5 pattern, got %dx%d", len(pattern), len(pattern[0]))
	}
	if pattern[2][2] != 1 {
		t.Error("Expected center cell to be filled")
	}
	if pattern[0][0] != 0 {
		t.Error("Expected corner cell to be empty")
	}
	if pattern[2][0] != 1 {
		t.Error("Expected edge midpoint to be filled")
	}
}

func TestRectPattern_FillsEveryCell(t *testing.T) {
	pattern := rectPattern(4, 3)

	if len(pattern) != 3 {
		t.Fatalf("Expected 3 rows, got %d", len(pattern))
	}
	for y, row := range pattern {
		if len(row) != 4 {
			t.Fatalf("Row %d: expected 4 columns, got %d", y, len(row))
		}
		for x, cell := range row {
			if cell != 1 {
				t.Errorf("Expected cell (%d,%d) to be filled", x, y)
			}
		}
	}
}

func TestTrianglePattern_WidensFromApexToBase(t *testing.T) {
	pattern := trianglePattern(16)

	if len(pattern) != 16 {
		t.Fatalf("Expected 16 rows, got %d", len(pattern))
	}

	rowWidth := func(y int) int {
		count := 0
		for _, cell := range pattern[y] {
			count += cell
		}
		return count
	}

	// Apex is a single cell at the horizontal center
	if rowWidth(0) != 1 {
		t.Errorf("Expected apex row width 1, got %d", rowWidth(0))
	}
	if pattern[0][8] != 1 {
		t.Error("Expected apex at column 8")
	}

	// Base spans the full width
	if rowWidth(15) != 16 {
		t.Errorf("Expected base row width 16, got %d", rowWidth(15))
	}

	// Rows never narrow on the way down
	for y := 1; y < 16; y++ {
		if rowWidth(y) < rowWidth(y-1) {
			t.Errorf("Row %d narrower than row %d (%d < %d)", y, y-1, rowWidth(y), rowWidth(y-1))
		}
	}
}

func TestTrianglePattern_RowsCenteredOnApex(t *testing.T) {
	pattern := trianglePattern(16)

	// Row 1 spans three cells around the center column
	for x := 0; x < 16; x++ {
		expected := 0
		if x >= 7 && x <= 9 {
			expected = 1
		}
		if pattern[1][x] != expected {
			t.Errorf("Row 1 column %d: expected %d, got %d", x, expected, pattern[1][x])
		}
	}
}

func TestCreateBaseImage_TransparentCanvas(t *testing.T) {
	am := NewAssetManager()
	img := am.createBaseImage(8, 6)

	bounds := img.Bounds()
	if bounds.Dx() != 8 || bounds.Dy() != 6 {
		t.Fatalf("Expected 8x6 image, got %dx%d", bounds.Dx(), bounds.Dy())
	}

	transparent := color.RGBA{0, 0, 0, 0}
	for y := 0; y < 6; y++ {
		for x := 0; x < 8; x++ {
			if img.RGBAAt(x, y) != transparent {
				t.Errorf("Expected transparent pixel at (%d,%d), got %v", x, y, img.RGBAAt(x, y))
			}
		}
	}
}

func TestDrawPatternOnImage_SetsPatternPixels(t *testing.T) {
	am := NewAssetManager()
	img := am.createBaseImage(3, 3)

	am.drawPatternOnImage(img, [][]int{
		{1, 0},
		{0, 1},
	}, 3, 3)

	white := color.RGBA{255, 255, 255, 255}
	transparent := color.RGBA{0, 0, 0, 0}

	checks := []struct {
		x, y     int
		expected color.RGBA
	}{
		{0, 0, white},
		{1, 0, transparent},
		{0, 1, transparent},
		{1, 1, white},
		{2, 2, transparent}, // Outside the pattern, untouched
	}
	for _, c := range checks {
		if img.RGBAAt(c.x, c.y) != c.expected {
			t.Errorf("Pixel (%d,%d): expected %v, got %v", c.x, c.y, c.expected, img.RGBAAt(c.x, c.y))
		}
	}
}

func TestDrawPatternOnImage_TruncatesOversizedPattern(t *testing.T) {
	am := NewAssetManager()
	img := image.NewRGBA(image.Rect(0, 0, 2, 2))

	// A pattern larger than the image must not panic or write out of range
	am.drawPatternOnImage(img, rectPattern(4, 4), 2, 2)

	white := color.RGBA{255, 255, 255, 255}
	for y := 0; y < 2; y++ {
		for x := 0; x < 2; x++ {
			if img.RGBAAt(x, y) != white {
				t.Errorf("Expected pixel (%d,%d) to be drawn", x, y)
			}
		}
	}
}

func TestGetShapeSprite_SelectsByGeometryVariant(t *testing.T) {
	am := NewAssetManager()

	// Engo shape drawables stand in for GL textures in tests
	am.shapeSprites[spriteCircle] = common.Circle{}
	am.shapeSprites[spriteRect] = common.Rectangle{}
	am.shapeSprites[spritePolygon] = common.Triangle{}

	circle := geometry.NewCircle(geometry.Vector2{X: 0, Y: 0}, 5)
	rect := geometry.NewRect(0, 0, 4, 4)
	polygon, err := geometry.NewPolygon([]geometry.Vector2{{X: 0, Y: 0}, {X: 4, Y: 0}, {X: 2, Y: 4}})
	if err != nil {
		t.Fatalf("Failed to create polygon: %v", err)
	}

	if _, ok := am.GetShapeSprite(circle).(common.Circle); !ok {
		t.Error("Expected circle geometry to select the circle sprite")
	}
	if _, ok := am.GetShapeSprite(rect).(common.Rectangle); !ok {
		t.Error("Expected rect geometry to select the rect sprite")
	}
	if _, ok := am.GetShapeSprite(polygon).(common.Triangle); !ok {
		t.Error("Expected polygon geometry to select the polygon sprite")
	}
}

func TestGetShapeSprite_FallsBackToCircleSprite(t *testing.T) {
	am := NewAssetManager()
	am.shapeSprites[spriteCircle] = common.Circle{}

	// Rect sprite missing, so the circle sprite stands in
	rect := geometry.NewRect(0, 0, 4, 4)
	if _, ok := am.GetShapeSprite(rect).(common.Circle); !ok {
		t.Error("Expected fallback to the circle sprite when a variant sprite is missing")
	}
}

func TestGetShapeSprite_BeforeLoad_ReturnsNil(t *testing.T) {
	am := NewAssetManager()

	circle := geometry.NewCircle(geometry.Vector2{X: 0, Y: 0}, 5)
	if sprite := am.GetShapeSprite(circle); sprite != nil {
		t.Errorf("Expected nil sprite before loading assets, got %v", sprite)
	}
}

func TestGetMarkerSprite_SelectsHitOrMiss(t *testing.T) {
	am := NewAssetManager()
	am.markerSprites["hit"] = common.Circle{}
	am.markerSprites["miss"] = common.Rectangle{}

	if _, ok := am.GetMarkerSprite(true).(common.Circle); !ok {
		t.Error("Expected hit marker sprite")
	}
	if _, ok := am.GetMarkerSprite(false).(common.Rectangle); !ok {
		t.Error("Expected miss marker sprite")
	}
}

func TestGetMarkerSprite_FallsBackToMissSprite(t *testing.T) {
	am := NewAssetManager()
	am.markerSprites["miss"] = common.Rectangle{}

	if _, ok := am.GetMarkerSprite(true).(common.Rectangle); !ok {
		t.Error("Expected fallback to the miss sprite when the hit sprite is missing")
	}
}

func TestGetBackgroundTexture_BeforeLoad_ReturnsNil(t *testing.T) {
	am := NewAssetManager()

	if texture := am.GetBackgroundTexture(); texture != nil {
		t.Errorf("Expected nil background texture before loading assets, got %v", texture)
	}
}
