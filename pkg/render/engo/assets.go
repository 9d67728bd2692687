// pkg/render/engo/assets.go
package engo

import (
	"image"
	"image/color"
	"image/draw"

	"github.com/EngoEngine/engo/common"

	"github.com/opd-ai/go-hitbox/pkg/geometry"
)

// Sprite keys for the shape variants.
const (
	spriteCircle  = "circle"
	spriteRect    = "rect"
	spritePolygon = "polygon"
)

// AssetManager builds and holds the sandbox sprites. All sprites are
// generated from pixel patterns, so the sandbox needs no image files.
type AssetManager struct {
	// Shape sprites by geometry variant
	shapeSprites map[string]common.Drawable

	// Marker sprites for query probes, keyed "hit" and "miss"
	markerSprites map[string]common.Drawable

	// Background grid texture
	backgroundTexture common.Drawable
}

// NewAssetManager creates a new asset manager
func NewAssetManager() *AssetManager {
	return &AssetManager{
		shapeSprites:  make(map[string]common.Drawable),
		markerSprites: make(map[string]common.Drawable),
	}
}

// LoadAssets generates all sandbox sprites. Requires a live OpenGL
// context, so it only runs inside engo.Run.
func (am *AssetManager) LoadAssets() error {
	if err := am.loadShapeSprites(); err != nil {
		return err
	}

	if err := am.loadMarkerSprites(); err != nil {
		return err
	}

	return am.loadBackground()
}

// loadShapeSprites creates one sprite per geometry variant
func (am *AssetManager) loadShapeSprites() error {
	am.shapeSprites[spriteCircle] = am.createSprite(16, 16, circlePattern(16))
	am.shapeSprites[spriteRect] = am.createSprite(16, 16, rectPattern(16, 16))
	am.shapeSprites[spritePolygon] = am.createSprite(16, 16, trianglePattern(16))

	return nil
}

// loadMarkerSprites creates the probe markers: a diagonal cross for hits
// and an axis-aligned cross for misses.
func (am *AssetManager) loadMarkerSprites() error {
	am.markerSprites["hit"] = am.createSprite(9, 9, [][]int{
		{1, 0, 0, 0, 0, 0, 0, 0, 1},
		{0, 1, 0, 0, 0, 0, 0, 1, 0},
		{0, 0, 1, 0, 0, 0, 1, 0, 0},
		{0, 0, 0, 1, 0, 1, 0, 0, 0},
		{0, 0, 0, 0, 1, 0, 0, 0, 0},
		{0, 0, 0, 1, 0, 1, 0, 0, 0},
		{0, 0, 1, 0, 0, 0, 1, 0, 0},
		{0, 1, 0, 0, 0, 0, 0, 1, 0},
		{1, 0, 0, 0, 0, 0, 0, 0, 1},
	})

	am.markerSprites["miss"] = am.createSprite(9, 9, [][]int{
		{0, 0, 0, 0, 1, 0, 0, 0, 0},
		{0, 0, 0, 0, 1, 0, 0, 0, 0},
		{0, 0, 0, 0, 1, 0, 0, 0, 0},
		{0, 0, 0, 0, 1, 0, 0, 0, 0},
		{1, 1, 1, 1, 1, 1, 1, 1, 1},
		{0, 0, 0, 0, 1, 0, 0, 0, 0},
		{0, 0, 0, 0, 1, 0, 0, 0, 0},
		{0, 0, 0, 0, 1, 0, 0, 0, 0},
		{0, 0, 0, 0, 1, 0, 0, 0, 0},
	})

	return nil
}

// loadBackground creates a sparse dot grid so panning is visible
func (am *AssetManager) loadBackground() error {
	pattern := make([][]int, 64)
	for i := range pattern {
		pattern[i] = make([]int, 64)
		if i%16 == 0 {
			for j := 0; j < 64; j += 16 {
				pattern[i][j] = 1
			}
		}
	}

	am.backgroundTexture = am.createSprite(64, 64, pattern)

	return nil
}

// circlePattern returns a filled disc pattern of the given diameter
func circlePattern(diameter int) [][]int {
	pattern := make([][]int, diameter)
	radius := float64(diameter) / 2
	for y := range pattern {
		pattern[y] = make([]int, diameter)
		for x := range pattern[y] {
			dx := float64(x) + 0.5 - radius
			dy := float64(y) + 0.5 - radius
			if dx*dx+dy*dy <= radius*radius {
				pattern[y][x] = 1
			}
		}
	}
	return pattern
}

// rectPattern returns a fully filled pattern
func rectPattern(width, height int) [][]int {
	pattern := make([][]int, height)
	for y := range pattern {
		pattern[y] = make([]int, width)
		for x := range pattern[y] {
			pattern[y][x] = 1
		}
	}
	return pattern
}

// trianglePattern returns an upward-pointing filled triangle
func trianglePattern(size int) [][]int {
	pattern := make([][]int, size)
	for y := range pattern {
		pattern[y] = make([]int, size)
		// Row y spans from the apex down to the full base
		halfWidth := (y + 1) / 2
		center := size / 2
		for x := center - halfWidth; x <= center+halfWidth; x++ {
			if x >= 0 && x < size {
				pattern[y][x] = 1
			}
		}
	}
	return pattern
}

// createSprite creates a sprite from a 2D pattern
func (am *AssetManager) createSprite(width, height int, pattern [][]int) common.Drawable {
	// Create base RGBA image
	img := am.createBaseImage(width, height)

	// Draw pattern onto the image
	am.drawPatternOnImage(img, pattern, width, height)

	// Convert to Engo-compatible texture
	return am.convertToEngoTexture(img)
}

// createBaseImage creates a transparent RGBA image with the specified dimensions.
func (am *AssetManager) createBaseImage(width, height int) *image.RGBA {
	img := image.NewRGBA(image.Rect(0, 0, width, height))
	draw.Draw(img, img.Bounds(), &image.Uniform{color.RGBA{0, 0, 0, 0}}, image.Point{}, draw.Src)
	return img
}

// drawPatternOnImage draws a 2D pixel pattern onto the provided RGBA image.
func (am *AssetManager) drawPatternOnImage(img *image.RGBA, pattern [][]int, width, height int) {
	for y, row := range pattern {
		if y >= height {
			break
		}
		for x, pixel := range row {
			if x >= width {
				break
			}
			if pixel == 1 {
				img.Set(x, y, color.RGBA{255, 255, 255, 255})
			}
		}
	}
}

// convertToEngoTexture converts an RGBA image to an Engo-compatible texture.
func (am *AssetManager) convertToEngoTexture(img *image.RGBA) common.Drawable {
	bounds := img.Bounds()
	nrgbaImg := image.NewNRGBA(bounds)
	for y := bounds.Min.Y; y < bounds.Max.Y; y++ {
		for x := bounds.Min.X; x < bounds.Max.X; x++ {
			nrgbaImg.Set(x, y, img.At(x, y))
		}
	}

	texture := common.NewImageObject(nrgbaImg)
	return common.NewTextureSingle(texture)
}

// GetShapeSprite returns the sprite for a geometry variant
func (am *AssetManager) GetShapeSprite(g geometry.Geometry) common.Drawable {
	key := spriteCircle
	switch g.(type) {
	case geometry.Rect:
		key = spriteRect
	case geometry.Polygon:
		key = spritePolygon
	}

	if sprite, exists := am.shapeSprites[key]; exists {
		return sprite
	}
	return am.shapeSprites[spriteCircle] // Default fallback
}

// GetMarkerSprite returns the probe marker sprite
func (am *AssetManager) GetMarkerSprite(hit bool) common.Drawable {
	key := "miss"
	if hit {
		key = "hit"
	}

	if sprite, exists := am.markerSprites[key]; exists {
		return sprite
	}
	return am.markerSprites["miss"] // Default fallback
}

// GetBackgroundTexture returns the background texture
func (am *AssetManager) GetBackgroundTexture() common.Drawable {
	return am.backgroundTexture
}
