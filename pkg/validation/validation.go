// Package validation provides input validation and sanitization for shape,
// index, and configuration values at the library boundary.
package validation

import (
	"fmt"
	"html"
	"math"
	"regexp"
	"strings"
	"unicode"
	"unicode/utf8"

	"github.com/opd-ai/go-hitbox/pkg/geometry"
)

// Value and content limits applied at the library boundary
const (
	MaxLabelLen        = 64
	MaxPolygonVertices = 1024
	// MaxCoordinate bounds every accepted coordinate so downstream cell
	// arithmetic stays far from float64 integer-precision loss.
	MaxCoordinate = 1e9
)

// Regular expressions for input validation
var (
	// Allow alphanumeric, spaces, hyphens, underscores, and basic punctuation
	// for shape labels. Labels may end up in HUD overlays and log output, so
	// anything fancier is rejected rather than escaped away.
	validLabelChars = regexp.MustCompile(`^[a-zA-Z0-9\s\-_.:#/()]+$`)
)

// ValidateLabel validates and sanitizes a shape label
func ValidateLabel(label string) (string, error) {
	if label == "" {
		return "", fmt.Errorf("label cannot be empty")
	}

	// Check length
	if len(label) > MaxLabelLen {
		return "", fmt.Errorf("label too long: %d characters (max %d)", len(label), MaxLabelLen)
	}

	// Check UTF-8 validity
	if !utf8.ValidString(label) {
		return "", fmt.Errorf("label contains invalid UTF-8 characters")
	}

	// Trim whitespace
	trimmed := strings.TrimSpace(label)
	if trimmed == "" {
		return "", fmt.Errorf("label cannot be only whitespace")
	}

	// Check for control characters first
	for _, r := range trimmed {
		if unicode.IsControl(r) {
			return "", fmt.Errorf("label contains control characters")
		}
	}

	// Check for allowed character set
	if !validLabelChars.MatchString(trimmed) {
		return "", fmt.Errorf("label contains invalid characters (only alphanumeric, spaces, hyphens, underscores, and basic punctuation allowed)")
	}

	// Escape HTML so labels are safe to embed in markup-based overlays
	sanitized := html.EscapeString(trimmed)

	return sanitized, nil
}

// ValidateCoordinate validates a single coordinate value
func ValidateCoordinate(value float64) error {
	if math.IsNaN(value) || math.IsInf(value, 0) {
		return fmt.Errorf("coordinate must be finite, got %f", value)
	}
	if math.Abs(value) > MaxCoordinate {
		return fmt.Errorf("coordinate out of range: %f (max magnitude %g)", value, MaxCoordinate)
	}
	return nil
}

// ValidateVector validates both components of a vector
func ValidateVector(v geometry.Vector2) error {
	if err := ValidateCoordinate(v.X); err != nil {
		return fmt.Errorf("invalid X component: %w", err)
	}
	if err := ValidateCoordinate(v.Y); err != nil {
		return fmt.Errorf("invalid Y component: %w", err)
	}
	return nil
}

// ValidateRadius validates a circle radius
func ValidateRadius(radius float64) error {
	if math.IsNaN(radius) || math.IsInf(radius, 0) {
		return fmt.Errorf("radius must be finite, got %f", radius)
	}
	if radius < 0 {
		return fmt.Errorf("radius cannot be negative: %f", radius)
	}
	if radius > MaxCoordinate {
		return fmt.Errorf("radius out of range: %f (max %g)", radius, MaxCoordinate)
	}
	return nil
}

// ValidateExtent validates a width/height pair
func ValidateExtent(width, height float64) error {
	if math.IsNaN(width) || math.IsInf(width, 0) || math.IsNaN(height) || math.IsInf(height, 0) {
		return fmt.Errorf("extent must be finite, got %fx%f", width, height)
	}
	if width < 0 || height < 0 {
		return fmt.Errorf("extent cannot be negative: %fx%f", width, height)
	}
	if width > MaxCoordinate || height > MaxCoordinate {
		return fmt.Errorf("extent out of range: %fx%f (max %g)", width, height, MaxCoordinate)
	}
	return nil
}

// ValidateCellSize validates a grid cell size
func ValidateCellSize(size float64) error {
	if math.IsNaN(size) || math.IsInf(size, 0) {
		return fmt.Errorf("cell size must be finite, got %f", size)
	}
	if size <= 0 {
		return fmt.Errorf("cell size must be positive: %f", size)
	}
	return nil
}

// ValidateWorldBounds validates a world extent used for quadtree construction
func ValidateWorldBounds(bounds geometry.AABB) error {
	if err := ValidateVector(geometry.Vector2{X: bounds.X, Y: bounds.Y}); err != nil {
		return fmt.Errorf("invalid world origin: %w", err)
	}
	if err := ValidateExtent(bounds.Width, bounds.Height); err != nil {
		return fmt.Errorf("invalid world extent: %w", err)
	}
	if bounds.Width == 0 || bounds.Height == 0 {
		return fmt.Errorf("world extent cannot be zero: %fx%f", bounds.Width, bounds.Height)
	}
	return nil
}

// ValidateVertices validates a polygon vertex list
func ValidateVertices(vertices []geometry.Vector2) error {
	if len(vertices) < 3 {
		return fmt.Errorf("polygon requires at least 3 vertices, got %d", len(vertices))
	}
	if len(vertices) > MaxPolygonVertices {
		return fmt.Errorf("too many vertices: %d (max %d)", len(vertices), MaxPolygonVertices)
	}
	for i, v := range vertices {
		if err := ValidateVector(v); err != nil {
			return fmt.Errorf("invalid vertex %d: %w", i, err)
		}
	}
	return nil
}
