// pkg/collision/object.go

// Package collision implements the exact-shape query layer of the hit
// testing engine: point, bounds, circle, and ray queries against objects
// registered in a spatial index. The detector is synchronous and
// single-threaded like the rest of the core; callers that share one
// across goroutines serialize access themselves.
package collision

import (
	"github.com/opd-ai/go-hitbox/pkg/geometry"
	"github.com/opd-ai/go-hitbox/pkg/spatial"
)

// Object is the full contract the detector queries against. It embeds
// the index contract and adds the shape and paint state the exact tests
// need. The detector never mutates an object; after a geometry change
// the owner calls UpdateObject.
type Object interface {
	spatial.Object

	// GetGeometry returns the exact shape used by point, circle, and ray
	// tests.
	GetGeometry() geometry.Geometry
	// IsVisible reports whether the object participates in queries at
	// all.
	IsVisible() bool
	// IsEnabled reports whether the object currently accepts hits.
	IsEnabled() bool
	// GetZIndex returns the stacking order; higher values win point
	// tests.
	GetZIndex() int
}
