// pkg/spatial/object.go

// Package spatial provides the uniform grid and quadtree indexes behind
// broad-phase collision queries. Both structures index objects by bounding
// box only; exact shape tests happen downstream in pkg/collision. The
// package is single-threaded: callers sharing an index across goroutines
// serialize access themselves.
package spatial

import "github.com/opd-ai/go-hitbox/pkg/geometry"

// ID uniquely identifies an indexed object.
type ID uint64

// Object is the minimal contract an indexed object satisfies. The
// collision package layers shape and visibility accessors on top; the
// indexes themselves only ever need identity and bounds.
type Object interface {
	GetID() ID
	GetBounds() geometry.AABB
}

// CellKey addresses one cell of a Grid.
type CellKey struct {
	X, Y int
}
