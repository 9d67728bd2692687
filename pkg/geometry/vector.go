// Package geometry provides the 2D vector, bounds, and shape math used by
// the hitbox spatial index and collision detector. Everything here is a pure
// value computation: no state, no locking, safe to share across goroutines.
package geometry

import (
	"errors"
	"math"
)

// ErrDivideByZero is returned by Div when the scalar is zero.
var ErrDivideByZero = errors.New("geometry: divide by zero")

// epsilon bounds the rounding error tolerated by edge classification.
const epsilon = 1e-9

// Vector2 represents a 2D vector with x and y components
type Vector2 struct {
	X float64
	Y float64
}

// Add returns the sum of two vectors
func (v Vector2) Add(other Vector2) Vector2 {
	return Vector2{
		X: v.X + other.X,
		Y: v.Y + other.Y,
	}
}

// Sub returns the difference between two vectors
func (v Vector2) Sub(other Vector2) Vector2 {
	return Vector2{
		X: v.X - other.X,
		Y: v.Y - other.Y,
	}
}

// Scale multiplies the vector by a scalar value
func (v Vector2) Scale(factor float64) Vector2 {
	return Vector2{
		X: v.X * factor,
		Y: v.Y * factor,
	}
}

// Div divides the vector by a scalar value.
// It returns ErrDivideByZero when the scalar is zero.
func (v Vector2) Div(factor float64) (Vector2, error) {
	if factor == 0 {
		return Vector2{}, ErrDivideByZero
	}
	return Vector2{
		X: v.X / factor,
		Y: v.Y / factor,
	}, nil
}

// Length returns the magnitude of the vector
func (v Vector2) Length() float64 {
	return math.Sqrt(v.X*v.X + v.Y*v.Y)
}

// LengthSquared returns magnitude squared (optimization for comparisons)
func (v Vector2) LengthSquared() float64 {
	return v.X*v.X + v.Y*v.Y
}

// Normalize returns a unit vector in the same direction.
// The zero vector normalizes to the zero vector rather than failing.
func (v Vector2) Normalize() Vector2 {
	length := v.Length()
	if length == 0 {
		return Vector2{}
	}
	return Vector2{
		X: v.X / length,
		Y: v.Y / length,
	}
}

// Dot returns the dot product of two vectors
func (v Vector2) Dot(other Vector2) float64 {
	return v.X*other.X + v.Y*other.Y
}

// Cross returns the scalar 2D cross product of two vectors.
// Its sign tells which side of v the other vector lies on; line-segment
// intersection is built on it.
func (v Vector2) Cross(other Vector2) float64 {
	return v.X*other.Y - v.Y*other.X
}

// DistanceTo returns the distance between two vectors
func (v Vector2) DistanceTo(other Vector2) float64 {
	return v.Sub(other).Length()
}

// DistanceToSquared returns the squared distance between two vectors
func (v Vector2) DistanceToSquared(other Vector2) float64 {
	return v.Sub(other).LengthSquared()
}

// Angle returns the angle of the vector in radians
func (v Vector2) Angle() float64 {
	return math.Atan2(v.Y, v.X)
}

// AngleTo returns the angle of the direction from v to other, in radians
func (v Vector2) AngleTo(other Vector2) float64 {
	return other.Sub(v).Angle()
}

// Rotate rotates the vector by angle (in radians)
func (v Vector2) Rotate(angle float64) Vector2 {
	cos := math.Cos(angle)
	sin := math.Sin(angle)
	return Vector2{
		X: v.X*cos - v.Y*sin,
		Y: v.X*sin + v.Y*cos,
	}
}

// Equals reports whether both components match within the given tolerance
func (v Vector2) Equals(other Vector2, tolerance float64) bool {
	return math.Abs(v.X-other.X) <= tolerance && math.Abs(v.Y-other.Y) <= tolerance
}

// Zero returns the zero vector
func Zero() Vector2 {
	return Vector2{}
}

// One returns the vector (1, 1)
func One() Vector2 {
	return Vector2{X: 1, Y: 1}
}

// FromAngle creates a vector from an angle and magnitude
func FromAngle(angle float64, magnitude float64) Vector2 {
	return Vector2{
		X: magnitude * math.Cos(angle),
		Y: magnitude * math.Sin(angle),
	}
}

// Distance returns the distance between two points
func Distance(a, b Vector2) float64 {
	return a.DistanceTo(b)
}

// Lerp linearly interpolates between a and b by t.
// t is not clamped; 0 yields a and 1 yields b.
func Lerp(a, b Vector2, t float64) Vector2 {
	return Vector2{
		X: a.X + (b.X-a.X)*t,
		Y: a.Y + (b.Y-a.Y)*t,
	}
}
