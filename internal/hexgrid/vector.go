package hexgrid

import "math"

// Hex cell dimensions in Cartesian units. Used only for geometric
// distance tests, never for display.
const (
	HexWidth  = 82.0
	HexHeight = 71.0
)

// Vector2 is a point in ordinary Cartesian coordinates.
type Vector2 struct {
	X, Y float64
}

// Project maps a hex index into Cartesian space. Each row is offset
// half a cell horizontally.
func Project(h HexIndex) Vector2 {
	return Vector2{
		X: (float64(h.Q) + float64(h.R)/2) * HexWidth,
		Y: float64(h.R) * HexHeight,
	}
}

// Add returns v + o.
func (v Vector2) Add(o Vector2) Vector2 {
	return Vector2{X: v.X + o.X, Y: v.Y + o.Y}
}

// Sub returns v - o.
func (v Vector2) Sub(o Vector2) Vector2 {
	return Vector2{X: v.X - o.X, Y: v.Y - o.Y}
}

// Scale returns v multiplied by f.
func (v Vector2) Scale(f float64) Vector2 {
	return Vector2{X: v.X * f, Y: v.Y * f}
}

// LengthSq returns the squared length of v.
func (v Vector2) LengthSq() float64 {
	return v.X*v.X + v.Y*v.Y
}

// DistSq returns the squared distance between v and o.
func (v Vector2) DistSq(o Vector2) float64 {
	return v.Sub(o).LengthSq()
}

// Dist returns the distance between v and o.
func (v Vector2) Dist(o Vector2) float64 {
	return math.Sqrt(v.DistSq(o))
}

// Rotated returns v rotated by angle radians around the origin,
// counterclockwise for positive angles.
func (v Vector2) Rotated(angle float64) Vector2 {
	sin, cos := math.Sincos(angle)
	return Vector2{
		X: cos*v.X - sin*v.Y,
		Y: sin*v.X + cos*v.Y,
	}
}

// Radians converts a discrete rotation to an angle in radians.
func (r Rotation) Radians() float64 {
	return float64(r) * math.Pi / 3
}
