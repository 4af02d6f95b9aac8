// Package stack implements the gameplay core of the stack tower: an active
// tile oscillates over the tower, a tap drops it, and the overlap with the
// tile below decides whether the tower survives, shrinks or grows back.
//
// The core is single-threaded and frame driven. Engine works on explicit
// SessionState values; Game wraps an Engine with the two host entry points
// (Tick and OnTap) and forwards outcomes to physics and UI collaborators.
package stack

import "math"

// Axis is a horizontal axis a tile can move along.
type Axis int

const (
	AxisX Axis = iota
	AxisZ
)

// Other returns the perpendicular horizontal axis.
func (a Axis) Other() Axis {
	if a == AxisX {
		return AxisZ
	}
	return AxisX
}

// String returns "x" or "z".
func (a Axis) String() string {
	if a == AxisZ {
		return "z"
	}
	return "x"
}

// Vec3 is a point or extent in tower space. Y grows upward, one unit per level.
type Vec3 struct {
	X, Y, Z float64
}

// On returns the component along a horizontal axis.
func (v Vec3) On(a Axis) float64 {
	if a == AxisZ {
		return v.Z
	}
	return v.X
}

// With returns a copy of v with the component along a replaced.
func (v Vec3) With(a Axis, value float64) Vec3 {
	if a == AxisZ {
		v.Z = value
	} else {
		v.X = value
	}
	return v
}

// Bounds is the footprint inherited by every newly spawned tile.
type Bounds struct {
	Width float64 // Extent along X
	Depth float64 // Extent along Z
}

// On returns the extent along a horizontal axis.
func (b Bounds) On(a Axis) float64 {
	if a == AxisZ {
		return b.Depth
	}
	return b.Width
}

// With returns a copy of b with the extent along a replaced.
func (b Bounds) With(a Axis, value float64) Bounds {
	if a == AxisZ {
		b.Depth = value
	} else {
		b.Width = value
	}
	return b
}

// Alive reports whether both extents are still positive.
func (b Bounds) Alive() bool {
	return b.Width > 0 && b.Depth > 0
}

// Size returns the tile scale for this footprint (height is always one level).
func (b Bounds) Size() Vec3 {
	return Vec3{X: b.Width, Y: 1, Z: b.Depth}
}

func lerp(a, b, t float64) float64 {
	return a + (b-a)*t
}

func sign(v float64) float64 {
	if v < 0 {
		return -1
	}
	return 1
}

func abs(v float64) float64 {
	return math.Abs(v)
}
