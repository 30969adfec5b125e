// Package surface projects normalized coordinates onto a target surface.
package surface

import "math"

// Size is the pixel size of the target surface
type Size struct {
	Width  float64
	Height float64
}

// Point is a position in surface pixels
type Point struct {
	X float64
	Y float64
}

// Map scales a normalized (x, y) onto s. Values outside [0,1] are not
// clamped and project outside the surface.
func (s Size) Map(x, y float64) Point {
	return Point{X: x * s.Width, Y: y * s.Height}
}

// Map is the free-function form of Size.Map.
func Map(x, y float64, s Size) Point {
	return s.Map(x, y)
}

// Finite reports whether both coordinates are finite.
func Finite(x, y float64) bool {
	return !math.IsNaN(x) && !math.IsNaN(y) && !math.IsInf(x, 0) && !math.IsInf(y, 0)
}

// TruncInt truncates v toward zero, saturating at the int range. NaN gives 0.
func TruncInt(v float64) int {
	switch {
	case math.IsNaN(v):
		return 0
	case v >= math.MaxInt:
		return math.MaxInt
	case v <= math.MinInt:
		return math.MinInt
	}
	return int(v)
}

// TruncInt32 truncates v toward zero, saturating at the int32 range. NaN gives 0.
func TruncInt32(v float64) int32 {
	switch {
	case math.IsNaN(v):
		return 0
	case v >= math.MaxInt32:
		return math.MaxInt32
	case v <= math.MinInt32:
		return math.MinInt32
	}
	return int32(v)
}
