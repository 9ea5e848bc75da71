// Package geom implements the 2D homogeneous-coordinate primitives used to
// map compass directions onto the physical frame: lines built and intersected
// via the 3-vector cross product, plus the angle-convention conversions
// between compass bearings and math-convention radians.
package geom

import "math"

// Vec3 is a 3-vector. It represents either a 2D point (x, y, 1), a line
// (a, b, c) satisfying a·x + b·y + c = 0, or a homogeneous intersection
// point (x, y, w).
type Vec3 struct {
	X, Y, Z float64
}

// Cross returns the cross product a × b. The line through two points and the
// intersection point of two lines are both cross products in homogeneous
// coordinates.
func Cross(a, b Vec3) Vec3 {
	return Vec3{
		X: a.Y*b.Z - a.Z*b.Y,
		Y: a.Z*b.X - a.X*b.Z,
		Z: a.X*b.Y - a.Y*b.X,
	}
}

// WrapToPi reduces an angle to (-π, π]. The atan2(sin, cos) idiom stays
// numerically correct at the branch boundaries where modulo arithmetic
// would flip sign.
func WrapToPi(a float64) float64 {
	return math.Atan2(math.Sin(a), math.Cos(a))
}

// WrapTo2Pi reduces an angle to [0, 2π).
func WrapTo2Pi(a float64) float64 {
	return math.Atan2(math.Sin(a-math.Pi), math.Cos(a-math.Pi)) + math.Pi
}

// NorthClockwiseToMath converts a compass bearing (0 = north, clockwise) to
// the math convention used by the ray construction (counter-clockwise from
// east), including the 90° offset between north and the +x axis.
func NorthClockwiseToMath(a float64) float64 {
	ccw := 2*math.Pi - a
	return WrapToPi(ccw + math.Pi/2)
}
