package geom

import "math"

// Side names one edge of the frame rectangle. The numeric order matches the
// order in which IntersectRay tests the edges.
type Side int

const (
	SideNorth Side = iota
	SideEast
	SideSouth
	SideWest
)

func (s Side) String() string {
	switch s {
	case SideNorth:
		return "north"
	case SideEast:
		return "east"
	case SideSouth:
		return "south"
	case SideWest:
		return "west"
	}
	return "unknown"
}

// intersectEps rejects near-parallel intersections and pads the edge bounds
// so points that land exactly on a corner are not lost to rounding.
const intersectEps = 1e-3

// Rect is the physical frame rectangle, centered at the origin, with width
// along x and height along y (centimeters).
type Rect struct {
	W, H float64
}

// IntersectRay builds a ray from the origin at the given math-convention
// angle and returns the first frame edge it crosses along with the Cartesian
// intersection point. Edges are tested in a fixed order (north, east, south,
// west); near-parallel lines, coincident lines, and intersections behind the
// ray origin are rejected. ok is false only for degenerate geometry.
func (r Rect) IntersectRay(angle float64) (side Side, x, y float64, ok bool) {
	ray := Cross(Vec3{0, 0, 1}, Vec3{math.Cos(angle), math.Sin(angle), 1})

	w2, h2 := r.W/2, r.H/2
	corners := [4]Vec3{
		{-w2, h2, 1},  // north west
		{w2, h2, 1},   // north east
		{w2, -h2, 1},  // south east
		{-w2, -h2, 1}, // south west
	}

	for i := 0; i < 4; i++ {
		edge := Cross(corners[i], corners[(i+1)%4])
		p := Cross(ray, edge)
		if math.Abs(p.Z) < intersectEps {
			// Parallel lines.
			continue
		}
		if math.Abs(p.X) < intersectEps && math.Abs(p.Y) < intersectEps {
			// Coincident lines.
			continue
		}
		if p.Z > 0 {
			// Intersection behind the ray origin.
			continue
		}
		px, py := p.X/p.Z, p.Y/p.Z
		if -w2-intersectEps < px && px < w2+intersectEps &&
			-h2-intersectEps < py && py < h2+intersectEps {
			return Side(i), px, py, true
		}
	}
	return 0, 0, 0, false
}
