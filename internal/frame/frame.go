// Package frame maps directions to LED indices on the closed ring that runs
// clockwise around the physical frame. The ring starts at the south-east
// corner, so the four intercardinal indices partition it into the south,
// west, north, and east runs.
package frame

import (
	"fmt"
	"math"

	"github.com/marcwingduck/solar-map/internal/geom"
)

// Config bundles the physical and geometric constants of one install.
// Everything here is measured or calibrated on the rig, never derived in
// algorithm code.
type Config struct {
	Cols        int     // LEDs along each horizontal side
	Rows        int     // LEDs along each vertical side
	WidthCm     float64 // frame width in centimeters
	HeightCm    float64 // frame height in centimeters
	LEDsPerCm   float64 // linear LED density
	IndexOffset int     // calibration shift applied after rounding
}

// Layout is the derived, immutable ring geometry. Build one at startup with
// NewLayout and thread it through the mapper and scene code.
type Layout struct {
	Config

	N int // total LEDs on the ring

	// Intercardinal indices, walking clockwise from the south-east corner.
	SouthEast, SouthWest, NorthWest, NorthEast int

	rect geom.Rect
}

// NewLayout validates the configuration and derives the ring layout.
func NewLayout(cfg Config) (Layout, error) {
	if cfg.Cols <= 0 || cfg.Rows <= 0 {
		return Layout{}, fmt.Errorf("invalid side densities: cols=%d rows=%d", cfg.Cols, cfg.Rows)
	}
	if cfg.WidthCm <= 0 || cfg.HeightCm <= 0 {
		return Layout{}, fmt.Errorf("invalid frame dimensions: %gx%g cm", cfg.WidthCm, cfg.HeightCm)
	}
	if cfg.LEDsPerCm <= 0 {
		return Layout{}, fmt.Errorf("invalid LED density: %g per cm", cfg.LEDsPerCm)
	}

	l := Layout{
		Config:    cfg,
		N:         2*cfg.Cols + 2*cfg.Rows,
		SouthEast: 0,
		SouthWest: cfg.Cols,
		NorthWest: cfg.Cols + cfg.Rows,
		NorthEast: 2*cfg.Cols + cfg.Rows,
		rect:      geom.Rect{W: cfg.WidthCm, H: cfg.HeightCm},
	}
	return l, nil
}

// Wrap reduces any index into [0, N).
func (l Layout) Wrap(i int) int {
	i %= l.N
	if i < 0 {
		i += l.N
	}
	return i
}

// Clamp forces an index into [0, N-1].
func (l Layout) Clamp(i int) int {
	if i < 0 {
		return 0
	}
	if i >= l.N {
		return l.N - 1
	}
	return i
}

// SideCenter returns the LED index at the middle of a side's run.
func (l Layout) SideCenter(s geom.Side) int {
	switch s {
	case geom.SideNorth:
		return (l.NorthWest + l.NorthEast) / 2
	case geom.SideEast:
		return (l.NorthEast + l.N) / 2
	case geom.SideSouth:
		return (l.SouthEast + l.SouthWest) / 2
	default:
		return (l.SouthWest + l.NorthWest) / 2
	}
}

// SideSpan returns the half-open index range [start, end) of a side's run,
// walking clockwise.
func (l Layout) SideSpan(s geom.Side) (start, end int) {
	switch s {
	case geom.SideNorth:
		return l.NorthWest, l.NorthEast
	case geom.SideEast:
		return l.NorthEast, l.N
	case geom.SideSouth:
		return l.SouthEast, l.SouthWest
	default:
		return l.SouthWest, l.NorthWest
	}
}

// PerimeterDistance unwinds a point on the frame boundary into a clockwise
// distance in centimeters. The reference point (distance 0) sits half a width
// before the south-east corner, i.e. at the south edge midpoint; the per-side
// half-dimension offsets are calibration constants for this rig.
func (l Layout) PerimeterDistance(side geom.Side, x, y float64) float64 {
	w, h := l.WidthCm, l.HeightCm
	switch side {
	case geom.SideSouth:
		return -x + w/2
	case geom.SideWest:
		return w + y + h/2
	case geom.SideNorth:
		return w + h + x + w/2
	default: // east
		return 2*w + h - y + h/2
	}
}

// AngleToIndex maps a math-convention angle to the LED index where the
// corresponding ray leaves the frame. ok is false only when the ray
// intersection degenerates; callers skip drawing for that frame.
func (l Layout) AngleToIndex(angle float64) (int, bool) {
	side, x, y, ok := l.rect.IntersectRay(angle)
	if !ok {
		return 0, false
	}
	cm := l.PerimeterDistance(side, x, y)
	i := int(math.Round(cm*l.LEDsPerCm)) + l.IndexOffset
	return l.Clamp(i), true
}

// CompassToIndex maps a north-clockwise compass bearing to an LED index.
func (l Layout) CompassToIndex(bearing float64) (int, bool) {
	return l.AngleToIndex(geom.NorthClockwiseToMath(bearing))
}
