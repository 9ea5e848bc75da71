// Package scene composes the frame's light scenes: the ambient wash with its
// river highlights, the solar sun/moon marker refreshed on a fixed interval,
// the hard-pixel clock, and the startup ramp.
//
// The composer owns the pixel buffers and serializes every scene entry point
// with one mutex. Manual multi-step animations (Demo, RunClock) cancel the
// periodic scheduler before touching the buffers and re-arm it afterwards,
// so the periodic refresh and a manual animation never race on the same
// frame.
package scene

import (
	"fmt"
	"log/slog"
	"math"
	"sync"
	"sync/atomic"
	"time"

	"github.com/marcwingduck/solar-map/internal/config"
	"github.com/marcwingduck/solar-map/internal/ephemeris"
	"github.com/marcwingduck/solar-map/internal/frame"
	"github.com/marcwingduck/solar-map/internal/geom"
	"github.com/marcwingduck/solar-map/internal/metrics"
	"github.com/marcwingduck/solar-map/internal/pixel"
)

// Scene modes reported in Status.
const (
	ModeIdle  = "idle"
	ModeSolar = "solar"
	ModeDemo  = "demo"
	ModeClock = "clock"
)

// Status is a snapshot of the composer's last completed scene.
type Status struct {
	Mode         string    `json:"mode"`
	UpdatedAt    time.Time `json:"updated_at"`
	AzimuthDeg   float64   `json:"azimuth_degrees"`
	ElevationDeg float64   `json:"elevation_degrees"`
	Marker       string    `json:"marker,omitempty"`
	MarkerIndex  int       `json:"marker_index"`
}

// Composer owns the pixel buffers and builds scenes on them.
type Composer struct {
	mu     sync.Mutex
	buf    *pixel.Buffer
	layout frame.Layout
	loc    config.LocationConfig
	cfg    config.SceneConfig
	sched  *Scheduler
	logger *slog.Logger

	// now is the wall clock; overridable in tests.
	now func() time.Time

	status atomic.Pointer[Status]
}

// NewComposer wires a composer over the given buffer and frame layout.
func NewComposer(buf *pixel.Buffer, layout frame.Layout, loc config.LocationConfig, cfg config.SceneConfig, logger *slog.Logger) *Composer {
	c := &Composer{
		buf:    buf,
		layout: layout,
		loc:    loc,
		cfg:    cfg,
		sched:  NewScheduler(logger),
		logger: logger,
		now:    time.Now,
	}
	c.status.Store(&Status{Mode: ModeIdle, MarkerIndex: -1})
	return c
}

// Status returns the last completed scene snapshot.
func (c *Composer) Status() *Status {
	return c.status.Load()
}

// SchedulerState reports the periodic refresh lifecycle.
func (c *Composer) SchedulerState() SchedulerState {
	return c.sched.State()
}

// Frame returns the LED count and a copy of the currently displayed frame in
// wire order.
func (c *Composer) Frame() (int, []byte) {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.buf.Len(), c.buf.Snapshot()
}

// Start renders the initial solar scene and arms the periodic refresh.
func (c *Composer) Start() error {
	if err := c.RefreshSolar(c.now()); err != nil {
		return err
	}
	return c.arm()
}

// Stop cancels the periodic refresh and waits for an in-flight one.
func (c *Composer) Stop() {
	c.sched.Cancel()
}

func (c *Composer) arm() error {
	return c.sched.Schedule(c.cfg.RefreshInterval, func() {
		if err := c.RefreshSolar(c.now()); err != nil {
			c.logger.Error("periodic solar refresh failed", "error", err)
		}
	})
}

// ambientLocked writes the base look into the target buffer: a uniform
// warm-white wash plus the fixed river windows.
func (c *Composer) ambientLocked() {
	c.buf.Fill(c.cfg.Ambient)
	for _, r := range c.cfg.Rivers {
		c.buf.PaintArea(r.Center, r.Size, c.cfg.RiverColor, c.cfg.Ambient, false)
	}
}

// Ambient transitions the ring to the plain ambient scene.
func (c *Composer) Ambient() error {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.ambientLocked()
	return c.buf.Transition(c.cfg.TransitionSteps, c.cfg.TransitionDelay, nil)
}

// RefreshSolar rebuilds the solar scene for the given time and transitions the
// ring to it: ambient base, then a sun marker while the sun is above the
// horizon or a moon marker below it. A degenerate ray leaves the marker out
// for this frame.
func (c *Composer) RefreshSolar(t time.Time) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.refreshSolarLocked(t, c.cfg.TransitionSteps, ModeSolar)
}

func (c *Composer) refreshSolarLocked(t time.Time, steps int, mode string) error {
	start := time.Now()

	c.ambientLocked()
	st := c.paintMarkerLocked(t)

	if err := c.buf.Transition(steps, c.cfg.TransitionDelay, nil); err != nil {
		return fmt.Errorf("solar transition: %w", err)
	}

	st.Mode = mode
	st.UpdatedAt = t
	c.status.Store(st)
	metrics.RecordRefresh(time.Since(start))
	metrics.SetSolarPosition(st.AzimuthDeg, st.ElevationDeg)
	return nil
}

// paintMarkerLocked computes the solar position for t and paints the sun or
// moon window into the target buffer. Returns the resulting status with
// MarkerIndex -1 when the marker was skipped.
func (c *Composer) paintMarkerLocked(t time.Time) *Status {
	pos := ephemeris.SolarPosition(c.loc.Latitude, c.loc.Longitude, t.UTC())
	st := &Status{
		AzimuthDeg:   pos.Azimuth * 180 / math.Pi,
		ElevationDeg: pos.Elevation * 180 / math.Pi,
		MarkerIndex:  -1,
	}

	idx, ok := c.layout.AngleToIndex(geom.NorthClockwiseToMath(pos.Azimuth))
	if !ok {
		metrics.IncMarkerSkipped()
		c.logger.Warn("marker skipped, no frame intersection",
			"azimuth_deg", st.AzimuthDeg,
			"elevation_deg", st.ElevationDeg,
		)
		return st
	}

	if pos.Elevation > 0 {
		c.buf.PaintArea(idx, c.cfg.MarkerSize, c.cfg.SunPrimary, c.cfg.SunSecondary, false)
		st.Marker = "sun"
	} else {
		c.buf.PaintArea(idx, c.cfg.MarkerSize, c.cfg.MoonPrimary, c.cfg.MoonSecondary, false)
		st.Marker = "moon"
	}
	st.MarkerIndex = idx
	metrics.SetMarkerIndex(idx)
	return st
}

// Clock renders the hour, minute and second hands for t as three hard pixels
// on a dark ring and pushes the frame immediately, without interpolation.
// The hour hand honors the configured hour offset. A hand whose angle finds
// no frame intersection is left out.
func (c *Composer) Clock(t time.Time) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.clockLocked(t)
}

func (c *Composer) clockLocked(t time.Time) error {
	h, m, s := t.Hour(), t.Minute(), t.Second()

	hourAngle := (float64((h+c.cfg.HourOffset)%12) + float64(m)/60) / 12 * 2 * math.Pi
	minuteAngle := float64(m) / 60 * 2 * math.Pi
	secondAngle := float64(s) / 60 * 2 * math.Pi

	c.buf.Clear()

	// Painted faintest to boldest so overlapping hands keep the hour visible.
	hands := []struct {
		angle float64
		color pixel.Color
	}{
		{secondAngle, c.cfg.Ambient},
		{minuteAngle, c.cfg.RiverColor},
		{hourAngle, c.cfg.HourHandColor},
	}
	for _, hand := range hands {
		if idx, ok := c.layout.CompassToIndex(hand.angle); ok {
			c.buf.Set(idx, hand.color, true)
		}
	}

	if err := c.buf.Flush(); err != nil {
		return fmt.Errorf("clock frame write: %w", err)
	}
	return nil
}

// RunClock shows the live clock for n ticks of the given duration, then
// transitions back to the last target scene. The periodic refresh is
// cancelled for the duration and re-armed afterwards, a failed strip write
// included.
func (c *Composer) RunClock(n int, tick time.Duration) error {
	c.sched.Cancel()

	err := func() error {
		c.mu.Lock()
		defer c.mu.Unlock()

		c.status.Store(&Status{Mode: ModeClock, UpdatedAt: c.now(), MarkerIndex: -1})
		for i := 0; i < n; i++ {
			if err := c.clockLocked(c.now()); err != nil {
				return err
			}
			time.Sleep(tick)
		}
		return c.buf.Transition(c.cfg.TransitionSteps, c.cfg.TransitionDelay, nil)
	}()

	armErr := c.arm()
	if err != nil {
		return err
	}
	return armErr
}

// Demo sweeps the solar scene through a full simulated day in ten-minute
// steps with short transitions, then settles back into ambient. The periodic
// refresh is cancelled for the duration and re-armed afterwards, a failed
// strip write included.
func (c *Composer) Demo() error {
	const demoSteps = 3

	c.sched.Cancel()

	err := func() error {
		c.mu.Lock()
		defer c.mu.Unlock()

		c.status.Store(&Status{Mode: ModeDemo, UpdatedAt: c.now(), MarkerIndex: -1})

		c.ambientLocked()
		if err := c.buf.Transition(c.cfg.TransitionSteps, c.cfg.TransitionDelay, nil); err != nil {
			return err
		}

		day := time.Date(2019, time.January, 27, 0, 0, 0, 0, time.UTC)
		for hour := 0; hour < 24; hour++ {
			for minute := 0; minute < 60; minute += 10 {
				t := day.Add(time.Duration(hour)*time.Hour + time.Duration(minute)*time.Minute)
				if err := c.refreshSolarLocked(t, demoSteps, ModeDemo); err != nil {
					return err
				}
			}
		}

		c.ambientLocked()
		return c.buf.Transition(c.cfg.TransitionSteps, c.cfg.TransitionDelay, nil)
	}()

	armErr := c.arm()
	if err != nil {
		return err
	}
	return armErr
}

// Ramp pacing, tuned for the physical strip.
const (
	rampSeedPause = 200 * time.Millisecond
	rampStepPause = 10 * time.Millisecond
	rampFadePause = time.Millisecond
	rampHoldPause = time.Second
	rampFadeSteps = 16
)

// RampUp runs the startup sweep: a bright seed window on the south edge, a
// symmetric clockwise/counterclockwise dim fill around the ring, a fade-in
// across the north edge, a short hold, then the transition into the ambient
// scene.
func (c *Composer) RampUp() error {
	c.mu.Lock()
	defer c.mu.Unlock()

	dim := pixel.Color{0, 0, 0, 5}
	bright := pixel.Color{0, 0, 0, 20}

	c.ambientLocked()

	if err := c.buf.Reset(); err != nil {
		return fmt.Errorf("ramp reset: %w", err)
	}

	center := c.layout.SideCenter(geom.SideSouth)
	size := c.layout.Config.Cols + 2*c.layout.Config.Rows
	d := (size + 1) % 2

	c.buf.PaintArea(center, c.layout.Config.Cols/3, bright, pixel.Off, true)
	if err := c.buf.Flush(); err != nil {
		return fmt.Errorf("ramp seed write: %w", err)
	}
	time.Sleep(rampSeedPause)

	for i := 0; i < size/2; i++ {
		c.buf.Set(center-d-i, dim, true)
		c.buf.Set(center+i, dim, true)
		if err := c.buf.Flush(); err != nil {
			return fmt.Errorf("ramp sweep write: %w", err)
		}
		time.Sleep(rampStepPause)
	}

	north := c.layout.SideCenter(geom.SideNorth)
	for i := 0; i < rampFadeSteps; i++ {
		color := pixel.Lerp(pixel.Off, bright, float64(i+1)/rampFadeSteps)
		c.buf.PaintArea(north, c.layout.Config.Cols, color, pixel.Off, true)
		if err := c.buf.Flush(); err != nil {
			return fmt.Errorf("ramp fade write: %w", err)
		}
		time.Sleep(rampFadePause)
	}

	time.Sleep(rampHoldPause)
	return c.buf.Transition(c.cfg.TransitionSteps, c.cfg.TransitionDelay, nil)
}
