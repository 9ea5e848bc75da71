package pixel

import (
	"fmt"
	"math"
	"time"
)

// Driver is the hardware boundary: it shifts a complete frame (N×4 bytes in
// wire order) out to the LED strip and returns once the strip is updated or
// the frame is queued.
type Driver interface {
	Write(frame []byte) error
	Close() error
}

// Buffer is the double-buffered pixel state of one LED ring.
// It is not safe for concurrent use; the scene composer serializes access.
type Buffer struct {
	n       int
	current []byte
	target  []byte
	drv     Driver
}

// NewBuffer creates a zeroed double buffer for n LEDs writing to drv.
func NewBuffer(n int, drv Driver) (*Buffer, error) {
	if n <= 0 {
		return nil, fmt.Errorf("invalid LED count %d", n)
	}
	return &Buffer{
		n:       n,
		current: make([]byte, n*Channels),
		target:  make([]byte, n*Channels),
		drv:     drv,
	}, nil
}

// Len returns the number of LEDs on the ring.
func (b *Buffer) Len() int { return b.n }

// Current returns the color currently shown at LED i.
func (b *Buffer) Current(i int) Color {
	var c Color
	copy(c[:], b.current[b.offset(i):])
	return c
}

// Target returns the target color of LED i.
func (b *Buffer) Target(i int) Color {
	var c Color
	copy(c[:], b.target[b.offset(i):])
	return c
}

// Snapshot returns a copy of the current frame in wire order.
func (b *Buffer) Snapshot() []byte {
	out := make([]byte, len(b.current))
	copy(out, b.current)
	return out
}

// Fill sets every target pixel to the given color.
func (b *Buffer) Fill(c Color) {
	for i := 0; i < b.n; i++ {
		copy(b.target[i*Channels:], c[:])
	}
}

// Set writes a single pixel. direct selects the current buffer (visible on
// the next hardware write) instead of the target.
func (b *Buffer) Set(i int, c Color, direct bool) {
	off := b.offset(i)
	if direct {
		copy(b.current[off:], c[:])
	} else {
		copy(b.target[off:], c[:])
	}
}

// Clear zeroes the current buffer without touching the strip.
func (b *Buffer) Clear() {
	for i := range b.current {
		b.current[i] = 0
	}
}

// Reset zeroes the current buffer and pushes the dark frame to the strip.
func (b *Buffer) Reset() error {
	b.Clear()
	return b.drv.Write(b.current)
}

// Flush pushes the current buffer to the strip as-is.
func (b *Buffer) Flush() error {
	return b.drv.Write(b.current)
}

// PaintArea paints a symmetric window of size pixels centered at center
// (ring-wrapped), fading from primary at the center to secondary at the
// window edge. For even sizes the gradient centers between two pixels.
// direct selects the current buffer instead of the target. Returns the LED
// indices that were touched.
func (b *Buffer) PaintArea(center, size int, primary, secondary Color, direct bool) []int {
	if size <= 0 {
		return nil
	}

	// Between-pixel center correction for even window sizes.
	d := 0.5
	if size%2 != 0 {
		d = 0
	}

	half := size / 2
	touched := make([]int, 0, size)
	for i := center - half; i < center+half+size%2; i++ {
		t := math.Abs((float64(center-i) - d) / float64(size))
		c := Lerp(primary, secondary, t)
		idx := b.wrap(i)
		b.Set(idx, c, direct)
		touched = append(touched, idx)
	}
	return touched
}

// Transition moves the current buffer toward the target over the given number
// of steps, writing each intermediate frame to the strip and pacing with
// delay between frames. A nil or empty indices slice transitions the whole
// ring; otherwise only the listed LEDs move. steps=1 snaps current to target
// exactly.
func (b *Buffer) Transition(steps int, delay time.Duration, indices []int) error {
	if steps <= 0 {
		steps = 1
	}

	for s := 0; s < steps; s++ {
		t := float64(s+1) / float64(steps)
		if len(indices) == 0 {
			for j := range b.current {
				b.current[j] = lerpChannel(b.current[j], b.target[j], t)
			}
		} else {
			for _, i := range indices {
				off := b.offset(i)
				for k := off; k < off+Channels; k++ {
					b.current[k] = lerpChannel(b.current[k], b.target[k], t)
				}
			}
		}
		if err := b.drv.Write(b.current); err != nil {
			return fmt.Errorf("frame write at step %d/%d: %w", s+1, steps, err)
		}
		if delay > 0 {
			time.Sleep(delay)
		}
	}
	return nil
}

func (b *Buffer) wrap(i int) int {
	i %= b.n
	if i < 0 {
		i += b.n
	}
	return i
}

func (b *Buffer) offset(i int) int {
	return b.wrap(i) * Channels
}
