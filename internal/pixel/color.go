// Package pixel owns the LED ring's double buffer: a current buffer that is
// what the strip physically shows, and a target buffer describing the next
// steady state. All visible changes go through bounded-step interpolation
// from current toward target, so the frame never flicks abruptly.
package pixel

// Channels per LED. The strip wants its bytes in GRBW order; that order is a
// wire convention and carries no meaning here.
const Channels = 4

// Color is one LED's channel values in wire order (green, red, blue, white).
type Color [Channels]byte

// Predefined colors of the install.
var (
	Off = Color{}
)

// clamp01 bounds an interpolation parameter to [0, 1].
func clamp01(t float64) float64 {
	if t < 0 {
		return 0
	}
	if t > 1 {
		return 1
	}
	return t
}

// lerpChannel interpolates a single channel value. The result is truncated
// toward zero, matching the fixed-point behavior the rig was calibrated with.
func lerpChannel(a, b byte, t float64) byte {
	return byte(int(float64(a) + clamp01(t)*(float64(b)-float64(a))))
}

// Lerp interpolates between two colors. Lerp(a, b, 0) == a and
// Lerp(a, b, 1) == b exactly.
func Lerp(a, b Color, t float64) Color {
	var c Color
	for i := 0; i < Channels; i++ {
		c[i] = lerpChannel(a[i], b[i], t)
	}
	return c
}
