package ephemeris

import (
	"math"
	"testing"
	"time"
)

// Paris, the physical install location.
const (
	parisLat = 48.860536
	parisLon = 2.332237
)

func TestJulianDayNumber(t *testing.T) {
	tests := []struct {
		name             string
		year, month, day int
		want             int
	}{
		{"J2000.0 epoch", 2000, 1, 1, 2451545},
		{"Unix epoch", 1970, 1, 1, 2440588},
		{"install winter day", 2019, 1, 27, 2458511},
		{"end of 2024", 2024, 12, 31, 2460676},
		{"before March rollover", 2019, 2, 28, 2458543},
		{"after March rollover", 2019, 3, 1, 2458544},
		{"leap day", 2016, 2, 29, 2457448},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := JulianDayNumber(tt.year, tt.month, tt.day)
			if got != tt.want {
				t.Errorf("JulianDayNumber(%d, %d, %d) = %d, want %d", tt.year, tt.month, tt.day, got, tt.want)
			}
		})
	}
}

func TestSolarPosition_ParisNoon(t *testing.T) {
	// Winter noon in Paris: sun above the horizon, almost due south.
	pos := SolarPosition(parisLat, parisLon, time.Date(2019, 1, 27, 12, 0, 0, 0, time.UTC))

	if pos.Elevation <= 0 {
		t.Errorf("elevation = %.2f°, want > 0 at noon", deg(pos.Elevation))
	}
	azDeg := deg(pos.Azimuth)
	if azDeg < 0 {
		azDeg += 360
	}
	if math.Abs(azDeg-180) > 10 {
		t.Errorf("azimuth = %.2f°, want within 10° of south", azDeg)
	}
}

func TestSolarPosition_ParisMidnight(t *testing.T) {
	// Midnight: sun well below the horizon, which drives the moon marker.
	pos := SolarPosition(parisLat, parisLon, time.Date(2019, 1, 27, 0, 0, 0, 0, time.UTC))

	if pos.Elevation >= 0 {
		t.Errorf("elevation = %.2f°, want < 0 at midnight", deg(pos.Elevation))
	}
}

func TestSolarPosition_KnownValues(t *testing.T) {
	tests := []struct {
		name      string
		time      time.Time
		wantAzDeg float64
		wantElDeg float64
	}{
		{
			name:      "winter noon",
			time:      time.Date(2019, 1, 27, 12, 0, 0, 0, time.UTC),
			wantAzDeg: 179.645, wantElDeg: 22.682,
		},
		{
			name:      "winter morning",
			time:      time.Date(2019, 1, 27, 8, 30, 0, 0, time.UTC),
			wantAzDeg: 130.121, wantElDeg: 7.887,
		},
		{
			name:      "winter evening",
			time:      time.Date(2019, 1, 27, 17, 0, 0, 0, time.UTC),
			wantAzDeg: -113.328, wantElDeg: -4.326,
		},
		{
			name:      "summer solstice noon",
			time:      time.Date(2019, 6, 21, 12, 0, 0, 0, time.UTC),
			wantAzDeg: -174.901, wantElDeg: 64.506,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			pos := SolarPosition(parisLat, parisLon, tt.time)
			if math.Abs(deg(pos.Azimuth)-tt.wantAzDeg) > 0.1 {
				t.Errorf("azimuth = %.3f°, want %.3f°", deg(pos.Azimuth), tt.wantAzDeg)
			}
			if math.Abs(deg(pos.Elevation)-tt.wantElDeg) > 0.1 {
				t.Errorf("elevation = %.3f°, want %.3f°", deg(pos.Elevation), tt.wantElDeg)
			}
		})
	}
}

func TestSolarPosition_DayNightCycle(t *testing.T) {
	// Over one winter day the sun must rise and set exactly once.
	var transitions int
	prevUp := false
	for hour := 0; hour < 24; hour++ {
		pos := SolarPosition(parisLat, parisLon, time.Date(2019, 1, 27, hour, 0, 0, 0, time.UTC))
		up := pos.Elevation > 0
		if hour > 0 && up != prevUp {
			transitions++
		}
		prevUp = up
	}
	if transitions != 2 {
		t.Errorf("day/night transitions = %d, want 2", transitions)
	}
}

func TestSolarPosition_AzimuthRange(t *testing.T) {
	for hour := 0; hour < 24; hour++ {
		for _, min := range []int{0, 17, 30, 49} {
			pos := SolarPosition(parisLat, parisLon, time.Date(2024, 6, 1, hour, min, 0, 0, time.UTC))
			if pos.Azimuth <= -math.Pi-1e-9 || pos.Azimuth > math.Pi+1e-9 {
				t.Fatalf("azimuth %.4f rad outside (-π, π] at %02d:%02d", pos.Azimuth, hour, min)
			}
			if pos.Elevation < -math.Pi/2-1e-9 || pos.Elevation > math.Pi/2+1e-9 {
				t.Fatalf("elevation %.4f rad outside [-π/2, π/2] at %02d:%02d", pos.Elevation, hour, min)
			}
		}
	}
}

func TestGreenwichSiderealHours_Range(t *testing.T) {
	for _, tm := range []time.Time{
		time.Date(2000, 1, 1, 12, 0, 0, 0, time.UTC),
		time.Date(2019, 1, 27, 0, 0, 0, 0, time.UTC),
		time.Date(2030, 10, 15, 6, 45, 0, 0, time.UTC),
	} {
		h := GreenwichSiderealHours(tm)
		if h < 0 || h >= 24 {
			t.Errorf("GreenwichSiderealHours(%v) = %g, want [0, 24)", tm, h)
		}
	}
}

func deg(rad float64) float64 {
	return rad * 180 / math.Pi
}
