package geom

import (
	"math"
	"testing"
)

// Frame dimensions of the physical install, reused across tests.
const (
	testW = 89.5
	testH = 60.5
)

func TestIntersectRay_Cardinals(t *testing.T) {
	r := Rect{W: testW, H: testH}

	tests := []struct {
		name     string
		angle    float64 // math convention
		wantSide Side
		wantX    float64
		wantY    float64
	}{
		{"up hits north", math.Pi / 2, SideNorth, 0, testH / 2},
		{"right hits east", 0, SideEast, testW / 2, 0},
		{"down hits south", -math.Pi / 2, SideSouth, 0, -testH / 2},
		{"left hits west", math.Pi, SideWest, -testW / 2, 0},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			side, x, y, ok := r.IntersectRay(tt.angle)
			if !ok {
				t.Fatalf("IntersectRay(%g) found no edge", tt.angle)
			}
			if side != tt.wantSide {
				t.Errorf("side = %v, want %v", side, tt.wantSide)
			}
			if math.Abs(x-tt.wantX) > 1e-6 || math.Abs(y-tt.wantY) > 1e-6 {
				t.Errorf("point = (%g, %g), want (%g, %g)", x, y, tt.wantX, tt.wantY)
			}
		})
	}
}

func TestIntersectRay_PointOnBoundary(t *testing.T) {
	r := Rect{W: testW, H: testH}

	// Sweep the full circle: every ray from the interior must cross exactly
	// one edge, and the returned point must lie on the rectangle boundary.
	for deg := 0; deg < 360; deg++ {
		angle := float64(deg) * math.Pi / 180
		side, x, y, ok := r.IntersectRay(angle)
		if !ok {
			t.Fatalf("no intersection at %d°", deg)
		}

		w2, h2 := testW/2, testH/2
		onVertical := math.Abs(math.Abs(x)-w2) < 1e-6 && y >= -h2-1e-3 && y <= h2+1e-3
		onHorizontal := math.Abs(math.Abs(y)-h2) < 1e-6 && x >= -w2-1e-3 && x <= w2+1e-3
		if !onVertical && !onHorizontal {
			t.Errorf("at %d° (side %v): point (%g, %g) not on boundary", deg, side, x, y)
		}
	}
}

func TestIntersectRay_SideMatchesDirection(t *testing.T) {
	r := Rect{W: testW, H: testH}

	// A ray into the first quadrant at a shallow angle must exit east,
	// at a steep angle north.
	side, _, _, ok := r.IntersectRay(0.1)
	if !ok || side != SideEast {
		t.Errorf("shallow ray: side = %v ok = %v, want east", side, ok)
	}
	side, _, _, ok = r.IntersectRay(math.Pi/2 - 0.1)
	if !ok || side != SideNorth {
		t.Errorf("steep ray: side = %v ok = %v, want north", side, ok)
	}
}

func TestSideString(t *testing.T) {
	want := map[Side]string{
		SideNorth: "north",
		SideEast:  "east",
		SideSouth: "south",
		SideWest:  "west",
		Side(42):  "unknown",
	}
	for s, str := range want {
		if s.String() != str {
			t.Errorf("Side(%d).String() = %q, want %q", int(s), s.String(), str)
		}
	}
}
