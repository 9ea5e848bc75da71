package geom

import (
	"math"
	"testing"
)

func TestCross_LineThroughPoints(t *testing.T) {
	// Line through (0,0) and (1,1) is x - y = 0, up to scale.
	l := Cross(Vec3{0, 0, 1}, Vec3{1, 1, 1})

	// Both points must satisfy a·x + b·y + c = 0.
	for _, p := range []Vec3{{0, 0, 1}, {1, 1, 1}} {
		v := l.X*p.X + l.Y*p.Y + l.Z*p.Z
		if math.Abs(v) > 1e-12 {
			t.Errorf("point (%v,%v) not on line %+v: residual %g", p.X, p.Y, l, v)
		}
	}
}

func TestCross_LineIntersection(t *testing.T) {
	// x = 2 intersected with y = 3 must give (2, 3).
	lx := Cross(Vec3{2, -1, 1}, Vec3{2, 1, 1})
	ly := Cross(Vec3{-1, 3, 1}, Vec3{1, 3, 1})

	p := Cross(lx, ly)
	if math.Abs(p.Z) < 1e-12 {
		t.Fatalf("intersection is at infinity: %+v", p)
	}
	x, y := p.X/p.Z, p.Y/p.Z
	if math.Abs(x-2) > 1e-9 || math.Abs(y-3) > 1e-9 {
		t.Errorf("intersection = (%g, %g), want (2, 3)", x, y)
	}
}

func TestCross_ParallelLines(t *testing.T) {
	// y = 0 and y = 1 are parallel: homogeneous weight must vanish.
	l0 := Cross(Vec3{0, 0, 1}, Vec3{1, 0, 1})
	l1 := Cross(Vec3{0, 1, 1}, Vec3{1, 1, 1})

	p := Cross(l0, l1)
	if math.Abs(p.Z) > 1e-12 {
		t.Errorf("parallel lines produced finite intersection: %+v", p)
	}
}

func TestWrapToPi_Range(t *testing.T) {
	for a := -20.0; a <= 20.0; a += 0.037 {
		w := WrapToPi(a)
		if w <= -math.Pi-1e-12 || w > math.Pi+1e-12 {
			t.Fatalf("WrapToPi(%g) = %g outside (-π, π]", a, w)
		}
	}
}

func TestWrapToPi_Idempotent(t *testing.T) {
	for a := -20.0; a <= 20.0; a += 0.037 {
		once := WrapToPi(a)
		twice := WrapToPi(once)
		if math.Abs(once-twice) > 1e-12 {
			t.Fatalf("WrapToPi not idempotent at %g: %g vs %g", a, once, twice)
		}
	}
}

func TestWrapTo2Pi_Range(t *testing.T) {
	for a := -20.0; a <= 20.0; a += 0.037 {
		w := WrapTo2Pi(a)
		if w < -1e-12 || w >= 2*math.Pi+1e-12 {
			t.Fatalf("WrapTo2Pi(%g) = %g outside [0, 2π)", a, w)
		}
	}
}

func TestNorthClockwiseToMath(t *testing.T) {
	tests := []struct {
		name    string
		compass float64
		want    float64 // math-convention direction of the ray
	}{
		{"north points up", 0, math.Pi / 2},
		{"east points right", math.Pi / 2, 0},
		{"south points down", math.Pi, -math.Pi / 2},
		{"west points left", 3 * math.Pi / 2, math.Pi},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := NorthClockwiseToMath(tt.compass)
			if math.Abs(WrapToPi(got-tt.want)) > 1e-9 {
				t.Errorf("NorthClockwiseToMath(%g) = %g, want %g", tt.compass, got, tt.want)
			}
		})
	}
}
