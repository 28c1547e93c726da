package orbit

import (
	"math"
	"testing"

	"gonum.org/v1/gonum/spatial/r3"

	"github.com/kroburg/libpredict/sun"
)

func TestEclipseState_Antisolar(t *testing.T) {
	// A satellite directly behind the Earth from the Sun is in umbra.
	sunPos := r3.Vec{X: 1.496e8}
	pos := r3.Vec{X: -6800}

	eclipsed, depth := eclipseState(pos, sunPos)
	if !eclipsed {
		t.Fatal("antisolar point not eclipsed")
	}
	if depth <= 0 {
		t.Errorf("depth %f, want positive in umbra", depth)
	}
}

func TestEclipseState_Subsolar(t *testing.T) {
	// A satellite between the Earth and the Sun is in full sunlight.
	sunPos := r3.Vec{X: 1.496e8}
	pos := r3.Vec{X: 6800}

	eclipsed, depth := eclipseState(pos, sunPos)
	if eclipsed {
		t.Fatal("subsolar point eclipsed")
	}
	if depth >= 0 {
		t.Errorf("depth %f, want negative in sunlight", depth)
	}
}

func TestEclipseState_Terminator(t *testing.T) {
	// Perpendicular to the Sun direction the satellite is sunlit: the
	// shadow cylinder is behind the Earth.
	sunPos := r3.Vec{X: 1.496e8}
	pos := r3.Vec{Y: 6800}

	eclipsed, _ := eclipseState(pos, sunPos)
	if eclipsed {
		t.Error("terminator-plane satellite reported eclipsed")
	}
}

func TestEclipseState_ShadowBoundary(t *testing.T) {
	// Sweeping away from the antisolar direction, the umbra boundary must
	// sit at the Earth half-angle minus the solar half-angle, and the
	// flag must flip exactly where the depth changes sign.
	sunPos := r3.Vec{X: 1.496e8}
	const r = 6800.0

	wantBoundary := math.Asin(xkmper/r) - math.Asin(sun.RadiusKm/1.496e8)

	exit := -1.0
	for ang := 0.0; ang <= math.Pi/2; ang += 1e-4 {
		pos := r3.Vec{X: -r * math.Cos(ang), Y: r * math.Sin(ang)}
		eclipsed, depth := eclipseState(pos, sunPos)
		if eclipsed != (depth >= 0) {
			t.Fatalf("ang %f: flag %v disagrees with depth %f", ang, eclipsed, depth)
		}
		if !eclipsed && exit < 0 {
			exit = ang
		}
	}
	if exit < 0 {
		t.Fatal("satellite never left the umbra")
	}
	if math.Abs(exit-wantBoundary) > 1e-2 {
		t.Errorf("umbra exit at %f rad, want %f", exit, wantBoundary)
	}
}
