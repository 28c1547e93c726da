package orbit

import (
	"math"

	"gonum.org/v1/gonum/spatial/r3"

	"github.com/kroburg/libpredict/sun"
)

// eclipseState determines whether a satellite at the given ECI position is
// inside Earth's umbra, comparing the apparent angular radii of the Earth
// and Sun as seen from the satellite against their angular separation.
//
// The returned depth is the umbral penetration angle in radians: positive
// inside the umbra, negative in the penumbra and in sunlight.
func eclipseState(pos, sunPos r3.Vec) (eclipsed bool, depth float64) {
	toSun := r3.Sub(sunPos, pos)
	sdSun := math.Asin(clampUnit(sun.RadiusKm / r3.Norm(toSun)))

	toEarth := r3.Scale(-1, pos)
	sdEarth := math.Asin(clampUnit(xkmper / r3.Norm(toEarth)))

	delta := vecAngle(sunPos, toEarth)
	depth = sdEarth - sdSun - delta

	if sdEarth < sdSun {
		return false, depth
	}
	return depth >= 0, depth
}

// vecAngle returns the angle between two vectors in radians.
func vecAngle(a, b r3.Vec) float64 {
	na := r3.Norm(a)
	nb := r3.Norm(b)
	if na == 0 || nb == 0 {
		return 0
	}
	return math.Acos(clampUnit(r3.Dot(a, b) / (na * nb)))
}

func clampUnit(x float64) float64 {
	if x > 1 {
		return 1
	}
	if x < -1 {
		return -1
	}
	return x
}
