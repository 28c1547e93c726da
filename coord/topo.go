package coord

import (
	"math"

	"gonum.org/v1/gonum/spatial/r3"
)

// Topo holds the topocentric geometry of a target relative to a ground
// observer.
type Topo struct {
	Azimuth       float64 // rad, [0, 2π), clockwise from north
	AzimuthRate   float64 // rad/s
	Elevation     float64 // rad, [-π/2, π/2]
	ElevationRate float64 // rad/s
	Range         float64 // km
	RangeRate     float64 // km/s, positive receding
	RangeSEZ      r3.Vec  // range vector in the topocentric South-East-Zenith frame, km
}

// LookAngles computes topocentric azimuth, elevation, range and their rates
// for a target with ECI position (km) and velocity (km/s) as seen from an
// observer at the given Julian date.
func LookAngles(g Geodetic, jd float64, pos, vel r3.Vec) Topo {
	obsPos, obsVel := ObserverECI(g, jd)
	rng := r3.Sub(pos, obsPos)
	rngVel := r3.Sub(vel, obsVel)

	theta := LMST(jd, g.Lon)
	sinLat, cosLat := math.Sincos(g.Lat)
	sinTheta, cosTheta := math.Sincos(theta)

	topS := sinLat*cosTheta*rng.X + sinLat*sinTheta*rng.Y - cosLat*rng.Z
	topE := -sinTheta*rng.X + cosTheta*rng.Y
	topZ := cosLat*cosTheta*rng.X + cosLat*sinTheta*rng.Y + sinLat*rng.Z

	// Time derivatives of the SEZ components. The frame itself rotates with
	// the Earth, so each component picks up a sidereal-rate term.
	topSDot := sinLat*(cosTheta*rngVel.X+sinTheta*rngVel.Y) - cosLat*rngVel.Z +
		earthRotationRadPerSec*sinLat*topE
	topEDot := -sinTheta*rngVel.X + cosTheta*rngVel.Y -
		earthRotationRadPerSec*(cosTheta*rng.X+sinTheta*rng.Y)
	topZDot := cosLat*(cosTheta*rngVel.X+sinTheta*rngVel.Y) + sinLat*rngVel.Z +
		earthRotationRadPerSec*cosLat*topE

	r := r3.Norm(rng)
	rdot := r3.Dot(rng, rngVel) / r

	az := math.Atan2(topE, -topS)
	if az < 0 {
		az += twoPi
	}
	el := math.Asin(clamp(topZ/r, -1, 1))

	azRate := (topEDot*(-topS) + topE*topSDot) / (topS*topS + topE*topE)
	var elRate float64
	if cosEl := math.Cos(el); cosEl > 1e-9 {
		elRate = (topZDot*r - topZ*rdot) / (r * r * cosEl)
	}

	return Topo{
		Azimuth:       az,
		AzimuthRate:   azRate,
		Elevation:     el,
		ElevationRate: elRate,
		Range:         r,
		RangeRate:     rdot,
		RangeSEZ:      r3.Vec{X: topS, Y: topE, Z: topZ},
	}
}

func clamp(x, lo, hi float64) float64 {
	if x < lo {
		return lo
	}
	if x > hi {
		return hi
	}
	return x
}
