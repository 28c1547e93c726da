// Package moon computes a low-precision lunar ephemeris: the geocentric ECI
// position of the Moon at a given time, from a truncated series of the main
// periodic terms in ecliptic longitude, latitude, and distance. Position is
// good to a few arcminutes, which is ample for observer look angles.
package moon

import (
	"math"

	"gonum.org/v1/gonum/spatial/r3"

	"github.com/kroburg/libpredict/julian"
)

const deg2rad = math.Pi / 180.0

// PositionECI returns the geocentric ECI position of the Moon in km.
//
// Fundamental arguments are linear in days since J2000; the longitude,
// latitude and distance series keep the dominant evection, variation and
// annual-equation terms.
func PositionECI(t julian.Date) r3.Vec {
	d := t.JD() - 2451545.0

	lp := deg2rad * mod360(218.3164477+13.17639648*d) // mean longitude
	m := deg2rad * mod360(357.5291092+0.98560028*d)   // Sun mean anomaly
	mm := deg2rad * mod360(134.9633964+13.06499295*d) // Moon mean anomaly
	dd := deg2rad * mod360(297.8501921+12.19074912*d) // mean elongation
	f := deg2rad * mod360(93.2720950+13.22935024*d)   // argument of latitude

	lon := lp +
		deg2rad*(6.289*math.Sin(mm)+
			1.274*math.Sin(2*dd-mm)+
			0.658*math.Sin(2*dd)+
			0.214*math.Sin(2*mm)-
			0.186*math.Sin(m)-
			0.114*math.Sin(2*f))

	lat := deg2rad * (5.128*math.Sin(f) +
		0.280*math.Sin(mm+f) +
		0.277*math.Sin(mm-f) +
		0.173*math.Sin(2*dd-f))

	distKm := 385000.56 -
		20905.355*math.Cos(mm) -
		3699.111*math.Cos(2*dd-mm) -
		2955.968*math.Cos(2*dd) -
		569.925*math.Cos(2*mm)

	eps := deg2rad * (23.439291 - 0.0000137*d)

	sinLon, cosLon := math.Sincos(lon)
	sinLat, cosLat := math.Sincos(lat)
	sinEps, cosEps := math.Sincos(eps)

	x := cosLat * cosLon
	y := cosLat * sinLon
	z := sinLat
	return r3.Vec{
		X: distKm * x,
		Y: distKm * (y*cosEps - z*sinEps),
		Z: distKm * (y*sinEps + z*cosEps),
	}
}

func mod360(x float64) float64 {
	x = math.Mod(x, 360)
	if x < 0 {
		x += 360
	}
	return x
}
