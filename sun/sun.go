// Package sun computes a low-precision solar ephemeris: the geocentric ECI
// position of the Sun at a given time. Accuracy is on the order of an
// arcminute, sufficient for eclipse detection and observer look angles.
package sun

import (
	"math"

	"gonum.org/v1/gonum/spatial/r3"

	"github.com/kroburg/libpredict/julian"
)

const (
	// AUKm is the astronomical unit in km (IAU 76).
	AUKm = 1.49597870691e8

	// RadiusKm is the solar radius in km (IAU 76).
	RadiusKm = 6.96e5

	deg2rad = math.Pi / 180.0
	twoPi   = 2 * math.Pi
)

// PositionECI returns the geocentric ECI position of the Sun in km.
//
// The model is the classical low-precision solar theory in the mean equinox
// of date: mean anomaly and mean longitude polynomials in Julian centuries
// since 1900, equation of center to third order, and an obliquity corrected
// for the longitude of the lunar ascending node.
func PositionECI(d julian.Date) r3.Vec {
	mjd := d.JD() - 2415020.0
	year := 1900 + mjd/365.25
	t := (mjd + deltaET(year)/86400.0) / 36525.0

	m := mod2p(deg2rad * mod360(358.47583+mod360(35999.04975*t)-(0.000150+0.0000033*t)*t*t))
	l := mod2p(deg2rad * mod360(279.69668+mod360(36000.76892*t)+0.0003025*t*t))
	e := 0.01675104 - (0.0000418+0.000000126*t)*t
	c := deg2rad * ((1.919460-(0.004789+0.000014*t)*t)*math.Sin(m) +
		(0.020094-0.000100*t)*math.Sin(2*m) +
		0.000293*math.Sin(3*m))
	o := mod2p(deg2rad * mod360(259.18-1934.142*t))
	lsa := mod2p(l + c - deg2rad*(0.00569-0.00479*math.Sin(o)))
	nu := mod2p(m + c)
	r := 1.0000002 * (1 - e*e) / (1 + e*math.Cos(nu))
	eps := deg2rad * (23.452294 - (0.0130125+(0.00000164-0.000000503*t)*t)*t + 0.00256*math.Cos(o))
	r = r * AUKm

	sinLsa, cosLsa := math.Sincos(lsa)
	sinEps, cosEps := math.Sincos(eps)
	return r3.Vec{
		X: r * cosLsa,
		Y: r * sinLsa * cosEps,
		Z: r * sinLsa * sinEps,
	}
}

// deltaET is the difference Ephemeris Time - UT in seconds, from the classic
// annual approximation.
func deltaET(year float64) float64 {
	return 26.465 + 0.747622*(year-1950) + 1.886913*math.Sin(twoPi*(year-1975)/33)
}

func mod360(x float64) float64 {
	x = math.Mod(x, 360)
	if x < 0 {
		x += 360
	}
	return x
}

func mod2p(x float64) float64 {
	x = math.Mod(x, twoPi)
	if x < 0 {
		x += twoPi
	}
	return x
}
