package coord

import "math"

// GMST returns the Greenwich Mean Sidereal Time in radians, [0, 2π), for a
// Julian date in UTC.
//
// Uses the IAU 1982 GMST polynomial evaluated at the preceding midnight plus
// the elapsed fraction of the day scaled by the sidereal/solar rate.
func GMST(jd float64) float64 {
	// Split into the 0h UT Julian date and the fraction of the day.
	ut := math.Mod(jd+0.5, 1.0)
	jd0 := jd - ut

	tu := (jd0 - 2451545.0) / 36525.0
	gmst := 24110.54841 + tu*(8640184.812866+tu*(0.093104-tu*6.2e-6))
	gmst = math.Mod(gmst+secondsPerDay*siderealSolarRatio*ut, secondsPerDay)
	if gmst < 0 {
		gmst += secondsPerDay
	}
	return twoPi * gmst / secondsPerDay
}

// LMST returns the local mean sidereal time for an observer at the given
// east longitude (radians), reduced to [0, 2π).
func LMST(jd, lon float64) float64 {
	return mod2p(GMST(jd) + lon)
}
