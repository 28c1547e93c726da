// Package orbit predicts satellite motion from NORAD two-line element sets.
//
// An Orbit owns a per-element-set propagator — SGP4 for near-Earth orbits,
// SDP4 for deep-space orbits (periods of 225 minutes and up) — chosen once at
// construction. Propagate updates the observable state: ECI position and
// velocity, the sub-satellite geodetic point, and Earth-shadow status.
//
// An Orbit is not safe for concurrent propagation; distinct Orbits are
// independent and may be propagated in parallel.
package orbit

import (
	"math"

	"github.com/pkg/errors"
	"gonum.org/v1/gonum/spatial/r3"

	"github.com/kroburg/libpredict/coord"
	"github.com/kroburg/libpredict/julian"
	"github.com/kroburg/libpredict/sun"
	"github.com/kroburg/libpredict/tle"
)

var (
	// ErrDecayed is returned when propagation is attempted on an orbit
	// that has decayed into the atmosphere.
	ErrDecayed = errors.New("orbit: satellite has decayed")

	// ErrConvergence is returned when the Kepler solver fails to
	// converge, which indicates a malformed element set.
	ErrConvergence = errors.New("orbit: kepler equation did not converge")
)

// Ephemeris identifies the perturbation model propagating an orbit.
type Ephemeris int

const (
	EphemerisSGP4 Ephemeris = iota
	EphemerisSDP4
)

func (e Ephemeris) String() string {
	if e == EphemerisSDP4 {
		return "SDP4"
	}
	return "SGP4"
}

// deepSpaceCutoffMin is the orbital period from which SDP4 takes over.
const deepSpaceCutoffMin = 225.0

// propagator is the per-orbit ephemeris model. position returns the ECI
// state at tsince minutes from the element epoch.
type propagator interface {
	position(tsince float64) (pos, vel r3.Vec, err error)
}

// Orbit is a satellite orbit with the state of its latest propagation.
// All observable fields describe the same instant, Time.
type Orbit struct {
	// Name is the satellite name from the TLE name line, if present.
	Name string

	// Line1 and Line2 are the original element lines, verbatim.
	Line1, Line2 string

	// TLE is the processed element set.
	TLE *tle.TLE

	// Ephemeris is the model chosen for this element set.
	Ephemeris Ephemeris

	// Time of the last successful propagation.
	Time julian.Date

	// Position (km) and Velocity (km/s) in the ECI frame.
	Position r3.Vec
	Velocity r3.Vec

	// Sub-satellite point: geodetic latitude and longitude in radians,
	// altitude in meters above the WGS-84 ellipsoid.
	Latitude  float64
	Longitude float64
	Altitude  float64

	// Eclipsed reports whether the satellite is inside Earth's umbra;
	// EclipseDepth is the shadow penetration angle in radians, negative
	// in the penumbra and sunlight.
	Eclipsed     bool
	EclipseDepth float64

	prop    propagator
	decayed bool
}

// New constructs an orbit from a two-line element set, with an optional
// leading name line. The element set is validated and the matching
// perturbation model initialized.
func New(lines []string) (*Orbit, error) {
	el, err := tle.Parse(lines)
	if err != nil {
		return nil, err
	}

	o := &Orbit{
		Name:  el.Name,
		Line1: el.Line1,
		Line2: el.Line2,
		TLE:   el,
	}
	if deepSpace(el) {
		o.Ephemeris = EphemerisSDP4
		o.prop = newSDP4(el)
	} else {
		o.Ephemeris = EphemerisSGP4
		o.prop = newSGP4(el)
	}
	if o.Perigee() < 0 {
		o.decayed = true
	}
	return o, nil
}

// deepSpace reports whether the element set calls for the deep-space model.
// The period test uses the Brouwer mean motion recovered from the Kozai
// value, as the models themselves do.
func deepSpace(el *tle.TLE) bool {
	a1 := math.Pow(xke/el.Xno, tothrd)
	cosio := math.Cos(el.Xincl)
	x3thm1 := 3*cosio*cosio - 1
	betao2 := 1 - el.Eo*el.Eo
	betao := math.Sqrt(betao2)
	del1 := 1.5 * ck2 * x3thm1 / (a1 * a1 * betao * betao2)
	ao := a1 * (1 - del1*(0.5*tothrd+del1*(1+134.0/81.0*del1)))
	delo := 1.5 * ck2 * x3thm1 / (ao * ao * betao * betao2)
	xnodp := el.Xno / (1 + delo)
	return twoPi/xnodp >= deepSpaceCutoffMin
}

// Propagate advances the orbit to the given time. On success the observable
// state fields are updated; on failure they retain the last-known-good
// state. A decay detected during propagation is sticky: every subsequent
// call returns ErrDecayed.
func (o *Orbit) Propagate(t julian.Date) error {
	if o.decayed {
		return ErrDecayed
	}

	tsince := float64(t-o.TLE.Epoch) * xmnpda
	pos, vel, err := o.prop.position(tsince)
	if err != nil {
		if errors.Is(err, ErrDecayed) {
			o.decayed = true
		}
		return err
	}

	o.Time = t
	o.Position = pos
	o.Velocity = vel

	g := coord.ECIToGeodetic(pos, t.JD())
	o.Latitude = g.Lat
	o.Longitude = g.Lon
	o.Altitude = g.AltKm * 1000

	o.Eclipsed, o.EclipseDepth = eclipseState(pos, sun.PositionECI(t))
	return nil
}

// Decayed reports whether the orbit has decayed. Once true it stays true.
func (o *Orbit) Decayed() bool {
	return o.decayed
}

// IsGeostationary reports whether the mean motion matches one revolution
// per sidereal day.
func (o *Orbit) IsGeostationary() bool {
	return math.Abs(o.TLE.MeanMotion-1.0027) < 0.0002
}

// semiMajorAxisKm derives the semi-major axis from the mean motion.
func (o *Orbit) semiMajorAxisKm() float64 {
	return 331.25 * math.Exp(2.0/3.0*math.Log(xmnpda/o.TLE.MeanMotion))
}

// Apogee returns the apogee altitude above the Earth's surface in km.
func (o *Orbit) Apogee() float64 {
	return o.semiMajorAxisKm()*(1+o.TLE.Eccentricity) - xkmper
}

// Perigee returns the perigee altitude above the Earth's surface in km.
func (o *Orbit) Perigee() float64 {
	return o.semiMajorAxisKm()*(1-o.TLE.Eccentricity) - xkmper
}

// PeriodMinutes returns the orbital period in minutes.
func (o *Orbit) PeriodMinutes() float64 {
	return xmnpda / o.TLE.MeanMotion
}

// AOSHappens reports whether the satellite can ever rise above the horizon
// for an observer at the given geodetic latitude (radians). It compares the
// reach of the orbit's ground-track cone against the observer's latitude.
func (o *Orbit) AOSHappens(lat float64) bool {
	if o.TLE.MeanMotion == 0 || o.decayed {
		return false
	}
	incl := o.TLE.InclinationDeg
	if incl >= 90 {
		incl = 180 - incl
	}
	reach := math.Acos(xkmper/(o.Apogee()+xkmper)) + incl*pi/180
	return reach > math.Abs(lat)
}
