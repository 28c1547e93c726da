// Package observer computes observation geometry from a ground station:
// look angles and range to a propagated satellite, Doppler shift, and
// positions of the Sun and Moon through the same topocentric pipeline. It
// also locates pass boundaries (AOS and LOS) by root-finding on the
// elevation function.
package observer

import (
	"time"

	"gonum.org/v1/gonum/spatial/r3"

	"github.com/kroburg/libpredict/coord"
	"github.com/kroburg/libpredict/julian"
	"github.com/kroburg/libpredict/moon"
	"github.com/kroburg/libpredict/orbit"
	"github.com/kroburg/libpredict/sun"
)

// speedOfLightKmS is the speed of light in km/s.
const speedOfLightKmS = 299792.458

const maxNameLen = 128

// Observer is a ground station. Immutable after construction and safe to
// share between goroutines.
type Observer struct {
	Name      string
	Latitude  float64 // WGS-84 geodetic latitude, rad
	Longitude float64 // east longitude, rad
	Altitude  float64 // meters above the WGS-84 ellipsoid
}

// Observation is the topocentric state of a target at one instant.
type Observation struct {
	Time julian.Date

	Azimuth       float64 // rad, [0, 2π), clockwise from north
	AzimuthRate   float64 // rad/s
	Elevation     float64 // rad
	ElevationRate float64 // rad/s

	Range     float64 // km
	RangeSEZ  r3.Vec  // range vector, topocentric South-East-Zenith, km
	RangeRate float64 // km/s, negative while approaching
}

// New creates an observer at the given WGS-84 geodetic coordinates
// (radians, meters). Names longer than 128 characters are truncated.
func New(name string, lat, lon, alt float64) *Observer {
	if len(name) > maxNameLen {
		name = name[:maxNameLen]
	}
	return &Observer{Name: name, Latitude: lat, Longitude: lon, Altitude: alt}
}

func (obs *Observer) geodetic() coord.Geodetic {
	return coord.Geodetic{
		Lat:   obs.Latitude,
		Lon:   obs.Longitude,
		AltKm: obs.Altitude / 1000,
	}
}

// Observe returns the look angles to the orbit's current position. The
// caller propagates the orbit first; the observation describes the orbit's
// cached instant.
func (obs *Observer) Observe(o *orbit.Orbit) Observation {
	return obs.observeECI(o.Time, o.Position, o.Velocity)
}

// ObserveSun returns the look angles to the Sun at the given time.
func (obs *Observer) ObserveSun(t julian.Date) Observation {
	return obs.observeBody(t, sun.PositionECI)
}

// ObserveMoon returns the look angles to the Moon at the given time.
func (obs *Observer) ObserveMoon(t julian.Date) Observation {
	return obs.observeBody(t, moon.PositionECI)
}

// observeBody observes an ephemeris-driven body, deriving its ECI velocity
// by a symmetric finite difference so the observation rates are populated.
func (obs *Observer) observeBody(t julian.Date, position func(julian.Date) r3.Vec) Observation {
	const dt = time.Second
	p0 := position(t.Add(-dt))
	p1 := position(t.Add(dt))
	vel := r3.Scale(1.0/(2*dt.Seconds()), r3.Sub(p1, p0))
	return obs.observeECI(t, position(t), vel)
}

func (obs *Observer) observeECI(t julian.Date, pos, vel r3.Vec) Observation {
	topo := coord.LookAngles(obs.geodetic(), t.JD(), pos, vel)
	return Observation{
		Time:          t,
		Azimuth:       topo.Azimuth,
		AzimuthRate:   topo.AzimuthRate,
		Elevation:     topo.Elevation,
		ElevationRate: topo.ElevationRate,
		Range:         topo.Range,
		RangeSEZ:      topo.RangeSEZ,
		RangeRate:     topo.RangeRate,
	}
}

// DopplerShift returns the Doppler shift in Hz of a downlink frequency for
// the orbit's current state. The shift is positive while the satellite
// approaches the observer.
func (obs *Observer) DopplerShift(o *orbit.Orbit, downlinkHz float64) float64 {
	return -downlinkHz * obs.Observe(o).RangeRate / speedOfLightKmS
}
