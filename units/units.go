// Package units provides small typed wrappers for the angular and distance
// quantities crossing the library boundary, with conversions between the
// units conventional in satellite work.
package units

import "math"

const (
	deg2rad = math.Pi / 180.0
	rad2deg = 180.0 / math.Pi

	// kmToMi converts kilometers to statute miles.
	kmToMi = 0.621371
)

// Angle represents an angular measurement.
type Angle struct {
	rad float64
}

// NewAngle creates an Angle from radians.
func NewAngle(radians float64) Angle { return Angle{rad: radians} }

// AngleFromDegrees creates an Angle from degrees.
func AngleFromDegrees(deg float64) Angle { return Angle{rad: deg * deg2rad} }

// Radians returns the angle in radians.
func (a Angle) Radians() float64 { return a.rad }

// Degrees returns the angle in degrees.
func (a Angle) Degrees() float64 { return a.rad * rad2deg }

// Distance represents a distance measurement.
type Distance struct {
	km float64
}

// NewDistance creates a Distance from kilometers.
func NewDistance(km float64) Distance { return Distance{km: km} }

// DistanceFromMeters creates a Distance from meters.
func DistanceFromMeters(m float64) Distance { return Distance{km: m / 1000} }

// Kilometers returns the distance in kilometers.
func (d Distance) Kilometers() float64 { return d.km }

// Meters returns the distance in meters.
func (d Distance) Meters() float64 { return d.km * 1000 }

// Miles returns the distance in statute miles.
func (d Distance) Miles() float64 { return d.km * kmToMi }
