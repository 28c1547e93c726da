// Package julian provides the time scale used throughout the library: the
// number of days since 1979-12-31 00:00:00 UTC. All prediction routines take
// and return this day number, which keeps epoch arithmetic to simple float64
// subtraction.
//
// Conversions to the conventional astronomical Julian date (needed for
// sidereal time and the solar/lunar ephemerides) are provided by JD and
// FromJD.
package julian

import (
	"math"
	"time"
)

// Date is a point in time expressed as days since 1979-12-31 00:00:00 UTC.
type Date float64

const (
	// EpochJD is the conventional Julian date of 1979-12-31 00:00:00 UTC,
	// the zero point of the Date scale.
	EpochJD = 2444238.5

	secondsPerDay = 86400.0
)

// epochUnix is 1979-12-31 00:00:00 UTC as Unix seconds.
const epochUnix int64 = 315446400

// FromTime converts a UTC time to a Date.
func FromTime(t time.Time) Date {
	return FromUnix(t.Unix()) + Date(float64(t.Nanosecond())/1e9/secondsPerDay)
}

// FromUnix converts Unix epoch seconds (UTC) to a Date.
func FromUnix(sec int64) Date {
	return Date(float64(sec-epochUnix) / secondsPerDay)
}

// Time converts a Date back to a UTC time.
func (d Date) Time() time.Time {
	sec, frac := math.Modf(float64(d) * secondsPerDay)
	return time.Unix(epochUnix+int64(sec), int64(frac*1e9)).UTC()
}

// Unix converts a Date to Unix epoch seconds, truncating sub-second parts.
func (d Date) Unix() int64 {
	return epochUnix + int64(float64(d)*secondsPerDay)
}

// JD returns the conventional astronomical Julian date.
func (d Date) JD() float64 {
	return float64(d) + EpochJD
}

// FromJD converts a conventional Julian date to a Date.
func FromJD(jd float64) Date {
	return Date(jd - EpochJD)
}

// Add returns the date advanced by the given duration.
func (d Date) Add(dt time.Duration) Date {
	return d + Date(dt.Seconds()/secondsPerDay)
}

// Sub returns the elapsed time from other to d.
func (d Date) Sub(other Date) time.Duration {
	return time.Duration(float64(d-other) * secondsPerDay * float64(time.Second))
}

// DayOfYearJD returns the Julian date of day 0.0 of the given Gregorian year,
// i.e. the Julian date of December 31st 00:00 UTC of the preceding year.
// TLE epochs count days of the year from 1.0, so the epoch Julian date is
// DayOfYearJD(year) + day.
func DayOfYearJD(year int) float64 {
	y := year - 1
	a := y / 100
	b := 2 - a + a/4
	return math.Floor(365.25*float64(y)) + math.Floor(30.6001*14) + 1720994.5 + float64(b)
}

// FromTLEEpoch converts a TLE epoch (two-digit year and fractional day of
// year) to a Date. Years below 57 are taken as 20xx, otherwise 19xx.
func FromTLEEpoch(year int, day float64) Date {
	if year < 57 {
		year += 2000
	} else {
		year += 1900
	}
	return FromJD(DayOfYearJD(year) + day)
}
