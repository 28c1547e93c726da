package observer

import (
	"github.com/pkg/errors"

	"github.com/kroburg/libpredict/julian"
	"github.com/kroburg/libpredict/orbit"
	"github.com/kroburg/libpredict/search"
)

// ErrNotObservable is returned by the pass search when the satellite can
// never rise above the observer's horizon, or sits there permanently
// (geostationary).
var ErrNotObservable = errors.New("observer: satellite never crosses the horizon")

// passScanDays bounds the forward scan for the next horizon crossing.
const passScanDays = 30.0

// NextAOS finds the acquisition of signal following start: the time the
// satellite next rises above the horizon. If the satellite is above the
// horizon at start, the pass in progress is skipped and the AOS of the
// following pass is returned.
//
// At the returned time the elevation magnitude is below 1 mrad and the
// elevation rate is positive. On failure the start time is returned
// together with the error; the orbit predicates (Decayed, IsGeostationary,
// AOSHappens) identify infeasible searches up front.
func (obs *Observer) NextAOS(o *orbit.Orbit, start julian.Date) (julian.Date, error) {
	if err := obs.checkPassFeasible(o); err != nil {
		return start, err
	}

	f := obs.elevationFunc(o)
	t := float64(start)

	// Skip the pass in progress: find its LOS first.
	if f(t) > 0 {
		los, err := search.NextCrossing(t, o.PeriodMinutes()/1440/120, t+passScanDays, f, false)
		if err != nil {
			return start, errors.Wrap(err, "skipping current pass")
		}
		t = los.T
	}

	c, err := search.NextCrossing(t, o.PeriodMinutes()/1440/120, t+passScanDays, f, true)
	if err != nil {
		if o.Decayed() {
			return start, orbit.ErrDecayed
		}
		return start, err
	}
	aos := julian.Date(c.T)
	// Leave the orbit propagated at the event time.
	if err := o.Propagate(aos); err != nil {
		return start, err
	}
	return aos, nil
}

// NextLOS finds the loss of signal following start: the LOS of the current
// pass if the satellite is above the horizon, otherwise the LOS of the next
// pass.
func (obs *Observer) NextLOS(o *orbit.Orbit, start julian.Date) (julian.Date, error) {
	if err := obs.checkPassFeasible(o); err != nil {
		return start, err
	}

	f := obs.elevationFunc(o)
	t := float64(start)

	if f(t) <= 0 {
		aos, err := obs.NextAOS(o, start)
		if err != nil {
			return start, err
		}
		t = float64(aos)
	}

	c, err := search.NextCrossing(t, o.PeriodMinutes()/1440/120, t+passScanDays, f, false)
	if err != nil {
		if o.Decayed() {
			return start, orbit.ErrDecayed
		}
		return start, err
	}
	los := julian.Date(c.T)
	if err := o.Propagate(los); err != nil {
		return start, err
	}
	return los, nil
}

// checkPassFeasible gates the pass search on the spec preconditions.
func (obs *Observer) checkPassFeasible(o *orbit.Orbit) error {
	switch {
	case o.Decayed():
		return orbit.ErrDecayed
	case o.IsGeostationary():
		return errors.Wrap(ErrNotObservable, "geostationary orbit")
	case !o.AOSHappens(obs.Latitude):
		return errors.Wrap(ErrNotObservable, "orbit never reaches observer latitude")
	}
	return nil
}

// elevationFunc returns the satellite elevation as a function of time,
// propagating the orbit as a side effect. Propagation failures (decay
// mid-search) read as below the horizon, which terminates the scan.
func (obs *Observer) elevationFunc(o *orbit.Orbit) func(float64) float64 {
	return func(t float64) float64 {
		if err := o.Propagate(julian.Date(t)); err != nil {
			return -1
		}
		return obs.Observe(o).Elevation
	}
}
