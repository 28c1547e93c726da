package sun

import (
	"math"
	"testing"
	"time"

	"github.com/soniakeys/meeus/v3/solar"
	"gonum.org/v1/gonum/spatial/r3"

	"github.com/kroburg/libpredict/julian"
)

func TestPositionECI_Distance(t *testing.T) {
	// Earth-Sun distance stays within the orbital limits all year.
	for month := time.January; month <= time.December; month++ {
		d := julian.FromTime(time.Date(2024, month, 15, 0, 0, 0, 0, time.UTC))
		r := norm(PositionECI(d))
		if r < 0.982*AUKm || r > 1.018*AUKm {
			t.Errorf("%v: distance %g km out of annual range", month, r)
		}
	}
}

func TestPositionECI_Perihelion(t *testing.T) {
	// Early January the Sun is closer than in early July.
	jan := norm(PositionECI(julian.FromTime(time.Date(2024, 1, 3, 0, 0, 0, 0, time.UTC))))
	jul := norm(PositionECI(julian.FromTime(time.Date(2024, 7, 4, 0, 0, 0, 0, time.UTC))))
	if jan >= jul {
		t.Errorf("perihelion ordering: jan %g >= jul %g", jan, jul)
	}
}

func TestPositionECI_MatchesMeeus(t *testing.T) {
	// Cross-check right ascension and declination against the
	// higher-precision Meeus solar theory. The low-precision model is
	// good to a few arcminutes.
	const tol = 3e-3 // rad, ~10 arcmin

	dates := []time.Time{
		time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC),
		time.Date(2024, 3, 20, 12, 0, 0, 0, time.UTC),
		time.Date(2024, 6, 21, 0, 0, 0, 0, time.UTC),
		time.Date(2024, 9, 22, 18, 0, 0, 0, time.UTC),
		time.Date(2024, 12, 21, 6, 0, 0, 0, time.UTC),
	}
	for _, date := range dates {
		d := julian.FromTime(date)
		p := PositionECI(d)
		r := norm(p)
		ra := math.Atan2(p.Y, p.X)
		dec := math.Asin(p.Z / r)

		wantRA, wantDec := solar.ApparentEquatorial(d.JD())

		dRA := math.Mod(ra-wantRA.Rad()+3*math.Pi, 2*math.Pi) - math.Pi
		if math.Abs(dRA) > tol {
			t.Errorf("%v: RA %f vs meeus %f (diff %g)", date, ra, wantRA.Rad(), dRA)
		}
		if math.Abs(dec-wantDec.Rad()) > tol {
			t.Errorf("%v: dec %f vs meeus %f", date, dec, wantDec.Rad())
		}
	}
}

func TestPositionECI_WinterDeclination(t *testing.T) {
	// Around the December solstice the Sun sits near declination -23.4°.
	d := julian.FromTime(time.Date(2024, 12, 21, 12, 0, 0, 0, time.UTC))
	p := PositionECI(d)
	dec := math.Asin(p.Z / norm(p))
	if math.Abs(dec+23.44*math.Pi/180) > 0.01 {
		t.Errorf("solstice declination: got %f rad", dec)
	}
}

func norm(v r3.Vec) float64 {
	return r3.Norm(v)
}
