package coord

import (
	"math"
	"testing"

	gosatellite "github.com/joshuaferrara/go-satellite"
	"gonum.org/v1/gonum/spatial/r3"
)

func TestGMST_MatchesReference(t *testing.T) {
	// Cross-check against the go-satellite implementation of the same
	// IAU 1982 polynomial. go-satellite keeps the sign of the unreduced
	// value (negative before J2000), so its result is brought into
	// [0, 2π) before comparing.
	jds := []float64{2451545.0, 2444238.5, 2460310.5, 2460310.123456}
	for _, jd := range jds {
		want := math.Mod(gosatellite.ThetaG_JD(jd), 2*math.Pi)
		if want < 0 {
			want += 2 * math.Pi
		}
		got := GMST(jd)
		if math.Abs(got-want) > 1e-9 {
			t.Errorf("GMST(%f) = %.12f, want %.12f", jd, got, want)
		}
	}
}

func TestGMST_Range(t *testing.T) {
	for jd := 2460310.5; jd < 2460312.5; jd += 0.01 {
		g := GMST(jd)
		if g < 0 || g >= 2*math.Pi {
			t.Fatalf("GMST(%f) = %f out of [0, 2π)", jd, g)
		}
	}
}

func TestGMST_StrictlyIncreasing(t *testing.T) {
	// Strictly increasing modulo wraparound over less than a sidereal day.
	const step = 0.001
	prev := GMST(2460310.5)
	for jd := 2460310.5 + step; jd < 2460310.9; jd += step {
		g := GMST(jd)
		diff := g - prev
		if diff < 0 {
			diff += 2 * math.Pi
		}
		if diff <= 0 || diff > 0.1 {
			t.Fatalf("GMST not increasing at %f: diff %f", jd, diff)
		}
		prev = g
	}
}

func TestECIToECEF_Roundtrip(t *testing.T) {
	jd := 2460310.75
	p := r3.Vec{X: 4000, Y: -5000, Z: 3000}
	back := ECEFToECI(ECIToECEF(p, jd), jd)
	if d := r3.Norm(r3.Sub(back, p)); d > 1e-9 {
		t.Errorf("roundtrip error %g km", d)
	}
}

func TestECEFToGeodetic_Roundtrip(t *testing.T) {
	tests := []Geodetic{
		{Lat: 0, Lon: 0, AltKm: 0},
		{Lat: 59.95 * math.Pi / 180, Lon: 10.75 * math.Pi / 180, AltKm: 0.1},
		{Lat: -33.5 * math.Pi / 180, Lon: -70.6 * math.Pi / 180, AltKm: 0.52},
		{Lat: 51.64 * math.Pi / 180, Lon: 120 * math.Pi / 180, AltKm: 420},
		{Lat: 85 * math.Pi / 180, Lon: -3 * math.Pi / 180, AltKm: 35786},
	}
	for _, g := range tests {
		p := GeodeticToECEF(g)
		back := GeodeticToECEF(ECEFToGeodetic(p))
		// Spec: ECEF → geodetic → ECEF reproduces within 1e-3 m.
		if d := r3.Norm(r3.Sub(back, p)); d > 1e-6 {
			t.Errorf("roundtrip %+v: error %g km", g, d)
		}
	}
}

func TestECEFToGeodetic_Poles(t *testing.T) {
	g := ECEFToGeodetic(r3.Vec{X: 0, Y: 0, Z: 7000})
	if math.Abs(g.Lat-math.Pi/2) > 1e-12 {
		t.Errorf("north pole latitude: got %f", g.Lat)
	}
	wantAlt := 7000 - EarthRadiusKm*(1-Flattening)
	if math.Abs(g.AltKm-wantAlt) > 1e-9 {
		t.Errorf("north pole altitude: got %f want %f", g.AltKm, wantAlt)
	}
}

func TestECEFToGeodetic_Equator(t *testing.T) {
	g := ECEFToGeodetic(r3.Vec{X: EarthRadiusKm + 400, Y: 0, Z: 0})
	if math.Abs(g.Lat) > 1e-12 || math.Abs(g.Lon) > 1e-12 {
		t.Errorf("equator: lat %f lon %f", g.Lat, g.Lon)
	}
	if math.Abs(g.AltKm-400) > 1e-9 {
		t.Errorf("equator altitude: got %f want 400", g.AltKm)
	}
}

func TestLookAngles_Overhead(t *testing.T) {
	// A target on the observer's zenith line should appear at elevation
	// π/2 regardless of azimuth.
	g := Geodetic{Lat: 40 * math.Pi / 180, Lon: -74 * math.Pi / 180}
	jd := 2460310.5
	obsPos, _ := ObserverECI(g, jd)
	up := r3.Unit(obsPos)

	// Not exactly the geodetic zenith (that differs from the geocentric
	// direction by the deflection of the vertical), so allow 0.01 rad.
	target := r3.Add(obsPos, r3.Scale(1000, up))
	topo := LookAngles(g, jd, target, r3.Vec{})
	if math.Abs(topo.Elevation-math.Pi/2) > 0.01 {
		t.Errorf("elevation: got %f want ~π/2", topo.Elevation)
	}
	if math.Abs(topo.Range-1000) > 5 {
		t.Errorf("range: got %f want ~1000", topo.Range)
	}
}

func TestLookAngles_Horizon(t *testing.T) {
	// A target due east on the horizon plane.
	g := Geodetic{Lat: 0, Lon: 0}
	jd := 2460310.5
	obsPos, _ := ObserverECI(g, jd)

	// East at the equator is along Earth's rotation direction.
	east := r3.Unit(r3.Vec{X: -obsPos.Y, Y: obsPos.X, Z: 0})
	target := r3.Add(obsPos, r3.Scale(500, east))
	topo := LookAngles(g, jd, target, r3.Vec{})

	if math.Abs(topo.Azimuth-math.Pi/2) > 0.01 {
		t.Errorf("azimuth: got %f want ~π/2", topo.Azimuth)
	}
	if math.Abs(topo.Elevation) > 0.01 {
		t.Errorf("elevation: got %f want ~0", topo.Elevation)
	}
}

func TestLookAngles_AzimuthRange(t *testing.T) {
	g := Geodetic{Lat: 0.7, Lon: 0.2}
	jd := 2460310.5
	for i := 0; i < 100; i++ {
		ang := float64(i) * 0.0628
		target := r3.Vec{
			X: 7000 * math.Cos(ang),
			Y: 7000 * math.Sin(ang),
			Z: 2000 * math.Sin(3*ang),
		}
		topo := LookAngles(g, jd, target, r3.Vec{X: 1, Y: -2, Z: 3})
		if topo.Azimuth < 0 || topo.Azimuth >= 2*math.Pi {
			t.Fatalf("azimuth out of range: %f", topo.Azimuth)
		}
		if topo.Elevation < -math.Pi/2 || topo.Elevation > math.Pi/2 {
			t.Fatalf("elevation out of range: %f", topo.Elevation)
		}
	}
}

func TestObserverECI_Velocity(t *testing.T) {
	// The observer velocity should match a finite difference of the
	// observer position.
	g := Geodetic{Lat: 0.5, Lon: 1.0, AltKm: 0.2}
	jd := 2460310.5
	const dtSec = 0.5
	dtDays := dtSec / 86400.0

	p0, v := ObserverECI(g, jd)
	p1, _ := ObserverECI(g, jd+dtDays)
	numeric := r3.Scale(1/dtSec, r3.Sub(p1, p0))
	if d := r3.Norm(r3.Sub(numeric, v)); d > 1e-4 {
		t.Errorf("velocity mismatch: %g km/s", d)
	}
}
