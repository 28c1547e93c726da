package coord

import (
	"math"

	"gonum.org/v1/gonum/spatial/r3"
)

// Geodetic holds geodetic coordinates on the WGS-84 ellipsoid.
type Geodetic struct {
	Lat   float64 // latitude, rad, north positive
	Lon   float64 // east longitude, rad, (-π, π]
	AltKm float64 // height above the ellipsoid, km
}

// ECIToECEF rotates an ECI vector into the Earth-fixed frame at the given
// Julian date.
func ECIToECEF(p r3.Vec, jd float64) r3.Vec {
	sinG, cosG := math.Sincos(GMST(jd))
	return r3.Vec{
		X: cosG*p.X + sinG*p.Y,
		Y: -sinG*p.X + cosG*p.Y,
		Z: p.Z,
	}
}

// ECEFToECI rotates an Earth-fixed vector into the ECI frame at the given
// Julian date.
func ECEFToECI(p r3.Vec, jd float64) r3.Vec {
	sinG, cosG := math.Sincos(GMST(jd))
	return r3.Vec{
		X: cosG*p.X - sinG*p.Y,
		Y: sinG*p.X + cosG*p.Y,
		Z: p.Z,
	}
}

// ECEFToGeodetic converts an Earth-fixed position (km) to geodetic
// coordinates by fixed-point iteration on the geodetic latitude. Converges to double
// precision in at most 5 iterations for any terrestrial or orbital position.
func ECEFToGeodetic(p r3.Vec) Geodetic {
	e2 := Flattening * (2 - Flattening)
	lon := math.Atan2(p.Y, p.X)

	rho := math.Hypot(p.X, p.Y)
	if rho == 0 {
		// On the polar axis.
		lat := math.Pi / 2
		if p.Z < 0 {
			lat = -lat
		}
		return Geodetic{
			Lat:   lat,
			Lon:   lon,
			AltKm: math.Abs(p.Z) - EarthRadiusKm*(1-Flattening),
		}
	}

	lat := math.Atan2(p.Z, rho)
	var n float64
	for i := 0; i < 5; i++ {
		prev := lat
		sinLat := math.Sin(lat)
		n = EarthRadiusKm / math.Sqrt(1-e2*sinLat*sinLat)
		lat = math.Atan2(p.Z+n*e2*sinLat, rho)
		if math.Abs(lat-prev) < 1e-12 {
			break
		}
	}

	sinLat, cosLat := math.Sincos(lat)
	var alt float64
	if math.Abs(cosLat) > 1e-10 {
		alt = rho/cosLat - n
	} else {
		alt = math.Abs(p.Z)/math.Abs(sinLat) - n*(1-e2)
	}
	return Geodetic{Lat: lat, Lon: lon, AltKm: alt}
}

// ECIToGeodetic converts an ECI position (km) at the given Julian date to
// geodetic coordinates.
func ECIToGeodetic(p r3.Vec, jd float64) Geodetic {
	return ECEFToGeodetic(ECIToECEF(p, jd))
}

// GeodeticToECEF converts geodetic coordinates to an Earth-fixed position in
// km.
func GeodeticToECEF(g Geodetic) r3.Vec {
	e2 := Flattening * (2 - Flattening)
	sinLat, cosLat := math.Sincos(g.Lat)
	sinLon, cosLon := math.Sincos(g.Lon)
	n := EarthRadiusKm / math.Sqrt(1-e2*sinLat*sinLat)
	return r3.Vec{
		X: (n + g.AltKm) * cosLat * cosLon,
		Y: (n + g.AltKm) * cosLat * sinLon,
		Z: (n*(1-e2) + g.AltKm) * sinLat,
	}
}

// ObserverECI returns the ECI position (km) and velocity (km/s) of a ground
// observer at the given Julian date. The velocity is due to Earth rotation.
func ObserverECI(g Geodetic, jd float64) (pos, vel r3.Vec) {
	theta := LMST(jd, g.Lon)
	sinLat, cosLat := math.Sincos(g.Lat)
	sinTheta, cosTheta := math.Sincos(theta)

	c := 1 / math.Sqrt(1+Flattening*(Flattening-2)*sinLat*sinLat)
	sq := (1 - Flattening) * (1 - Flattening) * c
	achcp := (EarthRadiusKm*c + g.AltKm) * cosLat

	pos = r3.Vec{
		X: achcp * cosTheta,
		Y: achcp * sinTheta,
		Z: (EarthRadiusKm*sq + g.AltKm) * sinLat,
	}
	vel = r3.Vec{
		X: -earthRotationRadPerSec * pos.Y,
		Y: earthRotationRadPerSec * pos.X,
		Z: 0,
	}
	return pos, vel
}
