package orbit

import (
	"math"

	"gonum.org/v1/gonum/spatial/r3"

	"github.com/kroburg/libpredict/tle"
)

// sgp4 holds the per-orbit constants of the near-Earth SGP4 model, derived
// once from the element set (Hoots & Roehrich, Spacetrack Report No. 3).
type sgp4 struct {
	el *tle.TLE

	// simple selects the truncated drag model used for perigees below
	// 220 km.
	simple bool

	aodp, xnodp          float64
	cosio, sinio, x3thm1 float64
	x1mth2, x7thm1       float64
	eta, c1, c4, c5      float64
	xmdot, omgdot, xnodot float64
	omgcof, xmcof, xnodcf float64
	t2cof, xlcof, aycof  float64
	delmo, sinmo         float64
	d2, d3, d4           float64
	t3cof, t4cof, t5cof  float64
}

// newSGP4 initializes the model for one element set.
func newSGP4(el *tle.TLE) *sgp4 {
	s := &sgp4{el: el}

	// Recover the original (Brouwer) mean motion and semi-major axis from
	// the Kozai mean motion of the element set.
	a1 := math.Pow(xke/el.Xno, tothrd)
	s.cosio = math.Cos(el.Xincl)
	theta2 := s.cosio * s.cosio
	s.x3thm1 = 3*theta2 - 1
	eosq := el.Eo * el.Eo
	betao2 := 1 - eosq
	betao := math.Sqrt(betao2)
	del1 := 1.5 * ck2 * s.x3thm1 / (a1 * a1 * betao * betao2)
	ao := a1 * (1 - del1*(0.5*tothrd+del1*(1+134.0/81.0*del1)))
	delo := 1.5 * ck2 * s.x3thm1 / (ao * ao * betao * betao2)
	s.xnodp = el.Xno / (1 + delo)
	s.aodp = ao / (1 - delo)

	s.simple = s.aodp*(1-el.Eo)/ae < 220.0/xkmper+ae

	// Adjust the density profile constants for low perigees.
	s4 := s0
	qoms24 := qoms2t
	perigee := (s.aodp*(1-el.Eo) - ae) * xkmper
	if perigee < 156 {
		s4 = perigee - 78
		if perigee <= 98 {
			s4 = 20
		}
		qoms24 = math.Pow((120-s4)*ae/xkmper, 4)
		s4 = s4/xkmper + ae
	}

	pinvsq := 1 / (s.aodp * s.aodp * betao2 * betao2)
	tsi := 1 / (s.aodp - s4)
	s.eta = s.aodp * el.Eo * tsi
	etasq := s.eta * s.eta
	eeta := el.Eo * s.eta
	psisq := math.Abs(1 - etasq)
	coef := qoms24 * math.Pow(tsi, 4)
	coef1 := coef / math.Pow(psisq, 3.5)
	c2 := coef1 * s.xnodp * (s.aodp*(1+1.5*etasq+eeta*(4+etasq)) +
		0.75*ck2*tsi/psisq*s.x3thm1*(8+3*etasq*(8+etasq)))
	s.c1 = el.Bstar * c2
	s.sinio = math.Sin(el.Xincl)
	a3ovk2 := -xj3 / ck2 * ae * ae * ae
	c3 := coef * tsi * a3ovk2 * s.xnodp * ae * s.sinio / el.Eo
	s.x1mth2 = 1 - theta2
	s.c4 = 2 * s.xnodp * coef1 * s.aodp * betao2 *
		(s.eta*(2+0.5*etasq) + el.Eo*(0.5+2*etasq) -
			2*ck2*tsi/(s.aodp*psisq)*
				(-3*s.x3thm1*(1-2*eeta+etasq*(1.5-0.5*eeta))+
					0.75*s.x1mth2*(2*etasq-eeta*(1+etasq))*math.Cos(2*el.Omegao)))
	s.c5 = 2 * coef1 * s.aodp * betao2 * (1 + 2.75*(etasq+eeta) + eeta*etasq)

	theta4 := theta2 * theta2
	temp1 := 3 * ck2 * pinvsq * s.xnodp
	temp2 := temp1 * ck2 * pinvsq
	temp3 := 1.25 * ck4 * pinvsq * pinvsq * s.xnodp
	s.xmdot = s.xnodp + 0.5*temp1*betao*s.x3thm1 +
		0.0625*temp2*betao*(13-78*theta2+137*theta4)
	x1m5th := 1 - 5*theta2
	s.omgdot = -0.5*temp1*x1m5th + 0.0625*temp2*(7-114*theta2+395*theta4) +
		temp3*(3-36*theta2+49*theta4)
	xhdot1 := -temp1 * s.cosio
	s.xnodot = xhdot1 + (0.5*temp2*(4-19*theta2)+2*temp3*(3-7*theta2))*s.cosio
	s.omgcof = el.Bstar * c3 * math.Cos(el.Omegao)
	s.xmcof = -tothrd * coef * el.Bstar * ae / eeta
	s.xnodcf = 3.5 * betao2 * xhdot1 * s.c1
	s.t2cof = 1.5 * s.c1
	s.xlcof = 0.125 * a3ovk2 * s.sinio * (3 + 5*s.cosio) / (1 + s.cosio)
	s.aycof = 0.25 * a3ovk2 * s.sinio
	s.delmo = math.Pow(1+s.eta*math.Cos(el.Xmo), 3)
	s.sinmo = math.Sin(el.Xmo)
	s.x7thm1 = 7*theta2 - 1

	if !s.simple {
		c1sq := s.c1 * s.c1
		s.d2 = 4 * s.aodp * tsi * c1sq
		temp := s.d2 * tsi * s.c1 / 3
		s.d3 = (17*s.aodp + s4) * temp
		s.d4 = 0.5 * temp * s.aodp * tsi * (221*s.aodp + 31*s4) * s.c1
		s.t3cof = s.d2 + 2*c1sq
		s.t4cof = 0.25 * (3*s.d3 + s.c1*(12*s.d2+10*c1sq))
		s.t5cof = 0.2 * (3*s.d4 + 12*s.c1*s.d3 + 6*s.d2*s.d2 +
			15*c1sq*(2*s.d2+c1sq))
	}
	return s
}

// position propagates to tsince minutes from the element epoch.
func (s *sgp4) position(tsince float64) (pos, vel r3.Vec, err error) {
	el := s.el

	// Secular gravity and atmospheric drag.
	xmdf := el.Xmo + s.xmdot*tsince
	omgadf := el.Omegao + s.omgdot*tsince
	xnoddf := el.Xnodeo + s.xnodot*tsince
	omega := omgadf
	xmp := xmdf
	tsq := tsince * tsince
	xnode := xnoddf + s.xnodcf*tsq
	tempa := 1 - s.c1*tsince
	tempe := el.Bstar * s.c4 * tsince
	templ := s.t2cof * tsq
	if !s.simple {
		delomg := s.omgcof * tsince
		delm := s.xmcof * (math.Pow(1+s.eta*math.Cos(xmdf), 3) - s.delmo)
		temp := delomg + delm
		xmp = xmdf + temp
		omega = omgadf - temp
		tcube := tsq * tsince
		tfour := tsince * tcube
		tempa = tempa - s.d2*tsq - s.d3*tcube - s.d4*tfour
		tempe = tempe + el.Bstar*s.c5*(math.Sin(xmp)-s.sinmo)
		templ = templ + s.t3cof*tcube + s.t4cof*tfour +
			s.t5cof*tfour*tsince
	}
	a := s.aodp * tempa * tempa
	e := el.Eo - tempe
	xl := xmp + omega + xnode + s.xnodp*templ

	if a < 1 {
		return pos, vel, ErrDecayed
	}

	return assemblePosition(keplerInputs{
		a: a, e: e, xl: xl, omega: omega, xnode: xnode, xinc: el.Xincl,
		xlcof: s.xlcof, aycof: s.aycof,
	})
}

// keplerInputs carries the osculating elements into the shared Kepler solve
// and short-period correction stage used by both models.
type keplerInputs struct {
	a, e, xl, omega, xnode, xinc float64
	xlcof, aycof                 float64
}

// assemblePosition applies the long-period periodics, solves Kepler's
// equation, applies the short-period periodics, and assembles the ECI state
// in km and km/s.
func assemblePosition(in keplerInputs) (pos, vel r3.Vec, err error) {
	beta := math.Sqrt(1 - in.e*in.e)
	xn := xke / math.Pow(in.a, 1.5)

	cosio := math.Cos(in.xinc)
	sinio := math.Sin(in.xinc)
	theta2 := cosio * cosio
	x3thm1 := 3*theta2 - 1
	x1mth2 := 1 - theta2
	x7thm1 := 7*theta2 - 1

	// Long-period periodics.
	axn := in.e * math.Cos(in.omega)
	temp := 1 / (in.a * beta * beta)
	xll := temp * in.xlcof * axn
	aynl := temp * in.aycof
	xlt := in.xl + xll
	ayn := in.e*math.Sin(in.omega) + aynl

	// Solve Kepler's equation by Newton iteration. The correction is
	// capped to keep the iteration stable for eccentricities close to 1.
	capu := mod2p(xlt - in.xnode)
	epw := capu
	var sinepw, cosepw, temp3, temp4, temp5, temp6 float64
	converged := false
	for i := 0; i < 10; i++ {
		sinepw = math.Sin(epw)
		cosepw = math.Cos(epw)
		temp3 = axn * sinepw
		temp4 = ayn * cosepw
		temp5 = axn * cosepw
		temp6 = ayn * sinepw
		delta := (capu - temp4 + temp3 - epw) / (1 - temp5 - temp6)
		if math.Abs(delta) > 0.95 {
			delta = math.Copysign(0.95, delta)
		}
		epw += delta
		if math.Abs(delta) <= 1e-12 {
			converged = true
			break
		}
	}
	if !converged {
		// Accept anything already at the model's native tolerance.
		if math.Abs(capu-temp4+temp3-epw) > e6a {
			return pos, vel, ErrConvergence
		}
	}

	// Short-period preliminary quantities.
	ecose := temp5 + temp6
	esine := temp3 - temp4
	elsq := axn*axn + ayn*ayn
	temp = 1 - elsq
	pl := in.a * temp
	r := in.a * (1 - ecose)
	temp1 := 1 / r
	rdot := xke * math.Sqrt(in.a) * esine * temp1
	rfdot := xke * math.Sqrt(pl) * temp1
	temp2 := in.a * temp1
	betal := math.Sqrt(temp)
	temp3 = 1 / (1 + betal)
	cosu := temp2 * (cosepw - axn + ayn*esine*temp3)
	sinu := temp2 * (sinepw - ayn - axn*esine*temp3)
	u := math.Atan2(sinu, cosu)
	sin2u := 2 * sinu * cosu
	cos2u := 2*cosu*cosu - 1
	temp = 1 / pl
	temp1 = ck2 * temp
	temp2 = temp1 * temp

	// Short-period periodics.
	rk := r*(1-1.5*temp2*betal*x3thm1) + 0.5*temp1*x1mth2*cos2u
	uk := u - 0.25*temp2*x7thm1*sin2u
	xnodek := in.xnode + 1.5*temp2*cosio*sin2u
	xinck := in.xinc + 1.5*temp2*cosio*sinio*cos2u
	rdotk := rdot - xn*temp1*x1mth2*sin2u
	rfdotk := rfdot + xn*temp1*(x1mth2*cos2u+1.5*x3thm1)

	if rk < 1 {
		return pos, vel, ErrDecayed
	}

	// Orientation vectors.
	sinuk := math.Sin(uk)
	cosuk := math.Cos(uk)
	sinik := math.Sin(xinck)
	cosik := math.Cos(xinck)
	sinnok := math.Sin(xnodek)
	cosnok := math.Cos(xnodek)
	xmx := -sinnok * cosik
	xmy := cosnok * cosik
	ux := xmx*sinuk + cosnok*cosuk
	uy := xmy*sinuk + sinnok*cosuk
	uz := sinik * sinuk
	vx := xmx*cosuk - cosnok*sinuk
	vy := xmy*cosuk - sinnok*sinuk
	vz := sinik * cosuk

	// Earth radii → km, Earth radii/min → km/s.
	pos = r3.Scale(xkmper, r3.Vec{X: rk * ux, Y: rk * uy, Z: rk * uz})
	vel = r3.Scale(xkmper/60.0, r3.Vec{
		X: rdotk*ux + rfdotk*vx,
		Y: rdotk*uy + rfdotk*vy,
		Z: rdotk*uz + rfdotk*vz,
	})
	return pos, vel, nil
}

func mod2p(x float64) float64 {
	x = math.Mod(x, twoPi)
	if x < 0 {
		x += twoPi
	}
	return x
}
