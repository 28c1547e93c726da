package orbit

import (
	"math"

	"gonum.org/v1/gonum/spatial/r3"

	"github.com/kroburg/libpredict/coord"
	"github.com/kroburg/libpredict/tle"
)

// resonanceKind classifies a deep-space orbit by its geopotential resonance.
type resonanceKind int

const (
	nonResonant resonanceKind = iota
	synchronous               // 24-hour geosynchronous resonance
	halfDay                   // 12-hour Molniya-type resonance
)

// sdp4 extends SGP4 with deep-space lunisolar perturbations and geopotential
// resonance. The immutable fields are derived once from the element set; the
// integrator state (atime, xli, xni) advances with each propagation and is
// re-seeded from epoch whenever the requested time crosses to the other side
// of the epoch, so that results depend only on the requested time.
type sdp4 struct {
	el *tle.TLE

	// Near-Earth portion, shared with the SGP4 derivation.
	aodp, xnodp           float64
	cosio, sinio          float64
	theta2, x3thm1        float64
	c1, c4                float64
	xmdot, omgdot, xnodot float64
	xnodcf, t2cof         float64
	xlcof, aycof          float64

	// Deep-space epoch quantities.
	thgr, xnq, xqncl, omegaq float64
	zmos, zmol               float64

	// Lunisolar secular rates.
	sse, ssi, ssl, ssg, ssh float64

	// Solar long-period coefficients.
	se2, se3, si2, si3, sl2, sl3, sl4     float64
	sgh2, sgh3, sgh4, sh2, sh3            float64
	// Lunar long-period coefficients.
	ee2, e3, xi2, xi3, xl2, xl3, xl4      float64
	xgh2, xgh3, xgh4, xh2, xh3            float64

	// Resonance terms.
	resonance           resonanceKind
	del1, del2, del3    float64 // synchronous
	fasx2, fasx4, fasx6 float64
	d2201, d2211        float64 // 12-hour
	d3210, d3222        float64
	d4410, d4422        float64
	d5220, d5232        float64
	d5421, d5433        float64
	xlamo, xfact        float64

	// Mutable integrator state, minutes from epoch.
	atime, xli, xni float64
}

func newSDP4(el *tle.TLE) *sdp4 {
	s := &sdp4{el: el}

	// Recover original mean motion and semi-major axis, as in SGP4.
	a1 := math.Pow(xke/el.Xno, tothrd)
	s.cosio = math.Cos(el.Xincl)
	s.theta2 = s.cosio * s.cosio
	s.x3thm1 = 3*s.theta2 - 1
	eosq := el.Eo * el.Eo
	betao2 := 1 - eosq
	betao := math.Sqrt(betao2)
	del1 := 1.5 * ck2 * s.x3thm1 / (a1 * a1 * betao * betao2)
	ao := a1 * (1 - del1*(0.5*tothrd+del1*(1+134.0/81.0*del1)))
	delo := 1.5 * ck2 * s.x3thm1 / (ao * ao * betao * betao2)
	s.xnodp = el.Xno / (1 + delo)
	s.aodp = ao / (1 - delo)

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
	eta := s.aodp * el.Eo * tsi
	etasq := eta * eta
	eeta := el.Eo * eta
	psisq := math.Abs(1 - etasq)
	coef := qoms24 * math.Pow(tsi, 4)
	coef1 := coef / math.Pow(psisq, 3.5)
	c2 := coef1 * s.xnodp * (s.aodp*(1+1.5*etasq+eeta*(4+etasq)) +
		0.75*ck2*tsi/psisq*s.x3thm1*(8+3*etasq*(8+etasq)))
	s.c1 = el.Bstar * c2
	s.sinio = math.Sin(el.Xincl)
	a3ovk2 := -xj3 / ck2 * ae * ae * ae
	x1mth2 := 1 - s.theta2
	s.c4 = 2 * s.xnodp * coef1 * s.aodp * betao2 *
		(eta*(2+0.5*etasq) + el.Eo*(0.5+2*etasq) -
			2*ck2*tsi/(s.aodp*psisq)*
				(-3*s.x3thm1*(1-2*eeta+etasq*(1.5-0.5*eeta))+
					0.75*x1mth2*(2*etasq-eeta*(1+etasq))*math.Cos(2*el.Omegao)))

	theta4 := s.theta2 * s.theta2
	temp1 := 3 * ck2 * pinvsq * s.xnodp
	temp2 := temp1 * ck2 * pinvsq
	temp3 := 1.25 * ck4 * pinvsq * pinvsq * s.xnodp
	s.xmdot = s.xnodp + 0.5*temp1*betao*s.x3thm1 +
		0.0625*temp2*betao*(13-78*s.theta2+137*theta4)
	x1m5th := 1 - 5*s.theta2
	s.omgdot = -0.5*temp1*x1m5th + 0.0625*temp2*(7-114*s.theta2+395*theta4) +
		temp3*(3-36*s.theta2+49*theta4)
	xhdot1 := -temp1 * s.cosio
	s.xnodot = xhdot1 + (0.5*temp2*(4-19*s.theta2)+2*temp3*(3-7*s.theta2))*s.cosio
	s.xnodcf = 3.5 * betao2 * xhdot1 * s.c1
	s.t2cof = 1.5 * s.c1
	s.xlcof = 0.125 * a3ovk2 * s.sinio * (3 + 5*s.cosio) / (1 + s.cosio)
	s.aycof = 0.25 * a3ovk2 * s.sinio

	s.deepInit(eosq, betao, betao2)
	return s
}

// deepInit derives the lunisolar perturbation coefficients and classifies
// the resonance regime.
func (s *sdp4) deepInit(eosq, betao, betao2 float64) {
	el := s.el
	epochJD := el.Epoch.JD()

	s.thgr = coord.GMST(epochJD)
	eq := el.Eo
	s.xnq = s.xnodp
	aqnv := 1 / s.aodp
	s.xqncl = el.Xincl
	xmao := el.Xmo
	s.omegaq = el.Omegao
	xpidot := s.omgdot + s.xnodot
	sinq := math.Sin(el.Xnodeo)
	cosq := math.Cos(el.Xnodeo)
	sinomo := math.Sin(el.Omegao)
	cosomo := math.Cos(el.Omegao)
	siniq := s.sinio
	cosiq := s.cosio
	rteqsq := betao
	bsq := betao2

	// Epoch positions of the Sun and Moon (mean elements).
	day := epochJD - 2415020.0
	xnodce := 4.5236020 - 9.2422029e-4*day
	stem := math.Sin(xnodce)
	ctem := math.Cos(xnodce)
	zcosil := 0.91375164 - 0.03568096*ctem
	zsinil := math.Sqrt(1 - zcosil*zcosil)
	zsinhl := 0.089683511 * stem / zsinil
	zcoshl := math.Sqrt(1 - zsinhl*zsinhl)
	c := 4.7199672 + 0.22997150*day
	gam := 5.8351514 + 0.0019443680*day
	s.zmol = mod2p(c - gam)
	zx := 0.39785416 * stem / zsinil
	zy := zcoshl*ctem + 0.91744867*zsinhl*stem
	zx = math.Atan2(zx, zy)
	zx = gam + zx - xnodce
	zcosgl := math.Cos(zx)
	zsingl := math.Sin(zx)
	s.zmos = mod2p(6.2565837 + 0.017201977*day)

	// Solar terms, then the same block with lunar parameters.
	zcosg, zsing := zcosgs, zsings
	zcosi, zsini := zcosis, zsinis
	zcosh, zsinh := cosq, sinq
	cc := c1ss
	zn := zns
	ze := zes
	xnoi := 1 / s.xnq

	var se, si, sl, sgh, sh float64
	for body := 0; body < 2; body++ {
		a1 := zcosg*zcosh + zsing*zcosi*zsinh
		a3 := -zsing*zcosh + zcosg*zcosi*zsinh
		a7 := -zcosg*zsinh + zsing*zcosi*zcosh
		a8 := zsing * zsini
		a9 := zsing*zsinh + zcosg*zcosi*zcosh
		a10 := zcosg * zsini
		a2 := cosiq*a7 + siniq*a8
		a4 := cosiq*a9 + siniq*a10
		a5 := -siniq*a7 + cosiq*a8
		a6 := -siniq*a9 + cosiq*a10

		x1 := a1*cosomo + a2*sinomo
		x2 := a3*cosomo + a4*sinomo
		x3 := -a1*sinomo + a2*cosomo
		x4 := -a3*sinomo + a4*cosomo
		x5 := a5 * sinomo
		x6 := a6 * sinomo
		x7 := a5 * cosomo
		x8 := a6 * cosomo

		z31 := 12*x1*x1 - 3*x3*x3
		z32 := 24*x1*x2 - 6*x3*x4
		z33 := 12*x2*x2 - 3*x4*x4
		z1 := 3*(a1*a1+a2*a2) + z31*eosq
		z2 := 6*(a1*a3+a2*a4) + z32*eosq
		z3 := 3*(a3*a3+a4*a4) + z33*eosq
		z11 := -6*a1*a5 + eosq*(-24*x1*x7-6*x3*x5)
		z12 := -6*(a1*a6+a3*a5) + eosq*(-24*(x2*x7+x1*x8)-6*(x3*x6+x4*x5))
		z13 := -6*a3*a6 + eosq*(-24*x2*x8-6*x4*x6)
		z21 := 6*a2*a5 + eosq*(24*x1*x5-6*x3*x7)
		z22 := 6*(a4*a5+a2*a6) + eosq*(24*(x2*x5+x1*x6)-6*(x4*x7+x3*x8))
		z23 := 6*a4*a6 + eosq*(24*x2*x6-6*x4*x8)
		z1 = z1 + z1 + bsq*z31
		z2 = z2 + z2 + bsq*z32
		z3 = z3 + z3 + bsq*z33
		s3 := cc * xnoi
		s2 := -0.5 * s3 / rteqsq
		s4 := s3 * rteqsq
		s1 := -15 * eq * s4
		s5 := x1*x3 + x2*x4
		s6 := x2*x3 + x1*x4
		s7 := x2*x4 - x1*x3

		se = s1 * zn * s5
		si = s2 * zn * (z11 + z13)
		sl = -zn * s3 * (z1 + z3 - 14 - 6*eosq)
		sgh = s4 * zn * (z31 + z33 - 6)
		sh = -zn * s2 * (z21 + z23)
		if s.xqncl < 5.2359877e-2 {
			sh = 0
		}

		if body == 0 {
			// Save the solar coefficients, then rerun for the Moon.
			s.se2 = 2 * s1 * s6
			s.se3 = 2 * s1 * s7
			s.si2 = 2 * s2 * z12
			s.si3 = 2 * s2 * (z13 - z11)
			s.sl2 = -2 * s3 * z2
			s.sl3 = -2 * s3 * (z3 - z1)
			s.sl4 = -2 * s3 * (-21 - 9*eosq) * ze
			s.sgh2 = 2 * s4 * z32
			s.sgh3 = 2 * s4 * (z33 - z31)
			s.sgh4 = -18 * s4 * ze
			s.sh2 = -2 * s2 * z22
			s.sh3 = -2 * s2 * (z23 - z21)

			s.sse = se
			s.ssi = si
			s.ssl = sl
			s.ssh = 0
			if siniq != 0 {
				s.ssh = sh / siniq
			}
			s.ssg = sgh - cosiq*s.ssh

			zcosg, zsing = zcosgl, zsingl
			zcosi, zsini = zcosil, zsinil
			zcosh = zcoshl*cosq + zsinhl*sinq
			zsinh = sinq*zcoshl - cosq*zsinhl
			zn = znl
			cc = c1l
			ze = zel
			continue
		}

		s.ee2 = 2 * s1 * s6
		s.e3 = 2 * s1 * s7
		s.xi2 = 2 * s2 * z12
		s.xi3 = 2 * s2 * (z13 - z11)
		s.xl2 = -2 * s3 * z2
		s.xl3 = -2 * s3 * (z3 - z1)
		s.xl4 = -2 * s3 * (-21 - 9*eosq) * ze
		s.xgh2 = 2 * s4 * z32
		s.xgh3 = 2 * s4 * (z33 - z31)
		s.xgh4 = -18 * s4 * ze
		s.xh2 = -2 * s2 * z22
		s.xh3 = -2 * s2 * (z23 - z21)

		s.sse += se
		s.ssi += si
		s.ssl += sl
		if siniq != 0 {
			s.ssg += sgh - cosiq/siniq*sh
			s.ssh += sh / siniq
		}
	}

	// Resonance classification and coefficients.
	switch {
	case s.xnq > 0.0034906585 && s.xnq < 0.0052359877:
		// 24-hour synchronous resonance.
		s.resonance = synchronous
		g200 := 1 + eosq*(-2.5+0.8125*eosq)
		g310 := 1 + 2*eosq
		g300 := 1 + eosq*(-6+6.60937*eosq)
		f220 := 0.75 * (1 + cosiq) * (1 + cosiq)
		f311 := 0.9375*siniq*siniq*(1+3*cosiq) - 0.75*(1+cosiq)
		f330 := 1 + cosiq
		f330 = 1.875 * f330 * f330 * f330
		del1 := 3 * s.xnq * s.xnq * aqnv * aqnv
		s.del2 = 2 * del1 * f220 * g200 * q22
		s.del3 = 3 * del1 * f330 * g300 * q33 * aqnv
		s.del1 = del1 * f311 * g310 * q31 * aqnv
		s.fasx2 = 0.13130908
		s.fasx4 = 2.8843198
		s.fasx6 = 0.37448087
		s.xlamo = mod2p(xmao + el.Xnodeo + el.Omegao - s.thgr)
		s.xfact = s.xmdot + xpidot - thdt + s.ssl + s.ssg + s.ssh - s.xnq

	case s.xnq >= 8.26e-3 && s.xnq <= 9.24e-3 && eq >= 0.5:
		// 12-hour Molniya-type resonance.
		s.resonance = halfDay
		eoc := eq * eosq
		g201 := -0.306 - (eq-0.64)*0.440
		var g211, g310, g322, g410, g422, g520 float64
		if eq <= 0.65 {
			g211 = 3.616 - 13.247*eq + 16.290*eosq
			g310 = -19.302 + 117.390*eq - 228.419*eosq + 156.591*eoc
			g322 = -18.9068 + 109.7927*eq - 214.6334*eosq + 146.5816*eoc
			g410 = -41.122 + 242.694*eq - 471.094*eosq + 313.953*eoc
			g422 = -146.407 + 841.880*eq - 1629.014*eosq + 1083.435*eoc
			g520 = -532.114 + 3017.977*eq - 5740.0*eosq + 3708.276*eoc
		} else {
			g211 = -72.099 + 331.819*eq - 508.738*eosq + 266.724*eoc
			g310 = -346.844 + 1582.851*eq - 2415.925*eosq + 1246.113*eoc
			g322 = -342.585 + 1554.908*eq - 2366.899*eosq + 1215.972*eoc
			g410 = -1052.797 + 4758.686*eq - 7193.992*eosq + 3651.957*eoc
			g422 = -3581.69 + 16178.11*eq - 24462.77*eosq + 12422.52*eoc
			if eq <= 0.715 {
				g520 = 1464.74 - 4664.75*eq + 3763.64*eosq
			} else {
				g520 = -5149.66 + 29936.92*eq - 54087.36*eosq + 31324.56*eoc
			}
		}
		var g533, g521, g532 float64
		if eq < 0.7 {
			g533 = -919.2277 + 4988.61*eq - 9064.77*eosq + 5542.21*eoc
			g521 = -822.71072 + 4568.6173*eq - 8491.4146*eosq + 5337.524*eoc
			g532 = -853.666 + 4690.25*eq - 8624.77*eosq + 5341.4*eoc
		} else {
			g533 = -37995.78 + 161616.52*eq - 229838.2*eosq + 109377.94*eoc
			g521 = -51752.104 + 218913.95*eq - 309468.16*eosq + 146349.42*eoc
			g532 = -40023.88 + 170470.89*eq - 242699.48*eosq + 115605.82*eoc
		}
		sini2 := siniq * siniq
		cosq2 := cosiq * cosiq
		f220 := 0.75 * (1 + 2*cosiq + cosq2)
		f221 := 1.5 * sini2
		f321 := 1.875 * siniq * (1 - 2*cosiq - 3*cosq2)
		f322 := -1.875 * siniq * (1 + 2*cosiq - 3*cosq2)
		f441 := 35 * sini2 * f220
		f442 := 39.375 * sini2 * sini2
		f522 := 9.84375 * siniq * (sini2*(1-2*cosiq-5*cosq2) +
			0.33333333*(-2+4*cosiq+6*cosq2))
		f523 := siniq * (4.92187512*sini2*(-2-4*cosiq+10*cosq2) +
			6.56250012*(1+2*cosiq-3*cosq2))
		f542 := 29.53125 * siniq * (2 - 8*cosiq + cosq2*(-12+8*cosiq+10*cosq2))
		f543 := 29.53125 * siniq * (-2 - 8*cosiq + cosq2*(12+8*cosiq-10*cosq2))
		xno2 := s.xnq * s.xnq
		ainv2 := aqnv * aqnv
		temp1 := 3 * xno2 * ainv2
		temp := temp1 * root22
		s.d2201 = temp * f220 * g201
		s.d2211 = temp * f221 * g211
		temp1 *= aqnv
		temp = temp1 * root32
		s.d3210 = temp * f321 * g310
		s.d3222 = temp * f322 * g322
		temp1 *= aqnv
		temp = 2 * temp1 * root44
		s.d4410 = temp * f441 * g410
		s.d4422 = temp * f442 * g422
		temp1 *= aqnv
		temp = temp1 * root52
		s.d5220 = temp * f522 * g520
		s.d5232 = temp * f523 * g532
		temp = 2 * temp1 * root54
		s.d5421 = temp * f542 * g521
		s.d5433 = temp * f543 * g533
		s.xlamo = mod2p(xmao + 2*el.Xnodeo - 2*s.thgr)
		s.xfact = s.xmdot + 2*(s.xnodot-thdt) - s.xnq + s.ssl + 2*s.ssh
	}

	if s.resonance != nonResonant {
		s.resetIntegrator()
	}
}

// resetIntegrator seeds the resonance integrator at the element epoch.
func (s *sdp4) resetIntegrator() {
	s.atime = 0
	s.xni = s.xnq
	s.xli = s.xlamo
}

// derivatives evaluates the resonance rates at the current integrator state.
func (s *sdp4) derivatives() (xndot, xnddt, xldot float64) {
	if s.resonance == synchronous {
		xndot = s.del1*math.Sin(s.xli-s.fasx2) +
			s.del2*math.Sin(2*(s.xli-s.fasx4)) +
			s.del3*math.Sin(3*(s.xli-s.fasx6))
		xnddt = s.del1*math.Cos(s.xli-s.fasx2) +
			2*s.del2*math.Cos(2*(s.xli-s.fasx4)) +
			3*s.del3*math.Cos(3*(s.xli-s.fasx6))
	} else {
		xomi := s.omegaq + s.omgdot*s.atime
		x2omi := xomi + xomi
		x2li := s.xli + s.xli
		xndot = s.d2201*math.Sin(x2omi+s.xli-g22) +
			s.d2211*math.Sin(s.xli-g22) +
			s.d3210*math.Sin(xomi+s.xli-g32) +
			s.d3222*math.Sin(-xomi+s.xli-g32) +
			s.d4410*math.Sin(x2omi+x2li-g44) +
			s.d4422*math.Sin(x2li-g44) +
			s.d5220*math.Sin(xomi+s.xli-g52) +
			s.d5232*math.Sin(-xomi+s.xli-g52) +
			s.d5421*math.Sin(xomi+x2li-g54) +
			s.d5433*math.Sin(-xomi+x2li-g54)
		xnddt = s.d2201*math.Cos(x2omi+s.xli-g22) +
			s.d2211*math.Cos(s.xli-g22) +
			s.d3210*math.Cos(xomi+s.xli-g32) +
			s.d3222*math.Cos(-xomi+s.xli-g32) +
			2*(s.d4410*math.Cos(x2omi+x2li-g44)+
				s.d4422*math.Cos(x2li-g44)+
				s.d5421*math.Cos(xomi+x2li-g54)+
				s.d5433*math.Cos(-xomi+x2li-g54)) +
			s.d5220*math.Cos(xomi+s.xli-g52) +
			s.d5232*math.Cos(-xomi+s.xli-g52)
	}
	xldot = s.xni + s.xfact
	xnddt *= xldot
	return xndot, xnddt, xldot
}

// deepSecular applies the deep-space secular perturbations and, for resonant
// orbits, advances the integrator to time t (minutes from epoch).
func (s *sdp4) deepSecular(t float64, xll, omgadf, xnode, em, xinc, xn float64) (xllOut, omgadfOut, xnodeOut, emOut, xincOut, xnOut float64) {
	el := s.el
	xll += s.ssl * t
	omgadf += s.ssg * t
	xnode += s.ssh * t
	em = el.Eo + s.sse*t
	xinc = el.Xincl + s.ssi*t
	if xinc < 0 {
		xinc = -xinc
		xnode += pi
		omgadf -= pi
	}
	if s.resonance == nonResonant {
		return xll, omgadf, xnode, em, xinc, xn
	}

	// Reinitialize from epoch when the requested time lies on the other
	// side of epoch, moves back toward epoch, or jumps far ahead of the
	// integrator. Stepping then always proceeds away from epoch, so the
	// state reached at any t is independent of the call history.
	if (t >= 0) != (s.atime >= 0) ||
		math.Abs(t) < math.Abs(s.atime) ||
		math.Abs(t-s.atime) > 10*dsStep {
		s.resetIntegrator()
	}

	// Fixed 720-minute steps toward t, then a quadratic partial step.
	var xndot, xnddt, xldot float64
	for {
		xndot, xnddt, xldot = s.derivatives()
		if math.Abs(t-s.atime) < dsStep {
			break
		}
		delt := math.Copysign(dsStep, t)
		s.xli += xldot*delt + xndot*dsStep2
		s.xni += xndot*delt + xnddt*dsStep2
		s.atime += delt
	}
	ft := t - s.atime
	xn = s.xni + xndot*ft + xnddt*ft*ft*0.5
	xl := s.xli + xldot*ft + xndot*ft*ft*0.5

	temp := -xnode + s.thgr + t*thdt
	if s.resonance == synchronous {
		xll = xl - omgadf + temp
	} else {
		xll = xl + temp + temp
	}
	return xll, omgadf, xnode, em, xinc, xn
}

// deepPeriodic applies the lunisolar long-period periodic perturbations at
// time t (minutes from epoch).
func (s *sdp4) deepPeriodic(t float64, em, xinc, omgadf, xnode, xll float64) (emOut, xincOut, omgadfOut, xnodeOut, xllOut float64) {
	// Solar terms.
	zm := s.zmos + zns*t
	zf := zm + 2*zes*math.Sin(zm)
	sinzf := math.Sin(zf)
	f2 := 0.5*sinzf*sinzf - 0.25
	f3 := -0.5 * sinzf * math.Cos(zf)
	ses := s.se2*f2 + s.se3*f3
	sis := s.si2*f2 + s.si3*f3
	sls := s.sl2*f2 + s.sl3*f3 + s.sl4*sinzf
	sghs := s.sgh2*f2 + s.sgh3*f3 + s.sgh4*sinzf
	shs := s.sh2*f2 + s.sh3*f3

	// Lunar terms.
	zm = s.zmol + znl*t
	zf = zm + 2*zel*math.Sin(zm)
	sinzf = math.Sin(zf)
	f2 = 0.5*sinzf*sinzf - 0.25
	f3 = -0.5 * sinzf * math.Cos(zf)
	sel := s.ee2*f2 + s.e3*f3
	sil := s.xi2*f2 + s.xi3*f3
	sll := s.xl2*f2 + s.xl3*f3 + s.xl4*sinzf
	sghl := s.xgh2*f2 + s.xgh3*f3 + s.xgh4*sinzf
	shl := s.xh2*f2 + s.xh3*f3

	pe := ses + sel
	pinc := sis + sil
	pl := sls + sll
	pgh := sghs + sghl
	ph := shs + shl

	sinis := math.Sin(xinc)
	cosis := math.Cos(xinc)
	xinc += pinc
	em += pe

	if s.xqncl >= 0.2 {
		// Direct application.
		ph /= s.sinio
		pgh -= s.cosio * ph
		omgadf += pgh
		xnode += ph
		xll += pl
	} else {
		// Lyddane modification for low inclinations.
		xnode = mod2p(xnode)
		sinok := math.Sin(xnode)
		cosok := math.Cos(xnode)
		alfdp := sinis*sinok + ph*cosok + pinc*cosis*sinok
		betdp := sinis*cosok - ph*sinok + pinc*cosis*cosok
		xls := xll + omgadf + cosis*xnode
		xls += pl + pgh - pinc*xnode*sinis
		xnodeOld := xnode
		xnode = math.Atan2(alfdp, betdp)
		// Keep the node continuous across the atan2 branch cut.
		if math.Abs(xnodeOld-xnode) > pi {
			if xnode < xnodeOld {
				xnode += twoPi
			} else {
				xnode -= twoPi
			}
		}
		xll += pl
		omgadf = xls - xll - math.Cos(xinc)*xnode
	}
	return em, xinc, omgadf, xnode, xll
}

// position propagates to tsince minutes from the element epoch.
func (s *sdp4) position(tsince float64) (pos, vel r3.Vec, err error) {
	el := s.el

	xmdf := el.Xmo + s.xmdot*tsince
	omgadf := el.Omegao + s.omgdot*tsince
	xnoddf := el.Xnodeo + s.xnodot*tsince
	tsq := tsince * tsince
	xnode := xnoddf + s.xnodcf*tsq
	tempa := 1 - s.c1*tsince
	tempe := el.Bstar * s.c4 * tsince
	templ := s.t2cof * tsq
	xn := s.xnodp

	var em, xinc float64
	xmdf, omgadf, xnode, em, xinc, xn =
		s.deepSecular(tsince, xmdf, omgadf, xnode, em, xinc, xn)

	a := math.Pow(xke/xn, tothrd) * tempa * tempa
	em -= tempe
	xmam := xmdf + s.xnodp*templ

	em, xinc, omgadf, xnode, xmam =
		s.deepPeriodic(tsince, em, xinc, omgadf, xnode, xmam)

	xl := xmam + omgadf + xnode

	if a < 1 {
		return pos, vel, ErrDecayed
	}

	return assemblePosition(keplerInputs{
		a: a, e: em, xl: xl, omega: omgadf, xnode: xnode, xinc: xinc,
		xlcof: s.xlcof, aycof: s.aycof,
	})
}
