package orbit

// Physical and model constants for the SGP4/SDP4 propagators. Gravity-field
// values are the WGS-72 set the models were fitted against; the Earth radius
// used at the coordinate boundary is WGS-84.
const (
	twoPi  = 6.28318530717958623
	pi     = 3.14159265358979323846
	tothrd = 6.6666666666666666e-1

	xj2    = 1.0826158e-3 // J2 harmonic (WGS-72)
	xj3    = -2.53881e-6  // J3 harmonic (WGS-72)
	xj4    = -1.65597e-6  // J4 harmonic (WGS-72)
	xke    = 7.43669161e-2
	ck2    = 5.413079e-4
	ck4    = 6.209887e-7
	e6a    = 1.0e-6
	s0     = 1.012229
	qoms2t = 1.880279e-9

	xkmper = 6.378137e3 // WGS-84 Earth radius, km
	ae     = 1.0
	xmnpda = 1.44e3 // minutes per day
	secday = 8.64e4 // seconds per day

	// Deep-space lunisolar constants.
	zns    = 1.19459e-5
	c1ss   = 2.9864797e-6
	zes    = 1.675e-2
	znl    = 1.5835218e-4
	c1l    = 4.7968065e-7
	zel    = 5.490e-2
	zcosis = 9.1744867e-1
	zsinis = 3.9785416e-1
	zsings = -9.8088458e-1
	zcosgs = 1.945905e-1

	// Geopotential resonance coefficients.
	q22    = 1.7891679e-6
	q31    = 2.1460748e-6
	q33    = 2.2123015e-7
	g22    = 5.7686396
	g32    = 9.5240898e-1
	g44    = 1.8014998
	g52    = 1.0508330
	g54    = 4.4108898
	root22 = 1.7891679e-6
	root32 = 3.7393792e-7
	root44 = 7.3636953e-9
	root52 = 1.1428639e-7
	root54 = 2.1765803e-9
	thdt   = 4.3752691e-3 // Earth rotation, rad/min

	// Deep-space integrator step, minutes.
	dsStep  = 720.0
	dsStep2 = dsStep * dsStep / 2
)
