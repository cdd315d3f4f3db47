package ephem

// Keplerian elements at J2000 with per-century rates, from JPL's approximate
// planetary ephemerides (valid 1800-2050). Angles in degrees, distances in AU.
// Earth uses the Earth-Moon barycenter elements; the offset to the Earth's
// center is below 5e-5 AU and irrelevant at this source's accuracy.
type elementSet struct {
	A      float64 // semi-major axis, AU
	E      float64 // eccentricity
	I      float64 // inclination, deg
	L      float64 // mean longitude, deg
	Varpi  float64 // longitude of perihelion, deg
	Omega  float64 // longitude of ascending node, deg
	ARate  float64 // per Julian century
	ERate  float64
	IRate  float64
	LRate  float64
	VPRate float64
	OmRate float64
}

var planetElements = map[BodyID]elementSet{
	Mercury: {
		A: 0.38709927, E: 0.20563593, I: 7.00497902,
		L: 252.25032350, Varpi: 77.45779628, Omega: 48.33076593,
		ARate: 0.00000037, ERate: 0.00001906, IRate: -0.00594749,
		LRate: 149472.67411175, VPRate: 0.16047689, OmRate: -0.12534081,
	},
	Venus: {
		A: 0.72333566, E: 0.00677672, I: 3.39467605,
		L: 181.97909950, Varpi: 131.60246718, Omega: 76.67984255,
		ARate: 0.00000390, ERate: -0.00004107, IRate: -0.00078890,
		LRate: 58517.81538729, VPRate: 0.00268329, OmRate: -0.27769418,
	},
	Earth: {
		A: 1.00000261, E: 0.01671123, I: -0.00001531,
		L: 100.46457166, Varpi: 102.93768193, Omega: 0.0,
		ARate: 0.00000562, ERate: -0.00004392, IRate: -0.01294668,
		LRate: 35999.37244981, VPRate: 0.32327364, OmRate: 0.0,
	},
	Mars: {
		A: 1.52371034, E: 0.09339410, I: 1.84969142,
		L: -4.55343205, Varpi: -23.94362959, Omega: 49.55953891,
		ARate: 0.00001847, ERate: 0.00007882, IRate: -0.00813131,
		LRate: 19140.30268499, VPRate: 0.44441088, OmRate: -0.29257343,
	},
	Jupiter: {
		A: 5.20288700, E: 0.04838624, I: 1.30439695,
		L: 34.39644051, Varpi: 14.72847983, Omega: 100.47390909,
		ARate: -0.00011607, ERate: -0.00013253, IRate: -0.00183714,
		LRate: 3034.74612775, VPRate: 0.21252668, OmRate: 0.20469106,
	},
	Saturn: {
		A: 9.53667594, E: 0.05386179, I: 2.48599187,
		L: 49.95424423, Varpi: 92.59887831, Omega: 113.66242448,
		ARate: -0.00125060, ERate: -0.00050991, IRate: 0.00193609,
		LRate: 1222.49362201, VPRate: -0.41897216, OmRate: -0.28867794,
	},
	Uranus: {
		A: 19.18916464, E: 0.04725744, I: 0.77263783,
		L: 313.23810451, Varpi: 170.95427630, Omega: 74.01692503,
		ARate: -0.00196176, ERate: -0.00004397, IRate: -0.00242939,
		LRate: 428.48202785, VPRate: 0.40805281, OmRate: 0.04240589,
	},
	Neptune: {
		A: 30.06992276, E: 0.00859048, I: 1.77004347,
		L: -55.12002969, Varpi: 44.96476227, Omega: 131.78422574,
		ARate: 0.00026291, ERate: 0.00005105, IRate: 0.00035372,
		LRate: 218.45945325, VPRate: -0.32241464, OmRate: -0.00508664,
	},
}

// at returns the element set propagated to T Julian centuries past J2000.
func (e elementSet) at(T float64) elementSet {
	return elementSet{
		A:     e.A + e.ARate*T,
		E:     e.E + e.ERate*T,
		I:     e.I + e.IRate*T,
		L:     e.L + e.LRate*T,
		Varpi: e.Varpi + e.VPRate*T,
		Omega: e.Omega + e.OmRate*T,
	}
}

// OrbitalElements is the subset of elements surfaced to the info panel and
// chat commands.
type OrbitalElements struct {
	Body           BodyID
	SemiMajorAU    float64
	Eccentricity   float64
	InclinationDeg float64
	PeriodYears    float64
}
