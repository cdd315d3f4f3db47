package ephem

import (
	"fmt"
	"math"
	"time"

	"github.com/litescript/ls-orrery/internal/astro"
)

// KeplerSource is the built-in analytic ephemeris. It is pure computation,
// always available, and requires no network access.
type KeplerSource struct {
	elements map[BodyID]elementSet
}

// NewKeplerSource builds the analytic source and verifies its element tables
// cover the closed body set. An incomplete table is a startup-fatal
// ErrMissingResource: every other component assumes the oracle can answer
// for any body in range.
func NewKeplerSource() (*KeplerSource, error) {
	for _, b := range Planets {
		if _, ok := planetElements[b]; !ok {
			return nil, fmt.Errorf("%w: no orbital elements for %s", ErrMissingResource, b)
		}
	}
	return &KeplerSource{elements: planetElements}, nil
}

// Name implements Source.
func (s *KeplerSource) Name() string {
	return "kepler"
}

// Position implements Source.
func (s *KeplerSource) Position(body BodyID, t time.Time) (astro.Vec3, error) {
	if !body.Valid() {
		return astro.Vec3{}, NewSampleError(body, t, fmt.Errorf("invalid body id %d", int(body)))
	}
	if err := checkRange(body, t); err != nil {
		return astro.Vec3{}, err
	}

	switch body {
	case Sun:
		return astro.Vec3{}, nil
	case Moon:
		return s.moonPosition(t)
	default:
		return s.planetPosition(body, t), nil
	}
}

// planetPosition computes a heliocentric ecliptic position from propagated
// Keplerian elements.
func (s *KeplerSource) planetPosition(body BodyID, t time.Time) astro.Vec3 {
	T := astro.JulianCenturies(t)
	el := s.elements[body].at(T)

	// Argument of perihelion and mean anomaly
	omega := el.Varpi - el.Omega
	M := normalizeDeg(el.L - el.Varpi)

	E := solveKepler(M, el.E)

	// Position in the orbital plane (perihelion along x')
	eRad := degToRad(E)
	xp := el.A * (math.Cos(eRad) - el.E)
	yp := el.A * math.Sqrt(1-el.E*el.E) * math.Sin(eRad)

	// Rotate into the ecliptic frame
	cw := math.Cos(degToRad(omega))
	sw := math.Sin(degToRad(omega))
	cO := math.Cos(degToRad(el.Omega))
	sO := math.Sin(degToRad(el.Omega))
	ci := math.Cos(degToRad(el.I))
	si := math.Sin(degToRad(el.I))

	x := (cw*cO-sw*sO*ci)*xp + (-sw*cO-cw*sO*ci)*yp
	y := (cw*sO+sw*cO*ci)*xp + (-sw*sO+cw*cO*ci)*yp
	z := (sw*si)*xp + (cw*si)*yp

	return astro.Vec3{X: x, Y: y, Z: z}
}

// solveKepler solves Kepler's equation M = E - e*sin(E) for the eccentric
// anomaly E, all angles in degrees, by Newton iteration.
func solveKepler(mDeg, ecc float64) float64 {
	eStar := radToDeg(ecc) // e in degrees for the iteration
	E := mDeg + eStar*math.Sin(degToRad(mDeg))

	for i := 0; i < 10; i++ {
		dM := mDeg - (E - eStar*math.Sin(degToRad(E)))
		dE := dM / (1 - ecc*math.Cos(degToRad(E)))
		E += dE
		if math.Abs(dE) < 1e-7 {
			break
		}
	}
	return E
}

// moonPosition returns the Moon's heliocentric position: the Earth's
// position plus a truncated geocentric lunar series (Meeus, low precision).
// Good to a fraction of a degree, which is ample for alignment scans.
func (s *KeplerSource) moonPosition(t time.Time) (astro.Vec3, error) {
	earth := s.planetPosition(Earth, t)

	T := astro.JulianCenturies(t)

	// Mean elements, degrees
	Lp := normalizeDeg(218.3164477 + 481267.88123421*T) // mean longitude
	D := normalizeDeg(297.8501921 + 445267.1114034*T)   // mean elongation
	Ms := normalizeDeg(357.5291092 + 35999.0502909*T)   // sun mean anomaly
	Mp := normalizeDeg(134.9633964 + 477198.8675055*T)  // moon mean anomaly
	F := normalizeDeg(93.2720950 + 483202.0175233*T)    // argument of latitude

	sin := func(deg float64) float64 { return math.Sin(degToRad(deg)) }
	cos := func(deg float64) float64 { return math.Cos(degToRad(deg)) }

	// Leading series terms only
	lon := Lp +
		6.288774*sin(Mp) +
		1.274027*sin(2*D-Mp) +
		0.658314*sin(2*D) +
		0.213618*sin(2*Mp) -
		0.185116*sin(Ms) -
		0.114332*sin(2*F)

	lat := 5.128122*sin(F) +
		0.280602*sin(Mp+F) +
		0.277693*sin(Mp-F)

	distKm := 385000.56 -
		20905.355*cos(Mp) -
		3699.111*cos(2*D-Mp) -
		2955.968*cos(2*D)

	rAU := astro.KmToAU(distKm)
	lonRad := degToRad(lon)
	latRad := degToRad(lat)

	geo := astro.Vec3{
		X: rAU * math.Cos(latRad) * math.Cos(lonRad),
		Y: rAU * math.Cos(latRad) * math.Sin(lonRad),
		Z: rAU * math.Sin(latRad),
	}

	return earth.Add(geo), nil
}

// Elements returns orbital elements for a planet at a given time. The Sun
// and Moon have no heliocentric elements and return ok=false.
func (s *KeplerSource) Elements(body BodyID, t time.Time) (OrbitalElements, bool) {
	base, ok := s.elements[body]
	if !ok {
		return OrbitalElements{}, false
	}
	el := base.at(astro.JulianCenturies(t))

	// Kepler's third law, period in Julian years
	period := math.Sqrt(el.A * el.A * el.A)

	return OrbitalElements{
		Body:           body,
		SemiMajorAU:    el.A,
		Eccentricity:   el.E,
		InclinationDeg: el.I,
		PeriodYears:    period,
	}, true
}

// normalizeDeg wraps an angle to [0, 360).
func normalizeDeg(deg float64) float64 {
	deg = math.Mod(deg, 360)
	if deg < 0 {
		deg += 360
	}
	return deg
}

func degToRad(deg float64) float64 {
	return deg * math.Pi / 180
}

func radToDeg(rad float64) float64 {
	return rad * 180 / math.Pi
}
