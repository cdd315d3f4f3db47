package ephem

import (
	"errors"
	"math"
	"testing"
	"time"

	"github.com/litescript/ls-orrery/internal/astro"
)

func newKepler(t *testing.T) *KeplerSource {
	t.Helper()
	s, err := NewKeplerSource()
	if err != nil {
		t.Fatalf("NewKeplerSource: %v", err)
	}
	return s
}

func TestKeplerSunAtOrigin(t *testing.T) {
	s := newKepler(t)
	pos, err := s.Position(Sun, time.Date(2025, 1, 1, 0, 0, 0, 0, time.UTC))
	if err != nil {
		t.Fatalf("Position: %v", err)
	}
	if pos != (astro.Vec3{}) {
		t.Errorf("Sun position = %+v, want origin", pos)
	}
}

func TestKeplerAllBodiesFinite(t *testing.T) {
	s := newKepler(t)
	times := []time.Time{
		time.Date(1900, 1, 1, 0, 0, 0, 0, time.UTC),
		time.Date(1969, 7, 20, 20, 17, 0, 0, time.UTC),
		time.Date(2000, 1, 1, 12, 0, 0, 0, time.UTC),
		time.Date(2025, 6, 1, 0, 0, 0, 0, time.UTC),
		time.Date(2050, 12, 31, 0, 0, 0, 0, time.UTC),
	}
	for _, b := range Bodies {
		for _, at := range times {
			pos, err := s.Position(b, at)
			if err != nil {
				t.Fatalf("%v at %v: %v", b, at, err)
			}
			if !pos.IsFinite() {
				t.Errorf("%v at %v: non-finite position %+v", b, at, pos)
			}
		}
	}
}

func TestKeplerHeliocentricDistances(t *testing.T) {
	s := newKepler(t)
	at := time.Date(2025, 6, 1, 0, 0, 0, 0, time.UTC)

	// perihelion/aphelion bounds with a small margin
	tests := []struct {
		body     BodyID
		min, max float64
	}{
		{Mercury, 0.30, 0.47},
		{Venus, 0.71, 0.73},
		{Earth, 0.97, 1.02},
		{Mars, 1.35, 1.70},
		{Jupiter, 4.9, 5.5},
		{Saturn, 9.0, 10.1},
		{Uranus, 18.2, 20.1},
		{Neptune, 29.7, 30.4},
	}
	for _, tt := range tests {
		pos, err := s.Position(tt.body, at)
		if err != nil {
			t.Fatalf("%v: %v", tt.body, err)
		}
		r := pos.Norm()
		if r < tt.min || r > tt.max {
			t.Errorf("%v distance = %.4f AU, want [%.2f, %.2f]", tt.body, r, tt.min, tt.max)
		}
	}
}

func TestKeplerEarthAtEpoch(t *testing.T) {
	s := newKepler(t)
	pos, err := s.Position(Earth, astro.J2000)
	if err != nil {
		t.Fatalf("Position: %v", err)
	}

	// early January: Earth near perihelion, heliocentric longitude ~100 deg
	r := pos.Norm()
	if r < 0.975 || r > 0.99 {
		t.Errorf("Earth distance at epoch = %.4f AU, want ~0.983", r)
	}
	lon := astro.EclipticLongitude(pos)
	if math.Abs(lon-100) > 3 {
		t.Errorf("Earth longitude at epoch = %.2f deg, want ~100", lon)
	}
	if math.Abs(astro.EclipticLatitude(pos)) > 0.1 {
		t.Errorf("Earth ecliptic latitude = %.4f deg, want ~0", astro.EclipticLatitude(pos))
	}
}

func TestKeplerMoonNearEarth(t *testing.T) {
	s := newKepler(t)
	for m := 0; m < 12; m++ {
		at := time.Date(2025, time.Month(m+1), 15, 0, 0, 0, 0, time.UTC)
		earth, err := s.Position(Earth, at)
		if err != nil {
			t.Fatalf("Earth: %v", err)
		}
		moon, err := s.Position(Moon, at)
		if err != nil {
			t.Fatalf("Moon: %v", err)
		}
		d := moon.Sub(earth).Norm()
		// lunar distance stays within roughly 356-407 thousand km
		if d < astro.KmToAU(350000) || d > astro.KmToAU(420000) {
			t.Errorf("month %d: Earth-Moon distance = %.6f AU (%.0f km)",
				m+1, d, astro.AUToKm(d))
		}
	}
}

func TestKeplerOutOfRange(t *testing.T) {
	s := newKepler(t)
	for _, at := range []time.Time{
		time.Date(1899, 12, 31, 23, 0, 0, 0, time.UTC),
		time.Date(2051, 1, 1, 0, 0, 0, 0, time.UTC),
	} {
		_, err := s.Position(Mars, at)
		if !errors.Is(err, ErrOutOfRange) {
			t.Errorf("at %v: error = %v, want ErrOutOfRange", at, err)
		}
		var serr *SampleError
		if !errors.As(err, &serr) {
			t.Errorf("at %v: error not tagged with body and time", at)
		}
	}
}

func TestKeplerInvalidBody(t *testing.T) {
	s := newKepler(t)
	if _, err := s.Position(BodyID(99), time.Date(2025, 1, 1, 0, 0, 0, 0, time.UTC)); err == nil {
		t.Fatal("expected error for invalid body")
	}
}

func TestKeplerElements(t *testing.T) {
	s := newKepler(t)
	at := time.Date(2025, 1, 1, 0, 0, 0, 0, time.UTC)

	tests := []struct {
		body       BodyID
		wantA      float64
		wantPeriod float64
	}{
		{Earth, 1.0, 1.0},
		{Mars, 1.524, 1.88},
		{Jupiter, 5.20, 11.86},
		{Neptune, 30.07, 164.8},
	}
	for _, tt := range tests {
		el, ok := s.Elements(tt.body, at)
		if !ok {
			t.Fatalf("%v: no elements", tt.body)
		}
		if math.Abs(el.SemiMajorAU-tt.wantA) > 0.02*tt.wantA {
			t.Errorf("%v semi-major = %.4f AU, want ~%.3f", tt.body, el.SemiMajorAU, tt.wantA)
		}
		if math.Abs(el.PeriodYears-tt.wantPeriod) > 0.02*tt.wantPeriod {
			t.Errorf("%v period = %.2f yr, want ~%.2f", tt.body, el.PeriodYears, tt.wantPeriod)
		}
	}

	if _, ok := s.Elements(Sun, at); ok {
		t.Error("expected no orbital elements for the Sun")
	}
}

func TestSolveKepler(t *testing.T) {
	// circular orbit: eccentric anomaly equals mean anomaly
	for _, m := range []float64{0, 45, 90, 180, 270} {
		if got := solveKepler(m, 0); math.Abs(got-m) > 1e-9 {
			t.Errorf("e=0 M=%v: E = %v, want %v", m, got, m)
		}
	}

	// the solution must satisfy M = E - e*sin(E) (angles in degrees)
	for _, tt := range []struct{ m, e float64 }{
		{30, 0.2056}, {135, 0.0934}, {300, 0.6},
	} {
		e := solveKepler(tt.m, tt.e)
		back := e - tt.e*180/math.Pi*math.Sin(e*math.Pi/180)
		if math.Abs(back-tt.m) > 1e-6 {
			t.Errorf("M=%v e=%v: E=%v maps back to %v", tt.m, tt.e, e, back)
		}
	}
}

func TestFallbackSource(t *testing.T) {
	primary := &failingSource{err: errors.New("network down")}
	secondary := newKepler(t)
	fb := &FallbackSource{Primary: primary, Secondary: secondary}

	at := time.Date(2025, 6, 1, 0, 0, 0, 0, time.UTC)
	pos, err := fb.Position(Mars, at)
	if err != nil {
		t.Fatalf("fallback failed: %v", err)
	}
	if !pos.IsFinite() || pos.Norm() == 0 {
		t.Errorf("fallback position = %+v", pos)
	}

	// out-of-range errors are terminal, no fallback attempt
	primary.err = NewSampleError(Mars, at, ErrOutOfRange)
	if _, err := fb.Position(Mars, time.Date(1850, 1, 1, 0, 0, 0, 0, time.UTC)); !errors.Is(err, ErrOutOfRange) {
		t.Errorf("error = %v, want ErrOutOfRange", err)
	}
}

type failingSource struct {
	err error
}

func (f *failingSource) Name() string { return "failing" }

func (f *failingSource) Position(body BodyID, t time.Time) (astro.Vec3, error) {
	return astro.Vec3{}, f.err
}

func TestParseMode(t *testing.T) {
	tests := []struct {
		in      string
		want    Mode
		wantErr bool
	}{
		{"kepler", ModeKepler, false},
		{"horizons", ModeHorizons, false},
		{"auto", ModeAuto, false},
		{"AUTO", ModeAuto, false},
		{"vsop87", 0, true},
	}
	for _, tt := range tests {
		got, err := ParseMode(tt.in)
		if (err != nil) != tt.wantErr {
			t.Fatalf("ParseMode(%q) error = %v, wantErr %v", tt.in, err, tt.wantErr)
		}
		if err == nil && got != tt.want {
			t.Errorf("ParseMode(%q) = %v, want %v", tt.in, got, tt.want)
		}
	}
}
