package astro

import (
	"math"
	"time"
)

// J2000 is the standard epoch 2000 January 1.5 TT, approximated here by the
// corresponding UTC instant; the offset is irrelevant at the accuracy of the
// built-in ephemeris.
var J2000 = time.Date(2000, 1, 1, 12, 0, 0, 0, time.UTC)

// JulianDate returns the Julian Date for a given time.
func JulianDate(t time.Time) float64 {
	t = t.UTC()

	y := float64(t.Year())
	m := float64(t.Month())
	d := float64(t.Day())

	h := float64(t.Hour())
	min := float64(t.Minute())
	sec := float64(t.Second())
	ns := float64(t.Nanosecond())

	dayFrac := (h + min/60 + sec/3600 + ns/3600e9) / 24.0

	// Treat January/February as months 13/14 of the previous year
	if m <= 2 {
		y--
		m += 12
	}

	// Gregorian calendar correction
	A := math.Floor(y / 100)
	B := 2 - A + math.Floor(A/4)

	jd := math.Floor(365.25*(y+4716)) +
		math.Floor(30.6001*(m+1)) +
		d + dayFrac + B - 1524.5

	return jd
}

// JulianCenturies returns the number of Julian centuries since J2000.0.
func JulianCenturies(t time.Time) float64 {
	return (JulianDate(t) - 2451545.0) / 36525.0
}
