package orbit

import (
	"context"
	"encoding/json"
	"fmt"
	"math"
	"time"

	"github.com/litescript/ls-orrery/internal/astro"
	"github.com/litescript/ls-orrery/internal/ephem"
)

// AlignmentKind classifies a detected alignment.
type AlignmentKind int

const (
	// Conjunction: the two bodies appear at the same position as seen from
	// the reference body (separation ~ 0°).
	Conjunction AlignmentKind = iota

	// Opposition: the two bodies sit on opposite sides of the reference
	// body (separation ~ 180°).
	Opposition
)

// String returns the kind name.
func (k AlignmentKind) String() string {
	switch k {
	case Conjunction:
		return "conjunction"
	case Opposition:
		return "opposition"
	default:
		return "unknown"
	}
}

// MarshalJSON encodes the kind as its name.
func (k AlignmentKind) MarshalJSON() ([]byte, error) {
	return json.Marshal(k.String())
}

// targetDeg returns the separation angle the kind aligns at.
func (k AlignmentKind) targetDeg() float64 {
	if k == Opposition {
		return 180
	}
	return 0
}

// DefaultToleranceDeg is the default angular tolerance for the
// instantaneous alignment check. Configurable via settings.
const DefaultToleranceDeg = 1.0

// AlignmentEvent is a detected alignment. Read-only after creation.
type AlignmentEvent struct {
	Kind          AlignmentKind   `json:"kind"`
	Bodies        [2]ephem.BodyID `json:"-"`
	BodyNames     [2]string       `json:"bodies"`
	Reference     string          `json:"reference"`
	Time          time.Time       `json:"time"`
	SeparationDeg float64         `json:"separation_deg"`
}

// signedSeparationDeg returns the separation between (a-ref) and (b-ref) as
// a signed angle in (-180, 180]. The magnitude comes from the inverse
// cosine of the normalized dot product; the sign from the ecliptic-plane
// cross product, so a body sweeping through alignment produces a sign
// change rather than a bounce off zero.
func signedSeparationDeg(a, b, ref astro.Vec3) float64 {
	ra := a.Sub(ref)
	rb := b.Sub(ref)

	sep := astro.SeparationDeg(ra, rb)

	// z-component of ra x rb orients the angle in the ecliptic plane
	if ra.X*rb.Y-ra.Y*rb.X < 0 {
		return -sep
	}
	return sep
}

// wrapDeg180 wraps an angle difference to (-180, 180].
func wrapDeg180(deg float64) float64 {
	deg = math.Mod(deg, 360)
	if deg > 180 {
		deg -= 360
	} else if deg <= -180 {
		deg += 360
	}
	return deg
}

// DetectAlignments scans two parallel sample tracks for crossings of the
// kind's target separation, as seen from ref. A nil ref means the Sun at
// the origin. The tracks must cover the same timestamps.
//
// A crossing between two consecutive samples is reported once, with the
// event time refined by linear interpolation between the bracketing
// samples. An exact hit at a sample boundary is reported once, not again
// at the next pair. Fewer than two samples yields no events and no error.
//
// Resolution limit: multiple crossings within a single step cannot be
// resolved; choose a step small enough for the bodies under study.
func DetectAlignments(a, b, ref []Sample, kind AlignmentKind) ([]AlignmentEvent, error) {
	if len(a) != len(b) {
		return nil, fmt.Errorf("track lengths differ: %d vs %d", len(a), len(b))
	}
	if ref != nil && len(ref) != len(a) {
		return nil, fmt.Errorf("reference track length %d does not match %d", len(ref), len(a))
	}
	if len(a) < 2 {
		return nil, nil
	}

	refName := "Sun"
	refPos := func(i int) astro.Vec3 {
		if ref == nil {
			return astro.Vec3{}
		}
		return ref[i].Pos
	}
	if ref != nil {
		refName = ref[0].Body.String()
	}

	target := kind.targetDeg()

	var events []AlignmentEvent
	mkEvent := func(t time.Time) AlignmentEvent {
		return AlignmentEvent{
			Kind:          kind,
			Bodies:        [2]ephem.BodyID{a[0].Body, b[0].Body},
			BodyNames:     [2]string{a[0].Body.String(), b[0].Body.String()},
			Reference:     refName,
			Time:          t,
			SeparationDeg: target,
		}
	}

	prev := wrapDeg180(signedSeparationDeg(a[0].Pos, b[0].Pos, refPos(0)) - target)
	prevExact := prev == 0
	if prevExact {
		events = append(events, mkEvent(a[0].Time))
	}

	for i := 1; i < len(a); i++ {
		if !a[i].Time.Equal(b[i].Time) {
			return nil, fmt.Errorf("tracks diverge at index %d: %s vs %s",
				i, a[i].Time.UTC().Format(time.RFC3339), b[i].Time.UTC().Format(time.RFC3339))
		}

		cur := wrapDeg180(signedSeparationDeg(a[i].Pos, b[i].Pos, refPos(i)) - target)

		switch {
		case cur == 0:
			// Exact hit at a boundary: report once
			if !prevExact {
				events = append(events, mkEvent(a[i].Time))
			}
			prevExact = true

		case prev != 0 && !prevExact && signChanged(prev, cur):
			// localCrossing rejects the wrap artifact where passing the
			// opposite target flips the wrapped deviation's sign
			if localCrossing(prev, cur) {
				frac := prev / (prev - cur)
				dt := a[i].Time.Sub(a[i-1].Time)
				at := a[i-1].Time.Add(time.Duration(frac * float64(dt)))
				events = append(events, mkEvent(at))
			}
			prevExact = false

		default:
			prevExact = false
		}

		prev = cur
	}

	return events, nil
}

func signChanged(prev, cur float64) bool {
	return (prev < 0) != (cur < 0)
}

// localCrossing requires both bracketing deviations to be within 90° of the
// target; a sweep through the opposite alignment point also flips the
// wrapped sign but with deviations near ±180°.
func localCrossing(prev, cur float64) bool {
	return math.Abs(prev) <= 90 && math.Abs(cur) <= 90
}

// CurrentAlignment reports whether bodies a and b are within tolDeg of a
// conjunction or opposition as seen from ref at a single instant. ok is
// false when neither alignment is close.
func CurrentAlignment(a, b, ref astro.Vec3, tolDeg float64) (AlignmentKind, float64, bool) {
	sep := astro.SeparationDeg(a.Sub(ref), b.Sub(ref))
	if sep <= tolDeg {
		return Conjunction, sep, true
	}
	if 180-sep <= tolDeg {
		return Opposition, sep, true
	}
	return 0, sep, false
}

// Scanner runs alignment scans for planets against the Sun as seen from
// Earth (the classic solar-elongation definition of conjunction and
// opposition).
type Scanner struct {
	sampler *Sampler
}

// NewScanner creates a scanner over the given sampler.
func NewScanner(sampler *Sampler) *Scanner {
	return &Scanner{sampler: sampler}
}

// ScanSunRelative finds conjunctions and oppositions of the given bodies
// over the range, Earth as the reference. Earth itself is skipped. The
// first sampling failure aborts the scan with the tagged error; events
// found so far are returned alongside it.
func (sc *Scanner) ScanSunRelative(ctx context.Context, bodies []ephem.BodyID, r Range) ([]AlignmentEvent, error) {
	earth, err := sc.sampler.Sample(ctx, ephem.Earth, r)
	if err != nil {
		return nil, err
	}
	sun, err := sc.sampler.Sample(ctx, ephem.Sun, r)
	if err != nil {
		return nil, err
	}

	var events []AlignmentEvent
	for _, body := range bodies {
		if body == ephem.Earth || body == ephem.Sun {
			continue
		}

		track, err := sc.sampler.Sample(ctx, body, r)
		if err != nil {
			return events, err
		}

		for _, kind := range []AlignmentKind{Conjunction, Opposition} {
			found, derr := DetectAlignments(track, sun, earth, kind)
			if derr != nil {
				return events, derr
			}
			events = append(events, found...)
		}
	}

	sortEventsByTime(events)
	return events, nil
}

// FindUpcoming scans forward from a starting instant for the next
// conjunctions and oppositions of the given bodies, stepping one day.
func FindUpcoming(ctx context.Context, sampler *Sampler, bodies []ephem.BodyID, from time.Time, horizon time.Duration) ([]AlignmentEvent, error) {
	r := Range{Start: from, End: from.Add(horizon), Step: 24 * time.Hour}
	return NewScanner(sampler).ScanSunRelative(ctx, bodies, r)
}

func sortEventsByTime(events []AlignmentEvent) {
	// Insertion sort: event lists are small (a handful per year per body)
	for i := 1; i < len(events); i++ {
		for j := i; j > 0 && events[j].Time.Before(events[j-1].Time); j-- {
			events[j], events[j-1] = events[j-1], events[j]
		}
	}
}
