package ephem

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/litescript/ls-orrery/internal/astro"
)

// Supported calendar range for position queries. The built-in element tables
// degrade outside this window, so all sources enforce it.
var (
	RangeStart = time.Date(1900, 1, 1, 0, 0, 0, 0, time.UTC)
	RangeEnd   = time.Date(2050, 12, 31, 23, 59, 0, 0, time.UTC)
)

// ErrOutOfRange indicates a timestamp outside the supported calendar range.
var ErrOutOfRange = errors.New("timestamp outside supported ephemeris range (1900-2050)")

// ErrMissingResource indicates required ephemeris data is absent. Fatal at
// startup; the application must not proceed without its element tables.
var ErrMissingResource = errors.New("ephemeris resource missing")

// SampleError reports a failed position query, tagged with the body and
// timestamp that caused it.
type SampleError struct {
	Body BodyID
	Time time.Time
	Err  error
}

func (e *SampleError) Error() string {
	return fmt.Sprintf("position %s @ %s: %v", e.Body, e.Time.UTC().Format(time.RFC3339), e.Err)
}

func (e *SampleError) Unwrap() error {
	return e.Err
}

// NewSampleError wraps an error with body and timestamp context.
func NewSampleError(body BodyID, t time.Time, err error) error {
	return &SampleError{Body: body, Time: t, Err: err}
}

// Source supplies heliocentric ecliptic positions in AU. Implementations are
// deterministic for a given (body, time) and safe for concurrent use.
type Source interface {
	// Name returns the source name for display/logging.
	Name() string

	// Position returns the heliocentric ecliptic position in AU.
	// Errors are *SampleError.
	Position(body BodyID, t time.Time) (astro.Vec3, error)
}

// checkRange validates a query timestamp against the supported window.
func checkRange(body BodyID, t time.Time) error {
	if t.Before(RangeStart) || t.After(RangeEnd) {
		return NewSampleError(body, t, ErrOutOfRange)
	}
	return nil
}

// Mode selects which ephemeris source to use.
type Mode int

const (
	ModeKepler   Mode = iota // Built-in analytic source (default)
	ModeHorizons             // JPL Horizons over HTTP
	ModeAuto                 // Horizons with Kepler fallback
)

// String returns the mode name.
func (m Mode) String() string {
	switch m {
	case ModeKepler:
		return "kepler"
	case ModeHorizons:
		return "horizons"
	case ModeAuto:
		return "auto"
	default:
		return "unknown"
	}
}

// ParseMode parses a mode name, case-insensitively.
func ParseMode(s string) (Mode, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "kepler":
		return ModeKepler, nil
	case "horizons":
		return ModeHorizons, nil
	case "auto":
		return ModeAuto, nil
	default:
		return 0, fmt.Errorf("unknown ephemeris mode %q", s)
	}
}

// FallbackSource tries a primary source and falls back to a secondary on
// error. Used for ModeAuto (Horizons with the built-in tables behind it).
type FallbackSource struct {
	Primary   Source
	Secondary Source
}

// Name implements Source.
func (s *FallbackSource) Name() string {
	return s.Primary.Name() + "+" + s.Secondary.Name()
}

// Position implements Source.
func (s *FallbackSource) Position(body BodyID, t time.Time) (astro.Vec3, error) {
	pos, err := s.Primary.Position(body, t)
	if err == nil {
		return pos, nil
	}
	// Out-of-range queries fail on every source; don't mask the tag.
	if errors.Is(err, ErrOutOfRange) {
		return astro.Vec3{}, err
	}
	return s.Secondary.Position(body, t)
}
