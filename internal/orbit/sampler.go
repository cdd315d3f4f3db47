// Package orbit samples body positions over date ranges and detects
// conjunction/opposition alignments in the sampled tracks.
package orbit

import (
	"context"
	"errors"
	"fmt"
	"time"

	"go.uber.org/zap"

	"github.com/litescript/ls-orrery/internal/astro"
	"github.com/litescript/ls-orrery/internal/ephem"
)

// Sample is one (body, time, position) point. Immutable once produced.
type Sample struct {
	Body ephem.BodyID
	Time time.Time
	Pos  astro.Vec3
}

// Range is a sampling window with a fixed step.
type Range struct {
	Start time.Time
	End   time.Time
	Step  time.Duration
}

// Validate checks the range invariants: Start <= End, Step > 0.
func (r Range) Validate() error {
	if r.Step <= 0 {
		return fmt.Errorf("range step must be positive, got %v", r.Step)
	}
	if r.End.Before(r.Start) {
		return fmt.Errorf("range start %s after end %s",
			r.Start.UTC().Format(time.RFC3339), r.End.UTC().Format(time.RFC3339))
	}
	return nil
}

// Count returns the number of samples the range yields:
// floor((end-start)/step) + 1.
func (r Range) Count() int {
	return int(r.End.Sub(r.Start)/r.Step) + 1
}

// Sampler produces ordered position tracks by repeated source queries.
// It has no internal concurrency and no retry policy: the first failed
// query aborts the sampling call.
type Sampler struct {
	src ephem.Source
	log *zap.Logger
}

// NewSampler creates a sampler over the given ephemeris source.
func NewSampler(src ephem.Source, log *zap.Logger) *Sampler {
	if log == nil {
		log = zap.NewNop()
	}
	return &Sampler{src: src, log: log}
}

// Sample walks the range at t = start, start+step, ... <= end, querying the
// source at each step. On a failed query it returns the samples gathered so
// far plus the tagged error; callers must treat a non-nil error as a
// truncated result. Cancellation is cooperative: the context is checked
// between source calls and a cancelled run returns the truncated samples
// plus the context's error.
func (s *Sampler) Sample(ctx context.Context, body ephem.BodyID, r Range) ([]Sample, error) {
	if err := r.Validate(); err != nil {
		return nil, err
	}

	samples := make([]Sample, 0, r.Count())
	for t := r.Start; !t.After(r.End); t = t.Add(r.Step) {
		if err := ctx.Err(); err != nil {
			s.log.Debug("sampling cancelled",
				zap.Stringer("body", body),
				zap.Int("samples", len(samples)))
			return samples, err
		}

		pos, err := s.src.Position(body, t)
		if err != nil {
			var serr *ephem.SampleError
			if !errors.As(err, &serr) {
				err = ephem.NewSampleError(body, t, err)
			}
			s.log.Warn("sampling aborted",
				zap.Stringer("body", body),
				zap.Time("at", t),
				zap.Error(err))
			return samples, err
		}

		samples = append(samples, Sample{Body: body, Time: t, Pos: pos})
	}

	return samples, nil
}

// SampleAll samples several bodies over the same range. The result maps
// body to its track; the first failure aborts the whole call.
func (s *Sampler) SampleAll(ctx context.Context, bodies []ephem.BodyID, r Range) (map[ephem.BodyID][]Sample, error) {
	tracks := make(map[ephem.BodyID][]Sample, len(bodies))
	for _, b := range bodies {
		track, err := s.Sample(ctx, b, r)
		if err != nil {
			return tracks, err
		}
		tracks[b] = track
	}
	return tracks, nil
}
