package export

import (
	"encoding/json"
	"io"
	"time"

	"github.com/litescript/ls-orrery/internal/astro"
	"github.com/litescript/ls-orrery/internal/orbit"
)

// SnapshotExport is the JSON-serializable view of the orrery state at one
// instant plus any alignment events found in the scanned range.
type SnapshotExport struct {
	Timestamp   time.Time              `json:"timestamp"`
	Source      string                 `json:"source"`
	Positions   []PositionExport       `json:"positions"`
	Events      []orbit.AlignmentEvent `json:"events,omitempty"`
	GeneratedAt time.Time              `json:"generated_at"`
}

// PositionExport is a JSON-friendly body position with derived fields.
type PositionExport struct {
	Body         string  `json:"body"`
	XAU          float64 `json:"x_au"`
	YAU          float64 `json:"y_au"`
	ZAU          float64 `json:"z_au"`
	DistanceAU   float64 `json:"distance_au"`
	LongitudeDeg float64 `json:"longitude_deg"`
	LatitudeDeg  float64 `json:"latitude_deg"`
}

// ExportSnapshot converts per-body samples at a shared instant into an
// exportable snapshot. Samples are expected to share a timestamp; the first
// one wins.
func ExportSnapshot(samples []orbit.Sample, events []orbit.AlignmentEvent, source string) *SnapshotExport {
	exp := &SnapshotExport{
		Source:      source,
		Events:      events,
		GeneratedAt: time.Now().UTC(),
	}

	for i, s := range samples {
		if i == 0 {
			exp.Timestamp = s.Time
		}
		exp.Positions = append(exp.Positions, PositionExport{
			Body:         s.Body.String(),
			XAU:          s.Pos.X,
			YAU:          s.Pos.Y,
			ZAU:          s.Pos.Z,
			DistanceAU:   s.Pos.Norm(),
			LongitudeDeg: astro.EclipticLongitude(s.Pos),
			LatitudeDeg:  astro.EclipticLatitude(s.Pos),
		})
	}

	return exp
}

// WriteJSON writes the snapshot as indented JSON to the given writer.
func (s *SnapshotExport) WriteJSON(w io.Writer) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(s)
}
