// Package export writes sampled orbit data as CSV, JSON snapshots, and SVG
// orbit plots.
package export

import (
	"encoding/csv"
	"fmt"
	"io"
	"strconv"
	"time"

	"github.com/litescript/ls-orrery/internal/astro"
	"github.com/litescript/ls-orrery/internal/ephem"
	"github.com/litescript/ls-orrery/internal/orbit"
)

// csvHeader is the fixed column set for sample exports. Coordinates are
// heliocentric ecliptic AU.
var csvHeader = []string{"body", "timestamp", "x_au", "y_au", "z_au"}

// WriteCSV writes samples as CSV, one row per sample, with a header row.
// Timestamps use RFC3339Nano so sub-second steps survive a round trip.
func WriteCSV(w io.Writer, samples []orbit.Sample) error {
	cw := csv.NewWriter(w)

	if err := cw.Write(csvHeader); err != nil {
		return fmt.Errorf("failed to write CSV header: %w", err)
	}

	for _, s := range samples {
		row := []string{
			s.Body.String(),
			s.Time.UTC().Format(time.RFC3339Nano),
			strconv.FormatFloat(s.Pos.X, 'g', 17, 64),
			strconv.FormatFloat(s.Pos.Y, 'g', 17, 64),
			strconv.FormatFloat(s.Pos.Z, 'g', 17, 64),
		}
		if err := cw.Write(row); err != nil {
			return fmt.Errorf("failed to write CSV row: %w", err)
		}
	}

	cw.Flush()
	return cw.Error()
}

// ReadCSV parses a sample CSV produced by WriteCSV.
func ReadCSV(r io.Reader) ([]orbit.Sample, error) {
	cr := csv.NewReader(r)
	cr.FieldsPerRecord = len(csvHeader)

	header, err := cr.Read()
	if err != nil {
		return nil, fmt.Errorf("failed to read CSV header: %w", err)
	}
	if header[0] != csvHeader[0] {
		return nil, fmt.Errorf("unexpected CSV header %q", header[0])
	}

	var samples []orbit.Sample
	for line := 2; ; line++ {
		row, err := cr.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("failed to read CSV row: %w", err)
		}

		body, err := ephem.ParseBody(row[0])
		if err != nil {
			return nil, fmt.Errorf("line %d: %w", line, err)
		}
		ts, err := time.Parse(time.RFC3339Nano, row[1])
		if err != nil {
			return nil, fmt.Errorf("line %d: bad timestamp %q: %w", line, row[1], err)
		}

		var pos astro.Vec3
		for i, dst := range []*float64{&pos.X, &pos.Y, &pos.Z} {
			v, err := strconv.ParseFloat(row[2+i], 64)
			if err != nil {
				return nil, fmt.Errorf("line %d: bad coordinate %q: %w", line, row[2+i], err)
			}
			*dst = v
		}

		samples = append(samples, orbit.Sample{Body: body, Time: ts, Pos: pos})
	}

	return samples, nil
}
