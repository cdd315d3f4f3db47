package export

import (
	"bytes"
	"math"
	"strings"
	"testing"
	"time"

	"github.com/litescript/ls-orrery/internal/astro"
	"github.com/litescript/ls-orrery/internal/ephem"
	"github.com/litescript/ls-orrery/internal/orbit"
)

func sampleFixture() []orbit.Sample {
	start := time.Date(2025, 6, 1, 0, 0, 0, 0, time.UTC)
	return []orbit.Sample{
		{Body: ephem.Mercury, Time: start, Pos: astro.Vec3{X: 0.30750126, Y: -0.21243332, Z: -0.04561}},
		{Body: ephem.Earth, Time: start, Pos: astro.Vec3{X: -0.33265, Y: -0.95081, Z: 0.0000213}},
		{Body: ephem.Earth, Time: start.Add(36 * time.Hour), Pos: astro.Vec3{X: -0.30702, Y: -0.95923, Z: 0.0000214}},
		{Body: ephem.Neptune, Time: start, Pos: astro.Vec3{X: 29.8731194521, Y: -1.5420018843, Z: -0.6543210987}},
	}
}

func TestCSVRoundTrip(t *testing.T) {
	samples := sampleFixture()

	var buf bytes.Buffer
	if err := WriteCSV(&buf, samples); err != nil {
		t.Fatalf("WriteCSV: %v", err)
	}

	got, err := ReadCSV(&buf)
	if err != nil {
		t.Fatalf("ReadCSV: %v", err)
	}
	if len(got) != len(samples) {
		t.Fatalf("got %d samples, want %d", len(got), len(samples))
	}

	for i, want := range samples {
		if got[i].Body != want.Body {
			t.Errorf("sample %d body = %v, want %v", i, got[i].Body, want.Body)
		}
		if !got[i].Time.Equal(want.Time) {
			t.Errorf("sample %d time = %v, want %v", i, got[i].Time, want.Time)
		}
		for axis, pair := range map[string][2]float64{
			"x": {got[i].Pos.X, want.Pos.X},
			"y": {got[i].Pos.Y, want.Pos.Y},
			"z": {got[i].Pos.Z, want.Pos.Z},
		} {
			if math.Abs(pair[0]-pair[1]) > 1e-9 {
				t.Errorf("sample %d %s = %v, want %v", i, axis, pair[0], pair[1])
			}
		}
	}
}

func TestWriteCSVFormat(t *testing.T) {
	var buf bytes.Buffer
	if err := WriteCSV(&buf, sampleFixture()[:1]); err != nil {
		t.Fatalf("WriteCSV: %v", err)
	}

	lines := strings.Split(strings.TrimSpace(buf.String()), "\n")
	if len(lines) != 2 {
		t.Fatalf("got %d lines, want 2", len(lines))
	}
	if lines[0] != "body,timestamp,x_au,y_au,z_au" {
		t.Errorf("header = %q", lines[0])
	}
	if !strings.HasPrefix(lines[1], "Mercury,2025-06-01T00:00:00Z,") {
		t.Errorf("row = %q", lines[1])
	}
}

func TestWriteCSVEmpty(t *testing.T) {
	var buf bytes.Buffer
	if err := WriteCSV(&buf, nil); err != nil {
		t.Fatalf("WriteCSV: %v", err)
	}
	got, err := ReadCSV(&buf)
	if err != nil {
		t.Fatalf("ReadCSV: %v", err)
	}
	if len(got) != 0 {
		t.Errorf("got %d samples from empty export", len(got))
	}
}

func TestReadCSVErrors(t *testing.T) {
	tests := []struct {
		name string
		in   string
	}{
		{"empty input", ""},
		{"wrong header", "a,b,c,d,e\n"},
		{"unknown body", "body,timestamp,x_au,y_au,z_au\nPluto,2025-06-01T00:00:00Z,1,2,3\n"},
		{"bad timestamp", "body,timestamp,x_au,y_au,z_au\nMars,yesterday,1,2,3\n"},
		{"bad coordinate", "body,timestamp,x_au,y_au,z_au\nMars,2025-06-01T00:00:00Z,one,2,3\n"},
		{"short row", "body,timestamp,x_au,y_au,z_au\nMars,2025-06-01T00:00:00Z,1,2\n"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if _, err := ReadCSV(strings.NewReader(tt.in)); err == nil {
				t.Error("expected error")
			}
		})
	}
}
