package ephem

import "testing"

func TestParseBody(t *testing.T) {
	tests := []struct {
		in      string
		want    BodyID
		wantErr bool
	}{
		{"Mars", Mars, false},
		{"mars", Mars, false},
		{"MOON", Moon, false},
		{"  earth ", Earth, false},
		{"Sun", Sun, false},
		{"pluto", 0, true},
		{"", 0, true},
	}
	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			got, err := ParseBody(tt.in)
			if (err != nil) != tt.wantErr {
				t.Fatalf("ParseBody(%q) error = %v, wantErr %v", tt.in, err, tt.wantErr)
			}
			if err == nil && got != tt.want {
				t.Errorf("ParseBody(%q) = %v, want %v", tt.in, got, tt.want)
			}
		})
	}
}

func TestBodyRoundTrip(t *testing.T) {
	for _, b := range Bodies {
		got, err := ParseBody(b.String())
		if err != nil {
			t.Fatalf("ParseBody(%q): %v", b.String(), err)
		}
		if got != b {
			t.Errorf("round trip %v -> %q -> %v", b, b.String(), got)
		}
	}
}

func TestNAIFIDs(t *testing.T) {
	tests := []struct {
		body BodyID
		want int
	}{
		{Sun, 10},
		{Mercury, 199},
		{Earth, 399},
		{Neptune, 899},
		{Moon, 301},
	}
	for _, tt := range tests {
		if got := tt.body.NAIFID(); got != tt.want {
			t.Errorf("%v NAIF id = %d, want %d", tt.body, got, tt.want)
		}
	}
}

func TestBodyValid(t *testing.T) {
	for _, b := range Bodies {
		if !b.Valid() {
			t.Errorf("%v reported invalid", b)
		}
	}
	for _, b := range []BodyID{-1, BodyID(len(Bodies))} {
		if b.Valid() {
			t.Errorf("body id %d reported valid", int(b))
		}
	}
}

func TestPlanetsExcludeSunAndMoon(t *testing.T) {
	if len(Planets) != 8 {
		t.Fatalf("len(Planets) = %d, want 8", len(Planets))
	}
	for _, p := range Planets {
		if p == Sun || p == Moon {
			t.Errorf("Planets contains %v", p)
		}
	}
}
