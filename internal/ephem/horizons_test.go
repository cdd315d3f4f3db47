package ephem

import (
	"encoding/json"
	"errors"
	"math"
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"
	"time"

	"github.com/litescript/ls-orrery/internal/astro"
)

const marsVectorResult = `*******************************************************************************
Ephemeris / API_USER
Target body name: Mars Barycenter (4)
Center body name: Sun (10)
*******************************************************************************
$$SOE
2460827.500000000 = A.D. 2025-Jun-01 00:00:00.0000 TDB
 X = 1.234567890123456E+00 Y =-8.765432109876543E-01 Z =-4.321098765432109E-02
$$EOE
*******************************************************************************`

const marsVectorResultUnlabeled = `$$SOE
2460827.500000000 = A.D. 2025-Jun-01 00:00:00.0000 TDB
  1.234567890123456E+00 -8.765432109876543E-01 -4.321098765432109E-02
$$EOE`

func horizonsServer(t *testing.T, result string, hits *atomic.Int64) *httptest.Server {
	t.Helper()
	return httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if hits != nil {
			hits.Add(1)
		}
		q := r.URL.Query()
		if q.Get("EPHEM_TYPE") != "VECTORS" {
			t.Errorf("EPHEM_TYPE = %q, want VECTORS", q.Get("EPHEM_TYPE"))
		}
		if q.Get("CENTER") != "'@10'" {
			t.Errorf("CENTER = %q, want '@10'", q.Get("CENTER"))
		}
		if q.Get("COMMAND") != "'499'" {
			t.Errorf("COMMAND = %q, want '499'", q.Get("COMMAND"))
		}
		json.NewEncoder(w).Encode(map[string]string{"result": result})
	}))
}

func TestHorizonsPosition(t *testing.T) {
	srv := horizonsServer(t, marsVectorResult, nil)
	defer srv.Close()

	s := NewHorizonsSource(WithHorizonsURL(srv.URL))
	pos, err := s.Position(Mars, time.Date(2025, 6, 1, 0, 0, 0, 0, time.UTC))
	if err != nil {
		t.Fatalf("Position: %v", err)
	}
	if math.Abs(pos.X-1.234567890123456) > 1e-12 ||
		math.Abs(pos.Y-(-0.8765432109876543)) > 1e-12 ||
		math.Abs(pos.Z-(-0.04321098765432109)) > 1e-12 {
		t.Errorf("position = %+v", pos)
	}
}

func TestHorizonsPositionCached(t *testing.T) {
	var hits atomic.Int64
	srv := horizonsServer(t, marsVectorResult, &hits)
	defer srv.Close()

	s := NewHorizonsSource(WithHorizonsURL(srv.URL))
	at := time.Date(2025, 6, 1, 0, 0, 0, 0, time.UTC)

	for i := 0; i < 3; i++ {
		if _, err := s.Position(Mars, at); err != nil {
			t.Fatalf("query %d: %v", i, err)
		}
	}
	if got := hits.Load(); got != 1 {
		t.Errorf("server hit %d times, want 1", got)
	}

	// a different minute misses the cache
	if _, err := s.Position(Mars, at.Add(time.Minute)); err != nil {
		t.Fatalf("second instant: %v", err)
	}
	if got := hits.Load(); got != 2 {
		t.Errorf("server hit %d times after second instant, want 2", got)
	}
}

func TestHorizonsSunShortcut(t *testing.T) {
	var hits atomic.Int64
	srv := horizonsServer(t, marsVectorResult, &hits)
	defer srv.Close()

	s := NewHorizonsSource(WithHorizonsURL(srv.URL))
	pos, err := s.Position(Sun, time.Date(2025, 6, 1, 0, 0, 0, 0, time.UTC))
	if err != nil {
		t.Fatalf("Position: %v", err)
	}
	if pos != (astro.Vec3{}) {
		t.Errorf("Sun position = %+v, want origin", pos)
	}
	if hits.Load() != 0 {
		t.Error("Sun query hit the network")
	}
}

func TestHorizonsServerError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "service unavailable", http.StatusServiceUnavailable)
	}))
	defer srv.Close()

	s := NewHorizonsSource(WithHorizonsURL(srv.URL))
	_, err := s.Position(Mars, time.Date(2025, 6, 1, 0, 0, 0, 0, time.UTC))
	if err == nil {
		t.Fatal("expected error")
	}
	var serr *SampleError
	if !errors.As(err, &serr) {
		t.Fatalf("error %v is not a SampleError", err)
	}
	if serr.Body != Mars {
		t.Errorf("SampleError body = %v, want Mars", serr.Body)
	}
}

func TestHorizonsOutOfRange(t *testing.T) {
	s := NewHorizonsSource()
	_, err := s.Position(Mars, time.Date(1800, 1, 1, 0, 0, 0, 0, time.UTC))
	if !errors.Is(err, ErrOutOfRange) {
		t.Errorf("error = %v, want ErrOutOfRange", err)
	}
}

func TestParseVectorResponse(t *testing.T) {
	tests := []struct {
		name    string
		result  string
		want    astro.Vec3
		wantErr bool
	}{
		{"labeled", marsVectorResult, astro.Vec3{
			X: 1.234567890123456, Y: -0.8765432109876543, Z: -0.04321098765432109,
		}, false},
		{"unlabeled", marsVectorResultUnlabeled, astro.Vec3{
			X: 1.234567890123456, Y: -0.8765432109876543, Z: -0.04321098765432109,
		}, false},
		{"missing markers", "no ephemeris here", astro.Vec3{}, true},
		{"empty data section", "$$SOE\n$$EOE", astro.Vec3{}, true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			payload, _ := json.Marshal(map[string]string{"result": tt.result})
			got, err := parseVectorResponse(payload)
			if (err != nil) != tt.wantErr {
				t.Fatalf("error = %v, wantErr %v", err, tt.wantErr)
			}
			if err == nil && got != tt.want {
				t.Errorf("parsed %+v, want %+v", got, tt.want)
			}
		})
	}
}

func TestParseVectorResponseBadJSON(t *testing.T) {
	if _, err := parseVectorResponse([]byte("{not json")); err == nil {
		t.Fatal("expected error for malformed JSON")
	}
}
