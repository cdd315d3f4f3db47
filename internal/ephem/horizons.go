package ephem

import (
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"sync"
	"time"

	"github.com/litescript/ls-orrery/internal/astro"
)

const (
	// HorizonsAPIURL is the JPL Horizons JSON API endpoint.
	HorizonsAPIURL = "https://ssd.jpl.nasa.gov/api/horizons.api"

	// horizonsTimeout is the HTTP request timeout.
	horizonsTimeout = 30 * time.Second

	// positionCacheTTL is how long fetched positions stay valid.
	positionCacheTTL = 10 * time.Minute
)

// HorizonsSource queries JPL Horizons for heliocentric ecliptic vectors.
// Positions are cached per (body, minute) so repeated UI queries for the
// same instant hit the network once.
type HorizonsSource struct {
	client *http.Client
	url    string

	mu    sync.RWMutex
	cache map[posKey]cachedPos
}

type posKey struct {
	body BodyID
	min  int64 // unix minute
}

type cachedPos struct {
	pos       astro.Vec3
	fetchedAt time.Time
}

// HorizonsOption configures a HorizonsSource.
type HorizonsOption func(*HorizonsSource)

// WithHorizonsURL sets a custom API endpoint (used by tests).
func WithHorizonsURL(u string) HorizonsOption {
	return func(s *HorizonsSource) {
		s.url = u
	}
}

// WithHorizonsClient sets a custom HTTP client.
func WithHorizonsClient(c *http.Client) HorizonsOption {
	return func(s *HorizonsSource) {
		s.client = c
	}
}

// NewHorizonsSource creates a new Horizons API client.
func NewHorizonsSource(opts ...HorizonsOption) *HorizonsSource {
	s := &HorizonsSource{
		url:   HorizonsAPIURL,
		cache: make(map[posKey]cachedPos),
	}
	for _, opt := range opts {
		opt(s)
	}
	if s.client == nil {
		s.client = &http.Client{Timeout: horizonsTimeout}
	}
	return s
}

// Name implements Source.
func (s *HorizonsSource) Name() string {
	return "horizons"
}

// Position implements Source.
func (s *HorizonsSource) Position(body BodyID, t time.Time) (astro.Vec3, error) {
	if !body.Valid() {
		return astro.Vec3{}, NewSampleError(body, t, fmt.Errorf("invalid body id %d", int(body)))
	}
	if err := checkRange(body, t); err != nil {
		return astro.Vec3{}, err
	}
	if body == Sun {
		return astro.Vec3{}, nil
	}

	key := posKey{body: body, min: t.Unix() / 60}

	s.mu.RLock()
	cached, ok := s.cache[key]
	s.mu.RUnlock()
	if ok && time.Since(cached.fetchedAt) < positionCacheTTL {
		return cached.pos, nil
	}

	pos, err := s.queryVectors(body, t)
	if err != nil {
		return astro.Vec3{}, NewSampleError(body, t, err)
	}

	s.mu.Lock()
	s.cache[key] = cachedPos{pos: pos, fetchedAt: time.Now()}
	s.mu.Unlock()

	return pos, nil
}

// queryVectors requests a VECTORS ephemeris for a single instant.
func (s *HorizonsSource) queryVectors(body BodyID, t time.Time) (astro.Vec3, error) {
	// Values must be quoted with single quotes
	params := url.Values{}
	params.Set("format", "json")
	params.Set("COMMAND", fmt.Sprintf("'%d'", body.NAIFID()))
	params.Set("OBJ_DATA", "NO")
	params.Set("MAKE_EPHEM", "YES")
	params.Set("EPHEM_TYPE", "VECTORS")
	params.Set("CENTER", "'@10'") // Sun center
	params.Set("REF_PLANE", "ECLIPTIC")
	params.Set("REF_SYSTEM", "ICRF")
	params.Set("VEC_TABLE", "'2'") // Position only
	params.Set("VEC_LABELS", "NO")
	params.Set("OUT_UNITS", "'AU-D'")
	params.Set("START_TIME", fmt.Sprintf("'%s'", formatHorizonsTime(t)))
	params.Set("STOP_TIME", fmt.Sprintf("'%s'", formatHorizonsTime(t.Add(time.Minute))))
	params.Set("STEP_SIZE", "'1 m'")

	resp, err := s.client.Get(s.url + "?" + params.Encode())
	if err != nil {
		return astro.Vec3{}, fmt.Errorf("horizons request failed: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		body, _ := io.ReadAll(resp.Body)
		return astro.Vec3{}, fmt.Errorf("horizons returned status %d: %s", resp.StatusCode, string(body))
	}

	payload, err := io.ReadAll(resp.Body)
	if err != nil {
		return astro.Vec3{}, fmt.Errorf("failed to read response: %w", err)
	}

	return parseVectorResponse(payload)
}

// horizonsResponse is the JSON envelope; the ephemeris itself is a text blob
// in Result.
type horizonsResponse struct {
	Result string `json:"result"`
}

// parseVectorResponse extracts the first position vector from a Horizons
// VECTORS response. The data section sits between $$SOE and $$EOE markers.
func parseVectorResponse(body []byte) (astro.Vec3, error) {
	var resp horizonsResponse
	if err := json.Unmarshal(body, &resp); err != nil {
		return astro.Vec3{}, fmt.Errorf("failed to parse JSON: %w", err)
	}

	soeIdx := strings.Index(resp.Result, "$$SOE")
	eoeIdx := strings.Index(resp.Result, "$$EOE")
	if soeIdx == -1 || eoeIdx == -1 || soeIdx >= eoeIdx {
		return astro.Vec3{}, fmt.Errorf("could not find vector data markers")
	}

	// Two line shapes occur:
	//   2460651.500000000 = A.D. 2024-Dec-05 00:00:00.0000 TDB
	//    X = 1.23E+00 Y = 2.34E+00 Z = 3.45E-01
	// or, without labels, three bare numbers on one line.
	for _, line := range strings.Split(resp.Result[soeIdx+5:eoeIdx], "\n") {
		line = strings.TrimSpace(line)
		if line == "" || (strings.Contains(line, "=") && strings.Contains(line, "A.D.")) {
			continue
		}

		if strings.Contains(line, "X =") {
			return parseVectorLabeled(line)
		}
		if vec, err := parseVectorUnlabeled(line); err == nil {
			return vec, nil
		}
	}

	return astro.Vec3{}, fmt.Errorf("could not parse vector data")
}

// parseVectorLabeled parses: X = 1.23E+00 Y = 2.34E+00 Z = 3.45E-01
func parseVectorLabeled(line string) (astro.Vec3, error) {
	parts := strings.Split(line, "=")
	if len(parts) < 4 {
		return astro.Vec3{}, fmt.Errorf("invalid labeled vector format")
	}

	x, err := strconv.ParseFloat(strings.Fields(parts[1])[0], 64)
	if err != nil {
		return astro.Vec3{}, err
	}
	y, err := strconv.ParseFloat(strings.Fields(parts[2])[0], 64)
	if err != nil {
		return astro.Vec3{}, err
	}
	z, err := strconv.ParseFloat(strings.TrimSpace(parts[3]), 64)
	if err != nil {
		return astro.Vec3{}, err
	}

	return astro.Vec3{X: x, Y: y, Z: z}, nil
}

// parseVectorUnlabeled parses: 1.23E+00  2.34E+00  3.45E-01
func parseVectorUnlabeled(line string) (astro.Vec3, error) {
	fields := strings.Fields(line)
	if len(fields) < 3 {
		return astro.Vec3{}, fmt.Errorf("insufficient fields: %d", len(fields))
	}

	x, err := strconv.ParseFloat(fields[0], 64)
	if err != nil {
		return astro.Vec3{}, err
	}
	y, err := strconv.ParseFloat(fields[1], 64)
	if err != nil {
		return astro.Vec3{}, err
	}
	z, err := strconv.ParseFloat(fields[2], 64)
	if err != nil {
		return astro.Vec3{}, err
	}

	return astro.Vec3{X: x, Y: y, Z: z}, nil
}

// formatHorizonsTime formats a time for the Horizons API.
func formatHorizonsTime(t time.Time) string {
	return t.UTC().Format("2006-01-02 15:04")
}
