// Package planetmeta looks up physical planet data from the API Ninjas
// planets endpoint, with a local cache file and a bundled fallback table so
// lookups always produce an answer.
package planetmeta

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"os"
	"strings"
	"time"
)

const (
	// DefaultAPIURL is the API Ninjas planets endpoint.
	DefaultAPIURL = "https://api.api-ninjas.com/v1/planets"

	// DefaultTimeout for HTTP requests.
	DefaultTimeout = 15 * time.Second

	// APIKeyEnv names the environment variable holding the API key.
	APIKeyEnv = "PLANETS_API_KEY"
)

// ErrNoAPIKey indicates no API key is configured; remote lookups are
// disabled and callers fall back to cached or bundled data.
var ErrNoAPIKey = errors.New("planet metadata API key not configured")

// ErrNotFound indicates the API returned no record for the name.
var ErrNotFound = errors.New("no planet record")

// PlanetInfo holds physical data for one body. Masses and radii follow the
// API's convention of Jupiter units.
type PlanetInfo struct {
	Name            string  `json:"name"`
	MassJupiters    float64 `json:"mass"`
	RadiusJupiters  float64 `json:"radius"`
	PeriodDays      float64 `json:"period"`
	SemiMajorAxisAU float64 `json:"semi_major_axis"`
	TemperatureK    float64 `json:"temperature"`
	GravityMS2      float64 `json:"gravity,omitempty"`
	DistanceLY      float64 `json:"distance_light_year,omitempty"`
}

// Client handles HTTP lookups against the planets API.
type Client struct {
	client  *http.Client
	url     string
	timeout time.Duration
	apiKey  string
}

// ClientOption configures a Client.
type ClientOption func(*Client)

// WithURL sets a custom endpoint URL.
func WithURL(u string) ClientOption {
	return func(c *Client) {
		c.url = u
	}
}

// WithTimeout sets the HTTP request timeout.
func WithTimeout(d time.Duration) ClientOption {
	return func(c *Client) {
		c.timeout = d
	}
}

// WithHTTPClient sets a custom HTTP client.
func WithHTTPClient(client *http.Client) ClientOption {
	return func(c *Client) {
		c.client = client
	}
}

// WithAPIKey sets the API key, overriding the environment.
func WithAPIKey(key string) ClientOption {
	return func(c *Client) {
		c.apiKey = key
	}
}

// NewClient creates a planets API client. The API key defaults to the
// PLANETS_API_KEY environment variable.
func NewClient(opts ...ClientOption) *Client {
	c := &Client{
		url:     DefaultAPIURL,
		timeout: DefaultTimeout,
		apiKey:  os.Getenv(APIKeyEnv),
	}

	for _, opt := range opts {
		opt(c)
	}

	if c.client == nil {
		c.client = &http.Client{
			Timeout: c.timeout,
		}
	}

	return c
}

// Enabled reports whether remote lookups are possible.
func (c *Client) Enabled() bool {
	return c.apiKey != ""
}

// Lookup fetches metadata for a body by name.
func (c *Client) Lookup(ctx context.Context, name string) (PlanetInfo, error) {
	if c.apiKey == "" {
		return PlanetInfo{}, ErrNoAPIKey
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet,
		c.url+"?name="+url.QueryEscape(name), nil)
	if err != nil {
		return PlanetInfo{}, fmt.Errorf("failed to create request: %w", err)
	}
	req.Header.Set("X-Api-Key", c.apiKey)

	resp, err := c.client.Do(req)
	if err != nil {
		return PlanetInfo{}, fmt.Errorf("planets request failed: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		body, _ := io.ReadAll(io.LimitReader(resp.Body, 4096))
		return PlanetInfo{}, fmt.Errorf("planets API returned status %d: %s",
			resp.StatusCode, strings.TrimSpace(string(body)))
	}

	var records []PlanetInfo
	if err := json.NewDecoder(resp.Body).Decode(&records); err != nil {
		return PlanetInfo{}, fmt.Errorf("failed to parse response: %w", err)
	}

	for _, rec := range records {
		if strings.EqualFold(rec.Name, name) {
			return rec, nil
		}
	}
	if len(records) > 0 {
		return records[0], nil
	}

	return PlanetInfo{}, fmt.Errorf("%w for %q", ErrNotFound, name)
}
