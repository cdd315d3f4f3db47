package chat

import (
	"net/http"
	"sort"
	"sync"
)

// Provider implements one chat completion backend.
type Provider interface {
	// Name returns the provider identifier (e.g. "groq", "ollama").
	Name() string

	// BuildURL constructs the completions endpoint from a base URL;
	// an empty base selects the provider default.
	BuildURL(baseURL string) string

	// SetHeaders adds provider-specific headers (auth) to the request.
	SetHeaders(req *http.Request)

	// Enabled reports whether the provider has the credentials it needs.
	Enabled() bool

	// DefaultModel returns the model used when the config names none.
	DefaultModel() string

	// BuildRequestBody creates the JSON request body.
	BuildRequestBody(model string, messages []Message, temperature *float64, maxTokens int) ([]byte, error)

	// ParseResponse extracts the completion from provider JSON.
	ParseResponse(body []byte) (*Response, error)
}

var (
	providerMu sync.RWMutex
	providers  = make(map[string]Provider)
)

// RegisterProvider adds a provider to the registry. Called from init().
func RegisterProvider(p Provider) {
	providerMu.Lock()
	defer providerMu.Unlock()
	providers[p.Name()] = p
}

// GetProvider retrieves a provider by name, nil if unknown.
func GetProvider(name string) Provider {
	providerMu.RLock()
	defer providerMu.RUnlock()
	return providers[name]
}

// ListProviders returns registered provider names, sorted.
func ListProviders() []string {
	providerMu.RLock()
	defer providerMu.RUnlock()

	names := make([]string, 0, len(providers))
	for name := range providers {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}
