package planetmeta

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"sync"

	"go.uber.org/zap"
)

// Store answers metadata queries with a three-tier strategy: remote API,
// then the local cache file, then the bundled table. Successful remote
// lookups refresh the cache. Queries never fail; misses are logged.
type Store struct {
	client *Client
	path   string
	log    *zap.Logger

	mu    sync.RWMutex
	cache map[string]PlanetInfo
	dirty bool
}

// NewStore creates a store backed by the given client and cache file path.
// An empty path disables persistence.
func NewStore(client *Client, path string, log *zap.Logger) *Store {
	if log == nil {
		log = zap.NewNop()
	}
	return &Store{
		client: client,
		path:   path,
		log:    log,
		cache:  make(map[string]PlanetInfo),
	}
}

// Load reads the cache file. A missing file is not an error; a corrupt one
// is logged and ignored.
func (s *Store) Load() error {
	if s.path == "" {
		return nil
	}

	data, err := os.ReadFile(s.path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil
		}
		return fmt.Errorf("failed to read metadata cache: %w", err)
	}

	var cache map[string]PlanetInfo
	if err := json.Unmarshal(data, &cache); err != nil {
		s.log.Warn("metadata cache corrupt, starting empty",
			zap.String("path", s.path),
			zap.Error(err))
		return nil
	}

	s.mu.Lock()
	s.cache = cache
	s.mu.Unlock()

	s.log.Debug("metadata cache loaded",
		zap.String("path", s.path),
		zap.Int("entries", len(cache)))
	return nil
}

// Save writes the cache file if anything changed since the last save.
func (s *Store) Save() error {
	if s.path == "" {
		return nil
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	if !s.dirty {
		return nil
	}

	data, err := json.MarshalIndent(s.cache, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to encode metadata cache: %w", err)
	}

	if err := os.MkdirAll(filepath.Dir(s.path), 0o755); err != nil {
		return fmt.Errorf("failed to create cache directory: %w", err)
	}
	if err := os.WriteFile(s.path, data, 0o644); err != nil {
		return fmt.Errorf("failed to write metadata cache: %w", err)
	}

	s.dirty = false
	return nil
}

// Get returns metadata for a body name. Remote data wins when available;
// otherwise the cached copy, then the bundled table. The zero PlanetInfo
// comes back only for names outside the supported set.
func (s *Store) Get(ctx context.Context, name string) PlanetInfo {
	key := normalizeName(name)

	if s.client != nil && s.client.Enabled() {
		info, err := s.client.Lookup(ctx, name)
		if err == nil {
			s.put(key, info)
			return s.fillGaps(key, info)
		}
		if !errors.Is(err, ErrNoAPIKey) {
			s.log.Warn("remote metadata lookup failed",
				zap.String("body", name),
				zap.Error(err))
		}
	}

	s.mu.RLock()
	cached, ok := s.cache[key]
	s.mu.RUnlock()
	if ok {
		return s.fillGaps(key, cached)
	}

	if info, ok := Fallback(key); ok {
		return info
	}

	s.log.Warn("no metadata for body", zap.String("body", name))
	return PlanetInfo{Name: name}
}

// put stores a record and marks the cache dirty.
func (s *Store) put(key string, info PlanetInfo) {
	s.mu.Lock()
	s.cache[key] = info
	s.dirty = true
	s.mu.Unlock()
}

// fillGaps backfills fields the remote API does not carry (surface gravity)
// from the bundled table.
func (s *Store) fillGaps(key string, info PlanetInfo) PlanetInfo {
	if info.GravityMS2 == 0 {
		if fb, ok := Fallback(key); ok {
			info.GravityMS2 = fb.GravityMS2
		}
	}
	return info
}

func normalizeName(name string) string {
	return strings.ToLower(strings.TrimSpace(name))
}
