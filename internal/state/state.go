// Package state provides thread-safe shared state for the application:
// current body positions, orbit tracks, detected alignments, and metadata.
package state

import (
	"sync"
	"time"

	"github.com/litescript/ls-orrery/internal/ephem"
	"github.com/litescript/ls-orrery/internal/orbit"
	"github.com/litescript/ls-orrery/internal/planetmeta"
)

// Config holds configuration for the state manager.
type Config struct {
	// MaxEvents bounds the alignment event log.
	MaxEvents int
}

// DefaultConfig returns sensible default configuration.
func DefaultConfig() Config {
	return Config{
		MaxEvents: 50,
	}
}

// Manager handles all shared application state. Written by the background
// computation goroutine, read by the UI tick.
type Manager struct {
	mu sync.RWMutex

	// Current view
	viewTime  time.Time
	positions map[ephem.BodyID]orbit.Sample
	tracks    map[ephem.BodyID][]orbit.Sample
	source    string

	// Alignment event log (ring buffer)
	events       []orbit.AlignmentEvent
	maxEvents    int
	eventWriteAt int

	// Metadata cache for the info panel
	metadata map[ephem.BodyID]planetmeta.PlanetInfo

	// Last computation outcome
	lastCompute     time.Time
	lastError       error
	computeDuration time.Duration
}

// NewManager creates a new state manager.
func NewManager(cfg Config) *Manager {
	maxEvents := cfg.MaxEvents
	if maxEvents <= 0 {
		maxEvents = 50
	}
	return &Manager{
		positions: make(map[ephem.BodyID]orbit.Sample),
		tracks:    make(map[ephem.BodyID][]orbit.Sample),
		metadata:  make(map[ephem.BodyID]planetmeta.PlanetInfo),
		events:    make([]orbit.AlignmentEvent, 0, maxEvents),
		maxEvents: maxEvents,
	}
}

// UpdatePositions atomically replaces the current per-body positions.
func (m *Manager) UpdatePositions(viewTime time.Time, samples []orbit.Sample, source string, took time.Duration, err error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	m.lastCompute = time.Now()
	m.lastError = err
	m.computeDuration = took
	m.source = source

	if err != nil {
		return
	}

	m.viewTime = viewTime
	m.positions = make(map[ephem.BodyID]orbit.Sample, len(samples))
	for _, s := range samples {
		m.positions[s.Body] = s
	}
}

// UpdateTracks replaces the orbit tracks used by the canvas and plots.
func (m *Manager) UpdateTracks(tracks map[ephem.BodyID][]orbit.Sample) {
	m.mu.Lock()
	defer m.mu.Unlock()

	m.tracks = make(map[ephem.BodyID][]orbit.Sample, len(tracks))
	for b, track := range tracks {
		copied := make([]orbit.Sample, len(track))
		copy(copied, track)
		m.tracks[b] = copied
	}
}

// AddEvents appends alignment events to the ring buffer.
func (m *Manager) AddEvents(events []orbit.AlignmentEvent) {
	m.mu.Lock()
	defer m.mu.Unlock()

	for _, e := range events {
		if len(m.events) < m.maxEvents {
			m.events = append(m.events, e)
		} else {
			m.events[m.eventWriteAt] = e
			m.eventWriteAt = (m.eventWriteAt + 1) % m.maxEvents
		}
	}
}

// SetMetadata stores the info-panel record for a body.
func (m *Manager) SetMetadata(body ephem.BodyID, info planetmeta.PlanetInfo) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.metadata[body] = info
}

// Snapshot is an immutable view of current state.
type Snapshot struct {
	ViewTime        time.Time
	Positions       map[ephem.BodyID]orbit.Sample
	Tracks          map[ephem.BodyID][]orbit.Sample
	Source          string
	Events          []orbit.AlignmentEvent
	Metadata        map[ephem.BodyID]planetmeta.PlanetInfo
	LastCompute     time.Time
	LastError       error
	ComputeDuration time.Duration
}

// Snapshot returns a consistent copy of current state.
func (m *Manager) Snapshot() Snapshot {
	m.mu.RLock()
	defer m.mu.RUnlock()

	positions := make(map[ephem.BodyID]orbit.Sample, len(m.positions))
	for b, s := range m.positions {
		positions[b] = s
	}

	tracks := make(map[ephem.BodyID][]orbit.Sample, len(m.tracks))
	for b, track := range m.tracks {
		copied := make([]orbit.Sample, len(track))
		copy(copied, track)
		tracks[b] = copied
	}

	metadata := make(map[ephem.BodyID]planetmeta.PlanetInfo, len(m.metadata))
	for b, info := range m.metadata {
		metadata[b] = info
	}

	return Snapshot{
		ViewTime:        m.viewTime,
		Positions:       positions,
		Tracks:          tracks,
		Source:          m.source,
		Events:          m.eventsInOrder(),
		Metadata:        metadata,
		LastCompute:     m.lastCompute,
		LastError:       m.lastError,
		ComputeDuration: m.computeDuration,
	}
}

// eventsInOrder returns the ring buffer contents oldest-first.
// Caller must hold at least a read lock.
func (m *Manager) eventsInOrder() []orbit.AlignmentEvent {
	out := make([]orbit.AlignmentEvent, 0, len(m.events))
	if len(m.events) < m.maxEvents {
		return append(out, m.events...)
	}
	out = append(out, m.events[m.eventWriteAt:]...)
	out = append(out, m.events[:m.eventWriteAt]...)
	return out
}
