package state

import (
	"errors"
	"fmt"
	"testing"
	"time"

	"github.com/litescript/ls-orrery/internal/astro"
	"github.com/litescript/ls-orrery/internal/ephem"
	"github.com/litescript/ls-orrery/internal/orbit"
	"github.com/litescript/ls-orrery/internal/planetmeta"
)

var stateEpoch = time.Date(2025, 6, 1, 0, 0, 0, 0, time.UTC)

func sampleAt(body ephem.BodyID, t time.Time, x float64) orbit.Sample {
	return orbit.Sample{Body: body, Time: t, Pos: astro.Vec3{X: x}}
}

func eventAt(t time.Time, name string) orbit.AlignmentEvent {
	return orbit.AlignmentEvent{
		Kind:      orbit.Conjunction,
		Bodies:    [2]ephem.BodyID{ephem.Mars, ephem.Sun},
		BodyNames: [2]string{name, "Sun"},
		Reference: "Earth",
		Time:      t,
	}
}

func TestUpdatePositions(t *testing.T) {
	m := NewManager(DefaultConfig())

	samples := []orbit.Sample{
		sampleAt(ephem.Earth, stateEpoch, 1.0),
		sampleAt(ephem.Mars, stateEpoch, 1.5),
	}
	m.UpdatePositions(stateEpoch, samples, "kepler", 42*time.Millisecond, nil)

	snap := m.Snapshot()
	if !snap.ViewTime.Equal(stateEpoch) {
		t.Errorf("ViewTime = %v, want %v", snap.ViewTime, stateEpoch)
	}
	if snap.Source != "kepler" {
		t.Errorf("Source = %q, want %q", snap.Source, "kepler")
	}
	if snap.ComputeDuration != 42*time.Millisecond {
		t.Errorf("ComputeDuration = %v, want 42ms", snap.ComputeDuration)
	}
	if snap.LastError != nil {
		t.Errorf("LastError = %v, want nil", snap.LastError)
	}
	if len(snap.Positions) != 2 {
		t.Fatalf("len(Positions) = %d, want 2", len(snap.Positions))
	}
	if got := snap.Positions[ephem.Mars].Pos.X; got != 1.5 {
		t.Errorf("Mars X = %v, want 1.5", got)
	}
	if snap.LastCompute.IsZero() {
		t.Error("LastCompute not set")
	}
}

func TestUpdatePositionsErrorKeepsOldData(t *testing.T) {
	m := NewManager(DefaultConfig())

	m.UpdatePositions(stateEpoch, []orbit.Sample{sampleAt(ephem.Earth, stateEpoch, 1.0)}, "kepler", time.Millisecond, nil)

	computeErr := errors.New("source unavailable")
	later := stateEpoch.Add(24 * time.Hour)
	m.UpdatePositions(later, nil, "horizons", time.Millisecond, computeErr)

	snap := m.Snapshot()
	if snap.LastError == nil || snap.LastError.Error() != "source unavailable" {
		t.Errorf("LastError = %v, want source unavailable", snap.LastError)
	}
	// Old positions and view time survive a failed update.
	if !snap.ViewTime.Equal(stateEpoch) {
		t.Errorf("ViewTime = %v, want %v", snap.ViewTime, stateEpoch)
	}
	if len(snap.Positions) != 1 {
		t.Errorf("len(Positions) = %d, want 1", len(snap.Positions))
	}
}

func TestUpdateTracksCopies(t *testing.T) {
	m := NewManager(DefaultConfig())

	track := []orbit.Sample{
		sampleAt(ephem.Venus, stateEpoch, 0.7),
		sampleAt(ephem.Venus, stateEpoch.Add(24*time.Hour), 0.71),
	}
	m.UpdateTracks(map[ephem.BodyID][]orbit.Sample{ephem.Venus: track})

	// Mutating the input after the update must not affect stored state.
	track[0].Pos.X = 99

	snap := m.Snapshot()
	got, ok := snap.Tracks[ephem.Venus]
	if !ok {
		t.Fatal("Venus track missing")
	}
	if len(got) != 2 {
		t.Fatalf("len(track) = %d, want 2", len(got))
	}
	if got[0].Pos.X != 0.7 {
		t.Errorf("track[0].X = %v, want 0.7", got[0].Pos.X)
	}

	// Mutating the snapshot must not affect stored state either.
	got[1].Pos.X = -1
	snap2 := m.Snapshot()
	if snap2.Tracks[ephem.Venus][1].Pos.X != 0.71 {
		t.Error("snapshot mutation leaked into manager state")
	}
}

func TestAddEventsRingBuffer(t *testing.T) {
	m := NewManager(Config{MaxEvents: 3})

	for i := 0; i < 5; i++ {
		m.AddEvents([]orbit.AlignmentEvent{
			eventAt(stateEpoch.Add(time.Duration(i)*24*time.Hour), fmt.Sprintf("ev%d", i)),
		})
	}

	snap := m.Snapshot()
	if len(snap.Events) != 3 {
		t.Fatalf("len(Events) = %d, want 3", len(snap.Events))
	}
	// Oldest two were overwritten; remaining are ev2..ev4 oldest-first.
	for i, want := range []string{"ev2", "ev3", "ev4"} {
		if got := snap.Events[i].BodyNames[0]; got != want {
			t.Errorf("Events[%d] = %q, want %q", i, got, want)
		}
	}
	for i := 1; i < len(snap.Events); i++ {
		if snap.Events[i].Time.Before(snap.Events[i-1].Time) {
			t.Errorf("events out of order at %d", i)
		}
	}
}

func TestAddEventsUnderCapacity(t *testing.T) {
	m := NewManager(Config{MaxEvents: 10})
	m.AddEvents([]orbit.AlignmentEvent{
		eventAt(stateEpoch, "first"),
		eventAt(stateEpoch.Add(24*time.Hour), "second"),
	})

	snap := m.Snapshot()
	if len(snap.Events) != 2 {
		t.Fatalf("len(Events) = %d, want 2", len(snap.Events))
	}
	if snap.Events[0].BodyNames[0] != "first" {
		t.Errorf("Events[0] = %q, want first", snap.Events[0].BodyNames[0])
	}
}

func TestSetMetadata(t *testing.T) {
	m := NewManager(DefaultConfig())
	m.SetMetadata(ephem.Jupiter, planetmeta.PlanetInfo{Name: "Jupiter", MassJupiters: 1.0})

	snap := m.Snapshot()
	info, ok := snap.Metadata[ephem.Jupiter]
	if !ok {
		t.Fatal("Jupiter metadata missing")
	}
	if info.MassJupiters != 1.0 {
		t.Errorf("MassJupiters = %v, want 1.0", info.MassJupiters)
	}
}

func TestNewManagerZeroMaxEvents(t *testing.T) {
	m := NewManager(Config{})
	if m.maxEvents <= 0 {
		t.Errorf("maxEvents = %d, want positive default", m.maxEvents)
	}
}

func TestSnapshotConcurrentAccess(t *testing.T) {
	m := NewManager(DefaultConfig())
	done := make(chan struct{})

	go func() {
		defer close(done)
		for i := 0; i < 200; i++ {
			m.UpdatePositions(stateEpoch, []orbit.Sample{sampleAt(ephem.Earth, stateEpoch, float64(i))}, "kepler", time.Microsecond, nil)
			m.AddEvents([]orbit.AlignmentEvent{eventAt(stateEpoch, "ev")})
		}
	}()

	for i := 0; i < 200; i++ {
		_ = m.Snapshot()
	}
	<-done
}
