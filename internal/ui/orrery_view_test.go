package ui

import (
	"strings"
	"testing"
	"time"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/litescript/ls-orrery/internal/astro"
	"github.com/litescript/ls-orrery/internal/config"
	"github.com/litescript/ls-orrery/internal/ephem"
	"github.com/litescript/ls-orrery/internal/orbit"
	"github.com/litescript/ls-orrery/internal/state"
)

func testTheme() Theme {
	return NewTheme(config.DefaultConfig())
}

func keyPress(r rune) tea.KeyMsg {
	return tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune{r}}
}

func testSnapshot() state.Snapshot {
	at := time.Date(2025, 6, 1, 0, 0, 0, 0, time.UTC)
	return state.Snapshot{
		ViewTime: at,
		Positions: map[ephem.BodyID]orbit.Sample{
			ephem.Sun:     {Body: ephem.Sun, Time: at},
			ephem.Earth:   {Body: ephem.Earth, Time: at, Pos: astro.Vec3{X: 1}},
			ephem.Mars:    {Body: ephem.Mars, Time: at, Pos: astro.Vec3{X: -1.5}},
			ephem.Jupiter: {Body: ephem.Jupiter, Time: at, Pos: astro.Vec3{Y: 5.2}},
		},
		Tracks: map[ephem.BodyID][]orbit.Sample{
			ephem.Earth: {
				{Body: ephem.Earth, Time: at, Pos: astro.Vec3{X: 1}},
				{Body: ephem.Earth, Time: at.Add(24 * time.Hour), Pos: astro.Vec3{Y: 1}},
				{Body: ephem.Earth, Time: at.Add(48 * time.Hour), Pos: astro.Vec3{X: -1}},
			},
		},
	}
}

func TestOrreryModelInit(t *testing.T) {
	m := NewOrreryModel(testTheme())

	if m.focusIdx != -1 {
		t.Errorf("expected focusIdx -1 (Sun), got %d", m.focusIdx)
	}
	if m.scale() != 1.0 {
		t.Errorf("expected scale 1.0, got %f", m.scale())
	}
	if m.scaleMode != astro.ScaleLogR {
		t.Errorf("expected ScaleLogR, got %d", m.scaleMode)
	}
	if !m.showTracks {
		t.Error("expected tracks shown by default")
	}
}

func TestOrreryModelScrubKeys(t *testing.T) {
	m := NewOrreryModel(testTheme()).SetStep(24 * time.Hour)

	tests := []struct {
		key  rune
		want time.Duration
	}{
		{'h', -24 * time.Hour},
		{'l', 24 * time.Hour},
		{'H', -30 * 24 * time.Hour},
		{'L', 30 * 24 * time.Hour},
	}

	for _, tt := range tests {
		_, cmd := m.Update(keyPress(tt.key))
		if cmd == nil {
			t.Fatalf("key %q: expected a command", tt.key)
		}
		msg, isScrub := cmd().(TimeScrubMsg)
		if !isScrub {
			t.Fatalf("key %q: expected TimeScrubMsg, got %T", tt.key, cmd())
		}
		if msg.Delta != tt.want {
			t.Errorf("key %q: delta = %v, want %v", tt.key, msg.Delta, tt.want)
		}
	}

	_, cmd := m.Update(keyPress('n'))
	if cmd == nil {
		t.Fatal("key n: expected a command")
	}
	if _, isReset := cmd().(TimeResetMsg); !isReset {
		t.Errorf("key n: expected TimeResetMsg, got %T", cmd())
	}
}

func TestOrreryModelFocusNavigation(t *testing.T) {
	m := NewOrreryModel(testTheme()).UpdateData(testSnapshot())

	if m.focusIdx != -1 {
		t.Errorf("expected focusIdx -1, got %d", m.focusIdx)
	}

	m, _ = m.Update(keyPress('k'))
	if m.focusIdx != 0 {
		t.Errorf("after next, expected focusIdx 0, got %d", m.focusIdx)
	}

	m, _ = m.Update(keyPress('j'))
	if m.focusIdx != -1 {
		t.Errorf("after prev, expected focusIdx -1, got %d", m.focusIdx)
	}

	// Wrap backwards lands on the last body in the cycle.
	m, _ = m.Update(keyPress('j'))
	if m.focusIdx != len(displayOrder)-1 {
		t.Errorf("after wrap, expected focusIdx %d, got %d", len(displayOrder)-1, m.focusIdx)
	}
}

func TestOrreryModelZoom(t *testing.T) {
	m := NewOrreryModel(testTheme())

	m, _ = m.Update(keyPress('+'))
	if m.scale() != 1.5 {
		t.Errorf("expected scale 1.5 after zoom in, got %f", m.scale())
	}

	m, _ = m.Update(keyPress('-'))
	m, _ = m.Update(keyPress('-'))
	if m.scale() != 0.75 {
		t.Errorf("expected scale 0.75 after zooming out, got %f", m.scale())
	}

	m, _ = m.Update(keyPress('0'))
	if m.scale() != 1.0 {
		t.Errorf("expected scale 1.0 after reset, got %f", m.scale())
	}
}

func TestOrreryModelHideBody(t *testing.T) {
	m := NewOrreryModel(testTheme()).UpdateData(testSnapshot())

	// Focus the first body in the cycle, then toggle it hidden.
	m, _ = m.Update(keyPress('k'))
	m, _ = m.Update(keyPress(' '))

	body := displayOrder[0]
	if !m.hidden[body] {
		t.Errorf("expected %s hidden after toggle", body)
	}

	m, _ = m.Update(keyPress(' '))
	if m.hidden[body] {
		t.Errorf("expected %s visible after second toggle", body)
	}
}

func TestOrreryViewRendersBodies(t *testing.T) {
	m := NewOrreryModel(testTheme()).
		SetSize(100, 30).
		UpdateData(testSnapshot())

	out := m.View()
	if !strings.Contains(out, "☉") {
		t.Error("expected the Sun glyph in the canvas")
	}
	if !strings.Contains(out, "2025-06-01") {
		t.Error("expected the view time in the HUD")
	}
}

func TestOrreryViewTooSmall(t *testing.T) {
	m := NewOrreryModel(testTheme()).SetSize(20, 5)
	if !strings.Contains(m.View(), "too small") {
		t.Error("expected the too-small notice")
	}
}
