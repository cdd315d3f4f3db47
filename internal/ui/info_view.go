package ui

import (
	"fmt"
	"strings"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/litescript/ls-orrery/internal/astro"
	"github.com/litescript/ls-orrery/internal/ephem"
	"github.com/litescript/ls-orrery/internal/state"
)

// InfoModel renders the metadata and orbital elements panel for one body.
type InfoModel struct {
	width    int
	height   int
	theme    Theme
	snapshot state.Snapshot
	elements *ephem.KeplerSource

	focusIdx  int // index into ephem.Bodies
	requested map[ephem.BodyID]bool
}

// NewInfoModel creates the info view model.
func NewInfoModel(theme Theme) InfoModel {
	return InfoModel{
		theme:     theme,
		focusIdx:  int(ephem.Earth),
		requested: make(map[ephem.BodyID]bool),
	}
}

// SetSize updates the viewport size.
func (m InfoModel) SetSize(width, height int) InfoModel {
	m.width = width
	m.height = height
	return m
}

// SetTheme swaps the style set.
func (m InfoModel) SetTheme(theme Theme) InfoModel {
	m.theme = theme
	return m
}

// UpdateData updates the model with a fresh snapshot and the elements
// provider (nil when only a remote source is configured).
func (m InfoModel) UpdateData(snapshot state.Snapshot, elements *ephem.KeplerSource) InfoModel {
	m.snapshot = snapshot
	m.elements = elements
	return m
}

func (m InfoModel) focused() ephem.BodyID {
	return ephem.Bodies[m.focusIdx]
}

// Update handles input messages.
func (m InfoModel) Update(msg tea.Msg) (InfoModel, tea.Cmd) {
	keyMsg, isKey := msg.(tea.KeyMsg)
	if !isKey {
		return m, m.maybeRequest()
	}

	switch keyMsg.String() {
	case "j", "down":
		m.focusIdx = (m.focusIdx + 1) % len(ephem.Bodies)
	case "k", "up":
		m.focusIdx--
		if m.focusIdx < 0 {
			m.focusIdx = len(ephem.Bodies) - 1
		}
	}

	return m, m.maybeRequest()
}

// maybeRequest asks the engine for metadata the first time a body gains
// focus.
func (m *InfoModel) maybeRequest() tea.Cmd {
	body := m.focused()
	if m.requested[body] {
		return nil
	}
	if _, have := m.snapshot.Metadata[body]; have {
		return nil
	}
	m.requested[body] = true
	return func() tea.Msg { return InfoRequestMsg{Body: body} }
}

// View renders the info panel.
func (m InfoModel) View() string {
	var b strings.Builder
	body := m.focused()

	b.WriteString("  " + m.theme.Header.Render("Body Info") + "\n\n")

	// Body selector strip
	var names []string
	for i, candidate := range ephem.Bodies {
		if i == m.focusIdx {
			names = append(names, m.theme.BodyStyle(candidate.String()).Bold(true).Render("["+candidate.String()+"]"))
		} else {
			names = append(names, m.theme.Dim.Render(candidate.String()))
		}
	}
	b.WriteString("  " + strings.Join(names, " ") + "\n\n")

	info, haveInfo := m.snapshot.Metadata[body]
	if haveInfo {
		m.row(&b, "Mass:", formatUnit(info.MassJupiters, "Jupiter masses"))
		m.row(&b, "Radius:", formatUnit(info.RadiusJupiters, "Jupiter radii"))
		m.row(&b, "Period:", formatUnit(info.PeriodDays, "days"))
		m.row(&b, "Gravity:", formatUnit(info.GravityMS2, "m/s²"))
		m.row(&b, "Temp:", formatUnit(info.TemperatureK, "K"))
	} else {
		b.WriteString("  " + m.theme.Dim.Render("Loading metadata...") + "\n")
	}

	if m.elements != nil && !m.snapshot.ViewTime.IsZero() {
		if el, ok := m.elements.Elements(body, m.snapshot.ViewTime); ok {
			b.WriteString("\n  " + m.theme.Header.Render("Orbit") + "\n")
			m.row(&b, "Semi-major:", fmt.Sprintf("%.4f AU", el.SemiMajorAU))
			m.row(&b, "Eccentricity:", fmt.Sprintf("%.5f", el.Eccentricity))
			m.row(&b, "Inclination:", fmt.Sprintf("%.3f°", el.InclinationDeg))
			m.row(&b, "Period:", fmt.Sprintf("%.3f yr", el.PeriodYears))
		}
	}

	if sample, ok := m.snapshot.Positions[body]; ok {
		dist := sample.Pos.Norm()
		b.WriteString("\n  " + m.theme.Header.Render("Now") + "\n")
		m.row(&b, "Distance:", fmt.Sprintf("%.4f AU", dist))
		m.row(&b, "Ecl Lon:", fmt.Sprintf("%.2f°", astro.EclipticLongitude(sample.Pos)))
		m.row(&b, "Ecl Lat:", fmt.Sprintf("%.2f°", astro.EclipticLatitude(sample.Pos)))
		m.row(&b, "Light time:", formatLightTime(astro.LightTimeFromAU(dist)))
	}

	return strings.TrimRight(b.String(), "\n")
}

func (m InfoModel) row(b *strings.Builder, label, value string) {
	b.WriteString("  " + m.theme.Label.Render(label) + m.theme.Value.Render(value) + "\n")
}

func formatUnit(v float64, unit string) string {
	if v <= 0 {
		return "–"
	}
	return fmt.Sprintf("%.4g %s", v, unit)
}
