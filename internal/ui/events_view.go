package ui

import (
	"fmt"
	"strings"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/litescript/ls-orrery/internal/orbit"
	"github.com/litescript/ls-orrery/internal/state"
)

// EventsModel renders the detected alignment events as a scrollable table.
type EventsModel struct {
	width    int
	height   int
	theme    Theme
	snapshot state.Snapshot
	scroll   int
	scanning bool
}

// NewEventsModel creates the events view model.
func NewEventsModel(theme Theme) EventsModel {
	return EventsModel{theme: theme}
}

// SetSize updates the viewport size.
func (m EventsModel) SetSize(width, height int) EventsModel {
	m.width = width
	m.height = height
	return m
}

// SetTheme swaps the style set.
func (m EventsModel) SetTheme(theme Theme) EventsModel {
	m.theme = theme
	return m
}

// SetScanning toggles the scan-in-progress indicator.
func (m EventsModel) SetScanning(scanning bool) EventsModel {
	m.scanning = scanning
	return m
}

// UpdateData updates the model with a fresh snapshot.
func (m EventsModel) UpdateData(snapshot state.Snapshot) EventsModel {
	m.snapshot = snapshot
	if m.scroll > m.maxScroll() {
		m.scroll = m.maxScroll()
	}
	return m
}

// Update handles input messages.
func (m EventsModel) Update(msg tea.Msg) (EventsModel, tea.Cmd) {
	keyMsg, isKey := msg.(tea.KeyMsg)
	if !isKey {
		return m, nil
	}

	switch keyMsg.String() {
	case "s":
		if !m.scanning {
			return m, func() tea.Msg { return ScanRequestMsg{} }
		}
	case "up", "k":
		if m.scroll > 0 {
			m.scroll--
		}
	case "down", "j":
		if m.scroll < m.maxScroll() {
			m.scroll++
		}
	case "g":
		m.scroll = 0
	case "G":
		m.scroll = m.maxScroll()
	}

	return m, nil
}

func (m EventsModel) visibleRows() int {
	rows := m.height - 4
	if rows < 3 {
		rows = 3
	}
	return rows
}

func (m EventsModel) maxScroll() int {
	max := len(m.snapshot.Events) - m.visibleRows()
	if max < 0 {
		return 0
	}
	return max
}

// View renders the events table.
func (m EventsModel) View() string {
	var b strings.Builder

	title := "Alignment Events"
	if m.scanning {
		title += "  (scanning...)"
	}
	b.WriteString("  " + m.theme.Header.Render(title) + "\n\n")

	events := m.snapshot.Events
	if len(events) == 0 {
		if m.scanning {
			b.WriteString("  " + m.theme.Dim.Render("Scanning the configured range..."))
		} else {
			b.WriteString("  " + m.theme.Dim.Render("No events yet. Press 's' to scan."))
		}
		return b.String()
	}

	header := fmt.Sprintf("  %-18s %-12s %-22s %-10s", "TIME (UTC)", "KIND", "BODIES", "FROM")
	b.WriteString(m.theme.Dim.Render(header) + "\n")

	end := m.scroll + m.visibleRows()
	if end > len(events) {
		end = len(events)
	}
	for _, e := range events[m.scroll:end] {
		b.WriteString(m.renderRow(e) + "\n")
	}

	if len(events) > m.visibleRows() {
		b.WriteString(m.theme.Dim.Render(fmt.Sprintf("  %d-%d of %d", m.scroll+1, end, len(events))))
	}

	return strings.TrimRight(b.String(), "\n")
}

func (m EventsModel) renderRow(e orbit.AlignmentEvent) string {
	kindStyle := m.theme.Accent
	if e.Kind == orbit.Opposition {
		kindStyle = m.theme.Header
	}

	pair := e.BodyNames[0] + " / " + e.BodyNames[1]
	return "  " + m.theme.Value.Render(fmt.Sprintf("%-18s ", e.Time.Format("2006-01-02 15:04"))) +
		kindStyle.Render(fmt.Sprintf("%-12s ", e.Kind.String())) +
		m.theme.BodyStyle(e.BodyNames[0]).Render(fmt.Sprintf("%-22s ", pair)) +
		m.theme.Dim.Render(e.Reference)
}
