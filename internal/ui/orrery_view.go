package ui

import (
	"fmt"
	"math"
	"strings"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/litescript/ls-orrery/internal/astro"
	"github.com/litescript/ls-orrery/internal/ephem"
	"github.com/litescript/ls-orrery/internal/state"
)

// LabelMode controls body label rendering on the canvas.
type LabelMode int

const (
	LabelNone LabelMode = iota
	LabelFocused
	LabelAll
)

// displayOrder is the focus cycle: planets inside-out, then the Moon.
var displayOrder = append(append([]ephem.BodyID{}, ephem.Planets...), ephem.Moon)

// OrreryModel renders a top-down view of the solar system with time
// scrubbing.
type OrreryModel struct {
	width    int
	height   int
	theme    Theme
	snapshot state.Snapshot
	step     time.Duration

	focusIdx   int // index into displayOrder (-1 = Sun)
	zoomLevel  int
	panX       float64
	panY       float64
	scaleMode  astro.ScaleMode
	labelMode  LabelMode
	userPanned bool
	showTracks bool
	hidden     map[ephem.BodyID]bool
}

// Discrete zoom levels for clean stepping
var zoomLevels = []float64{0.25, 0.5, 0.75, 1.0, 1.5, 2.0, 3.0, 5.0, 10.0}

// NewOrreryModel creates the orrery view model.
func NewOrreryModel(theme Theme) OrreryModel {
	return OrreryModel{
		theme:      theme,
		step:       24 * time.Hour,
		focusIdx:   -1,
		zoomLevel:  3, // 1.0x
		scaleMode:  astro.ScaleLogR,
		labelMode:  LabelFocused,
		showTracks: true,
		hidden:     make(map[ephem.BodyID]bool),
	}
}

func (m OrreryModel) scale() float64 {
	if m.zoomLevel < 0 || m.zoomLevel >= len(zoomLevels) {
		return 1.0
	}
	return zoomLevels[m.zoomLevel]
}

// SetSize updates the viewport size.
func (m OrreryModel) SetSize(width, height int) OrreryModel {
	m.width = width
	m.height = height
	return m
}

// SetTheme swaps the style set.
func (m OrreryModel) SetTheme(theme Theme) OrreryModel {
	m.theme = theme
	return m
}

// SetStep sets the scrub step.
func (m OrreryModel) SetStep(step time.Duration) OrreryModel {
	if step > 0 {
		m.step = step
	}
	return m
}

// UpdateData updates the model with a fresh snapshot.
func (m OrreryModel) UpdateData(snapshot state.Snapshot) OrreryModel {
	m.snapshot = snapshot
	return m
}

// Update handles input messages.
func (m OrreryModel) Update(msg tea.Msg) (OrreryModel, tea.Cmd) {
	keyMsg, isKey := msg.(tea.KeyMsg)
	if !isKey {
		return m, nil
	}

	switch keyMsg.String() {
	// Time scrubbing
	case "h":
		return m, scrubCmd(-m.step)
	case "l":
		return m, scrubCmd(m.step)
	case "H":
		return m, scrubCmd(-30 * m.step)
	case "L":
		return m, scrubCmd(30 * m.step)
	case "n":
		return m, func() tea.Msg { return TimeResetMsg{} }

	// Focus navigation
	case "j":
		m.focusPrev()
	case "k":
		m.focusNext()

	// Hide/show the focused body
	case " ":
		if body, ok := m.focusedBody(); ok {
			m.hidden[body] = !m.hidden[body]
		}

	// Viewport panning
	case "up":
		m.panY -= 0.1 / m.scale()
		m.userPanned = true
	case "down":
		m.panY += 0.1 / m.scale()
		m.userPanned = true
	case "left":
		m.panX -= 0.1 / m.scale()
		m.userPanned = true
	case "right":
		m.panX += 0.1 / m.scale()
		m.userPanned = true
	case "c":
		m.panX, m.panY = 0, 0
		m.userPanned = false
	case "f":
		m.centerOnFocused()
		m.userPanned = false

	// Zoom
	case "+", "=":
		if m.zoomLevel < len(zoomLevels)-1 {
			m.zoomLevel++
			if !m.userPanned {
				m.centerOnFocused()
			}
		}
	case "-":
		if m.zoomLevel > 0 {
			m.zoomLevel--
			if !m.userPanned {
				m.centerOnFocused()
			}
		}
	case "0":
		m.zoomLevel = 3
		if !m.userPanned {
			m.centerOnFocused()
		}

	case "z":
		m.scaleMode = (m.scaleMode + 1) % 3
		if !m.userPanned {
			m.centerOnFocused()
		}

	case "b":
		m.labelMode = (m.labelMode + 1) % 3

	case "t":
		m.showTracks = !m.showTracks

	case "r":
		m.panX, m.panY = 0, 0
		m.zoomLevel = 3
		m.userPanned = false
	}

	return m, nil
}

func scrubCmd(delta time.Duration) tea.Cmd {
	return func() tea.Msg {
		return TimeScrubMsg{Delta: delta}
	}
}

func (m OrreryModel) focusedBody() (ephem.BodyID, bool) {
	if m.focusIdx < 0 || m.focusIdx >= len(displayOrder) {
		return ephem.Sun, false
	}
	return displayOrder[m.focusIdx], true
}

func (m *OrreryModel) focusNext() {
	m.focusIdx++
	if m.focusIdx >= len(displayOrder) {
		m.focusIdx = -1 // wrap to Sun
	}
	m.centerOnFocused()
	m.userPanned = false
}

func (m *OrreryModel) focusPrev() {
	m.focusIdx--
	if m.focusIdx < -1 {
		m.focusIdx = len(displayOrder) - 1
	}
	m.centerOnFocused()
	m.userPanned = false
}

// centerOnFocused pans the view to center on the focused body.
func (m *OrreryModel) centerOnFocused() {
	body, ok := m.focusedBody()
	if !ok {
		m.panX, m.panY = 0, 0
		return
	}
	sample, ok := m.snapshot.Positions[body]
	if !ok {
		return
	}

	cfg := astro.ProjectionConfig{Scale: m.scale(), Mode: m.scaleMode}
	proj := astro.ProjectEclipticTopDown(sample.Pos, cfg)
	m.panX = -proj.X
	m.panY = -proj.Y
}

// cellKind tags canvas cells for styling.
type cellKind int

const (
	cellEmpty cellKind = iota
	cellTrack
	cellSun
	cellBody
	cellLabel
)

type cell struct {
	ch   rune
	kind cellKind
	body string // body name for cellBody styling
}

// View renders the orrery.
func (m OrreryModel) View() string {
	if m.width < 40 || m.height < 10 {
		return "Terminal too small for the orrery view"
	}
	return lipgloss.JoinVertical(lipgloss.Left, m.buildCanvas(), m.renderHUD())
}

func (m OrreryModel) buildCanvas() string {
	canvasH := m.height - 5
	if canvasH < 5 {
		canvasH = 5
	}
	canvasW := m.width

	grid := make([][]cell, canvasH)
	for y := range grid {
		grid[y] = make([]cell, canvasW)
		for x := range grid[y] {
			grid[y][x] = cell{ch: ' '}
		}
	}

	centerX := canvasW / 2
	centerY := canvasH / 2

	cfg := astro.ProjectionConfig{Scale: m.scale(), Mode: m.scaleMode}

	// Map ~log10(30 AU + 1) display units into most of the canvas.
	maxDisplayR := float64(minInt(centerX, centerY*2)) * 0.9
	displayScale := maxDisplayR / 1.5 * m.scale()

	originX := centerX + int(m.panX*displayScale)
	originY := centerY - int(m.panY*displayScale)

	if m.showTracks {
		m.drawTracks(grid, originX, originY, displayScale, cfg)
	}

	type labelPos struct {
		x, y    int
		name    string
		focused bool
	}
	var labels []labelPos

	for i, body := range displayOrder {
		if m.hidden[body] {
			continue
		}
		sample, ok := m.snapshot.Positions[body]
		if !ok {
			continue
		}

		proj := astro.ProjectEclipticTopDown(sample.Pos, cfg)
		sx := originX + int(proj.X*displayScale)
		sy := originY - int(proj.Y*displayScale*0.5) // terminal cell aspect
		if sx < 0 || sx >= canvasW || sy < 0 || sy >= canvasH {
			continue
		}

		focused := i == m.focusIdx
		grid[sy][sx] = cell{ch: bodyGlyph(body, focused), kind: cellBody, body: body.String()}
		labels = append(labels, labelPos{x: sx, y: sy, name: body.String(), focused: focused})
	}

	// Sun last so it stays visible at the origin.
	if originX >= 0 && originX < canvasW && originY >= 0 && originY < canvasH {
		grid[originY][originX] = cell{ch: '☉', kind: cellSun}
		labels = append(labels, labelPos{x: originX, y: originY, name: "Sun", focused: m.focusIdx == -1})
	}

	// Labels
	if m.labelMode != LabelNone {
		for _, pos := range labels {
			if m.labelMode == LabelFocused && !pos.focused {
				continue
			}
			text := pos.name
			if pos.focused {
				text = "◄ " + pos.name
			}
			x := pos.x + 2
			if pos.y < 0 || pos.y >= canvasH {
				continue
			}
			for _, r := range text {
				if x >= canvasW {
					break
				}
				if grid[pos.y][x].kind == cellEmpty || grid[pos.y][x].kind == cellTrack {
					grid[pos.y][x] = cell{ch: r, kind: cellLabel}
				}
				x++
			}
		}
	}

	return m.renderGrid(grid)
}

// drawTracks plots the sampled orbit paths as faint dots.
func (m OrreryModel) drawTracks(grid [][]cell, cx, cy int, displayScale float64, cfg astro.ProjectionConfig) {
	h := len(grid)
	w := len(grid[0])

	for body, track := range m.snapshot.Tracks {
		if m.hidden[body] {
			continue
		}
		for _, sample := range track {
			proj := astro.ProjectEclipticTopDown(sample.Pos, cfg)
			x := cx + int(proj.X*displayScale)
			y := cy - int(proj.Y*displayScale*0.5)
			if x >= 0 && x < w && y >= 0 && y < h && grid[y][x].kind == cellEmpty {
				grid[y][x] = cell{ch: '·', kind: cellTrack}
			}
		}
	}
}

func bodyGlyph(body ephem.BodyID, focused bool) rune {
	giant := body == ephem.Jupiter || body == ephem.Saturn ||
		body == ephem.Uranus || body == ephem.Neptune

	switch {
	case giant && focused:
		return '◉'
	case giant:
		return '○'
	case body == ephem.Moon:
		return '˚'
	case focused:
		return '●'
	default:
		return '•'
	}
}

func (m OrreryModel) renderGrid(grid [][]cell) string {
	var b strings.Builder

	for _, row := range grid {
		for _, c := range row {
			switch c.kind {
			case cellEmpty:
				b.WriteRune(c.ch)
			case cellTrack:
				b.WriteString(m.theme.Track.Render(string(c.ch)))
			case cellSun:
				b.WriteString(m.theme.Sun.Render(string(c.ch)))
			case cellBody:
				b.WriteString(m.theme.BodyStyle(c.body).Render(string(c.ch)))
			case cellLabel:
				b.WriteString(m.theme.Value.Render(string(c.ch)))
			}
		}
		b.WriteRune('\n')
	}

	return b.String()
}

func (m OrreryModel) renderHUD() string {
	var b strings.Builder

	viewTime := m.snapshot.ViewTime
	timeText := "(no data)"
	if !viewTime.IsZero() {
		timeText = viewTime.Format("2006-01-02 15:04 UTC")
	}

	body, ok := m.focusedBody()
	if ok {
		sample, have := m.snapshot.Positions[body]
		b.WriteString(m.theme.Header.Render("◆ " + body.String()))
		b.WriteString("  ")
		if have {
			dist := sample.Pos.Norm()
			b.WriteString(m.theme.Label.Render("Distance:"))
			b.WriteString(m.theme.Value.Render(fmt.Sprintf("%.3f AU", dist)))
			b.WriteString("  ")
			b.WriteString(m.theme.Label.Render("Light time:"))
			b.WriteString(m.theme.Value.Render(formatLightTime(astro.LightTimeFromAU(dist))))
		} else {
			b.WriteString(m.theme.Dim.Render("(no position yet)"))
		}
	} else {
		b.WriteString(m.theme.Header.Render("☉ Sun"))
		b.WriteString("  ")
		b.WriteString(m.theme.Dim.Render("(center of the system)"))
	}
	b.WriteString("\n")

	if ok {
		if sample, have := m.snapshot.Positions[body]; have {
			b.WriteString(m.theme.Label.Render("Ecl Lon:"))
			b.WriteString(m.theme.Value.Render(fmt.Sprintf("%.1f°", astro.EclipticLongitude(sample.Pos))))
			b.WriteString("  ")
			b.WriteString(m.theme.Label.Render("Ecl Lat:"))
			b.WriteString(m.theme.Value.Render(fmt.Sprintf("%.1f°", astro.EclipticLatitude(sample.Pos))))
			b.WriteString("  ")
		}
	}

	modeName := "Log"
	switch m.scaleMode {
	case astro.ScaleInner:
		modeName = "Inner"
	case astro.ScaleOuter:
		modeName = "Outer"
	}
	labelName := [...]string{"off", "focus", "all"}[m.labelMode]

	b.WriteString(m.theme.Dim.Render("Time:"))
	b.WriteString(m.theme.Value.Render(timeText))
	b.WriteString("  ")
	b.WriteString(m.theme.Dim.Render("Zoom:"))
	b.WriteString(m.theme.Value.Render(fmt.Sprintf("%.2gx", m.scale())))
	b.WriteString("  ")
	b.WriteString(m.theme.Dim.Render("Mode:"))
	b.WriteString(m.theme.Value.Render(modeName))
	b.WriteString("  ")
	b.WriteString(m.theme.Dim.Render("Labels:"))
	b.WriteString(m.theme.Value.Render(labelName))

	return b.String()
}

// formatLightTime renders seconds as a compact human duration.
func formatLightTime(sec float64) string {
	switch {
	case sec < 60:
		return fmt.Sprintf("%.0fs", sec)
	case sec < 3600:
		return fmt.Sprintf("%dm %ds", int(sec)/60, int(sec)%60)
	default:
		return fmt.Sprintf("%dh %dm", int(sec)/3600, int(math.Mod(sec, 3600))/60)
	}
}

func minInt(a, b int) int {
	if a < b {
		return a
	}
	return b
}
