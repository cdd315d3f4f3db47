// Package ui provides the terminal user interface using Bubble Tea.
package ui

import (
	"context"
	"fmt"
	"os"
	"sort"
	"strings"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/litescript/ls-orrery/internal/chat"
	"github.com/litescript/ls-orrery/internal/config"
	"github.com/litescript/ls-orrery/internal/ephem"
	"github.com/litescript/ls-orrery/internal/export"
	"github.com/litescript/ls-orrery/internal/orbit"
	"github.com/litescript/ls-orrery/internal/planetmeta"
	"github.com/litescript/ls-orrery/internal/state"
	"github.com/litescript/ls-orrery/internal/version"
)

// ViewMode represents the current UI view.
type ViewMode int

const (
	ViewOrrery ViewMode = iota
	ViewEvents
	ViewInfo
	ViewChat
)

// Msg types for Bubble Tea
type (
	// TickMsg triggers periodic UI updates.
	TickMsg time.Time

	// AnimTickMsg triggers fast animation updates (spinner).
	AnimTickMsg time.Time

	// DataUpdateMsg signals new shared state is available.
	DataUpdateMsg struct {
		Snapshot state.Snapshot
	}

	// ErrorMsg signals a background computation error.
	ErrorMsg struct {
		Error error
	}

	// ConfigReloadedMsg carries a freshly reloaded settings file.
	ConfigReloadedMsg struct {
		Config *config.Config
	}

	// TimeScrubMsg requests moving the view time by a delta.
	TimeScrubMsg struct {
		Delta time.Duration
	}

	// TimeResetMsg requests snapping the view time back to now.
	TimeResetMsg struct{}

	// ScanRequestMsg requests an alignment scan from the events view.
	ScanRequestMsg struct{}

	// InfoRequestMsg requests metadata for a body from the info view.
	InfoRequestMsg struct {
		Body ephem.BodyID
	}

	// ChatInputMsg carries a submitted chat line.
	ChatInputMsg struct {
		Input string
	}

	// positionsComputedMsg carries a finished position computation.
	positionsComputedMsg struct {
		at      time.Time
		samples []orbit.Sample
		took    time.Duration
		err     error
	}

	// eventsScannedMsg carries finished alignment scan results.
	eventsScannedMsg struct {
		events []orbit.AlignmentEvent
		err    error
	}

	// metadataMsg carries a fetched metadata record.
	metadataMsg struct {
		body ephem.BodyID
		info planetmeta.PlanetInfo
	}

	// chatReplyMsg carries an assistant reply.
	chatReplyMsg struct {
		text string
	}
)

// Engine bundles the computation dependencies the UI dispatches work to.
type Engine struct {
	Sampler   *orbit.Sampler
	Elements  *ephem.KeplerSource // nil when only a remote source is configured
	Meta      *planetmeta.Store
	Assistant *chat.Assistant
	Source    string
}

// Model is the root Bubble Tea model.
type Model struct {
	state  *state.Manager
	engine *Engine
	cfg    *config.Config
	theme  Theme

	viewMode  ViewMode
	width     int
	height    int
	ready     bool
	statusMsg string
	animTick  int

	// viewTime is the scrubbed instant shown in the orrery. Zero means
	// "follow now".
	viewTime  time.Time
	computing bool
	scanning  bool

	orrery OrreryModel
	events EventsModel
	info   InfoModel
	chat   ChatModel

	snapshot state.Snapshot
}

// New creates the root UI model.
func New(stateMgr *state.Manager, engine *Engine, cfg *config.Config) Model {
	theme := NewTheme(cfg)
	return Model{
		state:    stateMgr,
		engine:   engine,
		cfg:      cfg,
		theme:    theme,
		viewMode: ViewOrrery,
		orrery:   NewOrreryModel(theme).SetStep(cfg.Range.Step),
		events:   NewEventsModel(theme),
		info:     NewInfoModel(theme),
		chat:     NewChatModel(theme),
	}
}

// Init implements tea.Model.
func (m Model) Init() tea.Cmd {
	return tea.Batch(
		tickCmd(),
		animTickCmd(),
		m.computePositionsCmd(time.Now().UTC()),
	)
}

// Update implements tea.Model.
func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	var cmds []tea.Cmd

	switch msg := msg.(type) {
	case tea.KeyMsg:
		key := msg.String()

		// The chat view owns the keyboard while active.
		if m.viewMode == ViewChat && key != "ctrl+c" && key != "tab" && key != "esc" {
			cmds = append(cmds, m.updateActiveView(msg))
			return m, tea.Batch(cmds...)
		}

		switch key {
		case "q", "ctrl+c":
			return m, tea.Quit

		case "esc":
			m.viewMode = ViewOrrery

		case "1":
			m.viewMode = ViewOrrery
		case "2":
			m.viewMode = ViewEvents
		case "3":
			m.viewMode = ViewInfo
		case "4":
			m.viewMode = ViewChat

		case "tab":
			m.viewMode = (m.viewMode + 1) % 4

		default:
			cmds = append(cmds, m.updateActiveView(msg))
		}

	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		m.ready = true

		// Logo block takes ~10 lines, footer ~2
		contentHeight := msg.Height - 13
		m.orrery = m.orrery.SetSize(msg.Width, contentHeight)
		m.events = m.events.SetSize(msg.Width, contentHeight)
		m.info = m.info.SetSize(msg.Width, contentHeight)
		m.chat = m.chat.SetSize(msg.Width, contentHeight)

	case TickMsg:
		cmds = append(cmds, tickCmd())
		m.snapshot = m.state.Snapshot()
		m.pushSnapshot()

	case AnimTickMsg:
		cmds = append(cmds, animTickCmd())
		m.animTick++
		m.chat = m.chat.SetAnimTick(m.animTick)

	case DataUpdateMsg:
		m.snapshot = msg.Snapshot
		m.pushSnapshot()

	case ConfigReloadedMsg:
		m.cfg = msg.Config
		m.theme = NewTheme(msg.Config)
		m.orrery = m.orrery.SetTheme(m.theme).SetStep(msg.Config.Range.Step)
		m.events = m.events.SetTheme(m.theme)
		m.info = m.info.SetTheme(m.theme)
		m.chat = m.chat.SetTheme(m.theme)
		m.statusMsg = "settings reloaded"

	case TimeScrubMsg:
		base := m.viewTime
		if base.IsZero() {
			base = time.Now().UTC()
		}
		m.viewTime = base.Add(msg.Delta)
		m.computing = true
		cmds = append(cmds, m.computePositionsCmd(m.viewTime))

	case TimeResetMsg:
		m.viewTime = time.Time{}
		m.computing = true
		cmds = append(cmds, m.computePositionsCmd(time.Now().UTC()))

	case positionsComputedMsg:
		m.computing = false
		m.state.UpdatePositions(msg.at, msg.samples, m.engine.Source, msg.took, msg.err)
		m.snapshot = m.state.Snapshot()
		m.pushSnapshot()

	case ScanRequestMsg:
		if !m.scanning {
			m.scanning = true
			m.events = m.events.SetScanning(true)
			cmds = append(cmds, m.scanEventsCmd())
		}

	case eventsScannedMsg:
		m.scanning = false
		m.events = m.events.SetScanning(false)
		if msg.err != nil {
			m.statusMsg = "scan failed: " + msg.err.Error()
		} else {
			m.state.AddEvents(msg.events)
			m.snapshot = m.state.Snapshot()
			m.pushSnapshot()
			m.statusMsg = fmt.Sprintf("scan found %d alignment(s)", len(msg.events))
		}

	case InfoRequestMsg:
		cmds = append(cmds, m.fetchInfoCmd(msg.Body))

	case metadataMsg:
		m.state.SetMetadata(msg.body, msg.info)
		m.snapshot = m.state.Snapshot()
		m.pushSnapshot()

	case ChatInputMsg:
		m.chat = m.chat.AppendUser(msg.Input)
		m.chat = m.chat.SetWaiting(true)
		cmds = append(cmds, m.askChatCmd(msg.Input))

	case chatReplyMsg:
		m.chat = m.chat.SetWaiting(false)
		m.chat = m.chat.AppendAssistant(msg.text)

	case ErrorMsg:
		m.statusMsg = "error: " + msg.Error.Error()

	default:
		cmds = append(cmds, m.updateActiveView(msg))
	}

	return m, tea.Batch(cmds...)
}

// pushSnapshot forwards the current snapshot to all sub-models.
func (m *Model) pushSnapshot() {
	m.orrery = m.orrery.UpdateData(m.snapshot)
	m.events = m.events.UpdateData(m.snapshot)
	m.info = m.info.UpdateData(m.snapshot, m.engine.Elements)
}

func (m *Model) updateActiveView(msg tea.Msg) tea.Cmd {
	var cmd tea.Cmd
	switch m.viewMode {
	case ViewOrrery:
		m.orrery, cmd = m.orrery.Update(msg)
	case ViewEvents:
		m.events, cmd = m.events.Update(msg)
	case ViewInfo:
		m.info, cmd = m.info.Update(msg)
	case ViewChat:
		m.chat, cmd = m.chat.Update(msg)
	}
	return cmd
}

// View implements tea.Model.
func (m Model) View() string {
	if !m.ready {
		return "Initializing..."
	}

	var content string
	switch m.viewMode {
	case ViewOrrery:
		content = m.orrery.View()
	case ViewEvents:
		content = m.events.View()
	case ViewInfo:
		content = m.info.View()
	case ViewChat:
		content = m.chat.View()
	}

	return m.renderHeader() + "\n" + content + "\n" + m.renderFooter()
}

func (m Model) renderHeader() string {
	return m.renderLogo() + m.renderTabs() + "\n"
}

func (m Model) renderLogo() string {
	logo := []string{
		`  ██╗     ███████╗       ██████╗ ██████╗ ██████╗ ███████╗██████╗ ██╗   ██╗`,
		`  ██║     ██╔════╝      ██╔═══██╗██╔══██╗██╔══██╗██╔════╝██╔══██╗╚██╗ ██╔╝`,
		`  ██║     ███████╗█████╗██║   ██║██████╔╝██████╔╝█████╗  ██████╔╝ ╚████╔╝ `,
		`  ██║     ╚════██║╚════╝██║   ██║██╔══██╗██╔══██╗██╔══╝  ██╔══██╗  ╚██╔╝  `,
		`  ███████╗███████║      ╚██████╔╝██║  ██║██║  ██║███████╗██║  ██║   ██║   `,
		`  ╚══════╝╚══════╝       ╚═════╝ ╚═╝  ╚═╝╚═╝  ╚═╝╚══════╝╚═╝  ╚═╝   ╚═╝   `,
	}

	var b strings.Builder
	b.WriteString("\n")

	for row, line := range logo {
		runes := []rune(line)
		for col, r := range runes {
			color := gradientColor(col, row, len(runes), len(logo))
			b.WriteString(lipgloss.NewStyle().Foreground(lipgloss.Color(color)).Render(string(r)))
		}
		b.WriteString("\n")
	}

	b.WriteString(m.theme.Dim.Render("  Solar System Orrery · Conjunctions & Oppositions"))
	b.WriteString("\n")
	b.WriteString(m.theme.Dim.Render(fmt.Sprintf("  (c) 2026 litescript.net | v%s", version.Version)))
	b.WriteString("\n\n")

	return b.String()
}

// gradientColor returns a hex color for a position in the logo gradient:
// a solar sweep from gold through orange to deep red, fading toward the
// bottom rows.
func gradientColor(col, row, width, height int) string {
	x := float64(col) / float64(width)
	y := float64(row) / float64(height)

	// Gold (#FFD75F) -> Orange (#F97316) -> Red (#DC2626)
	var r, g, b float64
	if x < 0.5 {
		t := x / 0.5
		r = 255 + t*(249-255)
		g = 215 + t*(115-215)
		b = 95 + t*(22-95)
	} else {
		t := (x - 0.5) / 0.5
		r = 249 + t*(220-249)
		g = 115 + t*(38-115)
		b = 22 + t*(38-22)
	}

	fade := 1.0 - y*0.45
	return fmt.Sprintf("#%02X%02X%02X", clamp8(r*fade), clamp8(g*fade), clamp8(b*fade))
}

func clamp8(v float64) int {
	if v < 0 {
		return 0
	}
	if v > 255 {
		return 255
	}
	return int(v)
}

func (m Model) renderTabs() string {
	tabs := []string{"[1] Orrery", "[2] Events", "[3] Info", "[4] Chat"}

	var parts []string
	for i, tab := range tabs {
		if ViewMode(i) == m.viewMode {
			parts = append(parts, m.theme.TabActive.Render("▶ "+tab))
		} else {
			parts = append(parts, m.theme.TabIdle.Render("  "+tab))
		}
	}
	return "  " + strings.Join(parts, "  ")
}

var spinnerFrames = []string{"⠋", "⠙", "⠹", "⠸", "⠼", "⠴", "⠦", "⠧", "⠇", "⠏"}

func (m Model) renderFooter() string {
	spinner := spinnerFrames[m.animTick%len(spinnerFrames)]

	var status string
	switch {
	case m.snapshot.LastError != nil:
		status = m.theme.Error.Render("ERROR: " + m.snapshot.LastError.Error())
	case m.computing || m.scanning:
		status = m.theme.Accent.Render(spinner) + m.theme.Dim.Render(" computing...")
	case !m.snapshot.LastCompute.IsZero():
		status = m.theme.Dim.Render(fmt.Sprintf("%s · %s (%s)",
			m.snapshot.Source,
			m.snapshot.ViewTime.Format("2006-01-02 15:04 UTC"),
			m.snapshot.ComputeDuration.Round(time.Millisecond)))
	default:
		status = m.theme.Accent.Render(spinner) + m.theme.Dim.Render(" waiting for data...")
	}

	var help string
	switch m.viewMode {
	case ViewOrrery:
		help = m.theme.Dim.Render("h/l: ±step | H/L: ±30 steps | n: now | j/k: focus | +/-: zoom | arrows: pan | z: mode | b: labels | t: tracks")
	case ViewEvents:
		help = m.theme.Dim.Render("s: scan | ↑↓: scroll")
	case ViewInfo:
		help = m.theme.Dim.Render("j/k: body")
	case ViewChat:
		help = m.theme.Dim.Render("enter: send | esc: back | try 'help'")
	}

	footer := "  " + status + "  " + m.theme.Dim.Render("|") + "  " + help
	if m.statusMsg != "" {
		footer += "\n  " + m.theme.Dim.Render(m.statusMsg)
	}
	return footer
}

func tickCmd() tea.Cmd {
	return tea.Tick(500*time.Millisecond, func(t time.Time) tea.Msg {
		return TickMsg(t)
	})
}

func animTickCmd() tea.Cmd {
	return tea.Tick(80*time.Millisecond, func(t time.Time) tea.Msg {
		return AnimTickMsg(t)
	})
}

// SendDataUpdate creates a command that sends a data update message.
func SendDataUpdate(snapshot state.Snapshot) tea.Cmd {
	return func() tea.Msg {
		return DataUpdateMsg{Snapshot: snapshot}
	}
}

// SendError creates a command that sends an error message.
func SendError(err error) tea.Cmd {
	return func() tea.Msg {
		return ErrorMsg{Error: err}
	}
}

// computePositionsCmd samples every body at a single instant in the
// background and also refreshes orbit tracks when none are loaded yet.
func (m Model) computePositionsCmd(at time.Time) tea.Cmd {
	engine := m.engine
	stateMgr := m.state
	span := time.Duration(m.cfg.Range.SpanDays) * 24 * time.Hour
	step := m.cfg.Range.Step
	needTracks := len(m.snapshot.Tracks) == 0

	return func() tea.Msg {
		ctx, cancel := context.WithTimeout(context.Background(), 2*time.Minute)
		defer cancel()

		started := time.Now()
		instant := orbit.Range{Start: at, End: at, Step: time.Hour}

		samples := make([]orbit.Sample, 0, len(ephem.Bodies))
		for _, body := range ephem.Bodies {
			got, err := engine.Sampler.Sample(ctx, body, instant)
			if err != nil {
				return positionsComputedMsg{at: at, took: time.Since(started), err: err}
			}
			samples = append(samples, got...)
		}

		if needTracks {
			track := orbit.Range{Start: at.Add(-span / 2), End: at.Add(span / 2), Step: step}
			tracks, err := engine.Sampler.SampleAll(ctx, ephem.Planets, track)
			if err == nil {
				stateMgr.UpdateTracks(tracks)
			}
		}

		return positionsComputedMsg{at: at, samples: samples, took: time.Since(started)}
	}
}

// scanEventsCmd runs an alignment scan over the configured range.
func (m Model) scanEventsCmd() tea.Cmd {
	engine := m.engine
	from := m.viewTime
	if from.IsZero() {
		from = time.Now().UTC()
	}
	span := time.Duration(m.cfg.Range.SpanDays) * 24 * time.Hour
	step := m.cfg.Range.Step

	return func() tea.Msg {
		ctx, cancel := context.WithTimeout(context.Background(), 5*time.Minute)
		defer cancel()

		r := orbit.Range{Start: from, End: from.Add(span), Step: step}
		scanner := orbit.NewScanner(engine.Sampler)
		events, err := scanner.ScanSunRelative(ctx, ephem.Planets, r)
		return eventsScannedMsg{events: events, err: err}
	}
}

// fetchInfoCmd loads metadata for a body in the background.
func (m Model) fetchInfoCmd(body ephem.BodyID) tea.Cmd {
	engine := m.engine
	return func() tea.Msg {
		ctx, cancel := context.WithTimeout(context.Background(), 20*time.Second)
		defer cancel()
		info := engine.Meta.Get(ctx, body.String())
		return metadataMsg{body: body, info: info}
	}
}

// askChatCmd routes one chat input through the assistant and dispatches
// any local command it parses.
func (m Model) askChatCmd(input string) tea.Cmd {
	engine := m.engine
	cfgRange := m.cfg.Range

	return func() tea.Msg {
		ctx, cancel := context.WithTimeout(context.Background(), 2*time.Minute)
		defer cancel()

		reply, cmd, isCmd := engine.Assistant.Ask(ctx, input)
		if !isCmd {
			return chatReplyMsg{text: reply}
		}

		switch cmd.Kind {
		case chat.CmdInfo:
			info := engine.Meta.Get(ctx, cmd.Body.String())
			return chatReplyMsg{text: formatPlanetInfo(info)}

		case chat.CmdUpcomingEvents:
			events, err := orbit.FindUpcoming(ctx, engine.Sampler, ephem.Planets,
				time.Now().UTC(), time.Duration(cfgRange.SpanDays)*24*time.Hour)
			if err != nil {
				return chatReplyMsg{text: "Scan failed: " + err.Error()}
			}
			return chatReplyMsg{text: formatEvents(events)}

		case chat.CmdExportCSV:
			step := cfgRange.Step
			r := orbit.Range{
				Start: time.Now().UTC(),
				End:   time.Now().UTC().Add(time.Duration(cfgRange.SpanDays) * 24 * time.Hour),
				Step:  step,
			}
			tracks, err := engine.Sampler.SampleAll(ctx, ephem.Planets, r)
			if err != nil {
				return chatReplyMsg{text: "Export failed: " + err.Error()}
			}
			if err := writeCSVFile(cmd.Path, tracks); err != nil {
				return chatReplyMsg{text: "Export failed: " + err.Error()}
			}
			return chatReplyMsg{text: "Wrote " + cmd.Path}

		default:
			return chatReplyMsg{text: chat.HelpText}
		}
	}
}

func writeCSVFile(path string, tracks map[ephem.BodyID][]orbit.Sample) error {
	var all []orbit.Sample
	for _, track := range tracks {
		all = append(all, track...)
	}
	sort.Slice(all, func(i, j int) bool {
		if !all[i].Time.Equal(all[j].Time) {
			return all[i].Time.Before(all[j].Time)
		}
		return all[i].Body < all[j].Body
	})

	f, err := os.Create(path)
	if err != nil {
		return err
	}
	defer f.Close()
	return export.WriteCSV(f, all)
}

func formatPlanetInfo(info planetmeta.PlanetInfo) string {
	var b strings.Builder
	fmt.Fprintf(&b, "%s:\n", info.Name)
	if info.MassJupiters > 0 {
		fmt.Fprintf(&b, "  mass: %.4g Jupiter masses\n", info.MassJupiters)
	}
	if info.RadiusJupiters > 0 {
		fmt.Fprintf(&b, "  radius: %.4g Jupiter radii\n", info.RadiusJupiters)
	}
	if info.PeriodDays > 0 {
		fmt.Fprintf(&b, "  orbital period: %.4g days\n", info.PeriodDays)
	}
	if info.SemiMajorAxisAU > 0 {
		fmt.Fprintf(&b, "  semi-major axis: %.4g AU\n", info.SemiMajorAxisAU)
	}
	if info.GravityMS2 > 0 {
		fmt.Fprintf(&b, "  surface gravity: %.4g m/s²\n", info.GravityMS2)
	}
	if info.TemperatureK > 0 {
		fmt.Fprintf(&b, "  temperature: %.4g K", info.TemperatureK)
	}
	return strings.TrimRight(b.String(), "\n")
}

func formatEvents(events []orbit.AlignmentEvent) string {
	if len(events) == 0 {
		return "No alignments found in the scan window."
	}
	var b strings.Builder
	b.WriteString("Upcoming alignments:\n")
	for _, e := range events {
		fmt.Fprintf(&b, "  %s  %s of %s (from %s)\n",
			e.Time.Format("2006-01-02 15:04"), e.Kind, e.BodyNames[0], e.Reference)
	}
	return strings.TrimRight(b.String(), "\n")
}
