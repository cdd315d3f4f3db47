package ui

import (
	"github.com/charmbracelet/lipgloss"

	"github.com/litescript/ls-orrery/internal/config"
)

// Theme bundles the lipgloss styles used across views. Built once from
// config at startup and rebuilt on live reload.
type Theme struct {
	Dim       lipgloss.Style
	Label     lipgloss.Style
	Value     lipgloss.Style
	Header    lipgloss.Style
	Accent    lipgloss.Style
	Error     lipgloss.Style
	TabActive lipgloss.Style
	TabIdle   lipgloss.Style
	Sun       lipgloss.Style
	Track     lipgloss.Style
	Focus     lipgloss.Style

	cfg *config.Config
}

// NewTheme builds the style set for the configured theme name.
func NewTheme(cfg *config.Config) Theme {
	t := Theme{cfg: cfg}

	switch cfg.Theme {
	case config.ThemeLight:
		t.Dim = lipgloss.NewStyle().Foreground(lipgloss.Color("245"))
		t.Label = lipgloss.NewStyle().Foreground(lipgloss.Color("240")).Width(12)
		t.Value = lipgloss.NewStyle().Foreground(lipgloss.Color("235"))
		t.Header = lipgloss.NewStyle().Foreground(lipgloss.Color("#8F3F71")).Bold(true)
		t.Accent = lipgloss.NewStyle().Foreground(lipgloss.Color("#B57614"))
		t.Error = lipgloss.NewStyle().Foreground(lipgloss.Color("#CC241D"))
		t.TabActive = lipgloss.NewStyle().Foreground(lipgloss.Color("#8F3F71")).Bold(true)
		t.TabIdle = lipgloss.NewStyle().Foreground(lipgloss.Color("248"))
		t.Sun = lipgloss.NewStyle().Foreground(lipgloss.Color("#B57614")).Bold(true)
		t.Track = lipgloss.NewStyle().Foreground(lipgloss.Color("250"))
		t.Focus = lipgloss.NewStyle().Foreground(lipgloss.Color("#076678")).Bold(true)
	default:
		t.Dim = lipgloss.NewStyle().Foreground(lipgloss.Color("60"))
		t.Label = lipgloss.NewStyle().Foreground(lipgloss.Color("244")).Width(12)
		t.Value = lipgloss.NewStyle().Foreground(lipgloss.Color("252"))
		t.Header = lipgloss.NewStyle().Foreground(lipgloss.Color("205")).Bold(true)
		t.Accent = lipgloss.NewStyle().Foreground(lipgloss.Color("#7B2CBF"))
		t.Error = lipgloss.NewStyle().Foreground(lipgloss.Color("#E84A27"))
		t.TabActive = lipgloss.NewStyle().Foreground(lipgloss.Color("#9D4EDD")).Bold(true)
		t.TabIdle = lipgloss.NewStyle().Foreground(lipgloss.Color("60"))
		t.Sun = lipgloss.NewStyle().Foreground(lipgloss.Color("220")).Bold(true)
		t.Track = lipgloss.NewStyle().Foreground(lipgloss.Color("240"))
		t.Focus = lipgloss.NewStyle().Foreground(lipgloss.Color("229")).Bold(true)
	}

	return t
}

// BodyStyle returns the style for a named body from the configured palette.
func (t Theme) BodyStyle(name string) lipgloss.Style {
	if t.cfg == nil {
		return t.Value
	}
	return lipgloss.NewStyle().Foreground(lipgloss.Color(t.cfg.BodyColor(name)))
}
