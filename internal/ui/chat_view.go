package ui

import (
	"strings"

	tea "github.com/charmbracelet/bubbletea"
)

// chatLine is one scrollback entry.
type chatLine struct {
	fromUser bool
	text     string
}

// ChatModel renders the assistant conversation: scrollback plus an input
// line.
type ChatModel struct {
	width    int
	height   int
	theme    Theme
	animTick int

	lines   []chatLine
	input   string
	waiting bool
	scroll  int // lines scrolled up from the bottom
}

// NewChatModel creates the chat view model.
func NewChatModel(theme Theme) ChatModel {
	return ChatModel{
		theme: theme,
		lines: []chatLine{{text: "Nexus online. Type 'help' for local commands."}},
	}
}

// SetSize updates the viewport size.
func (m ChatModel) SetSize(width, height int) ChatModel {
	m.width = width
	m.height = height
	return m
}

// SetTheme swaps the style set.
func (m ChatModel) SetTheme(theme Theme) ChatModel {
	m.theme = theme
	return m
}

// SetAnimTick updates the spinner frame.
func (m ChatModel) SetAnimTick(tick int) ChatModel {
	m.animTick = tick
	return m
}

// SetWaiting toggles the reply-pending indicator.
func (m ChatModel) SetWaiting(waiting bool) ChatModel {
	m.waiting = waiting
	return m
}

// AppendUser adds a submitted user line to the scrollback.
func (m ChatModel) AppendUser(text string) ChatModel {
	m.lines = append(m.lines, chatLine{fromUser: true, text: text})
	m.scroll = 0
	return m
}

// AppendAssistant adds an assistant reply to the scrollback.
func (m ChatModel) AppendAssistant(text string) ChatModel {
	m.lines = append(m.lines, chatLine{text: text})
	m.scroll = 0
	return m
}

// Update handles input messages. The root model forwards every key here
// while the chat view is active.
func (m ChatModel) Update(msg tea.Msg) (ChatModel, tea.Cmd) {
	keyMsg, isKey := msg.(tea.KeyMsg)
	if !isKey {
		return m, nil
	}

	switch keyMsg.Type {
	case tea.KeyEnter:
		input := strings.TrimSpace(m.input)
		m.input = ""
		if input == "" || m.waiting {
			return m, nil
		}
		return m, func() tea.Msg { return ChatInputMsg{Input: input} }

	case tea.KeyBackspace:
		if len(m.input) > 0 {
			runes := []rune(m.input)
			m.input = string(runes[:len(runes)-1])
		}

	case tea.KeyPgUp:
		m.scroll += 5

	case tea.KeyPgDown:
		m.scroll -= 5
		if m.scroll < 0 {
			m.scroll = 0
		}

	case tea.KeySpace:
		m.input += " "

	case tea.KeyRunes:
		m.input += string(keyMsg.Runes)
	}

	return m, nil
}

// View renders the conversation.
func (m ChatModel) View() string {
	var b strings.Builder

	b.WriteString("  " + m.theme.Header.Render("Nexus") + "\n\n")

	wrapped := m.wrapLines()
	visible := m.height - 6
	if visible < 3 {
		visible = 3
	}

	start := len(wrapped) - visible - m.scroll
	if start < 0 {
		start = 0
	}
	end := start + visible
	if end > len(wrapped) {
		end = len(wrapped)
	}
	for _, line := range wrapped[start:end] {
		b.WriteString(line + "\n")
	}

	b.WriteString("\n")
	prompt := m.theme.Accent.Render("> ") + m.theme.Value.Render(m.input)
	if m.waiting {
		spinner := spinnerFrames[m.animTick%len(spinnerFrames)]
		prompt += "  " + m.theme.Dim.Render(spinner+" thinking...")
	} else {
		prompt += m.theme.Accent.Render("█")
	}
	b.WriteString("  " + prompt)

	return b.String()
}

// wrapLines flattens the scrollback into styled, width-wrapped lines.
func (m ChatModel) wrapLines() []string {
	wrap := m.width - 10
	if wrap < 20 {
		wrap = 20
	}

	var out []string
	for _, line := range m.lines {
		prefix := "  " + m.theme.Dim.Render("nexus ")
		style := m.theme.Value
		if line.fromUser {
			prefix = "  " + m.theme.Accent.Render("you   ")
			style = m.theme.Value
		}
		for i, part := range wrapText(line.text, wrap) {
			if i == 0 {
				out = append(out, prefix+style.Render(part))
			} else {
				out = append(out, "        "+style.Render(part))
			}
		}
	}
	return out
}

// wrapText splits text into lines no longer than width, breaking on
// spaces where possible and honoring embedded newlines.
func wrapText(text string, width int) []string {
	var out []string
	for _, para := range strings.Split(text, "\n") {
		words := strings.Fields(para)
		if len(words) == 0 {
			out = append(out, "")
			continue
		}
		line := words[0]
		for _, word := range words[1:] {
			if len(line)+1+len(word) > width {
				out = append(out, line)
				line = word
				continue
			}
			line += " " + word
		}
		out = append(out, line)
	}
	return out
}
