package main

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/wippyai/tangle"
)

var (
	titleStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(lipgloss.Color("#FAFAFA")).
			Background(lipgloss.Color("#7D56F4")).
			Padding(0, 1)

	selectedStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#FAFAFA")).
			Background(lipgloss.Color("#7D56F4"))

	errorStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#FF6B6B"))

	helpStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#666666"))
)

const logLines = 8

type modelState int

const (
	stateBrowse modelState = iota
	stateEdit
)

type interactiveModel struct {
	err      error
	session  *session
	opts     options
	input    textinput.Model
	rows     []treeRow
	selected int
	state    modelState
}

type loadedMsg struct {
	err     error
	session *session
}

func newInteractiveModel(opts options) *interactiveModel {
	return &interactiveModel{
		opts:  opts,
		state: stateBrowse,
	}
}

func (m *interactiveModel) Init() tea.Cmd {
	return m.load
}

func (m *interactiveModel) load() tea.Msg {
	s, err := openSession(m.opts, nil, logLines)
	return loadedMsg{session: s, err: err}
}

func (m *interactiveModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case loadedMsg:
		if msg.err != nil {
			m.err = msg.err
			return m, nil
		}
		m.session = msg.session
		m.refresh()
		return m, nil

	case tea.KeyMsg:
		if m.state == stateEdit {
			return m.updateEdit(msg)
		}

		switch msg.String() {
		case "ctrl+c", "q":
			if m.session != nil {
				m.session.logger.Sync() //nolint:errcheck
			}
			return m, tea.Quit

		case "up", "k":
			if m.selected > 0 {
				m.selected--
			}

		case "down", "j":
			if m.selected < len(m.rows)-1 {
				m.selected++
			}

		case "enter", "e":
			if row, ok := m.current(); ok && row.node.Parent() != nil {
				m.startEdit(row)
				return m, textinput.Blink
			}
		}
	}

	return m, nil
}

func (m *interactiveModel) updateEdit(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.String() {
	case "esc":
		m.state = stateBrowse
		return m, nil

	case "enter":
		m.state = stateBrowse
		row, ok := m.current()
		if !ok {
			return m, nil
		}
		value, err := parseValue(m.input.Value())
		if err == nil {
			err = m.session.assign(strings.Join(row.node.Path()[1:], "/"), value)
		}
		m.err = err
		m.refresh()
		return m, nil
	}

	var cmd tea.Cmd
	m.input, cmd = m.input.Update(msg)
	return m, cmd
}

func (m *interactiveModel) startEdit(row treeRow) {
	ti := textinput.New()
	ti.Prompt = row.node.String() + " = "
	ti.Placeholder = "YAML value"
	ti.Width = 40
	if v := row.node.Value(); v != nil {
		if _, _, structured := tangle.Properties(v); !structured {
			ti.SetValue(fmt.Sprintf("%v", v))
		}
	}
	ti.Focus()
	m.input = ti
	m.err = nil
	m.state = stateEdit
}

func (m *interactiveModel) current() (treeRow, bool) {
	if m.selected < 0 || m.selected >= len(m.rows) {
		return treeRow{}, false
	}
	return m.rows[m.selected], true
}

func (m *interactiveModel) refresh() {
	m.rows = flatten(m.session.root)
	if m.selected >= len(m.rows) {
		m.selected = len(m.rows) - 1
	}
}

func (m *interactiveModel) View() string {
	if m.session == nil {
		if m.err != nil {
			return errorStyle.Render(fmt.Sprintf("Error: %v\n\nPress q to quit.", m.err))
		}
		return "Loading document..."
	}

	var b strings.Builder

	b.WriteString(titleStyle.Render("Tangle"))
	b.WriteString(" ")
	b.WriteString(m.opts.file)
	b.WriteString("\n\n")

	for i, r := range m.rows {
		line := formatRow(r)
		if i == m.selected {
			b.WriteString(selectedStyle.Render("> " + line))
		} else {
			b.WriteString("  " + line)
		}
		b.WriteString("\n")
	}
	b.WriteString("\n")

	if m.state == stateEdit {
		b.WriteString(m.input.View())
		b.WriteString("\n\n")
	}

	if m.err != nil {
		b.WriteString(errorStyle.Render(fmt.Sprintf("Error: %v", m.err)))
		b.WriteString("\n\n")
	}

	if lines := m.session.log.lines; len(lines) > 0 {
		b.WriteString(helpStyle.Render("events:"))
		b.WriteString("\n")
		for _, l := range lines {
			b.WriteString("  " + l + "\n")
		}
		b.WriteString("\n")
	}

	if m.state == stateEdit {
		b.WriteString(helpStyle.Render("enter write • esc cancel"))
	} else {
		b.WriteString(helpStyle.Render("↑/↓ select • enter edit • q quit"))
	}

	return b.String()
}

func runInteractive(opts options) error {
	p := tea.NewProgram(newInteractiveModel(opts), tea.WithAltScreen())
	_, err := p.Run()
	return err
}
