// Package tui is a terminal playground for a selection group.
package tui

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/bubbles/help"
	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"

	kiterrors "github.com/vango-dev/groupkit/internal/errors"
	"github.com/vango-dev/groupkit/internal/scenario"
	"github.com/vango-dev/groupkit/pkg/group"
)

// Model is the bubbletea model of the playground.
type Model struct {
	session *scenario.Session
	styles  *Styles
	keys    keyMap
	help    help.Model
	input   textinput.Model

	cursor int
	adding bool
	width  int

	status      string
	statusStyle int
}

const (
	statusNone = iota
	statusApplied
	statusRefused
	statusError
)

// New creates a playground over s.
func New(s *scenario.Session) *Model {
	ti := textinput.New()
	ti.Placeholder = "name [value|by_id]"
	ti.Prompt = "add: "
	ti.CharLimit = 64

	return &Model{
		session: s,
		styles:  NewStyles(),
		keys:    defaultKeyMap(),
		help:    help.New(),
		input:   ti,
	}
}

// Run starts an interactive program on the terminal.
func Run(s *scenario.Session) error {
	_, err := tea.NewProgram(New(s), tea.WithAltScreen()).Run()
	return err
}

// Init implements tea.Model.
func (m *Model) Init() tea.Cmd {
	return nil
}

// Update implements tea.Model.
func (m *Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.help.Width = msg.Width
		return m, nil

	case tea.KeyMsg:
		if m.adding {
			return m.updateInput(msg)
		}
		return m.updateNormal(msg)
	}
	return m, nil
}

func (m *Model) updateNormal(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	items := m.session.Items()

	switch {
	case key.Matches(msg, m.keys.Quit):
		return m, tea.Quit

	case key.Matches(msg, m.keys.Up):
		if m.cursor > 0 {
			m.cursor--
		}

	case key.Matches(msg, m.keys.Down):
		if m.cursor < len(items)-1 {
			m.cursor++
		}

	case key.Matches(msg, m.keys.Toggle):
		if len(items) == 0 {
			return m, nil
		}
		outcome, err := m.session.Toggle(items[m.cursor].Name)
		m.report(outcome, err)

	case key.Matches(msg, m.keys.Prev):
		m.report(m.session.Prev(), nil)
		m.followSelection()

	case key.Matches(msg, m.keys.Next):
		m.report(m.session.Next(), nil)
		m.followSelection()

	case key.Matches(msg, m.keys.Add):
		m.adding = true
		m.input.SetValue("")
		return m, m.input.Focus()

	case key.Matches(msg, m.keys.Remove):
		if len(items) == 0 {
			return m, nil
		}
		outcome, err := m.session.Unregister(items[m.cursor].Name)
		m.report(outcome, err)
		if m.cursor >= len(items)-1 && m.cursor > 0 {
			m.cursor--
		}

	case key.Matches(msg, m.keys.Multiple):
		v := !m.session.Config().Multiple
		m.report(m.session.Configure(scenario.RulesPatch{Multiple: &v}), nil)

	case key.Matches(msg, m.keys.Mandatory):
		v := !m.session.Config().Mandatory
		m.report(m.session.Configure(scenario.RulesPatch{Mandatory: &v}), nil)

	case key.Matches(msg, m.keys.MaxUp):
		v := 1
		if cur := m.session.Config().Max; cur != nil {
			v = *cur + 1
		}
		m.report(m.session.Configure(scenario.RulesPatch{Max: &v}), nil)

	case key.Matches(msg, m.keys.MaxDown):
		// Lowering past 0 removes the limit.
		cur := m.session.Config().Max
		switch {
		case cur == nil:
		case *cur == 0:
			m.report(m.session.Configure(scenario.RulesPatch{Unlimited: true}), nil)
		default:
			v := *cur - 1
			m.report(m.session.Configure(scenario.RulesPatch{Max: &v}), nil)
		}

	case key.Matches(msg, m.keys.Help):
		m.help.ShowAll = !m.help.ShowAll
	}
	return m, nil
}

func (m *Model) updateInput(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.Type {
	case tea.KeyEsc:
		m.adding = false
		m.input.Blur()
		return m, nil

	case tea.KeyEnter:
		m.adding = false
		m.input.Blur()
		line := strings.TrimSpace(m.input.Value())
		if line == "" {
			return m, nil
		}
		step, err := scenario.ParseCommand("register " + line)
		if err != nil {
			m.report("", err)
			return m, nil
		}
		outcome, err := m.session.Apply(step)
		m.report(outcome, err)
		if err == nil {
			m.cursor = len(m.session.Items()) - 1
		}
		return m, nil
	}

	var cmd tea.Cmd
	m.input, cmd = m.input.Update(msg)
	return m, cmd
}

// followSelection moves the cursor to the first selected item.
func (m *Model) followSelection() {
	for i, item := range m.session.Items() {
		if item.Selected {
			m.cursor = i
			return
		}
	}
}

func (m *Model) report(outcome group.Outcome, err error) {
	if err != nil {
		m.status = err.Error()
		if ke, ok := err.(*kiterrors.KitError); ok && ke.Suggestion != "" {
			m.status += " (" + ke.Suggestion + ")"
		}
		m.statusStyle = statusError
		return
	}

	ev := m.session.LastEvent()
	m.status = fmt.Sprintf("%s %s", ev.Op, outcome)
	if ev.Reason != group.ReasonNone {
		m.status += " (" + string(ev.Reason) + ")"
	}
	m.statusStyle = statusApplied
	if outcome == group.OutcomeRefused {
		m.statusStyle = statusRefused
	}
}

// View implements tea.Model.
func (m *Model) View() string {
	var b strings.Builder
	s := m.styles

	b.WriteString(s.Title.Render("groupkit · " + m.session.Name()))
	b.WriteString("\n")

	cfg := m.session.Config()
	b.WriteString(s.Rules.Render(fmt.Sprintf("multiple: %t  mandatory: %t  max: %s",
		cfg.Multiple, cfg.Mandatory, scenario.FormatMax(cfg.Max))))
	b.WriteString("\n\n")

	items := m.session.Items()
	if len(items) == 0 {
		b.WriteString(s.Dim.Render("  no items, press a to add one"))
		b.WriteString("\n")
	}
	for i, item := range items {
		cursor := "  "
		if i == m.cursor {
			cursor = s.Cursor.Render("> ")
		}
		mark, style := "[ ]", s.Item
		if item.Selected {
			mark, style = "[x]", s.Selected
		}
		value := fmt.Sprint(item.Value)
		if item.ByID {
			value = "by id"
		}
		b.WriteString(cursor + style.Render(mark+" "+item.Name) + " " + s.Dim.Render(value) + "\n")
	}

	b.WriteString("\n")
	b.WriteString(s.Model.Render(fmt.Sprintf("model: %v", m.session.Model())))
	b.WriteString("\n")

	if m.status != "" {
		style := s.StatusApplied
		switch m.statusStyle {
		case statusRefused:
			style = s.StatusRefused
		case statusError:
			style = s.StatusError
		}
		b.WriteString(style.Render(m.status))
		b.WriteString("\n")
	}

	if m.adding {
		b.WriteString(m.input.View())
		b.WriteString("\n")
	}

	b.WriteString("\n")
	b.WriteString(m.help.View(m.keys))

	return s.Main.Render(b.String())
}
