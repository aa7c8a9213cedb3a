package tui

import (
	"testing"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/vango-dev/groupkit/internal/scenario"
)

func newModel(t *testing.T, doc string) (*Model, *scenario.Session) {
	t.Helper()
	sc, err := scenario.Parse([]byte(doc))
	require.NoError(t, err)
	s, err := scenario.NewSession(sc)
	require.NoError(t, err)
	t.Cleanup(s.Close)
	return New(s), s
}

func runes(s string) tea.KeyMsg {
	return tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune(s)}
}

// typeText sends one KeyMsg per rune, the way a terminal delivers typing.
// A multi-rune message can collide with named keys such as "home".
func typeText(s string) []tea.Msg {
	msgs := make([]tea.Msg, 0, len(s))
	for _, r := range s {
		msgs = append(msgs, tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune{r}})
	}
	return msgs
}

func send(m *Model, msgs ...tea.Msg) {
	for _, msg := range msgs {
		m.Update(msg)
	}
}

const tabs = `
name: tabs
config: {mandatory: true}
items: [{name: home}, {name: search}, {name: settings}]
steps: [next]
`

func TestToggleAtCursor(t *testing.T) {
	m, s := newModel(t, tabs)

	send(m, tea.KeyMsg{Type: tea.KeyDown}, tea.KeyMsg{Type: tea.KeySpace, Runes: []rune{' '}})
	assert.Equal(t, []string{"search"}, s.SelectedNames())
	assert.Contains(t, m.status, "toggle applied")

	send(m, tea.KeyMsg{Type: tea.KeySpace, Runes: []rune{' '}})
	assert.Equal(t, []string{"search"}, s.SelectedNames())
	assert.Contains(t, m.status, "refused (mandatory)")
	assert.Equal(t, statusRefused, m.statusStyle)
}

func TestNavigationMovesCursor(t *testing.T) {
	m, s := newModel(t, tabs)

	send(m, tea.KeyMsg{Type: tea.KeyRight})
	assert.Equal(t, []string{"search"}, s.SelectedNames())
	assert.Equal(t, 1, m.cursor)

	send(m, tea.KeyMsg{Type: tea.KeyLeft}, tea.KeyMsg{Type: tea.KeyLeft})
	assert.Equal(t, []string{"settings"}, s.SelectedNames())
	assert.Equal(t, 2, m.cursor)
}

func TestCursorBounds(t *testing.T) {
	m, _ := newModel(t, tabs)

	send(m, tea.KeyMsg{Type: tea.KeyUp})
	assert.Equal(t, 0, m.cursor)
	send(m, runes("j"), runes("j"), runes("j"))
	assert.Equal(t, 2, m.cursor)
}

func TestAddAndRemove(t *testing.T) {
	m, s := newModel(t, tabs)

	send(m, runes("a"))
	require.True(t, m.adding)
	send(m, typeText("profile")...)
	send(m, tea.KeyMsg{Type: tea.KeyEnter})
	assert.False(t, m.adding)
	assert.Equal(t, []string{"home", "search", "settings", "profile"}, s.Names())
	assert.Equal(t, 3, m.cursor)

	send(m, runes("d"))
	assert.Equal(t, []string{"home", "search", "settings"}, s.Names())
	assert.Equal(t, 2, m.cursor)

	send(m, runes("a"), runes("x"), tea.KeyMsg{Type: tea.KeyEsc})
	assert.False(t, m.adding)
	assert.Len(t, s.Names(), 3)
}

func TestAddDuplicateShowsError(t *testing.T) {
	m, s := newModel(t, tabs)

	send(m, runes("a"))
	send(m, typeText("home")...)
	assert.Equal(t, "home", m.input.Value())
	send(m, tea.KeyMsg{Type: tea.KeyEnter})
	assert.Len(t, s.Names(), 3)
	assert.Equal(t, statusError, m.statusStyle)
	assert.Contains(t, m.status, "G030")
}

func TestRuleKeys(t *testing.T) {
	m, s := newModel(t, tabs)

	send(m, runes("m"), runes("M"), runes("+"), runes("+"), runes("-"))
	cfg := s.Config()
	assert.True(t, cfg.Multiple)
	assert.False(t, cfg.Mandatory)
	require.NotNil(t, cfg.Max)
	assert.Equal(t, 1, *cfg.Max)
	assert.Contains(t, m.View(), "max: 1")

	send(m, runes("-"))
	require.NotNil(t, s.Config().Max)
	assert.Equal(t, 0, *s.Config().Max)

	send(m, runes("-"))
	assert.Nil(t, s.Config().Max)
	assert.Contains(t, m.View(), "max: none")
}

func TestQuit(t *testing.T) {
	m, _ := newModel(t, tabs)
	_, cmd := m.Update(runes("q"))
	require.NotNil(t, cmd)
	assert.Equal(t, tea.QuitMsg{}, cmd())
}

func TestView(t *testing.T) {
	m, _ := newModel(t, tabs)
	send(m, tea.WindowSizeMsg{Width: 100, Height: 40})

	view := m.View()
	assert.Contains(t, view, "groupkit · tabs")
	assert.Contains(t, view, "mandatory: true")
	assert.Contains(t, view, "max: none")
	assert.Contains(t, view, "[x] home")
	assert.Contains(t, view, "[ ] search")
	assert.Contains(t, view, "model: [home]")
	assert.Contains(t, view, "toggle")

	send(m, runes("?"))
	assert.Contains(t, m.View(), "mandatory")
}

func TestViewEmpty(t *testing.T) {
	m, _ := newModel(t, "name: empty\nsteps: [next]")
	assert.Contains(t, m.View(), "no items")

	send(m, runes("d"), tea.KeyMsg{Type: tea.KeySpace, Runes: []rune{' '}})
	assert.Equal(t, "", m.status)
}
