package repl

import (
	"bytes"
	"context"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/vango-dev/groupkit/internal/scenario"
)

func newREPL(t *testing.T) (*REPL, *bytes.Buffer) {
	t.Helper()
	sc, err := scenario.Parse([]byte(`
name: tabs
config: {mandatory: true}
items: [{name: home}, {name: search}]
steps: [next]
`))
	require.NoError(t, err)
	s, err := scenario.NewSession(sc)
	require.NoError(t, err)
	t.Cleanup(s.Close)

	var buf bytes.Buffer
	return NewWithWriter(s, &buf), &buf
}

func TestExecuteAppliesCommands(t *testing.T) {
	r, buf := newREPL(t)

	assert.False(t, r.Execute("toggle search"))
	out := buf.String()
	assert.Contains(t, out, "applied")
	assert.Contains(t, out, "[*] search")
	assert.Contains(t, out, "[ ] home")
	assert.Contains(t, out, "model: [search]")

	buf.Reset()
	assert.False(t, r.Execute("toggle search"))
	assert.Contains(t, buf.String(), "refused (mandatory)")
}

func TestExecuteErrors(t *testing.T) {
	r, buf := newREPL(t)

	assert.False(t, r.Execute("tggle home"))
	assert.Contains(t, buf.String(), "error: G032")
	assert.Contains(t, buf.String(), "did you mean toggle?")

	buf.Reset()
	assert.False(t, r.Execute("toggle hom"))
	assert.Contains(t, buf.String(), "did you mean home?")
}

func TestExecuteBuiltins(t *testing.T) {
	r, buf := newREPL(t)

	assert.False(t, r.Execute("   "))
	assert.Empty(t, buf.String())

	assert.False(t, r.Execute("help"))
	assert.Contains(t, buf.String(), "configure key=value")

	buf.Reset()
	assert.False(t, r.Execute("show"))
	assert.True(t, strings.HasPrefix(buf.String(), "rules: multiple=false mandatory=true max=none"))

	assert.True(t, r.Execute("exit"))
	assert.True(t, r.Execute("QUIT"))
}

func TestRunWithoutTerminal(t *testing.T) {
	r, _ := newREPL(t)
	assert.Error(t, r.Run(context.Background()))
}
