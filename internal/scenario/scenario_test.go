package scenario

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	kiterrors "github.com/vango-dev/groupkit/internal/errors"
	"github.com/vango-dev/groupkit/pkg/group"
)

func TestParse(t *testing.T) {
	sc, err := Parse([]byte(`
name: demo
config:
  multiple: true
  max: 3
model: [b]
items:
  - name: a
  - name: b
    value: 2
  - name: c
    by_id: true
steps:
  - toggle: a
  - next
  - step: 2
  - set: [a, b]
  - set: a
  - configure:
      mandatory: true
  - expect:
      selection: [a]
      outcome: applied
`))
	require.NoError(t, err)

	assert.Equal(t, "demo", sc.Name)
	assert.True(t, sc.Config.Multiple)
	require.NotNil(t, sc.Config.Max)
	assert.Equal(t, 3, *sc.Config.Max)
	assert.Equal(t, group.Limit(3), sc.Config.Rules().Max)
	assert.Equal(t, []any{"b"}, sc.Model)
	require.Len(t, sc.Items, 3)
	assert.Equal(t, "a", sc.Items[0].value())
	assert.Equal(t, 2, sc.Items[1].value())
	assert.Nil(t, sc.Items[2].value())

	require.Len(t, sc.Steps, 7)
	assert.Equal(t, KindToggle, sc.Steps[0].Kind)
	assert.Equal(t, "a", sc.Steps[0].Item.Name)
	assert.Equal(t, KindNext, sc.Steps[1].Kind)
	assert.Equal(t, 2, sc.Steps[2].N)
	assert.Equal(t, []any{"a", "b"}, sc.Steps[3].Values)
	assert.Equal(t, []any{"a"}, sc.Steps[4].Values)
	require.NotNil(t, sc.Steps[5].Patch.Mandatory)
	assert.True(t, *sc.Steps[5].Patch.Mandatory)
	assert.Nil(t, sc.Steps[5].Patch.Max)
	require.NotNil(t, sc.Steps[6].Expect.Selection)
	assert.Equal(t, []any{"a"}, *sc.Steps[6].Expect.Selection)
	assert.Nil(t, sc.Steps[6].Expect.Emitted)
	assert.Equal(t, "applied", sc.Steps[6].Expect.Outcome)
	assert.Greater(t, sc.Steps[0].Line, 0)
}

func TestParseErrors(t *testing.T) {
	tests := []struct {
		name string
		doc  string
		want string
	}{
		{"no steps", "items: [{name: a}]", "at least one step"},
		{"duplicate item", "items: [{name: a}, {name: a}]\nsteps: [next]", "duplicate item"},
		{"unnamed item", "items: [{value: 1}]\nsteps: [next]", "needs a name"},
		{"bare toggle", "steps: [toggle]", "needs an argument"},
		{"unknown step", "steps: [{togle: a}]", `unknown step "togle"`},
		{"two keys", "steps: [{toggle: a, next: ~}]", "exactly one key"},
		{"bad yaml", "steps: [", ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := Parse([]byte(tt.doc))
			require.Error(t, err)
			assert.Equal(t, "G030", kiterrors.CodeOf(err))
			assert.Contains(t, err.Error(), tt.want)
		})
	}
}

func TestParseDefaultsName(t *testing.T) {
	sc, err := Parse([]byte("steps: [next]"))
	require.NoError(t, err)
	assert.Equal(t, "scenario", sc.Name)
}

func TestLoadDirectory(t *testing.T) {
	scenarios, err := LoadDirectory("testdata")
	require.NoError(t, err)
	require.Len(t, scenarios, 3)

	assert.Equal(t, "filters", scenarios[0].Name)
	assert.Equal(t, "tabs", scenarios[1].Name)
	assert.Equal(t, "sizes", scenarios[2].Name)
	assert.Equal(t, filepath.Join("testdata", "tabs.yaml"), scenarios[1].File)
}

func TestLoadReportsPath(t *testing.T) {
	path := filepath.Join(t.TempDir(), "broken.yaml")
	require.NoError(t, os.WriteFile(path, []byte("name: broken\n"), 0o644))

	_, err := Load(path)
	require.Error(t, err)
	assert.Contains(t, err.Error(), path)

	_, err = Load(filepath.Join(t.TempDir(), "missing.yaml"))
	require.Error(t, err)
	assert.Equal(t, "G030", kiterrors.CodeOf(err))
}
