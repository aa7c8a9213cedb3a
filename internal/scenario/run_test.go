package scenario

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRunTestdata(t *testing.T) {
	scenarios, err := LoadDirectory("testdata")
	require.NoError(t, err)

	for _, sc := range scenarios {
		t.Run(sc.Name, func(t *testing.T) {
			report, err := Run(sc)
			require.NoError(t, err)
			for _, f := range report.Failures {
				t.Error(f.String())
			}
			assert.True(t, report.Passed())
			assert.Equal(t, len(sc.Steps), report.Steps)
		})
	}
}

func TestRunCollectsFailures(t *testing.T) {
	sc, err := Parse([]byte(`
name: failing
items: [{name: a}, {name: b}]
steps:
  - toggle: c
  - toggle: a
  - expect:
      selection: [b]
  - expect:
      selected: [a]
`))
	require.NoError(t, err)

	report, err := Run(sc)
	require.NoError(t, err)
	assert.False(t, report.Passed())
	require.Len(t, report.Failures, 2)

	assert.Equal(t, 1, report.Failures[0].Step)
	assert.False(t, IsExpectationFailure(report.Failures[0].Err))
	assert.Equal(t, 3, report.Failures[1].Step)
	assert.True(t, IsExpectationFailure(report.Failures[1].Err))
	assert.Contains(t, report.Failures[1].String(), "line")
}

func TestRunAll(t *testing.T) {
	good, err := Parse([]byte("name: good\nitems: [{name: a}]\nsteps: [next]"))
	require.NoError(t, err)
	bad := &Scenario{Name: "bad", Items: []ItemSpec{{Name: "x", Value: []int{1}}}}

	reports := RunAll([]*Scenario{good, bad}, nil)
	require.Len(t, reports, 2)
	assert.True(t, reports[0].Passed())
	assert.False(t, reports[1].Passed())
	assert.Equal(t, 0, reports[1].Failures[0].Step)
}
