package scenario

import (
	"fmt"
	"log/slog"

	kiterrors "github.com/vango-dev/groupkit/internal/errors"
)

// Failure is one failed expectation or step.
type Failure struct {
	Step int
	Line int
	Err  error
}

func (f Failure) String() string {
	if f.Line > 0 {
		return fmt.Sprintf("step %d (line %d): %v", f.Step, f.Line, f.Err)
	}
	return fmt.Sprintf("step %d: %v", f.Step, f.Err)
}

// Report is the result of running one scenario.
type Report struct {
	Name     string
	File     string
	Steps    int
	Failures []Failure
}

// Passed reports whether every step succeeded.
func (r *Report) Passed() bool {
	return len(r.Failures) == 0
}

// Run executes every step of sc in a fresh session. Failed expectations
// and step errors are collected; an error is returned only when the
// session cannot be built.
func Run(sc *Scenario, opts ...SessionOption) (*Report, error) {
	s, err := NewSession(sc, opts...)
	if err != nil {
		return nil, err
	}
	defer s.Close()

	report := &Report{Name: sc.Name, File: sc.File, Steps: len(sc.Steps)}
	for i, step := range sc.Steps {
		if _, err := s.Apply(step); err != nil {
			report.Failures = append(report.Failures, Failure{Step: i + 1, Line: step.Line, Err: err})
			s.log.Debug("step failed", "step", i+1, "error", err)
		}
	}
	return report, nil
}

// RunAll runs scenarios in order and returns their reports. A scenario that
// cannot start is reported as a failure of step zero.
func RunAll(scenarios []*Scenario, logger *slog.Logger) []*Report {
	reports := make([]*Report, 0, len(scenarios))
	for _, sc := range scenarios {
		report, err := Run(sc, WithLogger(logger))
		if err != nil {
			report = &Report{Name: sc.Name, File: sc.File, Failures: []Failure{{Err: err}}}
		}
		reports = append(reports, report)
	}
	return reports
}

// IsExpectationFailure reports whether err is a failed expectation rather
// than a step that could not run.
func IsExpectationFailure(err error) bool {
	return kiterrors.CodeOf(err) == "G031"
}
