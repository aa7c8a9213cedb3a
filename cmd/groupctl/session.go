package main

import (
	"log/slog"
	"strings"

	"github.com/spf13/cobra"

	"github.com/vango-dev/groupkit/internal/config"
	kiterrors "github.com/vango-dev/groupkit/internal/errors"
	"github.com/vango-dev/groupkit/internal/scenario"
)

// sessionFlags pick the group an interactive command works on.
type sessionFlags struct {
	group        string
	scenarioPath string
}

func (f *sessionFlags) register(cmd *cobra.Command) {
	cmd.Flags().StringVarP(&f.group, "group", "g", "", "Configured group to load (default: the first one)")
	cmd.Flags().StringVarP(&f.scenarioPath, "scenario", "f", "", "Load the group from a scenario file instead")
}

// open builds a session from a scenario file or a configured group.
func (f *sessionFlags) open(cfg *config.Config, logger *slog.Logger) (*scenario.Session, error) {
	sc, err := f.scenario(cfg)
	if err != nil {
		return nil, err
	}
	return scenario.NewSession(sc, scenario.WithLogger(logger))
}

func (f *sessionFlags) scenario(cfg *config.Config) (*scenario.Scenario, error) {
	if f.scenarioPath != "" {
		return scenario.Load(f.scenarioPath)
	}

	if len(cfg.Groups) == 0 {
		return nil, kiterrors.New("G050").WithDetail("no groups are configured")
	}
	gc := cfg.Groups[0]
	if f.group != "" {
		var ok bool
		if gc, ok = cfg.Group(f.group); !ok {
			names := make([]string, len(cfg.Groups))
			for i, g := range cfg.Groups {
				names[i] = g.Name
			}
			return nil, kiterrors.New("G040").
				WithDetailf("group %q", f.group).
				WithSuggestion("configured groups: " + strings.Join(names, ", "))
		}
	}
	return scenarioFromGroup(gc), nil
}

// scenarioFromGroup turns a group declaration into a step-less scenario.
func scenarioFromGroup(gc config.GroupConfig) *scenario.Scenario {
	sc := &scenario.Scenario{
		Name: gc.Name,
		Config: scenario.RulesSpec{
			Multiple:  gc.Multiple,
			Mandatory: gc.Mandatory,
			Max:       gc.Max,
		},
		Model: gc.ModelValues(),
	}
	for _, item := range gc.Items {
		sc.Items = append(sc.Items, scenario.ItemSpec{Name: item})
	}
	return sc
}
