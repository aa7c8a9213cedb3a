package main

import (
	"fmt"
	"io"
	"log/slog"
	"os"

	"github.com/spf13/cobra"

	kiterrors "github.com/vango-dev/groupkit/internal/errors"
	"github.com/vango-dev/groupkit/internal/scenario"
)

func runCmd(flags *globalFlags) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "run <scenario.yaml|dir>...",
		Short: "Run scenario files",
		Long: `Run YAML scenarios and report failed expectations.

A directory argument runs every .yaml and .yml file in it.

Examples:
  groupctl run scenarios/tabs.yaml
  groupctl run scenarios/`,
		Args: cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			_, logger, err := flags.load()
			if err != nil {
				return err
			}
			scenarios, err := loadScenarios(args)
			if err != nil {
				return err
			}
			return reportRuns(cmd.OutOrStdout(), scenario.RunAll(scenarios, logger))
		},
	}
	return cmd
}

func loadScenarios(paths []string) ([]*scenario.Scenario, error) {
	var all []*scenario.Scenario
	for _, path := range paths {
		fi, err := os.Stat(path)
		if err != nil {
			return nil, kiterrors.New("G030").WithDetail(path).Wrap(err)
		}
		if fi.IsDir() {
			list, err := scenario.LoadDirectory(path)
			if err != nil {
				return nil, err
			}
			all = append(all, list...)
			continue
		}
		sc, err := scenario.Load(path)
		if err != nil {
			return nil, err
		}
		all = append(all, sc)
	}
	return all, nil
}

// reportRuns prints one line per scenario and returns G050 when any failed.
func reportRuns(w io.Writer, reports []*scenario.Report) error {
	pass, fail := "✓", "✗"
	if isTerminal(w) {
		pass, fail = kiterrors.Green(pass), kiterrors.Red(fail)
	}

	failed := 0
	for _, r := range reports {
		if r.Passed() {
			fmt.Fprintf(w, "%s %s (%d steps)\n", pass, r.Name, r.Steps)
			continue
		}
		failed++
		fmt.Fprintf(w, "%s %s\n", fail, r.Name)
		for _, f := range r.Failures {
			fmt.Fprintf(w, "    %s\n", f)
		}
	}

	slog.Debug("scenarios finished", "total", len(reports), "failed", failed)
	if failed > 0 {
		return kiterrors.New("G050").WithDetailf("%d of %d scenarios failed", failed, len(reports))
	}
	return nil
}
