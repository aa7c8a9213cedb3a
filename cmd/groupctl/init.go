package main

import (
	"os"

	"github.com/spf13/cobra"

	"github.com/vango-dev/groupkit/internal/config"
	kiterrors "github.com/vango-dev/groupkit/internal/errors"
)

func initCmd() *cobra.Command {
	var force bool

	cmd := &cobra.Command{
		Use:   "init [path]",
		Short: "Write a default groupkit.toml",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			path := config.ConfigFileName
			if len(args) == 1 {
				path = args[0]
			}
			return writeDefaultConfig(path, force)
		},
	}

	cmd.Flags().BoolVar(&force, "force", false, "Overwrite an existing file")
	return cmd
}

func writeDefaultConfig(path string, force bool) error {
	if _, err := os.Stat(path); err == nil && !force {
		return kiterrors.New("G050").
			WithDetailf("%s already exists", path).
			WithSuggestion("Use --force to overwrite it")
	}

	if err := config.New().SaveTo(path); err != nil {
		return err
	}
	success("Wrote %s", path)
	info("Start the server with: groupctl serve --config %s", path)
	return nil
}
