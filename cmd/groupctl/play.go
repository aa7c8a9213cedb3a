package main

import (
	"io"

	"github.com/spf13/cobra"

	"github.com/vango-dev/groupkit/internal/tui"
)

func playCmd(flags *globalFlags) *cobra.Command {
	sf := &sessionFlags{}

	cmd := &cobra.Command{
		Use:   "play",
		Short: "Explore a group in a terminal UI",
		Long: `Open a terminal playground on a group.

Keys: space toggles the item under the cursor, ←/→ move the selection,
a adds an item, d removes one, m and M flip multiple and mandatory,
+ and - change max. Press ? for all keys.

Examples:
  groupctl play
  groupctl play --group tabs
  groupctl play --scenario demo.yaml`,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, logger, err := flags.load()
			if err != nil {
				return err
			}
			// The alternate screen owns the terminal, so logs are dropped.
			logger = cfg.Log.NewLogger(io.Discard)

			s, err := sf.open(cfg, logger)
			if err != nil {
				return err
			}
			defer s.Close()
			return tui.Run(s)
		},
	}

	sf.register(cmd)
	return cmd
}
