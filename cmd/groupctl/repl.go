package main

import (
	"context"
	"os"
	"os/signal"

	"github.com/spf13/cobra"

	"github.com/vango-dev/groupkit/internal/repl"
)

func replCmd(flags *globalFlags) *cobra.Command {
	sf := &sessionFlags{}

	cmd := &cobra.Command{
		Use:   "repl",
		Short: "Drive a group from a command prompt",
		Long: `Start a prompt on a group. Commands mirror scenario steps:

  toggle home
  next
  step -2
  set home search
  configure multiple=true max=2

Examples:
  groupctl repl
  groupctl repl --group tabs`,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, logger, err := flags.load()
			if err != nil {
				return err
			}

			s, err := sf.open(cfg, logger)
			if err != nil {
				return err
			}
			defer s.Close()

			r, err := repl.New(s)
			if err != nil {
				return err
			}

			ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
			defer stop()
			return r.Run(ctx)
		},
	}

	sf.register(cmd)
	return cmd
}
