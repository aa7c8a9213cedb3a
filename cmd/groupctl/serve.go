package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/vango-dev/groupkit/internal/server"
)

func serveCmd(flags *globalFlags) *cobra.Command {
	var (
		addr      string
		advertise bool
	)

	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Serve the configured groups over HTTP and WebSocket",
		Long: `Serve every group declared in groupkit.toml.

Examples:
  groupctl serve
  groupctl serve --addr :9090
  groupctl serve --advertise`,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, logger, err := flags.load()
			if err != nil {
				return err
			}
			if addr != "" {
				cfg.Server.Addr = addr
			}
			if cmd.Flags().Changed("advertise") {
				cfg.Server.Advertise = advertise
			}

			srv, err := server.New(cfg, server.WithLogger(logger))
			if err != nil {
				return err
			}

			ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
			defer stop()
			return srv.ListenAndServe(ctx)
		},
	}

	cmd.Flags().StringVarP(&addr, "addr", "a", "", "Listen address (overrides server.addr)")
	cmd.Flags().BoolVar(&advertise, "advertise", false, "Announce the server over mDNS")
	return cmd
}
