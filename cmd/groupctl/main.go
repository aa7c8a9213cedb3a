package main

import (
	"fmt"
	"io"
	"log/slog"
	"os"

	"github.com/mattn/go-isatty"
	"github.com/spf13/cobra"

	"github.com/vango-dev/groupkit/internal/config"
	kiterrors "github.com/vango-dev/groupkit/internal/errors"
)

// Version information set at build time.
var (
	version = "dev"
	commit  = "none"
	date    = "unknown"
)

// globalFlags are shared by every command.
type globalFlags struct {
	configPath string
	logLevel   string
	logFormat  string
}

func main() {
	if err := newRootCmd().Execute(); err != nil {
		kiterrors.Fprint(os.Stderr, err)
		os.Exit(1)
	}
}

func newRootCmd() *cobra.Command {
	flags := &globalFlags{}

	rootCmd := &cobra.Command{
		Use:   "groupctl",
		Short: "Host and explore selection groups",
		Long: `groupctl hosts selection groups and lets you explore their rules.

A group keeps the selection of a set of items under three rules:
multiple, mandatory and max. groupctl can

  • serve groups over HTTP and WebSocket
  • play with a group in the terminal
  • drive a group from a prompt
  • run YAML scenarios against a group`,
		SilenceUsage:  true,
		SilenceErrors: true,
	}

	rootCmd.PersistentFlags().StringVarP(&flags.configPath, "config", "c", "", "Config file (default groupkit.toml)")
	rootCmd.PersistentFlags().StringVar(&flags.logLevel, "log-level", "", "Log level: debug, info, warn or error")
	rootCmd.PersistentFlags().StringVar(&flags.logFormat, "log-format", "", "Log format: text or json")

	rootCmd.AddCommand(
		serveCmd(flags),
		playCmd(flags),
		replCmd(flags),
		runCmd(flags),
		initCmd(),
		versionCmd(),
	)
	return rootCmd
}

// load reads the configuration, applies the logging flags and installs
// the default logger.
func (f *globalFlags) load() (*config.Config, *slog.Logger, error) {
	cfg, err := config.Load(f.configPath)
	if err != nil {
		return nil, nil, err
	}
	if f.logLevel != "" {
		cfg.Log.Level = f.logLevel
	}
	if f.logFormat != "" {
		cfg.Log.Format = f.logFormat
	}
	if err := cfg.Validate(); err != nil {
		return nil, nil, err
	}

	logger := cfg.Log.NewLogger(os.Stderr)
	slog.SetDefault(logger)
	return cfg, logger, nil
}

// success prints a success message.
func success(format string, args ...any) {
	mark := "✓"
	if isTerminal(os.Stdout) {
		mark = kiterrors.Green(mark)
	}
	fmt.Printf("%s %s\n", mark, fmt.Sprintf(format, args...))
}

// isTerminal reports whether w is a terminal. Buffers and pipes get plain text.
func isTerminal(w io.Writer) bool {
	f, ok := w.(*os.File)
	if !ok {
		return false
	}
	return isatty.IsTerminal(f.Fd()) || isatty.IsCygwinTerminal(f.Fd())
}

// info prints an info message.
func info(format string, args ...any) {
	fmt.Printf("  %s\n", fmt.Sprintf(format, args...))
}
