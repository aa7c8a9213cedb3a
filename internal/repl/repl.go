// Package repl provides an interactive command line over a scenario session.
package repl

import (
	"context"
	"fmt"
	"io"
	"strings"

	"github.com/chzyer/readline"

	kiterrors "github.com/vango-dev/groupkit/internal/errors"
	"github.com/vango-dev/groupkit/internal/scenario"
)

// REPL reads commands and applies them to a session.
type REPL struct {
	session *scenario.Session
	rl      *readline.Instance
	out     io.Writer
}

// New creates a REPL with a readline prompt named after the session.
func New(s *scenario.Session) (*REPL, error) {
	r := &REPL{session: s}

	rl, err := readline.NewEx(&readline.Config{
		Prompt:          s.Name() + "> ",
		InterruptPrompt: "^C",
		EOFPrompt:       "exit",
		AutoComplete:    r.completer(),
	})
	if err != nil {
		return nil, fmt.Errorf("failed to create readline: %w", err)
	}
	r.rl = rl
	r.out = rl.Stdout()
	return r, nil
}

// NewWithWriter creates a REPL without a terminal. Commands are passed to
// Execute and output goes to w.
func NewWithWriter(s *scenario.Session, w io.Writer) *REPL {
	return &REPL{session: s, out: w}
}

// Stdout returns a writer that coordinates with the prompt.
func (r *REPL) Stdout() io.Writer {
	return r.out
}

// Run reads commands until exit, EOF or ctx is done.
func (r *REPL) Run(ctx context.Context) error {
	if r.rl == nil {
		return fmt.Errorf("repl has no terminal")
	}
	defer r.rl.Close()

	r.printHelp()
	r.show()

	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		default:
		}

		line, err := r.rl.Readline()
		if err != nil {
			if err == readline.ErrInterrupt {
				continue
			}
			fmt.Fprintln(r.out, "Exiting...")
			return nil
		}

		if quit := r.Execute(line); quit {
			return nil
		}
	}
}

// Execute runs one command line and reports whether the REPL should exit.
func (r *REPL) Execute(line string) (quit bool) {
	input := strings.TrimSpace(line)
	if input == "" {
		return false
	}

	switch cmd := strings.ToLower(strings.Fields(input)[0]); cmd {
	case "help", "?":
		r.printHelp()
		return false
	case "show", "ls":
		r.show()
		return false
	case "quit", "exit", "q":
		fmt.Fprintln(r.out, "Exiting...")
		return true
	}

	step, err := scenario.ParseCommand(input)
	if err != nil {
		r.printError(err)
		return false
	}

	outcome, err := r.session.Apply(step)
	if err != nil {
		r.printError(err)
		return false
	}

	ev := r.session.LastEvent()
	if ev.Reason != "" {
		fmt.Fprintf(r.out, "%s (%s)\n", outcome, ev.Reason)
	} else {
		fmt.Fprintln(r.out, outcome)
	}
	r.show()
	return false
}

func (r *REPL) show() {
	cfg := r.session.Config()
	fmt.Fprintf(r.out, "rules: multiple=%t mandatory=%t max=%s\n", cfg.Multiple, cfg.Mandatory, scenario.FormatMax(cfg.Max))

	items := r.session.Items()
	if len(items) == 0 {
		fmt.Fprintln(r.out, "  (no items)")
	}
	for _, item := range items {
		mark := " "
		if item.Selected {
			mark = "*"
		}
		value := fmt.Sprint(item.Value)
		if item.ByID {
			value = "by id"
		}
		fmt.Fprintf(r.out, "  [%s] %-12s %s\n", mark, item.Name, value)
	}
	fmt.Fprintf(r.out, "model: %v\n", r.session.Model())
}

func (r *REPL) printError(err error) {
	msg := err.Error()
	if ke, ok := err.(*kiterrors.KitError); ok && ke.Suggestion != "" {
		msg += " (" + ke.Suggestion + ")"
	}
	fmt.Fprintln(r.out, "error: "+msg)
}

func (r *REPL) printHelp() {
	fmt.Fprintln(r.out, `
Commands:
  register <name> [value|by_id]  - Add an item
  unregister <name>              - Remove an item
  toggle <name>                  - Toggle an item
  next | prev                    - Move the selection
  step <n>                       - Move the selection n items
  set [values...]                - Assign the model
  configure key=value...         - Change multiple, mandatory or max (max=none)
  show                           - Print the group
  help                           - Show this help
  exit                           - Leave`)
}

func (r *REPL) completer() *readline.PrefixCompleter {
	names := func(string) []string { return r.session.Names() }
	return readline.NewPrefixCompleter(
		readline.PcItem("register"),
		readline.PcItem("unregister", readline.PcItemDynamic(names)),
		readline.PcItem("toggle", readline.PcItemDynamic(names)),
		readline.PcItem("next"),
		readline.PcItem("prev"),
		readline.PcItem("step"),
		readline.PcItem("set", readline.PcItemDynamic(names)),
		readline.PcItem("configure",
			readline.PcItem("multiple="),
			readline.PcItem("mandatory="),
			readline.PcItem("max="),
		),
		readline.PcItem("show"),
		readline.PcItem("help"),
		readline.PcItem("exit"),
	)
}
