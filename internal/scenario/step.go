package scenario

import (
	"fmt"
	"strconv"
	"strings"

	"gopkg.in/yaml.v3"

	kiterrors "github.com/vango-dev/groupkit/internal/errors"
)

// Kind names a step.
type Kind string

const (
	KindRegister   Kind = "register"
	KindUnregister Kind = "unregister"
	KindToggle     Kind = "toggle"
	KindNext       Kind = "next"
	KindPrev       Kind = "prev"
	KindStep       Kind = "step"
	KindSet        Kind = "set"
	KindConfigure  Kind = "configure"
	KindExpect     Kind = "expect"
)

// kinds lists every step kind, for suggestions.
var kinds = []string{
	string(KindRegister), string(KindUnregister), string(KindToggle),
	string(KindNext), string(KindPrev), string(KindStep),
	string(KindSet), string(KindConfigure), string(KindExpect),
}

// Step is one scripted action.
type Step struct {
	Kind Kind

	// Item is the target of register, unregister and toggle.
	Item ItemSpec

	// N is the offset of a step.
	N int

	// Values is the model assigned by set.
	Values []any

	// Patch is the rule change of configure.
	Patch RulesPatch

	// Expect holds the checks of an expect step.
	Expect Expect

	// Line is the source line, or zero for commands.
	Line int
}

// RulesPatch changes only the rules it names. Unlimited removes the max
// limit and wins over Max.
type RulesPatch struct {
	Multiple  *bool `yaml:"multiple"`
	Mandatory *bool `yaml:"mandatory"`
	Max       *int  `yaml:"max"`
	Unlimited bool  `yaml:"unlimited"`
}

// Expect lists the checks of an expect step. Nil fields are not checked.
type Expect struct {
	// Selection is the projected model, with by_id items shown by name.
	Selection *[]any `yaml:"selection"`

	// Emitted lists the change notifications since the previous expect.
	Emitted *[][]any `yaml:"emitted"`

	// Selected names the items that report being selected.
	Selected *[]string `yaml:"selected"`

	// Outcome is the outcome of the previous step.
	Outcome string `yaml:"outcome"`
}

// UnmarshalYAML accepts a bare kind ("next") or a one-key mapping
// ("toggle: two").
func (s *Step) UnmarshalYAML(node *yaml.Node) error {
	s.Line = node.Line

	switch node.Kind {
	case yaml.ScalarNode:
		kind := Kind(node.Value)
		if kind != KindNext && kind != KindPrev {
			return stepError(node.Line, "step %q needs an argument", node.Value)
		}
		s.Kind = kind
		return nil

	case yaml.MappingNode:
		if len(node.Content) != 2 {
			return stepError(node.Line, "a step has exactly one key")
		}
		key, arg := node.Content[0], node.Content[1]
		s.Kind = Kind(key.Value)
		return s.decodeArg(arg)
	}

	return stepError(node.Line, "unexpected step")
}

func (s *Step) decodeArg(arg *yaml.Node) error {
	switch s.Kind {
	case KindRegister:
		if arg.Kind == yaml.ScalarNode {
			s.Item = ItemSpec{Name: arg.Value}
			return nil
		}
		return arg.Decode(&s.Item)

	case KindUnregister, KindToggle:
		if arg.Kind != yaml.ScalarNode || arg.Value == "" {
			return stepError(arg.Line, "%s takes an item name", s.Kind)
		}
		s.Item = ItemSpec{Name: arg.Value}
		return nil

	case KindNext, KindPrev:
		return nil

	case KindStep:
		return arg.Decode(&s.N)

	case KindSet:
		if arg.Kind == yaml.SequenceNode {
			return arg.Decode(&s.Values)
		}
		var v any
		if err := arg.Decode(&v); err != nil {
			return err
		}
		if v != nil {
			s.Values = []any{v}
		}
		return nil

	case KindConfigure:
		return arg.Decode(&s.Patch)

	case KindExpect:
		return arg.Decode(&s.Expect)
	}

	return unknownKind(string(s.Kind)).WithDetailf("line %d: unknown step %q", arg.Line, s.Kind)
}

// String renders the step as a command line.
func (s Step) String() string {
	switch s.Kind {
	case KindRegister:
		if s.Item.ByID {
			return "register " + s.Item.Name + " by_id"
		}
		if s.Item.Value != nil && fmt.Sprint(s.Item.Value) != s.Item.Name {
			return fmt.Sprintf("register %s %v", s.Item.Name, s.Item.Value)
		}
		return "register " + s.Item.Name
	case KindUnregister, KindToggle:
		return string(s.Kind) + " " + s.Item.Name
	case KindStep:
		return "step " + strconv.Itoa(s.N)
	case KindSet:
		parts := []string{"set"}
		for _, v := range s.Values {
			parts = append(parts, fmt.Sprint(v))
		}
		return strings.Join(parts, " ")
	case KindConfigure:
		parts := []string{"configure"}
		if s.Patch.Multiple != nil {
			parts = append(parts, "multiple="+strconv.FormatBool(*s.Patch.Multiple))
		}
		if s.Patch.Mandatory != nil {
			parts = append(parts, "mandatory="+strconv.FormatBool(*s.Patch.Mandatory))
		}
		switch {
		case s.Patch.Unlimited:
			parts = append(parts, "max=none")
		case s.Patch.Max != nil:
			parts = append(parts, "max="+strconv.Itoa(*s.Patch.Max))
		}
		return strings.Join(parts, " ")
	}
	return string(s.Kind)
}

// ParseCommand parses a one-line command such as "toggle two", "step -2",
// "set a b" or "configure multiple=true max=2". Unknown commands get a
// "did you mean" suggestion.
func ParseCommand(line string) (Step, error) {
	fields := strings.Fields(line)
	if len(fields) == 0 {
		return Step{}, kiterrors.New("G030").WithDetail("empty command")
	}
	kind, args := Kind(strings.ToLower(fields[0])), fields[1:]

	need := func(n int) error {
		if len(args) != n {
			return kiterrors.New("G030").WithDetailf("%s takes %d argument(s)", kind, n)
		}
		return nil
	}

	step := Step{Kind: kind}
	switch kind {
	case KindNext, KindPrev:
		return step, need(0)

	case KindUnregister, KindToggle:
		if err := need(1); err != nil {
			return Step{}, err
		}
		step.Item = ItemSpec{Name: args[0]}
		return step, nil

	case KindRegister:
		if len(args) < 1 || len(args) > 2 {
			return Step{}, kiterrors.New("G030").WithDetail("register takes a name and an optional value or by_id")
		}
		step.Item = ItemSpec{Name: args[0]}
		if len(args) == 2 {
			if args[1] == "by_id" {
				step.Item.ByID = true
			} else {
				step.Item.Value = parseScalar(args[1])
			}
		}
		return step, nil

	case KindStep:
		if err := need(1); err != nil {
			return Step{}, err
		}
		n, err := strconv.Atoi(args[0])
		if err != nil {
			return Step{}, kiterrors.New("G030").WithDetailf("step offset %q is not an integer", args[0])
		}
		step.N = n
		return step, nil

	case KindSet:
		for _, arg := range args {
			step.Values = append(step.Values, parseScalar(arg))
		}
		return step, nil

	case KindConfigure:
		if len(args) == 0 {
			return Step{}, kiterrors.New("G030").WithDetail("configure takes key=value pairs")
		}
		for _, arg := range args {
			if err := step.Patch.set(arg); err != nil {
				return Step{}, err
			}
		}
		return step, nil
	}

	return Step{}, unknownKind(fields[0])
}

func (p *RulesPatch) set(arg string) error {
	key, raw, ok := strings.Cut(arg, "=")
	if !ok {
		return kiterrors.New("G030").WithDetailf("%q is not key=value", arg)
	}
	switch key {
	case "multiple", "mandatory":
		b, err := strconv.ParseBool(raw)
		if err != nil {
			return kiterrors.New("G030").WithDetailf("%s=%q is not a boolean", key, raw)
		}
		if key == "multiple" {
			p.Multiple = &b
		} else {
			p.Mandatory = &b
		}
	case "max":
		if raw == "none" {
			p.Max, p.Unlimited = nil, true
			return nil
		}
		n, err := strconv.Atoi(raw)
		if err != nil {
			return kiterrors.New("G030").WithDetailf("max=%q is not an integer", raw).
				WithSuggestion("use max=none to remove the limit")
		}
		if n < 0 {
			return kiterrors.New("G030").WithDetailf("max=%d must not be negative", n)
		}
		p.Max, p.Unlimited = &n, false
	default:
		err := kiterrors.New("G032").WithDetailf("unknown rule %q", key)
		if s := suggest(key, []string{"multiple", "mandatory", "max"}); s != "" {
			err.WithSuggestion("did you mean " + s + "?")
		}
		return err
	}
	return nil
}

// parseScalar decodes a command argument the way YAML decodes a scalar.
func parseScalar(s string) any {
	var v any
	if err := yaml.Unmarshal([]byte(s), &v); err != nil || v == nil {
		return s
	}
	switch v.(type) {
	case int, float64, bool, string:
		return v
	}
	return s
}

func unknownKind(name string) *kiterrors.KitError {
	err := kiterrors.New("G032").WithDetailf("unknown command %q", name)
	if s := suggest(name, kinds); s != "" {
		err.WithSuggestion("did you mean " + s + "?")
	}
	return err
}

func stepError(line int, format string, args ...any) error {
	return kiterrors.New("G030").WithDetailf("line %d: %s", line, fmt.Sprintf(format, args...))
}
