package scenario

import (
	"fmt"
	"log/slog"
	"reflect"
	"strconv"

	kiterrors "github.com/vango-dev/groupkit/internal/errors"
	"github.com/vango-dev/groupkit/pkg/group"
	"github.com/vango-dev/groupkit/pkg/reactive"
)

// ItemState is a snapshot of one registered item.
type ItemState struct {
	Name     string
	Value    any
	ByID     bool
	Selected bool
}

// Session drives a group through named items. It is not safe for concurrent use.
type Session struct {
	name string
	log  *slog.Logger

	root  *reactive.Owner
	group *group.Group

	// items holds live items in registration order.
	items  []*member
	byName map[string]*member

	emitted []group.Model
	last    group.Event
}

type member struct {
	spec  ItemSpec
	owner *reactive.Owner
	item  *group.Item
}

// SessionOption configures a Session.
type SessionOption func(*sessionConfig)

type sessionConfig struct {
	logger    *slog.Logger
	observers []group.Observer
}

// WithLogger sets the session and group logger. A nil logger is ignored.
func WithLogger(logger *slog.Logger) SessionOption {
	return func(c *sessionConfig) {
		if logger != nil {
			c.logger = logger
		}
	}
}

// WithObserver forwards group events to o.
func WithObserver(o group.Observer) SessionOption {
	return func(c *sessionConfig) {
		c.observers = append(c.observers, o)
	}
}

// NewSession creates the scenario's group and registers its items.
func NewSession(sc *Scenario, opts ...SessionOption) (*Session, error) {
	cfg := sessionConfig{logger: slog.Default()}
	for _, opt := range opts {
		opt(&cfg)
	}

	s := &Session{
		name:   sc.Name,
		log:    cfg.logger.With("component", "scenario", "scenario", sc.Name),
		root:   reactive.NewOwner(nil),
		byName: make(map[string]*member),
	}

	groupOpts := []group.Option{
		group.WithName(sc.Name),
		group.WithLogger(cfg.logger),
		group.WithModel(sc.Model...),
		group.WithOwner(s.root),
		group.WithObserver(group.ObserverFunc(func(e group.Event) { s.last = e })),
	}
	for _, o := range cfg.observers {
		groupOpts = append(groupOpts, group.WithObserver(o))
	}
	s.group = group.New(sc.Config.Rules(), groupOpts...)
	s.group.OnChange(func(m group.Model) {
		s.emitted = append(s.emitted, m)
	})

	for _, spec := range sc.Items {
		if _, err := s.Register(spec); err != nil {
			s.Close()
			return nil, err
		}
	}
	return s, nil
}

// Name returns the scenario name.
func (s *Session) Name() string {
	return s.name
}

// Group returns the underlying group.
func (s *Session) Group() *group.Group {
	return s.group
}

// Close disposes every item and the group.
func (s *Session) Close() {
	s.root.Dispose()
}

// Register adds a named item.
func (s *Session) Register(spec ItemSpec) (group.Outcome, error) {
	if _, exists := s.byName[spec.Name]; exists {
		return "", kiterrors.New("G030").WithDetailf("item %q is already registered", spec.Name)
	}

	owner := reactive.NewOwner(s.root)
	var opts []group.ItemOption
	if v := spec.value(); v != nil {
		opts = append(opts, group.WithValue(v))
	}
	item, err := group.NewItem(owner, s.group, opts...)
	if err != nil {
		owner.Dispose()
		return "", err
	}

	m := &member{spec: spec, owner: owner, item: item}
	s.items = append(s.items, m)
	s.byName[spec.Name] = m
	s.log.Debug("registered item", "item", spec.Name, "id", uint64(item.ID()))
	return s.last.Outcome, nil
}

// Unregister removes a named item by disposing its owner.
func (s *Session) Unregister(name string) (group.Outcome, error) {
	m, err := s.lookup(name)
	if err != nil {
		return "", err
	}

	m.owner.Dispose()
	delete(s.byName, name)
	for i, x := range s.items {
		if x == m {
			s.items = append(s.items[:i], s.items[i+1:]...)
			break
		}
	}
	return s.last.Outcome, nil
}

// Toggle toggles a named item.
func (s *Session) Toggle(name string) (group.Outcome, error) {
	m, err := s.lookup(name)
	if err != nil {
		return "", err
	}
	return m.item.Toggle(), nil
}

// Next, Prev and Step navigate the group.
func (s *Session) Next() group.Outcome { return s.group.Next() }

func (s *Session) Prev() group.Outcome { return s.group.Prev() }

func (s *Session) Step(n int) group.Outcome { return s.group.Step(n) }

// Set assigns the model. Names of by_id items stand for their ids.
func (s *Session) Set(values ...any) group.Outcome {
	resolved := make([]any, len(values))
	for i, v := range values {
		resolved[i] = v
		if name, ok := v.(string); ok {
			if m, ok := s.byName[name]; ok && m.spec.ByID {
				resolved[i] = m.item.ID()
			}
		}
	}
	return s.group.SetModel(resolved...)
}

// Configure applies a rules patch.
func (s *Session) Configure(p RulesPatch) group.Outcome {
	s.group.Configure(func(c *group.Config) {
		if p.Multiple != nil {
			c.Multiple = *p.Multiple
		}
		if p.Mandatory != nil {
			c.Mandatory = *p.Mandatory
		}
		switch {
		case p.Unlimited:
			c.Max = nil
		case p.Max != nil:
			c.Max = group.Limit(*p.Max)
		}
	})
	return group.OutcomeApplied
}

// FormatMax renders a max limit, "none" when unset.
func FormatMax(limit *int) string {
	if limit == nil {
		return "none"
	}
	return strconv.Itoa(*limit)
}

// Apply runs one step. Expect steps are checked against the session.
func (s *Session) Apply(step Step) (group.Outcome, error) {
	s.log.Debug("apply", "step", step.String())

	switch step.Kind {
	case KindRegister:
		return s.Register(step.Item)
	case KindUnregister:
		return s.Unregister(step.Item.Name)
	case KindToggle:
		return s.Toggle(step.Item.Name)
	case KindNext:
		return s.Next(), nil
	case KindPrev:
		return s.Prev(), nil
	case KindStep:
		return s.Step(step.N), nil
	case KindSet:
		return s.Set(step.Values...), nil
	case KindConfigure:
		return s.Configure(step.Patch), nil
	case KindExpect:
		return "", s.Check(step.Expect)
	}
	return "", unknownKind(string(step.Kind))
}

// Check verifies an expectation and resets the emitted list.
func (s *Session) Check(e Expect) error {
	emitted := s.emitted
	s.emitted = nil

	var problems []string
	if e.Selection != nil {
		got := s.Model()
		if !sameValues(got, *e.Selection) {
			problems = append(problems, fmt.Sprintf("selection = %s, want %s", formatValues(got), formatValues(*e.Selection)))
		}
	}
	if e.Emitted != nil {
		got := make([][]any, len(emitted))
		for i, m := range emitted {
			got[i] = s.display(m)
		}
		if !sameEmitted(got, *e.Emitted) {
			problems = append(problems, fmt.Sprintf("emitted = %s, want %s", formatEmitted(got), formatEmitted(*e.Emitted)))
		}
	}
	if e.Selected != nil {
		got := s.SelectedNames()
		if !reflect.DeepEqual(nonNil(got), nonNil(*e.Selected)) {
			problems = append(problems, fmt.Sprintf("selected = %v, want %v", got, *e.Selected))
		}
	}
	if e.Outcome != "" && string(s.last.Outcome) != e.Outcome {
		problems = append(problems, fmt.Sprintf("outcome = %s, want %s", s.last.Outcome, e.Outcome))
	}

	if len(problems) == 0 {
		return nil
	}
	err := kiterrors.New("G031").WithDetail(problems[0])
	for _, p := range problems[1:] {
		err.Detail += "; " + p
	}
	return err
}

// Model returns the projected selection with by_id items shown by name.
func (s *Session) Model() []any {
	return s.display(s.group.Model())
}

// Items returns the live items in registration order.
func (s *Session) Items() []ItemState {
	out := make([]ItemState, 0, len(s.items))
	for _, m := range s.items {
		out = append(out, ItemState{
			Name:     m.spec.Name,
			Value:    m.item.Value(),
			ByID:     m.spec.ByID,
			Selected: m.item.IsSelected(),
		})
	}
	return out
}

// SelectedNames returns the names of selected items in registration order.
func (s *Session) SelectedNames() []string {
	var names []string
	for _, m := range s.items {
		if m.item.IsSelected() {
			names = append(names, m.spec.Name)
		}
	}
	return names
}

// Config returns the current rules.
func (s *Session) Config() group.Config {
	return s.group.Config()
}

// LastEvent returns the most recent group event.
func (s *Session) LastEvent() group.Event {
	return s.last
}

// Names returns the live item names in registration order.
func (s *Session) Names() []string {
	names := make([]string, len(s.items))
	for i, m := range s.items {
		names[i] = m.spec.Name
	}
	return names
}

func (s *Session) lookup(name string) (*member, error) {
	if m, ok := s.byName[name]; ok {
		return m, nil
	}
	err := kiterrors.New("G032").WithDetailf("unknown item %q", name)
	if sug := suggest(name, s.Names()); sug != "" {
		err.WithSuggestion("did you mean " + sug + "?")
	}
	return nil, err
}

// display replaces item ids in a model with item names.
func (s *Session) display(m group.Model) []any {
	out := make([]any, len(m))
	for i, v := range m {
		out[i] = v
		if id, ok := v.(group.ID); ok {
			for _, x := range s.items {
				if x.item.ID() == id {
					out[i] = x.spec.Name
					break
				}
			}
		}
	}
	return out
}

func sameValues(a, b []any) bool {
	if len(a) != len(b) {
		return false
	}
	for i := range a {
		if !reflect.DeepEqual(a[i], b[i]) {
			return false
		}
	}
	return true
}

func sameEmitted(a, b [][]any) bool {
	if len(a) != len(b) {
		return false
	}
	for i := range a {
		if !sameValues(a[i], b[i]) {
			return false
		}
	}
	return true
}

func formatEmitted(list [][]any) string {
	out := "["
	for i, values := range list {
		if i > 0 {
			out += ", "
		}
		out += formatValues(values)
	}
	return out + "]"
}

func nonNil(s []string) []string {
	if s == nil {
		return []string{}
	}
	return s
}
