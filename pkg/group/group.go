package group

import (
	"log/slog"

	"github.com/vango-dev/groupkit/pkg/reactive"
)

// Config holds the group rules. It is read at every operation, so changes
// made through SetConfig or Configure apply to the next transition. Changing
// the config never rewrites the current selection.
type Config struct {
	// Multiple allows more than one selected item.
	Multiple bool

	// Mandatory keeps at least one item selected while items exist.
	Mandatory bool

	// Max caps the selection when items are added to it. nil means no
	// limit; a limit of 0 refuses every addition.
	Max *int
}

// Limit returns a Max value of n.
//
//	group.Config{Multiple: true, Max: group.Limit(2)}
func Limit(n int) *int {
	return &n
}

// clone copies Max so callers never share the stored limit.
func (c Config) clone() Config {
	if c.Max != nil {
		c.Max = Limit(*c.Max)
	}
	return c
}

// Option configures a Group.
type Option func(*Group)

// WithName names the group in logs and events.
func WithName(name string) Option {
	return func(g *Group) {
		g.name = name
	}
}

// WithLogger sets the group logger. Defaults to slog.Default().
func WithLogger(logger *slog.Logger) Option {
	return func(g *Group) {
		if logger != nil {
			g.log = logger
		}
	}
}

// WithObserver adds an observer that receives an Event after every transition.
func WithObserver(o Observer) Option {
	return func(g *Group) {
		if o != nil {
			g.observers = append(g.observers, o)
		}
	}
}

// WithModel sets the initial selection model. Values are resolved against
// items as they register.
func WithModel(values ...any) Option {
	return func(g *Group) {
		g.initial = Model(values).Clone()
	}
}

// WithOwner ties the group's lifetime to owner: the group is disposed with it.
func WithOwner(owner *reactive.Owner) Option {
	return func(g *Group) {
		g.owner = owner
	}
}

// Group is a selection group. Create one with New.
type Group struct {
	name      string
	log       *slog.Logger
	observers []Observer
	owner     *reactive.Owner
	initial   Model

	config *reactive.Signal[Config]
	items  *reactive.Signal[[]Entry]
	model  *reactive.Signal[Model]

	// selection is the projected model, deduplicated for OnChange.
	selection *reactive.Memo[Model]
}

// New creates a group with the given rules.
func New(cfg Config, opts ...Option) *Group {
	g := &Group{
		name: "group",
	}
	for _, opt := range opts {
		opt(g)
	}
	if g.log == nil {
		g.log = slog.Default()
	}
	g.log = g.log.With("component", "group", "group", g.name)

	g.config = reactive.NewSignal(cfg.clone())
	g.items = reactive.NewSignal[[]Entry](nil).WithEquals(sameEntries)
	g.model = reactive.NewSignal(normalize(g.initial)).WithEquals(sameModel)
	g.selection = reactive.NewMemo(g.project, g.model, g.items, g.config).WithEquals(sameModel)

	if g.owner != nil {
		g.owner.OnCleanup(g.Dispose)
	}
	return g
}

// Name returns the group name.
func (g *Group) Name() string {
	return g.name
}

// Config returns the current rules.
func (g *Group) Config() Config {
	return g.config.Get().clone()
}

// SetConfig replaces the rules.
func (g *Group) SetConfig(cfg Config) {
	g.config.Set(cfg.clone())
	g.emit(OpConfigure, 0, OutcomeApplied, ReasonNone)
}

// Configure edits the rules in place.
//
//	g.Configure(func(c *group.Config) { c.Max = group.Limit(2) })
func (g *Group) Configure(fn func(*Config)) {
	g.config.Update(func(c Config) Config {
		c = c.clone()
		fn(&c)
		return c
	})
	g.emit(OpConfigure, 0, OutcomeApplied, ReasonNone)
}

// Items returns the registered items in registration order.
func (g *Group) Items() []Entry {
	return append([]Entry(nil), g.items.Get()...)
}

// SelectedIDs returns the ids of the selected items in registration order.
func (g *Group) SelectedIDs() []ID {
	return g.selectedIDs(g.items.Get(), g.Config())
}

// IsSelected reports whether the item with the given id is selected.
func (g *Group) IsSelected(id ID) bool {
	return containsID(g.SelectedIDs(), id)
}

// Model returns the projected selection.
func (g *Group) Model() Model {
	return g.project()
}

// OnChange calls fn with the projected selection whenever it changes.
// Writes that leave the projection equal do not call fn.
func (g *Group) OnChange(fn func(Model)) (cancel func()) {
	return g.selection.Subscribe(fn)
}

// Register appends an item. A mandatory group with an empty selection
// selects the new item.
func (g *Group) Register(e Entry) {
	cfg := g.Config()
	items := append(g.Items(), e)

	reactive.Batch(func() {
		g.items.Set(items)
		if cfg.Mandatory && len(g.selectedIDs(items, cfg)) == 0 {
			g.write(items, []ID{e.ID}, cfg)
		}
	})

	g.emit(OpRegister, e.ID, OutcomeApplied, ReasonNone)
}

// Unregister removes an item. When the removed item was selected, it is
// dropped from the selection; a mandatory group left empty falls back to the
// last remaining item.
func (g *Group) Unregister(id ID) {
	current := g.items.Get()
	idx := indexOf(current, id)
	if idx < 0 {
		g.emit(OpUnregister, id, OutcomeUnchanged, ReasonUnknownItem)
		return
	}

	cfg := g.Config()
	selected := g.selectedIDs(current, cfg)

	pruned := make([]Entry, 0, len(current)-1)
	pruned = append(pruned, current[:idx]...)
	pruned = append(pruned, current[idx+1:]...)

	reactive.Batch(func() {
		g.items.Set(pruned)
		if !containsID(selected, id) {
			return
		}
		next := removeID(selected, id)
		if len(next) == 0 && cfg.Mandatory && len(pruned) > 0 {
			next = []ID{pruned[len(pruned)-1].ID}
		}
		g.write(pruned, next, cfg)
	})

	g.emit(OpUnregister, id, OutcomeApplied, ReasonNone)
}

// Toggle flips the selection of one item under the group rules. Changes
// that would empty a mandatory selection or exceed Max are refused and leave
// the selection untouched.
func (g *Group) Toggle(id ID) Outcome {
	items := g.items.Get()
	if indexOf(items, id) < 0 {
		return g.emit(OpToggle, id, OutcomeRefused, ReasonUnknownItem)
	}

	cfg := g.Config()
	selected := g.selectedIDs(items, cfg)
	isSelected := containsID(selected, id)

	var next []ID
	if cfg.Multiple {
		if cfg.Mandatory && isSelected && len(selected)-1 < 1 {
			return g.emit(OpToggle, id, OutcomeRefused, ReasonMandatory)
		}
		if cfg.Max != nil && !isSelected && len(selected)+1 > *cfg.Max {
			return g.emit(OpToggle, id, OutcomeRefused, ReasonMax)
		}
		if isSelected {
			next = removeID(selected, id)
		} else {
			next = append(append([]ID(nil), selected...), id)
		}
	} else {
		if isSelected && cfg.Mandatory {
			return g.emit(OpToggle, id, OutcomeRefused, ReasonMandatory)
		}
		if !isSelected {
			next = []ID{id}
		}
	}

	return g.apply(OpToggle, id, items, next, cfg, ReasonNone)
}

// Next selects the item after the first selected one, wrapping around.
func (g *Group) Next() Outcome {
	return g.navigate(OpNext, 1)
}

// Prev selects the item before the first selected one, wrapping around.
func (g *Group) Prev() Outcome {
	return g.navigate(OpPrev, len(g.items.Get())-1)
}

// Step moves the selection n items forward (negative n moves back), wrapping around.
func (g *Group) Step(n int) Outcome {
	return g.navigate(OpStep, n)
}

// SetModel assigns the selection from outside, as a bound model would.
// A single-select group keeps only the first value. In a mandatory group
// with items, a model that resolves to no item is refused. Max is not
// applied to assigned models.
func (g *Group) SetModel(values ...any) Outcome {
	cfg := g.Config()
	items := g.items.Get()

	model := normalize(Model(values).Clone())
	if !cfg.Multiple && len(model) > 1 {
		model = model[:1]
	}
	if cfg.Mandatory && len(items) > 0 && len(IDsFromModel(items, model)) == 0 {
		return g.emit(OpSetModel, 0, OutcomeRefused, ReasonNoMatch)
	}

	before := g.project()
	g.model.Set(model)
	return g.emit(OpSetModel, 0, changed(before, g.project()), ReasonNone)
}

// SetItemValue replaces the value of a registered item. The selection model
// is kept, so the item's selection is re-derived from its new value.
func (g *Group) SetItemValue(id ID, value any) error {
	if !isComparable(value) {
		return ErrUncomparableValue
	}
	g.items.Update(func(items []Entry) []Entry {
		idx := indexOf(items, id)
		if idx < 0 {
			return items
		}
		next := append([]Entry(nil), items...)
		next[idx].Value = value
		return next
	})
	return nil
}

// Dispose detaches the change subscription source. OnChange callbacks stop
// firing; reads keep working.
func (g *Group) Dispose() {
	g.selection.Dispose()
}

// getOffsetID returns the id offset items away from the first selected one.
// With nothing selected it returns the first item. ok is false for an empty group.
func (g *Group) getOffsetID(offset int) (id ID, ok bool) {
	items := g.items.Get()
	if len(items) == 0 {
		return 0, false
	}

	cfg := g.Config()
	if cfg.Multiple {
		g.log.Warn("navigation is not supported in multiple mode, the selection is replaced with one item")
	}

	selected := g.selectedIDs(items, cfg)
	if len(selected) == 0 {
		return items[0].ID, true
	}

	n := len(items)
	idx := ((indexOf(items, selected[0])+offset)%n + n) % n
	return items[idx].ID, true
}

func (g *Group) navigate(op Op, offset int) Outcome {
	id, ok := g.getOffsetID(offset)
	if !ok {
		return g.emit(op, 0, OutcomeRefused, ReasonEmptyGroup)
	}

	cfg := g.Config()
	reason := ReasonNone
	if cfg.Multiple {
		reason = ReasonNavigationInMultiple
	}
	return g.apply(op, id, g.items.Get(), []ID{id}, cfg, reason)
}

// apply writes the new selection and reports whether the projection changed.
func (g *Group) apply(op Op, id ID, items []Entry, next []ID, cfg Config, reason Reason) Outcome {
	before := g.project()
	g.write(items, next, cfg)
	return g.emit(op, id, changed(before, g.project()), reason)
}

// write stores ids as a model projected through items.
func (g *Group) write(items []Entry, ids []ID, cfg Config) {
	g.model.Set(ModelFromIDs(items, ids, cfg.Multiple))
}

// selectedIDs resolves the stored model against items. A single-select
// group reads at most one id even when the model holds more.
func (g *Group) selectedIDs(items []Entry, cfg Config) []ID {
	ids := IDsFromModel(items, g.model.Get())
	if !cfg.Multiple && len(ids) > 1 {
		ids = ids[:1]
	}
	return ids
}

func (g *Group) project() Model {
	cfg := g.Config()
	items := g.items.Get()
	return ModelFromIDs(items, g.selectedIDs(items, cfg), cfg.Multiple)
}

func (g *Group) emit(op Op, id ID, outcome Outcome, reason Reason) Outcome {
	model := g.project()
	ev := Event{
		Group:      g.name,
		Op:         op,
		ID:         id,
		Outcome:    outcome,
		Reason:     reason,
		Model:      model,
		Selected:   len(model),
		Registered: len(g.items.Get()),
	}

	g.log.Debug("group transition",
		"op", string(op),
		"id", uint64(id),
		"outcome", string(outcome),
		"reason", string(reason),
		"selected", ev.Selected)

	for _, o := range g.observers {
		o.ObserveGroup(ev)
	}
	return outcome
}

func changed(before, after Model) Outcome {
	if sameModel(before, after) {
		return OutcomeUnchanged
	}
	return OutcomeApplied
}

func normalize(m Model) Model {
	if m == nil {
		return Model{}
	}
	return m
}

func sameModel(a, b Model) bool {
	if len(a) != len(b) {
		return false
	}
	for i := range a {
		if !sameValue(a[i], b[i]) {
			return false
		}
	}
	return true
}

func sameEntries(a, b []Entry) bool {
	if len(a) != len(b) {
		return false
	}
	for i := range a {
		if a[i].ID != b[i].ID || !sameValue(a[i].Value, b[i].Value) {
			return false
		}
	}
	return true
}
