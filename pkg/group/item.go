package group

import (
	"sync"

	kiterrors "github.com/vango-dev/groupkit/internal/errors"
	"github.com/vango-dev/groupkit/pkg/reactive"
)

// ItemOption configures an Item.
type ItemOption func(*itemConfig)

type itemConfig struct {
	value any
}

// WithValue sets the item's selectable value. Without it the item is
// selected by its ID.
func WithValue(v any) ItemOption {
	return func(c *itemConfig) {
		c.value = v
	}
}

// Item is a group member bound to a host owner. It registers with its group
// on creation and unregisters when the owner is disposed.
type Item struct {
	id    ID
	group *Group

	selected *reactive.Memo[bool]

	once sync.Once
}

// NewItem registers a new member of g owned by owner. The item's ID is the
// owner's ID.
func NewItem(owner *reactive.Owner, g *Group, opts ...ItemOption) (*Item, error) {
	if owner == nil {
		return nil, kiterrors.New("G002").
			WithSuggestion("Create the item inside a reactive.Owner")
	}
	if g == nil {
		return nil, kiterrors.New("G001").
			WithSuggestion("Pass the group to NewItem or provide it on an ancestor owner")
	}

	cfg := itemConfig{}
	for _, opt := range opts {
		opt(&cfg)
	}
	if !isComparable(cfg.value) {
		return nil, kiterrors.New("G003").WithDetailf("value of type %T", cfg.value)
	}

	item := &Item{
		id:    ID(owner.ID()),
		group: g,
	}
	g.Register(Entry{ID: item.id, Value: cfg.value})

	item.selected = reactive.NewMemo(func() bool {
		return g.IsSelected(item.id)
	}, g.model, g.items, g.config)

	owner.OnCleanup(item.Dispose)
	return item, nil
}

// ID returns the item's identity.
func (i *Item) ID() ID {
	return i.id
}

// Group returns the group the item belongs to.
func (i *Item) Group() *Group {
	return i.group
}

// IsSelected reports whether the item is currently selected.
func (i *Item) IsSelected() bool {
	return i.selected.Get()
}

// Watch calls fn with the new selection state whenever it changes.
func (i *Item) Watch(fn func(selected bool)) (cancel func()) {
	return i.selected.Subscribe(fn)
}

// Toggle toggles the item in its group.
func (i *Item) Toggle() Outcome {
	return i.group.Toggle(i.id)
}

// Value returns the item's current value, or nil once unregistered.
func (i *Item) Value() any {
	for _, e := range i.group.items.Get() {
		if e.ID == i.id {
			return e.Value
		}
	}
	return nil
}

// SetValue changes the item's value. Selection is re-derived from the group model.
func (i *Item) SetValue(v any) error {
	if err := i.group.SetItemValue(i.id, v); err != nil {
		return kiterrors.New("G003").WithDetailf("value of type %T", v)
	}
	return nil
}

// Dispose unregisters the item. It runs when the owner is disposed and is
// safe to call more than once.
func (i *Item) Dispose() {
	i.once.Do(func() {
		i.group.Unregister(i.id)
		i.selected.Dispose()
	})
}

// Key names a group slot in an owner tree.
type Key struct {
	name string
	ctx  *reactive.Context[*Group]
}

// NewKey creates a key. Two keys never collide, even with the same name.
func NewKey(name string) *Key {
	return &Key{
		name: name,
		ctx:  reactive.CreateContext[*Group](nil),
	}
}

// String returns the key name.
func (k *Key) String() string {
	return k.name
}

// Provide publishes g under key for owner and its descendants.
func (g *Group) Provide(owner *reactive.Owner, key *Key) {
	key.ctx.Provide(owner, g)
}

// Lookup finds the group provided under key on owner or its nearest ancestor.
func Lookup(owner *reactive.Owner, key *Key) (*Group, bool) {
	g, ok := key.ctx.Lookup(owner)
	return g, ok && g != nil
}

// Use creates an item in the group provided under key above owner.
func Use(owner *reactive.Owner, key *Key, opts ...ItemOption) (*Item, error) {
	if owner == nil {
		return nil, kiterrors.New("G002").
			WithSuggestion("Create the item inside a reactive.Owner")
	}
	g, ok := Lookup(owner, key)
	if !ok {
		return nil, kiterrors.New("G001").
			WithDetailf("no group provided for key %q", key.String()).
			WithSuggestion("Call Group.Provide on an ancestor owner")
	}
	return NewItem(owner, g, opts...)
}
