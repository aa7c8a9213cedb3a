// Package group implements a selection group: a dynamic, ordered set of
// items that share one source of truth for which of them are selected.
//
// A Group holds the registered items and the bound selection model. Items
// join with Register (or through an Item, which registers on creation and
// unregisters when its host owner is disposed) and the group keeps its
// invariants on every transition:
//
//   - the selection only ever names registered items
//   - a mandatory group with items always has a selection
//   - a single-select group selects at most one item
//   - a set Max caps the selection when items are added to it
//
// The selection is stored as a Model, the list of item values, and is
// translated to item ids through IDsFromModel on every read. Items without
// a value are selected by their ID.
//
// # Usage
//
//	root := reactive.NewOwner(nil)
//	tabs := group.New(group.Config{Mandatory: true}, group.WithName("tabs"))
//
//	one, _ := group.NewItem(reactive.NewOwner(root), tabs, group.WithValue("one"))
//	two, _ := group.NewItem(reactive.NewOwner(root), tabs, group.WithValue("two"))
//
//	tabs.Model()        // [one]
//	two.Toggle()
//	one.IsSelected()    // false
//
// Navigation (Next, Prev, Step) replaces the selection with a single item,
// wrapping around the registration order.
//
// # Concurrency
//
// A Group is not safe for concurrent mutation. Hosts that serve several
// goroutines serialize calls, for example through a single event loop.
// Observers and OnChange callbacks run synchronously after the transition
// that caused them has completed.
package group
