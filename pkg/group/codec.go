package group

import "reflect"

// ID identifies a registered item. Items created through NewItem use their
// host owner's ID, which is unique for the process lifetime.
type ID uint64

// Entry is one registered item as the group sees it.
type Entry struct {
	ID ID

	// Value is the item's selectable value. When nil, ID is selected instead.
	Value any
}

// key returns the value the entry contributes to a Model.
func (e Entry) key() any {
	if e.Value != nil {
		return e.Value
	}
	return e.ID
}

// Model is the externally bound selection: item values (or ids for items
// without a value) in registration order. A single-select group projects it
// to at most one element.
type Model []any

// First returns the first value of the model, or nil when it is empty.
func (m Model) First() any {
	if len(m) == 0 {
		return nil
	}
	return m[0]
}

// Contains reports whether v is one of the model's values.
func (m Model) Contains(v any) bool {
	for _, x := range m {
		if sameValue(x, v) {
			return true
		}
	}
	return false
}

// Clone returns a copy of the model that shares no backing array.
func (m Model) Clone() Model {
	if m == nil {
		return nil
	}
	return append(Model(nil), m...)
}

// IDsFromModel resolves a model to item ids in registration order. An item
// matches when its non-nil value is in the model, or when its ID is.
func IDsFromModel(items []Entry, model Model) []ID {
	var ids []ID
	for _, item := range items {
		if (item.Value != nil && model.Contains(item.Value)) || model.Contains(item.ID) {
			ids = append(ids, item.ID)
		}
	}
	return ids
}

// ModelFromIDs projects ids to a model: the value (or ID) of each item whose
// ID is in ids, in registration order. When multiple is false the result
// holds at most the first match.
func ModelFromIDs(items []Entry, ids []ID, multiple bool) Model {
	model := Model{}
	for _, item := range items {
		if !containsID(ids, item.ID) {
			continue
		}
		model = append(model, item.key())
		if !multiple {
			break
		}
	}
	return model
}

func containsID(ids []ID, id ID) bool {
	for _, x := range ids {
		if x == id {
			return true
		}
	}
	return false
}

func removeID(ids []ID, id ID) []ID {
	out := make([]ID, 0, len(ids))
	for _, x := range ids {
		if x != id {
			out = append(out, x)
		}
	}
	return out
}

func indexOf(items []Entry, id ID) int {
	for i, item := range items {
		if item.ID == id {
			return i
		}
	}
	return -1
}

// sameValue compares a and b with == without panicking on uncomparable values.
func sameValue(a, b any) bool {
	if a == nil || b == nil {
		return a == nil && b == nil
	}
	if reflect.TypeOf(a) != reflect.TypeOf(b) {
		return false
	}
	if !reflect.ValueOf(a).Comparable() {
		return false
	}
	return a == b
}

// isComparable reports whether v can be used as an item value.
func isComparable(v any) bool {
	if v == nil {
		return true
	}
	return reflect.ValueOf(v).Comparable()
}
