package reactive

import (
	"sync"
	"sync/atomic"
)

// Owner represents a host scope (a mounted component, a connection, a test).
// When an Owner is disposed, its child owners are disposed and its cleanups
// run. Owners form a hierarchy that mirrors the host's component tree, and
// carry context values visible to descendants.
type Owner struct {
	id uint64

	// parent is nil for a root owner.
	parent *Owner

	children   []*Owner
	childrenMu sync.Mutex

	// cleanups are registered via OnCleanup and run in reverse order.
	cleanups   []func()
	cleanupsMu sync.Mutex

	values   map[any]any
	valuesMu sync.RWMutex

	disposed atomic.Bool
}

// NewOwner creates a new Owner with the given parent.
// The new Owner is registered as a child of the parent.
// If parent is nil, creates a root Owner.
func NewOwner(parent *Owner) *Owner {
	o := &Owner{
		id:     nextID(),
		parent: parent,
	}

	if parent != nil {
		parent.addChild(o)
	}

	return o
}

// ID returns the unique identifier for this Owner. IDs are never reused.
func (o *Owner) ID() uint64 {
	return o.id
}

// Parent returns the parent Owner, or nil for a root Owner.
func (o *Owner) Parent() *Owner {
	return o.parent
}

// IsDisposed reports whether this Owner has been disposed.
func (o *Owner) IsDisposed() bool {
	return o.disposed.Load()
}

// Children returns a snapshot of the live child owners.
func (o *Owner) Children() []*Owner {
	o.childrenMu.Lock()
	defer o.childrenMu.Unlock()
	return append([]*Owner(nil), o.children...)
}

func (o *Owner) addChild(child *Owner) {
	o.childrenMu.Lock()
	defer o.childrenMu.Unlock()
	o.children = append(o.children, child)
}

func (o *Owner) removeChild(child *Owner) {
	o.childrenMu.Lock()
	defer o.childrenMu.Unlock()

	for i, c := range o.children {
		if c == child {
			o.children = append(o.children[:i], o.children[i+1:]...)
			return
		}
	}
}

// OnCleanup registers fn to run when this Owner is disposed.
// If the Owner is already disposed, fn runs immediately.
func (o *Owner) OnCleanup(fn func()) {
	if o.disposed.Load() {
		fn()
		return
	}

	o.cleanupsMu.Lock()
	defer o.cleanupsMu.Unlock()
	o.cleanups = append(o.cleanups, fn)
}

// Dispose disposes children (last created first), then runs cleanups in
// reverse registration order. Dispose is idempotent.
func (o *Owner) Dispose() {
	if o.disposed.Swap(true) {
		return
	}

	if o.parent != nil {
		o.parent.removeChild(o)
	}

	o.childrenMu.Lock()
	children := o.children
	o.children = nil
	o.childrenMu.Unlock()

	for i := len(children) - 1; i >= 0; i-- {
		children[i].Dispose()
	}

	o.cleanupsMu.Lock()
	cleanups := o.cleanups
	o.cleanups = nil
	o.cleanupsMu.Unlock()

	for i := len(cleanups) - 1; i >= 0; i-- {
		cleanups[i]()
	}
}

// SetValue sets a context value on this Owner.
func (o *Owner) SetValue(key, value any) {
	o.valuesMu.Lock()
	defer o.valuesMu.Unlock()

	if o.values == nil {
		o.values = make(map[any]any)
	}
	o.values[key] = value
}

// GetValue retrieves a value from this Owner or its nearest ancestor that has it.
func (o *Owner) GetValue(key any) any {
	o.valuesMu.RLock()
	if val, ok := o.values[key]; ok {
		o.valuesMu.RUnlock()
		return val
	}
	o.valuesMu.RUnlock()

	if o.parent != nil {
		return o.parent.GetValue(key)
	}

	return nil
}
