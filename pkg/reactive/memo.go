package reactive

import (
	"sync"
	"sync/atomic"
)

// Memo is a derived value that recomputes whenever one of its sources changes.
// Subscribers are notified only when the recomputed value differs from the
// previous one, so a Memo can be used to narrow a broad source (a whole
// selection list) down to the one fact a subscriber cares about.
type Memo[T any] struct {
	base signalBase

	compute func() T

	value T
	mu    sync.RWMutex

	equal func(T, T) bool

	cancels  []func()
	disposed atomic.Bool
}

// NewMemo computes the initial value immediately and recomputes after any
// change of deps.
func NewMemo[T any](compute func() T, deps ...Source) *Memo[T] {
	m := &Memo[T]{
		base:    signalBase{id: nextID()},
		compute: compute,
	}
	m.value = compute()

	for _, dep := range deps {
		if dep == nil {
			continue
		}
		m.cancels = append(m.cancels, dep.Watch(m.recompute))
	}
	return m
}

// Get returns the memoized value.
func (m *Memo[T]) Get() T {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.value
}

// Subscribe calls fn with the new value whenever it changes.
func (m *Memo[T]) Subscribe(fn func(T)) (cancel func()) {
	return m.base.watch(func() { fn(m.Get()) })
}

// Watch implements Source.
func (m *Memo[T]) Watch(fn func()) (cancel func()) {
	return m.base.watch(fn)
}

// WithEquals configures a custom equality function and returns the memo.
func (m *Memo[T]) WithEquals(fn func(T, T) bool) *Memo[T] {
	m.equal = fn
	return m
}

// ID returns the unique identifier for this memo.
func (m *Memo[T]) ID() uint64 {
	return m.base.id
}

// Dispose detaches the memo from its sources. The last value stays readable.
func (m *Memo[T]) Dispose() {
	if m.disposed.Swap(true) {
		return
	}
	for _, cancel := range m.cancels {
		cancel()
	}
	m.cancels = nil
}

// IsDisposed reports whether Dispose has been called.
func (m *Memo[T]) IsDisposed() bool {
	return m.disposed.Load()
}

func (m *Memo[T]) recompute() {
	if m.disposed.Load() {
		return
	}

	next := m.compute()

	m.mu.Lock()
	changed := !m.equals(m.value, next)
	if changed {
		m.value = next
	}
	m.mu.Unlock()

	if changed {
		m.base.notifySubscribers()
	}
}

func (m *Memo[T]) equals(a, b T) bool {
	if m.equal != nil {
		return m.equal(a, b)
	}
	return defaultEquals(a, b)
}

var (
	_ Source = (*Memo[int])(nil)
	_ Source = (*Signal[int])(nil)
)
