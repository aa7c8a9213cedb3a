package reactive

import (
	"reflect"
	"sync"
)

// Source is anything that can announce a change. Signals and memos are sources.
type Source interface {
	// Watch registers fn to run after every change and returns a function
	// that cancels the registration. Cancelling twice is a no-op.
	Watch(fn func()) (cancel func())
}

// subscription is one registered change callback.
type subscription struct {
	id     uint64
	notify func()
}

// signalBase provides type-erased subscriber management.
// It is embedded in Signal[T] and Memo[T] to share subscription logic.
type signalBase struct {
	id uint64

	// subs are notified in registration order.
	subs  []*subscription
	subMu sync.RWMutex
}

// watch adds a subscription and returns its cancel function.
func (s *signalBase) watch(fn func()) func() {
	sub := &subscription{id: nextID(), notify: fn}

	s.subMu.Lock()
	s.subs = append(s.subs, sub)
	s.subMu.Unlock()

	var once sync.Once
	return func() {
		once.Do(func() { s.unwatch(sub.id) })
	}
}

// unwatch removes the subscription with the given ID.
func (s *signalBase) unwatch(id uint64) {
	s.subMu.Lock()
	defer s.subMu.Unlock()

	for i, existing := range s.subs {
		if existing.id == id {
			s.subs = append(s.subs[:i], s.subs[i+1:]...)
			return
		}
	}
}

// subscriberCount returns the number of live subscriptions.
func (s *signalBase) subscriberCount() int {
	s.subMu.RLock()
	defer s.subMu.RUnlock()
	return len(s.subs)
}

// notifySubscribers notifies all subscribers that this source changed.
// Uses copy-before-notify so callbacks may subscribe or unsubscribe freely.
func (s *signalBase) notifySubscribers() {
	s.subMu.RLock()
	subs := make([]*subscription, len(s.subs))
	copy(subs, s.subs)
	s.subMu.RUnlock()

	if queueIfBatching(subs) {
		return
	}
	for _, sub := range subs {
		sub.notify()
	}
}

// Signal is a reactive value container.
// Set and Update notify subscribers only when the value actually changes.
type Signal[T any] struct {
	base signalBase

	value T
	mu    sync.RWMutex

	// equal decides whether a write is a change. nil uses defaultEquals.
	equal func(T, T) bool
}

// NewSignal creates a new signal with the given initial value.
func NewSignal[T any](initial T) *Signal[T] {
	return &Signal[T]{
		base:  signalBase{id: nextID()},
		value: initial,
	}
}

// Get returns the current value.
func (s *Signal[T]) Get() T {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.value
}

// Set updates the value and notifies subscribers if it changed.
func (s *Signal[T]) Set(value T) {
	s.mu.Lock()
	changed := !s.equals(s.value, value)
	if changed {
		s.value = value
	}
	s.mu.Unlock()

	if changed {
		s.base.notifySubscribers()
	}
}

// Update atomically reads and replaces the value.
func (s *Signal[T]) Update(fn func(T) T) {
	s.mu.Lock()
	oldValue := s.value
	newValue := fn(oldValue)
	changed := !s.equals(oldValue, newValue)
	if changed {
		s.value = newValue
	}
	s.mu.Unlock()

	if changed {
		s.base.notifySubscribers()
	}
}

// Subscribe calls fn with the new value after every change.
// The returned function cancels the subscription.
func (s *Signal[T]) Subscribe(fn func(T)) (cancel func()) {
	return s.base.watch(func() { fn(s.Get()) })
}

// Watch implements Source.
func (s *Signal[T]) Watch(fn func()) (cancel func()) {
	return s.base.watch(fn)
}

// WithEquals configures a custom equality function and returns the signal.
func (s *Signal[T]) WithEquals(fn func(T, T) bool) *Signal[T] {
	s.equal = fn
	return s
}

// ID returns the unique identifier for this signal.
func (s *Signal[T]) ID() uint64 {
	return s.base.id
}

func (s *Signal[T]) equals(a, b T) bool {
	if s.equal != nil {
		return s.equal(a, b)
	}
	return defaultEquals(a, b)
}

// defaultEquals uses == for common comparable kinds and reflect.DeepEqual otherwise.
// The comma-ok assertions keep interface-typed signals safe when a and b hold
// different dynamic types.
func defaultEquals[T any](a, b T) bool {
	switch av := any(a).(type) {
	case int:
		bv, ok := any(b).(int)
		return ok && av == bv
	case int64:
		bv, ok := any(b).(int64)
		return ok && av == bv
	case uint64:
		bv, ok := any(b).(uint64)
		return ok && av == bv
	case float64:
		bv, ok := any(b).(float64)
		return ok && av == bv
	case string:
		bv, ok := any(b).(string)
		return ok && av == bv
	case bool:
		bv, ok := any(b).(bool)
		return ok && av == bv
	default:
		return reflect.DeepEqual(a, b)
	}
}
