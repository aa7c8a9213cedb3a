package reactive

import (
	"sync"
	"testing"
)

func TestSignalBasic(t *testing.T) {
	count := NewSignal(0)

	if count.Get() != 0 {
		t.Errorf("expected initial value 0, got %d", count.Get())
	}

	count.Set(5)
	if count.Get() != 5 {
		t.Errorf("expected value 5, got %d", count.Get())
	}

	count.Update(func(n int) int { return n * 2 })
	if count.Get() != 10 {
		t.Errorf("expected value 10, got %d", count.Get())
	}
}

func TestSignalSubscription(t *testing.T) {
	count := NewSignal(0)

	var seen []int
	cancel := count.Subscribe(func(v int) { seen = append(seen, v) })

	count.Set(1)
	count.Set(1) // same value should not notify
	count.Set(2)

	if len(seen) != 2 || seen[0] != 1 || seen[1] != 2 {
		t.Errorf("expected notifications [1 2], got %v", seen)
	}

	cancel()
	cancel() // second cancel is a no-op
	count.Set(3)
	if len(seen) != 2 {
		t.Errorf("cancelled subscription should not fire, got %v", seen)
	}
	if count.base.subscriberCount() != 0 {
		t.Errorf("expected 0 subscribers, got %d", count.base.subscriberCount())
	}
}

func TestSignalNotifiesInSubscriptionOrder(t *testing.T) {
	s := NewSignal("a")

	var order []string
	s.Watch(func() { order = append(order, "first") })
	s.Watch(func() { order = append(order, "second") })

	s.Set("b")

	if len(order) != 2 || order[0] != "first" || order[1] != "second" {
		t.Errorf("expected [first second], got %v", order)
	}
}

func TestSignalInterfaceValues(t *testing.T) {
	s := NewSignal[any]("one")

	notified := 0
	s.Watch(func() { notified++ })

	// Different dynamic types must compare unequal without panicking.
	s.Set(1)
	s.Set(1)
	s.Set("one")

	if notified != 2 {
		t.Errorf("expected 2 notifications, got %d", notified)
	}
}

func TestSignalWithEquals(t *testing.T) {
	s := NewSignal([]string{"a"}).WithEquals(func(a, b []string) bool {
		return len(a) == len(b)
	})

	notified := 0
	s.Watch(func() { notified++ })

	s.Set([]string{"b"})
	if notified != 0 {
		t.Errorf("custom equality should suppress notification, got %d", notified)
	}

	s.Set([]string{"a", "b"})
	if notified != 1 {
		t.Errorf("expected 1 notification, got %d", notified)
	}
}

func TestSignalSubscribeDuringNotify(t *testing.T) {
	s := NewSignal(0)

	late := 0
	s.Watch(func() {
		s.Watch(func() { late++ })
	})

	s.Set(1)
	if late != 0 {
		t.Errorf("subscriber added during notify should not see the same change, got %d", late)
	}

	s.Set(2)
	if late != 1 {
		t.Errorf("expected late subscriber to fire once, got %d", late)
	}
}

func TestSignalConcurrentAccess(t *testing.T) {
	s := NewSignal(0)

	var wg sync.WaitGroup
	for i := 0; i < 50; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			s.Update(func(n int) int { return n + 1 })
			_ = s.Get()
		}()
	}
	wg.Wait()

	if s.Get() != 50 {
		t.Errorf("expected 50, got %d", s.Get())
	}
}
