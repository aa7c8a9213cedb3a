package reactive

import (
	"sync"
	"testing"
)

func TestBatchDefersNotifications(t *testing.T) {
	a := NewSignal(0)
	b := NewSignal(0)

	var observed [][2]int
	record := func() { observed = append(observed, [2]int{a.Get(), b.Get()}) }
	a.Watch(record)
	b.Watch(record)

	Batch(func() {
		a.Set(1)
		if len(observed) != 0 {
			t.Errorf("notification fired inside batch: %v", observed)
		}
		b.Set(2)
	})

	// Both subscriptions fire once, after both writes.
	if len(observed) != 2 {
		t.Fatalf("expected 2 notifications, got %d", len(observed))
	}
	for _, o := range observed {
		if o != [2]int{1, 2} {
			t.Errorf("observer saw intermediate state %v", o)
		}
	}
}

func TestBatchDeduplicates(t *testing.T) {
	s := NewSignal(0)

	notified := 0
	s.Watch(func() { notified++ })

	Batch(func() {
		s.Set(1)
		s.Set(2)
		s.Set(3)
	})

	if notified != 1 {
		t.Errorf("expected 1 notification, got %d", notified)
	}
}

func TestBatchNested(t *testing.T) {
	s := NewSignal(0)

	notified := 0
	s.Watch(func() { notified++ })

	Batch(func() {
		Batch(func() {
			s.Set(1)
		})
		if notified != 0 {
			t.Errorf("inner batch should not flush, got %d", notified)
		}
		if !InBatch() {
			t.Error("expected InBatch inside outer batch")
		}
	})

	if notified != 1 {
		t.Errorf("expected 1 notification, got %d", notified)
	}
	if InBatch() {
		t.Error("batch state should be cleared after the outer batch")
	}
}

func TestBatchIsPerGoroutine(t *testing.T) {
	s := NewSignal(0)

	var mu sync.Mutex
	notified := 0
	s.Watch(func() {
		mu.Lock()
		notified++
		mu.Unlock()
	})

	Batch(func() {
		var wg sync.WaitGroup
		wg.Add(1)
		go func() {
			defer wg.Done()
			s.Set(1) // not batching on this goroutine: fires immediately
		}()
		wg.Wait()

		mu.Lock()
		defer mu.Unlock()
		if notified != 1 {
			t.Errorf("write on another goroutine should notify immediately, got %d", notified)
		}
	})
}
