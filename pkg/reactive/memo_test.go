package reactive

import "testing"

func TestMemoRecomputesOnSourceChange(t *testing.T) {
	count := NewSignal(1)
	double := NewMemo(func() int { return count.Get() * 2 }, count)

	if double.Get() != 2 {
		t.Errorf("expected 2, got %d", double.Get())
	}

	count.Set(4)
	if double.Get() != 8 {
		t.Errorf("expected 8, got %d", double.Get())
	}
}

func TestMemoNotifiesOnlyOnChange(t *testing.T) {
	count := NewSignal(0)
	even := NewMemo(func() bool { return count.Get()%2 == 0 }, count)

	var seen []bool
	even.Subscribe(func(v bool) { seen = append(seen, v) })

	count.Set(2) // still even
	count.Set(3) // odd
	count.Set(5) // still odd
	count.Set(6) // even

	if len(seen) != 2 || seen[0] != false || seen[1] != true {
		t.Errorf("expected [false true], got %v", seen)
	}
}

func TestMemoMultipleSources(t *testing.T) {
	a := NewSignal(1)
	b := NewSignal(2)
	sum := NewMemo(func() int { return a.Get() + b.Get() }, a, b, nil)

	a.Set(10)
	b.Set(20)

	if sum.Get() != 30 {
		t.Errorf("expected 30, got %d", sum.Get())
	}
}

func TestMemoChain(t *testing.T) {
	base := NewSignal(1)
	double := NewMemo(func() int { return base.Get() * 2 }, base)
	quad := NewMemo(func() int { return double.Get() * 2 }, double)

	base.Set(3)
	if quad.Get() != 12 {
		t.Errorf("expected 12, got %d", quad.Get())
	}
}

func TestMemoDispose(t *testing.T) {
	count := NewSignal(1)
	memo := NewMemo(func() int { return count.Get() }, count)

	memo.Dispose()
	memo.Dispose()

	count.Set(2)
	if memo.Get() != 1 {
		t.Errorf("disposed memo should keep last value 1, got %d", memo.Get())
	}
	if !memo.IsDisposed() {
		t.Error("memo should report disposed")
	}
	if count.base.subscriberCount() != 0 {
		t.Errorf("disposed memo should unsubscribe from sources, got %d", count.base.subscriberCount())
	}
}
