package reactive

import (
	"runtime"
	"sync"
)

// batchState holds the nesting depth and queued notifications of one goroutine.
type batchState struct {
	depth   int
	pending []*subscription
}

// batchStates stores per-goroutine batch state. Entries only exist while a
// batch is open on that goroutine.
var batchStates sync.Map

// getGoroutineID returns the current goroutine's ID parsed from the stack header
// "goroutine <id> [...]".
func getGoroutineID() uint64 {
	var buf [64]byte
	n := runtime.Stack(buf[:], false)

	var id uint64
	for i := len("goroutine "); i < n; i++ {
		if buf[i] == ' ' {
			break
		}
		id = id*10 + uint64(buf[i]-'0')
	}
	return id
}

// queueIfBatching queues subs when a batch is open on this goroutine.
// Returns false when notifications should fire immediately.
func queueIfBatching(subs []*subscription) bool {
	v, ok := batchStates.Load(getGoroutineID())
	if !ok {
		return false
	}
	st := v.(*batchState)
	if st.depth == 0 {
		return false
	}
	st.pending = append(st.pending, subs...)
	return true
}

// Batch groups multiple writes into a single notification phase.
// Notifications queued inside fn are deduplicated by subscription and
// delivered once, in first-queued order, after the outermost batch returns.
// Batches nest.
//
// Example:
//
//	Batch(func() {
//	    items.Set(pruned)
//	    selection.Set(fallback)
//	})
//	// subscribers of both run once, after both writes
func Batch(fn func()) {
	gid := getGoroutineID()
	v, _ := batchStates.LoadOrStore(gid, &batchState{})
	st := v.(*batchState)
	st.depth++

	defer func() {
		st.depth--
		if st.depth > 0 {
			return
		}
		pending := st.pending
		st.pending = nil
		batchStates.Delete(gid)
		flush(pending)
	}()

	fn()
}

// InBatch reports whether a batch is open on the calling goroutine.
func InBatch() bool {
	v, ok := batchStates.Load(getGoroutineID())
	return ok && v.(*batchState).depth > 0
}

// flush delivers queued notifications once per subscription.
func flush(pending []*subscription) {
	if len(pending) == 0 {
		return
	}

	seen := make(map[uint64]bool, len(pending))
	for _, sub := range pending {
		if seen[sub.id] {
			continue
		}
		seen[sub.id] = true
		sub.notify()
	}
}
