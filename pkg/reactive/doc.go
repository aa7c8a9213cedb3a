// Package reactive provides the small set of reactive primitives groupkit hosts
// are built on: signals, memos, batches, owners and owner-scoped contexts.
//
// Unlike a full component framework, dependencies are explicit. A Signal or
// Memo notifies its subscribers synchronously after its value changes, and a
// Memo names the sources it derives from when it is created:
//
//	count := reactive.NewSignal(0)
//	even := reactive.NewMemo(func() bool { return count.Get()%2 == 0 }, count)
//	stop := even.Subscribe(func(v bool) { fmt.Println("even:", v) })
//	defer stop()
//
//	count.Set(1) // prints "even: false"
//
// # Batching
//
// Batch defers notifications until the outermost batch returns, so observers
// never see a half-applied multi-signal update:
//
//	reactive.Batch(func() {
//	    items.Set(next)
//	    selection.Set(sel)
//	})
//
// # Owners
//
// An Owner is a lifecycle scope. Cleanups registered with OnCleanup run when the
// owner (or any ancestor) is disposed, children first. Owners also carry
// context values that descendants can look up with a Context.
package reactive
