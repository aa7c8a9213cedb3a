// Package errors provides structured, actionable error messages for groupkit.
//
// Every error carries a stable code (e.g. "G001") that maps to:
//   - a category (runtime, config, persist, scenario, server, cli)
//   - a short message describing the error
//   - a detailed explanation
//
// Errors built from the same code compare equal under errors.Is, so callers
// can test against exported sentinels without string matching:
//
//	err := errors.New("G001").
//	    WithDetail(`no group was provided for key "tabs"`).
//	    WithSuggestion("Call g.Provide(owner, key) on an ancestor owner")
//
//	fmt.Println(err.Format())
//	// Output:
//	// ERROR G001: Missing group context
//	//
//	//   no group was provided for key "tabs"
//	//
//	//   Hint: Call g.Provide(owner, key) on an ancestor owner
package errors
