// Package scenario scripts selection groups.
//
// A scenario is a YAML document that declares a group, its items and a list
// of steps. Steps drive the group and expect steps check it:
//
//	name: tabs
//	config:
//	  mandatory: true
//	items:
//	  - name: one
//	  - name: two
//	steps:
//	  - toggle: two
//	  - expect:
//	      selection: [two]
//	      emitted: [[one], [two]]
//	  - next
//	  - expect:
//	      selected: [one]
//
// Items are registered in order when the session starts. An item's value
// defaults to its name; by_id items are selected by their id instead and
// are shown by name.
//
// The same steps are available as one-line commands through ParseCommand,
// which the REPL and the terminal playground use.
package scenario
