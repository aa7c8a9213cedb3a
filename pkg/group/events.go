package group

// Op names a group transition.
type Op string

const (
	OpRegister   Op = "register"
	OpUnregister Op = "unregister"
	OpToggle     Op = "toggle"
	OpNext       Op = "next"
	OpPrev       Op = "prev"
	OpStep       Op = "step"
	OpSetModel   Op = "set"
	OpConfigure  Op = "configure"
)

// Outcome tells what a transition did to the selection.
type Outcome string

const (
	// OutcomeApplied means the transition ran and the selection may have changed.
	OutcomeApplied Outcome = "applied"

	// OutcomeRefused means a group rule blocked the transition.
	OutcomeRefused Outcome = "refused"

	// OutcomeUnchanged means the transition ran but left the selection as it was.
	OutcomeUnchanged Outcome = "unchanged"
)

// Reason qualifies a refusal or an advisory.
type Reason string

const (
	ReasonNone Reason = ""

	// ReasonMandatory: the change would empty a mandatory selection.
	ReasonMandatory Reason = "mandatory"

	// ReasonMax: the change would exceed Config.Max.
	ReasonMax Reason = "max"

	// ReasonUnknownItem: the id is not registered.
	ReasonUnknownItem Reason = "unknown_item"

	// ReasonEmptyGroup: navigation on a group without items.
	ReasonEmptyGroup Reason = "empty_group"

	// ReasonNoMatch: an assigned model resolves to no item in a mandatory group.
	ReasonNoMatch Reason = "no_match"

	// ReasonNavigationInMultiple is an advisory: navigation in a multiple
	// group replaces the whole selection with one item.
	ReasonNavigationInMultiple Reason = "navigation_in_multiple"
)

// Event describes one completed transition.
type Event struct {
	// Group is the group's name (see WithName).
	Group string

	Op Op

	// ID is the item the transition targeted, or the item navigation landed
	// on. Zero for SetModel and Configure.
	ID ID

	Outcome Outcome
	Reason  Reason

	// Model is the projected selection after the transition.
	Model Model

	// Selected and Registered are the selection and item counts after the transition.
	Selected   int
	Registered int
}

// Observer receives an Event after every transition, including refused ones.
type Observer interface {
	ObserveGroup(Event)
}

// ObserverFunc adapts a function to the Observer interface.
type ObserverFunc func(Event)

// ObserveGroup calls f(e).
func (f ObserverFunc) ObserveGroup(e Event) { f(e) }
