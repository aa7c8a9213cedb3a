package errors

// ErrorTemplate defines a registered error type.
type ErrorTemplate struct {
	Category Category
	Message  string
	Detail   string
}

// registry maps error codes to their templates.
var registry = map[string]ErrorTemplate{
	// ============================================
	// Runtime Errors (G001-G009)
	// ============================================

	"G001": {
		Category: CategoryRuntime,
		Message:  "Missing group context",
		Detail:   "A group item was created without an enclosing group. Pass the group explicitly or provide it on an ancestor owner.",
	},
	"G002": {
		Category: CategoryRuntime,
		Message:  "Missing host instance",
		Detail:   "A group item was created outside any host owner. The owner supplies the item's identity and its unmount hook.",
	},
	"G003": {
		Category: CategoryRuntime,
		Message:  "Uncomparable item value",
		Detail:   "Item values are compared with ==. Slices, maps and functions cannot be used as item values.",
	},

	// ============================================
	// Config Errors (G010-G019)
	// ============================================

	"G010": {
		Category: CategoryConfig,
		Message:  "Invalid configuration",
		Detail:   "The configuration file failed validation.",
	},
	"G011": {
		Category: CategoryConfig,
		Message:  "Config file not readable",
		Detail:   "The configuration file could not be read or parsed.",
	},

	// ============================================
	// Persistence Errors (G020-G029)
	// ============================================

	"G020": {
		Category: CategoryPersist,
		Message:  "Snapshot codec failure",
		Detail:   "A selection snapshot could not be encoded or decoded.",
	},
	"G021": {
		Category: CategoryPersist,
		Message:  "Snapshot store closed",
		Detail:   "An operation was attempted on a closed snapshot store.",
	},
	"G022": {
		Category: CategoryPersist,
		Message:  "Snapshot store failure",
		Detail:   "The snapshot backend failed to open, read, write or delete.",
	},
	"G023": {
		Category: CategoryPersist,
		Message:  "Snapshot migration failed",
		Detail:   "The snapshot schema could not be migrated.",
	},

	// ============================================
	// Scenario Errors (G030-G039)
	// ============================================

	"G030": {
		Category: CategoryScenario,
		Message:  "Invalid scenario",
		Detail:   "The scenario script could not be parsed.",
	},
	"G031": {
		Category: CategoryScenario,
		Message:  "Expectation failed",
		Detail:   "The observed selection did not match the scenario's expectation.",
	},
	"G032": {
		Category: CategoryScenario,
		Message:  "Unknown name",
		Detail:   "The command or item name is not known.",
	},

	// ============================================
	// Server Errors (G040-G049)
	// ============================================

	"G040": {
		Category: CategoryServer,
		Message:  "Unknown group",
		Detail:   "No group with this name is hosted by the server.",
	},
	"G041": {
		Category: CategoryServer,
		Message:  "Unknown item",
		Detail:   "No item with this id is registered in the group.",
	},
	"G042": {
		Category: CategoryServer,
		Message:  "Bad request",
		Detail:   "The request body or parameters are invalid.",
	},
	"G043": {
		Category: CategoryServer,
		Message:  "Group closed",
		Detail:   "The group's event loop has stopped.",
	},

	// ============================================
	// CLI Errors (G050-G059)
	// ============================================

	"G050": {
		Category: CategoryCLI,
		Message:  "Command failed",
		Detail:   "The command could not complete.",
	},
}

// Lookup returns the template registered for code.
func Lookup(code string) (ErrorTemplate, bool) {
	t, ok := registry[code]
	return t, ok
}
