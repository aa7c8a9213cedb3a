package reactive

// Context passes a value down an Owner tree without threading it through
// every constructor. Create one with CreateContext, publish a value on an
// owner with Provide, and read it from any descendant with Use or Lookup.
//
// Example:
//
//	var ThemeContext = reactive.CreateContext("light")
//
//	root := reactive.NewOwner(nil)
//	ThemeContext.Provide(root, "dark")
//
//	child := reactive.NewOwner(root)
//	ThemeContext.Use(child) // "dark"
type Context[T any] struct {
	// key uniquely identifies this context in the owner value map.
	key any

	// defaultValue is returned by Use when no provider is found.
	defaultValue T
}

// contextKey wraps Context to create a unique key type.
type contextKey[T any] struct {
	ctx *Context[T]
}

// CreateContext creates a new context with the given default value.
func CreateContext[T any](defaultValue T) *Context[T] {
	ctx := &Context[T]{
		defaultValue: defaultValue,
	}
	ctx.key = contextKey[T]{ctx: ctx}
	return ctx
}

// Provide publishes value on owner for owner and its descendants.
func (c *Context[T]) Provide(owner *Owner, value T) {
	if owner == nil {
		return
	}
	owner.SetValue(c.key, value)
}

// Lookup returns the value from the nearest providing ancestor of owner
// (owner included). ok is false when no provider is found.
func (c *Context[T]) Lookup(owner *Owner) (value T, ok bool) {
	if owner == nil {
		return c.defaultValue, false
	}
	raw := owner.GetValue(c.key)
	if raw == nil {
		return c.defaultValue, false
	}
	typed, ok := raw.(T)
	if !ok {
		return c.defaultValue, false
	}
	return typed, true
}

// Use is Lookup without the ok flag: it falls back to the default value.
func (c *Context[T]) Use(owner *Owner) T {
	v, _ := c.Lookup(owner)
	return v
}

// Default returns the default value for this context.
func (c *Context[T]) Default() T {
	return c.defaultValue
}
