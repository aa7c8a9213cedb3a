package errors

import "fmt"

// Category represents the type of error.
type Category string

const (
	CategoryRuntime  Category = "runtime"
	CategoryConfig   Category = "config"
	CategoryPersist  Category = "persist"
	CategoryScenario Category = "scenario"
	CategoryServer   Category = "server"
	CategoryCLI      Category = "cli"
)

// KitError is a structured error with a stable code, a hint and an optional cause.
type KitError struct {
	// Code is a unique error identifier (e.g., "G001").
	Code string

	// Category is the error type.
	Category Category

	// Message is a short description of the error.
	Message string

	// Detail is a longer explanation of the error.
	Detail string

	// Suggestion is a hint on how to fix the error.
	Suggestion string

	// Wrapped is the underlying error, if any.
	Wrapped error
}

// Error implements the error interface.
func (e *KitError) Error() string {
	msg := e.Message
	if e.Code != "" {
		msg = fmt.Sprintf("%s: %s", e.Code, e.Message)
	}
	if e.Detail != "" {
		msg += ": " + e.Detail
	}
	if e.Wrapped != nil {
		msg += ": " + e.Wrapped.Error()
	}
	return msg
}

// Unwrap returns the wrapped error for errors.Is/As support.
func (e *KitError) Unwrap() error {
	return e.Wrapped
}

// Is reports whether target is a KitError with the same code.
func (e *KitError) Is(target error) bool {
	t, ok := target.(*KitError)
	if !ok || t.Code == "" {
		return false
	}
	return t.Code == e.Code
}

// WithSuggestion adds a fix suggestion to the error.
func (e *KitError) WithSuggestion(s string) *KitError {
	e.Suggestion = s
	return e
}

// WithDetail adds a detailed explanation to the error.
func (e *KitError) WithDetail(d string) *KitError {
	e.Detail = d
	return e
}

// WithDetailf is WithDetail with a format string.
func (e *KitError) WithDetailf(format string, args ...any) *KitError {
	e.Detail = fmt.Sprintf(format, args...)
	return e
}

// Wrap wraps another error.
func (e *KitError) Wrap(err error) *KitError {
	e.Wrapped = err
	return e
}

// New creates a KitError from a registered error code.
// Every call returns a fresh value, so the With* helpers never mutate a sentinel.
func New(code string) *KitError {
	template, ok := registry[code]
	if !ok {
		return &KitError{
			Code:    code,
			Message: "Unknown error",
		}
	}
	return &KitError{
		Code:     code,
		Category: template.Category,
		Message:  template.Message,
	}
}

// Newf creates a new KitError with a formatted message (no code).
func Newf(category Category, format string, args ...any) *KitError {
	return &KitError{
		Category: category,
		Message:  fmt.Sprintf(format, args...),
	}
}

// FromError wraps a standard error in a KitError.
// A KitError passed in is returned unchanged.
func FromError(err error, code string) *KitError {
	if err == nil {
		return nil
	}
	if ke, ok := err.(*KitError); ok {
		return ke
	}
	return New(code).Wrap(err)
}

// CodeOf returns the code of the first KitError in err's chain, or "".
func CodeOf(err error) string {
	for err != nil {
		if ke, ok := err.(*KitError); ok {
			return ke.Code
		}
		u, ok := err.(interface{ Unwrap() error })
		if !ok {
			return ""
		}
		err = u.Unwrap()
	}
	return ""
}
