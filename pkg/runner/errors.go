package runner

import (
	"errors"
	"fmt"
)

var (
	errMissingTarget   = errors.New("missing target")
	errMissingSelector = errors.New("missing selector")
)

// NavigationError is returned when the page could not be loaded.
type NavigationError struct {
	URL string
	Err error
}

func (e *NavigationError) Error() string {
	return fmt.Sprintf("failed to navigate to %s: %v", e.URL, e.Err)
}

// Unwrap returns the underlying error
func (e *NavigationError) Unwrap() error {
	return e.Err
}

// ActionError is returned when an action cannot be parsed or its target
// element cannot be found.
type ActionError struct {
	Action string
	Err    error
}

func (e *ActionError) Error() string {
	return fmt.Sprintf("action %q failed: %v", e.Action, e.Err)
}

// Unwrap returns the underlying error
func (e *ActionError) Unwrap() error {
	return e.Err
}

// UnsupportedActionError is returned for an action verb the runner does
// not know.
type UnsupportedActionError struct {
	Verb string
}

func (e *UnsupportedActionError) Error() string {
	return fmt.Sprintf("unsupported action verb %q (supported: %s, %s)", e.Verb, VerbClick, VerbType)
}
