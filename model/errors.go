package model

import "fmt"

// ResolveError is returned when a model file references an element,
// relationship, or package that does not exist.
type ResolveError struct {
	// Kind is what was being looked up: "element", "relationship", "package".
	Kind string
	// Ref is the reference as written in the model file.
	Ref string
	// Context is the path of the object holding the reference.
	Context string
}

// Error returns the error message for ResolveError.
func (e *ResolveError) Error() string {
	return fmt.Sprintf("%s: unresolved %s reference %q", e.Context, e.Kind, e.Ref)
}

// BoundsError is returned when a diagram object's geometry is malformed.
type BoundsError struct {
	Element string
	Value   string
	Cause   error
}

// Error returns the error message for BoundsError.
func (e *BoundsError) Error() string {
	return fmt.Sprintf("bounds of %s %q: %v", e.Element, e.Value, e.Cause)
}

// Unwrap returns the underlying cause of the BoundsError.
func (e *BoundsError) Unwrap() error {
	return e.Cause
}
