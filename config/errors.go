package config

import "fmt"

// MappingError is returned for an invalid tag-to-predicate mapping.
type MappingError struct {
	// Set is "internal" or "external".
	Set    string
	Index  int
	Tag    string
	Reason string
	Err    error
}

// Error returns the error message for MappingError.
func (e *MappingError) Error() string {
	msg := fmt.Sprintf("%s mapping %d", e.Set, e.Index)
	if e.Tag != "" {
		msg += fmt.Sprintf(" (tag %q)", e.Tag)
	}
	msg += ": " + e.Reason
	if e.Err != nil {
		msg += ": " + e.Err.Error()
	}
	return msg
}

// Unwrap returns the underlying cause of the MappingError.
func (e *MappingError) Unwrap() error {
	return e.Err
}
