package convert

import "fmt"

// HandlerError wraps an error returned by a Handler.
type HandlerError struct {
	// Event is the handler method that failed: "ontology", "class",
	// "property", or "instance".
	Event string
	// Path locates the model object the event was about.
	Path string
	Err  error
}

// Error returns the error message for HandlerError.
func (e *HandlerError) Error() string {
	return fmt.Sprintf("%s event for %s: %v", e.Event, e.Path, e.Err)
}

// Unwrap returns the handler's error.
func (e *HandlerError) Unwrap() error {
	return e.Err
}
