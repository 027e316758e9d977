package identity

import "fmt"

// StageError is returned when an assignment pass is run before the pass it
// depends on, or run twice.
type StageError struct {
	Op   string
	Want Stage
	Got  Stage
}

// Error returns the error message for StageError.
func (e *StageError) Error() string {
	return fmt.Sprintf("identity: %s requires stage %s, assigner is at %s", e.Op, e.Want, e.Got)
}
