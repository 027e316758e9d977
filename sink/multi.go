package sink

import "github.com/CaliLuke/go-umlsem/convert"

// Multi forwards each event to every handler in order, stopping at the first
// error.
type Multi []convert.Handler

// OnOntology forwards ev.
func (m Multi) OnOntology(ev convert.OntologyEvent) error {
	for _, h := range m {
		if err := h.OnOntology(ev); err != nil {
			return err
		}
	}
	return nil
}

// OnClass forwards ev.
func (m Multi) OnClass(ev convert.ClassEvent) error {
	for _, h := range m {
		if err := h.OnClass(ev); err != nil {
			return err
		}
	}
	return nil
}

// OnProperty forwards ev.
func (m Multi) OnProperty(ev convert.PropertyEvent) error {
	for _, h := range m {
		if err := h.OnProperty(ev); err != nil {
			return err
		}
	}
	return nil
}

// OnInstance forwards ev.
func (m Multi) OnInstance(ev convert.InstanceEvent) error {
	for _, h := range m {
		if err := h.OnInstance(ev); err != nil {
			return err
		}
	}
	return nil
}
