package sink

import (
	"errors"
	"fmt"
	"io"

	"github.com/vmihailenco/msgpack/v5"

	"github.com/CaliLuke/go-umlsem/convert"
)

// Recorder appends every event to a writer as one msgpack Record.
type Recorder struct {
	enc *msgpack.Encoder
}

// NewRecorder returns a Recorder writing to w.
func NewRecorder(w io.Writer) *Recorder {
	return &Recorder{enc: msgpack.NewEncoder(w)}
}

func (r *Recorder) write(rec Record) error {
	if err := r.enc.Encode(&rec); err != nil {
		return fmt.Errorf("record %s %s: %w", rec.Event, rec.Path, err)
	}
	return nil
}

// OnOntology records ev.
func (r *Recorder) OnOntology(ev convert.OntologyEvent) error { return r.write(FromOntology(ev)) }

// OnClass records ev.
func (r *Recorder) OnClass(ev convert.ClassEvent) error { return r.write(FromClass(ev)) }

// OnProperty records ev.
func (r *Recorder) OnProperty(ev convert.PropertyEvent) error { return r.write(FromProperty(ev)) }

// OnInstance records ev.
func (r *Recorder) OnInstance(ev convert.InstanceEvent) error { return r.write(FromInstance(ev)) }

// ReadRecords decodes every record written by a Recorder.
func ReadRecords(r io.Reader) ([]Record, error) {
	dec := msgpack.NewDecoder(r)
	var out []Record
	for {
		var rec Record
		if err := dec.Decode(&rec); err != nil {
			if errors.Is(err, io.EOF) {
				return out, nil
			}
			return out, fmt.Errorf("decode record %d: %w", len(out), err)
		}
		out = append(out, rec)
	}
}
