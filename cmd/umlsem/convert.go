package main

import (
	"context"
	"fmt"
	"io"
	"os"

	"github.com/fatih/color"
	"github.com/spf13/cobra"

	"github.com/CaliLuke/go-umlsem/convert"
	"github.com/CaliLuke/go-umlsem/identity"
	"github.com/CaliLuke/go-umlsem/model"
	"github.com/CaliLuke/go-umlsem/sink"
)

type convertFlags struct {
	model    string
	diagrams []string
	format   string
	out      string
	snapshot string
	compare  string
}

func newConvertCmd(a *app) *cobra.Command {
	f := &convertFlags{}
	cmd := &cobra.Command{
		Use:   "convert",
		Short: "Convert diagrams of a model",
		Long: "Convert assigns IRIs to every object of the model, then converts each selected\n" +
			"diagram (all diagrams by default) into the chosen output format.",
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return a.runConvert(cmd.Context(), f)
		},
	}
	cmd.Flags().StringVarP(&f.model, "model", "m", "", "model file (required)")
	cmd.Flags().StringSliceVarP(&f.diagrams, "diagram", "d", nil, "diagram name or GUID, repeatable (default: all)")
	cmd.Flags().StringVarP(&f.format, "format", "f", "nquads", "output format: nquads, sqlite, msgpack")
	cmd.Flags().StringVarP(&f.out, "out", "o", "", "output file (default: stdout; required for sqlite)")
	cmd.Flags().StringVar(&f.snapshot, "snapshot", "", "write the identity table snapshot to this file")
	cmd.Flags().StringVar(&f.compare, "compare", "", "warn about IRIs that changed since this snapshot")
	_ = cmd.MarkFlagRequired("model")
	return cmd
}

// tally counts the events of a run for the summary.
type tally struct {
	classes, properties, instances int
}

func (t *tally) OnOntology(convert.OntologyEvent) error { return nil }
func (t *tally) OnClass(convert.ClassEvent) error       { t.classes++; return nil }
func (t *tally) OnProperty(convert.PropertyEvent) error { t.properties++; return nil }
func (t *tally) OnInstance(convert.InstanceEvent) error { t.instances++; return nil }

// output is one open destination for converted events.
type output struct {
	handler func(d *model.Diagram) (convert.Handler, error)
	close   func() error
}

func (a *app) runConvert(ctx context.Context, f *convertFlags) error {
	if ctx == nil {
		ctx = context.Background()
	}
	m, table, err := a.load(f.model)
	if err != nil {
		return err
	}

	if f.compare != "" {
		if err := a.compareSnapshot(f.compare, table); err != nil {
			return err
		}
	}
	if f.snapshot != "" {
		if err := writeSnapshotFile(f.snapshot, table); err != nil {
			return err
		}
	}

	diagrams, err := selectDiagrams(m, f.diagrams)
	if err != nil {
		return err
	}

	out, err := a.openOutput(ctx, f)
	if err != nil {
		return err
	}

	t := &tally{}
	opts := a.cfg.ConvertOptions(a.logger)
	for _, d := range diagrams {
		h, err := out.handler(d)
		if err != nil {
			_ = out.close()
			return err
		}
		if err := convert.Convert(m, d, table, sink.Multi{h, t}, opts); err != nil {
			_ = out.close()
			return fmt.Errorf("convert %s: %w", d.Path(), err)
		}
	}
	if err := out.close(); err != nil {
		return err
	}

	a.summary(len(diagrams), t)
	return nil
}

func selectDiagrams(m *model.Model, names []string) ([]*model.Diagram, error) {
	if len(names) == 0 {
		all := m.Diagrams()
		if len(all) == 0 {
			return nil, fmt.Errorf("model has no diagrams")
		}
		return all, nil
	}
	out := make([]*model.Diagram, 0, len(names))
	for _, name := range names {
		d := m.FindDiagram(name)
		if d == nil {
			return nil, fmt.Errorf("diagram %q not found", name)
		}
		out = append(out, d)
	}
	return out, nil
}

func (a *app) openOutput(ctx context.Context, f *convertFlags) (*output, error) {
	switch f.format {
	case "sqlite":
		if f.out == "" {
			return nil, fmt.Errorf("--out is required for the sqlite format")
		}
		db, err := sink.OpenSQLite(f.out)
		if err != nil {
			return nil, fmt.Errorf("open %s: %w", f.out, err)
		}
		closeDB := func() error {
			sqlDB, err := db.DB()
			if err != nil {
				return err
			}
			return sqlDB.Close()
		}
		if err := sink.Migrate(ctx, db); err != nil {
			_ = closeDB()
			return nil, err
		}
		return &output{
			handler: func(d *model.Diagram) (convert.Handler, error) {
				s := sink.NewSQLite(ctx, db, d.Path())
				if err := s.Clear(); err != nil {
					return nil, fmt.Errorf("clear rows of %s: %w", d.Path(), err)
				}
				return s, nil
			},
			close: closeDB,
		}, nil

	case "nquads", "msgpack":
		w, closeFile, err := a.openWriter(f.out)
		if err != nil {
			return nil, err
		}
		if f.format == "msgpack" {
			rec := sink.NewRecorder(w)
			return &output{
				handler: func(*model.Diagram) (convert.Handler, error) { return rec, nil },
				close:   closeFile,
			}, nil
		}
		nq := sink.NewNQuads(w)
		return &output{
			handler: func(*model.Diagram) (convert.Handler, error) { return nq, nil },
			close: func() error {
				if err := nq.Close(); err != nil {
					_ = closeFile()
					return err
				}
				return closeFile()
			},
		}, nil

	default:
		return nil, fmt.Errorf("unknown format %q", f.format)
	}
}

func (a *app) openWriter(path string) (io.Writer, func() error, error) {
	if path == "" {
		return a.stdout, func() error { return nil }, nil
	}
	file, err := os.Create(path)
	if err != nil {
		return nil, nil, fmt.Errorf("error creating output: %w", err)
	}
	return file, file.Close, nil
}

func writeSnapshotFile(path string, table *identity.Table) error {
	file, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("error creating snapshot: %w", err)
	}
	if err := identity.WriteSnapshot(file, table.Snapshot()); err != nil {
		_ = file.Close()
		return err
	}
	return file.Close()
}

func (a *app) compareSnapshot(path string, table *identity.Table) error {
	file, err := os.Open(path)
	if err != nil {
		return fmt.Errorf("open snapshot: %w", err)
	}
	defer func() { _ = file.Close() }()

	prev, err := identity.ReadSnapshot(file)
	if err != nil {
		return fmt.Errorf("%s: %w", path, err)
	}
	for _, change := range prev.Diff(table.Snapshot()) {
		a.logger.Warn("IRI changed since snapshot", "change", change)
	}
	return nil
}

func (a *app) summary(diagrams int, t *tally) {
	switch a.color {
	case "on":
		color.NoColor = false
	case "off":
		color.NoColor = true
	}
	ok := color.New(color.FgGreen, color.Bold).SprintFunc()
	warn := color.New(color.FgYellow).SprintFunc()
	bad := color.New(color.FgRed).SprintFunc()

	_, _ = fmt.Fprintf(a.stderr, "%s %d diagram(s): %d classes, %d properties, %d instances",
		ok("converted"), diagrams, t.classes, t.properties, t.instances)
	if n := a.counts.warnings.Load(); n > 0 {
		_, _ = fmt.Fprintf(a.stderr, ", %s", warn(fmt.Sprintf("%d warnings", n)))
	}
	if n := a.counts.errors.Load(); n > 0 {
		_, _ = fmt.Fprintf(a.stderr, ", %s", bad(fmt.Sprintf("%d errors", n)))
	}
	_, _ = fmt.Fprintln(a.stderr)
}
