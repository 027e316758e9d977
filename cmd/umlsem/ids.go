package main

import (
	"bufio"
	"fmt"

	"github.com/spf13/cobra"
)

func newIDsCmd(a *app) *cobra.Command {
	var modelPath string
	cmd := &cobra.Command{
		Use:   "ids",
		Short: "List the IRI assigned to every model object",
		Long: "Ids assigns IRIs to the model and prints one tab separated line per object:\n" +
			"kind, path, IRI. Ignored and unnamed objects are not listed.",
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return a.runIDs(modelPath)
		},
	}
	cmd.Flags().StringVarP(&modelPath, "model", "m", "", "model file (required)")
	_ = cmd.MarkFlagRequired("model")
	return cmd
}

func (a *app) runIDs(path string) error {
	m, table, err := a.load(path)
	if err != nil {
		return err
	}

	w := bufio.NewWriter(a.stdout)
	line := func(kind, path, iri string) {
		_, _ = fmt.Fprintf(w, "%s\t%s\t%s\n", kind, path, iri)
	}

	for _, p := range m.Packages() {
		if ns, ok := table.Packages[p]; ok {
			line("package", p.Path(), ns.IRI)
		}
	}
	for _, e := range m.Elements() {
		if term, ok := table.Elements[e]; ok {
			line("element", e.Path(), term.IRI)
		}
	}
	for _, e := range m.Elements() {
		for _, attr := range e.Attributes {
			if term, ok := table.Properties[attr]; ok {
				line("property", attr.Path(), term.IRI)
			}
			if term, ok := table.Instances[attr]; ok {
				line("instance", attr.Path(), term.IRI)
			}
		}
	}
	for _, ref := range table.RelationshipRefs() {
		line("relationship", ref.Path(), table.Relationships[ref].IRI)
	}
	return w.Flush()
}
