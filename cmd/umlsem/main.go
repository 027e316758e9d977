// umlsem converts annotated UML models into RDF vocabularies.
//
// Usage:
//
//	umlsem convert --model model.uml [--diagram Main] [--config umlsem.toml] [--format nquads|sqlite|msgpack] [--out file]
//	umlsem ids --model model.uml
//	umlsem version
package main

import (
	"fmt"
	"io"
	"log/slog"
	"os"

	"github.com/spf13/cobra"

	"github.com/CaliLuke/go-umlsem/config"
	"github.com/CaliLuke/go-umlsem/identity"
	"github.com/CaliLuke/go-umlsem/model"
)

const version = "0.1.0"

// app holds the state shared by every subcommand.
type app struct {
	stdout io.Writer
	stderr io.Writer

	configPath string
	verbose    bool
	quiet      bool
	logFormat  string
	color      string

	logger *slog.Logger
	counts *counts
	cfg    *config.Config
}

func main() {
	if err := newRootCmd(os.Stdout, os.Stderr).Execute(); err != nil {
		os.Exit(1)
	}
}

func newRootCmd(stdout, stderr io.Writer) *cobra.Command {
	a := &app{stdout: stdout, stderr: stderr}
	root := &cobra.Command{
		Use:           "umlsem",
		Short:         "Convert annotated UML models into RDF vocabularies",
		Version:       version,
		SilenceUsage:  true,
		SilenceErrors: false,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			return a.setup()
		},
	}
	root.SetOut(stdout)
	root.SetErr(stderr)

	flags := root.PersistentFlags()
	flags.StringVarP(&a.configPath, "config", "c", os.Getenv("UMLSEM_CONFIG"),
		"path to a TOML or YAML configuration file (env: UMLSEM_CONFIG)")
	flags.BoolVarP(&a.verbose, "verbose", "v", false, "log debug diagnostics")
	flags.BoolVarP(&a.quiet, "quiet", "q", false, "log errors only")
	flags.StringVar(&a.logFormat, "log-format", "text", "log format: text, json")
	flags.StringVar(&a.color, "color", "auto", "colorize the summary (auto|on|off)")

	root.AddCommand(newConvertCmd(a), newIDsCmd(a), newVersionCmd(a))
	return root
}

func newVersionCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "version",
		Short: "Print the version",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			_, err := fmt.Fprintf(a.stdout, "umlsem %s\n", version)
			return err
		},
	}
}

func (a *app) setup() error {
	if a.verbose && a.quiet {
		return fmt.Errorf("--verbose and --quiet are mutually exclusive")
	}
	a.logger, a.counts = setupLogger(a.stderr, a.verbose, a.quiet, a.logFormat)

	if a.configPath == "" {
		a.cfg = config.Default()
		return nil
	}
	cfg, err := config.Load(a.configPath)
	if err != nil {
		return err
	}
	a.cfg = cfg
	return nil
}

// load parses the model and assigns identities.
func (a *app) load(path string) (*model.Model, *identity.Table, error) {
	m, err := model.ParseFile(path)
	if err != nil {
		return nil, nil, err
	}
	table := identity.Assign(m, a.cfg.IdentityOptions(a.logger))
	return m, table, nil
}
