package main

import (
	"fmt"
	"io"
	"os"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/pkg/errors"
	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"qtermtikz/quantikz"
)

func main() {
	if err := newRootCmd().Execute(); err != nil {
		os.Exit(1)
	}
}

// rootFlags are shared by every subcommand.
type rootFlags struct {
	config  string
	verbose bool
}

// renderFlags select how a diagram is written.
type renderFlags struct {
	output     string
	rowSep     string
	colSep     string
	border     string
	standalone bool
	table      bool
}

func newRootCmd() *cobra.Command {
	root := &rootFlags{}
	cmd := &cobra.Command{
		Use:   "qtermtikz",
		Short: "Draw OpenQASM circuits as quantikz diagrams",
		Long: `qtermtikz translates OpenQASM 2 and 3 programs into quantikz LaTeX
circuit diagrams. Use render for one-shot conversion, watch to re-render
on every save, or edit for a terminal editor with a live preview.`,
		SilenceUsage: true,
	}
	cmd.PersistentFlags().StringVar(&root.config, "config", "",
		"options file (default $HOME/"+configFile+")")
	cmd.PersistentFlags().BoolVarP(&root.verbose, "verbose", "v", false,
		"log translation details")

	cmd.AddCommand(newRenderCmd(root))
	cmd.AddCommand(newWatchCmd(root))
	cmd.AddCommand(newEditCmd(root))
	return cmd
}

func addRenderFlags(cmd *cobra.Command, f *renderFlags) {
	flags := cmd.Flags()
	flags.StringVarP(&f.output, "output", "o", "", "output file (default stdout)")
	flags.StringVar(&f.rowSep, "row-sep", "", "quantikz row sep, e.g. 0.4cm")
	flags.StringVar(&f.colSep, "col-sep", "", "quantikz column sep, e.g. 3mm")
	flags.BoolVar(&f.standalone, "standalone", false,
		"wrap the diagram in a standalone LaTeX document")
	flags.StringVar(&f.border, "border", "", "standalone document border (default 2pt)")
	flags.BoolVar(&f.table, "table", false, "print a wire table instead of LaTeX")
}

// setup merges the options file with the flags that were set explicitly
// and builds the logger.
func (r *rootFlags) setup(cmd *cobra.Command, f *renderFlags) (*Config, *zap.Logger, error) {
	cfg, err := loadConfig(r.config)
	if err != nil {
		return nil, nil, err
	}
	flags := cmd.Flags()
	if flags.Changed("row-sep") {
		cfg.RowSep = f.rowSep
	}
	if flags.Changed("col-sep") {
		cfg.ColumnSep = f.colSep
	}
	if flags.Changed("border") {
		cfg.Border = f.border
	}
	if flags.Changed("standalone") {
		cfg.Standalone = f.standalone
	}
	if r.verbose {
		cfg.Verbose = true
	}

	log, err := newLogger(cfg.Verbose)
	if err != nil {
		return nil, nil, errors.Wrap(err, "logger")
	}
	return cfg, log, nil
}

func newRenderCmd(root *rootFlags) *cobra.Command {
	f := &renderFlags{}
	cmd := &cobra.Command{
		Use:   "render [file]",
		Short: "Translate an OpenQASM file to quantikz",
		Long: `Translate an OpenQASM file, or standard input when no file or "-" is
given, and write the quantikz environment to stdout or the -o file.`,
		Args: cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, log, err := root.setup(cmd, f)
			if err != nil {
				return err
			}
			defer func() { _ = log.Sync() }()

			name := "-"
			if len(args) > 0 {
				name = args[0]
			}
			src, err := readSource(cmd.InOrStdin(), name)
			if err != nil {
				return err
			}
			res, err := quantikz.TranslateSource(src, cfg.options(log))
			if err != nil {
				return errors.Wrap(err, name)
			}
			return withOutputWriter(cmd.OutOrStdout(), f.output, func(w io.Writer) error {
				if f.table {
					writeTable(w, res)
					return nil
				}
				return writeTeX(w, res, cfg)
			})
		},
	}
	addRenderFlags(cmd, f)
	return cmd
}

func newEditCmd(root *rootFlags) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "edit [file]",
		Short: "Edit OpenQASM with a live diagram preview",
		Long: `Open a terminal editor for an OpenQASM file. The circuit is
re-translated on every keystroke; ctrl+s saves the source and the
matching .tex file.`,
		Args: cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := loadConfig(root.config)
			if err != nil {
				return err
			}
			path := defaultCircuitFile
			if len(args) > 0 {
				path = args[0]
			}
			src := starterProgram
			data, err := os.ReadFile(path)
			switch {
			case err == nil:
				src = string(data)
			case !os.IsNotExist(err):
				return errors.Wrap(err, "read source")
			}

			// The terminal belongs to the editor; diagnostics go to the
			// status line instead of the logger.
			m := newModel(path, src, cfg, zap.NewNop())
			p := tea.NewProgram(m, tea.WithAltScreen())
			if _, err := p.Run(); err != nil {
				return errors.Wrap(err, "editor")
			}
			return nil
		},
	}
	return cmd
}

// readSource reads the named file, or r when name is "-".
func readSource(r io.Reader, name string) (string, error) {
	var data []byte
	var err error
	if name == "-" {
		data, err = io.ReadAll(r)
	} else {
		data, err = os.ReadFile(name)
	}
	if err != nil {
		return "", errors.Wrap(err, "read source")
	}
	return string(data), nil
}

// diagramText returns the text written for a translation result.
func diagramText(res *quantikz.Result, cfg *Config) string {
	if cfg.Standalone {
		return quantikz.Document(res.TeX, cfg.Border)
	}
	return res.TeX + "\n"
}

func writeTeX(w io.Writer, res *quantikz.Result, cfg *Config) error {
	_, err := fmt.Fprint(w, diagramText(res, cfg))
	return err
}

func withOutputWriter(stdout io.Writer, path string, fn func(io.Writer) error) error {
	w, cleanup, err := outputWriter(stdout, path)
	if err != nil {
		return err
	}
	if cleanup == nil {
		return fn(w)
	}
	err = fn(w)
	if closeErr := cleanup(); err == nil && closeErr != nil {
		err = closeErr
	}
	return err
}

func outputWriter(stdout io.Writer, path string) (io.Writer, func() error, error) {
	if path == "" || path == "-" {
		return stdout, nil, nil
	}
	f, err := os.Create(path)
	if err != nil {
		return nil, nil, errors.Wrap(err, "create output")
	}
	return f, f.Close, nil
}
