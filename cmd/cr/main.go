package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"os/signal"
	"path/filepath"
	"strings"

	charmlog "github.com/charmbracelet/log"
	"github.com/klauspost/compress/gzip"
	"github.com/spf13/afero"
	"github.com/spf13/cobra"
	"github.com/unbound-force/cr/internal/analyzer"
	"github.com/unbound-force/cr/internal/config"
	"github.com/unbound-force/cr/internal/metrics"
	"github.com/unbound-force/cr/internal/report"
	"github.com/unbound-force/cr/internal/scaffold"
	"github.com/unbound-force/cr/internal/source"
	"github.com/unbound-force/cr/internal/walk"
)

// logger is the application-wide structured logger (writes to stderr).
var logger = charmlog.NewWithOptions(os.Stderr, charmlog.Options{
	ReportTimestamp: false,
})

// Set by build flags.
var version = "dev"

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()

	root := &cobra.Command{
		Use:   "cr",
		Short: "cr - complexity reports for Go, JavaScript and TypeScript",
		Long: `cr walks source trees and reports cyclomatic complexity,
Halstead metrics, maintainability and module coupling for every
function and file it finds.`,
		Version: version,

		// main prints the error once.
		SilenceErrors: true,
	}

	root.AddCommand(newReportCmd())
	root.AddCommand(newSchemaCmd())
	root.AddCommand(newFormatsCmd())
	root.AddCommand(newInitCmd())

	if err := root.ExecuteContext(ctx); err != nil {
		fmt.Fprintln(os.Stderr, err)
		stop()
		os.Exit(1)
	}
}

var errNoPaths = errors.New("no paths given")

// reportParams holds the parsed flags for the report command.
type reportParams struct {
	paths      []string
	configPath string

	// flags carries every option as parsed from the command line.
	// Only the values named by changed override the config file.
	flags   config.Config
	changed func(name string) bool

	interactive bool
	verbose     bool

	fs     afero.Fs
	stdout io.Writer
	stderr io.Writer
}

// flagFields maps each report flag onto the Config field it sets.
var flagFields = map[string]func(dst, src *config.Config){
	"output":              func(d, s *config.Config) { d.Output = s.Output },
	"format":              func(d, s *config.Config) { d.Format = s.Format },
	"all-files":           func(d, s *config.Config) { d.AllFiles = s.AllFiles },
	"file-pattern":        func(d, s *config.Config) { d.FilePattern = s.FilePattern },
	"exclude-pattern":     func(d, s *config.Config) { d.ExcludePattern = s.ExcludePattern },
	"jobs":                func(d, s *config.Config) { d.Jobs = s.Jobs },
	"ignore-errors":       func(d, s *config.Config) { d.Analysis.IgnoreErrors = s.Analysis.IgnoreErrors },
	"logical-or":          func(d, s *config.Config) { d.Analysis.LogicalOr = s.Analysis.LogicalOr },
	"switch-case":         func(d, s *config.Config) { d.Analysis.SwitchCase = s.Analysis.SwitchCase },
	"for-in":              func(d, s *config.Config) { d.Analysis.ForIn = s.Analysis.ForIn },
	"try-catch":           func(d, s *config.Config) { d.Analysis.TryCatch = s.Analysis.TryCatch },
	"new-mi":              func(d, s *config.Config) { d.Analysis.NewMI = s.Analysis.NewMI },
	"ignore-generated":    func(d, s *config.Config) { d.Analysis.IgnoreGenerated = s.Analysis.IgnoreGenerated },
	"max-cyclomatic":      func(d, s *config.Config) { d.Thresholds.MaxCyclomatic = s.Thresholds.MaxCyclomatic },
	"min-maintainability": func(d, s *config.Config) { d.Thresholds.MinMaintainability = s.Thresholds.MinMaintainability },
}

// loadConfig layers the config file (if any) over the defaults and
// the changed flags over both.
func loadConfig(p reportParams) (*config.Config, error) {
	cfg := config.DefaultConfig()
	if p.configPath != "" {
		var err error
		cfg, err = config.Load(p.fs, p.configPath)
		if err != nil {
			return nil, err
		}
		logger.Debug("loaded config", "path", p.configPath)
	}

	changed := p.changed
	if changed == nil {
		changed = func(string) bool { return false }
	}
	for name, set := range flagFields {
		if changed(name) {
			set(cfg, &p.flags)
		}
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

func analyzerOptions(cfg *config.Config) analyzer.Options {
	return analyzer.Options{
		LogicalOr:       cfg.Analysis.LogicalOr,
		SwitchCase:      cfg.Analysis.SwitchCase,
		ForIn:           cfg.Analysis.ForIn,
		TryCatch:        cfg.Analysis.TryCatch,
		NewMI:           cfg.Analysis.NewMI,
		IgnoreErrors:    cfg.Analysis.IgnoreErrors,
		IgnoreGenerated: cfg.Analysis.IgnoreGenerated,
	}
}

// runReport is the extracted, testable body of the report command.
func runReport(ctx context.Context, p reportParams) error {
	if len(p.paths) == 0 {
		return errNoPaths
	}
	if p.fs == nil {
		p.fs = afero.NewOsFs()
	}
	if p.verbose {
		logger.SetLevel(charmlog.DebugLevel)
	}

	cfg, err := loadConfig(p)
	if err != nil {
		return err
	}
	include, exclude, err := cfg.Patterns()
	if err != nil {
		return err
	}
	if _, ok := report.Lookup(cfg.Format); !ok {
		logger.Warn("unknown format, falling back to json", "format", cfg.Format)
	}

	reg := analyzer.DefaultRegistry()

	logger.Info("finding files", "paths", p.paths)
	paths, err := walk.Find(p.fs, p.paths, walk.Options{
		Include:    include,
		Exclude:    exclude,
		Extensions: reg.Extensions(),
		AllFiles:   cfg.AllFiles,
	})
	if err != nil {
		return err
	}
	logger.Debug("files selected", "count", len(paths))

	files, err := source.Read(ctx, p.fs, paths, source.ReadOptions{Jobs: cfg.Jobs})
	if err != nil {
		return err
	}

	rpt, err := analyzer.AnalyzeProject(ctx, reg, files, analyzerOptions(cfg))
	if err != nil {
		return err
	}
	for _, e := range rpt.Errors {
		logger.Warn("skipped file", "path", e.Path, "err", e.Message)
	}
	logger.Info("analysis complete", "modules", rpt.Summary.Modules, "functions", rpt.Summary.Functions)

	if p.interactive {
		if err := runInteractiveReport(rpt); err != nil {
			return err
		}
	} else if err := writeReport(p, cfg, rpt); err != nil {
		return err
	}

	printCISummary(p.stderr, rpt, cfg.Thresholds)

	return checkCIThresholds(rpt, cfg.Thresholds)
}

// writeReport outputs the report to cfg.Output, or stdout when unset.
// An output path ending in ".gz" is gzip-compressed.
func writeReport(p reportParams, cfg *config.Config, rpt *metrics.ProjectReport) (err error) {
	w := p.stdout
	if cfg.Output != "" {
		var f afero.File
		f, err = p.fs.Create(cfg.Output)
		if err != nil {
			return fmt.Errorf("creating output %s: %w", cfg.Output, err)
		}
		defer func() {
			if cerr := f.Close(); cerr != nil && err == nil {
				err = fmt.Errorf("closing output %s: %w", cfg.Output, cerr)
			}
		}()
		w = f

		if strings.EqualFold(filepath.Ext(cfg.Output), ".gz") {
			zw := gzip.NewWriter(f)
			defer func() {
				if cerr := zw.Close(); cerr != nil && err == nil {
					err = fmt.Errorf("compressing output %s: %w", cfg.Output, cerr)
				}
			}()
			w = zw
		}
	}

	if _, err = report.Write(w, cfg.Format, rpt); err != nil {
		return fmt.Errorf("writing report: %w", err)
	}
	if cfg.Output != "" {
		logger.Info("report written", "path", cfg.Output)
	}
	return nil
}

// cyclomaticViolations returns the functions whose cyclomatic
// complexity exceeds limit.
func cyclomaticViolations(rpt *metrics.ProjectReport, limit int) []report.FunctionRef {
	var out []report.FunctionRef
	for _, f := range report.MostComplex(rpt, 0) {
		if f.Cyclomatic <= limit {
			break
		}
		out = append(out, f)
	}
	return out
}

// worstModule returns the module with the lowest maintainability.
func worstModule(rpt *metrics.ProjectReport) (metrics.ModuleReport, bool) {
	if len(rpt.Reports) == 0 {
		return metrics.ModuleReport{}, false
	}
	worst := rpt.Reports[0]
	for _, m := range rpt.Reports[1:] {
		if m.Maintainability < worst.Maintainability {
			worst = m
		}
	}
	return worst, true
}

// printCISummary prints a one-line CI summary to stderr when
// threshold flags are set.
func printCISummary(w io.Writer, rpt *metrics.ProjectReport, th config.Thresholds) {
	if th.MaxCyclomatic <= 0 && th.MinMaintainability <= 0 {
		return
	}

	var parts []string
	if th.MaxCyclomatic > 0 {
		over := len(cyclomaticViolations(rpt, th.MaxCyclomatic))
		status := "PASS"
		if over > 0 {
			status = "FAIL"
		}
		parts = append(parts, fmt.Sprintf("Cyclomatic: %d function(s) above %d (%s)",
			over, th.MaxCyclomatic, status))
	}
	if th.MinMaintainability > 0 {
		worst, ok := worstModule(rpt)
		switch {
		case !ok:
			parts = append(parts, fmt.Sprintf("Maintainability: min n/a/%.2f (PASS)",
				th.MinMaintainability))
		case worst.Maintainability < th.MinMaintainability:
			parts = append(parts, fmt.Sprintf("Maintainability: min %.2f/%.2f (FAIL)",
				worst.Maintainability, th.MinMaintainability))
		default:
			parts = append(parts, fmt.Sprintf("Maintainability: min %.2f/%.2f (PASS)",
				worst.Maintainability, th.MinMaintainability))
		}
	}
	fmt.Fprintln(w, strings.Join(parts, " | "))
}

// checkCIThresholds returns an error if any CI thresholds are exceeded.
func checkCIThresholds(rpt *metrics.ProjectReport, th config.Thresholds) error {
	if th.MaxCyclomatic > 0 {
		if over := cyclomaticViolations(rpt, th.MaxCyclomatic); len(over) > 0 {
			return fmt.Errorf("%s has cyclomatic complexity %d, exceeds maximum %d",
				over[0].Name, over[0].Cyclomatic, th.MaxCyclomatic)
		}
	}
	if th.MinMaintainability > 0 {
		if worst, ok := worstModule(rpt); ok && worst.Maintainability < th.MinMaintainability {
			return fmt.Errorf("%s has maintainability %.2f, below minimum %.2f",
				worst.Path, worst.Maintainability, th.MinMaintainability)
		}
	}
	return nil
}

func newReportCmd() *cobra.Command {
	var (
		configPath  string
		interactive bool
		verbose     bool
	)
	def := config.DefaultConfig()
	flags := *def

	cmd := &cobra.Command{
		Use:   "report [flags] <path>...",
		Short: "Report complexity metrics for source files",
		Long: `Recursively find Go, JavaScript and TypeScript files beneath each
path, measure every function and module, and write the report in the
requested format.

Options are taken from the defaults, then from the config file given
with --config, then from flags set explicitly on the command line.`,
		Args: cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			// Usage is for argument errors, not failed runs or gates.
			cmd.SilenceUsage = true
			return runReport(cmd.Context(), reportParams{
				paths:       args,
				configPath:  configPath,
				flags:       flags,
				changed:     cmd.Flags().Changed,
				interactive: interactive,
				verbose:     verbose,
				fs:          afero.NewOsFs(),
				stdout:      os.Stdout,
				stderr:      os.Stderr,
			})
		},
	}

	f := cmd.Flags()
	f.StringVarP(&configPath, "config", "c", "",
		"config file (.json, .yaml, .yml or .toml)")
	f.StringVarP(&flags.Output, "output", "o", def.Output,
		"write the report to this file (default: stdout)")
	f.StringVarP(&flags.Format, "format", "f", def.Format,
		"output format: "+strings.Join(report.Formats(), ", "))
	f.BoolVarP(&flags.Analysis.IgnoreErrors, "ignore-errors", "e", def.Analysis.IgnoreErrors,
		"skip files that fail to parse")
	f.BoolVarP(&flags.AllFiles, "all-files", "a", def.AllFiles,
		"include hidden files and directories")
	f.StringVarP(&flags.FilePattern, "file-pattern", "p", def.FilePattern,
		"include files whose path matches this regexp")
	f.StringVarP(&flags.ExcludePattern, "exclude-pattern", "x", def.ExcludePattern,
		"exclude files whose path matches this regexp")
	f.IntVarP(&flags.Jobs, "jobs", "j", def.Jobs,
		"concurrent file reads (0 = one per CPU)")
	f.BoolVar(&flags.Analysis.LogicalOr, "logical-or", def.Analysis.LogicalOr,
		"count || and ?? as decision points")
	f.BoolVar(&flags.Analysis.SwitchCase, "switch-case", def.Analysis.SwitchCase,
		"count switch cases as decision points")
	f.BoolVar(&flags.Analysis.ForIn, "for-in", def.Analysis.ForIn,
		"count for...in and for...of loops as decision points")
	f.BoolVar(&flags.Analysis.TryCatch, "try-catch", def.Analysis.TryCatch,
		"count catch clauses as decision points")
	f.BoolVar(&flags.Analysis.NewMI, "new-mi", def.Analysis.NewMI,
		"rescale the maintainability index to 0..100")
	f.BoolVar(&flags.Analysis.IgnoreGenerated, "ignore-generated", def.Analysis.IgnoreGenerated,
		"skip files marked as generated code")
	f.IntVar(&flags.Thresholds.MaxCyclomatic, "max-cyclomatic", def.Thresholds.MaxCyclomatic,
		"fail if any function exceeds this cyclomatic complexity (0 = no limit)")
	f.Float64Var(&flags.Thresholds.MinMaintainability, "min-maintainability", def.Thresholds.MinMaintainability,
		"fail if any module falls below this maintainability (0 = no limit)")
	f.BoolVarP(&interactive, "interactive", "i", false,
		"launch interactive TUI for browsing the report")
	f.BoolVarP(&verbose, "verbose", "v", false,
		"enable debug logging")

	return cmd
}

func newSchemaCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "schema",
		Short: "Print the JSON Schema for cr report output",
		Long: `Print the JSON Schema (Draft 2020-12) that documents the
structure of cr report --format=json output. Useful for
validating output or generating client types.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			_, err := fmt.Fprintln(cmd.OutOrStdout(), report.Schema)
			return err
		},
	}
}

func newFormatsCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "formats",
		Short: "List the available report formats",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			for _, name := range report.Formats() {
				if _, err := fmt.Fprintln(cmd.OutOrStdout(), name); err != nil {
					return err
				}
			}
			return nil
		},
	}
}

func newInitCmd() *cobra.Command {
	var force bool

	cmd := &cobra.Command{
		Use:   "init [dir]",
		Short: "Write a starter .cr.yaml configuration",
		Long: `Write a commented .cr.yaml with the default report options into
dir (default: the current directory). Existing files are kept
unless --force is given.`,
		Args: cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			dir := "."
			if len(args) == 1 {
				dir = args[0]
			}
			_, err := scaffold.Run(scaffold.Options{
				Fs:        afero.NewOsFs(),
				TargetDir: dir,
				Force:     force,
				Version:   version,
				Stdout:    cmd.OutOrStdout(),
			})
			return err
		},
	}

	cmd.Flags().BoolVar(&force, "force", false,
		"overwrite existing files")

	return cmd
}
