// Package analyzer runs the complexity analysis engines over a set
// of source files and assembles the project report.
//
// The metrics themselves come from third-party parsers: gocyclo and
// go/parser for Go, tree-sitter grammars for JavaScript and
// TypeScript. This package only maps their output onto the
// metrics data model.
package analyzer

import (
	"context"
	"errors"
	"fmt"
	"path"
	"path/filepath"
	"sort"
	"strings"

	"github.com/unbound-force/cr/internal/metrics"
	"github.com/unbound-force/cr/internal/source"
)

// ErrParse marks a file the engine could not parse.
var ErrParse = errors.New("parse error")

// ErrUnsupported marks a file no registered analyzer handles.
var ErrUnsupported = errors.New("unsupported file type")

// Options configures an analysis run.
type Options struct {
	// LogicalOr counts "||" and "??" as decision points. "&&" always
	// counts. Applies to JavaScript and TypeScript.
	LogicalOr bool

	// SwitchCase counts each non-default switch case.
	SwitchCase bool

	// ForIn counts for...in and for...of loops.
	ForIn bool

	// TryCatch counts catch clauses.
	TryCatch bool

	// NewMI rescales maintainability to 0..100.
	NewMI bool

	// IgnoreErrors records unparsable or unsupported files in the
	// report instead of failing the run.
	IgnoreErrors bool

	// IgnoreGenerated skips files with a generated-code header.
	IgnoreGenerated bool
}

// DefaultOptions returns options with sensible defaults.
func DefaultOptions() Options {
	return Options{
		SwitchCase:      true,
		NewMI:           true,
		IgnoreGenerated: true,
	}
}

// Analyzer computes a module report for one source file.
type Analyzer interface {
	// Language names the engine (e.g., "go").
	Language() string

	// Extensions lists the lower-case file extensions handled.
	Extensions() []string

	// Analyze measures file. Parse failures wrap ErrParse.
	Analyze(ctx context.Context, file source.File, opts Options) (*metrics.ModuleReport, error)
}

// Registry maps file extensions to analyzers.
type Registry struct {
	byExt map[string]Analyzer
}

// NewRegistry returns an empty registry.
func NewRegistry() *Registry {
	return &Registry{byExt: make(map[string]Analyzer)}
}

// DefaultRegistry returns a registry with every engine available in
// this build.
func DefaultRegistry() *Registry {
	r := NewRegistry()
	r.Register(NewGoAnalyzer())
	registerECMAScript(r)
	return r
}

// Register adds a under each of its extensions, replacing any
// previous owner.
func (r *Registry) Register(a Analyzer) {
	for _, ext := range a.Extensions() {
		r.byExt[strings.ToLower(ext)] = a
	}
}

// Lookup returns the analyzer for a file path.
func (r *Registry) Lookup(path string) (Analyzer, bool) {
	a, ok := r.byExt[strings.ToLower(filepath.Ext(path))]
	return a, ok
}

// Extensions returns the sorted list of supported extensions.
func (r *Registry) Extensions() []string {
	exts := make([]string, 0, len(r.byExt))
	for ext := range r.byExt {
		exts = append(exts, ext)
	}
	sort.Strings(exts)
	return exts
}

// AnalyzeProject analyzes files in order and returns the finalized
// project report.
//
// Generated files are skipped when opts.IgnoreGenerated is set. A
// file that fails to parse, or that no analyzer supports, aborts the
// run unless opts.IgnoreErrors is set, in which case it is recorded
// in the report's Errors and skipped.
func AnalyzeProject(ctx context.Context, reg *Registry, files []source.File, opts Options) (*metrics.ProjectReport, error) {
	rpt := &metrics.ProjectReport{}

	for _, f := range files {
		if err := ctx.Err(); err != nil {
			return nil, err
		}

		if opts.IgnoreGenerated && source.IsGenerated(f.Code) {
			continue
		}

		mod, err := analyzeFile(ctx, reg, f, opts)
		if err != nil {
			if opts.IgnoreErrors && (errors.Is(err, ErrParse) || errors.Is(err, ErrUnsupported)) {
				rpt.Errors = append(rpt.Errors, metrics.FileError{
					Path:    f.Path,
					Message: err.Error(),
				})
				continue
			}
			return nil, fmt.Errorf("analyzing %s: %w", f.Path, err)
		}
		rpt.Reports = append(rpt.Reports, *mod)
	}

	rpt.Adjacency = adjacency(rpt.Reports)
	metrics.Finalize(rpt, opts.NewMI)

	return rpt, nil
}

func analyzeFile(ctx context.Context, reg *Registry, f source.File, opts Options) (*metrics.ModuleReport, error) {
	a, ok := reg.Lookup(f.Path)
	if !ok {
		return nil, fmt.Errorf("%w %q", ErrUnsupported, filepath.Ext(f.Path))
	}
	return a.Analyze(ctx, f, opts)
}

// resolveExtensions are tried, in order, when a relative dependency
// omits its extension.
var resolveExtensions = []string{".js", ".jsx", ".mjs", ".cjs", ".ts", ".tsx", ".mts", ".cts"}

// adjacency builds the module dependency matrix from relative
// dependencies ("./x", "../y") that resolve to another analyzed
// module. Package imports never resolve.
func adjacency(reports []metrics.ModuleReport) [][]bool {
	index := make(map[string]int, len(reports))
	for i, m := range reports {
		index[path.Clean(filepath.ToSlash(m.Path))] = i
	}

	adj := make([][]bool, len(reports))
	for i, m := range reports {
		adj[i] = make([]bool, len(reports))
		dir := path.Dir(filepath.ToSlash(m.Path))
		for _, dep := range m.Dependencies {
			if !strings.HasPrefix(dep.Path, "./") && !strings.HasPrefix(dep.Path, "../") {
				continue
			}
			if j, ok := resolve(index, path.Join(dir, dep.Path)); ok && j != i {
				adj[i][j] = true
			}
		}
	}
	return adj
}

func resolve(index map[string]int, target string) (int, bool) {
	if j, ok := index[target]; ok {
		return j, true
	}
	for _, ext := range resolveExtensions {
		if j, ok := index[target+ext]; ok {
			return j, true
		}
	}
	for _, ext := range resolveExtensions {
		if j, ok := index[path.Join(target, "index"+ext)]; ok {
			return j, true
		}
	}
	return 0, false
}
