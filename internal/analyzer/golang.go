package analyzer

import (
	"context"
	"fmt"
	"go/ast"
	"go/parser"
	"go/scanner"
	"go/token"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/fzipp/gocyclo"
	"github.com/unbound-force/cr/internal/metrics"
	"github.com/unbound-force/cr/internal/source"
	"golang.org/x/tools/go/ast/inspector"
)

// GoAnalyzer measures Go source files. Cyclomatic complexity and the
// set of reported functions come from gocyclo, so its
// "//gocyclo:ignore" directive is honoured. The JavaScript decision
// toggles in Options do not apply.
type GoAnalyzer struct{}

// NewGoAnalyzer returns a Go analyzer.
func NewGoAnalyzer() *GoAnalyzer {
	return &GoAnalyzer{}
}

// Language implements Analyzer.
func (*GoAnalyzer) Language() string { return "go" }

// Extensions implements Analyzer.
func (*GoAnalyzer) Extensions() []string { return []string{".go"} }

// Analyze implements Analyzer.
func (*GoAnalyzer) Analyze(_ context.Context, file source.File, _ Options) (*metrics.ModuleReport, error) {
	fset := token.NewFileSet()
	f, err := parser.ParseFile(fset, file.Path, file.Code, parser.ParseComments)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrParse, err)
	}
	src := []byte(file.Code)

	// Index every function node by its starting offset so gocyclo
	// stats can be joined back to their AST.
	nodes := make(map[int]ast.Node)
	ins := inspector.New([]*ast.File{f})
	ins.Preorder([]ast.Node{(*ast.FuncDecl)(nil), (*ast.FuncLit)(nil)}, func(n ast.Node) {
		nodes[fset.Position(n.Pos()).Offset] = n
	})

	stats := gocyclo.AnalyzeASTFile(f, fset, nil)

	mod := &metrics.ModuleReport{
		Path:     file.Path,
		Language: "go",
	}

	for _, stat := range stats {
		fn := metrics.FunctionReport{
			Name:       stat.FuncName,
			Line:       stat.Pos.Line,
			Cyclomatic: stat.Complexity,
		}
		if n, ok := nodes[stat.Pos.Offset]; ok {
			start, end := fset.Position(n.Pos()), fset.Position(n.End())
			fn.Params = goParams(n)
			fn.SLOC = metrics.SLOC{
				Physical: end.Line - start.Line + 1,
				Logical:  goStatements(n),
			}
			fn.Halstead = goHalstead(src[start.Offset:end.Offset])
		}
		mod.Functions = append(mod.Functions, fn)
	}

	for _, imp := range f.Imports {
		p, err := strconv.Unquote(imp.Path.Value)
		if err != nil {
			p = imp.Path.Value
		}
		mod.Dependencies = append(mod.Dependencies, metrics.Dependency{
			Path: p,
			Line: fset.Position(imp.Pos()).Line,
			Type: metrics.DepGoImport,
		})
	}

	// The aggregate covers the whole file, including functions marked
	// //gocyclo:ignore and package-level initializers.
	mod.Aggregate = metrics.FunctionReport{
		Name:       filepath.Base(file.Path),
		Line:       1,
		Cyclomatic: gocyclo.Complexity(f),
		SLOC: metrics.SLOC{
			Physical: physicalLines(file.Code),
			Logical:  goStatements(f) + len(f.Decls),
		},
		Halstead: goHalstead(src),
	}

	return mod, nil
}

func goParams(n ast.Node) int {
	switch fn := n.(type) {
	case *ast.FuncDecl:
		return fn.Type.Params.NumFields()
	case *ast.FuncLit:
		return fn.Type.Params.NumFields()
	}
	return 0
}

// goStatements counts the statements beneath n, excluding blocks and
// empty statements.
func goStatements(n ast.Node) int {
	count := 0
	ast.Inspect(n, func(n ast.Node) bool {
		switch n.(type) {
		case *ast.BlockStmt, *ast.EmptyStmt:
		case ast.Stmt:
			count++
		}
		return true
	})
	return count
}

// goHalstead tokenizes src and tallies operators (keywords,
// operators, opening delimiters) and operands (identifiers and
// literals). Closing delimiters, semicolons and comments are skipped.
func goHalstead(src []byte) metrics.Halstead {
	t := metrics.NewTally()

	fset := token.NewFileSet()
	tf := fset.AddFile("", fset.Base(), len(src))

	var s scanner.Scanner
	s.Init(tf, src, nil, 0)
	for {
		_, tok, lit := s.Scan()
		switch {
		case tok == token.EOF:
			return t.Halstead()
		case tok == token.SEMICOLON, tok == token.RPAREN, tok == token.RBRACK,
			tok == token.RBRACE, tok == token.COMMENT, tok == token.ILLEGAL:
			continue
		case tok.IsLiteral():
			t.Operand(lit)
		default:
			t.Operator(tok.String())
		}
	}
}

func physicalLines(code string) int {
	if code == "" {
		return 0
	}
	n := strings.Count(code, "\n")
	if !strings.HasSuffix(code, "\n") {
		n++
	}
	return n
}
