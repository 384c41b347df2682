//go:build cgo

package analyzer

import (
	"context"
	"fmt"
	"path/filepath"
	"strings"

	sitter "github.com/smacker/go-tree-sitter"
	"github.com/smacker/go-tree-sitter/javascript"
	"github.com/smacker/go-tree-sitter/typescript/tsx"
	"github.com/smacker/go-tree-sitter/typescript/typescript"
	"github.com/unbound-force/cr/internal/metrics"
	"github.com/unbound-force/cr/internal/source"
)

func registerECMAScript(r *Registry) {
	r.Register(NewECMAScriptAnalyzer())
}

// ECMAScriptAnalyzer measures JavaScript, TypeScript and TSX files
// using tree-sitter grammars. Every function declaration, function
// expression, arrow function, generator and method is reported as a
// separate unit; nested functions do not contribute to their
// enclosing function.
type ECMAScriptAnalyzer struct{}

// NewECMAScriptAnalyzer returns a JavaScript/TypeScript analyzer.
func NewECMAScriptAnalyzer() *ECMAScriptAnalyzer {
	return &ECMAScriptAnalyzer{}
}

// Language implements Analyzer.
func (*ECMAScriptAnalyzer) Language() string { return "ecmascript" }

// Extensions implements Analyzer.
func (*ECMAScriptAnalyzer) Extensions() []string {
	return []string{".js", ".jsx", ".mjs", ".cjs", ".ts", ".mts", ".cts", ".tsx"}
}

// grammar returns the tree-sitter language and language label for a
// file path. JSX is parsed by the JavaScript grammar.
func grammar(path string) (*sitter.Language, string) {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".ts", ".mts", ".cts":
		return typescript.GetLanguage(), "typescript"
	case ".tsx":
		return tsx.GetLanguage(), "tsx"
	default:
		return javascript.GetLanguage(), "javascript"
	}
}

// Analyze implements Analyzer.
func (*ECMAScriptAnalyzer) Analyze(ctx context.Context, file source.File, opts Options) (*metrics.ModuleReport, error) {
	lang, label := grammar(file.Path)
	src := []byte(file.Code)

	parser := sitter.NewParser()
	parser.SetLanguage(lang)
	tree, err := parser.ParseCtx(ctx, nil, src)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrParse, err)
	}

	root := tree.RootNode()
	if root.HasError() {
		return nil, fmt.Errorf("%w: %s", ErrParse, syntaxError(root))
	}

	w := &esWalker{src: src, opts: opts}

	mod := &metrics.ModuleReport{
		Path:     file.Path,
		Language: label,
	}

	for _, fn := range findFunctions(root) {
		u := w.measure(fn, false)
		start, end := int(fn.StartPoint().Row)+1, int(fn.EndPoint().Row)+1
		mod.Functions = append(mod.Functions, metrics.FunctionReport{
			Name:       w.functionName(fn),
			Line:       start,
			Params:     w.params(fn),
			SLOC:       metrics.SLOC{Physical: end - start + 1, Logical: u.logical},
			Cyclomatic: 1 + u.decisions,
			Halstead:   u.tally.Halstead(),
		})
	}

	agg := w.measure(root, true)
	mod.Aggregate = metrics.FunctionReport{
		Name:       filepath.Base(file.Path),
		Line:       1,
		SLOC:       metrics.SLOC{Physical: physicalLines(file.Code), Logical: agg.logical},
		Cyclomatic: 1 + agg.decisions,
		Halstead:   agg.tally.Halstead(),
	}
	mod.Dependencies = w.dependencies(root)

	return mod, nil
}

var functionTypes = map[string]bool{
	"function_declaration":           true,
	"generator_function_declaration": true,
	"function_expression":            true,
	"function":                       true,
	"generator_function":             true,
	"arrow_function":                 true,
	"method_definition":              true,
}

// operandTypes are named nodes measured as a single operand even
// though the grammar gives them children.
var operandTypes = map[string]bool{
	"string":          true,
	"template_string": true,
	"regex":           true,
	"number":          true,
}

// skippedTokens are punctuation that closes or separates rather than
// operates.
var skippedTokens = map[string]bool{
	")": true,
	"]": true,
	"}": true,
	";": true,
	",": true,
}

// findFunctions returns every function node in document order.
func findFunctions(root *sitter.Node) []*sitter.Node {
	var out []*sitter.Node
	var walk func(*sitter.Node)
	walk = func(n *sitter.Node) {
		if n == nil {
			return
		}
		if isFunction(n) {
			out = append(out, n)
		}
		for i := 0; i < int(n.ChildCount()); i++ {
			walk(n.Child(i))
		}
	}
	walk(root)
	return out
}

type esWalker struct {
	src  []byte
	opts Options
}

type unit struct {
	decisions int
	logical   int
	tally     *metrics.Tally
}

func (w *esWalker) text(n *sitter.Node) string {
	return string(w.src[n.StartByte():n.EndByte()])
}

// measure walks the subtree at root. Unless descend is set, nested
// functions are counted as a single statement of the enclosing unit
// and their bodies are skipped.
func (w *esWalker) measure(root *sitter.Node, descend bool) unit {
	u := unit{tally: metrics.NewTally()}

	var walk func(*sitter.Node)
	walk = func(n *sitter.Node) {
		typ := n.Type()
		if typ == "comment" {
			return
		}
		if n != root && isStatement(typ) {
			u.logical++
		}
		if n != root && !descend && isFunction(n) {
			return
		}
		u.decisions += w.decision(n)

		if operandTypes[typ] {
			u.tally.Operand(w.text(n))
			// Substitutions inside template strings are code.
			for i := 0; i < int(n.NamedChildCount()); i++ {
				if c := n.NamedChild(i); c.Type() == "template_substitution" {
					walk(c)
				}
			}
			return
		}

		if n.ChildCount() == 0 {
			switch {
			case n.IsNamed():
				u.tally.Operand(w.text(n))
			case !skippedTokens[typ]:
				u.tally.Operator(typ)
			}
			return
		}

		for i := 0; i < int(n.ChildCount()); i++ {
			walk(n.Child(i))
		}
	}
	walk(root)

	return u
}

// decision returns the number of decision points n contributes.
func (w *esWalker) decision(n *sitter.Node) int {
	switch n.Type() {
	case "if_statement", "while_statement", "do_statement", "for_statement", "ternary_expression":
		return 1
	case "for_in_statement":
		if w.opts.ForIn {
			return 1
		}
	case "switch_case":
		if w.opts.SwitchCase {
			return 1
		}
	case "catch_clause":
		if w.opts.TryCatch {
			return 1
		}
	case "binary_expression":
		op := n.ChildByFieldName("operator")
		if op == nil {
			return 0
		}
		switch op.Type() {
		case "&&":
			return 1
		case "||", "??":
			if w.opts.LogicalOr {
				return 1
			}
		}
	}
	return 0
}

// isFunction reports whether n is a function unit. The anonymous
// "function" keyword token shares its type name with the older
// function expression node.
func isFunction(n *sitter.Node) bool {
	return n.IsNamed() && functionTypes[n.Type()]
}

func isStatement(typ string) bool {
	return strings.HasSuffix(typ, "_statement") || strings.HasSuffix(typ, "_declaration")
}

// functionName resolves a function's own name, or the name it is
// bound to by a declarator, property, assignment or class field.
func (w *esWalker) functionName(n *sitter.Node) string {
	if name := n.ChildByFieldName("name"); name != nil {
		return w.text(name)
	}

	parent := n.Parent()
	for parent != nil && parent.Type() == "parenthesized_expression" {
		parent = parent.Parent()
	}
	if parent != nil {
		var bound *sitter.Node
		switch parent.Type() {
		case "variable_declarator", "public_field_definition":
			bound = parent.ChildByFieldName("name")
		case "field_definition":
			bound = parent.ChildByFieldName("property")
		case "pair":
			bound = parent.ChildByFieldName("key")
		case "assignment_expression":
			bound = parent.ChildByFieldName("left")
		}
		if bound != nil {
			return w.text(bound)
		}
	}
	return "<anonymous>"
}

func (w *esWalker) params(n *sitter.Node) int {
	if n.ChildByFieldName("parameter") != nil {
		return 1
	}
	p := n.ChildByFieldName("parameters")
	if p == nil {
		return 0
	}
	count := 0
	for i := 0; i < int(p.NamedChildCount()); i++ {
		if p.NamedChild(i).Type() != "comment" {
			count++
		}
	}
	return count
}

// dependencies collects ES module imports, re-exports, dynamic
// imports and CommonJS require calls with a string literal target.
func (w *esWalker) dependencies(root *sitter.Node) []metrics.Dependency {
	var deps []metrics.Dependency
	add := func(strNode *sitter.Node, typ metrics.DependencyType) {
		if strNode == nil || strNode.Type() != "string" {
			return
		}
		deps = append(deps, metrics.Dependency{
			Path: unquote(w.text(strNode)),
			Line: int(strNode.StartPoint().Row) + 1,
			Type: typ,
		})
	}

	var walk func(*sitter.Node)
	walk = func(n *sitter.Node) {
		switch n.Type() {
		case "import_statement", "export_statement":
			add(n.ChildByFieldName("source"), metrics.DepImport)
		case "call_expression":
			fn := n.ChildByFieldName("function")
			args := n.ChildByFieldName("arguments")
			if fn != nil && args != nil && args.NamedChildCount() > 0 {
				switch {
				case fn.Type() == "import":
					add(args.NamedChild(0), metrics.DepImport)
				case fn.Type() == "identifier" && w.text(fn) == "require":
					add(args.NamedChild(0), metrics.DepRequire)
				}
			}
		}
		for i := 0; i < int(n.ChildCount()); i++ {
			walk(n.Child(i))
		}
	}
	walk(root)
	return deps
}

func unquote(s string) string {
	if len(s) >= 2 {
		return s[1 : len(s)-1]
	}
	return s
}

// syntaxError describes the first ERROR or missing node in the tree.
func syntaxError(root *sitter.Node) string {
	var found *sitter.Node
	var walk func(*sitter.Node)
	walk = func(n *sitter.Node) {
		if found != nil || n == nil {
			return
		}
		if n.IsError() || n.IsMissing() {
			found = n
			return
		}
		for i := 0; i < int(n.ChildCount()); i++ {
			walk(n.Child(i))
		}
	}
	walk(root)

	if found == nil {
		return "syntax error"
	}
	p := found.StartPoint()
	return fmt.Sprintf("syntax error at line %d, column %d", p.Row+1, p.Column+1)
}
