package analyzer

import (
	"context"
	"errors"
	"testing"

	"github.com/unbound-force/cr/internal/metrics"
	"github.com/unbound-force/cr/internal/source"
)

const goSample = `package sample

import (
	"fmt"
	"strings"
)

func Simple() {}

func Branchy(a, b int) int {
	if a > 0 && b > 0 {
		return 1
	}
	for i := 0; i < a; i++ {
		if i == b || i == a {
			return i
		}
	}
	return 0
}

type T struct{}

func (t *T) Method(s string) string {
	switch s {
	case "a":
		return strings.ToUpper(s)
	case "b":
		return fmt.Sprint(s)
	default:
		return s
	}
}

//gocyclo:ignore
func Ignored(x int) bool {
	if x > 1 {
		return true
	}
	return false
}

var Handler = func(n int) int { return n * 2 }
`

func analyzeGo(t *testing.T, code string) *metrics.ModuleReport {
	t.Helper()
	mod, err := NewGoAnalyzer().Analyze(context.Background(),
		source.File{Path: "pkg/sample.go", Code: code}, DefaultOptions())
	if err != nil {
		t.Fatalf("Analyze failed: %v", err)
	}
	return mod
}

func findFunction(t *testing.T, mod *metrics.ModuleReport, name string) metrics.FunctionReport {
	t.Helper()
	for _, fn := range mod.Functions {
		if fn.Name == name {
			return fn
		}
	}
	t.Fatalf("function %q not found in %s", name, mod.Path)
	return metrics.FunctionReport{}
}

func TestGoAnalyzer_Cyclomatic(t *testing.T) {
	mod := analyzeGo(t, goSample)

	tests := []struct {
		name string
		want int
	}{
		{"Simple", 1},
		{"Branchy", 6},
		{"(*T).Method", 3},
		{"Handler", 1},
	}
	for _, tt := range tests {
		if got := findFunction(t, mod, tt.name).Cyclomatic; got != tt.want {
			t.Errorf("%s cyclomatic = %d, want %d", tt.name, got, tt.want)
		}
	}
}

func TestGoAnalyzer_IgnoreDirective(t *testing.T) {
	mod := analyzeGo(t, goSample)
	for _, fn := range mod.Functions {
		if fn.Name == "Ignored" {
			t.Error("function with //gocyclo:ignore should not be reported")
		}
	}
	if len(mod.Functions) != 4 {
		t.Errorf("got %d functions, want 4", len(mod.Functions))
	}
}

func TestGoAnalyzer_FunctionDetails(t *testing.T) {
	mod := analyzeGo(t, goSample)

	branchy := findFunction(t, mod, "Branchy")
	if branchy.Line != 10 {
		t.Errorf("Branchy line = %d, want 10", branchy.Line)
	}
	if branchy.Params != 2 {
		t.Errorf("Branchy params = %d, want 2", branchy.Params)
	}
	if branchy.SLOC.Physical != 11 {
		t.Errorf("Branchy physical = %d, want 11", branchy.SLOC.Physical)
	}
	// if, return, for (with init, post), if, return, return.
	if branchy.SLOC.Logical != 8 {
		t.Errorf("Branchy logical = %d, want 8", branchy.SLOC.Logical)
	}
	if branchy.Halstead.Volume <= 0 || branchy.Halstead.Effort <= 0 {
		t.Errorf("Branchy halstead not populated: %+v", branchy.Halstead)
	}

	if got := findFunction(t, mod, "Simple").Params; got != 0 {
		t.Errorf("Simple params = %d, want 0", got)
	}
}

func TestGoAnalyzer_Aggregate(t *testing.T) {
	mod := analyzeGo(t, goSample)

	if mod.Language != "go" {
		t.Errorf("Language = %q, want go", mod.Language)
	}
	if mod.Aggregate.Name != "sample.go" {
		t.Errorf("Aggregate.Name = %q, want sample.go", mod.Aggregate.Name)
	}
	// 1 + (5 from Branchy) + (2 from Method) + (1 from Ignored, which
	// counts for the file though it is not reported as a function).
	if mod.Aggregate.Cyclomatic != 9 {
		t.Errorf("Aggregate.Cyclomatic = %d, want 9", mod.Aggregate.Cyclomatic)
	}
	if mod.Aggregate.SLOC.Physical != 43 {
		t.Errorf("Aggregate physical = %d, want 43", mod.Aggregate.SLOC.Physical)
	}
}

func TestGoAnalyzer_AggregateCountsPackageInitializers(t *testing.T) {
	mod := analyzeGo(t, "package p\n\nvar a, b bool\n\nvar ready = a && b || !a\n")

	if len(mod.Functions) != 0 {
		t.Errorf("got %d functions, want 0", len(mod.Functions))
	}
	if mod.Aggregate.Cyclomatic != 3 {
		t.Errorf("Aggregate.Cyclomatic = %d, want 3", mod.Aggregate.Cyclomatic)
	}
}

func TestGoAnalyzer_Dependencies(t *testing.T) {
	mod := analyzeGo(t, goSample)

	want := []metrics.Dependency{
		{Path: "fmt", Line: 4, Type: metrics.DepGoImport},
		{Path: "strings", Line: 5, Type: metrics.DepGoImport},
	}
	if len(mod.Dependencies) != len(want) {
		t.Fatalf("got %d dependencies, want %d", len(mod.Dependencies), len(want))
	}
	for i := range want {
		if mod.Dependencies[i] != want[i] {
			t.Errorf("dependency %d = %+v, want %+v", i, mod.Dependencies[i], want[i])
		}
	}
}

func TestGoAnalyzer_ParseError(t *testing.T) {
	_, err := NewGoAnalyzer().Analyze(context.Background(),
		source.File{Path: "bad.go", Code: "package bad\nfunc {"}, DefaultOptions())
	if !errors.Is(err, ErrParse) {
		t.Errorf("expected ErrParse, got %v", err)
	}
}

func TestGoHalstead_Counts(t *testing.T) {
	// Identifiers and literals are operands; the automatic semicolon
	// is skipped.
	h := goHalstead([]byte("x := a + 1"))

	if h.Operands.Total != 3 || h.Operands.Distinct != 3 {
		t.Errorf("operands = %+v, want 3 total, 3 distinct", h.Operands)
	}
	if h.Operators.Total != 2 || h.Operators.Distinct != 2 {
		t.Errorf("operators = %+v, want 2 total, 2 distinct", h.Operators)
	}
}

func TestPhysicalLines(t *testing.T) {
	tests := []struct {
		code string
		want int
	}{
		{"", 0},
		{"a", 1},
		{"a\n", 1},
		{"a\nb", 2},
		{"a\nb\n", 2},
	}
	for _, tt := range tests {
		if got := physicalLines(tt.code); got != tt.want {
			t.Errorf("physicalLines(%q) = %d, want %d", tt.code, got, tt.want)
		}
	}
}
