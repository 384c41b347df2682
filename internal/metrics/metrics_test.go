package metrics

import (
	"math"
	"testing"
)

func approx(t *testing.T, name string, got, want float64) {
	t.Helper()
	if math.Abs(got-want) > 0.01 {
		t.Errorf("%s = %f, want %f", name, got, want)
	}
}

func TestNewHalstead_Basic(t *testing.T) {
	// n1=2, N1=3, n2=3, N2=4
	// N = 7, n = 5, D = 2/2 * 4/3 = 1.333, V = 7*log2(5) = 16.254
	h := NewHalstead(
		Counts{Distinct: 2, Total: 3},
		Counts{Distinct: 3, Total: 4},
	)
	if h.Length != 7 {
		t.Errorf("Length = %d, want 7", h.Length)
	}
	if h.Vocabulary != 5 {
		t.Errorf("Vocabulary = %d, want 5", h.Vocabulary)
	}
	approx(t, "Difficulty", h.Difficulty, 4.0/3.0)
	approx(t, "Volume", h.Volume, 7*math.Log2(5))
	approx(t, "Effort", h.Effort, 4.0/3.0*7*math.Log2(5))
	approx(t, "Bugs", h.Bugs, 7*math.Log2(5)/3000)
	approx(t, "Time", h.Time, 4.0/3.0*7*math.Log2(5)/18)
}

func TestNewHalstead_Empty(t *testing.T) {
	h := NewHalstead(Counts{}, Counts{})
	if h.Difficulty != 0 || h.Volume != 0 || h.Effort != 0 {
		t.Errorf("expected zero metrics for empty counts, got %+v", h)
	}
	if h.Operators.Identifiers == nil || h.Operands.Identifiers == nil {
		t.Error("expected non-nil identifier slices")
	}
}

func TestTally_Halstead(t *testing.T) {
	tl := NewTally()
	tl.Operator("=")
	tl.Operator("+")
	tl.Operator("=")
	tl.Operand("x")
	tl.Operand("1")
	tl.Operand("x")

	h := tl.Halstead()
	if h.Operators.Distinct != 2 || h.Operators.Total != 3 {
		t.Errorf("operators = %+v, want distinct 2 total 3", h.Operators)
	}
	if h.Operands.Distinct != 2 || h.Operands.Total != 3 {
		t.Errorf("operands = %+v, want distinct 2 total 3", h.Operands)
	}
	if got := h.Operators.Identifiers; len(got) != 2 || got[0] != "=" || got[1] != "+" {
		t.Errorf("operator identifiers = %v, want [= +] in first-seen order", got)
	}
}

func TestMaintainabilityIndex(t *testing.T) {
	tests := []struct {
		name                    string
		effort, cyclomatic, loc float64
		newMI                   bool
		want                    float64
	}{
		{
			name:   "all ones is the ceiling",
			effort: 1, cyclomatic: 1, loc: 1,
			want: 171,
		},
		{
			name:   "all ones normalized",
			effort: 1, cyclomatic: 1, loc: 1, newMI: true,
			want: 100,
		},
		{
			name:   "typical function",
			effort: 1000, cyclomatic: 4, loc: 10,
			want: 171 - 3.42*math.Log(1000) - 0.23*math.Log(4) - 16.2*math.Log(10),
		},
		{
			name:   "zero effort caps",
			effort: 0, cyclomatic: 3, loc: 5,
			want: 171,
		},
		{
			name:   "huge values floor at zero when normalized",
			effort: 1e30, cyclomatic: 500, loc: 1e6, newMI: true,
			want: 0,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := MaintainabilityIndex(tt.effort, tt.cyclomatic, tt.loc, tt.newMI)
			approx(t, "MaintainabilityIndex", got, tt.want)
		})
	}
}

func TestCyclomaticDensity(t *testing.T) {
	approx(t, "density", CyclomaticDensity(3, 6), 50)
	approx(t, "zero logical", CyclomaticDensity(3, 0), 0)
}

func TestFinalize_ModuleAverages(t *testing.T) {
	r := &ProjectReport{
		Reports: []ModuleReport{
			{
				Path: "a.js",
				Functions: []FunctionReport{
					{Name: "f", Cyclomatic: 2, Params: 1, SLOC: SLOC{Logical: 4}, Halstead: Halstead{Effort: 100}},
					{Name: "g", Cyclomatic: 4, Params: 3, SLOC: SLOC{Logical: 8}, Halstead: Halstead{Effort: 300}},
				},
			},
		},
	}

	Finalize(r, true)

	m := r.Reports[0]
	approx(t, "LOC", m.LOC, 6)
	approx(t, "Cyclomatic", m.Cyclomatic, 3)
	approx(t, "Effort", m.Effort, 200)
	approx(t, "Params", m.Params, 2)
	approx(t, "Maintainability", m.Maintainability, MaintainabilityIndex(200, 3, 6, true))
	approx(t, "density f", m.Functions[0].CyclomaticDensity, 50)

	if r.Summary.Modules != 1 || r.Summary.Functions != 2 {
		t.Errorf("summary counts = %d/%d, want 1/2", r.Summary.Modules, r.Summary.Functions)
	}
	if m.Dependencies == nil {
		t.Error("expected non-nil dependencies slice")
	}
}

func TestFinalize_NoFunctionsUsesAggregate(t *testing.T) {
	r := &ProjectReport{
		Reports: []ModuleReport{
			{
				Path: "main.js",
				Aggregate: FunctionReport{
					Cyclomatic: 2,
					SLOC:       SLOC{Logical: 5},
					Halstead:   Halstead{Effort: 50},
				},
			},
		},
	}

	Finalize(r, false)

	m := r.Reports[0]
	approx(t, "LOC", m.LOC, 5)
	approx(t, "Cyclomatic", m.Cyclomatic, 2)
	approx(t, "Effort", m.Effort, 50)
	if m.Functions == nil {
		t.Error("expected non-nil functions slice")
	}
}

func TestFinalize_EmptyProject(t *testing.T) {
	r := &ProjectReport{}
	Finalize(r, true)
	if r.Reports == nil {
		t.Error("expected non-nil reports slice")
	}
	if r.Summary.Modules != 0 || r.Summary.ChangeCost != 0 {
		t.Errorf("expected zero summary, got %+v", r.Summary)
	}
}

func TestDensity(t *testing.T) {
	// a -> b -> c, no other edges.
	adj := [][]bool{
		{false, true, false},
		{false, false, true},
		{false, false, false},
	}

	first, change := density(adj, 3)

	// 2 direct edges out of 9 cells.
	approx(t, "first order", first, 2.0/9.0*100)
	// Visible: 3 self + a->b, a->c, b->c = 6 of 9.
	approx(t, "change cost", change, 6.0/9.0*100)
}

func TestDensity_NoAdjacency(t *testing.T) {
	first, change := density(nil, 4)
	approx(t, "first order", first, 0)
	// Only the diagonal.
	approx(t, "change cost", change, 25)
}
