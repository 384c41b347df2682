package metrics

// Finalize fills the derived values of a project report: cyclomatic
// density of every function, per-module averages and maintainability,
// and the project summary. It is safe to call more than once.
func Finalize(r *ProjectReport, newMI bool) {
	if r.Reports == nil {
		r.Reports = []ModuleReport{}
	}

	functions := 0
	for i := range r.Reports {
		finalizeModule(&r.Reports[i], newMI)
		functions += len(r.Reports[i].Functions)
	}

	s := Summary{
		Modules:   len(r.Reports),
		Functions: functions,
	}
	if n := float64(len(r.Reports)); n > 0 {
		for _, m := range r.Reports {
			s.Maintainability += m.Maintainability
			s.LOC += m.LOC
			s.Cyclomatic += m.Cyclomatic
			s.Effort += m.Effort
			s.Params += m.Params
		}
		s.Maintainability /= n
		s.LOC /= n
		s.Cyclomatic /= n
		s.Effort /= n
		s.Params /= n
	}
	s.FirstOrderDensity, s.ChangeCost = density(r.Adjacency, len(r.Reports))
	r.Summary = s
}

func finalizeModule(m *ModuleReport, newMI bool) {
	if m.Functions == nil {
		m.Functions = []FunctionReport{}
	}
	if m.Dependencies == nil {
		m.Dependencies = []Dependency{}
	}

	finalizeFunction(&m.Aggregate)
	for i := range m.Functions {
		finalizeFunction(&m.Functions[i])
	}

	if len(m.Functions) == 0 {
		m.LOC = float64(m.Aggregate.SLOC.Logical)
		m.Cyclomatic = float64(m.Aggregate.Cyclomatic)
		m.Effort = m.Aggregate.Halstead.Effort
		m.Params = float64(m.Aggregate.Params)
	} else {
		var loc, cyc, effort, params float64
		for _, f := range m.Functions {
			loc += float64(f.SLOC.Logical)
			cyc += float64(f.Cyclomatic)
			effort += f.Halstead.Effort
			params += float64(f.Params)
		}
		n := float64(len(m.Functions))
		m.LOC = loc / n
		m.Cyclomatic = cyc / n
		m.Effort = effort / n
		m.Params = params / n
	}

	m.Maintainability = MaintainabilityIndex(m.Effort, m.Cyclomatic, m.LOC, newMI)
}

func finalizeFunction(f *FunctionReport) {
	f.CyclomaticDensity = CyclomaticDensity(f.Cyclomatic, f.SLOC.Logical)
	if f.Halstead.Operators.Identifiers == nil {
		f.Halstead.Operators.Identifiers = []string{}
	}
	if f.Halstead.Operands.Identifiers == nil {
		f.Halstead.Operands.Identifiers = []string{}
	}
}

// density returns the first-order density and change cost of an
// n-module dependency graph, both as percentages of n*n.
func density(adj [][]bool, n int) (firstOrder, changeCost float64) {
	if n == 0 {
		return 0, 0
	}

	visible := make([][]bool, n)
	direct := 0
	for i := 0; i < n; i++ {
		visible[i] = make([]bool, n)
		for j := 0; j < n; j++ {
			if i < len(adj) && j < len(adj[i]) && adj[i][j] {
				visible[i][j] = true
				direct++
			}
		}
		visible[i][i] = true
	}

	// Warshall's transitive closure.
	for k := 0; k < n; k++ {
		for i := 0; i < n; i++ {
			if !visible[i][k] {
				continue
			}
			for j := 0; j < n; j++ {
				if visible[k][j] {
					visible[i][j] = true
				}
			}
		}
	}

	reachable := 0
	for i := range visible {
		for j := range visible[i] {
			if visible[i][j] {
				reachable++
			}
		}
	}

	cells := float64(n * n)
	return float64(direct) / cells * 100, float64(reachable) / cells * 100
}
