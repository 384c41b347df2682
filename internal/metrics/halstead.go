package metrics

import "math"

// Counts holds the operator or operand side of a Halstead
// computation.
type Counts struct {
	Distinct    int      `json:"distinct" yaml:"distinct" xml:"distinct,attr"`
	Total       int      `json:"total" yaml:"total" xml:"total,attr"`
	Identifiers []string `json:"identifiers" yaml:"identifiers" xml:"identifier"`
}

// Halstead holds Halstead software-science metrics.
type Halstead struct {
	Operators Counts `json:"operators" yaml:"operators" xml:"operators"`
	Operands  Counts `json:"operands" yaml:"operands" xml:"operands"`

	Length     int     `json:"length" yaml:"length" xml:"length,attr"`
	Vocabulary int     `json:"vocabulary" yaml:"vocabulary" xml:"vocabulary,attr"`
	Difficulty float64 `json:"difficulty" yaml:"difficulty" xml:"difficulty,attr"`
	Volume     float64 `json:"volume" yaml:"volume" xml:"volume,attr"`
	Effort     float64 `json:"effort" yaml:"effort" xml:"effort,attr"`
	Bugs       float64 `json:"bugs" yaml:"bugs" xml:"bugs,attr"`
	Time       float64 `json:"time" yaml:"time" xml:"time,attr"`
}

// Tally accumulates operator and operand occurrences.
type Tally struct {
	operators map[string]int
	operands  map[string]int
	opOrder   []string
	argOrder  []string
}

// NewTally returns an empty Tally.
func NewTally() *Tally {
	return &Tally{
		operators: make(map[string]int),
		operands:  make(map[string]int),
	}
}

// Operator records one occurrence of an operator.
func (t *Tally) Operator(tok string) {
	if _, ok := t.operators[tok]; !ok {
		t.opOrder = append(t.opOrder, tok)
	}
	t.operators[tok]++
}

// Operand records one occurrence of an operand.
func (t *Tally) Operand(tok string) {
	if _, ok := t.operands[tok]; !ok {
		t.argOrder = append(t.argOrder, tok)
	}
	t.operands[tok]++
}

// Halstead computes the metrics for everything recorded so far.
func (t *Tally) Halstead() Halstead {
	return NewHalstead(tally(t.operators, t.opOrder), tally(t.operands, t.argOrder))
}

func tally(m map[string]int, order []string) Counts {
	c := Counts{Distinct: len(m), Identifiers: append([]string{}, order...)}
	for _, n := range m {
		c.Total += n
	}
	return c
}

// NewHalstead derives the composite Halstead metrics from operator
// and operand counts. Divisions by zero yield zero.
func NewHalstead(operators, operands Counts) Halstead {
	if operators.Identifiers == nil {
		operators.Identifiers = []string{}
	}
	if operands.Identifiers == nil {
		operands.Identifiers = []string{}
	}
	h := Halstead{
		Operators:  operators,
		Operands:   operands,
		Length:     operators.Total + operands.Total,
		Vocabulary: operators.Distinct + operands.Distinct,
	}
	if operands.Distinct > 0 {
		h.Difficulty = (float64(operators.Distinct) / 2) *
			(float64(operands.Total) / float64(operands.Distinct))
	}
	if h.Vocabulary > 0 {
		h.Volume = float64(h.Length) * math.Log2(float64(h.Vocabulary))
	}
	h.Effort = h.Difficulty * h.Volume
	h.Bugs = h.Volume / 3000
	h.Time = h.Effort / 18
	return h
}
