package report

import (
	"fmt"
	"io"
	"sort"
	"strconv"

	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/lipgloss/table"
	"github.com/unbound-force/cr/internal/metrics"
)

// TopFunctions is the number of functions listed in the text and
// markdown "most complex" sections.
const TopFunctions = 10

// FunctionRef is a function together with the module it belongs to.
type FunctionRef struct {
	Path string
	metrics.FunctionReport
}

// Location returns "path:line".
func (f FunctionRef) Location() string {
	return f.Path + ":" + strconv.Itoa(f.Line)
}

// MostComplex returns up to n functions ordered by descending
// cyclomatic complexity, then by path and line. n <= 0 returns all.
func MostComplex(r *metrics.ProjectReport, n int) []FunctionRef {
	var refs []FunctionRef
	for _, m := range r.Reports {
		for _, fn := range m.Functions {
			refs = append(refs, FunctionRef{Path: m.Path, FunctionReport: fn})
		}
	}
	sort.SliceStable(refs, func(i, j int) bool {
		a, b := refs[i], refs[j]
		if a.Cyclomatic != b.Cyclomatic {
			return a.Cyclomatic > b.Cyclomatic
		}
		if a.Path != b.Path {
			return a.Path < b.Path
		}
		return a.Line < b.Line
	})
	if n > 0 && len(refs) > n {
		refs = refs[:n]
	}
	return refs
}

// WriteText writes the report as human-readable styled text to the
// writer. Output uses lipgloss for color and formatting when the
// output is a TTY; degrades gracefully for pipes and CI.
func WriteText(w io.Writer, r *metrics.ProjectReport) error {
	s := DefaultStyles()

	fmt.Fprintln(w, s.Header.Render("=== Modules ==="))
	if len(r.Reports) == 0 {
		fmt.Fprintln(w, s.Muted.Render("    No modules analyzed."))
	} else {
		fmt.Fprintln(w, moduleTable(r, s))
	}

	if top := MostComplex(r, TopFunctions); len(top) > 0 {
		fmt.Fprintln(w)
		fmt.Fprintln(w, s.Header.Render("=== Most complex functions ==="))
		fmt.Fprintln(w, functionTable(top, s))
	}

	if len(r.Errors) > 0 {
		fmt.Fprintln(w)
		fmt.Fprintln(w, s.Header.Render("=== Skipped files ==="))
		for _, e := range r.Errors {
			fmt.Fprintln(w, s.Muted.Render("    "+truncate(e.Path+": "+e.Message, 76)))
		}
	}

	fmt.Fprintln(w)
	writeSummary(w, r.Summary, s)
	return nil
}

// Column budget: 80 cols total. Five columns take 6 border cols and
// 10 padding cols, leaving 64. MI=6, CYC=6, LOC=6, FUNCS=5, MODULE=41.
const maxModulePath = 41

func moduleTable(r *metrics.ProjectReport, s Styles) *table.Table {
	rows := make([][]string, 0, len(r.Reports))
	for _, m := range r.Reports {
		rows = append(rows, []string{
			truncatePath(m.Path, maxModulePath),
			fmt.Sprintf("%.1f", m.Maintainability),
			fmt.Sprintf("%.1f", m.Cyclomatic),
			fmt.Sprintf("%.1f", m.LOC),
			strconv.Itoa(len(m.Functions)),
		})
	}

	return table.New().
		Width(78).
		Border(lipgloss.NormalBorder()).
		BorderStyle(s.Border).
		StyleFunc(func(row, col int) lipgloss.Style {
			if row == table.HeaderRow {
				return s.TableHeader
			}
			if row >= 0 && row < len(r.Reports) {
				m := r.Reports[row]
				switch col {
				case 1:
					return s.MaintainabilityStyle(m.Maintainability).PaddingRight(1)
				case 2:
					return s.CyclomaticStyle(m.Cyclomatic).PaddingRight(1)
				}
			}
			return s.TableCell
		}).
		Headers("MODULE", "MI", "CYC", "LOC", "FUNCS").
		Rows(rows...)
}

// Column budget: CYC=4, FUNCTION=24, LOCATION=36.
const (
	maxFunctionName = 24
	maxLocation     = 36
)

func functionTable(top []FunctionRef, s Styles) *table.Table {
	rows := make([][]string, 0, len(top))
	for _, f := range top {
		rows = append(rows, []string{
			strconv.Itoa(f.Cyclomatic),
			truncate(f.Name, maxFunctionName),
			truncatePath(f.Location(), maxLocation),
		})
	}

	return table.New().
		Width(78).
		Border(lipgloss.NormalBorder()).
		BorderStyle(s.Border).
		StyleFunc(func(row, col int) lipgloss.Style {
			if row == table.HeaderRow {
				return s.TableHeader
			}
			if col == 0 && row >= 0 && row < len(top) {
				return s.CyclomaticStyle(float64(top[row].Cyclomatic)).PaddingRight(1)
			}
			return s.TableCell
		}).
		Headers("CYC", "FUNCTION", "LOCATION").
		Rows(rows...)
}

func writeSummary(w io.Writer, sum metrics.Summary, s Styles) {
	line := func(label, value string) {
		fmt.Fprintln(w, s.SummaryLabel.Render(label)+s.SummaryValue.Render(value))
	}
	line("Modules:", strconv.Itoa(sum.Modules))
	line("Functions:", strconv.Itoa(sum.Functions))
	line("Maintainability:", s.MaintainabilityStyle(sum.Maintainability).Render(fmt.Sprintf("%.2f", sum.Maintainability)))
	line("Mean cyclomatic:", s.CyclomaticStyle(sum.Cyclomatic).Render(fmt.Sprintf("%.2f", sum.Cyclomatic)))
	line("Mean logical LOC:", fmt.Sprintf("%.2f", sum.LOC))
	line("Mean effort:", fmt.Sprintf("%.2f", sum.Effort))
	line("Mean params:", fmt.Sprintf("%.2f", sum.Params))
	line("First-order density:", fmt.Sprintf("%.2f%%", sum.FirstOrderDensity))
	line("Change cost:", fmt.Sprintf("%.2f%%", sum.ChangeCost))
}

// truncatePath shortens p to at most limit runes by dropping leading
// characters, keeping the file name visible.
func truncatePath(p string, limit int) string {
	r := []rune(p)
	if len(r) <= limit {
		return p
	}
	return "..." + string(r[len(r)-limit+3:])
}

func truncate(s string, limit int) string {
	r := []rune(s)
	if len(r) <= limit {
		return s
	}
	return string(r[:limit-3]) + "..."
}
