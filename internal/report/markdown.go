package report

import (
	"fmt"
	"io"
	"strings"

	"github.com/unbound-force/cr/internal/metrics"
)

// WriteMarkdown writes the report as a Markdown document with a
// summary list, a module table and the most complex functions.
func WriteMarkdown(w io.Writer, r *metrics.ProjectReport) error {
	var b strings.Builder

	b.WriteString("# Complexity report\n\n")

	sum := r.Summary
	fmt.Fprintf(&b, "- **Modules:** %d\n", sum.Modules)
	fmt.Fprintf(&b, "- **Functions:** %d\n", sum.Functions)
	fmt.Fprintf(&b, "- **Maintainability:** %.2f\n", sum.Maintainability)
	fmt.Fprintf(&b, "- **Mean cyclomatic:** %.2f\n", sum.Cyclomatic)
	fmt.Fprintf(&b, "- **Mean logical LOC:** %.2f\n", sum.LOC)
	fmt.Fprintf(&b, "- **Mean effort:** %.2f\n", sum.Effort)
	fmt.Fprintf(&b, "- **Mean params:** %.2f\n", sum.Params)
	fmt.Fprintf(&b, "- **First-order density:** %.2f%%\n", sum.FirstOrderDensity)
	fmt.Fprintf(&b, "- **Change cost:** %.2f%%\n", sum.ChangeCost)

	if len(r.Reports) > 0 {
		b.WriteString("\n## Modules\n\n")
		b.WriteString("| Module | Language | MI | Cyclomatic | LOC | Functions |\n")
		b.WriteString("|---|---|--:|--:|--:|--:|\n")
		for _, m := range r.Reports {
			fmt.Fprintf(&b, "| `%s` | %s | %.2f | %.2f | %.2f | %d |\n",
				m.Path, m.Language, m.Maintainability, m.Cyclomatic, m.LOC, len(m.Functions))
		}
	}

	if top := MostComplex(r, TopFunctions); len(top) > 0 {
		b.WriteString("\n## Most complex functions\n\n")
		b.WriteString("| Function | Location | Cyclomatic | Params | Effort |\n")
		b.WriteString("|---|---|--:|--:|--:|\n")
		for _, f := range top {
			fmt.Fprintf(&b, "| `%s` | `%s` | %d | %d | %.2f |\n",
				escapeCell(f.Name), f.Location(), f.Cyclomatic, f.Params, f.Halstead.Effort)
		}
	}

	if len(r.Errors) > 0 {
		b.WriteString("\n## Skipped files\n\n")
		for _, e := range r.Errors {
			fmt.Fprintf(&b, "- `%s`: %s\n", e.Path, e.Message)
		}
	}

	_, err := io.WriteString(w, b.String())
	return err
}

func escapeCell(s string) string {
	return strings.ReplaceAll(s, "|", `\|`)
}
