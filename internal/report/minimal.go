package report

import (
	"fmt"
	"io"

	"github.com/unbound-force/cr/internal/metrics"
)

// WriteMinimal writes one line per module followed by a project
// line, without styling.
func WriteMinimal(w io.Writer, r *metrics.ProjectReport) error {
	for _, m := range r.Reports {
		if _, err := fmt.Fprintf(w, "%s: mi=%.2f cyclomatic=%.2f loc=%.2f functions=%d\n",
			m.Path, m.Maintainability, m.Cyclomatic, m.LOC, len(m.Functions)); err != nil {
			return err
		}
	}
	for _, e := range r.Errors {
		if _, err := fmt.Fprintf(w, "%s: skipped: %s\n", e.Path, e.Message); err != nil {
			return err
		}
	}
	_, err := fmt.Fprintf(w, "project: modules=%d mi=%.2f first-order-density=%.2f%% change-cost=%.2f%%\n",
		r.Summary.Modules, r.Summary.Maintainability, r.Summary.FirstOrderDensity, r.Summary.ChangeCost)
	return err
}
