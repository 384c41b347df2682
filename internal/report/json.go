package report

import (
	"encoding/json"
	"io"

	"github.com/unbound-force/cr/internal/metrics"
)

// WriteJSON writes the report as indented JSON to the writer.
func WriteJSON(w io.Writer, r *metrics.ProjectReport) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(NewDocument(r))
}
