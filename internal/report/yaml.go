package report

import (
	"io"

	"github.com/unbound-force/cr/internal/metrics"
	"gopkg.in/yaml.v3"
)

// WriteYAML writes the report as a YAML document.
func WriteYAML(w io.Writer, r *metrics.ProjectReport) error {
	enc := yaml.NewEncoder(w)
	enc.SetIndent(2)
	if err := enc.Encode(NewDocument(r)); err != nil {
		return err
	}
	return enc.Close()
}
