package report

import (
	"encoding/xml"
	"io"

	"github.com/unbound-force/cr/internal/metrics"
)

// WriteXML writes the report as an indented XML document with a
// <report> root element.
func WriteXML(w io.Writer, r *metrics.ProjectReport) error {
	if _, err := io.WriteString(w, xml.Header); err != nil {
		return err
	}
	enc := xml.NewEncoder(w)
	enc.Indent("", "  ")
	if err := enc.Encode(NewDocument(r)); err != nil {
		return err
	}
	if err := enc.Close(); err != nil {
		return err
	}
	_, err := io.WriteString(w, "\n")
	return err
}
