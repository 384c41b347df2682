// Package report provides output formatters for complexity reports:
// JSON, YAML, XML, Markdown, a styled text table and a minimal
// one-line-per-module listing.
package report

import (
	"encoding/xml"
	"io"
	"sort"

	"github.com/unbound-force/cr/internal/metrics"
)

// Version is the version of the serialized document layout.
const Version = "1.0.0"

// Formatter writes a project report to w.
type Formatter func(w io.Writer, r *metrics.ProjectReport) error

var formatters = map[string]Formatter{
	"json":     WriteJSON,
	"yaml":     WriteYAML,
	"xml":      WriteXML,
	"markdown": WriteMarkdown,
	"text":     WriteText,
	"minimal":  WriteMinimal,
}

// Formats returns the sorted names of every formatter.
func Formats() []string {
	names := make([]string, 0, len(formatters))
	for name := range formatters {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// Lookup returns the formatter registered under name.
func Lookup(name string) (Formatter, bool) {
	f, ok := formatters[name]
	return f, ok
}

// Write renders r with the named formatter. Unknown names fall back
// to JSON; fellBack reports whether that happened.
func Write(w io.Writer, name string, r *metrics.ProjectReport) (fellBack bool, err error) {
	f, ok := Lookup(name)
	if !ok {
		f, fellBack = WriteJSON, true
	}
	return fellBack, f(w, r)
}

// Document is the serialized envelope shared by the JSON, YAML and
// XML formats.
type Document struct {
	XMLName xml.Name               `json:"-" yaml:"-" xml:"report"`
	Version string                 `json:"version" yaml:"version" xml:"version,attr"`
	Reports []metrics.ModuleReport `json:"reports" yaml:"reports" xml:"reports>module"`
	Errors  []metrics.FileError    `json:"errors,omitempty" yaml:"errors,omitempty" xml:"errors>error,omitempty"`
	Summary metrics.Summary        `json:"summary" yaml:"summary" xml:"summary"`
}

// NewDocument wraps r for serialization.
func NewDocument(r *metrics.ProjectReport) Document {
	reports := r.Reports
	if reports == nil {
		reports = []metrics.ModuleReport{}
	}
	return Document{
		Version: Version,
		Reports: reports,
		Errors:  r.Errors,
		Summary: r.Summary,
	}
}
