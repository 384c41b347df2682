// Package metrics defines the complexity report data model produced
// by cr: per-function, per-module and per-project records, together
// with the standard formulas (Halstead, maintainability index) used
// to derive composite values from raw counts.
package metrics

// SLOC holds source line counts for a function or module.
type SLOC struct {
	// Physical is the number of source lines spanned.
	Physical int `json:"physical" yaml:"physical" xml:"physical,attr"`

	// Logical is the number of statements.
	Logical int `json:"logical" yaml:"logical" xml:"logical,attr"`
}

// FunctionReport holds the metrics for a single function, method,
// arrow function or closure. A module's Aggregate is also a
// FunctionReport covering the whole file.
type FunctionReport struct {
	// Name is the function name (e.g., "Save", "(*Store).Save" or
	// "<anonymous>").
	Name string `json:"name" yaml:"name" xml:"name,attr"`

	// Line is the 1-based line where the function starts.
	Line int `json:"line" yaml:"line" xml:"line,attr"`

	// Params is the number of declared parameters.
	Params int `json:"params" yaml:"params" xml:"params,attr"`

	SLOC SLOC `json:"sloc" yaml:"sloc" xml:"sloc"`

	// Cyclomatic is the cyclomatic complexity (decision points + 1).
	Cyclomatic int `json:"cyclomatic" yaml:"cyclomatic" xml:"cyclomatic,attr"`

	// CyclomaticDensity is cyclomatic complexity as a percentage of
	// logical lines.
	CyclomaticDensity float64 `json:"cyclomatic_density" yaml:"cyclomatic_density" xml:"cyclomaticDensity,attr"`

	Halstead Halstead `json:"halstead" yaml:"halstead" xml:"halstead"`
}

// DependencyType classifies how a module references another.
type DependencyType string

// Dependency types.
const (
	DepImport   DependencyType = "import"
	DepRequire  DependencyType = "require"
	DepGoImport DependencyType = "go-import"
)

// Dependency is a module reference found in source.
type Dependency struct {
	// Path is the referenced path exactly as written.
	Path string `json:"path" yaml:"path" xml:"path,attr"`

	// Line is the 1-based line of the reference.
	Line int `json:"line" yaml:"line" xml:"line,attr"`

	Type DependencyType `json:"type" yaml:"type" xml:"type,attr"`
}

// ModuleReport holds the metrics for a single source file.
type ModuleReport struct {
	// Path is the file path as discovered on disk.
	Path string `json:"path" yaml:"path" xml:"path,attr"`

	// Language is the analyzer language (e.g., "go", "javascript").
	Language string `json:"language" yaml:"language" xml:"language,attr"`

	// Aggregate covers the whole module as one unit.
	Aggregate FunctionReport `json:"aggregate" yaml:"aggregate" xml:"aggregate"`

	Functions    []FunctionReport `json:"functions" yaml:"functions" xml:"functions>function"`
	Dependencies []Dependency     `json:"dependencies" yaml:"dependencies" xml:"dependencies>dependency"`

	// Maintainability is the module maintainability index.
	Maintainability float64 `json:"maintainability" yaml:"maintainability" xml:"maintainability,attr"`

	// LOC, Cyclomatic, Effort and Params are per-function averages.
	LOC        float64 `json:"loc" yaml:"loc" xml:"loc,attr"`
	Cyclomatic float64 `json:"cyclomatic" yaml:"cyclomatic" xml:"cyclomatic,attr"`
	Effort     float64 `json:"effort" yaml:"effort" xml:"effort,attr"`
	Params     float64 `json:"params" yaml:"params" xml:"params,attr"`
}

// FileError records a file that could not be analyzed.
type FileError struct {
	Path    string `json:"path" yaml:"path" xml:"path,attr"`
	Message string `json:"message" yaml:"message" xml:",chardata"`
}

// Summary holds project-wide aggregate statistics.
type Summary struct {
	Modules   int `json:"modules" yaml:"modules" xml:"modules,attr"`
	Functions int `json:"functions" yaml:"functions" xml:"functions,attr"`

	// Averages over modules.
	Maintainability float64 `json:"maintainability" yaml:"maintainability" xml:"maintainability,attr"`
	LOC             float64 `json:"loc" yaml:"loc" xml:"loc,attr"`
	Cyclomatic      float64 `json:"cyclomatic" yaml:"cyclomatic" xml:"cyclomatic,attr"`
	Effort          float64 `json:"effort" yaml:"effort" xml:"effort,attr"`
	Params          float64 `json:"params" yaml:"params" xml:"params,attr"`

	// FirstOrderDensity is the percentage of module pairs with a
	// direct dependency.
	FirstOrderDensity float64 `json:"first_order_density" yaml:"first_order_density" xml:"firstOrderDensity,attr"`

	// ChangeCost is the percentage of module pairs connected
	// directly or transitively, counting each module as visible to
	// itself.
	ChangeCost float64 `json:"change_cost" yaml:"change_cost" xml:"changeCost,attr"`
}

// ProjectReport is the complete complexity report.
type ProjectReport struct {
	Reports []ModuleReport `json:"reports" yaml:"reports" xml:"reports>module"`
	Errors  []FileError    `json:"errors,omitempty" yaml:"errors,omitempty" xml:"errors>error,omitempty"`
	Summary Summary        `json:"summary" yaml:"summary" xml:"summary"`

	// Adjacency[i][j] is true when Reports[i] depends on Reports[j].
	// Populated by the analyzer before Finalize; not serialized.
	Adjacency [][]bool `json:"-" yaml:"-" xml:"-"`
}
