// Package config holds the options of a complexity report run and
// loads them from JSON, YAML or TOML files.
package config

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"path/filepath"
	"regexp"
	"strings"

	"github.com/BurntSushi/toml"
	"github.com/spf13/afero"
	"gopkg.in/yaml.v3"
)

// DefaultFilePattern selects Go, JavaScript and TypeScript sources.
const DefaultFilePattern = `\.(go|[jt]sx?)$`

// DefaultFormat is the report format used when none is requested.
const DefaultFormat = "json"

// Analysis holds the switches forwarded to the analysis engine.
type Analysis struct {
	// LogicalOr counts "||" and "??" as decision points.
	LogicalOr bool `json:"logicalor" yaml:"logicalor" toml:"logicalor"`

	// SwitchCase counts each switch case as a decision point.
	SwitchCase bool `json:"switchcase" yaml:"switchcase" toml:"switchcase"`

	// ForIn counts for...in and for...of loops as decision points.
	ForIn bool `json:"forin" yaml:"forin" toml:"forin"`

	// TryCatch counts catch clauses as decision points.
	TryCatch bool `json:"trycatch" yaml:"trycatch" toml:"trycatch"`

	// NewMI rescales the maintainability index to 0..100.
	NewMI bool `json:"newmi" yaml:"newmi" toml:"newmi"`

	// IgnoreErrors skips files that fail to parse.
	IgnoreErrors bool `json:"ignoreerrors" yaml:"ignoreerrors" toml:"ignoreerrors"`

	// IgnoreGenerated skips files with a generated-code header.
	IgnoreGenerated bool `json:"ignoregenerated" yaml:"ignoregenerated" toml:"ignoregenerated"`
}

// Thresholds are CI gates. Zero disables a gate.
type Thresholds struct {
	MaxCyclomatic      int     `json:"maxcyclomatic" yaml:"maxcyclomatic" toml:"maxcyclomatic"`
	MinMaintainability float64 `json:"minmaintainability" yaml:"minmaintainability" toml:"minmaintainability"`
}

// Config is the complete set of options for a report run.
type Config struct {
	// Output is the report file path; empty writes to stdout.
	Output string `json:"output" yaml:"output" toml:"output"`

	// Format names the report formatter.
	Format string `json:"format" yaml:"format" toml:"format"`

	// AllFiles includes hidden files and directories.
	AllFiles bool `json:"allfiles" yaml:"allfiles" toml:"allfiles"`

	// FilePattern is the include regular expression.
	FilePattern string `json:"filepattern" yaml:"filepattern" toml:"filepattern"`

	// ExcludePattern is the exclude regular expression; it
	// overrides FilePattern.
	ExcludePattern string `json:"excludepattern" yaml:"excludepattern" toml:"excludepattern"`

	// Jobs bounds concurrent file reads. Zero means one per CPU.
	Jobs int `json:"jobs" yaml:"jobs" toml:"jobs"`

	Analysis   Analysis   `json:"analysis" yaml:"analysis" toml:"analysis"`
	Thresholds Thresholds `json:"thresholds" yaml:"thresholds" toml:"thresholds"`
}

// DefaultConfig returns a Config with the built-in defaults.
func DefaultConfig() *Config {
	return &Config{
		Format:      DefaultFormat,
		FilePattern: DefaultFilePattern,
		Analysis: Analysis{
			SwitchCase:      true,
			NewMI:           true,
			IgnoreGenerated: true,
		},
	}
}

// ErrUnknownFormat is returned by Load for unsupported file
// extensions.
var ErrUnknownFormat = errors.New("unsupported config file format")

// Load reads the config file at path on fsys, layered over
// DefaultConfig. The decoder is chosen by extension: .json, .yaml and
// .yml use YAML (a superset of JSON), .toml uses TOML. Unknown keys
// are an error.
func Load(fsys afero.Fs, path string) (*Config, error) {
	data, err := afero.ReadFile(fsys, path)
	if err != nil {
		return nil, fmt.Errorf("reading config %s: %w", path, err)
	}

	cfg := DefaultConfig()
	switch ext := strings.ToLower(filepath.Ext(path)); ext {
	case ".json", ".yaml", ".yml":
		dec := yaml.NewDecoder(bytes.NewReader(data))
		dec.KnownFields(true)
		if err := dec.Decode(cfg); err != nil && !errors.Is(err, io.EOF) {
			return nil, fmt.Errorf("parsing config %s: %w", path, err)
		}
	case ".toml":
		md, err := toml.Decode(string(data), cfg)
		if err != nil {
			return nil, fmt.Errorf("parsing config %s: %w", path, err)
		}
		if undecoded := md.Undecoded(); len(undecoded) > 0 {
			keys := make([]string, len(undecoded))
			for i, k := range undecoded {
				keys[i] = k.String()
			}
			return nil, fmt.Errorf("parsing config %s: unknown keys %s", path, strings.Join(keys, ", "))
		}
	default:
		return nil, fmt.Errorf("config %s: %w %q", path, ErrUnknownFormat, ext)
	}

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("config %s: %w", path, err)
	}
	return cfg, nil
}

// Validate checks numeric bounds and that both patterns compile.
func (c *Config) Validate() error {
	if c.Jobs < 0 {
		return fmt.Errorf("jobs must be non-negative, got %d", c.Jobs)
	}
	if c.Thresholds.MaxCyclomatic < 0 {
		return fmt.Errorf("maxcyclomatic must be non-negative, got %d", c.Thresholds.MaxCyclomatic)
	}
	if c.Thresholds.MinMaintainability < 0 {
		return fmt.Errorf("minmaintainability must be non-negative, got %g", c.Thresholds.MinMaintainability)
	}
	if _, _, err := c.Patterns(); err != nil {
		return err
	}
	return nil
}

// Patterns compiles the include and exclude expressions. An empty
// include falls back to DefaultFilePattern; an empty exclude yields
// nil.
func (c *Config) Patterns() (include, exclude *regexp.Regexp, err error) {
	pattern := c.FilePattern
	if pattern == "" {
		pattern = DefaultFilePattern
	}
	include, err = regexp.Compile(pattern)
	if err != nil {
		return nil, nil, fmt.Errorf("invalid file pattern %q: %w", pattern, err)
	}
	if c.ExcludePattern != "" {
		exclude, err = regexp.Compile(c.ExcludePattern)
		if err != nil {
			return nil, nil, fmt.Errorf("invalid exclude pattern %q: %w", c.ExcludePattern, err)
		}
	}
	return include, exclude, nil
}
