// Package source reads the files selected for analysis and prepares
// their text for the parsers.
package source

import (
	"bufio"
	"context"
	"fmt"
	"regexp"
	"runtime"
	"strings"

	"github.com/spf13/afero"
	"golang.org/x/sync/errgroup"
)

// File is a unit of source handed to the analysis engine.
type File struct {
	// Path is the path the file was read from.
	Path string `json:"path"`

	// Code is the file content, shebang already commented out.
	Code string `json:"code"`
}

// ReadOptions configures Read.
type ReadOptions struct {
	// Jobs bounds the number of reads in flight. Zero or negative
	// means runtime.NumCPU().
	Jobs int

	// KeepShebang disables shebang stripping.
	KeepShebang bool
}

// Read loads every path from fsys with at most opts.Jobs reads in
// flight. Files are returned in the order of paths. The first read
// error cancels outstanding reads and is returned.
func Read(ctx context.Context, fsys afero.Fs, paths []string, opts ReadOptions) ([]File, error) {
	jobs := opts.Jobs
	if jobs <= 0 {
		jobs = runtime.NumCPU()
	}

	files := make([]File, len(paths))

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(jobs)

	for i, path := range paths {
		g.Go(func() error {
			if err := gctx.Err(); err != nil {
				return err
			}
			data, err := afero.ReadFile(fsys, path)
			if err != nil {
				return fmt.Errorf("reading %s: %w", path, err)
			}
			code := string(data)
			if !opts.KeepShebang {
				code = StripShebang(code)
			}
			files[i] = File{Path: path, Code: code}
			return nil
		})
	}

	if err := g.Wait(); err != nil {
		return nil, err
	}
	return files, nil
}

// StripShebang turns a leading "#!" interpreter line into a line
// comment. Line numbering is unchanged.
func StripShebang(code string) string {
	if strings.HasPrefix(code, "#!") {
		return "//" + code
	}
	return code
}

// generatedRegexp matches the conventional generated-file marker:
// "^// Code generated .* DO NOT EDIT\.$"
var generatedRegexp = regexp.MustCompile(`^// Code generated .* DO NOT EDIT\.$`)

// IsGenerated reports whether code carries a generated-file marker
// before its first non-comment text. Blank lines and block comments
// are skipped; the marker itself must be a line comment.
func IsGenerated(code string) bool {
	scanner := bufio.NewScanner(strings.NewReader(code))
	scanner.Buffer(make([]byte, 0, 64*1024), 1024*1024)
	inBlock := false
	for scanner.Scan() {
		var line string
		line, inBlock = skipBlockComments(strings.TrimSpace(scanner.Text()), inBlock)
		if line == "" {
			continue
		}
		if !strings.HasPrefix(line, "//") {
			return false
		}
		if generatedRegexp.MatchString(line) {
			return true
		}
	}
	return false
}

// skipBlockComments drops "/* ... */" comments from the start of line
// and reports whether a block comment is still open at its end.
func skipBlockComments(line string, inBlock bool) (string, bool) {
	for {
		if inBlock {
			end := strings.Index(line, "*/")
			if end < 0 {
				return "", true
			}
			line = strings.TrimSpace(line[end+2:])
			inBlock = false
		}
		if !strings.HasPrefix(line, "/*") {
			return line, false
		}
		line = line[2:]
		inBlock = true
	}
}
