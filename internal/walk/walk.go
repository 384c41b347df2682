// Package walk discovers the source files to analyze beneath a set
// of root paths.
package walk

import (
	"fmt"
	"os"
	"path/filepath"
	"regexp"
	"sort"
	"strings"

	"github.com/spf13/afero"
)

// Options configures a Find invocation.
type Options struct {
	// Include selects files whose path matches. Nil selects every
	// file with a supported extension.
	Include *regexp.Regexp

	// Exclude rejects files whose path matches. Exclude overrides
	// Include.
	Exclude *regexp.Regexp

	// Extensions lists the file extensions (with leading dot) the
	// analysis engine can handle. Empty means no restriction.
	Extensions []string

	// AllFiles includes hidden files and descends into hidden
	// directories.
	AllFiles bool
}

// Find walks each root on fsys and returns the sorted, de-duplicated
// list of files selected by opts. A root may be a file or a
// directory; roots are never subject to the hidden-file policy.
// A file root is selected unless Exclude matches it, so that an
// unsupported file named explicitly reaches analysis and is reported
// there. Symbolic links are not followed.
func Find(fsys afero.Fs, roots []string, opts Options) ([]string, error) {
	seen := make(map[string]bool)
	var files []string

	for _, root := range roots {
		root = filepath.Clean(root)
		if _, err := fsys.Stat(root); err != nil {
			return nil, fmt.Errorf("path %s: %w", root, err)
		}

		err := afero.Walk(fsys, root, func(path string, info os.FileInfo, walkErr error) error {
			if walkErr != nil {
				return fmt.Errorf("walking %s: %w", path, walkErr)
			}

			if path != root && !opts.AllFiles && isHidden(info.Name()) {
				if info.IsDir() {
					return filepath.SkipDir
				}
				return nil
			}

			if !info.Mode().IsRegular() {
				return nil
			}

			sel := opts
			if path == root {
				sel = Options{Exclude: opts.Exclude}
			}
			if !Match(path, sel) || seen[path] {
				return nil
			}
			seen[path] = true
			files = append(files, path)
			return nil
		})
		if err != nil {
			return nil, err
		}
	}

	sort.Strings(files)
	return files, nil
}

// Match reports whether a file path is selected by opts, ignoring
// the hidden-file policy.
//
// Logic:
//  1. The extension must be one of opts.Extensions (when set).
//  2. The path must match opts.Include (when set).
//  3. The path must not match opts.Exclude (when set).
func Match(path string, opts Options) bool {
	path = filepath.ToSlash(path)

	if len(opts.Extensions) > 0 && !hasExtension(path, opts.Extensions) {
		return false
	}
	if opts.Include != nil && !opts.Include.MatchString(path) {
		return false
	}
	if opts.Exclude != nil && opts.Exclude.MatchString(path) {
		return false
	}
	return true
}

func hasExtension(path string, exts []string) bool {
	ext := strings.ToLower(filepath.Ext(path))
	for _, e := range exts {
		if ext == e {
			return true
		}
	}
	return false
}

func isHidden(name string) bool {
	return strings.HasPrefix(name, ".") && name != "." && name != ".."
}
