package markdown

import (
	"context"
	"fmt"
	"io/fs"
	"path/filepath"
	"sort"
	"strings"
)

// FileResult carries one discovered markdown file, or the read error that
// prevented loading it. Per-file failures are recoverable at the content
// loader boundary, so enumeration does not abort on them.
type FileResult struct {
	Name   string
	Source []byte
	Err    error
}

// Loader discovers markdown files in a single directory. Enumeration is
// non-recursive; sub-directories are ignored.
type Loader struct {
	fs      fs.FS
	pattern string
}

// NewLoader constructs a Loader over the provided filesystem. An empty
// pattern defaults to "*.md".
func NewLoader(filesystem fs.FS, pattern string) *Loader {
	if strings.TrimSpace(pattern) == "" {
		pattern = "*.md"
	}
	return &Loader{
		fs:      filesystem,
		pattern: pattern,
	}
}

// Files enumerates matching files in name order and reads each one. A
// directory read failure is fatal; individual file read failures surface on
// the corresponding FileResult.
func (l *Loader) Files(ctx context.Context) ([]FileResult, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	entries, err := fs.ReadDir(l.fs, ".")
	if err != nil {
		return nil, fmt.Errorf("markdown loader read dir: %w", err)
	}

	var results []FileResult
	for _, entry := range entries {
		if entry.IsDir() {
			continue
		}
		name := entry.Name()
		match, matchErr := filepath.Match(l.pattern, name)
		if matchErr != nil || !match {
			continue
		}

		if err := ctx.Err(); err != nil {
			return nil, err
		}

		data, readErr := fs.ReadFile(l.fs, name)
		if readErr != nil {
			results = append(results, FileResult{
				Name: name,
				Err:  fmt.Errorf("markdown loader read %s: %w", name, readErr),
			})
			continue
		}
		results = append(results, FileResult{Name: name, Source: data})
	}

	// fs.ReadDir already sorts by name, but the contract matters downstream:
	// enumeration order is the stable tie-break for equal post dates.
	sort.SliceStable(results, func(i, j int) bool {
		return results[i].Name < results[j].Name
	})

	return results, nil
}
