// Package corpuswalk discovers rebuilt-text partition files under a
// corpus root: one file per collection-year, the unit assigned to a
// single classify/decide process.
package corpuswalk

import (
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strings"

	ignore "github.com/sabhiram/go-gitignore"
)

// ignoreFileName is this package's analogue of .gitignore: a
// collection operator can drop one at the corpus root to exclude
// partitions (e.g. known-bad OCR batches) from a run.
const ignoreFileName = ".lidensignore"

// partitionExtensions are the file extensions recognized as rebuilt-text
// JSONL partitions.
var partitionExtensions = map[string]bool{
	".jsonl":    true,
	".jsonl.gz": true,
	".ndjson":   true,
}

// Partition is one discovered input file: a single collection-year's
// worth of content items.
type Partition struct {
	Path    string // absolute or root-relative path
	RelPath string // path relative to the corpus root
}

// Walker discovers rebuilt-text partitions under a corpus root.
type Walker struct{}

// NewWalker returns a Walker.
func NewWalker() *Walker {
	return &Walker{}
}

// Discover walks root recursively and returns every partition file
// found, skipping hidden directories and anything matched by a
// .lidensignore file at the root, if present.
func (w *Walker) Discover(root string) ([]Partition, error) {
	info, err := os.Stat(root)
	if err != nil {
		return nil, fmt.Errorf("corpuswalk: cannot access root %s: %w", root, err)
	}
	if !info.IsDir() {
		return nil, fmt.Errorf("corpuswalk: %s is not a directory", root)
	}

	var exclude *ignore.GitIgnore
	ignorePath := filepath.Join(root, ignoreFileName)
	if _, err := os.Stat(ignorePath); err == nil {
		exclude, err = ignore.CompileIgnoreFile(ignorePath)
		if err != nil {
			return nil, fmt.Errorf("corpuswalk: parse %s: %w", ignorePath, err)
		}
	}

	var partitions []Partition
	err = filepath.WalkDir(root, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			fmt.Fprintf(os.Stderr, "corpuswalk: warning: skipping %s: %v\n", path, err)
			if d != nil && d.IsDir() {
				return fs.SkipDir
			}
			return nil
		}

		name := d.Name()
		if d.IsDir() {
			if name != "." && strings.HasPrefix(name, ".") {
				return fs.SkipDir
			}
			return nil
		}

		if !hasPartitionExt(name) {
			return nil
		}

		relPath, err := filepath.Rel(root, path)
		if err != nil {
			fmt.Fprintf(os.Stderr, "corpuswalk: warning: skipping %s: %v\n", path, err)
			return nil
		}
		if exclude != nil && exclude.MatchesPath(relPath) {
			return nil
		}

		partitions = append(partitions, Partition{Path: path, RelPath: relPath})
		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("corpuswalk: walk error: %w", err)
	}
	return partitions, nil
}

func hasPartitionExt(name string) bool {
	for ext := range partitionExtensions {
		if strings.HasSuffix(name, ext) {
			return true
		}
	}
	return false
}
