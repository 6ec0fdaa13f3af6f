// Package walker lists the files of a directory tree as a lazy sequence.
package walker

import (
	"fmt"
	"io/fs"
	"iter"
	"os"
	"path/filepath"
	"strings"

	"github.com/bmatcuk/doublestar/v4"

	"github.com/kamal-hamza/imgcheck/internal/core/domain"
)

// Options controls which files a walk yields
type Options struct {
	// Extensions restricts yielded files; empty yields every file.
	Extensions domain.ExtensionFilter

	// Recursive descends into subdirectories. When false only the files
	// directly inside the root are yielded.
	Recursive bool

	// Exclude holds doublestar patterns matched against the slash separated
	// path relative to the root, e.g. "Pods/**" or "**/*Tests.swift".
	// A matching directory is not descended into.
	Exclude []string
}

// ValidatePatterns returns ErrBadPattern for the first malformed pattern
func ValidatePatterns(patterns []string) error {
	for _, p := range patterns {
		if !doublestar.ValidatePattern(p) {
			return fmt.Errorf("%w: %q", ErrBadPattern, p)
		}
	}
	return nil
}

// Walk yields the path of every regular file under root accepted by opts.
//
// Hidden entries (names starting with ".") are skipped. A symlink is yielded
// when it resolves to a regular file; directory symlinks are never descended.
// Entries are visited in os.ReadDir order, which is sorted by name; callers
// must not rely on it. If a directory cannot be listed the sequence yields a
// *WalkError and stops.
func Walk(root string, opts Options) iter.Seq2[string, error] {
	return func(yield func(string, error) bool) {
		walkDir(root, root, opts, yield)
	}
}

// excluded reports whether path matches one of the exclude patterns
func excluded(root, path string, patterns []string) bool {
	if len(patterns) == 0 {
		return false
	}
	rel, err := filepath.Rel(root, path)
	if err != nil {
		return false
	}
	rel = filepath.ToSlash(rel)
	for _, p := range patterns {
		if ok, err := doublestar.Match(p, rel); err == nil && ok {
			return true
		}
	}
	return false
}

// walkDir returns false once the consumer stops or an error was yielded
func walkDir(root, dir string, opts Options, yield func(string, error) bool) bool {
	entries, err := os.ReadDir(dir)
	if err != nil {
		yield("", &WalkError{Path: dir, Err: err})
		return false
	}

	for _, entry := range entries {
		if IsHidden(entry.Name()) {
			continue
		}

		path := filepath.Join(dir, entry.Name())
		if excluded(root, path, opts.Exclude) {
			continue
		}

		switch {
		case entry.IsDir():
			if opts.Recursive && !walkDir(root, path, opts, yield) {
				return false
			}
		case entry.Type().IsRegular():
			if opts.Extensions.Matches(Ext(path)) && !yield(path, nil) {
				return false
			}
		case entry.Type()&fs.ModeSymlink != 0:
			if isFileLink(path) && opts.Extensions.Matches(Ext(path)) && !yield(path, nil) {
				return false
			}
		}
	}
	return true
}

// isFileLink reports whether the symlink at path resolves to a regular file.
// Broken links resolve to nothing and are skipped.
func isFileLink(path string) bool {
	info, err := os.Stat(path)
	return err == nil && info.Mode().IsRegular()
}

// Collect drains a walk into a slice, stopping at the first error
func Collect(seq iter.Seq2[string, error]) ([]string, error) {
	var paths []string
	for path, err := range seq {
		if err != nil {
			return nil, err
		}
		paths = append(paths, path)
	}
	return paths, nil
}

// Ext returns the lowercase extension of path without the dot.
// "Image.PNG" -> "png", "Makefile" -> "".
func Ext(path string) string {
	return strings.ToLower(strings.TrimPrefix(filepath.Ext(path), "."))
}

// IsHidden reports whether a file or directory name is a dotfile
func IsHidden(name string) bool {
	return strings.HasPrefix(name, ".")
}
