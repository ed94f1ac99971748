// Package vlogfinder locates .vlog files for a scan.
package vlogfinder

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sort"
)

// EnvLogDir is the environment variable consulted when no directory is
// given explicitly.
const EnvLogDir = "VLOGSCAN_LOGDIR"

// Sentinel errors.
var (
	ErrLogDirNotFound = errors.New("log directory not found")
	ErrNotDirectory   = errors.New("not a directory")
)

// ResolveDir returns the directory to scan.
//
// Priority:
//  1. explicit (if non-empty)
//  2. VLOGSCAN_LOGDIR environment variable
//
// The directory must exist and be a directory; that is validated here,
// before any parsing begins. The returned path has symlinks resolved so
// file source names are consistent.
func ResolveDir(explicit string) (string, error) {
	dir := explicit
	if dir == "" {
		dir = os.Getenv(EnvLogDir)
	}
	if dir == "" {
		return "", ErrLogDirNotFound
	}

	info, err := os.Stat(dir)
	if err != nil {
		if os.IsNotExist(err) {
			return "", fmt.Errorf("%w: %s", ErrLogDirNotFound, dir)
		}
		return "", fmt.Errorf("stat log directory: %w", err)
	}
	if !info.IsDir() {
		return "", fmt.Errorf("%w: %s", ErrNotDirectory, dir)
	}

	resolved, err := filepath.EvalSymlinks(dir)
	if err != nil {
		// Broken symlink chain: treat as not found rather than guessing.
		return "", fmt.Errorf("%w: %s", ErrLogDirNotFound, dir)
	}
	return resolved, nil
}

// ListLogFiles returns the paths of all regular .vlog files in dir,
// sorted lexically by name. The lexical sort fixes the file enumeration
// order, so scans are reproducible regardless of directory iteration
// order. An empty result is not an error: a folder with no logs yields an
// empty report.
func ListLogFiles(dir string) ([]string, error) {
	matches, err := filepath.Glob(filepath.Join(dir, "*.vlog"))
	if err != nil {
		return nil, fmt.Errorf("globbing log files: %w", err)
	}

	files := make([]string, 0, len(matches))
	for _, m := range matches {
		info, err := os.Lstat(m)
		if err != nil || !info.Mode().IsRegular() {
			// Deleted mid-scan or special files: skipped here, surfaced
			// later as per-file errors if they reappear unreadable.
			continue
		}
		files = append(files, m)
	}

	sort.Strings(files)
	return files, nil
}
