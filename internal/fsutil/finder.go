// Package fsutil provides file system utility functions.
package fsutil

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/specialistvlad/pipeconf/internal/ctxlog"
	"github.com/spf13/afero"
)

// FindFilesByExtension recursively searches the given root path for all files ending
// with one of the specified extensions. It returns their full paths in lexical order.
func FindFilesByExtension(fs afero.Fs, rootPath string, extensions ...string) ([]string, error) {
	if len(extensions) == 0 {
		panic("at least one extension is required")
	}

	var files []string
	err := afero.Walk(fs, rootPath, func(path string, info os.FileInfo, err error) error {
		if err != nil {
			return err
		}
		if !info.IsDir() && HasExtension(path, extensions...) {
			files = append(files, path)
		}
		return nil
	})

	if err != nil {
		return nil, err
	}

	return files, nil
}

// HasExtension reports whether path ends with one of extensions, ignoring case.
func HasExtension(path string, extensions ...string) bool {
	ext := strings.ToLower(filepath.Ext(path))
	for _, want := range extensions {
		if ext == strings.ToLower(want) {
			return true
		}
	}
	return false
}

// Discover expands paths into the list of files carrying one of extensions.
// Directories are searched recursively, files are kept when their extension
// matches, and paths that do not exist are skipped. Each file is listed once,
// in the order it is first found.
func Discover(ctx context.Context, fs afero.Fs, paths []string, extensions ...string) ([]string, error) {
	logger := ctxlog.FromContext(ctx)

	var found []string
	seen := make(map[string]struct{})
	add := func(p string) {
		if _, ok := seen[p]; ok {
			return
		}
		seen[p] = struct{}{}
		found = append(found, p)
	}

	for _, path := range paths {
		info, err := fs.Stat(path)
		if err != nil {
			if os.IsNotExist(err) {
				logger.Debug("Skipping missing path.", "path", path)
				continue
			}
			return nil, fmt.Errorf("error accessing path %s: %w", path, err)
		}

		if !info.IsDir() {
			if HasExtension(path, extensions...) {
				add(path)
			} else {
				logger.Debug("Skipping file with unsupported extension.", "path", path)
			}
			continue
		}

		files, err := FindFilesByExtension(fs, path, extensions...)
		if err != nil {
			return nil, fmt.Errorf("error searching %s: %w", path, err)
		}
		for _, f := range files {
			add(f)
		}
	}

	logger.Debug("Discovered source files.", "count", len(found))
	return found, nil
}
