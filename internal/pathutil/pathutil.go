// Package pathutil provides shared dataset path helpers.
package pathutil

import (
	"errors"
	"fmt"
	"path/filepath"
	"strings"

	"github.com/adrg/xdg"
)

// Errors returned by ResolveDatasetPath.
var (
	ErrEmptyPath   = errors.New("file path cannot be empty")
	ErrInvalidPath = errors.New("file path contains invalid characters")
)

// ResolveDatasetPath checks a dataset path and expands a leading "~" to the
// user's home directory. Other paths are returned cleaned, relative paths
// staying relative to the working directory.
func ResolveDatasetPath(path string) (string, error) {
	if path == "" {
		return "", ErrEmptyPath
	}
	if strings.ContainsRune(path, '\x00') {
		return "", fmt.Errorf("%w: %q", ErrInvalidPath, path)
	}

	if path == "~" {
		return xdg.Home, nil
	}
	if rest, ok := strings.CutPrefix(filepath.ToSlash(path), "~/"); ok {
		return filepath.Join(xdg.Home, filepath.FromSlash(rest)), nil
	}
	return filepath.Clean(path), nil
}
