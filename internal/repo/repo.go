// Package repo locates the Git repository enclosing a directory.
package repo

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
)

// GitDirName is the name of the repository metadata directory.
const GitDirName = ".git"

// ErrRepositoryNotFound is returned when no .git directory exists in the
// start directory or any of its parents.
var ErrRepositoryNotFound = errors.New("Not inside a Git repository")

// Locate walks up from startDir and returns the absolute path of the first
// directory that contains a .git directory.
func Locate(startDir string) (string, error) {
	dir, err := filepath.Abs(startDir)
	if err != nil {
		return "", fmt.Errorf("resolve %s: %w", startDir, err)
	}

	for {
		if info, err := os.Stat(filepath.Join(dir, GitDirName)); err == nil && info.IsDir() {
			return dir, nil
		}

		parent := filepath.Dir(dir)
		if parent == dir {
			// Reached filesystem root
			return "", ErrRepositoryNotFound
		}
		dir = parent
	}
}

// GitDir returns the .git directory of a repository root.
func GitDir(root string) string {
	return filepath.Join(root, GitDirName)
}
