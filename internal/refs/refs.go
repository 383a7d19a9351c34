// Package refs reads branch references and the HEAD pointer of a Git
// repository.
package refs

import (
	"errors"
	"fmt"
	"io/fs"
	"log"
	"os"
	"path/filepath"
	"strings"

	"github.com/javanhut/topograph/internal/graph"
	"github.com/javanhut/topograph/internal/objects"
)

// ErrInvalidHead is returned when HEAD is neither a symbolic ref nor a hash.
var ErrInvalidHead = errors.New("invalid HEAD contents")

// Branch is a local branch and the commit it points to.
type Branch struct {
	Name string // path below refs/heads, '/'-separated
	Hash string
}

// Head represents the state of HEAD.
type Head struct {
	Ref      string // e.g. refs/heads/main (empty if detached)
	Hash     string // valid if detached
	Detached bool
}

// Branch returns the branch name HEAD points at, or "" when detached or
// pointing outside refs/heads.
func (h *Head) Branch() string {
	return strings.TrimPrefix(h.Ref, "refs/heads/")
}

// ReadBranches walks <gitDir>/refs/heads and returns every branch in lexical
// order of name. Lock files and files that do not hold a hash are skipped.
func ReadBranches(gitDir string) ([]Branch, error) {
	headsDir := filepath.Join(gitDir, "refs", "heads")
	if _, err := os.Stat(headsDir); os.IsNotExist(err) {
		return nil, nil // No branches yet
	}

	var branches []Branch
	err := filepath.WalkDir(headsDir, func(path string, d fs.DirEntry, err error) error {
		if err != nil || d.IsDir() {
			return err
		}
		if strings.HasSuffix(path, ".lock") {
			return nil
		}

		relPath, err := filepath.Rel(headsDir, path)
		if err != nil {
			return err
		}
		name := filepath.ToSlash(relPath)

		hash, err := readRef(path)
		if err != nil {
			return err
		}
		if !isHash(hash) {
			log.Printf("Warning: Skipping branch %s: invalid hash %q", name, hash)
			return nil
		}

		branches = append(branches, Branch{Name: name, Hash: hash})
		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("read local branches: %w", err)
	}

	return branches, nil
}

// ReadHead reads <gitDir>/HEAD.
func ReadHead(gitDir string) (*Head, error) {
	line, err := readRef(filepath.Join(gitDir, "HEAD"))
	if err != nil {
		return nil, fmt.Errorf("read HEAD: %w", err)
	}

	if ref, ok := strings.CutPrefix(line, "ref: "); ok {
		return &Head{Ref: strings.TrimSpace(ref)}, nil
	}
	if isHash(line) {
		return &Head{Hash: line, Detached: true}, nil
	}
	return nil, fmt.Errorf("%w: %q", ErrInvalidHead, line)
}

// Attach labels the commits that branches point at. Branches naming a commit
// that is not in the graph are returned.
func Attach(g *graph.Graph, branches []Branch) []Branch {
	var unknown []Branch
	for _, b := range branches {
		if !g.Label(graph.Hash(b.Hash), b.Name) {
			unknown = append(unknown, b)
		}
	}
	return unknown
}

// readRef returns the first line of a ref file, trimmed.
func readRef(path string) (string, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return "", err
	}
	line, _, _ := strings.Cut(string(data), "\n")
	return strings.TrimSpace(line), nil
}

func isHash(s string) bool {
	return objects.IsHash(s, objects.SHA1HexLen) || objects.IsHash(s, objects.SHA256HexLen)
}
