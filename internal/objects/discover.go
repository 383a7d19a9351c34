package objects

import (
	"fmt"
	"io/fs"
	"path/filepath"
)

// Hash lengths of the supported object formats.
const (
	SHA1HexLen   = 40
	SHA256HexLen = 64
)

// Loose is a loose object file in the store.
type Loose struct {
	Hash string
	Path string
}

// Discover walks an objects directory and returns every loose object in
// lexical order. Loose objects live in "<2 hex>/<remaining hex>" and their
// hash is the two names joined. Other directories (pack, info) and files
// with non-hex names are skipped.
func Discover(objectsDir string) ([]Loose, error) {
	var found []Loose

	err := filepath.WalkDir(objectsDir, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}

		rel, err := filepath.Rel(objectsDir, path)
		if err != nil {
			return err
		}
		if rel == "." {
			return nil
		}

		dir, name := filepath.Split(rel)
		if d.IsDir() {
			if dir != "" || !IsHash(name, 2) {
				return filepath.SkipDir
			}
			return nil
		}

		prefix := filepath.Clean(dir)
		if dir == "" || !IsHash(prefix, 2) {
			return nil
		}
		hash := prefix + name
		if IsHash(hash, SHA1HexLen) || IsHash(hash, SHA256HexLen) {
			found = append(found, Loose{Hash: hash, Path: path})
		}
		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("walking git objects: %w", err)
	}

	return found, nil
}
