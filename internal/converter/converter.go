// Package converter turns the loose objects of a Git repository into a
// commit graph.
package converter

import (
	"errors"
	"fmt"
	"log"
	"path/filepath"

	"github.com/javanhut/topograph/internal/graph"
	"github.com/javanhut/topograph/internal/objects"
	"github.com/javanhut/topograph/internal/store"
)

// ConversionResult holds the results of a scan.
type ConversionResult struct {
	Converted int // commit objects added to the graph
	Skipped   int // objects of other types
	CacheHits int // objects answered by the cache
}

// Options configures Load.
type Options struct {
	// Cache, when set, memoises decoded objects between runs.
	Cache *store.DB
}

// Load scans <gitDir>/objects and registers every commit and every parent
// it names in g. Nodes are created in first-encounter order: the scanned
// commit first, then its parents as listed. Any object that cannot be read
// or decoded aborts the scan; the graph must then be discarded.
func Load(gitDir string, g *graph.Graph, opts Options) (*ConversionResult, error) {
	result := &ConversionResult{}

	objectsDir := filepath.Join(gitDir, "objects")
	loose, err := objects.Discover(objectsDir)
	if err != nil {
		return result, fmt.Errorf("discover git objects: %w", err)
	}
	log.Printf("Scanning %d loose objects in %s", len(loose), objectsDir)

	pending := make(map[string]store.Entry)
	for _, obj := range loose {
		objType, parents, err := decodeObject(obj, opts.Cache, pending, result)
		if err != nil {
			return result, err
		}

		if objType != objects.TypeCommit {
			if !objType.Known() {
				log.Printf("Warning: Object %s has unknown type %q", obj.Hash, objType)
			}
			result.Skipped++
			continue
		}

		if err := addCommit(g, obj.Hash, parents); err != nil {
			return result, fmt.Errorf("add commit %s: %w", obj.Hash, err)
		}
		result.Converted++
	}

	if opts.Cache != nil && len(pending) > 0 {
		if err := opts.Cache.PutEntries(pending); err != nil {
			log.Printf("Warning: Failed to update object cache: %v", err)
		} else {
			log.Printf("Cached %d decoded objects", len(pending))
		}
	}

	log.Printf("Found %d commits (%d other objects skipped, %d cache hits)",
		result.Converted, result.Skipped, result.CacheHits)
	return result, nil
}

// decodeObject returns the type and parents of one loose object, from the
// cache when its fingerprint still matches.
func decodeObject(obj objects.Loose, cache *store.DB, pending map[string]store.Entry, result *ConversionResult) (objects.Type, []string, error) {
	raw, err := objects.ReadFile(obj.Path)
	if err != nil {
		return "", nil, &objects.DecodeError{Hash: obj.Hash, Path: obj.Path, Err: err}
	}

	var fp store.Fingerprint
	if cache != nil {
		fp = store.Sum(raw)
		entry, err := cache.Lookup(obj.Hash)
		switch {
		case err == nil && entry.Fingerprint == fp:
			result.CacheHits++
			return objects.Type(entry.Type), entry.Parents, nil
		case err == nil:
			log.Printf("Cached entry for %s is stale (file fingerprint %s)", obj.Hash, fp)
		case err != nil && !errors.Is(err, store.ErrNotFound):
			log.Printf("Warning: Ignoring cache entry: %v", err)
		}
	}

	objType, parents, err := objects.Decode(raw, len(obj.Hash))
	if err != nil {
		return "", nil, &objects.DecodeError{Hash: obj.Hash, Path: obj.Path, Err: err}
	}

	if cache != nil {
		pending[obj.Hash] = store.Entry{Fingerprint: fp, Type: string(objType), Parents: parents}
	}
	return objType, parents, nil
}

func addCommit(g *graph.Graph, hash string, parents []string) error {
	if _, _, err := g.GetOrCreate(graph.Hash(hash)); err != nil {
		return err
	}
	for _, p := range parents {
		if _, _, err := g.GetOrCreate(graph.Hash(p)); err != nil {
			return err
		}
		if err := g.AddEdge(graph.Hash(p), graph.Hash(hash)); err != nil {
			return err
		}
	}
	return nil
}
