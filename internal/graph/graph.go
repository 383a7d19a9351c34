package graph

import (
	"errors"
	"fmt"
)

var (
	// ErrSealed is returned when the graph is modified after Seal.
	ErrSealed = errors.New("graph is sealed")
	// ErrUnknownCommit is returned when an edge names a commit that was never created.
	ErrUnknownCommit = errors.New("unknown commit")
)

// Graph maps commit hashes to nodes. It is not safe for concurrent use.
type Graph struct {
	nodes      map[Hash]*Commit
	discovered []*Commit
	sealed     bool
}

// New returns an empty graph.
func New() *Graph {
	return &Graph{nodes: make(map[Hash]*Commit)}
}

// GetOrCreate returns the node for h, creating and registering it on first
// reference. created is true when the node is new; new nodes are appended
// to the discovery queue.
func (g *Graph) GetOrCreate(h Hash) (c *Commit, created bool, err error) {
	if c, ok := g.nodes[h]; ok {
		return c, false, nil
	}
	if g.sealed {
		return nil, false, fmt.Errorf("create %s: %w", h, ErrSealed)
	}
	c = newCommit(h)
	g.nodes[h] = c
	g.discovered = append(g.discovered, c)
	return c, true, nil
}

// Lookup returns the node for h.
func (g *Graph) Lookup(h Hash) (*Commit, bool) {
	c, ok := g.nodes[h]
	return c, ok
}

// MustLookup returns the node for h and panics if it does not exist. Callers
// use it for hashes read back from the graph's own adjacency lists.
func (g *Graph) MustLookup(h Hash) *Commit {
	c, ok := g.nodes[h]
	if !ok {
		panic(fmt.Sprintf("graph: dangling edge to %s", h))
	}
	return c
}

// AddEdge records that parent is a parent of child, on both nodes. Adding an
// existing edge is a no-op.
func (g *Graph) AddEdge(parent, child Hash) error {
	if g.sealed {
		return fmt.Errorf("edge %s -> %s: %w", child, parent, ErrSealed)
	}
	p, ok := g.nodes[parent]
	if !ok {
		return fmt.Errorf("edge parent %s: %w", parent, ErrUnknownCommit)
	}
	c, ok := g.nodes[child]
	if !ok {
		return fmt.Errorf("edge child %s: %w", child, ErrUnknownCommit)
	}
	c.parentSet.Add(parent)
	p.childSet.Add(child)
	return nil
}

// Label attaches a branch name to the commit h. It reports false if no such
// commit exists.
func (g *Graph) Label(h Hash, branch string) bool {
	c, ok := g.nodes[h]
	if !ok {
		return false
	}
	for _, b := range c.Branches {
		if b == branch {
			return true
		}
	}
	c.Branches = append(c.Branches, branch)
	return true
}

// Seal freezes every adjacency set into a sorted slice. No node or edge can
// be added afterwards.
func (g *Graph) Seal() {
	if g.sealed {
		return
	}
	for _, c := range g.discovered {
		c.freeze()
	}
	g.sealed = true
}

// Sealed reports whether Seal has been called.
func (g *Graph) Sealed() bool {
	return g.sealed
}

// Discovered returns every node in first-encounter order.
func (g *Graph) Discovered() []*Commit {
	return g.discovered
}

// Len returns the number of commits.
func (g *Graph) Len() int {
	return len(g.nodes)
}
