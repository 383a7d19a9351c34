// Package graph holds the commit graph rebuilt from the object store.
//
// The graph owns every commit node. Edges are stored as hashes and resolved
// through the graph, so a node may have any number of parents and children
// without any of them owning it.
package graph

import (
	"strings"

	"github.com/emirpasic/gods/sets/treeset"
)

// Hash is the lowercase hex name of a commit object.
type Hash string

// Short returns the first seven characters of the hash.
func (h Hash) Short() string {
	if len(h) <= 7 {
		return string(h)
	}
	return string(h[:7])
}

func hashComparator(a, b interface{}) int {
	return strings.Compare(string(a.(Hash)), string(b.(Hash)))
}

// Commit is one node of the graph.
type Commit struct {
	Hash     Hash
	Branches []string

	// ordered sets while the graph is being built
	parentSet *treeset.Set
	childSet  *treeset.Set

	// frozen by Graph.Seal
	parents  []Hash
	children []Hash
}

func newCommit(h Hash) *Commit {
	return &Commit{
		Hash:      h,
		parentSet: treeset.NewWith(hashComparator),
		childSet:  treeset.NewWith(hashComparator),
	}
}

// Parents returns the parent hashes in ascending order.
func (c *Commit) Parents() []Hash {
	if c.parentSet == nil {
		return c.parents
	}
	return setValues(c.parentSet)
}

// Children returns the hashes of commits naming c as a parent, ascending.
func (c *Commit) Children() []Hash {
	if c.childSet == nil {
		return c.children
	}
	return setValues(c.childSet)
}

// IsRoot reports whether the commit has no parents.
func (c *Commit) IsRoot() bool {
	return len(c.Parents()) == 0
}

// Label joins the branch names pointing at the commit with single spaces.
func (c *Commit) Label() string {
	return strings.Join(c.Branches, " ")
}

func (c *Commit) freeze() {
	c.parents = setValues(c.parentSet)
	c.children = setValues(c.childSet)
	c.parentSet = nil
	c.childSet = nil
}

func setValues(s *treeset.Set) []Hash {
	values := s.Values()
	out := make([]Hash, len(values))
	for i, v := range values {
		out[i] = v.(Hash)
	}
	return out
}
