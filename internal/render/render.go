// Package render decomposes a topologically sorted commit graph into linear
// chains and prints them.
//
// A chain starts at a commit that still has an unwalked parent edge and
// follows parents until it reaches a root or a fork point that other chains
// still have to pass through. Such a fork point ends the chain with a
// sticky-end line (`<hash>=`). A commit that starts a second chain after one
// of its parent edges has already been walked is printed as a join line
// (`=<hash>`).
package render

import (
	"bufio"
	"io"

	mapset "github.com/deckarep/golang-set/v2"

	"github.com/javanhut/topograph/internal/colors"
	"github.com/javanhut/topograph/internal/graph"
)

// Kind selects the format of a printed line.
type Kind uint8

const (
	// Plain is "<hash> <labels>"; labels may be empty.
	Plain Kind = iota
	// Join is "=<hash>".
	Join
	// Sticky is "<hash>=".
	Sticky
)

// Line is one printed commit.
type Line struct {
	Kind  Kind
	Hash  graph.Hash
	Label string
}

// String formats the line without color.
func (l Line) String() string {
	switch l.Kind {
	case Join:
		return "=" + string(l.Hash)
	case Sticky:
		return string(l.Hash) + "="
	default:
		return string(l.Hash) + " " + l.Label
	}
}

func (l Line) colored() string {
	switch l.Kind {
	case Join:
		return colors.Marker("=") + colors.CommitHash(string(l.Hash))
	case Sticky:
		return colors.CommitHash(string(l.Hash)) + colors.Marker("=")
	default:
		return colors.CommitHash(string(l.Hash)) + " " + colors.BranchLabel(l.Label)
	}
}

// Chain is a printable run of commits, newest first.
type Chain []Line

// walker carries the print-phase counters. They are separate from any
// state the sorter used.
type walker struct {
	g        *graph.Graph
	consumed map[graph.Hash]int // parent edges already walked from a commit
	arrived  map[graph.Hash]int // child edges already walked into a commit
	printed  mapset.Set[graph.Hash]
}

// Decompose walks order, which must list every commit of g before its
// parents, and returns the chains in print order.
func Decompose(g *graph.Graph, order []*graph.Commit) []Chain {
	w := &walker{
		g:        g,
		consumed: make(map[graph.Hash]int, len(order)),
		arrived:  make(map[graph.Hash]int, len(order)),
		printed:  mapset.NewThreadUnsafeSet[graph.Hash](),
	}

	var chains []Chain
	cursor := 0
	for {
		for cursor < len(order) && !w.startsChain(order[cursor]) {
			cursor++
		}
		if cursor == len(order) {
			return chains
		}
		chains = append(chains, w.chainFrom(order[cursor]))
	}
}

// startsChain reports whether c still has an unwalked parent edge, or is an
// isolated root that has not been printed yet.
func (w *walker) startsChain(c *graph.Commit) bool {
	if w.consumed[c.Hash] < len(c.Parents()) {
		return true
	}
	return c.IsRoot() && len(c.Children()) == 0 && !w.printed.Contains(c.Hash)
}

// chainFrom builds one chain starting at head. By the time the cursor
// reaches head every child edge into it has been walked, so a head never
// ends in a sticky line.
func (w *walker) chainFrom(head *graph.Commit) Chain {
	var chain Chain
	if w.consumed[head.Hash] > 0 {
		chain = append(chain, Line{Kind: Join, Hash: head.Hash})
	} else {
		chain = append(chain, w.plain(head))
	}

	c := head
	for {
		parents := c.Parents()
		next := w.consumed[c.Hash]
		if next >= len(parents) {
			return chain
		}
		w.consumed[c.Hash]++

		p := w.g.MustLookup(parents[next])
		w.arrived[p.Hash]++
		if n := len(p.Children()); n > 1 && w.arrived[p.Hash] < n {
			w.printed.Add(p.Hash)
			return append(chain, Line{Kind: Sticky, Hash: p.Hash})
		}

		chain = append(chain, w.plain(p))
		c = p
	}
}

func (w *walker) plain(c *graph.Commit) Line {
	w.printed.Add(c.Hash)
	return Line{Kind: Plain, Hash: c.Hash, Label: c.Label()}
}

// Write prints chains separated by one blank line and terminates the output
// with a blank line.
func Write(out io.Writer, chains []Chain) error {
	bw := bufio.NewWriter(out)
	for i, chain := range chains {
		if i > 0 {
			bw.WriteByte('\n')
		}
		for _, l := range chain {
			bw.WriteString(l.colored())
			bw.WriteByte('\n')
		}
	}
	bw.WriteByte('\n')
	return bw.Flush()
}

// Render decomposes and prints in one step.
func Render(out io.Writer, g *graph.Graph, order []*graph.Commit) error {
	return Write(out, Decompose(g, order))
}
