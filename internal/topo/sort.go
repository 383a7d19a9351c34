// Package topo orders a commit graph so that every commit comes before all
// of its ancestors.
package topo

import (
	"errors"
	"fmt"

	"github.com/javanhut/topograph/internal/graph"
)

// ErrCycle is returned when a commit is reached again while it is still
// being visited. A well-formed object store never produces one.
var ErrCycle = errors.New("commit graph contains a cycle")

type mark uint8

const (
	unvisited mark = iota
	inProgress
	done
)

// frame is one entry of the explicit DFS stack.
type frame struct {
	commit *graph.Commit
	next   int // index of the next child to visit
}

// Sort performs an iterative depth-first traversal along child edges,
// seeded from the graph's discovery queue in order, and returns every commit
// exactly once. A commit is appended only after all of its children, so
// each commit precedes every commit it descends from.
func Sort(g *graph.Graph) ([]*graph.Commit, error) {
	marks := make(map[graph.Hash]mark, g.Len())
	order := make([]*graph.Commit, 0, g.Len())
	var stack []frame

	for _, seed := range g.Discovered() {
		if marks[seed.Hash] != unvisited {
			continue
		}
		marks[seed.Hash] = inProgress
		stack = append(stack[:0], frame{commit: seed})

		for len(stack) > 0 {
			top := &stack[len(stack)-1]
			children := top.commit.Children()

			if top.next >= len(children) {
				order = append(order, top.commit)
				marks[top.commit.Hash] = done
				stack = stack[:len(stack)-1]
				continue
			}

			child := g.MustLookup(children[top.next])
			top.next++

			switch marks[child.Hash] {
			case done:
				// already emitted
			case inProgress:
				return nil, fmt.Errorf("revisit %s from %s: %w", child.Hash, top.commit.Hash, ErrCycle)
			default:
				marks[child.Hash] = inProgress
				stack = append(stack, frame{commit: child})
			}
		}
	}

	return order, nil
}
