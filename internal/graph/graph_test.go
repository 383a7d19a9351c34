package graph

import (
	"errors"
	"reflect"
	"testing"
)

func mustCreate(t *testing.T, g *Graph, h Hash) *Commit {
	t.Helper()
	c, _, err := g.GetOrCreate(h)
	if err != nil {
		t.Fatalf("GetOrCreate(%s) failed: %v", h, err)
	}
	return c
}

func TestGetOrCreate(t *testing.T) {
	g := New()

	c1, created, err := g.GetOrCreate("aa")
	if err != nil {
		t.Fatalf("GetOrCreate failed: %v", err)
	}
	if !created {
		t.Error("Expected first reference to create the node")
	}

	c2, created, err := g.GetOrCreate("aa")
	if err != nil {
		t.Fatalf("GetOrCreate failed: %v", err)
	}
	if created {
		t.Error("Expected second reference to reuse the node")
	}
	if c1 != c2 {
		t.Error("Expected exactly one node per hash")
	}
	if g.Len() != 1 {
		t.Errorf("Expected 1 node, got %d", g.Len())
	}
}

func TestDiscoveryOrder(t *testing.T) {
	g := New()
	for _, h := range []Hash{"cc", "aa", "bb", "aa", "cc"} {
		mustCreate(t, g, h)
	}

	var got []Hash
	for _, c := range g.Discovered() {
		got = append(got, c.Hash)
	}
	want := []Hash{"cc", "aa", "bb"}
	if !reflect.DeepEqual(got, want) {
		t.Errorf("Discovered() = %v, want %v", got, want)
	}
}

func TestAddEdgeSortedAndDeduplicated(t *testing.T) {
	g := New()
	for _, h := range []Hash{"m", "c", "a", "b"} {
		mustCreate(t, g, h)
	}

	edges := [][2]Hash{
		{"c", "m"},
		{"a", "m"},
		{"b", "m"},
		{"a", "m"}, // duplicate
		{"a", "b"},
		{"a", "c"},
	}
	for _, e := range edges {
		if err := g.AddEdge(e[0], e[1]); err != nil {
			t.Fatalf("AddEdge(%s, %s) failed: %v", e[0], e[1], err)
		}
	}

	m, _ := g.Lookup("m")
	if got, want := m.Parents(), []Hash{"a", "b", "c"}; !reflect.DeepEqual(got, want) {
		t.Errorf("m.Parents() = %v, want %v", got, want)
	}

	a, _ := g.Lookup("a")
	if got, want := a.Children(), []Hash{"b", "c", "m"}; !reflect.DeepEqual(got, want) {
		t.Errorf("a.Children() = %v, want %v", got, want)
	}

	g.Seal()
	if got, want := m.Parents(), []Hash{"a", "b", "c"}; !reflect.DeepEqual(got, want) {
		t.Errorf("sealed m.Parents() = %v, want %v", got, want)
	}
	if got, want := a.Children(), []Hash{"b", "c", "m"}; !reflect.DeepEqual(got, want) {
		t.Errorf("sealed a.Children() = %v, want %v", got, want)
	}
}

func TestEdgesAreMutual(t *testing.T) {
	g := New()
	for _, h := range []Hash{"a", "b", "c", "d"} {
		mustCreate(t, g, h)
	}
	for _, e := range [][2]Hash{{"a", "b"}, {"a", "c"}, {"b", "d"}, {"c", "d"}} {
		if err := g.AddEdge(e[0], e[1]); err != nil {
			t.Fatal(err)
		}
	}
	g.Seal()

	for _, c := range g.Discovered() {
		for _, p := range c.Parents() {
			parent := g.MustLookup(p)
			if !containsHash(parent.Children(), c.Hash) {
				t.Errorf("%s lists parent %s but is not among its children", c.Hash, p)
			}
		}
		for _, ch := range c.Children() {
			child := g.MustLookup(ch)
			if !containsHash(child.Parents(), c.Hash) {
				t.Errorf("%s lists child %s but is not among its parents", c.Hash, ch)
			}
		}
	}
}

func TestAddEdgeUnknownCommit(t *testing.T) {
	g := New()
	mustCreate(t, g, "a")

	if err := g.AddEdge("a", "missing"); !errors.Is(err, ErrUnknownCommit) {
		t.Errorf("Expected ErrUnknownCommit, got %v", err)
	}
	if err := g.AddEdge("missing", "a"); !errors.Is(err, ErrUnknownCommit) {
		t.Errorf("Expected ErrUnknownCommit, got %v", err)
	}
}

func TestSealRejectsChanges(t *testing.T) {
	g := New()
	mustCreate(t, g, "a")
	mustCreate(t, g, "b")
	g.Seal()

	if !g.Sealed() {
		t.Error("Expected graph to be sealed")
	}
	if _, _, err := g.GetOrCreate("c"); !errors.Is(err, ErrSealed) {
		t.Errorf("Expected ErrSealed creating a node, got %v", err)
	}
	if _, _, err := g.GetOrCreate("a"); err != nil {
		t.Errorf("Lookup of an existing node should still succeed, got %v", err)
	}
	if err := g.AddEdge("a", "b"); !errors.Is(err, ErrSealed) {
		t.Errorf("Expected ErrSealed adding an edge, got %v", err)
	}
}

func TestLabel(t *testing.T) {
	g := New()
	mustCreate(t, g, "a")

	if !g.Label("a", "main") {
		t.Fatal("Expected label on existing commit to succeed")
	}
	g.Label("a", "feature/x")
	g.Label("a", "main")
	if g.Label("missing", "main") {
		t.Error("Expected label on unknown commit to fail")
	}

	a, _ := g.Lookup("a")
	if got := a.Label(); got != "main feature/x" {
		t.Errorf("Label() = %q, want %q", got, "main feature/x")
	}
}

func TestShort(t *testing.T) {
	if got := Hash("0123456789abcdef").Short(); got != "0123456" {
		t.Errorf("Short() = %q", got)
	}
	if got := Hash("abc").Short(); got != "abc" {
		t.Errorf("Short() = %q", got)
	}
}

func containsHash(hs []Hash, h Hash) bool {
	for _, x := range hs {
		if x == h {
			return true
		}
	}
	return false
}
