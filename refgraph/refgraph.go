// Package refgraph indexes the reference sets of raw records as a directed
// graph: an edge runs from each class, field or method to every name its
// body references.
package refgraph

import (
	"errors"
	"fmt"
	"sort"

	"github.com/dhamidi/jvmsym/raw"
	"github.com/dhamidi/jvmsym/symbol"
	"github.com/dominikbraun/graph"
)

var ErrNotFound = errors.New("symbol not in graph")

// Node is a vertex. Declared is false for names that are only referenced,
// such as library classes outside the scanned input.
type Node struct {
	Key      string
	Name     symbol.FullyQualifiedName
	Declared bool
}

// Graph is immutable once built and safe for concurrent queries.
type Graph struct {
	g    graph.Graph[string, *Node]
	succ map[string]map[string]graph.Edge[string]
	pred map[string]map[string]graph.Edge[string]
}

type declaration struct {
	name symbol.FullyQualifiedName
	refs *symbol.RefSet
}

func declarations(classes []*raw.Classfile) []declaration {
	var decls []declaration
	for _, c := range classes {
		decls = append(decls, declaration{c.Name, c.InternalRefs})
		for i := range c.Fields {
			decls = append(decls, declaration{c.Fields[i].Name, c.Fields[i].InternalRefs})
		}
		for i := range c.Methods {
			decls = append(decls, declaration{c.Methods[i].Name, c.Methods[i].InternalRefs})
		}
	}
	return decls
}

// Build adds every declared symbol before any reference so that a symbol
// both declared and referenced is marked Declared. Self references are
// dropped.
func Build(classes []*raw.Classfile) (*Graph, error) {
	g := graph.New(func(n *Node) string { return n.Key }, graph.Directed())
	decls := declarations(classes)

	for _, d := range decls {
		if err := addVertex(g, d.name, true); err != nil {
			return nil, err
		}
	}
	for _, d := range decls {
		from := symbol.Key(d.name)
		for _, ref := range d.refs.Sorted() {
			to := symbol.Key(ref)
			if to == from {
				continue
			}
			if err := addVertex(g, ref, false); err != nil {
				return nil, err
			}
			err := g.AddEdge(from, to)
			if err != nil && !errors.Is(err, graph.ErrEdgeAlreadyExists) {
				return nil, fmt.Errorf("add edge %s -> %s: %w", from, to, err)
			}
		}
	}

	succ, err := g.AdjacencyMap()
	if err != nil {
		return nil, err
	}
	pred, err := g.PredecessorMap()
	if err != nil {
		return nil, err
	}
	return &Graph{g: g, succ: succ, pred: pred}, nil
}

func addVertex(g graph.Graph[string, *Node], name symbol.FullyQualifiedName, declared bool) error {
	err := g.AddVertex(&Node{Key: symbol.Key(name), Name: name, Declared: declared})
	if err != nil && !errors.Is(err, graph.ErrVertexAlreadyExists) {
		return fmt.Errorf("add vertex %s: %w", symbol.Key(name), err)
	}
	return nil
}

func (g *Graph) Len() int {
	return len(g.succ)
}

func (g *Graph) Node(name symbol.FullyQualifiedName) (*Node, bool) {
	n, err := g.g.Vertex(symbol.Key(name))
	if err != nil {
		return nil, false
	}
	return n, true
}

// ReferencedBy returns the symbols whose bodies reference name directly,
// ordered by key.
func (g *Graph) ReferencedBy(name symbol.FullyQualifiedName) ([]*Node, error) {
	return g.neighbours(g.pred, name)
}

// References returns the names referenced directly by name, ordered by key.
func (g *Graph) References(name symbol.FullyQualifiedName) ([]*Node, error) {
	return g.neighbours(g.succ, name)
}

func (g *Graph) neighbours(m map[string]map[string]graph.Edge[string], name symbol.FullyQualifiedName) ([]*Node, error) {
	key := symbol.Key(name)
	adj, ok := m[key]
	if !ok {
		return nil, fmt.Errorf("%s: %w", key, ErrNotFound)
	}
	keys := make([]string, 0, len(adj))
	for k := range adj {
		keys = append(keys, k)
	}
	return g.nodes(keys), nil
}

// Reachable returns every name transitively referenced from name, excluding
// name itself, ordered by key.
func (g *Graph) Reachable(name symbol.FullyQualifiedName) ([]*Node, error) {
	start := symbol.Key(name)
	if _, ok := g.succ[start]; !ok {
		return nil, fmt.Errorf("%s: %w", start, ErrNotFound)
	}
	var keys []string
	err := graph.BFS(g.g, start, func(k string) bool {
		if k != start {
			keys = append(keys, k)
		}
		return false
	})
	if err != nil {
		return nil, err
	}
	return g.nodes(keys), nil
}

// ExternalReferrers returns the symbols outside outer that reference outer
// or anything it contains. For a class this covers uses of its fields,
// methods and nested classes.
func (g *Graph) ExternalReferrers(outer symbol.FullyQualifiedName) []*Node {
	seen := make(map[string]bool)
	var keys []string
	for key, preds := range g.pred {
		target, err := g.g.Vertex(key)
		if err != nil || !symbol.Contains(outer, target.Name) {
			continue
		}
		for p := range preds {
			if seen[p] {
				continue
			}
			referrer, err := g.g.Vertex(p)
			if err != nil || symbol.Contains(outer, referrer.Name) {
				continue
			}
			seen[p] = true
			keys = append(keys, p)
		}
	}
	return g.nodes(keys)
}

func (g *Graph) nodes(keys []string) []*Node {
	sort.Strings(keys)
	out := make([]*Node, 0, len(keys))
	for _, k := range keys {
		if n, err := g.g.Vertex(k); err == nil {
			out = append(out, n)
		}
	}
	return out
}
