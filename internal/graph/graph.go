package graph

import "slices"

// Edge is a directed dependency: Parent must be finished before Child.
type Edge struct {
	Parent Name
	Child  Name
}

// Graph is an immutable directed graph. Build is the only constructor;
// after that the graph is read-only, so it is safe to share across
// goroutines.
//
// Nodes exist only because an edge mentions them. Iteration order is
// first-mention order over the edge list (parent before child within one
// edge), which is the order the rendered output uses.
type Graph struct {
	order []Name
	index map[Name]struct{}
	succ  map[Name][]Name
	pred  map[Name][]Name
	edges map[Edge]struct{}
}

// Build constructs a graph from edge expressions.
// Parallel edges collapse to a single stored edge; self-loops are kept.
func Build(edges []Edge) *Graph {
	g := &Graph{
		index: make(map[Name]struct{}),
		succ:  make(map[Name][]Name),
		pred:  make(map[Name][]Name),
		edges: make(map[Edge]struct{}),
	}
	for _, e := range edges {
		g.touch(e.Parent)
		g.touch(e.Child)
		if _, dup := g.edges[e]; dup {
			continue
		}
		g.edges[e] = struct{}{}
		g.succ[e.Parent] = append(g.succ[e.Parent], e.Child)
		g.pred[e.Child] = append(g.pred[e.Child], e.Parent)
	}
	return g
}

func (g *Graph) touch(n Name) {
	if _, ok := g.index[n]; ok {
		return
	}
	g.index[n] = struct{}{}
	g.order = append(g.order, n)
}

// Nodes returns every node in first-mention order.
func (g *Graph) Nodes() []Name {
	return slices.Clone(g.order)
}

// Has reports whether n is part of the graph.
func (g *Graph) Has(n Name) bool {
	_, ok := g.index[n]
	return ok
}

// HasEdge reports whether the parent -> child edge exists.
func (g *Graph) HasEdge(parent, child Name) bool {
	_, ok := g.edges[Edge{Parent: parent, Child: child}]
	return ok
}

// Predecessors returns the direct parents of n in edge-insertion order.
func (g *Graph) Predecessors(n Name) []Name {
	return slices.Clone(g.pred[n])
}

// Successors returns the direct children of n in edge-insertion order.
func (g *Graph) Successors(n Name) []Name {
	return slices.Clone(g.succ[n])
}

// NodeCount returns the number of nodes.
func (g *Graph) NodeCount() int {
	return len(g.order)
}

// EdgeCount returns the number of distinct edges.
func (g *Graph) EdgeCount() int {
	return len(g.edges)
}
