// Package classify derives per-node todo states from a dependency graph.
//
// Classification is a pure single pass: each node is judged only on its
// own completion mark and the marks of its direct predecessors. Nothing
// further up the ancestry is consulted, and the graph is never mutated.
package classify

import (
	"slices"

	"github.com/zjrosen/shoal/internal/graph"
)

// State is the resolved display state of a node.
type State int

const (
	// StatePending is an incomplete node with at least one incomplete
	// direct predecessor.
	StatePending State = iota
	// StateNext is an incomplete node whose direct predecessors are all
	// complete.
	StateNext
	// StateWaiting is a next node whose name carries the awaiting prefix.
	StateWaiting
	// StateComplete is a node declared complete.
	StateComplete
)

func (s State) String() string {
	switch s {
	case StatePending:
		return "pending"
	case StateNext:
		return "next"
	case StateWaiting:
		return "waiting"
	case StateComplete:
		return "complete"
	default:
		return "unknown"
	}
}

// Record is the classification of one node.
type Record struct {
	Name     graph.Name
	Complete bool
	Next     bool
	Waiting  bool
}

// State resolves the record's display state. Precedence mirrors the
// rendering rules: complete, then waiting, then next, then pending.
func (r Record) State() State {
	switch {
	case r.Complete:
		return StateComplete
	case r.Waiting:
		return StateWaiting
	case r.Next:
		return StateNext
	default:
		return StatePending
	}
}

// Set holds the classification of every node, in graph node order.
type Set struct {
	records []Record
	index   map[graph.Name]int
}

// Run classifies every node of g. completed marks the nodes declared
// complete; anything absent from the map is incomplete.
//
// A node is next when it is incomplete and every direct predecessor is
// complete (vacuously true for nodes with no predecessors). A node is
// waiting when it is next and its name carries the awaiting prefix. A
// self-loop therefore keeps an incomplete node out of next forever.
func Run(g *graph.Graph, completed map[graph.Name]bool) *Set {
	nodes := g.Nodes()
	set := &Set{
		records: make([]Record, 0, len(nodes)),
		index:   make(map[graph.Name]int, len(nodes)),
	}

	for _, n := range nodes {
		complete := completed[n]

		parentsComplete := true
		for _, p := range g.Predecessors(n) {
			if !completed[p] {
				parentsComplete = false
				break
			}
		}

		next := !complete && parentsComplete
		set.index[n] = len(set.records)
		set.records = append(set.records, Record{
			Name:     n,
			Complete: complete,
			Next:     next,
			Waiting:  next && n.IsAwaiting(),
		})
	}

	return set
}

// Records returns every record in graph node order.
func (s *Set) Records() []Record {
	return slices.Clone(s.records)
}

// Record returns the record for name.
func (s *Set) Record(name graph.Name) (Record, bool) {
	i, ok := s.index[name]
	if !ok {
		return Record{}, false
	}
	return s.records[i], true
}

// Todo returns the next-and-not-waiting names in graph order.
func (s *Set) Todo() []graph.Name {
	var names []graph.Name
	for _, r := range s.records {
		if r.Next && !r.Waiting {
			names = append(names, r.Name)
		}
	}
	return names
}

// Awaiting returns the next-and-waiting names in graph order.
func (s *Set) Awaiting() []graph.Name {
	var names []graph.Name
	for _, r := range s.records {
		if r.Next && r.Waiting {
			names = append(names, r.Name)
		}
	}
	return names
}

// Len returns the number of classified nodes.
func (s *Set) Len() int {
	return len(s.records)
}
