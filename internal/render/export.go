package render

import (
	"encoding/json"
	"fmt"
	"strings"

	"gopkg.in/yaml.v3"

	"github.com/zjrosen/shoal/internal/classify"
	"github.com/zjrosen/shoal/internal/depfile"
	"github.com/zjrosen/shoal/internal/graph"
)

// SnapshotDTO is the machine-readable form of one pipeline run.
type SnapshotDTO struct {
	Nodes  []SnapshotNodeDTO `json:"nodes" yaml:"nodes"`
	Edges  []SnapshotEdgeDTO `json:"edges" yaml:"edges"`
	Counts SnapshotCountsDTO `json:"counts" yaml:"counts"`
}

// SnapshotNodeDTO carries one node's classification and comment.
type SnapshotNodeDTO struct {
	Name     string `json:"name" yaml:"name"`
	State    string `json:"state" yaml:"state"`
	Complete bool   `json:"complete" yaml:"complete"`
	Next     bool   `json:"next" yaml:"next"`
	Waiting  bool   `json:"waiting" yaml:"waiting"`
	Comment  string `json:"comment,omitempty" yaml:"comment,omitempty"`
}

// SnapshotEdgeDTO is one distinct dependency edge.
type SnapshotEdgeDTO struct {
	Parent string `json:"parent" yaml:"parent"`
	Child  string `json:"child" yaml:"child"`
}

// SnapshotCountsDTO summarizes the snapshot.
type SnapshotCountsDTO struct {
	Nodes    int `json:"nodes" yaml:"nodes"`
	Edges    int `json:"edges" yaml:"edges"`
	Complete int `json:"complete" yaml:"complete"`
	Next     int `json:"next" yaml:"next"`
	Waiting  int `json:"waiting" yaml:"waiting"`
}

// FromPipeline builds the snapshot DTO. Nodes follow graph order; edges
// are deduplicated in first-appearance order. Comments are exported as
// natural text rather than DOT label syntax.
func FromPipeline(doc *depfile.Document, g *graph.Graph, set *classify.Set) SnapshotDTO {
	records := set.Records()

	nodes := make([]SnapshotNodeDTO, 0, len(records))
	counts := SnapshotCountsDTO{Nodes: g.NodeCount(), Edges: g.EdgeCount()}
	for _, r := range records {
		switch {
		case r.Complete:
			counts.Complete++
		case r.Waiting:
			counts.Waiting++
		case r.Next:
			counts.Next++
		}
		nodes = append(nodes, SnapshotNodeDTO{
			Name:     r.Name.String(),
			State:    r.State().String(),
			Complete: r.Complete,
			Next:     r.Next,
			Waiting:  r.Waiting,
			Comment:  strings.Join(depfile.CommentLines(doc.Comment(r.Name)), "\n"),
		})
	}

	edges := make([]SnapshotEdgeDTO, 0, g.EdgeCount())
	seen := make(map[graph.Edge]struct{}, g.EdgeCount())
	for _, e := range doc.Edges {
		if _, dup := seen[e]; dup {
			continue
		}
		seen[e] = struct{}{}
		edges = append(edges, SnapshotEdgeDTO{Parent: e.Parent.String(), Child: e.Child.String()})
	}

	return SnapshotDTO{Nodes: nodes, Edges: edges, Counts: counts}
}

// ExportJSON writes the snapshot as indented JSON.
func (f *Formatter) ExportJSON(snap SnapshotDTO) error {
	encoder := json.NewEncoder(f.w)
	encoder.SetIndent("", "  ")
	return encoder.Encode(snap)
}

// ExportYAML writes the snapshot as YAML.
func (f *Formatter) ExportYAML(snap SnapshotDTO) error {
	encoder := yaml.NewEncoder(f.w)
	encoder.SetIndent(2)
	if err := encoder.Encode(snap); err != nil {
		return fmt.Errorf("encoding snapshot: %w", err)
	}
	return encoder.Close()
}
