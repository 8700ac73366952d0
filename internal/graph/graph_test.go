package graph

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func e(parent, child Name) Edge {
	return Edge{Parent: parent, Child: child}
}

func TestBuildNodeOrder(t *testing.T) {
	tests := []struct {
		name  string
		edges []Edge
		want  []Name
	}{
		{
			name:  "empty",
			edges: nil,
			want:  nil,
		},
		{
			name:  "parent before child",
			edges: []Edge{e("a", "b")},
			want:  []Name{"a", "b"},
		},
		{
			name:  "first mention wins",
			edges: []Edge{e("a", "b"), e("c", "a"), e("b", "c")},
			want:  []Name{"a", "b", "c"},
		},
		{
			name:  "self loop mentions once",
			edges: []Edge{e("x", "x"), e("x", "y")},
			want:  []Name{"x", "y"},
		},
		{
			name:  "duplicate edges do not reorder",
			edges: []Edge{e("a", "b"), e("a", "b"), e("b", "c")},
			want:  []Name{"a", "b", "c"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			g := Build(tt.edges)
			require.Equal(t, tt.want, g.Nodes())
			require.Equal(t, len(tt.want), g.NodeCount())
		})
	}
}

func TestBuildCollapsesParallelEdges(t *testing.T) {
	g := Build([]Edge{e("a", "b"), e("a", "b"), e("a", "b")})

	require.Equal(t, 1, g.EdgeCount())
	require.Equal(t, []Name{"b"}, g.Successors("a"))
	require.Equal(t, []Name{"a"}, g.Predecessors("b"))
}

func TestBuildSelfLoop(t *testing.T) {
	g := Build([]Edge{e("x", "x")})

	require.True(t, g.Has("x"))
	require.True(t, g.HasEdge("x", "x"))
	require.Equal(t, []Name{"x"}, g.Predecessors("x"))
	require.Equal(t, []Name{"x"}, g.Successors("x"))
}

func TestGraphAdjacency(t *testing.T) {
	g := Build([]Edge{
		e("koi", "feed fish"),
		e("koi", "await vet"),
		e("buy food", "feed fish"),
	})

	require.Equal(t, []Name{"feed fish", "await vet"}, g.Successors("koi"))
	require.Equal(t, []Name{"koi", "buy food"}, g.Predecessors("feed fish"))
	require.Empty(t, g.Predecessors("koi"))
	require.Empty(t, g.Successors("feed fish"))

	require.True(t, g.HasEdge("koi", "feed fish"))
	require.False(t, g.HasEdge("feed fish", "koi"))
	require.False(t, g.Has("missing"))
}

func TestGraphAccessorsReturnCopies(t *testing.T) {
	g := Build([]Edge{e("a", "b"), e("a", "c")})

	succ := g.Successors("a")
	succ[0] = "mutated"
	require.Equal(t, []Name{"b", "c"}, g.Successors("a"))

	nodes := g.Nodes()
	nodes[0] = "mutated"
	require.Equal(t, []Name{"a", "b", "c"}, g.Nodes())
}
