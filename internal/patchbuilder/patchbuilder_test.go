package patchbuilder

import (
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/codegraph/cie/internal/graph"
	"github.com/codegraph/cie/internal/ids"
	"github.com/codegraph/cie/internal/parser"
)

func node(file string, kind ids.NodeKind, name string, start, end int) *graph.Node {
	span := ids.NewSpan(start, end, 1, 1, 1, 1)
	return &graph.Node{
		ID: ids.NewNodeId("r", file, ids.LanguagePython, kind, name, start, end),
		RepoID: "r", Kind: kind, Name: name, Language: ids.LanguagePython,
		File: file, Span: span, Metadata: map[string]any{},
	}
}

// TestBuild_S1AddFunction mirrors spec §8 scenario S1: `def a(): pass`
// reparsed as `def a(): pass\ndef b(): a()` should add node b and a
// Call node for a() inside b, replace the module node whose span grew,
// and leave a untouched.
func TestBuild_S1AddFunction(t *testing.T) {
	store := graph.New()
	mod := node("m.py", ids.NodeKindModule, "m", 0, 14)
	a := node("m.py", ids.NodeKindFunction, "a", 0, 14)
	store.ApplyPatch(&graph.Patch{
		NodesAdd: []*graph.Node{mod, a},
		EdgesAdd: []graph.Edge{{Source: mod.ID, Target: a.ID, Kind: ids.EdgeKindContains}},
	})

	bCall := node("m.py", ids.NodeKindCall, "a", 30, 33)
	b := node("m.py", ids.NodeKindFunction, "b", 15, 34)
	newMod := node("m.py", ids.NodeKindModule, "m", 0, 34)

	result := &parser.ParseResult{
		Nodes: []*graph.Node{newMod, a, b, bCall},
		Edges: []graph.Edge{
			{Source: newMod.ID, Target: a.ID, Kind: ids.EdgeKindContains},
			{Source: newMod.ID, Target: b.ID, Kind: ids.EdgeKindContains},
			{Source: b.ID, Target: bCall.ID, Kind: ids.EdgeKindContains},
		},
	}

	patch := Build(store, "r", "m.py", result, 1000)
	require.Contains(t, patch.NodesAdd, b)
	require.Contains(t, patch.NodesAdd, bCall)
	require.Contains(t, patch.NodesAdd, newMod)
	require.Contains(t, patch.NodesDelete, mod.ID)
	require.NotContains(t, patch.NodesAdd, a)
}

func TestApplyReparse_Idempotent(t *testing.T) {
	store := graph.New()
	mod := node("m.py", ids.NodeKindModule, "m", 0, 14)
	a := node("m.py", ids.NodeKindFunction, "a", 0, 14)
	result := &parser.ParseResult{
		Nodes: []*graph.Node{mod, a},
		Edges: []graph.Edge{{Source: mod.ID, Target: a.ID, Kind: ids.EdgeKindContains}},
	}

	ApplyReparse(store, "r", "m.py", result, 1000)
	firstCount := store.NodeCount()
	ApplyReparse(store, "r", "m.py", result, 2000)

	require.Equal(t, firstCount, store.NodeCount())
}
