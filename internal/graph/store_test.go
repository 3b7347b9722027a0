package graph

import (
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/codegraph/cie/internal/ids"
)

func testNode(repo, file string, kind ids.NodeKind, name string, start, end int) *Node {
	span := ids.NewSpan(start, end, 1, 1, 1, 1)
	return &Node{
		ID:       ids.NewNodeId(repo, file, ids.LanguagePython, kind, name, start, end),
		RepoID:   repo,
		Kind:     kind,
		Name:     name,
		Language: ids.LanguagePython,
		File:     file,
		Span:     span,
		Metadata: map[string]any{},
	}
}

func TestApplyPatch_AddAndIndex(t *testing.T) {
	s := New()
	mod := testNode("r", "m.py", ids.NodeKindModule, "m", 0, 10)
	fn := testNode("r", "m.py", ids.NodeKindFunction, "a", 0, 10)
	edge := Edge{Source: mod.ID, Target: fn.ID, Kind: ids.EdgeKindContains}

	p := &Patch{NodesAdd: []*Node{mod, fn}, EdgesAdd: []Edge{edge}}
	s.ApplyPatch(p)

	got, ok := s.GetNode(fn.ID)
	require.True(t, ok)
	require.Equal(t, "a", got.Name)

	require.ElementsMatch(t, []*Node{mod, fn}, s.GetNodesInFile("m.py"))
	require.ElementsMatch(t, []*Node{fn}, s.GetNodesByKind(ids.NodeKindFunction))
	require.Equal(t, []Edge{edge}, s.GetOutgoingEdges(mod.ID))
	require.Equal(t, []Edge{edge}, s.GetIncomingEdges(fn.ID))
}

func TestApplyPatch_EmptyIsNoop(t *testing.T) {
	s := New()
	mod := testNode("r", "m.py", ids.NodeKindModule, "m", 0, 10)
	s.ApplyPatch(&Patch{NodesAdd: []*Node{mod}})
	before := s.NodeCount()

	s.ApplyPatch(&Patch{})
	require.Equal(t, before, s.NodeCount())
}

func TestApplyPatch_IdempotentOnDuplicateApply(t *testing.T) {
	s := New()
	mod := testNode("r", "m.py", ids.NodeKindModule, "m", 0, 10)
	fn := testNode("r", "m.py", ids.NodeKindFunction, "a", 0, 10)
	edge := Edge{Source: mod.ID, Target: fn.ID, Kind: ids.EdgeKindContains}
	p := &Patch{NodesAdd: []*Node{mod, fn}, EdgesAdd: []Edge{edge}}

	s.ApplyPatch(p)
	s.ApplyPatch(p)

	require.Equal(t, 2, s.NodeCount())
	require.Len(t, s.GetOutgoingEdges(mod.ID), 1)
}

func TestApplyPatch_DeleteCascade(t *testing.T) {
	s := New()
	mod := testNode("r", "m.py", ids.NodeKindModule, "m", 0, 10)
	fn := testNode("r", "m.py", ids.NodeKindFunction, "a", 0, 10)
	other := testNode("r", "other.py", ids.NodeKindFunction, "b", 0, 10)
	edgeIn := Edge{Source: mod.ID, Target: fn.ID, Kind: ids.EdgeKindContains}
	edgeCross := Edge{Source: other.ID, Target: fn.ID, Kind: ids.EdgeKindCalls}

	s.ApplyPatch(&Patch{
		NodesAdd: []*Node{mod, fn, other},
		EdgesAdd: []Edge{edgeIn, edgeCross},
	})

	s.RemoveFile("m.py")

	_, ok := s.GetNode(fn.ID)
	require.False(t, ok)
	require.Empty(t, s.GetNodesInFile("m.py"))
	require.Empty(t, s.GetIncomingEdges(fn.ID))
	require.Empty(t, s.GetOutgoingEdges(other.ID))

	_, stillThere := s.GetNode(other.ID)
	require.True(t, stillThere)
}

func TestFindPath_ShortestByEdgeCount(t *testing.T) {
	s := New()
	a := testNode("r", "a.py", ids.NodeKindFunction, "a", 0, 1)
	b := testNode("r", "a.py", ids.NodeKindFunction, "b", 2, 3)
	c := testNode("r", "a.py", ids.NodeKindFunction, "c", 4, 5)
	d := testNode("r", "a.py", ids.NodeKindFunction, "d", 6, 7)

	s.ApplyPatch(&Patch{
		NodesAdd: []*Node{a, b, c, d},
		EdgesAdd: []Edge{
			{Source: a.ID, Target: b.ID, Kind: ids.EdgeKindCalls},
			{Source: b.ID, Target: d.ID, Kind: ids.EdgeKindCalls},
			{Source: a.ID, Target: c.ID, Kind: ids.EdgeKindCalls},
			{Source: c.ID, Target: d.ID, Kind: ids.EdgeKindCalls},
		},
	})

	path, ok := s.FindPath(a.ID, d.ID, 0)
	require.True(t, ok)
	require.Equal(t, 2, path.Len())
}

func TestFindDependencies_FiltersByType(t *testing.T) {
	s := New()
	a := testNode("r", "a.py", ids.NodeKindFunction, "a", 0, 1)
	b := testNode("r", "a.py", ids.NodeKindFunction, "b", 2, 3)
	c := testNode("r", "a.py", ids.NodeKindVariable, "c", 4, 5)

	s.ApplyPatch(&Patch{
		NodesAdd: []*Node{a, b, c},
		EdgesAdd: []Edge{
			{Source: a.ID, Target: b.ID, Kind: ids.EdgeKindCalls},
			{Source: a.ID, Target: c.ID, Kind: ids.EdgeKindReads},
		},
	})

	calls := s.FindDependencies(a.ID, DepCalls, 0)
	require.Len(t, calls, 1)
	require.Equal(t, b.ID, calls[0].Node)

	direct := s.FindDependencies(a.ID, DepDirect, 0)
	require.Len(t, direct, 2)
}

func TestFindReferences_InverseOfCalls(t *testing.T) {
	s := New()
	a := testNode("r", "a.py", ids.NodeKindFunction, "a", 0, 1)
	b := testNode("r", "a.py", ids.NodeKindFunction, "b", 2, 3)

	s.ApplyPatch(&Patch{
		NodesAdd: []*Node{a, b},
		EdgesAdd: []Edge{{Source: a.ID, Target: b.ID, Kind: ids.EdgeKindCalls}},
	})

	refs := s.FindReferences(b.ID)
	require.Len(t, refs, 1)
	require.Equal(t, a.ID, refs[0].Node)
}
