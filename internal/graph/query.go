package graph

import (
	"sort"

	"github.com/codegraph/cie/internal/ids"
)

// Path is the result of FindPath: an ordered list of edges from src to
// dst, length equal to the BFS distance.
type Path struct {
	Edges []Edge
}

// Len returns the number of edges in the path (its distance).
func (p *Path) Len() int {
	if p == nil {
		return 0
	}
	return len(p.Edges)
}

// FindPath performs a breadth-first search by edge count from src to
// dst over outgoing edges, bounded by maxDepth when maxDepth > 0.
// Ties among equal-distance successors are broken by ascending
// (target.kind, target.id), per §4.5, to make the result deterministic.
func (s *Store) FindPath(src, dst ids.NodeId, maxDepth int) (*Path, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	if _, ok := s.nodes[src]; !ok {
		return nil, false
	}
	if _, ok := s.nodes[dst]; !ok {
		return nil, false
	}
	if src == dst {
		return &Path{}, true
	}

	type frame struct {
		id    ids.NodeId
		edges []Edge
	}

	visited := map[ids.NodeId]bool{src: true}
	queue := []frame{{id: src}}

	for len(queue) > 0 {
		cur := queue[0]
		queue = queue[1:]

		if maxDepth > 0 && len(cur.edges) >= maxDepth {
			continue
		}

		successors := s.outgoing[cur.id].slice()
		sort.Slice(successors, func(i, j int) bool {
			return sortByKindThenID(s, successors[i].Target, successors[j].Target)
		})

		for _, e := range successors {
			if visited[e.Target] {
				continue
			}
			nextEdges := append(append([]Edge{}, cur.edges...), e)
			if e.Target == dst {
				return &Path{Edges: nextEdges}, true
			}
			visited[e.Target] = true
			queue = append(queue, frame{id: e.Target, edges: nextEdges})
		}
	}

	return nil, false
}

// DependencyType selects which outgoing-edge kinds FindDependencies
// follows.
type DependencyType int

const (
	DepDirect DependencyType = iota
	DepCalls
	DepImports
	DepReads
	DepWrites
	// DepTransitive is additive to the spec's closed enumeration — an
	// engine extension (SPEC_FULL §"Dependency/path tracing
	// convenience") that walks Direct edges breadth-first to a depth
	// limit instead of stopping at the immediate neighbors.
	DepTransitive
)

// DepInfo describes one dependency edge found by FindDependencies.
type DepInfo struct {
	Node ids.NodeId
	Kind ids.EdgeKind
	Hops int
}

// FindDependencies returns the nodes id depends on, filtered by
// depType. Direct means any outgoing edge kind. Transitive performs a
// breadth-first walk of Direct edges down to maxDepth (0 means
// unbounded other than the node count already in the graph).
func (s *Store) FindDependencies(id ids.NodeId, depType DependencyType, maxDepth int) []DepInfo {
	s.mu.RLock()
	defer s.mu.RUnlock()

	if depType == DepTransitive {
		return s.transitiveDepsLocked(id, maxDepth)
	}

	var out []DepInfo
	for _, e := range s.outgoing[id].slice() {
		if !matchesDepType(e.Kind, depType) {
			continue
		}
		out = append(out, DepInfo{Node: e.Target, Kind: e.Kind, Hops: 1})
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Node.String() < out[j].Node.String() })
	return out
}

func (s *Store) transitiveDepsLocked(id ids.NodeId, maxDepth int) []DepInfo {
	visited := map[ids.NodeId]bool{id: true}
	var out []DepInfo
	frontier := []ids.NodeId{id}
	depth := 0
	for len(frontier) > 0 {
		depth++
		if maxDepth > 0 && depth > maxDepth {
			break
		}
		var next []ids.NodeId
		for _, cur := range frontier {
			for _, e := range s.outgoing[cur].slice() {
				if visited[e.Target] {
					continue
				}
				visited[e.Target] = true
				out = append(out, DepInfo{Node: e.Target, Kind: e.Kind, Hops: depth})
				next = append(next, e.Target)
			}
		}
		frontier = next
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].Hops != out[j].Hops {
			return out[i].Hops < out[j].Hops
		}
		return out[i].Node.String() < out[j].Node.String()
	})
	return out
}

func matchesDepType(k ids.EdgeKind, t DependencyType) bool {
	switch t {
	case DepDirect:
		return true
	case DepCalls:
		return k == ids.EdgeKindCalls
	case DepImports:
		return k == ids.EdgeKindImports
	case DepReads:
		return k == ids.EdgeKindReads
	case DepWrites:
		return k == ids.EdgeKindWrites
	default:
		return false
	}
}

// RefInfo describes one incoming reference found by FindReferences.
type RefInfo struct {
	Node ids.NodeId
	Kind ids.EdgeKind
}

// FindReferences returns the inverse of outgoing Calls/References
// edges: every node that calls or references id.
func (s *Store) FindReferences(id ids.NodeId) []RefInfo {
	s.mu.RLock()
	defer s.mu.RUnlock()

	var out []RefInfo
	for _, e := range s.incoming[id].slice() {
		if e.Kind != ids.EdgeKindCalls && e.Kind != ids.EdgeKindReferences {
			continue
		}
		out = append(out, RefInfo{Node: e.Source, Kind: e.Kind})
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Node.String() < out[j].Node.String() })
	return out
}
