package graph

import (
	"sort"
	"sync"

	"github.com/codegraph/cie/internal/ids"
)

// Store is the in-memory code graph (C6): nodes keyed by NodeId, plus
// file and kind indices and adjacency lists for outgoing/incoming
// edges. One writer at a time, many concurrent readers, discipline
// mirrored on the teacher's sync.RWMutex-guarded index state.
type Store struct {
	mu sync.RWMutex

	nodes      map[ids.NodeId]*Node
	fileIndex  map[string]map[ids.NodeId]struct{}
	kindIndex  map[ids.NodeKind]map[ids.NodeId]struct{}
	outgoing   map[ids.NodeId]edgeSet
	incoming   map[ids.NodeId]edgeSet
}

// New returns an empty Store.
func New() *Store {
	return &Store{
		nodes:     make(map[ids.NodeId]*Node),
		fileIndex: make(map[string]map[ids.NodeId]struct{}),
		kindIndex: make(map[ids.NodeKind]map[ids.NodeId]struct{}),
		outgoing:  make(map[ids.NodeId]edgeSet),
		incoming:  make(map[ids.NodeId]edgeSet),
	}
}

// GetNode returns the node for id, or (nil, false) if absent.
func (s *Store) GetNode(id ids.NodeId) (*Node, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	n, ok := s.nodes[id]
	return n, ok
}

// GetNodesByKind returns all nodes of the given kind. kind_index[k] is
// maintained to equal exactly {n | n.Kind == k} (testable property #3).
func (s *Store) GetNodesByKind(kind ids.NodeKind) []*Node {
	s.mu.RLock()
	defer s.mu.RUnlock()
	set := s.kindIndex[kind]
	out := make([]*Node, 0, len(set))
	for id := range set {
		out = append(out, s.nodes[id])
	}
	return out
}

// GetNodesInFile returns all nodes whose File equals path. file_index[f]
// is maintained to equal exactly {n | n.File == f} (testable property #2).
func (s *Store) GetNodesInFile(path string) []*Node {
	s.mu.RLock()
	defer s.mu.RUnlock()
	set := s.fileIndex[path]
	out := make([]*Node, 0, len(set))
	for id := range set {
		out = append(out, s.nodes[id])
	}
	return out
}

// IterFileIndex calls fn once per indexed file path, with a snapshot of
// that file's node IDs. Iteration order is unspecified.
func (s *Store) IterFileIndex(fn func(path string, nodeIDs []ids.NodeId)) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	for path, set := range s.fileIndex {
		idList := make([]ids.NodeId, 0, len(set))
		for id := range set {
			idList = append(idList, id)
		}
		fn(path, idList)
	}
}

// GetOutgoingEdges returns a snapshot of edges leaving id.
func (s *Store) GetOutgoingEdges(id ids.NodeId) []Edge {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.outgoing[id].slice()
}

// GetIncomingEdges returns a snapshot of edges arriving at id.
func (s *Store) GetIncomingEdges(id ids.NodeId) []Edge {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.incoming[id].slice()
}

// NodeCount returns the number of nodes currently stored.
func (s *Store) NodeCount() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.nodes)
}

// sortByKindThenID orders IDs by their node's kind, then by the IDs'
// string form, giving the stable ascending-(kind,id) tie-break §4.5
// requires; an ID not in the store sorts with the zero kind.
func sortByKindThenID(s *Store, a, b ids.NodeId) bool {
	na, aok := s.nodes[a]
	nb, bok := s.nodes[b]
	var ka, kb ids.NodeKind
	if aok {
		ka = na.Kind
	}
	if bok {
		kb = nb.Kind
	}
	if ka != kb {
		return ka < kb
	}
	return a.String() < b.String()
}

var _ = sort.Strings
