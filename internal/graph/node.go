// Package graph implements the in-memory code graph (C6): nodes, edges,
// file and kind indices, and the query/mutation operations every
// downstream analysis is built on. Concurrency follows the teacher's
// sync.RWMutex discipline (e.g. internal/core/index_state.go): one
// writer at a time, many concurrent readers, never a torn read.
package graph

import (
	"github.com/codegraph/cie/internal/ids"
)

// Node is a single graph entity: a module, function, class, call site,
// or any other construct a language mapper (C4) extracts.
type Node struct {
	ID       ids.NodeId
	RepoID   string
	Kind     ids.NodeKind
	Name     string
	Language ids.Language
	File     string
	Span     ids.Span
	Metadata map[string]any
}

// Edge relates two nodes by kind. An edge has no identity of its own —
// it is identified entirely by the (Source, Target, Kind) triple, so
// inserting the same triple twice is a no-op (idempotent).
type Edge struct {
	Source ids.NodeId
	Target ids.NodeId
	Kind   ids.EdgeKind
}

// edgeSet is a set of Edge keyed by the triple for idempotent insertion.
type edgeSet map[Edge]struct{}

func (s edgeSet) add(e Edge) {
	s[e] = struct{}{}
}

func (s edgeSet) remove(e Edge) {
	delete(s, e)
}

func (s edgeSet) slice() []Edge {
	out := make([]Edge, 0, len(s))
	for e := range s {
		out = append(out, e)
	}
	return out
}
