package graph

import (
	"time"

	"github.com/codegraph/cie/internal/ids"
)

// Patch is the in-package mirror of the AstPatch §3 data model: a
// batch of node/edge additions and deletions applied atomically to the
// Store. repo/commit/timestamp are carried for provenance but do not
// affect apply semantics.
type Patch struct {
	Repo         string
	Commit       string
	NodesAdd     []*Node
	EdgesAdd     []Edge
	NodesDelete  []ids.NodeId
	EdgesDelete  []Edge
	TimestampMs  int64
}

// IsEmpty reports whether applying p would be a no-op (testable
// property #6).
func (p *Patch) IsEmpty() bool {
	return p == nil || (len(p.NodesAdd) == 0 && len(p.EdgesAdd) == 0 &&
		len(p.NodesDelete) == 0 && len(p.EdgesDelete) == 0)
}

// Merge concatenates two patches' lists and keeps the later timestamp,
// per §3's "merging two patches concatenates lists and takes the later
// timestamp".
func Merge(a, b *Patch) *Patch {
	if a == nil {
		return b
	}
	if b == nil {
		return a
	}
	merged := &Patch{
		Repo:        a.Repo,
		Commit:      b.Commit,
		NodesAdd:    append(append([]*Node{}, a.NodesAdd...), b.NodesAdd...),
		EdgesAdd:    append(append([]Edge{}, a.EdgesAdd...), b.EdgesAdd...),
		NodesDelete: append(append([]ids.NodeId{}, a.NodesDelete...), b.NodesDelete...),
		EdgesDelete: append(append([]Edge{}, a.EdgesDelete...), b.EdgesDelete...),
		TimestampMs: a.TimestampMs,
	}
	if b.TimestampMs > merged.TimestampMs {
		merged.TimestampMs = b.TimestampMs
	}
	if merged.Repo == "" {
		merged.Repo = b.Repo
	}
	return merged
}

// NewPatch stamps a patch with the current time; used by producers
// outside the graph package (C8) that do not already carry a
// timestamp.
func NewPatch(repo, commit string) *Patch {
	return &Patch{Repo: repo, Commit: commit, TimestampMs: time.Now().UnixMilli()}
}

// ApplyPatch mutates the store per §4.5's mutation protocol: readers
// never observe a torn partial apply (held under a single write lock),
// deletions happen-before additions within the patch, and duplicate
// additions are idempotent.
func (s *Store) ApplyPatch(p *Patch) {
	if p.IsEmpty() {
		return
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	for _, e := range p.EdgesDelete {
		s.removeEdgeLocked(e)
	}
	for _, id := range p.NodesDelete {
		s.removeNodeCascadeLocked(id)
	}
	for _, n := range p.NodesAdd {
		s.addNodeLocked(n)
	}
	for _, e := range p.EdgesAdd {
		s.addEdgeLocked(e)
	}
}

// addNodeLocked inserts or overwrites n; re-adding the same NodeId is
// idempotent on the node itself. Caller must hold s.mu.
func (s *Store) addNodeLocked(n *Node) {
	if n == nil {
		return
	}
	s.nodes[n.ID] = n

	if s.fileIndex[n.File] == nil {
		s.fileIndex[n.File] = make(map[ids.NodeId]struct{})
	}
	s.fileIndex[n.File][n.ID] = struct{}{}

	if s.kindIndex[n.Kind] == nil {
		s.kindIndex[n.Kind] = make(map[ids.NodeId]struct{})
	}
	s.kindIndex[n.Kind][n.ID] = struct{}{}

	if s.outgoing[n.ID] == nil {
		s.outgoing[n.ID] = make(edgeSet)
	}
	if s.incoming[n.ID] == nil {
		s.incoming[n.ID] = make(edgeSet)
	}
}

// addEdgeLocked inserts e if both endpoints currently exist; per §3,
// edges whose endpoints do not both exist are pending C7's resolution
// and must not be inserted as dangling. Duplicate triples are
// idempotent because edgeSet is keyed by the triple itself.
func (s *Store) addEdgeLocked(e Edge) {
	if _, ok := s.nodes[e.Source]; !ok {
		return
	}
	if _, ok := s.nodes[e.Target]; !ok {
		return
	}
	s.outgoing[e.Source].add(e)
	s.incoming[e.Target].add(e)
}

func (s *Store) removeEdgeLocked(e Edge) {
	if set, ok := s.outgoing[e.Source]; ok {
		set.remove(e)
	}
	if set, ok := s.incoming[e.Target]; ok {
		set.remove(e)
	}
}

// removeNodeCascadeLocked deletes id and every edge touching it
// (testable property #7: delete cascade), taking the fast path of
// consulting outgoing/incoming rather than scanning the whole edge set.
func (s *Store) removeNodeCascadeLocked(id ids.NodeId) {
	n, ok := s.nodes[id]
	if !ok {
		return
	}

	for _, e := range s.outgoing[id].slice() {
		if other, ok := s.incoming[e.Target]; ok {
			other.remove(e)
		}
	}
	for _, e := range s.incoming[id].slice() {
		if other, ok := s.outgoing[e.Source]; ok {
			other.remove(e)
		}
	}
	delete(s.outgoing, id)
	delete(s.incoming, id)

	if set, ok := s.fileIndex[n.File]; ok {
		delete(set, id)
		if len(set) == 0 {
			delete(s.fileIndex, n.File)
		}
	}
	if set, ok := s.kindIndex[n.Kind]; ok {
		delete(set, id)
		if len(set) == 0 {
			delete(s.kindIndex, n.Kind)
		}
	}
	delete(s.nodes, id)
}

// RemoveFile removes every node currently indexed under path, cascading
// to their edges, under one write lock (§4.5 "Cascade on file removal").
// It removes the nodes directly; no Patch is built.
func (s *Store) RemoveFile(path string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	set, ok := s.fileIndex[path]
	if !ok {
		return
	}
	idList := make([]ids.NodeId, 0, len(set))
	for id := range set {
		idList = append(idList, id)
	}
	for _, id := range idList {
		s.removeNodeCascadeLocked(id)
	}
}
