// Package patchbuilder implements the Patch Builder & Applier (C8):
// given a file's prior graph state and a fresh ParseResult, it derives
// the additive/deletive AstPatch by set difference on NodeId and edge
// triple rather than an AST-to-AST diff (§4.6, §9 "incremental
// diffing without AST diff") and applies it through the Graph Store.
package patchbuilder

import (
	"github.com/codegraph/cie/internal/graph"
	"github.com/codegraph/cie/internal/ids"
	"github.com/codegraph/cie/internal/parser"
)

// Build computes the patch for file path given the store's current
// state and a fresh ParseResult, following §4.6 steps 1-5:
//  1. old_nodes/old_edges are snapshotted from the store before this
//     call (the caller must not have mutated the store for path yet).
//  2. new_nodes/new_edges come from result.
//  3-5. set difference by NodeId and by edge triple.
func Build(store *graph.Store, repo, path string, result *parser.ParseResult, timestampMs int64) *graph.Patch {
	oldNodes := store.GetNodesInFile(path)
	oldNodeIDs := make(map[ids.NodeId]struct{}, len(oldNodes))
	for _, n := range oldNodes {
		oldNodeIDs[n.ID] = struct{}{}
	}

	oldEdges := collectTouchingEdges(store, oldNodeIDs)

	newNodeIDs := make(map[ids.NodeId]struct{}, len(result.Nodes))
	for _, n := range result.Nodes {
		newNodeIDs[n.ID] = struct{}{}
	}
	newEdges := make(map[graph.Edge]struct{}, len(result.Edges))
	for _, e := range result.Edges {
		newEdges[e] = struct{}{}
	}

	patch := &graph.Patch{Repo: repo, TimestampMs: timestampMs}

	for _, n := range oldNodes {
		if _, ok := newNodeIDs[n.ID]; !ok {
			patch.NodesDelete = append(patch.NodesDelete, n.ID)
		}
	}
	for _, n := range result.Nodes {
		if _, ok := oldNodeIDs[n.ID]; !ok {
			patch.NodesAdd = append(patch.NodesAdd, n)
		}
	}
	for e := range oldEdges {
		if _, ok := newEdges[e]; !ok {
			patch.EdgesDelete = append(patch.EdgesDelete, e)
		}
	}
	for _, e := range result.Edges {
		if _, ok := oldEdges[e]; !ok {
			patch.EdgesAdd = append(patch.EdgesAdd, e)
		}
	}

	return patch
}

// collectTouchingEdges snapshots every edge with either endpoint in
// ids, using the store's outgoing/incoming indices (the fast path
// §4.5 calls for rather than scanning the whole edge set).
func collectTouchingEdges(store *graph.Store, idSet map[ids.NodeId]struct{}) map[graph.Edge]struct{} {
	out := make(map[graph.Edge]struct{})
	for id := range idSet {
		for _, e := range store.GetOutgoingEdges(id) {
			out[e] = struct{}{}
		}
		for _, e := range store.GetIncomingEdges(id) {
			out[e] = struct{}{}
		}
	}
	return out
}

// ApplyReparse builds and applies the patch for path in one call,
// stamping the patch with timestampMs.
func ApplyReparse(store *graph.Store, repo, path string, result *parser.ParseResult, timestampMs int64) *graph.Patch {
	patch := Build(store, repo, path, result, timestampMs)
	store.ApplyPatch(patch)
	return patch
}

// DeleteFile removes every node of a file that no longer exists, with
// their edges, through Store.RemoveFile (§8 S3 rename-by-move:
// Deleted(old) half).
func DeleteFile(store *graph.Store, path string) {
	store.RemoveFile(path)
}
