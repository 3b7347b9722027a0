package parser

import (
	"context"
	"path/filepath"
	"sync"

	"golang.org/x/sync/errgroup"

	cieerrors "github.com/codegraph/cie/internal/errors"
)

// Engine is the Parser Engine (C5): picks a plug-in by extension,
// injects the prior tree from its per-path cache when the caller did
// not supply one, invokes the plug-in, and caches the returned tree.
// Concurrency mirrors the teacher's per-path lock discipline (e.g.
// internal/core/file_content_store.go): concurrent parse_file calls on
// distinct paths proceed independently; calls on the same path
// serialize around that path's cache slot.
type Engine struct {
	registry *Registry

	mu    sync.Mutex
	slots map[string]*cacheSlot
}

type cacheSlot struct {
	mu   sync.Mutex
	tree *CST
}

// NewEngine returns an Engine backed by registry.
func NewEngine(registry *Registry) *Engine {
	return &Engine{registry: registry, slots: make(map[string]*cacheSlot)}
}

func (e *Engine) slotFor(path string) *cacheSlot {
	e.mu.Lock()
	defer e.mu.Unlock()
	slot, ok := e.slots[path]
	if !ok {
		slot = &cacheSlot{}
		e.slots[path] = slot
	}
	return slot
}

// ParseFile resolves the plug-in by ctx.FilePath's extension, supplies
// the cached tree for that path as OldTree when the caller did not
// already set one, parses, and updates the cache. Failure modes match
// §4.4: no extension on the path fails with a Parse error; an unknown
// extension fails with a Validation error carrying the extension;
// plug-in failure propagates as a Parse error and leaves the cache
// unchanged.
func (e *Engine) ParseFile(ctx ParseContext) (*ParseResult, error) {
	ext := filepath.Ext(ctx.FilePath)
	if ext == "" {
		return nil, cieerrors.NewParseError(ctx.FilePath, "path has no extension")
	}

	plugin, ok := e.registry.GetByExtension(ext)
	if !ok {
		return nil, cieerrors.NewValidationError("extension", "no parser registered for extension", ext)
	}

	slot := e.slotFor(ctx.FilePath)
	slot.mu.Lock()
	defer slot.mu.Unlock()

	if ctx.OldTree == nil {
		ctx.OldTree = slot.tree
	}

	result, err := plugin.Parse(ctx)
	if err != nil {
		return nil, err
	}

	slot.tree = result.Tree
	return result, nil
}

// ParseIncremental is ParseFile with the intent made explicit at the
// call site: the caller is expected to have already populated the
// per-path cache slot from a prior ParseFile/ParseIncremental call on
// the same path, so this reparse reuses that tree.
func (e *Engine) ParseIncremental(ctx ParseContext) (*ParseResult, error) {
	return e.ParseFile(ctx)
}

// ClearCache drops every cached tree.
func (e *Engine) ClearCache() {
	e.mu.Lock()
	defer e.mu.Unlock()
	e.slots = make(map[string]*cacheSlot)
}

// RemoveFromCache drops the cached tree for one path, e.g. after the
// file is deleted.
func (e *Engine) RemoveFromCache(path string) {
	e.mu.Lock()
	defer e.mu.Unlock()
	delete(e.slots, path)
}

// BatchResult pairs a file path with its outcome, used by ParseAll to
// report partial success (§7: "a failed bulk parse of N files still
// indexes the N-k that succeeded and reports the k failures").
type BatchResult struct {
	Path   string
	Result *ParseResult
	Err    error
}

// ParseAll fans a batch of ParseContexts out across the worker pool
// via errgroup, the way the teacher's indexing pipeline parallelizes
// bulk parsing, and always returns one BatchResult per input context
// regardless of individual failures.
func (e *Engine) ParseAll(ctx context.Context, contexts []ParseContext) []BatchResult {
	results := make([]BatchResult, len(contexts))
	g, _ := errgroup.WithContext(ctx)

	for i, pc := range contexts {
		i, pc := i, pc
		g.Go(func() error {
			result, err := e.ParseFile(pc)
			results[i] = BatchResult{Path: pc.FilePath, Result: result, Err: err}
			return nil
		})
	}

	_ = g.Wait()
	return results
}
