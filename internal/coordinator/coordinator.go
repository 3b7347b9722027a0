// Package coordinator wires the Parser Engine (C5), Graph Store (C6),
// Symbol Resolver (C7), Patch Builder (C8), File Watcher (C9), and
// Content Index (C10) into the single long-lived service the MCP
// server and CLI both drive, grounded on the teacher's
// internal/indexing.MasterIndex (the component that owns the scanner,
// watcher, and graph together and exposes one coherent API to
// internal/mcp and cmd/lci).
package coordinator

import (
	"context"
	"os"
	"path/filepath"

	"github.com/bmatcuk/doublestar/v4"
	"golang.org/x/sync/errgroup"

	"github.com/codegraph/cie/internal/config"
	"github.com/codegraph/cie/internal/content"
	cieerrors "github.com/codegraph/cie/internal/errors"
	"github.com/codegraph/cie/internal/graph"
	"github.com/codegraph/cie/internal/logging"
	"github.com/codegraph/cie/internal/parser"
	"github.com/codegraph/cie/internal/patchbuilder"
	"github.com/codegraph/cie/internal/resolver"
	"github.com/codegraph/cie/internal/watcher"
)

var log = logging.NewComponent("coordinator")

// Coordinator is the engine's single entry point: one Graph Store, one
// Content Index, one Parser Engine, and the Resolver/Watcher that keep
// them current.
type Coordinator struct {
	Config  *config.Config
	Store   *graph.Store
	Content *content.Index
	Parser  *parser.Engine
	Watcher *watcher.Watcher

	repoID string
}

// New builds a Coordinator from cfg, with a default tree-sitter
// registry covering every supported Language.
func New(cfg *config.Config, repoID string) (*Coordinator, error) {
	registry := parser.NewDefaultRegistry()
	c := &Coordinator{
		Config:  cfg,
		Store:   graph.New(),
		Content: content.New(cfg.Content.MaxChunkLines),
		Parser:  parser.NewEngine(registry),
		repoID:  repoID,
	}

	w, err := watcher.New(cfg)
	if err != nil {
		return nil, err
	}
	w.OnBatch = c.handleWatchBatch
	c.Watcher = w

	return c, nil
}

// IndexRepo performs the initial bulk parse of every file under root
// matching the config's Include/Exclude patterns (§6: "on process
// start it performs an initial bulk parse"), fanning out across the
// worker pool via ParseAll/errgroup (C5).
func (c *Coordinator) IndexRepo(ctx context.Context, root string) error {
	paths, err := c.discoverFiles(root)
	if err != nil {
		return err
	}

	contexts := make([]parser.ParseContext, 0, len(paths))
	for _, p := range paths {
		data, err := os.ReadFile(p)
		if err != nil {
			log.Warnf("skipping unreadable file %s: %v", p, err)
			continue
		}
		contexts = append(contexts, parser.ParseContext{
			RepoID: c.repoID, FilePath: p, Content: data,
		})
	}

	results := c.Parser.ParseAll(ctx, contexts)
	contentByPath := make(map[string][]byte, len(contexts))
	for _, pc := range contexts {
		contentByPath[pc.FilePath] = pc.Content
	}

	var g errgroup.Group
	for _, r := range results {
		r := r
		if r.Err != nil {
			if content.ClassifyContentType(r.Path).Kind != content.ContentKindCode {
				// No parser claims documentation/configuration files; they
				// are still content-indexed, without a tree.
				c.Content.IndexFile(r.Path, contentByPath[r.Path], nil)
				continue
			}
			log.Warnf("parse failed for %s: %v", r.Path, r.Err)
			continue
		}
		g.Go(func() error {
			patchbuilder.ApplyReparse(c.Store, c.repoID, r.Path, r.Result, 0)
			c.Content.IndexFile(r.Path, contentByPath[r.Path], r.Result.Tree)
			return nil
		})
	}
	_ = g.Wait()

	resolver.New(c.Store).ResolveAll()
	return nil
}

// discoverFiles walks root collecting files matching Include (or all
// files when Include is empty) and not matching Exclude, honoring
// Index.MaxFileSize.
func (c *Coordinator) discoverFiles(root string) ([]string, error) {
	var out []string
	err := filepath.Walk(root, func(path string, info os.FileInfo, err error) error {
		if err != nil {
			return nil
		}
		if info.IsDir() {
			if c.isExcludedDir(root, path) {
				return filepath.SkipDir
			}
			return nil
		}
		if info.Size() > c.Config.Index.MaxFileSize {
			return nil
		}
		if !c.shouldIndex(root, path) {
			return nil
		}
		out = append(out, path)
		return nil
	})
	return out, err
}

func (c *Coordinator) isExcludedDir(root, path string) bool {
	rel, err := filepath.Rel(root, path)
	if err != nil {
		rel = path
	}
	return matchesAny(c.Config.Exclude, filepath.ToSlash(rel), filepath.Base(path))
}

func (c *Coordinator) shouldIndex(root, path string) bool {
	rel, err := filepath.Rel(root, path)
	if err != nil {
		rel = path
	}
	rel = filepath.ToSlash(rel)
	if matchesAny(c.Config.Exclude, rel, filepath.Base(path)) {
		return false
	}
	if len(c.Config.Include) == 0 {
		return true
	}
	return matchesAny(c.Config.Include, rel, filepath.Base(path))
}

// ParseFile implements §6's engine.parse_file(path): a full reparse of
// path, applying the resulting patch to the store and content index.
func (c *Coordinator) ParseFile(path string) (*parser.ParseResult, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, cieerrors.NewIOError(path, "read", err)
	}
	result, err := c.Parser.ParseFile(parser.ParseContext{RepoID: c.repoID, FilePath: path, Content: data})
	if err != nil {
		return nil, err
	}
	patchbuilder.ApplyReparse(c.Store, c.repoID, path, result, 0)
	c.Content.IndexFile(path, data, result.Tree)
	return result, nil
}

// ParseIncremental implements §6's engine.parse_incremental(path): a
// reparse reusing the cached tree for path when present.
func (c *Coordinator) ParseIncremental(path string) (*parser.ParseResult, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, cieerrors.NewIOError(path, "read", err)
	}
	result, err := c.Parser.ParseIncremental(parser.ParseContext{RepoID: c.repoID, FilePath: path, Content: data})
	if err != nil {
		return nil, err
	}
	patchbuilder.ApplyReparse(c.Store, c.repoID, path, result, 0)
	c.Content.IndexFile(path, data, result.Tree)
	return result, nil
}

// ClearCache implements §6's engine.clear_cache().
func (c *Coordinator) ClearCache() {
	c.Parser.ClearCache()
}

// ResolveAll implements §6's resolver.resolve_all().
func (c *Coordinator) ResolveAll() *graph.Patch {
	return resolver.New(c.Store).ResolveAll()
}

// RemoveFile implements the delete side of a watched removal: drop the
// file's nodes from the Graph Store and its ContentNodes from the
// Content Index.
func (c *Coordinator) RemoveFile(path string) {
	patchbuilder.DeleteFile(c.Store, path)
	c.Content.RemoveFile(path)
}

// StartWatching begins watching root for changes (C9), reparsing or
// removing files as debounced batches arrive.
func (c *Coordinator) StartWatching(root string) error {
	return c.Watcher.Start(root)
}

// StopWatching halts the watcher.
func (c *Coordinator) StopWatching() error {
	return c.Watcher.Stop()
}

func (c *Coordinator) handleWatchBatch(events []watcher.ChangeEvent) {
	for _, ev := range events {
		switch ev.Type {
		case watcher.EventRemove:
			c.RemoveFile(ev.Path)
		default:
			if _, err := c.ParseIncremental(ev.Path); err != nil {
				log.Errorf("reparse failed for %s: %v", ev.Path, err)
			}
		}
	}
	c.ResolveAll()
}

func matchesAny(patterns []string, rel, base string) bool {
	for _, p := range patterns {
		trimmed := p
		if len(trimmed) > 3 && trimmed[len(trimmed)-3:] == "/**" {
			trimmed = trimmed[:len(trimmed)-3]
		}
		if ok, _ := filepath.Match(trimmed, base); ok {
			return true
		}
		if ok, _ := filepath.Match(p, rel); ok {
			return true
		}
		if ok, _ := doublestar.Match(p, rel); ok {
			return true
		}
	}
	return false
}
